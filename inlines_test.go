// Copyright 2024 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package rst

import (
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func testParser(text string) *parser {
	p := newParser(newSharedState(0, nil, NewMsgHandler(io.Discard)))
	p.tok, _ = lexTokens(text, false, nil)
	return p
}

func TestIsInlineMarkupStart(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		idx    int
		markup string
		want   bool
	}{
		{name: "StartOfText", text: "**b", idx: 0, markup: "**", want: true},
		{name: "AfterWord", text: "a**b", idx: 1, markup: "**", want: false},
		{name: "AfterOpener", text: "-**b", idx: 1, markup: "**", want: true},
		{name: "AfterWhite", text: "a **b", idx: 2, markup: "**", want: true},
		{name: "BeforeWhite", text: "** b", idx: 0, markup: "**", want: false},
		{name: "MatchingBracketPair", text: "(**)x", idx: 1, markup: "**", want: false},
		{name: "BracketNoPair", text: "(**x)", idx: 1, markup: "**", want: true},
		{name: "WrongSymbol", text: "*b", idx: 0, markup: "**", want: false},
		{name: "AtEOF", text: "**", idx: 0, markup: "**", want: false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := testParser(test.text)
			p.idx = test.idx
			if got := p.isInlineMarkupStart(test.markup); got != test.want {
				t.Errorf("isInlineMarkupStart(%q) at %d in %q = %t; want %t",
					test.markup, test.idx, test.text, got, test.want)
			}
		})
	}
}

func TestIsInlineMarkupEnd(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		idx    int
		markup string
		want   bool
	}{
		{name: "BeforeEOF", text: "a*", idx: 1, markup: "*", want: true},
		{name: "BeforeWhite", text: "a* b", idx: 1, markup: "*", want: true},
		{name: "BeforeWord", text: "a*b", idx: 1, markup: "*", want: false},
		{name: "BeforeCloser", text: "a*.", idx: 1, markup: "*", want: true},
		{name: "AfterWhite", text: "a *b", idx: 2, markup: "*", want: false},
		{name: "AfterBackslash", text: `a\*`, idx: 2, markup: "*", want: false},
		{name: "LiteralIgnoresBackslash", text: "a\\``", idx: 2, markup: "``", want: true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			p := testParser(test.text)
			p.idx = test.idx
			if got := p.isInlineMarkupEnd(test.markup); got != test.want {
				t.Errorf("isInlineMarkupEnd(%q) at %d in %q = %t; want %t",
					test.markup, test.idx, test.text, got, test.want)
			}
		})
	}
}

func TestRoles(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "Strong",
			text: "`x`:strong:",
			want: "Paragraph\n" +
				"  StrongEmphasis\n" +
				"    Leaf \"x\"\n",
		},
		{
			name: "Emphasis",
			text: "`x`:emphasis:",
			want: "Paragraph\n" +
				"  Emphasis\n" +
				"    Leaf \"x\"\n",
		},
		{
			name: "Idx",
			text: "`x`:idx:",
			want: "Paragraph\n" +
				"  Idx\n" +
				"    Leaf \"x\"\n",
		},
		{
			name: "Literal",
			text: "`x`:literal:",
			want: "Paragraph\n" +
				"  InlineLiteral\n" +
				"    Leaf \"x\"\n",
		},
		{
			name: "Subscript",
			text: "`x`:sub:",
			want: "Paragraph\n" +
				"  Sub\n" +
				"    Leaf \"x\"\n",
		},
		{
			name: "Superscript",
			text: "`x`:sup:",
			want: "Paragraph\n" +
				"  Sup\n" +
				"    Leaf \"x\"\n",
		},
		{
			name: "General",
			text: "`x`:custom:",
			want: "Paragraph\n" +
				"  GeneralRole\n" +
				"    Inner\n" +
				"      Leaf \"x\"\n" +
				"    Leaf \"custom\"\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc := mustParse(t, test.text, 0)
			if diff := cmp.Diff(test.want, dumpTree(doc)); diff != "" {
				t.Errorf("Parse(%q) tree (-want +got):\n%s", test.text, diff)
			}
		})
	}
}

func TestBackslash(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "EscapedPunct",
			text: `a\*b`,
			want: "Paragraph\n" +
				"  Leaf \"a\"\n" +
				"  Leaf \"*\"\n" +
				"  Leaf \"b\"\n",
		},
		{
			name: "DoubleBackslash",
			text: `a\\b`,
			want: "Paragraph\n" +
				"  Leaf \"a\"\n" +
				"  Leaf \"\\\\\"\n" +
				"  Leaf \"b\"\n",
		},
		{
			name: "LoneBackslashAtEOF",
			text: `a\`,
			want: "Paragraph\n" +
				"  Leaf \"a\"\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc := mustParse(t, test.text, 0)
			if diff := cmp.Diff(test.want, dumpTree(doc)); diff != "" {
				t.Errorf("Parse(%q) tree (-want +got):\n%s", test.text, diff)
			}
		})
	}
}

func TestUnclosedMarkup(t *testing.T) {
	_, _, err := Parse("*abc\n\nx\n", "test.rst", 0, 0, 0, nil, nil)
	if err == nil {
		t.Fatal("Parse succeeded; want expected-closer error")
	}
	var parseErr *Error
	if !errors.As(err, &parseErr) {
		t.Fatalf("error type = %T; want *Error", err)
	}
	if parseErr.Kind != MsgExpected {
		t.Errorf("Kind = %v; want %v", parseErr.Kind, MsgExpected)
	}
	if parseErr.Arg != "*" {
		t.Errorf("Arg = %q; want %q", parseErr.Arg, "*")
	}
}
