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
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLexTokens(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []token
	}{
		{
			name: "Empty",
			text: "",
			want: []token{
				{kind: tokEOF},
			},
		},
		{
			name: "Word",
			text: "hello",
			want: []token{
				{kind: tokWord, symbol: "hello"},
				{kind: tokEOF, col: 5},
			},
		},
		{
			name: "Words",
			text: "a b",
			want: []token{
				{kind: tokWord, symbol: "a"},
				{kind: tokWhite, symbol: " ", col: 1},
				{kind: tokWord, symbol: "b", col: 2},
				{kind: tokEOF, col: 3},
			},
		},
		{
			name: "Emphasis",
			text: "*hello*",
			want: []token{
				{kind: tokPunct, symbol: "*"},
				{kind: tokWord, symbol: "hello", col: 1},
				{kind: tokPunct, symbol: "*", col: 6},
				{kind: tokEOF, col: 7},
			},
		},
		{
			name: "AdornmentReclassified",
			text: "===",
			want: []token{
				{kind: tokPunct, symbol: "==="},
				{kind: tokEOF, col: 3},
			},
		},
		{
			name: "Adornment",
			text: "====",
			want: []token{
				{kind: tokAdornment, symbol: "===="},
				{kind: tokEOF, col: 4},
			},
		},
		{
			name: "Indent",
			text: "x\n  y",
			want: []token{
				{kind: tokWord, symbol: "x"},
				{kind: tokIndent, symbol: "\n  ", ival: 2, line: 1},
				{kind: tokWord, symbol: "y", line: 1, col: 2},
				{kind: tokEOF, line: 1, col: 3},
			},
		},
		{
			name: "BlankLineTakesNextIndent",
			text: "a\n\n  b",
			want: []token{
				{kind: tokWord, symbol: "a"},
				{kind: tokIndent, symbol: "\n  ", ival: 2, line: 1},
				{kind: tokIndent, symbol: "\n  ", ival: 2, line: 2},
				{kind: tokWord, symbol: "b", line: 2, col: 2},
				{kind: tokEOF, line: 2, col: 3},
			},
		},
		{
			name: "TrailingSpaceFoldsIntoIndent",
			text: "a \nb",
			want: []token{
				{kind: tokWord, symbol: "a"},
				{kind: tokIndent, symbol: "\n", line: 1},
				{kind: tokWord, symbol: "b", line: 1},
				{kind: tokEOF, line: 1, col: 1},
			},
		},
		{
			name: "CarriageReturn",
			text: "a\r\nb",
			want: []token{
				{kind: tokWord, symbol: "a"},
				{kind: tokIndent, symbol: "\n", line: 1},
				{kind: tokWord, symbol: "b", line: 1},
				{kind: tokEOF, line: 1, col: 1},
			},
		},
		{
			name: "Tab",
			text: "a\n\tb",
			want: []token{
				{kind: tokWord, symbol: "a"},
				{kind: tokIndent, symbol: "\n        ", ival: 8, line: 1},
				{kind: tokWord, symbol: "b", line: 1, col: 8},
				{kind: tokEOF, line: 1, col: 9},
			},
		},
		{
			name: "LeadingWhiteBecomesIndent",
			text: "  a",
			want: []token{
				{kind: tokIndent, symbol: "\n  ", ival: 2},
				{kind: tokWord, symbol: "a", col: 2},
				{kind: tokEOF, col: 3},
			},
		},
		{
			name: "BOM",
			text: "\xEF\xBB\xBFa",
			want: []token{
				{kind: tokWord, symbol: "a"},
				{kind: tokEOF, col: 1},
			},
		},
		{
			name: "NUL",
			text: "a\x00b",
			want: []token{
				{kind: tokWord, symbol: "a"},
				{kind: tokEOF, col: 1},
			},
		},
		{
			name: "HighBytesJoinWords",
			text: "aé",
			want: []token{
				{kind: tokWord, symbol: "aé"},
				{kind: tokEOF, col: 3},
			},
		},
		{
			name: "Other",
			text: "a\x01",
			want: []token{
				{kind: tokWord, symbol: "a"},
				{kind: tokOther, symbol: "\x01", col: 1},
				{kind: tokEOF, col: 2},
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, consumed := lexTokens(test.text, false, nil)
			if consumed != 0 {
				t.Errorf("lexTokens(%q) consumed = %d; want 0", test.text, consumed)
			}
			if diff := cmp.Diff(test.want, got, cmp.AllowUnexported(token{})); diff != "" {
				t.Errorf("lexTokens(%q) (-want +got):\n%s", test.text, diff)
			}
		})
	}
}

func TestLexTokensSkipPounds(t *testing.T) {
	got, consumed := lexTokens("#  x\n# y", true, nil)
	if want := 3; consumed != want {
		t.Errorf("consumed = %d; want %d", consumed, want)
	}
	want := []token{
		{kind: tokWord, symbol: "x"},
		{kind: tokIndent, symbol: "\n", line: 1},
		{kind: tokWord, symbol: "y", line: 1},
		{kind: tokEOF, line: 1},
	}
	if diff := cmp.Diff(want, got, cmp.AllowUnexported(token{})); diff != "" {
		t.Errorf("lexTokens (-want +got):\n%s", diff)
	}
}

func TestLexTokensAppend(t *testing.T) {
	dst, _ := lexTokens("a", false, nil)
	got, _ := lexTokens("b", false, dst)
	if len(got) != 4 {
		t.Fatalf("len(tokens) = %d; want 4", len(got))
	}
	if got[2].kind != tokWord || got[2].symbol != "b" {
		t.Errorf("appended token = %v %q; want Word \"b\"", got[2].kind, got[2].symbol)
	}
}

func FuzzLexTokens(f *testing.F) {
	f.Add("hello world\n")
	f.Add("Title\n=====\n\nbody\n")
	f.Add("* a\n* b\n")
	f.Add("  indented\n\tmore\n")
	f.Add(".. code-block:: nim\n\n   echo \"hi\"\n")
	f.Add("\xEF\xBB\xBF#x\n")

	f.Fuzz(func(t *testing.T, text string) {
		tokens, _ := lexTokens(text, false, nil)
		if len(tokens) == 0 {
			t.Fatal("no tokens")
		}
		for i, tok := range tokens {
			if tok.kind == tokEOF && i != len(tokens)-1 {
				t.Errorf("tokens[%d] is EOF before end of stream", i)
			}
			if tok.kind == tokIndent {
				if tok.ival < 0 {
					t.Errorf("tokens[%d].ival = %d; want >= 0", i, tok.ival)
				}
				if want := "\n" + strings.Repeat(" ", tok.ival); tok.symbol != want {
					t.Errorf("tokens[%d].symbol = %q; want %q", i, tok.symbol, want)
				}
			}
		}
		if last := tokens[len(tokens)-1]; last.kind != tokEOF {
			t.Errorf("last token = %v; want EOF", last.kind)
		}
	})
}
