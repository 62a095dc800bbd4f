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
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"zombiezen.com/go/rst/internal/normhtml"
)

func TestRenderHTML(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		options Options
		want    string
	}{
		{
			name: "Paragraph",
			text: "*hi* there",
			want: "<p><em>hi</em> there</p>",
		},
		{
			name: "Heading",
			text: "Title\n=====\n\nbody\n",
			want: "<h1>Title</h1><p>body</p>",
		},
		{
			name: "SecondLevelHeading",
			text: "A\n=====\n\nB\n-----\n\nbody\n",
			want: "<h1>A</h1><h2>B</h2><p>body</p>",
		},
		{
			name: "BulletList",
			text: "* a\n* b\n",
			want: "<ul><li><p>a</p></li><li><p>b</p></li></ul>",
		},
		{
			name: "EnumList",
			text: "1. a\n2. b\n",
			want: "<ol><li><p>a</p></li><li><p>b</p></li></ol>",
		},
		{
			name: "Strong",
			text: "**hi**",
			want: "<p><strong>hi</strong></p>",
		},
		{
			name: "TripleEmphasis",
			text: "***hi***",
			want: "<p><em><strong>hi</strong></em></p>",
		},
		{
			name: "InlineLiteral",
			text: "``x < y``",
			want: "<p><code>x &lt; y</code></p>",
		},
		{
			name: "Hyperlink",
			text: ".. _l: http://x.y\n\nsee l_.\n",
			want: `<p>see <a href="http://x.y">l</a>.</p>`,
		},
		{
			name: "StandaloneHyperlink",
			text: "go to http://x.y now\n",
			want: `<p>go to <a href="http://x.y">http://x.y</a> now</p>`,
		},
		{
			name: "Transition",
			text: "a\n\n=====\n\nb\n",
			want: "a<hr><p>b</p>",
		},
		{
			name: "BlockQuote",
			text: "a\n\n   quoted\n",
			want: "a<blockquote><p>quoted</p></blockquote>",
		},
		{
			name: "DefList",
			text: "term\n  def\n",
			want: "<dl><dt>term</dt><dd><p>def</p></dd></dl>",
		},
		{
			name: "Image",
			text: ".. image:: pic.png\n",
			want: `<img src="pic.png">`,
		},
		{
			name: "Subscript",
			text: "H\\ `2`:sub:\\ O",
			want: "<p>H<sub>2</sub>O</p>",
		},
		{
			name: "RawHTML",
			text: ".. raw:: html\n\n   <b>x</b>\n",
			options: SupportRawDirective,
			want: "<b>x</b>",
		},
		{
			name: "Smiley",
			text: "hi :)\n",
			options: SupportSmilies,
			want: `<p>hi <img alt="icon_e_smile" class="smiley" src="icon_e_smile.gif"></p>`,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			doc := mustParse(t, test.text, test.options)
			buf := new(bytes.Buffer)
			if err := RenderHTML(buf, doc); err != nil {
				t.Fatal("RenderHTML:", err)
			}
			got := normhtml.NormalizeHTML(buf.String())
			want := normhtml.NormalizeHTML(test.want)
			if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("Input:\n%s\nOutput (-want +got):\n%s", test.text, diff)
			}
		})
	}
}

func TestRenderHTMLTable(t *testing.T) {
	const text = "====  ====\n" +
		"A     B\n" +
		"====  ====\n" +
		"1     2\n" +
		"====  ====\n"
	doc := mustParse(t, text, 0)
	buf := new(bytes.Buffer)
	if err := RenderHTML(buf, doc); err != nil {
		t.Fatal("RenderHTML:", err)
	}
	got := normhtml.NormalizeHTML(buf.String())
	want := normhtml.NormalizeHTML(
		"<table><tr><th><p>A</p></th><th><p>B</p></th></tr>" +
			"<tr><td><p>1</p></td><td><p>2</p></td></tr></table>")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("table output (-want +got):\n%s", diff)
	}
}

func TestRenderHTMLCodeBlock(t *testing.T) {
	doc := mustParse(t, ".. code-block:: go\n\n   x := 1\n", 0)
	buf := new(bytes.Buffer)
	if err := RenderHTML(buf, doc); err != nil {
		t.Fatal("RenderHTML:", err)
	}
	got := buf.String()
	if !strings.Contains(got, "<pre") {
		t.Errorf("output %q; want a <pre> block", got)
	}
	if !strings.Contains(got, "1") {
		t.Errorf("output %q; want code text", got)
	}
}

func TestRenderHTMLUnsupportedLanguage(t *testing.T) {
	doc := mustParse(t, ".. code-block:: nosuchlanguage\n\n   body text\n", 0)
	var msgs []testMsg
	r := &HTMLRenderer{Msg: collectMsgs(&msgs), Filename: "test.rst"}
	buf := new(bytes.Buffer)
	if err := r.Render(buf, doc); err != nil {
		t.Fatal("Render:", err)
	}
	found := false
	for _, m := range msgs {
		if m.Kind == MsgUnsupportedLanguage && m.Arg == "nosuchlanguage" {
			found = true
		}
	}
	if !found {
		t.Errorf("diagnostics = %v; want unsupported language", msgs)
	}
	if got := buf.String(); !strings.Contains(got, "body text") {
		t.Errorf("output %q; want plain fallback with body text", got)
	}
}

func TestRenderHTMLIgnoreRaw(t *testing.T) {
	doc := mustParse(t, ".. raw:: html\n\n   <script>x</script>\n", SupportRawDirective)
	r := &HTMLRenderer{IgnoreRaw: true}
	buf := new(bytes.Buffer)
	if err := r.Render(buf, doc); err != nil {
		t.Fatal("Render:", err)
	}
	if got := buf.String(); strings.Contains(got, "script") {
		t.Errorf("output %q; want raw HTML skipped", got)
	}
}
