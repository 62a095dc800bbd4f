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
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/alecthomas/chroma"
	chromahtml "github.com/alecthomas/chroma/formatters/html"
	"github.com/alecthomas/chroma/lexers"
	"github.com/alecthomas/chroma/styles"
	"golang.org/x/net/html/atom"
)

// An HTMLRenderer converts parsed document trees into HTML.
//
// # Security considerations
//
// Documents parsed with [SupportRawDirective] may carry raw HTML,
// which can introduce [Cross-Site Scripting (XSS)] vulnerabilities
// when used with untrusted inputs.
// Either disable the raw directive at parse time,
// set IgnoreRaw, or sanitize the output.
//
// [Cross-Site Scripting (XSS)]: https://owasp.org/www-community/attacks/xss/
type HTMLRenderer struct {
	// HighlightStyle names the chroma style used for code blocks.
	// An empty or unknown name selects the fallback style.
	HighlightStyle string
	// If IgnoreRaw is true, the renderer skips raw HTML nodes.
	IgnoreRaw bool
	// Msg receives renderer diagnostics, such as a code block in a
	// language with no highlighter. A nil Msg discards them.
	Msg MsgHandler
	// Filename is reported in renderer diagnostics.
	Filename string
}

// RenderHTML writes doc to w as HTML
// using the default options for [HTMLRenderer].
// It will return the first error encountered, if any.
func RenderHTML(w io.Writer, doc *Node) error {
	return new(HTMLRenderer).Render(w, doc)
}

// Render writes doc to w as HTML.
// It will return the first error encountered, if any.
func (r *HTMLRenderer) Render(w io.Writer, doc *Node) error {
	if _, err := w.Write(r.AppendNode(nil, doc)); err != nil {
		return fmt.Errorf("render rst to html: %w", err)
	}
	return nil
}

// AppendNode appends the rendered HTML of a document tree to dst
// and returns the resulting byte slice.
func (r *HTMLRenderer) AppendNode(dst []byte, n *Node) []byte {
	state := &renderState{
		HTMLRenderer: r,
		dst:          dst,
	}
	state.node(n)
	return state.dst
}

type renderState struct {
	*HTMLRenderer
	dst []byte
}

func (r *renderState) openTag(name atom.Atom) {
	r.dst = append(r.dst, '<')
	r.dst = append(r.dst, name.String()...)
	r.dst = append(r.dst, '>')
}

func (r *renderState) openTagAttr(name atom.Atom) {
	r.dst = append(r.dst, '<')
	r.dst = append(r.dst, name.String()...)
}

func (r *renderState) closeTag(name atom.Atom) {
	r.dst = append(r.dst, "</"...)
	r.dst = append(r.dst, name.String()...)
	r.dst = append(r.dst, '>')
}

func (r *renderState) text(s string) {
	r.dst = append(r.dst, html.EscapeString(s)...)
}

func (r *renderState) children(n *Node) {
	for _, c := range n.Children {
		r.node(c)
	}
}

func (r *renderState) wrap(name atom.Atom, n *Node) {
	r.openTag(name)
	r.children(n)
	r.closeTag(name)
}

func (r *renderState) warn(kind MsgKind, arg string) {
	if r.Msg != nil {
		r.Msg(r.Filename, 0, 0, kind, arg)
	}
}

func headingAtom(level int) atom.Atom {
	switch level {
	case 1:
		return atom.H1
	case 2:
		return atom.H2
	case 3:
		return atom.H3
	case 4:
		return atom.H4
	case 5:
		return atom.H5
	default:
		return atom.H6
	}
}

func (r *renderState) node(n *Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case LeafKind:
		r.text(n.Text)
	case InnerKind, DefItemKind, OptionListItemKind, IndexKind,
		SubstitutionReferencesKind, RefKind:
		// Unresolved references and substitutions render as their text.
		r.children(n)
	case ParagraphKind:
		r.wrap(atom.P, n)
	case HeadlineKind, OverlineKind:
		r.wrap(headingAtom(n.Level), n)
	case TransitionKind:
		r.openTag(atom.Hr)
	case EmphasisKind, InterpretedTextKind:
		r.wrap(atom.Em, n)
	case StrongEmphasisKind:
		r.wrap(atom.Strong, n)
	case TripleEmphasisKind:
		r.openTag(atom.Em)
		r.wrap(atom.Strong, n)
		r.closeTag(atom.Em)
	case InlineLiteralKind, IdxKind:
		r.wrap(atom.Code, n)
	case SubKind:
		r.wrap(atom.Sub, n)
	case SupKind:
		r.wrap(atom.Sup, n)
	case SmileyKind:
		r.openTagAttr(atom.Img)
		r.dst = append(r.dst, ` class="smiley" src="`...)
		r.text(n.Text + ".gif")
		r.dst = append(r.dst, `" alt="`...)
		r.text(n.Text)
		r.dst = append(r.dst, `">`...)
	case GeneralRoleKind:
		r.openTagAttr(atom.Span)
		r.dst = append(r.dst, ` class="`...)
		r.text(n.Child(1).InnerText())
		r.dst = append(r.dst, `">`...)
		r.node(n.Child(0))
		r.closeTag(atom.Span)
	case LiteralBlockKind:
		r.openTag(atom.Pre)
		r.text(n.InnerText())
		r.closeTag(atom.Pre)
	case CodeBlockKind:
		r.codeBlock(n)
	case BulletListKind:
		r.wrap(atom.Ul, n)
	case EnumListKind:
		r.wrap(atom.Ol, n)
	case BulletItemKind, EnumItemKind, LineBlockItemKind:
		r.wrap(atom.Li, n)
	case DefListKind, OptionListKind:
		r.wrap(atom.Dl, n)
	case DefNameKind:
		r.wrap(atom.Dt, n)
	case DefBodyKind, DescriptionKind:
		r.wrap(atom.Dd, n)
	case OptionGroupKind:
		r.openTag(atom.Dt)
		r.wrap(atom.Code, n)
		r.closeTag(atom.Dt)
	case FieldListKind:
		r.openTag(atom.Table)
		r.openTag(atom.Tbody)
		r.children(n)
		r.closeTag(atom.Tbody)
		r.closeTag(atom.Table)
	case FieldKind:
		r.wrap(atom.Tr, n)
	case FieldNameKind:
		r.wrap(atom.Th, n)
	case FieldBodyKind:
		r.wrap(atom.Td, n)
	case LineBlockKind:
		r.openTagAttr(atom.Ul)
		r.dst = append(r.dst, ` class="line-block">`...)
		r.children(n)
		r.closeTag(atom.Ul)
	case BlockQuoteKind:
		r.wrap(atom.Blockquote, n)
	case TableKind:
		r.wrap(atom.Table, n)
	case TableRowKind:
		r.wrap(atom.Tr, n)
	case TableDataCellKind:
		r.wrap(atom.Td, n)
	case TableHeaderCellKind:
		r.wrap(atom.Th, n)
	case HyperlinkKind:
		r.anchor(n.Child(1).InnerText(), n.Child(0))
	case StandaloneHyperlinkKind:
		r.anchor(n.InnerText(), n)
	case DirectiveKind:
		r.node(n.Child(2))
	case ImageKind:
		r.image(n)
	case FigureKind:
		r.openTag(atom.Figure)
		r.image(n)
		if body := n.Child(2); body != nil {
			r.openTag(atom.Figcaption)
			r.node(body)
			r.closeTag(atom.Figcaption)
		}
		r.closeTag(atom.Figure)
	case TitleKind:
		r.openTag(atom.H1)
		r.node(n.Child(0))
		r.closeTag(atom.H1)
	case ContentsKind:
		// The table of contents is the consumer's concern.
	case ContainerKind:
		r.openTag(atom.Div)
		r.node(n.Child(2))
		r.closeTag(atom.Div)
	case RawHtmlKind:
		if !r.IgnoreRaw {
			if body := n.Child(2); body != nil {
				r.dst = append(r.dst, body.InnerText()...)
			}
		}
	case RawLatexKind, RawKind, GridTableKind:
		// Nothing to render in HTML.
	default:
		r.children(n)
	}
}

func (r *renderState) anchor(href string, label *Node) {
	r.openTagAttr(atom.A)
	r.dst = append(r.dst, ` href="`...)
	r.text(href)
	r.dst = append(r.dst, `">`...)
	r.children(label)
	r.closeTag(atom.A)
}

func (r *renderState) image(n *Node) {
	r.openTagAttr(atom.Img)
	r.dst = append(r.dst, ` src="`...)
	r.text(n.Child(0).InnerText())
	r.dst = append(r.dst, `"`...)
	if alt := getFieldValue(n, "alt"); alt != "" {
		r.dst = append(r.dst, ` alt="`...)
		r.text(alt)
		r.dst = append(r.dst, `"`...)
	}
	r.dst = append(r.dst, '>')
}

// codeBlock highlights the body with chroma.
// A language with no lexer is reported and falls back to a plain
// literal block.
func (r *renderState) codeBlock(n *Node) {
	body := ""
	if b := n.Child(2); b != nil {
		body = b.InnerText()
	}
	lang := ""
	if arg := n.Child(0); arg != nil {
		lang = strings.TrimSpace(arg.InnerText())
	}
	if lang == "" {
		lang = getFieldValue(n, "default-language")
	}
	lexer := lexers.Get(lang)
	if lexer == nil && lang != "" {
		r.warn(MsgUnsupportedLanguage, lang)
	}
	if lexer == nil {
		r.openTag(atom.Pre)
		r.text(body)
		r.closeTag(atom.Pre)
		return
	}
	lexer = chroma.Coalesce(lexer)
	style := styles.Get(r.HighlightStyle)
	if style == nil {
		style = styles.Fallback
	}
	it, err := lexer.Tokenise(nil, body)
	if err != nil {
		r.openTag(atom.Pre)
		r.text(body)
		r.closeTag(atom.Pre)
		return
	}
	buf := new(bytes.Buffer)
	if err := chromahtml.New().Format(buf, style, it); err != nil {
		r.openTag(atom.Pre)
		r.text(body)
		r.closeTag(atom.Pre)
		return
	}
	r.dst = append(r.dst, buf.Bytes()...)
}
