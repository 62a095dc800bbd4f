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

import "strings"

// Inline markup recognition follows the reStructuredText rules for
// markup boundaries: what may precede a start marker (rule 1), what
// may follow it (rule 2), what may precede and follow an end marker
// (rules 3 and 4), backslash escapes (rule 5), and matching
// quote/bracket pairs around markers (rule 7).

// isInlineMarkupStart reports whether the current token opens the
// given markup.
func (p *parser) isInlineMarkupStart(markup string) bool {
	if p.tok[p.idx].symbol != markup {
		return false
	}
	prev := p.peekPrev()
	// Rule 1: preceded by start of text, whitespace, or an opener.
	if p.idx > 0 {
		if prev.kind != tokIndent && prev.kind != tokWhite &&
			(prev.symbol == "" || !strings.ContainsRune(`'"([{<-/:_`, rune(prev.symbol[0]))) {
			return false
		}
	}
	// Rule 2: not followed by whitespace.
	next := p.peekNext()
	if next.kind == tokIndent || next.kind == tokWhite || next.kind == tokEOF {
		return false
	}
	// Rules 5 and 7.
	if p.idx > 0 {
		if prev.symbol == `\` {
			return false
		}
		var closer byte
		switch prev.symbol[0] {
		case '\'', '"':
			closer = prev.symbol[0]
		case '(':
			closer = ')'
		case '[':
			closer = ']'
		case '{':
			closer = '}'
		case '<':
			closer = '>'
		}
		if closer != 0 && next.symbol != "" && next.symbol[0] == closer {
			return false
		}
	}
	return true
}

// isInlineMarkupEnd reports whether the current token closes the
// given markup.
func (p *parser) isInlineMarkupEnd(markup string) bool {
	if p.tok[p.idx].symbol != markup {
		return false
	}
	// Rule 3: not preceded by whitespace.
	prev := p.peekPrev()
	if prev.kind == tokIndent || prev.kind == tokWhite {
		return false
	}
	// Rule 4: followed by end of text, whitespace, or a closer.
	next := p.peekNext()
	if next.kind != tokIndent && next.kind != tokWhite && next.kind != tokEOF &&
		(next.symbol == "" || !strings.ContainsRune(`'")]}>-/\:.,;!?_`, rune(next.symbol[0]))) {
		return false
	}
	// Rule 7: inline literals ignore backslashes.
	if p.idx > 0 && markup != "``" && prev.symbol == `\` {
		return false
	}
	return true
}

// parseUntil collects inline children into father up to the matching
// end marker. Newlines become single spaces; a blank line or EOF is an
// error reported at the start marker's position.
func (p *parser) parseUntil(father *Node, postfix string, interpretBackslash bool) {
	t := &p.tok[p.idx]
	line, col := p.line+t.line, p.col+t.col
	p.idx++
	for {
		switch p.tok[p.idx].kind {
		case tokPunct:
			if p.isInlineMarkupEnd(postfix) {
				p.idx++
				return
			}
			if interpretBackslash {
				p.parseBackslash(father)
			} else {
				father.Add(p.newLeaf())
				p.idx++
			}
		case tokAdornment, tokWord, tokOther:
			father.Add(p.newLeaf())
			p.idx++
		case tokIndent:
			father.Add(NewLeaf(" "))
			p.idx++
			if p.tok[p.idx].kind == tokIndent {
				p.msgAt(line, col, MsgExpected, postfix)
				return
			}
		case tokWhite:
			father.Add(NewLeaf(" "))
			p.idx++
		default:
			p.msgAt(line, col, MsgExpected, postfix)
			return
		}
	}
}

func (p *parser) parseBackslash(father *Node) {
	switch p.tok[p.idx].symbol {
	case `\\`:
		father.Add(NewLeaf(`\`))
		p.idx++
	case `\`:
		// A backslash escapes the token that follows it.
		// A lone backslash at the end of input emits nothing.
		p.idx++
		if p.tok[p.idx].kind != tokWhite && p.tok[p.idx].kind != tokEOF {
			father.Add(p.newLeaf())
		}
		if p.tok[p.idx].kind != tokEOF {
			p.idx++
		}
	default:
		father.Add(p.newLeaf())
		p.idx++
	}
}

var urlSchemes = []string{"http", "https", "ftp", "telnet", "file"}

// isURL reports whether the tokens at i begin a standalone URL.
func (p *parser) isURL(i int) bool {
	if i+3 >= len(p.tok) {
		return false
	}
	if p.tok[i+1].symbol != ":" || p.tok[i+2].symbol != "//" ||
		p.tok[i+3].kind != tokWord {
		return false
	}
	for _, scheme := range urlSchemes {
		if p.tok[i].symbol == scheme {
			return true
		}
	}
	return false
}

// parseURL consumes a standalone URL. Punctuation followed by anything
// other than more URL text ends the link, so a trailing period stays
// outside of it.
func (p *parser) parseURL(father *Node) {
	n := NewNode(StandaloneHyperlinkKind)
	for {
		switch p.tok[p.idx].kind {
		case tokWord, tokAdornment, tokOther:
		case tokPunct:
			switch p.peekNext().kind {
			case tokWord, tokAdornment, tokOther, tokPunct:
			default:
				father.Add(n)
				return
			}
		default:
			father.Add(n)
			return
		}
		n.Add(p.newLeaf())
		p.idx++
	}
}

var smilies = []struct {
	key  string
	icon string
}{
	{":D", "icon_e_biggrin"},
	{":-D", "icon_e_biggrin"},
	{":)", "icon_e_smile"},
	{":-)", "icon_e_smile"},
	{";)", "icon_e_wink"},
	{";-)", "icon_e_wink"},
	{":(", "icon_e_sad"},
	{":-(", "icon_e_sad"},
	{":o", "icon_e_surprised"},
	{":-o", "icon_e_surprised"},
	{":shock:", "icon_eek"},
	{":?", "icon_e_confused"},
	{":-?", "icon_e_confused"},
	{":?:", "icon_e_confused"},
	{"8-)", "icon_cool"},
	{":lol:", "icon_lol"},
	{":x", "icon_mad"},
	{":-x", "icon_mad"},
	{":P", "icon_razz"},
	{":-P", "icon_razz"},
	{":oops:", "icon_redface"},
	{":cry:", "icon_cry"},
	{":evil:", "icon_evil"},
	{":twisted:", "icon_twisted"},
	{":roll:", "icon_rolleyes"},
	{":wink:", "icon_e_wink"},
	{":!:", "icon_exclaim"},
	{":idea:", "icon_idea"},
	{":arrow:", "icon_arrow"},
	{":|", "icon_neutral"},
	{":-|", "icon_neutral"},
	{":mrgreen:", "icon_mrgreen"},
}

// parseSmiley matches one of the known smileys as a verbatim token
// sequence and returns nil if none matches at the current position.
func (p *parser) parseSmiley() *Node {
	sym := p.tok[p.idx].symbol
	if sym == "" || !strings.ContainsRune(":;8", rune(sym[0])) {
		return nil
	}
	for _, sm := range smilies {
		i, j := 0, p.idx
		for i < len(sm.key) && j < len(p.tok) {
			s := p.tok[j].symbol
			if s == "" || !strings.HasPrefix(sm.key[i:], s) {
				break
			}
			i += len(s)
			j++
		}
		if i == len(sm.key) {
			p.idx = j
			return &Node{Kind: SmileyKind, Text: sm.icon}
		}
	}
	return nil
}

// parseMarkdownCodeBlock parses a ``` fenced code block after the
// opening fence has been consumed.
func (p *parser) parseMarkdownCodeBlock() *Node {
	args := NewNode(DirArgKind)
	if p.tok[p.idx].kind == tokWord {
		args.Add(p.newLeaf())
		p.idx++
	} else {
		args = nil
	}
	n := NewLeaf("")
loop:
	for {
		switch p.tok[p.idx].kind {
		case tokEOF:
			p.msg(MsgExpected, "```")
			break loop
		case tokPunct:
			if p.tok[p.idx].symbol == "```" {
				p.idx++
				break loop
			}
			n.Text += p.tok[p.idx].symbol
			p.idx++
		default:
			n.Text += p.tok[p.idx].symbol
			p.idx++
		}
	}
	lb := NewNode(LiteralBlockKind)
	lb.Add(n)
	result := NewNode(CodeBlockKind)
	result.Add(args)
	result.Add(nil)
	result.Add(lb)
	return result
}

// fixupEmbeddedRef splits `label <target>` children at the last '<',
// dropping the separating space if present.
func fixupEmbeddedRef(n, label, target *Node) {
	sep := -1
	for i := len(n.Children) - 2; i >= 0; i-- {
		if n.Children[i] != nil && n.Children[i].Text == "<" {
			sep = i
			break
		}
	}
	incr := 1
	if sep > 0 && n.Children[sep-1].Text != "" && n.Children[sep-1].Text[0] == ' ' {
		incr = 2
	}
	for i := 0; i <= sep-incr; i++ {
		label.Add(n.Children[i])
	}
	for i := sep + 1; i <= len(n.Children)-2; i++ {
		target.Add(n.Children[i])
	}
}

// parsePostfix handles what may follow closed interpreted text:
// a reference underscore, an embedded URI, or a role.
func (p *parser) parsePostfix(n *Node) *Node {
	result := n
	switch {
	case p.isInlineMarkupEnd("_"):
		p.idx++
		if p.idx >= 3 && p.tok[p.idx-2].symbol == "`" && p.tok[p.idx-3].symbol == ">" {
			label := NewNode(InnerKind)
			target := NewNode(InnerKind)
			fixupEmbeddedRef(n, label, target)
			if len(label.Children) == 0 {
				result = NewNode(StandaloneHyperlinkKind)
				result.Add(target)
			} else {
				result = NewNode(HyperlinkKind)
				result.Add(label)
				result.Add(target)
				p.setRef(rstnodeToRefname(label), target)
			}
		} else if n.Kind == InterpretedTextKind {
			n.Kind = RefKind
		} else {
			result = NewNode(RefKind)
			result.Add(n)
		}
	case p.match(p.idx, ":w:"):
		role := p.tok[p.idx+1].symbol
		switch role {
		case "idx":
			n.Kind = IdxKind
		case "literal":
			n.Kind = InlineLiteralKind
		case "strong":
			n.Kind = StrongEmphasisKind
		case "emphasis":
			n.Kind = EmphasisKind
		case "sub", "subscript":
			n.Kind = SubKind
		case "sup", "supscript":
			n.Kind = SupKind
		default:
			result = NewNode(GeneralRoleKind)
			n.Kind = InnerKind
			result.Add(n)
			result.Add(NewLeaf(role))
		}
		p.idx += 3
	}
	return result
}

// parseInline parses one inline element at the current token into father.
func (p *parser) parseInline(father *Node) {
	switch p.tok[p.idx].kind {
	case tokPunct:
		switch {
		case p.isInlineMarkupStart("***"):
			n := NewNode(TripleEmphasisKind)
			p.parseUntil(n, "***", true)
			father.Add(n)
		case p.isInlineMarkupStart("**"):
			n := NewNode(StrongEmphasisKind)
			p.parseUntil(n, "**", true)
			father.Add(n)
		case p.isInlineMarkupStart("*"):
			n := NewNode(EmphasisKind)
			p.parseUntil(n, "*", true)
			father.Add(n)
		case p.s.options&SupportMarkdown != 0 && p.isInlineMarkupStart("```"):
			p.idx++
			father.Add(p.parseMarkdownCodeBlock())
		case p.isInlineMarkupStart("``"):
			n := NewNode(InlineLiteralKind)
			p.parseUntil(n, "``", false)
			father.Add(n)
		case p.isInlineMarkupStart("`"):
			n := NewNode(InterpretedTextKind)
			p.parseUntil(n, "`", true)
			father.Add(p.parsePostfix(n))
		case p.isInlineMarkupStart("|"):
			n := NewNode(SubstitutionReferencesKind)
			p.parseUntil(n, "|", false)
			father.Add(n)
		default:
			if p.s.options&SupportSmilies != 0 {
				if n := p.parseSmiley(); n != nil {
					father.Add(n)
					return
				}
			}
			p.parseBackslash(father)
		}
	case tokWord:
		// '8' starts both a word and a smiley.
		if p.s.options&SupportSmilies != 0 {
			if n := p.parseSmiley(); n != nil {
				father.Add(n)
				return
			}
		}
		if p.isURL(p.idx) {
			p.parseURL(father)
			return
		}
		word := p.newLeaf()
		p.idx++
		if p.tok[p.idx].symbol == "_" && p.isInlineMarkupEnd("_") {
			n := NewNode(RefKind)
			n.Add(word)
			father.Add(n)
			p.idx++
		} else {
			father.Add(word)
		}
	case tokAdornment, tokOther, tokWhite:
		if p.s.options&SupportSmilies != 0 {
			if n := p.parseSmiley(); n != nil {
				father.Add(n)
				return
			}
		}
		father.Add(p.newLeaf())
		p.idx++
	}
}

// parseLine parses inline content up to the end of the line.
func (p *parser) parseLine(father *Node) {
	for {
		switch p.tok[p.idx].kind {
		case tokWhite, tokWord, tokOther, tokPunct:
			p.parseInline(father)
		default:
			return
		}
	}
}

// parseUntilNewline is parseLine extended to adornment tokens,
// for heading text.
func (p *parser) parseUntilNewline(father *Node) {
	for {
		switch p.tok[p.idx].kind {
		case tokWhite, tokWord, tokAdornment, tokOther, tokPunct:
			p.parseInline(father)
		default:
			return
		}
	}
}

// untilEol wraps the rest of the line in an Inner node.
func (p *parser) untilEol() *Node {
	n := NewNode(InnerKind)
	for p.tok[p.idx].kind != tokIndent && p.tok[p.idx].kind != tokEOF {
		p.parseInline(n)
	}
	return n
}

// getReferenceName collects a reference name up to the closing symbol.
func (p *parser) getReferenceName(closer string) *Node {
	n := NewNode(InnerKind)
	for {
		switch p.tok[p.idx].kind {
		case tokWord, tokOther, tokWhite:
			n.Add(p.newLeaf())
		case tokPunct:
			if p.tok[p.idx].symbol == closer {
				p.idx++
				return n
			}
			n.Add(p.newLeaf())
		default:
			p.msg(MsgExpected, closer)
			return n
		}
		p.idx++
	}
}
