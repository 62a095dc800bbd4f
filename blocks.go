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

// tokenAfterNewline returns the index of the first token
// of the next line.
func (p *parser) tokenAfterNewline() int {
	i := p.idx
	for {
		switch p.tok[i].kind {
		case tokEOF:
			return i
		case tokIndent:
			return i + 1
		default:
			i++
		}
	}
}

// predNL reports whether the current token starts a line
// at the required indentation.
func (p *parser) predNL() bool {
	if p.idx == 0 {
		return true
	}
	prev := &p.tok[p.idx-1]
	return prev.kind == tokIndent && prev.ival == p.currInd()
}

// isLineBlock reports whether the next line continues a line block:
// another '|' at the same column, or deeper-indented continuation text.
func (p *parser) isLineBlock() bool {
	j := p.tokenAfterNewline()
	return p.tok[j].col == p.tok[p.idx].col && p.tok[j].symbol == "|" ||
		p.tok[j].col > p.tok[p.idx].col
}

// isDefList reports whether the current line is a definition term:
// the next line starts further right with body text.
func (p *parser) isDefList() bool {
	j := p.tokenAfterNewline()
	return p.tok[p.idx].col < p.tok[j].col &&
		(p.tok[j].kind == tokWord || p.tok[j].kind == tokOther || p.tok[j].kind == tokPunct) &&
		j >= 2 && p.tok[j-2].symbol != "::"
}

func (p *parser) isOptionList() bool {
	return p.match(p.idx, "-w") || p.match(p.idx, "--w") ||
		p.match(p.idx, "/w") || p.match(p.idx, "//w")
}

// indFollows reports whether the current token indents deeper
// than the enclosing block requires.
func (p *parser) indFollows() bool {
	return p.tok[p.idx].kind == tokIndent && p.tok[p.idx].ival > p.currInd()
}

// whichSection classifies the block structure at the current token.
func (p *parser) whichSection() NodeKind {
	switch p.tok[p.idx].kind {
	case tokAdornment:
		switch {
		case p.match(p.idx+1, "ii"):
			return TransitionKind
		case p.match(p.idx+1, " a"):
			return TableKind
		case p.match(p.idx+1, "i"):
			return OverlineKind
		default:
			return LeafKind
		}
	case tokPunct:
		switch {
		case p.match(p.tokenAfterNewline(), "ai"):
			return HeadlineKind
		case p.tok[p.idx].symbol == "::":
			return LiteralBlockKind
		case p.predNL() &&
			(p.tok[p.idx].symbol == "+" || p.tok[p.idx].symbol == "*" || p.tok[p.idx].symbol == "-") &&
			p.peekNext().kind == tokWhite:
			return BulletListKind
		case p.tok[p.idx].symbol == "|" && p.isLineBlock():
			return LineBlockKind
		case p.tok[p.idx].symbol == ".." && p.predNL():
			return DirectiveKind
		case p.match(p.idx, ":w:") && p.predNL():
			return FieldListKind
		case p.match(p.idx, "(e) "):
			return EnumListKind
		case p.match(p.idx, "+a+"):
			p.msg(MsgGridTableNotImplemented, "")
			return GridTableKind
		case p.isDefList():
			return DefListKind
		case p.isOptionList():
			return OptionListKind
		default:
			return ParagraphKind
		}
	case tokWord, tokOther, tokWhite:
		switch {
		case p.match(p.tokenAfterNewline(), "ai"):
			return HeadlineKind
		case p.match(p.idx, "e) "), p.match(p.idx, "e. "):
			return EnumListKind
		case p.isDefList():
			return DefListKind
		default:
			return ParagraphKind
		}
	default:
		return LeafKind
	}
}

// parseLiteralBlock collects the raw text of an indented literal block,
// or the rest of the line when no indent follows.
func (p *parser) parseLiteralBlock() *Node {
	result := NewNode(LiteralBlockKind)
	n := NewLeaf("")
	if p.tok[p.idx].kind == tokIndent {
		indent := p.tok[p.idx].ival
		p.idx++
	loop:
		for {
			switch p.tok[p.idx].kind {
			case tokEOF:
				break loop
			case tokIndent:
				if p.tok[p.idx].ival < indent {
					break loop
				}
				n.Text += "\n"
				n.Text += strings.Repeat(" ", p.tok[p.idx].ival-indent)
				p.idx++
			default:
				n.Text += p.tok[p.idx].symbol
				p.idx++
			}
		}
	} else {
		for p.tok[p.idx].kind != tokIndent && p.tok[p.idx].kind != tokEOF {
			n.Text += p.tok[p.idx].symbol
			p.idx++
		}
	}
	result.Add(n)
	return result
}

// parseParagraph accumulates inline content across lines at the same
// indentation. A trailing "::" followed by a deeper-indented block
// keeps one ':' as text and appends a literal block.
func (p *parser) parseParagraph(result *Node) {
	for {
		switch p.tok[p.idx].kind {
		case tokIndent:
			if p.peekNext().kind == tokIndent {
				p.idx++
				return
			}
			if p.tok[p.idx].ival != p.currInd() {
				return
			}
			p.idx++
			switch p.whichSection() {
			case ParagraphKind, LeafKind, HeadlineKind, OverlineKind, DirectiveKind:
				result.Add(NewLeaf(" "))
			case LineBlockKind:
				result.addIfNotNil(p.parseLineBlock())
			default:
				p.idx--
				return
			}
		case tokPunct:
			if p.tok[p.idx].symbol == "::" &&
				p.peekNext().kind == tokIndent &&
				p.currInd() < p.peekNext().ival {
				result.Add(NewLeaf(":"))
				p.idx++
				result.Add(p.parseLiteralBlock())
				return
			}
			p.parseInline(result)
		case tokWhite, tokWord, tokAdornment, tokOther:
			p.parseInline(result)
		default:
			return
		}
	}
}

// parseHeadline parses a heading underlined by the next line.
func (p *parser) parseHeadline() *Node {
	result := NewNode(HeadlineKind)
	p.parseUntilNewline(result)
	c := p.tok[p.idx+1].symbol[0]
	p.idx += 2
	result.Level = getLevel(&p.s.underlineToLevel, &p.s.uLevel, c)
	return result
}

// parseOverline parses a heading enclosed by adornment lines above and
// below. The trailing adornment line is consumed leniently: a heading
// missing it still parses.
func (p *parser) parseOverline() *Node {
	c := p.tok[p.idx].symbol[0]
	p.idx += 2
	result := NewNode(OverlineKind)
	for {
		p.parseUntilNewline(result)
		if p.tok[p.idx].kind != tokIndent {
			break
		}
		p.idx++
		if p.tok[p.idx-1].ival > p.currInd() {
			result.Add(NewLeaf(" "))
		} else {
			break
		}
	}
	result.Level = getLevel(&p.s.overlineToLevel, &p.s.oLevel, c)
	if p.tok[p.idx].kind == tokAdornment {
		p.idx++
		if p.tok[p.idx].kind == tokIndent {
			p.idx++
		}
	}
	return result
}

// parseTransition parses a standalone adornment line.
func (p *parser) parseTransition() *Node {
	result := NewNode(TransitionKind)
	p.idx++
	if p.tok[p.idx].kind == tokIndent {
		p.idx++
	}
	if p.tok[p.idx].kind == tokIndent {
		p.idx++
	}
	return result
}

func (p *parser) parseBulletList() *Node {
	if p.peekNext().kind != tokWhite {
		return nil
	}
	bullet := p.tok[p.idx].symbol
	col := p.tok[p.idx].col
	result := NewNode(BulletListKind)
	p.pushInd(p.tok[p.idx+2].col)
	p.idx += 2
	for {
		item := NewNode(BulletItemKind)
		p.parseSection(item)
		result.Add(item)
		if p.tok[p.idx].kind == tokIndent && p.tok[p.idx].ival == col &&
			p.peekNext().symbol == bullet &&
			p.idx+2 < len(p.tok) && p.tok[p.idx+2].kind == tokWhite {
			p.idx += 3
		} else {
			break
		}
	}
	p.popInd()
	return result
}

func (p *parser) parseLineBlock() *Node {
	if p.peekNext().kind != tokWhite {
		return nil
	}
	col := p.tok[p.idx].col
	result := NewNode(LineBlockKind)
	p.pushInd(p.tok[p.idx+2].col)
	p.idx += 2
	for {
		item := NewNode(LineBlockItemKind)
		p.parseSection(item)
		result.Add(item)
		if p.tok[p.idx].kind == tokIndent && p.tok[p.idx].ival == col &&
			p.peekNext().symbol == "|" &&
			p.idx+2 < len(p.tok) && p.tok[p.idx+2].kind == tokWhite {
			p.idx += 3
		} else {
			break
		}
	}
	p.popInd()
	return result
}

var enumListWildcards = [...]struct {
	pattern string
	pos     int // tokens before the enumerator
}{
	{"(e) ", 1},
	{"e) ", 0},
	{"e. ", 0},
}

// parseEnumList parses an enumerated list; every item must repeat the
// marker style of the first.
func (p *parser) parseEnumList() *Node {
	w := 0
	for w < len(enumListWildcards) {
		if p.match(p.idx, enumListWildcards[w].pattern) {
			break
		}
		w++
	}
	if w >= len(enumListWildcards) {
		return nil
	}
	col := p.tok[p.idx].col
	result := NewNode(EnumListKind)
	p.idx += enumListWildcards[w].pos + 3
	p.pushInd(p.tok[p.idx].col)
	for {
		item := NewNode(EnumItemKind)
		p.parseSection(item)
		result.Add(item)
		if p.tok[p.idx].kind == tokIndent && p.tok[p.idx].ival == col &&
			p.match(p.idx+1, enumListWildcards[w].pattern) {
			p.idx += enumListWildcards[w].pos + 4
		} else {
			break
		}
	}
	p.popInd()
	return result
}

func (p *parser) parseDefinitionList() *Node {
	var result *Node
	j := p.tokenAfterNewline() - 1
	if j >= 1 && p.tok[j].kind == tokIndent && p.tok[j].ival > p.currInd() &&
		p.tok[j-1].symbol != "::" {
		col := p.tok[p.idx].col
		result = NewNode(DefListKind)
		for {
			j = p.idx
			name := NewNode(DefNameKind)
			p.parseLine(name)
			if p.tok[p.idx].kind == tokIndent && p.tok[p.idx].ival > p.currInd() &&
				p.peekNext().symbol != "::" &&
				p.peekNext().kind != tokIndent && p.peekNext().kind != tokEOF {
				p.pushInd(p.tok[p.idx].ival)
				body := NewNode(DefBodyKind)
				p.parseSection(body)
				item := NewNode(DefItemKind)
				item.Add(name)
				item.Add(body)
				result.Add(item)
				p.popInd()
			} else {
				p.idx = j
				break
			}
			if p.tok[p.idx].kind == tokIndent && p.tok[p.idx].ival == col {
				p.idx++
				j = p.tokenAfterNewline() - 1
				if !(j >= 1 && p.tok[j].kind == tokIndent && p.tok[j].ival > col &&
					p.tok[j-1].symbol != "::" && p.tok[j+1].symbol != "::") {
					break
				}
			} else {
				break
			}
		}
		if len(result.Children) == 0 {
			result = nil
		}
	}
	return result
}

func (p *parser) parseOptionList() *Node {
	result := NewNode(OptionListKind)
	for p.isOptionList() {
		group := NewNode(OptionGroupKind)
		desc := NewNode(DescriptionKind)
		if p.match(p.idx, "//w") {
			p.idx++
		}
		for p.tok[p.idx].kind != tokIndent && p.tok[p.idx].kind != tokEOF {
			if p.tok[p.idx].kind == tokWhite && len(p.tok[p.idx].symbol) > 1 {
				p.idx++
				break
			}
			group.Add(p.newLeaf())
			p.idx++
		}
		j := p.tokenAfterNewline()
		if j > 0 && p.tok[j-1].kind == tokIndent && p.tok[j-1].ival > p.currInd() {
			p.pushInd(p.tok[j-1].ival)
			p.parseSection(desc)
			p.popInd()
		} else {
			p.parseLine(desc)
		}
		if p.tok[p.idx].kind == tokIndent {
			p.idx++
		}
		item := NewNode(OptionListItemKind)
		item.Add(group)
		item.Add(desc)
		result.Add(item)
	}
	return result
}

// parseField parses one ":name: body" field, with an optional indented
// sub-section as the rest of the body.
func (p *parser) parseField() *Node {
	result := NewNode(FieldKind)
	col := p.tok[p.idx].col
	name := NewNode(FieldNameKind)
	p.parseUntil(name, ":", false)
	body := NewNode(FieldBodyKind)
	if p.tok[p.idx].kind != tokIndent {
		p.parseLine(body)
	}
	if p.tok[p.idx].kind == tokIndent && p.tok[p.idx].ival > col {
		p.pushInd(p.tok[p.idx].ival)
		p.parseSection(body)
		p.popInd()
	}
	result.Add(name)
	result.Add(body)
	return result
}

func (p *parser) parseFields() *Node {
	var result *Node
	atStart := p.idx == 0 && p.tok[0].symbol == ":"
	if p.tok[p.idx].kind == tokIndent && p.peekNext().symbol == ":" || atStart {
		col := p.tok[p.idx].ival
		if atStart {
			col = p.tok[0].col
		}
		result = NewNode(FieldListKind)
		if !atStart {
			p.idx++
		}
		for {
			result.Add(p.parseField())
			if p.tok[p.idx].kind == tokIndent && p.tok[p.idx].ival == col &&
				p.peekNext().symbol == ":" {
				p.idx++
			} else {
				break
			}
		}
	}
	return result
}

// getFieldValue returns the body text of the named field of a
// directive-shaped node, "x" for a present-but-empty field,
// or "" when absent.
func getFieldValue(n *Node, fieldname string) string {
	fields := n.Child(1)
	if fields == nil || fields.Kind != FieldListKind {
		return ""
	}
	for _, f := range fields.Children {
		if f.ChildCount() >= 2 && eqIgnoreStyle(f.Children[0].InnerText(), fieldname) {
			value := strings.TrimSpace(f.Children[1].InnerText())
			if value == "" {
				value = "x"
			}
			return value
		}
	}
	return ""
}

// tokEnd returns the last column of the current token.
func (p *parser) tokEnd() int {
	return p.tok[p.idx].col + len(p.tok[p.idx].symbol) - 1
}

// getColumns computes the column boundaries of a simple table from an
// adornment line. The last column has no bound.
func (p *parser) getColumns() []int {
	var cols []int
	for {
		cols = append(cols, p.tokEnd())
		p.idx++
		if p.tok[p.idx].kind != tokWhite {
			break
		}
		p.idx++
		if p.tok[p.idx].kind != tokAdornment {
			break
		}
	}
	if p.tok[p.idx].kind == tokIndent {
		p.idx++
	}
	cols[len(cols)-1] = 1<<31 - 1
	return cols
}

// parseSimpleTable splits rows by the column boundaries of the first
// adornment line and parses each cell as a document fragment. A second
// adornment line turns the first row into a header row.
func (p *parser) parseSimpleTable() *Node {
	result := NewNode(TableKind)
	var (
		cols []int
		row  []string
		a    *Node
	)
	for {
		if p.tok[p.idx].kind == tokAdornment {
			last := p.tokenAfterNewline()
			if p.tok[last].kind == tokEOF || p.tok[last].kind == tokIndent {
				// Skip the final adornment line.
				p.idx = last
				break
			}
			cols = p.getColumns()
			row = make([]string, len(cols))
			if a != nil {
				for _, cell := range a.Children {
					cell.Kind = TableHeaderCellKind
				}
			}
		}
		if p.tok[p.idx].kind == tokEOF {
			break
		}
		for j := range row {
			row[j] = ""
		}
		line := p.tok[p.idx].line
		// A cell may span multiple lines.
		for {
			i := 0
			for p.tok[p.idx].kind != tokIndent && p.tok[p.idx].kind != tokEOF {
				if p.tokEnd() <= cols[i] {
					row[i] += p.tok[p.idx].symbol
					p.idx++
				} else {
					if p.tok[p.idx].kind == tokWhite {
						p.idx++
					}
					i++
				}
			}
			if p.tok[p.idx].kind == tokIndent {
				p.idx++
			}
			if p.tokEnd() <= cols[0] {
				break
			}
			if p.tok[p.idx].kind == tokEOF || p.tok[p.idx].kind == tokAdornment {
				break
			}
			for j := 1; j < len(row); j++ {
				row[j] += "\n"
			}
		}
		a = NewNode(TableRowKind)
		for j, cell := range row {
			q := newParser(p.s)
			q.filename = p.filename
			q.line = line - 1
			var consumed int
			q.tok, consumed = lexTokens(cell, false, nil)
			q.col = cols[j] + consumed
			b := NewNode(TableDataCellKind)
			b.Add(q.parseDoc())
			a.Add(b)
		}
		result.Add(a)
	}
	return result
}

// parseSection is the block-level driver: it normalizes indentation
// (descending into a block quote when deeper), classifies the current
// position, and dispatches to the matching parser, falling back to a
// paragraph when nothing else applies.
func (p *parser) parseSection(result *Node) {
	for {
		leave := false
	indents:
		for p.tok[p.idx].kind == tokIndent {
			switch {
			case p.currInd() == p.tok[p.idx].ival:
				p.idx++
			case p.tok[p.idx].ival > p.currInd():
				p.pushInd(p.tok[p.idx].ival)
				a := NewNode(BlockQuoteKind)
				p.parseSection(a)
				result.Add(a)
				p.popInd()
			default:
				leave = true
				break indents
			}
		}
		if leave || p.tok[p.idx].kind == tokEOF {
			break
		}
		var a *Node
		k := p.whichSection()
		switch k {
		case LiteralBlockKind:
			p.idx++ // skip '::'
			a = p.parseLiteralBlock()
		case BulletListKind:
			a = p.parseBulletList()
		case LineBlockKind:
			a = p.parseLineBlock()
		case DirectiveKind:
			a = p.parseDotDot()
		case EnumListKind:
			a = p.parseEnumList()
		case LeafKind:
			p.msg(MsgNewSectionExpected, "")
		case ParagraphKind:
		case DefListKind:
			a = p.parseDefinitionList()
		case FieldListKind:
			if p.idx > 0 {
				p.idx--
			}
			a = p.parseFields()
		case TransitionKind:
			a = p.parseTransition()
		case HeadlineKind:
			a = p.parseHeadline()
		case OverlineKind:
			a = p.parseOverline()
		case TableKind:
			a = p.parseSimpleTable()
		case OptionListKind:
			a = p.parseOptionList()
		case GridTableKind:
			// Recognized only to report the error; the adornment
			// lines parse as a paragraph below.
		}
		if a == nil && k != DirectiveKind {
			a = NewNode(ParagraphKind)
			p.parseParagraph(a)
		}
		result.addIfNotNil(a)
	}
	if len(result.Children) >= 2 &&
		result.Children[0] != nil && result.Children[0].Kind == ParagraphKind &&
		result.Children[1] != nil && result.Children[1].Kind != ParagraphKind {
		// A single leading paragraph renders inline in its container.
		result.Children[0].Kind = InnerKind
	}
}

func (p *parser) parseSectionWrapper() *Node {
	result := NewNode(InnerKind)
	p.parseSection(result)
	for result.Kind == InnerKind && len(result.Children) == 1 && result.Children[0] != nil {
		result = result.Children[0]
	}
	return result
}
