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
	"os"
	"strings"
)

type dirFlags uint8

const (
	hasArg dirFlags = 1 << iota
	hasOptions
	argIsFile
	argIsWord
)

// sectionParser parses a directive body at the indentation of the
// line following the directive marker.
type sectionParser func(p *parser) *Node

// getDirective consumes ".. word ::" and returns the directive name,
// or "" (restoring the position) when the tokens are no directive.
func (p *parser) getDirective() string {
	if p.tok[p.idx].kind != tokWhite || p.peekNext().kind != tokWord {
		return ""
	}
	j := p.idx
	p.idx++
	name := p.tok[p.idx].symbol
	p.idx++
	for {
		switch p.tok[p.idx].kind {
		case tokWord, tokPunct, tokAdornment, tokOther:
			if p.tok[p.idx].symbol == "::" {
				goto done
			}
			name += p.tok[p.idx].symbol
			p.idx++
		default:
			goto done
		}
	}
done:
	if p.tok[p.idx].kind == tokWhite {
		p.idx++
	}
	if p.tok[p.idx].symbol != "::" {
		p.idx = j
		return ""
	}
	p.idx++
	if p.tok[p.idx].kind == tokWhite {
		p.idx++
	}
	return name
}

// parseDirective produces the generic three-child directive shape:
// argument, field list, body. The argument is parsed according to
// flags; the field list is present only when the following indented
// block (ival >= 3) starts with a field; the body is produced by
// contentParser, or nil without one.
func (p *parser) parseDirective(flags dirFlags, contentParser sectionParser) *Node {
	result := NewNode(DirectiveKind)
	var args *Node
	if flags&hasArg != 0 {
		args = NewNode(DirArgKind)
		switch {
		case flags&argIsFile != 0:
		fileArg:
			for {
				switch p.tok[p.idx].kind {
				case tokWord, tokOther, tokPunct, tokAdornment:
					args.Add(p.newLeaf())
					p.idx++
				default:
					break fileArg
				}
			}
		case flags&argIsWord != 0:
			for p.tok[p.idx].kind == tokWhite {
				p.idx++
			}
			if p.tok[p.idx].kind == tokWord {
				args.Add(p.newLeaf())
				p.idx++
			} else {
				args = nil
			}
		default:
			p.parseLine(args)
		}
	}
	result.Add(args)
	var options *Node
	if flags&hasOptions != 0 {
		if p.tok[p.idx].kind == tokIndent && p.tok[p.idx].ival >= 3 &&
			p.peekNext().symbol == ":" {
			options = p.parseFields()
		}
	}
	result.Add(options)
	if contentParser != nil {
		result.Add(p.parseDirBody(contentParser))
	} else {
		result.Add(nil)
	}
	return result
}

func (p *parser) parseDirBody(contentParser sectionParser) *Node {
	if !p.indFollows() {
		return nil
	}
	p.pushInd(p.tok[p.idx].ival)
	result := contentParser(p)
	p.popInd()
	return result
}

// readIncludeFile locates and reads a file referenced by a directive.
// It reports cannot-open-file and returns ok=false when the locator
// fails or the read fails.
func (p *parser) readIncludeFile(filename string) (content string, path string, ok bool) {
	path = p.s.findFile(filename)
	if path == "" {
		p.msg(MsgCannotOpenFile, filename)
		return "", "", false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		p.msg(MsgCannotOpenFile, filename)
		return "", "", false
	}
	return string(data), path, true
}

// dirInclude embeds another file: verbatim inside a literal block when
// the literal field is set, otherwise lexed and parsed recursively.
// The chain of in-progress includes is checked so that a file cannot
// include itself, directly or indirectly.
func (p *parser) dirInclude() *Node {
	n := p.parseDirective(hasArg|argIsFile|hasOptions, nil)
	filename := strings.TrimSpace(n.Child(0).InnerText())
	content, path, ok := p.readIncludeFile(filename)
	if !ok {
		return nil
	}
	if getFieldValue(n, "literal") != "" {
		result := NewNode(LiteralBlockKind)
		result.Add(NewLeaf(content))
		return result
	}
	for _, active := range p.includes {
		if active == path {
			p.msg(MsgCannotOpenFile, filename+" (include cycle)")
			return nil
		}
	}
	q := newParser(p.s)
	q.filename = filename
	q.includes = append(p.includes, path)
	q.tok, _ = lexTokens(content, false, nil)
	return q.parseDoc()
}

func (p *parser) dirImage() *Node {
	result := p.parseDirective(hasOptions|hasArg|argIsFile, nil)
	result.Kind = ImageKind
	return result
}

func (p *parser) dirFigure() *Node {
	result := p.parseDirective(hasOptions|hasArg|argIsFile, (*parser).parseSectionWrapper)
	result.Kind = FigureKind
	return result
}

func (p *parser) dirCode() *Node {
	result := p.parseDirective(hasArg|argIsWord|hasOptions, (*parser).parseLiteralBlock)
	result.Kind = CodeBlockKind
	return result
}

// dirCodeBlock is dirCode extended with three conveniences: the body
// drops the leading newline of the blank line after the marker, an
// absent field list gains a default-language field, and a file field
// replaces the body with the file's contents.
func (p *parser) dirCodeBlock() *Node {
	result := p.parseDirective(hasArg|argIsWord|hasOptions, (*parser).parseLiteralBlock)
	if body := result.Child(2); body != nil && body.ChildCount() == 1 {
		// The code starts after the blank line that follows the marker.
		body.Children[0].Text = strings.TrimPrefix(body.Children[0].Text, "\n")
	}
	if filename := strings.TrimSpace(getFieldValue(result, "file")); filename != "" {
		if content, _, ok := p.readIncludeFile(filename); ok {
			body := NewNode(LiteralBlockKind)
			body.Add(NewLeaf(content))
			result.Children[2] = body
		}
	}
	if result.Child(1) == nil || len(result.Child(1).Children) == 0 {
		name := NewNode(FieldNameKind)
		name.Add(NewLeaf("default-language"))
		body := NewNode(FieldBodyKind)
		body.Add(NewLeaf("Nimrod"))
		field := NewNode(FieldKind)
		field.Add(name)
		field.Add(body)
		fields := NewNode(FieldListKind)
		fields.Add(field)
		result.Children[1] = fields
	}
	result.Kind = CodeBlockKind
	return result
}

func (p *parser) dirContainer() *Node {
	result := p.parseDirective(hasArg, (*parser).parseSectionWrapper)
	result.Kind = ContainerKind
	return result
}

func (p *parser) dirTitle() *Node {
	result := p.parseDirective(hasArg, nil)
	result.Kind = TitleKind
	return result
}

func (p *parser) dirContents() *Node {
	result := p.parseDirective(hasArg, nil)
	result.Kind = ContentsKind
	return result
}

func (p *parser) dirIndex() *Node {
	result := p.parseDirective(0, (*parser).parseSectionWrapper)
	result.Kind = IndexKind
	return result
}

// dirRaw passes text through to a single output format, selected by
// the argument. A file field replaces the body with the file's
// contents.
func (p *parser) dirRaw() *Node {
	result := p.parseDirective(hasArg|argIsWord|hasOptions, nil)
	if filename := strings.TrimSpace(getFieldValue(result, "file")); filename != "" {
		if content, _, ok := p.readIncludeFile(filename); ok {
			result.Children[2] = NewLeaf(content)
		}
	} else if p.indFollows() {
		result.Children[2] = p.parseDirBody((*parser).parseLiteralBlock)
	}
	arg := result.Child(0).InnerText()
	switch {
	case strings.EqualFold(arg, "html"):
		result.Kind = RawHtmlKind
	case strings.EqualFold(arg, "latex"):
		result.Kind = RawLatexKind
	default:
		p.msg(MsgInvalidDirective, arg)
		result.Kind = RawKind
	}
	return result
}

// parseComment skips a comment: the rest of the marker's line plus
// every following line indented deeper than the marker. A blank line
// inside the comment carries the next line's indentation, so it does
// not end a deep comment early.
func (p *parser) parseComment(col int) *Node {
	for {
		for p.tok[p.idx].kind != tokIndent && p.tok[p.idx].kind != tokEOF {
			p.idx++
		}
		if p.tok[p.idx].kind == tokEOF || p.tok[p.idx].ival <= col {
			return nil
		}
		p.idx++
	}
}

// parseDotDot handles every ".." form: directives, hyperlink targets,
// substitution definitions, footnote and citation targets, and
// comments.
func (p *parser) parseDotDot() *Node {
	col := p.tok[p.idx].col
	p.idx++
	switch d := p.getDirective(); {
	case d != "":
		var result *Node
		p.pushInd(col)
		switch d {
		case "include":
			result = p.dirInclude()
		case "image":
			result = p.dirImage()
		case "figure":
			result = p.dirFigure()
		case "code":
			result = p.dirCode()
		case "code-block":
			result = p.dirCodeBlock()
		case "container":
			result = p.dirContainer()
		case "title":
			result = p.dirTitle()
		case "contents":
			result = p.dirContents()
		case "index":
			result = p.dirIndex()
		case "raw":
			if p.s.options&SupportRawDirective != 0 {
				result = p.dirRaw()
			} else {
				p.msg(MsgInvalidDirective, d)
			}
		default:
			p.msg(MsgInvalidDirective, d)
		}
		p.popInd()
		return result
	case p.match(p.idx, " _"):
		// Hyperlink target.
		p.idx += 2
		a := p.getReferenceName(":")
		if p.tok[p.idx].kind == tokWhite {
			p.idx++
		}
		b := p.untilEol()
		p.setRef(rstnodeToRefname(a), b)
		return nil
	case p.match(p.idx, " |"):
		// Substitution definition.
		p.idx += 2
		a := p.getReferenceName("|")
		var b *Node
		if p.tok[p.idx].kind == tokWhite {
			p.idx++
		}
		switch {
		case eqIgnoreStyle(p.tok[p.idx].symbol, "replace"):
			p.idx += 2
			b = p.untilEol()
		case eqIgnoreStyle(p.tok[p.idx].symbol, "image"):
			p.idx++
			if p.tok[p.idx].symbol == "::" {
				p.idx++
			}
			if p.tok[p.idx].kind == tokWhite {
				p.idx++
			}
			b = p.dirImage()
		default:
			p.msg(MsgInvalidDirective, p.tok[p.idx].symbol)
		}
		p.setSub(a.InnerText(), b)
		return nil
	case p.match(p.idx, " ["):
		// Footnote or citation target.
		p.idx += 2
		a := p.getReferenceName("]")
		if p.tok[p.idx].kind == tokWhite {
			p.idx++
		}
		b := p.untilEol()
		p.setRef(rstnodeToRefname(a), b)
		return nil
	default:
		return p.parseComment(col)
	}
}
