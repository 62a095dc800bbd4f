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

// Package rst provides a parser for [reStructuredText]
// extended with a subset of Markdown inline conventions.
//
// [reStructuredText]: https://docutils.sourceforge.io/rst.html
package rst

// parser is a cursor on a token sequence.
// A new frame is created per parse, top level or recursive include;
// the indent stack is per frame, the shared state is not.
type parser struct {
	idx         int
	tok         []token
	s           *sharedState
	indentStack []int
	filename    string
	line, col   int // base position for diagnostics
	hasToc      bool
	includes    []string // paths of in-progress includes, for cycle detection
}

func newParser(s *sharedState) *parser {
	return &parser{
		s:           s,
		indentStack: []int{0},
	}
}

func (p *parser) currInd() int {
	return p.indentStack[len(p.indentStack)-1]
}

func (p *parser) pushInd(ind int) {
	p.indentStack = append(p.indentStack, ind)
}

func (p *parser) popInd() {
	p.indentStack = p.indentStack[:len(p.indentStack)-1]
}

// msg reports a diagnostic at the current token.
func (p *parser) msg(kind MsgKind, arg string) {
	t := &p.tok[p.idx]
	p.msgAt(p.line+t.line, p.col+t.col, kind, arg)
}

func (p *parser) msgAt(line, col int, kind MsgKind, arg string) {
	if err := p.s.msgHandler(p.filename, line, col, kind, arg); err != nil {
		panic(parseAbort{err})
	}
}

// newLeaf returns a leaf carrying the current token's text.
func (p *parser) newLeaf() *Node {
	return NewLeaf(p.tok[p.idx].symbol)
}

// peekPrev returns the token before the current one,
// or a zero token at the beginning of the sequence.
func (p *parser) peekPrev() *token {
	if p.idx == 0 {
		return &token{}
	}
	return &p.tok[p.idx-1]
}

// peekNext returns the token after the current one.
// The stream's trailing EOF keeps the access in bounds
// for every position the parsers stop at.
func (p *parser) peekNext() *token {
	if p.idx+1 >= len(p.tok) {
		return &p.tok[len(p.tok)-1]
	}
	return &p.tok[p.idx+1]
}

// parseDoc parses the whole token sequence into a document fragment.
func (p *parser) parseDoc() *Node {
	n := p.parseSectionWrapper()
	if p.tok[p.idx].kind != tokEOF {
		p.msg(MsgGeneralParseError, "")
	}
	return n
}

// Parse parses text into a document tree.
//
// filename, line and col give the base position for diagnostics;
// included files and table cells parse recursively with their own bases.
// findFile locates files referenced by directives
// (nil means [DefaultFindFile]) and msg receives diagnostics
// (nil means [NewMsgHandler] writing to standard output).
//
// hasToc reports whether the document requested a table of contents.
// err is non-nil if a diagnostic of [SeverityError] aborted the parse.
func Parse(text, filename string, line, col int, options Options, findFile FindFileHandler, msg MsgHandler) (doc *Node, hasToc bool, err error) {
	s := newSharedState(options, findFile, msg)
	p := newParser(s)
	p.filename = filename
	p.line = line
	defer func() {
		if r := recover(); r != nil {
			abort, ok := r.(parseAbort)
			if !ok {
				panic(r)
			}
			doc, hasToc, err = nil, false, abort.err
		}
	}()
	var consumed int
	p.tok, consumed = lexTokens(text, options&SkipPounds != 0, nil)
	p.col = col + consumed
	doc = p.resolveSubs(p.parseDoc())
	return doc, p.hasToc, nil
}
