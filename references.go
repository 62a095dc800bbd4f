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

import "os"

// rstnodeToRefname normalizes the leaf text beneath n into a reference
// name: letters lowercase, digits kept ('Z' prefixed if the name would
// start with one), every other run collapsed into a single '-'.
func rstnodeToRefname(n *Node) string {
	var b []byte
	sep := false
	refnameAux(n, &b, &sep)
	return string(b)
}

func refnameAux(n *Node, b *[]byte, sep *bool) {
	if n == nil {
		return
	}
	if n.Kind != LeafKind {
		for _, c := range n.Children {
			refnameAux(c, b, sep)
		}
		return
	}
	for i := 0; i < len(n.Text); i++ {
		switch c := n.Text[i]; {
		case '0' <= c && c <= '9':
			if *sep {
				*b = append(*b, '-')
				*sep = false
			}
			if len(*b) == 0 {
				*b = append(*b, 'Z')
			}
			*b = append(*b, c)
		case 'a' <= c && c <= 'z':
			if *sep {
				*b = append(*b, '-')
				*sep = false
			}
			*b = append(*b, c)
		case 'A' <= c && c <= 'Z':
			if *sep {
				*b = append(*b, '-')
				*sep = false
			}
			*b = append(*b, c-'A'+'a')
		default:
			if len(*b) > 0 {
				*sep = true
			}
		}
	}
}

// setRef registers a hyperlink or footnote target.
// Redefining a label with a different value warns
// and the last value wins.
func (p *parser) setRef(key string, value *Node) {
	for i := range p.s.refs {
		if p.s.refs[i].key == key {
			if p.s.refs[i].value.InnerText() != value.InnerText() {
				p.msg(MsgRedefinitionOfLabel, key)
			}
			p.s.refs[i].value = value
			return
		}
	}
	p.s.refs = append(p.s.refs, reference{key: key, value: value})
}

func (p *parser) findRef(key string) *Node {
	for i := range p.s.refs {
		if p.s.refs[i].key == key {
			return p.s.refs[i].value
		}
	}
	return nil
}

// setSub registers a substitution definition.
func (p *parser) setSub(key string, value *Node) {
	for i := range p.s.subs {
		if p.s.subs[i].key == key {
			p.s.subs[i].value = value
			return
		}
	}
	p.s.subs = append(p.s.subs, substitution{key: key, value: value})
}

// findSub looks a substitution up by exact key first,
// then without case and underscore distinctions.
func (p *parser) findSub(n *Node) int {
	key := n.InnerText()
	for i := range p.s.subs {
		if key == p.s.subs[i].key {
			return i
		}
	}
	for i := range p.s.subs {
		if eqIgnoreStyle(key, p.s.subs[i].key) {
			return i
		}
	}
	return -1
}

// resolveSubs walks the finished tree, replacing substitution
// references with their values (falling back to the process
// environment), wrapping resolved references in hyperlinks, and
// detecting a table-of-contents request. Resolution happens in a
// single pass after the whole document parse, so forward references
// are legal.
func (p *parser) resolveSubs(n *Node) *Node {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case SubstitutionReferencesKind:
		if x := p.findSub(n); x >= 0 {
			return p.s.subs[x].value.clone()
		}
		key := n.InnerText()
		if e := os.Getenv(key); e != "" {
			return NewLeaf(e)
		}
		p.msg(MsgUnknownSubstitution, key)
	case RefKind:
		if y := p.findRef(rstnodeToRefname(n)); y != nil {
			result := NewNode(HyperlinkKind)
			n.Kind = InnerKind
			result.Add(n)
			result.Add(y)
			return result
		}
	case LeafKind:
	case ContentsKind:
		p.hasToc = true
	default:
		for i, c := range n.Children {
			n.Children[i] = p.resolveSubs(c)
		}
	}
	return n
}
