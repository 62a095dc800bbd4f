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

// match reports whether the tokens starting at idx fit the pattern,
// one single-character class per consecutive token:
//
//	w   Word
//	' ' White
//	i   Indent
//	p   Punct
//	a   Adornment
//	o   Other
//	T   any token
//	E   EOF, White, or Indent
//	e   enumerator: a single letter, a digit run, or '#'
//
// Any other character matches a Punct or Adornment token
// whose symbol is the literal run of that character,
// so "(e) " matches '(', an enumerator, ')', then whitespace
// and "ai" matches an adornment line followed by a newline.
func (p *parser) match(idx int, pattern string) bool {
	j := idx
	for i := 0; i < len(pattern); i++ {
		if j >= len(p.tok) {
			return false
		}
		t := &p.tok[j]
		var ok bool
		switch c := pattern[i]; c {
		case 'w':
			ok = t.kind == tokWord
		case ' ':
			ok = t.kind == tokWhite
		case 'i':
			ok = t.kind == tokIndent
		case 'p':
			ok = t.kind == tokPunct
		case 'a':
			ok = t.kind == tokAdornment
		case 'o':
			ok = t.kind == tokOther
		case 'T':
			ok = true
		case 'E':
			ok = t.kind == tokEOF || t.kind == tokWhite || t.kind == tokIndent
		case 'e':
			ok = t.kind == tokWord || t.symbol == "#"
			if ok {
				switch first := t.symbol[0]; {
				case 'a' <= first && first <= 'z', 'A' <= first && first <= 'Z':
					ok = len(t.symbol) == 1
				case '0' <= first && first <= '9':
					ok = isDigitRun(t.symbol)
				default:
					ok = t.symbol == "#"
				}
			}
		default:
			length := 0
			for i < len(pattern) && pattern[i] == c {
				i++
				length++
			}
			i--
			ok = (t.kind == tokPunct || t.kind == tokAdornment) &&
				len(t.symbol) == length && t.symbol[0] == c
		}
		if !ok {
			return false
		}
		j++
	}
	return true
}

func isDigitRun(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}
