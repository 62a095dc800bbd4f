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

// Package normhtml normalizes HTML for test comparison,
// ignoring insignificant differences in whitespace,
// attribute order, and escaping.
package normhtml

import (
	"bytes"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"go4.org/bytereplacer"
	"golang.org/x/net/html"
)

var (
	whitespaceRE = regexp.MustCompile(`\s+`)

	textEscaper = bytereplacer.New(
		"&", "&amp;",
		`'`, "&apos;",
		`<`, "&lt;",
		`>`, "&gt;",
		`"`, "&quot;",
	)
)

// NormalizeHTML strips insignificant output differences from a
// fragment of HTML: whitespace runs collapse outside <pre>, whitespace
// before the start and end tags of block elements is dropped, attributes
// are sorted, and text is
// re-escaped consistently.
func NormalizeHTML(s string) string {
	tok := html.NewTokenizerFragment(strings.NewReader(s), "div")
	var out []byte
	inPre := 0
	for {
		tt := tok.Next()
		if tt == html.ErrorToken {
			return string(bytes.TrimSpace(out))
		}
		t := tok.Token()
		switch tt {
		case html.TextToken:
			data := t.Data
			if inPre == 0 {
				data = whitespaceRE.ReplaceAllString(data, " ")
			}
			out = append(out, textEscaper.Replace([]byte(data))...)
		case html.StartTagToken, html.SelfClosingTagToken:
			if t.Data == "pre" {
				inPre++
			}
			if isBlockTag(t.Data) {
				out = bytes.TrimRightFunc(out, unicode.IsSpace)
			}
			out = appendTag(out, t)
		case html.EndTagToken:
			if t.Data == "pre" && inPre > 0 {
				inPre--
			}
			if isBlockTag(t.Data) {
				out = bytes.TrimRightFunc(out, unicode.IsSpace)
			}
			out = append(out, "</"...)
			out = append(out, t.Data...)
			out = append(out, '>')
		case html.CommentToken:
			out = append(out, "<!--"...)
			out = append(out, t.Data...)
			out = append(out, "-->"...)
		}
	}
}

func appendTag(out []byte, t html.Token) []byte {
	out = append(out, '<')
	out = append(out, t.Data...)
	attrs := t.Attr
	sort.Slice(attrs, func(i, j int) bool {
		return attrs[i].Key < attrs[j].Key
	})
	for _, attr := range attrs {
		out = append(out, ' ')
		out = append(out, attr.Key...)
		if attr.Val != "" {
			out = append(out, `="`...)
			out = append(out, html.EscapeString(attr.Val)...)
			out = append(out, '"')
		}
	}
	return append(out, '>')
}

var blockTags = map[string]struct{}{
	"blockquote": {},
	"dd":         {},
	"div":        {},
	"dl":         {},
	"dt":         {},
	"figcaption": {},
	"figure":     {},
	"h1":         {},
	"h2":         {},
	"h3":         {},
	"h4":         {},
	"h5":         {},
	"h6":         {},
	"hr":         {},
	"li":         {},
	"ol":         {},
	"p":          {},
	"pre":        {},
	"table":      {},
	"tbody":      {},
	"td":         {},
	"th":         {},
	"tr":         {},
	"ul":         {},
}

func isBlockTag(tag string) bool {
	_, ok := blockTags[tag]
	return ok
}
