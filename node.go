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

// NodeKind is an enumeration of values returned by [Node.Kind].
type NodeKind uint16

const (
	ParagraphKind NodeKind = 1 + iota
	HeadlineKind
	OverlineKind
	TransitionKind

	EmphasisKind
	StrongEmphasisKind
	TripleEmphasisKind
	InlineLiteralKind
	InterpretedTextKind
	IdxKind
	SubKind
	SupKind
	SmileyKind
	GeneralRoleKind
	SubstitutionReferencesKind

	LiteralBlockKind
	CodeBlockKind

	BulletListKind
	BulletItemKind
	EnumListKind
	EnumItemKind
	DefListKind
	DefNameKind
	DefBodyKind
	DefItemKind
	OptionListKind
	OptionGroupKind
	OptionListItemKind
	DescriptionKind
	FieldListKind
	FieldKind
	FieldNameKind
	FieldBodyKind
	LineBlockKind
	LineBlockItemKind
	BlockQuoteKind

	TableKind
	GridTableKind
	TableRowKind
	TableDataCellKind
	TableHeaderCellKind

	HyperlinkKind
	StandaloneHyperlinkKind
	RefKind

	DirArgKind
	DirectiveKind
	ImageKind
	FigureKind
	TitleKind
	ContentsKind
	IndexKind
	ContainerKind
	RawKind
	RawHtmlKind
	RawLatexKind

	InnerKind
	LeafKind
)

var nodeKindNames = [...]string{
	ParagraphKind:              "Paragraph",
	HeadlineKind:               "Headline",
	OverlineKind:               "Overline",
	TransitionKind:             "Transition",
	EmphasisKind:               "Emphasis",
	StrongEmphasisKind:         "StrongEmphasis",
	TripleEmphasisKind:         "TripleEmphasis",
	InlineLiteralKind:          "InlineLiteral",
	InterpretedTextKind:        "InterpretedText",
	IdxKind:                    "Idx",
	SubKind:                    "Sub",
	SupKind:                    "Sup",
	SmileyKind:                 "Smiley",
	GeneralRoleKind:            "GeneralRole",
	SubstitutionReferencesKind: "SubstitutionReferences",
	LiteralBlockKind:           "LiteralBlock",
	CodeBlockKind:              "CodeBlock",
	BulletListKind:             "BulletList",
	BulletItemKind:             "BulletItem",
	EnumListKind:               "EnumList",
	EnumItemKind:               "EnumItem",
	DefListKind:                "DefList",
	DefNameKind:                "DefName",
	DefBodyKind:                "DefBody",
	DefItemKind:                "DefItem",
	OptionListKind:             "OptionList",
	OptionGroupKind:            "OptionGroup",
	OptionListItemKind:         "OptionListItem",
	DescriptionKind:            "Description",
	FieldListKind:              "FieldList",
	FieldKind:                  "Field",
	FieldNameKind:              "FieldName",
	FieldBodyKind:              "FieldBody",
	LineBlockKind:              "LineBlock",
	LineBlockItemKind:          "LineBlockItem",
	BlockQuoteKind:             "BlockQuote",
	TableKind:                  "Table",
	GridTableKind:              "GridTable",
	TableRowKind:               "TableRow",
	TableDataCellKind:          "TableDataCell",
	TableHeaderCellKind:        "TableHeaderCell",
	HyperlinkKind:              "Hyperlink",
	StandaloneHyperlinkKind:    "StandaloneHyperlink",
	RefKind:                    "Ref",
	DirArgKind:                 "DirArg",
	DirectiveKind:              "Directive",
	ImageKind:                  "Image",
	FigureKind:                 "Figure",
	TitleKind:                  "Title",
	ContentsKind:               "Contents",
	IndexKind:                  "Index",
	ContainerKind:              "Container",
	RawKind:                    "Raw",
	RawHtmlKind:                "RawHtml",
	RawLatexKind:               "RawLatex",
	InnerKind:                  "Inner",
	LeafKind:                   "Leaf",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) && nodeKindNames[k] != "" {
		return nodeKindNames[k]
	}
	return "Invalid"
}

// Node is a node in a parsed document tree.
// Leaf nodes carry text; all other nodes carry an ordered child list.
// Directive-shaped nodes (Directive, Image, Figure, CodeBlock, Raw, …)
// have exactly three children: argument, field list, and body,
// any of which may be nil.
type Node struct {
	Kind     NodeKind
	Text     string // Leaf text, or the icon name of a Smiley
	Level    int    // Headline and Overline only
	Children []*Node
}

// NewNode returns a node of the given kind with no children.
func NewNode(kind NodeKind) *Node {
	return &Node{Kind: kind}
}

// NewLeaf returns a leaf node carrying the given text.
func NewLeaf(text string) *Node {
	return &Node{Kind: LeafKind, Text: text}
}

// Add appends child to n's child list.
// A nil child is kept: directive-shaped nodes use nil children
// as positional placeholders.
func (n *Node) Add(child *Node) {
	n.Children = append(n.Children, child)
}

func (n *Node) addIfNotNil(child *Node) {
	if child != nil {
		n.Add(child)
	}
}

// ChildCount returns the number of children the node has.
// Calling ChildCount on nil returns 0.
func (n *Node) ChildCount() int {
	if n == nil {
		return 0
	}
	return len(n.Children)
}

// Child returns the i'th child of the node, or nil if out of range.
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= len(n.Children) {
		return nil
	}
	return n.Children[i]
}

// InnerText returns the concatenation of all leaf text beneath n.
func (n *Node) InnerText() string {
	sb := new(strings.Builder)
	n.innerText(sb)
	return sb.String()
}

func (n *Node) innerText(sb *strings.Builder) {
	if n == nil {
		return
	}
	if n.Kind == LeafKind {
		sb.WriteString(n.Text)
		return
	}
	for _, c := range n.Children {
		c.innerText(sb)
	}
}

// clone returns a deep copy of n.
// The resolver copies substitution values on use
// so that documents stay tree-shaped.
func (n *Node) clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{Kind: n.Kind, Text: n.Text, Level: n.Level}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.clone()
		}
	}
	return c
}
