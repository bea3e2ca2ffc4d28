// document.go -
// Copyright (C) 2016  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package document implements the tree representation of Tango
// documents.
package document

import (
	"strings"
)

// Document is the tree representation of one input file.
type Document struct {
	// Name is the name of the input file.
	Name string

	// Nodes is the top-level node sequence.
	Nodes Nodes
}

// New returns a document with the given top-level nodes.
func New(name string, nodes Nodes) *Document {
	return &Document{Name: name, Nodes: nodes}
}

// Clone returns a deep copy of the document.
func (doc *Document) Clone() *Document {
	return &Document{Name: doc.Name, Nodes: doc.Nodes.Clone()}
}

// Text returns the flattened text of the document.
func (doc *Document) Text() string {
	return PlainText(doc.Nodes)
}

// PlainText returns the concatenation of all Text and Raw values in the
// sequence, in depth-first order.  Group bodies and Each bodies are
// included; macro definition bodies and command arguments are not.
func PlainText(nodes Nodes) string {
	b := &strings.Builder{}
	appendText(b, nodes)
	return b.String()
}

func appendText(b *strings.Builder, nodes Nodes) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *Text:
			b.WriteString(n.Value)
		case *Raw:
			b.WriteString(n.Value)
		case *Group:
			appendText(b, n.Body)
		case *Each:
			appendText(b, n.Body)
		}
	}
}

// Merge returns a copy of the sequence where adjacent Text nodes are
// combined into one.  The position of the first node of every run is
// kept.  Child sequences are not modified.
func Merge(nodes Nodes) Nodes {
	res := make(Nodes, 0, len(nodes))
	var last *Text
	for _, n := range nodes {
		if t, ok := n.(*Text); ok {
			if last != nil {
				last.Value += t.Value
				continue
			}
			last = &Text{Pos: t.Pos, Value: t.Value}
			res = append(res, last)
			continue
		}
		last = nil
		res = append(res, n)
	}
	return res
}
