// resolve.go - build each blocks from begin/end markers
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

package parser

import (
	"github.com/seehuhn/tango/markup/document"
	"github.com/seehuhn/tango/markup/scanner"
)

// Resolver converts flat node sequences, where each blocks are
// delimited by EachOpen and End markers, into trees.  Every brace
// group is resolved independently, so markers must balance within
// their own group.  The input sequence is not modified.
type Resolver struct {
	src *scanner.Source
}

// NewResolver returns a resolver.  The source is used for error
// messages only.
func NewResolver(src *scanner.Source) *Resolver {
	return &Resolver{src: src}
}

// Resolve returns the tree corresponding to the flat sequence nodes.
func (r *Resolver) Resolve(nodes document.Nodes) (document.Nodes, error) {
	res, _, err := r.resolveLevel(nodes, 0, nil)
	return res, err
}

// resolveLevel resolves nodes[pos:] up to the End marker which closes
// open, or up to the end of the sequence if open is nil.  The index
// after the last node consumed is returned.
func (r *Resolver) resolveLevel(nodes document.Nodes, pos int, open *document.EachOpen) (document.Nodes, int, error) {
	var res document.Nodes
	for pos < len(nodes) {
		n := nodes[pos]
		pos++

		switch n := n.(type) {
		case *document.EachOpen:
			body, next, err := r.resolveLevel(nodes, pos, n)
			if err != nil {
				return nil, 0, err
			}
			items, err := r.resolveAll(n.Items)
			if err != nil {
				return nil, 0, err
			}
			res = append(res, &document.Each{Pos: n.Pos, Items: items, Body: body})
			pos = next
		case *document.End:
			if open == nil {
				return nil, 0, &UnmatchedEndError{
					ParseError: r.src.MakeError(n.Pos, "\\end{each} without \\begin{each}"),
				}
			}
			return document.Merge(res), pos, nil
		default:
			c, err := r.resolveChildren(n)
			if err != nil {
				return nil, 0, err
			}
			res = append(res, c)
		}
	}
	if open != nil {
		return nil, 0, &UnterminatedBlockError{
			ParseError: r.src.MakeError(open.Pos, "\\begin{each} without \\end{each}"),
		}
	}
	return document.Merge(res), pos, nil
}

func (r *Resolver) resolveChildren(n document.Node) (document.Node, error) {
	children := document.Children(n)
	if len(children) == 0 {
		return n.Clone(), nil
	}
	c := n.Clone()
	for _, child := range document.Children(c) {
		resolved, err := r.Resolve(*child)
		if err != nil {
			return nil, err
		}
		*child = resolved
	}
	return c, nil
}

func (r *Resolver) resolveAll(seqs []document.Nodes) ([]document.Nodes, error) {
	if seqs == nil {
		return nil, nil
	}
	res := make([]document.Nodes, len(seqs))
	for i, seq := range seqs {
		resolved, err := r.Resolve(seq)
		if err != nil {
			return nil, err
		}
		res[i] = resolved
	}
	return res, nil
}
