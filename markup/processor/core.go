// core.go - macro definitions, macro expansion and each blocks
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

package processor

import (
	"context"
	"strconv"

	"github.com/seehuhn/tango/markup/document"
)

// Names of the core processors.
const (
	CollectDefinitions = "collect-definitions"
	ExpandMacros       = "expand-macros"
	UnrollEach         = "unroll-each"
	DispatchCalls      = "dispatch-calls"
)

// ItemVariable is the variable bound to the current item inside an
// each block.
const ItemVariable = "item"

// RegisterCore appends the core processors.  Definitions are collected
// before expansion, and each blocks are unrolled after expansion so
// that macros may generate each blocks.  Calls are dispatched last, so
// that their arguments are fully expanded.
func (dp *DocumentProcessor) RegisterCore() {
	dp.Register(Func(CollectDefinitions, dp.collectDefinitions))
	dp.Register(Func(ExpandMacros, dp.expandMacros))
	dp.Register(Func(UnrollEach, unrollEach))
	dp.Register(Func(DispatchCalls, dp.dispatchCalls))
}

func (dp *DocumentProcessor) collectDefinitions(_ context.Context, doc *document.Document) error {
	nodes, err := dp.collect(doc.Name, doc.Nodes)
	if err != nil {
		return err
	}
	doc.Nodes = nodes
	return nil
}

// collect removes all macro definitions from nodes and adds them to
// the macro table.  Definitions inside macro bodies are collected when
// the enclosing macro is expanded.
func (dp *DocumentProcessor) collect(source string, nodes document.Nodes) (document.Nodes, error) {
	res := make(document.Nodes, 0, len(nodes))
	for _, n := range nodes {
		if def, ok := n.(*document.MacroDefinition); ok {
			err := dp.Macros.Define(source, def)
			if err != nil {
				return nil, err
			}
			continue
		}
		for _, child := range document.Children(n) {
			collected, err := dp.collect(source, *child)
			if err != nil {
				return nil, err
			}
			*child = collected
		}
		res = append(res, n)
	}
	return document.Merge(res), nil
}

func (dp *DocumentProcessor) expandMacros(_ context.Context, doc *document.Document) error {
	dp.expansion = 0
	nodes, err := dp.expand(doc.Name, doc.Nodes, 0)
	if err != nil {
		return err
	}
	doc.Nodes = nodes
	return nil
}

// expand replaces invocations of defined macros by the macro bodies.
// Invocations of unknown macros become commands.  Macro definitions
// which appear as the result of an expansion are added to the macro
// table and take effect for the rest of the document.
func (dp *DocumentProcessor) expand(source string, nodes document.Nodes, depth int) (document.Nodes, error) {
	res := make(document.Nodes, 0, len(nodes))
	for _, n := range nodes {
		switch n := n.(type) {
		case *document.MacroDefinition:
			err := dp.Macros.Define(source, n)
			if err != nil {
				return nil, err
			}
			continue

		case *document.Invocation:
			m, ok := dp.Macros.Lookup(n.Name)
			if !ok {
				args, err := dp.expandAll(source, n.Args, depth)
				if err != nil {
					return nil, err
				}
				res = append(res, &document.Command{Pos: n.Pos, Name: n.Name, Args: args})
				continue
			}
			if len(n.Args) != m.Arity {
				return nil, &ArityError{
					Source:   source,
					Pos:      n.Pos,
					Name:     n.Name,
					Expected: m.Arity,
					Actual:   len(n.Args),
				}
			}
			if depth >= dp.MaxDepth {
				return nil, &MacroExpansionOverflowError{
					Source: source,
					Pos:    n.Pos,
					Name:   n.Name,
					Depth:  dp.MaxDepth,
				}
			}

			values := make(map[string]document.Nodes, len(n.Args))
			for i, arg := range n.Args {
				values[strconv.Itoa(i+1)] = arg
			}
			body := substitute(m.Body.Clone(), values)
			dp.expansion += expansionSize(body)
			if dp.MaxExpansion > 0 && dp.expansion > dp.MaxExpansion {
				return nil, &MacroExpansionOverflowError{
					Source: source,
					Pos:    n.Pos,
					Name:   n.Name,
					Size:   dp.MaxExpansion,
				}
			}
			expanded, err := dp.expand(source, body, depth+1)
			if err != nil {
				return nil, err
			}
			res = append(res, expanded...)
			continue
		}

		for _, child := range document.Children(n) {
			expanded, err := dp.expand(source, *child, depth)
			if err != nil {
				return nil, err
			}
			*child = expanded
		}
		res = append(res, n)
	}
	return document.Merge(res), nil
}

// expansionSize returns the number of nodes plus the number of bytes
// of text in nodes.
func expansionSize(nodes document.Nodes) int {
	size := 0
	document.Walk(nodes, func(n document.Node) bool {
		size++
		switch n := n.(type) {
		case *document.Text:
			size += len(n.Value)
		case *document.Raw:
			size += len(n.Value)
		}
		return true
	})
	return size
}

func (dp *DocumentProcessor) expandAll(source string, seqs []document.Nodes, depth int) ([]document.Nodes, error) {
	for i, seq := range seqs {
		expanded, err := dp.expand(source, seq, depth)
		if err != nil {
			return nil, err
		}
		seqs[i] = expanded
	}
	return seqs, nil
}

func unrollEach(_ context.Context, doc *document.Document) error {
	doc.Nodes = unroll(doc.Nodes)
	return nil
}

// unroll replaces every each block by copies of its body, one for
// every item, with the item variable bound to the item.  A block
// without items is replaced by its body.
func unroll(nodes document.Nodes) document.Nodes {
	res := make(document.Nodes, 0, len(nodes))
	for _, n := range nodes {
		each, ok := n.(*document.Each)
		if !ok {
			for _, child := range document.Children(n) {
				*child = unroll(*child)
			}
			res = append(res, n)
			continue
		}

		if len(each.Items) == 0 {
			res = append(res, unroll(each.Body)...)
			continue
		}
		for _, item := range each.Items {
			values := map[string]document.Nodes{ItemVariable: unroll(item)}
			body := substitute(each.Body.Clone(), values)
			res = append(res, unroll(body)...)
		}
	}
	return document.Merge(res)
}

// substitute replaces variables in nodes by copies of their values.
// The nodes are modified in place.  Each blocks rebind the item
// variable in their body, and macro definitions rebind the numbered
// parameters.
func substitute(nodes document.Nodes, values map[string]document.Nodes) document.Nodes {
	if len(values) == 0 {
		return nodes
	}
	res := make(document.Nodes, 0, len(nodes))
	for _, n := range nodes {
		switch n := n.(type) {
		case *document.Variable:
			if val, ok := values[n.Name]; ok {
				res = append(res, val.Clone()...)
				continue
			}
		case *document.Each:
			for i := range n.Items {
				n.Items[i] = substitute(n.Items[i], values)
			}
			n.Body = substitute(n.Body, without(values, isItem))
		case *document.MacroDefinition:
			n.Body = substitute(n.Body, without(values, isNumeric))
		default:
			for _, child := range document.Children(n) {
				*child = substitute(*child, values)
			}
		}
		res = append(res, n)
	}
	return document.Merge(res)
}

func without(values map[string]document.Nodes, drop func(string) bool) map[string]document.Nodes {
	res := make(map[string]document.Nodes, len(values))
	for name, val := range values {
		if !drop(name) {
			res[name] = val
		}
	}
	return res
}

func isItem(name string) bool {
	return name == ItemVariable
}

func isNumeric(name string) bool {
	_, err := strconv.Atoi(name)
	return err == nil
}
