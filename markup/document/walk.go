// walk.go - traversal of document trees
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

package document

// Children returns pointers to the node sequences directly contained
// in n, in document order.  Processors use these to rewrite subtrees
// in place.
func Children(n Node) []*Nodes {
	var res []*Nodes
	switch n := n.(type) {
	case *Group:
		res = append(res, &n.Body)
	case *MacroDefinition:
		res = append(res, &n.Body)
	case *Invocation:
		res = appendArgs(res, n.Args)
	case *EachOpen:
		res = appendArgs(res, n.Items)
	case *Each:
		res = appendArgs(res, n.Items)
		res = append(res, &n.Body)
	case *Call:
		res = appendArgs(res, n.Args)
	case *Command:
		res = appendArgs(res, n.Args)
	}
	return res
}

func appendArgs(res []*Nodes, args []Nodes) []*Nodes {
	for i := range args {
		res = append(res, &args[i])
	}
	return res
}

// Walk calls fn for every node in the sequence, in depth-first
// pre-order.  If fn returns false, the children of that node are
// skipped.
func Walk(nodes Nodes, fn func(Node) bool) {
	for _, n := range nodes {
		if !fn(n) {
			continue
		}
		for _, child := range Children(n) {
			Walk(*child, fn)
		}
	}
}

// Count returns the number of nodes in the tree for which pred returns
// true.
func Count(nodes Nodes, pred func(Node) bool) int {
	k := 0
	Walk(nodes, func(n Node) bool {
		if pred(n) {
			k++
		}
		return true
	})
	return k
}

// Flatten converts resolved Each nodes back into the flat marker form
// produced by the parser, recursively.  Flatten is the inverse of
// resolution.
func Flatten(nodes Nodes) Nodes {
	var res Nodes
	for _, n := range nodes {
		switch n := n.(type) {
		case *Each:
			res = append(res, &EachOpen{Pos: n.Pos, Items: flattenArgs(n.Items)})
			res = append(res, Flatten(n.Body)...)
			res = append(res, &End{Pos: n.Pos})
		case *Group:
			res = append(res, &Group{Pos: n.Pos, Body: Flatten(n.Body)})
		case *MacroDefinition:
			res = append(res, &MacroDefinition{
				Pos: n.Pos, Name: n.Name, Arity: n.Arity, Body: Flatten(n.Body),
			})
		case *Invocation:
			res = append(res, &Invocation{Pos: n.Pos, Name: n.Name, Args: flattenArgs(n.Args)})
		case *Call:
			res = append(res, &Call{Pos: n.Pos, Target: n.Target, Args: flattenArgs(n.Args)})
		case *Command:
			res = append(res, &Command{Pos: n.Pos, Name: n.Name, Args: flattenArgs(n.Args)})
		default:
			res = append(res, n.Clone())
		}
	}
	return res
}

func flattenArgs(args []Nodes) []Nodes {
	if args == nil {
		return nil
	}
	res := make([]Nodes, len(args))
	for i, arg := range args {
		res[i] = Flatten(arg)
	}
	return res
}

// Depth returns the maximal nesting depth of Each nodes in the
// sequence.  Each nodes inside groups and arguments are counted as
// well.
func Depth(nodes Nodes) int {
	res := 0
	for _, n := range nodes {
		d := 0
		for _, child := range Children(n) {
			d = max(d, Depth(*child))
		}
		if _, isEach := n.(*Each); isEach {
			d++
		}
		res = max(res, d)
	}
	return res
}
