// node.go - the nodes of a Tango document tree
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

import (
	"strconv"

	"github.com/seehuhn/tango/markup/scanner"
)

// Node is a single element of a document tree.  The concrete types
// are the structs defined in this package.
type Node interface {
	// Position returns the input position where the node started.
	Position() scanner.Position

	// Clone returns a deep copy of the node.
	Clone() Node

	node()
}

// Nodes is an ordered sequence of document nodes.
type Nodes []Node

// Clone returns a deep copy of the sequence.
func (ns Nodes) Clone() Nodes {
	if ns == nil {
		return nil
	}
	res := make(Nodes, len(ns))
	for i, n := range ns {
		res[i] = n.Clone()
	}
	return res
}

func cloneArgs(args []Nodes) []Nodes {
	if args == nil {
		return nil
	}
	res := make([]Nodes, len(args))
	for i, arg := range args {
		res[i] = arg.Clone()
	}
	return res
}

// Text is a run of text, passed through verbatim.
type Text struct {
	Pos   scanner.Position
	Value string
}

// Group is a brace-delimited group which is not the argument of a
// command.
type Group struct {
	Pos  scanner.Position
	Body Nodes
}

// MacroDefinition binds a name to a body with a fixed number of
// parameters.
type MacroDefinition struct {
	Pos   scanner.Position
	Name  string
	Arity int
	Body  Nodes
}

// Invocation is a use of a command with its arguments, before macro
// expansion.
type Invocation struct {
	Pos  scanner.Position
	Name string
	Args []Nodes
}

// Variable is a placeholder like #1 inside a macro body, or #item
// inside an each block.
type Variable struct {
	Pos  scanner.Position
	Name string
}

// EachOpen marks the start of an each block in the flat node list
// produced by the parser.  The resolver replaces the region between
// EachOpen and the matching End by an Each node.
type EachOpen struct {
	Pos   scanner.Position
	Items []Nodes
}

// End marks the end of an each block in the flat node list.
type End struct {
	Pos scanner.Position
}

// Each is a resolved each block.  The body is repeated once for every
// item.
type Each struct {
	Pos   scanner.Position
	Items []Nodes
	Body  Nodes
}

// Call invokes a command registered with the document processor.
type Call struct {
	Pos    scanner.Position
	Target string
	Args   []Nodes
}

// Command is an invocation for which no macro is defined.  Commands
// are passed on to the generator unchanged.
type Command struct {
	Pos  scanner.Position
	Name string
	Args []Nodes
}

// CodeMode describes what to do with an active code fragment.
type CodeMode int

// These are the supported code modes.
const (
	CodeEval  CodeMode = iota // insert the value into the document
	CodeExec                  // run for side effects only
	CodeCheck                 // the value must be true
)

func (m CodeMode) String() string {
	switch m {
	case CodeEval:
		return "eval"
	case CodeExec:
		return "exec"
	case CodeCheck:
		return "check"
	}
	return "CodeMode(" + strconv.Itoa(int(m)) + ")"
}

// Code is an embedded fragment of active code.
type Code struct {
	Pos    scanner.Position
	Mode   CodeMode
	Source string
}

// Raw is malformed input, kept for error reporting.
type Raw struct {
	Pos   scanner.Position
	Value string
}

func (n *Text) Position() scanner.Position            { return n.Pos }
func (n *Group) Position() scanner.Position           { return n.Pos }
func (n *MacroDefinition) Position() scanner.Position { return n.Pos }
func (n *Invocation) Position() scanner.Position      { return n.Pos }
func (n *Variable) Position() scanner.Position        { return n.Pos }
func (n *EachOpen) Position() scanner.Position        { return n.Pos }
func (n *End) Position() scanner.Position             { return n.Pos }
func (n *Each) Position() scanner.Position            { return n.Pos }
func (n *Call) Position() scanner.Position            { return n.Pos }
func (n *Command) Position() scanner.Position         { return n.Pos }
func (n *Code) Position() scanner.Position            { return n.Pos }
func (n *Raw) Position() scanner.Position             { return n.Pos }

func (n *Text) Clone() Node  { c := *n; return &c }
func (n *Group) Clone() Node { return &Group{Pos: n.Pos, Body: n.Body.Clone()} }
func (n *MacroDefinition) Clone() Node {
	return &MacroDefinition{Pos: n.Pos, Name: n.Name, Arity: n.Arity, Body: n.Body.Clone()}
}
func (n *Invocation) Clone() Node {
	return &Invocation{Pos: n.Pos, Name: n.Name, Args: cloneArgs(n.Args)}
}
func (n *Variable) Clone() Node { c := *n; return &c }
func (n *EachOpen) Clone() Node { return &EachOpen{Pos: n.Pos, Items: cloneArgs(n.Items)} }
func (n *End) Clone() Node      { c := *n; return &c }
func (n *Each) Clone() Node {
	return &Each{Pos: n.Pos, Items: cloneArgs(n.Items), Body: n.Body.Clone()}
}
func (n *Call) Clone() Node {
	return &Call{Pos: n.Pos, Target: n.Target, Args: cloneArgs(n.Args)}
}
func (n *Command) Clone() Node {
	return &Command{Pos: n.Pos, Name: n.Name, Args: cloneArgs(n.Args)}
}
func (n *Code) Clone() Node { c := *n; return &c }
func (n *Raw) Clone() Node  { c := *n; return &c }

func (*Text) node()            {}
func (*Group) node()           {}
func (*MacroDefinition) node() {}
func (*Invocation) node()      {}
func (*Variable) node()        {}
func (*EachOpen) node()        {}
func (*End) node()             {}
func (*Each) node()            {}
func (*Call) node()            {}
func (*Command) node()         {}
func (*Code) node()            {}
func (*Raw) node()             {}
