// validate.go -
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
	"errors"
	"fmt"
)

// ErrUnresolved is the error wrapped by *UnresolvedNodeError.
var ErrUnresolved = errors.New("unresolved node")

// UnresolvedNodeError indicates that a document still contains a node
// which should have been removed by document processing.
type UnresolvedNodeError struct {
	Name string
	Node Node
}

func (err *UnresolvedNodeError) Error() string {
	desc := Kind(err.Node)
	switch n := err.Node.(type) {
	case *Invocation:
		desc += " \\" + n.Name
	case *MacroDefinition:
		desc += " \\" + n.Name
	case *Call:
		desc += " " + n.Target
	}
	return fmt.Sprintf("%s:%s: %s %s", err.Name, err.Node.Position(), ErrUnresolved, desc)
}

func (err *UnresolvedNodeError) Unwrap() error {
	return ErrUnresolved
}

// Kind returns a short, lower-case name for the type of n.
func Kind(n Node) string {
	switch n.(type) {
	case *Text:
		return "text"
	case *Group:
		return "group"
	case *MacroDefinition:
		return "macro-definition"
	case *Invocation:
		return "invocation"
	case *Variable:
		return "variable"
	case *EachOpen:
		return "each-open"
	case *End:
		return "end"
	case *Each:
		return "each"
	case *Call:
		return "call"
	case *Command:
		return "command"
	case *Code:
		return "code"
	case *Raw:
		return "raw"
	}
	return fmt.Sprintf("%T", n)
}

// Validate checks that the document is ready to be given to a
// generator: no invocations, macro definitions, calls, each blocks or
// block markers may remain.  If noCode is set, Code nodes are rejected
// as well.  The first offending node in document order is reported.
func (doc *Document) Validate(noCode bool) error {
	var bad Node
	Walk(doc.Nodes, func(n Node) bool {
		if bad != nil {
			return false
		}
		switch n.(type) {
		case *Invocation, *MacroDefinition, *Call, *Each, *EachOpen, *End:
			bad = n
		case *Code:
			if noCode {
				bad = n
			}
		}
		return bad == nil
	})
	if bad != nil {
		return &UnresolvedNodeError{Name: doc.Name, Node: bad}
	}
	return nil
}
