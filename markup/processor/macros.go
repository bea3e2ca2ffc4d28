// macros.go - the table of user-defined macros
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
	"sort"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/seehuhn/tango/markup/document"
	"github.com/seehuhn/tango/markup/parser"
	"github.com/seehuhn/tango/markup/scanner"
)

// Macro is a user-defined macro.
type Macro struct {
	Name  string
	Arity int
	Body  document.Nodes
	Pos   scanner.Position
}

// MacroTable maps macro names to their definitions.  If a name is
// defined more than once, the last definition wins.
type MacroTable struct {
	macros map[string]*Macro
}

// NewMacroTable returns an empty macro table.
func NewMacroTable() *MacroTable {
	return &MacroTable{
		macros: make(map[string]*Macro),
	}
}

// Define adds the macro described by def to the table.  Definitions
// for reserved names are ignored.  The source name is used for error
// messages.
func (mt *MacroTable) Define(source string, def *document.MacroDefinition) error {
	if parser.IsReserved(def.Name) {
		log.Warn().Str("file", source).Stringer("pos", def.Pos).
			Str("macro", def.Name).Msg("cannot redefine reserved command, ignored")
		return nil
	}
	if param := badParameter(def.Body, def.Arity); param != "" {
		return &ParameterError{
			Source: source,
			Pos:    def.Pos,
			Name:   def.Name,
			Param:  param,
			Arity:  def.Arity,
		}
	}

	if old, ok := mt.macros[def.Name]; ok {
		log.Debug().Str("file", source).Stringer("pos", def.Pos).
			Stringer("previous", old.Pos).Str("macro", def.Name).
			Msg("macro redefined")
	}
	mt.macros[def.Name] = &Macro{
		Name:  def.Name,
		Arity: def.Arity,
		Body:  def.Body,
		Pos:   def.Pos,
	}
	return nil
}

// Lookup returns the macro with the given name.
func (mt *MacroTable) Lookup(name string) (*Macro, bool) {
	m, ok := mt.macros[name]
	return m, ok
}

// Len returns the number of defined macros.
func (mt *MacroTable) Len() int {
	return len(mt.macros)
}

// Names returns the names of all defined macros in alphabetical order.
func (mt *MacroTable) Names() []string {
	var res []string
	for name := range mt.macros {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

// Clear removes all definitions.
func (mt *MacroTable) Clear() {
	clear(mt.macros)
}

// badParameter returns the name of the first numeric variable in body
// which does not refer to one of the arity parameters.  Bodies of
// nested definitions are not checked.
func badParameter(body document.Nodes, arity int) string {
	var bad string
	document.Walk(body, func(n document.Node) bool {
		if bad != "" {
			return false
		}
		switch n := n.(type) {
		case *document.MacroDefinition:
			return false
		case *document.Variable:
			k, err := strconv.Atoi(n.Name)
			if err == nil && (k < 1 || k > arity) {
				bad = n.Name
			}
		}
		return true
	})
	return bad
}
