// errors.go -
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
	"fmt"

	"github.com/seehuhn/tango/markup/scanner"
)

// ArityError indicates that a macro was invoked with the wrong number
// of arguments.
type ArityError struct {
	Source   string
	Pos      scanner.Position
	Name     string
	Expected int
	Actual   int
}

func (err *ArityError) Error() string {
	return fmt.Sprintf("%s:%s: macro \\%s expects %d argument(s), got %d",
		err.Source, err.Pos, err.Name, err.Expected, err.Actual)
}

// MacroExpansionOverflowError indicates that macro expansion did not
// terminate within the configured depth or size, usually because of a
// recursive macro.  Exactly one of Depth and Size is set.
type MacroExpansionOverflowError struct {
	Source string
	Pos    scanner.Position
	Name   string
	Depth  int
	Size   int
}

func (err *MacroExpansionOverflowError) Error() string {
	if err.Size > 0 {
		return fmt.Sprintf("%s:%s: expansion of \\%s exceeds maximum size %d",
			err.Source, err.Pos, err.Name, err.Size)
	}
	return fmt.Sprintf("%s:%s: expansion of \\%s exceeds maximum depth %d",
		err.Source, err.Pos, err.Name, err.Depth)
}

// ParameterError indicates that a macro body refers to a parameter
// which the macro does not have.
type ParameterError struct {
	Source string
	Pos    scanner.Position
	Name   string
	Param  string
	Arity  int
}

func (err *ParameterError) Error() string {
	return fmt.Sprintf("%s:%s: macro \\%s has %d parameter(s), but uses #%s",
		err.Source, err.Pos, err.Name, err.Arity, err.Param)
}

// UnknownCallError indicates a \call with a target for which no
// command is registered.
type UnknownCallError struct {
	Source string
	Pos    scanner.Position
	Target string
}

func (err *UnknownCallError) Error() string {
	return fmt.Sprintf("%s:%s: unknown call target %q", err.Source, err.Pos, err.Target)
}
