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

package parser

import (
	"github.com/seehuhn/tango/markup/scanner"
)

// SyntaxError indicates malformed markup, for example a macro
// definition without a body.
type SyntaxError struct {
	*scanner.ParseError
}

func (err *SyntaxError) Unwrap() error {
	return err.ParseError
}

// UnmatchedEndError is returned by the resolver for an \end{each}
// without a preceding \begin{each} in the same brace group.
type UnmatchedEndError struct {
	*scanner.ParseError
}

func (err *UnmatchedEndError) Unwrap() error {
	return err.ParseError
}

// UnterminatedBlockError is returned by the resolver for a
// \begin{each} which is not closed before the end of the enclosing
// brace group.
type UnterminatedBlockError struct {
	*scanner.ParseError
}

func (err *UnterminatedBlockError) Unwrap() error {
	return err.ParseError
}
