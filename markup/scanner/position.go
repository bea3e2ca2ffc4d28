// position.go -
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

package scanner

import (
	"fmt"
	"strconv"
	"strings"
)

// Position describes a location in a Source.  Positions are compared
// by their byte offset.
type Position struct {
	Offset int // byte offset, starting at 0
	Line   int // line number, starting at 1
	Column int // column number in code points, starting at 1
}

func (pos Position) String() string {
	return strconv.Itoa(pos.Line) + ":" + strconv.Itoa(pos.Column)
}

// Before reports whether pos lies before other.
func (pos Position) Before(other Position) bool {
	return pos.Offset < other.Offset
}

// ParseError is an error which includes human-readable information
// about the input position where the problem was detected.
type ParseError struct {
	Message string
	Source  string
	Pos     Position
	Context string
}

// MakeError returns an error object for the current input position.
func (c *Cursor) MakeError(message string) *ParseError {
	return c.src.MakeError(c.pos, message)
}

// MakeError returns an error object which includes the given message
// together with the input following pos.
func (src *Source) MakeError(pos Position, message string) *ParseError {
	var context string
	if pos.Offset <= len(src.Text) {
		rest := src.Text[pos.Offset:]
		if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
			rest = rest[:idx]
		}
		if len(rest) > 20 {
			context = rest[:17] + "..."
		} else {
			context = rest
		}
	}
	return &ParseError{
		Message: message,
		Source:  src.Name,
		Pos:     pos,
		Context: context,
	}
}

func (err *ParseError) Error() string {
	res := []string{err.Message, "\n    "}
	if err.Source != "" {
		res = append(res, err.Source, ", ")
	}
	res = append(res, "line ", strconv.Itoa(err.Pos.Line),
		", column ", strconv.Itoa(err.Pos.Column))
	if err.Context != "" {
		res = append(res, fmt.Sprintf(", before %q", err.Context))
	}
	return strings.Join(res, "")
}
