// scanner.go - source buffers and input positions
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
	"errors"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// ErrInvalidUTF8 is returned when a source is not valid UTF-8 text.
var ErrInvalidUTF8 = errors.New("input is not valid UTF-8")

// Source is an immutable, named input buffer.
type Source struct {
	// Name identifies the buffer in error messages.  This should be a
	// short, human-readable string, typically the base name of the
	// input file.
	Name string

	// Text is the complete input, in NFC normal form.
	Text string
}

// NewSource checks that data is valid UTF-8 and wraps it into a
// Source.  The text is converted to NFC normal form, so that
// single-character matchers see composed code points.
func NewSource(name string, data []byte) (*Source, error) {
	if !utf8.Valid(data) {
		return nil, ErrInvalidUTF8
	}
	return &Source{
		Name: name,
		Text: norm.NFC.String(string(data)),
	}, nil
}

// ReadFile reads the given file and returns its contents as a Source.
func ReadFile(fileName string) (*Source, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	src, err := NewSource(filepath.Base(fileName), data)
	if err != nil {
		return nil, &ParseError{
			Message: err.Error(),
			Source:  filepath.Base(fileName),
			Pos:     Position{Line: 1, Column: 1},
		}
	}
	return src, nil
}

// Cursor is a read position inside a Source.  Positions only move
// forward, except for explicit calls to the .Reset() method.
type Cursor struct {
	src *Source
	pos Position
}

// NewCursor returns a cursor positioned at the start of src.
func NewCursor(src *Source) *Cursor {
	return &Cursor{
		src: src,
		pos: start,
	}
}

// Source returns the buffer the cursor operates on.
func (c *Cursor) Source() *Source {
	return c.src
}

// Pos returns the current input position.
func (c *Cursor) Pos() Position {
	return c.pos
}

// AtEOF reports whether all input has been consumed.
func (c *Cursor) AtEOF() bool {
	return c.pos.Offset >= len(c.src.Text)
}

// Rest returns all input after the current position.
func (c *Cursor) Rest() string {
	return c.src.Text[c.pos.Offset:]
}

// Peek returns up to n bytes of input after the current position.
// The position is not changed.
func (c *Cursor) Peek(n int) string {
	rest := c.Rest()
	if n < len(rest) {
		return rest[:n]
	}
	return rest
}

// PeekRune returns the next code point and its length in bytes.  At
// the end of input, size is 0.
func (c *Cursor) PeekRune() (r rune, size int) {
	if c.AtEOF() {
		return utf8.RuneError, 0
	}
	return utf8.DecodeRuneInString(c.Rest())
}

// Advance moves the current position forward by n bytes.
func (c *Cursor) Advance(n int) {
	if n < 0 || c.pos.Offset+n > len(c.src.Text) {
		panic("invalid skip amount")
	}
	for _, r := range c.src.Text[c.pos.Offset : c.pos.Offset+n] {
		if r == '\n' {
			c.pos.Line++
			c.pos.Column = 1
		} else {
			c.pos.Column++
		}
	}
	c.pos.Offset += n
}

// Reset moves the cursor back to the start of the input.
func (c *Cursor) Reset() {
	c.pos = start
}

// ShowLines renders the `count` input lines up to and including the
// current line, with `marker` inserted at the current position.
func (c *Cursor) ShowLines(count int, marker string) string {
	if count < 1 {
		count = 1
	}
	text := c.src.Text
	off := c.pos.Offset

	first := off
	for n := 0; n < count; n++ {
		idx := strings.LastIndexByte(text[:first], '\n')
		if idx < 0 {
			first = 0
			break
		}
		if n == count-1 {
			first = idx + 1
		} else {
			first = idx
		}
	}
	last := len(text)
	if idx := strings.IndexByte(text[off:], '\n'); idx >= 0 {
		last = off + idx
	}
	return text[first:off] + marker + text[off:last]
}

var start = Position{Offset: 0, Line: 1, Column: 1}
