// lexer.go -
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

package lexer

import (
	"errors"
	"io"
	"iter"

	"github.com/seehuhn/tango/markup/scanner"
)

// ErrLexerMisuse is returned by .Putback() when a token has already
// been pushed back and not yet been read again.  This indicates a bug
// in the calling code.
var ErrLexerMisuse = errors.New("lexer: only one token can be pushed back")

// UnrecognizedInputError is returned when none of the matchers of a
// Lexer recognises the input at the current position.
type UnrecognizedInputError struct {
	*scanner.ParseError
}

func (err *UnrecognizedInputError) Unwrap() error {
	return err.ParseError
}

// A Lexer splits its input into tokens.  At every input position the
// matchers are tried in the order they were given to NewLexer, and the
// first matcher which succeeds determines the token.
type Lexer struct {
	cursor   *scanner.Cursor
	matchers []Matcher
	pending  *Token
}

// NewLexer creates a Lexer reading from c.
func NewLexer(c *scanner.Cursor, matchers ...Matcher) *Lexer {
	return &Lexer{
		cursor:   c,
		matchers: matchers,
	}
}

// Cursor returns the cursor the lexer reads from.
func (l *Lexer) Cursor() *scanner.Cursor {
	return l.cursor
}

// Next returns the next token.  At the end of input, io.EOF is
// returned.  If no matcher recognises the input, the error is an
// *UnrecognizedInputError and the cursor is not moved.
func (l *Lexer) Next() (*Token, error) {
	if tok := l.pending; tok != nil {
		l.pending = nil
		return tok, nil
	}
	if l.cursor.AtEOF() {
		return nil, io.EOF
	}
	for _, m := range l.matchers {
		if tok := m.Match(l.cursor); tok != nil {
			return tok, nil
		}
	}
	return nil, &UnrecognizedInputError{
		ParseError: l.cursor.MakeError("unrecognized input"),
	}
}

// Putback arranges for tok to be returned by the next call to .Next().
// The cursor position is not changed.  Only one token can be pushed
// back at a time.
func (l *Lexer) Putback(tok *Token) error {
	if l.pending != nil {
		return ErrLexerMisuse
	}
	l.pending = tok
	return nil
}

// HasPending reports whether a pushed back token is waiting to be
// read.
func (l *Lexer) HasPending() bool {
	return l.pending != nil
}

// Reset moves the input back to the start and discards any pushed back
// token.
func (l *Lexer) Reset() {
	l.cursor.Reset()
	l.pending = nil
}

// All returns an iterator over the remaining tokens.  Iteration stops
// at the end of input.  If the input cannot be tokenized, the last
// pair yielded carries the error.
func (l *Lexer) All() iter.Seq2[*Token, error] {
	return func(yield func(*Token, error) bool) {
		for {
			tok, err := l.Next()
			if err == io.EOF {
				return
			}
			if !yield(tok, err) || err != nil {
				return
			}
		}
	}
}

// Tokens reads all remaining tokens.
func (l *Lexer) Tokens() ([]*Token, error) {
	var res []*Token
	for tok, err := range l.All() {
		if err != nil {
			return res, err
		}
		res = append(res, tok)
	}
	return res, nil
}
