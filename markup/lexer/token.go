// token.go -
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
	"fmt"

	"github.com/seehuhn/tango/markup/regex"
	"github.com/seehuhn/tango/markup/scanner"
)

// Token contains information about a single syntactic unit in the
// input.  Tokens are never modified after they have been created.
type Token struct {
	// Type is the name of the matcher which produced the token.
	Type string

	// Value is the matched input text.
	Value string

	// Start and End delimit the matched text in the source.
	Start, End scanner.Position
}

func (tok *Token) String() string {
	return fmt.Sprintf("%s %q at %s", tok.Type, tok.Value, tok.Start)
}

// A Matcher tries to recognise a token at the current position of a
// cursor.  On success the cursor is advanced past the token.  On
// failure, Match returns nil and the cursor is left unchanged.
type Matcher interface {
	Name() string
	Match(c *scanner.Cursor) *Token
}

func makeToken(c *scanner.Cursor, name string, n int) *Token {
	start := c.Pos()
	value := c.Peek(n)
	c.Advance(n)
	return &Token{
		Type:  name,
		Value: value,
		Start: start,
		End:   c.Pos(),
	}
}

type charMatcher struct {
	name string
	char rune
}

// Char returns a matcher for exactly one occurrence of the code
// point r.
func Char(name string, r rune) Matcher {
	return &charMatcher{name: name, char: r}
}

func (m *charMatcher) Name() string { return m.name }

func (m *charMatcher) Match(c *scanner.Cursor) *Token {
	r, size := c.PeekRune()
	if size == 0 || r != m.char {
		return nil
	}
	return makeToken(c, m.name, size)
}

type charInMatcher struct {
	name  string
	chars map[rune]bool
}

// CharIn returns a matcher for a single code point out of the given
// set.
func CharIn(name string, chars ...rune) Matcher {
	m := &charInMatcher{
		name:  name,
		chars: make(map[rune]bool, len(chars)),
	}
	for _, r := range chars {
		m.chars[r] = true
	}
	return m
}

func (m *charInMatcher) Name() string { return m.name }

func (m *charInMatcher) Match(c *scanner.Cursor) *Token {
	r, size := c.PeekRune()
	if size == 0 || !m.chars[r] {
		return nil
	}
	return makeToken(c, m.name, size)
}

type regexpMatcher struct {
	name string
	re   *regex.Regexp
}

// Regexp returns a matcher for the longest non-empty prefix of the
// remaining input which matches re.
func Regexp(name string, re *regex.Regexp) Matcher {
	return &regexpMatcher{name: name, re: re}
}

func (m *regexpMatcher) Name() string { return m.name }

func (m *regexpMatcher) Match(c *scanner.Cursor) *Token {
	n, ok := m.re.LongestPrefix(c.Rest())
	if !ok {
		return nil
	}
	return makeToken(c, m.name, n)
}
