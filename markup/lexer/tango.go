// tango.go - the token types of the Tango markup language
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
	"github.com/seehuhn/tango/markup/regex"
	"github.com/seehuhn/tango/markup/scanner"
)

// The token types produced by the matchers returned by TangoMatchers.
const (
	TokenCommand  = "command"  // \name
	TokenEscape   = "escape"   // \ followed by a non-letter
	TokenLBrace   = "lbrace"   // {
	TokenRBrace   = "rbrace"   // }
	TokenLBracket = "lbracket" // [
	TokenRBracket = "rbracket" // ]
	TokenVariable = "variable" // #name
	TokenHash     = "hash"     // # not followed by a name
	TokenComment  = "comment"  // % up to the end of the line
	TokenNewline  = "newline"
	TokenSpace    = "space"
	TokenWord     = "word"
)

var (
	commandRe  = regex.MustCompile(`\\[a-zA-Z]+`)
	escapeRe   = regex.MustCompile(`\\(.|\n)`)
	variableRe = regex.MustCompile(`#[a-zA-Z0-9]+`)
	commentRe  = regex.MustCompile(`%[^\n]*`)
	wordRe     = regex.MustCompile(`[^\\{}\[\]#% \t\r\n]+`)
)

// TangoMatchers returns the matchers for the Tango markup language,
// in priority order.
func TangoMatchers() []Matcher {
	return []Matcher{
		Regexp(TokenCommand, commandRe),
		Regexp(TokenEscape, escapeRe),
		Char(TokenLBrace, '{'),
		Char(TokenRBrace, '}'),
		Char(TokenLBracket, '['),
		Char(TokenRBracket, ']'),
		Regexp(TokenVariable, variableRe),
		Char(TokenHash, '#'),
		Regexp(TokenComment, commentRe),
		Char(TokenNewline, '\n'),
		CharIn(TokenSpace, ' ', '\t', '\r'),
		Regexp(TokenWord, wordRe),
	}
}

// NewTangoLexer returns a Lexer for Tango markup, reading from src.
func NewTangoLexer(src *scanner.Source) *Lexer {
	return NewLexer(scanner.NewCursor(src), TangoMatchers()...)
}
