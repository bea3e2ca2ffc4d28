// parser.go - convert Tango markup into document nodes
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

// Package parser converts the token stream of a Tango document into a
// document tree.
//
// Parsing happens in two steps.  The Parser turns tokens into a flat
// node sequence where each blocks are represented by EachOpen and End
// markers.  The Resolver then replaces every marked region by an Each
// node.
package parser

import (
	"io"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/seehuhn/tango/markup/document"
	"github.com/seehuhn/tango/markup/lexer"
	"github.com/seehuhn/tango/markup/scanner"
)

// Command names with a fixed meaning in the markup.
const (
	CmdDefine    = "defCommand"
	CmdBegin     = "begin"
	CmdEnd       = "end"
	CmdCall      = "call"
	CmdEvalCode  = "evalCode"
	CmdExecCode  = "execCode"
	CmdCheckCode = "checkCode"

	// EachEnv is the environment name used with \begin and \end.
	EachEnv = "each"
)

var codeModes = map[string]document.CodeMode{
	CmdEvalCode:  document.CodeEval,
	CmdExecCode:  document.CodeExec,
	CmdCheckCode: document.CodeCheck,
}

// IsReserved reports whether name is used by the markup itself and
// thus cannot be defined as a macro.
func IsReserved(name string) bool {
	switch name {
	case CmdDefine, CmdBegin, CmdEnd, CmdCall:
		return true
	}
	_, isCode := codeModes[name]
	return isCode
}

// Parser reads Tango markup and produces a flat node sequence.
type Parser struct {
	src *scanner.Source
	lex *lexer.Lexer
}

// New creates a parser which reads from src.
func New(src *scanner.Source) *Parser {
	return &Parser{
		src: src,
		lex: lexer.NewTangoLexer(src),
	}
}

// Parse reads the whole input and returns the flat node sequence.
// Each blocks are not resolved.
func (p *Parser) Parse() (document.Nodes, error) {
	p.lex.Reset()
	return p.parseSequence(nil)
}

// Parse reads and resolves a complete document.
func Parse(src *scanner.Source) (*document.Document, error) {
	flat, err := New(src).Parse()
	if err != nil {
		return nil, err
	}
	nodes, err := NewResolver(src).Resolve(flat)
	if err != nil {
		return nil, err
	}
	return document.New(src.Name, nodes), nil
}

// ParseFile reads, parses and resolves the named file.
func ParseFile(fileName string) (*document.Document, error) {
	src, err := scanner.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	return Parse(src)
}

func (p *Parser) syntaxError(pos scanner.Position, msg string) error {
	return &SyntaxError{ParseError: p.src.MakeError(pos, msg)}
}

// next returns the next token.  Reaching the end of input is an error.
func (p *Parser) next(what string) (*lexer.Token, error) {
	tok, err := p.lex.Next()
	if err == io.EOF {
		return nil, p.syntaxError(p.lex.Cursor().Pos(), "unexpected end of input, expected "+what)
	} else if err != nil {
		return nil, err
	}
	return tok, nil
}

func (p *Parser) expect(tokenType, what string) (*lexer.Token, error) {
	tok, err := p.next(what)
	if err != nil {
		return nil, err
	}
	if tok.Type != tokenType {
		return nil, p.syntaxError(tok.Start, "expected "+what)
	}
	return tok, nil
}

// parseSequence reads nodes until the end of input, or until the
// closing brace matching open if open is not nil.
func (p *Parser) parseSequence(open *lexer.Token) (document.Nodes, error) {
	var res document.Nodes
	for {
		tok, err := p.lex.Next()
		if err == io.EOF {
			if open != nil {
				return nil, p.syntaxError(open.Start, "missing closing brace")
			}
			return document.Merge(res), nil
		} else if err != nil {
			return nil, err
		}

		switch tok.Type {
		case lexer.TokenWord, lexer.TokenSpace, lexer.TokenNewline,
			lexer.TokenLBracket, lexer.TokenRBracket, lexer.TokenHash,
			lexer.TokenEscape:
			res = append(res, &document.Text{Pos: tok.Start, Value: tok.Value})
		case lexer.TokenComment:
			// dropped
		case lexer.TokenVariable:
			res = append(res, &document.Variable{Pos: tok.Start, Name: tok.Value[1:]})
		case lexer.TokenLBrace:
			body, err := p.parseSequence(tok)
			if err != nil {
				return nil, err
			}
			res = append(res, &document.Group{Pos: tok.Start, Body: body})
		case lexer.TokenRBrace:
			if open != nil {
				return document.Merge(res), nil
			}
			log.Warn().Str("file", p.src.Name).Stringer("pos", tok.Start).
				Msg("closing brace without matching opening brace")
			res = append(res, &document.Raw{Pos: tok.Start, Value: tok.Value})
		case lexer.TokenCommand:
			nodes, err := p.parseCommand(tok)
			if err != nil {
				return nil, err
			}
			res = append(res, nodes...)
		default:
			panic("unexpected token type " + tok.Type)
		}
	}
}

// parseArgs reads the brace groups which immediately follow a command.
func (p *Parser) parseArgs() ([]document.Nodes, error) {
	var args []document.Nodes
	for {
		tok, err := p.lex.Next()
		if err == io.EOF {
			return args, nil
		} else if err != nil {
			return nil, err
		}
		if tok.Type != lexer.TokenLBrace {
			err = p.lex.Putback(tok)
			if err != nil {
				return nil, err
			}
			return args, nil
		}
		arg, err := p.parseSequence(tok)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
}

func (p *Parser) parseCommand(cmd *lexer.Token) (document.Nodes, error) {
	name := cmd.Value[1:]

	if name == CmdDefine {
		def, err := p.parseDefinition(cmd)
		if err != nil {
			return nil, err
		}
		return document.Nodes{def}, nil
	}
	if mode, isCode := codeModes[name]; isCode {
		code, err := p.parseCode(cmd, mode)
		if err != nil {
			return nil, err
		}
		return document.Nodes{code}, nil
	}

	args, err := p.parseArgs()
	if err != nil {
		return nil, err
	}

	switch name {
	case CmdBegin:
		if len(args) > 0 && isWord(args[0], EachEnv) {
			return document.Nodes{&document.EachOpen{Pos: cmd.Start, Items: args[1:]}}, nil
		}
	case CmdEnd:
		if len(args) > 0 && isWord(args[0], EachEnv) {
			res := document.Nodes{&document.End{Pos: cmd.Start}}
			for _, arg := range args[1:] {
				res = append(res, &document.Group{Pos: argPos(arg, cmd.End), Body: arg})
			}
			return res, nil
		}
	case CmdCall:
		if len(args) == 0 {
			return nil, p.syntaxError(cmd.Start, "missing target for \\call")
		}
		target := strings.TrimSpace(document.PlainText(args[0]))
		if target == "" || len(args[0]) != 1 {
			return nil, p.syntaxError(cmd.Start, "invalid target for \\call")
		}
		return document.Nodes{&document.Call{Pos: cmd.Start, Target: target, Args: args[1:]}}, nil
	}

	return document.Nodes{&document.Invocation{Pos: cmd.Start, Name: name, Args: args}}, nil
}

// parseDefinition reads the remainder of \defCommand{\name}[n]{body}.
func (p *Parser) parseDefinition(cmd *lexer.Token) (document.Node, error) {
	_, err := p.expect(lexer.TokenLBrace, "{ after \\"+CmdDefine)
	if err != nil {
		return nil, err
	}
	nameTok, err := p.expect(lexer.TokenCommand, "macro name")
	if err != nil {
		return nil, err
	}
	_, err = p.expect(lexer.TokenRBrace, "} after macro name")
	if err != nil {
		return nil, err
	}

	arity := 0
	tok, err := p.next("macro body")
	if err != nil {
		return nil, err
	}
	if tok.Type == lexer.TokenLBracket {
		numTok, err := p.expect(lexer.TokenWord, "number of arguments")
		if err != nil {
			return nil, err
		}
		arity, err = strconv.Atoi(numTok.Value)
		if err != nil || arity < 0 {
			return nil, p.syntaxError(numTok.Start, "invalid number of arguments")
		}
		_, err = p.expect(lexer.TokenRBracket, "]")
		if err != nil {
			return nil, err
		}
		tok, err = p.next("macro body")
		if err != nil {
			return nil, err
		}
	}
	if tok.Type != lexer.TokenLBrace {
		return nil, p.syntaxError(tok.Start, "expected macro body")
	}
	body, err := p.parseSequence(tok)
	if err != nil {
		return nil, err
	}

	return &document.MacroDefinition{
		Pos:   cmd.Start,
		Name:  nameTok.Value[1:],
		Arity: arity,
		Body:  body,
	}, nil
}

// parseCode reads the verbatim source of an active code fragment.
// Braces inside the code must be balanced; a backslash protects the
// following character.
func (p *Parser) parseCode(cmd *lexer.Token, mode document.CodeMode) (document.Node, error) {
	open, err := p.expect(lexer.TokenLBrace, "{ after \\"+cmd.Value[1:])
	if err != nil {
		return nil, err
	}

	c := p.lex.Cursor()
	rest := c.Rest()
	depth := 1
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				c.Advance(i + 1)
				return &document.Code{Pos: cmd.Start, Mode: mode, Source: rest[:i]}, nil
			}
		}
	}
	return nil, p.syntaxError(open.Start, "missing closing brace")
}

func isWord(nodes document.Nodes, word string) bool {
	if len(nodes) != 1 {
		return false
	}
	t, ok := nodes[0].(*document.Text)
	return ok && t.Value == word
}

func argPos(arg document.Nodes, fallback scanner.Position) scanner.Position {
	if len(arg) > 0 {
		return arg[0].Position()
	}
	return fallback
}
