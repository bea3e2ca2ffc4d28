// parse.go - parse regular expressions into syntax trees
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

package regex

import (
	"strconv"
	"unicode/utf8"
)

type nodeKind int

const (
	kindEmpty nodeKind = iota
	kindLiteral
	kindClass
	kindAny
	kindConcat
	kindAlt
	kindStar
	kindPlus
	kindQuest
)

type node struct {
	kind  nodeKind
	r     rune
	class *charClass
	subs  []*node
}

type runeRange struct {
	lo, hi rune
}

type charClass struct {
	negated bool
	ranges  []runeRange
}

func (cc *charClass) matches(r rune) bool {
	in := false
	for _, rr := range cc.ranges {
		if rr.lo <= r && r <= rr.hi {
			in = true
			break
		}
	}
	return in != cc.negated
}

var (
	digitRanges = []runeRange{{'0', '9'}}
	wordRanges  = []runeRange{{'0', '9'}, {'A', 'Z'}, {'_', '_'}, {'a', 'z'}}
	spaceRanges = []runeRange{{'\t', '\r'}, {' ', ' '}}
)

// SyntaxError describes a problem in a regular expression.
type SyntaxError struct {
	Expr   string
	Offset int
	Msg    string
}

func (err *SyntaxError) Error() string {
	return "regex " + strconv.Quote(err.Expr) + ": " + err.Msg +
		" at offset " + strconv.Itoa(err.Offset)
}

type parser struct {
	expr string
	pos  int
}

func parse(expr string) (*node, error) {
	p := &parser{expr: expr}
	n, err := p.parseAlt()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.expr) {
		// only a ')' can stop parseAlt early
		return nil, p.errorf("unexpected )")
	}
	return n, nil
}

func (p *parser) errorf(msg string) error {
	return &SyntaxError{Expr: p.expr, Offset: p.pos, Msg: msg}
}

func (p *parser) more() bool {
	return p.pos < len(p.expr)
}

func (p *parser) peek() rune {
	r, _ := utf8.DecodeRuneInString(p.expr[p.pos:])
	return r
}

func (p *parser) next() rune {
	r, size := utf8.DecodeRuneInString(p.expr[p.pos:])
	p.pos += size
	return r
}

func (p *parser) parseAlt() (*node, error) {
	var alts []*node
	for {
		n, err := p.parseConcat()
		if err != nil {
			return nil, err
		}
		alts = append(alts, n)
		if !p.more() || p.peek() != '|' {
			break
		}
		p.next()
	}
	if len(alts) == 1 {
		return alts[0], nil
	}
	return &node{kind: kindAlt, subs: alts}, nil
}

func (p *parser) parseConcat() (*node, error) {
	var seq []*node
	for p.more() {
		c := p.peek()
		if c == '|' || c == ')' {
			break
		}
		n, err := p.parseRepeat()
		if err != nil {
			return nil, err
		}
		seq = append(seq, n)
	}
	switch len(seq) {
	case 0:
		return &node{kind: kindEmpty}, nil
	case 1:
		return seq[0], nil
	}
	return &node{kind: kindConcat, subs: seq}, nil
}

func (p *parser) parseRepeat() (*node, error) {
	n, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	for p.more() {
		var kind nodeKind
		switch p.peek() {
		case '*':
			kind = kindStar
		case '+':
			kind = kindPlus
		case '?':
			kind = kindQuest
		default:
			return n, nil
		}
		p.next()
		n = &node{kind: kind, subs: []*node{n}}
	}
	return n, nil
}

func (p *parser) parseAtom() (*node, error) {
	c := p.next()
	switch c {
	case '*', '+', '?':
		p.pos--
		return nil, p.errorf("missing argument to repetition operator")
	case '(':
		n, err := p.parseAlt()
		if err != nil {
			return nil, err
		}
		if !p.more() || p.next() != ')' {
			return nil, p.errorf("missing )")
		}
		return n, nil
	case '[':
		cc, err := p.parseClass()
		if err != nil {
			return nil, err
		}
		return &node{kind: kindClass, class: cc}, nil
	case '.':
		return &node{kind: kindAny}, nil
	case '\\':
		if !p.more() {
			return nil, p.errorf("trailing backslash")
		}
		e := p.next()
		if ranges := classEscape(e); ranges != nil {
			return &node{kind: kindClass, class: &charClass{ranges: ranges}}, nil
		}
		return &node{kind: kindLiteral, r: unescape(e)}, nil
	}
	return &node{kind: kindLiteral, r: c}, nil
}

// parseClass reads a character class.  The opening '[' has already
// been consumed.
func (p *parser) parseClass() (*charClass, error) {
	cc := &charClass{}
	if p.more() && p.peek() == '^' {
		p.next()
		cc.negated = true
	}
	first := true
	for {
		if !p.more() {
			return nil, p.errorf("missing ]")
		}
		c := p.next()
		if c == ']' && !first {
			return cc, nil
		}
		first = false

		lo := c
		if c == '\\' {
			if !p.more() {
				return nil, p.errorf("missing ]")
			}
			e := p.next()
			if ranges := classEscape(e); ranges != nil {
				cc.ranges = append(cc.ranges, ranges...)
				continue
			}
			lo = unescape(e)
		}

		hi := lo
		if p.pos+1 < len(p.expr) && p.expr[p.pos] == '-' && p.expr[p.pos+1] != ']' {
			p.next()
			hi = p.next()
			if hi == '\\' {
				if !p.more() {
					return nil, p.errorf("missing ]")
				}
				hi = unescape(p.next())
			}
			if hi < lo {
				return nil, p.errorf("invalid character class range")
			}
		}
		cc.ranges = append(cc.ranges, runeRange{lo, hi})
	}
}

func classEscape(e rune) []runeRange {
	switch e {
	case 'd':
		return digitRanges
	case 'w':
		return wordRanges
	case 's':
		return spaceRanges
	}
	return nil
}

func unescape(e rune) rune {
	switch e {
	case 't':
		return '\t'
	case 'n':
		return '\n'
	case 'r':
		return '\r'
	case 'f':
		return '\f'
	case 'v':
		return '\v'
	}
	return e
}
