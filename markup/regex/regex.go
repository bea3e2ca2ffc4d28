// regex.go - a minimal regular expression engine
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

// Package regex implements the small regular expression language used
// by the Tango lexer.
//
// The supported syntax is
//
//	x        the literal character x
//	.        any character except newline
//	[abc]    character class; ranges like a-z are allowed
//	[^abc]   negated character class
//	\t \n \r \f \v   control characters
//	\d \w \s         digits, word characters, white space
//	\x       the literal character x, for any other x
//	(re)     grouping
//	re*      zero or more
//	re+      one or more
//	re?      zero or one
//	re1|re2  alternation
//
// Matches are always anchored at the start of the input, and the
// longest possible match is returned.
package regex

import "unicode/utf8"

// Regexp is a compiled regular expression.  A Regexp is safe for
// concurrent use.
type Regexp struct {
	expr string
	prog []inst
}

// Compile parses a regular expression.
func Compile(expr string) (*Regexp, error) {
	tree, err := parse(expr)
	if err != nil {
		return nil, err
	}
	c := &compiler{}
	c.compile(tree)
	c.emit(inst{op: opMatch})
	return &Regexp{expr: expr, prog: c.prog}, nil
}

// MustCompile is like Compile but panics if the expression cannot be
// parsed.
func MustCompile(expr string) *Regexp {
	re, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return re
}

func (re *Regexp) String() string {
	return re.expr
}

// LongestPrefix returns the length in bytes of the longest non-empty
// prefix of s matched by the expression.  If no non-empty prefix
// matches, ok is false.
func (re *Regexp) LongestPrefix(s string) (n int, ok bool) {
	clist := newThreadList(len(re.prog))
	nlist := newThreadList(len(re.prog))

	best := -1
	re.addThread(clist, 0)
	pos := 0
	for len(clist.dense) > 0 {
		for _, pc := range clist.dense {
			if re.prog[pc].op == opMatch {
				best = pos
				break
			}
		}
		if pos >= len(s) {
			break
		}

		r, size := utf8.DecodeRuneInString(s[pos:])
		nlist.clear()
		for _, pc := range clist.dense {
			in := &re.prog[pc]
			var step bool
			switch in.op {
			case opRune:
				step = r == in.r
			case opClass:
				step = in.class.matches(r)
			case opAny:
				step = r != '\n'
			}
			if step {
				re.addThread(nlist, pc+1)
			}
		}
		pos += size
		clist, nlist = nlist, clist
	}

	if best <= 0 {
		return 0, false
	}
	return best, true
}

func (re *Regexp) addThread(l *threadList, pc int) {
	if l.seen[pc] {
		return
	}
	l.seen[pc] = true
	l.dense = append(l.dense, pc)

	in := &re.prog[pc]
	switch in.op {
	case opJmp:
		re.addThread(l, in.x)
	case opSplit:
		re.addThread(l, in.x)
		re.addThread(l, in.y)
	}
}

type threadList struct {
	seen  []bool
	dense []int
}

func newThreadList(n int) *threadList {
	return &threadList{
		seen:  make([]bool, n),
		dense: make([]int, 0, n),
	}
}

func (l *threadList) clear() {
	for _, pc := range l.dense {
		l.seen[pc] = false
	}
	l.dense = l.dense[:0]
}
