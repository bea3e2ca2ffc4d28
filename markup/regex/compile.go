// compile.go - translate syntax trees into NFA programs
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

type opcode int

const (
	opRune opcode = iota
	opClass
	opAny
	opSplit
	opJmp
	opMatch
)

type inst struct {
	op    opcode
	r     rune
	class *charClass
	x, y  int
}

type compiler struct {
	prog []inst
}

func (c *compiler) emit(in inst) int {
	c.prog = append(c.prog, in)
	return len(c.prog) - 1
}

func (c *compiler) compile(n *node) {
	switch n.kind {
	case kindEmpty:
		// nothing to do
	case kindLiteral:
		c.emit(inst{op: opRune, r: n.r})
	case kindClass:
		c.emit(inst{op: opClass, class: n.class})
	case kindAny:
		c.emit(inst{op: opAny})
	case kindConcat:
		for _, sub := range n.subs {
			c.compile(sub)
		}
	case kindAlt:
		var jumps []int
		for i, sub := range n.subs {
			if i == len(n.subs)-1 {
				c.compile(sub)
				break
			}
			split := c.emit(inst{op: opSplit})
			c.prog[split].x = len(c.prog)
			c.compile(sub)
			jumps = append(jumps, c.emit(inst{op: opJmp}))
			c.prog[split].y = len(c.prog)
		}
		for _, j := range jumps {
			c.prog[j].x = len(c.prog)
		}
	case kindStar:
		split := c.emit(inst{op: opSplit})
		c.prog[split].x = len(c.prog)
		c.compile(n.subs[0])
		c.emit(inst{op: opJmp, x: split})
		c.prog[split].y = len(c.prog)
	case kindPlus:
		loop := len(c.prog)
		c.compile(n.subs[0])
		split := c.emit(inst{op: opSplit, x: loop})
		c.prog[split].y = len(c.prog)
	case kindQuest:
		split := c.emit(inst{op: opSplit})
		c.prog[split].x = len(c.prog)
		c.compile(n.subs[0])
		c.prog[split].y = len(c.prog)
	default:
		panic("invalid regex node")
	}
}
