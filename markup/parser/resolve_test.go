// resolve_test.go -
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
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seehuhn/tango/markup/document"
)

// signature lists the text values and variable names of a flat
// sequence in order, leaving out the block markers.
func signature(nodes document.Nodes) []string {
	var res []string
	for _, n := range nodes {
		switch n := n.(type) {
		case *document.Text:
			res = append(res, "t:"+n.Value)
		case *document.Variable:
			res = append(res, "v:"+n.Name)
		case *document.EachOpen, *document.End:
			// skipped
		default:
			res = append(res, document.Kind(n))
		}
	}
	return res
}

// randomNesting returns markup with well-formed each blocks, together
// with the maximal nesting depth.
func randomNesting(rng *rand.Rand, n int) (string, int) {
	b := &strings.Builder{}
	depth, maxDepth := 0, 0
	for i := 0; i < n; i++ {
		switch {
		case rng.Intn(3) == 0:
			b.WriteString("\\begin{each}{x}")
			depth++
			maxDepth = max(maxDepth, depth)
		case depth > 0 && rng.Intn(2) == 0:
			b.WriteString("\\end{each}")
			depth--
		case rng.Intn(2) == 0:
			b.WriteString("#item")
		default:
			b.WriteString("w")
			b.WriteByte(byte('a' + rng.Intn(26)))
		}
	}
	for ; depth > 0; depth-- {
		b.WriteString("\\end{each}")
	}
	return b.String(), maxDepth
}

func TestResolveNesting(t *testing.T) {
	src := source(t, "a\\begin{each}{1}b\\begin{each}{2}c\\end{each}d\\end{each}e")
	flat, err := New(src).Parse()
	require.NoError(t, err)
	tree, err := NewResolver(src).Resolve(flat)
	require.NoError(t, err)

	require.Equal(t, []string{"text", "each", "text"}, kinds(tree))
	outer := tree[1].(*document.Each)
	require.Len(t, outer.Items, 1)
	assert.Equal(t, "1", document.PlainText(outer.Items[0]))
	require.Equal(t, []string{"text", "each", "text"}, kinds(outer.Body))
	inner := outer.Body[1].(*document.Each)
	assert.Equal(t, "c", document.PlainText(inner.Body))
	assert.Equal(t, 2, document.Depth(tree))

	// the flat input is left intact
	assert.Equal(t, []string{"text", "each-open", "text", "each-open", "text", "end", "text", "end", "text"}, kinds(flat))
}

func TestResolveProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		text, depth := randomNesting(rng, 1+rng.Intn(40))
		src := source(t, text)
		flat, err := New(src).Parse()
		require.NoError(t, err, text)

		tree, err := NewResolver(src).Resolve(flat)
		require.NoError(t, err, text)

		assert.Equal(t, depth, document.Depth(tree), text)
		assert.Equal(t, signature(flat), signature(document.Flatten(tree)), text)
	}
}

func TestResolveInsideGroups(t *testing.T) {
	doc, err := Parse(source(t, "\\emph{\\begin{each}{a}{b}x\\end{each}}"))
	require.NoError(t, err)
	require.Equal(t, []string{"invocation"}, kinds(doc.Nodes))
	arg := doc.Nodes[0].(*document.Invocation).Args[0]
	require.Equal(t, []string{"each"}, kinds(arg))
	assert.Len(t, arg[0].(*document.Each).Items, 2)

	// markers must balance within their own group
	_, err = Parse(source(t, "\\begin{each}{a}x{\\end{each}}\\end{each}"))
	var unmatched *UnmatchedEndError
	assert.True(t, errors.As(err, &unmatched))
}

func TestResolveErrors(t *testing.T) {
	_, err := Parse(source(t, "a\nb\\end{each}"))
	var unmatched *UnmatchedEndError
	require.True(t, errors.As(err, &unmatched))
	assert.Equal(t, 2, unmatched.Pos.Line)
	assert.Equal(t, 2, unmatched.Pos.Column)

	_, err = Parse(source(t, "\\begin{each}{1}\\begin{each}{2}\\end{each}"))
	var unterminated *UnterminatedBlockError
	require.True(t, errors.As(err, &unterminated))
	assert.Equal(t, 1, unterminated.Pos.Column)

	_, err = Parse(source(t, "\\begin{each}{1}x\\end{each}\\end{each}"))
	assert.True(t, errors.As(err, &unmatched))
}

func TestResolveDeepNesting(t *testing.T) {
	const depth = 1000
	text := strings.Repeat("\\begin{each}{x}", depth) + "#item" + strings.Repeat("\\end{each}", depth)
	doc, err := Parse(source(t, text))
	require.NoError(t, err)
	assert.Equal(t, depth, document.Depth(doc.Nodes))
}
