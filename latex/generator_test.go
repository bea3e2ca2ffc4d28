// generator_test.go -
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

package latex

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seehuhn/tango/config"
	"github.com/seehuhn/tango/markup/document"
	"github.com/seehuhn/tango/markup/parser"
	"github.com/seehuhn/tango/markup/processor"
	"github.com/seehuhn/tango/markup/scanner"
)

func generate(t *testing.T, g *Generator, text string) string {
	t.Helper()
	src, err := scanner.NewSource("in.tex", []byte(text))
	require.NoError(t, err)
	doc, err := parser.Parse(src)
	require.NoError(t, err)
	require.NoError(t, processor.NewCore().Process(context.Background(), doc))
	out, err := g.Generate(doc)
	require.NoError(t, err)
	return string(out)
}

// body strips the header line.
func body(out string) string {
	_, rest, _ := strings.Cut(out, "\n")
	return rest
}

func TestGenerate(t *testing.T) {
	g := New(config.Default().LaTeXConfig)
	testCases := []struct {
		in, out string
	}{
		{"plain text", "plain text\n"},
		{"\\defCommand{\\hello}{brave world}Hello \\hello\n", "Hello brave world\n"},
		{"\\section{Intro} {\\bf x} 100\\%\n", "\\section{Intro} {\\bf x} 100\\%\n"},
		{"\\begin{itemize}\\item a\\end{itemize}", "\\begin{itemize}\\item a\\end{itemize}\n"},
		{"\\begin{each}{a}{b}\\item #item\n\\end{each}", "\\item a\n\\item b\n"},
		{"a}b", "a}b\n"},
		{"\\evalCode{1+1}", "\\evalCode{1+1}\n"},
		{"x % comment\ny", "x \ny\n"},
	}
	for _, testCase := range testCases {
		out := generate(t, g, testCase.in)
		assert.Equal(t, testCase.out, body(out), testCase.in)
	}
}

func TestHeader(t *testing.T) {
	out := generate(t, New(config.Default().LaTeXConfig), "x")
	header, _, _ := strings.Cut(out, "\n")
	assert.True(t, strings.HasPrefix(header, "% generated by tango from in.tex"))
	assert.Contains(t, header, DocumentID("in.tex").String())

	assert.Equal(t, DocumentID("a.tex"), DocumentID("a.tex"))
	assert.NotEqual(t, DocumentID("a.tex"), DocumentID("b.tex"))
}

func TestStandalone(t *testing.T) {
	cfg := config.LaTeXConfig{
		DocumentClass: "book",
		Standalone:    true,
		Preamble:      []string{"\\usepackage{amsmath}"},
	}
	out := generate(t, New(cfg), "Hello")
	assert.Equal(t,
		"\\documentclass{book}\n\\usepackage{amsmath}\n\\begin{document}\nHello\n\\end{document}\n",
		body(out))
}

func TestUnresolved(t *testing.T) {
	g := New(config.Default().LaTeXConfig)
	doc := document.New("in.tex", document.Nodes{
		&document.Invocation{Name: "hello"},
	})
	_, err := g.Generate(doc)
	var unresolved *document.UnresolvedNodeError
	assert.True(t, errors.As(err, &unresolved))

	g.CodeProcessed = true
	doc = document.New("in.tex", document.Nodes{
		&document.Code{Mode: document.CodeEval, Source: "1"},
	})
	_, err = g.Generate(doc)
	assert.ErrorIs(t, err, document.ErrUnresolved)
}

func TestWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	assert.Equal(t, filepath.Join(dir, "tex", "paper-gen.tex"), OutputPath(dir, "/some/where/paper.tex"))
	assert.Equal(t, filepath.Join(dir, "tex", "notes.txt-gen.tex"), OutputPath(dir, "notes.txt"))
	assert.Equal(t, filepath.Join(dir, "tex", "a.b-gen.tex"), OutputPath(dir, "a.b.tex"))
	assert.Equal(t, filepath.Join(dir, "tex", "README-gen.tex"), OutputPath(dir, "README"))

	fileName, err := WriteFile(dir, "paper.tex", []byte("content\n"))
	require.NoError(t, err)
	assert.Equal(t, OutputPath(dir, "paper.tex"), fileName)

	data, err := os.ReadFile(fileName)
	require.NoError(t, err)
	assert.Equal(t, "content\n", string(data))

	entries, err := os.ReadDir(filepath.Dir(fileName))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
