// generator.go - convert processed documents into LaTeX
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

// Package latex converts processed Tango documents into LaTeX source.
package latex

import (
	"bytes"
	"io"

	"github.com/google/uuid"

	"github.com/seehuhn/tango/config"
	"github.com/seehuhn/tango/markup/document"
	"github.com/seehuhn/tango/markup/parser"
)

// namespace is used to derive document identifiers from input file
// names.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/seehuhn/tango"))

// DocumentID returns a stable identifier for the document generated
// from the input file inputName.
func DocumentID(inputName string) uuid.UUID {
	return uuid.NewSHA1(namespace, []byte(inputName))
}

// Generator writes documents as LaTeX.
type Generator struct {
	cfg config.LaTeXConfig

	// CodeProcessed must be set if active code has been evaluated.  In
	// this case, code nodes left in a document are an error.
	// Otherwise, code nodes are written out unchanged.
	CodeProcessed bool
}

// New returns a generator with the given settings.
func New(cfg config.LaTeXConfig) *Generator {
	return &Generator{cfg: cfg}
}

// Generate returns the LaTeX source for doc.
func (g *Generator) Generate(doc *document.Document) ([]byte, error) {
	buf := &bytes.Buffer{}
	err := g.Write(buf, doc)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes the LaTeX source for doc to out.  The document must be
// fully processed, otherwise an *document.UnresolvedNodeError is
// returned and nothing is written.
func (g *Generator) Write(out io.Writer, doc *document.Document) error {
	err := doc.Validate(g.CodeProcessed)
	if err != nil {
		return err
	}

	w := newWriter(out)
	w.WriteLine("% generated by tango from " + doc.Name + ", document " +
		DocumentID(doc.Name).String())
	if g.cfg.Standalone {
		w.WriteLine("\\documentclass{" + g.cfg.DocumentClass + "}")
		for _, line := range g.cfg.Preamble {
			w.WriteLine(line)
		}
		w.WriteLine("\\begin{document}")
	}
	writeNodes(w, doc.Nodes)
	if g.cfg.Standalone {
		w.WriteLine("\\end{document}")
	}
	return w.Flush()
}

func writeNodes(w *writer, nodes document.Nodes) {
	for _, n := range nodes {
		switch n := n.(type) {
		case *document.Text:
			w.WriteString(n.Value)
		case *document.Raw:
			w.WriteString(n.Value)
		case *document.Variable:
			w.WriteString("#" + n.Name)
		case *document.Group:
			w.WriteString("{")
			writeNodes(w, n.Body)
			w.WriteString("}")
		case *document.Command:
			w.WriteString("\\" + n.Name)
			writeArgs(w, n.Args)
		case *document.Code:
			w.WriteString("\\" + codeCommand(n.Mode) + "{" + n.Source + "}")
		}
	}
}

func writeArgs(w *writer, args []document.Nodes) {
	for _, arg := range args {
		w.WriteString("{")
		writeNodes(w, arg)
		w.WriteString("}")
	}
}

func codeCommand(mode document.CodeMode) string {
	switch mode {
	case document.CodeExec:
		return parser.CmdExecCode
	case document.CodeCheck:
		return parser.CmdCheckCode
	default:
		return parser.CmdEvalCode
	}
}
