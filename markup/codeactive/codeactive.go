// codeactive.go - evaluate code embedded in documents
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

// Package codeactive implements a document processor which runs the
// code fragments embedded in a document with \evalCode, \execCode and
// \checkCode.
package codeactive

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/seehuhn/tango/markup/document"
	"github.com/seehuhn/tango/markup/processor"
)

// Name is the name of the active code processor.
const Name = "active-code"

// Evaluator runs a single code fragment.  The returned node is
// inserted into the document in place of \evalCode fragments.
type Evaluator interface {
	Evaluate(ctx context.Context, code string) (document.Node, error)
}

// CheckFailure is returned when a code fragment cannot be evaluated,
// or when a \checkCode fragment does not evaluate to true.  A
// CheckFailure always ends document processing.
type CheckFailure struct {
	Source  string
	Node    *document.Code
	Message string
	Err     error
}

func (err *CheckFailure) Error() string {
	return fmt.Sprintf("%s:%s: check failed: %s", err.Source, err.Node.Pos, err.Message)
}

func (err *CheckFailure) Unwrap() error {
	return err.Err
}

// Processor replaces code nodes by the result of evaluating them.
type Processor struct {
	eval Evaluator
}

// New returns an active code processor which uses eval to run code
// fragments.
func New(eval Evaluator) *Processor {
	return &Processor{eval: eval}
}

// Register appends an active code processor to dp.
func Register(dp *processor.DocumentProcessor, eval Evaluator) {
	dp.Register(New(eval))
}

// Name implements processor.Processor.
func (p *Processor) Name() string {
	return Name
}

// Process implements processor.Processor.  Code fragments are run in
// document order.
func (p *Processor) Process(ctx context.Context, doc *document.Document) error {
	nodes, err := p.run(ctx, doc.Name, doc.Nodes)
	if err != nil {
		return err
	}
	doc.Nodes = nodes
	return nil
}

func (p *Processor) run(ctx context.Context, source string, nodes document.Nodes) (document.Nodes, error) {
	res := make(document.Nodes, 0, len(nodes))
	for _, n := range nodes {
		code, ok := n.(*document.Code)
		if !ok {
			for _, child := range document.Children(n) {
				out, err := p.run(ctx, source, *child)
				if err != nil {
					return nil, err
				}
				*child = out
			}
			res = append(res, n)
			continue
		}

		log.Debug().Str("file", source).Stringer("pos", code.Pos).
			Stringer("mode", code.Mode).Msg("evaluating code")
		value, err := p.eval.Evaluate(ctx, code.Source)
		if err != nil {
			return nil, &CheckFailure{
				Source:  source,
				Node:    code,
				Message: err.Error(),
				Err:     err,
			}
		}

		switch code.Mode {
		case document.CodeEval:
			if value != nil {
				res = append(res, value)
			}
		case document.CodeCheck:
			var got string
			if value != nil {
				got = document.PlainText(document.Nodes{value})
			}
			if got != "true" {
				return nil, &CheckFailure{
					Source:  source,
					Node:    code,
					Message: fmt.Sprintf("%q evaluated to %q", code.Source, got),
				}
			}
		}
	}
	return document.Merge(res), nil
}
