// golang.go - run embedded Go code with yaegi
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

package codeactive

import (
	"bytes"
	"context"
	"fmt"
	"reflect"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/seehuhn/tango/markup/document"
)

// GoEvaluator runs code fragments as Go code, using the yaegi
// interpreter.  All fragments of a document share one interpreter, so
// that variables and functions declared by one fragment can be used in
// later fragments.
type GoEvaluator struct {
	in     *interp.Interpreter
	stdout *bytes.Buffer
}

// NewGoEvaluator returns a new evaluator with the Go standard library
// available for import.
func NewGoEvaluator() (*GoEvaluator, error) {
	stdout := &bytes.Buffer{}
	in := interp.New(interp.Options{
		Stdout: stdout,
		Stderr: stdout,
	})
	err := in.Use(stdlib.Symbols)
	if err != nil {
		return nil, err
	}
	return &GoEvaluator{
		in:     in,
		stdout: stdout,
	}, nil
}

// Evaluate implements Evaluator.  The result is a text node which
// contains everything the code printed, followed by the value of the
// last expression.
func (e *GoEvaluator) Evaluate(ctx context.Context, code string) (document.Node, error) {
	e.stdout.Reset()
	v, err := e.in.EvalWithContext(ctx, code)
	if err != nil {
		return nil, err
	}

	out := e.stdout.String()
	if v.IsValid() && v.Kind() != reflect.Func && v.CanInterface() {
		out += fmt.Sprint(v.Interface())
	}
	return &document.Text{Value: out}, nil
}
