// calls.go - commands which can be used with \call
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

package processor

import (
	"context"
	"sort"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/seehuhn/tango/markup/document"
)

// CommandFunc implements the target of a \call.  The arguments of the
// call have already been processed.  The returned nodes replace the
// call in the document.
type CommandFunc func(ctx context.Context, call *document.Call) (document.Nodes, error)

// RegisterCommand makes fn available as the call target name.  An
// earlier command with the same name is replaced.
func (dp *DocumentProcessor) RegisterCommand(name string, fn CommandFunc) {
	dp.commands[name] = fn
}

// Commands returns the names of all call targets in alphabetical
// order.
func (dp *DocumentProcessor) Commands() []string {
	var res []string
	for name := range dp.commands {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

func (dp *DocumentProcessor) addBuiltinCommands() {
	for name, caser := range map[string]cases.Caser{
		"upper": cases.Upper(language.Und),
		"lower": cases.Lower(language.Und),
		"title": cases.Title(language.Und),
	} {
		dp.commands[name] = cmdCase(caser)
	}
	dp.commands["join"] = cmdJoin
	dp.commands["count"] = cmdCount
}

func cmdCase(caser cases.Caser) CommandFunc {
	return func(_ context.Context, call *document.Call) (document.Nodes, error) {
		var text string
		for _, arg := range call.Args {
			text += document.PlainText(arg)
		}
		return document.Nodes{&document.Text{Pos: call.Pos, Value: caser.String(text)}}, nil
	}
}

func cmdJoin(_ context.Context, call *document.Call) (document.Nodes, error) {
	var res document.Nodes
	for _, arg := range call.Args {
		res = append(res, arg...)
	}
	return res, nil
}

func cmdCount(_ context.Context, call *document.Call) (document.Nodes, error) {
	value := strconv.Itoa(len(call.Args))
	return document.Nodes{&document.Text{Pos: call.Pos, Value: value}}, nil
}

func (dp *DocumentProcessor) dispatchCalls(ctx context.Context, doc *document.Document) error {
	nodes, err := dp.dispatch(ctx, doc.Name, doc.Nodes)
	if err != nil {
		return err
	}
	doc.Nodes = nodes
	return nil
}

// dispatch replaces all calls in nodes by the output of the
// corresponding commands.  Inner calls are dispatched first.
func (dp *DocumentProcessor) dispatch(ctx context.Context, source string, nodes document.Nodes) (document.Nodes, error) {
	res := make(document.Nodes, 0, len(nodes))
	for _, n := range nodes {
		for _, child := range document.Children(n) {
			dispatched, err := dp.dispatch(ctx, source, *child)
			if err != nil {
				return nil, err
			}
			*child = dispatched
		}

		call, ok := n.(*document.Call)
		if !ok {
			res = append(res, n)
			continue
		}
		fn, ok := dp.commands[call.Target]
		if !ok {
			return nil, &UnknownCallError{Source: source, Pos: call.Pos, Target: call.Target}
		}
		out, err := fn(ctx, call)
		if err != nil {
			return nil, err
		}
		res = append(res, out...)
	}
	return document.Merge(res), nil
}
