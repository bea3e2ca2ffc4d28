// processor_test.go -
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
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seehuhn/tango/markup/document"
	"github.com/seehuhn/tango/markup/parser"
	"github.com/seehuhn/tango/markup/scanner"
)

func parse(t *testing.T, text string) *document.Document {
	t.Helper()
	src, err := scanner.NewSource("test.tex", []byte(text))
	require.NoError(t, err)
	doc, err := parser.Parse(src)
	require.NoError(t, err)
	return doc
}

func process(t *testing.T, text string) (*document.Document, error) {
	t.Helper()
	doc := parse(t, text)
	err := NewCore().Process(context.Background(), doc)
	return doc, err
}

func TestHello(t *testing.T) {
	doc, err := process(t, "\\defCommand{\\hello}{brave world}Hello \\hello")
	require.NoError(t, err)
	assert.Equal(t, "Hello brave world", doc.Text())
	require.NoError(t, doc.Validate(true))
	require.Len(t, doc.Nodes, 1)
}

func TestWhitespacePreserved(t *testing.T) {
	doc, err := process(t, "\\defCommand{\\x}{ mid }  a\\x b  ")
	require.NoError(t, err)
	assert.Equal(t, "  a mid  b  ", doc.Text())
}

func TestArguments(t *testing.T) {
	doc, err := process(t, "\\defCommand{\\pair}[2]{(#2, #1)}\\pair{a}{b} \\pair{\\pair{1}{2}}{c}")
	require.NoError(t, err)
	assert.Equal(t, "(b, a) (c, (2, 1))", doc.Text())
}

func TestArityError(t *testing.T) {
	doc := parse(t, "\\defCommand{\\pair}[2]{#1#2}\n\\pair{a}")

	generated := false
	dp := NewCore()
	dp.Register(Func("generate", func(context.Context, *document.Document) error {
		generated = true
		return nil
	}))
	err := dp.Process(context.Background(), doc)

	var arityErr *ArityError
	require.True(t, errors.As(err, &arityErr))
	assert.Equal(t, "pair", arityErr.Name)
	assert.Equal(t, 2, arityErr.Expected)
	assert.Equal(t, 1, arityErr.Actual)
	assert.Equal(t, 2, arityErr.Pos.Line)
	assert.Contains(t, err.Error(), "expects 2 argument(s), got 1")
	assert.Contains(t, err.Error(), ExpandMacros+": ")
	assert.False(t, generated)
}

func TestRecursionOverflow(t *testing.T) {
	testCases := []string{
		"\\defCommand{\\loop}{x\\loop}\\loop",
		"\\defCommand{\\ping}{\\pong}\\defCommand{\\pong}{\\ping}\\ping",
		"\\defCommand{\\grow}[1]{\\grow{#1#1}}\\grow{a}",
	}
	for _, text := range testCases {
		doc := parse(t, text)
		dp := NewCore()
		dp.MaxDepth = 16
		err := dp.Process(context.Background(), doc)

		var overflow *MacroExpansionOverflowError
		if assert.True(t, errors.As(err, &overflow), text) {
			assert.Equal(t, 16, overflow.Depth)
		}
	}
}

func TestExpansionSizeLimit(t *testing.T) {
	// a doubling argument and a wide fan-out stay within the default
	// depth limit, but not within the size limit
	name := func(i int) string {
		return "\\m" + string(rune('a'+i/26)) + string(rune('a'+i%26))
	}
	fanOut := "\\defCommand{" + name(0) + "}{x}"
	for i := 1; i <= 30; i++ {
		fanOut += fmt.Sprintf("\\defCommand{%s}{%s%s}", name(i), name(i-1), name(i-1))
	}
	fanOut += name(30)
	testCases := []string{
		"\\defCommand{\\grow}[1]{\\grow{#1#1}}\\grow{a}",
		fanOut,
	}
	for _, text := range testCases {
		_, err := process(t, text)
		var overflow *MacroExpansionOverflowError
		if assert.True(t, errors.As(err, &overflow)) {
			assert.Equal(t, DefaultMaxExpansion, overflow.Size)
			assert.Zero(t, overflow.Depth)
			assert.Contains(t, err.Error(), "exceeds maximum size")
		}
	}
}

func TestExpansionSizeIsExact(t *testing.T) {
	// every expansion of \x has one node with three bytes of text
	text := "\\defCommand{\\x}{abc}\\x\\x"

	dp := NewCore()
	dp.MaxExpansion = 8
	doc := parse(t, text)
	require.NoError(t, dp.Process(context.Background(), doc))
	assert.Equal(t, "abcabc", doc.Text())

	// the budget is per call to Process
	doc = parse(t, text)
	require.NoError(t, dp.Process(context.Background(), doc))

	dp.MaxExpansion = 7
	doc = parse(t, text)
	var overflow *MacroExpansionOverflowError
	assert.True(t, errors.As(dp.Process(context.Background(), doc), &overflow))

	dp.MaxExpansion = 0
	doc = parse(t, text)
	assert.NoError(t, dp.Process(context.Background(), doc))
}

func TestDepthLimitIsExact(t *testing.T) {
	// \cc expands through three levels of macros
	text := "\\defCommand{\\aa}{x}\\defCommand{\\bb}{\\aa}\\defCommand{\\cc}{\\bb}\\cc"

	dp := NewCore()
	dp.MaxDepth = 3
	doc := parse(t, text)
	require.NoError(t, dp.Process(context.Background(), doc))
	assert.Equal(t, "x", doc.Text())

	dp.MaxDepth = 2
	doc = parse(t, text)
	var overflow *MacroExpansionOverflowError
	assert.True(t, errors.As(dp.Process(context.Background(), doc), &overflow))
}

func TestRedefinitionOverwrites(t *testing.T) {
	doc, err := process(t, "\\defCommand{\\x}{one}\\defCommand{\\x}{two}\\x")
	require.NoError(t, err)
	assert.Equal(t, "two", doc.Text())

	// all definitions are collected before expansion
	doc, err = process(t, "\\defCommand{\\x}{one}\\x\\defCommand{\\x}{two}\\x")
	require.NoError(t, err)
	assert.Equal(t, "twotwo", doc.Text())
}

func TestDefinitionFromExpansion(t *testing.T) {
	doc, err := process(t,
		"\\defCommand{\\setup}{\\defCommand{\\inner}[1]{<#1>}}\\setup\\inner{a}")
	require.NoError(t, err)
	assert.Equal(t, "<a>", doc.Text())
}

func TestReservedNamesIgnored(t *testing.T) {
	doc, err := process(t, "\\defCommand{\\call}{x}\\call{count}{a}{b}")
	require.NoError(t, err)
	assert.Equal(t, "2", doc.Text())
}

func TestParameterError(t *testing.T) {
	_, err := process(t, "\\defCommand{\\x}[1]{#1 #2}")
	var paramErr *ParameterError
	require.True(t, errors.As(err, &paramErr))
	assert.Equal(t, "2", paramErr.Param)
	assert.Equal(t, 1, paramErr.Arity)

	// named variables are not parameters
	_, err = process(t, "\\defCommand{\\x}{#item}")
	assert.NoError(t, err)
}

func TestUnknownMacroBecomesCommand(t *testing.T) {
	doc, err := process(t, "\\defCommand{\\x}{X}\\emph{\\x}")
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 1)
	cmd, ok := doc.Nodes[0].(*document.Command)
	require.True(t, ok)
	assert.Equal(t, "emph", cmd.Name)
	assert.Equal(t, "X", document.PlainText(cmd.Args[0]))
	assert.NoError(t, doc.Validate(true))
}

func TestEach(t *testing.T) {
	doc, err := process(t, "\\begin{each}{a}{b}{c}[#item]\\end{each}")
	require.NoError(t, err)
	assert.Equal(t, "[a][b][c]", doc.Text())

	doc, err = process(t, "\\begin{each}{1}{2}\\begin{each}{x}{y}#item\\end{each};\\end{each}")
	require.NoError(t, err)
	assert.Equal(t, "xy;xy;", doc.Text())

	doc, err = process(t, "\\begin{each}{1}{2}\\begin{each}{#item}{-}#item\\end{each}\\end{each}")
	require.NoError(t, err)
	assert.Equal(t, "1-2-", doc.Text())

	doc, err = process(t, "\\begin{each}body\\end{each}")
	require.NoError(t, err)
	assert.Equal(t, "body", doc.Text())
}

func TestMacroInsideEach(t *testing.T) {
	doc, err := process(t,
		"\\defCommand{\\li}[1]{\\begin{each}{a}{b}#1#item \\end{each}}\\li{-}")
	require.NoError(t, err)
	assert.Equal(t, "-a -b ", doc.Text())

	doc, err = process(t,
		"\\defCommand{\\br}[1]{(#1)}\\begin{each}{a}{b}\\br{#item}\\end{each}")
	require.NoError(t, err)
	assert.Equal(t, "(a)(b)", doc.Text())
}

func TestCalls(t *testing.T) {
	testCases := []struct {
		in, out string
	}{
		{"\\call{upper}{hello}", "HELLO"},
		{"\\call{lower}{HeLLo}", "hello"},
		{"\\call{title}{hello world}", "Hello World"},
		{"\\call{join}{a}{b}{c}", "abc"},
		{"\\call{count}", "0"},
		{"\\call{upper}{\\call{join}{a}{b}}", "AB"},
		{"\\defCommand{\\x}{y}\\call{upper}{\\x}", "Y"},
	}
	for _, testCase := range testCases {
		doc, err := process(t, testCase.in)
		require.NoError(t, err, testCase.in)
		assert.Equal(t, testCase.out, doc.Text(), testCase.in)
	}

	_, err := process(t, "\\call{nonsense}{x}")
	var unknown *UnknownCallError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "nonsense", unknown.Target)
}

func TestRegisterCommand(t *testing.T) {
	dp := NewCore()
	dp.RegisterCommand("twice", func(_ context.Context, call *document.Call) (document.Nodes, error) {
		var res document.Nodes
		for _, arg := range call.Args {
			res = append(res, arg.Clone()...)
			res = append(res, arg.Clone()...)
		}
		return res, nil
	})
	assert.Contains(t, dp.Commands(), "twice")

	doc := parse(t, "\\call{twice}{ab}")
	require.NoError(t, dp.Process(context.Background(), doc))
	assert.Equal(t, "abab", doc.Text())
}

func TestRegistrationOrder(t *testing.T) {
	var trace []string
	step := func(name string) Processor {
		return Func(name, func(context.Context, *document.Document) error {
			trace = append(trace, name)
			return nil
		})
	}

	dp := NewCore()
	dp.Register(step("first"))
	dp.Register(step("second"))
	assert.Equal(t, []string{
		CollectDefinitions, ExpandMacros, UnrollEach, DispatchCalls, "first", "second",
	}, dp.Registrations())

	doc := parse(t, "x")
	require.NoError(t, dp.Process(context.Background(), doc))
	require.NoError(t, dp.Process(context.Background(), doc))
	assert.Equal(t, []string{"first", "second", "first", "second"}, trace)
}

func TestErrorStopsPipeline(t *testing.T) {
	failure := errors.New("broken")
	ran := false
	dp := New()
	dp.Register(Func("fail", func(context.Context, *document.Document) error {
		return failure
	}))
	dp.Register(Func("after", func(context.Context, *document.Document) error {
		ran = true
		return nil
	}))

	err := dp.Process(context.Background(), parse(t, "x"))
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, "fail: broken", err.Error())
	assert.False(t, ran)
}

func TestMacroTableCleared(t *testing.T) {
	dp := NewCore()
	var seen int
	dp.Register(Func("inspect", func(context.Context, *document.Document) error {
		seen = dp.Macros.Len()
		return nil
	}))
	require.NoError(t, dp.Process(context.Background(), parse(t, "\\defCommand{\\a}{1}\\defCommand{\\b}{2}")))
	assert.Equal(t, 2, seen)
	assert.Equal(t, 0, dp.Macros.Len())
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := NewCore().Process(ctx, parse(t, "x"))
	assert.ErrorIs(t, err, context.Canceled)
}
