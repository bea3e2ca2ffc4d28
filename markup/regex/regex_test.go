// regex_test.go -
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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLongestPrefix(t *testing.T) {
	testCases := []struct {
		expr  string
		input string
		n     int
		ok    bool
	}{
		{`a`, "abc", 1, true},
		{`a`, "bac", 0, false},
		{`abc`, "abcd", 3, true},
		{`abc`, "abd", 0, false},
		{`a*`, "aaab", 3, true},
		{`a*`, "baaa", 0, false},
		{`a+`, "aaab", 3, true},
		{`ab?c`, "acx", 2, true},
		{`ab?c`, "abcx", 3, true},
		{`a|ab`, "abc", 2, true},
		{`ab|a`, "abc", 2, true},
		{`(ab)+`, "ababa", 4, true},
		{`(a|b)*c`, "abbac", 5, true},
		{`(a|b)*c`, "abba", 0, false},
		{`[a-c]+`, "abcd", 3, true},
		{`[^_ \t\n\r\f\v]+`, "example in", 7, true},
		{`([^_ \t\n\r\f\v]+)`, "_example", 0, false},
		{`[^a]`, "\n", 1, true},
		{`.`, "\n", 0, false},
		{`.+`, "ab\ncd", 2, true},
		{`\\[a-zA-Z]+`, `\hello world`, 6, true},
		{`\\[a-zA-Z]+`, `\{`, 0, false},
		{`#[a-zA-Z0-9]+`, "#12ab x", 5, true},
		{`%[^\n]*`, "% comment\nnext", 9, true},
		{`\d+`, "2016-", 4, true},
		{`\w+`, "ab_1 x", 4, true},
		{`\s+`, " \t\nx", 3, true},
		{`[]a]+`, "]a]b", 3, true},
		{`[a-]+`, "a-a-b", 4, true},
		{`x()*y`, "xy", 2, true},
		{"\u00e9+", "\u00e9\u00e9a", 4, true},
		{"[\u00e0-\u00ff]", "\u00e9", 2, true},
	}
	for i, testCase := range testCases {
		re, err := Compile(testCase.expr)
		require.NoError(t, err, "test %d", i)
		n, ok := re.LongestPrefix(testCase.input)
		assert.Equal(t, testCase.ok, ok, "test %d: %s", i, testCase.expr)
		assert.Equal(t, testCase.n, n, "test %d: %s", i, testCase.expr)
	}
}

func TestCompileErrors(t *testing.T) {
	for _, expr := range []string{
		`(ab`,
		`ab)`,
		`[ab`,
		`*a`,
		`a|+`,
		`ab\`,
		`[z-a]`,
	} {
		_, err := Compile(expr)
		var syntaxErr *SyntaxError
		if assert.Error(t, err, expr) {
			assert.True(t, errors.As(err, &syntaxErr), expr)
			assert.Equal(t, expr, syntaxErr.Expr)
		}
	}
}

func TestMustCompile(t *testing.T) {
	assert.Panics(t, func() { MustCompile(`(`) })
	re := MustCompile(`[a-z]+`)
	assert.Equal(t, `[a-z]+`, re.String())
}
