// processor.go - the document processing pipeline
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

// Package processor implements the transformations which turn a parsed
// Tango document into a document ready for output.
package processor

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/seehuhn/tango/markup/document"
)

// DefaultMaxDepth is the default limit for nested macro expansion.
const DefaultMaxDepth = 64

// DefaultMaxExpansion is the default limit for the total size of all
// macro expansions in a document.  The size of an expansion is the
// number of nodes plus the number of bytes of text in the substituted
// macro body.
const DefaultMaxExpansion = 4 << 20

// Processor is one step of document processing.  Process modifies the
// document in place.
type Processor interface {
	Name() string
	Process(ctx context.Context, doc *document.Document) error
}

type funcProcessor struct {
	name string
	fn   func(ctx context.Context, doc *document.Document) error
}

// Func returns a Processor with the given name which calls fn.
func Func(name string, fn func(ctx context.Context, doc *document.Document) error) Processor {
	return &funcProcessor{name: name, fn: fn}
}

func (p *funcProcessor) Name() string { return p.name }

func (p *funcProcessor) Process(ctx context.Context, doc *document.Document) error {
	return p.fn(ctx, doc)
}

// DocumentProcessor runs a list of processors over a document.  The
// processors run exactly once per call to .Process(), in the order in
// which they were registered.
type DocumentProcessor struct {
	// MaxDepth limits the nesting of macro expansions.
	MaxDepth int

	// MaxExpansion limits the total size of all macro expansions
	// during one call to .Process().  Zero means no limit.
	MaxExpansion int

	// Macros holds the macro definitions found while processing a
	// document.  The table is cleared when .Process() returns.
	Macros *MacroTable

	procs     []Processor
	commands  map[string]CommandFunc
	expansion int
}

// New returns a DocumentProcessor without any registered processors.
// The built-in call targets are available.
func New() *DocumentProcessor {
	dp := &DocumentProcessor{
		MaxDepth:     DefaultMaxDepth,
		MaxExpansion: DefaultMaxExpansion,
		Macros:       NewMacroTable(),
		commands:     make(map[string]CommandFunc),
	}
	dp.addBuiltinCommands()
	return dp
}

// NewCore returns a DocumentProcessor with the core processors
// registered.
func NewCore() *DocumentProcessor {
	dp := New()
	dp.RegisterCore()
	return dp
}

// Register appends p to the list of processors.
func (dp *DocumentProcessor) Register(p Processor) {
	dp.procs = append(dp.procs, p)
}

// Registrations returns the names of the registered processors, in
// execution order.
func (dp *DocumentProcessor) Registrations() []string {
	res := make([]string, len(dp.procs))
	for i, p := range dp.procs {
		res[i] = p.Name()
	}
	return res
}

// Process runs all registered processors over doc.  Processing stops
// at the first error.  In this case the document is in an unspecified
// state and must not be used.
func (dp *DocumentProcessor) Process(ctx context.Context, doc *document.Document) error {
	defer dp.Macros.Clear()

	for _, p := range dp.procs {
		err := ctx.Err()
		if err != nil {
			return err
		}
		log.Debug().Str("file", doc.Name).Str("processor", p.Name()).Msg("running")
		err = p.Process(ctx, doc)
		if err != nil {
			return fmt.Errorf("%s: %w", p.Name(), err)
		}
	}
	return nil
}
