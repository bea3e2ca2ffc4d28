// run.go - the phases of a tango run
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

package main

import (
	"context"
	"errors"
	"io"
	"sync/atomic"

	"github.com/rs/zerolog/log"

	"github.com/seehuhn/tango/batch"
	"github.com/seehuhn/tango/cache"
	"github.com/seehuhn/tango/config"
	"github.com/seehuhn/tango/latex"
	"github.com/seehuhn/tango/markup/codeactive"
	"github.com/seehuhn/tango/markup/document"
	"github.com/seehuhn/tango/markup/parser"
	"github.com/seehuhn/tango/markup/processor"
	"github.com/seehuhn/tango/markup/scanner"
)

// newProcessor returns the document processor for the given
// configuration.
func newProcessor(cfg *config.Config) (*processor.DocumentProcessor, error) {
	dp := processor.NewCore()
	dp.MaxDepth = cfg.MaxExpansionDepth
	dp.MaxExpansion = cfg.MaxExpansionSize
	if cfg.CodeActive {
		eval, err := codeactive.NewGoEvaluator()
		if err != nil {
			return nil, err
		}
		codeactive.Register(dp, eval)
	}
	return dp, nil
}

// process parses and processes the given source.
func process(ctx context.Context, cfg *config.Config, src *scanner.Source) (*document.Document, error) {
	log.Info().Str("file", src.Name).Msg("parse phase")
	doc, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}

	dp, err := newProcessor(cfg)
	if err != nil {
		return nil, err
	}
	log.Info().Strs("processors", dp.Registrations()).Msg("process phase")
	err = dp.Process(ctx, doc)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// run reads, processes and generates one input file.  If LaTeX output
// is enabled, the output is written and the output file name is
// returned.  Nothing is written if any of the phases fails.
func run(ctx context.Context, cfg *config.Config, inputName string) (outName string, err error) {
	src, err := scanner.ReadFile(inputName)
	if err != nil {
		return "", err
	}

	var c *cache.Cache
	var key string
	if cfg.LaTeX && !cfg.NoCache && !cfg.CodeActive {
		c, err = cache.New(cfg.CacheDir)
		if err != nil {
			log.Warn().Err(err).Msg("output cache disabled")
			c = nil
		} else {
			defer func() {
				e2 := c.Close(cache.DefaultPruneLimit)
				if err == nil {
					err = e2
				}
			}()
			key = cache.Key(src.Name, src.Text, cfg.Fingerprint())
		}
	}

	if c != nil && c.Has(key) {
		data, err := c.Get(key)
		if err == nil {
			log.Info().Str("file", src.Name).Msg("using cached output")
			return write(ctx, cfg, inputName, data)
		}
		log.Warn().Err(err).Msg("cannot read cached output")
	}

	doc, err := process(ctx, cfg, src)
	if err != nil {
		return "", err
	}

	log.Info().Msg("generate phase")
	gen := latex.New(cfg.LaTeXConfig)
	gen.CodeProcessed = cfg.CodeActive
	data, err := gen.Generate(doc)
	if err != nil {
		return "", err
	}

	if !cfg.LaTeX {
		log.Info().Msg("write phase disabled, use --latex to enable")
		return "", nil
	}
	outName, err = write(ctx, cfg, inputName, data)
	if err != nil {
		return "", err
	}
	if c != nil {
		err = c.Put(key, data)
		if err != nil {
			log.Warn().Err(err).Msg("cannot store output in cache")
		}
	}
	return outName, nil
}

// runAll runs the tango phases for all input files, using up to
// cfg.Jobs concurrent workers.  The returned error combines the errors
// of all failed runs.  A failed check stops the whole batch: inputs
// which have not been written yet are skipped.
func runAll(ctx context.Context, cfg *config.Config, inputNames []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var checkFailed atomic.Bool
	job := func(ctx context.Context, inputName string) (string, error) {
		outName, err := run(ctx, cfg, inputName)
		var failure *codeactive.CheckFailure
		if errors.As(err, &failure) {
			checkFailed.Store(true)
			cancel()
		}
		return outName, err
	}

	q := batch.NewQueue(ctx, cfg.Jobs)
	results := make([]<-chan *batch.Result, len(inputNames))
	for i, inputName := range inputNames {
		results[i] = q.Submit(inputName, job)
	}
	q.Finish()

	var errs []error
	for _, res := range batch.Wait(results) {
		if res.Err == nil {
			continue
		}
		if checkFailed.Load() && errors.Is(res.Err, context.Canceled) {
			log.Warn().Str("file", res.InputName).Msg("skipped after failed check")
			continue
		}
		errs = append(errs, res.Err)
	}
	return errors.Join(errs...)
}

// write stores the generated output, unless ctx has been cancelled.
func write(ctx context.Context, cfg *config.Config, inputName string, data []byte) (string, error) {
	err := ctx.Err()
	if err != nil {
		return "", err
	}
	outName, err := latex.WriteFile(cfg.OutputDir, inputName, data)
	if err != nil {
		return "", err
	}
	log.Info().Str("file", outName).Msg("write phase")
	return outName, nil
}

// dump writes the document tree of the input file as YAML.
func dump(ctx context.Context, out io.Writer, cfg *config.Config, inputName string, withProcessing bool) error {
	src, err := scanner.ReadFile(inputName)
	if err != nil {
		return err
	}
	var doc *document.Document
	if withProcessing {
		doc, err = process(ctx, cfg, src)
	} else {
		doc, err = parser.Parse(src)
	}
	if err != nil {
		return err
	}
	data, err := doc.Dump()
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
