// watch.go - process the input again whenever it changes
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
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/seehuhn/tango/config"
)

// settleTime is the time to wait after a change before the input is
// read.  Editors often write a file in several steps.
const settleTime = 100 * time.Millisecond

// watch runs the tango phases every time the input file is modified,
// until ctx is cancelled.  Errors during a run are logged; they do
// not end the watch loop.
func watch(ctx context.Context, cfg *config.Config, inputName string) error {
	return watchFile(ctx, inputName, func() {
		_, err := run(ctx, cfg, inputName)
		if err != nil {
			report(err)
		}
	})
}

// watchFile calls fn every time the named file is created or written.
// The directory is watched, rather than the file itself, so that
// files which are replaced by editors are handled correctly.
func watchFile(ctx context.Context, fileName string, fn func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	absName, err := filepath.Abs(fileName)
	if err != nil {
		return err
	}
	err = watcher.Add(filepath.Dir(absName))
	if err != nil {
		return err
	}
	log.Info().Str("file", fileName).Msg("watching for changes")

	var timer <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != absName {
				continue
			}
			if event.Op&fsnotify.Create == fsnotify.Create || event.Op&fsnotify.Write == fsnotify.Write {
				timer = time.After(settleTime)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("watch error")
		case <-timer:
			timer = nil
			log.Info().Str("file", fileName).Msg("input changed")
			fn()
		}
	}
}
