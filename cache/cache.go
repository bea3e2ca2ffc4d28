// cache.go - on-disk cache for generated output
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

// Package cache stores generated documents on disk, so that unchanged
// input does not need to be processed again.
package cache

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/sha3"
)

const fileSuffix = ".tex"

// DefaultPruneLimit is the number of bytes of cached data retained by
// Close, when no other limit is given.
const DefaultPruneLimit = 16 << 20

// Cache stores byte strings on disk, indexed by string keys.
type Cache struct {
	dir     string
	entries map[string]*entry
	start   time.Time
}

// DefaultDir returns the cache directory used when no directory is
// configured.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "tango"), nil
}

// New creates a new cache, backed by the directory dir.  If dir is
// empty, DefaultDir() is used.  The cache is pre-populated with all
// entries found in the directory.
func New(dir string) (*Cache, error) {
	if dir == "" {
		var err error
		dir, err = DefaultDir()
		if err != nil {
			return nil, err
		}
	}
	err := os.MkdirAll(dir, 0755)
	if err != nil {
		return nil, err
	}

	c := &Cache{
		dir:     dir,
		entries: make(map[string]*entry),
		start:   time.Now(),
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, de := range files {
		name := de.Name()
		if de.IsDir() || !strings.HasSuffix(name, fileSuffix) {
			log.Warn().Str("cache", dir).Str("file", name).Msg("unexpected file")
			continue
		}
		fi, err := de.Info()
		if err != nil {
			return nil, err
		}
		hash := strings.TrimSuffix(name, fileSuffix)
		c.entries[hash] = &entry{
			Size: fi.Size(),
			Time: fi.ModTime(),
		}
		total += fi.Size()
	}
	log.Debug().Str("cache", dir).Stringer("size", byteSize(total)).
		Int("objects", len(c.entries)).Msg("cache opened")

	return c, nil
}

// Dir returns the directory where cache entries are stored.
func (c *Cache) Dir() string {
	return c.dir
}

// Close must be called when the cache is no longer needed.  Up to
// pruneLimit bytes of data may be left behind in the cache directory;
// these files will be used to pre-populate future Cache instances.
//
// If pruneLimit >= 0, entries added using the current Cache instance
// are always retained, even if their total size exceeds pruneLimit.
// If pruneLimit < 0, all cached data is removed.
func (c *Cache) Close(pruneLimit int64) error {
	var of []pruneEntry
	var total int64
	for hash, e := range c.entries {
		of = append(of, pruneEntry{key: hash, entry: e})
		total += e.Size
	}
	sort.Slice(of, func(i, j int) bool {
		return of[i].Time.Before(of[j].Time)
	})

	var err error
	var pruneCount int
	var pruneBytes int64
	for _, pe := range of {
		if total <= pruneLimit {
			break
		}
		if pruneLimit >= 0 && c.start.Before(pe.Time) {
			break
		}
		e2 := os.Remove(c.filePath(pe.key))
		if err == nil {
			err = e2
		}
		pruneCount++
		pruneBytes += pe.Size
		total -= pe.Size
	}
	if pruneCount > 0 {
		log.Info().Str("cache", c.dir).Stringer("size", byteSize(pruneBytes)).
			Int("objects", pruneCount).Msg("cache pruned")
	}

	if pruneLimit < 0 {
		_ = os.Remove(c.dir)
	}

	c.entries = nil
	return err
}

// Has returns true, if the cache contains data which has previously
// been stored for the given key.
func (c *Cache) Has(key string) bool {
	e, ok := c.entries[hashKey(key)]
	if ok {
		e.Time = time.Now()
	}
	return ok
}

// Put stores data in the cache.  Any data previously stored for the
// same key is overwritten.
func (c *Cache) Put(key string, data []byte) error {
	hash := hashKey(key)
	err := os.WriteFile(c.filePath(hash), data, 0644)
	if err != nil {
		return err
	}
	c.entries[hash] = &entry{
		Size: int64(len(data)),
		Time: time.Now(),
	}
	return nil
}

// Get returns the data which has previously been stored in the cache
// for the given key.
func (c *Cache) Get(key string) ([]byte, error) {
	hash := hashKey(key)
	data, err := os.ReadFile(c.filePath(hash))
	if err != nil {
		return nil, err
	}
	if e, ok := c.entries[hash]; ok {
		e.Time = time.Now()
	}
	return data, nil
}

// Key combines several strings into one cache key.
func Key(parts ...string) string {
	var b strings.Builder
	for _, part := range parts {
		b.WriteString(part)
		b.WriteByte(0)
	}
	return b.String()
}

func (c *Cache) filePath(hash string) string {
	return filepath.Join(c.dir, hash+fileSuffix)
}

func hashKey(key string) string {
	h := sha3.NewShake128()
	h.Write([]byte(key))
	buf := make([]byte, 15)
	h.Read(buf)
	return base64.RawURLEncoding.EncodeToString(buf)
}

type entry struct {
	Size int64
	Time time.Time
}

type pruneEntry struct {
	key string
	*entry
}
