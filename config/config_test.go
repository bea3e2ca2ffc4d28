// config_test.go -
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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(viper.New(), "", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 64, cfg.MaxExpansionDepth)
	assert.Equal(t, "tango_output", cfg.OutputDir)

	level, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, level)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	data := []byte(`max-expansion-depth: 10
latex: true
latex-config:
  standalone: true
  preamble:
    - \usepackage{amsmath}
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tango.yaml"), data, 0644))

	cfg, err := Load(viper.New(), "", dir)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.MaxExpansionDepth)
	assert.True(t, cfg.LaTeX)
	assert.False(t, cfg.CodeActive)
	assert.True(t, cfg.LaTeXConfig.Standalone)
	assert.Equal(t, "article", cfg.LaTeXConfig.DocumentClass)
	assert.Equal(t, []string{"\\usepackage{amsmath}"}, cfg.LaTeXConfig.Preamble)

	// an explicit file name
	other := filepath.Join(dir, "other.yaml")
	require.NoError(t, os.WriteFile(other, []byte("output-dir: out\n"), 0644))
	cfg, err = Load(viper.New(), other)
	require.NoError(t, err)
	assert.Equal(t, "out", cfg.OutputDir)

	_, err = Load(viper.New(), filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestEnvironment(t *testing.T) {
	t.Setenv("TANGO_MAX_EXPANSION_DEPTH", "7")
	t.Setenv("TANGO_LATEX_CONFIG_DOCUMENT_CLASS", "book")
	cfg, err := Load(viper.New(), "", t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.MaxExpansionDepth)
	assert.Equal(t, "book", cfg.LaTeXConfig.DocumentClass)
}

func TestOverride(t *testing.T) {
	v := viper.New()
	v.Set(KeyCodeActive, true)
	cfg, err := Load(v, "", t.TempDir())
	require.NoError(t, err)
	assert.True(t, cfg.CodeActive)
}

func TestValidate(t *testing.T) {
	testCases := []func(c *Config){
		func(c *Config) { c.MaxExpansionDepth = 0 },
		func(c *Config) { c.MaxExpansionSize = 0 },
		func(c *Config) { c.OutputDir = "" },
		func(c *Config) { c.Jobs = 0 },
		func(c *Config) { c.LogLevel = "loud" },
		func(c *Config) { c.LaTeXConfig.DocumentClass = "" },
	}
	for i, modify := range testCases {
		cfg := Default()
		modify(cfg)
		assert.Error(t, cfg.Validate(), i)
	}
	assert.NoError(t, Default().Validate())
}

func TestYAML(t *testing.T) {
	out, err := Default().YAML()
	require.NoError(t, err)

	back := &Config{}
	require.NoError(t, yaml.Unmarshal(out, back))
	assert.Equal(t, Default(), back)
	assert.Contains(t, string(out), "max-expansion-depth: 64")
}

func TestFingerprint(t *testing.T) {
	a := Default()
	b := Default()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.OutputDir = "elsewhere"
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.LaTeXConfig.Standalone = true
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}
