// config.go - configuration of the tango command
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

// Package config loads the configuration of the tango command from
// configuration files, environment variables and command line flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/seehuhn/tango/markup/processor"
)

// FileName is the base name of the configuration file, without the
// extension.
const FileName = "tango"

// EnvPrefix is the prefix of environment variables which override
// configuration settings.
const EnvPrefix = "TANGO"

// Configuration keys.
const (
	KeyMaxExpansionDepth = "max-expansion-depth"
	KeyMaxExpansionSize  = "max-expansion-size"
	KeyCodeActive        = "codeactive"
	KeyLaTeX             = "latex"
	KeyOutputDir         = "output-dir"
	KeyCacheDir          = "cache-dir"
	KeyNoCache           = "no-cache"
	KeyLogLevel          = "log-level"
	KeyJobs              = "jobs"
	KeyDocumentClass     = "latex-config.document-class"
	KeyStandalone        = "latex-config.standalone"
	KeyPreamble          = "latex-config.preamble"
)

// Config holds the complete configuration of a tango run.
type Config struct {
	MaxExpansionDepth int         `mapstructure:"max-expansion-depth" yaml:"max-expansion-depth"`
	MaxExpansionSize  int         `mapstructure:"max-expansion-size" yaml:"max-expansion-size"`
	CodeActive        bool        `mapstructure:"codeactive" yaml:"codeactive"`
	LaTeX             bool        `mapstructure:"latex" yaml:"latex"`
	OutputDir         string      `mapstructure:"output-dir" yaml:"output-dir"`
	CacheDir          string      `mapstructure:"cache-dir" yaml:"cache-dir"`
	NoCache           bool        `mapstructure:"no-cache" yaml:"no-cache"`
	LogLevel          string      `mapstructure:"log-level" yaml:"log-level"`
	Jobs              int         `mapstructure:"jobs" yaml:"jobs"`
	LaTeXConfig       LaTeXConfig `mapstructure:"latex-config" yaml:"latex-config"`
}

// LaTeXConfig holds the settings of the LaTeX generator.
type LaTeXConfig struct {
	DocumentClass string   `mapstructure:"document-class" yaml:"document-class"`
	Standalone    bool     `mapstructure:"standalone" yaml:"standalone"`
	Preamble      []string `mapstructure:"preamble" yaml:"preamble,omitempty"`
}

// Default returns the configuration used when no settings are given.
func Default() *Config {
	return &Config{
		MaxExpansionDepth: processor.DefaultMaxDepth,
		MaxExpansionSize:  processor.DefaultMaxExpansion,
		OutputDir:         "tango_output",
		LogLevel:          "info",
		Jobs:              4,
		LaTeXConfig: LaTeXConfig{
			DocumentClass: "article",
		},
	}
}

// SetDefaults registers the default configuration with v.
func SetDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault(KeyMaxExpansionDepth, def.MaxExpansionDepth)
	v.SetDefault(KeyMaxExpansionSize, def.MaxExpansionSize)
	v.SetDefault(KeyCodeActive, def.CodeActive)
	v.SetDefault(KeyLaTeX, def.LaTeX)
	v.SetDefault(KeyOutputDir, def.OutputDir)
	v.SetDefault(KeyCacheDir, def.CacheDir)
	v.SetDefault(KeyNoCache, def.NoCache)
	v.SetDefault(KeyLogLevel, def.LogLevel)
	v.SetDefault(KeyJobs, def.Jobs)
	v.SetDefault(KeyDocumentClass, def.LaTeXConfig.DocumentClass)
	v.SetDefault(KeyStandalone, def.LaTeXConfig.Standalone)
}

// Load reads the configuration.  If configPath is empty, a file
// tango.yaml is searched for in the directories searchDirs.  A missing
// configuration file is not an error.  Settings from environment
// variables take precedence over the file, and flags bound to v take
// precedence over both.
func Load(v *viper.Viper, configPath string, searchDirs ...string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		for _, dir := range searchDirs {
			v.AddConfigPath(dir)
		}
	}
	err := v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	err = v.Unmarshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.MaxExpansionDepth < 1 {
		return fmt.Errorf("invalid %s %d (must be positive)",
			KeyMaxExpansionDepth, c.MaxExpansionDepth)
	}
	if c.MaxExpansionSize < 1 {
		return fmt.Errorf("invalid %s %d (must be positive)",
			KeyMaxExpansionSize, c.MaxExpansionSize)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("invalid %s %d (must be positive)", KeyJobs, c.Jobs)
	}
	if c.OutputDir == "" {
		return fmt.Errorf("%s must not be empty", KeyOutputDir)
	}
	if c.LaTeXConfig.DocumentClass == "" {
		return fmt.Errorf("%s must not be empty", KeyDocumentClass)
	}
	_, err := c.Level()
	return err
}

// Level returns the log level selected by the configuration.
func (c *Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid %s %q", KeyLogLevel, c.LogLevel)
	}
	return level, nil
}

// YAML returns the configuration in the format of the configuration
// file.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}

// Fingerprint returns a string which changes whenever a setting which
// affects the generated output changes.
func (c *Config) Fingerprint() string {
	out, _ := yaml.Marshal(struct {
		MaxExpansionDepth int         `yaml:"max-expansion-depth"`
		MaxExpansionSize  int         `yaml:"max-expansion-size"`
		CodeActive        bool        `yaml:"codeactive"`
		LaTeXConfig       LaTeXConfig `yaml:"latex-config"`
	}{c.MaxExpansionDepth, c.MaxExpansionSize, c.CodeActive, c.LaTeXConfig})
	return string(out)
}
