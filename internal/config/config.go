// Package config loads optional project settings from roster.yml.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileNames are the config file names searched by Load, in order.
var FileNames = []string{"roster.yml", "roster.yaml"}

// Config holds project-level defaults. Command-line flags override them.
type Config struct {
	// Database is the default journal path for run, test, trace and replay.
	Database string `yaml:"database,omitempty"`

	// Format is the default output format (text|json).
	Format string `yaml:"format,omitempty"`

	Verbose bool `yaml:"verbose,omitempty"`

	// Scenarios is the default scenario directory for test.
	Scenarios string `yaml:"scenarios,omitempty"`
}

// Load reads roster.yml or roster.yaml from dir. Returns a zero-value
// config (not an error) if neither exists.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("stat config %s: %w", path, err)
		}
		return LoadFile(path)
	}
	return &Config{}, nil
}

// LoadFile reads a config file. Unlike Load, a missing file is an error.
// Unknown keys are rejected.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Config
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}
