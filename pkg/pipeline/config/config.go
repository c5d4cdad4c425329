// Package config reads the optional .scaffold.yaml file that parameterises a
// pipeline run: library kind, exclude globs, processor selection, and
// manifest overrides. A missing file yields the defaults; a malformed one is
// an error.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-scaffold/pkg/manifest"
)

// FileName is the well-known configuration file at the tree root.
const FileName = ".scaffold.yaml"

// DefaultKind is the bundle rendered when neither config nor manifest name a
// kind.
const DefaultKind = "node"

// Config is the parsed run configuration.
type Config struct {
	// Kind selects the template bundle and the post-processors.
	Kind string `yaml:"kind"`

	// Excludes lists glob patterns the applier must skip.
	Excludes []string `yaml:"excludes"`

	// Processors names the post-processors to run. Empty means every
	// registered processor serving the kind.
	Processors []string `yaml:"processors"`

	// Manifest overrides metadata discovered from the tree.
	Manifest manifest.Manifest `yaml:"manifest"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{Kind: DefaultKind}
}

// Load reads the configuration from dir. A missing file returns Default()
// with no error.
func Load(dir string) (Config, error) {
	if strings.TrimSpace(dir) == "" {
		return Config{}, errors.New("config: directory is required")
	}

	raw, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("config: read %s: %w", FileName, err)
	}
	return Parse(raw)
}

// Parse decodes and validates raw YAML configuration bytes.
func Parse(raw []byte) (Config, error) {
	cfg := Default()
	if len(raw) == 0 {
		return cfg, nil
	}

	decoder := yaml.NewDecoder(strings.NewReader(string(raw)))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return Default(), nil
		}
		return Config{}, fmt.Errorf("config: parse %s: %w", FileName, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field shapes without touching the filesystem.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Kind) == "" {
		return fmt.Errorf("config: kind is required (default %q was removed)", DefaultKind)
	}
	for idx, pattern := range c.Excludes {
		if strings.TrimSpace(pattern) == "" {
			return fmt.Errorf("config: excludes[%d] is empty", idx)
		}
	}
	for idx, name := range c.Processors {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("config: processors[%d] is empty", idx)
		}
	}
	return nil
}
