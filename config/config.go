// Copyright (c) 2026, R.I. Pienaar and the Choria Project contributors
//
// SPDX-License-Identifier: Apache-2.0

// Package config loads the repack configuration file
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/goccy/go-yaml"
	"github.com/tidwall/jsonc"

	"github.com/choria-io/repack/archive"
	iu "github.com/choria-io/repack/internal/util"
	"github.com/choria-io/repack/logging"
	"github.com/choria-io/repack/model"
	"github.com/choria-io/repack/store"
)

// DefaultRecursionLimit bounds recursive unpacking when no limit is configured
const DefaultRecursionLimit = 32

// StoreConfig configures the history store
type StoreConfig struct {
	// Type is one of memory, document or directory
	Type string `yaml:"type" json:"type"`
	// Path is the document file or directory, defaults to a location in the XDG data directory
	Path string `yaml:"path" json:"path"`
}

// Config holds the repack configuration
type Config struct {
	// LogLevel is the log level to use
	// Valid values: debug, info, warn, error
	LogLevel string `yaml:"log_level" json:"log_level"`

	// LogFormat is the log format, empty picks color on terminals and text otherwise
	// Valid values: text, color, json
	LogFormat string `yaml:"log_format" json:"log_format"`

	// Format is the archive format used when packing without an explicit format
	Format string `yaml:"format" json:"format"`

	// KeepSource retains archives after unpacking, defaults to true
	KeepSource *bool `yaml:"keep_source" json:"keep_source"`

	// MaxDepth bounds how many layers recursive unpacking processes, 0 is unbounded
	MaxDepth int `yaml:"max_depth" json:"max_depth"`

	// RecursionLimit aborts recursive unpacking of archives nested deeper than this
	RecursionLimit int `yaml:"recursion_limit" json:"recursion_limit"`

	// Pattern is the default glob used when listing archives
	Pattern string `yaml:"pattern" json:"pattern"`

	// Store is where the operation history is kept
	Store StoreConfig `yaml:"store" json:"store"`

	// MetricsFile receives Prometheus metrics in textfile collector format after every command
	MetricsFile string `yaml:"metrics_file" json:"metrics_file"`
}

// DefaultPath is the location of the user configuration file
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, "choria", "repack", "config.yaml")
}

// DefaultStorePath is the default location of the history store of type kind
func DefaultStorePath(kind string) string {
	dir := filepath.Join(xdg.DataHome, "choria", "repack")

	if kind == store.Document {
		return filepath.Join(dir, "history.json")
	}

	return filepath.Join(dir, "history")
}

// Default creates a configuration with all defaults applied
func Default() *Config {
	keep := true

	return &Config{
		LogLevel:       "warn",
		Format:         archive.DefaultFormat,
		KeepSource:     &keep,
		RecursionLimit: DefaultRecursionLimit,
		Pattern:        archive.DefaultPattern,
		Store: StoreConfig{
			Type: store.Directory,
			Path: DefaultStorePath(store.Directory),
		},
	}
}

// ParseConfig parses YAML, documents starting with { are parsed as JSON with comments
func ParseConfig(c []byte) (*Config, error) {
	cfg := Default()
	cfg.Store.Path = ""

	if bytes.HasPrefix(bytes.TrimSpace(c), []byte("{")) {
		c = jsonc.ToJSON(c)
	}

	err := yaml.Unmarshal(c, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.KeepSource == nil {
		keep := true
		cfg.KeepSource = &keep
	}

	if cfg.Store.Type == "" {
		cfg.Store.Type = store.Directory
	}
	cfg.Store.Type = strings.ToLower(cfg.Store.Type)

	if cfg.Store.Path == "" && cfg.Store.Type != store.Memory {
		cfg.Store.Path = DefaultStorePath(cfg.Store.Type)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load reads the configuration from path, an empty path reads DefaultPath when it exists and otherwise uses defaults
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
		if !iu.FileExists(path) {
			return Default(), nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read configuration: %w", err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", path, err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	_, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}

	err = logging.ValidateFormat(c.LogFormat)
	if err != nil {
		return err
	}

	if c.Format != "" {
		_, err = archive.LookupFormat(c.Format)
		if err != nil {
			return err
		}
	}

	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth cannot be negative")
	}

	if c.RecursionLimit < 0 {
		return fmt.Errorf("recursion_limit cannot be negative")
	}

	if c.Pattern != "" {
		err = archive.ValidatePattern(c.Pattern)
		if err != nil {
			return err
		}
	}

	switch c.Store.Type {
	case store.Memory:
	case store.Document, store.Directory:
		if c.Store.Path == "" {
			return fmt.Errorf("store.path must be set for %s stores", c.Store.Type)
		}
	default:
		return fmt.Errorf("%w: %s, valid types are %s", model.ErrUnknownStore, c.Store.Type, strings.Join(store.Kinds, ", "))
	}

	return nil
}

// UnpackOptions are the archive options implied by the configuration
func (c *Config) UnpackOptions() []archive.UnpackOption {
	var opts []archive.UnpackOption

	if c.KeepSource != nil {
		opts = append(opts, archive.WithKeepSource(*c.KeepSource))
	}

	if c.MaxDepth > 0 {
		opts = append(opts, archive.WithMaxDepth(c.MaxDepth))
	}

	return opts
}

// NewStore creates the configured history store
func (c *Config) NewStore(log model.Logger) (model.BlobStore, error) {
	return store.New(c.Store.Type, c.Store.Path, log)
}
