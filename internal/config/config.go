// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads the paper-feed configuration file and fills defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-feed/pkg/types"
)

// DefaultPath is the config file read when no --config flag is given.
const DefaultPath = "config.yaml"

// ErrNotFound is returned when the config file does not exist.
var ErrNotFound = errors.New("config file not found")

const (
	defaultMaxResults          = 1000
	defaultDaysBack            = 180
	defaultPageSize            = 100
	defaultPageDelay           = 3 * time.Second
	defaultHighImpactThreshold = 3.0
	defaultCitationTimeout     = 10 * time.Second
	defaultHTTPTimeout         = 60 * time.Second
	defaultUserAgent           = "paper-feed/0.1"
	defaultDataDir             = "data"
	defaultDocsDir             = "docs"
)

// DefaultCitationProviders is the provider order used when none is configured.
var DefaultCitationProviders = []string{"semantic_scholar"}

// Load reads the YAML (or JSON) config file at path and applies defaults.
// A missing file returns an error wrapping ErrNotFound that names the path.
func Load(path string) (types.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return types.Config{}, fmt.Errorf("%w: %s (check the --config path)", ErrNotFound, path)
		}
		return types.Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes config bytes; name is used in error messages.
func Parse(data []byte, name string) (types.Config, error) {
	var cfg types.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return types.Config{}, fmt.Errorf("parsing config %s: %w", name, err)
	}
	ApplyDefaults(&cfg)
	if err := Validate(cfg); err != nil {
		return types.Config{}, fmt.Errorf("config %s: %w", name, err)
	}
	return cfg, nil
}

// ApplyDefaults fills zero-valued settings with their defaults.
func ApplyDefaults(cfg *types.Config) {
	a := &cfg.Sources.Arxiv
	if a.MaxResults <= 0 {
		a.MaxResults = defaultMaxResults
	}
	if a.DaysBack <= 0 {
		a.DaysBack = defaultDaysBack
	}
	if a.PageSize <= 0 {
		a.PageSize = defaultPageSize
	}
	if a.PageDelay == 0 {
		a.PageDelay = defaultPageDelay
	}
	if a.Selection == "" {
		a.Selection = types.SelectRanked
	}
	if a.HighImpactThreshold == 0 {
		a.HighImpactThreshold = defaultHighImpactThreshold
	}

	if len(cfg.Citations.Providers) == 0 {
		cfg.Citations.Providers = append([]string(nil), DefaultCitationProviders...)
	}
	if cfg.Citations.Timeout <= 0 {
		cfg.Citations.Timeout = defaultCitationTimeout
	}

	if cfg.Keywords.Mode == "" {
		cfg.Keywords.Mode = types.KeywordsUnion
	}

	if cfg.Output.DataDir == "" {
		cfg.Output.DataDir = defaultDataDir
	}
	if cfg.Output.DocsDir == "" {
		cfg.Output.DocsDir = defaultDocsDir
	}
	if cfg.Output.Partition == "" {
		cfg.Output.Partition = types.PartitionMonthly
	}

	if cfg.HTTP.Timeout <= 0 {
		cfg.HTTP.Timeout = defaultHTTPTimeout
	}
	if cfg.HTTP.UserAgent == "" {
		cfg.HTTP.UserAgent = defaultUserAgent
	}
}

// Validate rejects enumerated settings with unknown values.
func Validate(cfg types.Config) error {
	switch cfg.Sources.Arxiv.Selection {
	case types.SelectRanked, types.SelectAsFound:
	default:
		return fmt.Errorf("unknown selection %q: use ranked or as_found", cfg.Sources.Arxiv.Selection)
	}
	switch cfg.Keywords.Mode {
	case types.KeywordsUnion, types.KeywordsCustom:
	default:
		return fmt.Errorf("unknown keywords mode %q: use union or custom", cfg.Keywords.Mode)
	}
	switch cfg.Output.Partition {
	case types.PartitionMonthly, types.PartitionSingle:
	default:
		return fmt.Errorf("unknown output partition %q: use monthly or single", cfg.Output.Partition)
	}
	for _, p := range cfg.Citations.Providers {
		switch p {
		case "semantic_scholar", "openalex":
		default:
			return fmt.Errorf("unknown citation provider %q: use semantic_scholar or openalex", p)
		}
	}
	if cfg.HTTP.MaxRetries < 0 {
		return fmt.Errorf("http.max_retries must not be negative")
	}

	seen := make(map[string]bool, len(cfg.Categories))
	for _, c := range cfg.Categories {
		if seen[c.Name] {
			return fmt.Errorf("duplicate category %q", c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}
