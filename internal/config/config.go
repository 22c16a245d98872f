// Package config loads the .weave.yaml project file and expands
// include-path glob arguments, per SPEC_FULL.md §3.2 and §4.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Config is the shape of .weave.yaml.
type Config struct {
	IncludePaths []string          `yaml:"include_paths"`
	Define       map[string]string `yaml:"define"`
	CacheDir     string            `yaml:"cache_dir"`
	ExcludeFile  string            `yaml:"exclude_file"`
	LineMarkers  bool              `yaml:"line_markers"`
	MaxDepth     int               `yaml:"max_depth"`
}

// Load reads and parses the YAML file at path. A missing file is not an
// error; Load returns a zero Config so callers can always merge CLI
// flags on top of it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// ExpandIncludePaths resolves each pattern in patterns against a
// doublestar glob rooted at the working directory, so a -I flag may
// name a brace/star pattern (e.g. "vendor/**/include") in addition to a
// plain directory. Patterns that match nothing are kept as-is, so a
// literal directory that simply doesn't exist yet still passes through
// unchanged rather than vanishing silently.
func ExpandIncludePaths(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include-path pattern %q", pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("expanding include-path pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			matches = []string{pattern}
		}
		for _, m := range matches {
			clean := filepath.Clean(m)
			if !seen[clean] {
				seen[clean] = true
				out = append(out, clean)
			}
		}
	}
	return out, nil
}
