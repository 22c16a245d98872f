package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsZeroConfig(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load returned error for a missing file: %v", err)
	}
	if cfg.CacheDir != "" || len(cfg.IncludePaths) != 0 {
		t.Fatalf("expected a zero-value Config, got %#v", cfg)
	}
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".weave.yaml")
	content := `
include_paths:
  - vendor/include
define:
  ENV: production
cache_dir: .cache
line_markers: true
max_depth: 64
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.IncludePaths) != 1 || cfg.IncludePaths[0] != "vendor/include" {
		t.Fatalf("IncludePaths = %#v", cfg.IncludePaths)
	}
	if cfg.Define["ENV"] != "production" {
		t.Fatalf("Define[ENV] = %q", cfg.Define["ENV"])
	}
	if cfg.CacheDir != ".cache" || !cfg.LineMarkers || cfg.MaxDepth != 64 {
		t.Fatalf("got %#v", cfg)
	}
}

func TestLoadInvalidYAMLIsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".weave.yaml")
	if err := os.WriteFile(path, []byte("not: [valid"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected an error for invalid YAML")
	}
}

func TestExpandIncludePathsKeepsLiteralDirectoriesAsIs(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "include")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("Mkdir failed: %v", err)
	}

	out, err := ExpandIncludePaths([]string{sub})
	if err != nil {
		t.Fatalf("ExpandIncludePaths failed: %v", err)
	}
	if len(out) != 1 || out[0] != filepath.Clean(sub) {
		t.Fatalf("got %#v", out)
	}
}

func TestExpandIncludePathsExpandsGlobs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a", "b"} {
		if err := os.Mkdir(filepath.Join(dir, name), 0o755); err != nil {
			t.Fatalf("Mkdir failed: %v", err)
		}
	}

	out, err := ExpandIncludePaths([]string{filepath.Join(dir, "*")})
	if err != nil {
		t.Fatalf("ExpandIncludePaths failed: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 expanded paths, got %#v", out)
	}
}

func TestExpandIncludePathsDeduplicates(t *testing.T) {
	dir := t.TempDir()
	out, err := ExpandIncludePaths([]string{dir, dir})
	if err != nil {
		t.Fatalf("ExpandIncludePaths failed: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected deduplication, got %#v", out)
	}
}

func TestExpandIncludePathsRejectsInvalidPattern(t *testing.T) {
	if _, err := ExpandIncludePaths([]string{"["}); err == nil {
		t.Fatalf("expected an error for an invalid glob pattern")
	}
}
