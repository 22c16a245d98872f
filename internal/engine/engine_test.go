package engine

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunExecutesAFileFromDisk(t *testing.T) {
	dir := t.TempDir()
	main := filepath.Join(dir, "main.weave")
	if err := os.WriteFile(main, []byte("@set name = \"world\"\nhello {{ name }}\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	eng, err := New(Options{CacheDir: filepath.Join(dir, "cache")})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	out, err := eng.Run(main)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out != "hello world\n" {
		t.Fatalf("got %q", out)
	}
}

func TestRunResolvesIncludesFromTheIncludePath(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "other.weave"), []byte("included\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	main := filepath.Join(dir, "main.weave")
	if err := os.WriteFile(main, []byte("@include \"other.weave\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	eng, err := New(Options{CacheDir: filepath.Join(dir, "cache"), IncludePaths: []string{dir}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	out, err := eng.Run(main)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if out != "included\n" {
		t.Fatalf("got %q", out)
	}
}

func TestRunSourceHonorsDefines(t *testing.T) {
	eng, err := New(Options{CacheDir: t.TempDir(), Define: map[string]string{"greeting": "hi"}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	out, err := eng.RunSource("main.weave", "{{ greeting }}\n")
	if err != nil {
		t.Fatalf("RunSource failed: %v", err)
	}
	if out != "hi\n" {
		t.Fatalf("got %q", out)
	}
}

func TestClearCacheRemovesTheCacheDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	eng, err := New(Options{CacheDir: dir})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if _, err := eng.RunSource("main.weave", "@include \"unused\"\n"); err == nil {
		t.Fatalf("expected include resolution to fail for a nonexistent reference")
	}
	if err := eng.resolver.Cache.Store("https://example.com/a.txt", []byte("x")); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := eng.ClearCache(); err != nil {
		t.Fatalf("ClearCache failed: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("expected the cache directory to be removed, got: %v", err)
	}
}

func TestNewRejectsUnreadableExcludeFile(t *testing.T) {
	_, err := New(Options{CacheDir: t.TempDir(), ExcludeFile: filepath.Join(t.TempDir(), "absent-exclude.txt")})
	if err == nil {
		t.Fatalf("expected an error for a missing exclude file")
	}
}
