// Package cache implements the on-disk, read-through FileCache that
// backs IncludeResolver: a deterministic mapping from include
// references to cache files, gated by an exclusion policy.
package cache

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/octoweave/weave/internal/exclusion"
	"github.com/octoweave/weave/internal/fingerprint"
)

// FileCache owns a cache directory and stores/retrieves content keyed
// by reference, consulting an exclusion.Matcher to decide cacheability.
// The directory is created lazily, on first Store, not at construction.
type FileCache struct {
	dir     string
	exclude *exclusion.Matcher
}

// New creates a FileCache rooted at dir. A nil matcher excludes nothing.
func New(dir string, matcher *exclusion.Matcher) *FileCache {
	if matcher == nil {
		matcher = exclusion.New()
	}
	return &FileCache{dir: dir, exclude: matcher}
}

// CachedPath returns the fingerprint path for reference without
// touching disk.
func (c *FileCache) CachedPath(reference string) string {
	name, _, _ := fingerprint.Fingerprint(reference)
	return filepath.Join(c.dir, name)
}

// IsExcluded delegates to the configured exclusion.Matcher.
func (c *FileCache) IsExcluded(reference string) bool {
	return c.exclude.IsExcluded(reference)
}

// Find returns the cached body for reference, or (nil, false) if there
// is no cache entry.
func (c *FileCache) Find(reference string) ([]byte, bool) {
	body, err := os.ReadFile(c.CachedPath(reference))
	if err != nil {
		return nil, false
	}
	return body, true
}

// Store writes body at reference's fingerprint path, creating the cache
// directory if needed. The write is atomic: body is written to a
// uniquely-named temp file in the same directory, then renamed into
// place, so a crash mid-write never leaves a truncated cache entry.
func (c *FileCache) Store(reference string, body []byte) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	target := c.CachedPath(reference)

	tmp := target + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, body, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Clear removes the cache directory recursively. It is not an error to
// clear an already-absent directory.
func (c *FileCache) Clear() error {
	err := os.RemoveAll(c.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
