package resolver

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/octoweave/weave/internal/cache"
)

// scheme classifies a reference for Resolve's dispatch.
type scheme int

const (
	schemeFile scheme = iota
	schemeHTTP
	schemeGitHub
	schemeGit
)

var (
	httpRe = regexp.MustCompile(`(?i)^https?:`)
	gitRe  = regexp.MustCompile(`(?i)\.git\b`)
)

// UnsupportedSchemeError is returned for references that name an
// unsupported transport -- currently only bare .git references, which
// spec.md §4.4 requires rejecting outright.
type UnsupportedSchemeError struct {
	Reference string
}

func (e *UnsupportedSchemeError) Error() string {
	return "GIT sources are not supported: " + e.Reference
}

func classify(reference string) scheme {
	switch {
	case httpRe.MatchString(reference):
		return schemeHTTP
	case gitRe.MatchString(reference):
		return schemeGit
	case strings.HasPrefix(reference, "github:"):
		return schemeGitHub
	default:
		return schemeFile
	}
}

// Resolver selects a Reader by scheme and performs read-through
// caching via a FileCache, gated by an exclusion policy.
type Resolver struct {
	Cache      *cache.FileCache
	UseCache   bool
	FileReader Reader
	HTTPReader Reader
}

// New builds a Resolver with the given cache and readers. UseCache
// defaults to true.
func New(c *cache.FileCache, fileReader, httpReader Reader) *Resolver {
	return &Resolver{
		Cache:      c,
		UseCache:   true,
		FileReader: fileReader,
		HTTPReader: httpReader,
	}
}

// Resolve fetches the bytes a reference points at.
//
// Local-file references are never cached (FileCache's API stays
// symmetric and still accepts them directly -- see SPEC_FULL.md §5 --
// but Resolve itself only populates the cache for remote references,
// since local reads are cheap and the cache exists to avoid repeated
// network round-trips).
func (r *Resolver) Resolve(reference string) ([]byte, error) {
	sch := classify(reference)

	if sch == schemeGit {
		return nil, &UnsupportedSchemeError{Reference: reference}
	}

	cacheable := sch != schemeFile

	if r.UseCache && cacheable && r.Cache != nil && !r.Cache.IsExcluded(reference) {
		if body, ok := r.Cache.Find(reference); ok {
			return body, nil
		}
	}

	reader := r.FileReader
	if sch == schemeHTTP || sch == schemeGitHub {
		reader = r.HTTPReader
	}
	if reader == nil {
		return nil, fmt.Errorf("no reader configured for reference %q", reference)
	}

	body, err := reader.Read(reference)
	if err != nil {
		return nil, err
	}

	if r.UseCache && cacheable && r.Cache != nil && !r.Cache.IsExcluded(reference) {
		if err := r.Cache.Store(reference, body); err != nil {
			return nil, fmt.Errorf("caching %q: %w", reference, err)
		}
	}

	return body, nil
}
