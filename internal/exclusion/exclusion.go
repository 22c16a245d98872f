// Package exclusion implements the exclusion-manifest policy that
// governs which include references may be written into the file cache.
package exclusion

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Matcher holds an ordered list of compiled patterns parsed from an
// exclusion manifest and decides whether a reference is cacheable.
//
// Patterns are interpreted as regular expressions (Go's RE2 syntax) over
// the full reference string, not as globs, and are used exactly as
// written -- a pattern is anchored only if it contains "^"/"$" itself.
// This follows the observed behavior in spec.md §9: test manifests mix
// anchored and unanchored patterns and both are expected to work.
type Matcher struct {
	patterns []*regexp.Regexp
}

// New compiles an empty Matcher that excludes nothing.
func New() *Matcher {
	return &Matcher{}
}

// Load parses a UTF-8 exclusion manifest: one pattern per line, blank
// lines ignored, lines beginning with "#" treated as comments and
// ignored. An empty (or all-comment) manifest matches nothing.
func Load(r io.Reader) (*Matcher, error) {
	m := New()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		re, err := regexp.Compile(line)
		if err != nil {
			return nil, fmt.Errorf("exclusion manifest line %d: %q: %w", lineNo, line, err)
		}
		m.patterns = append(m.patterns, re)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading exclusion manifest: %w", err)
	}
	return m, nil
}

// IsExcluded reports whether any non-comment pattern in the manifest
// matches reference.
func (m *Matcher) IsExcluded(reference string) bool {
	if m == nil {
		return false
	}
	for _, re := range m.patterns {
		if re.MatchString(reference) {
			return true
		}
	}
	return false
}
