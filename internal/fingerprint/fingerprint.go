// Package fingerprint implements the deterministic, collision-resistant
// mapping from include references to on-disk cache filenames.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Kind classifies a reference by scheme.
type Kind int

const (
	KindFile Kind = iota
	KindHTTP
	KindGitHub
)

func (k Kind) String() string {
	switch k {
	case KindHTTP:
		return "http"
	case KindGitHub:
		return "github"
	default:
		return "file"
	}
}

// maxFilenameBytes bounds every fingerprint output, regardless of input
// length, per spec.md "§4.2 Bounded".
const maxFilenameBytes = 255

// digestHexLen is the length of the hex-encoded sha256 digest suffix.
const digestHexLen = sha256.Size * 2 // 64

// maxKindBytes is the length of the longest Kind tag ("github").
const maxKindBytes = 6

// maxPrefixBytes leaves room for the scheme tag, its two separators, and
// the fixed-length digest while staying under maxFilenameBytes, so the
// final truncation below never needs to cut into the digest itself.
const maxPrefixBytes = maxFilenameBytes - digestHexLen - maxKindBytes - 2

var sanitizeRe = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

var githubRefRe = regexp.MustCompile(`^github:([^/]+)/([^/]+)/(.+)$`)

// Fingerprint is a pure function: reference -> (cache path segment, kind,
// display name). It never touches disk.
//
// Design: compose (a) a scheme tag, (b) a sanitized, length-capped
// human-readable prefix, and (c) a sha256 digest of the full reference
// string (the digest guarantees injectivity and the length bound; the
// prefix only aids debugging). github: references fold the ref and the
// path into the digest distinctly, so "a/b/c.js" and "a/b/c.js@a" never
// collide; for http(s) URLs the raw query string participates too.
func Fingerprint(reference string) (cachePath string, kind Kind, display string) {
	kind = classify(reference)

	digestInput := digestInputFor(reference, kind) + "\x00" + reference
	sum := sha256.Sum256([]byte(digestInput))
	digest := hex.EncodeToString(sum[:])

	display = displayName(reference, kind)
	prefix := sanitizeRe.ReplaceAllString(display, "_")
	prefix = strings.Trim(prefix, "_")
	if len(prefix) > maxPrefixBytes {
		prefix = prefix[:maxPrefixBytes]
	}

	var sb strings.Builder
	sb.WriteString(kind.String())
	sb.WriteByte('_')
	if prefix != "" {
		sb.WriteString(prefix)
		sb.WriteByte('_')
	}
	sb.WriteString(digest)

	cachePath = sb.String()
	if len(cachePath) > maxFilenameBytes {
		cachePath = cachePath[:maxFilenameBytes]
	}
	return cachePath, kind, display
}

func classify(reference string) Kind {
	lower := strings.ToLower(reference)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return KindHTTP
	case strings.HasPrefix(reference, "github:"):
		return KindGitHub
	default:
		return KindFile
	}
}

// digestInputFor builds the string that is hashed, keeping structurally
// distinct references (path vs. path@ref, URL vs. URL?query) from ever
// sharing a digest.
func digestInputFor(reference string, kind Kind) string {
	switch kind {
	case KindGitHub:
		owner, repo, path, ref := parseGitHub(reference)
		return "github\x00" + owner + "\x00" + repo + "\x00" + path + "\x00" + ref
	case KindHTTP:
		u, err := url.Parse(reference)
		if err != nil {
			return "http\x00" + reference
		}
		return "http\x00" + u.Scheme + "\x00" + u.Host + "\x00" + u.Path + "\x00" + u.RawQuery
	default:
		return "file\x00" + reference
	}
}

// parseGitHub splits "github:owner/repo/path[@ref]" into its parts. The
// ref participates in the digest separately from the path so that
// "a/b/c.js" and "a/b/c.js@a" fingerprint differently, matching spec.md
// §4.2's required non-collision.
func parseGitHub(reference string) (owner, repo, filePath, ref string) {
	m := githubRefRe.FindStringSubmatch(reference)
	if m == nil {
		return "", "", reference, ""
	}
	owner, repo, rest := m[1], m[2], m[3]
	if idx := strings.LastIndex(rest, "@"); idx >= 0 {
		return owner, repo, rest[:idx], rest[idx+1:]
	}
	return owner, repo, rest, ""
}

func displayName(reference string, kind Kind) string {
	switch kind {
	case KindGitHub:
		_, _, filePath, _ := parseGitHub(reference)
		return path.Base(filePath)
	case KindHTTP:
		u, err := url.Parse(reference)
		if err != nil {
			return reference
		}
		base := path.Base(u.Path)
		if base == "" || base == "." || base == "/" {
			return u.Host
		}
		return base
	default:
		return path.Base(reference)
	}
}
