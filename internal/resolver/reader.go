// Package resolver implements the Include Resolver: it classifies an
// include reference by scheme, consults the FileCache for read-through
// caching, and otherwise delegates to the matching Reader capability.
package resolver

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Reader is the capability set a scheme provides: fetch the bytes a
// reference points at. Selection is by scheme, not dynamic dispatch.
type Reader interface {
	Read(reference string) ([]byte, error)
}

// ReadError wraps any reader failure so callers can recognize it as
// coming from I/O rather than from the VM or the expression evaluator.
type ReadError struct {
	Reference string
	Err       error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading %q: %v", e.Reference, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// FileReader reads local-file references relative to a base directory.
type FileReader struct {
	// BaseDir, when non-empty, is used to resolve relative references
	// that are not found relative to the current working directory.
	BaseDir string
}

func (r *FileReader) Read(reference string) ([]byte, error) {
	path := reference
	if !isAbs(path) {
		if body, err := os.ReadFile(path); err == nil {
			return body, nil
		} else if r.BaseDir != "" {
			joined := strings.TrimRight(r.BaseDir, "/") + "/" + path
			if body, err2 := os.ReadFile(joined); err2 == nil {
				return body, nil
			}
			return nil, &ReadError{Reference: reference, Err: err}
		} else {
			return nil, &ReadError{Reference: reference, Err: err}
		}
	}
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, &ReadError{Reference: reference, Err: err}
	}
	return body, nil
}

func isAbs(path string) bool {
	return strings.HasPrefix(path, "/")
}

// HTTPReader fetches http(s):// references and also serves github:
// shorthand references, resolved to the GitHub raw-content endpoint --
// see SPEC_FULL.md §5 for the rationale for folding GitHub into the
// HTTP reader rather than giving it a dedicated transport.
type HTTPReader struct {
	Client *http.Client
}

func NewHTTPReader() *HTTPReader {
	return &HTTPReader{Client: &http.Client{Timeout: 30 * time.Second}}
}

func (r *HTTPReader) Read(reference string) ([]byte, error) {
	url := reference
	if strings.HasPrefix(reference, "github:") {
		var err error
		url, err = githubRawURL(reference)
		if err != nil {
			return nil, &ReadError{Reference: reference, Err: err}
		}
	}

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Get(url)
	if err != nil {
		return nil, &ReadError{Reference: reference, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ReadError{Reference: reference, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ReadError{Reference: reference, Err: err}
	}
	return body, nil
}

// githubRawURL turns "github:owner/repo/path[@ref]" into the
// raw.githubusercontent.com URL for that blob, defaulting the ref to
// "HEAD" when absent.
func githubRawURL(reference string) (string, error) {
	rest := strings.TrimPrefix(reference, "github:")
	parts := strings.SplitN(rest, "/", 3)
	if len(parts) != 3 {
		return "", fmt.Errorf("malformed github reference: %q", reference)
	}
	owner, repo, path := parts[0], parts[1], parts[2]
	ref := "HEAD"
	if idx := strings.LastIndex(path, "@"); idx >= 0 {
		ref = path[idx+1:]
		path = path[:idx]
	}
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s/%s", owner, repo, ref, path), nil
}
