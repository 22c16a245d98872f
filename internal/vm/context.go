package vm

import (
	"path"

	"github.com/octoweave/weave/internal/lang"
)

// Reserved context keys, per spec.md §3.
const (
	KeyFile   = "__FILE__"
	KeyPath   = "__PATH__"
	KeyLine   = "__LINE__"
	KeyInline = "__INLINE__"
)

// Context is a mapping from variable name to scalar value. Contexts are
// passed by value semantically: Merge always deep-clones its first
// argument so a callee can never mutate a caller's context.
type Context map[string]lang.Value

// Merge clones a, then applies each subsequent map's keys on top of it
// in order -- last writer wins per key. This is the engine's one
// context-combination primitive, used both for "globals overlay
// locals" (globals last) and for building a callee's initial context
// (caller-supplied values last).
func Merge(a Context, rest ...Context) Context {
	out := make(Context, len(a))
	for k, v := range a {
		out[k] = v
	}
	for _, m := range rest {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

// Inline reports whether ctx[KeyInline] holds a truthy value.
func (c Context) Inline() bool {
	return lang.Truthy(c[KeyInline])
}

// parsePath computes __FILE__/__PATH__ for a source reference the way
// every nested parse/include does: basename and normalized directory
// part, with "." normalized to "".
func parsePath(file string) Context {
	dir := path.Dir(file)
	if dir == "." {
		dir = ""
	}
	return Context{
		KeyFile: path.Base(file),
		KeyPath: dir,
	}
}
