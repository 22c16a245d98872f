package vm

import "github.com/octoweave/weave/internal/lang"

// macroEntry is a MacroTable record: spec.md §3 requires {args, body,
// file, path, line} taken from the declaration site's context.
type macroEntry struct {
	Args []string
	Body []lang.Instruction
	File string
	Path string
	Line int
}

// macroTable is append-only within one top-level execute call and is
// cleared by reset. Redeclaring a name is a hard error, enforced by the
// caller via declare's declared return.
type macroTable struct {
	entries map[string]*macroEntry
}

func newMacroTable() *macroTable {
	return &macroTable{entries: make(map[string]*macroEntry)}
}

func (t *macroTable) reset() {
	t.entries = make(map[string]*macroEntry)
}

// lookup returns the entry for name, or nil if undeclared.
func (t *macroTable) lookup(name string) *macroEntry {
	return t.entries[name]
}

// names returns the set of currently-declared macro names, for
// lang.ParseMacroCall's "is this identifier a macro" check.
func (t *macroTable) names() map[string]bool {
	out := make(map[string]bool, len(t.entries))
	for k := range t.entries {
		out[k] = true
	}
	return out
}

// declare records a new macro, or returns the existing entry (without
// overwriting it) if name is already declared.
func (t *macroTable) declare(name string, entry *macroEntry) (existing *macroEntry, declared bool) {
	if prev, ok := t.entries[name]; ok {
		return prev, false
	}
	t.entries[name] = entry
	return nil, true
}
