package vm

import (
	"fmt"
	"strings"
)

// buffer accumulates Output chunks in strict source order across all
// recursive frames, optionally interleaving #line-style markers.
type buffer struct {
	chunks   []string
	lastFile string
	sawFile  bool
}

func newBuffer() *buffer {
	return &buffer{}
}

// append appends text, first emitting a line-control chunk if
// lineControl is enabled, ctx is not inline, and ctx's __FILE__ differs
// from the last file the buffer recorded output for.
func (b *buffer) append(ctx Context, lineControl bool, text string) {
	if lineControl && !ctx.Inline() {
		file := ctxFile(ctx)
		if !b.sawFile || file != b.lastFile {
			b.chunks = append(b.chunks, fmt.Sprintf("#line %d \"%s\"\n", ctxLine(ctx), escapeQuotes(file)))
			b.lastFile = file
			b.sawFile = true
		}
	}
	b.chunks = append(b.chunks, text)
}

func (b *buffer) String() string {
	return strings.Join(b.chunks, "")
}

func escapeQuotes(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// trimTrailingNewline strips exactly one trailing "\r\n" or "\n" from
// the last chunk, per spec.md §4.1's macro-inline-expansion rule.
func trimTrailingNewline(chunks []string) []string {
	if len(chunks) == 0 {
		return chunks
	}
	last := chunks[len(chunks)-1]
	switch {
	case strings.HasSuffix(last, "\r\n"):
		chunks[len(chunks)-1] = last[:len(last)-2]
	case strings.HasSuffix(last, "\n"):
		chunks[len(chunks)-1] = last[:len(last)-1]
	}
	return chunks
}
