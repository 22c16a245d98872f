// Package lang implements the surface parser and expression evaluator
// that the VM (package vm) treats as external collaborators in
// spec.md §6. It supplies a small, concrete directive grammar so the
// VM has a real instruction tree to interpret; see SPEC_FULL.md §0.
package lang

// Instruction is the tagged-variant instruction tree spec.md §3
// defines. It is modeled as a closed interface rather than a
// string-tagged struct; only this package can add variants. Go does not
// check type switches for exhaustiveness, so a variant the VM's dispatch
// switch does not handle reaches its default branch and is reported as
// a *vm.UnsupportedInstructionError at run time.
type Instruction interface {
	instructionNode()
	SourceLine() int
}

// Set assigns an evaluated expression into VM globals.
type Set struct {
	Variable string
	Value    string
	Line     int
}

// Output appends either a precomputed literal string (Computed==true)
// or the result of evaluating/expanding Value (Computed==false).
type Output struct {
	Value    string
	Computed bool
	Line     int
}

// Include resolves Value (directly, or via macro expansion) and splices
// the referenced content's instruction tree into the current buffer.
type Include struct {
	Value string
	Line  int
}

// Conditional is an if/elseif*/else chain.
type Conditional struct {
	Test       string
	Consequent []Instruction
	ElseIfs    []*Conditional
	Alternate  []Instruction // nil if no @else branch
	Line       int
}

// Macro declares a named, parameterized instruction-tree template.
type Macro struct {
	Declaration string
	Body        []Instruction
	Line        int
}

// Error raises a user-defined error carrying the evaluated message.
type Error struct {
	Value string
	Line  int
}

func (s *Set) instructionNode()         {}
func (o *Output) instructionNode()      {}
func (i *Include) instructionNode()     {}
func (c *Conditional) instructionNode() {}
func (m *Macro) instructionNode()       {}
func (e *Error) instructionNode()       {}

func (s *Set) SourceLine() int         { return s.Line }
func (o *Output) SourceLine() int      { return o.Line }
func (i *Include) SourceLine() int     { return i.Line }
func (c *Conditional) SourceLine() int { return c.Line }
func (m *Macro) SourceLine() int       { return m.Line }
func (e *Error) SourceLine() int       { return e.Line }
