// Package vm implements the Execution VM: a tree-walking interpreter
// over the instruction set parsed by package lang, driving include
// resolution and macro expansion under a scoped context. See spec.md
// §4.1 and SPEC_FULL.md §1.
package vm

import (
	"fmt"

	"github.com/octoweave/weave/internal/lang"
)

// MaxExecutionDepth is the default bound on simultaneously active
// _execute frames, per spec.md §3.
const MaxExecutionDepth = 256

// Includer resolves an include reference to its raw bytes. It is
// satisfied by *resolver.Resolver.
type Includer interface {
	Resolve(reference string) ([]byte, error)
}

// Logger is the leveled-logging capability spec.md §6 names.
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warning(msg string)
	Error(msg string)
}

type noopLogger struct{}

func (noopLogger) Debug(string)   {}
func (noopLogger) Info(string)    {}
func (noopLogger) Warning(string) {}
func (noopLogger) Error(string)   {}

// Options configures a VM.
type Options struct {
	// MaxDepth overrides MaxExecutionDepth; zero means use the default.
	MaxDepth int
	// GenerateLineControl enables #line-style output, per spec.md §4.1.
	GenerateLineControl bool
	Logger              Logger
}

// VM is the Execution VM. One VM owns one globals map, one MacroTable,
// and one depth counter, all reset at the start of every top-level
// Execute call.
type VM struct {
	globals             Context
	macros              *macroTable
	depth               int
	maxDepth            int
	resolver            Includer
	logger              Logger
	generateLineControl bool
}

// New builds a VM that resolves includes through resolver.
func New(resolver Includer, opts Options) *VM {
	maxDepth := opts.MaxDepth
	if maxDepth == 0 {
		maxDepth = MaxExecutionDepth
	}
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}
	return &VM{
		macros:              newMacroTable(),
		resolver:            resolver,
		logger:              logger,
		maxDepth:            maxDepth,
		generateLineControl: opts.GenerateLineControl,
	}
}

// Execute parses source (as if read from file) and interprets it,
// returning the concatenated output. Globals, the macro table, and the
// depth counter are reset first. The initial context is
// merge(parse_path(file), globals, initial), per spec.md §4.1.
func (vm *VM) Execute(file, source string, initial Context) (string, error) {
	vm.globals = Context{}
	vm.macros.reset()
	vm.depth = 0

	parser := lang.New(file)
	tree, err := parser.Parse(source)
	if err != nil {
		return "", err
	}

	ctx := Merge(parsePath(file), vm.globals, initial)
	buf := newBuffer()
	vm.logger.Debug(fmt.Sprintf("executing %s", file))
	if err := vm.execTree(tree, ctx, buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// execTree is one _execute frame: it enforces the depth bound around
// interpreting a single instruction list under a fixed local context,
// recomputing the globals-overlaid working context before each step.
func (vm *VM) execTree(tree []lang.Instruction, local Context, buf *buffer) error {
	if vm.depth >= vm.maxDepth {
		return &MaxExecutionDepthReachedError{File: ctxFile(local), Line: ctxLine(local)}
	}
	vm.depth++
	defer func() { vm.depth-- }()

	for _, instr := range tree {
		ctx := Merge(local, vm.globals)
		if !ctx.Inline() {
			ctx[KeyLine] = float64(instr.SourceLine())
		}
		if err := vm.dispatch(instr, ctx, buf); err != nil {
			return err
		}
	}
	return nil
}

func (vm *VM) dispatch(instr lang.Instruction, ctx Context, buf *buffer) error {
	switch n := instr.(type) {
	case *lang.Set:
		val, err := lang.Evaluate(n.Value, ctx)
		if err != nil {
			return wrapExprErr(err, ctx)
		}
		vm.globals[n.Variable] = val
		return nil

	case *lang.Output:
		return vm.execOutput(n, ctx, buf)

	case *lang.Include:
		return vm.execInclude(n, ctx, buf)

	case *lang.Conditional:
		_, err := vm.execConditional(n, ctx, buf)
		return err

	case *lang.Macro:
		return vm.execMacroDecl(n, ctx)

	case *lang.Error:
		val, err := lang.Evaluate(n.Value, ctx)
		if err != nil {
			return wrapExprErr(err, ctx)
		}
		return &UserDefinedError{Message: lang.Stringify(val), File: ctxFile(ctx), Line: ctxLine(ctx)}

	default:
		return &UnsupportedInstructionError{Kind: fmt.Sprintf("%T", instr)}
	}
}

func (vm *VM) execOutput(n *lang.Output, ctx Context, buf *buffer) error {
	if n.Computed {
		buf.append(ctx, vm.generateLineControl, n.Value)
		return nil
	}

	call, ok, err := lang.ParseMacroCall(n.Value, ctx, vm.macros.names())
	if err != nil {
		return wrapExprErr(err, ctx)
	}
	if ok {
		return vm.invokeMacroInline(call, ctx, buf)
	}

	val, err := lang.Evaluate(n.Value, ctx)
	if err != nil {
		return wrapExprErr(err, ctx)
	}
	buf.append(ctx, vm.generateLineControl, lang.Stringify(val))
	return nil
}

func (vm *VM) execInclude(n *lang.Include, ctx Context, buf *buffer) error {
	call, ok, err := lang.ParseMacroCall(n.Value, ctx, vm.macros.names())
	if err != nil {
		return wrapExprErr(err, ctx)
	}
	if ok {
		return vm.invokeMacroDirect(call, ctx, buf)
	}

	refVal, err := lang.Evaluate(n.Value, ctx)
	if err != nil {
		return wrapExprErr(err, ctx)
	}
	reference := lang.Stringify(refVal)

	vm.logger.Debug("including " + reference)
	body, err := vm.resolver.Resolve(reference)
	if err != nil {
		return &SourceInclusionError{Err: err, File: ctxFile(ctx), Line: ctxLine(ctx)}
	}

	parser := lang.New(reference)
	tree, err := parser.Parse(string(body))
	if err != nil {
		return err
	}

	nestedCtx := ctx
	if !ctx.Inline() {
		nestedCtx = Merge(ctx, parsePath(reference))
	}
	return vm.execTree(tree, nestedCtx, buf)
}

// execConditional evaluates c's own test, executing the matching branch
// as a side effect, and returns the truthiness of c's own test -- not
// whether any elseif below it matched -- so a caller walking an elseif
// chain can stop as soon as it finds one whose own test was truthy.
func (vm *VM) execConditional(c *lang.Conditional, ctx Context, buf *buffer) (bool, error) {
	val, err := lang.Evaluate(c.Test, ctx)
	if err != nil {
		return false, wrapExprErr(err, ctx)
	}
	truthy := lang.Truthy(val)
	if truthy {
		return true, vm.execTree(c.Consequent, ctx, buf)
	}

	for _, elif := range c.ElseIfs {
		matched, err := vm.execConditional(elif, ctx, buf)
		if err != nil {
			return truthy, err
		}
		if matched {
			return truthy, nil
		}
	}

	if c.Alternate != nil {
		return truthy, vm.execTree(c.Alternate, ctx, buf)
	}
	return truthy, nil
}

func (vm *VM) execMacroDecl(n *lang.Macro, ctx Context) error {
	decl, err := lang.ParseMacroDeclaration(n.Declaration)
	if err != nil {
		return wrapExprErr(err, ctx)
	}
	entry := &macroEntry{
		Args: decl.Args,
		Body: n.Body,
		File: ctxFile(ctx),
		Path: ctxPathStr(ctx),
		Line: n.Line,
	}
	if prev, declared := vm.macros.declare(decl.Name, entry); !declared {
		return &MacroIsAlreadyDeclaredError{
			Name:       decl.Name,
			FirstFile:  prev.File,
			FirstLine:  prev.Line,
			SecondFile: ctxFile(ctx),
			SecondLine: n.Line,
		}
	}
	return nil
}

// bindMacroContext builds the context a macro body executes under:
// merge(callerCtx, macroLocal), where macroLocal binds arguments
// positionally up to min(declared arity, provided args) and, unless the
// caller is already inline, carries the macro's declaration-time
// __FILE__/__PATH__. forceInline sets __INLINE__ = true for the
// Output-interpolation call path; Include-triggered calls leave the
// caller's existing inline mode untouched.
func bindMacroContext(call *lang.MacroCall, entry *macroEntry, callerCtx Context, forceInline bool) Context {
	local := Context{}
	n := len(entry.Args)
	if len(call.Args) < n {
		n = len(call.Args)
	}
	for i := 0; i < n; i++ {
		local[entry.Args[i]] = call.Args[i]
	}
	if !callerCtx.Inline() {
		local[KeyFile] = entry.File
		local[KeyPath] = entry.Path
	}
	if forceInline {
		local[KeyInline] = true
	}
	return Merge(callerCtx, local)
}

// invokeMacroInline executes a macro called from an Output
// interpolation: into a fresh sub-buffer, in inline mode, trimming one
// trailing newline before splicing the chunks into the caller's buffer.
func (vm *VM) invokeMacroInline(call *lang.MacroCall, ctx Context, buf *buffer) error {
	entry := vm.macros.lookup(call.Name)
	macroCtx := bindMacroContext(call, entry, ctx, true)

	sub := newBuffer()
	if err := vm.execTree(entry.Body, macroCtx, sub); err != nil {
		return err
	}
	sub.chunks = trimTrailingNewline(sub.chunks)
	buf.chunks = append(buf.chunks, sub.chunks...)
	return nil
}

// invokeMacroDirect executes a macro called from an Include directive:
// appending straight into the caller's buffer, in the caller's current
// (non-forced) inline mode.
func (vm *VM) invokeMacroDirect(call *lang.MacroCall, ctx Context, buf *buffer) error {
	entry := vm.macros.lookup(call.Name)
	macroCtx := bindMacroContext(call, entry, ctx, false)
	return vm.execTree(entry.Body, macroCtx, buf)
}

func ctxFile(ctx Context) string {
	s, _ := ctx[KeyFile].(string)
	return s
}

func ctxPathStr(ctx Context) string {
	s, _ := ctx[KeyPath].(string)
	return s
}

func ctxLine(ctx Context) int {
	f, _ := ctx[KeyLine].(float64)
	return int(f)
}

func wrapExprErr(err error, ctx Context) error {
	return &ExpressionEvaluationError{Err: err, File: ctxFile(ctx), Line: ctxLine(ctx)}
}
