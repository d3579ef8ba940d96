package cminic

import (
	"bufio"
	"io"
	"os"

	"github.com/clarete/cminic/ast"
)

// BuiltinFunc implements one of the four named built-ins (or a host
// extension registered alongside them, per SPEC_FULL.md §4.6). hasValue
// reports whether the call expression should be bound to result (GET
// and MALLOC produce a value; PRINT and FREE don't).
type BuiltinFunc func(env *Environment, args []int64) (result int64, hasValue bool, err error)

// Environment owns the heap, the array pool, the frame stack, and the
// resolved built-in/entry declarations, exactly as spec.md §3/§4.4
// describes. Grounded on Environment.h's Environment class: mStack,
// mArrays, mFree/mMalloc/mInput/mOutput, mEntry, generalized so the
// four built-ins are name-keyed functions instead of four bespoke
// fields, and host I/O is injected rather than hard-coded to
// stdin/stdout.
type Environment struct {
	Config *Config

	heap   *Heap
	arrays *ArrayPool
	frames FrameStack

	builtins map[string]BuiltinFunc
	entry    *ast.FuncDecl

	reader *bufio.Reader
	writer io.Writer
}

// Option configures an Environment at construction time.
type Option func(*Environment)

// WithInput overrides the source GET reads from (default os.Stdin).
func WithInput(r io.Reader) Option {
	return func(e *Environment) { e.reader = bufio.NewReader(r) }
}

// WithOutput overrides the sink PRINT writes to (default os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(e *Environment) { e.writer = w }
}

// WithBuiltin registers (or overrides) a named built-in, the
// extension point SPEC_FULL.md §4.6 describes for injecting a
// deterministic GET source or a buffering PRINT sink in tests.
func WithBuiltin(name string, fn BuiltinFunc) Option {
	return func(e *Environment) { e.builtins[name] = fn }
}

// NewEnvironment builds an Environment using cfg (see config.go for
// the recognized settings); pass nil to use NewConfig()'s defaults.
func NewEnvironment(cfg *Config, opts ...Option) *Environment {
	if cfg == nil {
		cfg = NewConfig()
	}
	env := &Environment{
		Config:   cfg,
		heap:     NewHeap(cfg.GetInt("heap.size_bytes"), cfg.GetInt("ptr.size_bytes")),
		arrays:   newArrayPool(),
		builtins: defaultBuiltins(),
		reader:   bufio.NewReader(os.Stdin),
		writer:   os.Stdout,
	}
	for _, opt := range opts {
		opt(env)
	}
	return env
}

// PtrSize returns the configured pointer/cell width in bytes.
func (env *Environment) PtrSize() int { return env.heap.PtrSize() }

// Init walks the translation unit's top-level declarations once,
// resolving the entry point and materializing global variables in the
// global frame (frame 0), per spec.md §4.4.
func (env *Environment) Init(tu *ast.TranslationUnit) error {
	env.frames.push(newStackFrame())

	for _, d := range tu.Decls {
		switch n := d.(type) {
		case *ast.FuncDecl:
			if n.Name == "main" {
				env.entry = n
			}
		case *ast.VarDecl:
			if err := env.handleVarDecl(n); err != nil {
				return err
			}
		}
	}

	if env.entry == nil {
		return newEvalError(ErrUnsupported, tu, `no entry function named "main"`)
	}
	return nil
}

// Entry returns the resolved main function declaration.
func (env *Environment) Entry() *ast.FuncDecl { return env.entry }

// builtin looks up a named built-in function.
func (env *Environment) builtin(name string) (BuiltinFunc, bool) {
	fn, ok := env.builtins[name]
	return fn, ok
}

// handleVarDecl materializes one variable declaration in the current
// top frame: an array type allocates a fresh pool entry and binds its
// handle; a scalar binds its literal initializer (or 0). Used for
// both global and local declarations, same as Environment.h's
// handleVarDecl.
func (env *Environment) handleVarDecl(decl *ast.VarDecl) error {
	if arrType, ok := decl.Type.(ast.ArrayType); ok {
		handle := env.arrays.Alloc(arrType.Size, env.frames.len())
		env.frames.top().bindDecl(decl, int64(handle))
		return nil
	}

	var val int64
	if decl.Init != nil {
		lit, ok := decl.Init.(*ast.IntLiteral)
		if !ok {
			return newEvalError(ErrUnsupported, decl, "variable initializer must be an integer literal")
		}
		val = lit.Value
	}
	env.frames.top().bindDecl(decl, val)
	return nil
}

// bindDecl applies the scope-lookup rule for writes: the current top
// frame if it already holds decl, otherwise the global frame.
func (env *Environment) bindDecl(decl ast.Node, val int64) {
	top := env.frames.top()
	if top.hasDecl(decl) {
		top.bindDecl(decl, val)
		return
	}
	env.frames.global().bindDecl(decl, val)
}

// getDeclVal applies the scope-lookup rule for reads: top frame, then
// global, and nowhere else (spec.md's "Scope rule").
func (env *Environment) getDeclVal(decl ast.Node) (int64, error) {
	top := env.frames.top()
	if top.hasDecl(decl) {
		return top.getDecl(decl)
	}
	return env.frames.global().getDecl(decl)
}
