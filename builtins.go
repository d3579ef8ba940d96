package cminic

import "fmt"

// defaultBuiltins returns the four named primitives spec.md §6
// requires (GET, PRINT, MALLOC, FREE). Grounded on Environment.h's
// init() exact-name-match recognition and ASTInterpreter.cpp's
// VisitCallExpr dispatch, generalized here into name-keyed functions
// over an injectable reader/writer (vm.go's Input interface,
// generalized from parser input to host I/O) so tests can supply a
// deterministic GET source and capture PRINT output.
func defaultBuiltins() map[string]BuiltinFunc {
	return map[string]BuiltinFunc{
		"GET":    builtinGet,
		"PRINT":  builtinPrint,
		"MALLOC": builtinMalloc,
		"FREE":   builtinFree,
	}
}

// builtinGet reads one signed decimal integer from the host input,
// terminated by whitespace (spec.md §6).
func builtinGet(env *Environment, args []int64) (int64, bool, error) {
	var v int64
	if _, err := fmt.Fscan(env.reader, &v); err != nil {
		return 0, false, newEvalError(ErrUnsupported, nil, "GET: failed to read an integer: %s", err)
	}
	return v, true, nil
}

// builtinPrint writes its single argument as a signed decimal integer
// with no trailing separator (spec.md §6).
func builtinPrint(env *Environment, args []int64) (int64, bool, error) {
	if len(args) != 1 {
		return 0, false, newEvalError(ErrUnsupported, nil, "PRINT expects exactly one argument, got %d", len(args))
	}
	fmt.Fprintf(env.writer, "%d", args[0])
	return 0, false, nil
}

// builtinMalloc allocates args[0] bytes off the heap and returns the
// address.
func builtinMalloc(env *Environment, args []int64) (int64, bool, error) {
	if len(args) != 1 {
		return 0, false, newEvalError(ErrUnsupported, nil, "MALLOC expects exactly one argument, got %d", len(args))
	}
	addr, err := env.heap.Malloc(int(args[0]))
	if err != nil {
		return 0, false, err
	}
	return addr, true, nil
}

// builtinFree is a no-op, as spec.md §4.1 documents.
func builtinFree(env *Environment, args []int64) (int64, bool, error) {
	if len(args) != 1 {
		return 0, false, newEvalError(ErrUnsupported, nil, "FREE expects exactly one argument, got %d", len(args))
	}
	env.heap.Free(args[0])
	return 0, false, nil
}
