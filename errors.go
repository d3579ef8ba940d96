package cminic

import (
	"fmt"

	"github.com/clarete/cminic/ast"
)

// ErrorKind classifies an EvalError the way spec.md §7 enumerates the
// five abort cases the evaluator can raise. The sixth kind in that
// section, the return signal, is deliberately not represented here;
// see signal.go.
type ErrorKind int

const (
	// ErrUnsupported: the AST names a construct or opcode the
	// evaluator doesn't implement.
	ErrUnsupported ErrorKind = iota
	// ErrUnbound: a node/decl was read before being bound. Indicates
	// the evaluator visited a parent before its children, or read a
	// call's value when the callee fell off the end without return.
	ErrUnbound
	// ErrOOM: a heap bump allocation would exceed the region, a heap
	// access is out of range or not cell-aligned, or an array index is
	// out of bounds.
	ErrOOM
	// ErrBadLHS: the left-hand side of an assignment is not a
	// variable reference, subscript, or dereference.
	ErrBadLHS
	// ErrSizeofType: sizeof was applied to an unsupported type.
	ErrSizeofType
	// ErrDivByZero: integer division or modulo by zero.
	ErrDivByZero
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnsupported:
		return "unsupported construct"
	case ErrUnbound:
		return "missing binding"
	case ErrOOM:
		return "out of memory"
	case ErrBadLHS:
		return "bad assignment target"
	case ErrSizeofType:
		return "bad sizeof operand"
	case ErrDivByZero:
		return "division by zero"
	default:
		return "unknown error"
	}
}

// EvalError is the single error type the evaluator ever returns.
// Modelled on errors.go's ParsingError: a typed error carrying enough
// context (here, the offending node and its source position) for a
// host to report something better than a panic.
type EvalError struct {
	Kind    ErrorKind
	Message string
	Node    ast.Node
}

func (e EvalError) Error() string {
	if e.Node != nil {
		return fmt.Sprintf("%s: %s @ %s", e.Kind, e.Message, e.Node.Pos())
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newEvalError(kind ErrorKind, node ast.Node, format string, args ...any) error {
	return EvalError{Kind: kind, Message: fmt.Sprintf(format, args...), Node: node}
}
