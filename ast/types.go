package ast

import "fmt"

// Type is implemented by every type annotation the interpreter needs
// to consult at evaluation time (sizeof, pointer-arithmetic scaling,
// additive-operator dispatch). It stands in for the clang::QualType
// the original C++ interpreter queried directly from the Clang AST.
type Type interface {
	String() string
	isType()
}

// IntType is the single scalar numeric type in the supported
// language: a fixed-width signed integer.
type IntType struct{}

func (IntType) String() string { return "int" }
func (IntType) isType()        {}

// PointerType is a pointer to Base, represented at runtime as a
// HeapAddr (a byte offset into the heap); integer steps added to or
// subtracted from it are scaled by the evaluator's configured pointer
// width.
type PointerType struct{ Base Type }

func (t PointerType) String() string { return "*" + t.Base.String() }
func (PointerType) isType()          {}

// ArrayType is a fixed-length array of Base, whose constant Size is
// known at declaration time (variable-length arrays are not part of
// the supported surface language).
type ArrayType struct {
	Base Type
	Size int
}

func (t ArrayType) String() string { return fmt.Sprintf("%s[%d]", t.Base.String(), t.Size) }
func (ArrayType) isType()          {}
