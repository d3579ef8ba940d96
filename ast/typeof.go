package ast

// TypeOf returns the static type of an expression node, standing in
// for the type annotation a real front-end's semantic analysis pass
// would have already attached to every expression (spec.md §1 calls
// the input tree "already-constructed, type-annotated"). The
// evaluator consults this to decide whether `+`/`-` need pointer-step
// scaling (spec.md §4.5.3).
func TypeOf(n Node) Type {
	switch e := n.(type) {
	case *IntLiteral:
		return IntType{}
	case *DeclRefExpr:
		return declType(e.Decl)
	case *ImplicitCastExpr:
		return e.Target
	case *CStyleCastExpr:
		return e.Target
	case *ParenExpr:
		return TypeOf(e.Expr)
	case *UnaryExpr:
		if e.Op == "*" {
			if ptr, ok := TypeOf(e.Operand).(PointerType); ok {
				return ptr.Base
			}
			return IntType{}
		}
		return TypeOf(e.Operand)
	case *BinaryExpr:
		switch e.Op {
		case "=":
			return TypeOf(e.LHS)
		case "+", "-":
			lt, rt := TypeOf(e.LHS), TypeOf(e.RHS)
			if _, ok := lt.(PointerType); ok {
				if _, ok := rt.(PointerType); ok && e.Op == "-" {
					return IntType{}
				}
				return lt
			}
			if _, ok := rt.(PointerType); ok {
				return rt
			}
			return IntType{}
		default:
			return IntType{}
		}
	case *ArraySubscriptExpr:
		switch bt := TypeOf(e.Base).(type) {
		case ArrayType:
			return bt.Base
		case PointerType:
			return bt.Base
		default:
			return IntType{}
		}
	case *SizeofExpr:
		return IntType{}
	case *CallExpr:
		if fn, ok := e.Callee.Decl.(*FuncDecl); ok {
			return fn.ReturnType
		}
		return IntType{}
	default:
		return IntType{}
	}
}

func declType(decl Node) Type {
	switch d := decl.(type) {
	case *VarDecl:
		return d.Type
	case *ParamDecl:
		return d.Type
	default:
		return IntType{}
	}
}

// IsPointer reports whether t is a PointerType.
func IsPointer(t Type) bool {
	_, ok := t.(PointerType)
	return ok
}
