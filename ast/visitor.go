package ast

import "fmt"

// Visitor is implemented by anything that walks the tree, the way
// grammar_ast_visitor.go's AstNodeVisitor is implemented by the
// grammar compiler and pretty-printers in the teacher toolkit. The
// evaluator is the principal implementer in this module.
type Visitor interface {
	VisitIntLiteral(*IntLiteral) error
	VisitDeclRefExpr(*DeclRefExpr) error
	VisitImplicitCastExpr(*ImplicitCastExpr) error
	VisitCStyleCastExpr(*CStyleCastExpr) error
	VisitParenExpr(*ParenExpr) error
	VisitUnaryExpr(*UnaryExpr) error
	VisitBinaryExpr(*BinaryExpr) error
	VisitArraySubscriptExpr(*ArraySubscriptExpr) error
	VisitSizeofExpr(*SizeofExpr) error
	VisitCallExpr(*CallExpr) error
	VisitVarDecl(*VarDecl) error
	VisitParamDecl(*ParamDecl) error
	VisitDeclStmt(*DeclStmt) error
	VisitCompoundStmt(*CompoundStmt) error
	VisitIfStmt(*IfStmt) error
	VisitWhileStmt(*WhileStmt) error
	VisitForStmt(*ForStmt) error
	VisitReturnStmt(*ReturnStmt) error
	VisitExprStmt(*ExprStmt) error
	VisitFuncDecl(*FuncDecl) error
	VisitTranslationUnit(*TranslationUnit) error
}

// Inspect traverses the tree in depth-first order, calling f for each
// node. If f returns false the node's children are skipped. Modelled
// on grammar_ast_visitor.go's Inspect, useful for tooling that doesn't
// want to implement the full Visitor (e.g. a one-off search for every
// CallExpr naming a given function).
func Inspect(node Node, f func(Node) bool) {
	if node == nil || !f(node) {
		return
	}
	switch n := node.(type) {
	case *IntLiteral, *DeclRefExpr, *ParamDecl:
		// leaves

	case *ImplicitCastExpr:
		Inspect(n.Expr, f)
	case *CStyleCastExpr:
		Inspect(n.Expr, f)
	case *ParenExpr:
		Inspect(n.Expr, f)
	case *UnaryExpr:
		Inspect(n.Operand, f)
	case *BinaryExpr:
		Inspect(n.LHS, f)
		Inspect(n.RHS, f)
	case *ArraySubscriptExpr:
		Inspect(n.Base, f)
		Inspect(n.Index, f)
	case *SizeofExpr:
		// type operand, no child node
	case *CallExpr:
		Inspect(n.Callee, f)
		for _, a := range n.Args {
			Inspect(a, f)
		}
	case *VarDecl:
		if n.Init != nil {
			Inspect(n.Init, f)
		}
	case *DeclStmt:
		for _, d := range n.Decls {
			Inspect(d, f)
		}
	case *CompoundStmt:
		for _, s := range n.Stmts {
			Inspect(s, f)
		}
	case *IfStmt:
		Inspect(n.Cond, f)
		Inspect(n.Then, f)
		if n.Else != nil {
			Inspect(n.Else, f)
		}
	case *WhileStmt:
		Inspect(n.Cond, f)
		Inspect(n.Body, f)
	case *ForStmt:
		if n.Init != nil {
			Inspect(n.Init, f)
		}
		if n.Cond != nil {
			Inspect(n.Cond, f)
		}
		Inspect(n.Body, f)
		if n.Inc != nil {
			Inspect(n.Inc, f)
		}
	case *ReturnStmt:
		if n.Value != nil {
			Inspect(n.Value, f)
		}
	case *ExprStmt:
		Inspect(n.Expr, f)
	case *FuncDecl:
		for _, p := range n.Params {
			Inspect(p, f)
		}
		if n.Body != nil {
			Inspect(n.Body, f)
		}
	case *TranslationUnit:
		for _, d := range n.Decls {
			Inspect(d, f)
		}

	default:
		panic(fmt.Sprintf("ast.Inspect is outdated, missing node %T", n))
	}
}
