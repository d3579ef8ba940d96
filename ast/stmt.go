package ast

import (
	"fmt"
	"strings"
)

// Node Kind: VarDecl

// VarDecl declares one variable: a scalar with an optional
// integer-literal initializer, or a constant-size array. Local
// declarations appear inside a DeclStmt; global declarations appear
// directly in TranslationUnit.Decls. Parameters are instead
// represented by ParamDecl below.
type VarDecl struct {
	PosVal Pos
	Name   string
	Type   Type
	// Init is the initializer expression, restricted by the supported
	// surface language to an *IntLiteral, or nil (implying zero).
	Init Node
}

func (n *VarDecl) Pos() Pos               { return n.PosVal }
func (n *VarDecl) String() string         { return fmt.Sprintf("%s %s", n.Type, n.Name) }
func (n *VarDecl) Accept(v Visitor) error { return v.VisitVarDecl(n) }

// Node Kind: ParamDecl

// ParamDecl declares one function parameter.
type ParamDecl struct {
	PosVal Pos
	Name   string
	Type   Type
}

func (n *ParamDecl) Pos() Pos               { return n.PosVal }
func (n *ParamDecl) String() string         { return fmt.Sprintf("%s %s", n.Type, n.Name) }
func (n *ParamDecl) Accept(v Visitor) error { return v.VisitParamDecl(n) }

// Node Kind: DeclStmt

// DeclStmt introduces one or more variable declarations as a
// statement, e.g. `int a, b = 3;`.
type DeclStmt struct {
	PosVal Pos
	Decls  []*VarDecl
}

func (n *DeclStmt) Pos() Pos { return n.PosVal }
func (n *DeclStmt) String() string {
	parts := make([]string, len(n.Decls))
	for i, d := range n.Decls {
		parts[i] = d.String()
	}
	return strings.Join(parts, ", ") + ";"
}
func (n *DeclStmt) Accept(v Visitor) error { return v.VisitDeclStmt(n) }

// Node Kind: CompoundStmt

// CompoundStmt is a brace-delimited sequence of statements, used for
// function bodies and for the bodies of if/while/for.
type CompoundStmt struct {
	PosVal Pos
	Stmts  []Node
}

func (n *CompoundStmt) Pos() Pos               { return n.PosVal }
func (n *CompoundStmt) String() string         { return fmt.Sprintf("{ %d stmts }", len(n.Stmts)) }
func (n *CompoundStmt) Accept(v Visitor) error { return v.VisitCompoundStmt(n) }

// Node Kind: IfStmt

// IfStmt is `if (Cond) Then [else Else]`. Else is nil when there is no
// else-branch.
type IfStmt struct {
	PosVal Pos
	Cond   Node
	Then   Node
	Else   Node
}

func (n *IfStmt) Pos() Pos               { return n.PosVal }
func (n *IfStmt) String() string         { return fmt.Sprintf("if (%s) ...", n.Cond) }
func (n *IfStmt) Accept(v Visitor) error { return v.VisitIfStmt(n) }

// Node Kind: WhileStmt

// WhileStmt is `while (Cond) Body`.
type WhileStmt struct {
	PosVal Pos
	Cond   Node
	Body   Node
}

func (n *WhileStmt) Pos() Pos               { return n.PosVal }
func (n *WhileStmt) String() string         { return fmt.Sprintf("while (%s) ...", n.Cond) }
func (n *WhileStmt) Accept(v Visitor) error { return v.VisitWhileStmt(n) }

// Node Kind: ForStmt

// ForStmt is `for (Init; Cond; Inc) Body`. Init, Cond and Inc may all
// be nil (an absent init is simply skipped; an absent cond is treated
// as always-true; an absent inc is simply skipped).
type ForStmt struct {
	PosVal Pos
	Init   Node
	Cond   Node
	Inc    Node
	Body   Node
}

func (n *ForStmt) Pos() Pos               { return n.PosVal }
func (n *ForStmt) String() string         { return "for (...) ..." }
func (n *ForStmt) Accept(v Visitor) error { return v.VisitForStmt(n) }

// Node Kind: ReturnStmt

// ReturnStmt is `return Value;`. Value is nil for a bare `return;`,
// which is treated as returning 0.
type ReturnStmt struct {
	PosVal Pos
	Value  Node
}

func (n *ReturnStmt) Pos() Pos               { return n.PosVal }
func (n *ReturnStmt) String() string         { return fmt.Sprintf("return %s;", n.Value) }
func (n *ReturnStmt) Accept(v Visitor) error { return v.VisitReturnStmt(n) }

// Node Kind: ExprStmt

// ExprStmt wraps a bare expression used as a statement, e.g. `f();`
// or `i = i + 1;`.
type ExprStmt struct {
	PosVal Pos
	Expr   Node
}

func (n *ExprStmt) Pos() Pos               { return n.PosVal }
func (n *ExprStmt) String() string         { return fmt.Sprintf("%s;", n.Expr) }
func (n *ExprStmt) Accept(v Visitor) error { return v.VisitExprStmt(n) }

// Node Kind: FuncDecl

// FuncDecl declares a function. Body is nil for the four built-ins
// (GET, PRINT, MALLOC, FREE), which the Environment recognizes by
// exact name and dispatches natively rather than walking a body.
type FuncDecl struct {
	PosVal     Pos
	Name       string
	Params     []*ParamDecl
	ReturnType Type
	Body       *CompoundStmt
	Builtin    bool
}

func (n *FuncDecl) Pos() Pos { return n.PosVal }
func (n *FuncDecl) String() string {
	return fmt.Sprintf("%s %s(%d params)", n.ReturnType, n.Name, len(n.Params))
}
func (n *FuncDecl) Accept(v Visitor) error { return v.VisitFuncDecl(n) }

// Node Kind: TranslationUnit

// TranslationUnit is the root node: the ordered list of top-level
// declarations (functions and global variables) the parser produced.
type TranslationUnit struct {
	PosVal Pos
	Decls  []Node
}

func (n *TranslationUnit) Pos() Pos               { return n.PosVal }
func (n *TranslationUnit) String() string         { return fmt.Sprintf("TranslationUnit(%d decls)", len(n.Decls)) }
func (n *TranslationUnit) Accept(v Visitor) error { return v.VisitTranslationUnit(n) }
