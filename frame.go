package cminic

import "github.com/clarete/cminic/ast"

// StackFrame binds declarations to values and expression nodes to
// their evaluated values, plus a PC cursor. Grounded on
// Environment.h's StackFrame (mVars, mExprs, mPC), expressed with the
// teacher's map-backed frame shape (vm_stack.go's frame/stack pattern
// generalized from parser backtracking frames to call frames).
type StackFrame struct {
	decls map[ast.Node]int64
	exprs map[ast.Node]int64
	pc    ast.Node
}

func newStackFrame() *StackFrame {
	return &StackFrame{
		decls: make(map[ast.Node]int64),
		exprs: make(map[ast.Node]int64),
	}
}

func (f *StackFrame) hasDecl(decl ast.Node) bool {
	_, ok := f.decls[decl]
	return ok
}

func (f *StackFrame) bindDecl(decl ast.Node, val int64) {
	f.decls[decl] = val
}

func (f *StackFrame) getDecl(decl ast.Node) (int64, error) {
	v, ok := f.decls[decl]
	if !ok {
		return 0, newEvalError(ErrUnbound, decl, "declaration read before being bound")
	}
	return v, nil
}

func (f *StackFrame) hasStmt(n ast.Node) bool {
	_, ok := f.exprs[n]
	return ok
}

func (f *StackFrame) bindStmt(n ast.Node, val int64) {
	f.exprs[n] = val
}

// getStmt returns the value bound to n. Per spec.md §4.3, reading an
// unbound node is a hard error rather than a panic: it means the
// evaluator is visiting a parent before its children, which is always
// an evaluator bug or an ill-formed tree (e.g. the fall-off-the-end
// call case in spec.md's Open Questions).
func (f *StackFrame) getStmt(n ast.Node) (int64, error) {
	v, ok := f.exprs[n]
	if !ok {
		return 0, newEvalError(ErrUnbound, n, "expression node read before being evaluated")
	}
	return v, nil
}

func (f *StackFrame) setPC(n ast.Node) { f.pc = n }
func (f *StackFrame) getPC() ast.Node  { return f.pc }

// FrameStack is the sequence of active StackFrames: frame 0 is the
// global frame, and every call pushes one more. Grounded on
// vm_stack.go's stack (push/pop/top/len over a slice).
type FrameStack []*StackFrame

func (s *FrameStack) push(f *StackFrame) {
	*s = append(*s, f)
}

func (s *FrameStack) pop() *StackFrame {
	f := (*s)[len(*s)-1]
	*s = (*s)[:len(*s)-1]
	return f
}

func (s *FrameStack) top() *StackFrame {
	return (*s)[len(*s)-1]
}

func (s *FrameStack) global() *StackFrame {
	return (*s)[0]
}

func (s *FrameStack) len() int {
	return len(*s)
}
