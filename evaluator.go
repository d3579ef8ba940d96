package cminic

import "github.com/clarete/cminic/ast"

// Evaluator implements ast.Visitor, driving the recursive tree walk
// spec.md §4.5 describes: children visited left-to-right before a
// node's own action runs, with the result bound into the current
// frame under the node itself. Grounded on grammar_compiler.go's
// compiler struct (an ast.Visitor implementer holding the mutable
// state a single pass over the tree needs) and ASTInterpreter.cpp's
// VisitIfStmt/VisitWhileStmt/VisitForStmt control-flow handling.
type Evaluator struct {
	env *Environment
}

// NewEvaluator builds an Evaluator over env. Run initializes env from
// the translation unit it is given (see Environment.Init), so env is
// expected to be freshly constructed and not yet initialized.
func NewEvaluator(env *Environment) *Evaluator {
	return &Evaluator{env: env}
}

// Run evaluates main's body in the global frame, per spec.md §4.5.9,
// and returns the program's exit status. err is non-nil only for the
// abort cases in spec.md §7 (1-5); a non-zero exitStatus by itself is
// not an error.
func (ev *Evaluator) Run(tu *ast.TranslationUnit) (exitStatus int, err error) {
	if err := ev.env.Init(tu); err != nil {
		return 0, err
	}
	entry := ev.env.Entry()
	ev.env.frames.top().setPC(entry.Body)

	value, returned, err := catchReturn(func() error {
		return ev.visitStmt(entry.Body)
	})
	if err != nil {
		return 0, err
	}
	if returned {
		return int(value), nil
	}
	return 0, nil
}

// eval runs n's Accept (which recurses into n's own children per its
// Visit method below) and returns the value n bound to itself.
func (ev *Evaluator) eval(n ast.Node) (int64, error) {
	if err := n.Accept(ev); err != nil {
		return 0, err
	}
	return ev.env.frames.top().getStmt(n)
}

// visitStmt runs a statement's Accept. Statements other than
// ExprStmt/DeclStmt don't bind a value; this just surfaces the error.
func (ev *Evaluator) visitStmt(n ast.Node) error {
	if n == nil {
		return nil
	}
	return n.Accept(ev)
}

// ---- Literals and references (spec.md §4.5.1) ----

func (ev *Evaluator) VisitIntLiteral(n *ast.IntLiteral) error {
	ev.env.frames.top().bindStmt(n, n.Value)
	return nil
}

func (ev *Evaluator) VisitDeclRefExpr(n *ast.DeclRefExpr) error {
	if _, ok := n.Decl.(*ast.FuncDecl); ok {
		// Refers to a built-in or user function; exists only to be
		// consumed directly by VisitCallExpr. Left unbound.
		return nil
	}
	val, err := ev.env.getDeclVal(n.Decl)
	if err != nil {
		return err
	}
	ev.env.frames.top().bindStmt(n, val)
	return nil
}

func (ev *Evaluator) VisitImplicitCastExpr(n *ast.ImplicitCastExpr) error {
	val, err := ev.eval(n.Expr)
	if err != nil {
		return err
	}
	ev.env.frames.top().bindStmt(n, val)
	return nil
}

func (ev *Evaluator) VisitCStyleCastExpr(n *ast.CStyleCastExpr) error {
	val, err := ev.eval(n.Expr)
	if err != nil {
		return err
	}
	ev.env.frames.top().bindStmt(n, val)
	return nil
}

func (ev *Evaluator) VisitParenExpr(n *ast.ParenExpr) error {
	val, err := ev.eval(n.Expr)
	if err != nil {
		return err
	}
	ev.env.frames.top().bindStmt(n, val)
	return nil
}

// ---- Unary operators (spec.md §4.5.2, plus ++/-- from SPEC_FULL.md §4.5) ----

func (ev *Evaluator) VisitUnaryExpr(n *ast.UnaryExpr) error {
	switch n.Op {
	case "++", "--":
		return ev.evalIncDec(n)
	case "*":
		ptr, err := ev.eval(n.Operand)
		if err != nil {
			return err
		}
		val, err := ev.env.heap.Load(ptr)
		if err != nil {
			return err
		}
		ev.env.frames.top().bindStmt(n, val)
		return nil
	}

	v, err := ev.eval(n.Operand)
	if err != nil {
		return err
	}

	var result int64
	switch n.Op {
	case "+":
		result = v
	case "-":
		result = -v
	case "~":
		result = ^v
	case "!":
		if v == 0 {
			result = 1
		} else {
			result = 0
		}
	default:
		return newEvalError(ErrUnsupported, n, "unary operator %q", n.Op)
	}
	ev.env.frames.top().bindStmt(n, result)
	return nil
}

// evalIncDec desugars `++e`/`--e` to `e = e + 1` / `e = e - 1`,
// reusing the assignment LHS dispatch (SPEC_FULL.md §4.5).
func (ev *Evaluator) evalIncDec(n *ast.UnaryExpr) error {
	cur, slot, err := ev.evalLHS(n.Operand)
	if err != nil {
		return err
	}
	op := "+"
	if n.Op == "--" {
		op = "-"
	}
	next := ev.applyAdditive(wrapOperandAsBinary(n.Operand, op), op, cur, 1)
	if err := slot.store(next); err != nil {
		return err
	}
	ev.env.frames.top().bindStmt(n, next)
	return nil
}

// wrapOperandAsBinary builds a throwaway BinaryExpr so applyAdditive's
// ast.TypeOf(binLHS(n)) lookup sees the incremented operand's real
// type; its RHS is an int literal, whose type is always IntType, never
// a pointer, so it can't spuriously trigger the ptr-on-the-right
// branch.
func wrapOperandAsBinary(operand ast.Node, op string) *ast.BinaryExpr {
	return &ast.BinaryExpr{Op: op, LHS: operand, RHS: &ast.IntLiteral{Value: 1}}
}

// ---- Binary operators (spec.md §4.5.3, plus &&/||, compound
// assignment from SPEC_FULL.md §4.5) ----

func (ev *Evaluator) VisitBinaryExpr(n *ast.BinaryExpr) error {
	switch n.Op {
	case "=":
		return ev.evalAssign(n)
	case "+=", "-=", "*=", "%=":
		return ev.evalCompoundAssign(n)
	case "&&", "||":
		return ev.evalLogical(n)
	}

	lval, err := ev.eval(n.LHS)
	if err != nil {
		return err
	}
	rval, err := ev.eval(n.RHS)
	if err != nil {
		return err
	}

	result, err := ev.applyBinop(n, n.Op, lval, rval)
	if err != nil {
		return err
	}
	ev.env.frames.top().bindStmt(n, result)
	return nil
}

// applyBinop computes the value of a non-assignment, non-short-circuit
// binary operator already holding both evaluated operands.
func (ev *Evaluator) applyBinop(n ast.Node, op string, lval, rval int64) (int64, error) {
	switch op {
	case "+", "-":
		return ev.applyAdditive(n, op, lval, rval), nil
	case "*":
		return lval * rval, nil
	case "%":
		if rval == 0 {
			return 0, newEvalError(ErrDivByZero, n, "modulo by zero")
		}
		return lval % rval, nil
	case "/":
		if rval == 0 {
			return 0, newEvalError(ErrDivByZero, n, "division by zero")
		}
		return lval / rval, nil
	case "<":
		return boolInt(lval < rval), nil
	case ">":
		return boolInt(lval > rval), nil
	case "<=":
		return boolInt(lval <= rval), nil
	case ">=":
		return boolInt(lval >= rval), nil
	case "==":
		return boolInt(lval == rval), nil
	case "!=":
		return boolInt(lval != rval), nil
	default:
		return 0, newEvalError(ErrUnsupported, n, "binary operator %q", op)
	}
}

// applyAdditive implements spec.md §4.5.3's type-directed `+`/`-`:
// an integer operand is scaled by the heap's cell width before
// combining with a pointer-valued operand; `ptr - ptr` divides back
// down to an element count.
func (ev *Evaluator) applyAdditive(n ast.Node, op string, lval, rval int64) int64 {
	lt, rt := ast.TypeOf(binLHS(n)), ast.TypeOf(binRHS(n))
	lp, rp := ast.IsPointer(lt), ast.IsPointer(rt)

	switch {
	case lp && rp && op == "-":
		return (lval - rval) / int64(ev.env.heap.PtrSize())
	case lp && !rp:
		step := ev.env.heap.Scale(rval)
		if op == "+" {
			return lval + step
		}
		return lval - step
	case !lp && rp && op == "+":
		return rval + ev.env.heap.Scale(lval)
	default:
		if op == "+" {
			return lval + rval
		}
		return lval - rval
	}
}

func binLHS(n ast.Node) ast.Node {
	if b, ok := n.(*ast.BinaryExpr); ok {
		return b.LHS
	}
	return nil
}

func binRHS(n ast.Node) ast.Node {
	if b, ok := n.(*ast.BinaryExpr); ok {
		return b.RHS
	}
	return nil
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// evalLogical implements `&&`/`||` with short-circuit evaluation: the
// one place evaluation order deviates from the generic
// "evaluate-both-children" rule (DESIGN.md covers why).
func (ev *Evaluator) evalLogical(n *ast.BinaryExpr) error {
	lval, err := ev.eval(n.LHS)
	if err != nil {
		return err
	}

	var result int64
	switch n.Op {
	case "&&":
		if lval == 0 {
			result = 0
		} else {
			rval, err := ev.eval(n.RHS)
			if err != nil {
				return err
			}
			result = boolInt(rval != 0)
		}
	case "||":
		if lval != 0 {
			result = 1
		} else {
			rval, err := ev.eval(n.RHS)
			if err != nil {
				return err
			}
			result = boolInt(rval != 0)
		}
	}
	ev.env.frames.top().bindStmt(n, result)
	return nil
}

// lhsSlot abstracts the three assignable forms spec.md §4.5.3 and
// §9's design note name: variable reference, array subscript,
// dereference. store writes rval into the slot.
type lhsSlot struct {
	store func(rval int64) error
}

// evalLHS resolves n to its current value and an assignable slot,
// used by both plain assignment and the ++/--/+= family. It never
// calls n.Accept: per spec.md §9, "the assignment path inspects the
// LHS node kind directly rather than producing an lvalue" that would
// otherwise be read generically.
func (ev *Evaluator) evalLHS(n ast.Node) (cur int64, slot lhsSlot, err error) {
	n = unwrapParen(n)

	switch lhs := n.(type) {
	case *ast.DeclRefExpr:
		cur, err = ev.env.getDeclVal(lhs.Decl)
		if err != nil {
			return 0, lhsSlot{}, err
		}
		decl := lhs.Decl
		return cur, lhsSlot{store: func(rval int64) error {
			ev.env.bindDecl(decl, rval)
			return nil
		}}, nil

	case *ast.ArraySubscriptExpr:
		handle, idx, err := ev.evalArraySlot(lhs)
		if err != nil {
			return 0, lhsSlot{}, err
		}
		cur, err = ev.env.arrays.Get(handle, idx)
		if err != nil {
			return 0, lhsSlot{}, err
		}
		return cur, lhsSlot{store: func(rval int64) error {
			return ev.env.arrays.Set(handle, idx, rval)
		}}, nil

	case *ast.UnaryExpr:
		if lhs.Op != "*" {
			return 0, lhsSlot{}, newEvalError(ErrBadLHS, n, "cannot assign to %s", n)
		}
		addr, err := ev.eval(lhs.Operand)
		if err != nil {
			return 0, lhsSlot{}, err
		}
		cur, err = ev.env.heap.Load(addr)
		if err != nil {
			return 0, lhsSlot{}, err
		}
		return cur, lhsSlot{store: func(rval int64) error {
			return ev.env.heap.Store(addr, rval)
		}}, nil

	default:
		return 0, lhsSlot{}, newEvalError(ErrBadLHS, n, "cannot assign to %s", n)
	}
}

// evalArraySlot evaluates an array subscript's base and index without
// binding the subscript node itself to a read value (it's being used
// as a write target, not a read).
func (ev *Evaluator) evalArraySlot(n *ast.ArraySubscriptExpr) (ArrayHandle, int64, error) {
	baseHandle, err := ev.eval(n.Base)
	if err != nil {
		return 0, 0, err
	}
	idx, err := ev.eval(n.Index)
	if err != nil {
		return 0, 0, err
	}
	return ArrayHandle(baseHandle), idx, nil
}

func unwrapParen(n ast.Node) ast.Node {
	for {
		p, ok := n.(*ast.ParenExpr)
		if !ok {
			return n
		}
		n = p.Expr
	}
}

func (ev *Evaluator) evalAssign(n *ast.BinaryExpr) error {
	_, slot, err := ev.evalLHS(n.LHS)
	if err != nil {
		return err
	}
	rval, err := ev.eval(n.RHS)
	if err != nil {
		return err
	}
	if err := slot.store(rval); err != nil {
		return err
	}
	ev.env.frames.top().bindStmt(n, rval)
	return nil
}

func (ev *Evaluator) evalCompoundAssign(n *ast.BinaryExpr) error {
	cur, slot, err := ev.evalLHS(n.LHS)
	if err != nil {
		return err
	}
	rval, err := ev.eval(n.RHS)
	if err != nil {
		return err
	}

	var op string
	switch n.Op {
	case "+=":
		op = "+"
	case "-=":
		op = "-"
	case "*=":
		op = "*"
	case "%=":
		op = "%"
	}
	next, err := ev.applyBinop(n, op, cur, rval)
	if err != nil {
		return err
	}
	if err := slot.store(next); err != nil {
		return err
	}
	ev.env.frames.top().bindStmt(n, next)
	return nil
}

// ---- Array subscript (spec.md §4.5.4) ----

func (ev *Evaluator) VisitArraySubscriptExpr(n *ast.ArraySubscriptExpr) error {
	handle, idx, err := ev.evalArraySlot(n)
	if err != nil {
		return err
	}
	val, err := ev.env.arrays.Get(handle, idx)
	if err != nil {
		return err
	}
	ev.env.frames.top().bindStmt(n, val)
	return nil
}

// ---- Sizeof (spec.md §4.5.5) ----

func (ev *Evaluator) VisitSizeofExpr(n *ast.SizeofExpr) error {
	var size int64
	switch n.OperandType.(type) {
	case ast.IntType:
		size = int64(ev.env.heap.PtrSize())
	case ast.PointerType:
		size = int64(ev.env.heap.PtrSize())
	default:
		return newEvalError(ErrSizeofType, n, "sizeof unsupported for type %s", n.OperandType)
	}
	ev.env.frames.top().bindStmt(n, size)
	return nil
}

// ---- Declarations (spec.md §4.5.6) ----

func (ev *Evaluator) VisitVarDecl(n *ast.VarDecl) error {
	return ev.env.handleVarDecl(n)
}

func (ev *Evaluator) VisitParamDecl(n *ast.ParamDecl) error {
	// Parameters are bound directly by the call handler
	// (VisitCallExpr); nothing to do when merely visited.
	return nil
}

func (ev *Evaluator) VisitDeclStmt(n *ast.DeclStmt) error {
	for _, d := range n.Decls {
		if err := ev.env.handleVarDecl(d); err != nil {
			return err
		}
	}
	return nil
}

// ---- Control flow (spec.md §4.5.7) ----

func (ev *Evaluator) VisitCompoundStmt(n *ast.CompoundStmt) error {
	for _, s := range n.Stmts {
		if err := ev.visitStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (ev *Evaluator) VisitIfStmt(n *ast.IfStmt) error {
	cond, err := ev.eval(n.Cond)
	if err != nil {
		return err
	}
	if cond != 0 {
		return ev.visitStmt(n.Then)
	}
	if n.Else != nil {
		return ev.visitStmt(n.Else)
	}
	return nil
}

func (ev *Evaluator) VisitWhileStmt(n *ast.WhileStmt) error {
	for {
		cond, err := ev.eval(n.Cond)
		if err != nil {
			return err
		}
		if cond == 0 {
			return nil
		}
		if err := ev.visitStmt(n.Body); err != nil {
			return err
		}
	}
}

func (ev *Evaluator) VisitForStmt(n *ast.ForStmt) error {
	if n.Init != nil {
		if err := ev.visitStmt(n.Init); err != nil {
			return err
		}
	}
	for {
		if n.Cond != nil {
			cond, err := ev.eval(n.Cond)
			if err != nil {
				return err
			}
			if cond == 0 {
				return nil
			}
		}
		if err := ev.visitStmt(n.Body); err != nil {
			return err
		}
		if n.Inc != nil {
			if err := ev.visitStmt(n.Inc); err != nil {
				return err
			}
		}
	}
}

func (ev *Evaluator) VisitReturnStmt(n *ast.ReturnStmt) error {
	var value int64
	if n.Value != nil {
		v, err := ev.eval(n.Value)
		if err != nil {
			return err
		}
		value = v
	}
	raiseReturn(value)
	return nil // unreachable: raiseReturn always panics
}

func (ev *Evaluator) VisitExprStmt(n *ast.ExprStmt) error {
	_, err := ev.eval(n.Expr)
	return err
}

func (ev *Evaluator) VisitFuncDecl(n *ast.FuncDecl) error {
	// FuncDecl is only ever reached as a top-level declaration
	// (handled by Environment.Init) or indirectly through a
	// DeclRefExpr's resolved Decl (handled by VisitCallExpr, which
	// never calls Accept on it). Nothing to do here.
	return nil
}

func (ev *Evaluator) VisitTranslationUnit(n *ast.TranslationUnit) error {
	// Top-level declarations are processed once by Environment.Init;
	// the evaluator never walks a TranslationUnit directly.
	return nil
}

// ---- Call expression (spec.md §4.5.8) ----

func (ev *Evaluator) VisitCallExpr(n *ast.CallExpr) error {
	args := make([]int64, len(n.Args))
	for i, a := range n.Args {
		v, err := ev.eval(a)
		if err != nil {
			return err
		}
		args[i] = v
	}

	if fn, ok := ev.env.builtin(n.Callee.Name); ok {
		result, hasValue, err := fn(ev.env, args)
		if err != nil {
			return err
		}
		if hasValue {
			ev.env.frames.top().bindStmt(n, result)
		}
		return nil
	}

	fn, ok := n.Callee.Decl.(*ast.FuncDecl)
	if !ok {
		return newEvalError(ErrUnsupported, n, "call to undeclared function %q", n.Callee.Name)
	}
	return ev.callUser(n, fn, args)
}

// callUser pushes a new frame, binds parameters, runs the callee
// body, and pops the frame on every path (normal completion or
// return-signal unwind), per spec.md §4.5.8 and the stack-depth
// invariant in spec.md §8.
func (ev *Evaluator) callUser(call *ast.CallExpr, fn *ast.FuncDecl, args []int64) error {
	frame := newStackFrame()
	for i, p := range fn.Params {
		frame.bindDecl(p, args[i])
	}
	frame.setPC(fn.Body)
	ev.env.frames.push(frame)

	value, returned, err := catchReturn(func() error {
		return ev.visitStmt(fn.Body)
	})
	ev.env.frames.pop()

	if err != nil {
		return err
	}
	if returned {
		ev.env.frames.top().bindStmt(call, value)
	}
	return nil
}
