package ast

import (
	"encoding/json"
	"fmt"
)

// Decode parses the JSON-encoded AST produced by the external
// front-end (the lexer/parser, out of scope for this module, per
// spec.md §1) into a *TranslationUnit. The wire format is a tagged
// union keyed by "kind", one object shape per Node Kind documented in
// node.go/stmt.go. This is the module's substitute for a real parser:
// something upstream must hand the evaluator a tree, and JSON is the
// least opinionated format the CLI can read without pulling in a
// parser of its own.
func Decode(data []byte) (*TranslationUnit, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	n, err := decodeNode(raw)
	if err != nil {
		return nil, err
	}
	tu, ok := n.(*TranslationUnit)
	if !ok {
		return nil, fmt.Errorf("ast: root node must be a TranslationUnit, got %T", n)
	}
	return tu, nil
}

type wireNode struct {
	Kind string          `json:"kind"`
	Pos  Pos             `json:"pos"`
	Raw  json.RawMessage `json:"-"`
}

func decodeNode(data json.RawMessage) (Node, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var head struct {
		Kind string `json:"kind"`
		Pos  Pos    `json:"pos"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("ast: decoding node header: %w", err)
	}

	switch head.Kind {
	case "IntLiteral":
		var w struct{ Value int64 }
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &IntLiteral{PosVal: head.Pos, Value: w.Value}, nil

	case "DeclRefExpr":
		var w struct{ Name string }
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		return &DeclRefExpr{PosVal: head.Pos, Name: w.Name}, nil

	case "ImplicitCastExpr":
		var w struct {
			Target json.RawMessage
			Expr   json.RawMessage
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		t, err := decodeType(w.Target)
		if err != nil {
			return nil, err
		}
		e, err := decodeNode(w.Expr)
		if err != nil {
			return nil, err
		}
		return &ImplicitCastExpr{PosVal: head.Pos, Target: t, Expr: e}, nil

	case "CStyleCastExpr":
		var w struct {
			Target json.RawMessage
			Expr   json.RawMessage
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		t, err := decodeType(w.Target)
		if err != nil {
			return nil, err
		}
		e, err := decodeNode(w.Expr)
		if err != nil {
			return nil, err
		}
		return &CStyleCastExpr{PosVal: head.Pos, Target: t, Expr: e}, nil

	case "ParenExpr":
		var w struct{ Expr json.RawMessage }
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		e, err := decodeNode(w.Expr)
		if err != nil {
			return nil, err
		}
		return &ParenExpr{PosVal: head.Pos, Expr: e}, nil

	case "UnaryExpr":
		var w struct {
			Op      string
			Operand json.RawMessage
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		e, err := decodeNode(w.Operand)
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{PosVal: head.Pos, Op: w.Op, Operand: e}, nil

	case "BinaryExpr":
		var w struct {
			Op  string
			LHS json.RawMessage
			RHS json.RawMessage
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		lhs, err := decodeNode(w.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := decodeNode(w.RHS)
		if err != nil {
			return nil, err
		}
		return &BinaryExpr{PosVal: head.Pos, Op: w.Op, LHS: lhs, RHS: rhs}, nil

	case "ArraySubscriptExpr":
		var w struct {
			Base  json.RawMessage
			Index json.RawMessage
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		base, err := decodeNode(w.Base)
		if err != nil {
			return nil, err
		}
		idx, err := decodeNode(w.Index)
		if err != nil {
			return nil, err
		}
		return &ArraySubscriptExpr{PosVal: head.Pos, Base: base, Index: idx}, nil

	case "SizeofExpr":
		var w struct{ OperandType json.RawMessage }
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		t, err := decodeType(w.OperandType)
		if err != nil {
			return nil, err
		}
		return &SizeofExpr{PosVal: head.Pos, OperandType: t}, nil

	case "CallExpr":
		var w struct {
			Callee json.RawMessage
			Args   []json.RawMessage
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		calleeNode, err := decodeNode(w.Callee)
		if err != nil {
			return nil, err
		}
		callee, ok := calleeNode.(*DeclRefExpr)
		if !ok {
			return nil, fmt.Errorf("ast: CallExpr.Callee must be a DeclRefExpr, got %T", calleeNode)
		}
		args := make([]Node, len(w.Args))
		for i, a := range w.Args {
			arg, err := decodeNode(a)
			if err != nil {
				return nil, err
			}
			args[i] = arg
		}
		return &CallExpr{PosVal: head.Pos, Callee: callee, Args: args}, nil

	case "VarDecl":
		var w struct {
			Name string
			Type json.RawMessage
			Init json.RawMessage
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		t, err := decodeType(w.Type)
		if err != nil {
			return nil, err
		}
		init, err := decodeNode(w.Init)
		if err != nil {
			return nil, err
		}
		return &VarDecl{PosVal: head.Pos, Name: w.Name, Type: t, Init: init}, nil

	case "ParamDecl":
		var w struct {
			Name string
			Type json.RawMessage
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		t, err := decodeType(w.Type)
		if err != nil {
			return nil, err
		}
		return &ParamDecl{PosVal: head.Pos, Name: w.Name, Type: t}, nil

	case "DeclStmt":
		var w struct{ Decls []json.RawMessage }
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		decls := make([]*VarDecl, len(w.Decls))
		for i, d := range w.Decls {
			n, err := decodeNode(d)
			if err != nil {
				return nil, err
			}
			vd, ok := n.(*VarDecl)
			if !ok {
				return nil, fmt.Errorf("ast: DeclStmt.Decls[%d] must be a VarDecl, got %T", i, n)
			}
			decls[i] = vd
		}
		return &DeclStmt{PosVal: head.Pos, Decls: decls}, nil

	case "CompoundStmt":
		var w struct{ Stmts []json.RawMessage }
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		stmts := make([]Node, len(w.Stmts))
		for i, s := range w.Stmts {
			n, err := decodeNode(s)
			if err != nil {
				return nil, err
			}
			stmts[i] = n
		}
		return &CompoundStmt{PosVal: head.Pos, Stmts: stmts}, nil

	case "IfStmt":
		var w struct {
			Cond json.RawMessage
			Then json.RawMessage
			Else json.RawMessage
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		cond, err := decodeNode(w.Cond)
		if err != nil {
			return nil, err
		}
		then, err := decodeNode(w.Then)
		if err != nil {
			return nil, err
		}
		els, err := decodeNode(w.Else)
		if err != nil {
			return nil, err
		}
		return &IfStmt{PosVal: head.Pos, Cond: cond, Then: then, Else: els}, nil

	case "WhileStmt":
		var w struct {
			Cond json.RawMessage
			Body json.RawMessage
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		cond, err := decodeNode(w.Cond)
		if err != nil {
			return nil, err
		}
		body, err := decodeNode(w.Body)
		if err != nil {
			return nil, err
		}
		return &WhileStmt{PosVal: head.Pos, Cond: cond, Body: body}, nil

	case "ForStmt":
		var w struct {
			Init json.RawMessage
			Cond json.RawMessage
			Inc  json.RawMessage
			Body json.RawMessage
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		init, err := decodeNode(w.Init)
		if err != nil {
			return nil, err
		}
		cond, err := decodeNode(w.Cond)
		if err != nil {
			return nil, err
		}
		inc, err := decodeNode(w.Inc)
		if err != nil {
			return nil, err
		}
		body, err := decodeNode(w.Body)
		if err != nil {
			return nil, err
		}
		return &ForStmt{PosVal: head.Pos, Init: init, Cond: cond, Inc: inc, Body: body}, nil

	case "ReturnStmt":
		var w struct{ Value json.RawMessage }
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		val, err := decodeNode(w.Value)
		if err != nil {
			return nil, err
		}
		return &ReturnStmt{PosVal: head.Pos, Value: val}, nil

	case "ExprStmt":
		var w struct{ Expr json.RawMessage }
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		e, err := decodeNode(w.Expr)
		if err != nil {
			return nil, err
		}
		return &ExprStmt{PosVal: head.Pos, Expr: e}, nil

	case "FuncDecl":
		var w struct {
			Name       string
			Params     []json.RawMessage
			ReturnType json.RawMessage
			Body       json.RawMessage
			Builtin    bool
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		rt, err := decodeType(w.ReturnType)
		if err != nil {
			return nil, err
		}
		params := make([]*ParamDecl, len(w.Params))
		for i, p := range w.Params {
			n, err := decodeNode(p)
			if err != nil {
				return nil, err
			}
			pd, ok := n.(*ParamDecl)
			if !ok {
				return nil, fmt.Errorf("ast: FuncDecl.Params[%d] must be a ParamDecl, got %T", i, n)
			}
			params[i] = pd
		}
		var body *CompoundStmt
		if bn, err := decodeNode(w.Body); err != nil {
			return nil, err
		} else if bn != nil {
			cs, ok := bn.(*CompoundStmt)
			if !ok {
				return nil, fmt.Errorf("ast: FuncDecl.Body must be a CompoundStmt, got %T", bn)
			}
			body = cs
		}
		return &FuncDecl{
			PosVal:     head.Pos,
			Name:       w.Name,
			Params:     params,
			ReturnType: rt,
			Body:       body,
			Builtin:    w.Builtin,
		}, nil

	case "TranslationUnit":
		var w struct{ Decls []json.RawMessage }
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		decls := make([]Node, len(w.Decls))
		for i, d := range w.Decls {
			n, err := decodeNode(d)
			if err != nil {
				return nil, err
			}
			decls[i] = n
		}
		return &TranslationUnit{PosVal: head.Pos, Decls: decls}, nil

	default:
		return nil, fmt.Errorf("ast: unknown node kind %q", head.Kind)
	}
}

func decodeType(data json.RawMessage) (Type, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var head struct{ Kind string }
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("ast: decoding type header: %w", err)
	}
	switch head.Kind {
	case "IntType":
		return IntType{}, nil
	case "PointerType":
		var w struct{ Base json.RawMessage }
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		base, err := decodeType(w.Base)
		if err != nil {
			return nil, err
		}
		return PointerType{Base: base}, nil
	case "ArrayType":
		var w struct {
			Base json.RawMessage
			Size int
		}
		if err := json.Unmarshal(data, &w); err != nil {
			return nil, err
		}
		base, err := decodeType(w.Base)
		if err != nil {
			return nil, err
		}
		return ArrayType{Base: base, Size: w.Size}, nil
	default:
		return nil, fmt.Errorf("ast: unknown type kind %q", head.Kind)
	}
}
