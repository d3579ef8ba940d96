package cminic

import (
	"bytes"
	"strings"
	"testing"

	"github.com/clarete/cminic/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentInit(t *testing.T) {
	t.Run("requires a main function", func(t *testing.T) {
		tu := &ast.TranslationUnit{Decls: []ast.Node{
			&ast.FuncDecl{Name: "helper", Body: &ast.CompoundStmt{}},
		}}
		env := NewEnvironment(nil)
		err := env.Init(tu)
		require.Error(t, err)
		var evalErr EvalError
		require.ErrorAs(t, err, &evalErr)
		assert.Equal(t, ErrUnsupported, evalErr.Kind)
	})

	t.Run("binds a scalar global to its literal initializer", func(t *testing.T) {
		g := &ast.VarDecl{Name: "g", Type: ast.IntType{}, Init: &ast.IntLiteral{Value: 2}}
		tu := &ast.TranslationUnit{Decls: []ast.Node{
			g,
			&ast.FuncDecl{Name: "main", Body: &ast.CompoundStmt{}},
		}}
		env := NewEnvironment(nil)
		require.NoError(t, env.Init(tu))

		v, err := env.getDeclVal(g)
		require.NoError(t, err)
		assert.EqualValues(t, 2, v)
	})

	t.Run("binds an uninitialized scalar global to zero", func(t *testing.T) {
		g := &ast.VarDecl{Name: "g", Type: ast.IntType{}}
		tu := &ast.TranslationUnit{Decls: []ast.Node{
			g,
			&ast.FuncDecl{Name: "main", Body: &ast.CompoundStmt{}},
		}}
		env := NewEnvironment(nil)
		require.NoError(t, env.Init(tu))

		v, err := env.getDeclVal(g)
		require.NoError(t, err)
		assert.Zero(t, v)
	})

	t.Run("allocates an array global in the pool", func(t *testing.T) {
		g := &ast.VarDecl{Name: "a", Type: ast.ArrayType{Base: ast.IntType{}, Size: 10}}
		tu := &ast.TranslationUnit{Decls: []ast.Node{
			g,
			&ast.FuncDecl{Name: "main", Body: &ast.CompoundStmt{}},
		}}
		env := NewEnvironment(nil)
		require.NoError(t, env.Init(tu))

		handle, err := env.getDeclVal(g)
		require.NoError(t, err)
		v, err := env.arrays.Get(ArrayHandle(handle), 0)
		require.NoError(t, err)
		assert.Zero(t, v)
	})

	t.Run("entry resolves to main", func(t *testing.T) {
		main := &ast.FuncDecl{Name: "main", Body: &ast.CompoundStmt{}}
		tu := &ast.TranslationUnit{Decls: []ast.Node{main}}
		env := NewEnvironment(nil)
		require.NoError(t, env.Init(tu))
		assert.Same(t, main, env.Entry())
	})
}

func TestEnvironmentScopeRule(t *testing.T) {
	t.Run("getDeclVal consults the top frame before the global frame", func(t *testing.T) {
		env := NewEnvironment(nil)
		env.frames.push(newStackFrame()) // global
		decl := &ast.VarDecl{Name: "x"}
		env.frames.global().bindDecl(decl, 1)

		env.frames.push(newStackFrame()) // a call frame
		env.frames.top().bindDecl(decl, 2)

		v, err := env.getDeclVal(decl)
		require.NoError(t, err)
		assert.EqualValues(t, 2, v, "top frame shadows the global frame")
	})

	t.Run("getDeclVal falls back to the global frame on a miss", func(t *testing.T) {
		env := NewEnvironment(nil)
		env.frames.push(newStackFrame()) // global
		decl := &ast.VarDecl{Name: "g"}
		env.frames.global().bindDecl(decl, 9)

		env.frames.push(newStackFrame()) // a call frame with no binding for decl

		v, err := env.getDeclVal(decl)
		require.NoError(t, err)
		assert.EqualValues(t, 9, v)
	})

	t.Run("bindDecl writes through to wherever the decl is already bound", func(t *testing.T) {
		env := NewEnvironment(nil)
		env.frames.push(newStackFrame()) // global
		decl := &ast.VarDecl{Name: "g"}
		env.frames.global().bindDecl(decl, 1)

		env.frames.push(newStackFrame()) // a call frame, decl unbound here
		env.bindDecl(decl, 5)

		assert.False(t, env.frames.top().hasDecl(decl), "a write to a decl only bound globally updates the global frame")
		v, err := env.frames.global().getDecl(decl)
		require.NoError(t, err)
		assert.EqualValues(t, 5, v)
	})
}

func TestEnvironmentIO(t *testing.T) {
	t.Run("WithInput/WithOutput wire the default builtins to injected streams", func(t *testing.T) {
		var out bytes.Buffer
		env := NewEnvironment(nil, WithInput(strings.NewReader("41")), WithOutput(&out))

		getFn, ok := env.builtin("GET")
		require.True(t, ok)
		v, hasValue, err := getFn(env, nil)
		require.NoError(t, err)
		assert.True(t, hasValue)
		assert.EqualValues(t, 41, v)

		printFn, ok := env.builtin("PRINT")
		require.True(t, ok)
		_, hasValue, err = printFn(env, []int64{41})
		require.NoError(t, err)
		assert.False(t, hasValue)
		assert.Equal(t, "41", out.String())
	})

	t.Run("WithBuiltin overrides a named builtin", func(t *testing.T) {
		called := false
		env := NewEnvironment(nil, WithBuiltin("GET", func(env *Environment, args []int64) (int64, bool, error) {
			called = true
			return 99, true, nil
		}))
		fn, ok := env.builtin("GET")
		require.True(t, ok)
		v, _, err := fn(env, nil)
		require.NoError(t, err)
		assert.True(t, called)
		assert.EqualValues(t, 99, v)
	})
}
