package resolver_test

import (
	"testing"

	"github.com/ember-lang/ember/internal/ast"
	"github.com/ember-lang/ember/internal/lexer"
	"github.com/ember-lang/ember/internal/parser"
	"github.com/ember-lang/ember/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolve(t *testing.T, source string, reportUnused bool) (map[ast.Expr]int, error) {
	t.Helper()
	tokens, err := lexer.New(source).Scan()
	require.NoError(t, err)
	stmts, err := parser.New(tokens).Parse()
	require.NoError(t, err)
	return resolver.New(reportUnused).Resolve(stmts)
}

func TestResolveValidPrograms(t *testing.T) {
	testcases := []struct {
		name  string
		input string
	}{
		{name: `global reference`, input: `var a = 1; print a;`},
		{name: `local shadowing`, input: `var a = 1; { var a = 2; print a; }`},
		{name: `function referencing outer local`, input: `var a = 1; fun f() { return a; }`},
		{name: `recursive function`, input: `fun f(n) { if (n == 0) return 0; return f(n - 1); }`},
		{name: `class with this`, input: `class Foo { bar() { return this; } }`},
		{name: `class with init`, input: `class Foo { init(x) { this.x = x; } }`},
		{name: `class with super`, input: `class Base { bar() { return 1; } } class Foo < Base { bar() { return super.bar(); } }`},
		{name: `class with static method`, input: `class Foo { class bar() { return 1; } }`},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := resolve(t, tc.input, false)
			assert.NoError(t, err)
		})
	}
}

func TestResolveErrors(t *testing.T) {
	testcases := []struct {
		name        string
		input       string
		errContains string
	}{
		{name: `self referencing initializer`, input: `{ var a = a; }`, errContains: "Cannot read local variable in its own initializer."},
		{name: `duplicate declaration in same scope`, input: `{ var a = 1; var a = 2; }`, errContains: "Variable with this name already declared in this scope."},
		{name: `return at top level`, input: `return 1;`, errContains: "Cannot return from top-level code."},
		{name: `return value from initializer`, input: `class Foo { init() { return 1; } }`, errContains: "Cannot return a value from an initializer."},
		{name: `this outside class`, input: `print this;`, errContains: "Cannot use 'this' outside of a class."},
		{name: `super outside class`, input: `print super.foo;`, errContains: "Cannot use 'super' outside of a class."},
		{name: `super without superclass`, input: `class Foo { bar() { return super.bar(); } }`, errContains: "Cannot use 'super' in a class with no superclass."},
		{name: `class inherits from itself`, input: `class Foo < Foo {}`, errContains: "A class cannot inherit from itself."},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := resolve(t, tc.input, false)
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.errContains)
		})
	}
}

func TestResolveUnusedLocalIsOptIn(t *testing.T) {
	_, err := resolve(t, `fun f() { var unused = 1; }`, false)
	assert.NoError(t, err, "unused-local diagnostics are off by default")

	_, err = resolve(t, `fun f() { var unused = 1; }`, true)
	require.Error(t, err)
	assert.ErrorContains(t, err, "Local variable is never used.")
}

func TestResolveDistanceMapCountsLexicalHops(t *testing.T) {
	locals, err := resolve(t, `{ var a = 1; { { print a; } } }`, false)
	require.NoError(t, err)
	require.Len(t, locals, 1)
	for _, distance := range locals {
		assert.Equal(t, 2, distance)
	}
}
