// Package resolver performs the static scope-resolution pass between
// parsing and evaluation: it computes, for every variable reference, how
// many enclosing scopes separate it from its declaration, and rejects a
// handful of misuses (bad `this`/`super`, return-from-top-level, etc.)
// before the program ever runs.
package resolver

import (
	"errors"

	"github.com/ember-lang/ember/internal/ast"
	"github.com/ember-lang/ember/internal/lang/errs"
	"github.com/ember-lang/ember/internal/token"
)

type functionType int

const (
	fnNone functionType = iota
	fnFunction
	fnExpr
	fnMethod
	fnClassMethod
	fnInitializer
)

type classType int

const (
	classNone classType = iota
	classClass
	classSubclass
)

type varState struct {
	name    *token.Token
	defined bool
	read    bool
}

// Resolver walks a parsed program and produces the distance map the
// interpreter needs to resolve Variable/Assign/This/Super nodes without
// rescanning the environment chain at runtime.
type Resolver struct {
	scopes          []map[string]*varState
	currentFunction functionType
	currentClass    classType
	locals          map[ast.Expr]int
	errs            []error
	reportUnused    bool
}

// New returns a Resolver. When reportUnused is true, a local variable
// that is declared but never read is reported as a diagnostic when its
// scope closes; top-level (REPL) and script runs both default this off
// unless explicitly requested.
func New(reportUnused bool) *Resolver {
	return &Resolver{locals: map[ast.Expr]int{}, reportUnused: reportUnused}
}

// Resolve resolves every statement and returns the accumulated distance
// map. The map is returned even on error so a caller wiring successive
// REPL inputs into one persistent interpreter can still merge whatever
// was resolved before the failure.
func (r *Resolver) Resolve(statements []ast.Stmt) (map[ast.Expr]int, error) {
	r.resolveStmts(statements)
	return r.locals, errors.Join(r.errs...)
}

func (r *Resolver) resolveStmts(statements []ast.Stmt) {
	for _, s := range statements {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(s ast.Stmt) { _, _ = s.Accept(r) }

func (r *Resolver) resolveExpr(e ast.Expr) { _, _ = e.Accept(r) }

func (r *Resolver) report(tok *token.Token, cause error) {
	r.errs = append(r.errs, errs.NewParseError(tok, cause))
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, map[string]*varState{})
}

func (r *Resolver) endScope() {
	scope := r.scopes[len(r.scopes)-1]
	if r.reportUnused {
		for _, v := range scope {
			if v.defined && !v.read && v.name != nil {
				r.report(v.name, errs.ErrUnusedLocal)
			}
		}
	}
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name *token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.report(name, errs.ErrDuplicateVariableDeclaration)
	}
	scope[name.Lexeme] = &varState{name: name}
}

func (r *Resolver) define(name *token.Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = &varState{name: name, defined: true}
}

// defineInternal installs a synthetic binding (`this`, `super`) that
// should never itself trigger an unused-local diagnostic.
func (r *Resolver) defineInternal(name string) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name] = &varState{defined: true, read: true}
}

func (r *Resolver) resolveLocal(expr ast.Expr, name *token.Token, isRead bool) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if state, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			if isRead {
				state.read = true
			}
			return
		}
	}
	// not found in any scope: treat as a global, resolved dynamically at runtime.
}

func (r *Resolver) resolveFunction(fn *ast.Function, kind functionType) {
	enclosingFunction := r.currentFunction
	r.currentFunction = kind

	r.beginScope()
	for _, param := range fn.Parameters {
		r.declare(param)
		r.define(param)
	}
	r.resolveStmts(fn.Body)
	r.endScope()

	r.currentFunction = enclosingFunction
}

// --- ast.StmtVisitor ---

func (r *Resolver) VisitExpressionStmt(s *ast.ExpressionStmt) (any, error) {
	r.resolveExpr(s.Expression)
	return nil, nil
}

func (r *Resolver) VisitPrintStmt(s *ast.PrintStmt) (any, error) {
	r.resolveExpr(s.Expression)
	return nil, nil
}

func (r *Resolver) VisitVarStmt(s *ast.VarStmt) (any, error) {
	r.declare(s.Name)
	if s.Initializer != nil {
		r.resolveExpr(s.Initializer)
	}
	r.define(s.Name)
	return nil, nil
}

func (r *Resolver) VisitBlockStmt(s *ast.Block) (any, error) {
	r.beginScope()
	r.resolveStmts(s.Statements)
	r.endScope()
	return nil, nil
}

func (r *Resolver) VisitIfStmt(s *ast.If) (any, error) {
	r.resolveExpr(s.Condition)
	r.resolveStmt(s.ThenBranch)
	if s.ElseBranch != nil {
		r.resolveStmt(s.ElseBranch)
	}
	return nil, nil
}

func (r *Resolver) VisitWhileStmt(s *ast.While) (any, error) {
	r.resolveExpr(s.Condition)
	r.resolveStmt(s.Body)
	if s.Increment != nil {
		r.resolveExpr(s.Increment)
	}
	return nil, nil
}

func (r *Resolver) VisitFunctionStmt(s *ast.FunctionStmt) (any, error) {
	r.declare(s.Name)
	r.define(s.Name)
	r.resolveFunction(s.Fn, fnFunction)
	return nil, nil
}

func (r *Resolver) VisitReturnStmt(s *ast.Return) (any, error) {
	if r.currentFunction == fnNone {
		r.report(s.Keyword, errs.ErrReturnOutsideFunction)
	}
	if s.Value != nil {
		if r.currentFunction == fnInitializer {
			r.report(s.Keyword, errs.ErrReturnValueFromInitializer)
			return nil, nil
		}
		r.resolveExpr(s.Value)
	}
	return nil, nil
}

func (r *Resolver) VisitClassStmt(s *ast.Class) (any, error) {
	enclosingClass := r.currentClass
	r.currentClass = classClass

	r.declare(s.Name)
	r.define(s.Name)

	if s.SuperClass != nil && s.SuperClass.Name.Lexeme == s.Name.Lexeme {
		r.report(s.SuperClass.Name, errs.ErrClassInheritsFromItself)
	}

	if s.SuperClass != nil {
		r.currentClass = classSubclass
		r.resolveExpr(s.SuperClass)
		r.beginScope()
		r.defineInternal("super")
	}

	r.beginScope()
	r.defineInternal("this")

	for _, method := range s.ClassMethods {
		r.resolveFunction(method.Fn, fnClassMethod)
	}
	for _, method := range s.Methods {
		kind := fnMethod
		if method.Name.Lexeme == "init" {
			kind = fnInitializer
		}
		r.resolveFunction(method.Fn, kind)
	}

	r.endScope() // this

	if s.SuperClass != nil {
		r.endScope() // super
	}

	r.currentClass = enclosingClass
	return nil, nil
}

func (r *Resolver) VisitBreakStmt(*ast.Break) (any, error) { return nil, nil }

func (r *Resolver) VisitContinueStmt(*ast.Continue) (any, error) { return nil, nil }

// --- ast.ExprVisitor ---

func (r *Resolver) VisitLiteralExpr(*ast.Literal) (any, error) { return nil, nil }

func (r *Resolver) VisitGroupingExpr(e *ast.Grouping) (any, error) {
	r.resolveExpr(e.Expression)
	return nil, nil
}

func (r *Resolver) VisitUnaryExpr(e *ast.Unary) (any, error) {
	r.resolveExpr(e.Right)
	return nil, nil
}

func (r *Resolver) VisitBinaryExpr(e *ast.Binary) (any, error) {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	return nil, nil
}

func (r *Resolver) VisitLogicalExpr(e *ast.Logical) (any, error) {
	r.resolveExpr(e.Left)
	r.resolveExpr(e.Right)
	return nil, nil
}

func (r *Resolver) VisitVariableExpr(e *ast.Variable) (any, error) {
	if len(r.scopes) > 0 {
		if state, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !state.defined {
			r.report(e.Name, errs.ErrSelfReferencingInitializer)
		}
	}
	r.resolveLocal(e, e.Name, true)
	return nil, nil
}

func (r *Resolver) VisitAssignExpr(e *ast.Assign) (any, error) {
	r.resolveExpr(e.Value)
	r.resolveLocal(e, e.Name, false)
	return nil, nil
}

func (r *Resolver) VisitCallExpr(e *ast.Call) (any, error) {
	r.resolveExpr(e.Callee)
	for _, arg := range e.Arguments {
		r.resolveExpr(arg)
	}
	return nil, nil
}

func (r *Resolver) VisitGetExpr(e *ast.Get) (any, error) {
	r.resolveExpr(e.Object)
	return nil, nil
}

func (r *Resolver) VisitSetExpr(e *ast.Set) (any, error) {
	r.resolveExpr(e.Value)
	r.resolveExpr(e.Object)
	return nil, nil
}

func (r *Resolver) VisitThisExpr(e *ast.This) (any, error) {
	if r.currentClass == classNone {
		r.report(e.Keyword, errs.ErrThisOutsideClass)
		return nil, nil
	}
	r.resolveLocal(e, e.Keyword, true)
	return nil, nil
}

func (r *Resolver) VisitSuperExpr(e *ast.Super) (any, error) {
	switch r.currentClass {
	case classNone:
		r.report(e.Keyword, errs.ErrSuperOutsideClass)
		return nil, nil
	case classClass:
		r.report(e.Keyword, errs.ErrSuperNoSuperclass)
		return nil, nil
	}
	r.resolveLocal(e, e.Keyword, true)
	return nil, nil
}

func (r *Resolver) VisitFunctionExpr(e *ast.Function) (any, error) {
	r.resolveFunction(e, fnExpr)
	return nil, nil
}

var (
	_ ast.StmtVisitor = (*Resolver)(nil)
	_ ast.ExprVisitor = (*Resolver)(nil)
)
