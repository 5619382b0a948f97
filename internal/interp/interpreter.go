// Package interp is the tree-walking evaluator: given a resolved
// program, it executes statements and evaluates expressions directly
// against the AST, without any intermediate bytecode.
package interp

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
	"time"

	"github.com/ember-lang/ember/internal/ast"
	"github.com/ember-lang/ember/internal/lang/errs"
	"github.com/ember-lang/ember/internal/token"
)

// Interpreter holds the process-wide state a REPL session needs to
// persist across successive top-level inputs: the global environment,
// the current lexical environment, and the accumulated resolver
// distance map.
type Interpreter struct {
	globals  *Environment
	env      *Environment
	locals   map[ast.Expr]int
	stdout   io.Writer
	stderr   io.Writer
	reporter errs.Reporter
}

func New(opts ...Option) *Interpreter {
	o := newOptions(opts...)
	i := &Interpreter{
		globals:  o.globals,
		env:      o.globals,
		locals:   map[ast.Expr]int{},
		stdout:   o.stdout,
		stderr:   o.stderr,
		reporter: o.reporter,
	}
	i.defineBuiltins()
	return i
}

func (i *Interpreter) defineBuiltins() {
	i.globals.Define("clock", NativeFunction0(func(*Interpreter) (any, error) {
		return float64(time.Now().UnixNano()) / float64(time.Second), nil
	}))
}

func (i *Interpreter) Reporter() errs.Reporter { return i.reporter }

// GlobalNames lists the names bound in the global scope, sorted, for
// REPL introspection commands.
func (i *Interpreter) GlobalNames() []string { return i.globals.Names() }

// Interpret executes statements against the persistent global/lexical
// environment, merging locals into the interpreter's own distance map
// rather than replacing it. Merging (not replacing) matters for a REPL:
// a closure defined on one line must still resolve its captured locals
// correctly when called from a later line whose own resolution pass
// produced an unrelated map.
func (i *Interpreter) Interpret(statements []ast.Stmt, locals map[ast.Expr]int) error {
	for expr, depth := range locals {
		i.locals[expr] = depth
	}
	for _, stmt := range statements {
		if err := i.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) execute(s ast.Stmt) error {
	_, err := s.Accept(i)
	return err
}

func (i *Interpreter) evaluate(e ast.Expr) (any, error) {
	return e.Accept(i)
}

func (i *Interpreter) executeBlock(env *Environment, statements []ast.Stmt) error {
	previous := i.env
	i.env = env
	defer func() { i.env = previous }()

	for _, stmt := range statements {
		if err := i.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) lookUpVariable(name *token.Token, expr ast.Expr) (any, error) {
	if distance, ok := i.locals[expr]; ok {
		return i.env.GetAt(distance, name.Lexeme)
	}
	return i.globals.Get(name)
}

// --- ast.StmtVisitor ---

func (i *Interpreter) VisitExpressionStmt(s *ast.ExpressionStmt) (any, error) {
	_, err := i.evaluate(s.Expression)
	return nil, err
}

func (i *Interpreter) VisitPrintStmt(s *ast.PrintStmt) (any, error) {
	value, err := i.evaluate(s.Expression)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(i.stdout, stringify(value))
	return nil, nil
}

func (i *Interpreter) VisitVarStmt(s *ast.VarStmt) (any, error) {
	var value any
	if s.Initializer != nil {
		v, err := i.evaluate(s.Initializer)
		if err != nil {
			return nil, err
		}
		value = v
	}
	i.env.Define(s.Name.Lexeme, value)
	return nil, nil
}

func (i *Interpreter) VisitBlockStmt(s *ast.Block) (any, error) {
	return nil, i.executeBlock(i.env.Nest(), s.Statements)
}

func (i *Interpreter) VisitIfStmt(s *ast.If) (any, error) {
	condition, err := i.evaluate(s.Condition)
	if err != nil {
		return nil, err
	}
	if isTruthy(condition) {
		return nil, i.execute(s.ThenBranch)
	}
	if s.ElseBranch != nil {
		return nil, i.execute(s.ElseBranch)
	}
	return nil, nil
}

func (i *Interpreter) VisitWhileStmt(s *ast.While) (any, error) {
	for {
		condition, err := i.evaluate(s.Condition)
		if err != nil {
			return nil, err
		}
		if !isTruthy(condition) {
			return nil, nil
		}

		if err := i.execute(s.Body); err != nil {
			switch err.(type) {
			case *breakSignal:
				return nil, nil
			case *continueSignal:
				// fall through to the increment below, same as a body
				// that ran to completion.
			default:
				return nil, err
			}
		}

		if s.Increment != nil {
			if _, err := i.evaluate(s.Increment); err != nil {
				return nil, err
			}
		}
	}
}

func (i *Interpreter) VisitFunctionStmt(s *ast.FunctionStmt) (any, error) {
	fn := NewFunction(s.Name, s.Fn, i.env, false)
	i.env.Define(s.Name.Lexeme, fn)
	return nil, nil
}

func (i *Interpreter) VisitReturnStmt(s *ast.Return) (any, error) {
	var value any
	if s.Value != nil {
		v, err := i.evaluate(s.Value)
		if err != nil {
			return nil, err
		}
		value = v
	}
	return nil, &returnSignal{Value: value}
}

func (i *Interpreter) VisitClassStmt(s *ast.Class) (any, error) {
	var super *Class
	if s.SuperClass != nil {
		v, err := i.evaluate(s.SuperClass)
		if err != nil {
			return nil, err
		}
		sc, ok := v.(*Class)
		if !ok {
			return nil, errs.NewRuntimeError(s.SuperClass.Name, errs.ErrSuperclassMustBeClass)
		}
		super = sc
	}

	i.env.Define(s.Name.Lexeme, nil)

	closureEnv := i.env
	if super != nil {
		closureEnv = closureEnv.Nest()
		closureEnv.Define("super", super)
	}

	methods := make(map[string]*Function, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = NewFunction(m.Name, m.Fn, closureEnv, m.Name.Lexeme == "init")
	}

	staticMethods := make(map[string]*Function, len(s.ClassMethods))
	for _, m := range s.ClassMethods {
		staticMethods[m.Name.Lexeme] = NewFunction(m.Name, m.Fn, closureEnv, false)
	}

	class := NewClass(s.Name.Lexeme, super, methods, staticMethods)
	return nil, i.env.Assign(s.Name, class)
}

func (i *Interpreter) VisitBreakStmt(*ast.Break) (any, error) {
	return nil, &breakSignal{}
}

func (i *Interpreter) VisitContinueStmt(*ast.Continue) (any, error) {
	return nil, &continueSignal{}
}

// --- ast.ExprVisitor ---

func (i *Interpreter) VisitLiteralExpr(e *ast.Literal) (any, error) {
	return e.Value, nil
}

func (i *Interpreter) VisitGroupingExpr(e *ast.Grouping) (any, error) {
	return i.evaluate(e.Expression)
}

func (i *Interpreter) VisitUnaryExpr(e *ast.Unary) (any, error) {
	right, err := i.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Type {
	case token.MINUS:
		n, ok := right.(float64)
		if !ok {
			return nil, errs.NewRuntimeError(e.Operator, errs.ErrOperandsMustBeNumbers)
		}
		return -n, nil
	case token.BANG:
		return !isTruthy(right), nil
	}
	panic("interp: unreachable unary operator " + e.Operator.Type.String())
}

func (i *Interpreter) VisitLogicalExpr(e *ast.Logical) (any, error) {
	left, err := i.evaluate(e.Left)
	if err != nil {
		return nil, err
	}

	if e.Operator.Type == token.OR {
		if isTruthy(left) {
			return left, nil
		}
	} else {
		if !isTruthy(left) {
			return left, nil
		}
	}
	return i.evaluate(e.Right)
}

func (i *Interpreter) VisitBinaryExpr(e *ast.Binary) (any, error) {
	left, err := i.evaluate(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator.Type {
	case token.PLUS:
		if ls, ok := left.(string); ok {
			if rs, ok := right.(string); ok {
				return ls + rs, nil
			}
		}
		if ln, ok := left.(float64); ok {
			if rn, ok := right.(float64); ok {
				return ln + rn, nil
			}
		}
		return nil, errs.NewRuntimeError(e.Operator, errs.ErrOperandsMustBeNumbersOrStrings)
	case token.MINUS:
		ln, rn, err := numberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return ln - rn, nil
	case token.SLASH:
		ln, rn, err := numberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return ln / rn, nil
	case token.STAR:
		ln, rn, err := numberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return ln * rn, nil
	case token.GREATER:
		ln, rn, err := numberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return ln > rn, nil
	case token.GREATER_EQUAL:
		ln, rn, err := numberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return ln >= rn, nil
	case token.LESS:
		ln, rn, err := numberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return ln < rn, nil
	case token.LESS_EQUAL:
		ln, rn, err := numberOperands(e.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return ln <= rn, nil
	case token.BANG_EQUAL:
		return !isEqual(left, right), nil
	case token.EQUAL_EQUAL:
		return isEqual(left, right), nil
	}
	panic("interp: unreachable binary operator " + e.Operator.Type.String())
}

func (i *Interpreter) VisitVariableExpr(e *ast.Variable) (any, error) {
	return i.lookUpVariable(e.Name, e)
}

func (i *Interpreter) VisitAssignExpr(e *ast.Assign) (any, error) {
	value, err := i.evaluate(e.Value)
	if err != nil {
		return nil, err
	}

	if distance, ok := i.locals[e]; ok {
		i.env.AssignAt(distance, e.Name.Lexeme, value)
		return value, nil
	}
	if err := i.globals.Assign(e.Name, value); err != nil {
		return nil, err
	}
	return value, nil
}

func (i *Interpreter) VisitCallExpr(e *ast.Call) (any, error) {
	callee, err := i.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	arguments := make([]any, 0, len(e.Arguments))
	for _, a := range e.Arguments {
		v, err := i.evaluate(a)
		if err != nil {
			return nil, err
		}
		arguments = append(arguments, v)
	}

	callable, ok := callee.(Callable)
	if !ok {
		return nil, errs.NewRuntimeError(e.Paren, errs.ErrCanOnlyCallFunctionsAndClasses)
	}
	if want := int(callable.Arity()); want != len(arguments) {
		return nil, errs.NewRuntimeError(e.Paren, errs.ErrArityMismatch(want, len(arguments)))
	}
	return callable.Call(i, arguments)
}

func (i *Interpreter) VisitGetExpr(e *ast.Get) (any, error) {
	object, err := i.evaluate(e.Object)
	if err != nil {
		return nil, err
	}

	switch o := object.(type) {
	case *Instance:
		return o.Get(e.Name)
	case *Class:
		return o.Get(e.Name)
	default:
		return nil, errs.NewRuntimeError(e.Name, errs.ErrOnlyInstancesHaveProperties)
	}
}

func (i *Interpreter) VisitSetExpr(e *ast.Set) (any, error) {
	object, err := i.evaluate(e.Object)
	if err != nil {
		return nil, err
	}
	value, err := i.evaluate(e.Value)
	if err != nil {
		return nil, err
	}

	switch o := object.(type) {
	case *Instance:
		o.Set(e.Name, value)
		return value, nil
	case *Class:
		return o.Set(e.Name, value)
	default:
		return nil, errs.NewRuntimeError(e.Name, errs.ErrOnlyInstancesHaveFields)
	}
}

func (i *Interpreter) VisitThisExpr(e *ast.This) (any, error) {
	return i.lookUpVariable(e.Keyword, e)
}

func (i *Interpreter) VisitSuperExpr(e *ast.Super) (any, error) {
	distance, ok := i.locals[e]
	if !ok {
		return nil, errs.NewRuntimeError(e.Keyword, errs.ErrSuperOutsideClass)
	}

	superVal, err := i.env.GetAt(distance, "super")
	if err != nil {
		return nil, err
	}
	super := superVal.(*Class)

	thisVal, err := i.env.GetAt(distance-1, "this")
	if err != nil {
		return nil, err
	}

	method := super.FindMethod(e.Method.Lexeme)
	if method == nil {
		return nil, errs.NewRuntimeError(e.Method, errs.ErrUndefinedProperty(e.Method.Lexeme))
	}
	return method.Bind(thisVal), nil
}

func (i *Interpreter) VisitFunctionExpr(e *ast.Function) (any, error) {
	return NewFunction(nil, e, i.env, false), nil
}

var (
	_ ast.StmtVisitor = (*Interpreter)(nil)
	_ ast.ExprVisitor = (*Interpreter)(nil)
)

// --- value helpers ---

func numberOperands(tok *token.Token, left, right any) (float64, float64, error) {
	ln, ok := left.(float64)
	if !ok {
		return 0, 0, errs.NewRuntimeError(tok, errs.ErrOperandsMustBeNumbers)
	}
	rn, ok := right.(float64)
	if !ok {
		return 0, 0, errs.NewRuntimeError(tok, errs.ErrOperandsMustBeNumbers)
	}
	return ln, rn, nil
}

func isTruthy(v any) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

func isEqual(a, b any) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	// Native functions (and any other func-kind Callable) are not
	// comparable with ==; a plain `a == b` would panic. Such values are
	// only ever equal to themselves, and identity isn't observable here,
	// so treat them as never equal rather than risk the panic.
	if !reflect.TypeOf(a).Comparable() || !reflect.TypeOf(b).Comparable() {
		return false
	}
	return a == b
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
