package interp

import (
	"fmt"

	"github.com/ember-lang/ember/internal/ast"
	"github.com/ember-lang/ember/internal/token"
)

// Function is a runtime closure: a named or anonymous function
// declaration paired with the environment it closed over.
type Function struct {
	name          *token.Token
	params        []*token.Token
	body          []ast.Stmt
	closure       *Environment
	isInitializer bool
}

// NewFunction wraps a parsed function body as a runtime Function closing
// over closure. name is nil for anonymous function expressions.
func NewFunction(name *token.Token, fn *ast.Function, closure *Environment, isInitializer bool) *Function {
	return &Function{
		name:          name,
		params:        fn.Parameters,
		body:          fn.Body,
		closure:       closure,
		isInitializer: isInitializer,
	}
}

func (f *Function) Arity() Arity { return Arity(len(f.params)) }

func (f *Function) Call(interp *Interpreter, arguments []any) (any, error) {
	env := f.closure.Nest()
	for i, param := range f.params {
		env.Define(param.Lexeme, arguments[i])
	}

	err := interp.executeBlock(env, f.body)
	if err != nil {
		if ret, ok := err.(*returnSignal); ok {
			if f.isInitializer {
				return f.closure.GetAt(0, "this")
			}
			return ret.Value, nil
		}
		return nil, err
	}

	if f.isInitializer {
		return f.closure.GetAt(0, "this")
	}
	return nil, nil
}

// Bind returns a fresh Function whose closure additionally binds "this"
// to receiver. Binding is cheap and produces a new value each time, so
// the same unbound method can be bound to different instances (or to the
// class itself, for static methods) independently.
func (f *Function) Bind(receiver any) *Function {
	env := f.closure.Nest()
	env.Define("this", receiver)
	return &Function{
		name:          f.name,
		params:        f.params,
		body:          f.body,
		closure:       env,
		isInitializer: f.isInitializer,
	}
}

func (f *Function) String() string {
	if f.name == nil {
		return "<fn>"
	}
	return fmt.Sprintf("<fn %s>", f.name.Lexeme)
}

var _ Callable = (*Function)(nil)
