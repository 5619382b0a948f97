package interp

import (
	"fmt"

	"github.com/ember-lang/ember/internal/lang/errs"
	"github.com/ember-lang/ember/internal/token"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Environment is a single lexical scope: a map of bindings plus a link
// to the scope it is nested inside. The global scope is the root of the
// chain and has a nil enclosing.
type Environment struct {
	values    map[string]any
	enclosing *Environment
}

func NewEnvironment() *Environment {
	return &Environment{values: map[string]any{}}
}

// Nest allocates a new scope whose enclosing scope is e.
func (e *Environment) Nest() *Environment {
	return &Environment{values: map[string]any{}, enclosing: e}
}

func (e *Environment) Define(name string, value any) {
	e.values[name] = value
}

// Names returns the bindings defined directly in this scope, sorted
// for deterministic display.
func (e *Environment) Names() []string {
	names := maps.Keys(e.values)
	slices.Sort(names)
	return names
}

func (e *Environment) Get(name *token.Token) (any, error) {
	if v, ok := e.values[name.Lexeme]; ok {
		return v, nil
	}
	if e.enclosing != nil {
		return e.enclosing.Get(name)
	}
	return nil, errs.NewRuntimeError(name, errs.ErrUndefinedVariable(name.Lexeme))
}

func (e *Environment) Assign(name *token.Token, value any) error {
	if _, ok := e.values[name.Lexeme]; ok {
		e.values[name.Lexeme] = value
		return nil
	}
	if e.enclosing != nil {
		return e.enclosing.Assign(name, value)
	}
	return errs.NewRuntimeError(name, errs.ErrUndefinedVariable(name.Lexeme))
}

func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.enclosing
	}
	return env
}

// GetAt and AssignAt bypass the lookup chain's linear search: the
// resolver has already computed the exact number of scopes to hop.
func (e *Environment) GetAt(distance int, name string) (any, error) {
	env := e.ancestor(distance)
	if v, ok := env.values[name]; ok {
		return v, nil
	}
	return nil, fmt.Errorf("undefined variable %q at distance %d", name, distance)
}

func (e *Environment) AssignAt(distance int, name string, value any) {
	e.ancestor(distance).values[name] = value
}

func (e *Environment) String() string {
	s := fmt.Sprintf("%v", e.values)
	if e.enclosing != nil {
		s += " -> " + e.enclosing.String()
	}
	return s
}
