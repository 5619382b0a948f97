package interp

import (
	"github.com/ember-lang/ember/internal/lang/errs"
	"github.com/ember-lang/ember/internal/token"
)

// Class is a runtime class value. It is itself a valid "this" receiver
// for its static (class) methods, and supports static fields through
// staticFields the same way an Instance supports per-object fields.
type Class struct {
	Name          string
	Super         *Class
	Methods       map[string]*Function
	StaticMethods map[string]*Function
	staticFields  map[string]any
}

func NewClass(name string, super *Class, methods, staticMethods map[string]*Function) *Class {
	return &Class{Name: name, Super: super, Methods: methods, StaticMethods: staticMethods}
}

// FindMethod walks the superclass chain looking for an instance method.
func (c *Class) FindMethod(name string) *Function {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Super != nil {
		return c.Super.FindMethod(name)
	}
	return nil
}

// FindStaticMethod walks the superclass chain looking for a class
// ("static") method.
func (c *Class) FindStaticMethod(name string) *Function {
	if m, ok := c.StaticMethods[name]; ok {
		return m
	}
	if c.Super != nil {
		return c.Super.FindStaticMethod(name)
	}
	return nil
}

func (c *Class) Arity() Arity {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call constructs a new instance, running init (if defined) with the
// given arguments bound to it.
func (c *Class) Call(interp *Interpreter, arguments []any) (any, error) {
	instance := NewInstance(c)
	if init := c.FindMethod("init"); init != nil {
		if _, err := init.Bind(instance).Call(interp, arguments); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// Get resolves a static field or bound static method on the class
// itself, e.g. `Math.pi` after an assignment `Math.pi = ...`, or
// `Math.abs(x)` where abs is declared with the `class` modifier.
func (c *Class) Get(name *token.Token) (any, error) {
	if v, ok := c.staticFields[name.Lexeme]; ok {
		return v, nil
	}
	if method := c.FindStaticMethod(name.Lexeme); method != nil {
		return method.Bind(c), nil
	}
	return nil, errs.NewRuntimeError(name, errs.ErrUndefinedProperty(name.Lexeme))
}

func (c *Class) Set(name *token.Token, value any) (any, error) {
	if c.staticFields == nil {
		c.staticFields = map[string]any{}
	}
	c.staticFields[name.Lexeme] = value
	return value, nil
}

func (c *Class) String() string { return c.Name }

var _ Callable = (*Class)(nil)
