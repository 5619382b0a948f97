package interp

import (
	"github.com/ember-lang/ember/internal/lang/errs"
	"github.com/ember-lang/ember/internal/token"
)

// Instance is an object created by calling a Class. Fields are stored
// directly; method lookups fall through to the class (and its
// superclass chain) and are bound fresh on every access.
type Instance struct {
	class  *Class
	fields map[string]any
}

func NewInstance(class *Class) *Instance {
	return &Instance{class: class, fields: map[string]any{}}
}

func (o *Instance) Get(name *token.Token) (any, error) {
	if v, ok := o.fields[name.Lexeme]; ok {
		return v, nil
	}
	if method := o.class.FindMethod(name.Lexeme); method != nil {
		return method.Bind(o), nil
	}
	return nil, errs.NewRuntimeError(name, errs.ErrUndefinedProperty(name.Lexeme))
}

func (o *Instance) Set(name *token.Token, value any) {
	o.fields[name.Lexeme] = value
}

func (o *Instance) String() string {
	return o.class.Name + " instance"
}
