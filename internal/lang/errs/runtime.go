package errs

import (
	"errors"
	"fmt"

	"github.com/ember-lang/ember/internal/token"
)

var (
	ErrOperandsMustBeNumbers          = errors.New("Operand(s) must be number(s).")
	ErrOperandsMustBeNumbersOrStrings  = errors.New("Operands must be two numbers or two strings.")
	ErrCanOnlyCallFunctionsAndClasses  = errors.New("Can only call functions and classes.")
	ErrOnlyInstancesHaveProperties     = errors.New("Only instances have properties.")
	ErrOnlyInstancesHaveFields         = errors.New("Only instances have fields.")
	ErrSuperclassMustBeClass           = errors.New("Superclass must be a class.")
)

func ErrUndefinedVariable(name string) error {
	return fmt.Errorf("Undefined variable '%s'.", name)
}

func ErrUndefinedProperty(name string) error {
	return fmt.Errorf("Undefined property '%s'.", name)
}

func ErrArityMismatch(want, got int) error {
	return fmt.Errorf("Expected %d arguments but got %d.", want, got)
}

// RuntimeError reports a diagnostic raised while evaluating a program,
// anchored to the token whose evaluation triggered it.
type RuntimeError struct {
	Tok   *token.Token
	Cause error
}

func NewRuntimeError(tok *token.Token, cause error) *RuntimeError {
	return &RuntimeError{Tok: tok, Cause: cause}
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Cause, e.Tok.Line)
}

func (e *RuntimeError) Unwrap() error { return e.Cause }

var _ error = (*RuntimeError)(nil)
