package errs

import (
	"errors"
	"fmt"

	"github.com/ember-lang/ember/internal/token"
)

// Sentinel parser and resolver errors. The parser and resolver both
// report through *ParseError, since both produce static diagnostics
// anchored to a specific token before any code runs.
var (
	ErrExpectExpression                = errors.New("Expect expression.")
	ErrExpectVariableName               = errors.New("Expect variable name.")
	ErrInvalidAssignmentTarget          = errors.New("Invalid assignment target.")
	ErrExpectRightParen                 = errors.New("Expect ')' after expression.")
	ErrExpectLeftParenAfterIf           = errors.New("Expect '(' after 'if'.")
	ErrExpectRightParenAfterIfCond      = errors.New("Expect ')' after if condition.")
	ErrExpectLeftParenAfterWhile        = errors.New("Expect '(' after 'while'.")
	ErrExpectRightParenAfterCondition   = errors.New("Expect ')' after condition.")
	ErrExpectLeftParenAfterFor          = errors.New("Expect '(' after 'for'.")
	ErrExpectRightParenAfterForClauses  = errors.New("Expect ')' after for clauses.")
	ErrExpectRightBraceAfterBlock       = errors.New("Expect '}' after block.")
	ErrExpectSemicolonAfterPrintValue   = errors.New("Expect ';' after value.")
	ErrExpectSemicolonAfterExpr         = errors.New("Expect ';' after expression.")
	ErrExpectSemicolonAfterVarDecl      = errors.New("Expect ';' after variable declaration.")
	ErrExpectSemicolonAfterLoopCond     = errors.New("Expect ';' after loop condition.")
	ErrExpectSemicolonAfterReturnValue  = errors.New("Expect ';' after return value.")
	ErrExpectSemicolonAfterBreak        = errors.New("Expect ';' after 'break'.")
	ErrExpectSemicolonAfterContinue     = errors.New("Expect ';' after 'continue'.")
	ErrTooManyArguments                 = errors.New("Can't have more than 255 arguments.")
	ErrTooManyParameters                = errors.New("Can't have more than 255 parameters.")
	ErrExpectParameterName              = errors.New("Expect parameter name.")
	ErrExpectPropertyName               = errors.New("Expect property name after '.'.")
	ErrExpectRightParenAfterArgs        = errors.New("Expect ')' after arguments.")
	ErrExpectRightParenAfterParams      = errors.New("Expect ')' after parameters.")
	ErrExpectDotAfterSuper              = errors.New("Expect '.' after 'super'.")
	ErrExpectSuperMethodName            = errors.New("Expect superclass method name.")
	ErrExpectSuperclassName             = errors.New("Expect superclass name.")
	ErrExpectClassName                  = errors.New("Expect class name.")
	ErrExpectLeftBraceBeforeClassBody   = errors.New("Expect '{' before class body.")
	ErrExpectRightBraceAfterClassBody   = errors.New("Expect '}' after class body.")
	ErrBreakOutsideLoop                 = errors.New("Can't use 'break' outside of a loop.")
	ErrContinueOutsideLoop              = errors.New("Can't use 'continue' outside of a loop.")

	ErrDuplicateVariableDeclaration = errors.New("Variable with this name already declared in this scope.")
	ErrSelfReferencingInitializer   = errors.New("Cannot read local variable in its own initializer.")
	ErrReturnOutsideFunction        = errors.New("Cannot return from top-level code.")
	ErrReturnValueFromInitializer   = errors.New("Cannot return a value from an initializer.")
	ErrThisOutsideClass             = errors.New("Cannot use 'this' outside of a class.")
	ErrSuperOutsideClass            = errors.New("Cannot use 'super' outside of a class.")
	ErrSuperNoSuperclass            = errors.New("Cannot use 'super' in a class with no superclass.")
	ErrClassInheritsFromItself      = errors.New("A class cannot inherit from itself.")
	ErrUnusedLocal                  = errors.New("Local variable is never used.")
)

// ErrExpectName builds the "Expect <kind> name." diagnostic shared by
// function and method declarations.
func ErrExpectName(kind string) error {
	return fmt.Errorf("Expect %s name.", kind)
}

func ErrExpectLeftParenAfterName(kind string) error {
	return fmt.Errorf("Expect '(' after %s name.", kind)
}

func ErrExpectLeftBraceBeforeBody(kind string) error {
	return fmt.Errorf("Expect '{' before %s body.", kind)
}

// ParseError reports a static diagnostic anchored to a token, produced by
// either the parser or the resolver.
type ParseError struct {
	Tok   *token.Token
	Cause error
}

func NewParseError(tok *token.Token, cause error) *ParseError {
	return &ParseError{Tok: tok, Cause: cause}
}

func (e *ParseError) Error() string {
	where := fmt.Sprintf(" at '%s'", e.Tok.Lexeme)
	if e.Tok.Type == token.EOF {
		where = " at end"
	}
	return fmt.Sprintf("[line %d] Error%s: %s", e.Tok.Line, where, e.Cause)
}

func (e *ParseError) Unwrap() error { return e.Cause }

var _ error = (*ParseError)(nil)
