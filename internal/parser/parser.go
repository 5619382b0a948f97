// Package parser implements a recursive-descent, precedence-climbing
// parser producing the ast package's node types.
package parser

import (
	"errors"

	"github.com/ember-lang/ember/internal/ast"
	"github.com/ember-lang/ember/internal/lang/errs"
	"github.com/ember-lang/ember/internal/token"
)

// Parser turns a token stream into a statement list. It accumulates
// diagnostics across panic-mode recovery points rather than stopping at
// the first syntax error.
type Parser struct {
	tokens    []token.Token
	current   int
	err       error
	extra     []error
	loopDepth int
}

func New(tokens []token.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse consumes the whole token stream and returns the top-level
// statement list. Non-fatal warnings (e.g. an argument list over the
// arity cap) do not stop parsing: the statements are still returned,
// together with a non-nil error joining those warnings. After a fatal
// syntax error the statement list is nil and the error joins every
// diagnostic found.
func (p *Parser) Parse() ([]ast.Stmt, error) {
	var statements []ast.Stmt
	for !p.isAtEnd() {
		stmt := p.declaration()
		if p.err != nil {
			break
		}
		if stmt != nil {
			statements = append(statements, stmt)
		}
	}

	if p.err == nil {
		return statements, errors.Join(p.extra...)
	}

	allErrs := append([]error{p.err}, p.extra...)
	for !p.isAtEnd() {
		p.synchronize()
		p.err = nil
		if p.isAtEnd() {
			break
		}
		p.declaration()
		if p.err != nil {
			allErrs = append(allErrs, p.err)
		}
	}
	return nil, errors.Join(allErrs...)
}

func (p *Parser) declaration() ast.Stmt {
	switch {
	case p.match(token.CLASS):
		return p.classDeclaration()
	case p.match(token.FUN):
		return p.funDeclaration()
	case p.match(token.VAR):
		return p.varDeclaration()
	default:
		return p.statement()
	}
}

func (p *Parser) classDeclaration() ast.Stmt {
	name := p.expect(token.IDENTIFIER, errs.ErrExpectClassName)
	if name == nil {
		return nil
	}

	var superclass *ast.Variable
	if p.match(token.LESS) {
		superName := p.expect(token.IDENTIFIER, errs.ErrExpectSuperclassName)
		if superName == nil {
			return nil
		}
		superclass = &ast.Variable{Name: superName}
	}

	if p.expect(token.LEFT_BRACE, errs.ErrExpectLeftBraceBeforeClassBody) == nil {
		return nil
	}

	var methods, classMethods []*ast.FunctionStmt
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		isStatic := p.match(token.CLASS)
		method := p.function("method")
		if method == nil {
			return nil
		}
		if isStatic {
			classMethods = append(classMethods, method)
		} else {
			methods = append(methods, method)
		}
	}

	if p.expect(token.RIGHT_BRACE, errs.ErrExpectRightBraceAfterClassBody) == nil {
		return nil
	}

	return &ast.Class{Name: name, SuperClass: superclass, Methods: methods, ClassMethods: classMethods}
}

func (p *Parser) funDeclaration() ast.Stmt {
	fn := p.function("function")
	if fn == nil {
		return nil
	}
	return fn
}

func (p *Parser) function(kind string) *ast.FunctionStmt {
	name := p.expect(token.IDENTIFIER, errs.ErrExpectName(kind))
	if name == nil {
		return nil
	}
	fn := p.functionBody(kind)
	if fn == nil {
		return nil
	}
	return &ast.FunctionStmt{Name: name, Fn: fn}
}

func (p *Parser) functionBody(kind string) *ast.Function {
	if p.expect(token.LEFT_PAREN, errs.ErrExpectLeftParenAfterName(kind)) == nil {
		return nil
	}

	var params []*token.Token
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(params) >= 255 {
				p.warn(errs.ErrTooManyParameters)
			}
			name := p.expect(token.IDENTIFIER, errs.ErrExpectParameterName)
			if name == nil {
				return nil
			}
			params = append(params, name)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	if p.expect(token.RIGHT_PAREN, errs.ErrExpectRightParenAfterParams) == nil {
		return nil
	}
	if p.expect(token.LEFT_BRACE, errs.ErrExpectLeftBraceBeforeBody(kind)) == nil {
		return nil
	}

	// A function body starts its own loopDepth: `break`/`continue` inside
	// it must refer to a loop written inside the function, not one it
	// happens to be lexically nested in at the call site.
	enclosingLoopDepth := p.loopDepth
	p.loopDepth = 0
	body := p.block()
	p.loopDepth = enclosingLoopDepth
	if p.err != nil {
		return nil
	}
	return &ast.Function{Parameters: params, Body: body}
}

func (p *Parser) varDeclaration() ast.Stmt {
	name := p.expect(token.IDENTIFIER, errs.ErrExpectVariableName)
	if name == nil {
		return nil
	}
	var initializer ast.Expr
	if p.match(token.EQUAL) {
		initializer = p.expression()
		if initializer == nil {
			return nil
		}
	}
	if p.expect(token.SEMICOLON, errs.ErrExpectSemicolonAfterVarDecl) == nil {
		return nil
	}
	return &ast.VarStmt{Name: name, Initializer: initializer}
}

func (p *Parser) statement() ast.Stmt {
	switch {
	case p.match(token.IF):
		return p.ifStatement()
	case p.match(token.FOR):
		return p.forStatement()
	case p.match(token.WHILE):
		return p.whileStatement()
	case p.match(token.PRINT):
		return p.printStatement()
	case p.match(token.RETURN):
		return p.returnStatement()
	case p.match(token.BREAK):
		return p.breakStatement()
	case p.match(token.CONTINUE):
		return p.continueStatement()
	case p.match(token.LEFT_BRACE):
		stmts := p.block()
		if p.err != nil {
			return nil
		}
		return &ast.Block{Statements: stmts}
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) block() []ast.Stmt {
	var statements []ast.Stmt
	for !p.check(token.RIGHT_BRACE) && !p.isAtEnd() {
		stmt := p.declaration()
		if p.err != nil {
			return nil
		}
		if stmt != nil {
			statements = append(statements, stmt)
		}
	}
	if p.expect(token.RIGHT_BRACE, errs.ErrExpectRightBraceAfterBlock) == nil {
		return nil
	}
	return statements
}

func (p *Parser) ifStatement() ast.Stmt {
	if p.expect(token.LEFT_PAREN, errs.ErrExpectLeftParenAfterIf) == nil {
		return nil
	}
	condition := p.expression()
	if condition == nil {
		return nil
	}
	if p.expect(token.RIGHT_PAREN, errs.ErrExpectRightParenAfterIfCond) == nil {
		return nil
	}

	thenBranch := p.statement()
	if thenBranch == nil {
		return nil
	}

	var elseBranch ast.Stmt
	if p.match(token.ELSE) {
		elseBranch = p.statement()
		if elseBranch == nil {
			return nil
		}
	}

	return &ast.If{Condition: condition, ThenBranch: thenBranch, ElseBranch: elseBranch}
}

func (p *Parser) whileStatement() ast.Stmt {
	if p.expect(token.LEFT_PAREN, errs.ErrExpectLeftParenAfterWhile) == nil {
		return nil
	}
	condition := p.expression()
	if condition == nil {
		return nil
	}
	if p.expect(token.RIGHT_PAREN, errs.ErrExpectRightParenAfterCondition) == nil {
		return nil
	}

	p.loopDepth++
	body := p.statement()
	p.loopDepth--
	if body == nil {
		return nil
	}

	return &ast.While{Condition: condition, Body: body}
}

// forStatement desugars the classic C-style for loop into a while loop:
// the initializer (if any) runs once before it in a wrapping Block, and
// the increment is carried on ast.While.Increment rather than appended
// to the body, so it still runs once per iteration even when the body
// exits early via `continue`.
func (p *Parser) forStatement() ast.Stmt {
	if p.expect(token.LEFT_PAREN, errs.ErrExpectLeftParenAfterFor) == nil {
		return nil
	}

	var initializer ast.Stmt
	switch {
	case p.match(token.SEMICOLON):
		initializer = nil
	case p.match(token.VAR):
		initializer = p.varDeclaration()
		if p.err != nil {
			return nil
		}
	default:
		initializer = p.expressionStatement()
		if p.err != nil {
			return nil
		}
	}

	var condition ast.Expr
	if !p.check(token.SEMICOLON) {
		condition = p.expression()
		if condition == nil {
			return nil
		}
	}
	if p.expect(token.SEMICOLON, errs.ErrExpectSemicolonAfterLoopCond) == nil {
		return nil
	}

	var increment ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		increment = p.expression()
		if increment == nil {
			return nil
		}
	}
	if p.expect(token.RIGHT_PAREN, errs.ErrExpectRightParenAfterForClauses) == nil {
		return nil
	}

	p.loopDepth++
	body := p.statement()
	p.loopDepth--
	if body == nil {
		return nil
	}

	if condition == nil {
		condition = &ast.Literal{Value: true}
	}
	loop := ast.Stmt(&ast.While{Condition: condition, Body: body, Increment: increment})
	if initializer != nil {
		loop = &ast.Block{Statements: []ast.Stmt{initializer, loop}}
	}
	return loop
}

func (p *Parser) printStatement() ast.Stmt {
	value := p.expression()
	if value == nil {
		return nil
	}
	if p.expect(token.SEMICOLON, errs.ErrExpectSemicolonAfterPrintValue) == nil {
		return nil
	}
	return &ast.PrintStmt{Expression: value}
}

func (p *Parser) returnStatement() ast.Stmt {
	keyword := p.previous()
	var value ast.Expr
	if !p.check(token.SEMICOLON) {
		value = p.expression()
		if value == nil {
			return nil
		}
	}
	if p.expect(token.SEMICOLON, errs.ErrExpectSemicolonAfterReturnValue) == nil {
		return nil
	}
	return &ast.Return{Keyword: keyword, Value: value}
}

func (p *Parser) breakStatement() ast.Stmt {
	keyword := p.previous()
	if p.loopDepth == 0 {
		p.failAt(keyword, errs.ErrBreakOutsideLoop)
		return nil
	}
	if p.expect(token.SEMICOLON, errs.ErrExpectSemicolonAfterBreak) == nil {
		return nil
	}
	return &ast.Break{Keyword: keyword}
}

func (p *Parser) continueStatement() ast.Stmt {
	keyword := p.previous()
	if p.loopDepth == 0 {
		p.failAt(keyword, errs.ErrContinueOutsideLoop)
		return nil
	}
	if p.expect(token.SEMICOLON, errs.ErrExpectSemicolonAfterContinue) == nil {
		return nil
	}
	return &ast.Continue{Keyword: keyword}
}

func (p *Parser) expressionStatement() ast.Stmt {
	expr := p.expression()
	if expr == nil {
		return nil
	}
	if p.expect(token.SEMICOLON, errs.ErrExpectSemicolonAfterExpr) == nil {
		return nil
	}
	return &ast.ExpressionStmt{Expression: expr}
}

func (p *Parser) expression() ast.Expr { return p.assignment() }

func (p *Parser) assignment() ast.Expr {
	expr := p.or()
	if expr == nil {
		return nil
	}

	if p.match(token.EQUAL) {
		equals := p.previous()
		value := p.assignment()
		if value == nil {
			return nil
		}
		switch target := expr.(type) {
		case *ast.Variable:
			return &ast.Assign{Name: target.Name, Value: value}
		case *ast.Get:
			return &ast.Set{Object: target.Object, Name: target.Name, Value: value}
		default:
			p.failAt(equals, errs.ErrInvalidAssignmentTarget)
			return nil
		}
	}

	return expr
}

func (p *Parser) or() ast.Expr {
	expr := p.and()
	if expr == nil {
		return nil
	}
	for p.match(token.OR) {
		operator := p.previous()
		right := p.and()
		if right == nil {
			return nil
		}
		expr = &ast.Logical{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) and() ast.Expr {
	expr := p.equality()
	if expr == nil {
		return nil
	}
	for p.match(token.AND) {
		operator := p.previous()
		right := p.equality()
		if right == nil {
			return nil
		}
		expr = &ast.Logical{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) equality() ast.Expr {
	expr := p.comparison()
	if expr == nil {
		return nil
	}
	for p.anyMatch(token.BANG_EQUAL, token.EQUAL_EQUAL) {
		operator := p.previous()
		right := p.comparison()
		if right == nil {
			return nil
		}
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) comparison() ast.Expr {
	expr := p.term()
	if expr == nil {
		return nil
	}
	for p.anyMatch(token.GREATER, token.GREATER_EQUAL, token.LESS, token.LESS_EQUAL) {
		operator := p.previous()
		right := p.term()
		if right == nil {
			return nil
		}
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) term() ast.Expr {
	expr := p.factor()
	if expr == nil {
		return nil
	}
	for p.anyMatch(token.MINUS, token.PLUS) {
		operator := p.previous()
		right := p.factor()
		if right == nil {
			return nil
		}
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) factor() ast.Expr {
	expr := p.unary()
	if expr == nil {
		return nil
	}
	for p.anyMatch(token.SLASH, token.STAR) {
		operator := p.previous()
		right := p.unary()
		if right == nil {
			return nil
		}
		expr = &ast.Binary{Left: expr, Operator: operator, Right: right}
	}
	return expr
}

func (p *Parser) unary() ast.Expr {
	if p.anyMatch(token.BANG, token.MINUS) {
		operator := p.previous()
		right := p.unary()
		if right == nil {
			return nil
		}
		return &ast.Unary{Operator: operator, Right: right}
	}
	return p.call()
}

func (p *Parser) call() ast.Expr {
	expr := p.primary()
	if expr == nil {
		return nil
	}
	for {
		switch {
		case p.match(token.LEFT_PAREN):
			expr = p.finishCall(expr)
			if expr == nil {
				return nil
			}
		case p.match(token.DOT):
			name := p.expect(token.IDENTIFIER, errs.ErrExpectPropertyName)
			if name == nil {
				return nil
			}
			expr = &ast.Get{Object: expr, Name: name}
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expr) ast.Expr {
	var arguments []ast.Expr
	if !p.check(token.RIGHT_PAREN) {
		for {
			if len(arguments) >= 255 {
				p.warn(errs.ErrTooManyArguments)
			}
			arg := p.expression()
			if arg == nil {
				return nil
			}
			arguments = append(arguments, arg)
			if !p.match(token.COMMA) {
				break
			}
		}
	}
	paren := p.expect(token.RIGHT_PAREN, errs.ErrExpectRightParenAfterArgs)
	if paren == nil {
		return nil
	}
	return &ast.Call{Callee: callee, Paren: paren, Arguments: arguments}
}

func (p *Parser) primary() ast.Expr {
	switch {
	case p.match(token.FALSE):
		return &ast.Literal{Value: false}
	case p.match(token.TRUE):
		return &ast.Literal{Value: true}
	case p.match(token.NIL):
		return &ast.Literal{Value: nil}
	case p.anyMatch(token.NUMBER, token.STRING):
		return &ast.Literal{Value: p.previous().Literal}
	case p.match(token.THIS):
		return &ast.This{Keyword: p.previous()}
	case p.match(token.SUPER):
		keyword := p.previous()
		if p.expect(token.DOT, errs.ErrExpectDotAfterSuper) == nil {
			return nil
		}
		method := p.expect(token.IDENTIFIER, errs.ErrExpectSuperMethodName)
		if method == nil {
			return nil
		}
		return &ast.Super{Keyword: keyword, Method: method}
	case p.match(token.IDENTIFIER):
		return &ast.Variable{Name: p.previous()}
	case p.match(token.FUN):
		return p.functionBody("function")
	case p.match(token.LEFT_PAREN):
		expr := p.expression()
		if expr == nil {
			return nil
		}
		if p.expect(token.RIGHT_PAREN, errs.ErrExpectRightParen) == nil {
			return nil
		}
		return &ast.Grouping{Expression: expr}
	}

	p.fail(errs.ErrExpectExpression)
	return nil
}

// --- token-stream primitives ---

func (p *Parser) match(t token.Type) bool {
	if p.check(t) {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) anyMatch(types ...token.Type) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) check(t token.Type) bool {
	return !p.isAtEnd() && p.peek().Type == t
}

// expect consumes the next token if it has type t, returning it.
// Otherwise it records err at the current position and returns nil.
func (p *Parser) expect(t token.Type, err error) *token.Token {
	if p.check(t) {
		return p.advance()
	}
	p.fail(err)
	return nil
}

func (p *Parser) peek() *token.Token { return &p.tokens[p.current] }

func (p *Parser) previous() *token.Token { return &p.tokens[p.current-1] }

func (p *Parser) advance() *token.Token {
	if !p.isAtEnd() {
		p.current++
	}
	return p.previous()
}

func (p *Parser) isAtEnd() bool { return p.peek().Type == token.EOF }

// fail records a fatal parse error at the current token. Only the first
// failure in a given declaration is kept; later calls are no-ops until
// Parse clears it after the next synchronize().
func (p *Parser) fail(err error) { p.failAt(p.peek(), err) }

func (p *Parser) failAt(tok *token.Token, err error) {
	if p.err != nil {
		return
	}
	p.err = errs.NewParseError(tok, err)
}

// warn records a non-fatal diagnostic (e.g. an arity cap overrun)
// without aborting the production currently being parsed.
func (p *Parser) warn(err error) {
	p.extra = append(p.extra, errs.NewParseError(p.peek(), err))
}

// synchronize discards tokens until it reaches a point likely to begin a
// new statement, so a single syntax error doesn't cascade into spurious
// follow-on errors.
func (p *Parser) synchronize() {
	p.advance()
	for !p.isAtEnd() {
		if p.previous().Type == token.SEMICOLON {
			return
		}
		switch p.peek().Type {
		case token.CLASS, token.FUN, token.VAR, token.FOR, token.IF, token.WHILE, token.PRINT, token.RETURN:
			return
		}
		p.advance()
	}
}
