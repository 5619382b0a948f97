// Package ast defines the expression and statement node taxonomy shared
// by the parser, resolver and interpreter, plus the two Visitor
// interfaces both passes implement over it.
package ast

// Value is the runtime representation threaded through Accept/Visit.
// It is an alias for any: the resolver only ever returns nil through it,
// while the interpreter in package interp returns its concrete runtime
// values (nil, bool, float64, string, *interp.Function, *interp.Class,
// *interp.Instance, interp.Callable) through the same slot.
type Value = any

// Expr is any expression node. Its pointer identity (not its contents)
// is what the resolver's distance map is keyed on, so two syntactically
// identical expressions at different source positions are always
// distinct keys.
type Expr interface {
	Accept(v ExprVisitor) (Value, error)
}

// Stmt is any statement node.
type Stmt interface {
	Accept(v StmtVisitor) (Value, error)
}

type ExprVisitor interface {
	VisitLiteralExpr(*Literal) (Value, error)
	VisitGroupingExpr(*Grouping) (Value, error)
	VisitUnaryExpr(*Unary) (Value, error)
	VisitBinaryExpr(*Binary) (Value, error)
	VisitLogicalExpr(*Logical) (Value, error)
	VisitVariableExpr(*Variable) (Value, error)
	VisitAssignExpr(*Assign) (Value, error)
	VisitCallExpr(*Call) (Value, error)
	VisitGetExpr(*Get) (Value, error)
	VisitSetExpr(*Set) (Value, error)
	VisitThisExpr(*This) (Value, error)
	VisitSuperExpr(*Super) (Value, error)
	VisitFunctionExpr(*Function) (Value, error)
}

type StmtVisitor interface {
	VisitExpressionStmt(*ExpressionStmt) (Value, error)
	VisitPrintStmt(*PrintStmt) (Value, error)
	VisitVarStmt(*VarStmt) (Value, error)
	VisitBlockStmt(*Block) (Value, error)
	VisitIfStmt(*If) (Value, error)
	VisitWhileStmt(*While) (Value, error)
	VisitFunctionStmt(*FunctionStmt) (Value, error)
	VisitReturnStmt(*Return) (Value, error)
	VisitClassStmt(*Class) (Value, error)
	VisitBreakStmt(*Break) (Value, error)
	VisitContinueStmt(*Continue) (Value, error)
}
