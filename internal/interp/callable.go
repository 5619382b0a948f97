package interp

// Arity is a callable's expected argument count.
type Arity int

// Callable is anything that can appear on the left of a call expression:
// user-defined functions and methods, and classes (whose "call" is
// construction).
type Callable interface {
	Arity() Arity
	Call(interp *Interpreter, arguments []any) (any, error)
}

// NativeFunction0 adapts a zero-argument Go function into a Callable,
// used to expose built-ins like clock() to Ember programs.
type NativeFunction0 func(interp *Interpreter) (any, error)

func (f NativeFunction0) Arity() Arity { return 0 }

func (f NativeFunction0) Call(interp *Interpreter, arguments []any) (any, error) {
	return f(interp)
}

func (f NativeFunction0) String() string { return "<native fn>" }

var _ Callable = NativeFunction0(nil)
