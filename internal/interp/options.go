package interp

import (
	"io"
	"os"

	"github.com/ember-lang/ember/internal/lang/errs"
)

type options struct {
	globals  *Environment
	stdout   io.Writer
	stderr   io.Writer
	reporter errs.Reporter
}

// Option configures a new Interpreter.
type Option func(*options)

// WithGlobals overrides the global environment, letting a REPL or test
// harness pre-seed bindings before any program runs.
func WithGlobals(env *Environment) Option {
	return func(o *options) { o.globals = env }
}

// WithStdout redirects `print` output.
func WithStdout(w io.Writer) Option {
	return func(o *options) { o.stdout = w }
}

// WithStderr redirects where the interpreter's error reporter writes by
// default, when no explicit WithErrorReporter is given.
func WithStderr(w io.Writer) Option {
	return func(o *options) { o.stderr = w }
}

// WithErrorReporter overrides the Reporter returned by
// Interpreter.Reporter. Interpret does not report runtime errors through
// it; it returns them to its caller.
func WithErrorReporter(r errs.Reporter) Option {
	return func(o *options) { o.reporter = r }
}

func newOptions(opts ...Option) *options {
	o := &options{stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(o)
	}
	if o.globals == nil {
		o.globals = NewEnvironment()
	}
	if o.reporter == nil {
		o.reporter = errs.NewReporter(o.stderr)
	}
	return o
}
