package errs

import (
	"fmt"
	"io"
)

// Reporter writes diagnostics to an injected destination. The
// interpreter holds one (see interp.WithErrorReporter) and exposes it
// through Interpreter.Reporter; the lexer, parser, resolver and CLI do
// not use it: they return their errors, and the CLI prints them itself.
type Reporter interface {
	Report(err error)
}

type writerReporter struct {
	w io.Writer
}

// NewReporter returns a Reporter that writes one error per line to w.
func NewReporter(w io.Writer) Reporter {
	return &writerReporter{w: w}
}

func (r *writerReporter) Report(err error) {
	fmt.Fprintln(r.w, err)
}

var _ Reporter = (*writerReporter)(nil)
