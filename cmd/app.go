// Package cmd wires the lexer, parser, resolver and interpreter together
// behind the command-line entry point.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"github.com/ember-lang/ember/internal/interp"
	"github.com/ember-lang/ember/internal/lexer"
	"github.com/ember-lang/ember/internal/parser"
	"github.com/ember-lang/ember/internal/resolver"
)

const (
	exitUsage   = 64
	exitStatic  = 65
	exitRuntime = 70
)

// App is the process-level Ember CLI: one script run, or one REPL
// session, each wired to a single persistent Interpreter.
type App struct {
	stdout io.Writer
	stderr io.Writer
	interp *interp.Interpreter
}

func NewApp() *App {
	return &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
		interp: interp.New(),
	}
}

// Main dispatches on the raw argument list the same way the reference
// tree-walkers do: no script runs the REPL, one script path runs it,
// and anything else is a usage error.
func (a *App) Main(args []string) int {
	switch len(args) {
	case 0:
		return a.runPrompt()
	case 1:
		return a.runFile(args[0])
	default:
		fmt.Fprintln(a.stdout, "Usage: ember [script]")
		return exitUsage
	}
}

func (a *App) runFile(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return exitUsage
	}
	return a.run(string(source))
}

func (a *App) runPrompt() int {
	rl, err := readline.New("> ")
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return exitUsage
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if errors.Is(err, io.EOF) {
			return 0
		}
		if err != nil {
			fmt.Fprintln(a.stderr, err)
			return exitUsage
		}

		if line == ".globals" {
			fmt.Fprintln(a.stdout, strings.Join(a.interp.GlobalNames(), ", "))
			continue
		}

		a.run(line)
	}
}

// run executes one chunk of source (a whole script, or one REPL line)
// through the full pipeline. The interpreter itself is reused across
// calls so a REPL session keeps its globals and resolved closures.
func (a *App) run(source string) int {
	tokens, err := lexer.New(source).Scan()
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return exitStatic
	}

	statements, err := parser.New(tokens).Parse()
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return exitStatic
	}

	locals, err := resolver.New(false).Resolve(statements)
	if err != nil {
		fmt.Fprintln(a.stderr, err)
		return exitStatic
	}

	if err := a.interp.Interpret(statements, locals); err != nil {
		fmt.Fprintln(a.stderr, err)
		return exitRuntime
	}

	return 0
}
