package interp_test

import (
	"strings"
	"testing"

	"github.com/ember-lang/ember/internal/interp"
	"github.com/ember-lang/ember/internal/lexer"
	"github.com/ember-lang/ember/internal/parser"
	"github.com/ember-lang/ember/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes source through the full lexer -> parser -> resolver ->
// interpreter pipeline against a fresh Interpreter and returns whatever
// was printed.
func run(t *testing.T, source string) (string, error) {
	t.Helper()

	var stdout strings.Builder
	i := interp.New(interp.WithStdout(&stdout))

	tokens, err := lexer.New(source).Scan()
	require.NoError(t, err)

	stmts, err := parser.New(tokens).Parse()
	require.NoError(t, err)

	locals, err := resolver.New(false).Resolve(stmts)
	require.NoError(t, err)

	err = i.Interpret(stmts, locals)
	return stdout.String(), err
}

func TestInterpretExpressions(t *testing.T) {
	testcases := []struct {
		name        string
		input       string
		expectedOut string
	}{
		{name: `arithmetic precedence`, input: `print 1 + 2 * 3;`, expectedOut: "7\n"},
		{name: `grouping overrides precedence`, input: `print (1 + 2) * 3;`, expectedOut: "9\n"},
		{name: `string concatenation`, input: `print "a" + "b";`, expectedOut: "ab\n"},
		{name: `unary minus`, input: `print -5;`, expectedOut: "-5\n"},
		{name: `unary bang`, input: `print !false;`, expectedOut: "true\n"},
		{name: `integral float has no trailing decimal`, input: `print 10 / 2;`, expectedOut: "5\n"},
		{name: `fractional float`, input: `print 1 / 4;`, expectedOut: "0.25\n"},
		{name: `and short circuits`, input: `print false and undefinedVar;`, expectedOut: "false\n"},
		{name: `or short circuits`, input: `print true or (1/0 == 1);`, expectedOut: "true\n"},
		{name: `or returns operand value`, input: `print nil or "fallback";`, expectedOut: "fallback\n"},
		{name: `nil prints as nil`, input: `print nil;`, expectedOut: "nil\n"},
		{name: `equality across types is false`, input: `print 1 == "1";`, expectedOut: "false\n"},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := run(t, tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expectedOut, out)
		})
	}
}

func TestInterpretVariablesAndScopes(t *testing.T) {
	out, err := run(t, `
		var a = 1;
		{
			var a = 2;
			print a;
		}
		print a;
	`)
	require.NoError(t, err)
	assert.Equal(t, "2\n1\n", out)
}

func TestInterpretControlFlow(t *testing.T) {
	out, err := run(t, `
		var total = 0;
		for (var i = 0; i < 5; i = i + 1) {
			if (i == 2) continue;
			if (i == 4) break;
			total = total + i;
		}
		print total;
	`)
	require.NoError(t, err)
	assert.Equal(t, "4\n", out)
}

func TestInterpretForLoopContinueStillRunsTheIncrement(t *testing.T) {
	out, err := run(t, `
		for (var i = 0; i < 10; i = i + 1) {
			if (i < 5) continue;
			print i;
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "5\n6\n7\n8\n9\n", out)
}

func TestInterpretWhileLoopContinueDoesNotHang(t *testing.T) {
	out, err := run(t, `
		var i = 0;
		while (i < 5) {
			i = i + 1;
			if (i == 3) continue;
			print i;
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n4\n5\n", out)
}

func TestInterpretFunctionsAndClosures(t *testing.T) {
	out, err := run(t, `
		fun makeCounter() {
			var count = 0;
			fun counter() {
				count = count + 1;
				return count;
			}
			return counter;
		}
		var counter = makeCounter();
		print counter();
		print counter();
		print counter();
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestInterpretAnonymousFunction(t *testing.T) {
	out, err := run(t, `
		var add = fun (a, b) { return a + b; };
		print add(1, 2);
	`)
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestInterpretClassesAndInheritance(t *testing.T) {
	out, err := run(t, `
		class Animal {
			init(name) {
				this.name = name;
			}
			speak() {
				return this.name + " makes a sound.";
			}
		}

		class Dog < Animal {
			speak() {
				return super.speak() + " Woof!";
			}
		}

		var dog = Dog("Rex");
		print dog.speak();
	`)
	require.NoError(t, err)
	assert.Equal(t, "Rex makes a sound. Woof!\n", out)
}

func TestInterpretStaticMethods(t *testing.T) {
	out, err := run(t, `
		class Math {
			class square(n) {
				return n * n;
			}
		}
		print Math.square(4);
	`)
	require.NoError(t, err)
	assert.Equal(t, "16\n", out)
}

func TestInterpretFunctionStringification(t *testing.T) {
	out, err := run(t, `
		fun greet() {}
		print greet;
	`)
	require.NoError(t, err)
	assert.Equal(t, "<fn greet>\n", out)
}

func TestInterpretRuntimeErrors(t *testing.T) {
	testcases := []struct {
		name        string
		input       string
		errContains string
	}{
		{name: `add number and string`, input: `print 1 + "a";`, errContains: "Operands must be two numbers or two strings."},
		{name: `subtract non numbers`, input: `print 1 - "a";`, errContains: "Operand(s) must be number(s)."},
		{name: `negate non number`, input: `print -"a";`, errContains: "Operand(s) must be number(s)."},
		{name: `call non callable`, input: `var a = 1; a();`, errContains: "Can only call functions and classes."},
		{name: `wrong arity`, input: `fun f(a) { return a; } f();`, errContains: "Expected 1 arguments but got 0."},
		{name: `undefined variable`, input: `print undefinedVar;`, errContains: "Undefined variable 'undefinedVar'."},
		{name: `undefined property`, input: `class Foo {} var f = Foo(); print f.bar;`, errContains: "Undefined property 'bar'."},
		{name: `property access on non instance`, input: `var a = 1; print a.bar;`, errContains: "Only instances have properties."},
		{name: `superclass must be a class`, input: `var NotAClass = 1; class Foo < NotAClass {}`, errContains: "Superclass must be a class."},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := run(t, tc.input)
			require.Error(t, err)
			assert.ErrorContains(t, err, tc.errContains)
		})
	}
}

func TestInterpretClockBuiltinReturnsANumber(t *testing.T) {
	out, err := run(t, `print clock() >= 0;`)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestInterpretEqualityOnNativeFunctionsDoesNotPanic(t *testing.T) {
	out, err := run(t, `print clock == clock;`)
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)
}

func TestInterpretBreakInsideLoopNestedInFunctionOnlyExitsThatLoop(t *testing.T) {
	out, err := run(t, `
		fun f() {
			while (true) {
				break;
			}
			return "done";
		}
		print f();
	`)
	require.NoError(t, err)
	assert.Equal(t, "done\n", out)
}

func TestInterpretPersistsLocalsAcrossSuccessiveInterpretCalls(t *testing.T) {
	var stdout strings.Builder
	i := interp.New(interp.WithStdout(&stdout))

	runLine := func(source string) {
		tokens, err := lexer.New(source).Scan()
		require.NoError(t, err)
		stmts, err := parser.New(tokens).Parse()
		require.NoError(t, err)
		locals, err := resolver.New(false).Resolve(stmts)
		require.NoError(t, err)
		require.NoError(t, i.Interpret(stmts, locals))
	}

	// Each call below is resolved independently (as separate REPL lines
	// would be), yet the closure defined on the first line must still
	// resolve its captured local correctly when invoked from the third.
	runLine(`fun makeCounter() { var count = 0; fun counter() { count = count + 1; return count; } return counter; }`)
	runLine(`var counter = makeCounter();`)
	runLine(`print counter(); print counter();`)

	assert.Equal(t, "1\n2\n", stdout.String())
}
