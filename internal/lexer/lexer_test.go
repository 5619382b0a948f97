package lexer_test

import (
	"testing"

	"github.com/ember-lang/ember/internal/lexer"
	"github.com/ember-lang/ember/internal/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanTokenTypes(t *testing.T) {
	testcases := []struct {
		name     string
		input    string
		expected []token.Type
	}{
		{name: `empty`, input: ``, expected: []token.Type{token.EOF}},
		{name: `punctuation`, input: `(){},.-+;*`, expected: []token.Type{
			token.LEFT_PAREN, token.RIGHT_PAREN, token.LEFT_BRACE, token.RIGHT_BRACE,
			token.COMMA, token.DOT, token.MINUS, token.PLUS, token.SEMICOLON, token.STAR, token.EOF,
		}},
		{name: `two char operators`, input: `!= == <= >= < > ! =`, expected: []token.Type{
			token.BANG_EQUAL, token.EQUAL_EQUAL, token.LESS_EQUAL, token.GREATER_EQUAL,
			token.LESS, token.GREATER, token.BANG, token.EQUAL, token.EOF,
		}},
		{name: `number`, input: `123 4.5`, expected: []token.Type{token.NUMBER, token.NUMBER, token.EOF}},
		{name: `string`, input: `"hello"`, expected: []token.Type{token.STRING, token.EOF}},
		{name: `identifier`, input: `foo _bar baz123`, expected: []token.Type{
			token.IDENTIFIER, token.IDENTIFIER, token.IDENTIFIER, token.EOF,
		}},
		{name: `keywords`, input: `and break class continue else false for fun if nil or print return super this true var while`, expected: []token.Type{
			token.AND, token.BREAK, token.CLASS, token.CONTINUE, token.ELSE, token.FALSE, token.FOR,
			token.FUN, token.IF, token.NIL, token.OR, token.PRINT, token.RETURN, token.SUPER,
			token.THIS, token.TRUE, token.VAR, token.WHILE, token.EOF,
		}},
		{name: `line comment`, input: "// hello\n1", expected: []token.Type{token.NUMBER, token.EOF}},
		{name: `block comment`, input: `/* hello */ 1`, expected: []token.Type{token.NUMBER, token.EOF}},
		{name: `nested block comment`, input: `/* outer /* inner */ still outer */ 1`, expected: []token.Type{token.NUMBER, token.EOF}},
		{name: `division`, input: `1 / 2`, expected: []token.Type{token.NUMBER, token.SLASH, token.NUMBER, token.EOF}},
	}

	for _, tc := range testcases {
		t.Run(tc.name, func(t *testing.T) {
			tokens, err := lexer.New(tc.input).Scan()
			require.NoError(t, err)

			var got []token.Type
			for _, tok := range tokens {
				got = append(got, tok.Type)
			}
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestScanLiteralValues(t *testing.T) {
	tokens, err := lexer.New(`123.5 "hi there"`).Scan()
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, 123.5, tokens[0].Literal)
	assert.Equal(t, "hi there", tokens[1].Literal)
}

func TestScanErrorsContinueAfterFirstFailure(t *testing.T) {
	tokens, err := lexer.New("@\n#").Scan()
	require.Error(t, err)
	assert.ErrorContains(t, err, "[line 1] Error: Unexpected character.")
	assert.ErrorContains(t, err, "[line 2] Error: Unexpected character.")
	// scanning kept going past the first bad character, so EOF is still produced.
	assert.Equal(t, token.EOF, tokens[len(tokens)-1].Type)
}

func TestScanUnterminatedStringReportsOpeningLine(t *testing.T) {
	_, err := lexer.New("\"abc\ndef").Scan()
	require.Error(t, err)
	assert.ErrorContains(t, err, "[line 1] Error: Unterminated string.")
}

func TestScanUnterminatedBlockComment(t *testing.T) {
	_, err := lexer.New("/* never closed").Scan()
	require.Error(t, err)
	assert.ErrorContains(t, err, "Unterminated comment.")
}
