package lexer

import (
	"mathlang/internal/token"
	"testing"
)

func TestNextToken(t *testing.T) {
	input := `x = 5
y = 3.14
z = 2.5e-3
h = 0xff
c = 3i
d = 2.5j
s = "foo bar"
f(a, b) = a + b
square = n -> n ^ 2
Sin(x)
[[PI]]
v[0]
# a comment
1 + 2 - 3 * 4 / 5 % 6
a < b; a <= b
a > b; a >= b
a == b; a != b
True && !False || True
`

	tests := []struct {
		expectedType    token.TokenType
		expectedLiteral string
	}{
		{token.IDENT, "x"},
		{token.ASSIGN, "="},
		{token.NUMBER, "5"},
		{token.NEWLINE, "\n"},
		{token.IDENT, "y"},
		{token.ASSIGN, "="},
		{token.NUMBER, "3.14"},
		{token.NEWLINE, "\n"},
		{token.IDENT, "z"},
		{token.ASSIGN, "="},
		{token.NUMBER, "2.5e-3"},
		{token.NEWLINE, "\n"},
		{token.IDENT, "h"},
		{token.ASSIGN, "="},
		{token.NUMBER, "0xff"},
		{token.NEWLINE, "\n"},
		{token.IDENT, "c"},
		{token.ASSIGN, "="},
		{token.COMPLEX, "3"},
		{token.NEWLINE, "\n"},
		{token.IDENT, "d"},
		{token.ASSIGN, "="},
		{token.COMPLEX, "2.5"},
		{token.NEWLINE, "\n"},
		{token.IDENT, "s"},
		{token.ASSIGN, "="},
		{token.STRING, "foo bar"},
		{token.NEWLINE, "\n"},
		{token.CALLABLE, "f"},
		{token.LPAREN, "("},
		{token.IDENT, "a"},
		{token.COMMA, ","},
		{token.IDENT, "b"},
		{token.RPAREN, ")"},
		{token.ASSIGN, "="},
		{token.IDENT, "a"},
		{token.PLUS, "+"},
		{token.IDENT, "b"},
		{token.NEWLINE, "\n"},
		{token.IDENT, "square"},
		{token.ASSIGN, "="},
		{token.IDENT, "n"},
		{token.ARROW, "->"},
		{token.IDENT, "n"},
		{token.CARET, "^"},
		{token.NUMBER, "2"},
		{token.NEWLINE, "\n"},
		{token.CALLABLE, "Sin"},
		{token.LPAREN, "("},
		{token.IDENT, "x"},
		{token.RPAREN, ")"},
		{token.NEWLINE, "\n"},
		{token.CONSTANT, "PI"},
		{token.NEWLINE, "\n"},
		{token.IDENT, "v"},
		{token.LBRACKET, "["},
		{token.NUMBER, "0"},
		{token.RBRACKET, "]"},
		{token.NEWLINE, "\n"},
		{token.NEWLINE, "\n"},
		{token.NUMBER, "1"},
		{token.PLUS, "+"},
		{token.NUMBER, "2"},
		{token.MINUS, "-"},
		{token.NUMBER, "3"},
		{token.ASTERISK, "*"},
		{token.NUMBER, "4"},
		{token.SLASH, "/"},
		{token.NUMBER, "5"},
		{token.PERCENT, "%"},
		{token.NUMBER, "6"},
		{token.NEWLINE, "\n"},
		{token.IDENT, "a"},
		{token.LT, "<"},
		{token.IDENT, "b"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "a"},
		{token.LT_EQ, "<="},
		{token.IDENT, "b"},
		{token.NEWLINE, "\n"},
		{token.IDENT, "a"},
		{token.GT, ">"},
		{token.IDENT, "b"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "a"},
		{token.GT_EQ, ">="},
		{token.IDENT, "b"},
		{token.NEWLINE, "\n"},
		{token.IDENT, "a"},
		{token.EQ, "=="},
		{token.IDENT, "b"},
		{token.SEMICOLON, ";"},
		{token.IDENT, "a"},
		{token.NOT_EQ, "!="},
		{token.IDENT, "b"},
		{token.NEWLINE, "\n"},
		{token.TRUE, "True"},
		{token.LOGICAL_AND, "&&"},
		{token.BANG, "!"},
		{token.FALSE, "False"},
		{token.LOGICAL_OR, "||"},
		{token.TRUE, "True"},
		{token.NEWLINE, "\n"},
		{token.EOF, ""},
	}

	l := New(input)

	for i, tt := range tests {
		tok := l.NextToken()

		if tok.Type != tt.expectedType {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%q, got=%q (literal %q)",
				i, tt.expectedType, tok.Type, tok.Literal)
		}

		if tok.Literal != tt.expectedLiteral {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q",
				i, tt.expectedLiteral, tok.Literal)
		}
	}
}

func TestComplexSuffixBinding(t *testing.T) {
	// the suffix only attaches when glued to the number
	tests := []struct {
		input    string
		expected []token.TokenType
	}{
		{"3i", []token.TokenType{token.COMPLEX, token.EOF}},
		{"3 i", []token.TokenType{token.NUMBER, token.IDENT, token.EOF}},
		{"3in", []token.TokenType{token.NUMBER, token.IDENT, token.EOF}},
		{"2.5j", []token.TokenType{token.COMPLEX, token.EOF}},
	}

	for _, tt := range tests {
		l := New(tt.input)
		for i, expected := range tt.expected {
			tok := l.NextToken()
			if tok.Type != expected {
				t.Errorf("input %q token %d: expected %q, got %q", tt.input, i, expected, tok.Type)
			}
		}
	}
}

func TestStringEscapes(t *testing.T) {
	l := New(`"a\nb\t\"c\\"`)
	tok := l.NextToken()
	if tok.Type != token.STRING {
		t.Fatalf("expected STRING, got %q", tok.Type)
	}
	if tok.Literal != "a\nb\t\"c\\" {
		t.Errorf("wrong literal: %q", tok.Literal)
	}
}

func TestMalformedConstant(t *testing.T) {
	for _, input := range []string{"[[]]", "[[PI"} {
		l := New(input)
		tok := l.NextToken()
		if tok.Type != token.ILLEGAL {
			t.Errorf("input %q: expected ILLEGAL, got %q (%q)", input, tok.Type, tok.Literal)
		}
	}
}

func TestUnterminatedString(t *testing.T) {
	l := New(`x = "abc`)
	l.NextToken() // x
	l.NextToken() // =
	tok := l.NextToken()
	if tok.Type != token.ILLEGAL {
		t.Errorf("expected ILLEGAL for an unterminated string, got %q (%q)", tok.Type, tok.Literal)
	}
}

func TestUnicodeIdentifiers(t *testing.T) {
	l := New("θ = 1")
	tok := l.NextToken()
	if tok.Type != token.IDENT || tok.Literal != "θ" {
		t.Errorf("expected IDENT θ, got %q %q", tok.Type, tok.Literal)
	}
}
