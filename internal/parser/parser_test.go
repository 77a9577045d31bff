package parser

import (
	"testing"

	"mathlang/internal/ast"
	"mathlang/internal/lexer"
)

func parseProgram(t *testing.T, input string) *ast.Program {
	t.Helper()
	l := lexer.New(input)
	p := New(l, input)
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) != 0 {
		t.Fatalf("parser error for %q: %s", input, errs[0].Error())
	}
	return program
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"-a * b", "((-a) * b)"},
		{"!True == False", "((!True) == False)"},
		{"a + b % c", "(a + (b % c))"},
		{"2 ^ 3 ^ 4", "(2 ^ (3 ^ 4))"},
		{"-2 ^ 2", "(-(2 ^ 2))"},
		{"a < b == c > d", "(((a < b) == c) > d)"},
		{"a <= b != c >= d", "(((a <= b) != c) >= d)"},
		{"a == b < c", "((a == b) < c)"},
		{"a && b || c", "((a && b) || c)"},
		{"a || b && c", "(a || (b && c))"},
		{"1 + 2 == 3 && True", "(((1 + 2) == 3) && True)"},
		{"Sin(x) + Cos(y)", "(Sin(x) + Cos(y))"},
		{"Max(a, b + c, d * e)", "Max(a, (b + c), (d * e))"},
		{"v[0] + v[1]", "(v[0] + v[1])"},
		{"-v[0]", "(-v[0])"},
		{"[[PI]] * r ^ 2", "([[PI]] * (r ^ 2))"},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		if len(program.Statements) != 1 {
			t.Fatalf("input %q: expected 1 statement, got %d", tt.input, len(program.Statements))
		}
		if got := program.Statements[0].String(); got != tt.expected {
			t.Errorf("input %q: expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestAssignment(t *testing.T) {
	program := parseProgram(t, "x = 5 + 3")
	stmt, ok := program.Statements[0].(*ast.Assignment)
	if !ok {
		t.Fatalf("expected *ast.Assignment, got %T", program.Statements[0])
	}
	if stmt.Name != "x" {
		t.Errorf("expected name x, got %q", stmt.Name)
	}
	if got := stmt.Value.String(); got != "(5 + 3)" {
		t.Errorf("expected value (5 + 3), got %q", got)
	}
}

func TestFunctionDefinitionSugar(t *testing.T) {
	// f(x, y) = body must parse identically to f = (x, y) -> body
	sugar := parseProgram(t, "f(x, y) = x + y")
	arrow := parseProgram(t, "f = (x, y) -> x + y")

	sugarStmt, ok := sugar.Statements[0].(*ast.Assignment)
	if !ok {
		t.Fatalf("sugar form: expected assignment, got %T", sugar.Statements[0])
	}
	arrowStmt := arrow.Statements[0].(*ast.Assignment)

	if sugarStmt.String() != arrowStmt.String() {
		t.Errorf("forms differ: %q vs %q", sugarStmt.String(), arrowStmt.String())
	}

	lambda, ok := sugarStmt.Value.(*ast.Lambda)
	if !ok {
		t.Fatalf("sugar value: expected lambda, got %T", sugarStmt.Value)
	}
	if len(lambda.Parameters) != 2 || lambda.Parameters[0] != "x" || lambda.Parameters[1] != "y" {
		t.Errorf("wrong parameters: %v", lambda.Parameters)
	}
}

func TestLambdaForms(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"x -> x ^ 2", "x -> (x ^ 2)"},
		{"(x) -> x + 1", "x -> (x + 1)"},
		{"(a, b) -> a * b", "(a, b) -> (a * b)"},
		{"() -> 42", "() -> 42"},
		{"f = n -> If(n <= 1, 1, n * f(n - 1))", "f = n -> If((n <= 1), 1, (n * f((n - 1))))"},
		{"add = a -> b -> a + b", "add = a -> b -> (a + b)"},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		if got := program.Statements[0].String(); got != tt.expected {
			t.Errorf("input %q: expected %q, got %q", tt.input, tt.expected, got)
		}
	}
}

func TestStatementSeparation(t *testing.T) {
	tests := []struct {
		input string
		count int
	}{
		{"1 + 2\n3 + 4", 2},
		{"1 + 2; 3 + 4", 2},
		{"1 + 2; 3 + 4\n5", 3},
		{"\n\n1\n\n", 1},
		{"", 0},
	}

	for _, tt := range tests {
		program := parseProgram(t, tt.input)
		if len(program.Statements) != tt.count {
			t.Errorf("input %q: expected %d statements, got %d", tt.input, tt.count, len(program.Statements))
		}
	}
}

func TestLiterals(t *testing.T) {
	program := parseProgram(t, `42; 3.14; 2.5e3; 0x1f; 3i; "hi"; True; False`)

	expr := func(i int) ast.Expression {
		return program.Statements[i].(*ast.ExpressionStatement).Expression
	}

	if lit, ok := expr(0).(*ast.IntegerLiteral); !ok || lit.Value != 42 {
		t.Errorf("statement 0: expected integer 42, got %v", expr(0))
	}
	if lit, ok := expr(1).(*ast.FloatLiteral); !ok || lit.Value != 3.14 {
		t.Errorf("statement 1: expected float 3.14, got %v", expr(1))
	}
	if lit, ok := expr(2).(*ast.FloatLiteral); !ok || lit.Value != 2500 {
		t.Errorf("statement 2: expected float 2500, got %v", expr(2))
	}
	if lit, ok := expr(3).(*ast.IntegerLiteral); !ok || lit.Value != 31 {
		t.Errorf("statement 3: expected integer 31, got %v", expr(3))
	}
	if lit, ok := expr(4).(*ast.ComplexLiteral); !ok || lit.Value != complex(0, 3) {
		t.Errorf("statement 4: expected complex 3i, got %v", expr(4))
	}
	if lit, ok := expr(5).(*ast.StringLiteral); !ok || lit.Value != "hi" {
		t.Errorf("statement 5: expected string hi, got %v", expr(5))
	}
	if lit, ok := expr(6).(*ast.BooleanLiteral); !ok || !lit.Value {
		t.Errorf("statement 6: expected True, got %v", expr(6))
	}
	if lit, ok := expr(7).(*ast.BooleanLiteral); !ok || lit.Value {
		t.Errorf("statement 7: expected False, got %v", expr(7))
	}
}

func TestSyntaxErrorPosition(t *testing.T) {
	input := "x = 1\ny = * 2"
	l := lexer.New(input)
	p := New(l, input)
	p.ParseProgram()

	errs := p.Errors()
	if len(errs) == 0 {
		t.Fatalf("expected a syntax error")
	}
	if errs[0].Line != 2 {
		t.Errorf("expected error on line 2, got %d", errs[0].Line)
	}
	if errs[0].Column != 5 {
		t.Errorf("expected error at column 5, got %d", errs[0].Column)
	}
}

func TestParseStopsAtFirstError(t *testing.T) {
	input := "1 + \n2 + 2"
	l := lexer.New(input)
	p := New(l, input)
	program := p.ParseProgram()

	if len(p.Errors()) == 0 {
		t.Fatalf("expected a syntax error")
	}
	if len(program.Statements) != 0 {
		t.Errorf("expected no statements after failure, got %d", len(program.Statements))
	}
}

func TestCallWithLambdaArguments(t *testing.T) {
	program := parseProgram(t, "Map(x -> x * 2, List(1, 2, 3))")
	call, ok := program.Statements[0].(*ast.ExpressionStatement).Expression.(*ast.Call)
	if !ok {
		t.Fatalf("expected call, got %T", program.Statements[0])
	}
	if call.Name != "Map" {
		t.Errorf("expected callee Map, got %q", call.Name)
	}
	if len(call.Arguments) != 2 {
		t.Fatalf("expected 2 arguments, got %d", len(call.Arguments))
	}
	if _, ok := call.Arguments[0].(*ast.Lambda); !ok {
		t.Errorf("expected first argument to be a lambda, got %T", call.Arguments[0])
	}
}
