package evaluator

import (
	"math"
	"testing"

	"mathlang/internal/object"
	"mathlang/internal/operation"
	"mathlang/internal/providers"
)

func newEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	registry := operation.NewRegistry()
	if err := operation.RegisterProviders(registry, providers.All()...); err != nil {
		t.Fatalf("provider registration failed: %v", err)
	}
	return New(registry)
}

// evalLast runs source in a fresh session and returns the value of the
// last statement.
func evalLast(t *testing.T, source string) object.Object {
	t.Helper()
	e := newEvaluator(t)
	session := object.NewSession()
	results, err := e.EvalScript(source, session)
	if err != nil {
		t.Fatalf("evaluation of %q failed: %s", source, err.Inspect())
	}
	if len(results) == 0 {
		t.Fatalf("no results for %q", source)
	}
	return results[len(results)-1].Value
}

// evalError runs source expecting a runtime error.
func evalError(t *testing.T, source string) *object.RuntimeError {
	t.Helper()
	e := newEvaluator(t)
	session := object.NewSession()
	_, err := e.EvalScript(source, session)
	if err == nil {
		t.Fatalf("expected error for %q", source)
	}
	return err
}

func testInteger(t *testing.T, obj object.Object, expected int64) {
	t.Helper()
	n, ok := obj.(*object.Integer)
	if !ok {
		t.Fatalf("expected Integer, got %T (%s)", obj, obj.Inspect())
	}
	if n.Value != expected {
		t.Errorf("expected %d, got %d", expected, n.Value)
	}
}

func testFloat(t *testing.T, obj object.Object, expected float64) {
	t.Helper()
	f, ok := obj.(*object.Float)
	if !ok {
		t.Fatalf("expected Float, got %T (%s)", obj, obj.Inspect())
	}
	if math.Abs(f.Value-expected) > 1e-9 {
		t.Errorf("expected %v, got %v", expected, f.Value)
	}
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"2 + 3 * 4", 14},
		{"(2 + 3) * 4", 20},
		{"10 - 2 - 3", 5},
		{"6 / 2", 3},
		{"7 % 3", 1},
		{"-7 % 3", 2},
		{"2 ^ 10", 1024},
		{"2 ^ 3 ^ 2", 512},
		{"-5 + 10", 5},
		{"0xff", 255},
	}
	for _, tt := range tests {
		testInteger(t, evalLast(t, tt.input), tt.expected)
	}
}

func TestIntegerPowerWidensOnOverflow(t *testing.T) {
	// past int64 the result widens to Float instead of wrapping
	testFloat(t, evalLast(t, "2 ^ 64"), math.Pow(2, 64))
	testFloat(t, evalLast(t, "10 ^ 19"), 1e19)

	// the largest powers that still fit stay Integer
	testInteger(t, evalLast(t, "2 ^ 62"), 1<<62)
	testInteger(t, evalLast(t, "(-2) ^ 63"), math.MinInt64)
}

func TestDivisionWidensOnlyWhenInexact(t *testing.T) {
	testInteger(t, evalLast(t, "6 / 3"), 2)
	testFloat(t, evalLast(t, "7 / 2"), 3.5)
	testFloat(t, evalLast(t, "1 / 3"), 1.0/3.0)
}

func TestDivisionByZero(t *testing.T) {
	for _, input := range []string{"1 / 0", "1 % 0", "1.5 / 0", "(2 + 1i) / 0"} {
		err := evalError(t, input)
		if err.Kind != object.DivisionByZero {
			t.Errorf("input %q: expected DivisionByZero, got %s", input, err.Kind)
		}
	}
}

func TestComplexArithmetic(t *testing.T) {
	v := evalLast(t, "(2 + 3i) * (1 - 1i)")
	c, ok := v.(*object.Complex)
	if !ok {
		t.Fatalf("expected Complex, got %T", v)
	}
	if c.Value != complex(5, 1) {
		t.Errorf("expected 5+1i, got %v", c.Value)
	}
	if c.Inspect() != "5 + 1i" {
		t.Errorf("wrong rendering: %q", c.Inspect())
	}

	// widening: real op complex promotes
	v = evalLast(t, "2 + 3i")
	if v.(*object.Complex).Value != complex(2, 3) {
		t.Errorf("expected 2+3i, got %s", v.Inspect())
	}
}

func TestBooleansAndComparison(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"1 < 2", true},
		{"2 <= 2", true},
		{"3 > 4", false},
		{"1 == 1", true},
		{"1 != 1", false},
		{"True && False", false},
		{"True || False", true},
		{"!True", false},
		{`"abc" == "abc"`, true},
		{`"a" < "b"`, true},
	}
	for _, tt := range tests {
		b, ok := evalLast(t, tt.input).(*object.Boolean)
		if !ok {
			t.Fatalf("input %q: expected Boolean", tt.input)
		}
		if b.Value != tt.expected {
			t.Errorf("input %q: expected %v, got %v", tt.input, tt.expected, b.Value)
		}
	}
}

func TestShortCircuit(t *testing.T) {
	// the right side of && and || must not evaluate when the left decides
	b := evalLast(t, "False && (1 / 0 == 1)").(*object.Boolean)
	if b.Value {
		t.Errorf("expected false")
	}
	b = evalLast(t, "True || (1 / 0 == 1)").(*object.Boolean)
	if !b.Value {
		t.Errorf("expected true")
	}
}

func TestStringConcat(t *testing.T) {
	v := evalLast(t, `"foo" + "bar"`)
	if s, ok := v.(*object.String); !ok || s.Value != "foobar" {
		t.Errorf("expected foobar, got %s", v.Inspect())
	}
}

func TestAssignmentPersistsAcrossStatements(t *testing.T) {
	testInteger(t, evalLast(t, "x = 10\ny = 20\nx + y"), 30)
	testInteger(t, evalLast(t, "x = 10; y = 20; x + y"), 30)
}

func TestAssignmentResultShape(t *testing.T) {
	e := newEvaluator(t)
	session := object.NewSession()
	results, err := e.EvalScript("x = 42", session)
	if err != nil {
		t.Fatalf("unexpected error: %s", err.Inspect())
	}
	r := results[0]
	if !r.IsAssignment || r.VariableName != "x" {
		t.Errorf("assignment result not flagged: %+v", r)
	}
	testInteger(t, r.Value, 42)

	if v, ok := session.Get("x"); !ok {
		t.Errorf("x not bound")
	} else {
		testInteger(t, v, 42)
	}
}

func TestUndefinedNames(t *testing.T) {
	if err := evalError(t, "nope + 1"); err.Kind != object.NameError {
		t.Errorf("expected NameError, got %s", err.Kind)
	}
	if err := evalError(t, "Nope(1)"); err.Kind != object.NameError {
		t.Errorf("expected NameError, got %s", err.Kind)
	}
	if err := evalError(t, "[[NOPE]]"); err.Kind != object.NameError {
		t.Errorf("expected NameError, got %s", err.Kind)
	}
}

func TestRecursiveFactorial(t *testing.T) {
	source := `factorial(n) = If(n <= 1, 1, n * factorial(n - 1))
factorial(6)`
	testInteger(t, evalLast(t, source), 720)

	source = `factorial(n) = If(n <= 1, 1, n * factorial(n - 1))
factorial(0)`
	testInteger(t, evalLast(t, source), 1)
}

func TestClosureCapture(t *testing.T) {
	source := `make_adder(n) = x -> x + n
add5 = make_adder(5)
n = 100
add5(3)`
	// add5 must see the n captured at construction, not the later binding
	testInteger(t, evalLast(t, source), 8)
}

func TestLambdaArity(t *testing.T) {
	err := evalError(t, "f = (a, b) -> a + b\nf(1)")
	if err.Kind != object.ArityError {
		t.Errorf("expected ArityError, got %s", err.Kind)
	}
}

func TestIfLaziness(t *testing.T) {
	// the untaken branch must never evaluate
	testInteger(t, evalLast(t, "If(True, 1, 1 / 0)"), 1)
	testInteger(t, evalLast(t, "If(False, 1 / 0, 2)"), 2)

	// but the taken branch's errors surface
	if err := evalError(t, "If(True, 1 / 0, 2)"); err.Kind != object.DivisionByZero {
		t.Errorf("expected DivisionByZero, got %s", err.Kind)
	}
}

func TestLazyAndOr(t *testing.T) {
	b := evalLast(t, "And(False, 1 / 0)").(*object.Boolean)
	if b.Value {
		t.Errorf("expected false")
	}
	b = evalLast(t, "Or(True, 1 / 0)").(*object.Boolean)
	if !b.Value {
		t.Errorf("expected true")
	}
	// forced arguments still propagate their errors
	if err := evalError(t, "And(True, 1 / 0)"); err.Kind != object.DivisionByZero {
		t.Errorf("expected DivisionByZero, got %s", err.Kind)
	}
}

func TestArityCheckedBeforeExecution(t *testing.T) {
	err := evalError(t, "Abs()")
	if err.Kind != object.ArityError {
		t.Errorf("expected ArityError, got %s", err.Kind)
	}
	err = evalError(t, "Abs(1, 2)")
	if err.Kind != object.ArityError {
		t.Errorf("expected ArityError, got %s", err.Kind)
	}
	// arguments are not evaluated either: the division never runs
	err = evalError(t, "Abs(1 / 0, 2)")
	if err.Kind != object.ArityError {
		t.Errorf("expected ArityError before argument evaluation, got %s", err.Kind)
	}
}

func TestSessionShadowsRegistry(t *testing.T) {
	source := `Sin = x -> x * 2
Sin(3)`
	testInteger(t, evalLast(t, source), 6)

	// non-callable shadow is a type error, not a fallthrough
	err := evalError(t, "Sin = 5\nSin(3)")
	if err.Kind != object.TypeError {
		t.Errorf("expected TypeError, got %s", err.Kind)
	}
}

func TestRecursionLimit(t *testing.T) {
	registry := operation.NewRegistry()
	if err := operation.RegisterProviders(registry, providers.All()...); err != nil {
		t.Fatalf("provider registration failed: %v", err)
	}
	e := NewWithDepth(registry, 50)
	session := object.NewSession()
	_, err := e.EvalScript("loop(n) = loop(n + 1)\nloop(0)", session)
	if err == nil {
		t.Fatalf("expected recursion limit error")
	}
	if err.Kind != object.RecursionLimitExceeded {
		t.Errorf("expected RecursionLimitExceeded, got %s", err.Kind)
	}
}

func TestConstantRef(t *testing.T) {
	testFloat(t, evalLast(t, "[[PI]]"), math.Pi)
	testFloat(t, evalLast(t, "2 * [[PI]]"), 2*math.Pi)
	testInteger(t, evalLast(t, "[[HoursInDay]]"), 24)
}

func TestVectorArithmetic(t *testing.T) {
	v := evalLast(t, "Vector(1, 2, 3) + Vector(10, 20, 30)")
	vec, ok := v.(*object.Vector)
	if !ok {
		t.Fatalf("expected Vector, got %T", v)
	}
	expected := []int64{11, 22, 33}
	for i, el := range vec.Elements {
		testInteger(t, el, expected[i])
	}

	// scalar broadcast
	v = evalLast(t, "Vector(1, 2, 3) * 2")
	vec = v.(*object.Vector)
	for i, want := range []int64{2, 4, 6} {
		testInteger(t, vec.Elements[i], want)
	}

	err := evalError(t, "Vector(1, 2) + Vector(1, 2, 3)")
	if err.Kind != object.DimensionError {
		t.Errorf("expected DimensionError, got %s", err.Kind)
	}
}

func TestIndexing(t *testing.T) {
	testInteger(t, evalLast(t, "v = Vector(10, 20, 30)\nv[1]"), 20)
	testInteger(t, evalLast(t, "List(5, 6, 7)[0]"), 5)
	testInteger(t, evalLast(t, "Range(1, 100)[9]"), 10)

	for _, input := range []string{
		"Vector(1, 2)[5]",
		"Vector(1, 2)[-1]",
		"Range(1, 10)[-1]",
		"List(1)[3]",
	} {
		err := evalError(t, input)
		if err.Kind != object.IndexError {
			t.Errorf("input %q: expected IndexError, got %s", input, err.Kind)
		}
	}

	if err := evalError(t, "5[0]"); err.Kind != object.TypeError {
		t.Errorf("expected TypeError, got %s", err.Kind)
	}
}

func TestLargeRangeStaysLazy(t *testing.T) {
	// Length, First and Last must not materialize the interval
	testInteger(t, evalLast(t, "Length(Range(1, 1000000000))"), 999999999)
	testInteger(t, evalLast(t, "First(Range(1, 1000000000))"), 1)
	testInteger(t, evalLast(t, "Last(Range(1, 1000000000))"), 999999999)
}

func TestHigherOrderOperations(t *testing.T) {
	v := evalLast(t, "Map(List(1, 2, 3), x -> x * x)")
	list := v.(*object.List)
	for i, want := range []int64{1, 4, 9} {
		testInteger(t, list.Items[i], want)
	}

	v = evalLast(t, "Filter(Range(1, 11), x -> x % 2 == 0)")
	list = v.(*object.List)
	if len(list.Items) != 5 {
		t.Fatalf("expected 5 even numbers, got %d", len(list.Items))
	}
	testInteger(t, list.Items[0], 2)

	testInteger(t, evalLast(t, "Reduce(List(1, 2, 3, 4), (acc, x) -> acc + x, 0)"), 10)
}

func TestThunkMemoization(t *testing.T) {
	// the argument thunk is forced once; a second reference reuses the
	// cached value, so the whole expression stays linear
	source := `double(x) = x + x
double(double(double(double(double(1)))))`
	testInteger(t, evalLast(t, source), 32)
}

func TestThunkForcesArgumentOnce(t *testing.T) {
	// both references to x must see the same draw; re-evaluating the
	// argument thunk would compare two different random values
	source := `same(x) = x == x
same(Random())`
	b, ok := evalLast(t, source).(*object.Boolean)
	if !ok || !b.Value {
		t.Errorf("expected a memoized argument to equal itself")
	}
}

func TestCurriedLambda(t *testing.T) {
	v := evalLast(t, "add = a -> b -> a + b\nadd2 = add(2)\nadd2(3)")
	testInteger(t, v, 5)
}

func TestSoftErrorsDoNotAbort(t *testing.T) {
	e := newEvaluator(t)
	session := object.NewSession()
	results, err := e.EvalScript("Mean(List())\n1 + 1", session)
	if err != nil {
		t.Fatalf("soft error aborted the script: %s", err.Inspect())
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if _, ok := results[0].Value.(*object.Error); !ok {
		t.Errorf("expected a soft Error value, got %T", results[0].Value)
	}
	testInteger(t, results[1].Value, 2)
}

func TestEvalStopsAtFirstHardError(t *testing.T) {
	e := newEvaluator(t)
	session := object.NewSession()
	results, err := e.EvalScript("x = 1\n1 / 0\nx = 99", session)
	if err == nil {
		t.Fatalf("expected an error")
	}
	if len(results) != 1 {
		t.Errorf("expected 1 successful result, got %d", len(results))
	}
	// earlier bindings survive; the statement after the failure never ran
	if v, _ := session.Get("x"); v.(*object.Integer).Value != 1 {
		t.Errorf("x should still be 1")
	}
}

func TestSyntaxErrorSurfacesWithPosition(t *testing.T) {
	e := newEvaluator(t)
	session := object.NewSession()
	_, err := e.EvalScript("1 +\n", session)
	if err == nil {
		t.Fatalf("expected syntax error")
	}
	if err.Kind != object.SyntaxError {
		t.Errorf("expected SyntaxError, got %s", err.Kind)
	}
	if err.Line != 1 {
		t.Errorf("expected line 1, got %d", err.Line)
	}
}

func TestUnaryMinusOnVector(t *testing.T) {
	v := evalLast(t, "-Vector(1, -2, 3)")
	vec := v.(*object.Vector)
	for i, want := range []int64{-1, 2, -3} {
		testInteger(t, vec.Elements[i], want)
	}
}

func TestIntegerFloatPromotion(t *testing.T) {
	testFloat(t, evalLast(t, "1 + 2.5"), 3.5)
	testFloat(t, evalLast(t, "2.0 * 3"), 6)
	v := evalLast(t, "2.0 * 3")
	if v.TypeName() != "Float" {
		t.Errorf("expected Float, got %s", v.TypeName())
	}
}
