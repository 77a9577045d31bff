package providers_test

import (
	"math"
	"strings"
	"testing"

	"mathlang/internal/evaluator"
	"mathlang/internal/object"
	"mathlang/internal/operation"
	"mathlang/internal/providers"
)

func eval(t *testing.T, source string) object.Object {
	t.Helper()
	registry := operation.NewRegistry()
	if err := operation.RegisterProviders(registry, providers.All()...); err != nil {
		t.Fatalf("provider registration failed: %v", err)
	}
	e := evaluator.New(registry)
	session := object.NewSession()
	results, err := e.EvalScript(source, session)
	if err != nil {
		return err
	}
	return results[len(results)-1].Value
}

func wantInteger(t *testing.T, source string, expected int64) {
	t.Helper()
	v := eval(t, source)
	n, ok := v.(*object.Integer)
	if !ok {
		t.Fatalf("%s: expected Integer, got %T (%s)", source, v, v.Inspect())
	}
	if n.Value != expected {
		t.Errorf("%s: expected %d, got %d", source, expected, n.Value)
	}
}

func wantFloat(t *testing.T, source string, expected float64) {
	t.Helper()
	v := eval(t, source)
	f, ok := v.(*object.Float)
	if !ok {
		t.Fatalf("%s: expected Float, got %T (%s)", source, v, v.Inspect())
	}
	if math.Abs(f.Value-expected) > 1e-9 {
		t.Errorf("%s: expected %v, got %v", source, expected, f.Value)
	}
}

func wantString(t *testing.T, source, expected string) {
	t.Helper()
	v := eval(t, source)
	s, ok := v.(*object.String)
	if !ok {
		t.Fatalf("%s: expected String, got %T (%s)", source, v, v.Inspect())
	}
	if s.Value != expected {
		t.Errorf("%s: expected %q, got %q", source, expected, s.Value)
	}
}

func wantErrorKind(t *testing.T, source string, kind object.ErrorKind) {
	t.Helper()
	v := eval(t, source)
	err, ok := v.(*object.RuntimeError)
	if !ok {
		t.Fatalf("%s: expected an error, got %T (%s)", source, v, v.Inspect())
	}
	if err.Kind != kind {
		t.Errorf("%s: expected %s, got %s (%s)", source, kind, err.Kind, err.Message)
	}
}

func TestArithmeticOperations(t *testing.T) {
	wantInteger(t, "Abs(-5)", 5)
	wantFloat(t, "Abs(-2.5)", 2.5)
	wantFloat(t, "Abs(3 + 4i)", 5)
	wantFloat(t, "Sqrt(16)", 4)
	wantInteger(t, "Floor(3.7)", 3)
	wantInteger(t, "Ceiling(3.2)", 4)
	wantInteger(t, "Round(2.5)", 2) // banker's rounding
	wantInteger(t, "Round(3.5)", 4)
	wantFloat(t, "Round(3.14159, 2)", 3.14)
	wantFloat(t, "Log(Exp(1))", 1)
	wantFloat(t, "Log10(1000)", 3)
	wantInteger(t, "Min(3, 1, 2)", 1)
	wantInteger(t, "Max(3, 1, 2)", 3)
	wantErrorKind(t, "Log(-1)", object.TypeError)

	// negative square roots escape to the complex plane
	v := eval(t, "Sqrt(-4)")
	c, ok := v.(*object.Complex)
	if !ok {
		t.Fatalf("Sqrt(-4): expected Complex, got %T", v)
	}
	if c.Value != complex(0, 2) {
		t.Errorf("Sqrt(-4): expected 2i, got %v", c.Value)
	}
}

func TestTrigOperations(t *testing.T) {
	wantFloat(t, "Sin(0)", 0)
	wantFloat(t, "Cos(0)", 1)
	wantFloat(t, "Sin([[PI]] / 2)", 1)
	wantFloat(t, "ArcTan2(1, 1)", math.Pi/4)
	wantFloat(t, "ToRadians(180)", math.Pi)
	wantFloat(t, "ToDegrees([[PI]])", 180)

	if _, ok := eval(t, "ArcSin(2)").(*object.Complex); !ok {
		t.Errorf("ArcSin(2) should escape to Complex")
	}
	wantErrorKind(t, "ToRadians(1 + 2i)", object.TypeError)
}

func TestConstants(t *testing.T) {
	wantFloat(t, "PI()", math.Pi)
	wantFloat(t, "TAU()", 2*math.Pi)
	wantFloat(t, "PHI()", (1+math.Sqrt(5))/2)
	wantInteger(t, "SpeedOfLight()", 299792458)

	v := eval(t, "NAN()")
	f, ok := v.(*object.Float)
	if !ok || !math.IsNaN(f.Value) {
		t.Errorf("NAN() should be a NaN Float")
	}
}

func TestLogicalOperations(t *testing.T) {
	for source, expected := range map[string]bool{
		"And(True, True, True)":  true,
		"And(True, False, True)": false,
		"Or(False, False)":       false,
		"Or(False, 1)":           true,
		"Not(0)":                 true,
		"IsNaN(NAN())":           true,
		"IsNaN(1.5)":             false,
		"IsInf(INF())":           true,
	} {
		b, ok := eval(t, source).(*object.Boolean)
		if !ok {
			t.Fatalf("%s: expected Boolean", source)
		}
		if b.Value != expected {
			t.Errorf("%s: expected %v", source, expected)
		}
	}
}

func TestCollectionOperations(t *testing.T) {
	wantInteger(t, "Length(List(1, 2, 3))", 3)
	wantInteger(t, "Length(Range(1, 10))", 9)
	wantInteger(t, `Length("hello")`, 5)
	wantInteger(t, "Sum(List(1, 2, 3))", 6)
	wantFloat(t, "Sum(List(1, 2.5))", 3.5)
	wantFloat(t, "Avg(Range(1, 11))", 5.5)
	wantInteger(t, "First(List(7, 8))", 7)
	wantInteger(t, "Last(Range(1, 100))", 99)
	wantInteger(t, "Length(Take(Range(1, 100), 5))", 5)
	wantInteger(t, "First(Skip(Range(1, 100), 5))", 6)
	wantErrorKind(t, "First(List())", object.IndexError)
	wantErrorKind(t, "Range(1, 10, 0)", object.TypeError)
}

func TestStringOperations(t *testing.T) {
	wantString(t, `Concat("a", "b", "c")`, "abc")
	wantString(t, `Concat("n = ", 42)`, "n = 42")
	wantString(t, `Substring("hello world", 0, 5)`, "hello")
	wantString(t, `ToUpper("abc")`, "ABC")
	wantString(t, `ToLower("ABC")`, "abc")
	wantString(t, `Trim("  x  ")`, "x")
	wantString(t, `Reverse("abc")`, "cba")
	wantString(t, `Join(Split("a,b,c", ","), "-")`, "a-b-c")
	wantString(t, `Replace("aaa", "a", "b")`, "bbb")
	wantString(t, `CharAt("hello", 1)`, "e")
	wantString(t, `Repeat("ab", 3)`, "ababab")
	wantInteger(t, `Contains("hello", "ell")`, 1)
	wantInteger(t, `StartsWith("hello", "he")`, 1)
	wantInteger(t, `EndsWith("hello", "he")`, 0)
	wantInteger(t, `IndexOf("hello", "llo")`, 2)
	wantInteger(t, `IndexOf("hello", "xyz")`, -1)
	wantErrorKind(t, `CharAt("hi", 5)`, object.IndexError)

	// rune-indexed, not byte-indexed
	wantString(t, `Substring("héllo", 1, 3)`, "él")
	wantInteger(t, `Length("héllo")`, 5)
}

func TestStatisticsOperations(t *testing.T) {
	wantFloat(t, "Mean(List(1, 2, 3, 4))", 2.5)
	wantFloat(t, "Median(List(1, 3, 2))", 2)
	wantFloat(t, "Median(List(1, 2, 3, 4))", 2.5)
	wantInteger(t, "Mode(List(1, 2, 2, 3))", 2)
	wantFloat(t, "Variance(List(2, 4, 4, 4, 5, 5, 7, 9))", 4.571428571428571)
	wantFloat(t, "PopVariance(List(2, 4, 4, 4, 5, 5, 7, 9))", 4)
	wantFloat(t, "PopStdDev(List(2, 4, 4, 4, 5, 5, 7, 9))", 2)
	wantFloat(t, "Correlation(List(1, 2, 3), List(2, 4, 6))", 1)
	wantFloat(t, "Percentile(List(1, 2, 3, 4), 50)", 2.5)
	wantFloat(t, "IQR(List(1, 2, 3, 4))", 1.5)

	// degenerate inputs are soft errors, not aborts
	for _, source := range []string{
		"Mean(List())",
		"StdDev(List(1))",
		"Correlation(List(1, 2), List(1, 2, 3))",
	} {
		if _, ok := eval(t, source).(*object.Error); !ok {
			t.Errorf("%s: expected a soft Error value", source)
		}
	}
	wantErrorKind(t, "Percentile(List(1, 2), 150)", object.TypeError)
}

func TestCombinatoricsOperations(t *testing.T) {
	wantInteger(t, "Factorial(0)", 1)
	wantInteger(t, "Factorial(6)", 720)
	wantInteger(t, "Factorial(20)", 2432902008176640000)
	wantInteger(t, "Permutations(5, 2)", 20)
	wantInteger(t, "Combinations(5, 2)", 10)
	wantInteger(t, "Fibonacci(10)", 55)
	wantInteger(t, "GCD(12, 18)", 6)
	wantInteger(t, "LCM(4, 6)", 12)
	wantInteger(t, "IsPrime(17)", 1)
	wantInteger(t, "IsPrime(18)", 0)
	wantInteger(t, "BinomialCoeff(6, 3)", 20)
	wantInteger(t, "Length(FibonacciList(10))", 10)
	wantInteger(t, "Length(Primes(30))", 10)
	wantInteger(t, "Last(PrimeFactors(84))", 7)

	// 21! overflows int64 and widens to float
	if _, ok := eval(t, "Factorial(21)").(*object.Float); !ok {
		t.Errorf("Factorial(21) should widen to Float")
	}
	wantErrorKind(t, "Factorial(-1)", object.TypeError)
	wantErrorKind(t, "Factorial(200)", object.TypeError)
	wantErrorKind(t, "Combinations(2, 5)", object.TypeError)
}

func TestVectorOperations(t *testing.T) {
	wantFloat(t, "DotProduct(Vector(1, 2, 3), Vector(4, 5, 6))", 32)
	wantFloat(t, "Magnitude(Vector(3, 4))", 5)
	wantInteger(t, "VecDim(Vector(1, 2, 3))", 3)
	wantFloat(t, "Magnitude(Normalize(Vector(3, 4)))", 1)
	wantFloat(t, "VecAngle(Vector(1, 0), Vector(0, 1))", math.Pi/2)
	wantInteger(t, "VecComponent(Vector(7, 8, 9), 2)", 9)
	wantFloat(t, "Magnitude(CrossProduct(Vector(1, 0, 0), Vector(0, 1, 0)))", 1)

	wantErrorKind(t, "Normalize(Vector(0, 0))", object.DivisionByZero)
	wantErrorKind(t, "CrossProduct(Vector(1, 2), Vector(3, 4))", object.DimensionError)
	wantErrorKind(t, "VecAdd(Vector(1, 2), Vector(1, 2, 3))", object.DimensionError)
	wantErrorKind(t, "VecComponent(Vector(1), 4)", object.IndexError)
}

func TestDateTimeOperations(t *testing.T) {
	wantInteger(t, "Year(DateOf(2024, 2, 29))", 2024)
	wantInteger(t, "Month(DateOf(2024, 2, 29))", 2)
	wantInteger(t, "Day(AddDays(DateOf(2024, 2, 28), 2))", 1)
	wantInteger(t, "Day(AddMonths(DateOf(2024, 1, 31), 1))", 29)
	wantInteger(t, "Day(AddYears(DateOf(2024, 2, 29), 1))", 28)
	wantInteger(t, "DaysBetween(DateOf(2024, 1, 1), DateOf(2024, 12, 31))", 365)
	wantInteger(t, "DayOfWeek(DateOf(2024, 1, 1))", 0) // a Monday
	wantInteger(t, "DayOfYear(DateOf(2024, 12, 31))", 366)
	wantInteger(t, "IsLeapYear(2024)", 1)
	wantInteger(t, "IsLeapYear(1900)", 0)
	wantInteger(t, "DaysInMonth(2024, 2)", 29)
	wantInteger(t, "Hour(DateTimeOf(2024, 5, 1, 13, 45, 30))", 13)
	wantString(t, `FormatDateTime(DateOf(2024, 3, 9), "%Y/%m/%d")`, "2024/03/09")
	wantInteger(t, "Year(ParseDateTime(\"2019-06-03\"))", 2019)

	wantErrorKind(t, "DateOf(2023, 2, 29)", object.TypeError)
	wantErrorKind(t, "DaysInMonth(2024, 13)", object.TypeError)
	wantErrorKind(t, `ParseDateTime("not a date")`, object.TypeError)

	v := eval(t, "DateOf(2024, 3, 9)")
	if v.TypeName() != "Date" || v.Inspect() != "2024-03-09" {
		t.Errorf("DateOf: got %s %q", v.TypeName(), v.Inspect())
	}
}

func TestVisualizationOperations(t *testing.T) {
	v := eval(t, "Plot(x -> x ^ 2, 0, 10, 11)")
	plot, ok := v.(*object.PlotData2D)
	if !ok {
		t.Fatalf("Plot: expected PlotData2D, got %T (%s)", v, v.Inspect())
	}
	if len(plot.XValues) != 11 {
		t.Fatalf("expected 11 samples, got %d", len(plot.XValues))
	}
	if plot.XValues[0] != 0 || plot.XValues[10] != 10 {
		t.Errorf("wrong sample grid: %v", plot.XValues)
	}
	if plot.YValues[10] != 100 {
		t.Errorf("expected y[10] = 100, got %v", plot.YValues[10])
	}

	// samples that fail become gaps, not aborts
	v = eval(t, "Plot(x -> 1 / x, -1, 1, 3)")
	plot = v.(*object.PlotData2D)
	if !math.IsNaN(plot.YValues[1]) {
		t.Errorf("expected NaN gap at x=0, got %v", plot.YValues[1])
	}

	v = eval(t, "Histogram(List(1, 2, 2, 3), 2)")
	hist, ok := v.(*object.HistogramData)
	if !ok {
		t.Fatalf("Histogram: expected HistogramData, got %T", v)
	}
	if hist.Bins != 2 || len(hist.Values) != 4 {
		t.Errorf("unexpected histogram: %+v", hist)
	}

	v = eval(t, "Scatter(List(1, 2), List(3, 4))")
	if _, ok := v.(*object.ScatterData); !ok {
		t.Fatalf("Scatter: expected ScatterData, got %T", v)
	}

	v = eval(t, "Plot3D((x, y) -> x + y, 0, 1, 0, 1, 2)")
	surface, ok := v.(*object.PlotData3D)
	if !ok {
		t.Fatalf("Plot3D: expected PlotData3D, got %T", v)
	}
	if len(surface.ZValues) != 2 || len(surface.ZValues[0]) != 2 {
		t.Errorf("unexpected grid: %+v", surface.ZValues)
	}
	if surface.ZValues[1][1] != 2 {
		t.Errorf("expected z[1][1] = 2, got %v", surface.ZValues[1][1])
	}

	wantErrorKind(t, "PlotData(List(1, 2), List(1, 2, 3))", object.DimensionError)
	wantErrorKind(t, "Plot(x -> x, 5, 1)", object.TypeError)
}

func TestOperationMetadataComplete(t *testing.T) {
	registry := operation.NewRegistry()
	if err := operation.RegisterProviders(registry, providers.All()...); err != nil {
		t.Fatalf("provider registration failed: %v", err)
	}

	for _, op := range registry.All() {
		if op.Identifier == "" || op.Name == "" || op.Description == "" {
			t.Errorf("operation %q has incomplete metadata", op.Identifier)
		}
		if op.Category == "" || !strings.Contains(op.Category, "/") {
			t.Errorf("operation %q has no slash-delimited category: %q", op.Identifier, op.Category)
		}
		if op.Execute == nil {
			t.Errorf("operation %q has no executor", op.Identifier)
		}
	}

	// every provider contributes
	if registry.Len() < 100 {
		t.Errorf("expected the full operation surface, got %d", registry.Len())
	}
}
