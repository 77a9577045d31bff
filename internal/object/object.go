package object

import (
	"math"
	"strconv"
	"strings"
	"time"
)

type ObjectType string

const (
	INTEGER_OBJ  = "INTEGER"
	FLOAT_OBJ    = "FLOAT"
	COMPLEX_OBJ  = "COMPLEX"
	BOOLEAN_OBJ  = "BOOLEAN"
	STRING_OBJ   = "STRING"
	DATETIME_OBJ = "DATETIME"

	VECTOR_OBJ   = "VECTOR"
	LIST_OBJ     = "LIST"
	INTERVAL_OBJ = "INTERVAL"

	LAMBDA_OBJ = "LAMBDA"
	THUNK_OBJ  = "THUNK"

	PLOT2D_OBJ       = "PLOT_DATA_2D"
	PLOT3D_OBJ       = "PLOT_DATA_3D"
	HISTOGRAM_OBJ    = "HISTOGRAM_DATA"
	SCATTER_OBJ      = "SCATTER_DATA"
	ERROR_OBJ        = "ERROR"
	NOTIFICATION_OBJ = "NOTIFICATION"

	RUNTIME_ERROR_OBJ = "RUNTIME_ERROR"
)

// Object is the interface satisfied by every value the evaluator produces.
// TypeName is the user-facing name reported in evaluation results; Inspect
// is the user-facing rendering of the value itself.
type Object interface {
	Type() ObjectType
	TypeName() string
	Inspect() string
}

// CallContext is the slice of the evaluator that values and operations are
// allowed to call back into. Forcing a thunk or applying a lambda re-enters
// evaluation, so both live behind this interface to keep the dependency
// pointing one way.
type CallContext interface {
	// Apply calls fn with the given (already evaluated) arguments.
	Apply(fn Object, args []Object) Object
	// Force evaluates a Thunk to its underlying value. Non-thunk values
	// are returned unchanged.
	Force(obj Object) Object
}

type Integer struct {
	Value int64
}

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) TypeName() string { return "Integer" }
func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }

type Float struct {
	Value float64
}

func (f *Float) Type() ObjectType { return FLOAT_OBJ }
func (f *Float) TypeName() string { return "Float" }
func (f *Float) Inspect() string  { return FormatFloat(f.Value) }

type Complex struct {
	Value complex128
}

func (c *Complex) Type() ObjectType { return COMPLEX_OBJ }
func (c *Complex) TypeName() string { return "Complex" }

func (c *Complex) Inspect() string {
	re, im := real(c.Value), imag(c.Value)
	switch {
	case re == 0:
		return FormatFloat(im) + "i"
	case im >= 0:
		return FormatFloat(re) + " + " + FormatFloat(im) + "i"
	default:
		return FormatFloat(re) + " - " + FormatFloat(-im) + "i"
	}
}

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) TypeName() string { return "Boolean" }

func (b *Boolean) Inspect() string {
	if b.Value {
		return "true"
	}
	return "false"
}

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) TypeName() string { return "String" }
func (s *String) Inspect() string  { return s.Value }

// DateTime is a calendar value. DateOnly marks values created as bare
// dates; they render without a time component and report the "Date" type.
type DateTime struct {
	Value    time.Time
	DateOnly bool
}

func (d *DateTime) Type() ObjectType { return DATETIME_OBJ }

func (d *DateTime) TypeName() string {
	if d.DateOnly {
		return "Date"
	}
	return "DateTime"
}

func (d *DateTime) Inspect() string {
	if d.DateOnly {
		return d.Value.Format("2006-01-02")
	}
	return d.Value.Format("2006-01-02T15:04:05")
}

// FormatFloat renders a float the way values are shown to users: whole
// numbers lose the trailing ".0", everything else uses the shortest exact
// representation.
func FormatFloat(v float64) string {
	if v == math.Trunc(v) && !math.IsInf(v, 0) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// elide joins up to 10 rendered items in full; longer sequences show the
// first five and last three around an ellipsis.
func elide(items []string) string {
	if len(items) <= 10 {
		return strings.Join(items, ", ")
	}
	head := strings.Join(items[:5], ", ")
	tail := strings.Join(items[len(items)-3:], ", ")
	return head + ", ..., " + tail
}

// IsNumeric reports whether obj participates in the numeric tower. Booleans
// do not.
func IsNumeric(obj Object) bool {
	switch obj.Type() {
	case INTEGER_OBJ, FLOAT_OBJ, COMPLEX_OBJ:
		return true
	}
	return false
}

// IsTruthy implements the language's truthiness rules: false, zero of any
// numeric type, and the empty string are falsy; everything else is truthy.
func IsTruthy(obj Object) bool {
	switch v := obj.(type) {
	case *Boolean:
		return v.Value
	case *Integer:
		return v.Value != 0
	case *Float:
		return v.Value != 0
	case *Complex:
		return v.Value != 0
	case *String:
		return len(v.Value) > 0
	}
	return true
}
