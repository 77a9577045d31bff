// Package providers contains the built-in operation providers. Each provider
// contributes one category family of operations; All returns the full set a
// host registers into a fresh registry at startup.
package providers

import (
	"mathlang/internal/object"
	"mathlang/internal/operation"
)

// All returns every built-in provider.
func All() []operation.Provider {
	return []operation.Provider{
		&Arithmetic{},
		&Trigonometry{},
		&Constants{},
		&Logical{},
		&Lists{},
		&Strings{},
		&Statistics{},
		&Combinatorics{},
		&Vectors{},
		&DateTimeOps{},
		&Visualization{},
	}
}

func arg(name, desc string) operation.ArgInfo {
	return operation.ArgInfo{Name: name, Description: desc}
}

// number unwraps an Integer or Float argument. Complex and non-numeric
// values are rejected; callers that accept complex use scalar instead.
func number(name string, v object.Object) (float64, *object.RuntimeError) {
	switch n := v.(type) {
	case *object.Integer:
		return float64(n.Value), nil
	case *object.Float:
		return n.Value, nil
	}
	return 0, object.NewError(object.TypeError, "%s must be a number, got %s", name, v.TypeName())
}

func integer(name string, v object.Object) (int64, *object.RuntimeError) {
	if n, ok := v.(*object.Integer); ok {
		return n.Value, nil
	}
	return 0, object.NewError(object.TypeError, "%s must be an integer, got %s", name, v.TypeName())
}

// scalar unwraps any numeric argument, widening to complex. The second
// return reports whether the value really was complex.
func scalar(op string, v object.Object) (complex128, bool, *object.RuntimeError) {
	switch n := v.(type) {
	case *object.Integer:
		return complex(float64(n.Value), 0), false, nil
	case *object.Float:
		return complex(n.Value, 0), false, nil
	case *object.Complex:
		return n.Value, true, nil
	}
	return 0, false, object.NewError(object.TypeError, "%s expects a number, got %s", op, v.TypeName())
}

// floats extracts a slice of float64 from a List, Vector or Interval.
func floats(name string, v object.Object) ([]float64, *object.RuntimeError) {
	var items []object.Object
	switch c := v.(type) {
	case *object.List:
		items = c.Items
	case *object.Vector:
		items = c.Elements
	case *object.Interval:
		return c.Values(), nil
	default:
		return nil, object.NewError(object.TypeError, "%s must be a list, got %s", name, v.TypeName())
	}
	out := make([]float64, len(items))
	for i, it := range items {
		switch n := it.(type) {
		case *object.Integer:
			out[i] = float64(n.Value)
		case *object.Float:
			out[i] = n.Value
		default:
			return nil, object.NewError(object.TypeError, "%s must contain only numbers", name)
		}
	}
	return out, nil
}

func floatList(values []float64) *object.List {
	items := make([]object.Object, len(values))
	for i, v := range values {
		items[i] = &object.Float{Value: v}
	}
	return &object.List{Items: items}
}
