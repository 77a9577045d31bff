package evaluator

import (
	"math"
	"math/cmplx"

	"mathlang/internal/object"
)

func evalUnaryOp(operator string, operand object.Object) object.Object {
	switch operator {
	case "-":
		switch v := operand.(type) {
		case *object.Integer:
			return &object.Integer{Value: -v.Value}
		case *object.Float:
			return &object.Float{Value: -v.Value}
		case *object.Complex:
			return &object.Complex{Value: -v.Value}
		case *object.Vector:
			elems := make([]object.Object, len(v.Elements))
			for i, el := range v.Elements {
				neg := evalUnaryOp("-", el)
				if object.IsError(neg) {
					return neg
				}
				elems[i] = neg
			}
			return &object.Vector{Elements: elems}
		}
		return object.NewError(object.TypeError, "Cannot negate %s", operand.TypeName())
	case "!":
		return &object.Boolean{Value: !object.IsTruthy(operand)}
	}
	return object.NewError(object.TypeError, "Unknown unary operator '%s'", operator)
}

func evalBinaryOp(operator string, left, right object.Object) object.Object {
	lv, lok := left.(*object.Vector)
	rv, rok := right.(*object.Vector)
	switch {
	case lok && rok:
		return evalVectorVector(operator, lv, rv)
	case lok:
		return evalVectorScalar(operator, lv, right, false)
	case rok:
		return evalVectorScalar(operator, rv, left, true)
	}
	return evalScalarBinary(operator, left, right)
}

func evalVectorVector(operator string, left, right *object.Vector) object.Object {
	if len(left.Elements) != len(right.Elements) {
		return object.NewError(object.DimensionError,
			"Vectors must have the same length: %d and %d", len(left.Elements), len(right.Elements))
	}
	elems := make([]object.Object, len(left.Elements))
	for i := range left.Elements {
		r := evalScalarBinary(operator, left.Elements[i], right.Elements[i])
		if object.IsError(r) {
			return r
		}
		elems[i] = r
	}
	return &object.Vector{Elements: elems}
}

// evalVectorScalar broadcasts a scalar across a vector. flipped marks the
// scalar as the left operand, which matters for non-commutative operators.
func evalVectorScalar(operator string, vec *object.Vector, scalar object.Object, flipped bool) object.Object {
	elems := make([]object.Object, len(vec.Elements))
	for i, el := range vec.Elements {
		var r object.Object
		if flipped {
			r = evalScalarBinary(operator, scalar, el)
		} else {
			r = evalScalarBinary(operator, el, scalar)
		}
		if object.IsError(r) {
			return r
		}
		elems[i] = r
	}
	return &object.Vector{Elements: elems}
}

func evalScalarBinary(operator string, left, right object.Object) object.Object {
	if ls, ok := left.(*object.String); ok {
		if rs, ok := right.(*object.String); ok {
			return evalStringBinary(operator, ls.Value, rs.Value)
		}
	}

	if lb, ok := left.(*object.Boolean); ok {
		if rb, ok := right.(*object.Boolean); ok {
			switch operator {
			case "==":
				return &object.Boolean{Value: lb.Value == rb.Value}
			case "!=":
				return &object.Boolean{Value: lb.Value != rb.Value}
			}
		}
	}

	if object.IsNumeric(left) && object.IsNumeric(right) {
		return evalNumericBinary(operator, left, right)
	}

	return object.NewError(object.TypeError,
		"Cannot apply '%s' to %s and %s", operator, left.TypeName(), right.TypeName())
}

func evalStringBinary(operator, left, right string) object.Object {
	switch operator {
	case "+":
		return &object.String{Value: left + right}
	case "==":
		return &object.Boolean{Value: left == right}
	case "!=":
		return &object.Boolean{Value: left != right}
	case "<":
		return &object.Boolean{Value: left < right}
	case "<=":
		return &object.Boolean{Value: left <= right}
	case ">":
		return &object.Boolean{Value: left > right}
	case ">=":
		return &object.Boolean{Value: left >= right}
	}
	return object.NewError(object.TypeError, "Cannot apply '%s' to String and String", operator)
}

// evalNumericBinary promotes integer -> float -> complex and dispatches at
// the widest operand type. Integer results stay integers whenever the
// operator is closed over them; division is the exception and only stays
// integral when exact.
func evalNumericBinary(operator string, left, right object.Object) object.Object {
	_, lc := left.(*object.Complex)
	_, rc := right.(*object.Complex)
	if lc || rc {
		l, _ := asComplex(left)
		r, _ := asComplex(right)
		return evalComplexBinary(operator, l, r)
	}

	li, lInt := left.(*object.Integer)
	ri, rInt := right.(*object.Integer)
	if lInt && rInt {
		return evalIntegerBinary(operator, li.Value, ri.Value)
	}

	return evalFloatBinary(operator, asFloat(left), asFloat(right))
}

func evalIntegerBinary(operator string, left, right int64) object.Object {
	switch operator {
	case "+":
		return &object.Integer{Value: left + right}
	case "-":
		return &object.Integer{Value: left - right}
	case "*":
		return &object.Integer{Value: left * right}
	case "/":
		if right == 0 {
			return object.NewError(object.DivisionByZero, "Division by zero")
		}
		if left%right == 0 {
			return &object.Integer{Value: left / right}
		}
		return &object.Float{Value: float64(left) / float64(right)}
	case "%":
		if right == 0 {
			return object.NewError(object.DivisionByZero, "Division by zero")
		}
		m := left % right
		if m != 0 && (m < 0) != (right < 0) {
			m += right
		}
		return &object.Integer{Value: m}
	case "^":
		if right >= 0 {
			if v, ok := ipow(left, right); ok {
				return &object.Integer{Value: v}
			}
		}
		return &object.Float{Value: math.Pow(float64(left), float64(right))}
	case "==":
		return &object.Boolean{Value: left == right}
	case "!=":
		return &object.Boolean{Value: left != right}
	case "<":
		return &object.Boolean{Value: left < right}
	case "<=":
		return &object.Boolean{Value: left <= right}
	case ">":
		return &object.Boolean{Value: left > right}
	case ">=":
		return &object.Boolean{Value: left >= right}
	}
	return object.NewError(object.TypeError, "Unknown operator '%s'", operator)
}

func evalFloatBinary(operator string, left, right float64) object.Object {
	switch operator {
	case "+":
		return &object.Float{Value: left + right}
	case "-":
		return &object.Float{Value: left - right}
	case "*":
		return &object.Float{Value: left * right}
	case "/":
		if right == 0 {
			return object.NewError(object.DivisionByZero, "Division by zero")
		}
		return &object.Float{Value: left / right}
	case "%":
		if right == 0 {
			return object.NewError(object.DivisionByZero, "Division by zero")
		}
		m := math.Mod(left, right)
		if m != 0 && (m < 0) != (right < 0) {
			m += right
		}
		return &object.Float{Value: m}
	case "^":
		return &object.Float{Value: math.Pow(left, right)}
	case "==":
		return &object.Boolean{Value: left == right}
	case "!=":
		return &object.Boolean{Value: left != right}
	case "<":
		return &object.Boolean{Value: left < right}
	case "<=":
		return &object.Boolean{Value: left <= right}
	case ">":
		return &object.Boolean{Value: left > right}
	case ">=":
		return &object.Boolean{Value: left >= right}
	}
	return object.NewError(object.TypeError, "Unknown operator '%s'", operator)
}

func evalComplexBinary(operator string, left, right complex128) object.Object {
	switch operator {
	case "+":
		return &object.Complex{Value: left + right}
	case "-":
		return &object.Complex{Value: left - right}
	case "*":
		return &object.Complex{Value: left * right}
	case "/":
		if right == 0 {
			return object.NewError(object.DivisionByZero, "Division by zero")
		}
		return &object.Complex{Value: left / right}
	case "^":
		return &object.Complex{Value: cmplx.Pow(left, right)}
	case "==":
		return &object.Boolean{Value: left == right}
	case "!=":
		return &object.Boolean{Value: left != right}
	}
	return object.NewError(object.TypeError, "Cannot apply '%s' to Complex and Complex", operator)
}

func evalArrayIndex(left, index object.Object) object.Object {
	idx, ok := index.(*object.Integer)
	if !ok {
		return object.NewError(object.TypeError,
			"Array index must be an integer, got %s", index.TypeName())
	}
	i := int(idx.Value)

	switch coll := left.(type) {
	case *object.Vector:
		if i < 0 || i >= len(coll.Elements) {
			return object.NewError(object.IndexError,
				"Index %d out of bounds for vector of length %d", i, len(coll.Elements))
		}
		return coll.Elements[i]
	case *object.List:
		if i < 0 || i >= len(coll.Items) {
			return object.NewError(object.IndexError,
				"Index %d out of bounds for list of length %d", i, len(coll.Items))
		}
		return coll.Items[i]
	case *object.Interval:
		// At counts negative indices from the end; indexing syntax does not
		el, ok := coll.At(i)
		if i < 0 || !ok {
			return object.NewError(object.IndexError,
				"Index %d out of bounds for interval of length %d", i, coll.Len())
		}
		return el
	}

	return object.NewError(object.TypeError, "Cannot index into %s", left.TypeName())
}

// ipow raises base to a non-negative power. The second return reports
// whether the result fits in int64; when it does not, the caller widens
// to float64, the same policy combinatorics results follow.
func ipow(base, exp int64) (int64, bool) {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			var ok bool
			if result, ok = mulInt64(result, base); !ok {
				return 0, false
			}
		}
		exp >>= 1
		if exp > 0 {
			var ok bool
			if base, ok = mulInt64(base, base); !ok {
				return 0, false
			}
		}
	}
	return result, true
}

func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	r := a * b
	if r/b != a || (a == math.MinInt64 && b == -1) {
		return 0, false
	}
	return r, true
}

func asFloat(obj object.Object) float64 {
	switch v := obj.(type) {
	case *object.Integer:
		return float64(v.Value)
	case *object.Float:
		return v.Value
	}
	return 0
}

func asComplex(obj object.Object) (complex128, bool) {
	switch v := obj.(type) {
	case *object.Integer:
		return complex(float64(v.Value), 0), true
	case *object.Float:
		return complex(v.Value, 0), true
	case *object.Complex:
		return v.Value, true
	}
	return 0, false
}
