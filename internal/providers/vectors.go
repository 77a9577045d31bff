package providers

import (
	"math"

	"mathlang/internal/object"
	"mathlang/internal/operation"
)

// Vectors contributes vector algebra. Any operation taking a vector also
// accepts a List or Interval of numbers in its place.
type Vectors struct{}

func (p *Vectors) Name() string { return "Vectors" }

func (p *Vectors) Operations() []*operation.Operation {
	return []*operation.Operation{
		opVector(), opVecFromList(), opDotProduct(), opCrossProduct(),
		opMagnitude(), opNormalize(), opVecAngle(), opVecAdd(), opVecSub(),
		opVecScale(), opVecDim(), opVecComponent(), opZeroVec(), opUnitVec(),
		opProjection(),
	}
}

// vecFloats extracts numeric components from a Vector, List or Interval.
func vecFloats(name string, v object.Object) ([]float64, *object.RuntimeError) {
	switch c := v.(type) {
	case *object.Vector:
		out := make([]float64, len(c.Elements))
		for i, e := range c.Elements {
			n, err := number(name, e)
			if err != nil {
				return nil, object.NewError(object.TypeError, "%s must contain only numbers", name)
			}
			out[i] = n
		}
		return out, nil
	case *object.List, *object.Interval:
		out, err := floats(name, v)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, object.NewError(object.TypeError, "%s must be a vector, list, or interval, got %s", name, v.TypeName())
}

func floatVector(values []float64) *object.Vector {
	elems := make([]object.Object, len(values))
	for i, v := range values {
		elems[i] = &object.Float{Value: v}
	}
	return &object.Vector{Elements: elems}
}

// sameDim extracts two vectors and checks they share a dimension.
func sameDim(args []object.Object) (v1, v2 []float64, failed object.Object) {
	v1, err1 := vecFloats("v1", args[0])
	if err1 != nil {
		return nil, nil, err1
	}
	v2, err2 := vecFloats("v2", args[1])
	if err2 != nil {
		return nil, nil, err2
	}
	if len(v1) != len(v2) {
		return nil, nil, object.NewError(object.DimensionError, "Vectors must have same dimension: %d vs %d", len(v1), len(v2))
	}
	return v1, v2, nil
}

func dot(a, b []float64) float64 {
	total := 0.0
	for i := range a {
		total += a[i] * b[i]
	}
	return total
}

func magnitude(v []float64) float64 {
	return math.Sqrt(dot(v, v))
}

func opVector() *operation.Operation {
	info := arg("components", "Numeric components of the vector")
	return &operation.Operation{
		Identifier:  "Vector",
		Name:        "Create Vector",
		Description: "Creates a vector from the given numeric arguments",
		Category:    "Vectors/Creation",
		Variadic:    true,
		VariadicArg: &info,
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			elems := make([]object.Object, len(args))
			for i, a := range args {
				switch a.(type) {
				case *object.Integer, *object.Float:
					elems[i] = a
				default:
					return object.NewError(object.TypeError, "Vector components must be numeric, got %s", a.TypeName())
				}
			}
			return &object.Vector{Elements: elems}
		},
	}
}

func opVecFromList() *operation.Operation {
	return &operation.Operation{
		Identifier:  "VecFromList",
		Name:        "Vector from List",
		Description: "Creates a vector from a list of numbers",
		Category:    "Vectors/Creation",
		Required:    []operation.ArgInfo{arg("list", "List of numeric values")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			components, err := vecFloats("list", args[0])
			if err != nil {
				return err
			}
			return floatVector(components)
		},
	}
}

func opDotProduct() *operation.Operation {
	return &operation.Operation{
		Identifier:  "DotProduct",
		Name:        "Dot Product",
		Description: "Calculates the dot product of two vectors",
		Category:    "Vectors/Operations",
		Required: []operation.ArgInfo{
			arg("v1", "First vector"),
			arg("v2", "Second vector"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			v1, v2, failed := sameDim(args)
			if failed != nil {
				return failed
			}
			return &object.Float{Value: dot(v1, v2)}
		},
	}
}

func opCrossProduct() *operation.Operation {
	return &operation.Operation{
		Identifier:  "CrossProduct",
		Name:        "Cross Product",
		Description: "Calculates the cross product of two 3D vectors",
		Category:    "Vectors/Operations",
		Required: []operation.ArgInfo{
			arg("v1", "First 3D vector"),
			arg("v2", "Second 3D vector"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			v1, err1 := vecFloats("v1", args[0])
			if err1 != nil {
				return err1
			}
			v2, err2 := vecFloats("v2", args[1])
			if err2 != nil {
				return err2
			}
			if len(v1) != 3 || len(v2) != 3 {
				return object.NewError(object.DimensionError, "Cross product requires 3D vectors")
			}
			return floatVector([]float64{
				v1[1]*v2[2] - v1[2]*v2[1],
				v1[2]*v2[0] - v1[0]*v2[2],
				v1[0]*v2[1] - v1[1]*v2[0],
			})
		},
	}
}

func opMagnitude() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Magnitude",
		Name:        "Magnitude",
		Description: "Calculates the magnitude (length) of a vector",
		Category:    "Vectors/Properties",
		Required:    []operation.ArgInfo{arg("v", "The vector")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			v, err := vecFloats("v", args[0])
			if err != nil {
				return err
			}
			return &object.Float{Value: magnitude(v)}
		},
	}
}

func opNormalize() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Normalize",
		Name:        "Normalize",
		Description: "Returns the unit vector in the same direction",
		Category:    "Vectors/Operations",
		Required:    []operation.ArgInfo{arg("v", "The vector to normalize")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			v, err := vecFloats("v", args[0])
			if err != nil {
				return err
			}
			mag := magnitude(v)
			if mag == 0 {
				return object.NewError(object.DivisionByZero, "Cannot normalize zero vector")
			}
			out := make([]float64, len(v))
			for i, x := range v {
				out[i] = x / mag
			}
			return floatVector(out)
		},
	}
}

func opVecAngle() *operation.Operation {
	return &operation.Operation{
		Identifier:  "VecAngle",
		Name:        "Angle Between Vectors",
		Description: "Calculates the angle between two vectors in radians",
		Category:    "Vectors/Properties",
		Required: []operation.ArgInfo{
			arg("v1", "First vector"),
			arg("v2", "Second vector"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			v1, v2, failed := sameDim(args)
			if failed != nil {
				return failed
			}
			mag1, mag2 := magnitude(v1), magnitude(v2)
			if mag1 == 0 || mag2 == 0 {
				return object.NewError(object.DivisionByZero, "Cannot calculate angle with zero vector")
			}
			cos := dot(v1, v2) / (mag1 * mag2)
			// Clamp against floating point drift outside [-1, 1].
			cos = math.Max(-1, math.Min(1, cos))
			return &object.Float{Value: math.Acos(cos)}
		},
	}
}

func vecElementwise(ident, name, desc string, fn func(a, b float64) float64) *operation.Operation {
	return &operation.Operation{
		Identifier:  ident,
		Name:        name,
		Description: desc,
		Category:    "Vectors/Arithmetic",
		Required: []operation.ArgInfo{
			arg("v1", "First vector"),
			arg("v2", "Second vector"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			v1, v2, failed := sameDim(args)
			if failed != nil {
				return failed
			}
			out := make([]float64, len(v1))
			for i := range v1 {
				out[i] = fn(v1[i], v2[i])
			}
			return floatVector(out)
		},
	}
}

func opVecAdd() *operation.Operation {
	return vecElementwise("VecAdd", "Vector Addition", "Adds two vectors element-wise",
		func(a, b float64) float64 { return a + b })
}

func opVecSub() *operation.Operation {
	return vecElementwise("VecSub", "Vector Subtraction", "Subtracts the second vector from the first",
		func(a, b float64) float64 { return a - b })
}

func opVecScale() *operation.Operation {
	return &operation.Operation{
		Identifier:  "VecScale",
		Name:        "Vector Scaling",
		Description: "Multiplies a vector by a scalar",
		Category:    "Vectors/Arithmetic",
		Required: []operation.ArgInfo{
			arg("v", "The vector"),
			arg("scalar", "The scalar to multiply by"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			v, err := vecFloats("v", args[0])
			if err != nil {
				return err
			}
			s, serr := number("Scalar", args[1])
			if serr != nil {
				return object.NewError(object.TypeError, "Scalar must be numeric, got %s", args[1].TypeName())
			}
			out := make([]float64, len(v))
			for i, x := range v {
				out[i] = x * s
			}
			return floatVector(out)
		},
	}
}

func opVecDim() *operation.Operation {
	return &operation.Operation{
		Identifier:  "VecDim",
		Name:        "Vector Dimension",
		Description: "Returns the dimension (number of components) of a vector",
		Category:    "Vectors/Properties",
		Required:    []operation.ArgInfo{arg("v", "The vector")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			v, err := vecFloats("v", args[0])
			if err != nil {
				return err
			}
			return &object.Integer{Value: int64(len(v))}
		},
	}
}

func opVecComponent() *operation.Operation {
	return &operation.Operation{
		Identifier:  "VecComponent",
		Name:        "Vector Component",
		Description: "Gets a specific component of a vector (0-indexed)",
		Category:    "Vectors/Access",
		Required: []operation.ArgInfo{
			arg("v", "The vector"),
			arg("index", "Component index (0-based)"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			v, err := vecFloats("v", args[0])
			if err != nil {
				return err
			}
			idx, ierr := integer("Index", args[1])
			if ierr != nil {
				return ierr
			}
			if idx < 0 || idx >= int64(len(v)) {
				return object.NewError(object.IndexError, "Index %d out of range for vector of dimension %d", idx, len(v))
			}
			return &object.Float{Value: v[idx]}
		},
	}
}

func opZeroVec() *operation.Operation {
	return &operation.Operation{
		Identifier:  "ZeroVec",
		Name:        "Zero Vector",
		Description: "Creates a zero vector of specified dimension",
		Category:    "Vectors/Creation",
		Required:    []operation.ArgInfo{arg("dim", "Dimension of the vector")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			dim, err := integer("Dimension", args[0])
			if err != nil {
				return err
			}
			if dim <= 0 {
				return object.NewError(object.DimensionError, "Dimension must be positive, got %d", dim)
			}
			return floatVector(make([]float64, dim))
		},
	}
}

func opUnitVec() *operation.Operation {
	return &operation.Operation{
		Identifier:  "UnitVec",
		Name:        "Unit Vector",
		Description: "Creates a unit vector along a specified axis",
		Category:    "Vectors/Creation",
		Required: []operation.ArgInfo{
			arg("dim", "Dimension of the vector"),
			arg("axis", "Axis index (0-based)"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			dim, derr := integer("Dimension", args[0])
			if derr != nil {
				return derr
			}
			axis, aerr := integer("Axis", args[1])
			if aerr != nil {
				return aerr
			}
			if dim <= 0 {
				return object.NewError(object.DimensionError, "Dimension must be positive, got %d", dim)
			}
			if axis < 0 || axis >= dim {
				return object.NewError(object.IndexError, "Axis %d out of range for dimension %d", axis, dim)
			}
			out := make([]float64, dim)
			out[axis] = 1
			return floatVector(out)
		},
	}
}

func opProjection() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Projection",
		Name:        "Vector Projection",
		Description: "Projects vector v1 onto vector v2",
		Category:    "Vectors/Operations",
		Required: []operation.ArgInfo{
			arg("v1", "Vector to project"),
			arg("v2", "Vector to project onto"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			v1, v2, failed := sameDim(args)
			if failed != nil {
				return failed
			}
			denom := dot(v2, v2)
			if denom == 0 {
				return object.NewError(object.DivisionByZero, "Cannot project onto zero vector")
			}
			scale := dot(v1, v2) / denom
			out := make([]float64, len(v2))
			for i, x := range v2 {
				out[i] = x * scale
			}
			return floatVector(out)
		},
	}
}
