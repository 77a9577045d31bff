package providers

import (
	"math"
	"math/cmplx"
	"math/rand"

	"mathlang/internal/object"
	"mathlang/internal/operation"
)

// Arithmetic contributes the basic numeric operations.
type Arithmetic struct{}

func (p *Arithmetic) Name() string { return "Arithmetic" }

func (p *Arithmetic) Operations() []*operation.Operation {
	return []*operation.Operation{
		opAbs(), opSqrt(), opFloor(), opCeiling(), opRound(),
		opLog(), opLog10(), opExp(), opMin(), opMax(), opRandom(),
	}
}

func opAbs() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Abs",
		Name:        "Absolute Value",
		Description: "Returns the absolute value of a number",
		Category:    "Arithmetic/Basic",
		Required:    []operation.ArgInfo{arg("x", "The number")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			switch n := args[0].(type) {
			case *object.Integer:
				if n.Value < 0 {
					return &object.Integer{Value: -n.Value}
				}
				return n
			case *object.Float:
				return &object.Float{Value: math.Abs(n.Value)}
			case *object.Complex:
				// The magnitude of a complex number is real.
				return &object.Float{Value: cmplx.Abs(n.Value)}
			}
			return object.NewError(object.TypeError, "Abs expects a number, got %s", args[0].TypeName())
		},
	}
}

func opSqrt() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Sqrt",
		Name:        "Square Root",
		Description: "Returns the square root of a number",
		Category:    "Arithmetic/Basic",
		Required:    []operation.ArgInfo{arg("x", "The number (must be non-negative)")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			v, isComplex, err := scalar("Sqrt", args[0])
			if err != nil {
				return err
			}
			if isComplex {
				return &object.Complex{Value: cmplx.Sqrt(v)}
			}
			x := real(v)
			if x < 0 {
				// Negative reals have a purely imaginary root.
				return &object.Complex{Value: cmplx.Sqrt(v)}
			}
			return &object.Float{Value: math.Sqrt(x)}
		},
	}
}

func opFloor() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Floor",
		Name:        "Floor",
		Description: "Returns the largest integer less than or equal to x",
		Category:    "Arithmetic/Rounding",
		Required:    []operation.ArgInfo{arg("x", "The number")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			x, err := number("Floor", args[0])
			if err != nil {
				return object.NewError(object.TypeError, "Floor expects a number, got %s", args[0].TypeName())
			}
			return &object.Integer{Value: int64(math.Floor(x))}
		},
	}
}

func opCeiling() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Ceiling",
		Name:        "Ceiling",
		Description: "Returns the smallest integer greater than or equal to x",
		Category:    "Arithmetic/Rounding",
		Required:    []operation.ArgInfo{arg("x", "The number")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			x, err := number("Ceiling", args[0])
			if err != nil {
				return object.NewError(object.TypeError, "Ceiling expects a number, got %s", args[0].TypeName())
			}
			return &object.Integer{Value: int64(math.Ceil(x))}
		},
	}
}

func opRound() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Round",
		Name:        "Round",
		Description: "Rounds a number to the nearest integer or specified decimal places",
		Category:    "Arithmetic/Rounding",
		Required:    []operation.ArgInfo{arg("x", "The number")},
		Optional:    []operation.ArgInfo{arg("decimals", "Number of decimal places")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			x, err := number("Round", args[0])
			if err != nil {
				return object.NewError(object.TypeError, "Round expects a number, got %s", args[0].TypeName())
			}
			if len(args) == 1 {
				// Ties round to the even neighbour.
				return &object.Integer{Value: int64(math.RoundToEven(x))}
			}
			d, derr := integer("decimals", args[1])
			if derr != nil {
				return object.NewError(object.TypeError, "Round decimals must be an integer, got %s", args[1].TypeName())
			}
			factor := math.Pow(10, float64(d))
			return &object.Float{Value: math.RoundToEven(x*factor) / factor}
		},
	}
}

func opLog() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Log",
		Name:        "Natural Logarithm",
		Description: "Returns the natural logarithm of a number",
		Category:    "Arithmetic/Logarithms",
		Required:    []operation.ArgInfo{arg("x", "The number (must be positive)")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			v, isComplex, err := scalar("Log", args[0])
			if err != nil {
				return err
			}
			if isComplex {
				return &object.Complex{Value: cmplx.Log(v)}
			}
			x := real(v)
			if x <= 0 {
				return object.NewError(object.TypeError, "Log requires a positive number")
			}
			return &object.Float{Value: math.Log(x)}
		},
	}
}

func opLog10() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Log10",
		Name:        "Base-10 Logarithm",
		Description: "Returns the base-10 logarithm of a number",
		Category:    "Arithmetic/Logarithms",
		Required:    []operation.ArgInfo{arg("x", "The number (must be positive)")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			v, isComplex, err := scalar("Log10", args[0])
			if err != nil {
				return err
			}
			if isComplex {
				return &object.Complex{Value: cmplx.Log10(v)}
			}
			x := real(v)
			if x <= 0 {
				return object.NewError(object.TypeError, "Log10 requires a positive number")
			}
			return &object.Float{Value: math.Log10(x)}
		},
	}
}

func opExp() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Exp",
		Name:        "Exponential",
		Description: "Returns e raised to the power of x",
		Category:    "Arithmetic/Exponential",
		Required:    []operation.ArgInfo{arg("x", "The exponent")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			v, isComplex, err := scalar("Exp", args[0])
			if err != nil {
				return err
			}
			if isComplex {
				return &object.Complex{Value: cmplx.Exp(v)}
			}
			return &object.Float{Value: math.Exp(real(v))}
		},
	}
}

func opMin() *operation.Operation {
	info := arg("numbers", "Numbers to compare")
	return &operation.Operation{
		Identifier:  "Min",
		Name:        "Minimum",
		Description: "Returns the smallest of the given numbers",
		Category:    "Arithmetic/Comparison",
		Variadic:    true,
		VariadicArg: &info,
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			return pickExtreme("Min", args, func(a, b float64) bool { return a < b })
		},
	}
}

func opMax() *operation.Operation {
	info := arg("numbers", "Numbers to compare")
	return &operation.Operation{
		Identifier:  "Max",
		Name:        "Maximum",
		Description: "Returns the largest of the given numbers",
		Category:    "Arithmetic/Comparison",
		Variadic:    true,
		VariadicArg: &info,
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			return pickExtreme("Max", args, func(a, b float64) bool { return a > b })
		},
	}
}

// pickExtreme returns the argument that wins every pairwise comparison,
// preserving its original Integer or Float representation.
func pickExtreme(op string, args []object.Object, better func(a, b float64) bool) object.Object {
	if len(args) == 0 {
		return object.NewError(object.ArityError, "%s requires at least one argument", op)
	}
	best := args[0]
	bestVal, err := number(op, best)
	if err != nil {
		return object.NewError(object.TypeError, "%s expects numbers, got %s", op, best.TypeName())
	}
	for _, a := range args[1:] {
		v, err := number(op, a)
		if err != nil {
			return object.NewError(object.TypeError, "%s expects numbers, got %s", op, a.TypeName())
		}
		if better(v, bestVal) {
			best, bestVal = a, v
		}
	}
	return best
}

func opRandom() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Random",
		Name:        "Random",
		Description: "Returns a random number. With no args: [0, 1). With one arg n: integer [0, n). With two args a, b: [a, b).",
		Category:    "Arithmetic/Random",
		Optional: []operation.ArgInfo{
			arg("a", "Upper bound (exclusive) or lower bound if b provided"),
			arg("b", "Upper bound (exclusive)"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			switch len(args) {
			case 0:
				return &object.Float{Value: rand.Float64()}
			case 1:
				n, err := integer("Random", args[0])
				if err != nil {
					return object.NewError(object.TypeError, "Random expects a number, got %s", args[0].TypeName())
				}
				if n <= 0 {
					return object.NewError(object.TypeError, "Random upper bound must be positive, got %d", n)
				}
				return &object.Integer{Value: rand.Int63n(n)}
			default:
				a, aerr := number("Random", args[0])
				b, berr := number("Random", args[1])
				if aerr != nil || berr != nil {
					return object.NewError(object.TypeError, "Random expects numbers")
				}
				return &object.Float{Value: a + rand.Float64()*(b-a)}
			}
		},
	}
}
