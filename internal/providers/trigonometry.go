package providers

import (
	"math"
	"math/cmplx"

	"mathlang/internal/object"
	"mathlang/internal/operation"
)

// Trigonometry contributes the trigonometric, inverse and hyperbolic
// operations. Inverse sine and cosine extend to the complex plane when the
// input falls outside [-1, 1].
type Trigonometry struct{}

func (p *Trigonometry) Name() string { return "Trigonometry" }

func (p *Trigonometry) Operations() []*operation.Operation {
	return []*operation.Operation{
		trigOp("Sin", "Sine", "Returns the sine of an angle (in radians)",
			"Trigonometry/Basic", arg("x", "Angle in radians"), math.Sin, cmplx.Sin, false),
		trigOp("Cos", "Cosine", "Returns the cosine of an angle (in radians)",
			"Trigonometry/Basic", arg("x", "Angle in radians"), math.Cos, cmplx.Cos, false),
		trigOp("Tan", "Tangent", "Returns the tangent of an angle (in radians)",
			"Trigonometry/Basic", arg("x", "Angle in radians"), math.Tan, cmplx.Tan, false),
		trigOp("ArcSin", "Arcsine", "Returns the arcsine (inverse sine) in radians",
			"Trigonometry/Inverse", arg("x", "Value between -1 and 1"), math.Asin, cmplx.Asin, true),
		trigOp("ArcCos", "Arccosine", "Returns the arccosine (inverse cosine) in radians",
			"Trigonometry/Inverse", arg("x", "Value between -1 and 1"), math.Acos, cmplx.Acos, true),
		trigOp("ArcTan", "Arctangent", "Returns the arctangent (inverse tangent) in radians",
			"Trigonometry/Inverse", arg("x", "Any real number"), math.Atan, cmplx.Atan, false),
		opArcTan2(),
		trigOp("Sinh", "Hyperbolic Sine", "Returns the hyperbolic sine",
			"Trigonometry/Hyperbolic", arg("x", "Any number"), math.Sinh, cmplx.Sinh, false),
		trigOp("Cosh", "Hyperbolic Cosine", "Returns the hyperbolic cosine",
			"Trigonometry/Hyperbolic", arg("x", "Any number"), math.Cosh, cmplx.Cosh, false),
		trigOp("Tanh", "Hyperbolic Tangent", "Returns the hyperbolic tangent",
			"Trigonometry/Hyperbolic", arg("x", "Any number"), math.Tanh, cmplx.Tanh, false),
		trigOp("ToRadians", "Degrees to Radians", "Converts degrees to radians",
			"Trigonometry/Conversion", arg("degrees", "Angle in degrees"),
			func(x float64) float64 { return x * math.Pi / 180 }, nil, false),
		trigOp("ToDegrees", "Radians to Degrees", "Converts radians to degrees",
			"Trigonometry/Conversion", arg("radians", "Angle in radians"),
			func(x float64) float64 { return x * 180 / math.Pi }, nil, false),
	}
}

// trigOp builds a single-argument numeric operation. realFn handles real
// inputs and complexFn complex ones; when escapes is set, real inputs
// outside [-1, 1] are promoted to complex instead of producing NaN. A nil
// complexFn rejects complex input.
func trigOp(ident, name, desc, category string, info operation.ArgInfo,
	realFn func(float64) float64, complexFn func(complex128) complex128, escapes bool) *operation.Operation {
	return &operation.Operation{
		Identifier:  ident,
		Name:        name,
		Description: desc,
		Category:    category,
		Required:    []operation.ArgInfo{info},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			v, isComplex, err := scalar(ident, args[0])
			if err != nil {
				return err
			}
			if isComplex {
				if complexFn == nil {
					return object.NewError(object.TypeError, "%s does not support complex numbers", ident)
				}
				return &object.Complex{Value: complexFn(v)}
			}
			x := real(v)
			if escapes && (x < -1 || x > 1) {
				return &object.Complex{Value: complexFn(v)}
			}
			return &object.Float{Value: realFn(x)}
		},
	}
}

func opArcTan2() *operation.Operation {
	return &operation.Operation{
		Identifier:  "ArcTan2",
		Name:        "Arctangent2",
		Description: "Returns the arctangent of y/x, using signs to determine quadrant",
		Category:    "Trigonometry/Inverse",
		Required: []operation.ArgInfo{
			arg("y", "Y coordinate"),
			arg("x", "X coordinate"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			yv, yc, yerr := scalar("ArcTan2", args[0])
			if yerr != nil {
				return yerr
			}
			xv, xc, xerr := scalar("ArcTan2", args[1])
			if xerr != nil {
				return xerr
			}
			if yc || xc {
				return object.NewError(object.TypeError, "ArcTan2 does not support complex numbers")
			}
			return &object.Float{Value: math.Atan2(real(yv), real(xv))}
		},
	}
}
