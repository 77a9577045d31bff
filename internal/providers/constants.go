package providers

import (
	"math"

	"mathlang/internal/object"
	"mathlang/internal/operation"
)

// Phi is the golden ratio.
var Phi = (1 + math.Sqrt(5)) / 2

// Constants contributes the named constants. Each is a zero-argument
// operation, which also makes it reachable through [[NAME]] syntax.
type Constants struct{}

func (p *Constants) Name() string { return "Constants" }

func (p *Constants) Operations() []*operation.Operation {
	return []*operation.Operation{
		constOp("PI", "Pi", "The mathematical constant π (3.14159...)",
			"Constants/Mathematical", &object.Float{Value: math.Pi}),
		constOp("E", "Euler's Number", "The mathematical constant e (2.71828...)",
			"Constants/Mathematical", &object.Float{Value: math.E}),
		constOp("PHI", "Golden Ratio", "The golden ratio φ (1.61803...)",
			"Constants/Mathematical", &object.Float{Value: Phi}),
		constOp("TAU", "Tau", "The mathematical constant τ = 2π (6.28318...)",
			"Constants/Mathematical", &object.Float{Value: 2 * math.Pi}),
		constOp("INF", "Infinity", "Positive infinity",
			"Constants/Special", &object.Float{Value: math.Inf(1)}),
		constOp("NAN", "Not a Number", "Not a Number (NaN)",
			"Constants/Special", &object.Float{Value: math.NaN()}),
		constOp("HoursInDay", "Hours in a Day", "Number of hours in a day (24)",
			"Constants/Time", &object.Integer{Value: 24}),
		constOp("MinutesInHour", "Minutes in an Hour", "Number of minutes in an hour (60)",
			"Constants/Time", &object.Integer{Value: 60}),
		constOp("SecondsInMinute", "Seconds in a Minute", "Number of seconds in a minute (60)",
			"Constants/Time", &object.Integer{Value: 60}),
		constOp("SpeedOfLight", "Speed of Light", "Speed of light in m/s (299792458)",
			"Constants/Physics", &object.Integer{Value: 299792458}),
		constOp("GravitationalConstant", "Gravitational Constant", "Gravitational constant G in m³/(kg·s²)",
			"Constants/Physics", &object.Float{Value: 6.67430e-11}),
		constOp("PlanckConstant", "Planck Constant", "Planck constant h in J·s",
			"Constants/Physics", &object.Float{Value: 6.62607015e-34}),
	}
}

func constOp(ident, name, desc, category string, value object.Object) *operation.Operation {
	return &operation.Operation{
		Identifier:  ident,
		Name:        name,
		Description: desc,
		Category:    category,
		Execute: func(_ []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			return value
		},
	}
}
