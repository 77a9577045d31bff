package providers

import (
	"math"

	"mathlang/internal/object"
	"mathlang/internal/operation"
)

// Logical contributes boolean combinators and the lazy conditional. And and
// Or receive every argument as a thunk and stop forcing at the first
// deciding value, so `Or(true, crash())` never evaluates the crash.
type Logical struct{}

func (p *Logical) Name() string { return "Logical" }

func (p *Logical) Operations() []*operation.Operation {
	return []*operation.Operation{
		opAnd(), opOr(), opNot(), opIf(), opIsNaN(), opIsInf(),
	}
}

func opAnd() *operation.Operation {
	info := arg("values", "Values to check")
	return &operation.Operation{
		Identifier:  "And",
		Name:        "Logical And",
		Description: "Returns true if all arguments are truthy",
		Category:    "Logical/Boolean",
		Variadic:    true,
		VariadicArg: &info,
		LazyAll:     true,
		Execute: func(args []object.Object, _ *object.Session, ctx object.CallContext) object.Object {
			for _, a := range args {
				v := ctx.Force(a)
				if object.IsError(v) {
					return v
				}
				if !object.IsTruthy(v) {
					return &object.Boolean{Value: false}
				}
			}
			return &object.Boolean{Value: true}
		},
	}
}

func opOr() *operation.Operation {
	info := arg("values", "Values to check")
	return &operation.Operation{
		Identifier:  "Or",
		Name:        "Logical Or",
		Description: "Returns true if any argument is truthy",
		Category:    "Logical/Boolean",
		Variadic:    true,
		VariadicArg: &info,
		LazyAll:     true,
		Execute: func(args []object.Object, _ *object.Session, ctx object.CallContext) object.Object {
			for _, a := range args {
				v := ctx.Force(a)
				if object.IsError(v) {
					return v
				}
				if object.IsTruthy(v) {
					return &object.Boolean{Value: true}
				}
			}
			return &object.Boolean{Value: false}
		},
	}
}

func opNot() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Not",
		Name:        "Logical Not",
		Description: "Returns the logical negation of a value",
		Category:    "Logical/Boolean",
		Required:    []operation.ArgInfo{arg("x", "Value to negate")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			return &object.Boolean{Value: !object.IsTruthy(args[0])}
		},
	}
}

func opIf() *operation.Operation {
	return &operation.Operation{
		Identifier:  "If",
		Name:        "Conditional",
		Description: "Returns then_value if condition is truthy, else else_value",
		Category:    "Logical/Control",
		Required: []operation.ArgInfo{
			arg("condition", "Condition to check"),
			arg("then_value", "Value if true"),
			arg("else_value", "Value if false"),
		},
		// Only the taken branch is evaluated, which is what lets
		// recursive definitions bottom out.
		LazyArgs: []int{1, 2},
		Execute: func(args []object.Object, _ *object.Session, ctx object.CallContext) object.Object {
			if object.IsTruthy(args[0]) {
				return ctx.Force(args[1])
			}
			return ctx.Force(args[2])
		},
	}
}

func opIsNaN() *operation.Operation {
	return &operation.Operation{
		Identifier:  "IsNaN",
		Name:        "Is Not a Number",
		Description: "Returns true if the value is NaN",
		Category:    "Logical/Checks",
		Required:    []operation.ArgInfo{arg("x", "Value to check")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			if f, ok := args[0].(*object.Float); ok {
				return &object.Boolean{Value: math.IsNaN(f.Value)}
			}
			return &object.Boolean{Value: false}
		},
	}
}

func opIsInf() *operation.Operation {
	return &operation.Operation{
		Identifier:  "IsInf",
		Name:        "Is Infinite",
		Description: "Returns true if the value is positive or negative infinity",
		Category:    "Logical/Checks",
		Required:    []operation.ArgInfo{arg("x", "Value to check")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			if f, ok := args[0].(*object.Float); ok {
				return &object.Boolean{Value: math.IsInf(f.Value, 0)}
			}
			return &object.Boolean{Value: false}
		},
	}
}
