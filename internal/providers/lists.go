package providers

import (
	"mathlang/internal/object"
	"mathlang/internal/operation"
)

// Lists contributes the collection operations. A collection here is a List
// or an Interval; Intervals are kept lazy wherever the result does not need
// every element (Length, First, Last, Take, Skip).
type Lists struct{}

func (p *Lists) Name() string { return "Collections" }

func (p *Lists) Operations() []*operation.Operation {
	return []*operation.Operation{
		opList(), opRange(), opLength(), opMap(), opFilter(), opReduce(),
		opSum(), opAvg(), opFirst(), opLast(), opTake(), opSkip(),
	}
}

// collItems materializes the elements of a List or Interval.
func collItems(op string, v object.Object) ([]object.Object, *object.RuntimeError) {
	switch c := v.(type) {
	case *object.List:
		return c.Items, nil
	case *object.Interval:
		items := make([]object.Object, 0, c.Len())
		for i := 0; i < c.Len(); i++ {
			it, _ := c.At(i)
			items = append(items, it)
		}
		return items, nil
	}
	return nil, object.NewError(object.TypeError, "%s expects a collection, got %s", op, v.TypeName())
}

// unaryLambda validates that fn is a lambda of the given arity.
func unaryLambda(op, role string, fn object.Object, arity int) (*object.Lambda, *object.RuntimeError) {
	l, ok := fn.(*object.Lambda)
	if !ok {
		return nil, object.NewError(object.TypeError, "%s expects a lambda, got %s", op, fn.TypeName())
	}
	if len(l.Parameters) != arity {
		plural := "argument"
		if arity != 1 {
			plural = "arguments"
		}
		return nil, object.NewError(object.ArityError, "%s %s must take %d %s, got %d", op, role, arity, plural, len(l.Parameters))
	}
	return l, nil
}

func opList() *operation.Operation {
	info := arg("items", "Items to include in the list")
	return &operation.Operation{
		Identifier:  "List",
		Name:        "Create List",
		Description: "Creates a list from the given arguments",
		Category:    "Collections/Creation",
		Variadic:    true,
		VariadicArg: &info,
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			items := make([]object.Object, len(args))
			copy(items, args)
			return &object.List{Items: items}
		},
	}
}

func opRange() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Range",
		Name:        "Create Range",
		Description: "Creates an interval from start to end (exclusive)",
		Category:    "Collections/Creation",
		Required: []operation.ArgInfo{
			arg("start", "Start value"),
			arg("end", "End value (exclusive)"),
		},
		Optional: []operation.ArgInfo{arg("step", "Step value")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			start, serr := number("start", args[0])
			end, eerr := number("end", args[1])
			if serr != nil || eerr != nil {
				return object.NewError(object.TypeError, "Range requires numeric arguments")
			}
			step := 1.0
			if len(args) > 2 {
				var terr *object.RuntimeError
				step, terr = number("step", args[2])
				if terr != nil {
					return object.NewError(object.TypeError, "Range requires numeric arguments")
				}
			}
			if step == 0 {
				return object.NewError(object.TypeError, "Range step cannot be zero")
			}
			// Stays lazy: three bounds, no element storage.
			return &object.Interval{Start: start, End: end, Step: step}
		},
	}
}

func opLength() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Length",
		Name:        "Length",
		Description: "Returns the length of a collection or string",
		Category:    "Collections/Info",
		Required:    []operation.ArgInfo{arg("collection", "Collection or string")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			switch c := args[0].(type) {
			case *object.List:
				return &object.Integer{Value: int64(len(c.Items))}
			case *object.Interval:
				return &object.Integer{Value: int64(c.Len())}
			case *object.String:
				return &object.Integer{Value: int64(len([]rune(c.Value)))}
			}
			return object.NewError(object.TypeError, "Length expects a collection or string, got %s", args[0].TypeName())
		},
	}
}

func opMap() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Map",
		Name:        "Map",
		Description: "Applies a function to each element of a collection",
		Category:    "Collections/Transform",
		Required: []operation.ArgInfo{
			arg("collection", "The collection to map over"),
			arg("func", "Function to apply (lambda)"),
		},
		Execute: func(args []object.Object, _ *object.Session, ctx object.CallContext) object.Object {
			items, err := collItems("Map", args[0])
			if err != nil {
				return err
			}
			fn, lerr := unaryLambda("Map", "function", args[1], 1)
			if lerr != nil {
				return lerr
			}
			out := make([]object.Object, len(items))
			for i, it := range items {
				v := ctx.Apply(fn, []object.Object{it})
				if object.IsError(v) {
					return v
				}
				out[i] = v
			}
			return &object.List{Items: out}
		},
	}
}

func opFilter() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Filter",
		Name:        "Filter",
		Description: "Filters a collection based on a predicate function",
		Category:    "Collections/Transform",
		Required: []operation.ArgInfo{
			arg("collection", "The collection to filter"),
			arg("predicate", "Function returning true/false (lambda)"),
		},
		Execute: func(args []object.Object, _ *object.Session, ctx object.CallContext) object.Object {
			items, err := collItems("Filter", args[0])
			if err != nil {
				return err
			}
			pred, lerr := unaryLambda("Filter", "predicate", args[1], 1)
			if lerr != nil {
				return lerr
			}
			var out []object.Object
			for _, it := range items {
				v := ctx.Apply(pred, []object.Object{it})
				if object.IsError(v) {
					return v
				}
				if object.IsTruthy(v) {
					out = append(out, it)
				}
			}
			return &object.List{Items: out}
		},
	}
}

func opReduce() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Reduce",
		Name:        "Reduce",
		Description: "Reduces a collection to a single value using an accumulator function",
		Category:    "Collections/Transform",
		Required: []operation.ArgInfo{
			arg("collection", "The collection to reduce"),
			arg("func", "Function taking (accumulator, item) (lambda)"),
			arg("initial", "Initial accumulator value"),
		},
		Execute: func(args []object.Object, _ *object.Session, ctx object.CallContext) object.Object {
			items, err := collItems("Reduce", args[0])
			if err != nil {
				return err
			}
			fn, lerr := unaryLambda("Reduce", "function", args[1], 2)
			if lerr != nil {
				return lerr
			}
			acc := args[2]
			for _, it := range items {
				acc = ctx.Apply(fn, []object.Object{acc, it})
				if object.IsError(acc) {
					return acc
				}
			}
			return acc
		},
	}
}

func opSum() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Sum",
		Name:        "Sum",
		Description: "Returns the sum of all elements in a collection",
		Category:    "Collections/Aggregate",
		Required:    []operation.ArgInfo{arg("collection", "Collection of numbers")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			items, err := collItems("Sum", args[0])
			if err != nil {
				return err
			}
			return sumItems("Sum", items)
		},
	}
}

// sumItems adds numeric elements, staying integral while every element is
// an Integer.
func sumItems(op string, items []object.Object) object.Object {
	var intSum int64
	var floatSum float64
	isFloat := false
	for _, it := range items {
		switch n := it.(type) {
		case *object.Integer:
			if isFloat {
				floatSum += float64(n.Value)
			} else {
				intSum += n.Value
			}
		case *object.Float:
			if !isFloat {
				floatSum = float64(intSum)
				isFloat = true
			}
			floatSum += n.Value
		default:
			return object.NewError(object.TypeError, "%s expects numeric elements, got %s", op, it.TypeName())
		}
	}
	if isFloat {
		return &object.Float{Value: floatSum}
	}
	return &object.Integer{Value: intSum}
}

func opAvg() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Avg",
		Name:        "Average",
		Description: "Returns the average of all elements in a collection",
		Category:    "Collections/Aggregate",
		Required:    []operation.ArgInfo{arg("collection", "Collection of numbers")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			items, err := collItems("Avg", args[0])
			if err != nil {
				return err
			}
			if len(items) == 0 {
				return object.NewError(object.TypeError, "Cannot compute average of empty collection")
			}
			total := 0.0
			for _, it := range items {
				v, nerr := number("Avg", it)
				if nerr != nil {
					return object.NewError(object.TypeError, "Avg expects numeric elements, got %s", it.TypeName())
				}
				total += v
			}
			return &object.Float{Value: total / float64(len(items))}
		},
	}
}

func opFirst() *operation.Operation {
	return &operation.Operation{
		Identifier:  "First",
		Name:        "First",
		Description: "Returns the first element of a collection",
		Category:    "Collections/Access",
		Required:    []operation.ArgInfo{arg("collection", "The collection")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			return collElement("First", args[0], 0)
		},
	}
}

func opLast() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Last",
		Name:        "Last",
		Description: "Returns the last element of a collection",
		Category:    "Collections/Access",
		Required:    []operation.ArgInfo{arg("collection", "The collection")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			return collElement("Last", args[0], -1)
		},
	}
}

// collElement fetches one element without materializing intervals. Index -1
// means the last element.
func collElement(op string, v object.Object, idx int) object.Object {
	switch c := v.(type) {
	case *object.List:
		if len(c.Items) == 0 {
			return emptyCollectionError(op)
		}
		if idx < 0 {
			return c.Items[len(c.Items)-1]
		}
		return c.Items[idx]
	case *object.Interval:
		n := c.Len()
		if n == 0 {
			return emptyCollectionError(op)
		}
		if idx < 0 {
			idx = n - 1
		}
		it, _ := c.At(idx)
		return it
	}
	return object.NewError(object.TypeError, "%s expects a collection, got %s", op, v.TypeName())
}

func emptyCollectionError(op string) *object.RuntimeError {
	word := "first"
	if op == "Last" {
		word = "last"
	}
	return object.NewError(object.IndexError, "Cannot get %s element of empty collection", word)
}

func opTake() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Take",
		Name:        "Take",
		Description: "Returns the first n elements of a collection",
		Category:    "Collections/Slice",
		Required: []operation.ArgInfo{
			arg("collection", "The collection"),
			arg("n", "Number of elements to take"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			n, err := integer("n", args[1])
			if err != nil {
				return object.NewError(object.TypeError, "Take count must be an integer, got %s", args[1].TypeName())
			}
			switch c := args[0].(type) {
			case *object.List:
				if n <= 0 {
					return &object.List{}
				}
				if n > int64(len(c.Items)) {
					n = int64(len(c.Items))
				}
				return &object.List{Items: c.Items[:n]}
			case *object.Interval:
				if n <= 0 {
					return &object.List{}
				}
				return sliceInterval(c, 0, int(n))
			}
			return object.NewError(object.TypeError, "Take expects a collection, got %s", args[0].TypeName())
		},
	}
}

func opSkip() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Skip",
		Name:        "Skip",
		Description: "Skips the first n elements and returns the rest",
		Category:    "Collections/Slice",
		Required: []operation.ArgInfo{
			arg("collection", "The collection"),
			arg("n", "Number of elements to skip"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			n, err := integer("n", args[1])
			if err != nil {
				return object.NewError(object.TypeError, "Skip count must be an integer, got %s", args[1].TypeName())
			}
			if n < 0 {
				n = 0
			}
			switch c := args[0].(type) {
			case *object.List:
				if n >= int64(len(c.Items)) {
					return &object.List{}
				}
				return &object.List{Items: c.Items[n:]}
			case *object.Interval:
				return sliceInterval(c, int(n), c.Len())
			}
			return object.NewError(object.TypeError, "Skip expects a collection, got %s", args[0].TypeName())
		},
	}
}

// sliceInterval copies interval elements [from, to) into a List, clamping
// to the interval's length.
func sliceInterval(iv *object.Interval, from, to int) *object.List {
	n := iv.Len()
	if to > n {
		to = n
	}
	if from >= to {
		return &object.List{}
	}
	items := make([]object.Object, 0, to-from)
	for i := from; i < to; i++ {
		it, _ := iv.At(i)
		items = append(items, it)
	}
	return &object.List{Items: items}
}
