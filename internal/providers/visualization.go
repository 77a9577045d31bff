package providers

import (
	"math"

	"mathlang/internal/object"
	"mathlang/internal/operation"
)

// Visualization contributes operations producing plottable data values. A
// plot result carries raw coordinates only; rendering belongs to whatever
// host receives the value. Sample points where the function fails become
// NaN so one bad point leaves a gap instead of killing the plot.
type Visualization struct{}

func (p *Visualization) Name() string { return "Visualization" }

func (p *Visualization) Operations() []*operation.Operation {
	return []*operation.Operation{
		opPlot(), opPlotData(), opPlot3D(), opHistogram(), opScatter(),
		opLinePlot(), opMultiPlot(),
	}
}

func optTitle(args []object.Object, idx int) string {
	if idx < len(args) {
		if s, ok := args[idx].(*object.String); ok {
			return s.Value
		}
	}
	return ""
}

// sampleAt applies a one-parameter lambda at x, mapping any failure or
// non-numeric result to NaN.
func sampleAt(ctx object.CallContext, fn *object.Lambda, x float64) float64 {
	v := ctx.Apply(fn, []object.Object{&object.Float{Value: x}})
	switch n := v.(type) {
	case *object.Integer:
		return float64(n.Value)
	case *object.Float:
		return n.Value
	}
	return math.NaN()
}

// samplePlane is sampleAt for a two-parameter lambda over (x, y).
func samplePlane(ctx object.CallContext, fn *object.Lambda, x, y float64) float64 {
	v := ctx.Apply(fn, []object.Object{&object.Float{Value: x}, &object.Float{Value: y}})
	switch n := v.(type) {
	case *object.Integer:
		return float64(n.Value)
	case *object.Float:
		return n.Value
	}
	return math.NaN()
}

// gridValues spreads count points evenly over [min, max].
func gridValues(min, max float64, count int) []float64 {
	step := (max - min) / float64(count-1)
	out := make([]float64, count)
	for i := range out {
		out[i] = min + float64(i)*step
	}
	return out
}

func opPlot() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Plot",
		Name:        "Plot 2D",
		Description: "Creates a 2D plot from a function or data points",
		Category:    "Visualization/2D",
		Required:    []operation.ArgInfo{arg("func_or_x", "Lambda function or x values")},
		Optional: []operation.ArgInfo{
			arg("x_min_or_y", "X minimum (for function) or y values (for data)"),
			arg("x_max", "X maximum (for function)"),
			arg("points", "Number of points to plot"),
		},
		Execute: func(args []object.Object, _ *object.Session, ctx object.CallContext) object.Object {
			switch first := args[0].(type) {
			case *object.Lambda:
				if len(args) < 3 {
					return object.NewError(object.ArityError, "Plot with function requires x_min and x_max")
				}
				fn, lerr := unaryLambda("Plot", "function", first, 1)
				if lerr != nil {
					return lerr
				}
				xMin, minErr := number("x_min", args[1])
				if minErr != nil {
					return minErr
				}
				xMax, maxErr := number("x_max", args[2])
				if maxErr != nil {
					return maxErr
				}
				points := int64(100)
				if len(args) > 3 {
					var perr *object.RuntimeError
					points, perr = integer("points", args[3])
					if perr != nil {
						return perr
					}
				}
				if xMin >= xMax {
					return object.NewError(object.TypeError, "x_min (%s) must be less than x_max (%s)",
						object.FormatFloat(xMin), object.FormatFloat(xMax))
				}
				if points < 2 {
					return object.NewError(object.TypeError, "Need at least 2 points")
				}
				xs := gridValues(xMin, xMax, int(points))
				ys := make([]float64, len(xs))
				for i, x := range xs {
					ys[i] = sampleAt(ctx, fn, x)
				}
				return &object.PlotData2D{XValues: xs, YValues: ys}
			case *object.List:
				if len(args) < 2 {
					return object.NewError(object.ArityError, "Plot with data requires x_values and y_values lists")
				}
				return dataPlot(args, "")
			}
			return object.NewError(object.TypeError, "Plot expects a function or list, got %s", args[0].TypeName())
		},
	}
}

// dataPlot builds a PlotData2D from x/y list arguments.
func dataPlot(args []object.Object, title string) object.Object {
	xs, xerr := floats("x_values", args[0])
	if xerr != nil {
		return xerr
	}
	ys, yerr := floats("y_values", args[1])
	if yerr != nil {
		return yerr
	}
	if len(xs) != len(ys) {
		return object.NewError(object.DimensionError, "x and y must have same length: %d vs %d", len(xs), len(ys))
	}
	return &object.PlotData2D{XValues: xs, YValues: ys, Title: title}
}

func xyPlotOp(ident, name, desc string, build func(xs, ys []float64, title string) object.Object) *operation.Operation {
	return &operation.Operation{
		Identifier:  ident,
		Name:        name,
		Description: desc,
		Category:    "Visualization/2D",
		Required: []operation.ArgInfo{
			arg("x_values", "List of x values"),
			arg("y_values", "List of y values"),
		},
		Optional: []operation.ArgInfo{arg("title", "Plot title")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			xs, xerr := floats("x_values", args[0])
			if xerr != nil {
				return xerr
			}
			ys, yerr := floats("y_values", args[1])
			if yerr != nil {
				return yerr
			}
			if len(xs) != len(ys) {
				return object.NewError(object.DimensionError, "x and y must have same length: %d vs %d", len(xs), len(ys))
			}
			return build(xs, ys, optTitle(args, 2))
		},
	}
}

func opPlotData() *operation.Operation {
	return xyPlotOp("PlotData", "Plot Data Points", "Creates a 2D plot from x and y data lists",
		func(xs, ys []float64, title string) object.Object {
			return &object.PlotData2D{XValues: xs, YValues: ys, Title: title}
		})
}

func opLinePlot() *operation.Operation {
	return xyPlotOp("LinePlot", "Line Plot", "Creates a line plot connecting data points",
		func(xs, ys []float64, title string) object.Object {
			return &object.PlotData2D{XValues: xs, YValues: ys, Title: title}
		})
}

func opScatter() *operation.Operation {
	return xyPlotOp("Scatter", "Scatter Plot", "Creates a scatter plot from x and y data",
		func(xs, ys []float64, title string) object.Object {
			return &object.ScatterData{XValues: xs, YValues: ys, Title: title}
		})
}

func opPlot3D() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Plot3D",
		Name:        "Plot 3D Surface",
		Description: "Creates a 3D surface plot from a function",
		Category:    "Visualization/3D",
		Required: []operation.ArgInfo{
			arg("func", "Lambda function f(x, y)"),
			arg("x_min", "X minimum"),
			arg("x_max", "X maximum"),
			arg("y_min", "Y minimum"),
			arg("y_max", "Y maximum"),
		},
		Optional: []operation.ArgInfo{arg("points", "Number of points per axis")},
		Execute: func(args []object.Object, _ *object.Session, ctx object.CallContext) object.Object {
			fn, lerr := unaryLambda("Plot3D", "function", args[0], 2)
			if lerr != nil {
				return lerr
			}
			bounds := make([]float64, 4)
			names := []string{"x_min", "x_max", "y_min", "y_max"}
			for i := range bounds {
				v, err := number(names[i], args[i+1])
				if err != nil {
					return err
				}
				bounds[i] = v
			}
			points := int64(30)
			if len(args) > 5 {
				var perr *object.RuntimeError
				points, perr = integer("points", args[5])
				if perr != nil {
					return perr
				}
			}
			if bounds[0] >= bounds[1] {
				return object.NewError(object.TypeError, "x_min (%s) must be less than x_max (%s)",
					object.FormatFloat(bounds[0]), object.FormatFloat(bounds[1]))
			}
			if bounds[2] >= bounds[3] {
				return object.NewError(object.TypeError, "y_min (%s) must be less than y_max (%s)",
					object.FormatFloat(bounds[2]), object.FormatFloat(bounds[3]))
			}
			if points < 2 {
				return object.NewError(object.TypeError, "Need at least 2 points")
			}
			xs := gridValues(bounds[0], bounds[1], int(points))
			ys := gridValues(bounds[2], bounds[3], int(points))
			zs := make([][]float64, len(ys))
			for i, y := range ys {
				row := make([]float64, len(xs))
				for j, x := range xs {
					row[j] = samplePlane(ctx, fn, x, y)
				}
				zs[i] = row
			}
			return &object.PlotData3D{XValues: xs, YValues: ys, ZValues: zs}
		},
	}
}

func opHistogram() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Histogram",
		Name:        "Histogram",
		Description: "Creates a histogram from data",
		Category:    "Visualization/Statistical",
		Required:    []operation.ArgInfo{arg("data", "List of numeric values")},
		Optional: []operation.ArgInfo{
			arg("bins", "Number of bins"),
			arg("title", "Plot title"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			values, verr := floats("data", args[0])
			if verr != nil {
				return verr
			}
			bins := int64(10)
			if len(args) > 1 {
				var berr *object.RuntimeError
				bins, berr = integer("bins", args[1])
				if berr != nil {
					return berr
				}
			}
			if bins < 1 {
				return object.NewError(object.TypeError, "bins must be positive")
			}
			if len(values) == 0 {
				return object.NewError(object.TypeError, "data cannot be empty")
			}
			return &object.HistogramData{Values: values, Bins: int(bins), Title: optTitle(args, 2)}
		},
	}
}

func opMultiPlot() *operation.Operation {
	return &operation.Operation{
		Identifier:  "MultiPlot",
		Name:        "Multiple Plots",
		Description: "Creates multiple function plots on the same axes",
		Category:    "Visualization/2D",
		Required: []operation.ArgInfo{
			arg("functions", "List of lambda functions"),
			arg("x_min", "X minimum"),
			arg("x_max", "X maximum"),
		},
		Optional: []operation.ArgInfo{arg("points", "Number of points")},
		Execute: func(args []object.Object, _ *object.Session, ctx object.CallContext) object.Object {
			functions, ok := args[0].(*object.List)
			if !ok {
				return object.NewError(object.TypeError, "functions must be a list, got %s", args[0].TypeName())
			}
			xMin, minErr := number("x_min", args[1])
			if minErr != nil {
				return minErr
			}
			xMax, maxErr := number("x_max", args[2])
			if maxErr != nil {
				return maxErr
			}
			points := int64(100)
			if len(args) > 3 {
				var perr *object.RuntimeError
				points, perr = integer("points", args[3])
				if perr != nil {
					return perr
				}
			}
			if xMin >= xMax {
				return object.NewError(object.TypeError, "x_min (%s) must be less than x_max (%s)",
					object.FormatFloat(xMin), object.FormatFloat(xMax))
			}
			if points < 2 {
				return object.NewError(object.TypeError, "Need at least 2 points")
			}
			xs := gridValues(xMin, xMax, int(points))
			plots := make([]object.Object, len(functions.Items))
			for i, f := range functions.Items {
				if _, ok := f.(*object.Lambda); !ok {
					return object.NewError(object.TypeError, "Each function must be a lambda, got %s", f.TypeName())
				}
				fn, lerr := unaryLambda("MultiPlot", "function", f, 1)
				if lerr != nil {
					return lerr
				}
				ys := make([]float64, len(xs))
				for j, x := range xs {
					ys[j] = sampleAt(ctx, fn, x)
				}
				plots[i] = &object.PlotData2D{XValues: xs, YValues: ys}
			}
			return &object.List{Items: plots}
		},
	}
}
