package providers

import (
	"fmt"
	"math"
	"sort"

	"mathlang/internal/object"
	"mathlang/internal/operation"
)

// Statistics contributes descriptive statistics. Degenerate inputs (empty
// data, fewer than two points) produce a first-class Error value rather
// than aborting the script, so an analysis over patchy data can keep going.
type Statistics struct{}

func (p *Statistics) Name() string { return "Statistics" }

func (p *Statistics) Operations() []*operation.Operation {
	return []*operation.Operation{
		opMean(), opMedian(), opMode(), opStdDev(), opPopStdDev(),
		opVariance(), opPopVariance(), opCorrelation(), opCovariance(),
		opLinearRegression(), opPercentile(), opQuartiles(), opIQR(),
	}
}

func softError(format string, args ...interface{}) *object.Error {
	return &object.Error{Message: fmt.Sprintf(format, args...)}
}

func opMean() *operation.Operation {
	return statOp("Mean", "Mean (Average)", "Calculates the arithmetic mean of a list of numbers",
		"Statistics/Central", func(values []float64) object.Object {
			if len(values) == 0 {
				return softError("Cannot calculate mean of empty list")
			}
			total := 0.0
			for _, v := range values {
				total += v
			}
			return &object.Float{Value: total / float64(len(values))}
		})
}

func opMedian() *operation.Operation {
	return statOp("Median", "Median", "Calculates the median value of a list of numbers",
		"Statistics/Central", func(values []float64) object.Object {
			if len(values) == 0 {
				return softError("Cannot calculate median of empty list")
			}
			sorted := sortedCopy(values)
			mid := len(sorted) / 2
			if len(sorted)%2 == 0 {
				return &object.Float{Value: (sorted[mid-1] + sorted[mid]) / 2}
			}
			return &object.Float{Value: sorted[mid]}
		})
}

func opMode() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Mode",
		Name:        "Mode",
		Description: "Finds the most common value(s) in a list",
		Category:    "Statistics/Central",
		Required:    []operation.ArgInfo{arg("list", "List of values")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			items, err := collItems("Mode", args[0])
			if err != nil {
				return object.NewError(object.TypeError, "collection must be a collection, got %s", args[0].TypeName())
			}
			if len(items) == 0 {
				return softError("Cannot calculate mode of empty collection")
			}
			type entry struct {
				item  object.Object
				count int
			}
			counts := make(map[string]*entry)
			var order []string
			for _, it := range items {
				key := it.Inspect()
				if e, ok := counts[key]; ok {
					e.count++
				} else {
					counts[key] = &entry{item: it, count: 1}
					order = append(order, key)
				}
			}
			maxCount := 0
			for _, e := range counts {
				if e.count > maxCount {
					maxCount = e.count
				}
			}
			var modes []object.Object
			for _, key := range order {
				if counts[key].count == maxCount {
					modes = append(modes, counts[key].item)
				}
			}
			if len(modes) == 1 {
				return modes[0]
			}
			return &object.List{Items: modes}
		},
	}
}

// welfordVariance is a single numerically stable pass. sample selects the
// n-1 divisor.
func welfordVariance(values []float64, sample bool) (float64, bool) {
	n := len(values)
	if n < 2 {
		return 0, false
	}
	mean, m2 := 0.0, 0.0
	for i, x := range values {
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)
	}
	divisor := float64(n)
	if sample {
		divisor = float64(n - 1)
	}
	return m2 / divisor, true
}

func spreadOp(ident, name, desc string, sample, root bool) *operation.Operation {
	return statOp(ident, name, desc, "Statistics/Spread", func(values []float64) object.Object {
		v, ok := welfordVariance(values, sample)
		if !ok {
			return softError("Need at least 2 values to calculate variance")
		}
		if root {
			return &object.Float{Value: math.Sqrt(v)}
		}
		return &object.Float{Value: v}
	})
}

func opStdDev() *operation.Operation {
	return spreadOp("StdDev", "Standard Deviation", "Calculates the sample standard deviation", true, true)
}

func opPopStdDev() *operation.Operation {
	return spreadOp("PopStdDev", "Population Standard Deviation", "Calculates the population standard deviation", false, true)
}

func opVariance() *operation.Operation {
	return spreadOp("Variance", "Variance", "Calculates the sample variance", true, false)
}

func opPopVariance() *operation.Operation {
	return spreadOp("PopVariance", "Population Variance", "Calculates the population variance", false, false)
}

// comoments runs the shared single-pass update for the paired statistics,
// returning the co-moment and the squared deviations of each series.
func comoments(xs, ys []float64) (c, m2x, m2y, meanX, meanY float64) {
	n := 0
	for i := range xs {
		n++
		dx := xs[i] - meanX
		meanX += dx / float64(n)
		dy := ys[i] - meanY
		meanY += dy / float64(n)
		c += dx * (ys[i] - meanY)
		m2x += dx * (xs[i] - meanX)
		m2y += dy * (ys[i] - meanY)
	}
	return c, m2x, m2y, meanX, meanY
}

func pairedSeries(args []object.Object, xName, yName string) (xs, ys []float64, failed object.Object) {
	xs, xerr := floats(xName, args[0])
	if xerr != nil {
		return nil, nil, xerr
	}
	ys, yerr := floats(yName, args[1])
	if yerr != nil {
		return nil, nil, yerr
	}
	if len(xs) != len(ys) {
		return nil, nil, softError("Lists must have same length: %d vs %d", len(xs), len(ys))
	}
	return xs, ys, nil
}

func opCorrelation() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Correlation",
		Name:        "Correlation",
		Description: "Calculates the Pearson correlation coefficient between two lists",
		Category:    "Statistics/Relationship",
		Required: []operation.ArgInfo{
			arg("list1", "First list of numbers"),
			arg("list2", "Second list of numbers"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			xs, ys, failed := pairedSeries(args, "list1", "list2")
			if failed != nil {
				return failed
			}
			if len(xs) < 2 {
				return softError("Need at least 2 values to calculate correlation")
			}
			c, m2x, m2y, _, _ := comoments(xs, ys)
			if m2x == 0 || m2y == 0 {
				return &object.Float{Value: 0}
			}
			return &object.Float{Value: c / math.Sqrt(m2x*m2y)}
		},
	}
}

func opCovariance() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Covariance",
		Name:        "Covariance",
		Description: "Calculates the sample covariance between two lists",
		Category:    "Statistics/Relationship",
		Required: []operation.ArgInfo{
			arg("list1", "First list of numbers"),
			arg("list2", "Second list of numbers"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			xs, ys, failed := pairedSeries(args, "list1", "list2")
			if failed != nil {
				return failed
			}
			if len(xs) < 2 {
				return softError("Need at least 2 values to calculate covariance")
			}
			c, _, _, _, _ := comoments(xs, ys)
			return &object.Float{Value: c / float64(len(xs)-1)}
		},
	}
}

func opLinearRegression() *operation.Operation {
	return &operation.Operation{
		Identifier:  "LinearRegression",
		Name:        "Linear Regression",
		Description: "Performs linear regression, returns [slope, intercept, r_squared]",
		Category:    "Statistics/Regression",
		Required: []operation.ArgInfo{
			arg("x_values", "X values (independent variable)"),
			arg("y_values", "Y values (dependent variable)"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			xs, ys, failed := pairedSeries(args, "x_values", "y_values")
			if failed != nil {
				return failed
			}
			if len(xs) < 2 {
				return softError("Need at least 2 points for linear regression")
			}
			c, m2x, m2y, meanX, meanY := comoments(xs, ys)
			if m2x == 0 {
				return softError("Cannot perform regression: all x values are identical")
			}
			slope := c / m2x
			intercept := meanY - slope*meanX
			rSquared := 1.0
			if m2y != 0 {
				rSquared = (c * c) / (m2x * m2y)
			}
			return floatList([]float64{slope, intercept, rSquared})
		},
	}
}

// percentileSorted interpolates linearly between the two nearest ranks.
func percentileSorted(sorted []float64, p float64) float64 {
	n := len(sorted)
	if p == 0 {
		return sorted[0]
	}
	if p == 100 {
		return sorted[n-1]
	}
	idx := (p / 100) * float64(n-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= n {
		return sorted[n-1]
	}
	weight := idx - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func opPercentile() *operation.Operation {
	return &operation.Operation{
		Identifier:  "Percentile",
		Name:        "Percentile",
		Description: "Calculates the nth percentile of a list",
		Category:    "Statistics/Quantile",
		Required: []operation.ArgInfo{
			arg("list", "List of numbers"),
			arg("n", "Percentile (0-100)"),
		},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			values, err := floats("list", args[0])
			if err != nil {
				return err
			}
			if len(values) == 0 {
				return softError("Cannot calculate percentile of empty list")
			}
			p, perr := number("Percentile", args[1])
			if perr != nil {
				return object.NewError(object.TypeError, "Percentile must be a number, got %s", args[1].TypeName())
			}
			if p < 0 || p > 100 {
				return object.NewError(object.TypeError, "Percentile must be between 0 and 100, got %s", object.FormatFloat(p))
			}
			return &object.Float{Value: percentileSorted(sortedCopy(values), p)}
		},
	}
}

func opQuartiles() *operation.Operation {
	return statOp("Quartiles", "Quartiles", "Returns the quartiles [Q1, Q2, Q3] of a list",
		"Statistics/Quantile", func(values []float64) object.Object {
			if len(values) == 0 {
				return softError("Cannot calculate quartiles of empty list")
			}
			sorted := sortedCopy(values)
			return floatList([]float64{
				percentileSorted(sorted, 25),
				percentileSorted(sorted, 50),
				percentileSorted(sorted, 75),
			})
		})
}

func opIQR() *operation.Operation {
	return statOp("IQR", "Interquartile Range", "Calculates the interquartile range (Q3 - Q1)",
		"Statistics/Spread", func(values []float64) object.Object {
			if len(values) == 0 {
				return softError("Cannot calculate IQR of empty list")
			}
			sorted := sortedCopy(values)
			return &object.Float{Value: percentileSorted(sorted, 75) - percentileSorted(sorted, 25)}
		})
}

// statOp builds a one-collection operation over extracted float values.
func statOp(ident, name, desc, category string, fn func([]float64) object.Object) *operation.Operation {
	return &operation.Operation{
		Identifier:  ident,
		Name:        name,
		Description: desc,
		Category:    category,
		Required:    []operation.ArgInfo{arg("list", "List of numbers")},
		Execute: func(args []object.Object, _ *object.Session, _ object.CallContext) object.Object {
			values, err := floats("collection", args[0])
			if err != nil {
				return err
			}
			return fn(values)
		},
	}
}

func sortedCopy(values []float64) []float64 {
	out := make([]float64, len(values))
	copy(out, values)
	sort.Float64s(out)
	return out
}
