package object

import (
	"fmt"
	"math"
)

// Vector is a homogeneous array of numeric values. Elements are stored as
// Objects but construction guarantees they are all scalars.
type Vector struct {
	Elements []Object
}

func (v *Vector) Type() ObjectType { return VECTOR_OBJ }

func (v *Vector) TypeName() string {
	if len(v.Elements) == 0 {
		return "Vector (empty)"
	}
	return fmt.Sprintf("Vector (%s)", v.Elements[0].TypeName())
}

func (v *Vector) Inspect() string {
	items := make([]string, len(v.Elements))
	for i, e := range v.Elements {
		items[i] = e.Inspect()
	}
	return "[" + elide(items) + "]"
}

// List is a heterogeneous collection of values.
type List struct {
	Items []Object
}

func (l *List) Type() ObjectType { return LIST_OBJ }

func (l *List) TypeName() string {
	return fmt.Sprintf("List (%d items)", len(l.Items))
}

func (l *List) Inspect() string {
	items := make([]string, len(l.Items))
	for i, it := range l.Items {
		items[i] = it.Inspect()
	}
	return "[" + elide(items) + "]"
}

// Interval is a lazy half-open numeric range [Start, End) advancing by Step.
// It stores only its three bounds, so length and element access are O(1)
// regardless of how many values it spans.
type Interval struct {
	Start float64
	End   float64
	Step  float64
}

func (iv *Interval) Type() ObjectType { return INTERVAL_OBJ }
func (iv *Interval) TypeName() string { return "Interval" }

func (iv *Interval) Inspect() string {
	if iv.Step == 1 {
		return fmt.Sprintf("[%s..%s)", FormatFloat(iv.Start), FormatFloat(iv.End))
	}
	return fmt.Sprintf("[%s..%s step %s)", FormatFloat(iv.Start), FormatFloat(iv.End), FormatFloat(iv.Step))
}

// Len returns the number of elements without generating them.
func (iv *Interval) Len() int {
	if iv.Step > 0 {
		if iv.Start >= iv.End {
			return 0
		}
		return int(math.Ceil((iv.End - iv.Start) / iv.Step))
	}
	if iv.Start <= iv.End {
		return 0
	}
	return int(math.Ceil((iv.Start - iv.End) / -iv.Step))
}

// At returns the element at index i, counting negative indices from the end.
func (iv *Interval) At(i int) (Object, bool) {
	n := iv.Len()
	if i < 0 {
		i += n
	}
	if i < 0 || i >= n {
		return nil, false
	}
	return iv.elem(iv.Start + float64(i)*iv.Step), true
}

// integral intervals (whole start and step) yield Integer elements, so
// Range(1, 10) counts 1, 2, 3 rather than 1.0, 2.0, 3.0.
func (iv *Interval) integral() bool {
	return iv.Start == math.Trunc(iv.Start) && iv.Step == math.Trunc(iv.Step)
}

func (iv *Interval) elem(v float64) Object {
	if iv.integral() && math.Abs(v) < 1e15 {
		return &Integer{Value: int64(v)}
	}
	return &Float{Value: v}
}

// Iter returns a fresh iterator over the interval. Each call restarts from
// the beginning, so an interval can be traversed any number of times.
func (iv *Interval) Iter() *IntervalIterator {
	return &IntervalIterator{interval: iv}
}

// Values materializes the whole interval. Callers that only need to walk
// the elements should prefer Iter.
func (iv *Interval) Values() []float64 {
	out := make([]float64, 0, iv.Len())
	for it := iv.Iter(); ; {
		v, ok := it.Next()
		if !ok {
			break
		}
		out = append(out, v)
	}
	return out
}

type IntervalIterator struct {
	interval *Interval
	index    int
}

func (it *IntervalIterator) Next() (float64, bool) {
	iv := it.interval
	if it.index >= iv.Len() {
		return 0, false
	}
	v := iv.Start + float64(it.index)*iv.Step
	it.index++
	return v, true
}
