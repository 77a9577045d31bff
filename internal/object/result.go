package object

import "fmt"

// ErrorKind classifies hard evaluation failures.
type ErrorKind string

const (
	SyntaxError            ErrorKind = "SyntaxError"
	NameError              ErrorKind = "NameError"
	ArityError             ErrorKind = "ArityError"
	TypeError              ErrorKind = "TypeError"
	DimensionError         ErrorKind = "DimensionError"
	DivisionByZero         ErrorKind = "DivisionByZero"
	IndexError             ErrorKind = "IndexError"
	RecursionLimitExceeded ErrorKind = "RecursionLimitExceeded"
)

// RuntimeError is a hard failure. The evaluator produces one in place of a
// value and every caller propagates it outward unchanged, so a failed
// sub-expression aborts the whole statement. Line and Column are set only
// for syntax errors.
type RuntimeError struct {
	Kind    ErrorKind
	Message string
	Line    int
	Column  int
}

func (e *RuntimeError) Type() ObjectType { return RUNTIME_ERROR_OBJ }
func (e *RuntimeError) TypeName() string { return string(e.Kind) }

func (e *RuntimeError) Inspect() string {
	if e.Kind == SyntaxError && e.Line > 0 {
		return fmt.Sprintf("%s at line %d, column %d: %s", e.Kind, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *RuntimeError) Error() string { return e.Inspect() }

// NewError builds a RuntimeError from a format string.
func NewError(kind ErrorKind, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// IsError reports whether obj is a hard error that must be propagated.
func IsError(obj Object) bool {
	if obj == nil {
		return false
	}
	return obj.Type() == RUNTIME_ERROR_OBJ
}

// Error is a soft diagnostic value. Unlike RuntimeError it is an ordinary
// first-class result: operations such as the statistics of an empty vector
// return one, and it can be bound to a variable or passed around.
type Error struct {
	Message string
	Details string
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) TypeName() string { return "Error" }

func (e *Error) Inspect() string {
	if e.Details != "" {
		return fmt.Sprintf("Error: %s\n%s", e.Message, e.Details)
	}
	return "Error: " + e.Message
}

// Notification is a soft informational result, e.g. from clearing a session.
type Notification struct {
	Message string
}

func (n *Notification) Type() ObjectType { return NOTIFICATION_OBJ }
func (n *Notification) TypeName() string { return "Notification" }
func (n *Notification) Inspect() string  { return n.Message }

// PlotData2D carries the sampled points of a 2D function plot. Rendering is
// the client's concern; the engine only produces the data.
type PlotData2D struct {
	XValues []float64 `json:"x_values"`
	YValues []float64 `json:"y_values"`
	Title   string    `json:"title"`
	XLabel  string    `json:"x_label"`
	YLabel  string    `json:"y_label"`
}

func (p *PlotData2D) Type() ObjectType { return PLOT2D_OBJ }
func (p *PlotData2D) TypeName() string { return "PlotData2D" }
func (p *PlotData2D) Inspect() string  { return fmt.Sprintf("[Plot: %d points]", len(p.XValues)) }

// PlotData3D carries a sampled surface: ZValues[i][j] is f(XValues[j], YValues[i]).
type PlotData3D struct {
	XValues []float64   `json:"x_values"`
	YValues []float64   `json:"y_values"`
	ZValues [][]float64 `json:"z_values"`
	Title   string      `json:"title"`
	XLabel  string      `json:"x_label"`
	YLabel  string      `json:"y_label"`
	ZLabel  string      `json:"z_label"`
}

func (p *PlotData3D) Type() ObjectType { return PLOT3D_OBJ }
func (p *PlotData3D) TypeName() string { return "PlotData3D" }

func (p *PlotData3D) Inspect() string {
	return fmt.Sprintf("[3D Plot: %dx%d grid]", len(p.XValues), len(p.YValues))
}

type HistogramData struct {
	Values []float64 `json:"values"`
	Bins   int       `json:"bins"`
	Title  string    `json:"title"`
	XLabel string    `json:"x_label"`
	YLabel string    `json:"y_label"`
}

func (h *HistogramData) Type() ObjectType { return HISTOGRAM_OBJ }
func (h *HistogramData) TypeName() string { return "HistogramData" }

func (h *HistogramData) Inspect() string {
	return fmt.Sprintf("[Histogram: %d values, %d bins]", len(h.Values), h.Bins)
}

type ScatterData struct {
	XValues []float64 `json:"x_values"`
	YValues []float64 `json:"y_values"`
	Title   string    `json:"title"`
	XLabel  string    `json:"x_label"`
	YLabel  string    `json:"y_label"`
}

func (s *ScatterData) Type() ObjectType { return SCATTER_OBJ }
func (s *ScatterData) TypeName() string { return "ScatterData" }
func (s *ScatterData) Inspect() string  { return fmt.Sprintf("[Scatter: %d points]", len(s.XValues)) }
