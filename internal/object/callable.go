package object

import (
	"fmt"
	"strings"

	"mathlang/internal/ast"
)

// Lambda is an anonymous function value. It captures the session it was
// defined in, so free variables in the body resolve against the defining
// scope no matter where the lambda is later applied.
type Lambda struct {
	Parameters []string
	Body       ast.Expression
	Session    *Session
}

func (l *Lambda) Type() ObjectType { return LAMBDA_OBJ }

func (l *Lambda) TypeName() string {
	return fmt.Sprintf("Lambda (%d params)", len(l.Parameters))
}

func (l *Lambda) Inspect() string {
	body := l.Body.String()
	switch len(l.Parameters) {
	case 0:
		return "() -> " + body
	case 1:
		return l.Parameters[0] + " -> " + body
	default:
		return "(" + strings.Join(l.Parameters, ", ") + ") -> " + body
	}
}

// Thunk is a deferred expression paired with the session to evaluate it in.
// Lambda arguments and lazy operation arguments arrive as thunks; forcing
// one evaluates the expression at most once and caches the result.
type Thunk struct {
	Expression ast.Expression
	Session    *Session

	result Object
}

func (t *Thunk) Type() ObjectType { return THUNK_OBJ }
func (t *Thunk) TypeName() string { return "Thunk" }
func (t *Thunk) Inspect() string  { return "<deferred>" }

// Result returns the cached value of a previously forced thunk, or nil.
func (t *Thunk) Result() Object { return t.result }

// Memoize records the value a thunk was forced to.
func (t *Thunk) Memoize(v Object) { t.result = v }
