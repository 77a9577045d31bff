package operation

import (
	"fmt"
	"sort"

	"mathlang/internal/object"
)

// ArgInfo describes one declared argument of an operation.
type ArgInfo struct {
	Name          string
	Description   string
	AcceptedTypes []string
	Optional      bool
}

// ExecuteFn is an operation executor. Eager operations receive fully forced
// values; lazy operations receive thunks at their declared lazy indices and
// force them through ctx as needed.
type ExecuteFn func(args []object.Object, session *object.Session, ctx object.CallContext) object.Object

// Operation is the static description of one callable. Instances are built
// once by a provider, registered once, and never mutated afterwards.
type Operation struct {
	Identifier  string
	Name        string
	Description string
	Category    string // slash-delimited path, e.g. "Arithmetic/Basic"

	Required []ArgInfo
	Optional []ArgInfo

	// Variadic operations accept any number of arguments beyond the
	// required ones, all described by VariadicArg.
	Variadic    bool
	VariadicArg *ArgInfo

	// LazyArgs lists argument indices delivered as unforced thunks.
	// LazyAll marks every argument lazy, which LazyArgs cannot express
	// for variadic operations.
	LazyArgs []int
	LazyAll  bool

	Execute ExecuteFn
}

func (op *Operation) MinArgs() int {
	return len(op.Required)
}

// MaxArgs returns -1 for variadic operations.
func (op *Operation) MaxArgs() int {
	if op.Variadic {
		return -1
	}
	return len(op.Required) + len(op.Optional)
}

// IsLazyArg reports whether the argument at index i should stay a thunk.
func (op *Operation) IsLazyArg(i int) bool {
	if op.LazyAll {
		return true
	}
	for _, idx := range op.LazyArgs {
		if idx == i {
			return true
		}
	}
	return false
}

// CheckArity validates a supplied argument count against the declared
// range. Executors rely on this and do not re-validate counts.
func (op *Operation) CheckArity(n int) *object.RuntimeError {
	min, max := op.MinArgs(), op.MaxArgs()
	if n >= min && (max < 0 || n <= max) {
		return nil
	}
	var expected string
	switch {
	case max < 0:
		expected = fmt.Sprintf("at least %d", min)
	case min == max:
		expected = fmt.Sprintf("%d", min)
	default:
		expected = fmt.Sprintf("between %d and %d", min, max)
	}
	return object.NewError(object.ArityError,
		"%s expects %s argument(s), got %d", op.Identifier, expected, n)
}

// Registry is the process-wide operation table. It is populated once at
// startup and read-only afterwards, so concurrent evaluations may share it
// without locking.
type Registry struct {
	operations map[string]*Operation
}

func NewRegistry() *Registry {
	return &Registry{operations: make(map[string]*Operation)}
}

// Register adds an operation. Duplicate identifiers are a programming
// error in a provider and are rejected rather than silently overwritten.
func (r *Registry) Register(op *Operation) error {
	if _, exists := r.operations[op.Identifier]; exists {
		return fmt.Errorf("operation %q already registered", op.Identifier)
	}
	r.operations[op.Identifier] = op
	return nil
}

// Get looks up an operation by identifier.
func (r *Registry) Get(identifier string) (*Operation, bool) {
	op, ok := r.operations[identifier]
	return op, ok
}

func (r *Registry) Len() int {
	return len(r.operations)
}

// All returns every operation ordered by category, then identifier. The
// ordering is stable across calls so listings can be diffed.
func (r *Registry) All() []*Operation {
	ops := make([]*Operation, 0, len(r.operations))
	for _, op := range r.operations {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool {
		if ops[i].Category != ops[j].Category {
			return ops[i].Category < ops[j].Category
		}
		return ops[i].Identifier < ops[j].Identifier
	})
	return ops
}

// Provider contributes a set of related operations to the registry.
type Provider interface {
	Name() string
	Operations() []*Operation
}

// RegisterProviders populates a registry from providers in order. The
// first duplicate identifier aborts registration.
func RegisterProviders(r *Registry, providers ...Provider) error {
	for _, p := range providers {
		for _, op := range p.Operations() {
			if err := r.Register(op); err != nil {
				return fmt.Errorf("provider %s: %w", p.Name(), err)
			}
		}
	}
	return nil
}
