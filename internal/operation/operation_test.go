package operation

import (
	"testing"

	"mathlang/internal/object"
)

func fixedOp(identifier, category string) *Operation {
	return &Operation{
		Identifier: identifier,
		Name:       identifier,
		Category:   category,
		Required:   []ArgInfo{{Name: "x"}},
		Execute: func(args []object.Object, session *object.Session, ctx object.CallContext) object.Object {
			return args[0]
		},
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(fixedOp("Abs", "math/arithmetic")); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	if err := r.Register(fixedOp("Abs", "math/arithmetic")); err == nil {
		t.Fatalf("duplicate register should fail")
	}
	if r.Len() != 1 {
		t.Errorf("expected 1 registered operation, got %d", r.Len())
	}
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()
	r.Register(fixedOp("Sqrt", "math/arithmetic"))

	if _, ok := r.Get("Sqrt"); !ok {
		t.Errorf("Sqrt not found")
	}
	if _, ok := r.Get("sqrt"); ok {
		t.Errorf("lookup should be case sensitive")
	}
}

func TestAllOrderedByCategoryThenIdentifier(t *testing.T) {
	r := NewRegistry()
	r.Register(fixedOp("Zeta", "math/arithmetic"))
	r.Register(fixedOp("Sin", "math/trigonometry"))
	r.Register(fixedOp("Abs", "math/arithmetic"))
	r.Register(fixedOp("Cos", "math/trigonometry"))

	var got []string
	for _, op := range r.All() {
		got = append(got, op.Identifier)
	}
	expected := []string{"Abs", "Zeta", "Cos", "Sin"}
	for i := range expected {
		if got[i] != expected[i] {
			t.Fatalf("wrong order: expected %v, got %v", expected, got)
		}
	}
}

func TestCheckArity(t *testing.T) {
	op := &Operation{
		Identifier: "Round",
		Required:   []ArgInfo{{Name: "value"}},
		Optional:   []ArgInfo{{Name: "decimals"}},
	}

	if err := op.CheckArity(1); err != nil {
		t.Errorf("1 arg should pass: %v", err)
	}
	if err := op.CheckArity(2); err != nil {
		t.Errorf("2 args should pass: %v", err)
	}

	err := op.CheckArity(0)
	if err == nil {
		t.Fatalf("0 args should fail")
	}
	if err.Kind != object.ArityError {
		t.Errorf("expected ArityError, got %s", err.Kind)
	}

	if err := op.CheckArity(3); err == nil {
		t.Errorf("3 args should fail")
	}
}

func TestCheckArityVariadic(t *testing.T) {
	op := &Operation{
		Identifier:  "Concat",
		Required:    []ArgInfo{{Name: "first"}},
		Variadic:    true,
		VariadicArg: &ArgInfo{Name: "rest"},
	}

	if err := op.CheckArity(1); err != nil {
		t.Errorf("1 arg should pass: %v", err)
	}
	if err := op.CheckArity(10); err != nil {
		t.Errorf("10 args should pass: %v", err)
	}
	if err := op.CheckArity(0); err == nil {
		t.Errorf("0 args should fail")
	}
}

func TestIsLazyArg(t *testing.T) {
	ifOp := &Operation{
		Identifier: "If",
		Required:   []ArgInfo{{Name: "cond"}, {Name: "then"}, {Name: "else"}},
		LazyArgs:   []int{1, 2},
	}
	if ifOp.IsLazyArg(0) {
		t.Errorf("condition should be eager")
	}
	if !ifOp.IsLazyArg(1) || !ifOp.IsLazyArg(2) {
		t.Errorf("branches should be lazy")
	}

	andOp := &Operation{
		Identifier: "And",
		Variadic:   true,
		LazyAll:    true,
	}
	for i := 0; i < 5; i++ {
		if !andOp.IsLazyArg(i) {
			t.Errorf("variadic lazy operation: arg %d should be lazy", i)
		}
	}
}
