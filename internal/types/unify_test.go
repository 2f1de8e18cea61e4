package types

import "testing"

func TestUnifyPrimitivesMatch(t *testing.T) {
	_, err := Unify(Primitive{Kind: I32}, Primitive{Kind: I32})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUnifyPrimitivesMismatch(t *testing.T) {
	_, err := Unify(Primitive{Kind: I32}, Primitive{Kind: Bool})
	if err == nil {
		t.Fatalf("expected a mismatch error")
	}
}

func TestUnifyVariableBinds(t *testing.T) {
	s, err := Unify(Var{Name: "t0"}, Primitive{Kind: I32})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s["t0"]; got.String() != "i32" {
		t.Fatalf("expected t0 bound to i32, got %v", got)
	}
}

func TestUnifyOccursCheckRejectsInfiniteType(t *testing.T) {
	a := Var{Name: "a"}
	selfReferential := Named{Name: "List", Args: []Type{a}}
	_, err := Unify(a, selfReferential)
	if err == nil {
		t.Fatalf("expected occurs-check failure for a = List<a>")
	}
}

func TestUnifyFunctionArityMismatch(t *testing.T) {
	f1 := Func{Params: []Type{Primitive{Kind: I32}}, Return: Primitive{Kind: Bool}}
	f2 := Func{Params: []Type{Primitive{Kind: I32}, Primitive{Kind: I32}}, Return: Primitive{Kind: Bool}}
	_, err := Unify(f1, f2)
	if err == nil {
		t.Fatalf("expected arity mismatch error")
	}
}

func TestUnifyNestedGenericArgs(t *testing.T) {
	a := Var{Name: "t0"}
	lhs := Named{Name: "Option", Args: []Type{a}}
	rhs := Named{Name: "Option", Args: []Type{Primitive{Kind: Str}}}
	s, err := Unify(lhs, rhs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := s["t0"]; got.String() != "str" {
		t.Fatalf("expected t0 bound to str, got %v", got)
	}
}

func TestUnifyRigidVariableRejectsSubstitution(t *testing.T) {
	rigid := Var{Name: "T", Rigid: true}
	_, err := Unify(rigid, Primitive{Kind: I32})
	if err == nil {
		t.Fatalf("expected a rigid type variable to reject unification with a concrete type")
	}
}

func TestUnifyReferenceMutabilityMismatch(t *testing.T) {
	r1 := Ref{Mutable: true, Inner: Primitive{Kind: I32}}
	r2 := Ref{Mutable: false, Inner: Primitive{Kind: I32}}
	_, err := Unify(r1, r2)
	if err == nil {
		t.Fatalf("expected mutability mismatch error")
	}
}
