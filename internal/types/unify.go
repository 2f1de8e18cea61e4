package types

import "fmt"

// MismatchError reports two types that cannot be made equal.
type MismatchError struct {
	Expected, Found Type
	Detail          string
}

func (e *MismatchError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("expected %s, found %s (%s)", e.Expected, e.Found, e.Detail)
	}
	return fmt.Sprintf("expected %s, found %s", e.Expected, e.Found)
}

// typePair co-inductively tracks types already being compared on the
// current unification stack, mirroring the teacher's cycle guard in
// unifyInternal — recursive types (a struct field referencing itself
// through a reference) would otherwise unify forever.
type typePair struct{ a, b Type }

// Unify finds the most general substitution making t1 and t2 equal,
// rejecting infinite types via the occurs check (spec §4.4 step b).
func Unify(t1, t2 Type) (Subst, error) {
	return unify(t1, t2, nil)
}

func unify(t1, t2 Type, visited []typePair) (Subst, error) {
	for _, p := range visited {
		if sameType(p.a, t1) && sameType(p.b, t2) {
			return Subst{}, nil
		}
	}
	visited = append(visited, typePair{t1, t2})

	if v1, ok := t1.(Var); ok {
		return bind(v1, t2)
	}
	if v2, ok := t2.(Var); ok {
		return bind(v2, t1)
	}

	switch a := t1.(type) {
	case Primitive:
		b, ok := t2.(Primitive)
		if !ok || a.Kind != b.Kind {
			return nil, &MismatchError{Expected: t1, Found: t2}
		}
		return Subst{}, nil

	case Named:
		b, ok := t2.(Named)
		if !ok || a.Name != b.Name || len(a.Args) != len(b.Args) {
			return nil, &MismatchError{Expected: t1, Found: t2}
		}
		return unifyAll(a.Args, b.Args, visited)

	case Ref:
		b, ok := t2.(Ref)
		if !ok {
			return nil, &MismatchError{Expected: t1, Found: t2}
		}
		if a.Mutable != b.Mutable {
			return nil, &MismatchError{Expected: t1, Found: t2, Detail: "mutability differs"}
		}
		return unify(a.Inner, b.Inner, visited)

	case Pointer:
		b, ok := t2.(Pointer)
		if !ok || a.Mutable != b.Mutable {
			return nil, &MismatchError{Expected: t1, Found: t2}
		}
		return unify(a.Inner, b.Inner, visited)

	case Array:
		b, ok := t2.(Array)
		if !ok {
			return nil, &MismatchError{Expected: t1, Found: t2}
		}
		if a.Len >= 0 && b.Len >= 0 && a.Len != b.Len {
			return nil, &MismatchError{Expected: t1, Found: t2, Detail: "array length differs"}
		}
		return unify(a.Elem, b.Elem, visited)

	case Tuple:
		b, ok := t2.(Tuple)
		if !ok || len(a.Elements) != len(b.Elements) {
			return nil, &MismatchError{Expected: t1, Found: t2}
		}
		return unifyAll(a.Elements, b.Elements, visited)

	case Func:
		b, ok := t2.(Func)
		if !ok || len(a.Params) != len(b.Params) {
			return nil, &MismatchError{Expected: t1, Found: t2, Detail: "arity mismatch"}
		}
		s, err := unifyAll(a.Params, b.Params, visited)
		if err != nil {
			return nil, err
		}
		s2, err := unify(a.Return.Apply(s), b.Return.Apply(s), visited)
		if err != nil {
			return nil, err
		}
		return s.Compose(s2), nil
	}

	return nil, &MismatchError{Expected: t1, Found: t2}
}

func unifyAll(as, bs []Type, visited []typePair) (Subst, error) {
	s := Subst{}
	for i := range as {
		next, err := unify(as[i].Apply(s), bs[i].Apply(s), visited)
		if err != nil {
			return nil, err
		}
		s = s.Compose(next)
	}
	return s, nil
}

// bind binds a type variable to t, rejecting the binding if it would
// construct an infinite type (spec §4.4: "occurs-check").
func bind(v Var, t Type) (Subst, error) {
	if other, ok := t.(Var); ok && other.Name == v.Name {
		return Subst{}, nil
	}
	if v.Rigid {
		if other, ok := t.(Var); ok && !other.Rigid {
			return Subst{other.Name: v}, nil
		}
		return nil, &MismatchError{Expected: v, Found: t, Detail: "rigid type variable cannot be unified away"}
	}
	if occursIn(v.Name, t) {
		return nil, &MismatchError{Expected: v, Found: t, Detail: "infinite type"}
	}
	return Subst{v.Name: t}, nil
}

func occursIn(name string, t Type) bool {
	for _, fv := range t.FreeVars() {
		if fv == name {
			return true
		}
	}
	return false
}

func sameType(a, b Type) bool {
	return a != nil && b != nil && a.String() == b.String()
}
