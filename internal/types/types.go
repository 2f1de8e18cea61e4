// Package types is the Type sum type used by internal/infer, internal/borrowck,
// and internal/lifetime: primitives, named (generic) types, references,
// pointers, arrays, tuples, functions, generic parameter references, and
// fresh inference variables (spec §3 "Type").
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Type is implemented by every member of the type sum.
type Type interface {
	String() string
	Apply(Subst) Type
	FreeVars() []string
}

// Primitive kinds, spec §3: "integer widths i8..i128/u8..u128, floats
// f32/f64, bool, char, str, unit, never".
type PrimitiveKind int

const (
	I8 PrimitiveKind = iota
	I16
	I32
	I64
	I128
	U8
	U16
	U32
	U64
	U128
	Usize
	Isize
	F32
	F64
	Bool
	Char
	Str
	Unit
	Never
)

var primitiveNames = map[PrimitiveKind]string{
	I8: "i8", I16: "i16", I32: "i32", I64: "i64", I128: "i128",
	U8: "u8", U16: "u16", U32: "u32", U64: "u64", U128: "u128",
	Usize: "usize", Isize: "isize",
	F32: "f32", F64: "f64",
	Bool: "bool", Char: "char", Str: "str",
	Unit: "()", Never: "!",
}

// IsIntegral reports whether k is one of the fixed-width integer kinds
// (used by the defaulting rule and by `+`/`-`/etc. operator typing).
func (k PrimitiveKind) IsIntegral() bool {
	return k <= Isize
}

// IsFloat reports whether k is f32 or f64.
func (k PrimitiveKind) IsFloat() bool { return k == F32 || k == F64 }

// IsSigned reports whether k is one of the signed fixed-width integer
// kinds.
func (k PrimitiveKind) IsSigned() bool {
	switch k {
	case I8, I16, I32, I64, I128, Isize:
		return true
	default:
		return false
	}
}

// IsUnsigned reports whether k is one of the unsigned fixed-width integer
// kinds (used to gate internal/optimize's Div/Rem strength reduction,
// which is only correct for unsigned operands).
func (k PrimitiveKind) IsUnsigned() bool {
	switch k {
	case U8, U16, U32, U64, U128, Usize:
		return true
	default:
		return false
	}
}

// Primitive is a built-in scalar type.
type Primitive struct{ Kind PrimitiveKind }

func (p Primitive) String() string          { return primitiveNames[p.Kind] }
func (p Primitive) Apply(Subst) Type        { return p }
func (p Primitive) FreeVars() []string      { return nil }

// Var is a type variable: either a fresh inference variable (spec §4.4
// "fresh type variables") or a rigid generic-parameter reference bound by
// an enclosing item's generic parameter list (spec §4.4 "generic parameter
// reference"). Rigid variables never unify with anything but themselves or
// an unconstrained variable, which HM-style inference enforces by simply
// never substituting them away except during instantiation.
type Var struct {
	Name  string
	Rigid bool
}

func (v Var) String() string { return v.Name }
func (v Var) FreeVars() []string {
	return []string{v.Name}
}
func (v Var) Apply(s Subst) Type {
	return applyWithCycleGuard(v, s, map[string]bool{})
}

// applyWithCycleGuard follows chains of substitution without looping back
// on a variable already visited on this chain (occurs-check companion: a
// substitution map built during correct unification is acyclic, but a
// defensive guard here keeps Apply total even over a malformed map).
func applyWithCycleGuard(t Type, s Subst, visited map[string]bool) Type {
	v, ok := t.(Var)
	if !ok {
		return t.Apply(s)
	}
	if visited[v.Name] {
		return v
	}
	repl, ok := s[v.Name]
	if !ok {
		return v
	}
	next := map[string]bool{v.Name: true}
	for k := range visited {
		next[k] = true
	}
	if rv, ok := repl.(Var); ok {
		return applyWithCycleGuard(rv, s, next)
	}
	return repl.Apply(s)
}

// Named is a (possibly generic) named type: a struct, enum, or trait-object
// reference, e.g. `Vec<T>`, `Option<i32>`.
type Named struct {
	Name string
	Args []Type
}

func (n Named) String() string {
	if len(n.Args) == 0 {
		return n.Name
	}
	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s<%s>", n.Name, strings.Join(args, ", "))
}
func (n Named) Apply(s Subst) Type {
	args := make([]Type, len(n.Args))
	for i, a := range n.Args {
		args[i] = a.Apply(s)
	}
	return Named{Name: n.Name, Args: args}
}
func (n Named) FreeVars() []string {
	var out []string
	for _, a := range n.Args {
		out = append(out, a.FreeVars()...)
	}
	return uniqueStrings(out)
}

// Ref is a `&T` or `&mut T` reference type. Lifetime is filled in by
// internal/lifetime after region assignment; it is an opaque name until
// then, never unified over by internal/types itself (spec §4.6 keeps
// lifetime assignment a separate pass from type unification).
type Ref struct {
	Mutable  bool
	Lifetime string // "" until internal/lifetime assigns a region
	Inner    Type
}

func (r Ref) String() string {
	mut := ""
	if r.Mutable {
		mut = "mut "
	}
	return "&" + mut + r.Inner.String()
}
func (r Ref) Apply(s Subst) Type {
	return Ref{Mutable: r.Mutable, Lifetime: r.Lifetime, Inner: r.Inner.Apply(s)}
}
func (r Ref) FreeVars() []string { return r.Inner.FreeVars() }

// Pointer is a raw `*const T`/`*mut T`.
type Pointer struct {
	Mutable bool
	Inner   Type
}

func (p Pointer) String() string {
	if p.Mutable {
		return "*mut " + p.Inner.String()
	}
	return "*const " + p.Inner.String()
}
func (p Pointer) Apply(s Subst) Type  { return Pointer{Mutable: p.Mutable, Inner: p.Inner.Apply(s)} }
func (p Pointer) FreeVars() []string  { return p.Inner.FreeVars() }

// Array is `[T; N]`. Len is -1 until a const-evaluated size is known.
type Array struct {
	Elem Type
	Len  int64
}

func (a Array) String() string       { return fmt.Sprintf("[%s; %d]", a.Elem.String(), a.Len) }
func (a Array) Apply(s Subst) Type   { return Array{Elem: a.Elem.Apply(s), Len: a.Len} }
func (a Array) FreeVars() []string   { return a.Elem.FreeVars() }

// Tuple is `(T1, T2, ...)`; the zero-length tuple is represented as
// Primitive{Kind: Unit} instead, matching the parser's own `()` handling.
type Tuple struct{ Elements []Type }

func (t Tuple) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		parts[i] = e.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}
func (t Tuple) Apply(s Subst) Type {
	elems := make([]Type, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = e.Apply(s)
	}
	return Tuple{Elements: elems}
}
func (t Tuple) FreeVars() []string {
	var out []string
	for _, e := range t.Elements {
		out = append(out, e.FreeVars()...)
	}
	return uniqueStrings(out)
}

// Func is a function type, `(T1, T2) -> R`.
type Func struct {
	Params []Type
	Return Type
}

func (f Func) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("(%s) -> %s", strings.Join(parts, ", "), f.Return.String())
}
func (f Func) Apply(s Subst) Type {
	params := make([]Type, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Apply(s)
	}
	return Func{Params: params, Return: f.Return.Apply(s)}
}
func (f Func) FreeVars() []string {
	var out []string
	for _, p := range f.Params {
		out = append(out, p.FreeVars()...)
	}
	out = append(out, f.Return.FreeVars()...)
	return uniqueStrings(out)
}

// Scheme is a generalized type, `forall a b. T`, produced by generalization
// over the type variables not free in the surrounding context (spec §4.4
// "Generics").
type Scheme struct {
	Vars []string
	Type Type
}

func (s Scheme) String() string {
	if len(s.Vars) == 0 {
		return s.Type.String()
	}
	return fmt.Sprintf("forall %s. %s", strings.Join(s.Vars, " "), s.Type.String())
}

// Subst maps type-variable names to the types they have been unified with.
type Subst map[string]Type

// Compose returns the substitution equivalent to applying s1 then s2.
func (s1 Subst) Compose(s2 Subst) Subst {
	out := Subst{}
	for k, v := range s2 {
		out[k] = v
	}
	for k, v := range s1 {
		out[k] = v.Apply(s2)
	}
	return out
}

func uniqueStrings(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
