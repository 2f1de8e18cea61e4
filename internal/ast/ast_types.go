package ast

import (
	"github.com/latticelang/latticec/internal/source"
)

// --- Type nodes ---

// NamedType is a (possibly generic) named type path: `Foo`, `Vec<T>`,
// `std::Box<T>`.
type NamedType struct {
	Sp   source.Span
	Path []*Identifier
	Args []Type
}

func (n *NamedType) Span() source.Span { return n.Sp }
func (n *NamedType) Accept(v Visitor)  { v.VisitNamedType(n) }
func (n *NamedType) typeNode()         {}

// RefType is `&T`, `&mut T`, or a lifetime-qualified `&'a T`.
type RefType struct {
	Sp       source.Span
	Mutable  bool
	Lifetime *Identifier // nil if elided
	Inner    Type
}

func (r *RefType) Span() source.Span { return r.Sp }
func (r *RefType) Accept(v Visitor)  { v.VisitRefType(r) }
func (r *RefType) typeNode()         {}

// PointerType is `*const T` or `*mut T`.
type PointerType struct {
	Sp      source.Span
	Mutable bool
	Inner   Type
}

func (p *PointerType) Span() source.Span { return p.Sp }
func (p *PointerType) Accept(v Visitor)  { v.VisitPointerType(p) }
func (p *PointerType) typeNode()         {}

// ArrayType is `[T; N]`.
type ArrayType struct {
	Sp   source.Span
	Elem Type
	Size Expression
}

func (a *ArrayType) Span() source.Span { return a.Sp }
func (a *ArrayType) Accept(v Visitor)  { v.VisitArrayType(a) }
func (a *ArrayType) typeNode()         {}

// TupleType is `(T1, T2, ...)`; the empty tuple `()` is the unit type.
type TupleType struct {
	Sp       source.Span
	Elements []Type
}

func (t *TupleType) Span() source.Span { return t.Sp }
func (t *TupleType) Accept(v Visitor)  { v.VisitTupleType(t) }
func (t *TupleType) typeNode()         {}

// FunctionType is `fn(T1, T2) -> R`.
type FunctionType struct {
	Sp         source.Span
	Params     []Type
	ReturnType Type
}

func (f *FunctionType) Span() source.Span { return f.Sp }
func (f *FunctionType) Accept(v Visitor)  { v.VisitFunctionType(f) }
func (f *FunctionType) typeNode()         {}

// TraitObjectType is `dyn Trait1 + Trait2`.
type TraitObjectType struct {
	Sp     source.Span
	Bounds []Type
}

func (t *TraitObjectType) Span() source.Span { return t.Sp }
func (t *TraitObjectType) Accept(v Visitor)  { v.VisitTraitObjectType(t) }
func (t *TraitObjectType) typeNode()         {}

// InferredType is the placeholder type `_`, resolved by inference.
type InferredType struct {
	Sp source.Span
}

func (i *InferredType) Span() source.Span { return i.Sp }
func (i *InferredType) Accept(v Visitor)  { v.VisitInferredType(i) }
func (i *InferredType) typeNode()         {}

// --- Patterns ---

// WildcardPattern is `_`.
type WildcardPattern struct {
	Sp source.Span
}

func (p *WildcardPattern) Span() source.Span { return p.Sp }
func (p *WildcardPattern) Accept(v Visitor)  { v.VisitWildcardPattern(p) }
func (p *WildcardPattern) patternNode()      {}

// LiteralPattern matches a literal value exactly.
type LiteralPattern struct {
	Sp      source.Span
	Literal Expression // one of IntLiteral, FloatLiteral, StringLiteral, CharLiteral, BoolLiteral
}

func (p *LiteralPattern) Span() source.Span { return p.Sp }
func (p *LiteralPattern) Accept(v Visitor)  { v.VisitLiteralPattern(p) }
func (p *LiteralPattern) patternNode()      {}

// IdentPattern binds a new name, optionally `mut` or `ref`, optionally
// with an `@` sub-pattern (`x @ 1..=5`).
type IdentPattern struct {
	Sp         source.Span
	Name       string
	Mutable    bool
	ByRef      bool
	SubPattern Pattern // nil unless an `@` sub-pattern is present
}

func (p *IdentPattern) Span() source.Span { return p.Sp }
func (p *IdentPattern) Accept(v Visitor)  { v.VisitIdentPattern(p) }
func (p *IdentPattern) patternNode()      {}

// TuplePattern is `(p1, p2, ...)`.
type TuplePattern struct {
	Sp       source.Span
	Elements []Pattern
}

func (p *TuplePattern) Span() source.Span { return p.Sp }
func (p *TuplePattern) Accept(v Visitor)  { v.VisitTuplePattern(p) }
func (p *TuplePattern) patternNode()      {}

// FieldPattern is one `name: pattern` entry of a struct pattern; Pattern is
// nil for field-shorthand (`Point { x, y }`), which binds `name` directly.
type FieldPattern struct {
	Name    *Identifier
	Pattern Pattern
}

// StructPattern matches a struct or struct-like enum variant by field.
type StructPattern struct {
	Sp      source.Span
	Path    []*Identifier
	Fields  []*FieldPattern
	HasRest bool // true if the pattern ends in `, ..`
}

func (p *StructPattern) Span() source.Span { return p.Sp }
func (p *StructPattern) Accept(v Visitor)  { v.VisitStructPattern(p) }
func (p *StructPattern) patternNode()      {}

// EnumVariantPattern matches a tuple-style enum variant, `Some(x)`.
type EnumVariantPattern struct {
	Sp       source.Span
	Path     []*Identifier
	Elements []Pattern
}

func (p *EnumVariantPattern) Span() source.Span { return p.Sp }
func (p *EnumVariantPattern) Accept(v Visitor)  { v.VisitEnumVariantPattern(p) }
func (p *EnumVariantPattern) patternNode()      {}

// RefPattern is `&pattern` or `&mut pattern`.
type RefPattern struct {
	Sp      source.Span
	Mutable bool
	Inner   Pattern
}

func (p *RefPattern) Span() source.Span { return p.Sp }
func (p *RefPattern) Accept(v Visitor)  { v.VisitRefPattern(p) }
func (p *RefPattern) patternNode()      {}

// RangePattern is `start..=end` (inclusive only, per common ownership-lang
// pattern-range surface syntax).
type RangePattern struct {
	Sp    source.Span
	Start Expression
	End   Expression
}

func (p *RangePattern) Span() source.Span { return p.Sp }
func (p *RangePattern) Accept(v Visitor)  { v.VisitRangePattern(p) }
func (p *RangePattern) patternNode()      {}
