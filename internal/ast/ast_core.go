// Package ast defines the typed tree produced by the parser: items,
// statements, expressions, types, and patterns. Every node carries a span
// into the originating SourceMap entry.
package ast

import (
	"github.com/latticelang/latticec/internal/source"
)

// Node is the base interface implemented by every AST node.
type Node interface {
	Span() source.Span
	Accept(v Visitor)
}

// Item is a top-level (or module-level) declaration.
type Item interface {
	Node
	itemNode()
}

// Statement is a Node that appears inside a block.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that yields a value.
type Expression interface {
	Node
	expressionNode()
}

// Type is a Node appearing in type position.
type Type interface {
	Node
	typeNode()
}

// Pattern is a Node appearing in binding position (let, function parameter,
// match arm).
type Pattern interface {
	Node
	patternNode()
}

// Visibility classifies an item's accessibility (spec §4.3).
type Visibility int

const (
	Private Visibility = iota
	Pub
	PubCrate
)

func (v Visibility) String() string {
	switch v {
	case Pub:
		return "pub"
	case PubCrate:
		return "pub(crate)"
	default:
		return "private"
	}
}

// Identifier is a bare name occurring in any position: binding, path
// segment, field name, label.
type Identifier struct {
	Sp    source.Span
	Value string
}

func (i *Identifier) Span() source.Span { return i.Sp }
func (i *Identifier) Accept(v Visitor)  { v.VisitIdentifier(i) }

// GenericParam is one entry of an item's generic parameter list, e.g. `T:
// Show + Clone`.
type GenericParam struct {
	Sp     source.Span
	Name   *Identifier
	Bounds []Type
}

// WherePredicate is one `T: Bound` entry of an item's where-clause.
type WherePredicate struct {
	Sp     source.Span
	Target Type
	Bounds []Type
}

// File is the root node of one parsed source file.
type File struct {
	Sp    source.Span
	Name  string
	Items []Item
}

func (f *File) Span() source.Span { return f.Sp }
func (f *File) Accept(v Visitor)  { v.VisitFile(f) }

// Param is one function or closure parameter.
type Param struct {
	Sp      source.Span
	Pattern Pattern
	Type    Type // nil when inferred (closures may omit parameter types)
}

// FieldDef is one struct or enum-variant field.
type FieldDef struct {
	Sp         source.Span
	Visibility Visibility
	Name       *Identifier // nil for tuple-style (positional) fields
	Type       Type
}

// FnItem is a function declaration, as a free item or as a trait/impl
// method.
type FnItem struct {
	Sp         source.Span
	Visibility Visibility
	Name       *Identifier
	Generics   []*GenericParam
	Where      []*WherePredicate
	Params     []*Param
	ReturnType Type // nil means unit
	Body       *BlockExpr
	IsAsync    bool // never set: internal/parser does not accept an async modifier
	IsUnsafe   bool
}

func (f *FnItem) Span() source.Span { return f.Sp }
func (f *FnItem) Accept(v Visitor)  { v.VisitFnItem(f) }
func (f *FnItem) itemNode()         {}

// StructItem is a struct declaration. Either Fields are all named (a
// record struct), all unnamed (a tuple struct), or the list is empty (a
// unit struct).
type StructItem struct {
	Sp         source.Span
	Visibility Visibility
	Name       *Identifier
	Generics   []*GenericParam
	Where      []*WherePredicate
	Fields     []*FieldDef
}

func (s *StructItem) Span() source.Span { return s.Sp }
func (s *StructItem) Accept(v Visitor)  { v.VisitStructItem(s) }
func (s *StructItem) itemNode()         {}

// EnumVariant is one case of an enum declaration.
type EnumVariant struct {
	Sp           source.Span
	Name         *Identifier
	Fields       []*FieldDef // struct-style or tuple-style payload, may be empty
	Discriminant Expression  // optional explicit discriminant, e.g. `= 4`
}

// EnumItem is an enum declaration.
type EnumItem struct {
	Sp         source.Span
	Visibility Visibility
	Name       *Identifier
	Generics   []*GenericParam
	Where      []*WherePredicate
	Variants   []*EnumVariant
}

func (e *EnumItem) Span() source.Span { return e.Sp }
func (e *EnumItem) Accept(v Visitor)  { v.VisitEnumItem(e) }
func (e *EnumItem) itemNode()         {}

// TraitItem is a trait declaration. Methods with a nil Body are abstract
// signatures; a non-nil Body is a default implementation.
type TraitItem struct {
	Sp          source.Span
	Visibility  Visibility
	Name        *Identifier
	Generics    []*GenericParam
	SuperBounds []Type
	Methods     []*FnItem
}

func (t *TraitItem) Span() source.Span { return t.Sp }
func (t *TraitItem) Accept(v Visitor)  { v.VisitTraitItem(t) }
func (t *TraitItem) itemNode()         {}

// ImplItem is an inherent or trait implementation block. TraitName is nil
// for an inherent impl (`impl Foo { ... }`).
type ImplItem struct {
	Sp        source.Span
	Generics  []*GenericParam
	Where     []*WherePredicate
	TraitName Type // nil for an inherent impl
	SelfType  Type
	Methods   []*FnItem
}

func (i *ImplItem) Span() source.Span { return i.Sp }
func (i *ImplItem) Accept(v Visitor)  { v.VisitImplItem(i) }
func (i *ImplItem) itemNode()         {}

// UseItem imports a path, optionally under an alias.
type UseItem struct {
	Sp    source.Span
	Path  []*Identifier
	Alias *Identifier // nil if unaliased
}

func (u *UseItem) Span() source.Span { return u.Sp }
func (u *UseItem) Accept(v Visitor)  { v.VisitUseItem(u) }
func (u *UseItem) itemNode()         {}

// ConstItem is a `const NAME: T = expr;` item.
type ConstItem struct {
	Sp         source.Span
	Visibility Visibility
	Name       *Identifier
	Type       Type
	Value      Expression
}

func (c *ConstItem) Span() source.Span { return c.Sp }
func (c *ConstItem) Accept(v Visitor)  { v.VisitConstItem(c) }
func (c *ConstItem) itemNode()         {}

// StaticItem is a `static [mut] NAME: T = expr;` item.
type StaticItem struct {
	Sp         source.Span
	Visibility Visibility
	Mutable    bool
	Name       *Identifier
	Type       Type
	Value      Expression
}

func (s *StaticItem) Span() source.Span { return s.Sp }
func (s *StaticItem) Accept(v Visitor)  { v.VisitStaticItem(s) }
func (s *StaticItem) itemNode()         {}

// TypeAliasItem is a `type Name<...> = T;` item.
type TypeAliasItem struct {
	Sp         source.Span
	Visibility Visibility
	Name       *Identifier
	Generics   []*GenericParam
	Target     Type
}

func (t *TypeAliasItem) Span() source.Span { return t.Sp }
func (t *TypeAliasItem) Accept(v Visitor)  { v.VisitTypeAliasItem(t) }
func (t *TypeAliasItem) itemNode()         {}

// ModItem is an inline module, `mod name { ...items }`.
type ModItem struct {
	Sp         source.Span
	Visibility Visibility
	Name       *Identifier
	Items      []Item
}

func (m *ModItem) Span() source.Span { return m.Sp }
func (m *ModItem) Accept(v Visitor)  { v.VisitModItem(m) }
func (m *ModItem) itemNode()         {}
