// Package symbols builds and queries the nested scope tree a resolved
// Lattice program needs: one pass installs item-level forward declarations,
// a second resolves bodies, annotating every path expression and pattern
// binding with the Symbol it denotes (spec §4.3).
package symbols

import "github.com/latticelang/latticec/internal/ast"

// Kind classifies what namespace-slot a Symbol occupies.
type Kind int

const (
	ValueSymbol Kind = iota
	TypeSymbol
	LifetimeSymbol
)

func (k Kind) String() string {
	switch k {
	case ValueSymbol:
		return "value"
	case TypeSymbol:
		return "type"
	case LifetimeSymbol:
		return "lifetime"
	default:
		return "unknown"
	}
}

// ScopeKind records why a Scope was opened, used for lookup rules that
// differ by scope (e.g. `break`/`continue` targets only cross Loop scopes).
type ScopeKind int

const (
	ScopePrelude ScopeKind = iota
	ScopeModule
	ScopeFunction
	ScopeBlock
	ScopeLoop
)

// Symbol is one named entity installed into a scope.
type Symbol struct {
	Name       string
	Kind       Kind
	Visibility ast.Visibility
	IsPending  bool     // forward-declared; header seen, body not yet resolved
	IsMutable  bool     // `let mut` bindings and `static mut`
	Node       ast.Node // the item/pattern/param that introduced this symbol
	Module     string   // defining module path, "" for the root file

	// Type is filled in by internal/infer once inference runs; symbols is
	// deliberately type-system agnostic so it has no import cycle with
	// internal/types.
	Type any
}

// Scope is one lexical level of the nesting tree. Each scope has three
// independent namespaces (spec §4.3: "types and values may share a name;
// lifetimes live in their own namespace").
type Scope struct {
	Kind  ScopeKind
	outer *Scope

	values    map[string]*Symbol
	types     map[string]*Symbol
	lifetimes map[string]*Symbol

	Label string // loop label, if Kind == ScopeLoop and the loop is labeled
}

// NewRoot creates the outermost (prelude) scope.
func NewRoot() *Scope {
	return &Scope{Kind: ScopePrelude, values: map[string]*Symbol{}, types: map[string]*Symbol{}, lifetimes: map[string]*Symbol{}}
}

// Nested opens a child scope of the given kind.
func (s *Scope) Nested(kind ScopeKind) *Scope {
	return &Scope{Kind: kind, outer: s, values: map[string]*Symbol{}, types: map[string]*Symbol{}, lifetimes: map[string]*Symbol{}}
}

func (s *Scope) table(k Kind) map[string]*Symbol {
	switch k {
	case TypeSymbol:
		return s.types
	case LifetimeSymbol:
		return s.lifetimes
	default:
		return s.values
	}
}

// Declare installs a symbol in this scope's namespace, returning the
// existing symbol (and false) if name is already bound here — callers
// diagnose that as ErrR001 (spec §4.3: "duplicate definition within a
// scope"). Declaring in an enclosing scope is shadowing, not an error.
func (s *Scope) Declare(sym *Symbol) (*Symbol, bool) {
	t := s.table(sym.Kind)
	if existing, ok := t[sym.Name]; ok {
		return existing, false
	}
	t[sym.Name] = sym
	return sym, true
}

// Lookup walks outward from s looking for name in the given namespace.
func (s *Scope) Lookup(name string, k Kind) (*Symbol, bool) {
	for sc := s; sc != nil; sc = sc.outer {
		if sym, ok := sc.table(k)[name]; ok {
			return sym, true
		}
	}
	return nil, false
}

// LookupLoop walks outward looking for the nearest loop scope, or — when
// label is non-empty — the loop scope carrying that label, for resolving
// `break`/`continue` targets.
func (s *Scope) LookupLoop(label string) (*Scope, bool) {
	for sc := s; sc != nil; sc = sc.outer {
		if sc.Kind != ScopeLoop {
			continue
		}
		if label == "" || sc.Label == label {
			return sc, true
		}
	}
	return nil, false
}

// Outer returns the enclosing scope, or nil at the root.
func (s *Scope) Outer() *Scope { return s.outer }

var builtinTypeNames = map[string]bool{
	"i8": true, "i16": true, "i32": true, "i64": true, "i128": true,
	"u8": true, "u16": true, "u32": true, "u64": true, "u128": true,
	"f32": true, "f64": true,
	"bool": true, "char": true, "str": true,
	"usize": true, "isize": true,
}

// isBuiltinTypeName reports whether name denotes one of the primitive
// types of spec §3 (integer widths, floats, bool, char, str, usize/isize),
// which are not installed as Symbols in the prelude scope.
func isBuiltinTypeName(name string) bool {
	return builtinTypeNames[name]
}

// Candidates returns every name visible from s in the given namespace,
// nearest scope first, for building "did you mean?" suggestions.
func (s *Scope) Candidates(k Kind) []string {
	var names []string
	seen := map[string]bool{}
	for sc := s; sc != nil; sc = sc.outer {
		for name := range sc.table(k) {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	return names
}
