package symbols

import (
	"github.com/latticelang/latticec/internal/ast"
	"github.com/latticelang/latticec/internal/diagnostics"
)

// Result is the output of resolving one file: the populated scope tree and
// a decoration map from every resolved ast.Node to the Symbol it denotes,
// following the teacher's map[ast.Node]T decoration idiom (see
// analyzer.InferenceContext.TypeMap) rather than mutating AST nodes in
// place.
type Result struct {
	Root        *Scope
	Resolutions map[ast.Node]*Symbol
	Diagnostics []*diagnostics.Diagnostic
}

// Resolver walks a *ast.File in two passes: Pass 1 installs every item's
// forward declaration (so mutual recursion and out-of-order references
// work); Pass 2 resolves bodies, path expressions, and pattern bindings
// against the now-complete scope tree (spec §4.3).
type Resolver struct {
	root  *Scope
	res   map[ast.Node]*Symbol
	diags []*diagnostics.Diagnostic
}

// NewResolver creates a resolver over a prelude scope, typically NewRoot().
// Primitive types (spec §3) are recognized by isBuiltinTypeName rather than
// installed as Symbols in the prelude.
func NewResolver(prelude *Scope) *Resolver {
	return &Resolver{root: prelude, res: map[ast.Node]*Symbol{}}
}

func (r *Resolver) errorf(code diagnostics.Code, n ast.Node, format string, args ...any) {
	r.diags = append(r.diags, diagnostics.NewAt(code, n.Span(), format, args...))
}

// ResolveFile runs both passes over file and returns the scope tree plus
// every Node->Symbol resolution, with accumulated diagnostics.
func (r *Resolver) ResolveFile(file *ast.File) *Result {
	moduleScope := r.root.Nested(ScopeModule)
	r.declareItemHeaders(moduleScope, file.Items)
	r.resolveItemBodies(moduleScope, file.Items)
	return &Result{Root: moduleScope, Resolutions: r.res, Diagnostics: r.diags}
}

// declareItemHeaders is pass 1: install every item's name (and, for
// functions/consts/statics, mark it pending until pass 2 resolves the
// body) without looking inside any bodies yet.
func (r *Resolver) declareItemHeaders(scope *Scope, items []ast.Item) {
	for _, item := range items {
		r.declareItemHeader(scope, item)
	}
}

func (r *Resolver) declareItemHeader(scope *Scope, item ast.Item) {
	switch it := item.(type) {
	case *ast.FnItem:
		r.declare(scope, it.Name.Value, ValueSymbol, it.Visibility, it, true)
	case *ast.StructItem:
		r.declare(scope, it.Name.Value, TypeSymbol, it.Visibility, it, false)
	case *ast.EnumItem:
		r.declare(scope, it.Name.Value, TypeSymbol, it.Visibility, it, false)
		for _, v := range it.Variants {
			// Enum variants live in the value namespace as constructors
			// (`Color::Red`, `Some(x)`), qualified resolution is handled
			// by parsePattern/parsePathExpr's multi-segment path, so a
			// bare declare here is enough for did-you-mean candidates.
			r.declare(scope, v.Name.Value, ValueSymbol, it.Visibility, v, false)
		}
	case *ast.TraitItem:
		r.declare(scope, it.Name.Value, TypeSymbol, it.Visibility, it, false)
	case *ast.ConstItem:
		r.declare(scope, it.Name.Value, ValueSymbol, it.Visibility, it, true)
	case *ast.StaticItem:
		r.declare(scope, it.Name.Value, ValueSymbol, it.Visibility, it, true)
	case *ast.TypeAliasItem:
		r.declare(scope, it.Name.Value, TypeSymbol, it.Visibility, it, false)
	case *ast.UseItem:
		name := it.Path[len(it.Path)-1]
		if it.Alias != nil {
			name = it.Alias
		}
		r.declare(scope, name.Value, ValueSymbol, ast.Private, it, false)
	case *ast.ModItem:
		sym, installed := r.declare(scope, it.Name.Value, ValueSymbol, it.Visibility, it, false)
		if !installed {
			return
		}
		_ = sym
		// A nested `mod` gets its own scope; its own items are declared
		// and resolved against that scope in a recursive sub-pass so
		// sibling modules don't see each other's unqualified names.
		inner := scope.Nested(ScopeModule)
		r.declareItemHeaders(inner, it.Items)
		r.resolveItemBodies(inner, it.Items)
	case *ast.ImplItem:
		// impl blocks introduce no new name of their own; their methods
		// are declared against SelfType during body resolution once the
		// type they extend is known to the type checker, which is out of
		// symbols' scope (spec §4.3 only tracks declaration, not method
		// dispatch tables).
	}
}

func (r *Resolver) declare(scope *Scope, name string, kind Kind, vis ast.Visibility, node ast.Node, pending bool) (*Symbol, bool) {
	sym := &Symbol{Name: name, Kind: kind, Visibility: vis, Node: node, IsPending: pending}
	existing, ok := scope.Declare(sym)
	if !ok {
		r.errorf(diagnostics.ErrR001, node, "%q is already defined in this scope", name)
		return existing, false
	}
	r.res[node] = sym
	return sym, true
}

// resolveItemBodies is pass 2.
func (r *Resolver) resolveItemBodies(scope *Scope, items []ast.Item) {
	for _, item := range items {
		r.resolveItemBody(scope, item)
	}
}

func (r *Resolver) resolveItemBody(scope *Scope, item ast.Item) {
	switch it := item.(type) {
	case *ast.FnItem:
		r.clearPending(scope, it.Name.Value, ValueSymbol)
		fnScope := scope.Nested(ScopeFunction)
		for _, param := range it.Params {
			r.declareBindings(fnScope, param.Pattern, false)
		}
		if it.Body != nil {
			r.resolveBlock(fnScope, it.Body)
		}
	case *ast.ConstItem:
		r.clearPending(scope, it.Name.Value, ValueSymbol)
		if it.Value != nil {
			r.resolveExpr(scope, it.Value)
		}
	case *ast.StaticItem:
		r.clearPending(scope, it.Name.Value, ValueSymbol)
		if it.Value != nil {
			r.resolveExpr(scope, it.Value)
		}
	case *ast.TraitItem:
		for _, m := range it.Methods {
			r.resolveItemBody(scope, m)
		}
	case *ast.ImplItem:
		for _, m := range it.Methods {
			r.resolveItemBody(scope, m)
		}
	case *ast.ModItem:
		// Already recursively resolved in declareItemHeader.
	}
}

func (r *Resolver) clearPending(scope *Scope, name string, k Kind) {
	if sym, ok := scope.Lookup(name, k); ok {
		sym.IsPending = false
	}
}

func (r *Resolver) resolveBlock(scope *Scope, b *ast.BlockExpr) {
	blockScope := scope.Nested(ScopeBlock)
	for _, stmt := range b.Statements {
		r.resolveStmt(blockScope, stmt)
	}
	if b.Tail != nil {
		r.resolveExpr(blockScope, b.Tail)
	}
}

func (r *Resolver) resolveStmt(scope *Scope, stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		if s.Init != nil {
			r.resolveExpr(scope, s.Init)
		}
		r.declareBindings(scope, s.Pattern, s.Mutable)
	case *ast.ExprStmt:
		r.resolveExpr(scope, s.Expr)
	case *ast.ReturnStmt:
		if s.Value != nil {
			r.resolveExpr(scope, s.Value)
		}
	case *ast.BreakStmt:
		label := ""
		if s.Label != nil {
			label = s.Label.Value
		}
		if _, ok := scope.LookupLoop(label); !ok {
			r.errorf(diagnostics.ErrR002, s, "break outside of a loop")
		}
		if s.Value != nil {
			r.resolveExpr(scope, s.Value)
		}
	case *ast.ContinueStmt:
		label := ""
		if s.Label != nil {
			label = s.Label.Value
		}
		if _, ok := scope.LookupLoop(label); !ok {
			r.errorf(diagnostics.ErrR002, s, "continue outside of a loop")
		}
	case *ast.ItemStmt:
		r.declareItemHeader(scope, s.Item)
		r.resolveItemBody(scope, s.Item)
	}
}

// declareBindings installs every identifier a pattern binds (spec §4.3:
// "pattern binding") into scope, recursing through compound patterns.
func (r *Resolver) declareBindings(scope *Scope, pat ast.Pattern, mutable bool) {
	switch p := pat.(type) {
	case *ast.IdentPattern:
		sym := &Symbol{Name: p.Name, Kind: ValueSymbol, Node: p, IsMutable: mutable || p.Mutable}
		if _, ok := scope.Declare(sym); ok {
			r.res[p] = sym
		} else {
			// The name is already bound in this scope (`let x = ...;
			// let x = ...;`): the new binding replaces the old one, so
			// later uses resolve to it. No diagnostic is reported for
			// this, nor for a pattern that binds the same name twice.
			scope.table(sym.Kind)[sym.Name] = sym
			r.res[p] = sym
		}
		if p.SubPattern != nil {
			r.declareBindings(scope, p.SubPattern, mutable)
		}
	case *ast.TuplePattern:
		for _, el := range p.Elements {
			r.declareBindings(scope, el, mutable)
		}
	case *ast.StructPattern:
		for _, f := range p.Fields {
			if f.Pattern != nil {
				r.declareBindings(scope, f.Pattern, mutable)
			} else {
				// Field-shorthand binding: `Point { x, y }` binds x and y.
				sym := &Symbol{Name: f.Name.Value, Kind: ValueSymbol, Node: f.Name, IsMutable: mutable}
				scope.Declare(sym)
				r.res[f.Name] = sym
			}
		}
	case *ast.EnumVariantPattern:
		for _, el := range p.Elements {
			r.declareBindings(scope, el, mutable)
		}
	case *ast.RefPattern:
		r.declareBindings(scope, p.Inner, mutable)
	case *ast.WildcardPattern, *ast.LiteralPattern, *ast.RangePattern:
		// No bindings introduced.
	}
}

func (r *Resolver) resolveExpr(scope *Scope, expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.PathExpr:
		name := e.Segments[len(e.Segments)-1].Value
		if sym, ok := scope.Lookup(name, ValueSymbol); ok {
			r.res[e] = sym
			return
		}
		r.undefined(e, name, ValueSymbol, scope)
	case *ast.BinaryExpr:
		r.resolveExpr(scope, e.Left)
		r.resolveExpr(scope, e.Right)
	case *ast.UnaryExpr:
		r.resolveExpr(scope, e.Operand)
	case *ast.AssignExpr:
		r.resolveExpr(scope, e.Target)
		r.resolveExpr(scope, e.Value)
	case *ast.CallExpr:
		r.resolveExpr(scope, e.Callee)
		for _, a := range e.Args {
			r.resolveExpr(scope, a)
		}
	case *ast.MethodCallExpr:
		r.resolveExpr(scope, e.Receiver)
		for _, a := range e.Args {
			r.resolveExpr(scope, a)
		}
	case *ast.FieldExpr:
		r.resolveExpr(scope, e.Receiver)
	case *ast.IndexExpr:
		r.resolveExpr(scope, e.Receiver)
		r.resolveExpr(scope, e.Index)
	case *ast.TupleExpr:
		for _, el := range e.Elements {
			r.resolveExpr(scope, el)
		}
	case *ast.ArrayExpr:
		for _, el := range e.Elements {
			r.resolveExpr(scope, el)
		}
		if e.Repeat != nil {
			r.resolveExpr(scope, e.Repeat)
		}
		if e.Size != nil {
			r.resolveExpr(scope, e.Size)
		}
	case *ast.StructLiteralExpr:
		name := e.Path[len(e.Path)-1].Value
		if sym, ok := scope.Lookup(name, TypeSymbol); ok {
			r.res[e] = sym
		} else {
			r.undefined(e, name, TypeSymbol, scope)
		}
		for _, f := range e.Fields {
			r.resolveExpr(scope, f.Value)
		}
		if e.Spread != nil {
			r.resolveExpr(scope, e.Spread)
		}
	case *ast.ClosureExpr:
		closureScope := scope.Nested(ScopeFunction)
		for _, param := range e.Params {
			r.declareBindings(closureScope, param.Pattern, false)
		}
		r.resolveExpr(closureScope, e.Body)
	case *ast.IfExpr:
		r.resolveExpr(scope, e.Condition)
		r.resolveBlock(scope, e.Then)
		if e.Else != nil {
			r.resolveExpr(scope, e.Else)
		}
	case *ast.MatchExpr:
		r.resolveExpr(scope, e.Scrutinee)
		for _, arm := range e.Arms {
			armScope := scope.Nested(ScopeBlock)
			r.declareBindings(armScope, arm.Pattern, false)
			if arm.Guard != nil {
				r.resolveExpr(armScope, arm.Guard)
			}
			r.resolveExpr(armScope, arm.Body)
		}
	case *ast.BlockExpr:
		r.resolveBlock(scope, e)
	case *ast.WhileExpr:
		r.resolveExpr(scope, e.Condition)
		loopScope := scope.Nested(ScopeLoop)
		if e.Label != nil {
			loopScope.Label = e.Label.Value
		}
		r.resolveBlock(loopScope, e.Body)
	case *ast.ForExpr:
		r.resolveExpr(scope, e.Iterable)
		loopScope := scope.Nested(ScopeLoop)
		if e.Label != nil {
			loopScope.Label = e.Label.Value
		}
		r.declareBindings(loopScope, e.Pattern, false)
		r.resolveBlock(loopScope, e.Body)
	case *ast.LoopExpr:
		loopScope := scope.Nested(ScopeLoop)
		if e.Label != nil {
			loopScope.Label = e.Label.Value
		}
		r.resolveBlock(loopScope, e.Body)
	case *ast.RefExpr:
		r.resolveExpr(scope, e.Operand)
	case *ast.DerefExpr:
		r.resolveExpr(scope, e.Operand)
	case *ast.RangeExpr:
		if e.Start != nil {
			r.resolveExpr(scope, e.Start)
		}
		if e.End != nil {
			r.resolveExpr(scope, e.End)
		}
	case *ast.CastExpr:
		r.resolveExpr(scope, e.Operand)
		r.resolveType(scope, e.Type)
	case *ast.AwaitExpr:
		r.resolveExpr(scope, e.Operand)
	case *ast.IntLiteral, *ast.FloatLiteral, *ast.StringLiteral, *ast.CharLiteral, *ast.BoolLiteral:
		// No names to resolve.
	}
}

func (r *Resolver) resolveType(scope *Scope, t ast.Type) {
	switch ty := t.(type) {
	case *ast.NamedType:
		name := ty.Path[len(ty.Path)-1].Value
		if sym, ok := scope.Lookup(name, TypeSymbol); ok {
			r.res[ty] = sym
		} else if !isBuiltinTypeName(name) {
			r.undefined(ty, name, TypeSymbol, scope)
		}
		for _, a := range ty.Args {
			r.resolveType(scope, a)
		}
	case *ast.RefType:
		r.resolveType(scope, ty.Inner)
	case *ast.PointerType:
		r.resolveType(scope, ty.Inner)
	case *ast.ArrayType:
		r.resolveType(scope, ty.Elem)
	case *ast.TupleType:
		for _, el := range ty.Elements {
			r.resolveType(scope, el)
		}
	case *ast.FunctionType:
		for _, p := range ty.Params {
			r.resolveType(scope, p)
		}
		if ty.ReturnType != nil {
			r.resolveType(scope, ty.ReturnType)
		}
	case *ast.TraitObjectType:
		for _, b := range ty.Bounds {
			r.resolveType(scope, b)
		}
	case *ast.InferredType:
		// Nothing to resolve; internal/infer assigns a fresh type variable.
	}
}

func (r *Resolver) undefined(n ast.Node, name string, k Kind, scope *Scope) {
	msg := "undefined name %q"
	help := diagnostics.DidYouMean(name, scope.Candidates(k))
	d := diagnostics.NewAt(diagnostics.ErrR002, n.Span(), msg, name)
	if help != "" {
		d.WithHelp(help)
	}
	r.diags = append(r.diags, d)
}
