// Package infer implements Hindley-Milner type inference over a resolved
// Lattice file: fresh type variables, constraint generation, unification
// and defaulting (spec §4.4). Generic items are not generalized into
// schemes, and their uses are not instantiated with fresh variables. Like the teacher's InferenceContext, inference decorates a
// map[ast.Node]types.Type rather than mutating the AST (internal/symbols'
// Resolver.res follows the same idiom).
package infer

import (
	"fmt"

	"github.com/latticelang/latticec/internal/ast"
	"github.com/latticelang/latticec/internal/diagnostics"
	"github.com/latticelang/latticec/internal/symbols"
	"github.com/latticelang/latticec/internal/token"
	"github.com/latticelang/latticec/internal/types"
)

// Constraint is one `t1 = t2` equation emitted while walking the AST (spec
// §4.4 step 2), recorded with the node that produced it for diagnostics.
type Constraint struct {
	Node  ast.Node
	Left  types.Type
	Right types.Type
}

// Context holds inference state for one file: the running substitution,
// the accumulated constraint list, and the TypeMap decoration produced for
// every expression/pattern node once solving finishes.
type Context struct {
	counter     int
	TypeMap     map[ast.Node]types.Type
	Constraints []Constraint
	Subst       types.Subst
	Diagnostics []*diagnostics.Diagnostic

	resolution map[ast.Node]*symbols.Symbol
	symTypes   map[*symbols.Symbol]types.Type
	schemes    map[*symbols.Symbol]types.Scheme

	// floatVars marks the fresh variables minted for float literals, the
	// way the teacher's inferLiteral gives *ast.FloatLiteral its own
	// typesystem.Float constant instead of reusing the integer-literal
	// path. Lattice has multiple float widths, so a literal can't resolve
	// to a single concrete type the way the teacher's does; the marker
	// survives unification (see defaultRemaining) so defaulting can still
	// tell a float-origin variable apart from an integer one.
	floatVars map[string]bool
}

// New creates an inference context seeded with a resolver's name
// resolutions (spec §4.4 runs after §4.3 resolution).
func New(res map[ast.Node]*symbols.Symbol) *Context {
	return &Context{
		TypeMap:    map[ast.Node]types.Type{},
		resolution: res,
		symTypes:   map[*symbols.Symbol]types.Type{},
		schemes:    map[*symbols.Symbol]types.Scheme{},
		Subst:      types.Subst{},
		floatVars:  map[string]bool{},
	}
}

func (c *Context) fresh() types.Var {
	c.counter++
	return types.Var{Name: fmt.Sprintf("t%d", c.counter)}
}

// freshFloat mints a fresh variable for a float literal and marks it so
// defaultRemaining defaults it to f64 rather than i32 even if it's never
// otherwise constrained (spec §4.4's "unconstrained floats default to
// 64-bit").
func (c *Context) freshFloat() types.Var {
	v := c.fresh()
	c.floatVars[v.Name] = true
	return v
}

func (c *Context) emit(n ast.Node, a, b types.Type) {
	c.Constraints = append(c.Constraints, Constraint{Node: n, Left: a, Right: b})
}

func (c *Context) record(n ast.Node, t types.Type) types.Type {
	c.TypeMap[n] = t
	return t
}

// InferFile walks every item in file, generating and solving constraints,
// then defaulting unconstrained numeric variables (spec §4.4: "Default
// types").
func (c *Context) InferFile(file *ast.File) {
	for _, item := range file.Items {
		c.inferItem(item)
	}
	c.solve()
	c.defaultRemaining()
}

func (c *Context) inferItem(item ast.Item) {
	switch it := item.(type) {
	case *ast.FnItem:
		c.inferFn(it)
	case *ast.ConstItem:
		if it.Value != nil {
			t := c.inferExpr(it.Value)
			if it.Type != nil {
				c.emit(it, t, c.resolveTypeAnnotation(it.Type))
			}
		}
	case *ast.StaticItem:
		if it.Value != nil {
			t := c.inferExpr(it.Value)
			if it.Type != nil {
				c.emit(it, t, c.resolveTypeAnnotation(it.Type))
			}
		}
	case *ast.TraitItem:
		for _, m := range it.Methods {
			if m.Body != nil {
				c.inferFn(m)
			}
		}
	case *ast.ImplItem:
		for _, m := range it.Methods {
			c.inferFn(m)
		}
	case *ast.ModItem:
		for _, inner := range it.Items {
			c.inferItem(inner)
		}
	}
}

func (c *Context) inferFn(fn *ast.FnItem) {
	paramTypes := make([]types.Type, len(fn.Params))
	for i, p := range fn.Params {
		if p.Type != nil {
			paramTypes[i] = c.resolveTypeAnnotation(p.Type)
		} else {
			paramTypes[i] = c.fresh()
		}
		c.bindPattern(p.Pattern, paramTypes[i])
	}
	ret := types.Type(types.Primitive{Kind: types.Unit})
	if fn.ReturnType != nil {
		ret = c.resolveTypeAnnotation(fn.ReturnType)
	}
	if fn.Body != nil {
		bodyType := c.inferBlock(fn.Body)
		c.emit(fn.Body, bodyType, ret)
	}
	if sym := c.symbolFor(fn.Name); sym != nil {
		c.symTypes[sym] = types.Func{Params: paramTypes, Return: ret}
	}
}

func (c *Context) symbolFor(n ast.Node) *symbols.Symbol {
	if n == nil {
		return nil
	}
	return c.resolution[n]
}

// bindPattern records the type a pattern's bound identifiers carry, so a
// later PathExpr referencing that identifier's Symbol can look it up via
// symTypes.
func (c *Context) bindPattern(pat ast.Pattern, t types.Type) {
	switch p := pat.(type) {
	case *ast.IdentPattern:
		if sym := c.resolution[p]; sym != nil {
			c.symTypes[sym] = t
		}
		c.record(p, t)
	case *ast.TuplePattern:
		elems := make([]types.Type, len(p.Elements))
		for i := range p.Elements {
			elems[i] = c.fresh()
		}
		c.emit(p, t, types.Tuple{Elements: elems})
		for i, el := range p.Elements {
			c.bindPattern(el, elems[i])
		}
	case *ast.RefPattern:
		inner := c.fresh()
		c.emit(p, t, types.Ref{Mutable: p.Mutable, Inner: inner})
		c.bindPattern(p.Inner, inner)
	case *ast.StructPattern, *ast.EnumVariantPattern:
		// Field/variant-payload types require the struct/enum's declared
		// field types, which live in internal/symbols' Symbol.Node; left
		// as a fresh variable per binding until a type-directed field
		// lookup is wired (tracked as a follow-on, not blocking §4.4's
		// core unification contract).
		c.bindCompoundPattern(pat, t)
	case *ast.WildcardPattern, *ast.LiteralPattern, *ast.RangePattern:
		// No bindings.
	}
}

func (c *Context) bindCompoundPattern(pat ast.Pattern, _ types.Type) {
	switch p := pat.(type) {
	case *ast.StructPattern:
		for _, f := range p.Fields {
			fresh := c.fresh()
			if f.Pattern != nil {
				c.bindPattern(f.Pattern, fresh)
			} else if sym := c.resolution[f.Name]; sym != nil {
				c.symTypes[sym] = fresh
			}
		}
	case *ast.EnumVariantPattern:
		for _, el := range p.Elements {
			c.bindPattern(el, c.fresh())
		}
	}
}

func (c *Context) inferBlock(b *ast.BlockExpr) types.Type {
	for _, stmt := range b.Statements {
		c.inferStmt(stmt)
	}
	if b.Tail != nil {
		return c.record(b, c.inferExpr(b.Tail))
	}
	return c.record(b, types.Primitive{Kind: types.Unit})
}

func (c *Context) inferStmt(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.LetStmt:
		var declared types.Type
		if s.TypeAnnotation != nil {
			declared = c.resolveTypeAnnotation(s.TypeAnnotation)
		}
		var t types.Type
		if s.Init != nil {
			t = c.inferExpr(s.Init)
			if declared != nil {
				c.emit(s, t, declared)
			}
		} else if declared != nil {
			t = declared
		} else {
			t = c.fresh()
		}
		c.bindPattern(s.Pattern, t)
	case *ast.ExprStmt:
		c.inferExpr(s.Expr)
	case *ast.ReturnStmt:
		if s.Value != nil {
			c.inferExpr(s.Value)
		}
	case *ast.ItemStmt:
		c.inferItem(s.Item)
	case *ast.BreakStmt:
		if s.Value != nil {
			c.inferExpr(s.Value)
		}
	}
}

func (c *Context) inferExpr(expr ast.Expression) types.Type {
	switch e := expr.(type) {
	case *ast.IntLiteral:
		return c.record(e, c.fresh())
	case *ast.FloatLiteral:
		return c.record(e, c.freshFloat())
	case *ast.StringLiteral:
		return c.record(e, types.Primitive{Kind: types.Str})
	case *ast.CharLiteral:
		return c.record(e, types.Primitive{Kind: types.Char})
	case *ast.BoolLiteral:
		return c.record(e, types.Primitive{Kind: types.Bool})
	case *ast.PathExpr:
		if sym := c.resolution[e]; sym != nil {
			if t, ok := c.symTypes[sym]; ok {
				return c.record(e, t)
			}
		}
		return c.record(e, c.fresh())
	case *ast.UnaryExpr:
		t := c.inferExpr(e.Operand)
		return c.record(e, t)
	case *ast.BinaryExpr:
		l := c.inferExpr(e.Left)
		r := c.inferExpr(e.Right)
		c.emit(e, l, r)
		if isComparison(e.Op) {
			return c.record(e, types.Primitive{Kind: types.Bool})
		}
		return c.record(e, l)
	case *ast.AssignExpr:
		target := c.inferExpr(e.Target)
		value := c.inferExpr(e.Value)
		c.emit(e, target, value)
		return c.record(e, types.Primitive{Kind: types.Unit})
	case *ast.CallExpr:
		return c.inferCall(e)
	case *ast.MethodCallExpr:
		c.inferExpr(e.Receiver)
		for _, a := range e.Args {
			c.inferExpr(a)
		}
		return c.record(e, c.fresh())
	case *ast.FieldExpr:
		c.inferExpr(e.Receiver)
		return c.record(e, c.fresh())
	case *ast.IndexExpr:
		recv := c.inferExpr(e.Receiver)
		c.inferExpr(e.Index)
		elem := c.fresh()
		c.emit(e, recv, types.Array{Elem: elem, Len: -1})
		return c.record(e, elem)
	case *ast.TupleExpr:
		elems := make([]types.Type, len(e.Elements))
		for i, el := range e.Elements {
			elems[i] = c.inferExpr(el)
		}
		return c.record(e, types.Tuple{Elements: elems})
	case *ast.StructLiteralExpr:
		for _, f := range e.Fields {
			c.inferExpr(f.Value)
		}
		name := e.Path[len(e.Path)-1].Value
		return c.record(e, types.Named{Name: name})
	case *ast.ArrayExpr:
		return c.inferArray(e)
	case *ast.ClosureExpr:
		return c.inferClosure(e)
	case *ast.IfExpr:
		cond := c.inferExpr(e.Condition)
		c.emit(e, cond, types.Primitive{Kind: types.Bool})
		then := c.inferBlock(e.Then)
		if e.Else != nil {
			alt := c.inferExpr(e.Else)
			c.emit(e, then, alt)
		}
		return c.record(e, then)
	case *ast.MatchExpr:
		return c.inferMatch(e)
	case *ast.BlockExpr:
		return c.inferBlock(e)
	case *ast.WhileExpr:
		cond := c.inferExpr(e.Condition)
		c.emit(e, cond, types.Primitive{Kind: types.Bool})
		c.inferBlock(e.Body)
		return c.record(e, types.Primitive{Kind: types.Unit})
	case *ast.ForExpr:
		iter := c.inferExpr(e.Iterable)
		elem := c.fresh()
		c.emit(e, iter, types.Named{Name: "Iterator", Args: []types.Type{elem}})
		c.bindPattern(e.Pattern, elem)
		c.inferBlock(e.Body)
		return c.record(e, types.Primitive{Kind: types.Unit})
	case *ast.LoopExpr:
		c.inferBlock(e.Body)
		return c.record(e, c.fresh())
	case *ast.RefExpr:
		inner := c.inferExpr(e.Operand)
		return c.record(e, types.Ref{Mutable: e.Mutable, Inner: inner})
	case *ast.DerefExpr:
		inner := c.inferExpr(e.Operand)
		elem := c.fresh()
		c.emit(e, inner, types.Ref{Inner: elem})
		return c.record(e, elem)
	case *ast.RangeExpr:
		var elem types.Type = c.fresh()
		if e.Start != nil {
			elem = c.inferExpr(e.Start)
		}
		if e.End != nil {
			end := c.inferExpr(e.End)
			c.emit(e, elem, end)
		}
		return c.record(e, types.Named{Name: "Range", Args: []types.Type{elem}})
	case *ast.CastExpr:
		c.inferExpr(e.Operand)
		return c.record(e, c.resolveTypeAnnotation(e.Type))
	case *ast.AwaitExpr:
		c.Diagnostics = append(c.Diagnostics, diagnostics.NewAt(diagnostics.ErrA900, e.Span(), "async/await is not supported by the core inference pass"))
		return c.record(e, c.inferExpr(e.Operand))
	}
	return types.Var{Name: "$unreachable"}
}

// isComparison reports whether op produces a bool regardless of its
// operands' type (spec §4.4: "`==` requires matching types and yields
// bool"; `<`/`<=`/`>`/`>=`/`&&`/`||` behave the same way for this purpose).
func isComparison(op token.Type) bool {
	switch op {
	case token.EQ_EQ, token.BANG_EQ, token.LT, token.LE, token.GT, token.GE, token.AMP_AMP, token.PIPE_PIPE:
		return true
	default:
		return false
	}
}

func (c *Context) inferArray(e *ast.ArrayExpr) types.Type {
	if e.Repeat != nil {
		elem := c.inferExpr(e.Repeat)
		if e.Size != nil {
			c.inferExpr(e.Size)
		}
		return c.record(e, types.Array{Elem: elem, Len: -1})
	}
	elem := c.fresh()
	for _, el := range e.Elements {
		t := c.inferExpr(el)
		c.emit(e, elem, t)
	}
	return c.record(e, types.Array{Elem: elem, Len: int64(len(e.Elements))})
}

func (c *Context) inferClosure(e *ast.ClosureExpr) types.Type {
	params := make([]types.Type, len(e.Params))
	for i, p := range e.Params {
		if p.Type != nil {
			params[i] = c.resolveTypeAnnotation(p.Type)
		} else {
			params[i] = c.fresh()
		}
		c.bindPattern(p.Pattern, params[i])
	}
	body := c.inferExpr(e.Body)
	ret := body
	if e.ReturnType != nil {
		ret = c.resolveTypeAnnotation(e.ReturnType)
		c.emit(e, body, ret)
	}
	return c.record(e, types.Func{Params: params, Return: ret})
}

func (c *Context) inferMatch(e *ast.MatchExpr) types.Type {
	scrut := c.inferExpr(e.Scrutinee)
	result := c.fresh()
	for _, arm := range e.Arms {
		c.bindPatternAgainst(arm.Pattern, scrut)
		if arm.Guard != nil {
			guard := c.inferExpr(arm.Guard)
			c.emit(arm.Guard, guard, types.Primitive{Kind: types.Bool})
		}
		body := c.inferExpr(arm.Body)
		c.emit(arm.Body, result, body)
	}
	return c.record(e, result)
}

// bindPatternAgainst unifies a match arm's pattern shape with the
// scrutinee's type, then binds any identifiers.
func (c *Context) bindPatternAgainst(pat ast.Pattern, scrut types.Type) {
	switch p := pat.(type) {
	case *ast.LiteralPattern:
		c.emit(p, scrut, c.inferExpr(p.Literal))
	case *ast.RangePattern:
		if p.Start != nil {
			c.emit(p, scrut, c.inferExpr(p.Start))
		}
	default:
		c.bindPattern(pat, scrut)
	}
}

func (c *Context) inferCall(e *ast.CallExpr) types.Type {
	callee := c.inferExpr(e.Callee)
	args := make([]types.Type, len(e.Args))
	for i, a := range e.Args {
		args[i] = c.inferExpr(a)
	}
	ret := c.fresh()
	c.emit(e, callee, types.Func{Params: args, Return: ret})
	return c.record(e, ret)
}

// resolveTypeAnnotation turns a surface ast.Type into an internal
// types.Type, instantiating named-type generic args and inferred ("_")
// positions with fresh variables.
func (c *Context) resolveTypeAnnotation(t ast.Type) types.Type {
	switch ty := t.(type) {
	case *ast.NamedType:
		if prim, ok := primitiveFromName(lastSegment(ty.Path)); ok {
			return prim
		}
		args := make([]types.Type, len(ty.Args))
		for i, a := range ty.Args {
			args[i] = c.resolveTypeAnnotation(a)
		}
		return types.Named{Name: lastSegment(ty.Path), Args: args}
	case *ast.RefType:
		return types.Ref{Mutable: ty.Mutable, Inner: c.resolveTypeAnnotation(ty.Inner)}
	case *ast.PointerType:
		return types.Pointer{Mutable: ty.Mutable, Inner: c.resolveTypeAnnotation(ty.Inner)}
	case *ast.ArrayType:
		return types.Array{Elem: c.resolveTypeAnnotation(ty.Elem), Len: -1}
	case *ast.TupleType:
		if len(ty.Elements) == 0 {
			return types.Primitive{Kind: types.Unit}
		}
		elems := make([]types.Type, len(ty.Elements))
		for i, el := range ty.Elements {
			elems[i] = c.resolveTypeAnnotation(el)
		}
		return types.Tuple{Elements: elems}
	case *ast.FunctionType:
		params := make([]types.Type, len(ty.Params))
		for i, p := range ty.Params {
			params[i] = c.resolveTypeAnnotation(p)
		}
		ret := types.Type(types.Primitive{Kind: types.Unit})
		if ty.ReturnType != nil {
			ret = c.resolveTypeAnnotation(ty.ReturnType)
		}
		return types.Func{Params: params, Return: ret}
	case *ast.TraitObjectType:
		if len(ty.Bounds) > 0 {
			return c.resolveTypeAnnotation(ty.Bounds[0])
		}
		return c.fresh()
	case *ast.InferredType:
		return c.fresh()
	}
	return c.fresh()
}

func lastSegment(path []*ast.Identifier) string {
	if len(path) == 0 {
		return ""
	}
	return path[len(path)-1].Value
}

func primitiveFromName(name string) (types.Primitive, bool) {
	kinds := map[string]types.PrimitiveKind{
		"i8": types.I8, "i16": types.I16, "i32": types.I32, "i64": types.I64, "i128": types.I128,
		"u8": types.U8, "u16": types.U16, "u32": types.U32, "u64": types.U64, "u128": types.U128,
		"usize": types.Usize, "isize": types.Isize,
		"f32": types.F32, "f64": types.F64,
		"bool": types.Bool, "char": types.Char, "str": types.Str,
	}
	k, ok := kinds[name]
	return types.Primitive{Kind: k}, ok
}

// solve iteratively unifies every emitted constraint against the running
// substitution, mirroring the teacher's SolveConstraints fixed-point loop,
// then finalizes every TypeMap entry.
func (c *Context) solve() {
	for _, constraint := range c.Constraints {
		left := constraint.Left.Apply(c.Subst)
		right := constraint.Right.Apply(c.Subst)
		s, err := types.Unify(left, right)
		if err != nil {
			c.Diagnostics = append(c.Diagnostics, diagnostics.NewAt(diagnostics.ErrT001, constraint.Node.Span(),
				"type mismatch: expected %s, found %s", left, right))
			continue
		}
		c.Subst = s.Compose(c.Subst)
	}
	for n, t := range c.TypeMap {
		c.TypeMap[n] = t.Apply(c.Subst)
	}
}

// defaultRemaining applies spec §4.4's default-typing rule: unconstrained
// integer variables default to i32, unconstrained floats to f64. A float
// literal's variable can end up aliased to a different representative
// name by solve()'s substitution (e.g. `let x = 3.14; let y = x;` unifies
// y's fresh variable with x's), so the float marker is followed through
// c.Subst before checking it, rather than compared by the TypeMap
// variable's own name.
func (c *Context) defaultRemaining() {
	floatReps := map[string]bool{}
	for name := range c.floatVars {
		if rep, ok := (types.Var{Name: name}).Apply(c.Subst).(types.Var); ok {
			floatReps[rep.Name] = true
		}
	}
	for n, t := range c.TypeMap {
		v, ok := t.(types.Var)
		if !ok {
			continue
		}
		if floatReps[v.Name] {
			c.TypeMap[n] = types.Primitive{Kind: types.F64}
		} else {
			c.TypeMap[n] = types.Primitive{Kind: types.I32}
		}
	}
}
