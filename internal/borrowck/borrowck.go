// Package borrowck implements spec §4.5's borrow checker: given a
// resolved, type-inferred function body, it either accepts it or reports
// conflicting borrows, uses of moved values, and use-while-borrowed
// violations.
//
// Lattice's borrow scopes are purely lexical (a loan lives exactly as
// long as the block that introduces its holding binding), so rather than
// building a separate generic CFG and iterating a GEN/KILL worklist to a
// fixed point — the teacher has no analogue for this pass, since funxy is
// garbage-collected — the checker walks the resolved AST directly with an
// explicit scope stack: entering a `*ast.BlockExpr` pushes a scope,
// leaving it kills every loan and move fact introduced within, and an
// `if`/`else` forks the scope for each arm and merges the moved-place
// facts at the join: a place moved on both arms is moved after the `if`,
// while a move on only one arm is dropped at the join, so a later use of
// that place is not reported (there is no "moved on some paths"
// diagnostic). The walk reuses the block-splitting-on-control-flow structure the teacher's
// `internal/vm/compiler_statements.go`/`compiler_loops.go` use to drive
// statement dispatch.
package borrowck

import (
	"fmt"

	"github.com/latticelang/latticec/internal/ast"
	"github.com/latticelang/latticec/internal/diagnostics"
	"github.com/latticelang/latticec/internal/symbols"
	"github.com/latticelang/latticec/internal/types"
)

// Loan records one borrow: the place it covers, whether it is mutable,
// and the expression that introduced it (for diagnostic spans).
type Loan struct {
	ID      int
	Place   place
	Mutable bool
	Node    ast.Node
}

// Checker runs the borrow check over one or more functions, accumulating
// diagnostics.
type Checker struct {
	resolution map[ast.Node]*symbols.Symbol
	typeMap    map[ast.Node]types.Type
	diags      []*diagnostics.Diagnostic
	nextLoanID int
}

// New creates a Checker over a resolved, type-inferred file.
func New(resolution map[ast.Node]*symbols.Symbol, typeMap map[ast.Node]types.Type) *Checker {
	return &Checker{resolution: resolution, typeMap: typeMap}
}

// CheckFile checks every function item (including impl methods and
// nested modules) and returns the accumulated diagnostics.
func (c *Checker) CheckFile(file *ast.File) []*diagnostics.Diagnostic {
	for _, item := range file.Items {
		c.checkItem(item)
	}
	return c.diags
}

func (c *Checker) checkItem(item ast.Item) {
	switch it := item.(type) {
	case *ast.FnItem:
		if it.Body != nil {
			c.checkFn(it)
		}
	case *ast.ImplItem:
		for _, m := range it.Methods {
			if m.Body != nil {
				c.checkFn(m)
			}
		}
	case *ast.ModItem:
		for _, inner := range it.Items {
			c.checkItem(inner)
		}
	}
}

// scope is one lexical nesting level's live-loan and moved-place state.
type scope struct {
	parent *scope
	live   []*Loan         // loans introduced at or below this scope, still live
	moved  map[string]bool // place key -> moved within this scope or a descendant
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, moved: map[string]bool{}}
}

// isMoved walks outward through enclosing scopes.
func (s *scope) isMoved(key string) bool {
	for sc := s; sc != nil; sc = sc.parent {
		if sc.moved[key] {
			return true
		}
	}
	return false
}

// liveLoans returns every loan visible from this scope (this scope's own
// plus every ancestor's).
func (s *scope) liveLoans() []*Loan {
	var all []*Loan
	for sc := s; sc != nil; sc = sc.parent {
		all = append(all, sc.live...)
	}
	return all
}

func (c *Checker) checkFn(fn *ast.FnItem) {
	// Parameters are already-initialized bindings; only their later uses
	// need checking, which checkBlock picks up via PathExpr.
	c.checkBlock(fn.Body, newScope(nil))
}

func (c *Checker) checkBlock(blk *ast.BlockExpr, parent *scope) map[string]bool {
	s := newScope(parent)
	for _, stmt := range blk.Statements {
		c.checkStmt(stmt, s)
	}
	if blk.Tail != nil {
		c.checkExpr(blk.Tail, s, false)
	}
	return s.moved
}

func (c *Checker) checkStmt(stmt ast.Statement, s *scope) {
	switch st := stmt.(type) {
	case *ast.LetStmt:
		if st.Init != nil {
			c.checkExpr(st.Init, s, false)
		}
	case *ast.ExprStmt:
		c.checkExpr(st.Expr, s, false)
	case *ast.ReturnStmt:
		if st.Value != nil {
			c.checkExpr(st.Value, s, false)
		}
	case *ast.ItemStmt:
		c.checkItem(st.Item)
	}
}

// checkExpr walks expr for loan introductions, moves, and uses.
// borrowed is true when expr is the direct operand of a `&`/`&mut`: in
// that position a bare place-denoting expression is borrowed, not moved.
func (c *Checker) checkExpr(expr ast.Expression, s *scope, borrowed bool) {
	switch e := expr.(type) {
	case *ast.PathExpr:
		c.checkUse(e, s, borrowed)
	case *ast.FieldExpr:
		c.checkExpr(e.Receiver, s, true) // the receiver is addressed, not moved
		if !borrowed {
			c.checkUse(e, s, false)
		}
	case *ast.IndexExpr:
		c.checkExpr(e.Receiver, s, true)
		c.checkExpr(e.Index, s, false)
		if !borrowed {
			c.checkUse(e, s, false)
		}
	case *ast.RefExpr:
		c.introduceLoan(e, e.Operand, e.Mutable, s)
		c.checkExpr(e.Operand, s, true)
	case *ast.DerefExpr:
		c.checkExpr(e.Operand, s, false)
	case *ast.UnaryExpr:
		c.checkExpr(e.Operand, s, false)
	case *ast.BinaryExpr:
		c.checkExpr(e.Left, s, false)
		c.checkExpr(e.Right, s, false)
	case *ast.AssignExpr:
		c.checkExpr(e.Value, s, false)
		c.checkExpr(e.Target, s, true)
		if pl, ok := placeOf(e.Target, c.resolution); ok {
			s.moved[pl.key()] = false
		}
	case *ast.CallExpr:
		c.checkExpr(e.Callee, s, false)
		for _, a := range e.Args {
			c.checkExpr(a, s, false)
		}
	case *ast.MethodCallExpr:
		c.checkExpr(e.Receiver, s, true)
		for _, a := range e.Args {
			c.checkExpr(a, s, false)
		}
	case *ast.TupleExpr:
		for _, el := range e.Elements {
			c.checkExpr(el, s, false)
		}
	case *ast.ArrayExpr:
		for _, el := range e.Elements {
			c.checkExpr(el, s, false)
		}
	case *ast.StructLiteralExpr:
		for _, f := range e.Fields {
			c.checkExpr(f.Value, s, false)
		}
		if e.Spread != nil {
			c.checkExpr(e.Spread, s, false)
		}
	case *ast.ClosureExpr:
		c.checkExpr(e.Body, s, false)
	case *ast.IfExpr:
		c.checkExpr(e.Condition, s, false)
		thenMoved := c.checkBlock(e.Then, s)
		elseMoved := map[string]bool{}
		if be, ok := e.Else.(*ast.BlockExpr); ok {
			elseMoved = c.checkBlock(be, s)
		} else if e.Else != nil {
			c.checkExpr(e.Else, s, false)
		}
		for k, v := range thenMoved {
			if v && elseMoved[k] {
				s.moved[k] = true
			}
		}
	case *ast.MatchExpr:
		c.checkExpr(e.Scrutinee, s, false)
		for _, arm := range e.Arms {
			if arm.Guard != nil {
				c.checkExpr(arm.Guard, s, false)
			}
			c.checkExpr(arm.Body, s, false)
		}
	case *ast.BlockExpr:
		c.checkBlock(e, s)
	case *ast.WhileExpr:
		c.checkExpr(e.Condition, s, false)
		c.checkBlock(e.Body, s)
	case *ast.ForExpr:
		c.checkExpr(e.Iterable, s, false)
		c.checkBlock(e.Body, s)
	case *ast.LoopExpr:
		c.checkBlock(e.Body, s)
	case *ast.RangeExpr:
		if e.Start != nil {
			c.checkExpr(e.Start, s, false)
		}
		if e.End != nil {
			c.checkExpr(e.End, s, false)
		}
	case *ast.CastExpr:
		c.checkExpr(e.Operand, s, false)
	case *ast.AwaitExpr:
		c.checkExpr(e.Operand, s, false)
	}
}

// introduceLoan records a new loan over operand's place and checks it
// against every currently live loan for a conflict (spec §4.5 "conflict
// check" — checking each newly-introduced loan against the live set is
// equivalent to the pairwise check since every pair is examined exactly
// once, at the later loan's introduction).
func (c *Checker) introduceLoan(site ast.Node, operand ast.Expression, mutable bool, s *scope) {
	pl, ok := placeOf(operand, c.resolution)
	if !ok {
		return
	}
	for _, live := range s.liveLoans() {
		if alias(live.Place, pl) && (live.Mutable || mutable) {
			c.reportConflict(live, &Loan{Place: pl, Mutable: mutable, Node: site})
		}
	}
	c.nextLoanID++
	s.live = append(s.live, &Loan{ID: c.nextLoanID, Place: pl, Mutable: mutable, Node: site})
}

// checkUse validates a read of a place-denoting expression: it must not
// be currently moved-from, and must not be live-mutably-borrowed unless
// this use is itself taking a new borrow. When the expression's type is
// non-Copy and this is a genuine value use (not merely an address-of
// operand), the place becomes moved-from.
func (c *Checker) checkUse(expr ast.Expression, s *scope, borrowed bool) {
	pl, ok := placeOf(expr, c.resolution)
	if !ok {
		return
	}
	if s.isMoved(pl.key()) {
		c.diags = append(c.diags, diagnostics.NewAt(diagnostics.ErrB002, expr.Span(),
			"use of moved value %q", pl.key()).
			WithHelp("the value was moved earlier; consider cloning it before the move if you need it again"))
		return
	}
	if !borrowed {
		for _, live := range s.liveLoans() {
			if live.Mutable && alias(live.Place, pl) {
				c.diags = append(c.diags, diagnostics.NewAt(diagnostics.ErrB003, expr.Span(),
					"cannot use %q because it is mutably borrowed", pl.key()).
					WithSecondary(live.Node.Span(), "mutable borrow occurs here"))
				return
			}
		}
	}
	if !borrowed && !c.isCopy(expr) {
		s.moved[pl.key()] = true
	}
}

func (c *Checker) reportConflict(first, second *Loan) {
	kind := func(l *Loan) string {
		if l.Mutable {
			return "mutable"
		}
		return "immutable"
	}
	d := diagnostics.NewAt(diagnostics.ErrB001, second.Node.Span(),
		"cannot borrow %q as %s because it is already borrowed as %s",
		second.Place.key(), kind(second), kind(first)).
		WithSecondary(first.Node.Span(), fmt.Sprintf("%s borrow occurs here", kind(first))).
		WithHelp("consider narrowing the scope of the immutable borrow")
	c.diags = append(c.diags, d)
}

func (c *Checker) isCopy(expr ast.Expression) bool {
	t, ok := c.typeMap[expr]
	if !ok {
		return true // unknown type: fail open rather than spuriously flag a move
	}
	switch ty := t.(type) {
	case types.Primitive:
		return ty.Kind != types.Str
	case types.Ref:
		return true
	default:
		return false
	}
}
