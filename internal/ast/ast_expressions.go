package ast

import (
	"github.com/latticelang/latticec/internal/source"
	"github.com/latticelang/latticec/internal/token"
)

// --- Statements ---

// LetStmt is a `let [mut] pattern [: Type] [= init];` statement.
type LetStmt struct {
	Sp             source.Span
	Pattern        Pattern
	Mutable        bool
	TypeAnnotation Type // nil if omitted
	Init           Expression // nil if the binding has no initializer
}

func (l *LetStmt) Span() source.Span { return l.Sp }
func (l *LetStmt) Accept(v Visitor)  { v.VisitLetStmt(l) }
func (l *LetStmt) statementNode()    {}

// ExprStmt wraps an expression used in statement position.
type ExprStmt struct {
	Sp   source.Span
	Expr Expression
}

func (e *ExprStmt) Span() source.Span { return e.Sp }
func (e *ExprStmt) Accept(v Visitor)  { v.VisitExprStmt(e) }
func (e *ExprStmt) statementNode()    {}

// ReturnStmt is `return [expr];`.
type ReturnStmt struct {
	Sp    source.Span
	Value Expression // nil for bare `return;`
}

func (r *ReturnStmt) Span() source.Span { return r.Sp }
func (r *ReturnStmt) Accept(v Visitor)  { v.VisitReturnStmt(r) }
func (r *ReturnStmt) statementNode()    {}

// BreakStmt is `break ['label] [expr];`.
type BreakStmt struct {
	Sp    source.Span
	Label *Identifier // nil if unlabeled
	Value Expression  // nil if the loop does not yield a value
}

func (b *BreakStmt) Span() source.Span { return b.Sp }
func (b *BreakStmt) Accept(v Visitor)  { v.VisitBreakStmt(b) }
func (b *BreakStmt) statementNode()    {}

// ContinueStmt is `continue ['label];`.
type ContinueStmt struct {
	Sp    source.Span
	Label *Identifier // nil if unlabeled
}

func (c *ContinueStmt) Span() source.Span { return c.Sp }
func (c *ContinueStmt) Accept(v Visitor)  { v.VisitContinueStmt(c) }
func (c *ContinueStmt) statementNode()    {}

// ItemStmt wraps an item declared inside a block (a nested fn, struct, ...).
type ItemStmt struct {
	Sp   source.Span
	Item Item
}

func (i *ItemStmt) Span() source.Span { return i.Sp }
func (i *ItemStmt) Accept(v Visitor)  { v.VisitItemStmt(i) }
func (i *ItemStmt) statementNode()    {}

// --- Expressions ---

// Literal kinds.

type IntLiteral struct {
	Sp     source.Span
	Value  int64
	Base   token.IntBase
	Suffix string
}

func (n *IntLiteral) Span() source.Span { return n.Sp }
func (n *IntLiteral) Accept(v Visitor)  { v.VisitIntLiteral(n) }
func (n *IntLiteral) expressionNode()   {}

type FloatLiteral struct {
	Sp     source.Span
	Value  float64
	Suffix string
}

func (n *FloatLiteral) Span() source.Span { return n.Sp }
func (n *FloatLiteral) Accept(v Visitor)  { v.VisitFloatLiteral(n) }
func (n *FloatLiteral) expressionNode()   {}

type StringLiteral struct {
	Sp    source.Span
	Value string
}

func (n *StringLiteral) Span() source.Span { return n.Sp }
func (n *StringLiteral) Accept(v Visitor)  { v.VisitStringLiteral(n) }
func (n *StringLiteral) expressionNode()   {}

type CharLiteral struct {
	Sp    source.Span
	Value rune
}

func (n *CharLiteral) Span() source.Span { return n.Sp }
func (n *CharLiteral) Accept(v Visitor)  { v.VisitCharLiteral(n) }
func (n *CharLiteral) expressionNode()   {}

type BoolLiteral struct {
	Sp    source.Span
	Value bool
}

func (n *BoolLiteral) Span() source.Span { return n.Sp }
func (n *BoolLiteral) Accept(v Visitor)  { v.VisitBoolLiteral(n) }
func (n *BoolLiteral) expressionNode()   {}

// PathExpr is an identifier or qualified path (`foo`, `foo::bar`), resolved
// by the symbol table to a value-namespace symbol.
type PathExpr struct {
	Sp       source.Span
	Segments []*Identifier
}

func (p *PathExpr) Span() source.Span { return p.Sp }
func (p *PathExpr) Accept(v Visitor)  { v.VisitPathExpr(p) }
func (p *PathExpr) expressionNode()   {}

// UnaryExpr is a prefix operator: `! - * & &mut`.
type UnaryExpr struct {
	Sp      source.Span
	Op      token.Type
	Operand Expression
}

func (u *UnaryExpr) Span() source.Span { return u.Sp }
func (u *UnaryExpr) Accept(v Visitor)  { v.VisitUnaryExpr(u) }
func (u *UnaryExpr) expressionNode()   {}

// BinaryExpr is an infix operator expression.
type BinaryExpr struct {
	Sp    source.Span
	Op    token.Type
	Left  Expression
	Right Expression
}

func (b *BinaryExpr) Span() source.Span { return b.Sp }
func (b *BinaryExpr) Accept(v Visitor)  { v.VisitBinaryExpr(b) }
func (b *BinaryExpr) expressionNode()   {}

// AssignExpr is `target = value` or a compound assignment (`+=`, ...).
type AssignExpr struct {
	Sp     source.Span
	Op     token.Type // ASSIGN, PLUS_ASSIGN, MINUS_ASSIGN, ...
	Target Expression
	Value  Expression
}

func (a *AssignExpr) Span() source.Span { return a.Sp }
func (a *AssignExpr) Accept(v Visitor)  { v.VisitAssignExpr(a) }
func (a *AssignExpr) expressionNode()   {}

// CallExpr is a function call `callee(args...)`.
type CallExpr struct {
	Sp     source.Span
	Callee Expression
	Args   []Expression
}

func (c *CallExpr) Span() source.Span { return c.Sp }
func (c *CallExpr) Accept(v Visitor)  { v.VisitCallExpr(c) }
func (c *CallExpr) expressionNode()   {}

// MethodCallExpr is `receiver.method(args...)`.
type MethodCallExpr struct {
	Sp       source.Span
	Receiver Expression
	Method   *Identifier
	Args     []Expression
}

func (m *MethodCallExpr) Span() source.Span { return m.Sp }
func (m *MethodCallExpr) Accept(v Visitor)  { v.VisitMethodCallExpr(m) }
func (m *MethodCallExpr) expressionNode()   {}

// FieldExpr is `receiver.field`.
type FieldExpr struct {
	Sp       source.Span
	Receiver Expression
	Field    *Identifier
}

func (f *FieldExpr) Span() source.Span { return f.Sp }
func (f *FieldExpr) Accept(v Visitor)  { v.VisitFieldExpr(f) }
func (f *FieldExpr) expressionNode()   {}

// IndexExpr is `receiver[index]`.
type IndexExpr struct {
	Sp       source.Span
	Receiver Expression
	Index    Expression
}

func (i *IndexExpr) Span() source.Span { return i.Sp }
func (i *IndexExpr) Accept(v Visitor)  { v.VisitIndexExpr(i) }
func (i *IndexExpr) expressionNode()   {}

// TupleExpr is `(a, b, c)`.
type TupleExpr struct {
	Sp       source.Span
	Elements []Expression
}

func (t *TupleExpr) Span() source.Span { return t.Sp }
func (t *TupleExpr) Accept(v Visitor)  { v.VisitTupleExpr(t) }
func (t *TupleExpr) expressionNode()   {}

// FieldInit is one `name: value` entry of a struct literal.
type FieldInit struct {
	Name  *Identifier
	Value Expression
}

// StructLiteralExpr is `Path { field: value, ..., ..spread }`.
type StructLiteralExpr struct {
	Sp     source.Span
	Path   []*Identifier
	Fields []*FieldInit
	Spread Expression // nil if no `..base` spread
}

func (s *StructLiteralExpr) Span() source.Span { return s.Sp }
func (s *StructLiteralExpr) Accept(v Visitor)  { v.VisitStructLiteralExpr(s) }
func (s *StructLiteralExpr) expressionNode()   {}

// ArrayExpr is `[a, b, c]` or the repeat form `[value; size]`.
type ArrayExpr struct {
	Sp       source.Span
	Elements []Expression
	Repeat   Expression // non-nil only for the `[value; size]` form; Elements[0] holds value
	Size     Expression
}

func (a *ArrayExpr) Span() source.Span { return a.Sp }
func (a *ArrayExpr) Accept(v Visitor)  { v.VisitArrayExpr(a) }
func (a *ArrayExpr) expressionNode()   {}

// ClosureExpr is an anonymous function, `|params| [-> T] body`.
type ClosureExpr struct {
	Sp         source.Span
	Params     []*Param
	ReturnType Type // nil if inferred
	Body       Expression
	IsMove     bool
}

func (c *ClosureExpr) Span() source.Span { return c.Sp }
func (c *ClosureExpr) Accept(v Visitor)  { v.VisitClosureExpr(c) }
func (c *ClosureExpr) expressionNode()   {}

// IfExpr is `if cond { then } [else alt]`. Else is nil, a *BlockExpr, or
// another *IfExpr (else-if chaining).
type IfExpr struct {
	Sp        source.Span
	Condition Expression
	Then      *BlockExpr
	Else      Expression
}

func (i *IfExpr) Span() source.Span { return i.Sp }
func (i *IfExpr) Accept(v Visitor)  { v.VisitIfExpr(i) }
func (i *IfExpr) expressionNode()   {}

// MatchArm is one `pattern [if guard] => body` arm.
type MatchArm struct {
	Pattern Pattern
	Guard   Expression // nil if unguarded
	Body    Expression
}

// MatchExpr is `match scrutinee { arms... }`.
type MatchExpr struct {
	Sp        source.Span
	Scrutinee Expression
	Arms      []*MatchArm
}

func (m *MatchExpr) Span() source.Span { return m.Sp }
func (m *MatchExpr) Accept(v Visitor)  { v.VisitMatchExpr(m) }
func (m *MatchExpr) expressionNode()   {}

// BlockExpr is `{ statements...; [tail] }`. It serves both as a statement
// (inert block) and as an expression (its value is Tail, or unit if Tail
// is nil) — mirroring how a block's surface position determines whether
// its value is observed.
type BlockExpr struct {
	Sp         source.Span
	Statements []Statement
	Tail       Expression // nil if the block has no trailing expression
}

func (b *BlockExpr) Span() source.Span { return b.Sp }
func (b *BlockExpr) Accept(v Visitor)  { v.VisitBlockExpr(b) }
func (b *BlockExpr) expressionNode()   {}
func (b *BlockExpr) statementNode()    {}

// WhileExpr is `['label:] while cond { body }`.
type WhileExpr struct {
	Sp        source.Span
	Label     *Identifier
	Condition Expression
	Body      *BlockExpr
}

func (w *WhileExpr) Span() source.Span { return w.Sp }
func (w *WhileExpr) Accept(v Visitor)  { v.VisitWhileExpr(w) }
func (w *WhileExpr) expressionNode()   {}

// ForExpr is `['label:] for pattern in iterable { body }`.
type ForExpr struct {
	Sp       source.Span
	Label    *Identifier
	Pattern  Pattern
	Iterable Expression
	Body     *BlockExpr
}

func (f *ForExpr) Span() source.Span { return f.Sp }
func (f *ForExpr) Accept(v Visitor)  { v.VisitForExpr(f) }
func (f *ForExpr) expressionNode()   {}

// LoopExpr is `['label:] loop { body }`, an unconditional loop exited only
// via break.
type LoopExpr struct {
	Sp    source.Span
	Label *Identifier
	Body  *BlockExpr
}

func (l *LoopExpr) Span() source.Span { return l.Sp }
func (l *LoopExpr) Accept(v Visitor)  { v.VisitLoopExpr(l) }
func (l *LoopExpr) expressionNode()   {}

// RefExpr is `&expr` or `&mut expr`.
type RefExpr struct {
	Sp      source.Span
	Mutable bool
	Operand Expression
}

func (r *RefExpr) Span() source.Span { return r.Sp }
func (r *RefExpr) Accept(v Visitor)  { v.VisitRefExpr(r) }
func (r *RefExpr) expressionNode()   {}

// DerefExpr is `*expr`.
type DerefExpr struct {
	Sp      source.Span
	Operand Expression
}

func (d *DerefExpr) Span() source.Span { return d.Sp }
func (d *DerefExpr) Accept(v Visitor)  { v.VisitDerefExpr(d) }
func (d *DerefExpr) expressionNode()   {}

// RangeExpr is `start..end` or `start..=end`; Start and End are each
// optionally nil (open-ended ranges).
type RangeExpr struct {
	Sp        source.Span
	Start     Expression
	End       Expression
	Inclusive bool
}

func (r *RangeExpr) Span() source.Span { return r.Sp }
func (r *RangeExpr) Accept(v Visitor)  { v.VisitRangeExpr(r) }
func (r *RangeExpr) expressionNode()   {}

// CastExpr is `expr as Type`.
type CastExpr struct {
	Sp      source.Span
	Operand Expression
	Type    Type
}

func (c *CastExpr) Span() source.Span { return c.Sp }
func (c *CastExpr) Accept(v Visitor)  { v.VisitCastExpr(c) }
func (c *CastExpr) expressionNode()   {}

// AwaitExpr is `expr.await`. Surface syntax only: resolution is left to
// the extension pass (spec §9); the core rejects it with ErrA900.
type AwaitExpr struct {
	Sp      source.Span
	Operand Expression
}

func (a *AwaitExpr) Span() source.Span { return a.Sp }
func (a *AwaitExpr) Accept(v Visitor)  { v.VisitAwaitExpr(a) }
func (a *AwaitExpr) expressionNode()   {}
