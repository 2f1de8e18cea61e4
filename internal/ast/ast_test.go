package ast_test

import (
	"testing"

	"github.com/latticelang/latticec/internal/ast"
	"github.com/latticelang/latticec/internal/source"
)

// countingVisitor overrides a few Visit methods (the rest fall back to
// BaseVisitor) to check Accept wiring does not panic on a representative
// tree.
type countingVisitor struct {
	ast.BaseVisitor
	visits int
}

func (c *countingVisitor) VisitFile(n *ast.File)         { c.visits++ }
func (c *countingVisitor) VisitFnItem(n *ast.FnItem)     { c.visits++ }
func (c *countingVisitor) VisitBlockExpr(n *ast.BlockExpr) {
	c.visits++
	for _, s := range n.Statements {
		s.Accept(c)
	}
	if n.Tail != nil {
		n.Tail.Accept(c)
	}
}
func (c *countingVisitor) VisitIntLiteral(n *ast.IntLiteral) { c.visits++ }
func (c *countingVisitor) VisitReturnStmt(n *ast.ReturnStmt) {
	c.visits++
	if n.Value != nil {
		n.Value.Accept(c)
	}
}

func TestAcceptDispatchesToVisitor(t *testing.T) {
	sp := source.Span{FileID: 0, StartByte: 0, EndByte: 1}
	fn := &ast.FnItem{
		Sp:   sp,
		Name: &ast.Identifier{Sp: sp, Value: "main"},
		Body: &ast.BlockExpr{
			Sp: sp,
			Statements: []ast.Statement{
				&ast.ReturnStmt{Sp: sp, Value: &ast.IntLiteral{Sp: sp, Value: 0}},
			},
		},
	}
	file := &ast.File{Sp: sp, Name: "main.lat", Items: []ast.Item{fn}}

	v := &countingVisitor{}
	file.Accept(v)
	fn.Accept(v)
	fn.Body.Accept(v)

	if v.visits < 4 {
		t.Fatalf("expected at least 4 dispatched visits, got %d", v.visits)
	}
}

// TestBlockIsBothStatementAndExpression checks the dual statement/expression
// role a block plays at different surface positions (spec §3).
func TestBlockIsBothStatementAndExpression(t *testing.T) {
	sp := source.Span{FileID: 0, StartByte: 0, EndByte: 1}
	b := &ast.BlockExpr{Sp: sp}
	var _ ast.Statement = b
	var _ ast.Expression = b
}

func TestSpanCoverAndContains(t *testing.T) {
	a := source.Span{FileID: 0, StartByte: 5, EndByte: 10}
	b := source.Span{FileID: 0, StartByte: 8, EndByte: 20}
	cov := a.Cover(b)
	if cov.StartByte != 5 || cov.EndByte != 20 {
		t.Fatalf("Cover = %+v, want {5 20}", cov)
	}
	if !cov.Contains(a) || !cov.Contains(b) {
		t.Errorf("expected covering span to contain both inputs")
	}
	if a.Contains(b) {
		t.Errorf("a should not contain b")
	}
}
