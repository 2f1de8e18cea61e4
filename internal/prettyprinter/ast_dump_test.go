package prettyprinter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/latticelang/latticec/internal/ast"
	"github.com/latticelang/latticec/internal/token"
)

// buildAddOneFile builds the AST for `fn add_one(x) { let y = x + 1; return
// y; }` directly, the same tree internal/parser would hand back, to
// exercise DumpFile without going through lexing/parsing.
func buildAddOneFile() *ast.File {
	x := &ast.IdentPattern{Name: "x"}
	param := &ast.Param{Pattern: x}

	xRef := &ast.Identifier{Value: "x"}
	one := &ast.IntLiteral{Value: 1, Base: token.Base10}
	sum := &ast.BinaryExpr{Op: token.PLUS, Left: xRef, Right: one}

	yPattern := &ast.IdentPattern{Name: "y"}
	letY := &ast.LetStmt{Pattern: yPattern, Init: sum}
	ret := &ast.ReturnStmt{Value: &ast.Identifier{Value: "y"}}

	body := &ast.BlockExpr{Statements: []ast.Statement{letY, ret}}
	fn := &ast.FnItem{Name: &ast.Identifier{Value: "add_one"}, Params: []*ast.Param{param}, Body: body}

	return &ast.File{Name: "demo.lat", Items: []ast.Item{fn}}
}

func TestDumpFileRendersFnSignatureAndBody(t *testing.T) {
	out := DumpFile(buildAddOneFile())

	assert.Contains(t, out, "file demo.lat")
	assert.Contains(t, out, "fn add_one(x)")
	assert.Contains(t, out, "let y = (x + 1)")
	assert.Contains(t, out, "return y")
}

func TestDumpFileRendersConstItem(t *testing.T) {
	file := &ast.File{Name: "weird.lat", Items: []ast.Item{&ast.ConstItem{Name: &ast.Identifier{Value: "X"}}}}
	out := DumpFile(file)

	assert.Contains(t, out, "const X")
}

func TestDumpFileRendersMutableAndWildcardPatterns(t *testing.T) {
	mutParam := &ast.Param{Pattern: &ast.IdentPattern{Name: "acc", Mutable: true}}
	wildcardParam := &ast.Param{Pattern: &ast.WildcardPattern{}}
	fn := &ast.FnItem{
		Name:   &ast.Identifier{Value: "fold"},
		Params: []*ast.Param{mutParam, wildcardParam},
		Body:   &ast.BlockExpr{},
	}
	out := DumpFile(&ast.File{Name: "fold.lat", Items: []ast.Item{fn}})

	assert.Contains(t, out, "fn fold(mut acc, _)")
}

func TestDumpFileRendersCallAndRefExpressions(t *testing.T) {
	call := &ast.CallExpr{
		Callee: &ast.Identifier{Value: "helper"},
		Args:   []ast.Expression{&ast.RefExpr{Operand: &ast.Identifier{Value: "x"}}},
	}
	stmt := &ast.ExprStmt{Expr: call}
	body := &ast.BlockExpr{Statements: []ast.Statement{stmt}}
	fn := &ast.FnItem{Name: &ast.Identifier{Value: "call_it"}, Body: body}

	out := DumpFile(&ast.File{Name: "call.lat", Items: []ast.Item{fn}})

	assert.Contains(t, out, "expr helper(&x)")
}
