package parser_test

import (
	"strings"
	"testing"

	"github.com/latticelang/latticec/internal/ast"
	"github.com/latticelang/latticec/internal/lexer"
	"github.com/latticelang/latticec/internal/parser"
)

func parseFile(t *testing.T, src string) (*ast.File, *parser.Parser) {
	t.Helper()
	l := lexer.New(0, src)
	toks := l.Tokenize()
	if len(l.Diagnostics()) != 0 {
		t.Fatalf("unexpected lex diagnostics: %v", l.Diagnostics())
	}
	p := parser.New(0, toks)
	file := p.ParseFile("test.lat")
	return file, p
}

func requireNoDiags(t *testing.T, p *parser.Parser) {
	t.Helper()
	if diags := p.Diagnostics(); len(diags) != 0 {
		t.Fatalf("unexpected parse diagnostics: %v", diags)
	}
}

func TestParseFnItem(t *testing.T) {
	file, p := parseFile(t, `fn add(a: i32, b: i32) -> i32 { a + b }`)
	requireNoDiags(t, p)
	if len(file.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(file.Items))
	}
	fn, ok := file.Items[0].(*ast.FnItem)
	if !ok {
		t.Fatalf("expected *ast.FnItem, got %T", file.Items[0])
	}
	if fn.Name.Value != "add" {
		t.Errorf("expected name add, got %s", fn.Name.Value)
	}
	if len(fn.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(fn.Params))
	}
	if fn.Body == nil || fn.Body.Tail == nil {
		t.Fatalf("expected block with tail expression")
	}
	if _, ok := fn.Body.Tail.(*ast.BinaryExpr); !ok {
		t.Errorf("expected tail to be a binary expr, got %T", fn.Body.Tail)
	}
}

func TestBlockTailDetection(t *testing.T) {
	file, p := parseFile(t, `fn f() { let x = 1; x }`)
	requireNoDiags(t, p)
	fn := file.Items[0].(*ast.FnItem)
	if len(fn.Body.Statements) != 1 {
		t.Fatalf("expected 1 leading statement, got %d", len(fn.Body.Statements))
	}
	if fn.Body.Tail == nil {
		t.Fatalf("expected tail expression")
	}
	path, ok := fn.Body.Tail.(*ast.PathExpr)
	if !ok || path.Segments[0].Value != "x" {
		t.Errorf("expected tail `x`, got %#v", fn.Body.Tail)
	}
}

func TestBlockWithoutTail(t *testing.T) {
	file, p := parseFile(t, `fn f() { let x = 1; x; }`)
	requireNoDiags(t, p)
	fn := file.Items[0].(*ast.FnItem)
	if fn.Body.Tail != nil {
		t.Fatalf("expected no tail when the last statement has a trailing semicolon")
	}
	if len(fn.Body.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(fn.Body.Statements))
	}
}

func TestOperatorPrecedence(t *testing.T) {
	tests := []struct {
		src  string
		want string // naive s-expr dump
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 * 2 + 3", "((1 * 2) + 3)"},
		{"a = b = c", "(a = (b = c))"},
		{"1 < 2 && 3 < 4", "((1 < 2) && (3 < 4))"},
		{"-1 + 2", "((-1) + 2)"},
	}
	for _, tt := range tests {
		file, p := parseFile(t, "fn f() { "+tt.src+" }")
		requireNoDiags(t, p)
		fn := file.Items[0].(*ast.FnItem)
		got := dumpExpr(fn.Body.Tail)
		if got != tt.want {
			t.Errorf("parse(%q) = %s, want %s", tt.src, got, tt.want)
		}
	}
}

func dumpExpr(e ast.Expression) string {
	switch n := e.(type) {
	case *ast.BinaryExpr:
		return "(" + dumpExpr(n.Left) + " " + n.Op.String() + " " + dumpExpr(n.Right) + ")"
	case *ast.AssignExpr:
		return "(" + dumpExpr(n.Target) + " " + n.Op.String() + " " + dumpExpr(n.Value) + ")"
	case *ast.UnaryExpr:
		return "(" + n.Op.String() + dumpExpr(n.Operand) + ")"
	case *ast.IntLiteral:
		return itoa(n.Value)
	case *ast.PathExpr:
		if len(n.Segments) == 1 {
			return n.Segments[0].Value
		}
		var b strings.Builder
		for i, s := range n.Segments {
			if i > 0 {
				b.WriteString("::")
			}
			b.WriteString(s.Value)
		}
		return b.String()
	default:
		return "?"
	}
}

func itoa(v int64) string {
	if v == 0 {
		return "0"
	}
	neg := v < 0
	if neg {
		v = -v
	}
	var buf [20]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = byte('0' + v%10)
		v /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func TestIfElseChain(t *testing.T) {
	file, p := parseFile(t, `fn f(x: i32) -> i32 { if x > 0 { 1 } else if x < 0 { -1 } else { 0 } }`)
	requireNoDiags(t, p)
	fn := file.Items[0].(*ast.FnItem)
	ie, ok := fn.Body.Tail.(*ast.IfExpr)
	if !ok {
		t.Fatalf("expected *ast.IfExpr, got %T", fn.Body.Tail)
	}
	elseIf, ok := ie.Else.(*ast.IfExpr)
	if !ok {
		t.Fatalf("expected else-if chain, got %T", ie.Else)
	}
	if _, ok := elseIf.Else.(*ast.BlockExpr); !ok {
		t.Errorf("expected final else block, got %T", elseIf.Else)
	}
}

func TestStructLiteralVsIfCondition(t *testing.T) {
	// `if point.x > 0 { ... }` must not parse the block as a struct literal.
	file, p := parseFile(t, `fn f() { if point.x > 0 { 1 } else { 2 } }`)
	requireNoDiags(t, p)
	fn := file.Items[0].(*ast.FnItem)
	if _, ok := fn.Body.Tail.(*ast.IfExpr); !ok {
		t.Fatalf("expected *ast.IfExpr, got %T", fn.Body.Tail)
	}
}

func TestStructLiteralParses(t *testing.T) {
	file, p := parseFile(t, `fn f() { Point { x: 1, y: 2 } }`)
	requireNoDiags(t, p)
	fn := file.Items[0].(*ast.FnItem)
	sl, ok := fn.Body.Tail.(*ast.StructLiteralExpr)
	if !ok {
		t.Fatalf("expected *ast.StructLiteralExpr, got %T", fn.Body.Tail)
	}
	if len(sl.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(sl.Fields))
	}
}

func TestMatchExpr(t *testing.T) {
	file, p := parseFile(t, `
fn f(x: i32) -> i32 {
    match x {
        0 => 1,
        n if n > 0 => n,
        _ => -1,
    }
}`)
	requireNoDiags(t, p)
	fn := file.Items[0].(*ast.FnItem)
	me, ok := fn.Body.Tail.(*ast.MatchExpr)
	if !ok {
		t.Fatalf("expected *ast.MatchExpr, got %T", fn.Body.Tail)
	}
	if len(me.Arms) != 3 {
		t.Fatalf("expected 3 arms, got %d", len(me.Arms))
	}
	if me.Arms[1].Guard == nil {
		t.Errorf("expected arm 1 to have a guard")
	}
	if _, ok := me.Arms[2].Pattern.(*ast.WildcardPattern); !ok {
		t.Errorf("expected final arm to be wildcard, got %T", me.Arms[2].Pattern)
	}
}

func TestStructItemUnitAndTupleAndNamed(t *testing.T) {
	file, p := parseFile(t, `
struct Unit;
struct Pair(i32, i32);
struct Point { x: i32, y: i32 }
`)
	requireNoDiags(t, p)
	if len(file.Items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(file.Items))
	}
	unit := file.Items[0].(*ast.StructItem)
	if len(unit.Fields) != 0 {
		t.Errorf("expected unit struct to have no fields")
	}
	pair := file.Items[1].(*ast.StructItem)
	if len(pair.Fields) != 2 || pair.Fields[0].Name != nil {
		t.Errorf("expected tuple struct with 2 unnamed fields, got %+v", pair.Fields)
	}
	point := file.Items[2].(*ast.StructItem)
	if len(point.Fields) != 2 || point.Fields[0].Name == nil || point.Fields[0].Name.Value != "x" {
		t.Errorf("expected named struct fields, got %+v", point.Fields)
	}
}

func TestEnumVariantForms(t *testing.T) {
	file, p := parseFile(t, `
enum Shape {
    Circle(f64),
    Rect { w: f64, h: f64 },
    Origin = 0,
}
`)
	requireNoDiags(t, p)
	e := file.Items[0].(*ast.EnumItem)
	if len(e.Variants) != 3 {
		t.Fatalf("expected 3 variants, got %d", len(e.Variants))
	}
	if len(e.Variants[0].Fields) != 1 || e.Variants[0].Fields[0].Name != nil {
		t.Errorf("expected tuple-style Circle variant")
	}
	if len(e.Variants[1].Fields) != 2 || e.Variants[1].Fields[0].Name == nil {
		t.Errorf("expected struct-style Rect variant")
	}
	if e.Variants[2].Discriminant == nil {
		t.Errorf("expected Origin to have a discriminant")
	}
}

func TestInherentVsTraitImpl(t *testing.T) {
	file, p := parseFile(t, `
impl Point { fn magnitude(self) -> f64 { 0.0 } }
impl Drawable for Point { fn draw(self) -> bool { true } }
`)
	requireNoDiags(t, p)
	inherent := file.Items[0].(*ast.ImplItem)
	if inherent.TraitName != nil {
		t.Errorf("expected inherent impl to have nil TraitName")
	}
	traitImpl := file.Items[1].(*ast.ImplItem)
	if traitImpl.TraitName == nil {
		t.Errorf("expected trait impl to have a TraitName")
	}
}

func TestRecursionLimitDiagnosesAndRecovers(t *testing.T) {
	var b strings.Builder
	b.WriteString("fn f() { ")
	for i := 0; i < parser.MaxRecursionDepth+50; i++ {
		b.WriteString("(")
	}
	b.WriteString("1")
	for i := 0; i < parser.MaxRecursionDepth+50; i++ {
		b.WriteString(")")
	}
	b.WriteString(" }")

	l := lexer.New(0, b.String())
	toks := l.Tokenize()
	p := parser.New(0, toks)
	_ = p.ParseFile("deep.lat")

	if len(p.Diagnostics()) == 0 {
		t.Fatalf("expected a recursion-limit diagnostic")
	}
}

func TestSynchronizeRecoversAfterMalformedItem(t *testing.T) {
	file, p := parseFile(t, `
fn good1() { 1 }
@@@ garbage tokens here ;
fn good2() { 2 }
`)
	if len(p.Diagnostics()) == 0 {
		t.Fatalf("expected diagnostics for the malformed item")
	}
	var names []string
	for _, item := range file.Items {
		if fn, ok := item.(*ast.FnItem); ok {
			names = append(names, fn.Name.Value)
		}
	}
	if len(names) != 2 || names[0] != "good1" || names[1] != "good2" {
		t.Fatalf("expected to recover both good1 and good2, got %v", names)
	}
}

func TestLetWithTypeAnnotationAndPattern(t *testing.T) {
	file, p := parseFile(t, `fn f() { let (a, mut b): (i32, i32) = (1, 2); }`)
	requireNoDiags(t, p)
	fn := file.Items[0].(*ast.FnItem)
	let := fn.Body.Statements[0].(*ast.LetStmt)
	if _, ok := let.Pattern.(*ast.TuplePattern); !ok {
		t.Fatalf("expected tuple pattern, got %T", let.Pattern)
	}
	if _, ok := let.TypeAnnotation.(*ast.TupleType); !ok {
		t.Fatalf("expected tuple type annotation, got %T", let.TypeAnnotation)
	}
}

func TestClosureExpr(t *testing.T) {
	file, p := parseFile(t, `fn f() { let add = |a: i32, b: i32| -> i32 { a + b }; }`)
	requireNoDiags(t, p)
	fn := file.Items[0].(*ast.FnItem)
	let := fn.Body.Statements[0].(*ast.LetStmt)
	cl, ok := let.Init.(*ast.ClosureExpr)
	if !ok {
		t.Fatalf("expected *ast.ClosureExpr, got %T", let.Init)
	}
	if len(cl.Params) != 2 {
		t.Fatalf("expected 2 closure params, got %d", len(cl.Params))
	}
}

func TestLabeledLoopWithBreakValue(t *testing.T) {
	file, p := parseFile(t, `fn f() -> i32 { outer: loop { break outer 42; } }`)
	requireNoDiags(t, p)
	fn := file.Items[0].(*ast.FnItem)
	loop, ok := fn.Body.Tail.(*ast.LoopExpr)
	if !ok {
		t.Fatalf("expected *ast.LoopExpr, got %T", fn.Body.Tail)
	}
	if loop.Label == nil || loop.Label.Value != "outer" {
		t.Fatalf("expected label `outer`, got %+v", loop.Label)
	}
}

func TestRangeExprInclusiveAndExclusive(t *testing.T) {
	file, p := parseFile(t, `fn f() { for i in 0..10 { } }`)
	requireNoDiags(t, p)
	fn := file.Items[0].(*ast.FnItem)
	forExpr := fn.Body.Tail.(*ast.ForExpr)
	re, ok := forExpr.Iterable.(*ast.RangeExpr)
	if !ok {
		t.Fatalf("expected *ast.RangeExpr, got %T", forExpr.Iterable)
	}
	if re.Inclusive {
		t.Errorf("expected exclusive range")
	}
}
