package lifetime_test

import (
	"testing"

	"github.com/latticelang/latticec/internal/ast"
	"github.com/latticelang/latticec/internal/lexer"
	"github.com/latticelang/latticec/internal/lifetime"
	"github.com/latticelang/latticec/internal/parser"
)

func parseFn(t *testing.T, src string) *ast.FnItem {
	t.Helper()
	l := lexer.New(0, src)
	toks := l.Tokenize()
	if len(l.Diagnostics()) != 0 {
		t.Fatalf("unexpected lex diagnostics: %v", l.Diagnostics())
	}
	p := parser.New(0, toks)
	file := p.ParseFile("test.lat")
	if len(p.Diagnostics()) != 0 {
		t.Fatalf("unexpected parse diagnostics: %v", p.Diagnostics())
	}
	return file.Items[0].(*ast.FnItem)
}

func TestSingleInputElidesToOutput(t *testing.T) {
	fn := parseFn(t, `fn first(x: &i32) -> &i32 { x }`)
	res := lifetime.AnalyzeFn(fn)
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
}

func TestNoReferencesProducesNoConstraints(t *testing.T) {
	fn := parseFn(t, `fn add(a: i32, b: i32) -> i32 { a + b }`)
	res := lifetime.AnalyzeFn(fn)
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics for a reference-free signature: %v", res.Diagnostics)
	}
}

func TestSelfElisionPreferredOverOtherParams(t *testing.T) {
	fn := parseFn(t, `fn borrow(self: &Widget, other: &Widget) -> &Widget { self }`)
	res := lifetime.AnalyzeFn(fn)
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
}
