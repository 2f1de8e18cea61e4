package infer_test

import (
	"testing"

	"github.com/latticelang/latticec/internal/ast"
	"github.com/latticelang/latticec/internal/infer"
	"github.com/latticelang/latticec/internal/lexer"
	"github.com/latticelang/latticec/internal/parser"
	"github.com/latticelang/latticec/internal/symbols"
)

func inferSrc(t *testing.T, src string) (*ast.File, *infer.Context) {
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
	res := symbols.NewResolver(symbols.NewRoot()).ResolveFile(file)
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected resolver diagnostics: %v", res.Diagnostics)
	}
	c := infer.New(res.Resolutions)
	c.InferFile(file)
	return file, c
}

func TestInferSimpleArithmeticDefaultsToI32(t *testing.T) {
	file, c := inferSrc(t, `fn add(a: i32, b: i32) -> i32 { a + b }`)
	if len(c.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", c.Diagnostics)
	}
	fn := file.Items[0].(*ast.FnItem)
	bodyType := c.TypeMap[fn.Body]
	if bodyType.String() != "i32" {
		t.Fatalf("expected body type i32, got %v", bodyType)
	}
}

func TestInferTypeMismatchIsDiagnosed(t *testing.T) {
	_, c := inferSrc(t, `fn f() -> i32 { "hello" }`)
	if len(c.Diagnostics) == 0 {
		t.Fatalf("expected a type mismatch diagnostic")
	}
	if c.Diagnostics[0].Code != "T001" {
		t.Fatalf("expected T001, got %s", c.Diagnostics[0].Code)
	}
}

func TestInferLetWithoutAnnotationUnifiesWithUse(t *testing.T) {
	file, c := inferSrc(t, `
		fn f() -> bool {
			let x = 1;
			x == 1
		}
	`)
	if len(c.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", c.Diagnostics)
	}
	fn := file.Items[0].(*ast.FnItem)
	if c.TypeMap[fn.Body].String() != "bool" {
		t.Fatalf("expected bool, got %v", c.TypeMap[fn.Body])
	}
}

func TestInferIfBranchesMustUnify(t *testing.T) {
	_, c := inferSrc(t, `
		fn f(cond: bool) -> i32 {
			if cond { 1 } else { "no" }
		}
	`)
	if len(c.Diagnostics) == 0 {
		t.Fatalf("expected a diagnostic for mismatched if/else branch types")
	}
}

func TestInferUnconstrainedFloatLiteralDefaultsToF64(t *testing.T) {
	file, c := inferSrc(t, `fn f() -> i32 { let x = 3.14; 0 }`)
	if len(c.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", c.Diagnostics)
	}
	fn := file.Items[0].(*ast.FnItem)
	letStmt := fn.Body.Statements[0].(*ast.LetStmt)
	if litType := c.TypeMap[letStmt.Init]; litType.String() != "f64" {
		t.Fatalf("expected the float literal to default to f64, got %v", litType)
	}
	if boundType := c.TypeMap[letStmt.Pattern]; boundType.String() != "f64" {
		t.Fatalf("expected x to default to f64, got %v", boundType)
	}
}

func TestInferFloatDefaultingSurvivesUnificationWithAnotherVariable(t *testing.T) {
	file, c := inferSrc(t, `
		fn f() -> i32 {
			let x = 3.14;
			let mut y;
			y = x;
			0
		}
	`)
	if len(c.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", c.Diagnostics)
	}
	fn := file.Items[0].(*ast.FnItem)
	yStmt := fn.Body.Statements[1].(*ast.LetStmt)
	if yType := c.TypeMap[yStmt.Pattern]; yType.String() != "f64" {
		t.Fatalf("expected y to also default to f64 through unification with x, got %v", yType)
	}
}

func TestInferArrayLiteralElementsMustUnify(t *testing.T) {
	_, c := inferSrc(t, `fn f() -> i32 { let xs = [1, 2, 3]; 0 }`)
	if len(c.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", c.Diagnostics)
	}
}
