package symbols_test

import (
	"testing"

	"github.com/latticelang/latticec/internal/ast"
	"github.com/latticelang/latticec/internal/lexer"
	"github.com/latticelang/latticec/internal/parser"
	"github.com/latticelang/latticec/internal/symbols"
)

func resolveSrc(t *testing.T, src string) *symbols.Result {
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
	r := symbols.NewResolver(symbols.NewRoot())
	return r.ResolveFile(file)
}

func TestMutualRecursionAcrossForwardDeclaration(t *testing.T) {
	res := resolveSrc(t, `
		fn is_even(n: i32) -> bool { is_odd(n) }
		fn is_odd(n: i32) -> bool { is_even(n) }
	`)
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
}

func TestShadowingInNestedBlockIsNotADuplicate(t *testing.T) {
	res := resolveSrc(t, `
		fn f() -> i32 {
			let x = 1;
			let x = x + 1;
			x
		}
	`)
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
}

func TestDuplicateDefinitionInSameScopeIsDiagnosed(t *testing.T) {
	res := resolveSrc(t, `
		fn f() -> i32 { 1 }
		fn f() -> i32 { 2 }
	`)
	if len(res.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(res.Diagnostics), res.Diagnostics)
	}
	if res.Diagnostics[0].Code != "R001" {
		t.Fatalf("expected R001, got %s", res.Diagnostics[0].Code)
	}
}

func TestUndefinedNameSuggestsDidYouMean(t *testing.T) {
	res := resolveSrc(t, `
		fn f() -> i32 {
			let count = 1;
			coutn
		}
	`)
	if len(res.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(res.Diagnostics), res.Diagnostics)
	}
	d := res.Diagnostics[0]
	if d.Code != "R002" {
		t.Fatalf("expected R002, got %s", d.Code)
	}
	if len(d.HelpNotes) == 0 {
		t.Fatalf("expected a did-you-mean help note, got none")
	}
}

func TestTypeAndValueNamespacesDoNotConflict(t *testing.T) {
	res := resolveSrc(t, `
		struct Point { x: i32, y: i32 }
		fn Point(x: i32) -> i32 { x }
	`)
	if len(res.Diagnostics) != 0 {
		t.Fatalf("expected no conflict between type Point and value Point, got: %v", res.Diagnostics)
	}
}

func TestLabeledLoopBreakResolves(t *testing.T) {
	res := resolveSrc(t, `
		fn f() -> i32 {
			let mut total = 0;
			outer: loop {
				total = total + 1;
				break outer;
			}
			total
		}
	`)
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
}

func TestBreakOutsideLoopIsDiagnosed(t *testing.T) {
	res := resolveSrc(t, `
		fn f() {
			break;
		}
	`)
	if len(res.Diagnostics) != 1 {
		t.Fatalf("expected 1 diagnostic, got %d: %v", len(res.Diagnostics), res.Diagnostics)
	}
}

func TestStructFieldShorthandPatternBindsNames(t *testing.T) {
	res := resolveSrc(t, `
		struct Point { x: i32, y: i32 }
		fn f(p: Point) -> i32 {
			let Point { x, y } = p;
			x + y
		}
	`)
	if len(res.Diagnostics) != 0 {
		t.Fatalf("unexpected diagnostics: %v", res.Diagnostics)
	}
}
