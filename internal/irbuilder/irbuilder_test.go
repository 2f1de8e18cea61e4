package irbuilder_test

import (
	"testing"

	"github.com/latticelang/latticec/internal/ast"
	"github.com/latticelang/latticec/internal/infer"
	"github.com/latticelang/latticec/internal/ir"
	"github.com/latticelang/latticec/internal/irbuilder"
	"github.com/latticelang/latticec/internal/lexer"
	"github.com/latticelang/latticec/internal/parser"
	"github.com/latticelang/latticec/internal/symbols"
)

func lowerSrc(t *testing.T, src string) *ir.Module {
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
	if len(c.Diagnostics) != 0 {
		t.Fatalf("unexpected inference diagnostics: %v", c.Diagnostics)
	}
	b := irbuilder.New(res.Resolutions, c)
	b.LowerFile(file)
	return b.Module.IR
}

func findFn(m *ir.Module, name string) *ir.Function {
	for _, fn := range m.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

func TestLowerSimpleFunctionProducesOneBlockAndReturn(t *testing.T) {
	m := lowerSrc(t, `fn add(a: i32, b: i32) -> i32 { a + b }`)
	fn := findFn(m, "add")
	if fn == nil {
		t.Fatalf("expected function add in module")
	}
	if len(fn.Blocks) != 1 {
		t.Fatalf("expected a single block, got %d", len(fn.Blocks))
	}
	if _, ok := fn.Blocks[0].Term.(ir.Return); !ok {
		t.Fatalf("expected entry block to end in a return, got %T", fn.Blocks[0].Term)
	}
}

func TestLowerIfExprProducesDiamondCFG(t *testing.T) {
	m := lowerSrc(t, `
		fn f(cond: bool) -> i32 {
			if cond { 1 } else { 2 }
		}
	`)
	fn := findFn(m, "f")
	if fn == nil {
		t.Fatalf("expected function f in module")
	}
	if len(fn.Blocks) != 4 {
		t.Fatalf("expected 4 blocks (entry, then, else, join), got %d", len(fn.Blocks))
	}
	entry := fn.Blocks[0]
	if _, ok := entry.Term.(ir.Branch); !ok {
		t.Fatalf("expected entry to end in a conditional branch, got %T", entry.Term)
	}
	join := fn.Blocks[len(fn.Blocks)-1]
	if len(join.Preds) != 2 {
		t.Fatalf("expected join block to have 2 predecessors, got %d", len(join.Preds))
	}
}

func TestLowerWhileLoopBranchesBackToCond(t *testing.T) {
	m := lowerSrc(t, `
		fn f(n: i32) {
			let mut i = 0;
			while i < n {
				i = i + 1;
			}
		}
	`)
	fn := findFn(m, "f")
	if fn == nil {
		t.Fatalf("expected function f in module")
	}
	var condBlock *ir.BasicBlock
	for _, b := range fn.Blocks {
		if _, ok := b.Term.(ir.Branch); ok {
			condBlock = b
		}
	}
	if condBlock == nil {
		t.Fatalf("expected a conditional branch block for the while condition")
	}
	foundBackEdge := false
	for _, pred := range condBlock.Preds {
		if _, ok := pred.Term.(ir.Jump); ok {
			foundBackEdge = true
		}
	}
	if !foundBackEdge {
		t.Fatalf("expected the loop body to jump back to the condition block")
	}
}

func TestLowerAssignStoresToLocalSlot(t *testing.T) {
	m := lowerSrc(t, `
		fn f() -> i32 {
			let mut x = 1;
			x = x + 1;
			x
		}
	`)
	fn := findFn(m, "f")
	if fn == nil {
		t.Fatalf("expected function f in module")
	}
	storeCount := 0
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if instr.Op == ir.OpStore {
				storeCount++
			}
		}
	}
	if storeCount < 2 {
		t.Fatalf("expected at least 2 stores (init + reassignment), got %d", storeCount)
	}
}
