package prettyprinter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/latticelang/latticec/internal/ir"
	"github.com/latticelang/latticec/internal/types"
)

func i32() ir.Type { return types.Primitive{Kind: types.I32} }

// buildAddOne builds `fn add_one(x: i32) -> i32 { return x + 1 }` directly
// against the ir package, the same shape internal/irbuilder would lower it
// to, to exercise DumpModule without going through lexing/parsing.
func buildAddOne() *ir.Module {
	x := &ir.Param{Nm: "x", Ty: i32()}
	fn := ir.NewFunction("add_one", []*ir.Param{x}, i32())
	entry := fn.NewBlock("entry")

	one := ir.NewConst(int64(1), i32())
	sum := entry.Emit(ir.OpAdd, i32(), x, one)
	entry.Term = ir.Return{Value: sum}

	return &ir.Module{Name: "demo", Functions: []*ir.Function{fn}}
}

func TestDumpModuleRendersFunctionSignatureAndBody(t *testing.T) {
	out := DumpModule(buildAddOne())

	assert.Contains(t, out, "module demo")
	assert.Contains(t, out, "fn add_one(x: i32) -> i32 {")
	assert.Contains(t, out, "entry:")
	assert.Contains(t, out, "= add i32 x, 1")
	assert.Contains(t, out, "return %1")
}

func TestDumpModuleRendersBranchTerminator(t *testing.T) {
	cond := &ir.Param{Nm: "c", Ty: types.Primitive{Kind: types.Bool}}
	fn := ir.NewFunction("pick", []*ir.Param{cond}, i32())
	entry := fn.NewBlock("entry")
	thenB := fn.NewBlock("then")
	elseB := fn.NewBlock("else")

	entry.Term = ir.Branch{Cond: cond, Then: thenB, Else: elseB}
	thenB.Term = ir.Return{Value: ir.NewConst(int64(1), i32())}
	elseB.Term = ir.Return{Value: ir.NewConst(int64(0), i32())}

	out := DumpModule(&ir.Module{Functions: []*ir.Function{fn}})

	assert.Contains(t, out, "branch c, then, else")
	assert.Contains(t, out, "then:")
	assert.Contains(t, out, "else:")
}

func TestDumpModuleRendersCallWithCalleeName(t *testing.T) {
	fn := ir.NewFunction("caller", nil, i32())
	entry := fn.NewBlock("entry")

	call := entry.Emit(ir.OpCall, i32())
	call.CalleeName = "helper"
	entry.Term = ir.Return{Value: call}

	out := DumpModule(&ir.Module{Functions: []*ir.Function{fn}})

	assert.Contains(t, out, "= call i32 @helper()")
}

func TestDumpModuleRendersPhiNode(t *testing.T) {
	fn := ir.NewFunction("merge", nil, i32())
	a := fn.NewBlock("a")
	b := fn.NewBlock("b")
	join := fn.NewBlock("join")

	a.Term = ir.Jump{Target: join}
	b.Term = ir.Jump{Target: join}

	phi := join.EmitPhi(i32())
	phi.AddPhiEdge(a, ir.NewConst(int64(1), i32()))
	phi.AddPhiEdge(b, ir.NewConst(int64(2), i32()))
	join.Term = ir.Return{Value: phi}

	out := DumpModule(&ir.Module{Functions: []*ir.Function{fn}})

	assert.Contains(t, out, "= phi i32 [a: 1], [b: 2]")
}
