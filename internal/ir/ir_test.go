package ir_test

import (
	"testing"

	"github.com/latticelang/latticec/internal/ir"
)

type intType struct{}

func (intType) String() string { return "i32" }

func buildDiamond() *ir.Function {
	fn := ir.NewFunction("f", []*ir.Param{{Nm: "cond", Ty: intType{}}}, intType{})
	entry := fn.NewBlock("entry")
	then := fn.NewBlock("then")
	els := fn.NewBlock("else")
	join := fn.NewBlock("join")

	entry.SetBranch(fn.Params[0], then, els)

	one := then.Emit(ir.OpAdd, intType{}, fn.Params[0], fn.Params[0])
	then.SetJump(join)

	two := els.Emit(ir.OpSub, intType{}, fn.Params[0], fn.Params[0])
	els.SetJump(join)

	phi := join.EmitPhi(intType{})
	phi.AddPhiEdge(then, one)
	phi.AddPhiEdge(els, two)
	join.SetReturn(phi)

	return fn
}

func TestValidateAcceptsWellFormedDiamond(t *testing.T) {
	fn := buildDiamond()
	if errs := ir.Validate(fn); len(errs) != 0 {
		t.Fatalf("unexpected validation errors: %v", errs)
	}
}

func TestValidateRejectsMissingTerminator(t *testing.T) {
	fn := ir.NewFunction("f", nil, intType{})
	fn.NewBlock("entry")
	if errs := ir.Validate(fn); len(errs) == 0 {
		t.Fatalf("expected a validation error for a block with no terminator")
	}
}

func TestValidateRejectsPhiEdgeCountMismatch(t *testing.T) {
	fn := ir.NewFunction("f", nil, intType{})
	entry := fn.NewBlock("entry")
	join := fn.NewBlock("join")
	entry.SetJump(join)
	phi := join.EmitPhi(intType{})
	join.SetReturn(phi)
	errs := ir.Validate(fn)
	if len(errs) == 0 {
		t.Fatalf("expected a phi-edge-count validation error")
	}
}

func TestDomTreeDiamondJoinDominatedByEntry(t *testing.T) {
	fn := buildDiamond()
	dt := ir.BuildDomTree(fn)
	entry, _, _, join := fn.Blocks[0], fn.Blocks[1], fn.Blocks[2], fn.Blocks[3]
	if !dt.Dominates(entry, join) {
		t.Fatalf("expected entry to dominate join")
	}
	if dt.IDom(join) != entry {
		t.Fatalf("expected join's immediate dominator to be entry (diamond merge)")
	}
}

func TestDominanceFrontierOfBranchesIncludesJoin(t *testing.T) {
	fn := buildDiamond()
	dt := ir.BuildDomTree(fn)
	df := dt.Frontier()
	then, els, join := fn.Blocks[1], fn.Blocks[2], fn.Blocks[3]
	for _, b := range []struct {
		name string
		blk  *ir.BasicBlock
	}{{"then", then}, {"else", els}} {
		found := false
		for _, f := range df[b.blk] {
			if f == join {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected join in dominance frontier of %s", b.name)
		}
	}
}
