package optimize

import "github.com/latticelang/latticec/internal/ir"

// loopUnrollPass duplicates a counting loop's body in place when its trip
// count is a compile-time constant evenly divisible by the chosen factor
// (spec §4.8 O3 "limited unrolling", capped at maxTripCount so it never
// fires on a loop whose bound isn't small and known). Only the specific
// shape internal/irbuilder's lowerWhile produces is recognized: a
// preheader storing a constant start value into a counter slot, a header
// comparing a load of that slot against a constant bound, and a body
// ending in an unconditional back edge to the header that increments the
// same slot by a constant step. Anything else — a `break`, an early
// `return`, a non-constant bound — leaves the pass a no-op rather than
// risk unrolling past the real trip count.
type loopUnrollPass struct {
	maxFactor    int
	maxTripCount int64
}

func (loopUnrollPass) Name() string { return "loop-unroll" }

func (p loopUnrollPass) Run(fn *ir.Function) bool {
	if p.maxFactor < 2 {
		return false
	}
	dt := ir.BuildDomTree(fn)
	changed := false
	for _, latch := range fn.Blocks {
		for _, header := range latch.Succs {
			if !dt.Dominates(header, latch) {
				continue
			}
			if p.tryUnroll(fn, dt, header, latch) {
				changed = true
			}
		}
	}
	return changed
}

func (p loopUnrollPass) tryUnroll(fn *ir.Function, dt *ir.DomTree, header, latch *ir.BasicBlock) bool {
	if header == latch || len(latch.Succs) != 1 || latch.Succs[0] != header {
		return false
	}
	branch, ok := header.Term.(ir.Branch)
	if !ok {
		return false
	}
	cmp, ok := branch.Cond.(*ir.Instruction)
	if !ok || len(cmp.Operands) != 2 {
		return false
	}
	load, ok := cmp.Operands[0].(*ir.Instruction)
	bound, boundOk := cmp.Operands[1].(*ir.Const)
	if !ok || load.Op != ir.OpLoad || !boundOk {
		return false
	}
	slot, ok := load.Operands[0].(*ir.Instruction)
	if !ok || slot.Op != ir.OpAlloca {
		return false
	}

	start, ok := preheaderStore(header, latch, slot)
	if !ok {
		return false
	}
	step, ok := latchIncrement(latch, slot)
	if !ok {
		return false
	}

	trip, ok := tripCount(cmp.Op, start, bound, step)
	if !ok || trip <= 0 || trip > p.maxTripCount {
		return false
	}
	factor := int64(p.maxFactor)
	for factor > 1 && trip%factor != 0 {
		factor--
	}
	if factor < 2 {
		return false
	}

	body := latch.Instrs[:len(latch.Instrs)-1] // drop the trailing increment-store
	increment := latch.Instrs[len(latch.Instrs)-1]
	var extra []*ir.Instruction
	for i := int64(1); i < factor; i++ {
		for _, instr := range body {
			extra = append(extra, cloneInstrSameBlock(instr, latch))
		}
		extra = append(extra, cloneInstrSameBlock(increment, latch))
	}
	latch.Instrs = append(latch.Instrs[:len(latch.Instrs)-1], append(extra, increment)...)
	return true
}

// preheaderStore finds header's single non-latch predecessor and, if the
// last thing it does is store a constant into slot, returns that constant.
func preheaderStore(header, latch *ir.BasicBlock, slot *ir.Instruction) (int64, bool) {
	var pre *ir.BasicBlock
	for _, p := range header.Preds {
		if p == latch {
			continue
		}
		if pre != nil {
			return 0, false // more than one entry into the loop: not a simple preheader
		}
		pre = p
	}
	if pre == nil || len(pre.Instrs) == 0 {
		return 0, false
	}
	last := pre.Instrs[len(pre.Instrs)-1]
	if last.Op != ir.OpStore || len(last.Operands) != 2 || last.Operands[0] != ir.Value(slot) {
		return 0, false
	}
	c, ok := last.Operands[1].(*ir.Const)
	if !ok {
		return 0, false
	}
	start, ok := c.Val.(int64)
	return start, ok
}

func cloneInstrSameBlock(instr *ir.Instruction, b *ir.BasicBlock) *ir.Instruction {
	return &ir.Instruction{
		Block:      b,
		Op:         instr.Op,
		Ty:         instr.Ty,
		Operands:   append([]ir.Value{}, instr.Operands...),
		FieldIndex: instr.FieldIndex,
		CalleeName: instr.CalleeName,
	}
}

func latchIncrement(latch *ir.BasicBlock, slot *ir.Instruction) (int64, bool) {
	if len(latch.Instrs) == 0 {
		return 0, false
	}
	last := latch.Instrs[len(latch.Instrs)-1]
	if last.Op != ir.OpStore || len(last.Operands) != 2 || last.Operands[0] != ir.Value(slot) {
		return 0, false
	}
	add, ok := last.Operands[1].(*ir.Instruction)
	if !ok || add.Op != ir.OpAdd || len(add.Operands) != 2 {
		return 0, false
	}
	c, ok := add.Operands[1].(*ir.Const)
	if !ok {
		return 0, false
	}
	step, ok := c.Val.(int64)
	return step, ok
}

func tripCount(cmpOp ir.Opcode, start int64, bound *ir.Const, step int64) (int64, bool) {
	b, ok := bound.Val.(int64)
	if !ok || step <= 0 {
		return 0, false
	}
	switch cmpOp {
	case ir.OpLt:
		if (b-start)%step != 0 {
			return 0, false
		}
		return (b - start) / step, true
	case ir.OpLe:
		if (b-start+1)%step != 0 {
			return 0, false
		}
		return (b - start + 1) / step, true
	}
	return 0, false
}
