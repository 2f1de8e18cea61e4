package optimize

import "github.com/latticelang/latticec/internal/ir"

// deadCodeEliminationPass removes instructions with no remaining use whose
// defining opcode is pure (spec §4.8 O1 "dead code elimination"), and
// prunes basic blocks no longer reachable from the entry block after
// earlier passes retarget branches. Liveness is mark-and-sweep rather than
// a backward dataflow fixed point: an instruction is observable (and so a
// root) if it is impure (OpStore/OpCall/OpAlloca/OpLoad) or it is used by
// another live instruction or a terminator; anything else is dead.
type deadCodeEliminationPass struct{}

func (deadCodeEliminationPass) Name() string { return "dead-code-elimination" }

func (deadCodeEliminationPass) Run(fn *ir.Function) bool {
	changed := pruneUnreachableBlocks(fn)
	live := markLive(fn)
	for _, b := range fn.Blocks {
		var kept []*ir.Instruction
		for _, instr := range b.Instrs {
			if !live[instr] && isPure(instr.Op) {
				changed = true
				continue
			}
			kept = append(kept, instr)
		}
		b.Instrs = kept
	}
	return changed
}

func markLive(fn *ir.Function) map[*ir.Instruction]bool {
	live := make(map[*ir.Instruction]bool)
	var worklist []*ir.Instruction

	markValue := func(v ir.Value) {
		if instr, ok := v.(*ir.Instruction); ok && !live[instr] {
			live[instr] = true
			worklist = append(worklist, instr)
		}
	}

	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if !isPure(instr.Op) {
				markValue(instr)
			}
		}
		switch t := b.Term.(type) {
		case ir.Branch:
			markValue(t.Cond)
		case ir.Switch:
			markValue(t.Value)
		case ir.Return:
			if t.Value != nil {
				markValue(t.Value)
			}
		}
	}

	for len(worklist) > 0 {
		instr := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for _, op := range instr.Operands {
			markValue(op)
		}
		for _, edge := range instr.PhiEdges {
			markValue(edge.Value)
		}
	}
	return live
}

// pruneUnreachableBlocks drops blocks unreachable from fn.Blocks[0] (e.g.
// an else-arm retargeted away by an earlier branch-folding rewrite) and
// strips dangling phi edges and predecessor links that pointed at them.
func pruneUnreachableBlocks(fn *ir.Function) bool {
	reachable := make(map[*ir.BasicBlock]bool, len(fn.Blocks))
	var visit func(b *ir.BasicBlock)
	visit = func(b *ir.BasicBlock) {
		if reachable[b] {
			return
		}
		reachable[b] = true
		for _, s := range b.Succs {
			visit(s)
		}
	}
	visit(fn.Blocks[0])

	changed := false
	var kept []*ir.BasicBlock
	for _, b := range fn.Blocks {
		if !reachable[b] {
			changed = true
			continue
		}
		kept = append(kept, b)
	}
	fn.Blocks = kept

	for _, b := range fn.Blocks {
		var preds []*ir.BasicBlock
		for _, p := range b.Preds {
			if reachable[p] {
				preds = append(preds, p)
			}
		}
		b.Preds = preds
		for _, instr := range b.Instrs {
			if instr.Op != ir.OpPhi {
				continue
			}
			var edges []ir.PhiEdge
			for _, e := range instr.PhiEdges {
				if reachable[e.Pred] {
					edges = append(edges, e)
				}
			}
			instr.PhiEdges = edges
		}
	}
	return changed
}
