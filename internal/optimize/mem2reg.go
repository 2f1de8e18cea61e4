package optimize

import "github.com/latticelang/latticec/internal/ir"

// mem2regPass promotes alloca slots that are never address-taken (never
// passed anywhere but a direct Load/Store operand) into real SSA values,
// inserting phi nodes at the iterated dominance frontier of each slot's
// store set (spec §4.8's "phi insertion deferred to a later mem2reg-style
// promotion pass", named in internal/irbuilder's package doc). This is the
// classical Cytron-et-al construction: ir.DomTree.Frontier already exists
// for exactly this purpose (see internal/ir/dominance.go's doc comment).
// It runs once, ahead of O1, rather than being gated to a level, since
// every other pass in this package assumes values (not memory slots) carry
// the dataflow it folds/propagates/eliminates — without it, a program that
// never takes a variable's address would never benefit from any later
// pass.
type mem2regPass struct{}

func (mem2regPass) Name() string { return "mem2reg" }

func (mem2regPass) Run(fn *ir.Function) bool {
	allocas := promotableAllocas(fn)
	if len(allocas) == 0 {
		return false
	}

	dt := ir.BuildDomTree(fn)
	frontier := dt.Frontier()
	phis := placePhis(fn, allocas, frontier)
	rename(fn, dt, allocas, phis)
	stripPromoted(fn, allocas, phis)
	return true
}

// promotableAllocas returns every OpAlloca instruction whose only uses are
// as the address operand of an OpLoad or the address operand of an
// OpStore — never passed to a call, never the source of a GEP, never
// itself stored into another slot.
func promotableAllocas(fn *ir.Function) []*ir.Instruction {
	var allocas []*ir.Instruction
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if instr.Op == ir.OpAlloca {
				allocas = append(allocas, instr)
			}
		}
	}

	escapes := make(map[*ir.Instruction]bool)
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			for i, op := range instr.Operands {
				alloca, ok := op.(*ir.Instruction)
				if !ok || alloca.Op != ir.OpAlloca {
					continue
				}
				isAddressOperand := (instr.Op == ir.OpLoad && i == 0) ||
					(instr.Op == ir.OpStore && i == 0)
				if !isAddressOperand {
					escapes[alloca] = true
				}
			}
		}
	}

	var kept []*ir.Instruction
	for _, a := range allocas {
		if !escapes[a] {
			kept = append(kept, a)
		}
	}
	return kept
}

// placePhis inserts an empty phi at the iterated dominance frontier of
// each alloca's store set, iterating to a fixed point since placing a phi
// in block b is itself a definition that can push the frontier further.
func placePhis(fn *ir.Function, allocas []*ir.Instruction, frontier map[*ir.BasicBlock][]*ir.BasicBlock) map[*ir.BasicBlock]map[*ir.Instruction]*ir.Instruction {
	phis := make(map[*ir.BasicBlock]map[*ir.Instruction]*ir.Instruction)

	for _, alloca := range allocas {
		defBlocks := map[*ir.BasicBlock]bool{}
		for _, b := range fn.Blocks {
			for _, instr := range b.Instrs {
				if instr.Op == ir.OpStore && instr.Operands[0] == ir.Value(alloca) {
					defBlocks[b] = true
				}
			}
		}

		hasPhi := map[*ir.BasicBlock]bool{}
		worklist := make([]*ir.BasicBlock, 0, len(defBlocks))
		for b := range defBlocks {
			worklist = append(worklist, b)
		}
		for len(worklist) > 0 {
			b := worklist[len(worklist)-1]
			worklist = worklist[:len(worklist)-1]
			for _, df := range frontier[b] {
				if hasPhi[df] {
					continue
				}
				hasPhi[df] = true
				if phis[df] == nil {
					phis[df] = map[*ir.Instruction]*ir.Instruction{}
				}
				phis[df][alloca] = df.EmitPhi(alloca.Type())
				if !defBlocks[df] {
					defBlocks[df] = true
					worklist = append(worklist, df)
				}
			}
		}
	}
	return phis
}

// rename walks the dominator tree in preorder, replacing each load from a
// promotable slot with the value most recently stored to it (or the phi
// the block's own dominance-frontier placement introduced), and records
// each phi's incoming edges as it crosses a CFG edge out of a block.
func rename(fn *ir.Function, dt *ir.DomTree, allocas []*ir.Instruction, phis map[*ir.BasicBlock]map[*ir.Instruction]*ir.Instruction) {
	children := make(map[*ir.BasicBlock][]*ir.BasicBlock)
	for _, b := range fn.Blocks {
		if parent := dt.IDom(b); parent != nil {
			children[parent] = append(children[parent], b)
		}
	}

	loads := make(map[*ir.Instruction]ir.Value) // load instr -> replacement

	var visit func(b *ir.BasicBlock, current map[*ir.Instruction]ir.Value)
	visit = func(b *ir.BasicBlock, current map[*ir.Instruction]ir.Value) {
		local := make(map[*ir.Instruction]ir.Value, len(current))
		for k, v := range current {
			local[k] = v
		}
		for alloca, phi := range phis[b] {
			local[alloca] = phi
		}

		for _, instr := range b.Instrs {
			switch {
			case instr.Op == ir.OpLoad && isPromoted(instr, allocas):
				alloca := instr.Operands[0].(*ir.Instruction)
				loads[instr] = local[alloca]
			case instr.Op == ir.OpStore && isPromoted(instr, allocas):
				alloca := instr.Operands[0].(*ir.Instruction)
				local[alloca] = instr.Operands[1]
			}
		}

		for _, s := range b.Succs {
			for alloca, phi := range phis[s] {
				phi.AddPhiEdge(b, local[alloca])
			}
		}

		for _, c := range children[b] {
			visit(c, local)
		}
	}
	visit(fn.Blocks[0], map[*ir.Instruction]ir.Value{})

	for load, replacement := range loads {
		if replacement != nil {
			replaceUses(fn, load, replacement)
		}
	}
}

func isPromoted(instr *ir.Instruction, allocas []*ir.Instruction) bool {
	alloca, ok := instr.Operands[0].(*ir.Instruction)
	if !ok {
		return false
	}
	for _, a := range allocas {
		if a == alloca {
			return true
		}
	}
	return false
}

// stripPromoted removes the now-dead allocas, loads, and stores the rename
// pass retired, and the phi placeholders that ended up with no live uses
// are left for deadCodeEliminationPass to collect (a phi is not pure by
// this package's definition, but an unused one has no observers and a
// future DCE enhancement could special-case it; in practice every phi
// placed here has at least one load-derived use by construction).
func stripPromoted(fn *ir.Function, allocas []*ir.Instruction, phis map[*ir.BasicBlock]map[*ir.Instruction]*ir.Instruction) {
	dead := make(map[*ir.Instruction]bool, len(allocas))
	for _, a := range allocas {
		dead[a] = true
	}
	for _, b := range fn.Blocks {
		var kept []*ir.Instruction
		for _, instr := range b.Instrs {
			if dead[instr] {
				continue
			}
			if (instr.Op == ir.OpLoad || instr.Op == ir.OpStore) && len(instr.Operands) > 0 {
				if alloca, ok := instr.Operands[0].(*ir.Instruction); ok && dead[alloca] {
					continue
				}
			}
			kept = append(kept, instr)
		}
		b.Instrs = kept
	}
}
