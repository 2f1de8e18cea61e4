package optimize

import "github.com/latticelang/latticec/internal/ir"

// replaceUses rewrites every operand, phi edge, and terminator reference to
// old so it instead reads new, across every block of fn. Passes that retire
// a value (constant folding, CSE, GVN, phi-collapse) call this and leave
// the now-unused defining instruction for deadCodeEliminationPass to strip.
func replaceUses(fn *ir.Function, old, new ir.Value) {
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			for i, op := range instr.Operands {
				if op == old {
					instr.Operands[i] = new
				}
			}
			for i, edge := range instr.PhiEdges {
				if edge.Value == old {
					instr.PhiEdges[i].Value = new
				}
			}
		}
		switch t := b.Term.(type) {
		case ir.Branch:
			if t.Cond == old {
				t.Cond = new
				b.Term = t
			}
		case ir.Switch:
			if t.Value == old {
				t.Value = new
				b.Term = t
			}
		case ir.Return:
			if t.Value == old {
				t.Value = new
				b.Term = t
			}
		}
	}
}

// removeInstr splices instr out of its block's instruction list.
func removeInstr(instr *ir.Instruction) {
	b := instr.Block
	for i, other := range b.Instrs {
		if other == instr {
			b.Instrs = append(b.Instrs[:i], b.Instrs[i+1:]...)
			return
		}
	}
}

// isPure reports whether op can be freely deleted, reordered, or hoisted
// when its result is unused or recomputed elsewhere. Anything that reads or
// writes memory, or calls out, is excluded: OpCall may have side effects,
// OpLoad is only pure between two stores to the same address (this
// conservative analysis doesn't track that), and OpStore/OpAlloca
// necessarily have observable effects on the function's memory state.
func isPure(op ir.Opcode) bool {
	switch op {
	case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv, ir.OpRem,
		ir.OpAnd, ir.OpOr, ir.OpXor, ir.OpShl, ir.OpShr,
		ir.OpNeg, ir.OpNot,
		ir.OpEq, ir.OpNe, ir.OpLt, ir.OpLe, ir.OpGt, ir.OpGe,
		ir.OpBitcast, ir.OpIntToFloat, ir.OpFloatToInt,
		ir.OpIntTrunc, ir.OpIntExt,
		ir.OpExtractValue, ir.OpInsertValue, ir.OpGEP:
		return true
	default:
		return false
	}
}
