package optimize

import "github.com/latticelang/latticec/internal/ir"

// tailCallToLoopPass rewrites a self-recursive tail call — a block ending
// in `return f(args...)` where f is the enclosing function — into a jump
// back to the entry block after reassigning the parameter slots, turning
// unbounded call-stack recursion into a loop (spec §4.8 O3
// "tail-call-to-loop"). Only direct self-recursion is handled; mutual
// recursion between two functions would need a module-level call graph to
// detect the cycle and is out of scope here.
type tailCallToLoopPass struct{}

func (tailCallToLoopPass) Name() string { return "tail-call-to-loop" }

func (p tailCallToLoopPass) Run(fn *ir.Function) bool {
	if len(fn.Blocks) == 0 {
		return false
	}
	entry := fn.Blocks[0]
	slots := paramSlots(fn, entry)
	if slots == nil {
		return false
	}

	changed := false
	for _, b := range fn.Blocks {
		ret, ok := b.Term.(ir.Return)
		if !ok || len(b.Instrs) == 0 {
			continue
		}
		last := b.Instrs[len(b.Instrs)-1]
		if last.Op != ir.OpCall || last.CalleeName != fn.Name || ret.Value != last {
			continue
		}
		args := last.Operands[1:]
		if len(args) != len(fn.Params) {
			continue
		}
		b.Instrs = b.Instrs[:len(b.Instrs)-1]
		for i, param := range fn.Params {
			slot, ok := slots[param]
			if !ok {
				continue
			}
			b.Emit(ir.OpStore, param.Type(), slot, args[i])
		}
		b.SetJump(entry)
		changed = true
	}
	return changed
}

// paramSlots finds, for each of fn's parameters, the OpAlloca instruction
// the entry block stores its initial value into, matching the
// alloca-then-store pattern internal/irbuilder emits for every parameter.
func paramSlots(fn *ir.Function, entry *ir.BasicBlock) map[*ir.Param]*ir.Instruction {
	slots := make(map[*ir.Param]*ir.Instruction, len(fn.Params))
	for _, instr := range entry.Instrs {
		if instr.Op != ir.OpStore || len(instr.Operands) != 2 {
			continue
		}
		param, ok := instr.Operands[1].(*ir.Param)
		if !ok {
			continue
		}
		alloca, ok := instr.Operands[0].(*ir.Instruction)
		if !ok || alloca.Op != ir.OpAlloca {
			continue
		}
		slots[param] = alloca
	}
	if len(slots) == 0 {
		return nil
	}
	return slots
}
