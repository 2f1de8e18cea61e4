package optimize

import (
	"fmt"
	"strings"

	"github.com/latticelang/latticec/internal/ir"
)

// commonSubexpressionEliminationPass replaces a pure instruction with an
// earlier instruction in the same block computing the identical operation
// over identical operands (spec §4.8 O2 "common subexpression
// elimination"). Scoped to one block at a time via a per-block hash table
// that resets at each block boundary; globalValueNumberingPass (O3)
// generalizes this across the whole dominator tree.
type commonSubexpressionEliminationPass struct{}

func (commonSubexpressionEliminationPass) Name() string { return "cse" }

func (commonSubexpressionEliminationPass) Run(fn *ir.Function) bool {
	changed := false
	for _, b := range fn.Blocks {
		seen := make(map[string]*ir.Instruction)
		for _, instr := range b.Instrs {
			if !isPure(instr.Op) {
				continue
			}
			key := exprKey(instr)
			if existing, ok := seen[key]; ok {
				replaceUses(fn, instr, existing)
				changed = true
				continue
			}
			seen[key] = instr
		}
	}
	return changed
}

// exprKey is a string identity for instr's (opcode, operand-list,
// field-index) tuple, stable across two instructions computing the same
// expression over the same SSA values.
func exprKey(instr *ir.Instruction) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d:%d:", instr.Op, instr.FieldIndex)
	for _, op := range instr.Operands {
		fmt.Fprintf(&sb, "%s,", operandIdentity(op))
	}
	return sb.String()
}

// operandIdentity gives two *ir.Const operands with equal values the same
// key (so `1+x` and a second `1+x` built from distinct Const nodes still
// collide), while every other Value is keyed by its own identity.
func operandIdentity(v ir.Value) string {
	if c, ok := v.(*ir.Const); ok {
		return fmt.Sprintf("c:%T:%v", c.Val, c.Val)
	}
	return fmt.Sprintf("v:%p", v)
}
