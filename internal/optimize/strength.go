package optimize

import (
	"math/bits"

	"github.com/latticelang/latticec/internal/ir"
	"github.com/latticelang/latticec/internal/types"
)

// strengthReductionPass rewrites power-of-two integer Mul/Div/Rem against
// a constant into the equivalent Shl/Shr/And (spec §4.8 O3 "strength
// reduction"). Mul->Shl is exact for both signed and unsigned operands (the
// shift reproduces the same bit pattern two's-complement multiplication
// would), but Div->Shr and Rem->And only hold for unsigned operands (spec
// §4.8: "shift is arithmetic for signed, logical for unsigned" and the
// and-mask identity assumes a non-negative dividend) — `-7 / 4` is `-1`,
// not `-7 >> 2 == -2`, and `-7 % 4` is `-3`, not `-7 & 3 == 1`. Div/Rem by
// a negative or non-power-of-two divisor, by a signed operand, and
// anything operating on a non-Const operand, are left alone.
type strengthReductionPass struct{}

func (strengthReductionPass) Name() string { return "strength-reduction" }

func (strengthReductionPass) Run(fn *ir.Function) bool {
	changed := false
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if rewriteStrength(instr) {
				changed = true
			}
		}
	}
	return changed
}

// rewriteStrength mutates instr in place (same result register, cheaper
// opcode/operands) rather than replacing uses, since it doesn't retire the
// instruction, just its cost.
func rewriteStrength(instr *ir.Instruction) bool {
	if len(instr.Operands) != 2 {
		return false
	}
	shift, ok := powerOfTwoShift(instr.Operands[1])
	if !ok {
		return false
	}
	switch instr.Op {
	case ir.OpMul:
		instr.Op = ir.OpShl
		instr.Operands[1] = ir.NewConst(int64(shift), instr.Operands[1].Type())
		return true
	case ir.OpDiv:
		if !isUnsignedInteger(instr) {
			return false
		}
		instr.Op = ir.OpShr
		instr.Operands[1] = ir.NewConst(int64(shift), instr.Operands[1].Type())
		return true
	case ir.OpRem:
		if !isUnsignedInteger(instr) {
			return false
		}
		mask, overflow := bits.Sub64(uint64(1)<<uint(shift), 1, 0)
		if overflow != 0 {
			return false
		}
		instr.Op = ir.OpAnd
		instr.Operands[1] = ir.NewConst(int64(mask), instr.Operands[1].Type())
		return true
	}
	return false
}

// isUnsignedInteger reports whether instr's result type (shared with its
// operands in well-typed arithmetic IR) is one of Lattice's unsigned
// fixed-width integer kinds.
func isUnsignedInteger(instr *ir.Instruction) bool {
	p, ok := instr.Type().(types.Primitive)
	return ok && p.Kind.IsUnsigned()
}

func powerOfTwoShift(v ir.Value) (int, bool) {
	c, ok := v.(*ir.Const)
	if !ok {
		return 0, false
	}
	n, ok := c.Val.(int64)
	if !ok || n <= 0 || n&(n-1) != 0 {
		return 0, false
	}
	return bits.TrailingZeros64(uint64(n)), true
}
