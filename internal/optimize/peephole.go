package optimize

import "github.com/latticelang/latticec/internal/ir"

// peepholePass rewrites single-instruction algebraic identities that
// constant folding can't reach because one operand is non-constant (spec
// §4.8 O1 "peephole simplification"): x+0, x*1, x*0, x-x, x^x, x&x and
// x|x. Unary instructions, such as a double negation, are not rewritten.
type peepholePass struct{}

func (peepholePass) Name() string { return "peephole" }

func (peepholePass) Run(fn *ir.Function) bool {
	changed := false
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if replacement, ok := peepholeRewrite(instr); ok {
				replaceUses(fn, instr, replacement)
				changed = true
			}
		}
	}
	return changed
}

func peepholeRewrite(instr *ir.Instruction) (ir.Value, bool) {
	if len(instr.Operands) != 2 {
		return nil, false
	}
	a, b := instr.Operands[0], instr.Operands[1]
	switch instr.Op {
	case ir.OpAdd:
		if isIntConst(a, 0) {
			return b, true
		}
		if isIntConst(b, 0) {
			return a, true
		}
	case ir.OpSub:
		if isIntConst(b, 0) {
			return a, true
		}
		if a == b {
			return ir.NewConst(int64(0), instr.Ty), true
		}
	case ir.OpMul:
		if isIntConst(a, 1) {
			return b, true
		}
		if isIntConst(b, 1) {
			return a, true
		}
		if isIntConst(a, 0) || isIntConst(b, 0) {
			return ir.NewConst(int64(0), instr.Ty), true
		}
	case ir.OpXor:
		if a == b {
			return ir.NewConst(int64(0), instr.Ty), true
		}
	case ir.OpAnd, ir.OpOr:
		if a == b {
			return a, true
		}
	}
	return nil, false
}

func isIntConst(v ir.Value, n int64) bool {
	c, ok := v.(*ir.Const)
	if !ok {
		return false
	}
	i, ok := c.Val.(int64)
	return ok && i == n
}
