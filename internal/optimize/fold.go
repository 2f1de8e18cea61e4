package optimize

import "github.com/latticelang/latticec/internal/ir"

// constantFoldPass evaluates pure instructions whose operands are all
// *ir.Const and replaces their uses with the computed constant (spec §4.8
// O1 "constant folding"). It never removes the folded instruction itself;
// deadCodeEliminationPass strips it once nothing references it anymore.
type constantFoldPass struct{}

func (constantFoldPass) Name() string { return "constant-fold" }

func (constantFoldPass) Run(fn *ir.Function) bool {
	changed := false
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			folded, ok := foldInstr(instr)
			if !ok {
				continue
			}
			replaceUses(fn, instr, folded)
			changed = true
		}
	}
	return changed
}

func foldInstr(instr *ir.Instruction) (*ir.Const, bool) {
	if !isPure(instr.Op) || instr.Op == ir.OpGEP || instr.Op == ir.OpExtractValue || instr.Op == ir.OpInsertValue {
		return nil, false
	}
	consts := make([]*ir.Const, len(instr.Operands))
	for i, op := range instr.Operands {
		c, ok := op.(*ir.Const)
		if !ok {
			return nil, false
		}
		consts[i] = c
	}
	switch len(consts) {
	case 1:
		return foldUnary(instr.Op, consts[0], instr.Ty)
	case 2:
		return foldBinary(instr.Op, consts[0], consts[1], instr.Ty)
	default:
		return nil, false
	}
}

func foldUnary(op ir.Opcode, a *ir.Const, ty ir.Type) (*ir.Const, bool) {
	switch op {
	case ir.OpNeg:
		switch v := a.Val.(type) {
		case int64:
			return ir.NewConst(-v, ty), true
		case float64:
			return ir.NewConst(-v, ty), true
		}
	case ir.OpNot:
		switch v := a.Val.(type) {
		case bool:
			return ir.NewConst(!v, ty), true
		case int64:
			return ir.NewConst(^v, ty), true
		}
	}
	return nil, false
}

func foldBinary(op ir.Opcode, a, b *ir.Const, ty ir.Type) (*ir.Const, bool) {
	ai, aIsInt := a.Val.(int64)
	bi, bIsInt := b.Val.(int64)
	if aIsInt && bIsInt {
		if v, ok := foldIntBinary(op, ai, bi); ok {
			return ir.NewConst(v, ty), true
		}
		if v, ok := foldIntCompare(op, ai, bi); ok {
			return ir.NewConst(v, ty), true
		}
		return nil, false
	}
	af, aIsFloat := a.Val.(float64)
	bf, bIsFloat := b.Val.(float64)
	if aIsFloat && bIsFloat {
		if v, ok := foldFloatBinary(op, af, bf); ok {
			return ir.NewConst(v, ty), true
		}
		if v, ok := foldFloatCompare(op, af, bf); ok {
			return ir.NewConst(v, ty), true
		}
	}
	return nil, false
}

func foldIntBinary(op ir.Opcode, a, b int64) (int64, bool) {
	switch op {
	case ir.OpAdd:
		return a + b, true
	case ir.OpSub:
		return a - b, true
	case ir.OpMul:
		return a * b, true
	case ir.OpDiv:
		if b == 0 {
			return 0, false
		}
		return a / b, true
	case ir.OpRem:
		if b == 0 {
			return 0, false
		}
		return a % b, true
	case ir.OpAnd:
		return a & b, true
	case ir.OpOr:
		return a | b, true
	case ir.OpXor:
		return a ^ b, true
	case ir.OpShl:
		return a << uint64(b), true
	case ir.OpShr:
		return a >> uint64(b), true
	}
	return 0, false
}

func foldIntCompare(op ir.Opcode, a, b int64) (bool, bool) {
	switch op {
	case ir.OpEq:
		return a == b, true
	case ir.OpNe:
		return a != b, true
	case ir.OpLt:
		return a < b, true
	case ir.OpLe:
		return a <= b, true
	case ir.OpGt:
		return a > b, true
	case ir.OpGe:
		return a >= b, true
	}
	return false, false
}

func foldFloatBinary(op ir.Opcode, a, b float64) (float64, bool) {
	switch op {
	case ir.OpAdd:
		return a + b, true
	case ir.OpSub:
		return a - b, true
	case ir.OpMul:
		return a * b, true
	case ir.OpDiv:
		if b == 0 {
			return 0, false
		}
		return a / b, true
	}
	return 0, false
}

func foldFloatCompare(op ir.Opcode, a, b float64) (bool, bool) {
	switch op {
	case ir.OpEq:
		return a == b, true
	case ir.OpNe:
		return a != b, true
	case ir.OpLt:
		return a < b, true
	case ir.OpLe:
		return a <= b, true
	case ir.OpGt:
		return a > b, true
	case ir.OpGe:
		return a >= b, true
	}
	return false, false
}
