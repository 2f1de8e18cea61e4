package optimize

import "github.com/latticelang/latticec/internal/ir"

// inliningPass splices a callee's body into its call site when the callee
// is a single straight-line block (no internal control flow) reachable by
// name through ir.Instruction.CalleeName, and small enough to fit budget
// (spec §4.8 O2/O3 "inlining", gated more permissively at O3). Only
// single-block callees are handled: inlining a callee with its own
// branches would require re-splitting the caller's block and rewiring
// phis, which this pass leaves to a future iteration rather than building
// here; see DESIGN.md.
type inliningPass struct {
	budget int
}

func (inliningPass) Name() string { return "inlining" }

func (p inliningPass) Run(fn *ir.Function) bool { return false }

func (p inliningPass) RunModule(mod *ir.Module, fn *ir.Function) bool {
	changed := false
	for _, b := range fn.Blocks {
		for i := 0; i < len(b.Instrs); i++ {
			instr := b.Instrs[i]
			if instr.Op != ir.OpCall || instr.CalleeName == "" {
				continue
			}
			callee := findFunction(mod, instr.CalleeName)
			if callee == nil || callee == fn || !inlinable(callee, p.budget) {
				continue
			}
			inlineCall(fn, b, i, instr, callee)
			changed = true
		}
	}
	return changed
}

func findFunction(mod *ir.Module, name string) *ir.Function {
	for _, fn := range mod.Functions {
		if fn.Name == name {
			return fn
		}
	}
	return nil
}

func inlinable(callee *ir.Function, budget int) bool {
	if len(callee.Blocks) != 1 {
		return false
	}
	if _, ok := callee.Blocks[0].Term.(ir.Return); !ok {
		return false
	}
	return len(callee.Blocks[0].Instrs) <= budget
}

// inlineCall replaces the call instruction at b.Instrs[idx] with a cloned
// copy of callee's single block's instructions (params substituted with
// the call's argument values), then redirects every use of the call's
// result to the cloned return value.
func inlineCall(fn *ir.Function, b *ir.BasicBlock, idx int, call *ir.Instruction, callee *ir.Function) {
	args := call.Operands[1:] // Operands[0] is the callee value itself
	paramValue := make(map[*ir.Param]ir.Value, len(callee.Params))
	for i, param := range callee.Params {
		if i < len(args) {
			paramValue[param] = args[i]
		}
	}

	cloned := make(map[*ir.Instruction]*ir.Instruction, len(callee.Blocks[0].Instrs))
	substitute := func(v ir.Value) ir.Value {
		switch vv := v.(type) {
		case *ir.Param:
			if mapped, ok := paramValue[vv]; ok {
				return mapped
			}
		case *ir.Instruction:
			if mapped, ok := cloned[vv]; ok {
				return mapped
			}
		}
		return v
	}

	var spliced []*ir.Instruction
	var returned ir.Value
	for _, instr := range callee.Blocks[0].Instrs {
		operands := make([]ir.Value, len(instr.Operands))
		for i, op := range instr.Operands {
			operands[i] = substitute(op)
		}
		clone := &ir.Instruction{
			Block:      b,
			Op:         instr.Op,
			Ty:         instr.Ty,
			Operands:   operands,
			FieldIndex: instr.FieldIndex,
			CalleeName: instr.CalleeName,
		}
		cloned[instr] = clone
		spliced = append(spliced, clone)
	}
	if ret, ok := callee.Blocks[0].Term.(ir.Return); ok && ret.Value != nil {
		returned = substitute(ret.Value)
	}

	newInstrs := make([]*ir.Instruction, 0, len(b.Instrs)-1+len(spliced))
	newInstrs = append(newInstrs, b.Instrs[:idx]...)
	newInstrs = append(newInstrs, spliced...)
	newInstrs = append(newInstrs, b.Instrs[idx+1:]...)
	b.Instrs = newInstrs

	if returned != nil {
		replaceUses(fn, call, returned)
	}
}
