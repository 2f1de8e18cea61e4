package optimize

import "github.com/latticelang/latticec/internal/ir"

// loopInvariantCodeMotionPass hoists a pure instruction whose operands are
// all defined outside a natural loop into a synthesized preheader block
// that runs once before the loop (spec §4.8 O2 "loop-invariant code
// motion"). A natural loop is found from a back edge u->v where v
// dominates u (the standard definition); the loop body is every block
// that can reach u without passing through v, discovered by walking
// predecessors backward from u.
type loopInvariantCodeMotionPass struct{}

func (loopInvariantCodeMotionPass) Name() string { return "licm" }

func (loopInvariantCodeMotionPass) Run(fn *ir.Function) bool {
	dt := ir.BuildDomTree(fn)
	changed := false
	for _, u := range fn.Blocks {
		for _, v := range u.Succs {
			if !dt.Dominates(v, u) {
				continue
			}
			if hoistLoop(fn, dt, v, u) {
				changed = true
			}
		}
	}
	return changed
}

// hoistLoop handles the natural loop with header v and back-edge source u.
func hoistLoop(fn *ir.Function, dt *ir.DomTree, header, latch *ir.BasicBlock) bool {
	body := loopBody(header, latch)
	defined := make(map[*ir.Instruction]bool)
	for b := range body {
		for _, instr := range b.Instrs {
			defined[instr] = true
		}
	}

	var hoistable []*ir.Instruction
	for b := range body {
		for _, instr := range b.Instrs {
			if !isPure(instr.Op) || !isInvariant(instr, defined) {
				continue
			}
			hoistable = append(hoistable, instr)
		}
	}
	if len(hoistable) == 0 {
		return false
	}

	preheader := splitPreheader(fn, dt, header)
	for _, instr := range hoistable {
		removeInstr(instr)
		instr.Block = preheader
		preheader.Instrs = append(preheader.Instrs, instr)
	}
	return true
}

func isInvariant(instr *ir.Instruction, defined map[*ir.Instruction]bool) bool {
	for _, op := range instr.Operands {
		if other, ok := op.(*ir.Instruction); ok && defined[other] {
			return false
		}
	}
	return true
}

// loopBody returns every block that can reach latch by walking predecessors
// backward without crossing header, plus header and latch themselves.
func loopBody(header, latch *ir.BasicBlock) map[*ir.BasicBlock]bool {
	body := map[*ir.BasicBlock]bool{header: true, latch: true}
	var walk func(b *ir.BasicBlock)
	walk = func(b *ir.BasicBlock) {
		for _, p := range b.Preds {
			if body[p] {
				continue
			}
			body[p] = true
			walk(p)
		}
	}
	walk(latch)
	return body
}

// splitPreheader inserts a fresh block that jumps to header, retargets
// every non-back-edge predecessor of header to it instead, and returns it.
// If header already has exactly one non-latch predecessor and it ends in
// an unconditional jump to header, that predecessor is reused as the
// preheader rather than inserting a new block.
func splitPreheader(fn *ir.Function, dt *ir.DomTree, header *ir.BasicBlock) *ir.BasicBlock {
	var outside []*ir.BasicBlock
	for _, p := range header.Preds {
		if !dt.Dominates(header, p) {
			outside = append(outside, p)
		}
	}
	if len(outside) == 1 {
		if j, ok := outside[0].Term.(ir.Jump); ok && j.Target == header {
			return outside[0]
		}
	}

	preheader := fn.NewBlock(header.Label + ".preheader")
	for _, p := range outside {
		retarget(p, header, preheader)
	}
	preheader.SetJump(header)
	for _, instr := range header.Instrs {
		if instr.Op != ir.OpPhi {
			continue
		}
		for i, e := range instr.PhiEdges {
			for _, p := range outside {
				if e.Pred == p {
					instr.PhiEdges[i].Pred = preheader
				}
			}
		}
	}
	return preheader
}

// retarget rewrites p's terminator and CFG edges so it jumps to newTarget
// instead of oldTarget.
func retarget(p, oldTarget, newTarget *ir.BasicBlock) {
	switch t := p.Term.(type) {
	case ir.Jump:
		if t.Target == oldTarget {
			p.Term = ir.Jump{Target: newTarget}
		}
	case ir.Branch:
		if t.Then == oldTarget {
			t.Then = newTarget
		}
		if t.Else == oldTarget {
			t.Else = newTarget
		}
		p.Term = t
	case ir.Switch:
		for i := range t.Cases {
			if t.Cases[i].Target == oldTarget {
				t.Cases[i].Target = newTarget
			}
		}
		if t.Default == oldTarget {
			t.Default = newTarget
		}
		p.Term = t
	}

	for i, s := range p.Succs {
		if s == oldTarget {
			p.Succs[i] = newTarget
		}
	}
	newTarget.Preds = append(newTarget.Preds, p)
	var kept []*ir.BasicBlock
	for _, pred := range oldTarget.Preds {
		if pred != p {
			kept = append(kept, pred)
		}
	}
	oldTarget.Preds = kept
}
