package optimize

import "github.com/latticelang/latticec/internal/ir"

// constantPropagatePass collapses a phi node whose every incoming edge
// resolves to the same constant value into that constant (spec §4.8 O1
// "constant propagation"). This is a reduced form of full sparse
// conditional constant propagation: it only recognizes a phi already
// uniform across all edges, rather than iterating a lattice across
// branches that are themselves provably never taken. RunLevel runs each
// pass once rather than to a fixed point, so a phi collapses only if its
// edges are already the same constant when this pass runs; no separate
// reachability lattice is used. See DESIGN.md.
type constantPropagatePass struct{}

func (constantPropagatePass) Name() string { return "constant-propagate" }

func (constantPropagatePass) Run(fn *ir.Function) bool {
	changed := false
	for _, b := range fn.Blocks {
		for _, instr := range b.Instrs {
			if instr.Op != ir.OpPhi || len(instr.PhiEdges) == 0 {
				continue
			}
			c, ok := uniformConst(instr.PhiEdges)
			if !ok {
				continue
			}
			replaceUses(fn, instr, c)
			changed = true
		}
	}
	return changed
}

func uniformConst(edges []ir.PhiEdge) (*ir.Const, bool) {
	first, ok := edges[0].Value.(*ir.Const)
	if !ok {
		return nil, false
	}
	for _, e := range edges[1:] {
		c, ok := e.Value.(*ir.Const)
		if !ok || c.Val != first.Val {
			return nil, false
		}
	}
	return first, true
}
