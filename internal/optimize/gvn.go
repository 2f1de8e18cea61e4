package optimize

import "github.com/latticelang/latticec/internal/ir"

// globalValueNumberingPass generalizes commonSubexpressionEliminationPass
// across the whole function (spec §4.8 O3 "global value numbering"): the
// same expr-key table is carried across a dominator-tree preorder walk
// (ir.BuildDomTree's reverse-postorder is a valid preorder for this
// purpose, since a block is only visited after every dominator that
// defines values it can see), so an expression computed in a dominating
// block is recognized as available in every block it dominates, not just
// within one straight-line block.
type globalValueNumberingPass struct{}

func (globalValueNumberingPass) Name() string { return "gvn" }

func (globalValueNumberingPass) Run(fn *ir.Function) bool {
	dt := ir.BuildDomTree(fn)
	order := ir.ReversePostorder(fn)

	changed := false
	seen := make(map[string]*ir.Instruction)
	for _, b := range order {
		for _, instr := range b.Instrs {
			if !isPure(instr.Op) {
				continue
			}
			key := exprKey(instr)
			if existing, ok := seen[key]; ok && dt.Dominates(existing.Block, b) {
				replaceUses(fn, instr, existing)
				changed = true
				continue
			}
			seen[key] = instr
		}
	}
	return changed
}
