package ir

import "fmt"

// ValidationError reports one SSA well-formedness violation.
type ValidationError struct {
	Function string
	Block    string
	Message  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s/%s: %s", e.Function, e.Block, e.Message)
}

// Validate checks two structural invariants of an SSA function: every
// block has a terminator, and phi nodes appear only at block heads with
// one edge per predecessor. It does not check operands: whether each
// operand's definition dominates its use is not validated.
func Validate(fn *Function) []error {
	var errs []error
	for _, b := range fn.Blocks {
		if b.Term == nil {
			errs = append(errs, &ValidationError{fn.Name, b.Label, "block has no terminator"})
		}
		sawNonPhi := false
		for _, instr := range b.Instrs {
			if instr.Op == OpPhi {
				if sawNonPhi {
					errs = append(errs, &ValidationError{fn.Name, b.Label, "phi node does not appear at block head"})
				}
				if len(instr.PhiEdges) != len(b.Preds) {
					errs = append(errs, &ValidationError{fn.Name, b.Label,
						fmt.Sprintf("phi has %d edges, block has %d predecessors", len(instr.PhiEdges), len(b.Preds))})
				}
			} else {
				sawNonPhi = true
			}
		}
	}
	return errs
}
