// Package optimize transforms internal/ir's SSA form in place, producing
// an equivalent function that preserves observable behavior (spec §4.8).
// There is no teacher analogue for an IR optimizer (funxy interprets a
// bytecode chunk directly with no intermediate optimization stage), so
// the pass-list-per-level idiom is grounded on the session's sequential
// Processor chain (internal/pipeline.Pipeline.Run), generalized from
// "a sequence of phases over a shared context" to "a sequence of passes
// over a shared function"; individual pass shapes follow the IR-rewrite
// style of other_examples' kanso internal/ir optimizations, vslc's
// src/ir llvm-transform pass list, and horusec's internal/ir walker.
package optimize

import "github.com/latticelang/latticec/internal/ir"

// Pass is one optimization transform. Run reports whether it changed fn,
// so RunLevel can be extended to iterate passes to a fixed point if a
// future level needs that; the current levels run each pass once, in the
// fixed order spec §5 requires ("Optimizer passes are executed in a fixed
// order per level").
type Pass interface {
	Name() string
	Run(fn *ir.Function) bool
}

// Level is an optimization level's ordered pass list (spec §4.8 "Levels").
type Level int

const (
	O0 Level = iota
	O1
	O2
	O3
)

func passesFor(level Level) []Pass {
	switch level {
	case O0:
		return nil
	case O1:
		return []Pass{
			constantFoldPass{},
			constantPropagatePass{},
			deadCodeEliminationPass{},
			peepholePass{},
		}
	case O2:
		return append(passesFor(O1),
			commonSubexpressionEliminationPass{},
			inliningPass{budget: 50},
			loopInvariantCodeMotionPass{},
		)
	case O3:
		return append(passesFor(O2),
			globalValueNumberingPass{},
			strengthReductionPass{},
			inliningPass{budget: 200},
			tailCallToLoopPass{},
			loopUnrollPass{maxFactor: 4, maxTripCount: 16},
		)
	default:
		return passesFor(O3)
	}
}

// RunLevel runs every pass of level against fn's own body and, for
// inlining, against mod's other functions, in the fixed order spec §4.8
// defines, and returns whether any pass changed the function. mem2reg runs
// unconditionally first, even at O0: it isn't one of the optimizations a
// level gates, it's the rest of this package's precondition (see
// mem2reg.go's doc comment) — every other pass here operates on SSA
// values, not memory slots.
func RunLevel(mod *ir.Module, fn *ir.Function, level Level) bool {
	changed := (mem2regPass{}).Run(fn)
	for _, p := range passesFor(level) {
		if mp, ok := p.(modulePass); ok {
			if mp.RunModule(mod, fn) {
				changed = true
			}
			continue
		}
		if p.Run(fn) {
			changed = true
		}
	}
	return changed
}

// RunModule runs level over every function in mod.
func RunModule(mod *ir.Module, level Level) bool {
	changed := false
	for _, fn := range mod.Functions {
		if RunLevel(mod, fn, level) {
			changed = true
		}
	}
	return changed
}

// modulePass is implemented by passes that need the whole Module (inlining
// looks up callees by name; everything else only touches one Function).
type modulePass interface {
	Pass
	RunModule(mod *ir.Module, fn *ir.Function) bool
}
