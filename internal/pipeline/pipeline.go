// Package pipeline sequences the compiler's phases (lex, parse, resolve,
// infer, borrow-check, lower, optimize) over a shared context, so each
// phase only needs to know the phase before it, not the driver.
package pipeline

import (
	"github.com/latticelang/latticec/internal/ast"
	"github.com/latticelang/latticec/internal/diagnostics"
	"github.com/latticelang/latticec/internal/token"
)

// PipelineContext carries one compilation unit's state between phases.
// Phases append to Diagnostics rather than aborting, so a single run can
// report lex, parse, and semantic errors together.
type PipelineContext struct {
	FileID   int
	FilePath string
	Source   string

	Tokens  []token.Token
	AstRoot *ast.File

	Diagnostics []*diagnostics.Diagnostic
}

// AddDiagnostics appends a phase's diagnostics to the running total.
func (c *PipelineContext) AddDiagnostics(diags []*diagnostics.Diagnostic) {
	c.Diagnostics = append(c.Diagnostics, diags...)
}

// HasErrors reports whether any accumulated diagnostic is at error severity.
func (c *PipelineContext) HasErrors() bool {
	for _, d := range c.Diagnostics {
		if d.Severity == diagnostics.Error {
			return true
		}
	}
	return false
}

// Processor is one stage of the pipeline: it consumes and returns the
// shared context, mutating it in place or returning a new one.
type Processor interface {
	Process(ctx *PipelineContext) *PipelineContext
}

// Pipeline represents a sequence of processing stages.
type Pipeline struct {
	processors []Processor
}

func New(processors ...Processor) *Pipeline {
	return &Pipeline{processors: processors}
}

// Run executes the pipeline.
func (p *Pipeline) Run(initialCtx *PipelineContext) *PipelineContext {
	ctx := initialCtx
	for _, processor := range p.processors {
		ctx = processor.Process(ctx)
		// Continue on errors to collect diagnostics from all stages
		// (e.g. an editor integration wants both parse and semantic errors).
	}
	return ctx
}
