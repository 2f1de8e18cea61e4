package lexer

import "github.com/latticelang/latticec/internal/pipeline"

// Processor is the pipeline.Processor stage that turns ctx.Source into
// ctx.Tokens, the first stage of the compilation pipeline.
type Processor struct{}

func (lp *Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	l := New(ctx.FileID, ctx.Source)
	ctx.Tokens = l.Tokenize()
	ctx.AddDiagnostics(l.Diagnostics())
	return ctx
}
