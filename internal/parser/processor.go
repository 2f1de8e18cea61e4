package parser

import "github.com/latticelang/latticec/internal/pipeline"

// Processor is the pipeline.Processor stage that turns ctx.Tokens into
// ctx.AstRoot, so the driver can chain lexer.Processor -> parser.Processor
// -> later semantic passes without each stage knowing about the others.
type Processor struct{}

func (pp *Processor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if len(ctx.Tokens) == 0 {
		return ctx
	}
	p := New(ctx.FileID, ctx.Tokens)
	ctx.AstRoot = p.ParseFile(ctx.FilePath)
	ctx.AddDiagnostics(p.Diagnostics())
	return ctx
}
