// Package session sequences one compilation unit through every phase of
// the pipeline — lex, parse, resolve, infer, borrow-check, lifetime-check,
// lower, optimize — the way internal/pipeline.Pipeline.Run sequences
// Processor stages over a shared PipelineContext, "continuing on errors to
// collect diagnostics from all stages" rather than aborting at the first
// failing phase. A Session generalizes that idiom two ways a single
// PipelineContext can't: it owns a stable identity (a UUID, the same way
// source.Map identifies itself) so diagnostics, cancellation, and a future
// gRPC handoff envelope's session_id field can all correlate back to one
// compile, and it threads a context.Context so a long-running build can be
// cancelled between phases.
package session

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/latticelang/latticec/internal/ast"
	"github.com/latticelang/latticec/internal/borrowck"
	"github.com/latticelang/latticec/internal/config"
	"github.com/latticelang/latticec/internal/diagnostics"
	"github.com/latticelang/latticec/internal/infer"
	"github.com/latticelang/latticec/internal/ir"
	"github.com/latticelang/latticec/internal/irbuilder"
	"github.com/latticelang/latticec/internal/lexer"
	"github.com/latticelang/latticec/internal/lifetime"
	"github.com/latticelang/latticec/internal/optimize"
	"github.com/latticelang/latticec/internal/parser"
	"github.com/latticelang/latticec/internal/prettyprinter"
	"github.com/latticelang/latticec/internal/source"
	"github.com/latticelang/latticec/internal/symbols"
	"github.com/latticelang/latticec/internal/token"
)

// Session compiles one file through every phase, accumulating diagnostics
// from all of them rather than stopping at the first. Its ID correlates
// its diagnostics and the IR it produces across process boundaries (spec
// §5's gRPC handoff envelope carries this same ID as session_id).
type Session struct {
	ID     string
	Config config.Configuration

	File  *source.File
	Diags *diagnostics.Collector

	AST  *ast.File
	Res  *symbols.Result
	Type *infer.Context
	IR   *ir.Module

	// Dump holds the rendered text spec §6's `emit` setting asks for
	// (ast, ir, or left empty for none), produced by the final phase.
	Dump string

	tokens []token.Token
}

// New creates a Session bound to file, with a fresh UUID identity and a
// diagnostics collector configured from cfg's max_errors and
// allow_warnings_as_errors (spec §6).
func New(file *source.File, cfg config.Configuration) *Session {
	return &Session{
		ID:     uuid.NewString(),
		Config: cfg,
		File:   file,
		Diags:  diagnostics.NewCollector(int(cfg.MaxErrors), cfg.AllowWarningsAsErrors),
	}
}

// Stage names how far through the pipeline a Compile call should run,
// letting cmd/latticec's parse/check/build subcommands each stop at the
// point their name promises instead of always running every phase.
type Stage int

const (
	// StageParse runs only lexing and parsing (the "parse" subcommand).
	StageParse Stage = iota
	// StageCheck runs every semantic phase (resolve, infer, borrow-check,
	// lifetime) but never lowers to IR (the "check" subcommand).
	StageCheck
	// StageBuild runs the full pipeline through optimize and emit (the
	// "build" subcommand).
	StageBuild
)

var stagePhases = []func(*Session) []func(context.Context) error{
	StageParse: func(s *Session) []func(context.Context) error {
		return []func(context.Context) error{s.runLex, s.runParse}
	},
	StageCheck: func(s *Session) []func(context.Context) error {
		return []func(context.Context) error{
			s.runLex, s.runParse, s.runResolve, s.runInfer, s.runBorrowck, s.runLifetime,
		}
	},
	StageBuild: func(s *Session) []func(context.Context) error {
		return []func(context.Context) error{
			s.runLex, s.runParse, s.runResolve, s.runInfer,
			s.runBorrowck, s.runLifetime, s.runLower, s.runOptimize, s.runEmit,
		}
	},
}

// Compile runs every phase through StageBuild in order, stopping early
// only if ctx is cancelled or the diagnostics collector has hit its
// max-errors cap (further phases would just pile diagnostics onto a build
// that's already failed). It never stops merely because a phase emitted
// errors — spec §5 requires lex, parse, and semantic diagnostics to
// surface together.
func (s *Session) Compile(ctx context.Context) error {
	return s.CompileTo(ctx, StageBuild)
}

// CompileTo runs every phase up to and including stage, with the same
// cancellation/max-errors-cap early-out rule as Compile.
func (s *Session) CompileTo(ctx context.Context, stage Stage) error {
	for _, phase := range stagePhases[stage](s) {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("session %s: %w", s.ID, err)
		}
		if s.Diags.MaxErrorsExceeded() {
			break
		}
		if err := phase(ctx); err != nil {
			return fmt.Errorf("session %s: %w", s.ID, err)
		}
	}
	return nil
}

func (s *Session) runLex(context.Context) error {
	lx := lexer.New(s.File.ID, s.File.Content)
	s.tokens = lx.Tokenize()
	s.Diags.AddAll(lx.Diagnostics())
	return nil
}

func (s *Session) runParse(context.Context) error {
	p := parser.New(s.File.ID, s.tokens)
	s.AST = p.ParseFile(s.File.Name)
	s.Diags.AddAll(p.Diagnostics())
	return nil
}

func (s *Session) runResolve(context.Context) error {
	if s.AST == nil {
		return nil
	}
	res := symbols.NewResolver(symbols.NewRoot()).ResolveFile(s.AST)
	s.Diags.AddAll(res.Diagnostics)
	s.Res = res
	return nil
}

func (s *Session) runInfer(context.Context) error {
	if s.AST == nil || s.Res == nil {
		return nil
	}
	c := infer.New(s.Res.Resolutions)
	c.InferFile(s.AST)
	s.Diags.AddAll(c.Diagnostics)
	s.Type = c
	return nil
}

func (s *Session) runBorrowck(context.Context) error {
	if s.AST == nil || s.Res == nil || s.Type == nil {
		return nil
	}
	chk := borrowck.New(s.Res.Resolutions, s.Type.TypeMap)
	s.Diags.AddAll(chk.CheckFile(s.AST))
	return nil
}

func (s *Session) runLifetime(context.Context) error {
	if s.AST == nil {
		return nil
	}
	for _, item := range s.AST.Items {
		fn, ok := item.(*ast.FnItem)
		if !ok {
			continue
		}
		s.Diags.AddAll(lifetime.AnalyzeFn(fn).Diagnostics)
	}
	return nil
}

func (s *Session) runLower(context.Context) error {
	if s.AST == nil || s.Res == nil || s.Type == nil {
		return nil
	}
	b := irbuilder.New(s.Res.Resolutions, s.Type)
	b.LowerFile(s.AST)
	s.IR = b.Module.IR
	return nil
}

func (s *Session) runOptimize(context.Context) error {
	if s.IR == nil {
		return nil
	}
	optimize.RunModule(s.IR, optimize.Level(s.Config.OptLevel))
	return nil
}

func (s *Session) runEmit(context.Context) error {
	switch s.Config.Emit {
	case config.EmitAST:
		if s.AST != nil {
			s.Dump = prettyprinter.DumpFile(s.AST)
		}
	case config.EmitIR:
		if s.IR != nil {
			s.Dump = prettyprinter.DumpModule(s.IR)
		}
	}
	return nil
}

// Success reports whether the build produced a usable artifact: spec §6
// says "success iff zero errors were emitted, unless warnings_as_errors
// is set, in which case warnings also fail the build" — which the
// collector's warningsAsErrors flag already folds into HasErrors.
func (s *Session) Success() bool {
	return !s.Diags.HasErrors()
}
