package session_test

import (
	"context"
	"testing"

	"github.com/latticelang/latticec/internal/config"
	"github.com/latticelang/latticec/internal/session"
	"github.com/latticelang/latticec/internal/source"
)

func TestCompileValidFileSucceedsAndLowersToIR(t *testing.T) {
	m := source.NewMap()
	f := m.Add("ok.lat", `fn add(a: i32, b: i32) -> i32 { a + b }`)

	s := session.New(f, config.Default())
	if err := s.Compile(context.Background()); err != nil {
		t.Fatalf("unexpected driver error: %v", err)
	}
	if !s.Success() {
		t.Fatalf("expected a successful compile, got diagnostics: %v", s.Diags.Sorted())
	}
	if s.IR == nil || len(s.IR.Functions) != 1 {
		t.Fatalf("expected one lowered function, got %v", s.IR)
	}
}

func TestCompileCollectsDiagnosticsFromEveryPhase(t *testing.T) {
	m := source.NewMap()
	f := m.Add("bad.lat", `fn f() -> i32 { "hello" }`)

	s := session.New(f, config.Default())
	if err := s.Compile(context.Background()); err != nil {
		t.Fatalf("unexpected driver error: %v", err)
	}
	if s.Success() {
		t.Fatalf("expected the type mismatch to fail the build")
	}
	if s.Diags.ErrorCount() == 0 {
		t.Fatalf("expected at least one collected diagnostic")
	}
}

func TestCompileHonorsContextCancellation(t *testing.T) {
	m := source.NewMap()
	f := m.Add("ok.lat", `fn add(a: i32, b: i32) -> i32 { a + b }`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := session.New(f, config.Default())
	if err := s.Compile(ctx); err == nil {
		t.Fatalf("expected Compile to report the cancelled context")
	}
	if s.AST != nil {
		t.Fatalf("expected no phase to have run once the context was already cancelled")
	}
}

func TestEachSessionGetsAUniqueID(t *testing.T) {
	m := source.NewMap()
	f := m.Add("a.lat", `fn f() -> i32 { 1 }`)

	a := session.New(f, config.Default())
	b := session.New(f, config.Default())
	if a.ID == b.ID {
		t.Fatalf("expected distinct session identities, got %q twice", a.ID)
	}
}

func TestCompileToStageParseStopsBeforeLowering(t *testing.T) {
	m := source.NewMap()
	f := m.Add("ok.lat", `fn add(a: i32, b: i32) -> i32 { a + b }`)

	s := session.New(f, config.Default())
	if err := s.CompileTo(context.Background(), session.StageParse); err != nil {
		t.Fatalf("unexpected driver error: %v", err)
	}
	if s.AST == nil {
		t.Fatalf("expected parsing to have run")
	}
	if s.Res != nil || s.Type != nil || s.IR != nil {
		t.Fatalf("expected resolve/infer/lower to have been skipped at StageParse")
	}
}

func TestCompileToStageCheckStopsBeforeIR(t *testing.T) {
	m := source.NewMap()
	f := m.Add("ok.lat", `fn add(a: i32, b: i32) -> i32 { a + b }`)

	s := session.New(f, config.Default())
	if err := s.CompileTo(context.Background(), session.StageCheck); err != nil {
		t.Fatalf("unexpected driver error: %v", err)
	}
	if s.Type == nil {
		t.Fatalf("expected type inference to have run")
	}
	if s.IR != nil {
		t.Fatalf("expected lowering to have been skipped at StageCheck")
	}
}

func TestPoolCompilesMultipleFilesConcurrently(t *testing.T) {
	m := source.NewMap()
	var ids []int
	for i := 0; i < 5; i++ {
		f := m.Add("f.lat", `fn f() -> i32 { 1 + 2 }`)
		ids = append(ids, f.ID)
	}

	pool := session.NewPool(m, config.Default(), 2)
	outcomes := pool.CompileAll(context.Background(), ids)

	if len(outcomes) != len(ids) {
		t.Fatalf("expected %d outcomes, got %d", len(ids), len(outcomes))
	}
	seen := map[string]bool{}
	for _, o := range outcomes {
		if o.Err != nil {
			t.Fatalf("unexpected outcome error: %v", o.Err)
		}
		if !o.Session.Success() {
			t.Fatalf("expected every file to compile cleanly, got %v", o.Session.Diags.Sorted())
		}
		if seen[o.Session.ID] {
			t.Fatalf("expected distinct session IDs per worker, got a repeat %q", o.Session.ID)
		}
		seen[o.Session.ID] = true
	}
}
