package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/latticelang/latticec/internal/config"
	"github.com/latticelang/latticec/internal/source"
)

// Pool compiles many files concurrently, one worker per file up to a
// fixed concurrency limit. Workers share nothing but the immutable
// source.Map they were handed — each gets its own Session (and hence its
// own UUID, diagnostics collector, AST, and arena-equivalent type/IR
// state), so no mutex is needed for compiler state. This mirrors the
// teacher's pipeline one-PipelineContext-per-compile-unit model,
// generalized from "one context" to "one context per worker, N workers
// wide".
type Pool struct {
	files       *source.Map
	config      config.Configuration
	concurrency int
}

// NewPool creates a Pool over files, running at most concurrency Sessions
// at once (concurrency <= 0 means unbounded — one worker per file).
func NewPool(files *source.Map, cfg config.Configuration, concurrency int) *Pool {
	return &Pool{files: files, config: cfg, concurrency: concurrency}
}

// Outcome pairs a compiled Session with any driver-level error Compile
// returned (context cancellation, typically); a Session's own diagnostics
// are inspected via Success()/Diags regardless of Err.
type Outcome struct {
	Session *Session
	Err     error
}

// CompileAll compiles every file in ids concurrently and returns one
// Outcome per id, in the same order, once all workers have finished or
// ctx is cancelled.
func (p *Pool) CompileAll(ctx context.Context, ids []int) []Outcome {
	outcomes := make([]Outcome, len(ids))

	limit := p.concurrency
	if limit <= 0 || limit > len(ids) {
		limit = len(ids)
	}
	if limit == 0 {
		return outcomes
	}

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup

	for i, id := range ids {
		file, ok := p.files.File(id)
		if !ok {
			outcomes[i] = Outcome{Err: errUnknownFile(id)}
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, file *source.File) {
			defer wg.Done()
			defer func() { <-sem }()

			sess := New(file, p.config)
			err := sess.Compile(ctx)
			outcomes[i] = Outcome{Session: sess, Err: err}
		}(i, file)
	}

	wg.Wait()
	return outcomes
}

type errUnknownFile int

func (id errUnknownFile) Error() string {
	return fmt.Sprintf("session: no such file id %d in source map", int(id))
}
