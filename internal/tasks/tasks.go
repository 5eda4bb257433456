package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/otoge/internal/models"
	"github.com/desertthunder/otoge/internal/services"
	"github.com/desertthunder/otoge/internal/shared"
	"github.com/desertthunder/otoge/internal/store"
)

// Result is the terminal state of one source within a run.
type Result struct {
	Source   string
	Outcome  models.Outcome
	Stage    Stage // last stage entered; the failing stage when Err is set
	Songs    int   // normalized song count, 0 when the run failed before normalization
	Started  time.Time
	Finished time.Time
	Err      error
}

func (r Result) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// Failed reports whether the source failed.
func (r Result) Failed() bool {
	return r.Err != nil
}

// RunResult aggregates one [Engine.Sync] invocation.
type RunResult struct {
	ID      string
	Results []Result // dispatch-table order
}

// Failed reports whether at least one source failed.
func (r *RunResult) Failed() bool {
	for _, res := range r.Results {
		if res.Failed() {
			return true
		}
	}
	return false
}

// Err wraps [shared.ErrSyncFailed] with every failing source, nil when all succeeded.
func (r *RunResult) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Failed() {
			errs = append(errs, fmt.Errorf("%s: %w", res.Source, res.Err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", shared.ErrSyncFailed, errors.Join(errs...))
}

// Count returns how many results ended with outcome o.
func (r *RunResult) Count(o models.Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Recorder persists per-source outcomes, typically repositories.SyncRunRepository.
type Recorder interface {
	Create(run *models.SyncRun) error
}

// EngineOpts holds the dependencies of an [Engine].
type EngineOpts struct {
	Client   *services.Client
	Store    *store.Store
	Logger   *log.Logger
	Recorder Recorder // optional
	Sources  []Source
	Now      func() time.Time
}

// Engine runs the dispatch table.
type Engine struct {
	client   *services.Client
	store    *store.Store
	logger   *log.Logger
	recorder Recorder
	sources  []Source
	now      func() time.Time
}

// NewEngine creates an Engine from opts.
func NewEngine(opts EngineOpts) *Engine {
	if opts.Client == nil {
		opts.Client = services.NewClient(services.ClientOpts{Logger: opts.Logger})
	}
	if opts.Logger == nil {
		opts.Logger = shared.DiscardLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		client:   opts.Client,
		store:    opts.Store,
		logger:   opts.Logger,
		recorder: opts.Recorder,
		sources:  opts.Sources,
		now:      opts.Now,
	}
}

// Sources returns the dispatch table in order.
func (e *Engine) Sources() []Source {
	return e.sources
}

// Store returns the snapshot store.
func (e *Engine) Store() *store.Store {
	return e.store
}

// Sync runs every source concurrently and waits for all of them.
//
// A failing source never cancels or delays the others. Results keep dispatch-table order regardless of completion
// order. The progress channel is optional and never blocks the run.
func (e *Engine) Sync(ctx context.Context, progress chan<- ProgressUpdate) *RunResult {
	run := &RunResult{ID: shared.GenerateID(), Results: make([]Result, len(e.sources))}
	e.logger.Info("starting sync", "run", run.ID, "sources", len(e.sources))

	var wg sync.WaitGroup
	for i, src := range e.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			name := src.Descriptor().Name
			run.Results[i] = src.run(ctx, env{
				client:   e.client,
				store:    e.store,
				logger:   shared.WithLogger(e.logger, "source", name),
				now:      e.now,
				progress: progress,
			})
		}(i, src)
	}
	wg.Wait()

	e.logger.Info("all fetches completed", "run", run.ID)
	for _, res := range run.Results {
		if res.Failed() {
			e.logger.Error("task failed", "source", res.Source, "stage", res.Stage, "err", res.Err)
		} else {
			e.logger.Info("task succeeded", "source", res.Source, "outcome", res.Outcome, "songs", res.Songs)
		}
	}

	e.record(run)
	return run
}

// record stores every result in the run history. Failures are logged and otherwise ignored.
func (e *Engine) record(run *RunResult) {
	if e.recorder == nil {
		return
	}
	for _, res := range run.Results {
		r := models.NewSyncRun(run.ID, res.Source, res.Outcome, res.Stage.String(), res.Songs, res.Started, res.Finished)
		if res.Err != nil {
			r.SetErrorMessage(res.Err.Error())
		}
		if err := e.recorder.Create(r); err != nil {
			e.logger.Warn("failed to record sync run", "source", res.Source, "err", err)
		}
	}
}
