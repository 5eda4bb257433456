package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/otoge/internal/models"
	"github.com/desertthunder/otoge/internal/services"
	"github.com/desertthunder/otoge/internal/store"
	"github.com/desertthunder/otoge/internal/verify"
)

// Source is one entry of the dispatch table.
type Source interface {
	// Descriptor returns the immutable source configuration.
	Descriptor() models.Descriptor
	// Catalog reads the persisted snapshot of the source from st.
	Catalog(st *store.Store) (*models.Catalog, error)

	run(ctx context.Context, e env) Result
}

// env is what a single source run needs, scoped to that run.
type env struct {
	client   *services.Client
	store    *store.Store
	logger   *log.Logger
	now      func() time.Time
	progress chan<- ProgressUpdate
}

// checkFunc verifies a normalized catalog before it may be written.
type checkFunc[S any, C any] func(ctx context.Context, c *services.Client, songs []S, categories []C) error

// pipeline drives one source through LoadLocal, FetchRemote, Normalize, CheckConsistency, Diff and Write or Skip.
type pipeline[R any, S models.Summarizer, C any] struct {
	desc              models.Descriptor
	extract           services.ExtractOpts[R]
	normalize         func(R) (S, error)
	categories        func() []C
	check             checkFunc[S, C]
	compareCategories bool
}

func (p *pipeline[R, S, C]) Descriptor() models.Descriptor {
	return p.desc
}

func (p *pipeline[R, S, C]) Catalog(st *store.Store) (*models.Catalog, error) {
	snap, err := store.Read[S, C](st, p.desc.Name)
	if err != nil {
		return nil, err
	}
	return models.NewCatalog(snap), nil
}

func (p *pipeline[R, S, C]) run(ctx context.Context, e env) (res Result) {
	name := p.desc.Name
	res = Result{Source: name, Started: e.now()}
	defer func() {
		res.Finished = e.now()
		sendProgress(e.progress, doneUpdate(res))
	}()

	fail := func(stage Stage, err error) Result {
		res.Stage, res.Outcome, res.Err = stage, models.OutcomeFailed, err
		e.logger.Error("task failed", "stage", stage, "err", err)
		return res
	}

	path := e.store.Path(name)
	res.Stage = LoadLocal
	sendProgress(e.progress, loadLocalUpdate(name, path))
	e.logger.Info("loading local song list", "path", path)

	local := store.Load[S, C](e.store, name, e.logger)

	res.Stage = FetchRemote
	sendProgress(e.progress, fetchRemoteUpdate(name))
	e.logger.Info("fetching song list", "url", p.desc.URL, "strategy", p.desc.Strategy)

	raws, err := services.Extract(ctx, e.client, p.desc, p.extract)
	if err != nil {
		return fail(FetchRemote, err)
	}
	e.logger.Info("fetched songs", "count", len(raws))

	res.Stage = Normalize
	sendProgress(e.progress, normalizeUpdate(name, len(raws)))

	songs := make([]S, 0, len(raws))
	for i, raw := range raws {
		song, err := p.normalize(raw)
		if err != nil {
			return fail(Normalize, fmt.Errorf("record %d: %w", i, err))
		}
		songs = append(songs, song)
	}
	res.Songs = len(songs)

	categories := p.categories()

	res.Stage = CheckConsistency
	sendProgress(e.progress, checkUpdate(name))
	if p.check != nil {
		if err := p.check(ctx, e.client, songs, categories); err != nil {
			return fail(CheckConsistency, err)
		}
	}

	snap := models.NewSnapshot(name, songs, categories, e.now())

	res.Stage = Diff
	sendProgress(e.progress, diffUpdate(name))
	if !snap.Differs(local, p.compareCategories) {
		res.Stage, res.Outcome = Skip, models.OutcomeUnchanged
		sendProgress(e.progress, skipUpdate(name))
		e.logger.Info("local song list already up-to-date")
		return res
	}
	if local != nil {
		e.logger.Info("local data differs from remote, updating")
	}

	res.Stage = Write
	sendProgress(e.progress, writeUpdate(name, path))
	e.logger.Info("writing new data", "path", path, "songs", snap.Count)
	if err := store.Save(e.store, snap); err != nil {
		return fail(Write, err)
	}

	res.Outcome = models.OutcomeWritten
	e.logger.Info("done")
	return res
}

// setCheck compares the keys extracted by keys as sets.
func setCheck[S any, C any, K comparable](keys func([]S, []C) (used, declared []K)) checkFunc[S, C] {
	return func(_ context.Context, _ *services.Client, songs []S, categories []C) error {
		used, declared := keys(songs, categories)
		return verify.SetEqual(declared, used)
	}
}

// sequenceCheck scrapes the authoritative taxonomy at url and requires the declared one to match it exactly.
func sequenceCheck[S any, C any](url string, parse func(*goquery.Document) ([]C, error)) checkFunc[S, C] {
	return func(ctx context.Context, c *services.Client, _ []S, categories []C) error {
		doc, err := c.Document(ctx, url)
		if err != nil {
			return fmt.Errorf("category page: %w", err)
		}
		authoritative, err := parse(doc)
		if err != nil {
			return fmt.Errorf("category page: %w", err)
		}
		return verify.ExactSequence(categories, authoritative)
	}
}
