package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/desertthunder/otoge/internal/formatter"
	"github.com/desertthunder/otoge/internal/shared"
)

// ManifestFile is written next to the exported music directory.
const ManifestFile = "export_manifest.json"

// ExportOpts contains configuration for catalog exports.
type ExportOpts struct {
	Format     string // json, csv, markdown, txt (default: json)
	OutputDir  string // generated directory; files land in <OutputDir>/music
	NumWorkers int    // concurrent workers (default: 4)
}

// ExportResult is the outcome of exporting one source.
type ExportResult struct {
	Source string
	Songs  int
	File   string
	Err    error
}

// ExportRunResult aggregates an [Engine.Export] invocation.
type ExportRunResult struct {
	Results      []ExportResult // dispatch-table order
	ManifestPath string
}

// Failed reports whether at least one source failed to export.
func (r *ExportRunResult) Failed() bool {
	for _, res := range r.Results {
		if res.Err != nil {
			return true
		}
	}
	return false
}

type exportJob struct {
	index int
	src   Source
}

// Export re-encodes the persisted snapshot of every source to <OutputDir>/music/<name>.<ext>.
//
// Every source is attempted; one without a snapshot fails alone. A manifest summarizing the run is written to
// <OutputDir>/export_manifest.json.
func (e *Engine) Export(ctx context.Context, progress chan<- ProgressUpdate, opts ExportOpts) (*ExportRunResult, error) {
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}
	if _, err := formatter.Extension(opts.Format); err != nil {
		return nil, err
	}
	if opts.OutputDir == "" {
		return nil, fmt.Errorf("%w: output directory", shared.ErrMissingArgument)
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}

	musicDir := filepath.Join(opts.OutputDir, "music")
	if err := os.MkdirAll(musicDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &ExportRunResult{Results: make([]ExportResult, len(e.sources))}

	jobs := make(chan exportJob, len(e.sources))
	var wg sync.WaitGroup
	for range opts.NumWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				result.Results[job.index] = e.exportSource(ctx, progress, job.src, opts.Format, musicDir)
			}
		}()
	}

	for i, src := range e.sources {
		jobs <- exportJob{index: i, src: src}
	}
	close(jobs)
	wg.Wait()

	manifest := &formatter.Manifest{Format: opts.Format, GeneratedAt: e.now()}
	for _, res := range result.Results {
		entry := formatter.ManifestEntry{Source: res.Source, Count: res.Songs}
		if res.Err != nil {
			entry.Error = res.Err.Error()
		} else if rel, err := filepath.Rel(opts.OutputDir, res.File); err == nil {
			entry.File = filepath.ToSlash(rel)
		}
		manifest.Entries = append(manifest.Entries, entry)
	}

	manifestPath := filepath.Join(opts.OutputDir, ManifestFile)
	if err := formatter.WriteManifest(manifest, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

func (e *Engine) exportSource(ctx context.Context, progress chan<- ProgressUpdate, src Source, format, dir string) ExportResult {
	name := src.Descriptor().Name
	logger := shared.WithLogger(e.logger, "source", name)
	res := ExportResult{Source: name}

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	sendProgress(progress, ProgressUpdate{Source: name, Stage: LoadLocal, Message: "Reading snapshot..."})

	catalog, err := src.Catalog(e.store)
	if err != nil {
		res.Err = err
		logger.Error("export failed", "err", err)
		return res
	}
	res.Songs = catalog.Count

	if res.File, err = formatter.WriteExport(catalog, format, dir); err != nil {
		res.Err = err
		logger.Error("export failed", "err", err)
		return res
	}

	logger.Info("exported", "file", res.File, "songs", res.Songs)
	sendProgress(progress, ProgressUpdate{Source: name, Stage: Done, Message: fmt.Sprintf("Wrote %s", res.File)})
	return res
}
