package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/otoge/internal/formatter"
	"github.com/desertthunder/otoge/internal/shared"
	"github.com/desertthunder/otoge/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Export writes every selected snapshot to the generated directory in the requested format.
func (r *Runner) Export(ctx context.Context, cmd *cli.Command) error {
	sources, err := r.selectSources(cmd.StringSlice("only"))
	if err != nil {
		return err
	}

	workers := int(cmd.Int("workers"))
	if workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", shared.ErrInvalidFlag, workers)
	}

	outputDir := cmd.String("output")
	if outputDir == "" {
		outputDir = r.config.Storage.GeneratedDir
	}

	opts := tasks.ExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  outputDir,
		NumWorkers: workers,
	}
	r.logger.Info("exporting snapshots", "format", opts.Format, "dir", opts.OutputDir, "sources", len(sources))

	result, err := r.newEngine(sources).Export(ctx, nil, opts)
	if result == nil {
		return err
	}
	if err != nil {
		r.logger.Warn("manifest not written", "error", err)
	}

	rows := make([][]string, 0, len(result.Results))
	var failures []error
	for _, res := range result.Results {
		status := "✓"
		if res.Err != nil {
			status = "✗ " + truncate(res.Err.Error(), 60)
			failures = append(failures, fmt.Errorf("%s: %w", res.Source, res.Err))
		}
		rows = append(rows, []string{res.Source, strconv.Itoa(res.Songs), res.File, status})
	}
	r.writePlain("%s\n", renderTable(
		[]string{"Source", "Songs", "File", "Status"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
	))
	if result.ManifestPath != "" {
		r.writePlain("Manifest written to %s\n", result.ManifestPath)
	}

	if len(failures) > 0 {
		return exit(fmt.Errorf("%d of %d exports failed: %w", len(failures), len(result.Results), errors.Join(failures...)), 1)
	}
	return err
}

// exportCommand re-encodes local snapshots for the frontend
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write snapshots to <generated_dir>/music",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   fmt.Sprintf("Export format (%s)", strings.Join(formatter.Formats(), ", ")),
				Value:   formatter.FormatJSON,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output directory (default: storage.generated_dir)",
			},
			&cli.StringSliceFlag{
				Name:  "only",
				Usage: "Comma-separated sources to export",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent export workers",
				Value: 4,
			},
		},
		Action: r.Export,
	}
}
