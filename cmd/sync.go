package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/desertthunder/otoge/internal/models"
	"github.com/desertthunder/otoge/internal/tasks"
	"github.com/urfave/cli/v3"
)

// syncResultJSON is the --json view of one source's result.
type syncResultJSON struct {
	Source   string `json:"source"`
	Outcome  string `json:"outcome"`
	Stage    string `json:"stage"`
	Songs    int    `json:"songs"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

// Sync runs every selected source concurrently and prints one row per source.
//
// The command fails with a non-zero exit code when any source failed; the others are still written.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	sources, err := r.selectSources(cmd.StringSlice("only"))
	if err != nil {
		return err
	}
	defer r.Close()

	if cmd.Bool("interactive") {
		return r.runInteractive(ctx, sources)
	}
	engine := r.newEngine(sources)

	asJSON := cmd.Bool("json")
	progress := make(chan tasks.ProgressUpdate, 16*len(sources))
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			if asJSON || update.Stage == tasks.Done {
				continue
			}
			r.writePlain("[%s] %s\n", update.Source, update.Message)
		}
	}()

	run := engine.Sync(ctx, progress)
	close(progress)
	<-done

	if asJSON {
		if err := r.writeJSON(syncResultsJSON(run), cmd.Bool("pretty")); err != nil {
			return err
		}
	} else {
		r.writePlain("\n%s\n", syncTable(run))
		r.writePlain("%d written, %d unchanged, %d failed\n",
			run.Count(models.OutcomeWritten), run.Count(models.OutcomeUnchanged), run.Count(models.OutcomeFailed))
	}

	if err := run.Err(); err != nil {
		return exit(err, 1)
	}
	return nil
}

func syncResultsJSON(run *tasks.RunResult) []syncResultJSON {
	results := make([]syncResultJSON, 0, len(run.Results))
	for _, res := range run.Results {
		out := syncResultJSON{
			Source:   res.Source,
			Outcome:  string(res.Outcome),
			Stage:    res.Stage.String(),
			Songs:    res.Songs,
			Duration: formatDuration(res.Duration()),
		}
		if res.Err != nil {
			out.Error = res.Err.Error()
		}
		results = append(results, out)
	}
	return results
}

func syncTable(run *tasks.RunResult) string {
	rows := make([][]string, 0, len(run.Results))
	for _, res := range run.Results {
		errMsg := ""
		if res.Err != nil {
			errMsg = truncate(res.Err.Error(), 80)
		}
		rows = append(rows, []string{
			res.Source,
			string(res.Outcome),
			res.Stage.String(),
			strconv.Itoa(res.Songs),
			formatDuration(res.Duration()),
			errMsg,
		})
	}
	return renderTable(
		[]string{"Source", "Outcome", "Stage", "Songs", "Duration", "Error"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
}

// syncCommand runs the song list synchronization
func syncCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sync",
		Usage: "Fetch every song list and update the local snapshots",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "only",
				Usage: fmt.Sprintf("Comma-separated sources to sync (%s)", sourceNames()),
			},
			&cli.BoolFlag{
				Name:    "interactive",
				Aliases: []string{"i"},
				Usage:   "Show live progress in an interactive view",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output results as JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
		},
		Action: r.Sync,
	}
}
