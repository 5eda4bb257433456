package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/otoge/internal/models"
	"github.com/desertthunder/otoge/internal/shared"
	"github.com/urfave/cli/v3"
)

type syncRunJSON struct {
	Sequence   int       `json:"sequence"`
	RunID      string    `json:"run_id"`
	Source     string    `json:"source"`
	Outcome    string    `json:"outcome"`
	Stage      string    `json:"stage"`
	Songs      int       `json:"songs"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Error      string    `json:"error,omitempty"`
}

// History lists recorded sync runs, newest first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	if r.config.Database.Path == "" {
		return fmt.Errorf("%w: run history is disabled (database.path is empty)", shared.ErrMissingConfig)
	}

	source := cmd.String("source")
	if source != "" {
		if _, err := r.selectSources([]string{source}); err != nil {
			return err
		}
	}

	repo, err := r.openHistory()
	if err != nil {
		return err
	}
	defer r.Close()

	runs, err := repo.List(map[string]any{
		"source": source,
		"run_id": cmd.String("run"),
		"limit":  int(cmd.Int("limit")),
	})
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		out := make([]syncRunJSON, 0, len(runs))
		for _, run := range runs {
			out = append(out, syncRunJSON{
				Sequence:   run.Sequence(),
				RunID:      run.RunID(),
				Source:     run.Source(),
				Outcome:    string(run.Outcome()),
				Stage:      run.Stage(),
				Songs:      run.SongCount(),
				StartedAt:  run.StartedAt(),
				FinishedAt: run.FinishedAt(),
				Error:      run.ErrorMessage(),
			})
		}
		return r.writeJSON(out, cmd.Bool("pretty"))
	}

	if len(runs) == 0 {
		r.writePlain("No sync runs recorded yet.\n")
		return nil
	}

	r.writePlain("%s\n", historyTable(runs))
	return nil
}

func historyTable(runs []*models.SyncRun) string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		runID := run.RunID()
		if len(runID) > 8 {
			runID = runID[:8]
		}
		rows = append(rows, []string{
			strconv.Itoa(run.Sequence()),
			runID,
			run.Source(),
			string(run.Outcome()),
			run.Stage(),
			strconv.Itoa(run.SongCount()),
			formatTime(run.StartedAt()),
			formatDuration(run.Duration()),
			truncate(run.ErrorMessage(), 60),
		})
	}
	return renderTable(
		[]string{"#", "Run", "Source", "Outcome", "Stage", "Songs", "Started", "Duration", "Error"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignRight, alignLeft},
	)
}

// historyCommand lists recorded sync runs
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recent sync runs",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "source",
				Usage: "Only show runs of this source",
			},
			&cli.StringFlag{
				Name:  "run",
				Usage: "Only show the sources of one run id",
			},
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of rows",
				Value:   20,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
		},
		Action: r.History,
	}
}
