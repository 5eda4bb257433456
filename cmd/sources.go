package main

import (
	"context"
	"strconv"
	"strings"

	"github.com/desertthunder/otoge/internal/tasks"
	"github.com/urfave/cli/v3"
)

type sourceJSON struct {
	Name        string `json:"name"`
	Strategy    string `json:"strategy"`
	URL         string `json:"url"`
	CategoryURL string `json:"category_url,omitempty"`
	Snapshot    string `json:"snapshot"`
	Songs       int    `json:"songs"`
	LastUpdated string `json:"last_updated,omitempty"`
}

func sourceNames() string {
	return strings.Join(tasks.Names(), ", ")
}

// Sources prints the configured dispatch table with the state of each local snapshot.
func (r *Runner) Sources(ctx context.Context, cmd *cli.Command) error {
	var infos []sourceJSON
	for _, src := range tasks.Sources(r.config) {
		desc := src.Descriptor()
		info := sourceJSON{
			Name:        desc.Name,
			Strategy:    desc.Strategy.String(),
			URL:         desc.URL,
			CategoryURL: desc.CategoryURL,
			Snapshot:    r.store.Path(desc.Name),
		}
		if catalog, err := src.Catalog(r.store); err == nil {
			info.Songs = catalog.Count
			info.LastUpdated = formatTime(catalog.LastUpdated)
		} else {
			r.logger.Debug("no usable snapshot", "source", desc.Name, "error", err)
		}
		infos = append(infos, info)
	}

	if cmd.Bool("json") {
		return r.writeJSON(infos, cmd.Bool("pretty"))
	}

	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		lastSync, songs := "never", "-"
		if info.LastUpdated != "" {
			lastSync, songs = info.LastUpdated, strconv.Itoa(info.Songs)
		}
		rows = append(rows, []string{info.Name, info.Strategy, info.URL, info.Snapshot, songs, lastSync})
	}
	r.writePlain("%s\n", renderTable(
		[]string{"Source", "Strategy", "URL", "Snapshot", "Songs", "Last Sync"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft},
	))
	return nil
}

// sourcesCommand lists the dispatch table
func sourcesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "sources",
		Usage: "List configured sources and their local snapshots",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
		},
		Action: r.Sources,
	}
}
