package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/otoge/internal/server"
	"github.com/desertthunder/otoge/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Serve exposes the generated directory over HTTP until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	host := r.config.Server.Host
	if cmd.IsSet("host") {
		host = cmd.String("host")
	}
	port := r.config.Server.Port
	if cmd.IsSet("port") {
		port = int(cmd.Int("port"))
	}

	var names []string
	for _, src := range tasks.Sources(r.config) {
		names = append(names, src.Descriptor().Name)
	}

	router := server.NewBasicRouter()
	router.Use(server.Recover(r.logger), server.Logging(r.logger))
	router.Handler(server.NewDataHandler(r.config.Storage.GeneratedDir, names, r.logger))

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := fmt.Sprintf("%s:%d", host, port)
	r.writePlain("Serving %s at http://%s/data (ctrl+c to stop)\n", r.config.Storage.GeneratedDir, addr)
	return server.Serve(ctx, addr, router, r.logger)
}

// serveCommand serves exported catalogs to a local frontend
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve exported song lists under /data",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (default: server.host)",
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (default: server.port)",
			},
		},
		Action: r.Serve,
	}
}
