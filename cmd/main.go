package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/otoge/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	if err := newApp(runner).Run(context.Background(), os.Args); err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			logger.Error("command failed", "error", err)
			os.Exit(exitErr.ExitCode())
		}
		logger.Fatalf("application error: %v", err)
	}
}
