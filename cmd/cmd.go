// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

const version = "0.1.0"

// globalFlags are accepted before any command.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to configuration file",
			Value:   defaultConfigPath,
			Sources: cli.EnvVars("OTOGE_CONFIG"),
		},
		&cli.StringFlag{
			Name:    "data-dir",
			Usage:   "Snapshot directory (overrides storage.data_dir)",
			Sources: cli.EnvVars("OTOGE_DATA_DIR"),
		},
		&cli.StringFlag{
			Name:    "generated-dir",
			Usage:   "Export directory (overrides storage.generated_dir)",
			Sources: cli.EnvVars("OTOGE_GENERATED_DIR"),
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable debug logging",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Only log warnings and errors",
		},
	}
}

// newApp builds the root command around r.
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "otoge",
		Usage:    "Sync rhythm game song lists to local snapshots",
		Version:  version,
		Flags:    globalFlags(),
		Before:   r.before,
		Commands: r.register(),
	}
}
