package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/otoge/internal/repositories"
	"github.com/desertthunder/otoge/internal/services"
	"github.com/desertthunder/otoge/internal/shared"
	"github.com/desertthunder/otoge/internal/store"
	"github.com/desertthunder/otoge/internal/tasks"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	client     *services.Client
	store      *store.Store
	logger     *log.Logger
	output     io.Writer
	db         *sql.DB
	runs       *repositories.SyncRunRepository
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Client     *services.Client
	Logger     *log.Logger
	Output     io.Writer
	DB         *sql.DB // run history; opened lazily from the config when nil
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		client:     opts.Client,
		logger:     opts.Logger,
		output:     opts.Output,
	}
	if opts.DB != nil {
		r.db, r.runs = opts.DB, repositories.NewSyncRunRepository(opts.DB)
	}
	r.configure()
	return r
}

// configure rebuilds the config-derived dependencies.
func (r *Runner) configure() {
	r.store = store.New(r.config.Storage.DataDir)
	if r.client == nil {
		r.client = services.NewClient(services.ClientOpts{
			UserAgent:   r.config.HTTP.UserAgent,
			Timeout:     r.config.RequestTimeout(),
			RateLimit:   r.config.HTTP.RateLimit,
			PageWorkers: r.config.HTTP.PageWorkers,
			Logger:      r.logger,
		})
	}
}

// SetLogger replaces the logger used by the runner and everything it builds afterwards.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		syncCommand, exportCommand, serveCommand, historyCommand, sourcesCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// before loads the configuration and applies the global flags ahead of every command.
//
// A missing config file falls back to the defaults unless --config was set explicitly.
func (r *Runner) before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	switch {
	case cmd.Bool("verbose"):
		shared.SetLogLevel(r.logger, log.DebugLevel)
	case cmd.Bool("quiet"):
		shared.SetLogLevel(r.logger, log.WarnLevel)
	}

	r.configPath = cmd.String("config")
	config, err := shared.LoadConfig(r.configPath)
	switch {
	case err == nil:
		r.logger.Debug("loaded config", "path", r.configPath)
	case errors.Is(err, fs.ErrNotExist) && !cmd.IsSet("config"):
		r.logger.Debug("config file not found, using defaults", "path", r.configPath)
		config = shared.DefaultConfig()
	default:
		return ctx, err
	}

	if dir := cmd.String("data-dir"); dir != "" {
		config.Storage.DataDir = dir
	}
	if dir := cmd.String("generated-dir"); dir != "" {
		config.Storage.GeneratedDir = dir
	}
	if err := config.Validate(); err != nil {
		return ctx, err
	}

	r.config, r.client = config, nil
	r.configure()
	return ctx, nil
}

// openHistory opens the run history database once. An empty database path disables it.
func (r *Runner) openHistory() (*repositories.SyncRunRepository, error) {
	if r.runs != nil {
		return r.runs, nil
	}

	db, err := shared.OpenHistory(r.config.Database)
	if err != nil {
		return nil, err
	}
	r.db, r.runs = db, repositories.NewSyncRunRepository(db)
	return r.runs, nil
}

// Close releases the history database if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db, r.runs = nil, nil
	return err
}

// newEngine builds an engine over sources, recording results when the history database is available.
func (r *Runner) newEngine(sources []tasks.Source) *tasks.Engine {
	opts := tasks.EngineOpts{
		Client:  r.client,
		Store:   r.store,
		Logger:  r.logger,
		Sources: sources,
	}

	if r.config.Database.Path != "" {
		if runs, err := r.openHistory(); err != nil {
			r.logger.Warn("run history unavailable", "error", err)
		} else {
			opts.Recorder = runs
		}
	}
	return tasks.NewEngine(opts)
}

// selectSources resolves a --only list against the configured dispatch table.
func (r *Runner) selectSources(only []string) ([]tasks.Source, error) {
	return tasks.Select(tasks.Sources(r.config), only)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	output, err := shared.MarshalJSON(data, pretty)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// exitError carries a process exit code while keeping err reachable through errors.Is.
type exitError struct {
	err  error
	code int
}

var _ cli.ExitCoder = (*exitError)(nil)

func exit(err error, code int) error {
	return &exitError{err: err, code: code}
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) ExitCode() int { return e.code }
func (e *exitError) Unwrap() error { return e.err }
