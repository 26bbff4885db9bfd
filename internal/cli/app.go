// Package cli implements the devenv commands.
//
// Every invocation follows the same shape: the configuration is loaded, the
// registry is read from its store, exactly one operation runs against the
// resolved environment, and the registry is flushed back on teardown.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"

	"github.com/nauticalab/devenv-compose/internal/compose"
	"github.com/nauticalab/devenv-compose/internal/config"
	"github.com/nauticalab/devenv-compose/internal/docker"
	"github.com/nauticalab/devenv-compose/internal/environment"
	"github.com/nauticalab/devenv-compose/internal/git"
	"github.com/nauticalab/devenv-compose/internal/mutagen"
	"github.com/nauticalab/devenv-compose/internal/process"
	"github.com/nauticalab/devenv-compose/internal/resolver"
	"github.com/nauticalab/devenv-compose/internal/store"
	"github.com/nauticalab/devenv-compose/internal/validation"
	"golang.org/x/term"
)

// Options holds the global command line settings
type Options struct {
	ConfigPath string
	Verbose    bool
	DryRun     bool
	Stdin      io.Reader
	Stdout     io.Writer
	Stderr     io.Writer
}

// RegistryStore persists the registry between invocations
type RegistryStore interface {
	Load() ([]environment.Record, error)
	Save(records []environment.Record) error
	Close() error
}

// Daemon is the part of the Docker daemon API devenv relies on
type Daemon interface {
	Ping(ctx context.Context) (*docker.ServerInfo, error)
	RunningProjects(ctx context.Context) (map[string]int, error)
	Close() error
}

// App carries everything one invocation needs
type App struct {
	Config    *config.Config
	Registry  *environment.Registry
	Validator *validation.FileValidator
	Builder   *compose.Builder
	Sync      *mutagen.SessionManager
	Runner    process.Runner
	Logger    *slog.Logger
	Out       io.Writer
	Err       io.Writer

	store       RegistryStore
	dryRun      bool
	goos        string
	workingDir  func() (string, error)
	daemon      func() (Daemon, error)
	inspectRepo func(location string) (*git.Info, error)
	interactive func() bool
}

// NewApp loads the configuration and the registry
func NewApp(opts Options) (*App, error) {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	logger := NewLogger(opts.Stderr, opts.Verbose)

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Debug("configuration loaded", "file", cfg.Path(), "data_dir", cfg.DataDir, "sync", cfg.Sync.Enabled)

	st, err := store.Open(cfg.RegistryPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open registry: %w", err)
	}

	runner := process.NewExecRunner(logger)
	runner.Stdin = opts.Stdin
	runner.Stdout = opts.Stdout
	runner.Stderr = opts.Stderr
	runner.DryRun = opts.DryRun

	app, err := newApp(cfg, st, runner, logger, opts.Stdout, opts.Stderr)
	if err != nil {
		st.Close()
		return nil, err
	}
	app.dryRun = opts.DryRun
	return app, nil
}

func newApp(cfg *config.Config, st RegistryStore, runner process.Runner, logger *slog.Logger, out, errOut io.Writer) (*App, error) {
	records, err := st.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	registry, err := environment.NewRegistry(records...)
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	logger.Debug("registry loaded", "environments", registry.Len())

	return &App{
		Config:    cfg,
		Registry:  registry,
		Validator: validation.NewFileValidator(nil),
		Builder:   compose.NewBuilder(cfg.Compose...),
		Sync: mutagen.NewSessionManager(runner, mutagen.Options{
			Binary: cfg.Sync.Binary,
			Owner:  cfg.Sync.Owner,
			Group:  cfg.Sync.Group,
			Target: cfg.Sync.Target,
		}),
		Runner: runner,
		Logger: logger,
		Out:    out,
		Err:    errOut,

		store:      st,
		goos:       runtime.GOOS,
		workingDir: os.Getwd,
		daemon: func() (Daemon, error) {
			return docker.New(cfg.Docker.Host)
		},
		inspectRepo: git.Inspect,
		interactive: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		},
	}, nil
}

// Close flushes the registry to its store and releases it.
// In dry-run mode registry changes are discarded.
func (a *App) Close() error {
	if a.dryRun {
		a.Logger.Debug("dry run, registry not saved")
		if err := a.store.Close(); err != nil {
			return fmt.Errorf("failed to close registry: %w", err)
		}
		return nil
	}

	saveErr := a.store.Save(a.Registry.All())
	closeErr := a.store.Close()
	if saveErr != nil {
		return fmt.Errorf("failed to save registry: %w", saveErr)
	}
	if closeErr != nil {
		return fmt.Errorf("failed to close registry: %w", closeErr)
	}
	a.Logger.Debug("registry saved", "environments", a.Registry.Len())
	return nil
}

// resolver builds the environment resolver over the current registry
func (a *App) resolver() *resolver.Resolver {
	return resolver.New(a.Registry, a.Validator, resolver.WithWorkingDir(a.workingDir))
}

// resolve selects the configured environment the command operates on
func (a *App) resolve(name string) (*resolver.Context, error) {
	ctx, err := a.resolver().Resolve(name)
	if err != nil {
		return nil, err
	}
	a.Logger.Debug("environment resolved", "name", ctx.Record.Name, "source", ctx.Source)
	return ctx, nil
}

// syncEnabled reports whether synchronization sessions are used on this host
func (a *App) syncEnabled() bool {
	return a.Config.Sync.EnabledOn(a.goos)
}

// NewLogger creates the diagnostic logger: debug level when verbose, warnings otherwise
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
