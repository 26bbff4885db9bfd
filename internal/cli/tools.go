package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/nauticalab/devenv-compose/internal/compose"
)

// Logs follows the logs of an environment, optionally restricted to one service
func (a *App) Logs(ctx context.Context, name, service string, tail *int) error {
	env, err := a.resolve(name)
	if err != nil {
		return err
	}
	return a.runOperation(ctx, env, compose.OpLogs, compose.Options{Tail: tail, Service: service})
}

// Terminal opens a login shell inside a service container
func (a *App) Terminal(ctx context.Context, name, service, user string) error {
	if service == "" {
		return compose.ErrMissingServiceArgument
	}
	if !a.interactive() {
		return ErrNotInteractive
	}
	env, err := a.resolve(name)
	if err != nil {
		return err
	}
	return a.runOperation(ctx, env, compose.OpTerminal, compose.Options{Service: service, User: user})
}

// Data shows the live resource usage of the containers of an environment
func (a *App) Data(ctx context.Context, name string) error {
	env, err := a.resolve(name)
	if err != nil {
		return err
	}
	return a.runOperation(ctx, env, compose.OpResources, compose.Options{})
}

// Backup dumps the database of an environment into path
func (a *App) Backup(ctx context.Context, name, path string) error {
	if path == "" {
		return compose.ErrMissingPathArgument
	}
	env, err := a.resolve(name)
	if err != nil {
		return err
	}
	if path, err = a.absolute(path); err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "💾 Dumping the database of %s...\n", env.Record.Name)
	if err := a.runOperation(ctx, env, compose.OpDump, compose.Options{Path: path}); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "✅ Database saved to %s\n", path)
	return nil
}

// Restore loads the dump at path into the database of an environment
func (a *App) Restore(ctx context.Context, name, path string) error {
	if path == "" {
		return compose.ErrMissingPathArgument
	}
	env, err := a.resolve(name)
	if err != nil {
		return err
	}
	if path, err = a.absolute(path); err != nil {
		return err
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("dump file %s does not exist", path)
	}

	fmt.Fprintf(a.Out, "📥 Restoring the database of %s...\n", env.Record.Name)
	if err := a.runOperation(ctx, env, compose.OpRestore, compose.Options{Path: path}); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "✅ Database restored from %s\n", path)
	return nil
}

// SyncMonitor follows the synchronization session of an environment
func (a *App) SyncMonitor(ctx context.Context, name string) error {
	if !a.syncEnabled() {
		return ErrSyncDisabled
	}
	env, err := a.resolve(name)
	if err != nil {
		return err
	}

	ok, err := a.Sync.Monitor(ctx, a.Builder.Environment(env.Record))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: the synchronization session could not be monitored", ErrOperationFailed)
	}
	return nil
}
