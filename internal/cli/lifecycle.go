package cli

import (
	"context"
	"fmt"

	"github.com/nauticalab/devenv-compose/internal/compose"
)

// Prepare pulls and builds the images of an environment
func (a *App) Prepare(ctx context.Context, name string) error {
	env, err := a.resolve(name)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "📦 Pulling images for %s...\n", env.Record.Name)
	if err := a.runOperation(ctx, env, compose.OpPull, compose.Options{}); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "🔨 Building images for %s...\n", env.Record.Name)
	if err := a.runOperation(ctx, env, compose.OpBuild, compose.Options{}); err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "✅ Environment %s is ready to start\n", env.Record.Name)
	return nil
}

// Start brings an environment up and makes it the active one
func (a *App) Start(ctx context.Context, name string) error {
	env, err := a.resolve(name)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "🚀 Starting %s...\n", env.Record.Name)
	if err := a.runOperation(ctx, env, compose.OpStart, compose.Options{}); err != nil {
		return err
	}

	// Docker Desktop mounts the agent socket owned by root
	if a.goos == "darwin" {
		if err := a.runOperation(ctx, env, compose.OpFixSSHAgent, compose.Options{}); err != nil {
			a.Logger.Warn("failed to fix SSH agent permissions", "environment", env.Record.Name, "error", err)
		}
	}

	if a.syncEnabled() {
		fmt.Fprintln(a.Out, "🔄 Starting file synchronization...")
		ok, err := a.Sync.Start(ctx, a.Builder.Environment(env.Record))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: the synchronization session could not be started", ErrOperationFailed)
		}
	}

	if err := a.Registry.Activate(env.Record.Location); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "✅ Environment %s started\n", env.Record.Name)
	printDomains(a.Out, env.Record.Domains)
	return nil
}

// Stop pauses synchronization, stops the containers and clears the active flag
func (a *App) Stop(ctx context.Context, name string) error {
	env, err := a.resolve(name)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "🛑 Stopping %s...\n", env.Record.Name)
	if a.syncEnabled() {
		ok, err := a.Sync.Stop(ctx, a.Builder.Environment(env.Record))
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: the synchronization session could not be paused", ErrOperationFailed)
		}
	}

	if err := a.runOperation(ctx, env, compose.OpStop, compose.Options{}); err != nil {
		return err
	}

	if err := a.Registry.Deactivate(env.Record.Location); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "✅ Environment %s stopped\n", env.Record.Name)
	return nil
}

// Restart restarts the containers of an environment
func (a *App) Restart(ctx context.Context, name string) error {
	env, err := a.resolve(name)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "🔁 Restarting %s...\n", env.Record.Name)
	if err := a.runOperation(ctx, env, compose.OpRestart, compose.Options{}); err != nil {
		return err
	}
	fmt.Fprintf(a.Out, "✅ Environment %s restarted\n", env.Record.Name)
	return nil
}

// Status lists the containers of an environment
func (a *App) Status(ctx context.Context, name string) error {
	env, err := a.resolve(name)
	if err != nil {
		return err
	}
	return a.runOperation(ctx, env, compose.OpStatus, compose.Options{})
}
