package cli

import (
	"context"

	"github.com/nauticalab/devenv-compose/internal/compose"
	"github.com/nauticalab/devenv-compose/internal/process"
	"github.com/nauticalab/devenv-compose/internal/resolver"
)

// runOperation builds op for the selected environment and runs it in the foreground
func (a *App) runOperation(ctx context.Context, env *resolver.Context, op compose.Operation, opts compose.Options) error {
	cmd, err := a.Builder.Build(env.Record, op, opts)
	if err != nil {
		return err
	}
	a.Logger.Debug("running operation", "operation", op, "environment", env.Record.Name, "command", cmd.String())

	var result *process.Result
	if cmd.IsShell() {
		result, err = a.Runner.RunForegroundShell(ctx, cmd.Shell, cmd.Env)
	} else {
		result, err = a.Runner.RunForeground(ctx, cmd.Args, cmd.Env)
	}
	if err != nil {
		return err
	}
	if !result.Success {
		return &OperationError{Operation: string(op), ExitCode: result.ExitCode}
	}
	return nil
}
