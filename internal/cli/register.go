package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/nauticalab/devenv-compose/internal/compose"
	"github.com/nauticalab/devenv-compose/internal/environment"
)

// RegisterOptions describes a new environment
type RegisterOptions struct {
	Name            string
	Location        string
	Type            string
	PHPVersion      string
	DatabaseVersion string
	Domains         string
}

// Register adds an environment to the registry
func (a *App) Register(opts RegisterOptions) error {
	location, err := a.absolute(opts.Location)
	if err != nil {
		return err
	}
	envType, err := environment.ParseType(opts.Type)
	if err != nil {
		return fmt.Errorf("%w (supported: %v)", err, environment.Types())
	}

	rec := environment.Record{
		Name:            opts.Name,
		Location:        location,
		Type:            envType,
		PHPVersion:      opts.PHPVersion,
		DatabaseVersion: opts.DatabaseVersion,
		Domains:         opts.Domains,
	}
	if err := environment.ValidateRecord(&rec); err != nil {
		return err
	}
	if err := a.Registry.Add(rec); err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "✅ Environment %s registered (%s)\n", rec.Name, rec.Location)

	if result := a.Validator.Validate(rec); !result.IsValid {
		fmt.Fprintf(a.Out, "⚠️  %d configuration file(s) missing in %s\n", len(result.Errors), rec.InstallDir())
		fmt.Fprintln(a.Out, "💡 Install the configuration files before starting the environment")
	}
	return nil
}

// Uninstall removes the containers, images and volumes of an environment and unregisters it
func (a *App) Uninstall(ctx context.Context, name string) error {
	env, err := a.resolve(name)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.Out, "🗑️  Uninstalling %s...\n", env.Record.Name)
	if err := a.runOperation(ctx, env, compose.OpUninstall, compose.Options{}); err != nil {
		return err
	}

	a.Registry.Remove(env.Record)
	fmt.Fprintf(a.Out, "✅ Environment %s uninstalled\n", env.Record.Name)
	return nil
}

// absolute resolves path against the working directory; empty means the working directory itself
func (a *App) absolute(path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	wd, err := a.workingDir()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}
	return filepath.Join(wd, path), nil
}
