package cli

import (
	"context"
	"fmt"
	"strings"
)

// check is one line of the doctor report
type check struct {
	name   string
	ok     bool
	detail string
}

// Doctor checks that the tools devenv drives are installed and reachable
func (a *App) Doctor(ctx context.Context) error {
	fmt.Fprintln(a.Out, "🩺 Checking the development environment toolchain...")

	checks := []check{
		a.checkBinary(ctx, "Docker Compose", append(append([]string{}, a.Config.Compose...), "version", "--short")),
		a.checkDaemon(ctx),
	}
	if a.syncEnabled() {
		checks = append(checks, a.checkBinary(ctx, "Mutagen", []string{a.Config.Sync.Binary, "version"}))
	}

	failed := 0
	for _, c := range checks {
		if c.ok {
			fmt.Fprintf(a.Out, "✅ %s: %s\n", c.name, c.detail)
			continue
		}
		failed++
		fmt.Fprintf(a.Out, "❌ %s: %s\n", c.name, c.detail)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d checks failed", failed, len(checks))
	}
	fmt.Fprintln(a.Out, "✅ Everything looks good!")
	return nil
}

func (a *App) checkBinary(ctx context.Context, name string, args []string) check {
	result, err := a.Runner.RunBackground(ctx, args, nil)
	if err != nil {
		return check{name: name, detail: err.Error()}
	}
	if !result.Success {
		return check{name: name, detail: fmt.Sprintf("%s exited with code %d", strings.Join(args, " "), result.ExitCode)}
	}
	return check{name: name, ok: true, detail: valueOr(strings.TrimSpace(result.Output), "installed")}
}

func (a *App) checkDaemon(ctx context.Context) check {
	const name = "Docker daemon"

	daemon, err := a.daemon()
	if err != nil {
		return check{name: name, detail: err.Error()}
	}
	defer daemon.Close()

	info, err := daemon.Ping(ctx)
	if err != nil {
		return check{name: name, detail: err.Error()}
	}
	return check{name: name, ok: true, detail: fmt.Sprintf("%s (API %s, %s/%s)", info.Version, info.APIVersion, info.OS, info.Arch)}
}
