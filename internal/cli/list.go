package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/nauticalab/devenv-compose/internal/git"
	"github.com/nauticalab/devenv-compose/internal/resolver"
)

// List prints every registered environment
func (a *App) List(ctx context.Context) error {
	records := a.Registry.All()
	if len(records) == 0 {
		fmt.Fprintln(a.Out, "No environments registered")
		fmt.Fprintln(a.Out, "💡 Use 'devenv register <name> [location] --type <type>' to add one")
		return nil
	}

	running := a.runningProjects(ctx)

	w := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTYPE\tLOCATION\tACTIVE\tRUNNING")
	for _, rec := range records {
		active := ""
		if rec.Active {
			active = "*"
		}
		state := "-"
		if running != nil {
			state = fmt.Sprintf("%d", running[rec.ProjectName()])
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", rec.Name, rec.Type, rec.Location, active, state)
	}
	return w.Flush()
}

// runningProjects asks the daemon how many containers run per project; nil when it cannot be reached
func (a *App) runningProjects(ctx context.Context) map[string]int {
	daemon, err := a.daemon()
	if err != nil {
		a.Logger.Debug("docker client unavailable", "error", err)
		return nil
	}
	defer daemon.Close()

	projects, err := daemon.RunningProjects(ctx)
	if err != nil {
		a.Logger.Debug("failed to list running containers", "error", err)
		return nil
	}
	return projects
}

// Details prints everything known about an environment, including its configuration state
func (a *App) Details(ctx context.Context, name string) error {
	env, err := a.resolver().Locate(name)
	if err != nil {
		return err
	}
	rec := env.Record

	fmt.Fprintf(a.Out, "📋 Environment %s\n", rec.Name)
	w := tabwriter.NewWriter(a.Out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "  Type:\t%s\n", rec.Type)
	fmt.Fprintf(w, "  Location:\t%s\n", rec.Location)
	fmt.Fprintf(w, "  Active:\t%t\n", rec.Active)
	fmt.Fprintf(w, "  Selected by:\t%s\n", env.Source)
	fmt.Fprintf(w, "  PHP version:\t%s\n", valueOr(rec.PHPVersion, "default"))
	fmt.Fprintf(w, "  Database version:\t%s\n", valueOr(rec.DatabaseVersion, "default"))
	fmt.Fprintf(w, "  Domains:\t%s\n", valueOr(rec.Domains, "-"))
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(a.Out, "\n🔧 Compose environment")
	vars := a.Builder.Environment(rec)
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintf(a.Out, "  %s=%s\n", key, vars[key])
	}

	if result := a.Validator.Validate(rec); result.IsValid {
		fmt.Fprintln(a.Out, "\n✅ Configuration files are present")
	} else {
		fmt.Fprintf(a.Out, "\n❌ %d configuration file(s) missing\n", len(result.Errors))
	}

	a.printRepository(env)
	return nil
}

func (a *App) printRepository(env *resolver.Context) {
	info, err := a.inspectRepo(env.Record.Location)
	if errors.Is(err, git.ErrNotRepository) {
		return
	}
	if err != nil {
		a.Logger.Warn("failed to inspect repository", "location", env.Record.Location, "error", err)
		return
	}

	fmt.Fprintln(a.Out, "\n🌿 Repository")
	fmt.Fprintf(a.Out, "  Branch: %s\n", valueOr(info.Branch, "(detached)"))
	fmt.Fprintf(a.Out, "  Commit: %s\n", valueOr(info.ShortHash(), "(none)"))
	if len(info.Tags) > 0 {
		fmt.Fprintf(a.Out, "  Tags:   %s\n", strings.Join(info.Tags, ", "))
	}
	if info.Remote != "" {
		fmt.Fprintf(a.Out, "  Remote: %s\n", info.Remote)
	}
	if info.IsDirty {
		fmt.Fprintln(a.Out, "  ⚠️  Uncommitted changes")
	}
}

// printDomains lists the URLs of an environment; domains are separated by commas or spaces
func printDomains(w io.Writer, domains string) {
	for _, domain := range strings.FieldsFunc(domains, func(r rune) bool { return r == ',' || r == ' ' }) {
		fmt.Fprintf(w, "🌐 https://%s\n", domain)
	}
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
