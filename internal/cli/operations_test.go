package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nauticalab/devenv-compose/internal/compose"
	"github.com/nauticalab/devenv-compose/internal/config"
	"github.com/nauticalab/devenv-compose/internal/docker"
	"github.com/nauticalab/devenv-compose/internal/environment"
	"github.com/nauticalab/devenv-compose/internal/git"
	"github.com/nauticalab/devenv-compose/internal/process"
	"github.com/nauticalab/devenv-compose/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastArgs(t *testing.T, call testutil.Call, n int) []string {
	t.Helper()
	require.GreaterOrEqual(t, len(call.Args), n)
	return call.Args[len(call.Args)-n:]
}

func TestApp_StartActivates(t *testing.T) {
	rec := installedRecord(t, "demo", environment.TypeSymfony)
	app := newTestApp(t, rec)

	require.NoError(t, app.Start(context.Background(), "demo"))

	require.Len(t, app.runner.Calls, 1, "no synchronization or SSH fix on Linux")
	call := app.runner.Calls[0]
	assert.Equal(t, testutil.Foreground, call.Kind)
	assert.Equal(t, []string{"up", "--build", "--detach", "--remove-orphans"}, lastArgs(t, call, 4))
	assert.Equal(t, "symfony_demo", call.Env[compose.EnvComposeProjectName])
	assert.Equal(t, rec.Location, call.Env[compose.EnvProjectLocation])

	active, ok, err := app.Registry.ActiveRecord()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "demo", active.Name)
	assert.Contains(t, app.out.String(), "Environment demo started")
}

func TestApp_StartOnMacOS(t *testing.T) {
	rec := installedRecord(t, "demo", environment.TypeSymfony)
	rec.Domains = "demo.localhost, api.demo.localhost"
	app := newTestApp(t, rec)
	app.goos = "darwin"

	require.NoError(t, app.Start(context.Background(), "demo"))

	lines := app.runner.Lines()
	require.Len(t, lines, 4)
	assert.True(t, strings.HasSuffix(lines[0], "up --build --detach --remove-orphans"))
	assert.Contains(t, lines[1], "exec -T php bash -c chown www-data:www-data /run/host-services/ssh-auth.sock")
	assert.Equal(t, "mutagen sync list --label-selector=name=symfony_demo", lines[2])
	assert.Contains(t, lines[3], "mutagen sync create")
	assert.Contains(t, app.out.String(), "https://api.demo.localhost")
}

func TestApp_StartSelectsByWorkingDirectory(t *testing.T) {
	rec := installedRecord(t, "demo", environment.TypeDrupal)
	app := newTestApp(t, rec)
	app.workingDir = func() (string, error) { return rec.Location, nil }

	require.NoError(t, app.Start(context.Background(), ""))
	assert.Equal(t, "drupal_demo", app.runner.Calls[0].Env[compose.EnvComposeProjectName])
}

func TestApp_StartFailureKeepsRegistry(t *testing.T) {
	rec := installedRecord(t, "demo", environment.TypeSymfony)
	app := newTestApp(t, rec)
	app.runner.Handler = func(testutil.Call) (*process.Result, error) {
		return &process.Result{Success: false, ExitCode: 2}, nil
	}

	err := app.Start(context.Background(), "demo")
	require.ErrorIs(t, err, ErrOperationFailed)

	var opErr *OperationError
	require.True(t, errors.As(err, &opErr))
	assert.Equal(t, "start", opErr.Operation)
	assert.Equal(t, 2, opErr.ExitCode)

	_, ok, _ := app.Registry.ActiveRecord()
	assert.False(t, ok)
}

func TestApp_StopPausesSynchronization(t *testing.T) {
	rec := installedRecord(t, "demo", environment.TypeSymfony)
	rec.Active = true
	app := newTestApp(t, rec)
	app.Config.Sync.Enabled = config.SyncAlways

	require.NoError(t, app.Stop(context.Background(), ""))

	lines := app.runner.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "mutagen sync pause --label-selector=name=symfony_demo", lines[0])
	assert.True(t, strings.HasSuffix(lines[1], " stop"))

	_, ok, _ := app.Registry.ActiveRecord()
	assert.False(t, ok)
}

func TestApp_StopSyncFailure(t *testing.T) {
	rec := installedRecord(t, "demo", environment.TypeSymfony)
	app := newTestApp(t, rec)
	app.Config.Sync.Enabled = config.SyncAlways
	app.runner.Handler = func(call testutil.Call) (*process.Result, error) {
		return &process.Result{Success: !strings.HasPrefix(call.Line(), "mutagen")}, nil
	}

	err := app.Stop(context.Background(), "demo")
	assert.ErrorIs(t, err, ErrOperationFailed)
	assert.Len(t, app.runner.Calls, 1, "containers are not stopped when the pause fails")
}

func TestApp_Prepare(t *testing.T) {
	rec := installedRecord(t, "demo", environment.TypeSylius)
	app := newTestApp(t, rec)

	require.NoError(t, app.Prepare(context.Background(), "demo"))
	require.Len(t, app.runner.Calls, 2)
	assert.Equal(t, []string{"pull"}, lastArgs(t, app.runner.Calls[0], 1))
	assert.Equal(t, []string{"build", "--pull", "--parallel"}, lastArgs(t, app.runner.Calls[1], 3))
}

func TestApp_UnresolvedEnvironment(t *testing.T) {
	configured := installedRecord(t, "demo", environment.TypeSymfony)
	unconfigured := environment.Record{Name: "bare", Location: t.TempDir(), Type: environment.TypeSymfony}
	app := newTestApp(t, configured, unconfigured)
	ctx := context.Background()

	assert.ErrorIs(t, app.Restart(ctx, ""), environment.ErrNoEnvironmentSelected)
	assert.ErrorIs(t, app.Status(ctx, "missing"), environment.ErrEnvironmentNotFound)
	assert.ErrorIs(t, app.Data(ctx, "bare"), environment.ErrInvalidConfiguration)
	assert.Empty(t, app.runner.Calls)
}

func TestApp_Logs(t *testing.T) {
	rec := installedRecord(t, "demo", environment.TypeSymfony)
	app := newTestApp(t, rec)
	tail := 42

	require.NoError(t, app.Logs(context.Background(), "demo", "", nil))
	require.NoError(t, app.Logs(context.Background(), "demo", "php", &tail))

	assert.Equal(t, []string{"logs", "--follow", "--tail=0"}, lastArgs(t, app.runner.Calls[0], 3))
	assert.Equal(t, []string{"logs", "--follow", "--tail=42", "php"}, lastArgs(t, app.runner.Calls[1], 4))
}

func TestApp_Terminal(t *testing.T) {
	rec := installedRecord(t, "demo", environment.TypeSymfony)
	app := newTestApp(t, rec)
	ctx := context.Background()

	assert.ErrorIs(t, app.Terminal(ctx, "demo", "", ""), compose.ErrMissingServiceArgument)

	require.NoError(t, app.Terminal(ctx, "demo", "php", "www-data"))
	assert.Equal(t, []string{"exec", "-u", "www-data", "php", "sh", "-l"}, lastArgs(t, app.runner.Calls[0], 6))

	app.interactive = func() bool { return false }
	assert.ErrorIs(t, app.Terminal(ctx, "demo", "php", ""), ErrNotInteractive)
	assert.Len(t, app.runner.Calls, 1)
}

func TestApp_Data(t *testing.T) {
	rec := installedRecord(t, "demo", environment.TypeSymfony)
	app := newTestApp(t, rec)

	require.NoError(t, app.Data(context.Background(), "demo"))
	require.Len(t, app.runner.Calls, 1)
	assert.Equal(t, testutil.ForegroundShell, app.runner.Calls[0].Kind)
	assert.True(t, strings.HasSuffix(app.runner.Calls[0].CommandLine, "ps --quiet | xargs docker stats"))
}

func TestApp_BackupAndRestore(t *testing.T) {
	rec := installedRecord(t, "demo", environment.TypeSymfony)
	app := newTestApp(t, rec)
	wd, _ := app.workingDir()
	ctx := context.Background()

	require.NoError(t, app.Backup(ctx, "demo", "dump.sql"))
	assert.True(t, strings.HasSuffix(app.runner.Calls[0].CommandLine, " > "+filepath.Join(wd, "dump.sql")))

	// The dump must exist before it is restored
	err := app.Restore(ctx, "demo", "dump.sql")
	assert.ErrorContains(t, err, "does not exist")
	assert.Len(t, app.runner.Calls, 1)

	require.NoError(t, os.WriteFile(filepath.Join(wd, "dump.sql"), []byte("-- dump"), 0644))
	require.NoError(t, app.Restore(ctx, "demo", "dump.sql"))
	assert.True(t, strings.HasSuffix(app.runner.Calls[1].CommandLine, " < "+filepath.Join(wd, "dump.sql")))

	assert.ErrorIs(t, app.Backup(ctx, "demo", ""), compose.ErrMissingPathArgument)
}

func TestApp_SyncMonitor(t *testing.T) {
	rec := installedRecord(t, "demo", environment.TypeSymfony)
	app := newTestApp(t, rec)

	assert.ErrorIs(t, app.SyncMonitor(context.Background(), "demo"), ErrSyncDisabled)

	app.goos = "darwin"
	require.NoError(t, app.SyncMonitor(context.Background(), "demo"))
	assert.Equal(t, []string{"mutagen sync monitor --label-selector=name=symfony_demo"}, app.runner.Lines())
}

func TestApp_Register(t *testing.T) {
	app := newTestApp(t)
	wd, _ := app.workingDir()

	require.NoError(t, app.Register(RegisterOptions{Name: "shop", Location: "shop", Type: "magento2"}))
	rec, ok := app.Registry.FindByName("shop")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(wd, "shop"), rec.Location)
	assert.Contains(t, app.out.String(), "configuration file(s) missing")

	require.NoError(t, app.Register(RegisterOptions{Name: "here", Type: "symfony"}))
	rec, _ = app.Registry.FindByName("here")
	assert.Equal(t, wd, rec.Location)

	err := app.Register(RegisterOptions{Name: "shop", Location: "/srv/other", Type: "symfony"})
	assert.ErrorIs(t, err, environment.ErrDuplicateEnvironment)

	err = app.Register(RegisterOptions{Name: "other", Location: "/srv/other", Type: "wordpress"})
	assert.ErrorIs(t, err, environment.ErrUnknownType)

	err = app.Register(RegisterOptions{Name: "Bad_Name", Location: "/srv/bad", Type: "symfony"})
	assert.Error(t, err)
	assert.Equal(t, 2, app.Registry.Len())
}

func TestApp_Uninstall(t *testing.T) {
	rec := installedRecord(t, "demo", environment.TypeSymfony)
	other := installedRecord(t, "other", environment.TypeDrupal)
	app := newTestApp(t, rec, other)

	require.NoError(t, app.Uninstall(context.Background(), "demo"))
	assert.Equal(t, []string{"down", "--rmi", "local", "--volumes", "--remove-orphans"}, lastArgs(t, app.runner.Calls[0], 5))

	_, ok := app.Registry.FindByName("demo")
	assert.False(t, ok)
	assert.Equal(t, 1, app.Registry.Len())

	require.NoError(t, app.Close())
	require.Len(t, app.store.saved, 1)
	assert.Equal(t, "other", app.store.saved[0].Name)
}

func TestApp_List(t *testing.T) {
	app := newTestApp(t)
	require.NoError(t, app.List(context.Background()))
	assert.Contains(t, app.out.String(), "No environments registered")

	app = newTestApp(t,
		environment.Record{Name: "demo", Location: "/srv/demo", Type: environment.TypeSymfony, Active: true},
		environment.Record{Name: "shop", Location: "/srv/shop", Type: environment.TypeMagento2},
	)
	app.daemon = func() (Daemon, error) {
		return &fakeDaemon{projects: map[string]int{"symfony_demo": 4}}, nil
	}

	require.NoError(t, app.List(context.Background()))
	lines := strings.Split(strings.TrimSpace(app.out.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, []string{"NAME", "TYPE", "LOCATION", "ACTIVE", "RUNNING"}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"demo", "symfony", "/srv/demo", "*", "4"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"shop", "magento2", "/srv/shop", "0"}, strings.Fields(lines[2]))
}

func TestApp_ListWithoutDaemon(t *testing.T) {
	app := newTestApp(t, environment.Record{Name: "demo", Location: "/srv/demo", Type: environment.TypeSymfony})

	require.NoError(t, app.List(context.Background()))
	lines := strings.Split(strings.TrimSpace(app.out.String()), "\n")
	assert.Equal(t, []string{"demo", "symfony", "/srv/demo", "-"}, strings.Fields(lines[1]))
}

func TestApp_Details(t *testing.T) {
	rec := environment.Record{Name: "demo", Location: "/srv/demo", Type: environment.TypeMagento2, PHPVersion: "8.3"}
	app := newTestApp(t, rec)
	app.inspectRepo = func(location string) (*git.Info, error) {
		assert.Equal(t, "/srv/demo", location)
		return &git.Info{Branch: "main", CommitHash: "0123456789abcdef", IsDirty: true}, nil
	}

	require.NoError(t, app.Details(context.Background(), "demo"), "details work for unconfigured environments")
	out := app.out.String()
	assert.Contains(t, out, "DOCKER_PHP_IMAGE=8.3-magento")
	assert.Contains(t, out, "COMPOSE_PROJECT_NAME=magento2_demo")
	assert.Contains(t, out, "configuration file(s) missing")
	assert.Contains(t, out, "Branch: main")
	assert.Contains(t, out, "Commit: 0123456")
	assert.Contains(t, out, "Uncommitted changes")
}

func TestApp_DetailsOutsideRepository(t *testing.T) {
	app := newTestApp(t, environment.Record{Name: "demo", Location: "/srv/demo", Type: environment.TypeSymfony})
	app.inspectRepo = func(string) (*git.Info, error) { return nil, git.ErrNotRepository }

	require.NoError(t, app.Details(context.Background(), "demo"))
	assert.NotContains(t, app.out.String(), "Repository")
}

func TestApp_Validate(t *testing.T) {
	good := installedRecord(t, "good", environment.TypeOroCommerce)
	bad := environment.Record{Name: "bad", Location: t.TempDir(), Type: environment.TypeSymfony}
	app := newTestApp(t, good, bad)

	require.NoError(t, app.Validate("good", true))
	assert.Contains(t, app.out.String(), "Configuration for good is valid!")

	err := app.Validate("bad", false)
	require.ErrorIs(t, err, environment.ErrInvalidConfiguration)
	var cfgErr *environment.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Len(t, cfgErr.Missing, len(environment.TypeSymfony.Files()))
	assert.Contains(t, app.out.String(), "Missing File")
}

func TestApp_Doctor(t *testing.T) {
	app := newTestApp(t)
	app.goos = "darwin"
	app.runner.Handler = func(call testutil.Call) (*process.Result, error) {
		if call.Args[0] == "mutagen" {
			return nil, errors.New("executable file not found in $PATH")
		}
		return &process.Result{Success: true, Output: "2.29.7\n"}, nil
	}
	app.daemon = func() (Daemon, error) {
		return &fakeDaemon{info: &docker.ServerInfo{Version: "27.3.1", APIVersion: "1.47", OS: "linux", Arch: "arm64"}}, nil
	}

	err := app.Doctor(context.Background())
	assert.ErrorContains(t, err, "1 of 3 checks failed")
	out := app.out.String()
	assert.Contains(t, out, "✅ Docker Compose: 2.29.7")
	assert.Contains(t, out, "✅ Docker daemon: 27.3.1 (API 1.47, linux/arm64)")
	assert.Contains(t, out, "❌ Mutagen")
	assert.Equal(t, "docker compose version --short", app.runner.Calls[0].Line())

	app = newTestApp(t)
	app.daemon = func() (Daemon, error) {
		return &fakeDaemon{info: &docker.ServerInfo{Version: "27.3.1"}}, nil
	}
	require.NoError(t, app.Doctor(context.Background()))
	assert.Len(t, app.runner.Calls, 1, "mutagen is not checked when synchronization is off")
}
