package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at a temp dir and clears the override variables
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvSync, "")
	t.Setenv(EnvDockerHost, "")
	return home
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	home := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".devenv"), cfg.DataDir)
	assert.Equal(t, filepath.Join(home, ".devenv", "environments.db"), cfg.RegistryPath())
	assert.Equal(t, []string{"docker", "compose"}, cfg.Compose)
	assert.Equal(t, SyncAuto, cfg.Sync.Enabled)
	assert.Equal(t, "mutagen", cfg.Sync.Binary)
	assert.Equal(t, "id:1000", cfg.Sync.Owner)
	assert.Equal(t, "/var/www/html/", cfg.Sync.Target)
	assert.Empty(t, cfg.Docker.Host)
	assert.Empty(t, cfg.Path(), "no file was read")
}

func TestLoad_DefaultPath(t *testing.T) {
	home := isolate(t)
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".devenv", "config.yaml"), path)

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("sync:\n  enabled: never\n"), 0644))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, path, cfg.Path())
	assert.Equal(t, SyncNever, cfg.Sync.Enabled)
}

func TestLoad_File(t *testing.T) {
	home := isolate(t)
	path := writeConfig(t, `
dataDir: ~/work/devenv
compose: [docker-compose]
sync:
  enabled: always
  owner: www-data
docker:
  host: tcp://127.0.0.1:2375
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.Path())
	assert.Equal(t, filepath.Join(home, "work", "devenv"), cfg.DataDir)
	assert.Equal(t, []string{"docker-compose"}, cfg.Compose)
	assert.Equal(t, SyncAlways, cfg.Sync.Enabled)
	assert.Equal(t, "www-data", cfg.Sync.Owner)
	assert.Equal(t, "id:1000", cfg.Sync.Group, "unset fields keep their default")
	assert.Equal(t, "tcp://127.0.0.1:2375", cfg.Docker.Host)
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	isolate(t)
	path := writeConfig(t, "dataDir: /from/file\nsync:\n  enabled: always\n")
	t.Setenv(EnvDataDir, "/from/env")
	t.Setenv(EnvSync, " Never ")
	t.Setenv(EnvDockerHost, "unix:///run/user/1000/docker.sock")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.DataDir)
	assert.Equal(t, SyncNever, cfg.Sync.Enabled)
	assert.Equal(t, "unix:///run/user/1000/docker.sock", cfg.Docker.Host)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad yaml", "sync: [", "failed to parse config file"},
		{"bad sync mode", "sync:\n  enabled: sometimes\n", "must be one of auto, always, never"},
		{"bad owner", "sync:\n  owner: 'id:abc'\n", "Config.Sync.Owner"},
		{"relative target", "sync:\n  target: var/www/\n", "absolute directory path"},
		{"empty compose", "compose: []\n", "Config.Compose"},
		{"bad docker host", "docker:\n  host: 'ftp://example'\n", "Docker host URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSyncConfig_EnabledOn(t *testing.T) {
	tests := []struct {
		mode SyncMode
		goos string
		want bool
	}{
		{SyncAuto, "darwin", true},
		{SyncAuto, "linux", false},
		{SyncAlways, "linux", true},
		{SyncNever, "darwin", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode)+"/"+tt.goos, func(t *testing.T) {
			assert.Equal(t, tt.want, SyncConfig{Enabled: tt.mode}.EnabledOn(tt.goos))
		})
	}
}

func TestExpandHome(t *testing.T) {
	assert.Equal(t, "/home/dev", expandHome("~", "/home/dev"))
	assert.Equal(t, "/home/dev/data", expandHome("~/data", "/home/dev"))
	assert.Equal(t, "/srv/data", expandHome("/srv/data", "/home/dev"))
	assert.Equal(t, "~other/data", expandHome("~other/data", "/home/dev"))
}
