package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variables overriding the configuration file
const (
	EnvDataDir    = "DEVENV_DATA_DIR"
	EnvSync       = "DEVENV_SYNC"
	EnvDockerHost = "DEVENV_DOCKER_HOST"
)

// DefaultPath returns ~/.devenv/config.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, ".devenv", "config.yaml"), nil
}

// Load reads the configuration in order of precedence:
// 1. Environment variables
// 2. Config file at path (DefaultPath when empty; a missing file is not an error)
// 3. Built-in defaults
func Load(path string) (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to locate home directory: %w", err)
	}
	if path == "" {
		if path, err = DefaultPath(); err != nil {
			return nil, err
		}
	}

	cfg := Default(home)
	if err := cfg.readFile(path); err != nil {
		return nil, err
	}
	cfg.applyEnv(os.Getenv)
	cfg.DataDir = expandHome(cfg.DataDir, home)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// readFile overlays the YAML file at path on top of cfg
func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	c.path = path
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := getenv(EnvSync); v != "" {
		c.Sync.Enabled = SyncMode(strings.ToLower(strings.TrimSpace(v)))
	}
	if v := getenv(EnvDockerHost); v != "" {
		c.Docker.Host = v
	}
}

// expandHome resolves a leading ~ to the home directory
func expandHome(path, home string) string {
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return path
}
