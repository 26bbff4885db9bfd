package config

import "path/filepath"

// SyncMode controls when Mutagen synchronization sessions are used
type SyncMode string

const (
	SyncAuto   SyncMode = "auto"
	SyncAlways SyncMode = "always"
	SyncNever  SyncMode = "never"
)

// RegistryFile is the name of the registry database inside the data directory
const RegistryFile = "environments.db"

// Config represents the devenv CLI configuration
type Config struct {
	DataDir string       `yaml:"dataDir" validate:"required"`
	Compose []string     `yaml:"compose" validate:"required,min=1,dive,required"`
	Sync    SyncConfig   `yaml:"sync"`
	Docker  DockerConfig `yaml:"docker,omitempty"`

	// path is the file the configuration was read from, if any
	path string
}

// SyncConfig configures file synchronization sessions
type SyncConfig struct {
	Enabled SyncMode `yaml:"enabled" validate:"required,sync_mode"`
	Binary  string   `yaml:"binary" validate:"required"`
	Owner   string   `yaml:"owner" validate:"required,ownership"`
	Group   string   `yaml:"group" validate:"required,ownership"`
	Target  string   `yaml:"target" validate:"required,startswith=/,endswith=/"`
}

// DockerConfig configures access to the Docker daemon
type DockerConfig struct {
	// Host overrides DOCKER_HOST when set
	Host string `yaml:"host,omitempty" validate:"omitempty,docker_host"`
}

// Default returns the built-in configuration
func Default(homeDir string) *Config {
	return &Config{
		DataDir: filepath.Join(homeDir, ".devenv"),
		Compose: []string{"docker", "compose"},
		Sync: SyncConfig{
			Enabled: SyncAuto,
			Binary:  "mutagen",
			Owner:   "id:1000",
			Group:   "id:1000",
			Target:  "/var/www/html/",
		},
	}
}

// RegistryPath returns the location of the registry database
func (c *Config) RegistryPath() string {
	return filepath.Join(c.DataDir, RegistryFile)
}

// Path returns the file the configuration was loaded from, or "" when none was found
func (c *Config) Path() string {
	return c.path
}

// EnabledOn reports whether synchronization sessions are used on goos
func (s SyncConfig) EnabledOn(goos string) bool {
	switch s.Enabled {
	case SyncAlways:
		return true
	case SyncNever:
		return false
	default:
		return goos == "darwin"
	}
}
