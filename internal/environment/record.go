package environment

import (
	"fmt"
	"path/filepath"
	"strings"
)

// InstallSubdir is where the configuration of an environment lives, relative to its location.
const InstallSubdir = "var/docker"

// ProjectSeparator joins the type and the name in the composite project identifier.
const ProjectSeparator = "_"

// Record represents one managed environment
type Record struct {
	Name            string `validate:"required,env_name"`
	Location        string `validate:"required,abs_path"`
	Type            Type   `validate:"required,env_type"`
	Active          bool
	PHPVersion      string `validate:"omitempty,php_version"`
	DatabaseVersion string `validate:"omitempty,printascii"`
	Domains         string `validate:"omitempty,printascii"`
}

// ProjectName returns the composite project identifier (<type>_<name>)
func (r Record) ProjectName() string {
	return string(r.Type) + ProjectSeparator + r.Name
}

// InstallDir returns the directory holding the generated configuration files
func (r Record) InstallDir() string {
	return filepath.Join(r.Location, InstallSubdir)
}

// ComposeFile returns the path to the generated Docker Compose file
func (r Record) ComposeFile() string {
	return filepath.Join(r.InstallDir(), "docker-compose.yml")
}

// ParseProjectName splits a composite project identifier back into its type and name.
func ParseProjectName(project string) (Type, string, error) {
	prefix, name, found := strings.Cut(project, ProjectSeparator)
	if !found || name == "" {
		return "", "", fmt.Errorf("invalid project name %q", project)
	}
	t, err := ParseType(prefix)
	if err != nil {
		return "", "", fmt.Errorf("invalid project name %q: %w", project, err)
	}
	return t, name, nil
}
