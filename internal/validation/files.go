// Package validation checks that an environment's generated configuration is
// present on disk before any orchestrated command touches it.
package validation

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/nauticalab/devenv-compose/internal/environment"
)

// FileSystem answers existence questions about paths
type FileSystem interface {
	Exists(path string) (bool, error)
}

// OSFileSystem checks paths on the local filesystem
type OSFileSystem struct{}

// Exists reports whether path exists
func (OSFileSystem) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// FileValidator checks the configuration files expected for an environment type
type FileValidator struct {
	fs FileSystem
}

// ValidationResult contains all validation results
type ValidationResult struct {
	// Errors is a list of missing or unreadable configuration files
	Errors []ValidationError
	// IsValid indicates if the validation passed (no errors)
	IsValid bool
}

// ValidationError represents a single validation failure
type ValidationError struct {
	// Type is the category of error ("missing_file" or "unreadable")
	Type string
	// File is the expected file name as listed for the environment type
	File string
	// FilePath is the path that was checked on disk
	FilePath string
	// Message is a human-readable error description
	Message string
}

// NewFileValidator creates a validator backed by the given filesystem.
// A nil filesystem means the local one.
func NewFileValidator(fsys FileSystem) *FileValidator {
	if fsys == nil {
		fsys = OSFileSystem{}
	}
	return &FileValidator{fs: fsys}
}

// Validate checks every expected configuration file of rec and collects all violations.
// Files carrying the customizable prefix are checked under their de-prefixed name.
func (v *FileValidator) Validate(rec environment.Record) *ValidationResult {
	result := &ValidationResult{
		Errors:  []ValidationError{},
		IsValid: true,
	}

	installDir := rec.InstallDir()
	for _, file := range rec.Type.Files() {
		target := strings.TrimPrefix(file, environment.CustomPrefix)
		path := filepath.Join(installDir, target)

		exists, err := v.fs.Exists(path)
		switch {
		case err != nil:
			result.Errors = append(result.Errors, ValidationError{
				Type:     "unreadable",
				File:     file,
				FilePath: path,
				Message:  fmt.Sprintf("Unable to check %s: %v", path, err),
			})
		case !exists:
			result.Errors = append(result.Errors, ValidationError{
				Type:     "missing_file",
				File:     file,
				FilePath: path,
				Message:  fmt.Sprintf("Configuration file %s is missing", path),
			})
		default:
			continue
		}
		result.IsValid = false
	}

	return result
}

// Valid reports whether every expected configuration file of rec is present.
func (v *FileValidator) Valid(rec environment.Record) bool {
	return v.Validate(rec).IsValid
}

// MissingFiles returns the paths that failed validation.
func (r *ValidationResult) MissingFiles() []string {
	paths := make([]string, 0, len(r.Errors))
	for _, err := range r.Errors {
		paths = append(paths, err.FilePath)
	}
	return paths
}
