package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Package-level validator used by Validate.
var validate *validator.Validate

// ownershipRe matches the Mutagen ownership specifications devenv accepts:
// a numeric "id:<n>" or a plain user or group name.
var ownershipRe = regexp.MustCompile(`^(?:id:[0-9]+|[a-z_][a-z0-9_-]*)$`)

// dockerHostSchemes lists the transports understood by the Docker client
var dockerHostSchemes = map[string]bool{"unix": true, "tcp": true, "npipe": true, "ssh": true, "http": true, "https": true}

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	if err := validate.RegisterValidation("sync_mode", validateSyncMode); err != nil {
		panic(fmt.Errorf("register validator sync_mode: %w", err))
	}
	if err := validate.RegisterValidation("ownership", validateOwnership); err != nil {
		panic(fmt.Errorf("register validator ownership: %w", err))
	}
	if err := validate.RegisterValidation("docker_host", validateDockerHost); err != nil {
		panic(fmt.Errorf("register validator docker_host: %w", err))
	}
}

func validateSyncMode(fl validator.FieldLevel) bool {
	switch SyncMode(fl.Field().String()) {
	case SyncAuto, SyncAlways, SyncNever:
		return true
	}
	return false
}

func validateOwnership(fl validator.FieldLevel) bool {
	return ownershipRe.MatchString(fl.Field().String())
}

func validateDockerHost(fl validator.FieldLevel) bool {
	u, err := url.Parse(fl.Field().String())
	if err != nil {
		return false
	}
	return dockerHostSchemes[u.Scheme]
}

// Validate checks the configuration and reports every problem at once
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		if _, ok := err.(validator.ValidationErrors); ok {
			return formatValidationError(err)
		}
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}

// formatValidationError converts validator errors to user-friendly messages
func formatValidationError(err error) error {
	var errorMessages []string

	validationErrors := err.(validator.ValidationErrors)
	for _, fieldError := range validationErrors {
		errorMessages = append(errorMessages, formatFieldError(fieldError))
	}

	return fmt.Errorf("configuration validation failed:\n  - %s",
		strings.Join(errorMessages, "\n  - "))
}

// formatFieldError creates user-friendly error messages for field validation failures
func formatFieldError(fieldError validator.FieldError) string {
	fieldName := fieldError.Namespace()
	value := fieldError.Value()

	switch fieldError.Tag() {
	case "required":
		return fmt.Sprintf("'%s' is required", fieldName)
	case "min":
		return fmt.Sprintf("'%s' must have at least %s entries", fieldName, fieldError.Param())
	case "startswith", "endswith":
		return fmt.Sprintf("'%s' must be an absolute directory path ending with '/', got '%v'", fieldName, value)
	case "sync_mode":
		return fmt.Sprintf("'%s' must be one of auto, always, never, got '%v'", fieldName, value)
	case "ownership":
		return fmt.Sprintf("'%s' must be 'id:<number>' or a name, got '%v'", fieldName, value)
	case "docker_host":
		return fmt.Sprintf("'%s' must be a Docker host URL such as unix:///var/run/docker.sock, got '%v'", fieldName, value)
	default:
		return fmt.Sprintf("'%s' failed validation '%s', got '%v'", fieldName, fieldError.Tag(), value)
	}
}
