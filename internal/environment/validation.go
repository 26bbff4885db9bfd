package environment

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Package-level validator used by ValidateRecord.
var validate *validator.Validate

// nameRe keeps names usable inside Compose project names and Mutagen labels.
// Names never contain the project separator, so project names round-trip.
var nameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// phpVersionRe matches "<major>.<minor>" PHP versions such as "8.2".
var phpVersionRe = regexp.MustCompile(`^[0-9]+\.[0-9]+$`)

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	if err := validate.RegisterValidation("env_name", validateName); err != nil {
		panic(fmt.Errorf("register validator env_name: %w", err))
	}
	if err := validate.RegisterValidation("env_type", validateType); err != nil {
		panic(fmt.Errorf("register validator env_type: %w", err))
	}
	if err := validate.RegisterValidation("abs_path", validateAbsPath); err != nil {
		panic(fmt.Errorf("register validator abs_path: %w", err))
	}
	if err := validate.RegisterValidation("php_version", validatePHPVersion); err != nil {
		panic(fmt.Errorf("register validator php_version: %w", err))
	}
}

func validateName(fl validator.FieldLevel) bool {
	return nameRe.MatchString(fl.Field().String())
}

func validateType(fl validator.FieldLevel) bool {
	return Type(fl.Field().String()).Valid()
}

func validateAbsPath(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	return filepath.IsAbs(path) && filepath.Clean(path) == path
}

func validatePHPVersion(fl validator.FieldLevel) bool {
	return phpVersionRe.MatchString(fl.Field().String())
}

// ValidateRecord runs tag-based validation on a record before it enters the registry.
func ValidateRecord(rec *Record) error {
	if err := validate.Struct(rec); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError renders go-playground/validator errors as concise, user-facing text.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	var messages []string
	for _, fieldError := range validationErrors {
		messages = append(messages, formatFieldError(fieldError))
	}

	return fmt.Errorf("invalid environment:\n  - %s", strings.Join(messages, "\n  - "))
}

func formatFieldError(fieldError validator.FieldError) string {
	field := fieldError.Field()
	value := fieldError.Value()

	switch fieldError.Tag() {
	case "required":
		return fmt.Sprintf("'%s' is required", field)
	case "env_name":
		return fmt.Sprintf("'%s' must contain lowercase letters, digits and hyphens only, got '%v'", field, value)
	case "env_type":
		return fmt.Sprintf("'%s' must be one of %s, got '%v'", field, joinTypes(), value)
	case "abs_path":
		return fmt.Sprintf("'%s' must be a clean absolute path, got '%v'", field, value)
	case "php_version":
		return fmt.Sprintf("'%s' must look like '8.2', got '%v'", field, value)
	case "printascii":
		return fmt.Sprintf("'%s' contains unsupported characters, got '%v'", field, value)
	default:
		return fmt.Sprintf("'%s' failed validation '%s', got '%v'", field, fieldError.Tag(), value)
	}
}

func joinTypes() string {
	names := make([]string, 0, len(allTypes))
	for _, t := range allTypes {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}
