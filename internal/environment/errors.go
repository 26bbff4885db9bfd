package environment

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDuplicateEnvironment indicates a record clashes with an existing name or location
	ErrDuplicateEnvironment = errors.New("duplicate environment")

	// ErrEnvironmentNotFound indicates the requested environment is not registered
	ErrEnvironmentNotFound = errors.New("environment not found")

	// ErrNoEnvironmentSelected indicates no environment could be resolved for the invocation
	ErrNoEnvironmentSelected = errors.New("an environment must be given, please consider using the register command first")

	// ErrInvalidConfiguration indicates the configuration files of an environment are missing
	ErrInvalidConfiguration = errors.New("the environment is not configured, consider executing the install command")

	// ErrInconsistentRegistry indicates more than one record is flagged as active
	ErrInconsistentRegistry = errors.New("more than one environment is marked as active")

	// ErrUnknownType indicates an environment type outside of the supported set
	ErrUnknownType = errors.New("unknown environment type")
)

// DuplicateError reports which field of a record clashed with an existing one.
type DuplicateError struct {
	Field string
	Value string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("an environment with the same %s already exists: %s", e.Field, e.Value)
}

func (e *DuplicateError) Unwrap() error {
	return ErrDuplicateEnvironment
}

// NotFoundError names the environment that could not be found.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("environment %q not found", e.Name)
}

func (e *NotFoundError) Unwrap() error {
	return ErrEnvironmentNotFound
}

// ConfigurationError lists the configuration files missing from an environment.
type ConfigurationError struct {
	Environment string
	Missing     []string
}

func (e *ConfigurationError) Error() string {
	if len(e.Missing) == 0 {
		return ErrInvalidConfiguration.Error()
	}
	return fmt.Sprintf("%s (missing: %s)", ErrInvalidConfiguration.Error(), strings.Join(e.Missing, ", "))
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// IsNotFound returns true if the error is ErrEnvironmentNotFound
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEnvironmentNotFound)
}

// IsDuplicate returns true if the error is ErrDuplicateEnvironment
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrDuplicateEnvironment)
}
