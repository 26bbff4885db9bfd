package cli

import (
	"errors"
	"fmt"
)

var (
	// ErrOperationFailed indicates an external command exited with a non-zero status
	ErrOperationFailed = errors.New("operation failed")

	// ErrNotInteractive indicates a command needs a terminal but runs without one
	ErrNotInteractive = errors.New("this command requires an interactive terminal")

	// ErrSyncDisabled indicates a synchronization command while synchronization is off
	ErrSyncDisabled = errors.New("file synchronization is disabled on this host")
)

// OperationError reports which orchestrated operation failed and how
type OperationError struct {
	Operation string
	ExitCode  int
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s failed with exit code %d", e.Operation, e.ExitCode)
}

func (e *OperationError) Unwrap() error {
	return ErrOperationFailed
}
