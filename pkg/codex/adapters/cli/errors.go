package cli

import (
	"errors"
	"fmt"
)

// Stages reported in CLIError.
const (
	StageDiscover = "discover"
	StagePipe     = "pipe"
	StageStart    = "start"
)

// CLIError represents an error from the CLI adapter.
// Stage names the step that failed.
type CLIError struct {
	Stage   string
	Message string
	Cause   error
}

// Error implements the error interface for CLIError.
func (e *CLIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cli %s: %s: %v", e.Stage, e.Message, e.Cause)
	}

	return fmt.Sprintf("cli %s: %s", e.Stage, e.Message)
}

// Unwrap returns the underlying cause.
func (e *CLIError) Unwrap() error {
	return e.Cause
}

// IsNotFound reports whether err is a failure to locate the executable.
func IsNotFound(err error) bool {
	var cliErr *CLIError

	return errors.As(err, &cliErr) && cliErr.Stage == StageDiscover
}
