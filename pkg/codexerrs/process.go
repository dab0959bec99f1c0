package codexerrs

// ProcessError represents app-server process failures.
type ProcessError struct {
	*BaseError
	exitCode    int
	hasExitCode bool
	signal      string
}

// NewProcessError creates a new process error.
// A negative exitCode means the exit code is unknown.
func NewProcessError(
	code ErrorCode,
	message string,
	cause error,
	exitCode int,
	signal string,
) *ProcessError {
	err := &ProcessError{
		BaseError:   NewBaseError(CategoryProcess, code, message, cause),
		exitCode:    exitCode,
		hasExitCode: exitCode >= 0,
		signal:      signal,
	}

	if err.hasExitCode {
		_ = err.WithMetadata(MetadataKeyExitCode, exitCode)
	}
	if signal != "" {
		_ = err.WithMetadata(MetadataKeySignal, signal)
	}

	return err
}

// ExitCode returns the process exit code and whether it is known.
func (e *ProcessError) ExitCode() (int, bool) {
	return e.exitCode, e.hasExitCode
}

// Signal returns the terminating signal name, or "" when none was reported.
func (e *ProcessError) Signal() string {
	return e.signal
}

// WithCommand adds command metadata to the error.
func (e *ProcessError) WithCommand(command string) *ProcessError {
	_ = e.WithMetadata(MetadataKeyCommand, command)

	return e
}

// WithSessionID adds session ID metadata to the error.
func (e *ProcessError) WithSessionID(sessionID string) *ProcessError {
	_ = e.WithMetadata(MetadataKeySessionID, sessionID)

	return e
}

// ValidationError represents invalid options or parameters.
type ValidationError struct {
	*BaseError
	field string
	value any
}

// NewValidationError creates a new validation error.
func NewValidationError(
	code ErrorCode,
	message string,
	cause error,
	field string,
	value any,
) *ValidationError {
	err := &ValidationError{
		BaseError: NewBaseError(CategoryValidation, code, message, cause),
		field:     field,
		value:     value,
	}

	_ = err.WithMetadata("field", field)
	_ = err.WithMetadata("value", value)

	return err
}

// Field returns the validation field name.
func (e *ValidationError) Field() string {
	return e.field
}

// Value returns the validation value.
func (e *ValidationError) Value() any {
	return e.value
}

// CallbackError represents failures inside user supplied handlers.
type CallbackError struct {
	*BaseError
	callback string
	timeout  bool
}

// NewCallbackError creates a new callback error.
func NewCallbackError(
	code ErrorCode,
	message string,
	cause error,
	callback string,
	timeout bool,
) *CallbackError {
	err := &CallbackError{
		BaseError: NewBaseError(CategoryCallback, code, message, cause),
		callback:  callback,
		timeout:   timeout,
	}

	_ = err.WithMetadata("callback", callback)
	_ = err.WithMetadata("timeout", timeout)

	return err
}

// Callback returns the handler name.
func (e *CallbackError) Callback() string {
	return e.callback
}

// Timeout reports whether the handler timed out.
func (e *CallbackError) Timeout() bool {
	return e.timeout
}
