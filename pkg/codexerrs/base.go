package codexerrs

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap/zapcore"
)

// SDKError is implemented by every error the codex client returns.
type SDKError interface {
	error
	// Code returns the error code.
	Code() ErrorCode
	// Category returns the error category.
	Category() ErrorCategory
	// Unwrap returns the underlying error.
	Unwrap() error
	// Metadata returns a copy of the error metadata.
	Metadata() map[string]any
}

// BaseError carries the fields shared by all typed errors. Package-level
// sentinels are built from it, so metadata is only attached to errors
// created per failure.
type BaseError struct {
	code     ErrorCode
	category ErrorCategory
	message  string
	cause    error
	metadata map[string]any
}

var _ zapcore.ObjectMarshaler = (*BaseError)(nil)

// NewBaseError creates a new base error.
func NewBaseError(
	category ErrorCategory,
	code ErrorCode,
	message string,
	cause error,
) *BaseError {
	return &BaseError{
		code:     code,
		category: category,
		message:  message,
		cause:    cause,
	}
}

// Error formats as "<category>: <message>[: <cause>]".
func (e *BaseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.category, e.message, e.cause)
	}

	return fmt.Sprintf("%s: %s", e.category, e.message)
}

// Message returns the message without category prefix or cause.
func (e *BaseError) Message() string {
	return e.message
}

func (e *BaseError) Code() ErrorCode         { return e.code }
func (e *BaseError) Category() ErrorCategory { return e.category }
func (e *BaseError) Unwrap() error           { return e.cause }

// Metadata returns a copy of the metadata. It is never nil.
func (e *BaseError) Metadata() map[string]any {
	if e.metadata == nil {
		return map[string]any{}
	}

	return maps.Clone(e.metadata)
}

// WithMetadata sets key and returns e.
func (e *BaseError) WithMetadata(key string, value any) *BaseError {
	if e.metadata == nil {
		e.metadata = make(map[string]any)
	}
	e.metadata[key] = value

	return e
}

// Is matches any SDKError with the same category and code, so a wrapped
// or re-created error still satisfies errors.Is against a sentinel.
func (e *BaseError) Is(target error) bool {
	other, ok := target.(SDKError)
	if !ok {
		return false
	}

	return other.Category() == e.category && other.Code() == e.code
}

// MarshalLogObject implements zapcore.ObjectMarshaler. Metadata keys are
// written in sorted order.
func (e *BaseError) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("category", string(e.category))
	enc.AddString("code", string(e.code))
	enc.AddString("message", e.message)
	if e.cause != nil {
		enc.AddString("cause", e.cause.Error())
	}
	for _, key := range slices.Sorted(maps.Keys(e.metadata)) {
		if err := enc.AddReflected(key, e.metadata[key]); err != nil {
			return err
		}
	}

	return nil
}
