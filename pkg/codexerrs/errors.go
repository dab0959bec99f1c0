// Package codexerrs provides the error taxonomy shared by the codex client packages.
// Errors carry a category, a stable code, and free-form metadata so callers can
// branch on failure kinds without matching message text.
package codexerrs

// ErrorCategory groups errors by the layer that produced them.
type ErrorCategory string

const (
	// CategoryClient represents misuse of the client or invalid client state.
	CategoryClient ErrorCategory = "client"
	// CategoryProtocol represents malformed or unexpected protocol traffic.
	CategoryProtocol ErrorCategory = "protocol"
	// CategoryTransport represents stdio pipe failures.
	CategoryTransport ErrorCategory = "transport"
	// CategoryProcess represents app-server process failures.
	CategoryProcess ErrorCategory = "process"
	// CategoryValidation represents invalid options or parameters.
	CategoryValidation ErrorCategory = "validation"
	// CategoryCallback represents failures inside user supplied handlers.
	CategoryCallback ErrorCategory = "callback"
)

// ErrorCode identifies a specific failure within a category.
type ErrorCode string

// Client error codes.
const (
	ErrCodeClientClosed  ErrorCode = "client_closed"
	ErrCodeNotRunning    ErrorCode = "not_running"
	ErrCodeInvalidState  ErrorCode = "invalid_state"
	ErrCodeInvalidConfig ErrorCode = "invalid_config"
)

// Protocol error codes.
const (
	ErrCodeInvalidMessage     ErrorCode = "invalid_message"
	ErrCodeMessageParseFailed ErrorCode = "message_parse_failed"
	ErrCodeMessageTooLarge    ErrorCode = "message_too_large"
)

// Transport error codes.
const (
	ErrCodeReadFailed    ErrorCode = "read_failed"
	ErrCodeWriteFailed   ErrorCode = "write_failed"
	ErrCodeTransportInit ErrorCode = "transport_init"
)

// Process error codes.
const (
	ErrCodeProcessNotFound    ErrorCode = "process_not_found"
	ErrCodeProcessSpawnFailed ErrorCode = "process_spawn_failed"
	ErrCodeProcessExited      ErrorCode = "process_exited"
)

// Validation error codes.
const (
	ErrCodeInvalidFormat ErrorCode = "invalid_format"
)

// Callback error codes.
const (
	ErrCodeCallbackFailed ErrorCode = "callback_failed"
	ErrCodeToolNotFound   ErrorCode = "tool_not_found"
)

// Metadata keys shared across error types.
const (
	MetadataKeySessionID = "session_id"
	MetadataKeyRequestID = "request_id"
	MetadataKeyMethod    = "method"
	MetadataKeyCommand   = "command"
	MetadataKeyExitCode  = "exit_code"
	MetadataKeySignal    = "signal"
)
