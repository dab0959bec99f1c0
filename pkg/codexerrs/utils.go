package codexerrs

import "errors"

// WrapError wraps an error with additional context.
func WrapError(
	category ErrorCategory,
	code ErrorCode,
	message string,
	err error,
) SDKError {
	switch category {
	case CategoryClient:
		return NewClientError(code, message, err)
	case CategoryProtocol:
		return NewProtocolError(code, message, err)
	case CategoryTransport:
		return NewTransportError(code, message, err)
	case CategoryProcess:
		var procErr *ProcessError
		if errors.As(err, &procErr) {
			exitCode, ok := procErr.ExitCode()
			if !ok {
				exitCode = -1
			}

			return NewProcessError(code, message, err, exitCode, procErr.Signal())
		}

		return NewProcessError(code, message, err, -1, "")
	case CategoryValidation:
		var valErr *ValidationError
		if errors.As(err, &valErr) {
			return NewValidationError(code, message, err, valErr.Field(), valErr.Value())
		}

		return NewValidationError(code, message, err, "", nil)
	case CategoryCallback:
		var cbErr *CallbackError
		if errors.As(err, &cbErr) {
			return NewCallbackError(code, message, err, cbErr.Callback(), cbErr.Timeout())
		}

		return NewCallbackError(code, message, err, "", false)
	default:
		return NewBaseError(category, code, message, err)
	}
}

// AsSDKError extracts an SDKError from the error chain.
func AsSDKError(err error) (SDKError, bool) {
	var sdkErr SDKError
	if errors.As(err, &sdkErr) {
		return sdkErr, true
	}

	return nil, false
}

// CodeOf returns the code of the first SDKError in the chain, or "".
func CodeOf(err error) ErrorCode {
	if sdkErr, ok := AsSDKError(err); ok {
		return sdkErr.Code()
	}

	return ""
}

func isCategory(err error, category ErrorCategory) bool {
	if sdkErr, ok := AsSDKError(err); ok {
		return sdkErr.Category() == category
	}

	return false
}

// IsClientError checks if the error is a client error.
func IsClientError(err error) bool {
	return isCategory(err, CategoryClient)
}

// IsProtocolError checks if the error is a protocol error.
func IsProtocolError(err error) bool {
	return isCategory(err, CategoryProtocol)
}

// IsTransportError checks if the error is a transport error.
func IsTransportError(err error) bool {
	return isCategory(err, CategoryTransport)
}

// IsProcessError checks if the error is a process error.
func IsProcessError(err error) bool {
	return isCategory(err, CategoryProcess)
}

// IsValidationError checks if the error is a validation error.
func IsValidationError(err error) bool {
	return isCategory(err, CategoryValidation)
}

// IsCallbackError checks if the error is a callback error.
func IsCallbackError(err error) bool {
	return isCategory(err, CategoryCallback)
}

// IsSessionFatal reports whether err ends the whole session rather than a
// single call. Process exits and transport failures qualify.
func IsSessionFatal(err error) bool {
	return IsProcessError(err) || IsTransportError(err)
}
