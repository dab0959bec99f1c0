package codexerrs

// ClientError represents misuse of the client or an invalid client state.
type ClientError struct {
	*BaseError
}

// NewClientError creates a new client error.
func NewClientError(code ErrorCode, message string, cause error) *ClientError {
	return &ClientError{
		BaseError: NewBaseError(CategoryClient, code, message, cause),
	}
}

// WithSessionID adds session ID metadata to the error.
func (e *ClientError) WithSessionID(sessionID string) *ClientError {
	_ = e.WithMetadata(MetadataKeySessionID, sessionID)

	return e
}

// ProtocolError represents malformed or unexpected protocol traffic.
type ProtocolError struct {
	*BaseError
}

// NewProtocolError creates a new protocol error.
func NewProtocolError(code ErrorCode, message string, cause error) *ProtocolError {
	return &ProtocolError{
		BaseError: NewBaseError(CategoryProtocol, code, message, cause),
	}
}

// WithRequestID adds request ID metadata to the error.
func (e *ProtocolError) WithRequestID(requestID string) *ProtocolError {
	_ = e.WithMetadata(MetadataKeyRequestID, requestID)

	return e
}

// WithMethod adds method metadata to the error.
func (e *ProtocolError) WithMethod(method string) *ProtocolError {
	_ = e.WithMetadata(MetadataKeyMethod, method)

	return e
}

// TransportError represents stdio pipe failures.
type TransportError struct {
	*BaseError
}

// NewTransportError creates a new transport error.
func NewTransportError(code ErrorCode, message string, cause error) *TransportError {
	return &TransportError{
		BaseError: NewBaseError(CategoryTransport, code, message, cause),
	}
}
