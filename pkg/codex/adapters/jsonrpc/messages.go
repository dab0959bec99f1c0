package jsonrpc

// callEnvelope is an outbound request.
type callEnvelope struct {
	ID     RequestID `json:"id"`
	Method string    `json:"method"`
	Params any       `json:"params,omitempty"`
}

// resultEnvelope answers a server-initiated request successfully.
type resultEnvelope struct {
	ID     RequestID `json:"id"`
	Result any       `json:"result"`
}

// errorEnvelope answers a server-initiated request with a failure.
type errorEnvelope struct {
	ID    RequestID `json:"id"`
	Error any       `json:"error"`
}

// notificationEnvelope is an outbound notification.
type notificationEnvelope struct {
	Method string `json:"method"`
	Params any    `json:"params,omitempty"`
}
