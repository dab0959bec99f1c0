package jsonrpc

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Standard JSON-RPC error codes used when replying to server requests.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// unknownRPCError is reported when the peer rejects a call without a message.
const unknownRPCError = "Unknown Codex RPC error"

var (
	// ErrConnClosed is returned by writes after the connection has been closed or failed.
	ErrConnClosed = errors.New("jsonrpc: connection closed")
	// ErrLineTooLong is returned by the Framer for a line exceeding the size limit.
	ErrLineTooLong = errors.New("jsonrpc: line exceeds maximum size")
)

// RPCError is the error object of a JSON-RPC response or reply.
type RPCError struct {
	Code    *int64          `json:"code,omitempty"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// NewRPCError builds an error object suitable for replying to the peer.
func NewRPCError(code int64, message string) *RPCError {
	return &RPCError{Code: &code, Message: message}
}

// Error implements the error interface.
func (e *RPCError) Error() string {
	if e.Message == "" {
		return unknownRPCError
	}

	return e.Message
}

// ErrorCode returns the numeric code or 0 when absent.
func (e *RPCError) ErrorCode() int64 {
	if e.Code == nil {
		return 0
	}

	return *e.Code
}

// parseRPCError interprets the error member of a response. Objects contribute
// message, code, and data when they have the expected types. Any other shape
// yields the generic message.
func parseRPCError(raw json.RawMessage) *RPCError {
	var obj struct {
		Code    json.RawMessage `json:"code"`
		Message json.RawMessage `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil {
		return &RPCError{Message: unknownRPCError, Data: raw}
	}

	out := &RPCError{Message: unknownRPCError, Data: obj.Data}

	var msg string
	if json.Unmarshal(obj.Message, &msg) == nil && msg != "" {
		out.Message = msg
	}

	var code int64
	if json.Unmarshal(obj.Code, &code) == nil && len(obj.Code) > 0 {
		out.Code = &code
	}

	return out
}

// ErrorPayload converts an arbitrary handler error into a reply error object.
func ErrorPayload(err error) *RPCError {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) {
		return rpcErr
	}

	return NewRPCError(CodeInternalError, fmt.Sprint(err))
}
