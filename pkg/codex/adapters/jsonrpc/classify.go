package jsonrpc

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Kind is the category of an inbound line.
type Kind uint8

const (
	// KindIgnored marks valid JSON that matches no known envelope shape.
	KindIgnored Kind = iota
	// KindResponse answers a call this client sent.
	KindResponse
	// KindRequest is a server-initiated request that expects a reply.
	KindRequest
	// KindNotification is a server-initiated message with no reply.
	KindNotification
)

// String returns a short lowercase name for the kind.
func (k Kind) String() string {
	switch k {
	case KindResponse:
		return "response"
	case KindRequest:
		return "request"
	case KindNotification:
		return "notification"
	default:
		return "ignored"
	}
}

// Inbound is one classified message.
type Inbound struct {
	Kind   Kind
	ID     RequestID
	Method string
	Params json.RawMessage
	Result json.RawMessage
	// Error is set on responses whose error member is present and truthy.
	Error *RPCError
}

// Classify parses a single trimmed, non-empty line. The returned error is
// non-nil only when the line is not valid JSON. Shapes are decided by field
// presence, in this order: id with result or error is a response; string
// method with id is a request; string method alone is a notification.
// Everything else is KindIgnored.
func Classify(line []byte) (Inbound, error) {
	var raw json.RawMessage
	if err := json.Unmarshal(line, &raw); err != nil {
		return Inbound{}, err
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return Inbound{Kind: KindIgnored}, nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return Inbound{}, err
	}

	rawID, hasID := fields["id"]
	rawResult, hasResult := fields["result"]
	rawError, hasError := fields["error"]

	if hasID && (hasResult || hasError) {
		var id RequestID
		if err := id.UnmarshalJSON(rawID); err != nil || id.IsRaw() {
			// Object and array ids can never match a pending call.
			return Inbound{Kind: KindIgnored}, nil
		}
		in := Inbound{Kind: KindResponse, ID: id, Result: rawResult}
		if hasError && truthy(rawError) {
			in.Error = parseRPCError(rawError)
		}

		return in, nil
	}

	method, ok := stringField(fields["method"])
	if !ok {
		return Inbound{Kind: KindIgnored}, nil
	}

	if !hasID {
		return Inbound{Kind: KindNotification, Method: method, Params: fields["params"]}, nil
	}

	var id RequestID
	if err := id.UnmarshalJSON(rawID); err != nil {
		return Inbound{Kind: KindIgnored}, nil
	}

	return Inbound{Kind: KindRequest, ID: id, Method: method, Params: fields["params"]}, nil
}

// stringField decodes raw only when it is a JSON string.
func stringField(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}

	return s, true
}

// truthy mirrors the peer convention where null, false, 0, and "" mean
// "no error".
func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	switch string(raw) {
	case "", "null", "false", `""`:
		return false
	}
	if raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9') {
		f, err := strconv.ParseFloat(string(raw), 64)

		return err != nil || f != 0
	}

	return true
}
