package jsonrpc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"sync/atomic"
)

type idKind uint8

const (
	idString idKind = iota
	idNumber
	idNull
	idRaw
)

// maxExactInt is the largest integer a float64 holds exactly.
const maxExactInt = 1 << 53

// RequestID is a JSON-RPC id that may be a string, a number, or null.
// Object and array ids from the peer are kept as compact raw JSON so a
// reply can echo them. It re-encodes in the JSON kind it was decoded from.
type RequestID struct {
	value string
	kind  idKind
}

// NewStringID returns a string id.
func NewStringID(s string) RequestID {
	return RequestID{value: s, kind: idString}
}

// NewNumberID returns a numeric id.
func NewNumberID(n int64) RequestID {
	return RequestID{value: strconv.FormatInt(n, 10), kind: idNumber}
}

// String returns the correlation key. Numbers and strings with the same
// digits produce the same key, so a response id of 1 matches a call sent as "1".
func (id RequestID) String() string {
	if id.kind == idNull {
		return "null"
	}

	return id.value
}

// IsNumber reports whether the id was a JSON number.
func (id RequestID) IsNumber() bool {
	return id.kind == idNumber
}

// IsRaw reports whether the id was a JSON object or array.
func (id RequestID) IsRaw() bool {
	return id.kind == idRaw
}

// IsNull reports whether the id was JSON null.
func (id RequestID) IsNull() bool {
	return id.kind == idNull
}

// MarshalJSON implements json.Marshaler.
func (id RequestID) MarshalJSON() ([]byte, error) {
	switch id.kind {
	case idNumber, idRaw:
		return []byte(id.value), nil
	case idNull:
		return []byte("null"), nil
	default:
		return json.Marshal(id.value)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *RequestID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("jsonrpc: empty id")
	}

	switch {
	case bytes.Equal(data, []byte("null")):
		*id = RequestID{kind: idNull}

		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("jsonrpc: invalid string id: %w", err)
		}
		*id = NewStringID(s)

		return nil
	case data[0] == '{' || data[0] == '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return fmt.Errorf("jsonrpc: invalid id: %w", err)
		}
		*id = RequestID{value: buf.String(), kind: idRaw}

		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("jsonrpc: id must be a string, number, or null: %w", err)
		}
		*id = RequestID{value: canonicalNumber(n), kind: idNumber}

		return nil
	}
}

// canonicalNumber writes integral numbers such as 1.0 or 1e0 as "1" so
// they match the decimal keys of pending calls.
func canonicalNumber(n json.Number) string {
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || math.Abs(f) > maxExactInt {
		return n.String()
	}

	return strconv.FormatInt(int64(f), 10)
}

// IDSource hands out call identifiers.
type IDSource interface {
	Next() RequestID
}

// Counter is an IDSource producing the decimal strings "1", "2", ...
// The zero value is ready to use and safe for concurrent callers.
type Counter struct {
	n atomic.Int64
}

// Next returns the next identifier.
func (c *Counter) Next() RequestID {
	return NewStringID(strconv.FormatInt(c.n.Add(1), 10))
}
