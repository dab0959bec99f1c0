// Package jsonrpc implements the newline-delimited JSON-RPC dialect spoken
// by codex app-server: line framing, message classification, the pending
// call table, and a per-process connection that ties them together.
package jsonrpc

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/conneroisu/codex/pkg/codexerrs"
)

// Handler receives the inbound traffic that is not a response.
// Calls happen on the reading goroutine in line order.
type Handler interface {
	OnRequest(in Inbound)
	OnNotification(in Inbound)
	OnProtocolError(err error)
}

// Conn is the protocol state for one app-server process: the outbound writer
// and the table of calls awaiting a response.
type Conn struct {
	w       io.WriteCloser
	handler Handler
	ids     IDSource
	logger  *zap.Logger
	pending *PendingTable

	// wmu serializes writes. Call also holds it across id allocation so ids
	// reach the wire in increasing order.
	wmu sync.Mutex

	// mu guards closed and detached. It is never held across I/O.
	mu       sync.Mutex
	closed   bool
	detached bool
}

// ConnOption configures a Conn.
type ConnOption func(*Conn)

// WithIDSource sets the identifier source. The default is a fresh Counter.
func WithIDSource(ids IDSource) ConnOption {
	return func(c *Conn) {
		c.ids = ids
	}
}

// WithLogger sets the logger. The default discards.
func WithLogger(logger *zap.Logger) ConnOption {
	return func(c *Conn) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewConn creates a connection writing to w and reporting inbound traffic to h.
func NewConn(w io.WriteCloser, h Handler, opts ...ConnOption) *Conn {
	c := &Conn{
		w:       w,
		handler: h,
		ids:     &Counter{},
		logger:  zap.NewNop(),
		pending: NewPendingTable(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Pending exposes the pending call table.
func (c *Conn) Pending() *PendingTable {
	return c.pending
}

// Call writes a request line and returns the channel its outcome arrives on.
// The entry is registered before the write; a failed write removes it again.
func (c *Conn) Call(method string, params any) (RequestID, <-chan Outcome, error) {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()

		return RequestID{}, nil, ErrConnClosed
	}
	id := c.ids.Next()
	ch := c.pending.Register(id)
	c.mu.Unlock()

	if err := c.writeLocked(callEnvelope{ID: id, Method: method, Params: params}); err != nil {
		c.pending.Remove(id.String())

		return id, nil, err
	}

	return id, ch, nil
}

// Abandon removes a pending call whose caller stopped waiting. It reports
// whether the entry was still outstanding.
func (c *Conn) Abandon(id RequestID) bool {
	return c.pending.Remove(id.String())
}

// Reply answers a server request with a result.
func (c *Conn) Reply(id RequestID, result any) error {
	return c.send(resultEnvelope{ID: id, Result: result})
}

// ReplyError answers a server request with an error object.
func (c *Conn) ReplyError(id RequestID, rpcErr any) error {
	return c.send(errorEnvelope{ID: id, Error: rpcErr})
}

// Notify writes a client notification.
func (c *Conn) Notify(method string, params any) error {
	return c.send(notificationEnvelope{Method: method, Params: params})
}

func (c *Conn) send(v any) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	if c.isClosed() {
		return ErrConnClosed
	}

	return c.writeLocked(v)
}

func (c *Conn) writeLocked(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return codexerrs.NewProtocolError(codexerrs.ErrCodeInvalidMessage, "encode message", err)
	}
	data = append(data, '\n')

	if _, err := c.w.Write(data); err != nil {
		return fmt.Errorf("%w: %w", ErrConnClosed, err)
	}

	return nil
}

func (c *Conn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}

// Detached reports whether inbound lines are being discarded.
func (c *Conn) Detached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.detached
}

// Fail marks the connection unusable and rejects every pending call with err.
// Registration and rejection are mutually exclusive, so no call can slip in
// afterwards and wait forever.
func (c *Conn) Fail(err error) int {
	c.mu.Lock()
	c.closed = true
	n := c.pending.RejectAll(err)
	c.mu.Unlock()

	return n
}

// Close detaches the connection from inbound traffic, drops pending calls
// without completing them, and closes the writer.
func (c *Conn) Close() error {
	c.mu.Lock()
	alreadyClosed := c.closed && c.detached
	c.closed = true
	c.detached = true
	dropped := c.pending.Drain()
	c.mu.Unlock()

	if alreadyClosed {
		return nil
	}
	if dropped > 0 {
		c.logger.Debug("dropped pending calls on close", zap.Int("count", dropped))
	}

	return c.w.Close()
}

// HandleLine classifies one line and routes it.
func (c *Conn) HandleLine(line []byte) {
	if c.Detached() {
		return
	}

	line = bytes.TrimSpace(line)
	if len(line) == 0 {
		return
	}

	in, err := Classify(line)
	if err != nil {
		c.handler.OnProtocolError(codexerrs.NewProtocolError(
			codexerrs.ErrCodeMessageParseFailed,
			"failed to parse codex message",
			err,
		))

		return
	}

	switch in.Kind {
	case KindResponse:
		key := in.ID.String()
		var found bool
		if in.Error != nil {
			found = c.pending.Reject(key, in.Error)
		} else {
			found = c.pending.Resolve(key, in.Result)
		}
		if !found {
			c.logger.Debug("dropped response for unknown id", zap.String("id", key))
		}
	case KindRequest:
		c.handler.OnRequest(in)
	case KindNotification:
		c.handler.OnNotification(in)
	default:
		c.logger.Debug("ignored message", zap.ByteString("line", line))
	}
}

// ReadLoop frames r and dispatches every line until EOF. It returns nil at
// EOF and the read error otherwise. Oversize lines are reported to the
// handler and skipped.
func (c *Conn) ReadLoop(r io.Reader, maxLineSize int) error {
	framer := NewFramer(r, maxLineSize)
	for {
		line, err := framer.Next()
		switch {
		case err == nil:
			c.HandleLine(line)
		case errors.Is(err, ErrLineTooLong):
			if !c.Detached() {
				c.handler.OnProtocolError(codexerrs.NewProtocolError(
					codexerrs.ErrCodeMessageTooLarge,
					"codex message exceeds maximum line size",
					err,
				))
			}
		case errors.Is(err, io.EOF):
			return nil
		default:
			return err
		}
	}
}
