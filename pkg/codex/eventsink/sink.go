// Package eventsink forwards client events to external destinations.
package eventsink

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/conneroisu/codex/pkg/codex"
)

// Record is the serialized form of one event.
type Record struct {
	Type      string          `json:"type"`
	Time      time.Time       `json:"time"`
	SessionID string          `json:"session_id"`
	Method    string          `json:"method,omitempty"`
	ID        string          `json:"id,omitempty"`
	Log       string          `json:"log,omitempty"`
	Error     string          `json:"error,omitempty"`
	Handled   bool            `json:"handled,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// NewRecord flattens ev.
func NewRecord(sessionID string, ev codex.Event) Record {
	r := Record{
		Type:      string(ev.Type),
		Time:      ev.Time,
		SessionID: sessionID,
		Log:       ev.Log,
		Handled:   ev.Handled,
	}
	if ev.Err != nil {
		r.Error = ev.Err.Error()
	}
	if req := ev.Request; req != nil {
		r.Method = req.Method
		r.ID = req.ID.String()
		r.Payload = req.Params
	}
	if n := ev.Notification; n != nil {
		r.Method = n.Method
		r.Payload = n.Params
	}

	return r
}

// Sink receives records.
type Sink interface {
	Publish(ctx context.Context, r Record) error
}

// Source is the part of codex.Client that Forward needs.
type Source interface {
	SessionID() string
	Subscribe(opts ...codex.SubscribeOption) *codex.Subscription
}

// Forward publishes the source's events to sink until ctx ends or the
// source is closed. An empty types forwards every event. Forward stops at
// the first publish error.
func Forward(ctx context.Context, src Source, sink Sink, types ...codex.EventType) error {
	sub := src.Subscribe(codex.WithTypes(types...))
	defer sub.Close()

	return ForwardSubscription(ctx, src.SessionID(), sub, sink)
}

// ForwardSubscription is Forward for a subscription the caller already
// holds, e.g. one taken before Start so that ready is included. It does
// not close sub.
func ForwardSubscription(ctx context.Context, sessionID string, sub *codex.Subscription, sink Sink) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-sub.C:
			if !ok {
				return nil
			}
			if err := sink.Publish(ctx, NewRecord(sessionID, ev)); err != nil {
				return err
			}
		}
	}
}

// MemorySink keeps records in memory.
type MemorySink struct {
	mu      sync.Mutex
	records []Record
}

// Publish implements Sink.
func (s *MemorySink) Publish(_ context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, r)

	return nil
}

// Records returns a copy of the stored records.
func (s *MemorySink) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Record(nil), s.records...)
}

// WriterSink writes records as newline-delimited JSON.
type WriterSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewWriterSink writes to w.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{enc: json.NewEncoder(w)}
}

// Publish implements Sink.
func (s *WriterSink) Publish(_ context.Context, r Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.enc.Encode(r)
}

// Multi publishes to every sink in order.
type Multi []Sink

// Publish implements Sink. It stops at the first error.
func (m Multi) Publish(ctx context.Context, r Record) error {
	for _, s := range m {
		if err := s.Publish(ctx, r); err != nil {
			return err
		}
	}

	return nil
}
