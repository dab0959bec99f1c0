package jsonrpc_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/conneroisu/codex/pkg/codex/adapters/jsonrpc"
)

// lineWriter records every write as one line and can be made to fail.
type lineWriter struct {
	mu     sync.Mutex
	lines  []string
	closed bool
	err    error
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return 0, errors.New("write on closed pipe")
	}
	if w.err != nil {
		return 0, w.err
	}
	w.lines = append(w.lines, string(p))

	return len(p), nil
}

func (w *lineWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true

	return nil
}

func (w *lineWriter) Lines() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return append([]string(nil), w.lines...)
}

// decodeLine parses a written line into a generic map.
func decodeLine(t *testing.T, line string) map[string]any {
	t.Helper()
	require.True(t, strings.HasSuffix(line, "\n"), "line must be newline terminated: %q", line)
	require.Equal(t, 1, strings.Count(line, "\n"), "exactly one line per write")

	var m map[string]any
	dec := json.NewDecoder(bytes.NewReader([]byte(line)))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&m))

	return m
}

type recordingHandler struct {
	mu            sync.Mutex
	requests      []jsonrpc.Inbound
	notifications []jsonrpc.Inbound
	errs          []error
}

func (h *recordingHandler) OnRequest(in jsonrpc.Inbound) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.requests = append(h.requests, in)
}

func (h *recordingHandler) OnNotification(in jsonrpc.Inbound) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.notifications = append(h.notifications, in)
}

func (h *recordingHandler) OnProtocolError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.errs = append(h.errs, err)
}

func (h *recordingHandler) counts() (requests, notifications, errs int) {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.requests), len(h.notifications), len(h.errs)
}
