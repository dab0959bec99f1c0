package jsonrpc

import (
	"encoding/json"
	"sync"
)

// Outcome completes a pending call.
type Outcome struct {
	Result json.RawMessage
	Err    error
}

// PendingTable maps outstanding call identifiers to their completion channels.
// Every entry is completed at most once: the first Resolve, Reject, or
// RejectAll that finds it removes it.
type PendingTable struct {
	mu    sync.Mutex
	calls map[string]chan Outcome
}

// NewPendingTable creates an empty table.
func NewPendingTable() *PendingTable {
	return &PendingTable{calls: make(map[string]chan Outcome)}
}

// Register adds an entry for id and returns the channel its outcome will be
// delivered on. The channel is buffered so completion never blocks.
func (t *PendingTable) Register(id RequestID) <-chan Outcome {
	ch := make(chan Outcome, 1)

	t.mu.Lock()
	t.calls[id.String()] = ch
	t.mu.Unlock()

	return ch
}

func (t *PendingTable) take(key string) (chan Outcome, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch, ok := t.calls[key]
	if ok {
		delete(t.calls, key)
	}

	return ch, ok
}

// Resolve completes key successfully. It reports false for unknown keys.
func (t *PendingTable) Resolve(key string, result json.RawMessage) bool {
	ch, ok := t.take(key)
	if !ok {
		return false
	}
	ch <- Outcome{Result: result}

	return true
}

// Reject completes key with err. It reports false for unknown keys.
func (t *PendingTable) Reject(key string, err error) bool {
	ch, ok := t.take(key)
	if !ok {
		return false
	}
	ch <- Outcome{Err: err}

	return true
}

// Remove drops key without completing it.
func (t *PendingTable) Remove(key string) bool {
	_, ok := t.take(key)

	return ok
}

// RejectAll completes every entry with err, empties the table, and returns
// the number of calls rejected.
func (t *PendingTable) RejectAll(err error) int {
	t.mu.Lock()
	calls := t.calls
	t.calls = make(map[string]chan Outcome)
	t.mu.Unlock()

	for _, ch := range calls {
		ch <- Outcome{Err: err}
	}

	return len(calls)
}

// Drain empties the table without completing any entry and returns the
// number of entries dropped. Waiters on drained entries only return through
// their own context.
func (t *PendingTable) Drain() int {
	t.mu.Lock()
	n := len(t.calls)
	t.calls = make(map[string]chan Outcome)
	t.mu.Unlock()

	return n
}

// Len returns the number of outstanding calls.
func (t *PendingTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.calls)
}
