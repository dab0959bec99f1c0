package jsonrpc_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/codex/pkg/codex/adapters/jsonrpc"
)

func TestPendingTableResolvesOnce(t *testing.T) {
	table := jsonrpc.NewPendingTable()
	ch := table.Register(jsonrpc.NewStringID("1"))

	assert.True(t, table.Resolve("1", json.RawMessage(`{"ok":true}`)))
	assert.False(t, table.Resolve("1", json.RawMessage(`{"ok":false}`)), "duplicate response must be dropped")
	assert.False(t, table.Reject("1", errors.New("late")))

	out := <-ch
	require.NoError(t, out.Err)
	assert.JSONEq(t, `{"ok":true}`, string(out.Result))
	assert.Zero(t, table.Len())
}

func TestPendingTableUnknownKey(t *testing.T) {
	table := jsonrpc.NewPendingTable()
	assert.False(t, table.Resolve("missing", nil))
	assert.False(t, table.Reject("missing", errors.New("x")))
	assert.False(t, table.Remove("missing"))
}

func TestPendingTableRejectAll(t *testing.T) {
	table := jsonrpc.NewPendingTable()
	a := table.Register(jsonrpc.NewStringID("1"))
	b := table.Register(jsonrpc.NewStringID("2"))
	exit := errors.New("exited (code=1, signal=unknown)")

	assert.Equal(t, 2, table.RejectAll(exit))
	assert.Zero(t, table.Len())
	assert.ErrorIs(t, (<-a).Err, exit)
	assert.ErrorIs(t, (<-b).Err, exit)
	assert.Equal(t, 0, table.RejectAll(exit))
}

func TestPendingTableDrainDoesNotComplete(t *testing.T) {
	table := jsonrpc.NewPendingTable()
	ch := table.Register(jsonrpc.NewStringID("1"))

	assert.Equal(t, 1, table.Drain())
	assert.Zero(t, table.Len())
	select {
	case out := <-ch:
		t.Fatalf("drained call was completed: %+v", out)
	default:
	}
}
