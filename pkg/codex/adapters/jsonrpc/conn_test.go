package jsonrpc_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conneroisu/codex/pkg/codex/adapters/jsonrpc"
	"github.com/conneroisu/codex/pkg/codexerrs"
)

func TestConnCallWritesEnvelope(t *testing.T) {
	w := &lineWriter{}
	conn := jsonrpc.NewConn(w, &recordingHandler{})

	id, ch, err := conn.Call("thread/list", map[string]any{"limit": 5})
	require.NoError(t, err)
	assert.Equal(t, "1", id.String())

	lines := w.Lines()
	require.Len(t, lines, 1)
	msg := decodeLine(t, lines[0])
	assert.Equal(t, "1", msg["id"])
	assert.Equal(t, "thread/list", msg["method"])
	assert.Equal(t, map[string]any{"limit": json.Number("5")}, msg["params"])

	conn.HandleLine([]byte(`{"id":"1","result":{"data":[]}}`))
	out := <-ch
	require.NoError(t, out.Err)
	assert.JSONEq(t, `{"data":[]}`, string(out.Result))
}

func TestConnCallOmitsNilParams(t *testing.T) {
	w := &lineWriter{}
	conn := jsonrpc.NewConn(w, &recordingHandler{})

	_, _, err := conn.Call("configRequirements/read", nil)
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1","method":"configRequirements/read"}`+"\n", w.Lines()[0])
}

func TestConnIDsIncreaseOnTheWire(t *testing.T) {
	w := &lineWriter{}
	conn := jsonrpc.NewConn(w, &recordingHandler{})

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := conn.Call("model/list", struct{}{})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	lines := w.Lines()
	require.Len(t, lines, 50)
	for i, line := range lines {
		assert.Equal(t, strconv.Itoa(i+1), decodeLine(t, line)["id"])
	}
	assert.Equal(t, 50, conn.Pending().Len())
}

func TestConnSharedCounterContinues(t *testing.T) {
	counter := &jsonrpc.Counter{}
	first := jsonrpc.NewConn(&lineWriter{}, &recordingHandler{}, jsonrpc.WithIDSource(counter))
	second := jsonrpc.NewConn(&lineWriter{}, &recordingHandler{}, jsonrpc.WithIDSource(counter))

	a, _, err := first.Call("x", nil)
	require.NoError(t, err)
	b, _, err := second.Call("x", nil)
	require.NoError(t, err)
	assert.Equal(t, "1", a.String())
	assert.Equal(t, "2", b.String())
}

func TestConnErrorResponseRejects(t *testing.T) {
	conn := jsonrpc.NewConn(&lineWriter{}, &recordingHandler{})
	_, ch, err := conn.Call("thread/list", map[string]any{})
	require.NoError(t, err)

	conn.HandleLine([]byte(`{"id":"1","error":{"message":"boom"}}`))
	out := <-ch

	var rpcErr *jsonrpc.RPCError
	require.ErrorAs(t, out.Err, &rpcErr)
	assert.Equal(t, "boom", rpcErr.Error())
}

func TestConnOutOfOrderResponses(t *testing.T) {
	conn := jsonrpc.NewConn(&lineWriter{}, &recordingHandler{})
	_, first, err := conn.Call("a", nil)
	require.NoError(t, err)
	_, second, err := conn.Call("b", nil)
	require.NoError(t, err)

	conn.HandleLine([]byte(`{"id":"2","result":"second"}`))
	conn.HandleLine([]byte(`{"id":1,"result":"first"}`))

	assert.JSONEq(t, `"first"`, string((<-first).Result))
	assert.JSONEq(t, `"second"`, string((<-second).Result))
}

func TestConnDuplicateAndUnknownResponses(t *testing.T) {
	h := &recordingHandler{}
	conn := jsonrpc.NewConn(&lineWriter{}, h)
	_, ch, err := conn.Call("a", nil)
	require.NoError(t, err)

	conn.HandleLine([]byte(`{"id":"1","result":1}`))
	conn.HandleLine([]byte(`{"id":"1","result":2}`))
	conn.HandleLine([]byte(`{"id":"99","result":3}`))

	assert.JSONEq(t, `1`, string((<-ch).Result))
	requests, notifications, errs := h.counts()
	assert.Zero(t, requests)
	assert.Zero(t, notifications)
	assert.Zero(t, errs)
}

func TestConnRoutesRequestsAndNotifications(t *testing.T) {
	h := &recordingHandler{}
	conn := jsonrpc.NewConn(&lineWriter{}, h)

	conn.HandleLine([]byte(`{"method":"thread/started","params":{"thread":{"id":"t1"}}}`))
	conn.HandleLine([]byte(`{"id":1,"method":"item/tool/requestUserInput","params":{"questions":[]}}`))
	conn.HandleLine([]byte(`   `))

	requests, notifications, errs := h.counts()
	assert.Equal(t, 1, requests)
	assert.Equal(t, 1, notifications)
	assert.Zero(t, errs)
	assert.Equal(t, "item/tool/requestUserInput", h.requests[0].Method)
	assert.True(t, h.requests[0].ID.IsNumber())
	assert.JSONEq(t, `{"thread":{"id":"t1"}}`, string(h.notifications[0].Params))
}

func TestConnParseErrorIsNotFatal(t *testing.T) {
	h := &recordingHandler{}
	conn := jsonrpc.NewConn(&lineWriter{}, h)
	_, ch, err := conn.Call("a", nil)
	require.NoError(t, err)

	conn.HandleLine([]byte(`{bad json`))
	conn.HandleLine([]byte(`{"id":"1","result":true}`))

	_, _, errs := h.counts()
	require.Equal(t, 1, errs)
	assert.Contains(t, h.errs[0].Error(), "failed to parse codex message")
	assert.True(t, codexerrs.IsProtocolError(h.errs[0]))
	assert.JSONEq(t, `true`, string((<-ch).Result))
}

func TestConnWriteFailureRemovesPending(t *testing.T) {
	w := &lineWriter{err: errors.New("broken pipe")}
	conn := jsonrpc.NewConn(w, &recordingHandler{})

	_, ch, err := conn.Call("a", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, jsonrpc.ErrConnClosed)
	assert.Nil(t, ch)
	assert.Zero(t, conn.Pending().Len())
}

func TestConnFailRejectsAndBlocksNewCalls(t *testing.T) {
	conn := jsonrpc.NewConn(&lineWriter{}, &recordingHandler{})
	_, ch, err := conn.Call("a", nil)
	require.NoError(t, err)

	exitErr := fmt.Errorf("codex app-server exited (code=1, signal=unknown)")
	assert.Equal(t, 1, conn.Fail(exitErr))
	assert.ErrorIs(t, (<-ch).Err, exitErr)
	assert.Zero(t, conn.Pending().Len())

	_, _, err = conn.Call("b", nil)
	assert.ErrorIs(t, err, jsonrpc.ErrConnClosed)
	assert.ErrorIs(t, conn.Reply(jsonrpc.NewNumberID(1), nil), jsonrpc.ErrConnClosed)
}

func TestConnCloseDetachesAndDrains(t *testing.T) {
	w := &lineWriter{}
	h := &recordingHandler{}
	conn := jsonrpc.NewConn(w, h)
	_, ch, err := conn.Call("a", nil)
	require.NoError(t, err)

	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close())
	assert.True(t, conn.Detached())
	assert.Zero(t, conn.Pending().Len())

	conn.HandleLine([]byte(`{"method":"late"}`))
	_, notifications, _ := h.counts()
	assert.Zero(t, notifications)

	select {
	case <-ch:
		t.Fatal("close must not complete pending calls")
	default:
	}
}

func TestConnReplies(t *testing.T) {
	w := &lineWriter{}
	conn := jsonrpc.NewConn(w, &recordingHandler{})

	require.NoError(t, conn.Reply(jsonrpc.NewNumberID(3), map[string]any{"decision": "accept"}))
	require.NoError(t, conn.ReplyError(jsonrpc.NewStringID("x"), jsonrpc.NewRPCError(jsonrpc.CodeInternalError, "nope")))
	require.NoError(t, conn.Reply(jsonrpc.NewNumberID(4), nil))
	require.NoError(t, conn.Notify("initialized", nil))

	lines := w.Lines()
	require.Len(t, lines, 4)
	assert.Equal(t, `{"id":3,"result":{"decision":"accept"}}`+"\n", lines[0])
	assert.Equal(t, `{"id":"x","error":{"code":-32603,"message":"nope"}}`+"\n", lines[1])
	assert.Equal(t, `{"id":4,"result":null}`+"\n", lines[2])
	assert.Equal(t, `{"method":"initialized"}`+"\n", lines[3])
}

func TestConnReadLoop(t *testing.T) {
	h := &recordingHandler{}
	conn := jsonrpc.NewConn(&lineWriter{}, h)
	_, ch, err := conn.Call("a", nil)
	require.NoError(t, err)

	input := strings.Join([]string{
		`{"method":"turn/started"}`,
		``,
		`not json`,
		`{"id":"1","result":{"ok":1}}`,
	}, "\n")
	require.NoError(t, conn.ReadLoop(strings.NewReader(input), 0))

	requests, notifications, errs := h.counts()
	assert.Zero(t, requests)
	assert.Equal(t, 1, notifications)
	assert.Equal(t, 1, errs)
	assert.JSONEq(t, `{"ok":1}`, string((<-ch).Result))
}
