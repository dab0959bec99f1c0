package codex

import (
	"context"
	"encoding/json"

	"github.com/conneroisu/codex/pkg/codex/adapters/jsonrpc"
)

// Call sends method with params through the middleware chain and returns
// the raw result. It does not start the process; use Start or a typed
// method for that. A nil params omits the params member.
//
// When ctx ends before the response arrives, the call is abandoned and
// ctx.Err() is returned. A late response is then dropped. ctx is not
// observed while the request line is being written: if the child stops
// reading stdin, Call blocks in the write until the process exits or
// Shutdown closes the pipe.
func (c *Client) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	return c.call(ctx, method, params)
}

func (c *Client) currentConn() *jsonrpc.Conn {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.conn
}

// roundTrip is the innermost CallFunc.
func (c *Client) roundTrip(ctx context.Context, method string, params any) (json.RawMessage, error) {
	conn := c.currentConn()
	if conn == nil {
		return nil, ErrNotRunning
	}

	id, ch, err := conn.Call(method, params)
	if err != nil {
		return nil, writeError(err)
	}

	select {
	case out := <-ch:
		return out.Result, out.Err
	case <-ctx.Done():
		if !conn.Abandon(id) {
			select {
			case out := <-ch:
				return out.Result, out.Err
			default:
			}
		}

		return nil, ctx.Err()
	}
}

// Respond answers a server request with result.
func (c *Client) Respond(id jsonrpc.RequestID, result any) error {
	conn := c.currentConn()
	if conn == nil {
		return ErrStdinUnavailable
	}

	return writeError(conn.Reply(id, result))
}

// Fail answers a server request with an error object. rpcErr is usually a
// *jsonrpc.RPCError but any JSON value is written as given.
func (c *Client) Fail(id jsonrpc.RequestID, rpcErr any) error {
	conn := c.currentConn()
	if conn == nil {
		return ErrStdinUnavailable
	}
	if err, ok := rpcErr.(error); ok {
		if _, isRPC := err.(*jsonrpc.RPCError); !isRPC {
			rpcErr = jsonrpc.ErrorPayload(err)
		}
	}

	return writeError(conn.ReplyError(id, rpcErr))
}

// Notify sends a client notification.
func (c *Client) Notify(method string, params any) error {
	conn := c.currentConn()
	if conn == nil {
		return ErrStdinUnavailable
	}

	return writeError(conn.Notify(method, params))
}
