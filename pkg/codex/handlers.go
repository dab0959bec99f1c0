package codex

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/conneroisu/codex/pkg/codex/adapters/jsonrpc"
	"github.com/conneroisu/codex/pkg/codexerrs"
)

// ServerRequest is a request initiated by app-server. Answer it with
// Client.Respond or Client.Fail, or register a RequestHandler.
type ServerRequest struct {
	ID     jsonrpc.RequestID
	Method string
	Params json.RawMessage
}

// DecodeParams unmarshals the request params into v.
func (r *ServerRequest) DecodeParams(v any) error {
	return decodeParams(r.Method, r.Params, v)
}

// ServerNotification is a notification sent by app-server.
type ServerNotification struct {
	Method string
	Params json.RawMessage
}

// DecodeParams unmarshals the notification params into v.
func (n *ServerNotification) DecodeParams(v any) error {
	return decodeParams(n.Method, n.Params, v)
}

func decodeParams(method string, params json.RawMessage, v any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return codexerrs.NewProtocolError(
			codexerrs.ErrCodeInvalidMessage,
			"failed to decode params",
			err,
		).WithMethod(method)
	}

	return nil
}

// RequestHandler answers server requests. A returned *jsonrpc.RPCError is
// sent as-is; any other error is sent as an internal error.
type RequestHandler interface {
	HandleRequest(ctx context.Context, req *ServerRequest) (any, error)
}

// RequestHandlerFunc adapts a function to RequestHandler.
type RequestHandlerFunc func(ctx context.Context, req *ServerRequest) (any, error)

// HandleRequest implements RequestHandler.
func (f RequestHandlerFunc) HandleRequest(ctx context.Context, req *ServerRequest) (any, error) {
	return f(ctx, req)
}

// inbound routes one process's non-response traffic into client events.
type inbound struct {
	c    *Client
	conn *jsonrpc.Conn
	ctx  context.Context
}

var _ jsonrpc.Handler = (*inbound)(nil)

func (h *inbound) OnRequest(in jsonrpc.Inbound) {
	req := &ServerRequest{ID: in.ID, Method: in.Method, Params: in.Params}
	handler, ok := h.c.handlers[in.Method]

	h.c.emit(Event{Type: EventRequest, Request: req, Handled: ok})
	if ok {
		go h.c.serve(h.ctx, h.conn, handler, req)
	}
}

func (h *inbound) OnNotification(in jsonrpc.Inbound) {
	h.c.emit(Event{
		Type:         EventNotification,
		Notification: &ServerNotification{Method: in.Method, Params: in.Params},
	})
}

func (h *inbound) OnProtocolError(err error) {
	h.c.metrics.RecordParseError()
	h.c.logger.Warn("discarded codex message", zap.Error(err))
	h.c.emit(Event{Type: EventError, Err: err})
}

// serve runs handler and writes its answer to the process that asked.
func (c *Client) serve(ctx context.Context, conn *jsonrpc.Conn, handler RequestHandler, req *ServerRequest) {
	result, err := c.runHandler(ctx, handler, req)
	c.metrics.RecordHandled(req.Method, err)

	var werr error
	if err != nil {
		c.logger.Debug("request handler failed",
			zap.String("method", req.Method),
			zap.String("id", req.ID.String()),
			zap.Error(err),
		)
		werr = conn.ReplyError(req.ID, jsonrpc.ErrorPayload(err))
	} else {
		werr = conn.Reply(req.ID, result)
	}
	if werr != nil {
		c.logger.Warn("failed to answer server request",
			zap.String("method", req.Method),
			zap.String("id", req.ID.String()),
			zap.Error(werr),
		)
	}
}

func (c *Client) runHandler(ctx context.Context, handler RequestHandler, req *ServerRequest) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = codexerrs.NewCallbackError(
				codexerrs.ErrCodeCallbackFailed,
				fmt.Sprintf("request handler panicked: %v", r),
				nil,
				req.Method,
				false,
			)
		}
	}()

	return handler.HandleRequest(ctx, req)
}
