package codex

import (
	"go.uber.org/zap"

	"github.com/conneroisu/codex/pkg/codex/middleware"
	"github.com/conneroisu/codex/pkg/codex/observability"
	"github.com/conneroisu/codex/pkg/codex/ports"
)

// Option configures a Client's collaborators.
type Option func(*Client)

// WithLogger sets the logger. The default discards.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithTransport replaces the CLI spawner, typically with a test fake.
func WithTransport(t ports.Transport) Option {
	return func(c *Client) {
		if t != nil {
			c.transport = t
		}
	}
}

// WithMetrics records client metrics into m. Call metrics are recorded by
// an implicit middleware.Metrics layer placed outermost.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithMiddleware appends middlewares around every outbound call,
// including initialize.
func WithMiddleware(mws ...middleware.Middleware) Option {
	return func(c *Client) {
		c.middlewares = append(c.middlewares, mws...)
	}
}

// WithRequestHandler answers server requests for method with h. The
// request is still delivered to subscribers, marked Handled.
func WithRequestHandler(method string, h RequestHandler) Option {
	return func(c *Client) {
		if h != nil {
			c.handlers[method] = h
		}
	}
}
