// Package middleware wraps outbound app-server calls.
package middleware

import (
	"context"
	"encoding/json"
)

// CallFunc performs one outbound call and returns its raw result.
type CallFunc func(ctx context.Context, method string, params any) (json.RawMessage, error)

// Middleware decorates a CallFunc.
type Middleware func(next CallFunc) CallFunc

// Chain composes middlewares into one. The first runs outermost.
func Chain(middlewares ...Middleware) Middleware {
	return func(next CallFunc) CallFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			if middlewares[i] != nil {
				next = middlewares[i](next)
			}
		}

		return next
	}
}
