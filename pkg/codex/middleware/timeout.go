package middleware

import (
	"context"
	"encoding/json"
	"time"
)

// Timeout bounds each call by d. The pending entry of a timed-out call is
// abandoned and context.DeadlineExceeded is returned.
func Timeout(d time.Duration) Middleware {
	return func(next CallFunc) CallFunc {
		return func(ctx context.Context, method string, params any) (json.RawMessage, error) {
			if d <= 0 {
				return next(ctx, method, params)
			}
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()

			return next(ctx, method, params)
		}
	}
}
