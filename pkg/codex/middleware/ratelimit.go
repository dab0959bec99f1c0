package middleware

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimit paces calls with a token bucket of r calls per second and the
// given burst. Callers wait for a token until ctx ends.
func RateLimit(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)

	return func(next CallFunc) CallFunc {
		return func(ctx context.Context, method string, params any) (json.RawMessage, error) {
			if err := limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limit %s: %w", method, err)
			}

			return next(ctx, method, params)
		}
	}
}
