package middleware

import (
	"context"
	"encoding/json"
	"time"

	"github.com/conneroisu/codex/pkg/codex/observability"
)

// Metrics records call counts, latency, and the pending gauge.
func Metrics(m *observability.Metrics) Middleware {
	return func(next CallFunc) CallFunc {
		return func(ctx context.Context, method string, params any) (json.RawMessage, error) {
			start := time.Now()
			m.IncPending()
			result, err := next(ctx, method, params)
			m.DecPending()
			m.RecordCall(method, time.Since(start), err)

			return result, err
		}
	}
}
