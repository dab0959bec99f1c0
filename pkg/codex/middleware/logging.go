package middleware

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Logging logs every call with its method, duration, and error.
func Logging(logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(next CallFunc) CallFunc {
		return func(ctx context.Context, method string, params any) (json.RawMessage, error) {
			start := time.Now()
			result, err := next(ctx, method, params)

			fields := []zap.Field{
				zap.String("method", method),
				zap.Duration("duration", time.Since(start)),
			}
			if err != nil {
				logger.Warn("codex call failed", append(fields, zap.Error(err))...)
			} else {
				logger.Debug("codex call", fields...)
			}

			return result, err
		}
	}
}
