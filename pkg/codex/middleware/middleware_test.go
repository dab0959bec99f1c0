package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/conneroisu/codex/pkg/codex/middleware"
	"github.com/conneroisu/codex/pkg/codex/observability"
)

func echo(_ context.Context, method string, _ any) (json.RawMessage, error) {
	return json.RawMessage(`"` + method + `"`), nil
}

func slow(ctx context.Context, _ string, _ any) (json.RawMessage, error) {
	select {
	case <-time.After(time.Second):
		return json.RawMessage(`{}`), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	tag := func(name string) middleware.Middleware {
		return func(next middleware.CallFunc) middleware.CallFunc {
			return func(ctx context.Context, method string, params any) (json.RawMessage, error) {
				order = append(order, name)

				return next(ctx, method, params)
			}
		}
	}

	call := middleware.Chain(tag("outer"), nil, tag("inner"))(echo)
	out, err := call(context.Background(), "m", nil)
	require.NoError(t, err)
	assert.JSONEq(t, `"m"`, string(out))
	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestTimeout(t *testing.T) {
	call := middleware.Timeout(20 * time.Millisecond)(slow)
	_, err := call(context.Background(), "m", nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	call = middleware.Timeout(time.Second)(echo)
	_, err = call(context.Background(), "m", nil)
	assert.NoError(t, err)

	call = middleware.Timeout(0)(echo)
	_, err = call(context.Background(), "m", nil)
	assert.NoError(t, err)
}

func TestRateLimitHonoursContext(t *testing.T) {
	call := middleware.RateLimit(0.001, 1)(echo)

	_, err := call(context.Background(), "first", nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = call(ctx, "second", nil)
	require.Error(t, err)
}

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	failing := func(context.Context, string, any) (json.RawMessage, error) {
		return nil, errors.New("boom")
	}

	_, _ = middleware.Logging(zap.New(core))(echo)(context.Background(), "ok/method", nil)
	_, _ = middleware.Logging(zap.New(core))(failing)(context.Background(), "bad/method", nil)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "codex call", entries[0].Message)
	assert.Equal(t, "codex call failed", entries[1].Message)
	assert.Equal(t, "bad/method", entries[1].ContextMap()["method"])
}

func TestMetricsMiddleware(t *testing.T) {
	m := observability.NewMetrics()
	call := middleware.Metrics(m)(echo)

	_, err := call(context.Background(), "model/list", nil)
	require.NoError(t, err)

	assert.InDelta(t, 1, testutil.ToFloat64(m.Calls.WithLabelValues("model/list", "ok")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.Pending), 0)
}
