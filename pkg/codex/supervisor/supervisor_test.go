package supervisor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/conneroisu/codex/pkg/codex"
	"github.com/conneroisu/codex/pkg/codex/internal/testutil"
	"github.com/conneroisu/codex/pkg/codex/observability"
	"github.com/conneroisu/codex/pkg/codex/options"
)

const waitFor = 3 * time.Second

// crashOnDemand exits with code 1 when the client calls "crash".
var crashOnDemand = testutil.Serve(func(p *testutil.Peer, msg testutil.Message) {
	if msg.Method == "crash" {
		p.Exit(1)

		return
	}
	_ = p.Reply(msg.ID, map[string]any{})
})

func newClient(t *testing.T) (*codex.Client, *testutil.FakeTransport) {
	t.Helper()

	ft := testutil.NewFakeTransport(crashOnDemand)
	c, err := codex.NewClient(&options.ClientOptions{}, codex.WithTransport(ft))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close(context.Background()) })

	return c, ft
}

func run(ctx context.Context, s *Supervisor) <-chan error {
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	return done
}

func waitReady(t *testing.T, c *codex.Client, ft *testutil.FakeTransport, spawns int) {
	t.Helper()

	require.Eventually(t, func() bool {
		return ft.Spawns() == spawns && c.State() == codex.StateReady
	}, waitFor, 10*time.Millisecond)
}

func TestRestartsAfterExit(t *testing.T) {
	c, ft := newClient(t)
	m := observability.NewMetrics()
	s := New(c, WithRestartRate(rate.Inf, 1), WithMetrics(m))

	ctx, cancel := context.WithCancel(context.Background())
	done := run(ctx, s)
	waitReady(t, c, ft, 1)

	_, err := c.Call(context.Background(), "crash", nil)
	require.Error(t, err)
	waitReady(t, c, ft, 2)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, 1, s.Restarts())
	assert.InDelta(t, 1, promtest.ToFloat64(m.Restarts), 0)
	assert.Equal(t, codex.StateUnstarted, c.State())
}

func TestKeepsProcessRespawnedDuringPacing(t *testing.T) {
	c, ft := newClient(t)
	s := New(c, WithRestartRate(rate.Every(500*time.Millisecond), 1))

	ctx, cancel := context.WithCancel(context.Background())
	done := run(ctx, s)
	waitReady(t, c, ft, 1)

	_, _ = c.Call(context.Background(), "crash", nil)
	waitReady(t, c, ft, 2)

	// The limiter is empty, so this restart waits while the app respawns.
	_, _ = c.Call(context.Background(), "crash", nil)
	require.Eventually(t, func() bool { return c.State() == codex.StateUnstarted }, waitFor, 5*time.Millisecond)
	_, err := c.ListThreads(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, 3, ft.Spawns())
	pid := c.Pid()

	time.Sleep(800 * time.Millisecond)
	assert.Equal(t, 3, ft.Spawns())
	assert.Equal(t, pid, c.Pid())
	assert.Zero(t, ft.Peers()[2].Process().Terminated())

	callCtx, callCancel := context.WithTimeout(context.Background(), waitFor)
	defer callCancel()
	_, err = c.Call(callCtx, "ping", nil)
	require.NoError(t, err)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, 1, s.Restarts())
}

func TestRestartLimit(t *testing.T) {
	c, ft := newClient(t)
	s := New(c, WithRestartRate(rate.Inf, 1), WithMaxRestarts(1))

	done := run(context.Background(), s)
	waitReady(t, c, ft, 1)

	_, _ = c.Call(context.Background(), "crash", nil)
	waitReady(t, c, ft, 2)
	_, _ = c.Call(context.Background(), "crash", nil)

	select {
	case err := <-done:
		assert.ErrorIs(t, err, ErrRestartLimit)
	case <-time.After(waitFor):
		t.Fatal("Run did not stop at the restart limit")
	}
	assert.Equal(t, 2, ft.Spawns())
}

func TestInitialStartFailure(t *testing.T) {
	c, ft := newClient(t)
	ft.SimulateSpawnError(errors.New("not installed"))

	err := New(c).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not installed")
}

func TestRestartsWhenBinaryChanges(t *testing.T) {
	bin := filepath.Join(t.TempDir(), "codex")
	require.NoError(t, os.WriteFile(bin, []byte("v1"), 0o755))

	c, ft := newClient(t)
	s := New(c, WithRestartRate(rate.Inf, 1), WithWatchBinary(bin))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := run(ctx, s)
	waitReady(t, c, ft, 1)

	require.NoError(t, os.WriteFile(bin, []byte("v2"), 0o755))
	waitReady(t, c, ft, 2)
	assert.Equal(t, 1, ft.Peers()[0].Process().Terminated())

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestWatchMissingDirectory(t *testing.T) {
	c, _ := newClient(t)
	s := New(c, WithWatchBinary(filepath.Join(t.TempDir(), "missing", "codex")))

	err := s.Run(context.Background())
	assert.Error(t, err)
}
