// Package supervisor keeps a codex client running across app-server
// crashes and executable upgrades.
package supervisor

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/conneroisu/codex/pkg/codex"
	"github.com/conneroisu/codex/pkg/codex/observability"
	"github.com/conneroisu/codex/pkg/codexerrs"
)

// Defaults for restart pacing.
const (
	DefaultRestartInterval = time.Second
	DefaultRestartBurst    = 3
	DefaultMaxRestarts     = 10
)

// ErrRestartLimit is returned by Run once the maximum restart count is
// reached.
var ErrRestartLimit = errors.New("supervisor: restart limit reached")

// Client is the part of codex.Client the supervisor drives.
type Client interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
	Subscribe(opts ...codex.SubscribeOption) *codex.Subscription
	State() codex.State
}

var _ Client = (*codex.Client)(nil)

// Supervisor restarts a client after unexpected exits.
type Supervisor struct {
	client      Client
	logger      *zap.Logger
	metrics     *observability.Metrics
	limiter     *rate.Limiter
	maxRestarts int
	binaryPath  string
	debounce    time.Duration

	restarts int
}

// Option configures a Supervisor.
type Option func(*Supervisor)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Supervisor) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics counts restarts in m.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Supervisor) {
		s.metrics = m
	}
}

// WithRestartRate paces restarts to r per second with the given burst.
func WithRestartRate(r rate.Limit, burst int) Option {
	return func(s *Supervisor) {
		s.limiter = rate.NewLimiter(r, burst)
	}
}

// WithMaxRestarts stops Run after n restarts. Zero means unlimited.
func WithMaxRestarts(n int) Option {
	return func(s *Supervisor) {
		s.maxRestarts = n
	}
}

// WithWatchBinary restarts the client when the file at path changes.
func WithWatchBinary(path string) Option {
	return func(s *Supervisor) {
		s.binaryPath = path
	}
}

// New creates a supervisor for client.
func New(client Client, opts ...Option) *Supervisor {
	s := &Supervisor{
		client:      client,
		logger:      zap.NewNop(),
		limiter:     rate.NewLimiter(rate.Every(DefaultRestartInterval), DefaultRestartBurst),
		maxRestarts: DefaultMaxRestarts,
		debounce:    200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Restarts returns how many restarts Run performed. It is only meaningful
// after Run returned.
func (s *Supervisor) Restarts() int {
	return s.restarts
}

// Run starts the client and keeps it running until ctx ends, the restart
// limit is hit, or the first start fails. The client is shut down when
// ctx ends.
func (s *Supervisor) Run(ctx context.Context) error {
	sub := s.client.Subscribe(codex.WithTypes(codex.EventError))
	defer sub.Close()

	w, err := s.watch()
	if err != nil {
		return err
	}
	defer w.close()

	if err := s.client.Start(ctx); err != nil {
		return err
	}
	s.logger.Info("supervising codex app-server")

	var reload <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			s.shutdown()

			return ctx.Err()

		case ev, ok := <-sub.C:
			if !ok {
				return nil
			}
			if codexerrs.CodeOf(ev.Err) != codexerrs.ErrCodeProcessExited {
				continue
			}
			if err := s.restart(ctx, false, "process exited", zap.Error(ev.Err)); err != nil {
				return err
			}

		case <-w.events():
			reload = time.After(s.debounce)

		case <-reload:
			reload = nil
			if err := s.restart(ctx, true, "codex executable changed", zap.String("path", s.binaryPath)); err != nil {
				return err
			}
		}
	}
}

// restart replaces the client's process. Unless force is set, a process
// the application already respawned while the restart was paced is kept.
func (s *Supervisor) restart(ctx context.Context, force bool, reason string, fields ...zap.Field) error {
	for {
		if s.maxRestarts > 0 && s.restarts >= s.maxRestarts {
			s.logger.Error("codex app-server restart limit reached", zap.Int("restarts", s.restarts))
			s.shutdown()

			return ErrRestartLimit
		}
		if err := s.limiter.Wait(ctx); err != nil {
			s.shutdown()

			return err
		}
		if !force && running(s.client.State()) {
			s.logger.Info("codex app-server already respawned, skipping restart", zap.String("reason", reason))

			return nil
		}

		s.restarts++
		s.metrics.RecordRestart()
		s.logger.Info("restarting codex app-server",
			append([]zap.Field{zap.String("reason", reason), zap.Int("restart", s.restarts)}, fields...)...,
		)

		if err := s.client.Shutdown(ctx); err != nil {
			s.logger.Warn("shutdown before restart failed", zap.Error(err))
		}
		err := s.client.Start(ctx)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.logger.Warn("codex app-server restart failed", zap.Error(err))
		reason = "restart failed"
		fields = nil
	}
}

func running(state codex.State) bool {
	return state == codex.StateStarting || state == codex.StateReady
}

func (s *Supervisor) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.client.Shutdown(ctx); err != nil {
		s.logger.Warn("codex app-server shutdown failed", zap.Error(err))
	}
}
