package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/conneroisu/codex/pkg/codex"
	"github.com/conneroisu/codex/pkg/codex/eventsink"
	redissink "github.com/conneroisu/codex/pkg/codex/eventsink/redis"
	"github.com/conneroisu/codex/pkg/codex/observability"
	"github.com/conneroisu/codex/pkg/codex/protocol"
	"github.com/conneroisu/codex/pkg/codex/supervisor"
)

// NewWatchCmd streams events as NDJSON until interrupted.
func NewWatchCmd(opts *Options) *cobra.Command {
	var approve bool
	var metricsAddr string
	var redisEnabled bool
	var noSupervise bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run app-server and stream its events as NDJSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			metrics := observability.NewMetrics()

			approvals := codex.AutoDecline()
			if approve {
				approvals = codex.AutoApprove(protocol.DecisionAccept)
			}

			s, err := newSession(opts, codex.WithMetrics(metrics), codex.WithApprovals(approvals))
			if err != nil {
				return err
			}
			defer closeSession(s)

			if cmd.Flags().Changed("metrics-addr") {
				s.cfg.Metrics.Addr = metricsAddr
			}
			if cmd.Flags().Changed("redis") {
				s.cfg.Redis.Enabled = redisEnabled
			}
			if noSupervise {
				s.cfg.Supervisor.Enabled = false
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runWatch(ctx, cmd, s, metrics)
		},
	}

	cmd.Flags().BoolVar(&approve, "approve", false, "Accept approval requests instead of declining them")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address")
	cmd.Flags().BoolVar(&redisEnabled, "redis", false, "Also publish events to the configured Redis stream")
	cmd.Flags().BoolVar(&noSupervise, "no-supervise", false, "Exit instead of restarting app-server when it dies")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, s *session, metrics *observability.Metrics) error {
	sinks := eventsink.Multi{eventsink.NewWriterSink(cmd.OutOrStdout())}
	if s.cfg.Redis.Enabled {
		rs := redissink.New(redissink.Config{
			Addr:      s.cfg.Redis.Addr,
			Password:  s.cfg.Redis.Password,
			DB:        s.cfg.Redis.DB,
			KeyPrefix: s.cfg.Redis.KeyPrefix,
			MaxLen:    s.cfg.Redis.MaxLen,
		})
		defer rs.Close()
		if err := rs.Ping(ctx); err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		sinks = append(sinks, rs)
		s.logger.Info("forwarding events to redis", zap.String("stream", rs.Stream()))
	}

	// Subscribe before starting so ready reaches the sinks.
	sub := s.client.Subscribe()
	defer sub.Close()
	forwardDone := make(chan error, 1)
	go func() {
		forwardDone <- eventsink.ForwardSubscription(ctx, s.client.SessionID(), sub, sinks)
	}()

	if addr := s.cfg.Metrics.Addr; addr != "" {
		srv := serveMetrics(addr, metrics, s.logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	runErr := make(chan error, 1)
	go func() { runErr <- run(ctx, s, metrics) }()

	select {
	case err := <-runErr:
		if errors.Is(err, context.Canceled) {
			return nil
		}

		return err
	case err := <-forwardDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("forward events: %w", err)
		}

		return nil
	}
}

// run keeps app-server alive under the supervisor, or runs it once.
func run(ctx context.Context, s *session, metrics *observability.Metrics) error {
	sc := s.cfg.Supervisor
	if !sc.Enabled {
		if err := s.client.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()

		return ctx.Err()
	}

	supOpts := []supervisor.Option{
		supervisor.WithLogger(s.logger),
		supervisor.WithMetrics(metrics),
		supervisor.WithMaxRestarts(sc.MaxRestarts),
		supervisor.WithRestartRate(rate.Every(sc.RestartInterval), sc.RestartBurst),
	}
	if sc.WatchBinary {
		if path, err := exec.LookPath(s.cfg.Codex.Path); err == nil {
			supOpts = append(supOpts, supervisor.WithWatchBinary(path))
		} else {
			s.logger.Warn("cannot watch codex executable", zap.Error(err))
		}
	}

	return supervisor.New(s.client, supOpts...).Run(ctx)
}

func serveMetrics(addr string, metrics *observability.Metrics, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	return srv
}
