// Package cli implements the codexrpc command tree.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conneroisu/codex/internal/config"
	"github.com/conneroisu/codex/internal/logging"
	"github.com/conneroisu/codex/internal/version"
	"github.com/conneroisu/codex/pkg/codex"
	"github.com/conneroisu/codex/pkg/codex/middleware"
)

// Options holds global CLI options.
type Options struct {
	ConfigPath string
	LogLevel   string
	LogFormat  string
	CodexPath  string
}

// NewRootCmd constructs the base CLI command tree.
func NewRootCmd() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:           "codexrpc",
		Short:         "Drive codex app-server over JSON-RPC",
		Version:       version.Full(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "Path to config file (default: ./codexrpc.yaml)")
	flags.StringVar(&opts.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flags.StringVar(&opts.LogFormat, "log-format", "", "Log format: console or json")
	flags.StringVar(&opts.CodexPath, "codex-path", "", "Path to the codex executable")

	cmd.AddCommand(NewCallCmd(opts))
	cmd.AddCommand(NewThreadsCmd(opts))
	cmd.AddCommand(NewModelsCmd(opts))
	cmd.AddCommand(NewWatchCmd(opts))
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig wraps config loading with shared options. Flags win over the
// file and the environment.
func loadConfig(opts *Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if opts.LogFormat != "" {
		cfg.Logging.Format = opts.LogFormat
	}
	if opts.CodexPath != "" {
		cfg.Codex.Path = opts.CodexPath
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// session is one configured client plus its logger.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	client *codex.Client
}

// newSession loads configuration and builds a client. extra options are
// applied after the defaults.
func newSession(opts *Options, extra ...codex.Option) (*session, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger, err := logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}

	clientOpts := []codex.Option{
		codex.WithLogger(logger),
		codex.WithMiddleware(callMiddleware(cfg, logger)...),
	}
	clientOpts = append(clientOpts, extra...)

	client, err := codex.NewClient(cfg.ClientOptions(), clientOpts...)
	if err != nil {
		_ = logger.Sync()

		return nil, err
	}

	return &session{cfg: cfg, logger: logger, client: client}, nil
}

func callMiddleware(cfg *config.Config, logger *zap.Logger) []middleware.Middleware {
	mws := []middleware.Middleware{middleware.Logging(logger)}
	if cfg.Codex.CallsPerSecond > 0 {
		mws = append(mws, middleware.RateLimit(cfg.Codex.CallsPerSecond, cfg.Codex.CallBurst))
	}
	if cfg.Codex.CallTimeout > 0 {
		mws = append(mws, middleware.Timeout(cfg.Codex.CallTimeout))
	}

	return mws
}

func (s *session) close(ctx context.Context) {
	if err := s.client.Close(ctx); err != nil {
		s.logger.Warn("failed to close codex client", zap.Error(err))
	}
	_ = s.logger.Sync()
}

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
