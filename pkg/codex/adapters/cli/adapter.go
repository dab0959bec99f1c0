// Package cli launches codex app-server as a child process.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"go.uber.org/zap"

	"github.com/conneroisu/codex/pkg/codex/options"
	"github.com/conneroisu/codex/pkg/codex/ports"
)

// Adapter implements ports.Transport by running the codex executable.
// Each Spawn starts an independent process.
type Adapter struct {
	options  *options.ClientOptions
	logger   *zap.Logger
	lookPath func(string) (string, error)
	environ  func() []string
}

// Verify interface compliance at compile time.
var _ ports.Transport = (*Adapter)(nil)

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger used for spawn diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAdapter creates a CLI transport for opts. A nil opts uses defaults.
func NewAdapter(opts *options.ClientOptions, adapterOpts ...Option) *Adapter {
	if opts == nil {
		opts = &options.ClientOptions{}
	}
	a := &Adapter{
		options:  opts,
		logger:   zap.NewNop(),
		lookPath: exec.LookPath,
		environ:  os.Environ,
	}
	for _, opt := range adapterOpts {
		opt(a)
	}

	return a
}

// Spawn starts codex app-server. ctx is only checked before starting; the
// process outlives it.
func (a *Adapter) Spawn(ctx context.Context) (ports.Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := a.findCLI()
	if err != nil {
		return nil, &CLIError{Stage: StageDiscover, Message: "codex executable not found", Cause: err}
	}

	cmd := exec.Command(path, a.BuildArgs()...)
	cmd.Env = BuildEnvironment(a.environ(), a.options.Env)
	if a.options.Cwd != nil && *a.options.Cwd != "" {
		cmd.Dir = *a.options.Cwd
	}

	proc, err := startProcess(cmd)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("spawned codex app-server",
		zap.String("path", path),
		zap.Strings("args", cmd.Args[1:]),
		zap.Int("pid", proc.Pid()),
	)

	return proc, nil
}

// CommandLine returns the configured executable and arguments, for
// diagnostics.
func (a *Adapter) CommandLine() string {
	return fmt.Sprintf("%s %s", a.options.Path(), joinArgs(a.BuildArgs()))
}
