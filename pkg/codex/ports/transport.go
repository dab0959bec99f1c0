// Package ports defines interfaces that the client needs from infrastructure.
// These are "ports" in hexagonal architecture - contracts defined by
// client needs, not by external systems.
package ports

import (
	"context"
	"fmt"
	"io"
)

// Transport launches codex app-server processes.
// The cli adapter is the production implementation; tests use fakes.
type Transport interface {
	// Spawn starts a new process. ctx bounds only the spawn itself, never
	// the lifetime of the process.
	Spawn(ctx context.Context) (Process, error)
}

// Process is one running app-server.
type Process interface {
	// Stdin accepts newline-delimited JSON.
	Stdin() io.WriteCloser
	// Stdout yields newline-delimited JSON. It may be nil if the process
	// did not provide one.
	Stdout() io.Reader
	// Stderr yields free-form diagnostics. It may be nil.
	Stderr() io.Reader
	// Pid returns the OS process id, or 0 when there is none.
	Pid() int
	// Wait blocks until the process exits.
	Wait() ExitStatus
	// Terminate asks the process to stop.
	Terminate() error
	// Close releases the pipes once the process has exited.
	Close() error
}

// ExitStatus describes how a process ended. Code is -1 and Signal is
// empty when unknown.
type ExitStatus struct {
	Code   int
	Signal string
	Err    error
}

// String renders the status as "code=<c>, signal=<s>".
func (s ExitStatus) String() string {
	code := "unknown"
	if s.Code >= 0 {
		code = fmt.Sprintf("%d", s.Code)
	}
	signal := "unknown"
	if s.Signal != "" {
		signal = s.Signal
	}

	return fmt.Sprintf("code=%s, signal=%s", code, signal)
}
