package codex

import (
	"errors"
	"fmt"

	"github.com/conneroisu/codex/pkg/codex/adapters/jsonrpc"
	"github.com/conneroisu/codex/pkg/codexerrs"
)

var (
	// ErrNotRunning is returned by Call when no app-server process exists.
	ErrNotRunning = codexerrs.NewClientError(
		codexerrs.ErrCodeNotRunning,
		"codex app-server is not running",
		nil,
	)

	// ErrStdinUnavailable is returned when a message cannot be written.
	ErrStdinUnavailable = codexerrs.NewTransportError(
		codexerrs.ErrCodeWriteFailed,
		"codex app-server stdin is not available",
		nil,
	)

	// ErrClientClosed is returned after Close.
	ErrClientClosed = codexerrs.NewClientError(
		codexerrs.ErrCodeClientClosed,
		"codex client is closed",
		nil,
	)

	// ErrStartAborted is returned to Start callers when Shutdown interrupts
	// startup.
	ErrStartAborted = codexerrs.NewClientError(
		codexerrs.ErrCodeInvalidState,
		"codex app-server start was aborted",
		nil,
	)
)

// writeError maps a Conn write failure to ErrStdinUnavailable.
func writeError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, jsonrpc.ErrConnClosed) {
		return fmt.Errorf("%w: %w", ErrStdinUnavailable, err)
	}

	return err
}
