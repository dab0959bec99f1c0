//go:build unix

package cli

import (
	"os"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/conneroisu/codex/pkg/codex/ports"
)

// exitStatus reports the exit code, or the signal name such as "SIGTERM"
// when the process was killed by a signal.
func exitStatus(state *os.ProcessState, err error) ports.ExitStatus {
	if state == nil {
		return ports.ExitStatus{Code: -1, Err: err}
	}

	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		name := unix.SignalName(ws.Signal())
		if name == "" {
			name = ws.Signal().String()
		}

		return ports.ExitStatus{Code: -1, Signal: name, Err: err}
	}

	return ports.ExitStatus{Code: state.ExitCode(), Err: err}
}
