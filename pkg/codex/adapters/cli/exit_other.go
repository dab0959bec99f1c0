//go:build !unix

package cli

import (
	"os"

	"github.com/conneroisu/codex/pkg/codex/ports"
)

func exitStatus(state *os.ProcessState, err error) ports.ExitStatus {
	if state == nil {
		return ports.ExitStatus{Code: -1, Err: err}
	}

	return ports.ExitStatus{Code: state.ExitCode(), Err: err}
}
