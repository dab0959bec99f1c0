package cli

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"

	"github.com/conneroisu/codex/pkg/codex/ports"
)

// process is a started codex app-server.
type process struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *os.File
	stderr *os.File

	done   chan struct{}
	status ports.ExitStatus

	closeOnce sync.Once
}

var _ ports.Process = (*process)(nil)

// startProcess wires the pipes and starts cmd.
// stdout and stderr use os.Pipe so exec.Cmd.Wait does not close the read
// ends while a reader is still draining them.
func startProcess(cmd *exec.Cmd) (*process, error) {
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, &CLIError{Stage: StagePipe, Message: "stdin pipe failed", Cause: err}
	}

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		_ = stdin.Close()

		return nil, &CLIError{Stage: StagePipe, Message: "stdout pipe failed", Cause: err}
	}
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		_ = stdin.Close()
		closeAll(stdoutR, stdoutW)

		return nil, &CLIError{Stage: StagePipe, Message: "stderr pipe failed", Cause: err}
	}
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		closeAll(stdoutR, stdoutW, stderrR, stderrW)

		return nil, &CLIError{Stage: StageStart, Message: "process start failed", Cause: err}
	}

	// The child holds its own copies of the write ends.
	closeAll(stdoutW, stderrW)

	p := &process{
		cmd:    cmd,
		stdin:  stdin,
		stdout: stdoutR,
		stderr: stderrR,
		done:   make(chan struct{}),
	}
	go p.wait()

	return p, nil
}

func (p *process) wait() {
	err := p.cmd.Wait()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		err = nil
	}
	p.status = exitStatus(p.cmd.ProcessState, err)
	close(p.done)
}

func (p *process) Stdin() io.WriteCloser { return p.stdin }
func (p *process) Stdout() io.Reader     { return p.stdout }
func (p *process) Stderr() io.Reader     { return p.stderr }

func (p *process) Pid() int {
	if p.cmd.Process == nil {
		return 0
	}

	return p.cmd.Process.Pid
}

// Wait blocks until the process exits and returns its status.
func (p *process) Wait() ports.ExitStatus {
	<-p.done

	return p.status
}

// Terminate sends SIGTERM, falling back to Kill where signals are not
// supported.
func (p *process) Terminate() error {
	select {
	case <-p.done:
		return nil
	default:
	}

	err := p.cmd.Process.Signal(syscall.SIGTERM)
	if err == nil || errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	if killErr := p.cmd.Process.Kill(); killErr != nil && !errors.Is(killErr, os.ErrProcessDone) {
		return killErr
	}

	return nil
}

// Close closes stdin and the read ends of stdout and stderr.
func (p *process) Close() error {
	p.closeOnce.Do(func() {
		_ = p.stdin.Close()
		closeAll(p.stdout, p.stderr)
	})

	return nil
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		_ = f.Close()
	}
}
