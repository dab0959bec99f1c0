// Package testutil provides fakes for exercising the client without a real
// codex binary.
package testutil

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/conneroisu/codex/pkg/codex/ports"
)

// Script drives one fake process from the server side.
type Script func(p *Peer)

// FakeTransport simulates spawning app-server for hermetic testing.
// Every Spawn creates a FakeProcess and runs the script against its Peer.
type FakeTransport struct {
	mu         sync.Mutex
	script     Script
	spawnErr   error
	omitStdout bool
	spawns     int
	peers      []*Peer
	spawned    chan *Peer
}

var _ ports.Transport = (*FakeTransport)(nil)

// NewFakeTransport creates a fake transport that runs script per process.
// A nil script leaves the peer idle.
func NewFakeTransport(script Script) *FakeTransport {
	return &FakeTransport{
		script:  script,
		spawned: make(chan *Peer, 64),
	}
}

// SimulateSpawnError makes subsequent spawns fail with err.
func (f *FakeTransport) SimulateSpawnError(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.spawnErr = err
}

// OmitStdout makes subsequent processes report a nil stdout.
func (f *FakeTransport) OmitStdout() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.omitStdout = true
}

// Spawns returns the number of Spawn calls.
func (f *FakeTransport) Spawns() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.spawns
}

// Peers returns the peers of every successful spawn, oldest first.
func (f *FakeTransport) Peers() []*Peer {
	f.mu.Lock()
	defer f.mu.Unlock()

	return append([]*Peer(nil), f.peers...)
}

// WaitPeer returns the next spawned peer, or an error after timeout.
func (f *FakeTransport) WaitPeer(timeout time.Duration) (*Peer, error) {
	select {
	case p := <-f.spawned:
		return p, nil
	case <-time.After(timeout):
		return nil, errors.New("testutil: no process spawned")
	}
}

// Spawn implements ports.Transport.
func (f *FakeTransport) Spawn(ctx context.Context) (ports.Process, error) {
	f.mu.Lock()
	f.spawns++
	if f.spawnErr != nil {
		err := f.spawnErr
		f.mu.Unlock()

		return nil, err
	}
	proc := newFakeProcess(len(f.peers)+1000, f.omitStdout)
	f.peers = append(f.peers, proc.peer)
	script := f.script
	f.mu.Unlock()

	select {
	case f.spawned <- proc.peer:
	default:
	}
	if script != nil {
		go script(proc.peer)
	}

	return proc, nil
}

// FakeProcess is an in-memory app-server process.
type FakeProcess struct {
	pid        int
	omitStdout bool

	stdinR  *io.PipeReader
	stdinW  *io.PipeWriter
	stdoutR *io.PipeReader
	stdoutW *io.PipeWriter
	stderrR *io.PipeReader
	stderrW *io.PipeWriter

	peer *Peer

	mu         sync.Mutex
	exited     bool
	terminated int
	status     ports.ExitStatus
	done       chan struct{}
}

var _ ports.Process = (*FakeProcess)(nil)

func newFakeProcess(pid int, omitStdout bool) *FakeProcess {
	p := &FakeProcess{pid: pid, omitStdout: omitStdout, done: make(chan struct{})}
	p.stdinR, p.stdinW = io.Pipe()
	p.stdoutR, p.stdoutW = io.Pipe()
	p.stderrR, p.stderrW = io.Pipe()
	p.peer = &Peer{proc: p, lines: make(chan Message, 1024)}
	go p.peer.readStdin(p.stdinR)

	return p
}

func (p *FakeProcess) Stdin() io.WriteCloser { return p.stdinW }

func (p *FakeProcess) Stdout() io.Reader {
	if p.omitStdout {
		return nil
	}

	return p.stdoutR
}

func (p *FakeProcess) Stderr() io.Reader { return p.stderrR }
func (p *FakeProcess) Pid() int          { return p.pid }

// Wait blocks until the peer exits or the process is terminated.
func (p *FakeProcess) Wait() ports.ExitStatus {
	<-p.done

	p.mu.Lock()
	defer p.mu.Unlock()

	return p.status
}

// Terminate ends the process as if by SIGTERM.
func (p *FakeProcess) Terminate() error {
	p.mu.Lock()
	p.terminated++
	p.mu.Unlock()
	p.exit(ports.ExitStatus{Code: -1, Signal: "SIGTERM"})

	return nil
}

// Terminated returns how often Terminate was called.
func (p *FakeProcess) Terminated() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.terminated
}

// Close releases the client side of the pipes.
func (p *FakeProcess) Close() error {
	_ = p.stdinW.Close()
	_ = p.stdoutR.Close()
	_ = p.stderrR.Close()

	return nil
}

func (p *FakeProcess) exit(status ports.ExitStatus) {
	p.mu.Lock()
	if p.exited {
		p.mu.Unlock()

		return
	}
	p.exited = true
	p.status = status
	p.mu.Unlock()

	_ = p.stdoutW.Close()
	_ = p.stderrW.Close()
	_ = p.stdinR.CloseWithError(io.ErrClosedPipe)
	close(p.done)
}

// Message is one line the client wrote to stdin.
type Message struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Method string          `json:"method,omitempty"`
	Params json.RawMessage `json:"params,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  json.RawMessage `json:"error,omitempty"`

	// Raw is the line as written, without the newline.
	Raw string `json:"-"`
	// HasParams reports whether the params member was present.
	HasParams bool `json:"-"`
}

// Peer is the server side of a FakeProcess.
type Peer struct {
	proc  *FakeProcess
	lines chan Message

	wmu     sync.Mutex
	mu      sync.Mutex
	written []Message
}

func (p *Peer) readStdin(r io.Reader) {
	defer close(p.lines)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		raw := scanner.Text()
		var msg Message
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			msg = Message{}
		}
		var members map[string]json.RawMessage
		if json.Unmarshal([]byte(raw), &members) == nil {
			_, msg.HasParams = members["params"]
		}
		msg.Raw = raw

		p.mu.Lock()
		p.written = append(p.written, msg)
		p.mu.Unlock()

		p.lines <- msg
	}
}

// Process returns the fake process this peer belongs to.
func (p *Peer) Process() *FakeProcess { return p.proc }

// Next returns the next line the client wrote, or io.EOF once stdin is
// closed. It gives up after five seconds.
func (p *Peer) Next() (Message, error) {
	select {
	case msg, ok := <-p.lines:
		if !ok {
			return Message{}, io.EOF
		}

		return msg, nil
	case <-time.After(5 * time.Second):
		return Message{}, errors.New("testutil: timed out waiting for client message")
	}
}

// Written returns every line the client wrote so far.
func (p *Peer) Written() []Message {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]Message(nil), p.written...)
}

// WriteLine writes raw text plus a newline to the client's stdout.
func (p *Peer) WriteLine(line string) error {
	return p.WriteRaw(line + "\n")
}

// WriteRaw writes data to the client's stdout unchanged.
func (p *Peer) WriteRaw(data string) error {
	p.wmu.Lock()
	defer p.wmu.Unlock()

	_, err := io.WriteString(p.proc.stdoutW, data)

	return err
}

// Send writes v as one JSON line.
func (p *Peer) Send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return p.WriteLine(string(data))
}

// Reply answers the call with id.
func (p *Peer) Reply(id json.RawMessage, result any) error {
	return p.Send(map[string]any{"id": id, "result": result})
}

// ReplyError fails the call with id.
func (p *Peer) ReplyError(id json.RawMessage, code int, message string) error {
	return p.Send(map[string]any{"id": id, "error": map[string]any{"code": code, "message": message}})
}

// Request sends a server-initiated request.
func (p *Peer) Request(id any, method string, params any) error {
	return p.Send(map[string]any{"id": id, "method": method, "params": params})
}

// Notify sends a server notification.
func (p *Peer) Notify(method string, params any) error {
	return p.Send(map[string]any{"method": method, "params": params})
}

// Log writes one line to stderr.
func (p *Peer) Log(line string) error {
	_, err := fmt.Fprintln(p.proc.stderrW, line)

	return err
}

// Exit ends the process with code. A negative code reports it as unknown.
func (p *Peer) Exit(code int) {
	p.proc.exit(ports.ExitStatus{Code: code})
}

// Serve answers initialize with an empty result and passes every other
// message to handle until stdin closes.
func Serve(handle func(p *Peer, msg Message)) Script {
	return func(p *Peer) {
		for {
			msg, err := p.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				continue
			}
			if msg.Method == "initialize" {
				_ = p.Reply(msg.ID, map[string]any{})

				continue
			}
			if handle != nil {
				handle(p, msg)
			}
		}
	}
}
