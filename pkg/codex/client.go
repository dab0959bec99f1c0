package codex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/conneroisu/codex/pkg/codex/adapters/cli"
	"github.com/conneroisu/codex/pkg/codex/adapters/jsonrpc"
	"github.com/conneroisu/codex/pkg/codex/middleware"
	"github.com/conneroisu/codex/pkg/codex/observability"
	"github.com/conneroisu/codex/pkg/codex/options"
	"github.com/conneroisu/codex/pkg/codex/ports"
	"github.com/conneroisu/codex/pkg/codex/protocol"
	"github.com/conneroisu/codex/pkg/codexerrs"
)

// exitGrace is how long the exit monitor lets the stdout reader deliver
// lines that were written before the process died.
const exitGrace = 250 * time.Millisecond

// maxStderrLine bounds a single stderr line.
const maxStderrLine = 1024 * 1024

// Client owns at most one codex app-server process at a time.
// It is safe for concurrent use.
type Client struct {
	opts        *options.ClientOptions
	transport   ports.Transport
	logger      *zap.Logger
	metrics     *observability.Metrics
	middlewares []middleware.Middleware
	call        middleware.CallFunc
	handlers    map[string]RequestHandler
	events      *hub
	sessionID   string
	command     string

	// ids is shared by every process this client spawns.
	ids jsonrpc.Counter

	mu         sync.Mutex
	state      State
	start      *startFuture
	proc       ports.Process
	conn       *jsonrpc.Conn
	exited     chan struct{}
	procCancel context.CancelFunc
	closed     bool
}

// NewClient creates a client. No process is started until Start or the
// first typed method call.
func NewClient(opts *options.ClientOptions, clientOpts ...Option) (*Client, error) {
	if opts == nil {
		opts = &options.ClientOptions{}
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	c := &Client{
		opts:      opts,
		logger:    zap.NewNop(),
		handlers:  make(map[string]RequestHandler),
		events:    newHub(),
		sessionID: uuid.NewString(),
		command:   opts.Path() + " " + strings.Join(opts.CommandArgs(), " "),
	}
	for _, opt := range clientOpts {
		opt(c)
	}
	c.logger = c.logger.With(zap.String("session_id", c.sessionID))
	if c.transport == nil {
		c.transport = cli.NewAdapter(opts, cli.WithLogger(c.logger))
	}

	mws := c.middlewares
	if c.metrics != nil {
		mws = append([]middleware.Middleware{middleware.Metrics(c.metrics)}, mws...)
	}
	c.call = middleware.Chain(mws...)(c.roundTrip)

	return c, nil
}

// SessionID identifies this client in logs, errors, and event sinks.
func (c *Client) SessionID() string {
	return c.sessionID
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Pid returns the process id of the running app-server, or 0.
func (c *Client) Pid() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.proc == nil {
		return 0
	}

	return c.proc.Pid()
}

// Subscribe registers for events. Subscribe before Start to observe ready.
func (c *Client) Subscribe(opts ...SubscribeOption) *Subscription {
	return c.events.subscribe(opts...)
}

func (c *Client) emit(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	c.metrics.RecordEvent(string(ev.Type))
	c.events.emit(ev)
}

// Start spawns and initializes app-server unless that already happened.
// Concurrent callers share one startup and receive the same error. ctx
// bounds only the caller's wait, never the shared startup.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()

		return ErrClientClosed
	}
	f := c.start
	if f == nil {
		f = newStartFuture()
		c.start = f
		c.state = StateStarting
		go c.runStartup(f)
	}
	c.mu.Unlock()

	select {
	case <-f.done:
		return f.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Client) runStartup(f *startFuture) {
	err := c.startup(f)

	c.mu.Lock()
	current := c.start == f
	if current {
		if err != nil {
			c.state = StateFailed
		} else {
			c.state = StateReady
		}
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("codex app-server startup failed", zap.Error(err))
	} else if current {
		c.logger.Info("codex app-server ready")
		c.emit(Event{Type: EventReady})
	}
	f.complete(err)
}

func (c *Client) startup(f *startFuture) error {
	proc, err := c.transport.Spawn(context.Background())
	if err != nil {
		code, msg := codexerrs.ErrCodeProcessSpawnFailed, "failed to spawn codex app-server"
		if cli.IsNotFound(err) {
			code, msg = codexerrs.ErrCodeProcessNotFound, "codex executable not found"
		}
		perr := codexerrs.NewProcessError(
			code,
			msg,
			err,
			-1,
			"",
		).WithSessionID(c.sessionID).WithCommand(c.command)
		c.emit(Event{Type: EventError, Err: perr})

		return perr
	}

	stdout := proc.Stdout()
	if stdout == nil {
		discard(proc)

		return codexerrs.NewTransportError(
			codexerrs.ErrCodeTransportInit,
			"codex app-server did not provide stdout",
			nil,
		)
	}

	procCtx, cancel := context.WithCancel(context.Background())
	h := &inbound{c: c, ctx: procCtx}
	conn := jsonrpc.NewConn(proc.Stdin(), h,
		jsonrpc.WithIDSource(&c.ids),
		jsonrpc.WithLogger(c.logger),
	)
	h.conn = conn
	exited := make(chan struct{})

	c.mu.Lock()
	if c.start != f || c.closed {
		c.mu.Unlock()
		cancel()
		discard(proc)

		return ErrStartAborted
	}
	c.proc = proc
	c.conn = conn
	c.exited = exited
	c.procCancel = cancel
	c.mu.Unlock()

	c.logger.Debug("codex app-server started", zap.Int("pid", proc.Pid()))

	readDone := make(chan struct{})
	go c.readLoop(conn, stdout, readDone)
	if stderr := proc.Stderr(); stderr != nil {
		go c.stderrLoop(stderr)
	}
	go c.monitor(proc, conn, readDone, exited, cancel)

	info := c.opts.ResolvedClientInfo()
	params := protocol.InitializeParams{
		ClientInfo: protocol.ClientInfo{
			Name:    info.Name,
			Title:   info.Title,
			Version: info.Version,
		},
		Capabilities: &protocol.Capabilities{ExperimentalAPI: c.opts.Experimental()},
	}
	if _, err := c.call(procCtx, protocol.MethodInitialize, params); err != nil {
		return err
	}

	return nil
}

// discard terminates a process that never became current and releases it
// once it has exited.
func discard(proc ports.Process) {
	_ = proc.Terminate()
	go func() {
		proc.Wait()
		_ = proc.Close()
	}()
}

func (c *Client) readLoop(conn *jsonrpc.Conn, r io.Reader, done chan<- struct{}) {
	defer close(done)

	err := conn.ReadLoop(r, c.opts.LineLimit())
	if err == nil || conn.Detached() {
		return
	}

	terr := codexerrs.NewTransportError(
		codexerrs.ErrCodeReadFailed,
		"failed to read codex app-server stdout",
		err,
	)
	c.logger.Warn("codex stdout read failed", zap.Error(err))
	c.emit(Event{Type: EventError, Err: terr})
	conn.Fail(terr)
}

// stderrLoop emits one log event per non-empty line. Lines over
// maxStderrLine are discarded and reading continues, so the child never
// blocks on a full stderr pipe.
func (c *Client) stderrLoop(r io.Reader) {
	framer := jsonrpc.NewFramer(r, maxStderrLine)
	for {
		line, err := framer.Next()
		if errors.Is(err, jsonrpc.ErrLineTooLong) {
			c.logger.Debug("codex stderr line discarded", zap.Int("limit", maxStderrLine))

			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				_, _ = io.Copy(io.Discard, r)
			}

			return
		}

		text := strings.TrimSpace(string(line))
		if text == "" {
			continue
		}
		c.logger.Debug("codex stderr", zap.String("line", text))
		c.emit(Event{Type: EventLog, Log: text})
	}
}

// monitor waits for the process to exit. An exit of the current process
// rejects its pending calls and resets the session so the next call
// respawns. Exits caused by Shutdown are silent.
func (c *Client) monitor(
	proc ports.Process,
	conn *jsonrpc.Conn,
	readDone <-chan struct{},
	exited chan struct{},
	cancel context.CancelFunc,
) {
	defer close(exited)

	status := proc.Wait()
	select {
	case <-readDone:
	case <-time.After(exitGrace):
	}

	c.mu.Lock()
	current := c.conn == conn
	if current {
		c.proc = nil
		c.conn = nil
		c.exited = nil
		c.procCancel = nil
		c.start = nil
		c.state = StateUnstarted
	}
	c.mu.Unlock()
	cancel()

	if current {
		perr := codexerrs.NewProcessError(
			codexerrs.ErrCodeProcessExited,
			fmt.Sprintf("codex app-server exited (%s)", status),
			status.Err,
			status.Code,
			status.Signal,
		).WithSessionID(c.sessionID).WithCommand(c.command)

		rejected := conn.Fail(perr)
		code := "unknown"
		if status.Code >= 0 {
			code = strconv.Itoa(status.Code)
		}
		c.metrics.RecordExit(code)
		c.logger.Warn("codex app-server exited",
			zap.Int("pid", proc.Pid()),
			zap.Stringer("status", status),
			zap.Int("rejected", rejected),
			zap.Object("error", perr),
		)
		c.emit(Event{Type: EventError, Err: perr})
	}

	_ = conn.Close()
	_ = proc.Close()
}

// Shutdown terminates the process. Pending calls are dropped without
// completion, the session returns to StateUnstarted, and no error event is
// emitted. It waits for the process to exit until ctx ends.
func (c *Client) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	proc, conn, exited, cancel := c.proc, c.conn, c.exited, c.procCancel
	c.proc = nil
	c.conn = nil
	c.exited = nil
	c.procCancel = nil
	c.start = nil
	c.state = StateUnstarted
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn == nil {
		return nil
	}

	_ = conn.Close()
	if err := proc.Terminate(); err != nil {
		c.logger.Warn("failed to terminate codex app-server", zap.Error(err))
	}

	select {
	case <-exited:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close shuts down the process and closes every subscription. The client
// cannot be started again.
func (c *Client) Close(ctx context.Context) error {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	err := c.Shutdown(ctx)
	c.events.close()

	return err
}
