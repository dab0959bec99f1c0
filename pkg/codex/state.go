package codex

// State is the lifecycle state of a client session.
type State int

const (
	// StateUnstarted means no process is running.
	StateUnstarted State = iota
	// StateStarting means a process is being spawned and initialized.
	StateStarting
	// StateReady means initialize succeeded.
	StateReady
	// StateFailed means startup failed. It stays until the process exits
	// or Shutdown is called.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnstarted:
		return "unstarted"
	case StateStarting:
		return "starting"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// startFuture is the single-assignment result of one startup.
type startFuture struct {
	done chan struct{}
	err  error
}

func newStartFuture() *startFuture {
	return &startFuture{done: make(chan struct{})}
}

func (f *startFuture) complete(err error) {
	f.err = err
	close(f.done)
}
