package codex

import (
	"sync"
	"time"
)

// EventType names the kinds of events a Client emits.
type EventType string

const (
	// EventReady fires once initialize succeeded.
	EventReady EventType = "ready"
	// EventLog carries one non-empty stderr line.
	EventLog EventType = "log"
	// EventError carries an asynchronous failure: spawn, parse, read, or exit.
	EventError EventType = "error"
	// EventRequest carries a server-initiated request.
	EventRequest EventType = "request"
	// EventNotification carries a server notification.
	EventNotification EventType = "notification"
)

// Event is one occurrence delivered to subscribers. Only the field matching
// Type is set.
type Event struct {
	Type EventType
	Time time.Time

	Log          string
	Err          error
	Request      *ServerRequest
	Notification *ServerNotification

	// Handled is true for requests answered by a registered RequestHandler.
	Handled bool
}

// SubscribeOption configures a Subscription.
type SubscribeOption func(*Subscription)

// WithTypes restricts delivery to the listed event types.
func WithTypes(types ...EventType) SubscribeOption {
	return func(s *Subscription) {
		if len(types) == 0 {
			return
		}
		s.types = make(map[EventType]struct{}, len(types))
		for _, t := range types {
			s.types[t] = struct{}{}
		}
	}
}

// WithBufferLimit bounds the subscriber queue to n events. When it is full
// the oldest event is dropped. The default is unbounded.
func WithBufferLimit(n int) SubscribeOption {
	return func(s *Subscription) {
		s.limit = n
	}
}

// Subscription receives events in emission order on C. C is closed after
// Close or when the client is closed.
type Subscription struct {
	C <-chan Event

	out   chan Event
	done  chan struct{}
	hub   *hub
	types map[EventType]struct{}
	limit int

	mu      sync.Mutex
	cond    *sync.Cond
	queue   []Event
	closed  bool
	dropped uint64
}

func (s *Subscription) wants(t EventType) bool {
	if s.types == nil {
		return true
	}
	_, ok := s.types[t]

	return ok
}

func (s *Subscription) push(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if s.limit > 0 && len(s.queue) >= s.limit {
		s.queue[0] = Event{}
		s.queue = s.queue[1:]
		s.dropped++
	}
	s.queue = append(s.queue, ev)
	s.cond.Signal()
}

// pump moves queued events to C so that emitters never block on a slow
// reader.
func (s *Subscription) pump() {
	defer close(s.out)

	for {
		s.mu.Lock()
		for len(s.queue) == 0 && !s.closed {
			s.cond.Wait()
		}
		if s.closed {
			s.mu.Unlock()

			return
		}
		ev := s.queue[0]
		s.queue[0] = Event{}
		s.queue = s.queue[1:]
		s.mu.Unlock()

		select {
		case s.out <- ev:
		case <-s.done:
			return
		}
	}
}

// Dropped returns how many events were discarded because the buffer limit
// was reached.
func (s *Subscription) Dropped() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.dropped
}

// Close stops delivery and closes C. Queued events are discarded.
func (s *Subscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()

		return
	}
	s.closed = true
	s.queue = nil
	close(s.done)
	s.cond.Broadcast()
	s.mu.Unlock()

	if s.hub != nil {
		s.hub.remove(s)
	}
}

// hub fans events out to subscribers.
type hub struct {
	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	closed bool
}

func newHub() *hub {
	return &hub{subs: make(map[*Subscription]struct{})}
}

func (h *hub) subscribe(opts ...SubscribeOption) *Subscription {
	out := make(chan Event)
	s := &Subscription{C: out, out: out, done: make(chan struct{})}
	s.cond = sync.NewCond(&s.mu)
	for _, opt := range opts {
		opt(s)
	}
	go s.pump()

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		s.Close()

		return s
	}
	s.hub = h
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	return s
}

// emit queues ev for every interested subscriber. Holding mu keeps a single
// emission order across subscribers.
func (h *hub) emit(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.subs {
		if s.wants(ev.Type) {
			s.push(ev)
		}
	}
}

func (h *hub) remove(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.subs, s)
}

func (h *hub) close() {
	h.mu.Lock()
	h.closed = true
	subs := make([]*Subscription, 0, len(h.subs))
	for s := range h.subs {
		subs = append(subs, s)
	}
	h.mu.Unlock()

	for _, s := range subs {
		s.Close()
	}
}
