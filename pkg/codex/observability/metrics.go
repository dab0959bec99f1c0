// Package observability provides Prometheus collectors for the codex client.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for a client. All recorders are
// safe to call on a nil *Metrics.
type Metrics struct {
	registry     *prometheus.Registry
	Calls        *prometheus.CounterVec
	CallDuration *prometheus.HistogramVec
	Pending      prometheus.Gauge
	Events       *prometheus.CounterVec
	ParseErrors  prometheus.Counter
	Exits        *prometheus.CounterVec
	Restarts     prometheus.Counter
	Handled      *prometheus.CounterVec
}

// NewMetrics constructs a metrics registry with client collectors.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()

	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "codex_rpc_calls_total",
		Help: "Outbound app-server calls by method and outcome",
	}, []string{"method", "outcome"})

	durs := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "codex_rpc_call_duration_seconds",
		Help:    "Outbound call latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	pending := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "codex_rpc_pending_calls",
		Help: "Calls awaiting a response",
	})

	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "codex_rpc_events_total",
		Help: "Events emitted to subscribers by type",
	}, []string{"type"})

	parseErrs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "codex_rpc_parse_errors_total",
		Help: "Inbound lines that were not valid JSON or too large",
	})

	exits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "codex_rpc_process_exits_total",
		Help: "Unexpected app-server exits by exit code",
	}, []string{"code"})

	restarts := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "codex_rpc_restarts_total",
		Help: "Supervisor restarts of app-server",
	})

	handled := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "codex_rpc_server_requests_total",
		Help: "Server requests answered by a registered handler, by method and outcome",
	}, []string{"method", "outcome"})

	reg.MustRegister(calls, durs, pending, events, parseErrs, exits, restarts, handled)

	return &Metrics{
		registry:     reg,
		Calls:        calls,
		CallDuration: durs,
		Pending:      pending,
		Events:       events,
		ParseErrors:  parseErrs,
		Exits:        exits,
		Restarts:     restarts,
		Handled:      handled,
	}
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}

	return m.registry
}

// RecordCall records the outcome and latency of one call.
func (m *Metrics) RecordCall(method string, duration time.Duration, err error) {
	if m == nil {
		return
	}
	if method == "" {
		method = "unknown"
	}
	m.Calls.WithLabelValues(method, outcome(err)).Inc()
	m.CallDuration.WithLabelValues(method).Observe(duration.Seconds())
}

// IncPending increments the pending call gauge.
func (m *Metrics) IncPending() {
	if m == nil {
		return
	}
	m.Pending.Inc()
}

// DecPending decrements the pending call gauge.
func (m *Metrics) DecPending() {
	if m == nil {
		return
	}
	m.Pending.Dec()
}

// RecordEvent counts one emitted event.
func (m *Metrics) RecordEvent(eventType string) {
	if m == nil {
		return
	}
	m.Events.WithLabelValues(eventType).Inc()
}

// RecordParseError counts one rejected inbound line.
func (m *Metrics) RecordParseError() {
	if m == nil {
		return
	}
	m.ParseErrors.Inc()
}

// RecordExit counts an unexpected exit. code is "unknown" when the process
// was killed by a signal.
func (m *Metrics) RecordExit(code string) {
	if m == nil {
		return
	}
	if code == "" {
		code = "unknown"
	}
	m.Exits.WithLabelValues(code).Inc()
}

// RecordRestart counts a supervisor restart.
func (m *Metrics) RecordRestart() {
	if m == nil {
		return
	}
	m.Restarts.Inc()
}

// RecordHandled counts a server request answered by a handler.
func (m *Metrics) RecordHandled(method string, err error) {
	if m == nil {
		return
	}
	m.Handled.WithLabelValues(method, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}

	return "ok"
}
