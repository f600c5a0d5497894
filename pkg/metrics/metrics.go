// Package metrics instruments the bridge server and MCP adapter with
// Prometheus counters and histograms, exported over a promhttp.Handler.
// Repurposed from the teacher's QueryService, which used
// prometheus/client_golang as a query client against an external
// Prometheus server — this module has no external Prometheus to query, so
// the same dependency is used for the exporter half of its API instead.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles every metric this module exports. One Registry is
// constructed per process and shared by every transport/adapter.
type Registry struct {
	ExecutionsTotal   *prometheus.CounterVec
	ExecutionDuration *prometheus.HistogramVec
	ErrorsTotal       *prometheus.CounterVec
	ConnectionState   *prometheus.GaugeVec
	DispatchQueueSize prometheus.Gauge
	ToolCallsTotal    *prometheus.CounterVec
}

// New registers every metric against its own prometheus.Registerer so
// multiple Registry instances (e.g. in tests) never collide on the default
// global registry.
func New(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		ExecutionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cadbridge",
			Name:      "executions_total",
			Help:      "Total script executions dispatched to the CAD runtime, by transport and outcome.",
		}, []string{"transport", "success"}),

		ExecutionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "cadbridge",
			Name:      "execution_duration_seconds",
			Help:      "Script execution latency as observed by the dispatcher.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"transport"}),

		ErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cadbridge",
			Name:      "errors_total",
			Help:      "Classified execution failures, by error kind.",
		}, []string{"kind"}),

		ConnectionState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "cadbridge",
			Name:      "client_connection_state",
			Help:      "Current bridge client connection state (1 for the active state, 0 otherwise), by client and state name.",
		}, []string{"client", "state"}),

		DispatchQueueSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "cadbridge",
			Name:      "dispatch_queue_depth",
			Help:      "Number of execution requests currently queued awaiting the dispatcher worker.",
		}),

		ToolCallsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "cadbridge",
			Name:      "tool_calls_total",
			Help:      "MCP tool invocations, by tool name and outcome.",
		}, []string{"tool", "outcome"}),
	}
}

// ObserveExecution records one dispatched script execution.
func (r *Registry) ObserveExecution(transport string, success bool, elapsed time.Duration) {
	r.ExecutionsTotal.WithLabelValues(transport, boolLabel(success)).Inc()
	r.ExecutionDuration.WithLabelValues(transport).Observe(elapsed.Seconds())
}

// ObserveError increments the error counter for a classified failure kind.
func (r *Registry) ObserveError(kind string) {
	r.ErrorsTotal.WithLabelValues(kind).Inc()
}

// ObserveToolCall records one MCP tool invocation outcome.
func (r *Registry) ObserveToolCall(tool, outcome string) {
	r.ToolCallsTotal.WithLabelValues(tool, outcome).Inc()
}

// SetConnectionState zeroes every other known state for client and sets
// state to 1, so a Grafana panel can graph state transitions as a
// step function without stale 1s left behind.
func (r *Registry) SetConnectionState(client string, states []string, active string) {
	for _, s := range states {
		v := 0.0
		if s == active {
			v = 1.0
		}
		r.ConnectionState.WithLabelValues(client, s).Set(v)
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// Handler returns the promhttp handler an operator mounts at /metrics,
// serving whatever was registered against prometheus.DefaultRegisterer.
// Callers that built a Registry against a non-default Registerer (tests,
// multiple Registry instances in one process) should use HandlerFor
// instead.
func Handler() http.Handler {
	return promhttp.Handler()
}

// HandlerFor serves metrics gathered from a specific registry, for callers
// that did not register against the global default.
func HandlerFor(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
