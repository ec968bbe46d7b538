// Package graph provides the core execution engine for flowgraph.
package graph

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides Prometheus-compatible metrics for a sequential process
// run: step latency per agent, agent-level errors, and runs terminated
// by the loop guard or by exhausting edges.
// All metrics are namespaced "flowgraph".
type Metrics struct {
	stepLatency   *prometheus.HistogramVec
	agentErrors   *prometheus.CounterVec
	loopGuardHits *prometheus.CounterVec
	noRouteHits   *prometheus.CounterVec

	mu      sync.RWMutex
	enabled bool
}

// NewMetrics creates and registers flowgraph's execution metrics with the
// given registry. Pass prometheus.DefaultRegisterer for the global
// registry, or a fresh *prometheus.Registry for test isolation.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		enabled: true,
		stepLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "flowgraph",
			Name:      "step_latency_ms",
			Help:      "Agent execution duration in milliseconds, per process run and agent.",
			Buckets:   []float64{1, 5, 10, 50, 100, 500, 1000, 5000, 10000, 60000},
		}, []string{"run_id", "agent"}),
		agentErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowgraph",
			Name:      "agent_errors_total",
			Help:      "Agent executions whose delta carried a quality.error marker.",
		}, []string{"run_id", "agent"}),
		loopGuardHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowgraph",
			Name:      "loop_guard_total",
			Help:      "Runs terminated by the per-agent visit cap.",
		}, []string{"run_id", "agent"}),
		noRouteHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flowgraph",
			Name:      "no_route_total",
			Help:      "Runs terminated because no edge matched and no fallback existed.",
		}, []string{"run_id", "agent"}),
	}
}

// RecordStepLatency observes a single agent execution's duration.
func (m *Metrics) RecordStepLatency(runID, agent string, d time.Duration) {
	if m == nil || !m.enabled {
		return
	}
	m.stepLatency.WithLabelValues(runID, agent).Observe(float64(d.Milliseconds()))
}

// IncrementAgentErrors records that an agent's delta carried quality.error.
func (m *Metrics) IncrementAgentErrors(runID, agent string) {
	if m == nil || !m.enabled {
		return
	}
	m.agentErrors.WithLabelValues(runID, agent).Inc()
}

// IncrementLoopGuard records a loop-guard termination at the given agent.
func (m *Metrics) IncrementLoopGuard(runID, agent string) {
	if m == nil || !m.enabled {
		return
	}
	m.loopGuardHits.WithLabelValues(runID, agent).Inc()
}

// IncrementNoRoute records a no-matching-edge termination at the given agent.
func (m *Metrics) IncrementNoRoute(runID, agent string) {
	if m == nil || !m.enabled {
		return
	}
	m.noRouteHits.WithLabelValues(runID, agent).Inc()
}

// Disable stops metric recording; Enable resumes it. Useful in tests that
// share a *Metrics across cases and want to silence one of them.
func (m *Metrics) Disable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = false
}

// Enable re-enables metric recording after Disable.
func (m *Metrics) Enable() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.enabled = true
}
