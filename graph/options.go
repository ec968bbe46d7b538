// Package graph provides the core execution engine for flowgraph.
package graph

import (
	"time"

	"github.com/flowgraph/flowgraph/graph/emit"
	"github.com/flowgraph/flowgraph/graph/store"
)

// Option is a functional option for configuring an Engine, following the
// same chainable, self-documenting pattern the teacher's engine exposed
// (graph.New(process, WithVisitLimit(50), WithEmitter(e))).
type Option func(*engineConfig) error

// engineConfig collects options before they're applied to an Engine.
type engineConfig struct {
	visitLimit int
	emitter    emit.Emitter
	store      store.Store
	metrics    *Metrics
	clock      func() time.Time
}

// defaultVisitLimit is the design-default loop guard from spec §4.E: a
// node visited more than this many times within one run terminates the
// run with a quality.error loop-guard marker.
const defaultVisitLimit = 50

// WithVisitLimit overrides the per-node visit cap used by the loop guard.
// Default: 50, per spec §4.E. Must be positive; New rejects a
// non-positive value configured this way at construction time.
func WithVisitLimit(n int) Option {
	return func(cfg *engineConfig) error {
		if n <= 0 {
			return &EngineError{Message: "visit limit must be positive", Code: "INVALID_OPTION"}
		}
		cfg.visitLimit = n
		return nil
	}
}

// WithEmitter attaches an observability sink. Default: emit.NewNullEmitter().
func WithEmitter(e emit.Emitter) Option {
	return func(cfg *engineConfig) error {
		cfg.emitter = e
		return nil
	}
}

// WithStore attaches an optional state-snapshot store (spec §6.4). Not
// required — a nil store (the default) simply skips persistence.
func WithStore(s store.Store) Option {
	return func(cfg *engineConfig) error {
		cfg.store = s
		return nil
	}
}

// WithMetrics enables Prometheus metrics collection for step latency,
// agent errors, and runs ended by the loop guard or by no route.
func WithMetrics(m *Metrics) Option {
	return func(cfg *engineConfig) error {
		cfg.metrics = m
		return nil
	}
}

// WithClock overrides the time source used to timestamp store snapshots.
// Exists so tests can inject a deterministic clock; production callers
// never need it.
func WithClock(now func() time.Time) Option {
	return func(cfg *engineConfig) error {
		cfg.clock = now
		return nil
	}
}
