// Package graph provides the core execution engine for flowgraph: a
// DSL-driven orchestrator for multi-agent workflows.
package graph

import "dario.cat/mergo"

// GlobalState is the immutable value every step of a process carries and
// replaces. It has exactly four sections:
//
//   - Context: inputs and invariants supplied by the caller. Conventionally
//     read-only for agents, but the engine does not enforce that.
//   - Artifacts: named outputs produced by agents — the visible results of
//     the process.
//   - Quality: control signals used for routing (review status, attempt
//     counters, the supervisor's next-agent choice, feedback, scores,
//     error markers).
//   - Messages: an append-only ordered audit log of agent events. Never
//     read by the condition evaluator.
//
// A GlobalState is never mutated in place; every transition produces a new
// value via Apply.
type GlobalState struct {
	Context   map[string]any
	Artifacts map[string]any
	Quality   map[string]any
	Messages  []Message
}

// Message is a single append-only audit log entry.
type Message struct {
	Agent   string
	Kind    string
	Payload map[string]any
}

// AgentOutput is a delta: a partial GlobalState carrying only the fields
// an agent wishes to change. Any subset of Context/Artifacts/Quality/
// Messages may be nil; a nil field is a no-op, never a clear.
type AgentOutput struct {
	Context   map[string]any
	Artifacts map[string]any
	Quality   map[string]any
	Messages  []Message
}

// newEmptyState returns the zero GlobalState used at process entry, with
// all four sections initialized to empty (non-nil) containers so agents
// and the evaluator never have to special-case a nil section.
func newEmptyState(initialContext map[string]any) GlobalState {
	ctx := make(map[string]any, len(initialContext))
	for k, v := range initialContext {
		ctx[k] = v
	}
	return GlobalState{
		Context:   ctx,
		Artifacts: map[string]any{},
		Quality:   map[string]any{},
		Messages:  []Message{},
	}
}

// Apply produces the next GlobalState by deep-merging delta into state.
//
// Context, Artifacts, and Quality are merged key by key: nested maps
// recurse, sequences are replaced wholesale (never concatenated), and
// scalars are overwritten by the delta's value. Messages is the one
// exception — the delta's messages are appended to the prior sequence in
// order. Apply never mutates state or delta; it always returns a new
// value, so apply(state, emptyDelta) == state holds both by value and by
// content.
func Apply(state GlobalState, delta AgentOutput) GlobalState {
	return GlobalState{
		Context:   deepMerge(state.Context, delta.Context),
		Artifacts: deepMerge(state.Artifacts, delta.Artifacts),
		Quality:   deepMerge(state.Quality, delta.Quality),
		Messages:  appendMessages(state.Messages, delta.Messages),
	}
}

// deepMerge recursively merges b into a and returns a new map — a and b
// are left untouched so callers can keep using them afterwards. Nested
// maps of a are copied before b is merged in, so the merge never writes
// into them. An empty b is a no-op: the returned map is a copy of a. Maps recurse key
// by key; anything else (scalars, slices) in b overwrites the matching
// key in a wholesale, per spec: sequences are replaced, not concatenated.
func deepMerge(a, b map[string]any) map[string]any {
	var clone func(m map[string]any) map[string]any
	clone = func(m map[string]any) map[string]any {
		c := make(map[string]any, len(m))
		for k, v := range m {
			if nested, ok := v.(map[string]any); ok {
				v = clone(nested)
			}
			c[k] = v
		}
		return c
	}
	out := clone(a)
	if len(b) == 0 {
		return out
	}
	if err := mergo.Merge(&out, map[string]any(b), mergo.WithOverride); err != nil {
		// mergo.Merge only errors on type-mismatched struct merges; plain
		// map[string]any merging never hits that path in practice. Fall
		// back to a manual overwrite rather than silently drop the delta.
		for k, v := range b {
			out[k] = v
		}
	}
	return out
}

// appendMessages returns a new slice containing prev followed by added,
// without mutating either input.
func appendMessages(prev, added []Message) []Message {
	if len(added) == 0 {
		out := make([]Message, len(prev))
		copy(out, prev)
		return out
	}
	out := make([]Message, 0, len(prev)+len(added))
	out = append(out, prev...)
	out = append(out, added...)
	return out
}
