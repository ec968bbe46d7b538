package graph

import "context"

// Agent is a named node in a process graph. It receives the current
// GlobalState, performs its work — possibly blocking on an LLM call, a
// deterministic function, or an HTTP tool invocation — and returns an
// AgentOutput delta plus a routing decision.
//
// Agent.Execute must not mutate the state it receives, and must not panic
// or return an error out of band: internal failures are reported through
// the delta (Quality["error"]), never by throwing past the runtime
// boundary. The six concrete kinds spec'd for this engine live in
// package agentkind; Agent itself has no knowledge of them.
type Agent interface {
	// Execute runs the agent's logic against state and returns the delta
	// it wishes to merge plus an optional explicit routing decision. ctx
	// carries cancellation and any metadata the runtime attaches (run ID,
	// step, agent name) through to blocking calls the agent makes.
	Execute(ctx context.Context, state GlobalState) AgentResult
}

// AgentResult is the output of a single Agent.Execute call.
type AgentResult struct {
	// Delta is the partial state update to merge via Apply.
	Delta AgentOutput

	// Route optionally overrides edge-based routing for this step. Most
	// agents leave this zero-valued and let the process's declared edges
	// choose the next node; Route exists for callers embedding an Agent
	// that already knows its own successor (rare in a DSL-driven graph,
	// kept for parity with explicit-routing agents).
	Route Next
}

// Next specifies an explicit routing override produced by an agent. A
// zero Next (To == "" and !Terminal) means "defer to edge evaluation".
type Next struct {
	// To names the next agent to execute, bypassing edge evaluation.
	To string

	// Terminal, if true, ends the run immediately after this step.
	Terminal bool
}

// AgentFunc adapts a plain function to the Agent interface, mirroring the
// teacher engine's NodeFunc adapter for ad hoc or test agents that don't
// need a dedicated type.
type AgentFunc func(ctx context.Context, state GlobalState) AgentResult

// Execute implements Agent.
func (f AgentFunc) Execute(ctx context.Context, state GlobalState) AgentResult {
	return f(ctx, state)
}
