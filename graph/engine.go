// Package graph provides the core execution engine for flowgraph: a
// DSL-driven orchestrator for multi-agent workflows. The runtime in this
// file drives a single Process end-to-end — sequential, single-active-
// node, cooperatively cancellable — per the execution contract: select a
// node, run it, merge its delta, pick the next edge, repeat until
// termination.
package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/flowgraph/flowgraph/graph/emit"
	"github.com/flowgraph/flowgraph/graph/store"
)

// Engine runs one Process repeatedly (once per Run call), each run
// getting its own fresh GlobalState and visit counters. The Process
// itself is immutable and shared across runs.
type Engine struct {
	process *Process
	cfg     engineConfig
}

// New constructs an Engine for process, applying opts in order. Errors
// returned here are construction-time failures (EngineError) — spec's
// DSLValidationError class, not the runtime's forgiving error handling.
func New(process *Process, opts ...Option) (*Engine, error) {
	if process == nil {
		return nil, &EngineError{Code: "INVALID_PROCESS", Message: "process must not be nil"}
	}

	cfg := engineConfig{
		visitLimit: defaultVisitLimit,
		emitter:    emit.NewNullEmitter(),
		clock:      time.Now,
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Engine{process: process, cfg: cfg}, nil
}

// Run executes the process to termination and returns the final state.
// Per spec's propagation policy, a non-nil error here only ever reflects
// a runtime-internal problem (an unregistered agent reachable only by
// bypassing the DSL loader's validation) — agent faults, loop-guard
// trips, and missing routes are all resolved into the returned
// GlobalState's Quality["error"] or simply by terminating, never by
// returning an error.
func (e *Engine) Run(ctx context.Context, initialContext map[string]any) (GlobalState, error) {
	runID := uuid.NewString()
	state := newEmptyState(initialContext)
	current := e.process.Start
	visits := map[string]int{}

	e.cfg.emitter.Emit(emit.Event{RunID: runID, Msg: "run_started"})

	for {
		// Cancellation check, per spec §5: checked at the top of every step.
		select {
		case <-ctx.Done():
			state = Apply(state, AgentOutput{Messages: []Message{{
				Agent:   current,
				Kind:    "cancelled",
				Payload: map[string]any{"reason": ctx.Err().Error()},
			}}})
			e.cfg.emitter.Emit(emit.Event{RunID: runID, NodeID: current, Msg: "cancelled"})
			e.saveSnapshot(ctx, runID, state)
			return state, nil
		default:
		}

		// Step 1: terminal sentinel.
		if current == EndSentinel {
			e.saveSnapshot(ctx, runID, state)
			e.cfg.emitter.Emit(emit.Event{RunID: runID, NodeID: current, Msg: "run_finished"})
			return state, nil
		}

		// Step 2: done_condition.
		if e.process.DoneCondition != nil {
			done, err := e.process.DoneCondition.Eval(state.Context, state.Artifacts, state.Quality)
			if err != nil {
				// ExpressionError on done_condition: treated as not-done,
				// logged via messages, execution continues.
				state = Apply(state, AgentOutput{Messages: []Message{{
					Agent:   current,
					Kind:    "expression_error",
					Payload: map[string]any{"expression": "done_condition", "error": err.Error()},
				}}})
			} else if done {
				state = Apply(state, AgentOutput{Messages: []Message{{Agent: current, Kind: "done"}}})
				e.saveSnapshot(ctx, runID, state)
				e.cfg.emitter.Emit(emit.Event{RunID: runID, NodeID: current, Msg: "run_finished"})
				return state, nil
			}
		}

		// Step 3: loop guard.
		visits[current]++
		if visits[current] > e.cfg.visitLimit {
			state = Apply(state, AgentOutput{
				Quality: map[string]any{"error": fmt.Sprintf("loop-guard: agent %q exceeded %d visits", current, e.cfg.visitLimit)},
				Messages: []Message{{
					Agent:   current,
					Kind:    "loop_guard",
					Payload: map[string]any{"visits": visits[current], "limit": e.cfg.visitLimit},
				}},
			})
			if e.cfg.metrics != nil {
				e.cfg.metrics.IncrementLoopGuard(runID, current)
			}
			e.saveSnapshot(ctx, runID, state)
			e.cfg.emitter.Emit(emit.Event{RunID: runID, NodeID: current, Msg: "loop_guard"})
			return state, nil
		}

		agent, ok := e.process.Agents[current]
		if !ok {
			return state, &EngineError{Code: "UNKNOWN_AGENT", Message: "agent not found: " + current, Cause: ErrNodeNotFound}
		}

		// Step 4: execute, containing any panic as an AgentExecutionError.
		result := e.execute(ctx, runID, current, agent, state)

		// Step 5: merge + append step message.
		state = Apply(state, result.Delta)
		state = Apply(state, AgentOutput{Messages: []Message{{
			Agent: current,
			Kind:  "step",
		}}})

		if errMsg, hasErr := state.Quality["error"]; hasErr {
			if e.cfg.metrics != nil {
				if s, ok := errMsg.(string); ok && s != "" {
					e.cfg.metrics.IncrementAgentErrors(runID, current)
				}
			}
		}

		e.saveSnapshot(ctx, runID, state)

		// Explicit routing: an agent's own Route takes precedence over
		// declared edges, mirroring the teacher engine's "NodeResult.Route
		// takes precedence over edges" rule. Most agentkind kinds leave
		// Route zero-valued and defer to step 6/7's edge scan.
		if result.Route.Terminal {
			e.cfg.emitter.Emit(emit.Event{RunID: runID, NodeID: current, Msg: "run_finished"})
			return state, nil
		}
		if result.Route.To != "" {
			current = result.Route.To
			continue
		}

		// Step 6/7: edge selection.
		next, terminate, err := e.route(current, state)
		if err != nil {
			return state, err
		}
		if terminate {
			e.cfg.emitter.Emit(emit.Event{RunID: runID, NodeID: current, Msg: "no_route"})
			if e.cfg.metrics != nil {
				e.cfg.metrics.IncrementNoRoute(runID, current)
			}
			return state, nil
		}
		current = next
	}
}

// execute runs a single agent, converting panics into the same
// quality.error delta shape a returned AgentResult with no error info
// would produce — agents are documented not to panic, but the runtime
// still contains it rather than letting one bad agent crash a run.
func (e *Engine) execute(ctx context.Context, runID, name string, agent Agent, state GlobalState) (result AgentResult) {
	start := e.cfg.clock()
	defer func() {
		if r := recover(); r != nil {
			result = AgentResult{Delta: AgentOutput{Quality: map[string]any{
				"error": fmt.Sprintf("AgentExecutionError: agent %q panicked: %v", name, r),
			}}}
		}
		if e.cfg.metrics != nil {
			e.cfg.metrics.RecordStepLatency(runID, name, e.cfg.clock().Sub(start))
		}
	}()

	e.cfg.emitter.Emit(emit.Event{RunID: runID, NodeID: name, Msg: "agent_started"})
	result = agent.Execute(ctx, state)
	e.cfg.emitter.Emit(emit.Event{RunID: runID, NodeID: name, Msg: "agent_finished"})
	return result
}

// route implements steps 6-7: scan edges in declaration order for the
// first whose From matches current and whose condition (if any)
// evaluates true against the post-merge state; an edge with no
// condition is the fallback. Returns terminate=true when nothing
// matches and there is no fallback.
func (e *Engine) route(current string, state GlobalState) (next string, terminate bool, err error) {
	var fallback string
	hasFallback := false

	for i, edge := range e.process.Edges {
		if edge.From != current {
			continue
		}
		prog := e.process.edgeConds[i]
		if prog == nil {
			if !hasFallback {
				fallback = edge.To
				hasFallback = true
			}
			continue
		}
		matched, evalErr := prog.Eval(state.Context, state.Artifacts, state.Quality)
		if evalErr != nil {
			// ExpressionError: treated as edge-not-matching, not fatal.
			continue
		}
		if matched {
			return edge.To, false, nil
		}
	}

	if hasFallback {
		return fallback, false, nil
	}
	return "", true, nil
}

// saveSnapshot persists the current state if a store was configured.
// Spec §6.4: persistence is never mandated; a nil store is a no-op.
func (e *Engine) saveSnapshot(ctx context.Context, runID string, state GlobalState) {
	if e.cfg.store == nil {
		return
	}
	_ = e.cfg.store.Save(ctx, runID, store.Snapshot{
		Context:   state.Context,
		Artifacts: state.Artifacts,
		Quality:   state.Quality,
		Messages:  snapshotMessages(state.Messages),
		SavedAt:   e.cfg.clock(),
	})
}

func snapshotMessages(msgs []Message) []store.Message {
	out := make([]store.Message, len(msgs))
	for i, m := range msgs {
		out[i] = store.Message{Agent: m.Agent, Kind: m.Kind, Payload: m.Payload}
	}
	return out
}
