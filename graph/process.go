package graph

import "github.com/flowgraph/flowgraph/graph/condition"

// Process is a compiled, immutable process definition: the in-memory
// result of loading a YAML process document (package dsl) or of hand-
// assembling one directly for tests. Once built it is never mutated —
// GlobalState is what changes from step to step, not the process.
type Process struct {
	// Name identifies the process definition; the engine does not put it
	// into events or metrics.
	Name string

	// Start is the node name where execution begins.
	Start string

	// DoneCondition, if non-nil, is evaluated at the top of every step;
	// when it evaluates true the run terminates immediately.
	DoneCondition *condition.Program

	// Agents maps node name to the agent instance that runs there.
	Agents map[string]Agent

	// Edges lists every transition in declaration order. Order within a
	// shared From is significant: first match wins, and an edge with no
	// Condition is the unconditional fallback for its From node.
	Edges []Edge

	// compiled conditions for each edge that has one, indexed the same
	// as Edges. A nil entry means the edge is unconditional.
	edgeConds []*condition.Program
}

// NewProcess assembles a Process from its parts, compiling every edge
// condition and the done_condition up front so construction-time errors
// surface before any Run call. This is the entry point package dsl's
// loader uses once it has resolved agent names into real Agent values;
// it is exported so callers who want to build a process by hand (tests,
// embedders) don't need to go through YAML at all.
func NewProcess(name, start string, doneCondition string, agents map[string]Agent, edges []Edge) (*Process, error) {
	if start == "" {
		return nil, &EngineError{Code: "INVALID_PROCESS", Message: "start node must be set"}
	}
	if _, ok := agents[start]; !ok && start != EndSentinel {
		return nil, &EngineError{Code: "INVALID_PROCESS", Message: "start node '" + start + "' is not a registered agent"}
	}

	p := &Process{
		Name:   name,
		Start:  start,
		Agents: agents,
		Edges:  edges,
	}

	if doneCondition != "" {
		prog, err := condition.Parse(doneCondition)
		if err != nil {
			return nil, &EngineError{Code: "INVALID_CONDITION", Message: "done_condition: " + err.Error(), Cause: err}
		}
		p.DoneCondition = prog
	}

	p.edgeConds = make([]*condition.Program, len(edges))
	for i, e := range edges {
		if e.Condition == "" {
			continue
		}
		prog, err := condition.Parse(e.Condition)
		if err != nil {
			return nil, &EngineError{Code: "INVALID_CONDITION", Message: "edge " + e.From + "->" + e.To + ": " + err.Error(), Cause: err}
		}
		p.edgeConds[i] = prog
	}

	return p, nil
}
