package agentkind

import (
	"context"
	"fmt"

	"github.com/flowgraph/flowgraph/graph"
)

// DeterministicAgent looks up FunctionName in a ToolRegistry and invokes
// it with the current state, returning its delta unchanged (spec §4.C.2).
// Unknown names fail loader validation, not execution — Fn is resolved
// once at construction time by the loader.
type DeterministicAgent struct {
	Purpose      string
	FunctionName string
	Fn           Function
}

// Execute implements graph.Agent.
func (a *DeterministicAgent) Execute(ctx context.Context, state graph.GlobalState) graph.AgentResult {
	delta, err := a.Fn(ctx, state)
	if err != nil {
		return errorResult(fmt.Sprintf("AgentExecutionError: function %q failed: %v", a.FunctionName, err))
	}
	return graph.AgentResult{Delta: delta}
}
