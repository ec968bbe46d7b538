package agentkind

import (
	"context"
	"fmt"

	"github.com/flowgraph/flowgraph/graph"
	"github.com/flowgraph/flowgraph/graph/tool"
)

// ToolUsingAgent is the ReAct-style kind (spec §4.C.4): drive a bounded
// reason-act-observe loop over Tools, resolved from a ToolRegistry, until
// the model emits a final answer; the answer lands at
// artifacts[OutputKey].
type ToolUsingAgent struct {
	Purpose        string
	ModelName      string
	Tools          []string
	PromptTemplate string
	OutputKey      string
	Models         ModelRegistry
	Registry       ToolRegistry
}

// Execute implements graph.Agent.
func (a *ToolUsingAgent) Execute(ctx context.Context, state graph.GlobalState) graph.AgentResult {
	chat, ok := a.Models.Resolve(a.ModelName)
	if !ok {
		return errorResult(fmt.Sprintf("AgentExecutionError: unknown model %q", a.ModelName))
	}

	prompt := render(a.PromptTemplate, state)
	resolveTool := func(name string) (tool.Tool, bool) { return a.Registry.ResolveTool(name) }

	text, err := reactLoop(ctx, chat, prompt, a.Tools, resolveTool)
	if err != nil {
		return errorResult(fmt.Sprintf("AgentExecutionError: %v", err))
	}

	return graph.AgentResult{
		Delta: graph.AgentOutput{
			Artifacts: map[string]any{a.OutputKey: text},
		},
	}
}
