package agentkind

import (
	"context"
	"fmt"

	"github.com/flowgraph/flowgraph/graph"
	"github.com/flowgraph/flowgraph/graph/tool"
)

// UTCPAgent is the remote-tool kind (spec §4.C.6): identical to
// ToolUsingAgent's ReAct loop, but Tools names index into Manifests — HTTP
// tool manifests declared at the process' top-level `tools` section —
// rather than the general ToolRegistry.
type UTCPAgent struct {
	Purpose         string
	ModelName       string
	Tools           []string
	PromptTemplate  string
	OutputKey       string
	ForceJSONOutput bool
	Models          ModelRegistry
	Manifests       map[string]tool.Tool
}

// Execute implements graph.Agent.
func (a *UTCPAgent) Execute(ctx context.Context, state graph.GlobalState) graph.AgentResult {
	chat, ok := a.Models.Resolve(a.ModelName)
	if !ok {
		return errorResult(fmt.Sprintf("AgentExecutionError: unknown model %q", a.ModelName))
	}

	prompt := render(a.PromptTemplate, state)
	resolveTool := func(name string) (tool.Tool, bool) {
		t, ok := a.Manifests[name]
		return t, ok
	}

	text, err := reactLoop(ctx, chat, prompt, a.Tools, resolveTool)
	if err != nil {
		return errorResult(fmt.Sprintf("AgentExecutionError: %v", err))
	}

	var value any = text
	if a.ForceJSONOutput {
		decoded, decErr := decodeStructured(text)
		if decErr != nil {
			return errorResult(fmt.Sprintf("AgentExecutionError: force_json_output decode failed: %v", decErr))
		}
		value = decoded
	}

	return graph.AgentResult{
		Delta: graph.AgentOutput{
			Artifacts: map[string]any{a.OutputKey: value},
		},
	}
}
