package agentkind

import (
	"context"
	"fmt"

	"github.com/flowgraph/flowgraph/graph"
	"github.com/flowgraph/flowgraph/graph/model"
)

// LLMAgent is the single-turn language-model kind (spec §4.C.1): render
// PromptTemplate, invoke ModelName, write the result at
// artifacts[OutputKey].
type LLMAgent struct {
	Purpose         string
	ModelName       string
	PromptTemplate  string
	OutputKey       string
	ForceJSONOutput bool
	Models          ModelRegistry
}

// Execute implements graph.Agent.
func (a *LLMAgent) Execute(ctx context.Context, state graph.GlobalState) graph.AgentResult {
	chat, ok := a.Models.Resolve(a.ModelName)
	if !ok {
		return errorResult(fmt.Sprintf("AgentExecutionError: unknown model %q", a.ModelName))
	}

	prompt := render(a.PromptTemplate, state)
	out, err := chat.Chat(ctx, []model.Message{{Role: model.RoleUser, Content: prompt}}, nil)
	if err != nil {
		return errorResult(fmt.Sprintf("AgentExecutionError: LLM invocation failed: %v", err))
	}

	var value any = out.Text
	if a.ForceJSONOutput {
		decoded, decErr := decodeStructured(out.Text)
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

// errorResult builds the delta convention for an AgentExecutionError
// (spec §7): a message written to quality.error, never a Go error raised
// past the agent boundary.
func errorResult(message string) graph.AgentResult {
	return graph.AgentResult{
		Delta: graph.AgentOutput{
			Quality: map[string]any{"error": message},
		},
	}
}
