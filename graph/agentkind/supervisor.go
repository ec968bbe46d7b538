package agentkind

import (
	"context"
	"fmt"
	"strings"

	"github.com/flowgraph/flowgraph/graph"
	"github.com/flowgraph/flowgraph/graph/model"
)

// FinishSentinel is the value a supervisor writes to quality.next_agent
// to signal the process should route to __end__. Handled by an ordinary
// conditional edge (quality.next_agent == 'FINISH'), not special runtime
// treatment.
const FinishSentinel = "FINISH"

// SupervisorAgent is the dynamic-router kind (spec §4.C.5): ask the model
// to choose the next node from AvailableAgents or emit FinishSentinel,
// and write that choice to quality.next_agent for edge evaluation to act
// on.
type SupervisorAgent struct {
	Purpose         string
	ModelName       string
	AvailableAgents []string
	PromptTemplate  string
	Models          ModelRegistry
}

// Execute implements graph.Agent.
func (a *SupervisorAgent) Execute(ctx context.Context, state graph.GlobalState) graph.AgentResult {
	chat, ok := a.Models.Resolve(a.ModelName)
	if !ok {
		return errorResult(fmt.Sprintf("AgentExecutionError: unknown model %q", a.ModelName))
	}

	prompt := render(a.PromptTemplate, state)
	out, err := chat.Chat(ctx, []model.Message{{Role: model.RoleUser, Content: prompt}}, nil)
	if err != nil {
		return errorResult(fmt.Sprintf("AgentExecutionError: LLM invocation failed: %v", err))
	}

	choice := a.resolveChoice(out.Text)

	return graph.AgentResult{
		Delta: graph.AgentOutput{
			Quality: map[string]any{"next_agent": choice},
		},
	}
}

// resolveChoice maps the model's free-text reply to exactly FinishSentinel
// or one of AvailableAgents when either appears in the reply, falling
// back to the trimmed reply itself so an unrecognized choice is still
// observable in quality.next_agent rather than silently discarded.
func (a *SupervisorAgent) resolveChoice(text string) string {
	trimmed := strings.TrimSpace(text)
	upper := strings.ToUpper(trimmed)
	if strings.Contains(upper, FinishSentinel) {
		return FinishSentinel
	}
	for _, agentName := range a.AvailableAgents {
		if strings.Contains(trimmed, agentName) {
			return agentName
		}
	}
	return trimmed
}
