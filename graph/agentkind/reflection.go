package agentkind

import (
	"context"
	"fmt"
	"strings"

	"github.com/flowgraph/flowgraph/graph"
	"github.com/flowgraph/flowgraph/graph/model"
)

const (
	// ReviewApproved is the textual verdict a reflection agent writes to
	// quality.review_status when it accepts the prior work.
	ReviewApproved = "APROVADO"
	// ReviewRefine is the textual verdict a reflection agent writes to
	// quality.review_status when it requests another pass.
	ReviewRefine = "REFINAR"
)

// ReflectionAgent is the self-review kind (spec §4.C.3): invoke the model
// as llm does, then classify its response as ReviewApproved or
// ReviewRefine, track feedback and attempt count.
type ReflectionAgent struct {
	Purpose        string
	ModelName      string
	PromptTemplate string
	Models         ModelRegistry
}

// Execute implements graph.Agent.
func (a *ReflectionAgent) Execute(ctx context.Context, state graph.GlobalState) graph.AgentResult {
	chat, ok := a.Models.Resolve(a.ModelName)
	if !ok {
		return errorResult(fmt.Sprintf("AgentExecutionError: unknown model %q", a.ModelName))
	}

	prompt := render(a.PromptTemplate, state)
	out, err := chat.Chat(ctx, []model.Message{{Role: model.RoleUser, Content: prompt}}, nil)
	if err != nil {
		return errorResult(fmt.Sprintf("AgentExecutionError: LLM invocation failed: %v", err))
	}

	status := ReviewRefine
	if strings.Contains(strings.ToUpper(out.Text), ReviewApproved) {
		status = ReviewApproved
	}

	attempts := asInt64(state.Quality["attempts"]) + 1

	return graph.AgentResult{
		Delta: graph.AgentOutput{
			Quality: map[string]any{
				"review_status": status,
				"feedback":      out.Text,
				"attempts":      attempts,
			},
		},
	}
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	default:
		return 0
	}
}
