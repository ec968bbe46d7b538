package agentkind

import (
	"context"
	"testing"

	"github.com/flowgraph/flowgraph/graph"
	"github.com/flowgraph/flowgraph/graph/model"
)

func TestSupervisorAgentRoutesThroughWorkersThenFinishes(t *testing.T) {
	mock := &model.MockChatModel{Responses: []model.ChatOut{
		{Text: "worker_a"},
		{Text: "worker_b"},
		{Text: "FINISH"},
	}}
	agent := &SupervisorAgent{
		ModelName:       "router",
		AvailableAgents: []string{"worker_a", "worker_b"},
		PromptTemplate:  "Who goes next?",
		Models:          mapModelRegistry{"router": mock},
	}

	var choices []string
	for i := 0; i < 3; i++ {
		result := agent.Execute(context.Background(), graph.GlobalState{})
		choices = append(choices, result.Delta.Quality["next_agent"].(string))
	}

	want := []string{"worker_a", "worker_b", FinishSentinel}
	for i, c := range choices {
		if c != want[i] {
			t.Errorf("choice[%d] = %q, want %q", i, c, want[i])
		}
	}
}
