package agentkind

import (
	"context"
	"errors"
	"testing"

	"github.com/flowgraph/flowgraph/graph"
)

func TestDeterministicAgentReturnsFunctionDelta(t *testing.T) {
	agent := &DeterministicAgent{
		FunctionName: "word_count",
		Fn: func(_ context.Context, state graph.GlobalState) (graph.AgentOutput, error) {
			draft, _ := state.Artifacts["draft"].(string)
			return graph.AgentOutput{Quality: map[string]any{"length": int64(len(draft))}}, nil
		},
	}

	state := graph.GlobalState{Artifacts: map[string]any{"draft": "hello"}}
	result := agent.Execute(context.Background(), state)

	if result.Delta.Quality["length"] != int64(5) {
		t.Errorf("quality.length = %v, want 5", result.Delta.Quality["length"])
	}
}

func TestDeterministicAgentFunctionErrorWritesQualityError(t *testing.T) {
	agent := &DeterministicAgent{
		FunctionName: "broken",
		Fn: func(_ context.Context, _ graph.GlobalState) (graph.AgentOutput, error) {
			return graph.AgentOutput{}, errors.New("boom")
		},
	}

	result := agent.Execute(context.Background(), graph.GlobalState{})
	errText, _ := result.Delta.Quality["error"].(string)
	if errText == "" {
		t.Fatal("expected quality.error to be set")
	}
}
