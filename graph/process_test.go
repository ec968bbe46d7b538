package graph_test

import (
	"context"
	"strings"
	"testing"

	"github.com/flowgraph/flowgraph/graph"
)

func noop(ctx context.Context, state graph.GlobalState) graph.AgentResult {
	return graph.AgentResult{}
}

func TestNewProcessRejectsEmptyStart(t *testing.T) {
	_, err := graph.NewProcess("p", "", "", map[string]graph.Agent{}, nil)
	if err == nil {
		t.Fatal("expected an error for an empty start node")
	}
}

func TestNewProcessRejectsUnregisteredStart(t *testing.T) {
	_, err := graph.NewProcess("p", "ghost", "", map[string]graph.Agent{
		"real": graph.AgentFunc(noop),
	}, nil)
	if err == nil {
		t.Fatal("expected an error for a start node with no matching agent")
	}
}

func TestNewProcessAcceptsEndSentinelAsStart(t *testing.T) {
	// An immediately-terminal process (degenerate, but not invalid): start
	// is __end__ itself.
	proc, err := graph.NewProcess("p", graph.EndSentinel, "", map[string]graph.Agent{}, nil)
	if err != nil {
		t.Fatalf("NewProcess: %v", err)
	}
	if proc.Start != graph.EndSentinel {
		t.Errorf("Start = %q, want %q", proc.Start, graph.EndSentinel)
	}
}

func TestNewProcessRejectsMalformedDoneCondition(t *testing.T) {
	_, err := graph.NewProcess("p", "n", "quality.x ===", map[string]graph.Agent{
		"n": graph.AgentFunc(noop),
	}, nil)
	if err == nil {
		t.Fatal("expected an error for a malformed done_condition")
	}
	if !strings.Contains(err.Error(), "done_condition") {
		t.Errorf("err = %v, want it to name done_condition", err)
	}
}

func TestNewProcessRejectsMalformedEdgeCondition(t *testing.T) {
	_, err := graph.NewProcess("p", "n", "", map[string]graph.Agent{
		"n": graph.AgentFunc(noop),
		"m": graph.AgentFunc(noop),
	}, []graph.Edge{
		{From: "n", To: "m", Condition: "quality.unclosed("},
	})
	if err == nil {
		t.Fatal("expected an error for a malformed edge condition")
	}
	if !strings.Contains(err.Error(), "n->m") {
		t.Errorf("err = %v, want it to name the offending edge", err)
	}
}

func TestNewProcessCompilesValidConditionsOnce(t *testing.T) {
	proc, err := graph.NewProcess("p", "n", "quality.done is not None", map[string]graph.Agent{
		"n": graph.AgentFunc(noop),
		"m": graph.AgentFunc(noop),
	}, []graph.Edge{
		{From: "n", To: "m", Condition: "quality.ready == True"},
		{From: "n", To: graph.EndSentinel},
	})
	if err != nil {
		t.Fatalf("NewProcess: %v", err)
	}
	if proc.DoneCondition == nil {
		t.Error("DoneCondition not compiled")
	}
	if len(proc.Edges) != 2 {
		t.Errorf("Edges = %v, want 2", proc.Edges)
	}
}
