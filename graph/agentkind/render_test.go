package agentkind

import (
	"testing"

	"github.com/flowgraph/flowgraph/graph"
)

func TestRenderSubstitutesPresentKeys(t *testing.T) {
	state := graph.GlobalState{
		Context:   map[string]any{"topic": "onboarding"},
		Artifacts: map[string]any{"outline": map[string]any{"title": "Welcome"}},
		Quality:   map[string]any{"attempts": int64(2)},
	}

	got := render("Write about {context[topic]} titled {artifacts[outline][title]} (attempt {quality[attempts]})", state)
	want := "Write about onboarding titled Welcome (attempt 2)"
	if got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
}

func TestRenderMissingKeyBecomesEmptyString(t *testing.T) {
	state := graph.GlobalState{Context: map[string]any{}, Artifacts: map[string]any{}, Quality: map[string]any{}}

	got := render("Feedback: {quality[feedback]}.", state)
	want := "Feedback: ."
	if got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
}

func TestRenderUnknownRootBecomesEmptyString(t *testing.T) {
	state := graph.GlobalState{Context: map[string]any{}, Artifacts: map[string]any{}, Quality: map[string]any{}}

	got := render("{secrets[token]} stays empty", state)
	want := " stays empty"
	if got != want {
		t.Errorf("render = %q, want %q", got, want)
	}
}
