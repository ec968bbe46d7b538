// Package builtins provides a small set of generic deterministic
// functions for use with the "deterministic" agent kind, so process
// definitions are not limited to functions a host application bothers to
// write itself. They are registered into a tool registry by RegisterAll;
// nothing in graph/dsl or graph/agentkind depends on this package.
package builtins

import (
	"context"
	"strings"

	"github.com/flowgraph/flowgraph/graph"
	"github.com/flowgraph/flowgraph/graph/agentkind"
	"github.com/flowgraph/flowgraph/graph/tool"
)

// registry is the minimal surface builtins needs to register functions and
// tools, satisfied by *dsl.ToolRegistry without importing graph/dsl, so
// this package depends only on the interface it uses; cmd/flowgraph is
// the package that wires builtins in.
type registry interface {
	RegisterFunction(name string, fn agentkind.Function)
	RegisterTool(t tool.Tool)
}

// RegisterAll registers every builtin deterministic function and tool
// under its conventional name.
func RegisterAll(r registry) {
	r.RegisterFunction("word_count", WordCount)
	r.RegisterFunction("normalize_whitespace", NormalizeWhitespace)
	r.RegisterTool(NewLookupTool(lighthouseFacts))
}

// lighthouseFacts backs the "lookup" tool registered by RegisterAll.
var lighthouseFacts = map[string]string{
	"eddystone":  "The Eddystone Lighthouse off Cornwall has been rebuilt four times since 1698.",
	"pharos":     "The Lighthouse of Alexandria, one of the Seven Wonders, stood for over 1,600 years.",
	"fresnel":    "The Fresnel lens, invented in 1822, let lighthouses project light much farther using less glass.",
}

// brief reads the "brief" field shared by Context and Artifacts, preferring
// Artifacts so a function can operate on another agent's output.
func brief(state graph.GlobalState) string {
	if v, ok := state.Artifacts["brief"].(string); ok {
		return v
	}
	if v, ok := state.Context["brief"].(string); ok {
		return v
	}
	return ""
}

// WordCount counts the words in the brief and records the result as
// artifacts.word_count.
func WordCount(_ context.Context, state graph.GlobalState) (graph.AgentOutput, error) {
	n := len(strings.Fields(brief(state)))
	return graph.AgentOutput{
		Artifacts: map[string]any{"word_count": n},
	}, nil
}

// NormalizeWhitespace collapses runs of whitespace in the brief down to
// single spaces and records the result as artifacts.normalized_brief.
func NormalizeWhitespace(_ context.Context, state graph.GlobalState) (graph.AgentOutput, error) {
	normalized := strings.Join(strings.Fields(brief(state)), " ")
	return graph.AgentOutput{
		Artifacts: map[string]any{"normalized_brief": normalized},
	}, nil
}
