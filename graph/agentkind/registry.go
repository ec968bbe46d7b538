package agentkind

import (
	"context"

	"github.com/flowgraph/flowgraph/graph"
	"github.com/flowgraph/flowgraph/graph/model"
	"github.com/flowgraph/flowgraph/graph/tool"
)

// ModelRegistry resolves a model_name field from the YAML DSL to a
// concrete model.ChatModel, implementing spec §6.1's "(model_name,
// rendered_prompt, options) → text-or-structured" collaborator contract
// one layer up: the call itself happens through the resolved ChatModel.
type ModelRegistry interface {
	Resolve(name string) (model.ChatModel, bool)
}

// Function is a deterministic agent's pure transformation: given the
// current state, it returns the delta to merge.
type Function func(ctx context.Context, state graph.GlobalState) (graph.AgentOutput, error)

// ToolRegistry resolves the names a deterministic or tool-using agent
// references against caller-supplied implementations. It is supplied at
// engine construction and never mutated by the core (spec §6.1).
type ToolRegistry interface {
	ResolveFunction(name string) (Function, bool)
	ResolveTool(name string) (tool.Tool, bool)
}
