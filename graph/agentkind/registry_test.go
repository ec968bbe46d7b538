package agentkind

import (
	"context"

	"github.com/flowgraph/flowgraph/graph"
	"github.com/flowgraph/flowgraph/graph/model"
	"github.com/flowgraph/flowgraph/graph/tool"
)

// mapModelRegistry is the test double for ModelRegistry: a plain map from
// model_name to a ChatModel (usually a *model.MockChatModel).
type mapModelRegistry map[string]model.ChatModel

func (r mapModelRegistry) Resolve(name string) (model.ChatModel, bool) {
	m, ok := r[name]
	return m, ok
}

// mapToolRegistry is the test double for ToolRegistry.
type mapToolRegistry struct {
	functions map[string]Function
	tools     map[string]tool.Tool
}

func (r mapToolRegistry) ResolveFunction(name string) (Function, bool) {
	f, ok := r.functions[name]
	return f, ok
}

func (r mapToolRegistry) ResolveTool(name string) (tool.Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// stubTool is a minimal tool.Tool test double that records its calls and
// returns a fixed result.
type stubTool struct {
	name   string
	result map[string]interface{}
	calls  []map[string]interface{}
}

func (s *stubTool) Name() string { return s.name }

func (s *stubTool) Call(_ context.Context, input map[string]interface{}) (map[string]interface{}, error) {
	s.calls = append(s.calls, input)
	return s.result, nil
}

var _ graph.Agent = (*LLMAgent)(nil)
