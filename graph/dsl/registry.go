package dsl

import (
	"github.com/flowgraph/flowgraph/graph/agentkind"
	"github.com/flowgraph/flowgraph/graph/model"
	"github.com/flowgraph/flowgraph/graph/tool"
)

// ModelRegistry is the concrete, map-backed agentkind.ModelRegistry a
// caller assembles at startup from its configured model clients.
type ModelRegistry map[string]model.ChatModel

// Resolve implements agentkind.ModelRegistry.
func (r ModelRegistry) Resolve(name string) (model.ChatModel, bool) {
	m, ok := r[name]
	return m, ok
}

// ToolRegistry is the concrete, map-backed agentkind.ToolRegistry a
// caller assembles at startup from its deterministic functions and tool
// implementations.
type ToolRegistry struct {
	Functions map[string]agentkind.Function
	Tools     map[string]tool.Tool
}

// NewToolRegistry builds an empty ToolRegistry ready for Register* calls.
func NewToolRegistry() *ToolRegistry {
	return &ToolRegistry{Functions: map[string]agentkind.Function{}, Tools: map[string]tool.Tool{}}
}

// RegisterFunction adds a deterministic-agent function under name.
func (r *ToolRegistry) RegisterFunction(name string, fn agentkind.Function) {
	r.Functions[name] = fn
}

// RegisterTool adds a tool_using-agent tool under its own Name().
func (r *ToolRegistry) RegisterTool(t tool.Tool) {
	r.Tools[t.Name()] = t
}

// ResolveFunction implements agentkind.ToolRegistry.
func (r *ToolRegistry) ResolveFunction(name string) (agentkind.Function, bool) {
	fn, ok := r.Functions[name]
	return fn, ok
}

// ResolveTool implements agentkind.ToolRegistry.
func (r *ToolRegistry) ResolveTool(name string) (tool.Tool, bool) {
	t, ok := r.Tools[name]
	return t, ok
}
