package builtins

import (
	"context"
	"fmt"
)

// LookupTool is a tiny in-process key/value tool for tool_using agents to
// call in the ReAct loop, standing in for a real knowledge base or search
// backend without requiring network access to demonstrate the pattern.
type LookupTool struct {
	facts map[string]string
}

// NewLookupTool builds a LookupTool serving the given facts, keyed by the
// "topic" Call input.
func NewLookupTool(facts map[string]string) *LookupTool {
	return &LookupTool{facts: facts}
}

// Name implements tool.Tool.
func (t *LookupTool) Name() string { return "lookup" }

// Call implements tool.Tool. input must contain a "topic" string key.
func (t *LookupTool) Call(_ context.Context, input map[string]interface{}) (map[string]interface{}, error) {
	topic, _ := input["topic"].(string)
	if topic == "" {
		return nil, fmt.Errorf("lookup: missing topic")
	}
	fact, ok := t.facts[topic]
	if !ok {
		return map[string]interface{}{"found": false}, nil
	}
	return map[string]interface{}{"found": true, "fact": fact}, nil
}
