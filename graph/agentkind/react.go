package agentkind

import (
	"context"
	"fmt"
	"strings"

	"github.com/flowgraph/flowgraph/graph/model"
	"github.com/flowgraph/flowgraph/graph/tool"
)

// maxReactSteps bounds the reason-act-observe loop tool_using and
// utcp_agent share — an implementation-defined cap per spec §4.C.4, since
// the core only contracts on the final delta, not on loop depth.
const maxReactSteps = 6

// reactLoop drives a bounded tool-call loop: call the model, and for as
// long as it keeps requesting tool calls (up to maxReactSteps), execute
// them via resolveTool and feed the results back as an observation
// message. It stops at the first model reply containing no tool calls,
// treating out.Text as the final answer.
func reactLoop(
	ctx context.Context,
	chat model.ChatModel,
	prompt string,
	toolNames []string,
	resolveTool func(name string) (tool.Tool, bool),
) (string, error) {
	specs := make([]model.ToolSpec, 0, len(toolNames))
	for _, name := range toolNames {
		specs = append(specs, model.ToolSpec{Name: name})
	}

	messages := []model.Message{{Role: model.RoleUser, Content: prompt}}

	for step := 0; step < maxReactSteps; step++ {
		out, err := chat.Chat(ctx, messages, specs)
		if err != nil {
			return "", fmt.Errorf("LLM invocation failed: %w", err)
		}
		if len(out.ToolCalls) == 0 {
			return out.Text, nil
		}

		messages = append(messages, model.Message{Role: model.RoleAssistant, Content: out.Text})

		var observations strings.Builder
		for _, call := range out.ToolCalls {
			t, ok := resolveTool(call.Name)
			if !ok {
				observations.WriteString(fmt.Sprintf("tool %q is not available\n", call.Name))
				continue
			}
			result, callErr := t.Call(ctx, call.Input)
			if callErr != nil {
				observations.WriteString(fmt.Sprintf("tool %q failed: %v\n", call.Name, callErr))
				continue
			}
			observations.WriteString(fmt.Sprintf("tool %q returned: %v\n", call.Name, result))
		}
		messages = append(messages, model.Message{Role: model.RoleUser, Content: observations.String()})
	}

	return "", fmt.Errorf("tool loop exceeded %d steps without a final answer", maxReactSteps)
}
