package dsl

import (
	"fmt"

	"github.com/flowgraph/flowgraph/graph"
	"github.com/flowgraph/flowgraph/graph/agentkind"
	"github.com/flowgraph/flowgraph/graph/condition"
)

// validate runs every structural check from spec §4.D items 1–9 against
// doc, before any agent is instantiated. tools resolves the
// deterministic/tool_using references named in rules 5 and 6.
func validate(doc document, tools agentkind.ToolRegistry) ValidationErrors {
	var errs ValidationErrors
	fail := func(field, format string, args ...any) {
		errs = append(errs, &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	// Rule 1: process + agents present; edges required unless a
	// supervisor agent exists.
	if doc.Process.Name == "" && doc.Process.Start == "" {
		fail("process", "top-level 'process' key is required")
	}
	if len(doc.Agents) == 0 {
		fail("agents", "top-level 'agents' key is required and must be non-empty")
	}
	hasSupervisor := false
	for _, a := range doc.Agents {
		if a.Kind == KindSupervisor {
			hasSupervisor = true
			break
		}
	}
	if len(doc.Edges) == 0 && !hasSupervisor {
		fail("edges", "'edges' is required unless at least one supervisor agent is declared")
	}

	// Rule 2: process.start must name a defined agent.
	if doc.Process.Start != "" {
		if _, ok := doc.Agents[doc.Process.Start]; !ok {
			fail("process.start", fmt.Sprintf("undefined agent %q", doc.Process.Start))
		}
	}

	// Rule 3: edge endpoints.
	for i, e := range doc.Edges {
		if _, ok := doc.Agents[e.From]; !ok {
			fail(fmt.Sprintf("edges[%d].from", i), fmt.Sprintf("undefined agent %q", e.From))
		}
		if e.To != graph.EndSentinel {
			if _, ok := doc.Agents[e.To]; !ok {
				fail(fmt.Sprintf("edges[%d].to", i), fmt.Sprintf("undefined agent %q", e.To))
			}
		}
	}

	// Rules 4-8: per-agent kind and field checks.
	for name, a := range doc.Agents {
		validateAgent(name, a, doc, tools, fail)
	}

	// Rule 9: every condition parses.
	if doc.Process.DoneCondition != "" {
		if _, err := condition.Parse(doc.Process.DoneCondition); err != nil {
			fail("process.done_condition", err.Error())
		}
	}
	for i, e := range doc.Edges {
		if e.Condition == "" {
			continue
		}
		if _, err := condition.Parse(e.Condition); err != nil {
			fail(fmt.Sprintf("edges[%d].condition", i), err.Error())
		}
	}

	return errs
}

func validateAgent(name string, a agentDoc, doc document, tools agentkind.ToolRegistry, fail func(string, string, ...any)) {
	field := "agents." + name

	// Rule 4: kind must be one of the enumerated set.
	if !validKinds[a.Kind] {
		fail(field+".kind", "must be one of llm|deterministic|reflection|tool_using|supervisor|utcp_agent, got %q", a.Kind)
		return
	}

	switch a.Kind {
	case KindLLM:
		requireField(field, "model_name", a.ModelName, fail)
		requireField(field, "prompt_template", a.PromptTemplate, fail)
		requireField(field, "output_key", a.OutputKey, fail)
	case KindReflection:
		requireField(field, "model_name", a.ModelName, fail)
		requireField(field, "prompt_template", a.PromptTemplate, fail)
	case KindDeterministic:
		requireField(field, "function", a.Function, fail)
		// Rule 5.
		if a.Function != "" && tools != nil {
			if _, ok := tools.ResolveFunction(a.Function); !ok {
				fail(field+".function", "unknown tool-registry function %q", a.Function)
			}
		}
	case KindToolUsing:
		requireField(field, "model_name", a.ModelName, fail)
		requireField(field, "prompt_template", a.PromptTemplate, fail)
		requireField(field, "output_key", a.OutputKey, fail)
		if len(a.Tools) == 0 {
			fail(field+".tools", "tool_using agents must declare at least one tool")
		}
		// Rule 6.
		for _, toolName := range a.Tools {
			if tools != nil {
				if _, ok := tools.ResolveTool(toolName); !ok {
					fail(field+".tools", "unknown tool-registry entry %q", toolName)
				}
			}
		}
	case KindSupervisor:
		requireField(field, "model_name", a.ModelName, fail)
		requireField(field, "prompt_template", a.PromptTemplate, fail)
		if len(a.AvailableAgents) == 0 {
			fail(field+".available_agents", "supervisor agents must declare at least one available agent")
		}
		// Rule 8.
		for _, agentName := range a.AvailableAgents {
			if _, ok := doc.Agents[agentName]; !ok {
				fail(field+".available_agents", "undefined agent %q", agentName)
			}
		}
	case KindUTCPAgent:
		requireField(field, "model_name", a.ModelName, fail)
		requireField(field, "prompt_template", a.PromptTemplate, fail)
		requireField(field, "output_key", a.OutputKey, fail)
		if len(a.Tools) == 0 {
			fail(field+".tools", "utcp_agent agents must declare at least one tool")
		}
		// Rule 7.
		for _, toolName := range a.Tools {
			if _, ok := doc.Tools[toolName]; !ok {
				fail(field+".tools", "undeclared tool manifest %q", toolName)
			}
		}
	}
}

func requireField(field, name, value string, fail func(string, string, ...any)) {
	if value == "" {
		fail(field+"."+name, "is required")
	}
}
