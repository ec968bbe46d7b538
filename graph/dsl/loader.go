package dsl

import (
	"io"

	"gopkg.in/yaml.v3"

	"github.com/flowgraph/flowgraph/graph"
	"github.com/flowgraph/flowgraph/graph/agentkind"
	"github.com/flowgraph/flowgraph/graph/tool"
)

// Load parses a YAML process document from r, validates it against every
// rule in spec §4.D, and instantiates a ready-to-run *graph.Process.
// models and tools are the caller-supplied collaborator registries (spec
// §6.1); secret resolves an environment-variable name to its value for
// utcp_agent bearer auth (pass os.Getenv in production).
//
// Validation is all-or-nothing: if any rule is violated, Load returns a
// ValidationErrors before instantiating a single agent.
func Load(r io.Reader, models agentkind.ModelRegistry, tools agentkind.ToolRegistry, secret func(string) string) (*graph.Process, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, &ValidationError{Field: "<document>", Message: err.Error()}
	}

	if errs := validate(doc, tools); len(errs) > 0 {
		return nil, errs
	}

	manifests := buildManifests(doc.Tools, secret)

	agents := make(map[string]graph.Agent, len(doc.Agents))
	for name, a := range doc.Agents {
		agent, err := buildAgent(a, models, tools, manifests)
		if err != nil {
			return nil, err
		}
		agents[name] = agent
	}

	edges := make([]graph.Edge, len(doc.Edges))
	for i, e := range doc.Edges {
		edges[i] = graph.Edge{From: e.From, To: e.To, Condition: e.Condition}
	}

	return graph.NewProcess(doc.Process.Name, doc.Process.Start, doc.Process.DoneCondition, agents, edges)
}

func buildAgent(a agentDoc, models agentkind.ModelRegistry, tools agentkind.ToolRegistry, manifests map[string]tool.Tool) (graph.Agent, error) {
	switch a.Kind {
	case KindLLM:
		return &agentkind.LLMAgent{
			Purpose:         a.Purpose,
			ModelName:       a.ModelName,
			PromptTemplate:  a.PromptTemplate,
			OutputKey:       a.OutputKey,
			ForceJSONOutput: a.ForceJSONOutput,
			Models:          models,
		}, nil
	case KindReflection:
		return &agentkind.ReflectionAgent{
			Purpose:        a.Purpose,
			ModelName:      a.ModelName,
			PromptTemplate: a.PromptTemplate,
			Models:         models,
		}, nil
	case KindDeterministic:
		fn, _ := tools.ResolveFunction(a.Function)
		return &agentkind.DeterministicAgent{
			Purpose:      a.Purpose,
			FunctionName: a.Function,
			Fn:           fn,
		}, nil
	case KindToolUsing:
		return &agentkind.ToolUsingAgent{
			Purpose:        a.Purpose,
			ModelName:      a.ModelName,
			Tools:          a.Tools,
			PromptTemplate: a.PromptTemplate,
			OutputKey:      a.OutputKey,
			Models:         models,
			Registry:       tools,
		}, nil
	case KindSupervisor:
		return &agentkind.SupervisorAgent{
			Purpose:         a.Purpose,
			ModelName:       a.ModelName,
			AvailableAgents: a.AvailableAgents,
			PromptTemplate:  a.PromptTemplate,
			Models:          models,
		}, nil
	case KindUTCPAgent:
		return &agentkind.UTCPAgent{
			Purpose:         a.Purpose,
			ModelName:       a.ModelName,
			Tools:           a.Tools,
			PromptTemplate:  a.PromptTemplate,
			OutputKey:       a.OutputKey,
			ForceJSONOutput: a.ForceJSONOutput,
			Models:          models,
			Manifests:       manifests,
		}, nil
	default:
		return nil, &ValidationError{Field: "agents", Message: "unreachable: unknown kind " + a.Kind}
	}
}

// buildManifests turns the top-level `tools` YAML section into UTCP tool
// implementations, keyed by manifest name the same way utcp_agent.tools
// references them.
func buildManifests(docs map[string]toolManifestDoc, secret func(string) string) map[string]tool.Tool {
	manifests := make(map[string]tool.Tool, len(docs))
	for name, d := range docs {
		ops := make([]tool.Operation, len(d.Tools))
		for i, op := range d.Tools {
			ops[i] = tool.Operation{
				Name:        op.Name,
				Description: op.Description,
				Endpoint:    op.Endpoint,
				Method:      op.Method,
				Parameters:  op.Parameters,
			}
		}
		var auth *tool.BearerAuth
		if d.ProviderConfig.Auth.Type == "bearer" {
			auth = &tool.BearerAuth{SecretEnvVar: d.ProviderConfig.Auth.Secret}
		}
		manifest := tool.UTCPManifest{
			Name:        name,
			Description: d.Description,
			BaseURL:     d.ProviderConfig.BaseURL,
			Auth:        auth,
			Operations:  ops,
		}
		manifests[name] = tool.NewUTCPTool(manifest, secret)
	}
	return manifests
}
