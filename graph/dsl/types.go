// Package dsl loads and validates the YAML process definition (spec
// §6.2) into a compiled, ready-to-run *graph.Process.
package dsl

// document is the root shape of a process YAML file.
type document struct {
	Process processDoc          `yaml:"process"`
	Agents  map[string]agentDoc `yaml:"agents"`
	Edges   []edgeDoc           `yaml:"edges"`
	Tools   map[string]toolManifestDoc `yaml:"tools"`
}

type processDoc struct {
	Name          string `yaml:"name"`
	Start         string `yaml:"start"`
	DoneCondition string `yaml:"done_condition"`
}

// agentDoc is the union of every kind's fields; only the subset relevant
// to Kind is read by the loader, and validated as required for that kind.
type agentDoc struct {
	Kind            string   `yaml:"kind"`
	Purpose         string   `yaml:"purpose"`
	ModelName       string   `yaml:"model_name"`
	PromptTemplate  string   `yaml:"prompt_template"`
	OutputKey       string   `yaml:"output_key"`
	ForceJSONOutput bool     `yaml:"force_json_output"`
	Function        string   `yaml:"function"`
	Tools           []string `yaml:"tools"`
	AvailableAgents []string `yaml:"available_agents"`
}

type edgeDoc struct {
	From      string `yaml:"from"`
	To        string `yaml:"to"`
	Condition string `yaml:"condition"`
}

type toolManifestDoc struct {
	Description    string             `yaml:"description"`
	ProviderType   string             `yaml:"provider_type"`
	ProviderConfig providerConfigDoc  `yaml:"provider_config"`
	Tools          []operationDoc     `yaml:"tools"`
}

type providerConfigDoc struct {
	BaseURL string      `yaml:"base_url"`
	Auth    authDoc     `yaml:"auth"`
}

type authDoc struct {
	Type   string `yaml:"type"`
	Secret string `yaml:"secret"`
}

type operationDoc struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Endpoint    string   `yaml:"endpoint"`
	Method      string   `yaml:"method"`
	Parameters  []string `yaml:"parameters"`
}

// Agent kind names, spec §4.C.
const (
	KindLLM           = "llm"
	KindDeterministic = "deterministic"
	KindReflection    = "reflection"
	KindToolUsing     = "tool_using"
	KindSupervisor    = "supervisor"
	KindUTCPAgent     = "utcp_agent"
)

var validKinds = map[string]bool{
	KindLLM:           true,
	KindDeterministic: true,
	KindReflection:    true,
	KindToolUsing:     true,
	KindSupervisor:    true,
	KindUTCPAgent:     true,
}
