// Package config loads the ambient settings flowgraph's binaries need
// that the core engine itself stays silent on: provider API keys, the
// loop-guard default, log format, and where the run store lives. Everything
// here is an external collaborator concern (spec §1) — the engine
// package never imports this one.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config collects the environment-sourced settings a flowgraph process
// run needs beyond the YAML document itself.
type Config struct {
	// OpenAIAPIKey, AnthropicAPIKey, GoogleAPIKey are provider
	// credentials, read from the environment; empty means that
	// provider is unavailable.
	OpenAIAPIKey    string
	AnthropicAPIKey string
	GoogleAPIKey    string

	// VisitLimit overrides the engine's default per-node loop-guard cap
	// (spec §4.E design default: 50).
	VisitLimit int

	// LogJSON selects JSONL emitter output over human-readable text.
	LogJSON bool

	// StorePath, if set, points at a SQLite file for snapshot
	// persistence (spec §6.4); empty disables the store.
	StorePath string
}

// Load reads settings from the process environment, optionally after
// loading envPath as a .env file first (a missing file is not an error —
// production deployments set real environment variables directly).
func Load(envPath string) (Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
			return Config{}, err
		}
	}

	cfg := Config{
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		GoogleAPIKey:    os.Getenv("GOOGLE_API_KEY"),
		VisitLimit:      envInt("FLOWGRAPH_VISIT_LIMIT", 50),
		LogJSON:         envBool("FLOWGRAPH_LOG_JSON", false),
		StorePath:       os.Getenv("FLOWGRAPH_STORE_PATH"),
	}
	return cfg, nil
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return b
}
