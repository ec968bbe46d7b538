// Command flowgraph loads a YAML process definition and runs it to
// termination, printing the final state's artifacts. Everything in this
// file is external-collaborator wiring (spec §1): provider selection,
// env loading, and output formatting are all out of the core's scope.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/flowgraph/flowgraph/builtins"
	"github.com/flowgraph/flowgraph/config"
	"github.com/flowgraph/flowgraph/graph"
	"github.com/flowgraph/flowgraph/graph/dsl"
	"github.com/flowgraph/flowgraph/graph/emit"
	"github.com/flowgraph/flowgraph/graph/model/anthropic"
	"github.com/flowgraph/flowgraph/graph/model/google"
	"github.com/flowgraph/flowgraph/graph/model/openai"
	"github.com/flowgraph/flowgraph/graph/store"
)

func main() {
	processPath := flag.String("process", "", "path to a YAML process definition")
	envPath := flag.String("env", ".env", "path to an optional .env file")
	contextPath := flag.String("context", "", "path to a JSON file for initial_context (optional)")
	flag.Parse()

	if *processPath == "" {
		log.Fatal("flowgraph: -process is required")
	}

	cfg, err := config.Load(*envPath)
	if err != nil {
		log.Fatalf("flowgraph: loading config: %v", err)
	}

	models := modelsFromConfig(cfg)
	tools := dsl.NewToolRegistry()
	builtins.RegisterAll(tools)

	f, err := os.Open(*processPath)
	if err != nil {
		log.Fatalf("flowgraph: opening %s: %v", *processPath, err)
	}
	defer f.Close()

	proc, err := dsl.Load(f, models, tools, os.Getenv)
	if err != nil {
		log.Fatalf("flowgraph: invalid process definition: %v", err)
	}

	opts := []graph.Option{
		graph.WithVisitLimit(cfg.VisitLimit),
		graph.WithEmitter(emit.NewLogEmitter(os.Stdout, cfg.LogJSON)),
	}
	if cfg.StorePath != "" {
		st, err := store.NewSQLiteStore(cfg.StorePath)
		if err != nil {
			log.Fatalf("flowgraph: opening store %s: %v", cfg.StorePath, err)
		}
		defer st.Close()
		opts = append(opts, graph.WithStore(st))
	}

	engine, err := graph.New(proc, opts...)
	if err != nil {
		log.Fatalf("flowgraph: constructing engine: %v", err)
	}

	initialContext, err := loadContext(*contextPath)
	if err != nil {
		log.Fatalf("flowgraph: loading -context: %v", err)
	}

	state, err := engine.Run(context.Background(), initialContext)
	if err != nil {
		log.Fatalf("flowgraph: run failed: %v", err)
	}

	if errText, ok := state.Quality["error"].(string); ok && errText != "" {
		fmt.Fprintf(os.Stderr, "process finished with an error: %s\n", errText)
	}

	out, err := json.MarshalIndent(state.Artifacts, "", "  ")
	if err != nil {
		log.Fatalf("flowgraph: encoding result: %v", err)
	}
	fmt.Println(string(out))
}

// modelsFromConfig wires each configured provider under its canonical name
// plus the role aliases writer, planner, judge and router, so a single
// provider key can back every
// model_name a process references without per-deployment alias config.
func modelsFromConfig(cfg config.Config) dsl.ModelRegistry {
	models := dsl.ModelRegistry{}
	if cfg.OpenAIAPIKey != "" {
		chat := openai.NewChatModel(cfg.OpenAIAPIKey, "gpt-4o")
		for _, name := range []string{"gpt-4o", "writer", "planner"} {
			models[name] = chat
		}
	}
	if cfg.AnthropicAPIKey != "" {
		chat := anthropic.NewChatModel(cfg.AnthropicAPIKey, "claude-sonnet-4-5-20250929")
		for _, name := range []string{"claude-sonnet-4-5", "judge"} {
			models[name] = chat
		}
	}
	if cfg.GoogleAPIKey != "" {
		chat := google.NewChatModel(cfg.GoogleAPIKey, "gemini-pro")
		for _, name := range []string{"gemini-pro", "router"} {
			models[name] = chat
		}
	}
	return models
}

func loadContext(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ctx map[string]any
	if err := json.Unmarshal(raw, &ctx); err != nil {
		return nil, err
	}
	return ctx, nil
}
