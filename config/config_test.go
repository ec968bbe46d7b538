package config

import (
	"os"
	"testing"
)

func TestLoadReadsEnvironmentWithDefaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("FLOWGRAPH_VISIT_LIMIT", "")
	t.Setenv("FLOWGRAPH_LOG_JSON", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OpenAIAPIKey != "sk-test" {
		t.Errorf("OpenAIAPIKey = %q", cfg.OpenAIAPIKey)
	}
	if cfg.VisitLimit != 50 {
		t.Errorf("VisitLimit = %d, want default 50", cfg.VisitLimit)
	}
	if cfg.LogJSON {
		t.Error("LogJSON = true, want default false")
	}
}

func TestLoadOverridesVisitLimitFromEnvironment(t *testing.T) {
	t.Setenv("FLOWGRAPH_VISIT_LIMIT", "10")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.VisitLimit != 10 {
		t.Errorf("VisitLimit = %d, want 10", cfg.VisitLimit)
	}
}

func TestLoadMissingEnvFileIsNotAnError(t *testing.T) {
	if _, err := os.Stat("./does-not-exist.env"); err == nil {
		t.Fatal("fixture file unexpectedly exists")
	}
	if _, err := Load("./does-not-exist.env"); err != nil {
		t.Fatalf("Load: %v, want nil for a missing optional .env file", err)
	}
}
