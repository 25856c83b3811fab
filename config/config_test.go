package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "8001" {
		t.Errorf("Default port: got %v want 8001", cfg.Port)
	}
	if cfg.Power.BaseIdleWatts != 50 || cfg.Power.CPUWattCoefficient != 2 {
		t.Errorf("Default power model: got %+v", cfg.Power)
	}
	if cfg.SamplerInterval() != 500*time.Millisecond {
		t.Errorf("Default sampler interval: got %v", cfg.SamplerInterval())
	}
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	dir := t.TempDir()
	yaml := "port: \"9000\"\nollama:\n  base_url: http://ollama:11434\njudge:\n  enabled: false\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv("PORT", "9999")
	t.Setenv("ENVIROLLM_STORE", "/tmp/override.db")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "9999" {
		t.Errorf("Env should win over file: got %v", cfg.Port)
	}
	if cfg.Ollama.BaseURL != "http://ollama:11434" {
		t.Errorf("File value not applied: got %v", cfg.Ollama.BaseURL)
	}
	if cfg.Judge.Enabled {
		t.Error("Judge should be disabled by file")
	}
	if cfg.Store.Path != "/tmp/override.db" {
		t.Errorf("Store override not applied: got %v", cfg.Store.Path)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("port: [oops"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	if _, err := Load(dir); err == nil {
		t.Error("Expected parse error for malformed yaml")
	}
}

func TestTimeoutFallbacks(t *testing.T) {
	var cfg Config
	if cfg.BenchmarkTimeout() != 10*time.Minute {
		t.Errorf("Zero timeout fallback: got %v", cfg.BenchmarkTimeout())
	}
	cfg.Benchmark.TimeoutS = 30
	if cfg.BenchmarkTimeout() != 30*time.Second {
		t.Errorf("Configured timeout: got %v", cfg.BenchmarkTimeout())
	}
}
