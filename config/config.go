package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the engine configuration, loaded from configs/config.yaml
// with environment overrides for deployment-specific values.
type Config struct {
	Port string `yaml:"port"`

	Ollama struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"ollama"`

	LMStudio struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"lmstudio"`

	Power struct {
		BaseIdleWatts      float64 `yaml:"base_idle_watts"`
		CPUWattCoefficient float64 `yaml:"cpu_watt_coefficient"`
	} `yaml:"power"`

	Sampler struct {
		IntervalMs int `yaml:"interval_ms"`
	} `yaml:"sampler"`

	Judge struct {
		Enabled bool   `yaml:"enabled"`
		Model   string `yaml:"model"`
	} `yaml:"judge"`

	Benchmark struct {
		TimeoutS int `yaml:"timeout_s"`
	} `yaml:"benchmark"`

	Store struct {
		Path string `yaml:"path"`
	} `yaml:"store"`

	Electricity struct {
		PricePerKWh float64 `yaml:"price_per_kwh"`
	} `yaml:"electricity"`
}

// Default returns the configuration used when no config file is present.
func Default() Config {
	var cfg Config
	cfg.Port = "8001"
	cfg.Ollama.BaseURL = "http://localhost:11434"
	cfg.LMStudio.BaseURL = "http://localhost:1234/v1"
	cfg.Power.BaseIdleWatts = 50
	cfg.Power.CPUWattCoefficient = 2
	cfg.Sampler.IntervalMs = 500
	cfg.Judge.Enabled = true
	cfg.Judge.Model = "llama3.2:1b"
	cfg.Benchmark.TimeoutS = 600
	cfg.Store.Path = defaultStorePath()
	cfg.Electricity.PricePerKWh = 0.17
	return cfg
}

// Load reads config.yaml from configPath (a directory, matching the
// CONFIG_PATH convention) and applies env overrides. A missing file is
// not an error; defaults apply.
func Load(configPath string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(configPath, "config.yaml"))
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Port = port
	}
	if url := os.Getenv("OLLAMA_BASE_URL"); url != "" {
		cfg.Ollama.BaseURL = url
	}
	if url := os.Getenv("LMSTUDIO_BASE_URL"); url != "" {
		cfg.LMStudio.BaseURL = url
	}
	if path := os.Getenv("ENVIROLLM_STORE"); path != "" {
		cfg.Store.Path = path
	}
	return cfg, nil
}

// SamplerInterval returns the sampling cadence as a duration.
func (c Config) SamplerInterval() time.Duration {
	if c.Sampler.IntervalMs <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(c.Sampler.IntervalMs) * time.Millisecond
}

// BenchmarkTimeout bounds one generation call.
func (c Config) BenchmarkTimeout() time.Duration {
	if c.Benchmark.TimeoutS <= 0 {
		return 10 * time.Minute
	}
	return time.Duration(c.Benchmark.TimeoutS) * time.Second
}

func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "benchmarks.db"
	}
	return filepath.Join(home, ".envirollm", "benchmarks.db")
}
