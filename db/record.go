package db

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/envirollm/llm-energy-bench/providers"
)

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Metrics is the resource/energy side of a completed benchmark.
type Metrics struct {
	AvgCPUUsage     float64  `json:"avg_cpu_usage"`
	AvgMemoryUsage  float64  `json:"avg_memory_usage"`
	AvgPowerWatts   float64  `json:"avg_power_watts"`
	PeakMemoryGB    float64  `json:"peak_memory_gb"`
	TotalEnergyWh   float64  `json:"total_energy_wh"`
	DurationSeconds float64  `json:"duration_seconds"`
	TokensGenerated *int     `json:"tokens_generated,omitempty"`
	TokensPerSecond *float64 `json:"tokens_per_second,omitempty"`
}

// QualityMetrics is the text-quality side of a completed benchmark.
type QualityMetrics struct {
	CharCount       int     `json:"char_count"`
	WordCount       int     `json:"word_count"`
	UniqueWords     int     `json:"unique_words"`
	UniqueWordRatio float64 `json:"unique_word_ratio"`
	AvgWordLength   float64 `json:"avg_word_length"`
	SentenceCount   int     `json:"sentence_count"`
	QualityScore    float64 `json:"quality_score"`
	QualityMethod   string  `json:"quality_method"`
}

// BenchmarkRecord is one completed or failed benchmark attempt. Records
// are immutable after creation; Metrics and Error are mutually
// exclusive, keyed off Status.
type BenchmarkRecord struct {
	ID             string           `json:"id"`
	ModelName      string           `json:"model_name"`
	Source         providers.Source `json:"source"`
	Quantization   string           `json:"quantization"`
	Prompt         string           `json:"prompt"`
	Notes          string           `json:"notes,omitempty"`
	Status         string           `json:"status"`
	Timestamp      time.Time        `json:"timestamp"`
	Metrics        *Metrics         `json:"metrics,omitempty"`
	QualityMetrics *QualityMetrics  `json:"quality_metrics,omitempty"`
	Response       string           `json:"response,omitempty"`
	Error          string           `json:"error,omitempty"`
}

// PromptGroup is a derived view over records sharing one exact prompt.
type PromptGroup struct {
	PromptHash string            `json:"prompt_hash"`
	Prompt     string            `json:"prompt"`
	RunCount   int               `json:"run_count"`
	FirstRun   time.Time         `json:"first_run"`
	LastRun    time.Time         `json:"last_run"`
	Benchmarks []BenchmarkRecord `json:"benchmarks"`
}

// PromptHash returns the stable digest used to group repeated-prompt
// runs. Case- and whitespace-sensitive: only byte-identical prompts
// share a group.
func PromptHash(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
