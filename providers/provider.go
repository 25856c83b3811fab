package providers

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Source identifies which kind of backend produced a benchmark record.
type Source string

const (
	SourceOllama           Source = "ollama"
	SourceOpenAICompatible Source = "openai_compatible"
	SourceManual           Source = "manual"
)

var (
	// ErrProviderUnavailable means the backend is unreachable or not running.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrCancelled means the caller aborted the in-flight call.
	ErrCancelled = errors.New("cancelled")
)

// GenerationError means the backend was reachable but the generation
// call itself failed. It is surfaced per-model and never aborts a batch.
type GenerationError struct {
	Model   string
	Message string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed for %s: %s", e.Model, e.Message)
}

// GenerateResult is what one generation call yields. TokensGenerated is
// zero when the backend does not report token counts.
type GenerateResult struct {
	Response        string
	TokensGenerated int
	DurationSeconds float64
}

// Provider is the capability contract a model-serving backend implements.
type Provider interface {
	Source() Source
	// ListModels returns available model identifiers, or
	// ErrProviderUnavailable when the backend cannot be reached.
	ListModels(ctx context.Context) ([]string, error)
	// Generate runs one prompt against one model. Errors are either
	// ErrProviderUnavailable, ErrCancelled, or *GenerationError.
	Generate(ctx context.Context, model, prompt string) (GenerateResult, error)
}

// ParseQuantization infers the quantization scheme from a model tag,
// e.g. "llama3:8b-instruct-q8_0" -> "Q8". Ollama defaults to Q4 when
// the tag carries no marker.
func ParseQuantization(model string) string {
	lower := strings.ToLower(model)
	switch {
	case strings.Contains(lower, "fp16") || strings.Contains(lower, "f16"):
		return "FP16"
	case strings.Contains(lower, "fp32") || strings.Contains(lower, "f32"):
		return "FP32"
	case strings.Contains(lower, "q2"):
		return "Q2"
	case strings.Contains(lower, "q3"):
		return "Q3"
	case strings.Contains(lower, "q5"):
		return "Q5"
	case strings.Contains(lower, "q6"):
		return "Q6"
	case strings.Contains(lower, "q8"):
		return "Q8"
	case strings.Contains(lower, "q4"):
		return "Q4"
	}
	return "Q4"
}

// wrapTransportErr maps a transport-level failure onto the taxonomy,
// preserving cancellation.
func wrapTransportErr(err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrCancelled, err)
	}
	return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
}
