package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/envirollm/llm-energy-bench/bench"
	"github.com/envirollm/llm-energy-bench/providers"
)

type OllamaStatusResponse struct {
	Available  bool     `json:"available"`
	ModelCount int      `json:"model_count"`
	Models     []string `json:"models"`
}

type OllamaBenchmarkRequest struct {
	Models []string `json:"models"`
	Prompt string   `json:"prompt"`
	Notes  string   `json:"notes,omitempty"`
}

// OllamaStatusHandler probes the local Ollama daemon. An unreachable
// daemon is a valid answer (available=false), not an HTTP error.
func OllamaStatusHandler(ollama *providers.OllamaClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := OllamaStatusResponse{Models: []string{}}

		models, err := ollama.ListModels(r.Context())
		if err == nil {
			resp.Available = true
			resp.ModelCount = len(models)
			resp.Models = models
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

// OllamaBenchmarkHandler runs one benchmark per requested model,
// sequentially, and returns exactly one record per model.
func OllamaBenchmarkHandler(runner *bench.Runner, ollama *providers.OllamaClient) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OllamaBenchmarkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if len(req.Models) == 0 || req.Prompt == "" {
			http.Error(w, "models and prompt are required", http.StatusBadRequest)
			return
		}

		records, err := runner.RunBatch(r.Context(), ollama, req.Models, req.Prompt, req.Notes)
		if err != nil {
			writeRunError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"results": records})
	}
}

func writeRunError(w http.ResponseWriter, err error) {
	var vErr bench.ValidationError
	switch {
	case errors.As(err, &vErr):
		http.Error(w, vErr.Error(), http.StatusBadRequest)
	case errors.Is(err, providers.ErrCancelled):
		http.Error(w, "benchmark cancelled", http.StatusServiceUnavailable)
	case errors.Is(err, providers.ErrProviderUnavailable):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
