package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/envirollm/llm-energy-bench/bench"
	"github.com/envirollm/llm-energy-bench/providers"
)

type OpenAIBenchmarkRequest struct {
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
	Prompt  string `json:"prompt"`
	APIKey  string `json:"api_key,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

type LMStudioStatusResponse struct {
	Available bool     `json:"available"`
	Models    []string `json:"models"`
}

// OpenAIBenchmarkHandler benchmarks a single model on any
// OpenAI-compatible server (LM-Studio, vLLM, text-generation-webui).
func OpenAIBenchmarkHandler(runner *bench.Runner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req OpenAIBenchmarkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if req.BaseURL == "" || req.Model == "" || req.Prompt == "" {
			http.Error(w, "base_url, model, and prompt are required", http.StatusBadRequest)
			return
		}

		client := providers.NewOpenAICompatClient(req.BaseURL, req.APIKey)
		records, err := runner.RunBatch(r.Context(), client, []string{req.Model}, req.Prompt, req.Notes)
		if err != nil {
			writeRunError(w, err)
			return
		}

		rec := records[0]
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status": rec.Status,
			"result": rec,
		})
	}
}

// LMStudioStatusHandler probes the local LM-Studio server through its
// OpenAI-compatible /models endpoint.
func LMStudioStatusHandler(baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := LMStudioStatusResponse{Models: []string{}}

		client := providers.NewOpenAICompatClient(baseURL, "")
		models, err := client.ListModels(r.Context())
		if err == nil {
			resp.Available = true
			resp.Models = models
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}
