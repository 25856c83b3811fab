package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/envirollm/llm-energy-bench/db"
	"github.com/envirollm/llm-energy-bench/providers"
	"github.com/envirollm/llm-energy-bench/recommend"
)

type ImportBenchmarkRequest struct {
	ModelName    string             `json:"model_name"`
	Quantization string             `json:"quantization,omitempty"`
	Prompt       string             `json:"prompt"`
	Notes        string             `json:"notes,omitempty"`
	Response     string             `json:"response,omitempty"`
	Metrics      *db.Metrics        `json:"metrics,omitempty"`
	Quality      *db.QualityMetrics `json:"quality_metrics,omitempty"`
}

// BenchmarksHandler returns all stored records, newest first.
func BenchmarksHandler(store *db.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := store.GetAll(r.Context())
		if err != nil {
			writeStoreError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"results": records})
	}
}

// ImportBenchmarkHandler stores a caller-supplied benchmark record,
// for measurements taken outside the engine. Imported records carry
// source "manual" and flow through listing, grouping, export, and
// recommendations like any engine-produced record.
func ImportBenchmarkHandler(store *db.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ImportBenchmarkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		if req.ModelName == "" || req.Prompt == "" {
			http.Error(w, "model_name and prompt are required", http.StatusBadRequest)
			return
		}

		quant := req.Quantization
		if quant == "" {
			quant = "Unknown"
		}
		rec := db.BenchmarkRecord{
			ID:             uuid.NewString(),
			ModelName:      req.ModelName,
			Source:         providers.SourceManual,
			Quantization:   quant,
			Prompt:         req.Prompt,
			Notes:          req.Notes,
			Status:         db.StatusCompleted,
			Timestamp:      time.Now().UTC(),
			Response:       req.Response,
			Metrics:        req.Metrics,
			QualityMetrics: req.Quality,
		}
		if err := store.Append(r.Context(), rec); err != nil {
			writeStoreError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"status": rec.Status, "result": rec})
	}
}

// BenchmarksByPromptHandler returns the derived prompt-group view.
func BenchmarksByPromptHandler(store *db.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		groups, err := store.GroupByPrompt(r.Context())
		if err != nil {
			writeStoreError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"groups": groups})
	}
}

// DeleteBenchmarkHandler removes one record by id.
func DeleteBenchmarkHandler(store *db.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			http.Error(w, "record ID is required", http.StatusBadRequest)
			return
		}

		if err := store.Delete(r.Context(), id); err != nil {
			writeStoreError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "deleted", "id": id})
	}
}

// ClearBenchmarksHandler removes every record.
func ClearBenchmarksHandler(store *db.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := store.ClearAll(r.Context()); err != nil {
			writeStoreError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "success", "message": "All benchmarks cleared"})
	}
}

// ExportBenchmarksHandler streams completed records as CSV.
func ExportBenchmarksHandler(store *db.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="benchmarks.csv"`)
		if err := store.ExportCSV(r.Context(), w); err != nil {
			// Headers may already be gone; best effort.
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// RecommendationsHandler ranks the stored records.
func RecommendationsHandler(store *db.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		records, err := store.GetAll(r.Context())
		if err != nil {
			writeStoreError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(recommend.FromRecords(records))
	}
}

func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, db.ErrNotFound):
		http.Error(w, "record not found", http.StatusNotFound)
	case errors.Is(err, db.ErrNotConnected):
		http.Error(w, "store not available", http.StatusServiceUnavailable)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
