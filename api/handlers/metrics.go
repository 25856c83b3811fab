package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/envirollm/llm-energy-bench/sysmetrics"
)

// MetricsHandler serves a live resource snapshot. This is the current
// state of the machine, not a benchmark result.
func MetricsHandler(monitor *sysmetrics.Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot, err := monitor.Snapshot(r.Context())
		if err != nil {
			http.Error(w, "failed to read system metrics: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(snapshot)
	}
}

// SystemHandler serves the detailed hardware inventory.
func SystemHandler(monitor *sysmetrics.Monitor) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		specs, info, err := monitor.Specs(r.Context())
		if err != nil {
			http.Error(w, "failed to read system info: "+err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"system_specs":         specs,
			"detailed_system_info": info,
		})
	}
}
