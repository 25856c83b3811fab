package handlers

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/envirollm/llm-energy-bench/db"
	"github.com/envirollm/llm-energy-bench/sysmetrics"
)

type CostSavings struct {
	AvgEnergyWhPerRun    float64 `json:"avg_energy_wh_per_run"`
	CostPer100Runs       float64 `json:"cost_per_100_runs"`
	PotentialSavingsP100 float64 `json:"potential_savings_per_100_runs"`
	PricePerKWh          float64 `json:"price_per_kwh"`
	Currency             string  `json:"currency"`
}

type OptimizeResponse struct {
	SystemSpecs     sysmetrics.SystemSpecs `json:"system_specs"`
	Recommendations []string               `json:"recommendations"`
	CostSavings     CostSavings            `json:"cost_savings"`
}

// OptimizeHandler performs a static system analysis: hardware-driven
// model sizing advice plus an electricity-cost estimate from the stored
// benchmark history.
func OptimizeHandler(monitor *sysmetrics.Monitor, store *db.Client, pricePerKWh float64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		specs, _, err := monitor.Specs(r.Context())
		if err != nil {
			http.Error(w, "failed to read system info: "+err.Error(), http.StatusInternalServerError)
			return
		}

		records, err := store.GetAll(r.Context())
		if err != nil {
			writeStoreError(w, err)
			return
		}

		resp := OptimizeResponse{
			SystemSpecs:     specs,
			Recommendations: adviceFor(specs),
			CostSavings:     savingsFrom(records, pricePerKWh),
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func adviceFor(specs sysmetrics.SystemSpecs) []string {
	advice := []string{}

	if !specs.GPUAvailable {
		advice = append(advice,
			"No dedicated GPU detected: prefer Q4-quantized models and expect CPU-bound inference speeds.")
	} else {
		var vramGB float64
		for _, g := range specs.GPUs {
			vramGB += g.MemoryTotalGB
		}
		switch {
		case vramGB >= 24:
			advice = append(advice, fmt.Sprintf(
				"%.0f GB VRAM available: 13B-33B models at Q4/Q5 fit fully on GPU for best energy-per-token.", vramGB))
		case vramGB >= 8:
			advice = append(advice, fmt.Sprintf(
				"%.0f GB VRAM available: 7B-13B models at Q4 fit on GPU; larger models will spill to system memory.", vramGB))
		case vramGB > 0:
			advice = append(advice, fmt.Sprintf(
				"%.0f GB VRAM is tight: stay at 7B or below, or use Q3/Q4 quantization.", vramGB))
		}
	}

	switch {
	case specs.MemoryGB < 16:
		advice = append(advice,
			"Under 16 GB system memory: stick to 7B-and-below models to avoid swapping, which wrecks both speed and energy use.")
	case specs.MemoryGB >= 64:
		advice = append(advice,
			"64+ GB system memory: large models can run CPU-only, but benchmark them - energy per token rises steeply off-GPU.")
	}

	advice = append(advice,
		"Quantized models (Q4/Q8) typically cut energy per response substantially versus FP16 at a modest quality cost; use repeated-prompt benchmarks to measure the trade-off on this machine.")
	return advice
}

func savingsFrom(records []db.BenchmarkRecord, pricePerKWh float64) CostSavings {
	savings := CostSavings{PricePerKWh: pricePerKWh, Currency: "USD"}

	var sum, best, worst float64
	var count int
	for _, rec := range records {
		if rec.Status != db.StatusCompleted || rec.Metrics == nil {
			continue
		}
		wh := rec.Metrics.TotalEnergyWh
		sum += wh
		if count == 0 || wh < best {
			best = wh
		}
		if wh > worst {
			worst = wh
		}
		count++
	}
	if count == 0 {
		return savings
	}

	savings.AvgEnergyWhPerRun = round2(sum / float64(count))
	savings.CostPer100Runs = round4(sum / float64(count) * 100 / 1000 * pricePerKWh)
	savings.PotentialSavingsP100 = round4((worst - best) * 100 / 1000 * pricePerKWh)
	return savings
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
