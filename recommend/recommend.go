// Package recommend derives model rankings from completed benchmark
// records. It is a pure function of the record set: no I/O, no state.
package recommend

import (
	"sort"

	"github.com/envirollm/llm-energy-bench/db"
)

// Pick names one winning record and the figure that won it.
type Pick struct {
	ID        string  `json:"id"`
	ModelName string  `json:"model_name"`
	Value     float64 `json:"value"`
}

// Recommendations holds the four rankings. A nil field means no record
// qualified for that category.
type Recommendations struct {
	BestOverall   *Pick `json:"best_overall,omitempty"`
	MostEfficient *Pick `json:"most_efficient,omitempty"`
	Fastest       *Pick `json:"fastest,omitempty"`
	BestQuality   *Pick `json:"best_quality,omitempty"`
}

// FromRecords ranks the non-failed records. An empty input yields empty
// recommendations, not an error. Ties go to the earliest timestamp so
// results stay deterministic.
func FromRecords(records []db.BenchmarkRecord) Recommendations {
	completed := make([]db.BenchmarkRecord, 0, len(records))
	for _, rec := range records {
		if rec.Status == db.StatusCompleted && rec.Metrics != nil {
			completed = append(completed, rec)
		}
	}
	// Earliest-first, so strictly-better comparisons below implement
	// first-seen-wins tie-breaking.
	sort.SliceStable(completed, func(i, j int) bool {
		return completed[i].Timestamp.Before(completed[j].Timestamp)
	})

	var recs Recommendations
	for _, rec := range completed {
		energy := rec.Metrics.TotalEnergyWh

		if recs.MostEfficient == nil || energy < recs.MostEfficient.Value {
			recs.MostEfficient = pick(rec, energy)
		}
		if tps := rec.Metrics.TokensPerSecond; tps != nil {
			if recs.Fastest == nil || *tps > recs.Fastest.Value {
				recs.Fastest = pick(rec, *tps)
			}
		}
		if rec.QualityMetrics != nil {
			score := rec.QualityMetrics.QualityScore
			if recs.BestQuality == nil || score > recs.BestQuality.Value {
				recs.BestQuality = pick(rec, score)
			}
			if energy > 0 {
				perWh := score / energy
				if recs.BestOverall == nil || perWh > recs.BestOverall.Value {
					recs.BestOverall = pick(rec, perWh)
				}
			}
		}
	}
	return recs
}

func pick(rec db.BenchmarkRecord, value float64) *Pick {
	return &Pick{ID: rec.ID, ModelName: rec.ModelName, Value: value}
}
