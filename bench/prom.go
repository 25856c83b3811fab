package bench

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/envirollm/llm-energy-bench/db"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "envirollm_benchmark_runs_total",
		Help: "Benchmark runs by source and outcome.",
	}, []string{"source", "status"})

	runDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "envirollm_benchmark_duration_seconds",
		Help:    "Wall-clock duration of the generation sampling window.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 12),
	})

	runEnergyWh = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "envirollm_benchmark_energy_wh",
		Help:    "Estimated energy per completed benchmark run.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
	})
)

func observeRun(rec db.BenchmarkRecord) {
	runsTotal.WithLabelValues(string(rec.Source), rec.Status).Inc()
	if rec.Metrics != nil {
		runDurationSeconds.Observe(rec.Metrics.DurationSeconds)
		runEnergyWh.Observe(rec.Metrics.TotalEnergyWh)
	}
}
