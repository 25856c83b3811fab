package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/envirollm/llm-energy-bench/api/handlers"
	"github.com/envirollm/llm-energy-bench/bench"
	"github.com/envirollm/llm-energy-bench/config"
	"github.com/envirollm/llm-energy-bench/db"
	"github.com/envirollm/llm-energy-bench/providers"
	"github.com/envirollm/llm-energy-bench/quality"
	"github.com/envirollm/llm-energy-bench/sysmetrics"
)

// NewRouter wires the engine and returns the HTTP surface.
func NewRouter(cfg config.Config, store *db.Client) http.Handler {
	r := chi.NewRouter()

	ollama := providers.NewOllamaClient(cfg.Ollama.BaseURL)
	gpuProbe := sysmetrics.NewGPUProbe()
	estimator := sysmetrics.Estimator{
		BaseIdleWatts:      cfg.Power.BaseIdleWatts,
		CPUWattCoefficient: cfg.Power.CPUWattCoefficient,
	}
	monitor := sysmetrics.NewMonitor(estimator, gpuProbe)
	sampler := sysmetrics.NewSampler(cfg.SamplerInterval(), gpuProbe)

	scorer := quality.NewScorer()
	if cfg.Judge.Enabled && cfg.Judge.Model != "" {
		scorer = quality.NewJudgeScorer(ollama, cfg.Judge.Model)
	}

	runner := bench.NewRunner(sampler, estimator, scorer, store, cfg.BenchmarkTimeout())

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Prometheus metrics. Plain /metrics is the live JSON snapshot the
	// UI polls, so the scrape endpoint lives one level down.
	r.Handle("/metrics/prometheus", promhttp.Handler())

	r.Get("/metrics", handlers.MetricsHandler(monitor))
	r.Get("/system", handlers.SystemHandler(monitor))
	r.Get("/optimize", handlers.OptimizeHandler(monitor, store, cfg.Electricity.PricePerKWh))

	r.Get("/ollama/status", handlers.OllamaStatusHandler(ollama))
	r.Post("/ollama/benchmark", handlers.OllamaBenchmarkHandler(runner, ollama))

	r.Post("/openai/benchmark", handlers.OpenAIBenchmarkHandler(runner))
	r.Get("/lmstudio/status", handlers.LMStudioStatusHandler(cfg.LMStudio.BaseURL))

	r.Route("/benchmarks", func(r chi.Router) {
		r.Get("/", handlers.BenchmarksHandler(store))
		r.Post("/", handlers.ImportBenchmarkHandler(store))
		r.Delete("/", handlers.ClearBenchmarksHandler(store))
		r.Get("/by-prompt", handlers.BenchmarksByPromptHandler(store))
		r.Get("/export", handlers.ExportBenchmarksHandler(store))
		r.Get("/recommendations", handlers.RecommendationsHandler(store))
		r.Delete("/{id}", handlers.DeleteBenchmarkHandler(store))
	})

	return r
}
