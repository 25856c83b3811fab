// Package bench executes benchmark runs: it brackets one generation
// call with a resource sampling window, scores the output, and turns
// the whole attempt into an immutable record.
package bench

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/envirollm/llm-energy-bench/db"
	"github.com/envirollm/llm-energy-bench/providers"
	"github.com/envirollm/llm-energy-bench/quality"
	"github.com/envirollm/llm-energy-bench/sysmetrics"
)

const judgeTimeout = 60 * time.Second

// ValidationError rejects a request before any sampling starts.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// Request is one (model, prompt) pair to benchmark.
type Request struct {
	Provider providers.Provider
	Model    string
	Prompt   string
	Notes    string
}

// Runner drives the per-run state machine:
// PENDING -> SAMPLING -> (COMPLETED | FAILED).
type Runner struct {
	sampler   *sysmetrics.Sampler
	estimator sysmetrics.Estimator
	scorer    *quality.Scorer
	store     *db.Client
	timeout   time.Duration

	// mu serializes sampling windows across callers. Two overlapping
	// generations would each show up in the other's CPU/GPU samples.
	mu sync.Mutex
}

// NewRunner wires the engine together. timeout bounds each generation
// call so a backend that never signals completion cannot hang a run.
func NewRunner(sampler *sysmetrics.Sampler, estimator sysmetrics.Estimator,
	scorer *quality.Scorer, store *db.Client, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &Runner{
		sampler:   sampler,
		estimator: estimator,
		scorer:    scorer,
		store:     store,
		timeout:   timeout,
	}
}

// Run executes one benchmark end-to-end and returns its record. A
// generation failure produces a FAILED record, not an error; the error
// return is reserved for validation and caller cancellation (in which
// case collected samples are discarded and nothing is recorded).
func (r *Runner) Run(ctx context.Context, req Request) (db.BenchmarkRecord, error) {
	if err := validate(req); err != nil {
		return db.BenchmarkRecord{}, err
	}

	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	result, samples, duration, genErr := r.sampleGeneration(runCtx, req)

	if genErr != nil && (errors.Is(genErr, providers.ErrCancelled) || ctx.Err() != nil) {
		return db.BenchmarkRecord{}, fmt.Errorf("%w: benchmark aborted", providers.ErrCancelled)
	}

	rec := db.BenchmarkRecord{
		ID:           uuid.NewString(),
		ModelName:    req.Model,
		Source:       req.Provider.Source(),
		Quantization: quantizationFor(req.Provider.Source(), req.Model),
		Prompt:       req.Prompt,
		Notes:        req.Notes,
		Timestamp:    time.Now().UTC(),
	}

	if genErr != nil {
		rec.Status = db.StatusFailed
		rec.Error = genErr.Error()
		observeRun(rec)
		return rec, nil
	}

	usage := r.estimator.Aggregate(samples, duration, sysmetrics.TotalMemoryBytes())
	metrics := db.Metrics{
		AvgCPUUsage:     usage.AvgCPUUsage,
		AvgMemoryUsage:  usage.AvgMemoryUsage,
		AvgPowerWatts:   usage.AvgPowerWatts,
		PeakMemoryGB:    usage.PeakMemoryGB,
		TotalEnergyWh:   usage.TotalEnergyWh,
		DurationSeconds: usage.DurationSeconds,
	}
	if result.TokensGenerated > 0 && duration > 0 {
		tokens := result.TokensGenerated
		tps := float64(tokens) / duration
		metrics.TokensGenerated = &tokens
		metrics.TokensPerSecond = &tps
	}

	scoreCtx, scoreCancel := context.WithTimeout(ctx, judgeTimeout)
	defer scoreCancel()
	scored := r.scorer.Score(scoreCtx, req.Prompt, result.Response)

	rec.Status = db.StatusCompleted
	rec.Response = result.Response
	rec.Metrics = &metrics
	rec.QualityMetrics = &db.QualityMetrics{
		CharCount:       scored.Stats.CharCount,
		WordCount:       scored.Stats.WordCount,
		UniqueWords:     scored.Stats.UniqueWords,
		UniqueWordRatio: scored.Stats.UniqueWordRatio,
		AvgWordLength:   scored.Stats.AvgWordLength,
		SentenceCount:   scored.Stats.SentenceCount,
		QualityScore:    scored.Score,
		QualityMethod:   scored.Method,
	}
	observeRun(rec)
	return rec, nil
}

// RunBatch benchmarks several models sequentially against one prompt.
// Sequential on purpose: concurrent runs would contaminate each other's
// sample windows. Each model yields exactly one record, appended to the
// store in request order; one model's failure never aborts its
// siblings. Cancellation aborts the batch, keeping records already
// appended.
func (r *Runner) RunBatch(ctx context.Context, provider providers.Provider,
	models []string, prompt, notes string) ([]db.BenchmarkRecord, error) {
	if len(models) == 0 {
		return nil, ValidationError("at least one model is required")
	}

	records := make([]db.BenchmarkRecord, 0, len(models))
	for _, model := range models {
		rec, err := r.Run(ctx, Request{
			Provider: provider,
			Model:    model,
			Prompt:   prompt,
			Notes:    notes,
		})
		if err != nil {
			return records, err
		}
		if err := r.store.Append(ctx, rec); err != nil {
			// Store I/O failures are fatal to the operation and
			// surfaced verbatim: no silent data loss.
			return records, err
		}
		log.Printf("benchmark %s for model %s (%.1fs)", rec.Status, model, runDuration(rec))
		records = append(records, rec)
	}
	return records, nil
}

// sampleGeneration runs one generate call inside a sampling window.
// The window opens immediately before the call and closes immediately
// after it returns, bounding true wall-clock generation time. At most
// one window is ever open; concurrent callers queue on mu so that no
// run measures another run's load.
func (r *Runner) sampleGeneration(ctx context.Context, req Request) (providers.GenerateResult, []sysmetrics.Sample, float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// The deferred Stop guarantees teardown on every exit path; Stop is
	// idempotent.
	handle := r.sampler.Start()
	defer handle.Stop()

	started := time.Now()
	result, genErr := req.Provider.Generate(ctx, req.Model, req.Prompt)
	duration := time.Since(started).Seconds()
	samples := handle.Stop()
	return result, samples, duration, genErr
}

func validate(req Request) error {
	if req.Provider == nil {
		return ValidationError("unknown provider")
	}
	if req.Model == "" {
		return ValidationError("model is required")
	}
	if req.Prompt == "" {
		return ValidationError("prompt is required")
	}
	return nil
}

func quantizationFor(source providers.Source, model string) string {
	if source == providers.SourceOllama {
		return providers.ParseQuantization(model)
	}
	return "Unknown"
}

func runDuration(rec db.BenchmarkRecord) float64 {
	if rec.Metrics == nil {
		return 0
	}
	return rec.Metrics.DurationSeconds
}
