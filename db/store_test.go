package db

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envirollm/llm-energy-bench/providers"
)

func newTestStore(t *testing.T) *Client {
	t.Helper()
	store, err := NewClient(context.Background(), filepath.Join(t.TempDir(), "benchmarks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func completedRecord(model, prompt string, ts time.Time) BenchmarkRecord {
	tokens := 40
	tps := 8.0
	return BenchmarkRecord{
		ID:           uuid.NewString(),
		ModelName:    model,
		Source:       providers.SourceOllama,
		Quantization: "Q4",
		Prompt:       prompt,
		Status:       StatusCompleted,
		Timestamp:    ts,
		Response:     "some generated text",
		Metrics: &Metrics{
			AvgCPUUsage:     35.5,
			AvgMemoryUsage:  60.1,
			AvgPowerWatts:   121.0,
			PeakMemoryGB:    11.2,
			TotalEnergyWh:   0.168,
			DurationSeconds: 5.0,
			TokensGenerated: &tokens,
			TokensPerSecond: &tps,
		},
		QualityMetrics: &QualityMetrics{
			WordCount:     40,
			QualityScore:  72.5,
			QualityMethod: "heuristic",
		},
	}
}

func failedRecord(model, prompt string, ts time.Time) BenchmarkRecord {
	return BenchmarkRecord{
		ID:        uuid.NewString(),
		ModelName: model,
		Source:    providers.SourceOllama,
		Prompt:    prompt,
		Status:    StatusFailed,
		Timestamp: ts,
		Error:     "model not found",
	}
}

func TestAppendAndGetAllOrdering(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	older := completedRecord("a", "p", base)
	newer := completedRecord("b", "p", base.Add(time.Minute))
	require.NoError(t, store.Append(ctx, older))
	require.NoError(t, store.Append(ctx, newer))

	records, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[0].ModelName, "newest first")
	assert.Equal(t, "a", records[1].ModelName)
}

func TestGetAllOrdersSubSecondTimestamps(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// A whole-second timestamp and a later sub-second one; inserted
	// newer-first so the insertion-sequence tiebreaker cannot mask a
	// broken created_at comparison.
	newer := completedRecord("newer", "p", base.Add(500*time.Millisecond))
	older := completedRecord("older", "p", base)
	require.NoError(t, store.Append(ctx, newer))
	require.NoError(t, store.Append(ctx, older))

	records, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "newer", records[0].ModelName, "ordering is chronological, not lexicographic")
	assert.Equal(t, "older", records[1].ModelName)
	assert.Equal(t, base.Add(500*time.Millisecond), records[0].Timestamp)
}

func TestRoundTripPreservesMutualExclusion(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	ok := completedRecord("good", "p", now)
	bad := failedRecord("broken", "p", now)
	require.NoError(t, store.Append(ctx, ok))
	require.NoError(t, store.Append(ctx, bad))

	records, err := store.GetAll(ctx)
	require.NoError(t, err)
	for _, rec := range records {
		if rec.Status == StatusCompleted {
			assert.NotNil(t, rec.Metrics)
			assert.Empty(t, rec.Error)
		} else {
			assert.Nil(t, rec.Metrics)
			assert.Nil(t, rec.QualityMetrics)
			assert.NotEmpty(t, rec.Error)
		}
	}
}

func TestGetByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := completedRecord("m", "p", time.Now().UTC())
	require.NoError(t, store.Append(ctx, rec))

	got, err := store.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	require.NotNil(t, got.Metrics)
	assert.InDelta(t, 0.168, got.Metrics.TotalEnergyWh, 1e-9)
	require.NotNil(t, got.Metrics.TokensGenerated)
	assert.Equal(t, 40, *got.Metrics.TokensGenerated)

	_, err = store.GetByID(ctx, "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec := completedRecord("m", "p", time.Now().UTC())
	require.NoError(t, store.Append(ctx, rec))

	require.NoError(t, store.Delete(ctx, rec.ID))
	assert.ErrorIs(t, store.Delete(ctx, rec.ID), ErrNotFound)

	records, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestClearAll(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Append(ctx, completedRecord("m", "p", time.Now().UTC())))
	}
	require.NoError(t, store.ClearAll(ctx))

	records, err := store.GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestGroupByPromptPartitions(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Two byte-identical prompts, one trailing-whitespace variant.
	require.NoError(t, store.Append(ctx, completedRecord("a", "tell me a joke", base)))
	require.NoError(t, store.Append(ctx, completedRecord("b", "tell me a joke", base.Add(time.Minute))))
	require.NoError(t, store.Append(ctx, completedRecord("c", "tell me a joke ", base.Add(2*time.Minute))))

	groups, err := store.GroupByPrompt(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)

	var total int
	seen := map[string]bool{}
	for _, g := range groups {
		assert.Equal(t, len(g.Benchmarks), g.RunCount)
		total += g.RunCount
		for _, rec := range g.Benchmarks {
			assert.False(t, seen[rec.ID], "record %s in two groups", rec.ID)
			seen[rec.ID] = true
			assert.Equal(t, g.PromptHash, PromptHash(rec.Prompt))
		}
	}
	assert.Equal(t, 3, total, "every record in exactly one group")

	// Newest group (by first run) comes first.
	assert.Equal(t, "tell me a joke ", groups[0].Prompt)
	assert.Equal(t, 2, groups[1].RunCount)
	assert.Equal(t, base, groups[1].FirstRun)
	assert.Equal(t, base.Add(time.Minute), groups[1].LastRun)
	// Members keep insertion order.
	assert.Equal(t, "a", groups[1].Benchmarks[0].ModelName)
	assert.Equal(t, "b", groups[1].Benchmarks[1].ModelName)
}

func TestExportCSVRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.Append(ctx, completedRecord("a", "p", now)))
	require.NoError(t, store.Append(ctx, completedRecord("b", "p", now.Add(time.Second))))
	require.NoError(t, store.Append(ctx, failedRecord("c", "p", now.Add(2*time.Second))))

	var buf bytes.Buffer
	require.NoError(t, store.ExportCSV(ctx, &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Equal(t, csvHeader, rows[0])
	// One row per completed record; the failed one is excluded.
	assert.Len(t, rows[1:], 2)

	for _, row := range rows[1:] {
		energy, err := strconv.ParseFloat(row[3], 64)
		require.NoError(t, err)
		whPerToken, err := strconv.ParseFloat(row[4], 64)
		require.NoError(t, err)
		assert.InDelta(t, energy/40, whPerToken, 1e-12)
	}
}

func TestPromptHashSensitivity(t *testing.T) {
	assert.Equal(t, PromptHash("abc"), PromptHash("abc"))
	assert.NotEqual(t, PromptHash("abc"), PromptHash("abc "))
	assert.NotEqual(t, PromptHash("abc"), PromptHash("Abc"))
}
