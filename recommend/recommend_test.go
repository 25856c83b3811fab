package recommend

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envirollm/llm-energy-bench/db"
)

func record(model string, energyWh, quality float64, tps *float64, ts time.Time) db.BenchmarkRecord {
	return db.BenchmarkRecord{
		ID:        uuid.NewString(),
		ModelName: model,
		Status:    db.StatusCompleted,
		Timestamp: ts,
		Metrics: &db.Metrics{
			TotalEnergyWh:   energyWh,
			DurationSeconds: 5,
			TokensPerSecond: tps,
		},
		QualityMetrics: &db.QualityMetrics{QualityScore: quality, QualityMethod: "heuristic"},
	}
}

func fptr(v float64) *float64 { return &v }

func TestEmptyInputYieldsNoRecommendations(t *testing.T) {
	recs := FromRecords(nil)
	assert.Nil(t, recs.BestOverall)
	assert.Nil(t, recs.MostEfficient)
	assert.Nil(t, recs.Fastest)
	assert.Nil(t, recs.BestQuality)
}

func TestSingleRecordWinsEverything(t *testing.T) {
	rec := record("solo", 0.5, 80, fptr(12), time.Now().UTC())
	recs := FromRecords([]db.BenchmarkRecord{rec})

	require.NotNil(t, recs.BestOverall)
	require.NotNil(t, recs.MostEfficient)
	require.NotNil(t, recs.Fastest)
	require.NotNil(t, recs.BestQuality)
	for _, pick := range []*Pick{recs.BestOverall, recs.MostEfficient, recs.Fastest, recs.BestQuality} {
		assert.Equal(t, rec.ID, pick.ID)
	}
}

func TestCategoriesPickDistinctWinners(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	frugal := record("frugal", 0.1, 40, fptr(5), base)
	fast := record("fast", 0.8, 50, fptr(30), base.Add(time.Minute))
	smart := record("smart", 1.0, 95, fptr(10), base.Add(2*time.Minute))

	recs := FromRecords([]db.BenchmarkRecord{frugal, fast, smart})

	assert.Equal(t, "frugal", recs.MostEfficient.ModelName)
	assert.Equal(t, "fast", recs.Fastest.ModelName)
	assert.Equal(t, "smart", recs.BestQuality.ModelName)
	// quality/energy: frugal 400, fast 62.5, smart 95.
	assert.Equal(t, "frugal", recs.BestOverall.ModelName)
}

func TestFailedRecordsAreIgnored(t *testing.T) {
	failed := db.BenchmarkRecord{
		ID:        uuid.NewString(),
		ModelName: "broken",
		Status:    db.StatusFailed,
		Timestamp: time.Now().UTC(),
		Error:     "boom",
	}
	recs := FromRecords([]db.BenchmarkRecord{failed})
	assert.Nil(t, recs.MostEfficient)
}

func TestTiesGoToEarliestTimestamp(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	first := record("first", 0.5, 70, fptr(10), base)
	second := record("second", 0.5, 70, fptr(10), base.Add(time.Hour))

	// Pass newest-first (the store's order) to prove sorting happens.
	recs := FromRecords([]db.BenchmarkRecord{second, first})

	assert.Equal(t, "first", recs.MostEfficient.ModelName)
	assert.Equal(t, "first", recs.Fastest.ModelName)
	assert.Equal(t, "first", recs.BestQuality.ModelName)
	assert.Equal(t, "first", recs.BestOverall.ModelName)
}

func TestFastestSkipsRecordsWithoutTokenRate(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	noTokens := record("no-tokens", 0.2, 60, nil, base)
	withTokens := record("with-tokens", 0.9, 50, fptr(4), base.Add(time.Minute))

	recs := FromRecords([]db.BenchmarkRecord{noTokens, withTokens})
	require.NotNil(t, recs.Fastest)
	assert.Equal(t, "with-tokens", recs.Fastest.ModelName)
	assert.Equal(t, "no-tokens", recs.MostEfficient.ModelName)
}
