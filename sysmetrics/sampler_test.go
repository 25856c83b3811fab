package sysmetrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSamplerCollectsAndStops(t *testing.T) {
	s := NewSampler(10*time.Millisecond, nil)

	h := s.Start()
	time.Sleep(60 * time.Millisecond)
	samples := h.Stop()

	assert.NotEmpty(t, samples)
	for _, sample := range samples {
		assert.Nil(t, sample.GPUWatts, "no probe configured, GPU must be absent")
	}
}

func TestSamplerStopIsIdempotent(t *testing.T) {
	s := NewSampler(10*time.Millisecond, nil)

	h := s.Start()
	time.Sleep(30 * time.Millisecond)
	first := h.Stop()
	second := h.Stop()

	assert.Equal(t, len(first), len(second))
}

func TestSamplerImmediateStop(t *testing.T) {
	s := NewSampler(time.Second, nil)

	h := s.Start()
	samples := h.Stop()

	// Window shorter than one tick: an empty window is valid.
	assert.Empty(t, samples)
}

func TestParseSmiOutput(t *testing.T) {
	out := "NVIDIA GeForce RTX 4090, 45, 8192, 24576, 285.30, 61\n" +
		"NVIDIA GeForce RTX 3060, 12, 2048, 12288, [N/A], 48\n"

	gpus := parseSmiOutput(out)
	assert.Len(t, gpus, 2)

	assert.Equal(t, "NVIDIA GeForce RTX 4090", gpus[0].Name)
	assert.InDelta(t, 45.0, gpus[0].UsagePercent, 1e-9)
	assert.InDelta(t, 8.0, gpus[0].MemoryUsedGB, 1e-9)
	assert.InDelta(t, 24.0, gpus[0].MemoryTotalGB, 1e-9)
	assert.InDelta(t, 285.3, gpus[0].PowerWatts, 1e-9)
	assert.InDelta(t, 61.0, gpus[0].TemperatureC, 1e-9)

	assert.Equal(t, 1, gpus[1].ID)
	assert.Zero(t, gpus[1].PowerWatts, "[N/A] reads as 0")
	assert.InDelta(t, 2048.0/12288.0*100, gpus[1].MemoryPercent, 1e-9)
}

func TestParseSmiOutputMalformedLines(t *testing.T) {
	assert.Empty(t, parseSmiOutput("garbage\n"))
	assert.Empty(t, parseSmiOutput(""))
}
