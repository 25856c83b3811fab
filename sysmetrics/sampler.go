package sysmetrics

import (
	"context"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// Sample is one resource reading. GPUWatts and GPUMemoryPercent are nil
// when GPU telemetry is unavailable; aggregation treats nil as "no GPU
// contribution", not zero.
type Sample struct {
	CPUPercent       float64
	MemoryPercent    float64
	GPUWatts         *float64
	GPUMemoryPercent *float64
}

// Sampler produces resource samples at a fixed interval for the
// lifetime of one generation call.
type Sampler struct {
	interval time.Duration
	gpu      *GPUProbe
}

// NewSampler creates a sampler. probe may be nil for CPU-only sampling.
func NewSampler(interval time.Duration, probe *GPUProbe) *Sampler {
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	return &Sampler{interval: interval, gpu: probe}
}

// Handle is one in-flight sampling window.
type Handle struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu      sync.Mutex
	samples []Sample
}

// Start begins sampling in the background. The caller must call Stop on
// the returned handle on every exit path.
func (s *Sampler) Start() *Handle {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Handle{cancel: cancel, done: make(chan struct{})}

	go s.run(ctx, h)
	return h
}

// Stop ends the sampling window and returns the samples collected so
// far, in order. Safe to call more than once.
func (h *Handle) Stop() []Sample {
	h.cancel()
	<-h.done

	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Sample, len(h.samples))
	copy(out, h.samples)
	return out
}

func (s *Sampler) run(ctx context.Context, h *Handle) {
	defer close(h.done)

	// Prime the CPU counter so the first interval-relative reading is
	// meaningful rather than a since-boot average.
	cpu.Percent(0, false)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sample := s.read()
			h.mu.Lock()
			h.samples = append(h.samples, sample)
			h.mu.Unlock()
		}
	}
}

func (s *Sampler) read() Sample {
	var sample Sample

	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		sample.CPUPercent = pcts[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		sample.MemoryPercent = vm.UsedPercent
	}
	if s.gpu != nil {
		if info := s.gpu.Snapshot(); info.Available {
			var watts, memPct float64
			for _, g := range info.GPUs {
				watts += g.PowerWatts
				memPct += g.MemoryPercent
			}
			if n := len(info.GPUs); n > 0 {
				memPct /= float64(n)
			}
			sample.GPUWatts = &watts
			sample.GPUMemoryPercent = &memPct
		}
	}
	return sample
}
