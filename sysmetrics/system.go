package sysmetrics

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

// LiveMetrics is one point-in-time resource snapshot, served by the
// live /metrics endpoint. Not a benchmark.
type LiveMetrics struct {
	Timestamp     time.Time `json:"timestamp"`
	CPUUsage      float64   `json:"cpu_usage"`
	MemoryUsage   float64   `json:"memory_usage"`
	PowerEstimate float64   `json:"power_estimate"`
	GPUInfo       GPUInfo   `json:"gpu_info"`
}

// SystemSpecs summarizes the hardware for optimization advice.
type SystemSpecs struct {
	MemoryGB     float64 `json:"memory_gb"`
	CPUCores     int     `json:"cpu_cores"`
	GPUAvailable bool    `json:"gpu_available"`
	GPUs         []GPU   `json:"gpus"`
}

// SystemInfo carries the detailed host description.
type SystemInfo struct {
	CPUBrand         string  `json:"cpu_brand"`
	CPUCoresPhysical int     `json:"cpu_cores_physical"`
	CPUCoresLogical  int     `json:"cpu_cores_logical"`
	CPUFrequencyMax  float64 `json:"cpu_frequency_max,omitempty"`
	MemoryTotalGB    float64 `json:"memory_total_gb"`
	Platform         string  `json:"platform"`
	Architecture     string  `json:"architecture"`
}

// Monitor bundles the power model with GPU probing for live snapshots.
type Monitor struct {
	estimator Estimator
	gpu       *GPUProbe
}

// NewMonitor creates a monitor. probe may be nil to skip GPU telemetry.
func NewMonitor(estimator Estimator, probe *GPUProbe) *Monitor {
	return &Monitor{estimator: estimator, gpu: probe}
}

// Estimator exposes the configured power model.
func (m *Monitor) Estimator() Estimator { return m.estimator }

// GPUProbe exposes the shared probe.
func (m *Monitor) GPUProbe() *GPUProbe { return m.gpu }

// Snapshot samples CPU over one second (matching the live endpoint's
// historical behavior) plus memory and GPU state, and estimates draw.
func (m *Monitor) Snapshot(ctx context.Context) (LiveMetrics, error) {
	pcts, err := cpu.PercentWithContext(ctx, time.Second, false)
	if err != nil {
		return LiveMetrics{}, fmt.Errorf("failed to read cpu usage: %w", err)
	}
	var cpuPct float64
	if len(pcts) > 0 {
		cpuPct = pcts[0]
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return LiveMetrics{}, fmt.Errorf("failed to read memory usage: %w", err)
	}

	gpuInfo := GPUInfo{Available: false, GPUs: []GPU{}}
	if m.gpu != nil {
		gpuInfo = m.gpu.Snapshot()
	}

	sample := Sample{CPUPercent: cpuPct, MemoryPercent: vm.UsedPercent}
	if gpuInfo.Available {
		var watts float64
		for _, g := range gpuInfo.GPUs {
			watts += g.PowerWatts
		}
		sample.GPUWatts = &watts
	}

	return LiveMetrics{
		Timestamp:     time.Now().UTC(),
		CPUUsage:      cpuPct,
		MemoryUsage:   vm.UsedPercent,
		PowerEstimate: math.Round(m.estimator.InstantWatts(sample)*10) / 10,
		GPUInfo:       gpuInfo,
	}, nil
}

// Specs reads the hardware inventory.
func (m *Monitor) Specs(ctx context.Context) (SystemSpecs, SystemInfo, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return SystemSpecs{}, SystemInfo{}, fmt.Errorf("failed to read memory info: %w", err)
	}

	logical, err := cpu.CountsWithContext(ctx, true)
	if err != nil {
		return SystemSpecs{}, SystemInfo{}, fmt.Errorf("failed to count cpus: %w", err)
	}
	physical, _ := cpu.CountsWithContext(ctx, false)

	info := SystemInfo{
		CPUBrand:         "Unknown CPU",
		CPUCoresPhysical: physical,
		CPUCoresLogical:  logical,
		MemoryTotalGB:    math.Round(float64(vm.Total)/(1<<30)*10) / 10,
	}
	if cpus, err := cpu.InfoWithContext(ctx); err == nil && len(cpus) > 0 {
		if cpus[0].ModelName != "" {
			info.CPUBrand = cpus[0].ModelName
		}
		info.CPUFrequencyMax = cpus[0].Mhz
	}
	if hi, err := host.InfoWithContext(ctx); err == nil {
		info.Platform = fmt.Sprintf("%s %s", hi.Platform, hi.PlatformVersion)
		info.Architecture = hi.KernelArch
	}

	gpuInfo := GPUInfo{Available: false, GPUs: []GPU{}}
	if m.gpu != nil {
		gpuInfo = m.gpu.Snapshot()
	}

	specs := SystemSpecs{
		MemoryGB:     info.MemoryTotalGB,
		CPUCores:     logical,
		GPUAvailable: gpuInfo.Available,
		GPUs:         gpuInfo.GPUs,
	}
	return specs, info, nil
}

// TotalMemoryBytes reports physical memory, used to convert peak memory
// percentages into gigabytes.
func TotalMemoryBytes() uint64 {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0
	}
	return vm.Total
}
