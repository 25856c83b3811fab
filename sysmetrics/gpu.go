package sysmetrics

import (
	"context"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"time"
)

const gpuQueryTimeout = 5 * time.Second

// GPU describes one detected device at snapshot time.
type GPU struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	UsagePercent  float64 `json:"usage_percent"`
	MemoryUsedGB  float64 `json:"memory_used_gb"`
	MemoryTotalGB float64 `json:"memory_total_gb"`
	MemoryPercent float64 `json:"memory_percent"`
	PowerWatts    float64 `json:"power_watts"`
	TemperatureC  float64 `json:"temperature_c"`
}

// GPUInfo is the GPU portion of a metrics snapshot.
type GPUInfo struct {
	Available bool   `json:"available"`
	GPUs      []GPU  `json:"gpus"`
	Error     string `json:"error,omitempty"`
}

// GPUProbe reads NVIDIA telemetry via nvidia-smi. Machines without the
// binary are detected once and reported as "no GPU", not as an error.
type GPUProbe struct {
	mu          sync.Mutex
	checked     bool
	smiPath     string
	unavailable bool
}

// NewGPUProbe creates a probe. Detection is lazy: the first Snapshot
// locates nvidia-smi and caches the result.
func NewGPUProbe() *GPUProbe {
	return &GPUProbe{}
}

// Snapshot queries current GPU utilization, memory, power, and
// temperature for every device.
func (p *GPUProbe) Snapshot() GPUInfo {
	path, ok := p.binaryPath()
	if !ok {
		return GPUInfo{Available: false, GPUs: []GPU{}}
	}

	ctx, cancel := context.WithTimeout(context.Background(), gpuQueryTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, path,
		"--query-gpu=name,utilization.gpu,memory.used,memory.total,power.draw,temperature.gpu",
		"--format=csv,noheader,nounits").Output()
	if err != nil {
		return GPUInfo{Available: false, GPUs: []GPU{}, Error: err.Error()}
	}

	gpus := parseSmiOutput(string(out))
	if len(gpus) == 0 {
		return GPUInfo{Available: false, GPUs: []GPU{}}
	}
	return GPUInfo{Available: true, GPUs: gpus}
}

func (p *GPUProbe) binaryPath() (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.checked {
		p.checked = true
		path, err := exec.LookPath("nvidia-smi")
		if err != nil {
			p.unavailable = true
		} else {
			p.smiPath = path
		}
	}
	return p.smiPath, !p.unavailable
}

// parseSmiOutput parses nvidia-smi CSV rows of the form
// "NVIDIA RTX 4090, 45, 8192, 24576, 285.30, 61".
func parseSmiOutput(out string) []GPU {
	var gpus []GPU
	for i, line := range strings.Split(strings.TrimSpace(out), "\n") {
		fields := strings.Split(line, ",")
		if len(fields) < 6 {
			continue
		}

		memUsedMB := parseSmiFloat(fields[2])
		memTotalMB := parseSmiFloat(fields[3])
		gpu := GPU{
			ID:            i,
			Name:          strings.TrimSpace(fields[0]),
			UsagePercent:  parseSmiFloat(fields[1]),
			MemoryUsedGB:  memUsedMB / 1024,
			MemoryTotalGB: memTotalMB / 1024,
			PowerWatts:    parseSmiFloat(fields[4]),
			TemperatureC:  parseSmiFloat(fields[5]),
		}
		if memTotalMB > 0 {
			gpu.MemoryPercent = memUsedMB / memTotalMB * 100
		}
		gpus = append(gpus, gpu)
	}
	return gpus
}

// parseSmiFloat tolerates the "[N/A]" placeholders nvidia-smi emits for
// unsupported counters.
func parseSmiFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
