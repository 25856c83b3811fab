package sysmetrics

// Estimator converts resource samples into power and energy figures.
//
// The model is a documented approximation for relative comparison:
//
//	instantaneous_watts = base_idle + cpu_percent*cpu_coefficient + gpu_watts
//
// The defaults (50 W idle, 2 W per percent CPU) are configurable
// constants, not derived from hardware calibration.
type Estimator struct {
	BaseIdleWatts      float64
	CPUWattCoefficient float64
}

// DefaultEstimator returns the stock power model.
func DefaultEstimator() Estimator {
	return Estimator{BaseIdleWatts: 50, CPUWattCoefficient: 2}
}

// Usage is the aggregate of one sampling window.
type Usage struct {
	AvgCPUUsage     float64
	AvgMemoryUsage  float64
	AvgPowerWatts   float64
	PeakMemoryGB    float64
	TotalEnergyWh   float64
	DurationSeconds float64
}

// InstantWatts computes instantaneous power for one sample. Percentages
// are clamped to [0,100] so a telemetry glitch skews nothing.
func (e Estimator) InstantWatts(s Sample) float64 {
	watts := e.BaseIdleWatts + clampPercent(s.CPUPercent)*e.CPUWattCoefficient
	if s.GPUWatts != nil {
		watts += *s.GPUWatts
	}
	return watts
}

// Aggregate folds a sample window into averaged usage and total energy.
// totalMemoryBytes is the machine's physical memory, used to convert the
// peak memory percentage into gigabytes. Deterministic: identical inputs
// always yield identical outputs.
func (e Estimator) Aggregate(samples []Sample, durationSeconds float64, totalMemoryBytes uint64) Usage {
	usage := Usage{DurationSeconds: durationSeconds}
	if len(samples) == 0 {
		usage.AvgPowerWatts = e.BaseIdleWatts
		usage.TotalEnergyWh = e.BaseIdleWatts * durationSeconds / 3600
		return usage
	}

	var cpuSum, memSum, powerSum, peakMemPct float64
	for _, s := range samples {
		cpuPct := clampPercent(s.CPUPercent)
		memPct := clampPercent(s.MemoryPercent)

		cpuSum += cpuPct
		memSum += memPct
		powerSum += e.InstantWatts(s)
		if memPct > peakMemPct {
			peakMemPct = memPct
		}
	}

	n := float64(len(samples))
	usage.AvgCPUUsage = cpuSum / n
	usage.AvgMemoryUsage = memSum / n
	usage.AvgPowerWatts = powerSum / n
	usage.TotalEnergyWh = usage.AvgPowerWatts * durationSeconds / 3600
	usage.PeakMemoryGB = float64(totalMemoryBytes) * (peakMemPct / 100) / (1 << 30)
	return usage
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
