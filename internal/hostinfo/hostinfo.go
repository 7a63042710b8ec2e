package hostinfo

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/mem"
)

// Info describes the machine a render runs on
type Info struct {
	CPUModel      string
	ClockGHz      float64
	LogicalCores  int
	PhysicalCores int
	TotalMemoryGB float64
}

// Detect queries CPU and memory details. Fields that cannot be read fall back to
// runtime values where one exists.
func Detect() (Info, error) {
	info := Info{
		LogicalCores:  runtime.NumCPU(),
		PhysicalCores: runtime.NumCPU(),
	}

	cpuInfo, err := cpu.Info()
	if err != nil {
		return info, fmt.Errorf("failed to read CPU info: %w", err)
	}
	if len(cpuInfo) > 0 {
		info.CPUModel = cpuInfo[0].ModelName
		info.ClockGHz = cpuInfo[0].Mhz / 1000
	}

	if logical, err := cpu.Counts(true); err == nil && logical > 0 {
		info.LogicalCores = logical
	}
	if physical, err := cpu.Counts(false); err == nil && physical > 0 {
		info.PhysicalCores = physical
	}

	memInfo, err := mem.VirtualMemory()
	if err != nil {
		return info, fmt.Errorf("failed to read memory info: %w", err)
	}
	info.TotalMemoryGB = float64(memInfo.Total) / (1024 * 1024 * 1024)

	return info, nil
}

// DefaultWorkers returns the number of render workers to use when none is configured
func DefaultWorkers() int {
	if physical, err := cpu.Counts(false); err == nil && physical > 0 {
		return physical
	}
	return runtime.NumCPU()
}

func (i Info) String() string {
	model := i.CPUModel
	if model == "" {
		model = "unknown CPU"
	}
	return fmt.Sprintf("%s @ %.2f GHz, %d cores / %d threads, %.1f GB RAM",
		model, i.ClockGHz, i.PhysicalCores, i.LogicalCores, i.TotalMemoryGB)
}
