// Package provider reads raw host readings. Metrics is backed by gopsutil;
// GPUTool shells out to a vendor binary and may legitimately find nothing.
package provider

import (
	"context"
	"time"

	"github.com/Dicklesworthstone/sysdash/internal/errors"
	"github.com/Dicklesworthstone/sysdash/internal/model"
)

// MemoryStats is a virtual-memory reading in bytes.
type MemoryStats struct {
	Total     uint64
	Used      uint64
	Available uint64
	Percent   float64
}

// SwapStats is a swap reading in bytes.
type SwapStats struct {
	Total   uint64
	Used    uint64
	Percent float64
}

// Partition is one mounted filesystem as listed by the OS.
type Partition struct {
	Device     string
	Mountpoint string
	Fstype     string
}

// Usage is the capacity of one mounted filesystem in bytes.
type Usage struct {
	Total uint64
	Used  uint64
	Free  uint64
}

// Metrics is the host metrics source the sampler polls every tick.
type Metrics interface {
	CPUPercent(ctx context.Context) (float64, error)
	CPUPerCorePercent(ctx context.Context) ([]float64, error)
	CPUCounts(ctx context.Context) (physical, logical int, err error)
	CPUFrequencyMHz(ctx context.Context) (float64, error)
	Memory(ctx context.Context) (MemoryStats, error)
	Swap(ctx context.Context) (SwapStats, error)
	Partitions(ctx context.Context) ([]Partition, error)
	DiskUsage(ctx context.Context, mountpoint string) (Usage, error)
	BootTime(ctx context.Context) (time.Time, error)
}

// GPUTool queries GPU telemetry from an external vendor tool. An error
// means "no GPU information", never a fatal condition.
type GPUTool interface {
	Query(ctx context.Context) ([]model.GPU, error)
}

// Verify checks that m can serve readings at all. A failure here is the
// only provider error that stops sysdash from starting.
func Verify(ctx context.Context, m Metrics) error {
	if _, err := m.Memory(ctx); err != nil {
		return errors.Wrap(err, errors.ErrProvider,
			"Host metrics are unavailable",
			"sysdash needs access to the OS memory and CPU statistics (e.g. /proc on Linux).")
	}
	return nil
}
