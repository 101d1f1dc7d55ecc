package provider

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// Host implements Metrics on top of gopsutil.
type Host struct{}

func NewHost() *Host { return &Host{} }

// CPUPercent is overall usage since the previous call.
func (h *Host) CPUPercent(ctx context.Context) (float64, error) {
	pct, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return 0, err
	}
	if len(pct) == 0 {
		return 0, fmt.Errorf("cpu percent: no data")
	}
	return pct[0], nil
}

// CPUPerCorePercent is per-core usage since the previous call, by core index.
func (h *Host) CPUPerCorePercent(ctx context.Context) ([]float64, error) {
	return cpu.PercentWithContext(ctx, 0, true)
}

func (h *Host) CPUCounts(ctx context.Context) (physical, logical int, err error) {
	physical, err = cpu.CountsWithContext(ctx, false)
	if err != nil {
		return 0, 0, err
	}
	logical, err = cpu.CountsWithContext(ctx, true)
	if err != nil {
		return 0, 0, err
	}
	return physical, logical, nil
}

// CPUFrequencyMHz reports cpu0's current clock from cpufreq. gopsutil's
// cpu.Info reports the maximum clock where cpufreq exists, so it is only
// consulted when scaling_cur_freq is missing.
func (h *Host) CPUFrequencyMHz(ctx context.Context) (float64, error) {
	if mhz, err := scalingCurFreqMHz(); err == nil {
		return mhz, nil
	}
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return 0, err
	}
	if len(infos) == 0 {
		return 0, fmt.Errorf("cpu info: no data")
	}
	return infos[0].Mhz, nil
}

// sysRoot honours HOST_SYS the way gopsutil does.
func sysRoot() string {
	if v := os.Getenv("HOST_SYS"); v != "" {
		return v
	}
	return "/sys"
}

func scalingCurFreqMHz() (float64, error) {
	path := filepath.Join(sysRoot(), "devices/system/cpu/cpu0/cpufreq/scaling_cur_freq")
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	khz, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return khz / 1000, nil
}

func (h *Host) Memory(ctx context.Context) (MemoryStats, error) {
	v, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryStats{}, err
	}
	return MemoryStats{
		Total:     v.Total,
		Used:      v.Used,
		Available: v.Available,
		Percent:   memPercent(v.Total, v.Available),
	}, nil
}

// memPercent counts everything not available as in use, which includes
// reclaimable buffers that gopsutil's UsedPercent leaves out.
func memPercent(total, available uint64) float64 {
	if total == 0 || available >= total {
		return 0
	}
	return float64(total-available) / float64(total) * 100
}

func (h *Host) Swap(ctx context.Context) (SwapStats, error) {
	s, err := mem.SwapMemoryWithContext(ctx)
	if err != nil {
		return SwapStats{}, err
	}
	return SwapStats{Total: s.Total, Used: s.Used, Percent: s.UsedPercent}, nil
}

// Partitions lists physical partitions only; pseudo filesystems are left
// out by gopsutil already.
func (h *Host) Partitions(ctx context.Context) ([]Partition, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return nil, err
	}
	out := make([]Partition, 0, len(parts))
	for _, p := range parts {
		out = append(out, Partition{Device: p.Device, Mountpoint: p.Mountpoint, Fstype: p.Fstype})
	}
	return out, nil
}

func (h *Host) DiskUsage(ctx context.Context, mountpoint string) (Usage, error) {
	u, err := disk.UsageWithContext(ctx, mountpoint)
	if err != nil {
		return Usage{}, err
	}
	return Usage{Total: u.Total, Used: u.Used, Free: u.Free}, nil
}

func (h *Host) BootTime(ctx context.Context) (time.Time, error) {
	secs, err := host.BootTimeWithContext(ctx)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(int64(secs), 0), nil
}
