package sampler

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dicklesworthstone/sysdash/internal/history"
	"github.com/Dicklesworthstone/sysdash/internal/logger"
	"github.com/Dicklesworthstone/sysdash/internal/model"
	"github.com/Dicklesworthstone/sysdash/internal/provider"
)

const (
	// MinDiskBytes is the smallest filesystem still shown; anything at or
	// below it is treated as a virtual or boot partition.
	MinDiskBytes = 100 * 1024 * 1024

	// DiskTimeout bounds one partition's usage query.
	DiskTimeout = 2 * time.Second

	diskWorkers = 4
)

var (
	excludedDevicePrefixes = []string{"/dev/loop", "/dev/ram"}
	excludedMountPrefixes  = []string{"/snap"}
	excludedFstypes        = map[string]bool{"squashfs": true, "tmpfs": true, "devtmpfs": true}
)

// Sampler runs one polling pass per Tick. It owns the CPU and memory
// history, which live as long as the process does.
type Sampler struct {
	metrics provider.Metrics
	gpu     provider.GPUTool
	log     logger.Logger

	cpuHist *history.Buffer
	memHist *history.Buffer

	bootTime time.Time
	now      func() time.Time
}

// New builds a sampler. gpu may be nil when no vendor tool is configured.
func New(metrics provider.Metrics, gpu provider.GPUTool, log logger.Logger) *Sampler {
	if log == nil {
		log = logger.Noop()
	}
	return &Sampler{
		metrics: metrics,
		gpu:     gpu,
		log:     log,
		cpuHist: history.New(history.DefaultCapacity),
		memHist: history.New(history.DefaultCapacity),
		now:     time.Now,
	}
}

// Tick samples every source and assembles a Snapshot. Failing sources
// degrade to zero or empty values; Tick never fails.
func (s *Sampler) Tick(ctx context.Context) model.Snapshot {
	return model.Snapshot{
		Timestamp: s.now(),
		BootTime:  s.boot(ctx),
		CPU:       s.SampleCPU(ctx),
		Memory:    s.SampleMemory(ctx),
		Disks:     s.SampleDisks(ctx),
		GPUs:      s.SampleGPU(ctx),
	}
}

func (s *Sampler) boot(ctx context.Context) time.Time {
	if !s.bootTime.IsZero() {
		return s.bootTime
	}
	bt, err := s.metrics.BootTime(ctx)
	if err != nil {
		s.log.Debug("boot time unavailable: %v", err)
		return time.Time{}
	}
	s.bootTime = bt
	return bt
}

// SampleCPU reads CPU usage and records the overall percentage in history.
// A failed overall reading is shown as 0 but kept out of history.
func (s *Sampler) SampleCPU(ctx context.Context) model.CPU {
	var out model.CPU

	if pct, err := s.metrics.CPUPercent(ctx); err != nil {
		s.log.Debug("cpu percent unavailable: %v", err)
	} else {
		out.Total = pct
		s.cpuHist.Append(pct)
	}
	if cores, err := s.metrics.CPUPerCorePercent(ctx); err != nil {
		s.log.Debug("per-core percent unavailable: %v", err)
	} else {
		out.PerCore = cores
	}
	if phys, logical, err := s.metrics.CPUCounts(ctx); err != nil {
		s.log.Debug("cpu counts unavailable: %v", err)
	} else {
		out.Physical, out.Logical = phys, logical
	}
	if mhz, err := s.metrics.CPUFrequencyMHz(ctx); err != nil {
		s.log.Debug("cpu frequency unavailable: %v", err)
	} else {
		out.FreqMHz = mhz
	}

	out.History = s.cpuHist.Last(s.cpuHist.Cap())
	return out
}

// SampleMemory reads RAM and swap and records RAM usage in history.
func (s *Sampler) SampleMemory(ctx context.Context) model.Memory {
	var out model.Memory

	if vm, err := s.metrics.Memory(ctx); err != nil {
		s.log.Debug("memory stats unavailable: %v", err)
	} else {
		out.TotalBytes = vm.Total
		out.UsedBytes = vm.Used
		out.AvailableBytes = vm.Available
		out.Percent = vm.Percent
		s.memHist.Append(vm.Percent)
	}
	if sw, err := s.metrics.Swap(ctx); err != nil {
		s.log.Debug("swap stats unavailable: %v", err)
	} else {
		out.SwapTotal = sw.Total
		out.SwapUsed = sw.Used
		out.SwapPercent = sw.Percent
	}

	out.History = s.memHist.Last(s.memHist.Cap())
	return out
}

// SampleDisks lists real, reasonably sized filesystems in partition order.
// Usage queries run in parallel, each bounded by DiskTimeout; a partition
// that fails or times out is skipped.
func (s *Sampler) SampleDisks(ctx context.Context) []model.Disk {
	parts, err := s.metrics.Partitions(ctx)
	if err != nil {
		s.log.Debug("partition list unavailable: %v", err)
		return nil
	}

	candidates := make([]provider.Partition, 0, len(parts))
	for _, p := range parts {
		if Virtual(p) {
			continue
		}
		candidates = append(candidates, p)
	}

	results := make([]*model.Disk, len(candidates))
	var g errgroup.Group
	g.SetLimit(diskWorkers)
	for i, p := range candidates {
		i, p := i, p
		g.Go(func() error {
			usage, err := s.usage(ctx, p.Mountpoint)
			if err != nil {
				s.log.Debug("skipping %s (%s): %v", p.Mountpoint, p.Device, err)
				return nil
			}
			if usage.Total <= MinDiskBytes {
				return nil
			}
			results[i] = &model.Disk{
				Device:     p.Device,
				Mountpoint: p.Mountpoint,
				Fstype:     p.Fstype,
				TotalBytes: usage.Total,
				UsedBytes:  usage.Used,
				FreeBytes:  usage.Free,
				Percent:    float64(usage.Used) / float64(usage.Total) * 100,
			}
			return nil
		})
	}
	_ = g.Wait()

	var disks []model.Disk
	for _, d := range results {
		if d != nil {
			disks = append(disks, *d)
		}
	}
	return disks
}

type usageResult struct {
	usage provider.Usage
	err   error
}

// usage abandons a query that outlives DiskTimeout. The query goroutine
// finishes on its own and its result is dropped.
func (s *Sampler) usage(ctx context.Context, mountpoint string) (provider.Usage, error) {
	ctx, cancel := context.WithTimeout(ctx, DiskTimeout)
	defer cancel()

	done := make(chan usageResult, 1)
	go func() {
		u, err := s.metrics.DiskUsage(ctx, mountpoint)
		done <- usageResult{usage: u, err: err}
	}()

	select {
	case r := <-done:
		return r.usage, r.err
	case <-ctx.Done():
		return provider.Usage{}, ctx.Err()
	}
}

// Virtual reports whether a partition is a loop, ram, snap or pseudo
// filesystem that never belongs on the dashboard.
func Virtual(p provider.Partition) bool {
	for _, prefix := range excludedDevicePrefixes {
		if strings.HasPrefix(p.Device, prefix) {
			return true
		}
	}
	for _, prefix := range excludedMountPrefixes {
		if strings.HasPrefix(p.Mountpoint, prefix) {
			return true
		}
	}
	return excludedFstypes[p.Fstype]
}

// SampleGPU asks the vendor tool for GPU readings. Absence, failure and
// timeout all mean "no GPU" and yield an empty result.
func (s *Sampler) SampleGPU(ctx context.Context) []model.GPU {
	if s.gpu == nil {
		return nil
	}
	gpus, err := s.gpu.Query(ctx)
	if err != nil {
		s.log.Debug("no GPU data: %v", err)
		return nil
	}
	return gpus
}
