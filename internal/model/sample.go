package model

import "time"

// CPU aggregates instantaneous CPU usage.
type CPU struct {
	Total    float64   // percent 0-100
	PerCore  []float64 // per-core percent, index = core
	Physical int
	Logical  int
	FreqMHz  float64   // 0 when unknown
	History  []float64 // recent Total readings, oldest first
}

// Memory captures RAM and swap usage in bytes for precision.
type Memory struct {
	TotalBytes     uint64
	UsedBytes      uint64
	AvailableBytes uint64
	Percent        float64
	SwapTotal      uint64
	SwapUsed       uint64
	SwapPercent    float64
	History        []float64
}

// Disk is one mounted filesystem that survived filtering.
type Disk struct {
	Device     string
	Mountpoint string
	Fstype     string
	TotalBytes uint64
	UsedBytes  uint64
	FreeBytes  uint64
	Percent    float64
}

// GPU holds a single device snapshot.
type GPU struct {
	Vendor     string
	Name       string
	Util       float64 // percent
	MemUsedMB  float64
	MemTotalMB float64
	TempC      float64
}

// MemPercent is VRAM usage in percent, 0 when the total is unknown.
func (g GPU) MemPercent() float64 {
	if g.MemTotalMB <= 0 {
		return 0
	}
	return g.MemUsedMB / g.MemTotalMB * 100
}

// Snapshot is everything captured in one tick. It is built once by the
// sampler and only read afterwards.
type Snapshot struct {
	Timestamp time.Time
	BootTime  time.Time // zero when unknown
	CPU       CPU
	Memory    Memory
	Disks     []Disk
	GPUs      []GPU
}

// Uptime is the time between boot and capture, 0 when boot time is unknown.
func (s Snapshot) Uptime() time.Duration {
	if s.BootTime.IsZero() || s.Timestamp.Before(s.BootTime) {
		return 0
	}
	return s.Timestamp.Sub(s.BootTime)
}

// Zero returns an empty snapshot stamped now.
func Zero() Snapshot { return Snapshot{Timestamp: time.Now()} }
