package provider

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCPUFreq lays out a sys tree with cpu0's cpufreq files.
func fakeCPUFreq(t *testing.T, files map[string]string) {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "devices", "system", "cpu", "cpu0", "cpufreq")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	t.Setenv("HOST_SYS", root)
}

func TestCPUFrequencyIsCurrentClock(t *testing.T) {
	fakeCPUFreq(t, map[string]string{
		"cpuinfo_max_freq": "4500000\n",
		"scaling_cur_freq": "1200000\n",
	})

	mhz, err := NewHost().CPUFrequencyMHz(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1200.0, mhz)
}

func TestScalingCurFreqMissingOrInvalid(t *testing.T) {
	fakeCPUFreq(t, map[string]string{"cpuinfo_max_freq": "4500000\n"})
	_, err := scalingCurFreqMHz()
	assert.Error(t, err)

	fakeCPUFreq(t, map[string]string{"scaling_cur_freq": "fast\n"})
	_, err = scalingCurFreqMHz()
	assert.Error(t, err)
}

func TestMemPercentCountsUnavailable(t *testing.T) {
	tests := []struct {
		name             string
		total, available uint64
		want             float64
	}{
		{"sixty percent", 10 << 30, 4 << 30, 60},
		{"all available", 8 << 30, 8 << 30, 0},
		{"nothing available", 8 << 30, 0, 100},
		{"zero total", 0, 0, 0},
		{"available over total", 4, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, memPercent(tt.total, tt.available), 1e-9)
		})
	}
}
