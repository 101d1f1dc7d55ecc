package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dicklesworthstone/sysdash/internal/config"
	"github.com/Dicklesworthstone/sysdash/internal/errors"
	"github.com/Dicklesworthstone/sysdash/internal/provider"
	"github.com/Dicklesworthstone/sysdash/internal/ui"
)

// fakeMetrics serves empty readings, or fails Memory when memErr is set.
type fakeMetrics struct {
	memErr error
}

func (f fakeMetrics) CPUPercent(context.Context) (float64, error)          { return 0, nil }
func (f fakeMetrics) CPUPerCorePercent(context.Context) ([]float64, error) { return nil, nil }
func (f fakeMetrics) CPUCounts(context.Context) (int, int, error)          { return 1, 1, nil }
func (f fakeMetrics) CPUFrequencyMHz(context.Context) (float64, error)     { return 0, nil }
func (f fakeMetrics) Memory(context.Context) (provider.MemoryStats, error) {
	return provider.MemoryStats{Total: 1}, f.memErr
}
func (f fakeMetrics) Swap(context.Context) (provider.SwapStats, error) { return provider.SwapStats{}, nil }
func (f fakeMetrics) Partitions(context.Context) ([]provider.Partition, error) {
	return nil, nil
}
func (f fakeMetrics) DiskUsage(context.Context, string) (provider.Usage, error) {
	return provider.Usage{}, nil
}
func (f fakeMetrics) BootTime(context.Context) (time.Time, error) { return time.Time{}, nil }

// stubDashboard replaces the TUI for the duration of a test.
func stubDashboard(t *testing.T) *config.Config {
	t.Helper()
	var got config.Config
	orig := dashboardFunc
	dashboardFunc = func(ctx context.Context, cfg config.Config, tk ui.Ticker) error {
		got = cfg
		return nil
	}
	t.Cleanup(func() { dashboardFunc = orig })
	return &got
}

func execute(metrics provider.Metrics, args ...string) error {
	cmd := NewRootCmd(metrics)
	// A nil slice would make cobra fall back to os.Args.
	cmd.SetArgs(append([]string{}, args...))
	return cmd.Execute()
}

func TestRootRunsDashboardWithDefaults(t *testing.T) {
	got := stubDashboard(t)

	require.NoError(t, execute(fakeMetrics{}))
	assert.Equal(t, config.Default(), *got)
}

func TestRootFlags(t *testing.T) {
	got := stubDashboard(t)
	logPath := filepath.Join(t.TempDir(), "sysdash.log")

	require.NoError(t, execute(fakeMetrics{}, "--interval", "5s", "--max-width", "100", "--log-file", logPath))
	assert.Equal(t, 5*time.Second, got.Interval)
	assert.Equal(t, 100, got.MaxWidth)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "starting: interval=5s max-width=100")
}

func TestRootProviderUnavailable(t *testing.T) {
	stubDashboard(t)

	err := execute(fakeMetrics{memErr: fmt.Errorf("no /proc")})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrProvider))
}

func TestRootInvalidConfig(t *testing.T) {
	stubDashboard(t)

	err := execute(fakeMetrics{}, "--max-width", "3")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))

	err = execute(fakeMetrics{}, "--log-file", filepath.Join(t.TempDir(), "nope", "x.log"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestRootRejectsArgs(t *testing.T) {
	stubDashboard(t)
	assert.Error(t, execute(fakeMetrics{}, "extra"))
}

func TestRunRootReportsErrors(t *testing.T) {
	stubDashboard(t)

	tests := []struct {
		name     string
		args     []string
		memErr   error
		wantCode int
		wantOut  string
	}{
		{"ok", []string{}, nil, 0, ""},
		{"unknown flag", []string{"--bogus"}, nil, errors.ExitUsage, "unknown flag: --bogus"},
		{"bad duration", []string{"--interval", "soon"}, nil, errors.ExitUsage, "invalid argument"},
		{"stray argument", []string{"extra"}, nil, errors.ExitFailure, "extra"},
		{"provider down", []string{}, fmt.Errorf("no /proc"), errors.ExitFailure, "Host metrics are unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer

			code := runRoot(NewRootCmd(fakeMetrics{memErr: tt.memErr}), tt.args, &stderr)
			assert.Equal(t, tt.wantCode, code)
			if tt.wantOut == "" {
				assert.Empty(t, stderr.String())
				return
			}
			assert.Contains(t, stderr.String(), tt.wantOut)
			assert.True(t, strings.HasSuffix(stderr.String(), "\n"), "stderr should end with a newline: %q", stderr.String())
		})
	}
}

func TestSetVersionInfo(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2026-10-18")
	t.Cleanup(func() { SetVersionInfo("dev", "none", "unknown") })

	cmd := NewRootCmd(fakeMetrics{})
	assert.Contains(t, cmd.Version, "1.2.3")
	assert.Contains(t, cmd.Version, "abc123")
}
