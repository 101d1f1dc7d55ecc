package config

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/Dicklesworthstone/sysdash/internal/errors"
)

const (
	MinInterval = 100 * time.Millisecond
	MinWidth    = 20
)

// Config carries runtime options for sysdash.
type Config struct {
	Interval time.Duration
	MaxWidth int
	LogFile  string
}

func Default() Config {
	return Config{
		Interval: 2 * time.Second,
		MaxWidth: 120,
		LogFile:  "",
	}
}

// BindFlags registers the flags backing cfg on fs.
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.DurationVar(&cfg.Interval, "interval", cfg.Interval, "refresh interval")
	fs.IntVar(&cfg.MaxWidth, "max-width", cfg.MaxWidth, "maximum dashboard width in columns")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "append diagnostics to this file")
}

// Validate rejects values the dashboard cannot run with.
func (c Config) Validate() error {
	if c.Interval < MinInterval {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Refresh interval %s is too short", c.Interval),
			fmt.Sprintf("Use --interval %s or longer.", MinInterval))
	}
	if c.MaxWidth < MinWidth {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Maximum width %d is too narrow", c.MaxWidth),
			fmt.Sprintf("Use --max-width %d or more.", MinWidth))
	}
	return nil
}

// ClampWidth caps a measured terminal width at MaxWidth. Non-positive
// measurements fall back to 80 columns.
func (c Config) ClampWidth(w int) int {
	if w <= 0 {
		w = 80
	}
	if w > c.MaxWidth {
		return c.MaxWidth
	}
	return w
}
