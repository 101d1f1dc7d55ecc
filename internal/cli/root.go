// Package cli wires flags, providers and the dashboard together.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Dicklesworthstone/sysdash/internal/config"
	"github.com/Dicklesworthstone/sysdash/internal/errors"
	"github.com/Dicklesworthstone/sysdash/internal/logger"
	"github.com/Dicklesworthstone/sysdash/internal/provider"
	"github.com/Dicklesworthstone/sysdash/internal/sampler"
	"github.com/Dicklesworthstone/sysdash/internal/ui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersionInfo is called from main with ldflags values.
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

// dashboardFunc runs the dashboard; replaced in tests.
var dashboardFunc = func(ctx context.Context, cfg config.Config, t ui.Ticker) error {
	return ui.Run(ctx, cfg, t)
}

// NewRootCmd builds the sysdash command. metrics is the host source the
// dashboard polls.
func NewRootCmd(metrics provider.Metrics) *cobra.Command {
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:   "sysdash",
		Short: "Full-screen terminal dashboard for CPU, memory, disk and GPU",
		Long: `sysdash samples host metrics every few seconds and draws them as a
color-coded, auto-refreshing terminal dashboard.

Press q or Ctrl+C to exit.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cfg, metrics)
		},
	}
	config.BindFlags(cmd.Flags(), &cfg)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Wrap(err, errors.ErrConfig, "Invalid command line",
			"Run 'sysdash --help' for the available flags.")
	})
	return cmd
}

func run(ctx context.Context, cfg config.Config, metrics provider.Metrics) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	log := logger.Noop()
	if cfg.LogFile != "" {
		fileLog, closer, err := logger.OpenFile(cfg.LogFile, "[sysdash]")
		if err != nil {
			return errors.Wrap(err, errors.ErrConfig,
				"Cannot open log file "+cfg.LogFile,
				"Check the directory exists and is writable.")
		}
		defer closer.Close()
		log = fileLog
	}

	if err := provider.Verify(ctx, metrics); err != nil {
		log.Error("startup: %v", err)
		return err
	}

	log.Info("starting: interval=%s max-width=%d", cfg.Interval, cfg.MaxWidth)
	s := sampler.New(metrics, provider.NewNvidiaSMI(log), log)
	err := dashboardFunc(ctx, cfg, s)
	log.Info("stopped")
	return err
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if code := runRoot(NewRootCmd(provider.NewHost()), os.Args[1:], os.Stderr); code != 0 {
		os.Exit(code)
	}
}

// runRoot executes cmd with args, reports any error on stderr and returns
// the exit status.
func runRoot(cmd *cobra.Command, args []string, stderr io.Writer) int {
	cmd.SetArgs(args)
	err := cmd.Execute()
	errors.Print(stderr, err)
	return errors.ExitCode(err)
}
