package provider

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/Dicklesworthstone/sysdash/internal/logger"
	"github.com/Dicklesworthstone/sysdash/internal/model"
)

const (
	// GPUTimeout bounds a single nvidia-smi invocation.
	GPUTimeout = 3 * time.Second

	// waitDelay bounds how long a killed nvidia-smi may hold its stdout open.
	waitDelay = 500 * time.Millisecond

	notApplicable = "[N/A]"
)

var nvidiaArgs = []string{
	"--query-gpu=utilization.gpu,memory.used,memory.total,temperature.gpu,name",
	"--format=csv,noheader,nounits",
}

// Runner executes name with args and returns its stdout.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.WaitDelay = waitDelay
	return cmd.Output()
}

type runResult struct {
	out []byte
	err error
}

// NvidiaSMI implements GPUTool with the nvidia-smi CLI.
type NvidiaSMI struct {
	Binary  string
	Timeout time.Duration
	Run     Runner

	log logger.Logger
}

func NewNvidiaSMI(log logger.Logger) *NvidiaSMI {
	if log == nil {
		log = logger.Noop()
	}
	return &NvidiaSMI{
		Binary:  "nvidia-smi",
		Timeout: GPUTimeout,
		Run:     execRunner,
		log:     log,
	}
}

// Query runs nvidia-smi under Timeout. A missing binary, a non-zero exit and
// a timeout are all returned as errors; malformed rows are logged and dropped.
// A run still going at the deadline is abandoned and its output discarded.
func (n *NvidiaSMI) Query(ctx context.Context) ([]model.GPU, error) {
	ctx, cancel := context.WithTimeout(ctx, n.Timeout)
	defer cancel()

	done := make(chan runResult, 1)
	go func() {
		out, err := n.Run(ctx, n.Binary, nvidiaArgs...)
		done <- runResult{out: out, err: err}
	}()

	var res runResult
	select {
	case res = <-done:
	case <-ctx.Done():
	}
	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("%s timed out after %s", n.Binary, n.Timeout)
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%s: %w", n.Binary, ctx.Err())
	}
	if res.err != nil {
		return nil, fmt.Errorf("%s: %w", n.Binary, res.err)
	}

	gpus, rowErrs := ParseNvidiaSMI(string(res.out))
	for _, e := range rowErrs {
		n.log.Debug("dropping GPU row: %v", e)
	}
	return gpus, nil
}

// ParseNvidiaSMI parses "usage, memUsed, memTotal, temp, name" rows. "[N/A]"
// reads as 0. Each bad row is reported and skipped without affecting the
// others.
func ParseNvidiaSMI(out string) ([]model.GPU, []error) {
	var (
		gpus []model.GPU
		errs []error
	)
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) < 5 {
			errs = append(errs, fmt.Errorf("want 5 fields, got %d: %q", len(parts), line))
			continue
		}
		var vals [4]float64
		var bad error
		for i := range vals {
			v, err := parseField(parts[i])
			if err != nil {
				bad = fmt.Errorf("field %d of %q: %w", i+1, line, err)
				break
			}
			vals[i] = v
		}
		if bad != nil {
			errs = append(errs, bad)
			continue
		}
		gpus = append(gpus, model.GPU{
			Vendor:     "NVIDIA",
			Name:       strings.TrimSpace(strings.Join(parts[4:], ",")),
			Util:       vals[0],
			MemUsedMB:  vals[1],
			MemTotalMB: vals[2],
			TempC:      vals[3],
		})
	}
	return gpus, errs
}

func parseField(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == notApplicable {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}
