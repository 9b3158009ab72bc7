package system

import (
	"context"
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/dami/heroscrub/internal/logger"
)

// StatsReporter periodically logs process CPU and memory usage while the
// scrub loop runs. Enabled by the host's -stats flag.
type StatsReporter struct {
	log      logger.Logger
	interval time.Duration
	proc     *process.Process
}

// NewStatsReporter builds a reporter for the current process. Returns an
// error if the process handle cannot be obtained.
func NewStatsReporter(log logger.Logger, interval time.Duration) (*StatsReporter, error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, err
	}
	return &StatsReporter{log: log, interval: interval, proc: proc}, nil
}

// Run logs one sample per interval until ctx is done.
func (r *StatsReporter) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.sample()
		}
	}
}

func (r *StatsReporter) sample() {
	var rssMB float64
	if mem, err := r.proc.MemoryInfo(); err == nil && mem != nil {
		rssMB = float64(mem.RSS) / (1024 * 1024)
	}
	cpu, err := r.proc.CPUPercent()
	if err != nil {
		cpu = 0
	}
	r.log.Infof("stats: rss=%.1fMB cpu=%.1f%%", rssMB, cpu)
}
