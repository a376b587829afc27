// Package schedule runs a job at a fixed interval.
package schedule

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Job is one scheduled unit of work. The run id correlates the log records
// of a single execution.
type Job func(ctx context.Context, runID string) error

// Runner executes a job immediately and then at every interval tick until
// the context is cancelled.
type Runner struct {
	interval time.Duration
	job      Job
	log      *zap.SugaredLogger
}

func NewRunner(interval time.Duration, job Job, log *zap.SugaredLogger) *Runner {
	return &Runner{
		interval: interval,
		job:      job,
		log:      log,
	}
}

// Run blocks until ctx is cancelled. Job failures are logged and the
// schedule keeps going.
func (r *Runner) Run(ctx context.Context) error {
	r.log.Infow("scheduler started", "interval", r.interval)

	r.runOnce(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Infow("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			r.runOnce(ctx)
		}
	}
}

func (r *Runner) runOnce(ctx context.Context) {
	runID := uuid.New().String()
	start := time.Now()

	r.log.Infow("run started", "run", runID)

	if err := r.job(ctx, runID); err != nil {
		r.log.Errorw("run failed", "run", runID, "error", err, "elapsed", time.Since(start))
		return
	}

	r.log.Infow("run finished", "run", runID, "elapsed", time.Since(start))
}
