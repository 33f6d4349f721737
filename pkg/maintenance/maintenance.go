// Package maintenance runs periodic background checkpoints: flushing any
// pending debounced writes and refreshing store metrics. Scheduling is
// cron-driven.
package maintenance

import (
	"context"
	"fmt"
	"time"

	"github.com/adhocore/gronx"

	"kitlocal/pkg/logger"
)

// Job is one named unit of checkpoint work. Failures are logged and never
// stop the scheduler.
type Job struct {
	Name string
	Run  func() error
}

// Start starts the checkpoint scheduler. An empty cron expression maps to
// every five minutes. Returns a cancel func.
func Start(ctx context.Context, cronExpr string, jobs []Job) (context.CancelFunc, error) {
	if cronExpr == "" {
		cronExpr = "*/5 * * * *"
	}
	if !gronx.IsValid(cronExpr) {
		logger.Error("maintenance_invalid_cron", "cron", cronExpr)
		return nil, fmt.Errorf("invalid maintenance cron expression: %s", cronExpr)
	}

	logger.Info("maintenance_enabled", "cron", cronExpr, "jobs", len(jobs))
	ctx2, cancel := context.WithCancel(ctx)
	go runScheduler(ctx2, cronExpr, jobs)
	return cancel, nil
}

// runScheduler computes the next tick for the cron expression and sleeps
// until that time, then runs every job.
func runScheduler(ctx context.Context, cronExpr string, jobs []Job) {
	for {
		select {
		case <-ctx.Done():
			logger.Info("maintenance_scheduler_stopping")
			return
		default:
		}

		now := time.Now().UTC()
		next, err := gronx.NextTickAfter(cronExpr, now, false)
		if err != nil {
			logger.Error("maintenance_nexttick_failed", "cron", cronExpr, "error", err)
			select {
			case <-time.After(30 * time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		select {
		case <-time.After(time.Until(next)):
			RunAll(jobs)
		case <-ctx.Done():
			logger.Info("maintenance_scheduler_stopping")
			return
		}
	}
}

// RunAll runs every job once, immediately. Exposed so callers (and tests)
// can trigger a checkpoint on demand.
func RunAll(jobs []Job) {
	for _, j := range jobs {
		if err := j.Run(); err != nil {
			logger.Warn("maintenance_job_failed", "job", j.Name, "error", err)
			continue
		}
		logger.Debug("maintenance_job_ok", "job", j.Name)
	}
}
