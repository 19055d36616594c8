package digest

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ParseAt turns a local HH:MM time of day into a daily schedule.
func ParseAt(at string) (cron.Schedule, error) {
	t, err := time.Parse("15:04", at)
	if err != nil {
		return nil, fmt.Errorf("--at must be in HH:MM format, e.g. 07:00")
	}
	return cron.ParseStandard(fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()))
}

// Daemon runs the report every day at the scheduled time until ctx is
// cancelled. Failed runs are logged and wait for the next slot. A panicking
// run is retried after RetryDelay instead of waiting for the next slot.
func (r *Reporter) Daemon(ctx context.Context, schedule cron.Schedule) error {
	retry := false
	for {
		if !retry {
			now := r.now()
			next := schedule.Next(now)
			wait := next.Sub(now)
			r.Log.Info("waiting for next run", zap.Time("next", next), zap.Duration("wait", wait))
			if !sleep(ctx, wait) {
				r.Log.Info("daemon stopped")
				return nil
			}
		}

		panicked, err := r.safeRun(ctx)
		retry = panicked
		switch {
		case panicked:
			r.Log.Error("run panicked, retrying", zap.Error(err), zap.Duration("delay", r.RetryDelay))
			if !sleep(ctx, r.RetryDelay) {
				r.Log.Info("daemon stopped")
				return nil
			}
		case err != nil:
			r.Log.Warn("scheduled run failed", zap.Error(err))
		}
	}
}

func (r *Reporter) safeRun(ctx context.Context) (panicked bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
			panicked = true
		}
	}()
	return false, r.RunOnce(ctx)
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d < 0 {
		d = 0
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
