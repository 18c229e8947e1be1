package rollover

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dimitrije/wicket-api/internal/config"
)

// Scheduler runs a Job once a week at a fixed local wall-clock time.
type Scheduler struct {
	job *Job
	at  config.RolloverConfig
	now func() time.Time
}

func NewScheduler(job *Job, at config.RolloverConfig) *Scheduler {
	return &Scheduler{job: job, at: at, now: time.Now}
}

// NextRun returns the first configured weekday and time strictly after now,
// in the job's timezone.
func (s *Scheduler) NextRun(now time.Time) time.Time {
	local := now.In(s.job.loc)
	days := (int(s.at.Weekday) - int(local.Weekday()) + 7) % 7
	next := time.Date(local.Year(), local.Month(), local.Day()+days, s.at.Hour, s.at.Minute, 0, 0, s.job.loc)
	if !next.After(now) {
		next = next.AddDate(0, 0, 7)
	}
	return next
}

// Run blocks until ctx is done, running the job at every scheduled time.
func (s *Scheduler) Run(ctx context.Context) {
	for {
		next := s.NextRun(s.now())
		log.Info("Next weekly rollover scheduled", "at", next)

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if _, err := s.job.RunOnce(ctx, s.now()); err != nil {
			log.Error("Weekly rollover failed", "error", err)
		}
	}
}
