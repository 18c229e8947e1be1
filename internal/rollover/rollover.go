// Package rollover carries ground schedules forward from one week to the next.
package rollover

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dimitrije/wicket-api/internal/metrics"
	"github.com/dimitrije/wicket-api/internal/services"
	"github.com/dimitrije/wicket-api/internal/week"
)

// New creates a rollover Job. A nil alerter disables run summaries.
func New(grounds Grounds, schedules Schedules, alerter Alerter, m metrics.Metrics, loc *time.Location) *Job {
	if m == nil {
		m = metrics.Nop{}
	}
	return &Job{grounds: grounds, schedules: schedules, alerter: alerter, metrics: m, loc: loc}
}

// RunOnce clones the week containing now into the following week for every
// ground. A ground that fails is recorded and the run moves on; a ground
// whose target week already exists is skipped, so repeated runs are safe.
func (j *Job) RunOnce(ctx context.Context, now time.Time) (Report, error) {
	started := time.Now()
	report := Report{
		SourceWeek: week.Start(now, j.loc),
		TargetWeek: week.Next(now, j.loc),
	}

	log.Info("Starting weekly rollover", "source", report.SourceWeek.Format(time.DateOnly), "target", report.TargetWeek.Format(time.DateOnly))

	grounds, err := j.grounds.List(ctx)
	if err != nil {
		return report, fmt.Errorf("failed to list grounds: %w", err)
	}

	for _, g := range grounds {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		_, err := j.schedules.CloneForward(ctx, g.ID, g.OwnedByTeam, report.SourceWeek, report.TargetWeek)
		switch {
		case err == nil:
			report.Cloned++
			j.metrics.IncRolloverGround(metrics.OutcomeCloned)
			log.Debug("Cloned week", "groundID", g.ID)
		case errors.Is(err, services.ErrConflict):
			report.Skipped++
			j.metrics.IncRolloverGround(metrics.OutcomeSkipped)
			log.Debug("Target week already exists", "groundID", g.ID)
		default:
			report.Failures = append(report.Failures, Failure{GroundID: g.ID, Name: g.Name, Err: err})
			j.metrics.IncRolloverGround(metrics.OutcomeFailed)
			log.Error("Failed to roll over ground", "groundID", g.ID, "ground", g.Name, "error", err)
		}
	}

	report.Duration = time.Since(started)
	j.metrics.ObserveRolloverDuration(report.Duration.Seconds())
	log.Info("Weekly rollover finished", "cloned", report.Cloned, "skipped", report.Skipped, "failed", report.Failed(), "duration", report.Duration)

	j.alert(ctx, report)
	return report, nil
}

func (j *Job) alert(ctx context.Context, r Report) {
	if j.alerter == nil {
		return
	}

	title := fmt.Sprintf("Weekly rollover %s → %s", r.SourceWeek.Format(time.DateOnly), r.TargetWeek.Format(time.DateOnly))
	details := []string{fmt.Sprintf("*Cloned:* %d  *Skipped:* %d  *Failed:* %d", r.Cloned, r.Skipped, r.Failed())}
	for _, f := range r.Failures {
		details = append(details, fmt.Sprintf("`%s` %s: %v", f.GroundID, f.Name, f.Err))
	}

	if err := j.alerter.Alert(ctx, title, details...); err != nil {
		log.Error("Failed to post rollover summary", "error", err)
	}
}
