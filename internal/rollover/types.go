package rollover

import (
	"time"

	"github.com/dimitrije/wicket-api/internal/metrics"
	"github.com/google/uuid"
)

// Job clones every ground's current week into the week after it.
type Job struct {
	grounds   Grounds
	schedules Schedules
	alerter   Alerter
	metrics   metrics.Metrics
	loc       *time.Location
}

// Report summarizes one run. Skipped grounds already had a target week.
type Report struct {
	SourceWeek time.Time
	TargetWeek time.Time
	Cloned     int
	Skipped    int
	Failures   []Failure
	Duration   time.Duration
}

type Failure struct {
	GroundID uuid.UUID
	Name     string
	Err      error
}

func (r Report) Failed() int {
	return len(r.Failures)
}
