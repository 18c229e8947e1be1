package rollover

import (
	"context"
	"time"

	"github.com/dimitrije/wicket-api/internal/models"
	"github.com/google/uuid"
)

// Grounds lists every ground the rollover has to visit.
type Grounds interface {
	List(ctx context.Context) ([]models.Ground, error)
}

// Schedules copies one week's slot modes into a new week.
type Schedules interface {
	CloneForward(ctx context.Context, groundID, ownerTeamID uuid.UUID, sourceWeek, targetWeek time.Time) (*models.WeeklySchedule, error)
}

// Alerter posts the run summary somewhere operators will see it.
type Alerter interface {
	Alert(ctx context.Context, title string, details ...string) error
}
