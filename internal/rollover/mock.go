package rollover

import (
	"context"
	"sync"
	"time"

	"github.com/dimitrije/wicket-api/internal/models"
	"github.com/google/uuid"
)

// MockGrounds is a Grounds backed by a fixed list.
type MockGrounds struct {
	Grounds []models.Ground
	Err     error
}

func (m *MockGrounds) List(context.Context) ([]models.Ground, error) {
	return m.Grounds, m.Err
}

type CloneForwardCall struct {
	GroundID    uuid.UUID
	OwnerTeamID uuid.UUID
	Source      time.Time
	Target      time.Time
}

// MockSchedules records CloneForward calls and answers with CloneForwardFunc.
type MockSchedules struct {
	mu               sync.Mutex
	CloneForwardFunc func(groundID uuid.UUID) error
	Calls            []CloneForwardCall
}

func (m *MockSchedules) CloneForward(_ context.Context, groundID, ownerTeamID uuid.UUID, src, dst time.Time) (*models.WeeklySchedule, error) {
	m.mu.Lock()
	m.Calls = append(m.Calls, CloneForwardCall{GroundID: groundID, OwnerTeamID: ownerTeamID, Source: src, Target: dst})
	m.mu.Unlock()

	if m.CloneForwardFunc != nil {
		if err := m.CloneForwardFunc(groundID); err != nil {
			return nil, err
		}
	}
	return &models.WeeklySchedule{ID: uuid.New(), GroundID: groundID, OwnerTeamID: ownerTeamID, WeekStartDate: dst}, nil
}

type AlertCall struct {
	Title   string
	Details []string
}

// MockAlerter records alerts.
type MockAlerter struct {
	Err   error
	Calls []AlertCall
}

func (m *MockAlerter) Alert(_ context.Context, title string, details ...string) error {
	m.Calls = append(m.Calls, AlertCall{Title: title, Details: details})
	return m.Err
}
