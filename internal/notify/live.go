package notify

import (
	"context"
	"errors"

	"github.com/dimitrije/wicket-api/internal/models"
	"github.com/dimitrije/wicket-api/internal/sse"
	"github.com/google/uuid"
)

var errStreamFull = errors.New("event stream queue is full")

type publisher interface {
	HasTeam(teamID uuid.UUID) bool
	PublishToTeam(teamID uuid.UUID, event sse.Event) bool
}

// LiveSink forwards notices to team members with an open event stream.
type LiveSink struct {
	hub publisher
}

func NewLiveSink(hub publisher) *LiveSink {
	return &LiveSink{hub: hub}
}

func (s *LiveSink) Name() string { return "live" }

// Send reports ErrNoAddress when no member of the team has a stream open.
func (s *LiveSink) Send(_ context.Context, to models.TeamContact, n Notice) error {
	if !s.hub.HasTeam(to.TeamID) {
		return ErrNoAddress
	}
	if !s.hub.PublishToTeam(to.TeamID, sse.Event{Type: "notice", Data: n}) {
		return errStreamFull
	}
	return nil
}
