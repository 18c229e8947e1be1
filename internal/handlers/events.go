package handlers

import (
	"context"

	"github.com/dimitrije/wicket-api/internal/sse"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

// EventsHandler streams a team's notices to its members as server-sent events.
type EventsHandler struct {
	hub         EventHubInterface
	teamService TeamServiceInterface
}

func NewEventsHandler(hub EventHubInterface, teamService TeamServiceInterface) *EventsHandler {
	return &EventsHandler{hub: hub, teamService: teamService}
}

func (h *EventsHandler) Connect(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	teamID, ok := paramUUID(c, "id", "team id")
	if !ok {
		return
	}

	isMember, err := h.teamService.IsMember(context.Background(), teamID, userID)
	if err != nil {
		respondError(c, err, "failed to check membership")
		return
	}
	if !isMember {
		c.NotFound("team not found")
		return
	}

	stream := c.SSE()

	client := &sse.Client{
		ID:     uuid.New().String(),
		UserID: userID,
		Teams:  map[uuid.UUID]bool{teamID: true},
		Send:   make(chan []byte, 64),
	}

	h.hub.Register(client)
	defer h.hub.Unregister(client)

	if err := stream.SendJSON(map[string]string{
		"type":      "connected",
		"client_id": client.ID,
	}, "system", ""); err != nil {
		return
	}

	done := c.Request.Context().Done()
	for {
		select {
		case msg, ok := <-client.Send:
			if !ok {
				return
			}
			if err := stream.Send(string(msg), "message", ""); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}
