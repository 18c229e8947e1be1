package handlers

import (
	"context"
	"time"

	"github.com/dimitrije/wicket-api/internal/models"
	"github.com/dimitrije/wicket-api/internal/services"
	"github.com/dimitrije/wicket-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type GuestMatchHandler struct {
	guestMatchService GuestMatchServiceInterface
	loc               *time.Location
}

func NewGuestMatchHandler(guestMatchService GuestMatchServiceInterface, loc *time.Location) *GuestMatchHandler {
	return &GuestMatchHandler{guestMatchService: guestMatchService, loc: loc}
}

func (h *GuestMatchHandler) Create(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	groundID, ok := paramUUID(c, "groundId", "ground id")
	if !ok {
		return
	}

	var req dto.CreateGuestMatchRequest
	if !bindRequest(c, &req) {
		return
	}

	date, ok := parseDate(c, req.Date, h.loc)
	if !ok {
		return
	}

	ts, err := models.ParseTimeSlot(req.TimeSlot)
	if err != nil {
		c.BadRequest("invalid time slot")
		return
	}

	request, err := h.guestMatchService.Create(context.Background(), services.CreateGuestMatchInput{
		GroundID:    groundID,
		Date:        date,
		TimeSlot:    ts,
		TeamA:       req.TeamA,
		TeamB:       req.TeamB,
		RequestedBy: userID,
	})
	if err != nil {
		respondError(c, err, "failed to create guest match request")
		return
	}

	_ = c.JSON(201, request)
}

func (h *GuestMatchHandler) List(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	groundID, ok := paramUUID(c, "groundId", "ground id")
	if !ok {
		return
	}

	requests, err := h.guestMatchService.ListForGround(context.Background(), groundID, userID)
	if err != nil {
		respondError(c, err, "failed to list guest match requests")
		return
	}
	if requests == nil {
		requests = []models.GuestMatchRequest{}
	}

	_ = c.JSON(200, requests)
}

func (h *GuestMatchHandler) Get(c *drift.Context) {
	requestID, ok := paramUUID(c, "requestId", "request id")
	if !ok {
		return
	}

	request, err := h.guestMatchService.Get(context.Background(), requestID)
	if err != nil {
		respondError(c, err, "failed to get guest match request")
		return
	}

	_ = c.JSON(200, request)
}

func (h *GuestMatchHandler) Respond(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	requestID, ok := paramUUID(c, "requestId", "request id")
	if !ok {
		return
	}

	var req dto.RespondGuestMatchRequest
	if !bindRequest(c, &req) {
		return
	}

	request, err := h.guestMatchService.Respond(context.Background(), requestID, models.GuestMatchStatus(req.Decision), userID)
	if err != nil {
		respondError(c, err, "failed to respond to guest match request")
		return
	}

	_ = c.JSON(200, request)
}
