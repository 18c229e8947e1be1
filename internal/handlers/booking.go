package handlers

import (
	"context"
	"time"

	"github.com/dimitrije/wicket-api/internal/models"
	"github.com/dimitrije/wicket-api/internal/services"
	"github.com/dimitrije/wicket-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type BookingHandler struct {
	bookingService BookingServiceInterface
	loc            *time.Location
}

// NewBookingHandler parses request dates in loc, the schedule timezone.
func NewBookingHandler(bookingService BookingServiceInterface, loc *time.Location) *BookingHandler {
	return &BookingHandler{bookingService: bookingService, loc: loc}
}

func (h *BookingHandler) Create(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	groundID, ok := paramUUID(c, "groundId", "ground id")
	if !ok {
		return
	}

	var req dto.CreateBookingRequest
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

	booking, err := h.bookingService.Admit(context.Background(), services.AdmitInput{
		GroundID:     groundID,
		TeamID:       req.TeamID,
		OpponentTeam: req.OpponentTeam,
		Date:         date,
		TimeSlot:     ts,
		RequestedBy:  userID,
	})
	if err != nil {
		respondError(c, err, "failed to create booking")
		return
	}

	_ = c.JSON(201, booking)
}

func (h *BookingHandler) Get(c *drift.Context) {
	bookingID, ok := paramUUID(c, "bookingId", "booking id")
	if !ok {
		return
	}

	booking, err := h.bookingService.GetByID(context.Background(), bookingID)
	if err != nil {
		respondError(c, err, "failed to get booking")
		return
	}

	_ = c.JSON(200, booking)
}

// ListPending returns the ground's pending bookings grouped for review.
func (h *BookingHandler) ListPending(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	groundID, ok := paramUUID(c, "groundId", "ground id")
	if !ok {
		return
	}

	groups, err := h.bookingService.GroupPendingForOwner(context.Background(), groundID, userID)
	if err != nil {
		respondError(c, err, "failed to list pending bookings")
		return
	}
	if groups == nil {
		groups = []models.BookingGroup{}
	}

	_ = c.JSON(200, groups)
}

func (h *BookingHandler) Respond(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	bookingID, ok := paramUUID(c, "bookingId", "booking id")
	if !ok {
		return
	}

	var req dto.RespondBookingRequest
	if !bindRequest(c, &req) {
		return
	}

	booking, err := h.bookingService.Respond(context.Background(), bookingID, models.BookingStatus(req.Decision), userID)
	if err != nil {
		respondError(c, err, "failed to respond to booking")
		return
	}

	_ = c.JSON(200, booking)
}

// RespondGroup applies one decision to a whole group atomically.
func (h *BookingHandler) RespondGroup(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	groundID, ok := paramUUID(c, "groundId", "ground id")
	if !ok {
		return
	}

	var req dto.RespondBookingGroupRequest
	if !bindRequest(c, &req) {
		return
	}

	results, err := h.bookingService.RespondToGroup(context.Background(), groundID, req.BookingIDs, models.BookingStatus(req.Decision), userID)
	if err != nil {
		respondError(c, err, "failed to respond to bookings")
		return
	}

	_ = c.JSON(200, results)
}
