package handlers

import (
	"context"

	"github.com/dimitrije/wicket-api/internal/models"
	"github.com/dimitrije/wicket-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

// ScheduleHandler serves a ground's weekly availability. Weeks are addressed
// by any date inside them.
type ScheduleHandler struct {
	scheduleService ScheduleServiceInterface
	groundService   GroundServiceInterface
}

func NewScheduleHandler(scheduleService ScheduleServiceInterface, groundService GroundServiceInterface) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
		groundService:   groundService,
	}
}

// GetWeek returns the week, creating it all-unavailable on first read.
func (h *ScheduleHandler) GetWeek(c *drift.Context) {
	groundID, ok := paramUUID(c, "groundId", "ground id")
	if !ok {
		return
	}

	ref, ok := parseDate(c, c.Param("date"), h.scheduleService.Location())
	if !ok {
		return
	}

	ctx := context.Background()
	ground, err := h.groundService.GetByID(ctx, groundID)
	if err != nil {
		respondError(c, err, "failed to get ground")
		return
	}

	ws, err := h.scheduleService.GetOrCreate(ctx, ground.ID, ground.OwnedByTeam, ref)
	if err != nil {
		respondError(c, err, "failed to get schedule")
		return
	}

	_ = c.JSON(200, ws)
}

func (h *ScheduleHandler) SetSlot(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	groundID, ok := paramUUID(c, "groundId", "ground id")
	if !ok {
		return
	}

	ref, ok := parseDate(c, c.Param("date"), h.scheduleService.Location())
	if !ok {
		return
	}

	day, err := models.ParseDay(c.Param("day"))
	if err != nil {
		c.BadRequest("invalid day")
		return
	}

	ts, err := models.ParseTimeSlot(c.Param("timeSlot"))
	if err != nil {
		c.BadRequest("invalid time slot")
		return
	}

	if !h.authorize(c, groundID, userID) {
		return
	}

	var req dto.SetSlotRequest
	if !bindRequest(c, &req) {
		return
	}

	change, err := h.scheduleService.SetSlotMode(context.Background(), groundID, ref, day, ts, models.SlotMode(req.Mode))
	if err != nil {
		respondError(c, err, "failed to update slot")
		return
	}

	_ = c.JSON(200, change)
}

// CloneWeek copies the addressed week's modes into the target week.
func (h *ScheduleHandler) CloneWeek(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	groundID, ok := paramUUID(c, "groundId", "ground id")
	if !ok {
		return
	}

	loc := h.scheduleService.Location()
	source, ok := parseDate(c, c.Param("date"), loc)
	if !ok {
		return
	}

	if !h.authorize(c, groundID, userID) {
		return
	}

	var req dto.CloneWeekRequest
	if !bindRequest(c, &req) {
		return
	}

	target, ok := parseDate(c, req.TargetWeek, loc)
	if !ok {
		return
	}

	ctx := context.Background()
	ground, err := h.groundService.GetByID(ctx, groundID)
	if err != nil {
		respondError(c, err, "failed to get ground")
		return
	}

	ws, err := h.scheduleService.CloneForward(ctx, ground.ID, ground.OwnedByTeam, source, target)
	if err != nil {
		respondError(c, err, "failed to clone week")
		return
	}

	_ = c.JSON(201, ws)
}

func (h *ScheduleHandler) authorize(c *drift.Context, groundID, userID uuid.UUID) bool {
	canManage, err := h.groundService.CanManage(context.Background(), groundID, userID)
	if err != nil {
		respondError(c, err, "failed to check ground ownership")
		return false
	}
	if !canManage {
		c.Forbidden("only the owning team's captain can edit the schedule")
		return false
	}
	return true
}
