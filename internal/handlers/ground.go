package handlers

import (
	"context"

	"github.com/dimitrije/wicket-api/internal/models"
	"github.com/dimitrije/wicket-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type GroundHandler struct {
	groundService GroundServiceInterface
}

func NewGroundHandler(groundService GroundServiceInterface) *GroundHandler {
	return &GroundHandler{groundService: groundService}
}

func (h *GroundHandler) Create(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.CreateGroundRequest
	if !bindRequest(c, &req) {
		return
	}

	ground, err := h.groundService.Create(context.Background(), req.Name, req.Location, req.TeamID, req.MatchFee, userID)
	if err != nil {
		respondError(c, err, "failed to create ground")
		return
	}

	_ = c.JSON(201, ground)
}

func (h *GroundHandler) List(c *drift.Context) {
	grounds, err := h.groundService.List(context.Background())
	if err != nil {
		c.InternalServerError("failed to list grounds")
		return
	}
	if grounds == nil {
		grounds = []models.Ground{}
	}

	_ = c.JSON(200, grounds)
}

func (h *GroundHandler) Get(c *drift.Context) {
	groundID, ok := paramUUID(c, "groundId", "ground id")
	if !ok {
		return
	}

	ground, err := h.groundService.GetByID(context.Background(), groundID)
	if err != nil {
		respondError(c, err, "failed to get ground")
		return
	}

	_ = c.JSON(200, ground)
}

func (h *GroundHandler) Update(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	groundID, ok := paramUUID(c, "groundId", "ground id")
	if !ok {
		return
	}

	ctx := context.Background()
	canManage, err := h.groundService.CanManage(ctx, groundID, userID)
	if err != nil || !canManage {
		c.Forbidden("only the owning team's captain can update the ground")
		return
	}

	var req dto.UpdateGroundRequest
	if !bindRequest(c, &req) {
		return
	}

	ground, err := h.groundService.Update(ctx, groundID, req.Name, req.Location, req.MatchFee)
	if err != nil {
		respondError(c, err, "failed to update ground")
		return
	}

	_ = c.JSON(200, ground)
}
