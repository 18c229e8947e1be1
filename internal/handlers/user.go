package handlers

import (
	"context"

	"github.com/dimitrije/wicket-api/internal/models"
	"github.com/dimitrije/wicket-api/pkg/dto"
	"github.com/m1z23r/drift/pkg/drift"
)

type UserHandler struct {
	userService UserServiceInterface
}

func NewUserHandler(userService UserServiceInterface) *UserHandler {
	return &UserHandler{userService: userService}
}

func toUserResponse(u *models.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Name:       u.Name,
		Phone:      u.Phone,
		GlobalRole: u.GlobalRole,
	}
}

func (h *UserHandler) GetMe(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	user, err := h.userService.GetByID(context.Background(), userID)
	if err != nil {
		c.NotFound("user not found")
		return
	}

	_ = c.JSON(200, toUserResponse(user))
}

func (h *UserHandler) UpdateMe(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !bindRequest(c, &req) {
		return
	}

	user, err := h.userService.Update(context.Background(), userID, req.Name, req.Phone)
	if err != nil {
		respondError(c, err, "failed to update user")
		return
	}

	_ = c.JSON(200, toUserResponse(user))
}

// SetPushToken registers the caller's device for push notifications.
func (h *UserHandler) SetPushToken(c *drift.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req dto.PushTokenRequest
	if !bindRequest(c, &req) {
		return
	}

	if err := h.userService.SetPushToken(context.Background(), userID, req.Token); err != nil {
		respondError(c, err, "failed to save push token")
		return
	}

	_ = c.JSON(200, map[string]string{"message": "push token saved"})
}
