package handlers

import (
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dimitrije/wicket-api/internal/middleware"
	"github.com/dimitrije/wicket-api/internal/services"
	"github.com/dimitrije/wicket-api/pkg/dto"
	"github.com/google/uuid"
	"github.com/m1z23r/drift/pkg/drift"
)

// respondError maps a service failure kind to its status code. Anything
// without a kind is logged and reported as fallback.
func respondError(c *drift.Context, err error, fallback string) {
	msg := services.Message(err)
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.NotFound(msg)
	case errors.Is(err, services.ErrBadRequest):
		c.BadRequest(msg)
	case errors.Is(err, services.ErrForbidden):
		c.Forbidden(msg)
	case errors.Is(err, services.ErrConflict):
		_ = c.JSON(409, map[string]string{"error": msg})
	default:
		log.Error(fallback, "error", err)
		c.InternalServerError(fallback)
	}
}

// bindRequest decodes and validates the JSON body into req, answering 400
// itself when either step fails.
func bindRequest(c *drift.Context, req any) bool {
	if err := c.BindJSON(req); err != nil {
		c.BadRequest("invalid request body")
		return false
	}
	if err := dto.Validate(req); err != nil {
		c.BadRequest(err.Error())
		return false
	}
	return true
}

func paramUUID(c *drift.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.BadRequest("invalid " + label)
		return uuid.Nil, false
	}
	return id, true
}

func parseDate(c *drift.Context, value string, loc *time.Location) (time.Time, bool) {
	d, err := time.ParseInLocation(time.DateOnly, value, loc)
	if err != nil {
		c.BadRequest("date must be in YYYY-MM-DD form")
		return time.Time{}, false
	}
	return d, true
}

func requireUser(c *drift.Context) (uuid.UUID, bool) {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		c.Unauthorized("not authenticated")
		return uuid.Nil, false
	}
	return userID, true
}
