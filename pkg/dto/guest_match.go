package dto

import "github.com/google/uuid"

type CreateGuestMatchRequest struct {
	TeamA    uuid.UUID `json:"team_a" validate:"required"`
	TeamB    uuid.UUID `json:"team_b" validate:"required"`
	Date     string    `json:"date" validate:"required,datetime=2006-01-02"`
	TimeSlot string    `json:"time_slot" validate:"required,oneof=morning afternoon"`
}

type RespondGuestMatchRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
}
