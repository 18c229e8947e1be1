package dto

import "github.com/google/uuid"

type CreateBookingRequest struct {
	TeamID       uuid.UUID  `json:"team_id" validate:"required"`
	OpponentTeam *uuid.UUID `json:"opponent_team"`
	Date         string     `json:"date" validate:"required,datetime=2006-01-02"`
	TimeSlot     string     `json:"time_slot" validate:"required,oneof=morning afternoon"`
}

type RespondBookingRequest struct {
	Decision string `json:"decision" validate:"required,oneof=booked rejected"`
}

type RespondBookingGroupRequest struct {
	BookingIDs []uuid.UUID `json:"booking_ids" validate:"required,min=1,dive,required"`
	Decision   string      `json:"decision" validate:"required,oneof=booked rejected"`
}
