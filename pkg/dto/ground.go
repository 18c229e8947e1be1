package dto

import "github.com/google/uuid"

type CreateGroundRequest struct {
	Name     string    `json:"name" validate:"required,max=200"`
	Location string    `json:"location" validate:"required,max=500"`
	TeamID   uuid.UUID `json:"team_id" validate:"required"`
	MatchFee int64     `json:"match_fee" validate:"min=0"`
}

type UpdateGroundRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Location *string `json:"location" validate:"omitempty,min=1,max=500"`
	MatchFee *int64  `json:"match_fee" validate:"omitempty,min=0"`
}
