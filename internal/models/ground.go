package models

import (
	"time"

	"github.com/google/uuid"
)

type Ground struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Location    string    `json:"location"`
	OwnedByTeam uuid.UUID `json:"owned_by_team"`
	MatchFee    int64     `json:"match_fee"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
