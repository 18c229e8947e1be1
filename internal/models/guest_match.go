package models

import (
	"time"

	"github.com/google/uuid"
)

type GuestMatchStatus string

const (
	GuestMatchPending   GuestMatchStatus = "pending"
	GuestMatchApproved  GuestMatchStatus = "approved"
	GuestMatchRejected  GuestMatchStatus = "rejected"
	GuestMatchCancelled GuestMatchStatus = "cancelled"
)

// Live requests occupy their slot.
func (s GuestMatchStatus) Live() bool {
	return s == GuestMatchPending || s == GuestMatchApproved
}

type GuestMatchRequest struct {
	ID                   uuid.UUID        `json:"id"`
	GroundID             uuid.UUID        `json:"ground_id"`
	OwnerTeamID          uuid.UUID        `json:"owner_team_id"`
	RequestedDate        time.Time        `json:"requested_date"`
	TimeSlot             TimeSlot         `json:"time_slot"`
	TeamA                uuid.UUID        `json:"team_a"`
	TeamB                uuid.UUID        `json:"team_b"`
	RequestedBy          uuid.UUID        `json:"requested_by"`
	WeeklyAvailabilityID uuid.UUID        `json:"weekly_availability_id"`
	MatchFee             int64            `json:"match_fee"`
	Status               GuestMatchStatus `json:"status"`
	RespondedBy          *uuid.UUID       `json:"responded_by,omitempty"`
	RespondedAt          *time.Time       `json:"responded_at,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}
