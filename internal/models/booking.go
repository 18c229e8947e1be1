package models

import (
	"time"

	"github.com/google/uuid"
)

// AvailabilityMode is the slot behavior captured on a booking when it is made.
type AvailabilityMode string

const (
	AvailabilityRegular   AvailabilityMode = "regular"
	AvailabilityOwnerPlay AvailabilityMode = "owner_play"
	// AvailabilityHostOnly is never stored on a slot. A booking is classified
	// host_only when it targets a guest_match slot on its own, and the cell then
	// takes up to two independent guest teams over separate calls.
	AvailabilityHostOnly AvailabilityMode = "host_only"
)

type BookingStatus string

const (
	BookingPending  BookingStatus = "pending"
	BookingBooked   BookingStatus = "booked"
	BookingRejected BookingStatus = "rejected"
)

func (s BookingStatus) IsDecision() bool {
	return s == BookingBooked || s == BookingRejected
}

type GroundBooking struct {
	ID                   uuid.UUID        `json:"id"`
	GroundID             uuid.UUID        `json:"ground_id"`
	BookedByTeam         uuid.UUID        `json:"booked_by_team"`
	BookedDate           time.Time        `json:"booked_date"`
	TimeSlot             TimeSlot         `json:"time_slot"`
	OpponentTeam         *uuid.UUID       `json:"opponent_team,omitempty"`
	AvailabilityMode     AvailabilityMode `json:"availability_mode"`
	WeeklyAvailabilityID *uuid.UUID       `json:"weekly_availability_id,omitempty"`
	Seat                 int              `json:"seat"`
	Status               BookingStatus    `json:"status"`
	RespondedBy          *uuid.UUID       `json:"responded_by,omitempty"`
	RespondedAt          *time.Time       `json:"responded_at,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

type BookingGroupKind string

const (
	GroupChallenge          BookingGroupKind = "challenge"
	GroupComplete           BookingGroupKind = "complete"
	GroupWaitingForOpponent BookingGroupKind = "waiting_for_opponent"
	GroupRegular            BookingGroupKind = "regular"
)

// BookingGroup is a presentation bucket of pending bookings for a ground owner.
type BookingGroup struct {
	Kind     BookingGroupKind `json:"kind"`
	Date     time.Time        `json:"date"`
	TimeSlot TimeSlot         `json:"time_slot"`
	Bookings []GroundBooking  `json:"bookings"`
}

type BookingResult struct {
	BookingID uuid.UUID     `json:"booking_id"`
	TeamID    uuid.UUID     `json:"team_id"`
	Status    BookingStatus `json:"status"`
}
