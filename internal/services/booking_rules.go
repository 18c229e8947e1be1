package services

import (
	"github.com/dimitrije/wicket-api/internal/models"
	"github.com/google/uuid"
)

// cellState is everything admission needs to know about one
// (ground, date, time slot) cell.
type cellState struct {
	Slot           models.Slot
	OwnerTeam      uuid.UUID
	LiveGuestMatch bool
	// Existing holds the cell's non-rejected bookings.
	Existing []models.GroundBooking
}

type admission struct {
	Mode     models.AvailabilityMode
	Seat     int
	Opponent *uuid.UUID
}

// checkAdmission decides whether team may book the cell. The slot's stored
// mode picks the rules: unavailable books as a single regular hold,
// owner_play as a single challenge against the owner, and guest_match as one
// of two host_only seats.
func checkAdmission(cell cellState, team uuid.UUID, opponent *uuid.UUID) (admission, error) {
	switch cell.Slot.Mode {
	case models.SlotUnavailable, "":
		if len(cell.Existing) > 0 {
			return admission{}, conflict("slot is already booked")
		}
		return admission{Mode: models.AvailabilityRegular, Seat: 1, Opponent: opponent}, nil

	case models.SlotOwnerPlay:
		if team == cell.OwnerTeam {
			return admission{}, badRequest("the ground's own team cannot challenge itself")
		}
		if opponent != nil {
			return admission{}, badRequest("owner_play slots are played against the ground's team; do not name an opponent")
		}
		if len(cell.Existing) > 0 {
			return admission{}, conflict("slot is already booked")
		}
		owner := cell.OwnerTeam
		return admission{Mode: models.AvailabilityOwnerPlay, Seat: 1, Opponent: &owner}, nil

	case models.SlotGuestMatch:
		return checkHostOnly(cell, team, opponent)
	}
	return admission{}, badRequest("slot mode %q cannot be booked", cell.Slot.Mode)
}

func checkHostOnly(cell cellState, team uuid.UUID, opponent *uuid.UUID) (admission, error) {
	if team == cell.OwnerTeam {
		return admission{}, badRequest("the ground's own team cannot take a guest seat")
	}
	if opponent != nil && *opponent == cell.OwnerTeam {
		return admission{}, badRequest("the ground's own team cannot take a guest seat")
	}
	if cell.LiveGuestMatch {
		return admission{}, conflict("slot is taken by a guest match request")
	}

	for _, b := range cell.Existing {
		if b.AvailabilityMode != models.AvailabilityHostOnly {
			return admission{}, conflict("slot is already booked")
		}
	}
	if len(cell.Existing) >= 2 {
		return admission{}, conflict("slot already has 2 teams")
	}

	taken := map[int]bool{}
	for _, b := range cell.Existing {
		taken[b.Seat] = true
		if b.BookedByTeam == team {
			return admission{}, conflict("team already holds this slot")
		}
		if opponent == nil {
			continue
		}
		if b.OpponentTeam != nil && *b.OpponentTeam == *opponent {
			return admission{}, conflict("opponent is already declared by another booking")
		}
		if b.BookedByTeam == *opponent && b.OpponentTeam != nil && *b.OpponentTeam != team {
			return admission{}, conflict("opponent already holds this slot in a different pairing")
		}
	}

	seat := 1
	if taken[1] {
		seat = 2
	}
	return admission{Mode: models.AvailabilityHostOnly, Seat: seat, Opponent: opponent}, nil
}
