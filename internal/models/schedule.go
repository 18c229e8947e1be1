package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Day indexes a weekday within a week that starts on Monday.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

const DaysPerWeek = 7

var dayNames = [DaysPerWeek]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

func ParseDay(s string) (Day, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range dayNames {
		if n == name {
			return Day(i), nil
		}
	}
	return 0, fmt.Errorf("unknown day %q", s)
}

func (d Day) Valid() bool { return d >= Monday && d <= Sunday }

func (d Day) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayNames[d]
}

func (d Day) MarshalText() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("invalid day %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *Day) UnmarshalText(b []byte) error {
	v, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// TimeSlot is one of the two bookable halves of a day.
type TimeSlot int

const (
	Morning TimeSlot = iota
	Afternoon
)

const SlotsPerDay = 2

var timeSlotNames = [SlotsPerDay]string{"morning", "afternoon"}

func ParseTimeSlot(s string) (TimeSlot, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range timeSlotNames {
		if n == name {
			return TimeSlot(i), nil
		}
	}
	return 0, fmt.Errorf("unknown time slot %q", s)
}

func (t TimeSlot) Valid() bool { return t == Morning || t == Afternoon }

func (t TimeSlot) String() string {
	if !t.Valid() {
		return fmt.Sprintf("TimeSlot(%d)", int(t))
	}
	return timeSlotNames[t]
}

func (t TimeSlot) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid time slot %d", int(t))
	}
	return []byte(t.String()), nil
}

func (t *TimeSlot) UnmarshalText(b []byte) error {
	v, err := ParseTimeSlot(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// SlotMode is the stored behavior of a slot. host_only is deliberately absent:
// it is a booking-time classification, see AvailabilityHostOnly.
type SlotMode string

const (
	SlotUnavailable SlotMode = "unavailable"
	SlotOwnerPlay   SlotMode = "owner_play"
	SlotGuestMatch  SlotMode = "guest_match"
)

func ParseSlotMode(s string) (SlotMode, error) {
	m := SlotMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown slot mode %q", s)
	}
	return m, nil
}

func (m SlotMode) Valid() bool {
	switch m {
	case SlotUnavailable, SlotOwnerPlay, SlotGuestMatch:
		return true
	}
	return false
}

type Slot struct {
	Mode                SlotMode   `json:"mode"`
	GuestMatchRequestID *uuid.UUID `json:"guest_match_request_id"`
}

// Grid holds the 14 slots of a week. Invariant: GuestMatchRequestID is only
// set while Mode is guest_match.
type Grid [DaysPerWeek][SlotsPerDay]Slot

func NewGrid() Grid {
	var g Grid
	for d := range g {
		for s := range g[d] {
			g[d][s] = Slot{Mode: SlotUnavailable}
		}
	}
	return g
}

func (g *Grid) At(day Day, slot TimeSlot) Slot {
	return g[day][slot]
}

// Set stores slot at (day, ts), dropping a request link that the mode cannot carry.
func (g *Grid) Set(day Day, ts TimeSlot, slot Slot) {
	if slot.Mode != SlotGuestMatch {
		slot.GuestMatchRequestID = nil
	}
	g[day][ts] = slot
}

// WithoutLinks returns a copy of the grid's modes with every request link cleared.
func (g Grid) WithoutLinks() Grid {
	out := g
	for d := range out {
		for s := range out[d] {
			out[d][s].GuestMatchRequestID = nil
		}
	}
	return out
}

// Consistent reports whether every linked slot is in guest_match mode.
func (g *Grid) Consistent() bool {
	for d := range g {
		for s := range g[d] {
			if g[d][s].GuestMatchRequestID != nil && g[d][s].Mode != SlotGuestMatch {
				return false
			}
		}
	}
	return true
}

func (g Grid) MarshalJSON() ([]byte, error) {
	out := make(map[string]map[string]Slot, DaysPerWeek)
	for d := range g {
		day := make(map[string]Slot, SlotsPerDay)
		for s := range g[d] {
			day[timeSlotNames[s]] = g[d][s]
		}
		out[dayNames[d]] = day
	}
	return json.Marshal(out)
}

func (g *Grid) UnmarshalJSON(b []byte) error {
	var in map[string]map[string]Slot
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	grid := NewGrid()
	for dayName, slots := range in {
		day, err := ParseDay(dayName)
		if err != nil {
			return err
		}
		for slotName, slot := range slots {
			ts, err := ParseTimeSlot(slotName)
			if err != nil {
				return err
			}
			if !slot.Mode.Valid() {
				return fmt.Errorf("invalid mode %q at %s %s", slot.Mode, day, ts)
			}
			grid.Set(day, ts, slot)
		}
	}
	*g = grid
	return nil
}

type WeeklySchedule struct {
	ID            uuid.UUID `json:"id"`
	GroundID      uuid.UUID `json:"ground_id"`
	OwnerTeamID   uuid.UUID `json:"owner_team_id"`
	WeekStartDate time.Time `json:"week_start_date"`
	WeekEndDate   time.Time `json:"week_end_date"`
	Schedule      Grid      `json:"schedule"`
	Version       int       `json:"version"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
