package services

import (
	"github.com/dimitrije/wicket-api/internal/models"
)

type cellKey struct {
	date int64
	slot models.TimeSlot
}

// GroupPending buckets pending bookings for the ground owner. owner_play
// bookings are challenges, host_only bookings on the same cell pair up into
// complete groups, a lone host_only booking waits for an opponent, and the
// rest are regular. Groups keep the order their first booking appeared in.
func GroupPending(bookings []models.GroundBooking) []models.BookingGroup {
	groups := make([]models.BookingGroup, 0, len(bookings))
	open := map[cellKey]int{}

	for _, b := range bookings {
		switch b.AvailabilityMode {
		case models.AvailabilityOwnerPlay:
			groups = append(groups, singleton(models.GroupChallenge, b))

		case models.AvailabilityHostOnly:
			key := cellKey{date: b.BookedDate.Unix(), slot: b.TimeSlot}
			if i, ok := open[key]; ok {
				groups[i].Bookings = append(groups[i].Bookings, b)
				groups[i].Kind = models.GroupComplete
				delete(open, key)
				continue
			}
			open[key] = len(groups)
			groups = append(groups, singleton(models.GroupWaitingForOpponent, b))

		default:
			groups = append(groups, singleton(models.GroupRegular, b))
		}
	}
	return groups
}

func singleton(kind models.BookingGroupKind, b models.GroundBooking) models.BookingGroup {
	return models.BookingGroup{
		Kind:     kind,
		Date:     b.BookedDate,
		TimeSlot: b.TimeSlot,
		Bookings: []models.GroundBooking{b},
	}
}
