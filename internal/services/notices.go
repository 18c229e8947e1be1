package services

import (
	"fmt"

	"github.com/dimitrije/wicket-api/internal/models"
	"github.com/dimitrije/wicket-api/internal/notify"
	"github.com/google/uuid"
)

// Notifier queues a notice for a team's captain. Delivery is best effort and
// never part of the caller's transaction.
type Notifier interface {
	NotifyTeam(teamID uuid.UUID, n notify.Notice) bool
}

type nopNotifier struct{}

func (nopNotifier) NotifyTeam(uuid.UUID, notify.Notice) bool { return true }

func notifyTeams(n Notifier, notice notify.Notice, teams ...uuid.UUID) {
	seen := make(map[uuid.UUID]bool, len(teams))
	for _, t := range teams {
		if t == uuid.Nil || seen[t] {
			continue
		}
		seen[t] = true
		n.NotifyTeam(t, notice)
	}
}

const dateLayout = "Mon 2 Jan 2006"

func bookingRequestedNotice(b *models.GroundBooking) notify.Notice {
	return notify.Notice{
		Title: "New booking request",
		Body:  fmt.Sprintf("A team requested the %s slot on %s.", b.TimeSlot, b.BookedDate.Format(dateLayout)),
		Data:  map[string]string{"type": "booking_requested", "booking_id": b.ID.String()},
	}
}

func bookingDecisionNotice(id uuid.UUID, date string, slot models.TimeSlot, status models.BookingStatus) notify.Notice {
	title := "Booking approved"
	if status == models.BookingRejected {
		title = "Booking rejected"
	}
	return notify.Notice{
		Title: title,
		Body:  fmt.Sprintf("Your %s booking on %s was %s.", slot, date, status),
		Data:  map[string]string{"type": "booking_" + string(status), "booking_id": id.String()},
	}
}

func guestMatchNotice(r *models.GuestMatchRequest, event string) notify.Notice {
	var title, body string
	when := fmt.Sprintf("%s on %s", r.TimeSlot, r.RequestedDate.Format(dateLayout))
	switch r.Status {
	case models.GuestMatchPending:
		title = "Guest match requested"
		body = "A guest match was requested for the " + when + " slot."
	case models.GuestMatchApproved:
		title = "Guest match approved"
		body = "Your guest match for " + when + " was approved."
	case models.GuestMatchRejected:
		title = "Guest match rejected"
		body = "Your guest match for " + when + " was rejected."
	case models.GuestMatchCancelled:
		title = "Guest match cancelled"
		body = "The ground owner closed the " + when + " slot, so your guest match request was cancelled."
	}
	return notify.Notice{
		Title: title,
		Body:  body,
		Data:  map[string]string{"type": "guest_match_" + event, "request_id": r.ID.String()},
	}
}
