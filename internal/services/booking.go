package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dimitrije/wicket-api/internal/database"
	"github.com/dimitrije/wicket-api/internal/metrics"
	"github.com/dimitrije/wicket-api/internal/models"
	"github.com/dimitrije/wicket-api/internal/week"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const bookingColumns = `id, ground_id, booked_by_team, booked_date, time_slot, opponent_team, availability_mode,
	weekly_availability_id, seat, status, responded_by, responded_at, created_at, updated_at`

type AdmitInput struct {
	GroundID     uuid.UUID
	TeamID       uuid.UUID
	OpponentTeam *uuid.UUID
	Date         time.Time
	TimeSlot     models.TimeSlot
	RequestedBy  uuid.UUID
}

type BookingService struct {
	db        *database.DB
	schedules *ScheduleService
	grounds   *GroundService
	teams     *TeamService
	notifier  Notifier
	metrics   metrics.Metrics
	now       func() time.Time
}

func NewBookingService(db *database.DB, schedules *ScheduleService, grounds *GroundService, teams *TeamService, notifier Notifier, m metrics.Metrics) *BookingService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if m == nil {
		m = metrics.Nop{}
	}
	return &BookingService{
		db:        db,
		schedules: schedules,
		grounds:   grounds,
		teams:     teams,
		notifier:  notifier,
		metrics:   m,
		now:       time.Now,
	}
}

func scanBooking(row pgx.Row, loc *time.Location) (*models.GroundBooking, error) {
	var b models.GroundBooking
	var slot string
	if err := row.Scan(
		&b.ID, &b.GroundID, &b.BookedByTeam, &b.BookedDate, &slot, &b.OpponentTeam, &b.AvailabilityMode,
		&b.WeeklyAvailabilityID, &b.Seat, &b.Status, &b.RespondedBy, &b.RespondedAt, &b.CreatedAt, &b.UpdatedAt,
	); err != nil {
		return nil, err
	}
	ts, err := models.ParseTimeSlot(slot)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", b.ID, err)
	}
	b.TimeSlot = ts
	b.BookedDate = b.BookedDate.In(loc)
	return &b, nil
}

func collectBookings(rows pgx.Rows, loc *time.Location) ([]models.GroundBooking, error) {
	defer rows.Close()
	var out []models.GroundBooking
	for rows.Next() {
		b, err := scanBooking(rows, loc)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// Admit creates a pending booking when the cell's rules allow it. The
// schedule row and the cell's bookings are locked while the rules run, and
// partial unique indexes back the decision up at commit.
func (s *BookingService) Admit(ctx context.Context, in AdmitInput) (*models.GroundBooking, error) {
	b, err := s.admit(ctx, in)
	if err != nil {
		if errors.Is(err, ErrConflict) || errors.Is(err, ErrBadRequest) {
			s.metrics.IncBookingAdmission(metrics.ResultRejected)
		}
		return nil, err
	}
	s.metrics.IncBookingAdmission(metrics.ResultAccepted)
	return b, nil
}

func (s *BookingService) admit(ctx context.Context, in AdmitInput) (*models.GroundBooking, error) {
	if !in.TimeSlot.Valid() {
		return nil, badRequest("invalid time slot")
	}
	if in.OpponentTeam != nil && *in.OpponentTeam == in.TeamID {
		return nil, badRequest("a team cannot play itself")
	}

	loc := s.schedules.Location()
	date := week.Date(in.Date, loc)
	if date.Before(week.Date(s.now(), loc)) {
		return nil, badRequest("cannot book a date in the past")
	}

	ground, err := s.grounds.GetByID(ctx, in.GroundID)
	if err != nil {
		return nil, err
	}

	ok, err := s.teams.Exists(ctx, in.TeamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load team: %w", err)
	}
	if !ok {
		return nil, notFound("team not found")
	}
	if in.OpponentTeam != nil {
		ok, err := s.teams.Exists(ctx, *in.OpponentTeam)
		if err != nil {
			return nil, fmt.Errorf("failed to load opponent team: %w", err)
		}
		if !ok {
			return nil, notFound("opponent team not found")
		}
	}

	member, err := s.teams.IsMember(ctx, in.TeamID, in.RequestedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !member {
		return nil, forbidden("only members of the team can book for it")
	}

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ws, err := s.schedules.lockForDate(ctx, tx, in.GroundID, date)
	if err != nil {
		return nil, err
	}

	cell := cellState{Slot: models.Slot{Mode: models.SlotUnavailable}, OwnerTeam: ground.OwnedByTeam}
	var scheduleID *uuid.UUID
	if ws != nil {
		cell.Slot = ws.Schedule.At(week.DayOf(date, loc), in.TimeSlot)
		scheduleID = &ws.ID
	}
	if cell.Slot.Mode == models.SlotGuestMatch {
		cell.LiveGuestMatch, err = liveGuestMatch(ctx, tx, cell.Slot.GuestMatchRequestID)
		if err != nil {
			return nil, err
		}
	}

	rows, err := tx.Query(ctx, `
		SELECT `+bookingColumns+` FROM ground_bookings
		WHERE ground_id = $1 AND booked_date = $2 AND time_slot = $3 AND status <> 'rejected'
		ORDER BY seat
		FOR UPDATE
	`, in.GroundID, date, in.TimeSlot.String())
	if err != nil {
		return nil, fmt.Errorf("failed to load cell bookings: %w", err)
	}
	cell.Existing, err = collectBookings(rows, loc)
	if err != nil {
		return nil, fmt.Errorf("failed to load cell bookings: %w", err)
	}

	adm, err := checkAdmission(cell, in.TeamID, in.OpponentTeam)
	if err != nil {
		return nil, err
	}

	booking, err := scanBooking(tx.QueryRow(ctx, `
		INSERT INTO ground_bookings
			(ground_id, booked_by_team, booked_date, time_slot, opponent_team, availability_mode, weekly_availability_id, seat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+bookingColumns,
		in.GroundID, in.TeamID, date, in.TimeSlot.String(), adm.Opponent, adm.Mode, scheduleID, adm.Seat,
	), loc)
	if database.IsUniqueViolation(err) {
		return nil, conflict("slot was booked by another request")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, conflict("slot was booked by another request")
		}
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	notice := bookingRequestedNotice(booking)
	if adm.Mode == models.AvailabilityHostOnly && adm.Opponent != nil {
		notifyTeams(s.notifier, notice, ground.OwnedByTeam, *adm.Opponent)
	} else {
		notifyTeams(s.notifier, notice, ground.OwnedByTeam)
	}
	return booking, nil
}

func (s *BookingService) GetByID(ctx context.Context, bookingID uuid.UUID) (*models.GroundBooking, error) {
	b, err := scanBooking(s.db.Pool.QueryRow(ctx, `
		SELECT `+bookingColumns+` FROM ground_bookings WHERE id = $1
	`, bookingID), s.schedules.Location())
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound("booking not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	return b, nil
}

// Respond records the owner's decision on a single pending booking.
func (s *BookingService) Respond(ctx context.Context, bookingID uuid.UUID, decision models.BookingStatus, respondedBy uuid.UUID) (*models.GroundBooking, error) {
	if !decision.IsDecision() {
		return nil, badRequest("decision must be booked or rejected")
	}

	current, err := s.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	ok, err := s.grounds.CanManage(ctx, current.GroundID, respondedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to check ground ownership: %w", err)
	}
	if !ok {
		return nil, forbidden("only the ground owner's captain can respond")
	}

	updated, err := scanBooking(s.db.Pool.QueryRow(ctx, `
		UPDATE ground_bookings
		SET status = $1, responded_by = $2, responded_at = NOW(), updated_at = NOW()
		WHERE id = $3 AND status = 'pending'
		RETURNING `+bookingColumns,
		decision, respondedBy, bookingID), s.schedules.Location())
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, conflict("booking is already %s", current.Status)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}

	s.metrics.IncBookingResponse(string(decision))
	notifyTeams(s.notifier,
		bookingDecisionNotice(updated.ID, updated.BookedDate.Format(dateLayout), updated.TimeSlot, decision),
		updated.BookedByTeam)
	return updated, nil
}

// GroupPendingForOwner lists the ground's pending bookings grouped for review.
func (s *BookingService) GroupPendingForOwner(ctx context.Context, groundID, userID uuid.UUID) ([]models.BookingGroup, error) {
	if _, err := s.grounds.authorizeOwner(ctx, groundID, userID); err != nil {
		return nil, err
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+bookingColumns+` FROM ground_bookings
		WHERE ground_id = $1 AND status = 'pending'
		ORDER BY booked_date, time_slot, created_at
	`, groundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending bookings: %w", err)
	}
	pending, err := collectBookings(rows, s.schedules.Location())
	if err != nil {
		return nil, fmt.Errorf("failed to list pending bookings: %w", err)
	}
	return GroupPending(pending), nil
}

// RespondToGroup applies one decision to a batch of bookings. Every booking
// must be pending and on groundID, otherwise nothing changes.
func (s *BookingService) RespondToGroup(ctx context.Context, groundID uuid.UUID, bookingIDs []uuid.UUID, decision models.BookingStatus, respondedBy uuid.UUID) ([]models.BookingResult, error) {
	if !decision.IsDecision() {
		return nil, badRequest("decision must be booked or rejected")
	}
	if len(bookingIDs) == 0 {
		return nil, badRequest("no bookings given")
	}

	ids := make([]string, 0, len(bookingIDs))
	seen := make(map[uuid.UUID]bool, len(bookingIDs))
	for _, id := range bookingIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id.String())
	}

	if _, err := s.grounds.authorizeOwner(ctx, groundID, respondedBy); err != nil {
		return nil, err
	}

	loc := s.schedules.Location()

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, `
		SELECT `+bookingColumns+` FROM ground_bookings
		WHERE id = ANY($1::uuid[])
		ORDER BY created_at
		FOR UPDATE
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to lock bookings: %w", err)
	}
	locked, err := collectBookings(rows, loc)
	if err != nil {
		return nil, fmt.Errorf("failed to lock bookings: %w", err)
	}

	if len(locked) != len(ids) {
		return nil, badRequest("some bookings do not exist")
	}
	for _, b := range locked {
		if b.GroundID != groundID {
			return nil, badRequest("booking %s belongs to another ground", b.ID)
		}
		if b.Status != models.BookingPending {
			return nil, badRequest("booking %s is already %s", b.ID, b.Status)
		}
	}

	tag, err := tx.Exec(ctx, `
		UPDATE ground_bookings
		SET status = $1, responded_by = $2, responded_at = NOW(), updated_at = NOW()
		WHERE id = ANY($3::uuid[]) AND status = 'pending'
	`, decision, respondedBy, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to update bookings: %w", err)
	}
	if tag.RowsAffected() != int64(len(ids)) {
		return nil, conflict("bookings changed while responding")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	results := make([]models.BookingResult, 0, len(locked))
	for _, b := range locked {
		results = append(results, models.BookingResult{BookingID: b.ID, TeamID: b.BookedByTeam, Status: decision})
		s.metrics.IncBookingResponse(string(decision))
	}

	notified := map[uuid.UUID]bool{}
	for _, b := range locked {
		if notified[b.BookedByTeam] {
			continue
		}
		notified[b.BookedByTeam] = true
		s.notifier.NotifyTeam(b.BookedByTeam,
			bookingDecisionNotice(b.ID, b.BookedDate.Format(dateLayout), b.TimeSlot, decision))
	}
	return results, nil
}

// ListForTeam returns bookings the team made or was named in, newest first.
func (s *BookingService) ListForTeam(ctx context.Context, teamID, userID uuid.UUID) ([]models.GroundBooking, error) {
	member, err := s.teams.IsMember(ctx, teamID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !member {
		return nil, forbidden("not a member of this team")
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+bookingColumns+` FROM ground_bookings
		WHERE booked_by_team = $1 OR opponent_team = $1
		ORDER BY booked_date DESC, created_at DESC
	`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	bookings, err := collectBookings(rows, s.schedules.Location())
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}
