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

const guestMatchColumns = `id, ground_id, owner_team_id, requested_date, time_slot, team_a, team_b, requested_by,
	weekly_availability_id, match_fee, status, responded_by, responded_at, created_at, updated_at`

type CreateGuestMatchInput struct {
	GroundID    uuid.UUID
	Date        time.Time
	TimeSlot    models.TimeSlot
	TeamA       uuid.UUID
	TeamB       uuid.UUID
	RequestedBy uuid.UUID
}

type GuestMatchService struct {
	db        *database.DB
	schedules *ScheduleService
	grounds   *GroundService
	teams     *TeamService
	notifier  Notifier
	metrics   metrics.Metrics
}

func NewGuestMatchService(db *database.DB, schedules *ScheduleService, grounds *GroundService, teams *TeamService, notifier Notifier, m metrics.Metrics) *GuestMatchService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if m == nil {
		m = metrics.Nop{}
	}
	return &GuestMatchService{db: db, schedules: schedules, grounds: grounds, teams: teams, notifier: notifier, metrics: m}
}

func scanGuestMatch(row pgx.Row, loc *time.Location) (*models.GuestMatchRequest, error) {
	var r models.GuestMatchRequest
	var slot string
	if err := row.Scan(
		&r.ID, &r.GroundID, &r.OwnerTeamID, &r.RequestedDate, &slot, &r.TeamA, &r.TeamB, &r.RequestedBy,
		&r.WeeklyAvailabilityID, &r.MatchFee, &r.Status, &r.RespondedBy, &r.RespondedAt, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	ts, err := models.ParseTimeSlot(slot)
	if err != nil {
		return nil, fmt.Errorf("guest match request %s: %w", r.ID, err)
	}
	r.TimeSlot = ts
	r.RequestedDate = r.RequestedDate.In(loc)
	return &r, nil
}

// liveGuestMatch reports whether ref points at a pending or approved request.
// A ref to a missing or finished request counts as a free slot.
func liveGuestMatch(ctx context.Context, q database.Querier, ref *uuid.UUID) (bool, error) {
	if ref == nil {
		return false, nil
	}
	var status models.GuestMatchStatus
	err := q.QueryRow(ctx, `SELECT status FROM guest_match_requests WHERE id = $1`, *ref).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load guest match request: %w", err)
	}
	return status.Live(), nil
}

// cancelPendingGuestMatch cancels the request when it is still pending and
// returns it, or nil when there was nothing to cancel.
func cancelPendingGuestMatch(ctx context.Context, q database.Querier, id uuid.UUID, loc *time.Location) (*models.GuestMatchRequest, error) {
	r, err := scanGuestMatch(q.QueryRow(ctx, `
		UPDATE guest_match_requests SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
		RETURNING `+guestMatchColumns,
		id), loc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to cancel guest match request: %w", err)
	}
	return r, nil
}

func (s *GuestMatchService) Create(ctx context.Context, in CreateGuestMatchInput) (*models.GuestMatchRequest, error) {
	if !in.TimeSlot.Valid() {
		return nil, badRequest("invalid time slot")
	}
	if in.TeamA == in.TeamB {
		return nil, badRequest("a team cannot play itself")
	}

	ground, err := s.grounds.GetByID(ctx, in.GroundID)
	if err != nil {
		return nil, err
	}

	for _, teamID := range []uuid.UUID{in.TeamA, in.TeamB} {
		ok, err := s.teams.Exists(ctx, teamID)
		if err != nil {
			return nil, fmt.Errorf("failed to load team: %w", err)
		}
		if !ok {
			return nil, badRequest("team %s does not exist", teamID)
		}
	}

	member, err := s.teams.IsMember(ctx, in.TeamA, in.RequestedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if !member {
		return nil, forbidden("only members of the requesting team can ask for a guest match")
	}

	loc := s.schedules.Location()
	date := week.Date(in.Date, loc)
	day := week.DayOf(date, loc)

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ws, err := s.schedules.lockForDate(ctx, tx, in.GroundID, date)
	if err != nil {
		return nil, err
	}
	if ws == nil {
		return nil, badRequest("no schedule covers %s", date.Format(time.DateOnly))
	}

	slot := ws.Schedule.At(day, in.TimeSlot)
	if slot.Mode != models.SlotGuestMatch {
		return nil, badRequest("the %s %s slot is not open for guest matches", day, in.TimeSlot)
	}

	live, err := liveGuestMatch(ctx, tx, slot.GuestMatchRequestID)
	if err != nil {
		return nil, err
	}
	if live {
		return nil, conflict("slot already has a guest match request")
	}

	var held int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM ground_bookings
		WHERE ground_id = $1 AND booked_date = $2 AND time_slot = $3 AND status <> 'rejected'
	`, in.GroundID, date, in.TimeSlot.String()).Scan(&held)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}
	if held > 0 {
		return nil, conflict("slot already has bookings")
	}

	req, err := scanGuestMatch(tx.QueryRow(ctx, `
		INSERT INTO guest_match_requests
			(ground_id, owner_team_id, requested_date, time_slot, team_a, team_b, requested_by, weekly_availability_id, match_fee)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+guestMatchColumns,
		in.GroundID, ground.OwnedByTeam, date, in.TimeSlot.String(), in.TeamA, in.TeamB, in.RequestedBy, ws.ID, ground.MatchFee,
	), loc)
	if database.IsUniqueViolation(err) {
		return nil, conflict("slot already has a guest match request")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create guest match request: %w", err)
	}

	ws.Schedule.Set(day, in.TimeSlot, models.Slot{Mode: models.SlotGuestMatch, GuestMatchRequestID: &req.ID})
	if _, err := s.schedules.saveGrid(ctx, tx, ws); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.metrics.IncGuestMatchEvent("created")
	notifyTeams(s.notifier, guestMatchNotice(req, "requested"), ground.OwnedByTeam, in.TeamB)
	return req, nil
}

func (s *GuestMatchService) Get(ctx context.Context, requestID uuid.UUID) (*models.GuestMatchRequest, error) {
	r, err := scanGuestMatch(s.db.Pool.QueryRow(ctx, `
		SELECT `+guestMatchColumns+` FROM guest_match_requests WHERE id = $1
	`, requestID), s.schedules.Location())
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound("guest match request not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load guest match request: %w", err)
	}
	return r, nil
}

// Respond approves or rejects a pending request. Rejection frees the slot if
// it still links to this request; approval keeps the link.
func (s *GuestMatchService) Respond(ctx context.Context, requestID uuid.UUID, decision models.GuestMatchStatus, respondedBy uuid.UUID) (*models.GuestMatchRequest, error) {
	if decision != models.GuestMatchApproved && decision != models.GuestMatchRejected {
		return nil, badRequest("decision must be approved or rejected")
	}

	req, err := s.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}

	ok, err := s.grounds.CanManage(ctx, req.GroundID, respondedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to check ground ownership: %w", err)
	}
	if !ok {
		return nil, forbidden("only the ground owner's captain can respond")
	}
	if req.Status != models.GuestMatchPending {
		return nil, conflict("request is already %s", req.Status)
	}

	loc := s.schedules.Location()

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// Schedule first, request second: the same order SetSlotMode locks in.
	ws, err := s.schedules.lockForDate(ctx, tx, req.GroundID, req.RequestedDate)
	if err != nil {
		return nil, err
	}

	updated, err := scanGuestMatch(tx.QueryRow(ctx, `
		UPDATE guest_match_requests
		SET status = $1, responded_by = $2, responded_at = NOW(), updated_at = NOW()
		WHERE id = $3 AND status = 'pending'
		RETURNING `+guestMatchColumns,
		decision, respondedBy, requestID), loc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, conflict("request is no longer pending")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update guest match request: %w", err)
	}

	if decision == models.GuestMatchRejected && ws != nil {
		day := week.DayOf(updated.RequestedDate, loc)
		slot := ws.Schedule.At(day, updated.TimeSlot)
		if slot.GuestMatchRequestID != nil && *slot.GuestMatchRequestID == updated.ID {
			ws.Schedule.Set(day, updated.TimeSlot, models.Slot{Mode: slot.Mode})
			if _, err := s.schedules.saveGrid(ctx, tx, ws); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.metrics.IncGuestMatchEvent(string(decision))
	notifyTeams(s.notifier, guestMatchNotice(updated, string(decision)), updated.TeamA, updated.TeamB)
	return updated, nil
}

func (s *GuestMatchService) ListForGround(ctx context.Context, groundID, userID uuid.UUID) ([]models.GuestMatchRequest, error) {
	if _, err := s.grounds.authorizeOwner(ctx, groundID, userID); err != nil {
		return nil, err
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+guestMatchColumns+` FROM guest_match_requests
		WHERE ground_id = $1
		ORDER BY requested_date DESC, created_at DESC
	`, groundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guest match requests: %w", err)
	}
	defer rows.Close()

	var out []models.GuestMatchRequest
	loc := s.schedules.Location()
	for rows.Next() {
		r, err := scanGuestMatch(rows, loc)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}
