package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dimitrije/wicket-api/internal/database"
	"github.com/dimitrije/wicket-api/internal/models"
	"github.com/dimitrije/wicket-api/internal/week"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const scheduleColumns = `id, ground_id, owner_team_id, week_start_date, week_end_date, schedule, version, created_at, updated_at`

// SlotChange is the result of a slot mode write.
type SlotChange struct {
	Schedule           *models.WeeklySchedule `json:"schedule"`
	Day                models.Day             `json:"day"`
	TimeSlot           models.TimeSlot        `json:"time_slot"`
	Slot               models.Slot            `json:"slot"`
	CancelledRequestID *uuid.UUID             `json:"cancelled_request_id,omitempty"`
}

type ScheduleService struct {
	db       *database.DB
	loc      *time.Location
	notifier Notifier
}

func NewScheduleService(db *database.DB, loc *time.Location, notifier Notifier) *ScheduleService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &ScheduleService{db: db, loc: loc, notifier: notifier}
}

// Location is the reference timezone week keys are computed in.
func (s *ScheduleService) Location() *time.Location {
	return s.loc
}

func (s *ScheduleService) scan(row pgx.Row) (*models.WeeklySchedule, error) {
	var ws models.WeeklySchedule
	var raw []byte
	if err := row.Scan(
		&ws.ID, &ws.GroundID, &ws.OwnerTeamID, &ws.WeekStartDate, &ws.WeekEndDate,
		&raw, &ws.Version, &ws.CreatedAt, &ws.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(raw, &ws.Schedule); err != nil {
		return nil, fmt.Errorf("failed to decode schedule %s: %w", ws.ID, err)
	}
	ws.WeekStartDate = ws.WeekStartDate.In(s.loc)
	ws.WeekEndDate = ws.WeekEndDate.In(s.loc)
	return &ws, nil
}

func (s *ScheduleService) find(ctx context.Context, q database.Querier, groundID uuid.UUID, start time.Time) (*models.WeeklySchedule, error) {
	return s.scan(q.QueryRow(ctx, `
		SELECT `+scheduleColumns+`
		FROM weekly_schedules WHERE ground_id = $1 AND week_start_date = $2
	`, groundID, start))
}

func (s *ScheduleService) lock(ctx context.Context, tx pgx.Tx, groundID uuid.UUID, start time.Time) (*models.WeeklySchedule, error) {
	return s.scan(tx.QueryRow(ctx, `
		SELECT `+scheduleColumns+`
		FROM weekly_schedules WHERE ground_id = $1 AND week_start_date = $2
		FOR UPDATE
	`, groundID, start))
}

// insert returns pgx.ErrNoRows when the week already exists.
func (s *ScheduleService) insert(ctx context.Context, q database.Querier, groundID, ownerTeamID uuid.UUID, start time.Time, grid models.Grid) (*models.WeeklySchedule, error) {
	raw, err := json.Marshal(grid)
	if err != nil {
		return nil, fmt.Errorf("failed to encode schedule: %w", err)
	}
	return s.scan(q.QueryRow(ctx, `
		INSERT INTO weekly_schedules (ground_id, owner_team_id, week_start_date, week_end_date, schedule)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (ground_id, week_start_date) DO NOTHING
		RETURNING `+scheduleColumns,
		groundID, ownerTeamID, start, week.End(start, s.loc), raw))
}

func (s *ScheduleService) saveGrid(ctx context.Context, tx pgx.Tx, ws *models.WeeklySchedule) (*models.WeeklySchedule, error) {
	raw, err := json.Marshal(ws.Schedule)
	if err != nil {
		return nil, fmt.Errorf("failed to encode schedule: %w", err)
	}
	updated, err := s.scan(tx.QueryRow(ctx, `
		UPDATE weekly_schedules SET schedule = $1, version = version + 1, updated_at = NOW()
		WHERE id = $2 AND version = $3
		RETURNING `+scheduleColumns,
		raw, ws.ID, ws.Version))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, conflict("schedule was modified concurrently")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to save schedule: %w", err)
	}
	return updated, nil
}

// GetOrCreate returns the schedule for the week containing ref, creating an
// all-unavailable week when none exists. A lost create race re-reads the
// winner's row.
func (s *ScheduleService) GetOrCreate(ctx context.Context, groundID, ownerTeamID uuid.UUID, ref time.Time) (*models.WeeklySchedule, error) {
	start := week.Start(ref, s.loc)

	ws, err := s.find(ctx, s.db.Pool, groundID, start)
	if err == nil {
		return ws, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}

	ws, err = s.insert(ctx, s.db.Pool, groundID, ownerTeamID, start, models.NewGrid())
	if err == nil {
		return ws, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}

	ws, err = s.find(ctx, s.db.Pool, groundID, start)
	if err != nil {
		return nil, fmt.Errorf("failed to reload schedule: %w", err)
	}
	return ws, nil
}

func (s *ScheduleService) Get(ctx context.Context, groundID uuid.UUID, weekOf time.Time) (*models.WeeklySchedule, error) {
	start := week.Start(weekOf, s.loc)
	ws, err := s.find(ctx, s.db.Pool, groundID, start)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound("no schedule for the week of %s", start.Format(time.DateOnly))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	return ws, nil
}

// FindForDate returns the schedule covering date, or nil when there is none.
func (s *ScheduleService) FindForDate(ctx context.Context, groundID uuid.UUID, date time.Time) (*models.WeeklySchedule, error) {
	ws, err := s.find(ctx, s.db.Pool, groundID, week.Start(date, s.loc))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	return ws, nil
}

// lockForDate is FindForDate inside tx with the row locked.
func (s *ScheduleService) lockForDate(ctx context.Context, tx pgx.Tx, groundID uuid.UUID, date time.Time) (*models.WeeklySchedule, error) {
	ws, err := s.lock(ctx, tx, groundID, week.Start(date, s.loc))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock schedule: %w", err)
	}
	return ws, nil
}

// SetSlotMode changes one slot's mode. Leaving guest_match cancels the linked
// request when it is still pending and always drops the link; staying in
// guest_match keeps it.
func (s *ScheduleService) SetSlotMode(ctx context.Context, groundID uuid.UUID, weekOf time.Time, day models.Day, ts models.TimeSlot, mode models.SlotMode) (*SlotChange, error) {
	if !day.Valid() || !ts.Valid() {
		return nil, badRequest("invalid day or time slot")
	}
	if !mode.Valid() {
		return nil, badRequest("invalid slot mode %q", mode)
	}
	start := week.Start(weekOf, s.loc)

	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ws, err := s.lock(ctx, tx, groundID, start)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound("no schedule for the week of %s", start.Format(time.DateOnly))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock schedule: %w", err)
	}

	current := ws.Schedule.At(day, ts)
	next := models.Slot{Mode: mode}
	var cancelled *models.GuestMatchRequest

	if ref := current.GuestMatchRequestID; ref != nil {
		if mode == models.SlotGuestMatch {
			next.GuestMatchRequestID = ref
		} else {
			cancelled, err = cancelPendingGuestMatch(ctx, tx, *ref, s.loc)
			if err != nil {
				return nil, err
			}
		}
	}

	ws.Schedule.Set(day, ts, next)
	updated, err := s.saveGrid(ctx, tx, ws)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	change := &SlotChange{Schedule: updated, Day: day, TimeSlot: ts, Slot: updated.Schedule.At(day, ts)}
	if cancelled != nil {
		change.CancelledRequestID = &cancelled.ID
		notifyTeams(s.notifier, guestMatchNotice(cancelled, "cancelled"), cancelled.TeamA, cancelled.TeamB)
	}
	return change, nil
}

// CloneForward copies the source week's modes into a new target week with
// every guest match link cleared. An existing target week is a Conflict and
// is left untouched.
func (s *ScheduleService) CloneForward(ctx context.Context, groundID, ownerTeamID uuid.UUID, sourceWeek, targetWeek time.Time) (*models.WeeklySchedule, error) {
	src := week.Start(sourceWeek, s.loc)
	dst := week.Start(targetWeek, s.loc)
	if src.Equal(dst) {
		return nil, badRequest("source and target week are the same")
	}

	grid := models.NewGrid()
	source, err := s.find(ctx, s.db.Pool, groundID, src)
	switch {
	case err == nil:
		grid = source.Schedule.WithoutLinks()
	case errors.Is(err, pgx.ErrNoRows):
	default:
		return nil, fmt.Errorf("failed to load source schedule: %w", err)
	}

	created, err := s.insert(ctx, s.db.Pool, groundID, ownerTeamID, dst, grid)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, conflict("schedule for the week of %s already exists", dst.Format(time.DateOnly))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}
	return created, nil
}
