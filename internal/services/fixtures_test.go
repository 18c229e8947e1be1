package services

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/dimitrije/wicket-api/internal/database"
	"github.com/dimitrije/wicket-api/internal/metrics"
	"github.com/dimitrije/wicket-api/internal/models"
	"github.com/dimitrije/wicket-api/internal/notify"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

var ist = time.FixedZone("IST", 19800)

type sentNotice struct {
	Team   uuid.UUID
	Notice notify.Notice
}

type noticeRecorder struct {
	mu   sync.Mutex
	sent []sentNotice
}

func (r *noticeRecorder) NotifyTeam(teamID uuid.UUID, n notify.Notice) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, sentNotice{Team: teamID, Notice: n})
	return true
}

func (r *noticeRecorder) teams() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]uuid.UUID, 0, len(r.sent))
	for _, s := range r.sent {
		out = append(out, s.Team)
	}
	return out
}

type coreFixture struct {
	mock      pgxmock.PgxPoolIface
	notices   *noticeRecorder
	metrics   *metrics.Mock
	schedules *ScheduleService
	grounds   *GroundService
	teams     *TeamService
	guests    *GuestMatchService
	bookings  *BookingService
}

func setupCore(t *testing.T) *coreFixture {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	db := &database.DB{Pool: mock}
	rec := &noticeRecorder{}
	m := metrics.NewMock()

	schedules := NewScheduleService(db, ist, rec)
	grounds := NewGroundService(db)
	teams := NewTeamService(db)
	bookings := NewBookingService(db, schedules, grounds, teams, rec, m)
	bookings.now = func() time.Time { return time.Date(2024, 6, 1, 9, 0, 0, 0, ist) }

	return &coreFixture{
		mock:      mock,
		notices:   rec,
		metrics:   m,
		schedules: schedules,
		grounds:   grounds,
		teams:     teams,
		guests:    NewGuestMatchService(db, schedules, grounds, teams, rec, m),
		bookings:  bookings,
	}
}

// sameInstant matches a time.Time argument by instant, ignoring location.
type sameInstant struct{ want time.Time }

func (m sameInstant) Match(v any) bool {
	t, ok := v.(time.Time)
	return ok && t.Equal(m.want)
}

// gridArg matches an encoded grid argument against a predicate.
type gridArg struct{ check func(models.Grid) bool }

func (m gridArg) Match(v any) bool {
	raw, ok := v.([]byte)
	if !ok {
		return false
	}
	var g models.Grid
	if err := json.Unmarshal(raw, &g); err != nil {
		return false
	}
	return m.check(g)
}

var scheduleCols = []string{"id", "ground_id", "owner_team_id", "week_start_date", "week_end_date", "schedule", "version", "created_at", "updated_at"}

func scheduleRows(t *testing.T, ws *models.WeeklySchedule) *pgxmock.Rows {
	t.Helper()
	raw, err := json.Marshal(ws.Schedule)
	require.NoError(t, err)
	now := time.Now()
	return pgxmock.NewRows(scheduleCols).AddRow(
		ws.ID, ws.GroundID, ws.OwnerTeamID, ws.WeekStartDate, ws.WeekEndDate, raw, ws.Version, now, now,
	)
}

func newSchedule(groundID, ownerTeam uuid.UUID, start time.Time) *models.WeeklySchedule {
	return &models.WeeklySchedule{
		ID:            uuid.New(),
		GroundID:      groundID,
		OwnerTeamID:   ownerTeam,
		WeekStartDate: start,
		WeekEndDate:   start.AddDate(0, 0, 7).Add(-time.Millisecond),
		Schedule:      models.NewGrid(),
		Version:       1,
	}
}

var groundCols = []string{"id", "name", "location", "owned_by_team", "match_fee", "created_by", "created_at", "updated_at"}

func groundRows(g *models.Ground) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(groundCols).AddRow(g.ID, g.Name, g.Location, g.OwnedByTeam, g.MatchFee, g.CreatedBy, now, now)
}

func newGround(ownerTeam uuid.UUID) *models.Ground {
	return &models.Ground{
		ID:          uuid.New(),
		Name:        "Shivaji Park",
		Location:    "Dadar, Mumbai",
		OwnedByTeam: ownerTeam,
		MatchFee:    2500,
		CreatedBy:   uuid.New(),
	}
}

var guestMatchCols = []string{
	"id", "ground_id", "owner_team_id", "requested_date", "time_slot", "team_a", "team_b", "requested_by",
	"weekly_availability_id", "match_fee", "status", "responded_by", "responded_at", "created_at", "updated_at",
}

func guestMatchRows(r *models.GuestMatchRequest) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows(guestMatchCols).AddRow(
		r.ID, r.GroundID, r.OwnerTeamID, r.RequestedDate, r.TimeSlot.String(), r.TeamA, r.TeamB, r.RequestedBy,
		r.WeeklyAvailabilityID, r.MatchFee, string(r.Status), r.RespondedBy, r.RespondedAt, now, now,
	)
}

var bookingCols = []string{
	"id", "ground_id", "booked_by_team", "booked_date", "time_slot", "opponent_team", "availability_mode",
	"weekly_availability_id", "seat", "status", "responded_by", "responded_at", "created_at", "updated_at",
}

func addBookingRow(rows *pgxmock.Rows, b models.GroundBooking) *pgxmock.Rows {
	now := time.Now()
	return rows.AddRow(
		b.ID, b.GroundID, b.BookedByTeam, b.BookedDate, b.TimeSlot.String(), b.OpponentTeam, string(b.AvailabilityMode),
		b.WeeklyAvailabilityID, b.Seat, string(b.Status), b.RespondedBy, b.RespondedAt, now, now,
	)
}

func bookingRows(bs ...models.GroundBooking) *pgxmock.Rows {
	rows := pgxmock.NewRows(bookingCols)
	for _, b := range bs {
		rows = addBookingRow(rows, b)
	}
	return rows
}

func expectGround(mock pgxmock.PgxPoolIface, g *models.Ground) {
	mock.ExpectQuery(`SELECT .* FROM grounds WHERE id = \$1`).
		WithArgs(g.ID).
		WillReturnRows(groundRows(g))
}

func expectTeamExists(mock pgxmock.PgxPoolIface, teamID uuid.UUID, exists bool) {
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM teams WHERE id = \$1\)`).
		WithArgs(teamID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(exists))
}

func expectMember(mock pgxmock.PgxPoolIface, teamID, userID uuid.UUID, member bool) {
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM team_members WHERE team_id = \$1 AND user_id = \$2\)`).
		WithArgs(teamID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(member))
}

func expectCanManage(mock pgxmock.PgxPoolIface, groundID, userID uuid.UUID, ok bool) {
	mock.ExpectQuery(`JOIN teams t ON t.id = g.owned_by_team`).
		WithArgs(groundID, userID).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(ok))
}

func expectLockSchedule(t *testing.T, mock pgxmock.PgxPoolIface, groundID uuid.UUID, ws *models.WeeklySchedule) {
	t.Helper()
	q := mock.ExpectQuery(`FROM weekly_schedules WHERE ground_id = \$1 AND week_start_date = \$2 FOR UPDATE`).
		WithArgs(groundID, pgxmock.AnyArg())
	if ws == nil {
		q.WillReturnRows(pgxmock.NewRows(scheduleCols))
		return
	}
	q.WillReturnRows(scheduleRows(t, ws))
}

func gridsEqual(a, b models.Grid) bool {
	for d := range a {
		for s := range a[d] {
			x, y := a[d][s], b[d][s]
			if x.Mode != y.Mode {
				return false
			}
			if (x.GuestMatchRequestID == nil) != (y.GuestMatchRequestID == nil) {
				return false
			}
			if x.GuestMatchRequestID != nil && *x.GuestMatchRequestID != *y.GuestMatchRequestID {
				return false
			}
		}
	}
	return true
}

// expectSaveGrid expects ws to be saved holding exactly after.
func expectSaveGrid(t *testing.T, mock pgxmock.PgxPoolIface, ws *models.WeeklySchedule, after models.Grid) {
	t.Helper()
	saved := *ws
	saved.Schedule = after
	saved.Version = ws.Version + 1
	mock.ExpectQuery(`UPDATE weekly_schedules SET schedule = \$1, version = version \+ 1`).
		WithArgs(gridArg{func(g models.Grid) bool { return gridsEqual(g, after) }}, ws.ID, ws.Version).
		WillReturnRows(scheduleRows(t, &saved))
}
