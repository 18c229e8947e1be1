package services

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/wicket-api/internal/metrics"
	"github.com/dimitrije/wicket-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bookingScenario struct {
	ground *models.Ground
	ws     *models.WeeklySchedule
	date   time.Time
}

func newBookingScenario(mode models.SlotMode) bookingScenario {
	ground := newGround(uuid.New())
	ws := newSchedule(ground.ID, ground.OwnedByTeam, time.Date(2024, 6, 3, 0, 0, 0, 0, ist))
	ws.Schedule.Set(models.Wednesday, models.Afternoon, models.Slot{Mode: mode})
	return bookingScenario{ground: ground, ws: ws, date: time.Date(2024, 6, 5, 0, 0, 0, 0, ist)}
}

func (sc bookingScenario) input(team uuid.UUID, opponent *uuid.UUID) AdmitInput {
	return AdmitInput{
		GroundID:     sc.ground.ID,
		TeamID:       team,
		OpponentTeam: opponent,
		Date:         sc.date.Add(14 * time.Hour),
		TimeSlot:     models.Afternoon,
		RequestedBy:  uuid.New(),
	}
}

func (sc bookingScenario) booking(team uuid.UUID, mode models.AvailabilityMode, seat int, opponent *uuid.UUID) models.GroundBooking {
	return models.GroundBooking{
		ID:                   uuid.New(),
		GroundID:             sc.ground.ID,
		BookedByTeam:         team,
		BookedDate:           sc.date,
		TimeSlot:             models.Afternoon,
		OpponentTeam:         opponent,
		AvailabilityMode:     mode,
		WeeklyAvailabilityID: &sc.ws.ID,
		Seat:                 seat,
		Status:               models.BookingPending,
	}
}

func (sc bookingScenario) expectAdmitPreamble(t *testing.T, mock pgxmock.PgxPoolIface, in AdmitInput, existing ...models.GroundBooking) {
	t.Helper()
	expectGround(mock, sc.ground)
	expectTeamExists(mock, in.TeamID, true)
	if in.OpponentTeam != nil {
		expectTeamExists(mock, *in.OpponentTeam, true)
	}
	expectMember(mock, in.TeamID, in.RequestedBy, true)
	mock.ExpectBegin()
	expectLockSchedule(t, mock, sc.ground.ID, sc.ws)
	mock.ExpectQuery(`SELECT .* FROM ground_bookings WHERE ground_id = \$1 AND booked_date = \$2 AND time_slot = \$3`).
		WithArgs(sc.ground.ID, sameInstant{sc.date}, "afternoon").
		WillReturnRows(bookingRows(existing...))
}

func TestBookingService_Admit_HostOnlyFirstSeat(t *testing.T) {
	f := setupCore(t)
	sc := newBookingScenario(models.SlotGuestMatch)
	x := uuid.New()
	in := sc.input(x, nil)
	created := sc.booking(x, models.AvailabilityHostOnly, 1, nil)

	sc.expectAdmitPreamble(t, f.mock, in)
	f.mock.ExpectQuery(`INSERT INTO ground_bookings`).
		WithArgs(sc.ground.ID, x, sameInstant{sc.date}, "afternoon", pgxmock.AnyArg(),
			models.AvailabilityHostOnly, pgxmock.AnyArg(), 1).
		WillReturnRows(bookingRows(created))
	f.mock.ExpectCommit()

	got, err := f.bookings.Admit(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, models.AvailabilityHostOnly, got.AvailabilityMode)
	assert.Equal(t, 1, got.Seat)
	assert.True(t, got.BookedDate.Equal(sc.date))
	assert.Equal(t, 1, f.metrics.Admissions(metrics.ResultAccepted))
	assert.Equal(t, []uuid.UUID{sc.ground.OwnedByTeam}, f.notices.teams())
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestBookingService_Admit_HostOnlySecondSeat(t *testing.T) {
	f := setupCore(t)
	sc := newBookingScenario(models.SlotGuestMatch)
	x, y := uuid.New(), uuid.New()
	in := sc.input(y, &x)
	first := sc.booking(x, models.AvailabilityHostOnly, 1, nil)
	created := sc.booking(y, models.AvailabilityHostOnly, 2, &x)

	sc.expectAdmitPreamble(t, f.mock, in, first)
	f.mock.ExpectQuery(`INSERT INTO ground_bookings`).
		WithArgs(sc.ground.ID, y, pgxmock.AnyArg(), "afternoon", &x,
			models.AvailabilityHostOnly, pgxmock.AnyArg(), 2).
		WillReturnRows(bookingRows(created))
	f.mock.ExpectCommit()

	got, err := f.bookings.Admit(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, 2, got.Seat)
	assert.ElementsMatch(t, []uuid.UUID{sc.ground.OwnedByTeam, x}, f.notices.teams())
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestBookingService_Admit_ThirdTeamRejected(t *testing.T) {
	f := setupCore(t)
	sc := newBookingScenario(models.SlotGuestMatch)
	x, y, z := uuid.New(), uuid.New(), uuid.New()
	in := sc.input(z, nil)

	sc.expectAdmitPreamble(t, f.mock, in,
		sc.booking(x, models.AvailabilityHostOnly, 1, nil),
		sc.booking(y, models.AvailabilityHostOnly, 2, nil),
	)
	f.mock.ExpectRollback()

	_, err := f.bookings.Admit(context.Background(), in)

	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, "slot already has 2 teams", Message(err))
	assert.Equal(t, 1, f.metrics.Admissions(metrics.ResultRejected))
	assert.Empty(t, f.notices.teams())
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestBookingService_Admit_OwnerPlayChallenge(t *testing.T) {
	f := setupCore(t)
	sc := newBookingScenario(models.SlotOwnerPlay)
	x := uuid.New()
	in := sc.input(x, nil)
	owner := sc.ground.OwnedByTeam
	created := sc.booking(x, models.AvailabilityOwnerPlay, 1, &owner)

	sc.expectAdmitPreamble(t, f.mock, in)
	f.mock.ExpectQuery(`INSERT INTO ground_bookings`).
		WithArgs(sc.ground.ID, x, pgxmock.AnyArg(), "afternoon", &owner,
			models.AvailabilityOwnerPlay, pgxmock.AnyArg(), 1).
		WillReturnRows(bookingRows(created))
	f.mock.ExpectCommit()

	got, err := f.bookings.Admit(context.Background(), in)

	require.NoError(t, err)
	require.NotNil(t, got.OpponentTeam)
	assert.Equal(t, owner, *got.OpponentTeam)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestBookingService_Admit_LiveGuestMatchBlocks(t *testing.T) {
	f := setupCore(t)
	sc := newBookingScenario(models.SlotGuestMatch)
	ref := uuid.New()
	sc.ws.Schedule.Set(models.Wednesday, models.Afternoon, models.Slot{Mode: models.SlotGuestMatch, GuestMatchRequestID: &ref})
	in := sc.input(uuid.New(), nil)

	expectGround(f.mock, sc.ground)
	expectTeamExists(f.mock, in.TeamID, true)
	expectMember(f.mock, in.TeamID, in.RequestedBy, true)
	f.mock.ExpectBegin()
	expectLockSchedule(t, f.mock, sc.ground.ID, sc.ws)
	f.mock.ExpectQuery(`SELECT status FROM guest_match_requests WHERE id = \$1`).
		WithArgs(ref).
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("approved"))
	f.mock.ExpectQuery(`FROM ground_bookings WHERE ground_id = \$1`).
		WithArgs(sc.ground.ID, pgxmock.AnyArg(), "afternoon").
		WillReturnRows(bookingRows())
	f.mock.ExpectRollback()

	_, err := f.bookings.Admit(context.Background(), in)

	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestBookingService_Admit_UniqueViolationIsConflict(t *testing.T) {
	f := setupCore(t)
	sc := newBookingScenario(models.SlotUnavailable)
	in := sc.input(uuid.New(), nil)

	sc.expectAdmitPreamble(t, f.mock, in)
	f.mock.ExpectQuery(`INSERT INTO ground_bookings`).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), models.AvailabilityRegular, pgxmock.AnyArg(), 1).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	f.mock.ExpectRollback()

	_, err := f.bookings.Admit(context.Background(), in)

	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestBookingService_Admit_PastDate(t *testing.T) {
	f := setupCore(t)
	sc := newBookingScenario(models.SlotUnavailable)
	in := sc.input(uuid.New(), nil)
	in.Date = time.Date(2024, 5, 31, 10, 0, 0, 0, ist)

	_, err := f.bookings.Admit(context.Background(), in)

	assert.ErrorIs(t, err, ErrBadRequest)
	assert.Equal(t, 1, f.metrics.Admissions(metrics.ResultRejected))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestBookingService_Admit_SelfOpponent(t *testing.T) {
	f := setupCore(t)
	sc := newBookingScenario(models.SlotGuestMatch)
	x := uuid.New()

	_, err := f.bookings.Admit(context.Background(), sc.input(x, &x))

	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestBookingService_Admit_UnknownTeam(t *testing.T) {
	f := setupCore(t)
	sc := newBookingScenario(models.SlotGuestMatch)
	in := sc.input(uuid.New(), nil)

	expectGround(f.mock, sc.ground)
	expectTeamExists(f.mock, in.TeamID, false)

	_, err := f.bookings.Admit(context.Background(), in)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, f.metrics.Admissions(metrics.ResultRejected))
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestBookingService_Admit_NotMember(t *testing.T) {
	f := setupCore(t)
	sc := newBookingScenario(models.SlotGuestMatch)
	in := sc.input(uuid.New(), nil)

	expectGround(f.mock, sc.ground)
	expectTeamExists(f.mock, in.TeamID, true)
	expectMember(f.mock, in.TeamID, in.RequestedBy, false)

	_, err := f.bookings.Admit(context.Background(), in)

	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestBookingService_Respond(t *testing.T) {
	f := setupCore(t)
	sc := newBookingScenario(models.SlotUnavailable)
	team := uuid.New()
	b := sc.booking(team, models.AvailabilityRegular, 1, nil)
	captain := uuid.New()
	now := time.Now()
	booked := b
	booked.Status = models.BookingBooked
	booked.RespondedBy = &captain
	booked.RespondedAt = &now

	f.mock.ExpectQuery(`FROM ground_bookings WHERE id = \$1`).
		WithArgs(b.ID).
		WillReturnRows(bookingRows(b))
	expectCanManage(f.mock, sc.ground.ID, captain, true)
	f.mock.ExpectQuery(`UPDATE ground_bookings SET status = \$1`).
		WithArgs(models.BookingBooked, captain, b.ID).
		WillReturnRows(bookingRows(booked))

	got, err := f.bookings.Respond(context.Background(), b.ID, models.BookingBooked, captain)

	require.NoError(t, err)
	assert.Equal(t, models.BookingBooked, got.Status)
	require.NotNil(t, got.RespondedBy)
	assert.Equal(t, captain, *got.RespondedBy)
	assert.Equal(t, 1, f.metrics.Responses("booked"))
	assert.Equal(t, []uuid.UUID{team}, f.notices.teams())
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestBookingService_Respond_AlreadyDecided(t *testing.T) {
	f := setupCore(t)
	sc := newBookingScenario(models.SlotUnavailable)
	b := sc.booking(uuid.New(), models.AvailabilityRegular, 1, nil)
	b.Status = models.BookingRejected
	captain := uuid.New()

	f.mock.ExpectQuery(`FROM ground_bookings WHERE id = \$1`).
		WithArgs(b.ID).
		WillReturnRows(bookingRows(b))
	expectCanManage(f.mock, sc.ground.ID, captain, true)
	f.mock.ExpectQuery(`UPDATE ground_bookings SET status = \$1`).
		WithArgs(models.BookingBooked, captain, b.ID).
		WillReturnRows(bookingRows())

	_, err := f.bookings.Respond(context.Background(), b.ID, models.BookingBooked, captain)

	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestBookingService_Respond_Forbidden(t *testing.T) {
	f := setupCore(t)
	sc := newBookingScenario(models.SlotUnavailable)
	b := sc.booking(uuid.New(), models.AvailabilityRegular, 1, nil)
	stranger := uuid.New()

	f.mock.ExpectQuery(`FROM ground_bookings WHERE id = \$1`).
		WithArgs(b.ID).
		WillReturnRows(bookingRows(b))
	expectCanManage(f.mock, sc.ground.ID, stranger, false)

	_, err := f.bookings.Respond(context.Background(), b.ID, models.BookingRejected, stranger)

	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestBookingService_Respond_InvalidDecision(t *testing.T) {
	f := setupCore(t)

	_, err := f.bookings.Respond(context.Background(), uuid.New(), models.BookingPending, uuid.New())

	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestBookingService_GetByID_NotFound(t *testing.T) {
	f := setupCore(t)
	id := uuid.New()

	f.mock.ExpectQuery(`FROM ground_bookings WHERE id = \$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := f.bookings.GetByID(context.Background(), id)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBookingService_GroupPendingForOwner(t *testing.T) {
	f := setupCore(t)
	sc := newBookingScenario(models.SlotGuestMatch)
	captain := uuid.New()
	x, y := uuid.New(), uuid.New()
	bx := sc.booking(x, models.AvailabilityHostOnly, 1, nil)
	by := sc.booking(y, models.AvailabilityHostOnly, 2, nil)

	expectGround(f.mock, sc.ground)
	expectCanManage(f.mock, sc.ground.ID, captain, true)
	f.mock.ExpectQuery(`FROM ground_bookings WHERE ground_id = \$1 AND status = 'pending'`).
		WithArgs(sc.ground.ID).
		WillReturnRows(bookingRows(bx, by))

	groups, err := f.bookings.GroupPendingForOwner(context.Background(), sc.ground.ID, captain)

	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, models.GroupComplete, groups[0].Kind)
	assert.Len(t, groups[0].Bookings, 2)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestBookingService_RespondToGroup(t *testing.T) {
	f := setupCore(t)
	sc := newBookingScenario(models.SlotGuestMatch)
	captain := uuid.New()
	x, y := uuid.New(), uuid.New()
	bx := sc.booking(x, models.AvailabilityHostOnly, 1, nil)
	by := sc.booking(y, models.AvailabilityHostOnly, 2, nil)
	ids := []string{bx.ID.String(), by.ID.String()}

	expectGround(f.mock, sc.ground)
	expectCanManage(f.mock, sc.ground.ID, captain, true)
	f.mock.ExpectBegin()
	f.mock.ExpectQuery(`FROM ground_bookings WHERE id = ANY\(\$1::uuid\[\]\)`).
		WithArgs(ids).
		WillReturnRows(bookingRows(bx, by))
	f.mock.ExpectExec(`UPDATE ground_bookings SET status = \$1`).
		WithArgs(models.BookingBooked, captain, ids).
		WillReturnResult(pgxmock.NewResult("UPDATE", 2))
	f.mock.ExpectCommit()

	results, err := f.bookings.RespondToGroup(context.Background(), sc.ground.ID,
		[]uuid.UUID{bx.ID, by.ID, bx.ID}, models.BookingBooked, captain)

	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, models.BookingBooked, r.Status)
	}
	assert.Equal(t, 2, f.metrics.Responses("booked"))
	assert.ElementsMatch(t, []uuid.UUID{x, y}, f.notices.teams())
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestBookingService_RespondToGroup_RejectsForeignBooking(t *testing.T) {
	f := setupCore(t)
	sc := newBookingScenario(models.SlotGuestMatch)
	captain := uuid.New()
	ours := sc.booking(uuid.New(), models.AvailabilityHostOnly, 1, nil)
	theirs := sc.booking(uuid.New(), models.AvailabilityHostOnly, 1, nil)
	theirs.GroundID = uuid.New()

	expectGround(f.mock, sc.ground)
	expectCanManage(f.mock, sc.ground.ID, captain, true)
	f.mock.ExpectBegin()
	f.mock.ExpectQuery(`FROM ground_bookings WHERE id = ANY`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(bookingRows(ours, theirs))
	f.mock.ExpectRollback()

	_, err := f.bookings.RespondToGroup(context.Background(), sc.ground.ID,
		[]uuid.UUID{ours.ID, theirs.ID}, models.BookingRejected, captain)

	assert.ErrorIs(t, err, ErrBadRequest)
	assert.Empty(t, f.notices.teams())
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestBookingService_RespondToGroup_MissingBooking(t *testing.T) {
	f := setupCore(t)
	sc := newBookingScenario(models.SlotGuestMatch)
	captain := uuid.New()
	b := sc.booking(uuid.New(), models.AvailabilityHostOnly, 1, nil)

	expectGround(f.mock, sc.ground)
	expectCanManage(f.mock, sc.ground.ID, captain, true)
	f.mock.ExpectBegin()
	f.mock.ExpectQuery(`FROM ground_bookings WHERE id = ANY`).
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(bookingRows(b))
	f.mock.ExpectRollback()

	_, err := f.bookings.RespondToGroup(context.Background(), sc.ground.ID,
		[]uuid.UUID{b.ID, uuid.New()}, models.BookingBooked, captain)

	assert.ErrorIs(t, err, ErrBadRequest)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestBookingService_RespondToGroup_Empty(t *testing.T) {
	f := setupCore(t)

	_, err := f.bookings.RespondToGroup(context.Background(), uuid.New(), nil, models.BookingBooked, uuid.New())

	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestBookingService_ListForTeam(t *testing.T) {
	f := setupCore(t)
	sc := newBookingScenario(models.SlotUnavailable)
	team, user := uuid.New(), uuid.New()
	b := sc.booking(team, models.AvailabilityRegular, 1, nil)

	expectMember(f.mock, team, user, true)
	f.mock.ExpectQuery(`FROM ground_bookings WHERE booked_by_team = \$1 OR opponent_team = \$1`).
		WithArgs(team).
		WillReturnRows(bookingRows(b))

	got, err := f.bookings.ListForTeam(context.Background(), team, user)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, b.ID, got[0].ID)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}
