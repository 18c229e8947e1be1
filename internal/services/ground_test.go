package services

import (
	"context"
	"testing"
	"time"

	"github.com/dimitrije/wicket-api/internal/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGroundService(t *testing.T) (*GroundService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewGroundService(&database.DB{Pool: mock}), mock
}

func TestGroundService_Create(t *testing.T) {
	svc, mock := setupGroundService(t)
	ctx := context.Background()
	captain := uuid.New()
	g := newGround(uuid.New())
	g.CreatedBy = captain

	mock.ExpectQuery(`SELECT owner_id FROM teams WHERE id = \$1`).
		WithArgs(g.OwnedByTeam).
		WillReturnRows(pgxmock.NewRows([]string{"owner_id"}).AddRow(captain))
	mock.ExpectQuery(`INSERT INTO grounds`).
		WithArgs(g.Name, g.Location, g.OwnedByTeam, g.MatchFee, captain).
		WillReturnRows(groundRows(g))

	got, err := svc.Create(ctx, g.Name, g.Location, g.OwnedByTeam, g.MatchFee, captain)

	require.NoError(t, err)
	assert.Equal(t, g.ID, got.ID)
	assert.Equal(t, int64(2500), got.MatchFee)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroundService_Create_NotCaptain(t *testing.T) {
	svc, mock := setupGroundService(t)
	teamID := uuid.New()

	mock.ExpectQuery(`SELECT owner_id FROM teams WHERE id = \$1`).
		WithArgs(teamID).
		WillReturnRows(pgxmock.NewRows([]string{"owner_id"}).AddRow(uuid.New()))

	_, err := svc.Create(context.Background(), "Oval", "Churchgate", teamID, 0, uuid.New())

	assert.ErrorIs(t, err, ErrForbidden)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroundService_Create_TeamAlreadyOwnsGround(t *testing.T) {
	svc, mock := setupGroundService(t)
	teamID, captain := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT owner_id FROM teams WHERE id = \$1`).
		WithArgs(teamID).
		WillReturnRows(pgxmock.NewRows([]string{"owner_id"}).AddRow(captain))
	mock.ExpectQuery(`INSERT INTO grounds`).
		WithArgs("Oval", "Churchgate", teamID, int64(0), captain).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := svc.Create(context.Background(), "Oval", "Churchgate", teamID, 0, captain)

	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroundService_Create_NegativeFee(t *testing.T) {
	svc, _ := setupGroundService(t)

	_, err := svc.Create(context.Background(), "Oval", "Churchgate", uuid.New(), -1, uuid.New())

	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestGroundService_GetByID_NotFound(t *testing.T) {
	svc, mock := setupGroundService(t)
	id := uuid.New()

	mock.ExpectQuery(`FROM grounds WHERE id = \$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := svc.GetByID(context.Background(), id)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroundService_List(t *testing.T) {
	svc, mock := setupGroundService(t)
	a, b := newGround(uuid.New()), newGround(uuid.New())

	rows := groundRows(a)
	rows.AddRow(b.ID, b.Name, b.Location, b.OwnedByTeam, b.MatchFee, b.CreatedBy, time.Now(), time.Now())
	mock.ExpectQuery(`SELECT .* FROM grounds ORDER BY created_at`).
		WillReturnRows(rows)

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, []uuid.UUID{a.ID, b.ID}, []uuid.UUID{got[0].ID, got[1].ID})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroundService_Update(t *testing.T) {
	svc, mock := setupGroundService(t)
	g := newGround(uuid.New())
	fee := int64(3000)
	updated := *g
	updated.MatchFee = fee

	mock.ExpectQuery(`UPDATE grounds SET`).
		WithArgs((*string)(nil), (*string)(nil), &fee, g.ID).
		WillReturnRows(groundRows(&updated))

	got, err := svc.Update(context.Background(), g.ID, nil, nil, &fee)

	require.NoError(t, err)
	assert.Equal(t, fee, got.MatchFee)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroundService_Update_NothingToChange(t *testing.T) {
	svc, _ := setupGroundService(t)

	_, err := svc.Update(context.Background(), uuid.New(), nil, nil, nil)

	assert.ErrorIs(t, err, ErrBadRequest)
}

func TestGroundService_CanManage(t *testing.T) {
	svc, mock := setupGroundService(t)
	groundID, userID := uuid.New(), uuid.New()

	expectCanManage(mock, groundID, userID, true)

	ok, err := svc.CanManage(context.Background(), groundID, userID)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroundService_GetByOwnerTeam(t *testing.T) {
	svc, mock := setupGroundService(t)
	g := newGround(uuid.New())

	mock.ExpectQuery(`FROM grounds WHERE owned_by_team = \$1`).
		WithArgs(g.OwnedByTeam).
		WillReturnRows(groundRows(g))

	got, err := svc.GetByOwnerTeam(context.Background(), g.OwnedByTeam)

	require.NoError(t, err)
	assert.Equal(t, g.ID, got.ID)
	assert.Equal(t, g.Name, got.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
