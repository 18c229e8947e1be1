package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dimitrije/wicket-api/internal/database"
	"github.com/dimitrije/wicket-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const groundColumns = `id, name, location, owned_by_team, match_fee, created_by, created_at, updated_at`

type GroundService struct {
	db *database.DB
}

func NewGroundService(db *database.DB) *GroundService {
	return &GroundService{db: db}
}

func scanGround(row pgx.Row) (*models.Ground, error) {
	var g models.Ground
	err := row.Scan(&g.ID, &g.Name, &g.Location, &g.OwnedByTeam, &g.MatchFee, &g.CreatedBy, &g.CreatedAt, &g.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// Create registers a ground owned by teamID. Only the team's captain may do
// this, and a team owns at most one ground.
func (s *GroundService) Create(ctx context.Context, name, location string, teamID uuid.UUID, matchFee int64, createdBy uuid.UUID) (*models.Ground, error) {
	if matchFee < 0 {
		return nil, badRequest("match fee cannot be negative")
	}

	var ownerID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `SELECT owner_id FROM teams WHERE id = $1`, teamID).Scan(&ownerID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound("team not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load team: %w", err)
	}
	if ownerID != createdBy {
		return nil, forbidden("only the team captain can register a ground")
	}

	g, err := scanGround(s.db.Pool.QueryRow(ctx, `
		INSERT INTO grounds (name, location, owned_by_team, match_fee, created_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+groundColumns,
		name, location, teamID, matchFee, createdBy))
	if database.IsUniqueViolation(err) {
		return nil, conflict("team already owns a ground")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create ground: %w", err)
	}
	return g, nil
}

func (s *GroundService) GetByID(ctx context.Context, groundID uuid.UUID) (*models.Ground, error) {
	g, err := scanGround(s.db.Pool.QueryRow(ctx, `
		SELECT `+groundColumns+` FROM grounds WHERE id = $1
	`, groundID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound("ground not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ground: %w", err)
	}
	return g, nil
}

func (s *GroundService) GetByOwnerTeam(ctx context.Context, teamID uuid.UUID) (*models.Ground, error) {
	g, err := scanGround(s.db.Pool.QueryRow(ctx, `
		SELECT `+groundColumns+` FROM grounds WHERE owned_by_team = $1
	`, teamID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound("team does not own a ground")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load ground: %w", err)
	}
	return g, nil
}

func (s *GroundService) List(ctx context.Context) ([]models.Ground, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT `+groundColumns+` FROM grounds ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list grounds: %w", err)
	}
	defer rows.Close()

	var grounds []models.Ground
	for rows.Next() {
		g, err := scanGround(rows)
		if err != nil {
			return nil, err
		}
		grounds = append(grounds, *g)
	}
	return grounds, rows.Err()
}

func (s *GroundService) Update(ctx context.Context, groundID uuid.UUID, name, location *string, matchFee *int64) (*models.Ground, error) {
	if name == nil && location == nil && matchFee == nil {
		return nil, badRequest("no fields to update")
	}
	if matchFee != nil && *matchFee < 0 {
		return nil, badRequest("match fee cannot be negative")
	}

	g, err := scanGround(s.db.Pool.QueryRow(ctx, `
		UPDATE grounds SET
			name = COALESCE($1, name),
			location = COALESCE($2, location),
			match_fee = COALESCE($3, match_fee),
			updated_at = NOW()
		WHERE id = $4
		RETURNING `+groundColumns,
		name, location, matchFee, groundID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound("ground not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update ground: %w", err)
	}
	return g, nil
}

// CanManage reports whether userID captains the team that owns the ground.
func (s *GroundService) CanManage(ctx context.Context, groundID, userID uuid.UUID) (bool, error) {
	var ok bool
	err := s.db.Pool.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM grounds g
			JOIN teams t ON t.id = g.owned_by_team
			WHERE g.id = $1 AND t.owner_id = $2
		)
	`, groundID, userID).Scan(&ok)
	return ok, err
}

// authorizeOwner loads the ground and checks userID may manage it.
func (s *GroundService) authorizeOwner(ctx context.Context, groundID, userID uuid.UUID) (*models.Ground, error) {
	g, err := s.GetByID(ctx, groundID)
	if err != nil {
		return nil, err
	}
	ok, err := s.CanManage(ctx, groundID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check ground ownership: %w", err)
	}
	if !ok {
		return nil, forbidden("only the ground owner's captain can do this")
	}
	return g, nil
}
