package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dimitrije/wicket-api/internal/database"
	"github.com/dimitrije/wicket-api/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, name, phone, push_token, global_role, created_at, updated_at`

type UserService struct {
	db *database.DB
}

func NewUserService(db *database.DB) *UserService {
	return &UserService{db: db}
}

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Email, &user.Name, &user.Phone, &user.PushToken,
		&user.GlobalRole, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindOrCreateByEmail returns the user registered under email, creating one
// named name when there is none. Emails are compared case-insensitively.
func (s *UserService) FindOrCreateByEmail(ctx context.Context, email, name string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, badRequest("email is required")
	}
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		INSERT INTO users (email, name)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET email = EXCLUDED.email
		RETURNING `+userColumns,
		email, name))
	if err != nil {
		return nil, fmt.Errorf("failed to find or create user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = $1
	`, strings.ToLower(strings.TrimSpace(email))))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound("no user with email %s", email)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return user, nil
}

// Update changes the profile fields that are non-nil.
func (s *UserService) Update(ctx context.Context, id uuid.UUID, name, phone *string) (*models.User, error) {
	if name == nil && phone == nil {
		return nil, badRequest("no fields to update")
	}

	user, err := scanUser(s.db.Pool.QueryRow(ctx, `
		UPDATE users SET
			name = COALESCE($1, name),
			phone = COALESCE($2, phone),
			updated_at = NOW()
		WHERE id = $3
		RETURNING `+userColumns,
		name, phone, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, notFound("user not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// SetPushToken stores the device token push notices go to. An empty token
// clears it.
func (s *UserService) SetPushToken(ctx context.Context, id uuid.UUID, token string) error {
	var value *string
	if token != "" {
		value = &token
	}
	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE users SET push_token = $1, updated_at = NOW() WHERE id = $2
	`, value, id)
	if err != nil {
		return fmt.Errorf("failed to set push token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("user not found")
	}
	return nil
}

func (s *UserService) PromoteToSuperAdmin(ctx context.Context, email string) error {
	tag, err := s.db.Pool.Exec(ctx, `
		UPDATE users SET global_role = $1, updated_at = NOW()
		WHERE email = $2
	`, models.GlobalRoleSuperAdmin, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("no user with email %s", email)
	}
	return nil
}
