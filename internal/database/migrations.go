package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		phone VARCHAR(32),
		push_token VARCHAR(255),
		global_role VARCHAR(50) NOT NULL DEFAULT 'user',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS teams (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS team_members (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		team_id UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		role VARCHAR(50) NOT NULL DEFAULT 'member',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(team_id, user_id)
	)`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token_hash VARCHAR(64) UNIQUE NOT NULL,
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	// A team owns at most one ground.
	`CREATE TABLE IF NOT EXISTS grounds (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		name VARCHAR(255) NOT NULL,
		location VARCHAR(500) NOT NULL DEFAULT '',
		owned_by_team UUID NOT NULL UNIQUE REFERENCES teams(id) ON DELETE CASCADE,
		match_fee BIGINT NOT NULL DEFAULT 0,
		created_by UUID NOT NULL REFERENCES users(id),
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS weekly_schedules (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		ground_id UUID NOT NULL REFERENCES grounds(id) ON DELETE CASCADE,
		owner_team_id UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		week_start_date TIMESTAMP WITH TIME ZONE NOT NULL,
		week_end_date TIMESTAMP WITH TIME ZONE NOT NULL,
		schedule JSONB NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(ground_id, week_start_date)
	)`,

	`CREATE TABLE IF NOT EXISTS guest_match_requests (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		ground_id UUID NOT NULL REFERENCES grounds(id) ON DELETE CASCADE,
		owner_team_id UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		requested_date TIMESTAMP WITH TIME ZONE NOT NULL,
		time_slot VARCHAR(20) NOT NULL,
		team_a UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		team_b UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		requested_by UUID NOT NULL REFERENCES users(id),
		weekly_availability_id UUID NOT NULL REFERENCES weekly_schedules(id) ON DELETE CASCADE,
		match_fee BIGINT NOT NULL DEFAULT 0,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		responded_by UUID REFERENCES users(id),
		responded_at TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		CHECK (team_a <> team_b)
	)`,

	`CREATE TABLE IF NOT EXISTS ground_bookings (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		ground_id UUID NOT NULL REFERENCES grounds(id) ON DELETE CASCADE,
		booked_by_team UUID NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
		booked_date TIMESTAMP WITH TIME ZONE NOT NULL,
		time_slot VARCHAR(20) NOT NULL,
		opponent_team UUID REFERENCES teams(id) ON DELETE SET NULL,
		availability_mode VARCHAR(20) NOT NULL DEFAULT 'regular',
		weekly_availability_id UUID REFERENCES weekly_schedules(id) ON DELETE SET NULL,
		seat SMALLINT NOT NULL DEFAULT 1 CHECK (seat IN (1, 2)),
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		responded_by UUID REFERENCES users(id),
		responded_at TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user_id ON refresh_tokens(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_team_members_team_id ON team_members(team_id)`,
	`CREATE INDEX IF NOT EXISTS idx_team_members_user_id ON team_members(user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_weekly_schedules_ground_id ON weekly_schedules(ground_id)`,
	`CREATE INDEX IF NOT EXISTS idx_guest_match_requests_ground_id ON guest_match_requests(ground_id)`,
	`CREATE INDEX IF NOT EXISTS idx_ground_bookings_ground_status ON ground_bookings(ground_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_ground_bookings_booked_by_team ON ground_bookings(booked_by_team)`,

	// Cell caps. Regular and owner_play bookings always take seat 1, host_only
	// bookings take seat 1 or 2, so the seat index bounds every cell.
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_ground_bookings_cell_seat
		ON ground_bookings(ground_id, booked_date, time_slot, seat)
		WHERE status <> 'rejected'`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_ground_bookings_cell_team
		ON ground_bookings(ground_id, booked_date, time_slot, booked_by_team)
		WHERE status <> 'rejected'`,
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_ground_bookings_cell_opponent
		ON ground_bookings(ground_id, booked_date, time_slot, opponent_team)
		WHERE status <> 'rejected' AND availability_mode = 'host_only' AND opponent_team IS NOT NULL`,

	// At most one live guest match request per cell.
	`CREATE UNIQUE INDEX IF NOT EXISTS uq_guest_match_requests_live
		ON guest_match_requests(ground_id, requested_date, time_slot)
		WHERE status IN ('pending', 'approved')`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
