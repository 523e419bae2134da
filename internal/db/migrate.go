package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaMigration = `
CREATE TABLE IF NOT EXISTS users (
    id bigint PRIMARY KEY,
    username text NOT NULL,
    name text NOT NULL DEFAULT '',
    password_hash text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS users_username_lower_unique
ON users (LOWER(username));

CREATE TABLE IF NOT EXISTS job_posts (
    id bigint PRIMARY KEY,
    profile text NOT NULL,
    description text NOT NULL DEFAULT '',
    req_experience int NOT NULL DEFAULT 0,
    skills text[] NOT NULL DEFAULT '{}',
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);
`

// Migrate applies the idempotent schema migration on startup.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schemaMigration); err != nil {
		return fmt.Errorf("apply schema migration: %w", err)
	}
	return nil
}
