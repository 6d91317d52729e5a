package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2"
)

var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		hashed_password BYTEA NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS attribution_settings (
		id SMALLINT PRIMARY KEY CHECK (id = 1),
		inject BOOLEAN NOT NULL,
		frontend_fill BOOLEAN NOT NULL,
		ttl_days INTEGER NOT NULL CHECK (ttl_days BETWEEN 1 AND 3650),
		shortcode BOOLEAN NOT NULL,
		dynamic_tag BOOLEAN NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

const clickHouseSchema = `
	CREATE TABLE IF NOT EXISTS form_submissions (
		submission_id String,
		form_id String,
		submitted_at DateTime64(3, 'UTC'),
		ip_address String,
		user_agent String,
		fields String
	) ENGINE = MergeTree
	ORDER BY (form_id, submitted_at)
`

func ensurePostgresSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range postgresSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply postgres schema: %w", err)
		}
	}
	return nil
}

func ensureClickHouseSchema(ctx context.Context, conn clickhouse.Conn) error {
	if err := conn.Exec(ctx, clickHouseSchema); err != nil {
		return fmt.Errorf("failed to apply clickhouse schema: %w", err)
	}
	return nil
}
