package database

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS pattern_registry (
		session_id       TEXT PRIMARY KEY,
		fingerprint      TEXT NOT NULL,
		scam_type        TEXT NOT NULL,
		tactics          TEXT[] NOT NULL DEFAULT '{}',
		identifier_types TEXT[] NOT NULL DEFAULT '{}',
		risk_level       TEXT NOT NULL,
		confidence       DOUBLE PRECISION NOT NULL DEFAULT 0,
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_pattern_registry_fingerprint
		ON pattern_registry (fingerprint, updated_at DESC)`,

	`CREATE TABLE IF NOT EXISTS identifier_registry (
		id          UUID PRIMARY KEY,
		value       TEXT NOT NULL UNIQUE,
		masked      TEXT NOT NULL,
		type        TEXT NOT NULL,
		risk_level  TEXT NOT NULL,
		confidence  DOUBLE PRECISION NOT NULL DEFAULT 0,
		occurrences INTEGER NOT NULL DEFAULT 1,
		sessions    TEXT[] NOT NULL DEFAULT '{}',
		first_seen  TIMESTAMPTZ NOT NULL DEFAULT now(),
		last_seen   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_identifier_registry_type
		ON identifier_registry (type)`,
	`CREATE INDEX IF NOT EXISTS idx_identifier_registry_last_seen
		ON identifier_registry (last_seen DESC)`,
}

// Migrate creates the registry tables if they do not exist. Statements
// are idempotent so repeated startup runs are safe.
func (db *PostgresDB) Migrate(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	db.logger.Info().Msg("database schema up to date")
	return nil
}
