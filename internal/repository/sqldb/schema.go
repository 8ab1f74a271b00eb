package sqldb

import (
	"context"
	"fmt"
)

// The statements stay within the SQL shared by PostgreSQL and SQLite.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS locations (
		id       TEXT PRIMARY KEY,
		name     TEXT NOT NULL UNIQUE,
		type     TEXT NOT NULL DEFAULT '',
		position INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS inventory_entries (
		location_id TEXT NOT NULL REFERENCES locations (id),
		entry_date  TEXT NOT NULL,
		n           BIGINT NOT NULL DEFAULT 0,
		o           BIGINT NOT NULL DEFAULT 0,
		q           BIGINT NOT NULL DEFAULT 0,
		r           BIGINT NOT NULL DEFAULT 0,
		updated_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (location_id, entry_date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_inventory_entries_date ON inventory_entries (entry_date)`,
	`CREATE TABLE IF NOT EXISTS demographics (
		id               INTEGER PRIMARY KEY,
		epsp_name        TEXT NOT NULL DEFAULT '',
		nbr_polyclinique BIGINT NOT NULL DEFAULT 0,
		pop_total        BIGINT NOT NULL DEFAULT 0,
		cible_2_11m      BIGINT NOT NULL DEFAULT 0,
		cible_12_59m     BIGINT NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		username      TEXT PRIMARY KEY,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL,
		location_id   TEXT REFERENCES locations (id)
	)`,
}

// Migrate creates missing tables. It is safe to run on every start.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("error migrating schema: %w", err)
		}
	}
	return nil
}
