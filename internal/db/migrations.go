package db

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations are applied in order. The number applied so far is kept in
// PRAGMA user_version; append new steps, never edit old ones.
var migrations = []string{
	`
	CREATE TABLE IF NOT EXISTS production_lines (
		id TEXT PRIMARY KEY,
		plant_name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_production_lines_plant ON production_lines(plant_name);

	CREATE TABLE IF NOT EXISTS line_models (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		line_id TEXT NOT NULL REFERENCES production_lines(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		max_capacity REAL
	);
	CREATE INDEX IF NOT EXISTS idx_line_models_line ON line_models(line_id, position);

	CREATE TABLE IF NOT EXISTS monthly_entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		model_id INTEGER NOT NULL REFERENCES line_models(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		year INTEGER NOT NULL,
		month INTEGER NOT NULL CHECK (month BETWEEN 0 AND 11),
		UNIQUE(model_id, year, month)
	);
	CREATE INDEX IF NOT EXISTS idx_monthly_entries_year ON monthly_entries(year, month);

	CREATE TABLE IF NOT EXISTS day_values (
		entry_id INTEGER NOT NULL REFERENCES monthly_entries(id) ON DELETE CASCADE,
		status TEXT NOT NULL,
		day INTEGER NOT NULL CHECK (day BETWEEN 1 AND 31),
		value REAL NOT NULL,
		PRIMARY KEY(entry_id, status, day)
	);
	`,
	// Zero values are implicit.
	`DELETE FROM day_values WHERE value = 0`,
}

// schemaVersion is the version of a fully migrated database.
var schemaVersion = len(migrations)

// migrate applies the pending migrations, each in its own transaction.
func (db *DB) migrate(ctx context.Context) error {
	version, err := db.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version > schemaVersion {
		return fmt.Errorf("database schema version %d is newer than supported version %d", version, schemaVersion)
	}

	for v := version; v < schemaVersion; v++ {
		err := db.inTx(ctx, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, migrations[v]); err != nil {
				return err
			}
			_, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", v+1))
			return err
		})
		if err != nil {
			return fmt.Errorf("failed to migrate schema to version %d: %w", v+1, err)
		}
	}
	return nil
}

// SchemaVersion returns the stamped schema version.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version)
	return version, err
}
