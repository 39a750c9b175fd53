package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillUpdatedAt(db); err != nil {
		return fmt.Errorf("backfilling updated_at: %w", err)
	}
	return nil
}

// migrateBackfillUpdatedAt gives plans written before updated_at existed a
// value equal to their creation time.
func migrateBackfillUpdatedAt(db *sql.DB) error {
	_, err := db.Exec(`UPDATE session_plans SET updated_at = created_at WHERE updated_at = ''`)
	return err
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS session_plans (
		id             TEXT PRIMARY KEY,
		title          TEXT NOT NULL,
		total_duration INTEGER NOT NULL DEFAULT 0 CHECK(total_duration >= 0),
		required_tools TEXT NOT NULL DEFAULT '[]',
		created_at     TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS agenda_items (
		plan_id       TEXT NOT NULL REFERENCES session_plans(id) ON DELETE CASCADE,
		position      INTEGER NOT NULL CHECK(position >= 0),
		activity_id   TEXT NOT NULL,
		duration      INTEGER NOT NULL DEFAULT 0 CHECK(duration >= 0),
		justification TEXT NOT NULL DEFAULT '',
		start_time    INTEGER NOT NULL DEFAULT 0,
		end_time      INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (plan_id, position)
	)`,

	// Added after the first release: the generating brief and edit time.
	`ALTER TABLE session_plans ADD COLUMN brief TEXT`,
	`ALTER TABLE session_plans ADD COLUMN updated_at TEXT NOT NULL DEFAULT ''`,

	`CREATE INDEX IF NOT EXISTS idx_session_plans_updated ON session_plans(updated_at)`,
	`CREATE INDEX IF NOT EXISTS idx_agenda_items_activity ON agenda_items(activity_id)`,
}
