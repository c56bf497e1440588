package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

type migration struct {
	version int
	name    string
	sql     string
}

// {{pk}} is replaced by the dialect's auto-increment primary key column type.
var migrations = []migration{
	{
		version: 1,
		name:    "initial_schema",
		sql: `
CREATE TABLE IF NOT EXISTS users (
  id {{pk}},
  username TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS stages (
  id {{pk}},
  user_id BIGINT NOT NULL REFERENCES users(id),
  stage_type TEXT NOT NULL,
  start_date TEXT NOT NULL,
  end_date TEXT,
  initial_weight DOUBLE PRECISION NOT NULL CHECK (initial_weight > 0),
  completed BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS entries (
  id {{pk}},
  user_id BIGINT NOT NULL REFERENCES users(id),
  stage_id BIGINT NOT NULL REFERENCES stages(id),
  entry_date TEXT NOT NULL,
  daily_params TEXT NOT NULL DEFAULT '{}',
  meals TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS products (
  id {{pk}},
  user_id BIGINT NOT NULL REFERENCES users(id),
  product_name TEXT NOT NULL,
  calories_per_100g DOUBLE PRECISION NOT NULL CHECK (calories_per_100g > 0)
);
`,
	},
	{
		version: 2,
		name:    "one_open_stage_per_user",
		sql: `
CREATE UNIQUE INDEX IF NOT EXISTS idx_stages_open_user ON stages(user_id) WHERE completed = FALSE;
CREATE INDEX IF NOT EXISTS idx_entries_user_date ON entries(user_id, entry_date);
CREATE INDEX IF NOT EXISTS idx_products_user ON products(user_id);
`,
	},
}

var primaryKeyType = map[string]string{
	"sqlite":   "INTEGER PRIMARY KEY AUTOINCREMENT",
	"postgres": "BIGSERIAL PRIMARY KEY",
}

// Migrate applies every migration not yet recorded in schema_migrations,
// each in its own transaction.
func Migrate(db *sqlx.DB) error {
	pk, ok := primaryKeyType[db.DriverName()]
	if !ok {
		return fmt.Errorf("no schema dialect for driver %q", db.DriverName())
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("ensure schema_migrations table: %w", err)
	}

	for _, m := range migrations {
		var exists int
		err := db.QueryRow(db.Rebind(`SELECT 1 FROM schema_migrations WHERE version = ?`), m.version).Scan(&exists)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("check migration version %d: %w", m.version, err)
		}

		tx, err := db.Beginx()
		if err != nil {
			return fmt.Errorf("begin migration tx: %w", err)
		}

		if _, err := tx.Exec(strings.ReplaceAll(m.sql, "{{pk}}", pk)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration version %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(tx.Rebind(`INSERT INTO schema_migrations(version, name) VALUES(?, ?)`), m.version, m.name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration version %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration version %d: %w", m.version, err)
		}
	}

	return nil
}
