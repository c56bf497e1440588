package db_test

import (
	"strings"
	"testing"

	"github.com/atinyakov/DietJournal/internal/db"
)

func TestInitPostgres_ErrorPaths(t *testing.T) {
	cases := []struct {
		name       string
		dsn        string
		wantSubstr string
	}{
		{"unreachable host", "host=127.0.0.1 port=1 sslmode=disable connect_timeout=1", "ping postgres"},
		{"malformed DSN", "postgres://%zz", "postgres"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := db.InitPostgres(tc.dsn)
			if err == nil {
				t.Fatalf("InitPostgres(%q) did not return error", tc.dsn)
			}
			if !strings.Contains(err.Error(), tc.wantSubstr) {
				t.Errorf("InitPostgres(%q) error = %q; want substring %q", tc.dsn, err.Error(), tc.wantSubstr)
			}
		})
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := db.Open("mysql", "x"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestInitSQLite_CreatesSchema(t *testing.T) {
	conn, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Open sqlite: %v", err)
	}
	defer conn.Close()

	for _, table := range []string{"users", "stages", "entries", "products", "schema_migrations"} {
		var name string
		err := conn.Get(&name, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}

	var applied int
	if err := conn.Get(&applied, `SELECT COUNT(*) FROM schema_migrations`); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if applied != 2 {
		t.Errorf("applied migrations = %d; want 2", applied)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	conn, err := db.InitSQLite(":memory:")
	if err != nil {
		t.Fatalf("InitSQLite: %v", err)
	}
	defer conn.Close()

	if err := db.Migrate(conn); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}

	var applied int
	if err := conn.Get(&applied, `SELECT COUNT(*) FROM schema_migrations`); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	if applied != 2 {
		t.Errorf("applied migrations = %d; want 2", applied)
	}
}

func TestMigrate_OneOpenStageIndex(t *testing.T) {
	conn, err := db.InitSQLite(":memory:")
	if err != nil {
		t.Fatalf("InitSQLite: %v", err)
	}
	defer conn.Close()

	conn.MustExec(`INSERT INTO users (username) VALUES ('alice')`)
	conn.MustExec(`INSERT INTO stages (user_id, stage_type, start_date, initial_weight, completed) VALUES (1, 'training', '2025-01-01', 80, FALSE)`)

	_, err = conn.Exec(`INSERT INTO stages (user_id, stage_type, start_date, initial_weight, completed) VALUES (1, 'training', '2025-02-01', 79, FALSE)`)
	if err == nil {
		t.Fatal("expected unique violation for a second open stage")
	}

	conn.MustExec(`UPDATE stages SET completed = TRUE, end_date = '2025-01-31' WHERE id = 1`)
	if _, err := conn.Exec(`INSERT INTO stages (user_id, stage_type, start_date, initial_weight, completed) VALUES (1, 'training', '2025-02-01', 79, FALSE)`); err != nil {
		t.Fatalf("insert after completion: %v", err)
	}
}
