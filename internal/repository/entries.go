package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// EntryRow is an entry as persisted: payloads are kept as serialized JSON text.
type EntryRow struct {
	ID          int64  `db:"id"`
	UserID      int64  `db:"user_id"`
	StageID     int64  `db:"stage_id"`
	EntryDate   string `db:"entry_date"`
	DailyParams string `db:"daily_params"`
	Meals       string `db:"meals"`
}

const entryColumns = `id, user_id, stage_id, entry_date, daily_params, meals`

// EntryRepository stores daily entries.
type EntryRepository struct {
	// DB is the database handle for executing queries.
	DB *sqlx.DB
}

// NewEntryRepository creates an EntryRepository on the given connection.
func NewEntryRepository(db *sqlx.DB) *EntryRepository {
	return &EntryRepository{DB: db}
}

// Insert stores a new entry row and returns its id. Rows are never updated;
// saving the same date again adds a newer revision.
func (r *EntryRepository) Insert(ctx context.Context, row EntryRow) (int64, error) {
	var id int64
	err := r.DB.QueryRowxContext(ctx, r.DB.Rebind(`
		INSERT INTO entries (user_id, stage_id, entry_date, daily_params, meals)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`), row.UserID, row.StageID, row.EntryDate, row.DailyParams, row.Meals).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert entry: %w", err)
	}
	return id, nil
}

// GetByDate returns the latest revision of the user's entry for date, or ErrNotFound.
func (r *EntryRepository) GetByDate(ctx context.Context, userID int64, date string) (*EntryRow, error) {
	var row EntryRow
	err := r.DB.GetContext(ctx, &row, r.DB.Rebind(`
		SELECT `+entryColumns+` FROM entries
		WHERE user_id = ? AND entry_date = ?
		ORDER BY id DESC LIMIT 1
	`), userID, date)
	if err != nil {
		return nil, fmt.Errorf("GetByDate: %w", notFound(err))
	}
	return &row, nil
}

// ListRecent returns up to limit entries, newest entry date first.
func (r *EntryRepository) ListRecent(ctx context.Context, userID int64, limit int) ([]EntryRow, error) {
	rows := []EntryRow{}
	err := r.DB.SelectContext(ctx, &rows, r.DB.Rebind(`
		SELECT `+entryColumns+` FROM entries
		WHERE user_id = ?
		ORDER BY entry_date DESC, id DESC
		LIMIT ?
	`), userID, limit)
	if err != nil {
		return nil, fmt.Errorf("ListRecent: %w", err)
	}
	return rows, nil
}
