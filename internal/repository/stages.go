package repository

import (
	"context"
	"fmt"

	"github.com/atinyakov/DietJournal/internal/models"
	"github.com/jmoiron/sqlx"
)

const stageColumns = `id, user_id, stage_type, start_date, end_date, initial_weight, completed`

// StageRepository stores program stages.
type StageRepository struct {
	// DB is the database handle for executing queries and transactions.
	DB *sqlx.DB
}

// NewStageRepository creates a StageRepository on the given connection.
func NewStageRepository(db *sqlx.DB) *StageRepository {
	return &StageRepository{DB: db}
}

// CreateOpen inserts an open stage for stage.UserID and returns its id.
// The open-stage check and the insert share one transaction; if the user
// already has an open stage, or a concurrent insert wins the unique index,
// ErrDuplicate is returned.
func (r *StageRepository) CreateOpen(ctx context.Context, stage models.Stage) (int64, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var open int
	err = tx.GetContext(ctx, &open, tx.Rebind(`SELECT COUNT(*) FROM stages WHERE user_id = ? AND completed = FALSE`), stage.UserID)
	if err != nil {
		return 0, fmt.Errorf("check open stage: %w", err)
	}
	if open > 0 {
		return 0, fmt.Errorf("user %d: %w", stage.UserID, ErrDuplicate)
	}

	var id int64
	err = tx.QueryRowxContext(ctx, tx.Rebind(`
		INSERT INTO stages (user_id, stage_type, start_date, initial_weight, completed)
		VALUES (?, ?, ?, ?, FALSE)
		RETURNING id
	`), stage.UserID, stage.StageType, stage.StartDate, stage.InitialWeight).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("user %d: %w", stage.UserID, ErrDuplicate)
		}
		return 0, fmt.Errorf("insert stage: %w", err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("user %d: %w", stage.UserID, ErrDuplicate)
		}
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}

// Complete marks the user's stage completed as of endDate. Completing an
// already completed stage rewrites its end date. ErrNotFound is returned when
// no stage with this id belongs to the user.
func (r *StageRepository) Complete(ctx context.Context, userID, stageID int64, endDate string) error {
	res, err := r.DB.ExecContext(ctx, r.DB.Rebind(`
		UPDATE stages SET completed = TRUE, end_date = ? WHERE id = ? AND user_id = ?
	`), endDate, stageID, userID)
	if err != nil {
		return fmt.Errorf("complete stage: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("complete stage: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("stage %d: %w", stageID, ErrNotFound)
	}
	return nil
}

// GetActive returns the user's open stage, or ErrNotFound.
func (r *StageRepository) GetActive(ctx context.Context, userID int64) (*models.Stage, error) {
	var s models.Stage
	err := r.DB.GetContext(ctx, &s, r.DB.Rebind(`
		SELECT `+stageColumns+` FROM stages
		WHERE user_id = ? AND completed = FALSE
		ORDER BY id DESC LIMIT 1
	`), userID)
	if err != nil {
		return nil, fmt.Errorf("GetActive: %w", notFound(err))
	}
	return &s, nil
}

// GetByID returns a stage by id, or ErrNotFound.
func (r *StageRepository) GetByID(ctx context.Context, stageID int64) (*models.Stage, error) {
	var s models.Stage
	err := r.DB.GetContext(ctx, &s, r.DB.Rebind(`SELECT `+stageColumns+` FROM stages WHERE id = ?`), stageID)
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", notFound(err))
	}
	return &s, nil
}
