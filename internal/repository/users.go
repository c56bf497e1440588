package repository

import (
	"context"
	"fmt"

	"github.com/atinyakov/DietJournal/internal/models"
	"github.com/jmoiron/sqlx"
)

// UserRepository stores journal users.
type UserRepository struct {
	// DB is the database handle for executing queries.
	DB *sqlx.DB
}

// NewUserRepository creates a UserRepository on the given connection.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{DB: db}
}

// GetByUsername returns the user with exactly this username, or ErrNotFound.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.DB.GetContext(ctx, &u, r.DB.Rebind(`SELECT id, username FROM users WHERE username = ?`), username)
	if err != nil {
		return nil, fmt.Errorf("GetByUsername: %w", notFound(err))
	}
	return &u, nil
}

// GetByID returns the user with the given id, or ErrNotFound.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := r.DB.GetContext(ctx, &u, r.DB.Rebind(`SELECT id, username FROM users WHERE id = ?`), id)
	if err != nil {
		return nil, fmt.Errorf("GetByID: %w", notFound(err))
	}
	return &u, nil
}

// Create inserts a user and returns its id. A taken username yields ErrDuplicate.
func (r *UserRepository) Create(ctx context.Context, username string) (int64, error) {
	var id int64
	err := r.DB.QueryRowxContext(ctx, r.DB.Rebind(`INSERT INTO users (username) VALUES (?) RETURNING id`), username).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("create user %q: %w", username, ErrDuplicate)
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return id, nil
}
