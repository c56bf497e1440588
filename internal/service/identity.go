package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atinyakov/DietJournal/internal/models"
	"github.com/atinyakov/DietJournal/internal/repository"
)

// UserRepository defines the persistence operations
// required by the identity resolver.
type UserRepository interface {
	// GetByUsername returns repository.ErrNotFound when no user matches.
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// GetByID returns repository.ErrNotFound when no user matches.
	GetByID(ctx context.Context, id int64) (*models.User, error)
	// Create returns repository.ErrDuplicate when the username is taken.
	Create(ctx context.Context, username string) (int64, error)
}

// ActiveStageFinder looks up a user's open stage.
type ActiveStageFinder interface {
	// GetActive returns repository.ErrNotFound when the user has no open stage.
	GetActive(ctx context.Context, userID int64) (*models.Stage, error)
}

// Identity is the result of logging in or checking a user.
type Identity struct {
	User models.User
	// IsNew is true when the user was created by this login.
	IsNew bool
	// CurrentStage is the user's open stage, or nil.
	CurrentStage *models.Stage
}

// IdentityService resolves usernames to users. Login is lookup-or-create;
// there are no passwords, sessions or tokens.
type IdentityService struct {
	users  UserRepository
	stages ActiveStageFinder
}

// NewIdentityService constructs an IdentityService.
func NewIdentityService(users UserRepository, stages ActiveStageFinder) *IdentityService {
	return &IdentityService{users: users, stages: stages}
}

// Resolve logs a user in by username, creating the user on first login.
func (s *IdentityService) Resolve(ctx context.Context, username string) (*Identity, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, invalid("username is required")
	}

	u, err := s.users.GetByUsername(ctx, username)
	switch {
	case err == nil:
		return s.withStage(ctx, *u)
	case !errors.Is(err, repository.ErrNotFound):
		return nil, internal(err)
	}

	id, err := s.users.Create(ctx, username)
	if errors.Is(err, repository.ErrDuplicate) {
		// lost a race with a concurrent login of the same name
		u, err := s.users.GetByUsername(ctx, username)
		if err != nil {
			return nil, internal(err)
		}
		return s.withStage(ctx, *u)
	}
	if err != nil {
		return nil, internal(err)
	}

	return &Identity{User: models.User{ID: id, Username: username}, IsNew: true}, nil
}

// GetByID returns the user and their open stage, or ErrNotFound.
func (s *IdentityService) GetByID(ctx context.Context, userID int64) (*Identity, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	u, err := s.users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	if err != nil {
		return nil, internal(err)
	}
	return s.withStage(ctx, *u)
}

func (s *IdentityService) withStage(ctx context.Context, u models.User) (*Identity, error) {
	stage, err := s.stages.GetActive(ctx, u.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, internal(err)
	}
	return &Identity{User: u, CurrentStage: stage}, nil
}
