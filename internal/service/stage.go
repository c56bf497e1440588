package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/atinyakov/DietJournal/internal/models"
	"github.com/atinyakov/DietJournal/internal/repository"
)

// StageRepository defines the persistence operations needed by the StageService.
type StageRepository interface {
	ActiveStageFinder
	// CreateOpen inserts an open stage, returning repository.ErrDuplicate
	// when the user already has one.
	CreateOpen(ctx context.Context, stage models.Stage) (int64, error)
	// Complete closes a stage owned by userID, returning repository.ErrNotFound
	// when there is no such stage.
	Complete(ctx context.Context, userID, stageID int64, endDate string) error
	// GetByID returns repository.ErrNotFound for an unknown stage.
	GetByID(ctx context.Context, stageID int64) (*models.Stage, error)
}

// StageService enforces the stage lifecycle: no stage → open → completed,
// with at most one open stage per user.
type StageService struct {
	repo StageRepository
	now  func() time.Time
}

// NewStageService constructs a StageService. now supplies the completion
// date; nil means time.Now.
func NewStageService(repo StageRepository, now func() time.Time) *StageService {
	if now == nil {
		now = time.Now
	}
	return &StageService{repo: repo, now: now}
}

// Create opens a new stage for the user and returns its id.
// It fails with ErrConflict while another stage is open.
func (s *StageService) Create(ctx context.Context, userID int64, stageType, startDate string, initialWeight float64) (int64, error) {
	if err := requireID("user_id", userID); err != nil {
		return 0, err
	}
	stageType = strings.TrimSpace(stageType)
	if stageType == "" {
		return 0, invalid("stage_type is required")
	}
	startDate, err := requireDate("start_date", startDate)
	if err != nil {
		return 0, err
	}
	if initialWeight <= 0 {
		return 0, invalid("initial_weight must be positive")
	}

	id, err := s.repo.CreateOpen(ctx, models.Stage{
		UserID:        userID,
		StageType:     stageType,
		StartDate:     startDate,
		InitialWeight: initialWeight,
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return 0, fmt.Errorf("%w: an active stage already exists, complete it first", ErrConflict)
	}
	if err != nil {
		return 0, internal(err)
	}
	return id, nil
}

// Complete marks the user's stage completed with today's date as end date.
// Completing an already completed stage moves its end date to today.
func (s *StageService) Complete(ctx context.Context, userID, stageID int64) error {
	if err := requireID("user_id", userID); err != nil {
		return err
	}
	if err := requireID("stage_id", stageID); err != nil {
		return err
	}

	err := s.repo.Complete(ctx, userID, stageID, s.now().Format(models.DateLayout))
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: stage %d", ErrNotFound, stageID)
	}
	if err != nil {
		return internal(err)
	}
	return nil
}

// Active returns the user's open stage, or nil when there is none.
func (s *StageService) Active(ctx context.Context, userID int64) (*models.Stage, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	stage, err := s.repo.GetActive(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, internal(err)
	}
	return stage, nil
}

// Get returns a stage by id, or ErrNotFound.
func (s *StageService) Get(ctx context.Context, stageID int64) (*models.Stage, error) {
	stage, err := s.repo.GetByID(ctx, stageID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: stage %d", ErrNotFound, stageID)
	}
	if err != nil {
		return nil, internal(err)
	}
	return stage, nil
}
