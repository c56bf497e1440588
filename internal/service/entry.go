package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/atinyakov/DietJournal/internal/models"
	"github.com/atinyakov/DietJournal/internal/repository"
	"github.com/montanaflynn/stats"
)

const (
	defaultWindow = 30
	maxWindow     = 365
)

// EntryRepository defines the persistence operations needed by the EntryService.
type EntryRepository interface {
	Insert(ctx context.Context, row repository.EntryRow) (int64, error)
	// GetByDate returns repository.ErrNotFound when the date has no entry.
	GetByDate(ctx context.Context, userID int64, date string) (*repository.EntryRow, error)
	ListRecent(ctx context.Context, userID int64, limit int) ([]repository.EntryRow, error)
}

// SaveEntryInput is one day's record as submitted by the user.
type SaveEntryInput struct {
	UserID      int64
	StageID     int64
	EntryDate   string
	DailyParams models.DailyParams
	Meals       []models.Meal
}

// EntryService records daily entries and derives weight statistics from them.
type EntryService struct {
	repo EntryRepository
}

// NewEntryService constructs an EntryService.
func NewEntryService(repo EntryRepository) *EntryService {
	return &EntryService{repo: repo}
}

// Save stores a new entry and returns its id. Saving a date that already has
// an entry stores a newer revision; GetByDate returns the latest one.
// The stage is not checked to be open or to cover the date.
func (s *EntryService) Save(ctx context.Context, in SaveEntryInput) (int64, error) {
	if err := requireID("user_id", in.UserID); err != nil {
		return 0, err
	}
	if err := requireID("stage_id", in.StageID); err != nil {
		return 0, err
	}
	date, err := requireDate("entry_date", in.EntryDate)
	if err != nil {
		return 0, err
	}
	meals := in.Meals
	if meals == nil {
		meals = []models.Meal{}
	}
	for i, m := range meals {
		if m.Mass.Valid && m.Mass.Value < 0 {
			return 0, invalid("meal %d: mass must not be negative", i+1)
		}
		if m.Kcal.Valid && m.Kcal.Value < 0 {
			return 0, invalid("meal %d: kcal must not be negative", i+1)
		}
	}

	params, err := json.Marshal(in.DailyParams)
	if err != nil {
		return 0, internal(fmt.Errorf("encode daily params: %w", err))
	}
	mealsJSON, err := json.Marshal(meals)
	if err != nil {
		return 0, internal(fmt.Errorf("encode meals: %w", err))
	}

	id, err := s.repo.Insert(ctx, repository.EntryRow{
		UserID:      in.UserID,
		StageID:     in.StageID,
		EntryDate:   date,
		DailyParams: string(params),
		Meals:       string(mealsJSON),
	})
	if err != nil {
		return 0, internal(err)
	}
	return id, nil
}

// GetByDate returns the user's entry for date, or nil when there is none.
func (s *EntryService) GetByDate(ctx context.Context, userID int64, date string) (*models.Entry, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	date, err := requireDate("date", date)
	if err != nil {
		return nil, err
	}

	row, err := s.repo.GetByDate(ctx, userID, date)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, internal(err)
	}
	e := toEntry(*row)
	return &e, nil
}

// History returns up to limit entries, newest entry date first.
// A non-positive limit means 30.
func (s *EntryService) History(ctx context.Context, userID int64, limit int) ([]models.Entry, error) {
	rows, err := s.recent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]models.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, toEntry(row))
	}
	return entries, nil
}

// WeightStatistics returns the weight figures of the last days entries,
// most recent first. Entries with unreadable payloads yield null figures.
func (s *EntryService) WeightStatistics(ctx context.Context, userID int64, days int) ([]models.WeightStat, error) {
	rows, err := s.recent(ctx, userID, days)
	if err != nil {
		return nil, err
	}
	out := make([]models.WeightStat, 0, len(rows))
	for _, row := range rows {
		p, err := models.DecodeDailyParams(row.DailyParams)
		if err != nil {
			p = models.DailyParams{}
		}
		out = append(out, models.WeightStat{
			Date:       row.EntryDate,
			Weight:     p.MorningWeight.Ptr(),
			NextWeight: p.NextMorningWeight.Ptr(),
			LostWeight: p.WeightLost.Ptr(),
		})
	}
	return out, nil
}

// WeightSummary aggregates the morning weights of the same window as
// WeightStatistics. Days is zero when no entry in the window has a weight.
func (s *EntryService) WeightSummary(ctx context.Context, userID int64, days int) (*models.WeightSummary, error) {
	points, err := s.WeightStatistics(ctx, userID, days)
	if err != nil {
		return nil, err
	}

	// chronological order
	var weights stats.Float64Data
	for i := len(points) - 1; i >= 0; i-- {
		if w := points[i].Weight; w != nil {
			weights = append(weights, *w)
		}
	}
	if len(weights) == 0 {
		return &models.WeightSummary{}, nil
	}

	mean, err := weights.Mean()
	if err != nil {
		return nil, internal(err)
	}
	lo, err := weights.Min()
	if err != nil {
		return nil, internal(err)
	}
	hi, err := weights.Max()
	if err != nil {
		return nil, internal(err)
	}
	first, last := weights[0], weights[len(weights)-1]

	return &models.WeightSummary{
		Days:   len(weights),
		First:  first,
		Last:   last,
		Min:    lo,
		Max:    hi,
		Mean:   round2(mean),
		Change: round2(last - first),
	}, nil
}

func (s *EntryService) recent(ctx context.Context, userID int64, limit int) ([]repository.EntryRow, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultWindow
	}
	if limit > maxWindow {
		limit = maxWindow
	}
	rows, err := s.repo.ListRecent(ctx, userID, limit)
	if err != nil {
		return nil, internal(err)
	}
	return rows, nil
}

// toEntry decodes a stored row. Unreadable payloads decode as empty.
func toEntry(row repository.EntryRow) models.Entry {
	params, err := models.DecodeDailyParams(row.DailyParams)
	if err != nil {
		params = models.DailyParams{}
	}
	meals, err := models.DecodeMeals(row.Meals)
	if err != nil {
		meals = []models.Meal{}
	}
	return models.Entry{
		ID:          row.ID,
		UserID:      row.UserID,
		StageID:     row.StageID,
		EntryDate:   row.EntryDate,
		DailyParams: params,
		Meals:       meals,
	}
}

func round2(v float64) float64 {
	r, err := stats.Round(v, 2)
	if err != nil {
		return v
	}
	return r
}
