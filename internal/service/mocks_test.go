package service

import (
	"context"

	"github.com/atinyakov/DietJournal/internal/models"
	"github.com/atinyakov/DietJournal/internal/repository"
)

type mockUserRepo struct {
	GetByUsernameFunc func(ctx context.Context, username string) (*models.User, error)
	GetByIDFunc       func(ctx context.Context, id int64) (*models.User, error)
	CreateFunc        func(ctx context.Context, username string) (int64, error)
}

func (m *mockUserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return m.GetByUsernameFunc(ctx, username)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *mockUserRepo) Create(ctx context.Context, username string) (int64, error) {
	return m.CreateFunc(ctx, username)
}

type mockStageRepo struct {
	CreateOpenFunc func(ctx context.Context, stage models.Stage) (int64, error)
	CompleteFunc   func(ctx context.Context, userID, stageID int64, endDate string) error
	GetActiveFunc  func(ctx context.Context, userID int64) (*models.Stage, error)
	GetByIDFunc    func(ctx context.Context, stageID int64) (*models.Stage, error)
}

func (m *mockStageRepo) CreateOpen(ctx context.Context, stage models.Stage) (int64, error) {
	return m.CreateOpenFunc(ctx, stage)
}
func (m *mockStageRepo) Complete(ctx context.Context, userID, stageID int64, endDate string) error {
	return m.CompleteFunc(ctx, userID, stageID, endDate)
}
func (m *mockStageRepo) GetActive(ctx context.Context, userID int64) (*models.Stage, error) {
	if m.GetActiveFunc == nil {
		return nil, repository.ErrNotFound
	}
	return m.GetActiveFunc(ctx, userID)
}
func (m *mockStageRepo) GetByID(ctx context.Context, stageID int64) (*models.Stage, error) {
	return m.GetByIDFunc(ctx, stageID)
}

type mockEntryRepo struct {
	InsertFunc     func(ctx context.Context, row repository.EntryRow) (int64, error)
	GetByDateFunc  func(ctx context.Context, userID int64, date string) (*repository.EntryRow, error)
	ListRecentFunc func(ctx context.Context, userID int64, limit int) ([]repository.EntryRow, error)
}

func (m *mockEntryRepo) Insert(ctx context.Context, row repository.EntryRow) (int64, error) {
	return m.InsertFunc(ctx, row)
}
func (m *mockEntryRepo) GetByDate(ctx context.Context, userID int64, date string) (*repository.EntryRow, error) {
	return m.GetByDateFunc(ctx, userID, date)
}
func (m *mockEntryRepo) ListRecent(ctx context.Context, userID int64, limit int) ([]repository.EntryRow, error) {
	return m.ListRecentFunc(ctx, userID, limit)
}

type mockProductRepo struct {
	AddFunc        func(ctx context.Context, p models.Product) (int64, error)
	ListByUserFunc func(ctx context.Context, userID int64) ([]models.Product, error)
	SearchFunc     func(ctx context.Context, userID int64, query string) ([]models.Product, error)
}

func (m *mockProductRepo) Add(ctx context.Context, p models.Product) (int64, error) {
	return m.AddFunc(ctx, p)
}
func (m *mockProductRepo) ListByUser(ctx context.Context, userID int64) ([]models.Product, error) {
	return m.ListByUserFunc(ctx, userID)
}
func (m *mockProductRepo) Search(ctx context.Context, userID int64, query string) ([]models.Product, error) {
	return m.SearchFunc(ctx, userID, query)
}
