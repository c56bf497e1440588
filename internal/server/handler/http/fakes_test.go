package http_test

import (
	"context"
	"net/http"

	"github.com/atinyakov/DietJournal/internal/models"
	handler "github.com/atinyakov/DietJournal/internal/server/handler/http"
	"github.com/atinyakov/DietJournal/internal/service"
	"go.uber.org/zap"
)

type fakeIdentity struct {
	ResolveFunc func(ctx context.Context, username string) (*service.Identity, error)
	GetByIDFunc func(ctx context.Context, userID int64) (*service.Identity, error)
}

func (f *fakeIdentity) Resolve(ctx context.Context, username string) (*service.Identity, error) {
	return f.ResolveFunc(ctx, username)
}

func (f *fakeIdentity) GetByID(ctx context.Context, userID int64) (*service.Identity, error) {
	return f.GetByIDFunc(ctx, userID)
}

type fakeStages struct {
	CreateFunc   func(ctx context.Context, userID int64, stageType, startDate string, initialWeight float64) (int64, error)
	CompleteFunc func(ctx context.Context, userID, stageID int64) error
	ActiveFunc   func(ctx context.Context, userID int64) (*models.Stage, error)
}

func (f *fakeStages) Create(ctx context.Context, userID int64, stageType, startDate string, initialWeight float64) (int64, error) {
	return f.CreateFunc(ctx, userID, stageType, startDate, initialWeight)
}

func (f *fakeStages) Complete(ctx context.Context, userID, stageID int64) error {
	return f.CompleteFunc(ctx, userID, stageID)
}

func (f *fakeStages) Active(ctx context.Context, userID int64) (*models.Stage, error) {
	return f.ActiveFunc(ctx, userID)
}

type fakeEntries struct {
	SaveFunc             func(ctx context.Context, in service.SaveEntryInput) (int64, error)
	GetByDateFunc        func(ctx context.Context, userID int64, date string) (*models.Entry, error)
	HistoryFunc          func(ctx context.Context, userID int64, limit int) ([]models.Entry, error)
	WeightStatisticsFunc func(ctx context.Context, userID int64, days int) ([]models.WeightStat, error)
	WeightSummaryFunc    func(ctx context.Context, userID int64, days int) (*models.WeightSummary, error)
}

func (f *fakeEntries) Save(ctx context.Context, in service.SaveEntryInput) (int64, error) {
	return f.SaveFunc(ctx, in)
}

func (f *fakeEntries) GetByDate(ctx context.Context, userID int64, date string) (*models.Entry, error) {
	return f.GetByDateFunc(ctx, userID, date)
}

func (f *fakeEntries) History(ctx context.Context, userID int64, limit int) ([]models.Entry, error) {
	return f.HistoryFunc(ctx, userID, limit)
}

func (f *fakeEntries) WeightStatistics(ctx context.Context, userID int64, days int) ([]models.WeightStat, error) {
	return f.WeightStatisticsFunc(ctx, userID, days)
}

func (f *fakeEntries) WeightSummary(ctx context.Context, userID int64, days int) (*models.WeightSummary, error) {
	return f.WeightSummaryFunc(ctx, userID, days)
}

type fakeProducts struct {
	AddFunc    func(ctx context.Context, userID int64, name string, caloriesPer100g float64) (int64, error)
	ListFunc   func(ctx context.Context, userID int64) ([]models.Product, error)
	SearchFunc func(ctx context.Context, userID int64, query string) ([]models.Product, error)
}

func (f *fakeProducts) Add(ctx context.Context, userID int64, name string, caloriesPer100g float64) (int64, error) {
	return f.AddFunc(ctx, userID, name, caloriesPer100g)
}

func (f *fakeProducts) List(ctx context.Context, userID int64) ([]models.Product, error) {
	return f.ListFunc(ctx, userID)
}

func (f *fakeProducts) Search(ctx context.Context, userID int64, query string) ([]models.Product, error) {
	return f.SearchFunc(ctx, userID, query)
}

type fakeReports struct {
	GenerateFunc func(ctx context.Context, userID int64, date, format string) (string, error)
	PathFunc     func(filename string) (string, error)
}

func (f *fakeReports) Generate(ctx context.Context, userID int64, date, format string) (string, error) {
	return f.GenerateFunc(ctx, userID, date, format)
}

func (f *fakeReports) Path(filename string) (string, error) {
	return f.PathFunc(filename)
}

type fakePinger struct {
	err error
}

func (f *fakePinger) PingContext(ctx context.Context) error {
	return f.err
}

type fakes struct {
	identity *fakeIdentity
	stages   *fakeStages
	entries  *fakeEntries
	products *fakeProducts
	reports  *fakeReports
	db       *fakePinger
	log      *zap.Logger
}

func newFakes() *fakes {
	return &fakes{
		identity: &fakeIdentity{},
		stages:   &fakeStages{},
		entries:  &fakeEntries{},
		products: &fakeProducts{},
		reports:  &fakeReports{},
		db:       &fakePinger{},
		log:      zap.NewNop(),
	}
}

func (f *fakes) router() http.Handler {
	log := f.log
	return handler.NewRouter(handler.Handlers{
		Auth:    &handler.AuthHandler{Identity: f.identity, Log: log},
		Stage:   &handler.StageHandler{Stages: f.stages, Log: log},
		Entry:   &handler.EntryHandler{Entries: f.entries, Log: log},
		Product: &handler.ProductHandler{Products: f.products, Log: log},
		Report:  &handler.ReportHandler{Reports: f.reports, Log: log},
		Stats:   &handler.StatsHandler{Stats: f.entries, Log: log},
		Health:  &handler.HealthHandler{DB: f.db, Log: log},
	}, log)
}
