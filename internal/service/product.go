package service

import (
	"context"
	"strings"

	"github.com/atinyakov/DietJournal/internal/models"
)

// ProductRepository defines the persistence operations needed by the ProductService.
type ProductRepository interface {
	Add(ctx context.Context, p models.Product) (int64, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Product, error)
	Search(ctx context.Context, userID int64, query string) ([]models.Product, error)
}

// ProductService manages a user's personal food catalog.
type ProductService struct {
	repo ProductRepository
}

// NewProductService constructs a ProductService.
func NewProductService(repo ProductRepository) *ProductService {
	return &ProductService{repo: repo}
}

// Add stores a product and returns its id. Names need not be unique.
func (s *ProductService) Add(ctx context.Context, userID int64, name string, caloriesPer100g float64) (int64, error) {
	if err := requireID("user_id", userID); err != nil {
		return 0, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, invalid("product_name is required")
	}
	if caloriesPer100g <= 0 {
		return 0, invalid("calories_per_100g must be positive")
	}

	id, err := s.repo.Add(ctx, models.Product{UserID: userID, Name: name, CaloriesPer100g: caloriesPer100g})
	if err != nil {
		return 0, internal(err)
	}
	return id, nil
}

// List returns every product of the user.
func (s *ProductService) List(ctx context.Context, userID int64) ([]models.Product, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	products, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, internal(err)
	}
	return products, nil
}

// Search returns the user's products whose name contains query,
// case-sensitively. An empty query matches everything.
func (s *ProductService) Search(ctx context.Context, userID int64, query string) ([]models.Product, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	products, err := s.repo.Search(ctx, userID, query)
	if err != nil {
		return nil, internal(err)
	}
	return products, nil
}
