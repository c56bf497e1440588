package repository

import (
	"context"
	"fmt"

	"github.com/atinyakov/DietJournal/internal/models"
	"github.com/jmoiron/sqlx"
)

const productColumns = `id, user_id, product_name, calories_per_100g`

// ProductRepository stores the per-user product catalog.
type ProductRepository struct {
	// DB is the database handle for executing queries.
	DB *sqlx.DB
}

// NewProductRepository creates a ProductRepository on the given connection.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{DB: db}
}

// Add inserts a product and returns its id. Duplicate names are allowed.
func (r *ProductRepository) Add(ctx context.Context, p models.Product) (int64, error) {
	var id int64
	err := r.DB.QueryRowxContext(ctx, r.DB.Rebind(`
		INSERT INTO products (user_id, product_name, calories_per_100g)
		VALUES (?, ?, ?)
		RETURNING id
	`), p.UserID, p.Name, p.CaloriesPer100g).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	return id, nil
}

// ListByUser returns all of the user's products.
func (r *ProductRepository) ListByUser(ctx context.Context, userID int64) ([]models.Product, error) {
	products := []models.Product{}
	err := r.DB.SelectContext(ctx, &products, r.DB.Rebind(`
		SELECT `+productColumns+` FROM products WHERE user_id = ? ORDER BY id
	`), userID)
	if err != nil {
		return nil, fmt.Errorf("ListByUser: %w", err)
	}
	return products, nil
}

// Search returns the user's products whose name contains query.
// Matching is case-sensitive and treats every character literally.
func (r *ProductRepository) Search(ctx context.Context, userID int64, query string) ([]models.Product, error) {
	if query == "" {
		return r.ListByUser(ctx, userID)
	}

	contains := `instr(product_name, ?) > 0`
	if r.DB.DriverName() == "postgres" {
		contains = `strpos(product_name, ?) > 0`
	}

	products := []models.Product{}
	err := r.DB.SelectContext(ctx, &products, r.DB.Rebind(`
		SELECT `+productColumns+` FROM products WHERE user_id = ? AND `+contains+` ORDER BY id
	`), userID, query)
	if err != nil {
		return nil, fmt.Errorf("Search: %w", err)
	}
	return products, nil
}
