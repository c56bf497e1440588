package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/DietJournal/internal/models"
	"go.uber.org/zap"
)

// ProductService defines the catalog operations required by the ProductHandler.
type ProductService interface {
	Add(ctx context.Context, userID int64, name string, caloriesPer100g float64) (int64, error)
	List(ctx context.Context, userID int64) ([]models.Product, error)
	Search(ctx context.Context, userID int64, query string) ([]models.Product, error)
}

// ProductHandler handles the personal product catalog.
type ProductHandler struct {
	Products ProductService
	Log      *zap.Logger
}

// AddProductRequest represents the JSON payload for adding a product.
type AddProductRequest struct {
	UserID          int64   `json:"user_id"`
	ProductName     string  `json:"product_name"`
	CaloriesPer100g float64 `json:"calories_per_100g"`
}

// Add handles POST /api/products/add.
func (h *ProductHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req AddProductRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	id, err := h.Products.Add(r.Context(), req.UserID, req.ProductName, req.CaloriesPer100g)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeOK(w, envelope{"product_id": id, "message": "product added"})
}

// List handles GET /api/products/list/{userID}.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	products, err := h.Products.List(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeOK(w, envelope{"products": nonNil(products)})
}

// Search handles GET /api/products/search/{userID}?query=.
func (h *ProductHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	products, err := h.Products.Search(r.Context(), userID, r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeOK(w, envelope{"products": nonNil(products)})
}

func nonNil(p []models.Product) []models.Product {
	if p == nil {
		return []models.Product{}
	}
	return p
}
