// Package http provides the JSON HTTP API of the diet journal.
package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/DietJournal/internal/service"
	"go.uber.org/zap"
)

// IdentityService defines the identity operations required by the AuthHandler.
type IdentityService interface {
	// Resolve logs a user in by username, creating the user on first login.
	Resolve(ctx context.Context, username string) (*service.Identity, error)
	// GetByID returns the user and their open stage.
	GetByID(ctx context.Context, userID int64) (*service.Identity, error)
}

// AuthHandler handles username login and user checks.
type AuthHandler struct {
	Identity IdentityService
	Log      *zap.Logger
}

// LoginRequest represents the JSON payload for login.
type LoginRequest struct {
	Username string `json:"username"`
}

// CheckRequest represents the JSON payload for a user check.
type CheckRequest struct {
	UserID int64 `json:"user_id"`
}

// Login handles POST /api/auth/login. Unknown usernames are registered.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	id, err := h.Identity.Resolve(r.Context(), req.Username)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	writeOK(w, envelope{
		"user_id":       id.User.ID,
		"username":      id.User.Username,
		"is_new":        id.IsNew,
		"current_stage": id.CurrentStage,
	})
}

// Check handles POST /api/auth/check.
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	id, err := h.Identity.GetByID(r.Context(), req.UserID)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	writeOK(w, envelope{
		"user_id":       id.User.ID,
		"username":      id.User.Username,
		"current_stage": id.CurrentStage,
	})
}
