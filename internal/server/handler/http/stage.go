package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/DietJournal/internal/models"
	"go.uber.org/zap"
)

// StageService defines the stage lifecycle operations required by the StageHandler.
type StageService interface {
	Create(ctx context.Context, userID int64, stageType, startDate string, initialWeight float64) (int64, error)
	Complete(ctx context.Context, userID, stageID int64) error
	// Active returns nil when the user has no open stage.
	Active(ctx context.Context, userID int64) (*models.Stage, error)
}

// StageHandler handles creating, completing and reading program stages.
type StageHandler struct {
	Stages StageService
	Log    *zap.Logger
}

// CreateStageRequest represents the JSON payload for opening a stage.
type CreateStageRequest struct {
	UserID        int64   `json:"user_id"`
	StageType     string  `json:"stage_type"`
	StartDate     string  `json:"start_date"`
	InitialWeight float64 `json:"initial_weight"`
}

// CompleteStageRequest represents the JSON payload for completing a stage.
type CompleteStageRequest struct {
	UserID  int64 `json:"user_id"`
	StageID int64 `json:"stage_id"`
}

// Create handles POST /api/stage/create.
func (h *StageHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateStageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	id, err := h.Stages.Create(r.Context(), req.UserID, req.StageType, req.StartDate, req.InitialWeight)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeOK(w, envelope{"stage_id": id, "message": "stage created"})
}

// Complete handles POST /api/stage/complete.
func (h *StageHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req CompleteStageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	if err := h.Stages.Complete(r.Context(), req.UserID, req.StageID); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeOK(w, envelope{"message": "stage completed"})
}

// Current handles GET /api/stage/current/{userID}. "stage" is null when
// the user has no open stage.
func (h *StageHandler) Current(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	stage, err := h.Stages.Active(r.Context(), userID)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeOK(w, envelope{"stage": stage})
}
