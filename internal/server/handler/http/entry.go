package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/atinyakov/DietJournal/internal/middleware"
	"github.com/atinyakov/DietJournal/internal/models"
	"github.com/atinyakov/DietJournal/internal/service"
	"go.uber.org/zap"
)

// EntryService defines the daily entry operations required by the EntryHandler.
type EntryService interface {
	Save(ctx context.Context, in service.SaveEntryInput) (int64, error)
	// GetByDate returns nil when the date has no entry.
	GetByDate(ctx context.Context, userID int64, date string) (*models.Entry, error)
	History(ctx context.Context, userID int64, limit int) ([]models.Entry, error)
}

// EntryHandler handles saving and reading daily entries.
type EntryHandler struct {
	Entries EntryService
	Log     *zap.Logger
}

// SaveEntryRequest represents the JSON payload for saving a day.
// Unknown daily parameter keys are dropped and logged at debug level.
type SaveEntryRequest struct {
	UserID      int64           `json:"user_id"`
	StageID     int64           `json:"stage_id"`
	EntryDate   string          `json:"entry_date"`
	DailyParams json.RawMessage `json:"daily_params"`
	Meals       []models.Meal   `json:"meals"`
}

// Save handles POST /api/entry/save.
func (h *EntryHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req SaveEntryRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	params, unknown, err := models.ParseDailyParams(req.DailyParams)
	if err != nil {
		writeError(w, r, h.Log, fmt.Errorf("%w: %v", service.ErrValidation, err))
		return
	}
	if len(unknown) > 0 {
		h.Log.Debug("unknown daily params dropped",
			zap.Strings("keys", unknown),
			zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
		)
	}

	id, err := h.Entries.Save(r.Context(), service.SaveEntryInput{
		UserID:      req.UserID,
		StageID:     req.StageID,
		EntryDate:   req.EntryDate,
		DailyParams: params,
		Meals:       req.Meals,
	})
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeOK(w, envelope{"entry_id": id, "message": "entry saved"})
}

// Get handles GET /api/entry/get?user_id=&date=. "entry" is null when
// nothing was recorded for the date.
func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID, err := strconv.ParseInt(q.Get("user_id"), 10, 64)
	if err != nil {
		writeError(w, r, h.Log, fmt.Errorf("%w: user_id is required", service.ErrValidation))
		return
	}

	entry, err := h.Entries.GetByDate(r.Context(), userID, q.Get("date"))
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeOK(w, envelope{"entry": entry})
}

// History handles GET /api/entry/history/{userID}?limit=.
func (h *EntryHandler) History(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDParam(r)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	limit, err := intQuery(r, "limit")
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	entries, err := h.Entries.History(r.Context(), userID, limit)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeOK(w, envelope{"entries": entries})
}
