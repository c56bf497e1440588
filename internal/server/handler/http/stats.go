package http

import (
	"context"
	"net/http"

	"github.com/atinyakov/DietJournal/internal/models"
	"go.uber.org/zap"
)

// WeightStatsService defines the statistics operations required by the StatsHandler.
type WeightStatsService interface {
	WeightStatistics(ctx context.Context, userID int64, days int) ([]models.WeightStat, error)
	WeightSummary(ctx context.Context, userID int64, days int) (*models.WeightSummary, error)
}

// StatsHandler handles weight statistics.
type StatsHandler struct {
	Stats WeightStatsService
	Log   *zap.Logger
}

// Weight handles GET /api/stats/weight/{userID}?days=.
func (h *StatsHandler) Weight(w http.ResponseWriter, r *http.Request) {
	userID, days, err := statsParams(r)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	points, err := h.Stats.WeightStatistics(r.Context(), userID, days)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeOK(w, envelope{"stats": points})
}

// Summary handles GET /api/stats/weight/{userID}/summary?days=.
func (h *StatsHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, days, err := statsParams(r)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	summary, err := h.Stats.WeightSummary(r.Context(), userID, days)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeOK(w, envelope{"summary": summary})
}

func statsParams(r *http.Request) (int64, int, error) {
	userID, err := userIDParam(r)
	if err != nil {
		return 0, 0, err
	}
	days, err := intQuery(r, "days")
	if err != nil {
		return 0, 0, err
	}
	return userID, days, nil
}
