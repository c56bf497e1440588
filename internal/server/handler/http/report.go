package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ReportGenerator defines the report operations required by the ReportHandler.
type ReportGenerator interface {
	Generate(ctx context.Context, userID int64, date, format string) (string, error)
	Path(filename string) (string, error)
}

// ReportHandler handles report generation and download.
type ReportHandler struct {
	Reports ReportGenerator
	Log     *zap.Logger
}

// GenerateReportRequest represents the JSON payload for a report.
type GenerateReportRequest struct {
	UserID int64  `json:"user_id"`
	Date   string `json:"date"`
	Format string `json:"format"`
}

// Generate handles POST /api/report/generate and answers with the
// download URL of the written report.
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateReportRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, h.Log, err)
		return
	}

	name, err := h.Reports.Generate(r.Context(), req.UserID, req.Date, req.Format)
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	writeOK(w, envelope{"report_url": "/reports/" + name, "message": "report generated"})
}

// Download handles GET /reports/{filename}.
func (h *ReportHandler) Download(w http.ResponseWriter, r *http.Request) {
	path, err := h.Reports.Path(chi.URLParam(r, "filename"))
	if err != nil {
		writeError(w, r, h.Log, err)
		return
	}
	// every format carries the HTML rendering
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	http.ServeFile(w, r, path)
}
