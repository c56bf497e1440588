package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/atinyakov/DietJournal/internal/middleware"
	"github.com/atinyakov/DietJournal/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// envelope is the body of every JSON response. "success" is set by the writers.
type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	if body == nil {
		body = envelope{}
	}
	body["success"] = status < http.StatusBadRequest
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeOK(w http.ResponseWriter, body envelope) {
	writeJSON(w, http.StatusOK, body)
}

// writeError maps a service error kind to its status code. Internal errors
// are logged and their details are not sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		if log != nil {
			log.Error("request failed",
				zap.String("path", r.URL.Path),
				zap.String("request_id", middleware.GetRequestIDFromContext(r.Context())),
				zap.Error(err),
			)
		}
		msg = "internal error"
	}
	writeJSON(w, status, envelope{"error": msg})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid request body: %v", service.ErrValidation, err)
	}
	return nil
}

// userIDParam reads the {userID} path segment.
func userIDParam(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "userID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid user id %q", service.ErrValidation, raw)
	}
	return id, nil
}

// intQuery reads an optional integer query parameter; absent means 0.
func intQuery(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", service.ErrValidation, name)
	}
	return n, nil
}
