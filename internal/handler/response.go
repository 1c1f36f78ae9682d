package handler

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"cloudriddle/internal/blob"
	"cloudriddle/internal/logger"
	"cloudriddle/internal/middleware"
	"cloudriddle/internal/service"
	"cloudriddle/internal/service/session"
)

// errorResponse is the JSON body of every failed API call.
type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, blob.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, blob.ErrDecode):
		return http.StatusUnprocessableEntity
	case errors.Is(err, blob.ErrStoreUnavailable), errors.Is(err, blob.ErrInference):
		return http.StatusBadGateway
	case errors.Is(err, blob.ErrUnknownPrefix), errors.Is(err, blob.ErrMalformedName),
		errors.Is(err, service.ErrInvalidIndex):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrInvalidTransition), errors.Is(err, session.ErrNoPhoto),
		errors.Is(err, session.ErrAnalysisPending):
		return http.StatusConflict
	case errors.Is(err, service.ErrHistoryDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err and writes it with the matching status.
func writeError(w http.ResponseWriter, logger *logger.Logger, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed: %v", err)
	} else {
		logger.Warning("Request rejected: %v", err)
	}

	message := err.Error()
	if status == http.StatusNotFound {
		message = "Nothing to show yet: " + message
	}
	writeJSON(w, logger, status, errorResponse{Error: message})
}

// writeJSON encodes v as the response body.
func writeJSON(w http.ResponseWriter, logger *logger.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding JSON response: %v", err)
	}
}

// requestSession returns the session attached by the session middleware.
func requestSession(w http.ResponseWriter, r *http.Request, logger *logger.Logger) (*session.Session, bool) {
	sess, ok := middleware.SessionFrom(r.Context())
	if !ok {
		logger.Error("No session on request %s", r.URL.Path)
		writeJSON(w, logger, http.StatusInternalServerError, errorResponse{Error: "no session"})
	}
	return sess, ok
}
