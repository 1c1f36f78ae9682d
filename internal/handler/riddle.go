package handler

import (
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"cloudriddle/internal/dto"
	"cloudriddle/internal/logger"
	"cloudriddle/internal/service"
	"cloudriddle/internal/service/session"
)

// maxGuessLength bounds the free-text guess stored with a riddle.
const maxGuessLength = 200

type guessRequest struct {
	Guess string `json:"guess"`
}

type riddleAction func(m *service.Manager, r *http.Request, sess *session.Session) (*dto.RiddleView, error)

// riddleHandler runs one riddle interaction for the request's session.
func riddleHandler(manager *service.Manager, logger *logger.Logger, action riddleAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requestSession(w, r, logger)
		if !ok {
			return
		}

		view, err := action(manager, r, sess)
		if err != nil {
			writeError(w, logger.With("session", sess.ID), err)
			return
		}
		writeJSON(w, logger, http.StatusOK, view)
	}
}

// RiddleHandler returns the riddle page state.
func RiddleHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return riddleHandler(manager, logger, func(m *service.Manager, r *http.Request, sess *session.Session) (*dto.RiddleView, error) {
		return m.Riddle(r.Context(), sess)
	})
}

// CheckCloudHandler loads the newest cloud photo and sensor readings.
func CheckCloudHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return riddleHandler(manager, logger, func(m *service.Manager, r *http.Request, sess *session.Session) (*dto.RiddleView, error) {
		return m.CheckCloud(r.Context(), sess)
	})
}

// ConfirmHandler moves on to the guess page.
func ConfirmHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return riddleHandler(manager, logger, func(m *service.Manager, r *http.Request, sess *session.Session) (*dto.RiddleView, error) {
		return m.Confirm(r.Context(), sess)
	})
}

// SubmitGuessHandler records the user's guess and reveals the model's answers.
func SubmitGuessHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req guessRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, logger, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
		guess := strings.TrimSpace(req.Guess)
		if runes := []rune(guess); len(runes) > maxGuessLength {
			guess = string(runes[:maxGuessLength])
		}

		riddleHandler(manager, logger, func(m *service.Manager, r *http.Request, sess *session.Session) (*dto.RiddleView, error) {
			return m.SubmitGuess(r.Context(), sess, guess)
		})(w, r)
	}
}

// NextCloudHandler starts a new riddle with the newest cloud.
func NextCloudHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return riddleHandler(manager, logger, func(m *service.Manager, r *http.Request, sess *session.Session) (*dto.RiddleView, error) {
		return m.NextCloud(r.Context(), sess)
	})
}
