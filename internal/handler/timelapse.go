package handler

import (
	"net/http"

	"github.com/goccy/go-json"

	"cloudriddle/internal/logger"
	"cloudriddle/internal/service"
)

type detailsRequest struct {
	Index int `json:"index"`
}

// AlbumHandler lists the newest photos of the time-lapse view.
func AlbumHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requestSession(w, r, logger)
		if !ok {
			return
		}

		view, err := manager.Album(r.Context(), sess)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, view)
	}
}

// ViewDetailsHandler opens one album photo.
func ViewDetailsHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requestSession(w, r, logger)
		if !ok {
			return
		}

		var req detailsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, logger, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}

		view, err := manager.ViewDetails(r.Context(), sess, req.Index)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, view)
	}
}

// BackToAlbumHandler returns from a photo to the album.
func BackToAlbumHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := requestSession(w, r, logger)
		if !ok {
			return
		}

		view, err := manager.BackToAlbum(r.Context(), sess)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, logger, http.StatusOK, view)
	}
}
