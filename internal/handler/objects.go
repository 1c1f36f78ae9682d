package handler

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"cloudriddle/internal/logger"
	"cloudriddle/internal/service"
)

// ObjectHandler serves the raw bytes of one photo or sensor object.
func ObjectHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if name == "" {
			http.Error(w, "Object name is required", http.StatusBadRequest)
			return
		}

		data, contentType, err := manager.Object(r.Context(), name)
		if err != nil {
			writeError(w, logger, err)
			return
		}

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}
