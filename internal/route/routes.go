package route

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"cloudriddle/internal/handler"
	"cloudriddle/internal/logger"
	"cloudriddle/internal/middleware"
	"cloudriddle/internal/service"
	"cloudriddle/internal/service/session"
	"cloudriddle/internal/service/websocket"
)

// SetupRoutes registers the riddle, time-lapse, history, notification and log
// endpoints. Page endpoints run inside the session middleware.
func SetupRoutes(manager *service.Manager, hub *websocket.HubService, sessions *session.Store, logger *logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.SessionMiddleware(sessions))

			r.Get("/riddle", handler.RiddleHandler(manager, logger))
			r.Post("/riddle/check", handler.CheckCloudHandler(manager, logger))
			r.Post("/riddle/confirm", handler.ConfirmHandler(manager, logger))
			r.Post("/riddle/submit", handler.SubmitGuessHandler(manager, logger))
			r.Post("/riddle/next", handler.NextCloudHandler(manager, logger))

			r.Get("/timelapse", handler.AlbumHandler(manager, logger))
			r.Post("/timelapse/details", handler.ViewDetailsHandler(manager, logger))
			r.Post("/timelapse/back", handler.BackToAlbumHandler(manager, logger))
		})

		r.Get("/objects/{name}", handler.ObjectHandler(manager, logger))

		r.Get("/history", handler.HistoryHandler(manager, logger))
		r.Get("/history/stats", handler.HistoryStatsHandler(manager, logger))
		r.Delete("/history/{id}", handler.DeleteRiddleHandler(manager, logger))
		r.Post("/history/clear", handler.ClearHistoryHandler(manager, logger))

		r.Get("/notifications", handler.NotificationsHandler(hub, logger))
	})

	r.Get("/logs/{level}", handler.ShowLogsHandler(logger))
	r.Post("/logs/{level}/clear", handler.ClearLogsHandler(logger))

	return r
}
