package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cloo-solutions/documind/internal/api"
	"github.com/cloo-solutions/documind/internal/api/handlers"
	"github.com/cloo-solutions/documind/internal/api/middleware"
)

// Pinger checks database connectivity for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

type RouterConfig struct {
	DocumentHandler *handlers.DocumentHandler
	ChatHandler     *handlers.ChatHandler
	DB              Pinger
	MaxBodyBytes    int64
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(cfg.MaxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if cfg.DB != nil {
			if err := cfg.DB.Ping(req.Context()); err != nil {
				api.JSON(w, http.StatusServiceUnavailable, map[string]string{
					"status":   "down",
					"database": "disconnected",
				})
				return
			}
		}
		api.JSON(w, http.StatusOK, map[string]string{
			"status":   "up",
			"database": "connected",
		})
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/docs", func(r chi.Router) {
			r.Post("/upload", cfg.DocumentHandler.Upload)
			r.Get("/status/{jobID}", cfg.DocumentHandler.Status)
			r.Delete("/", cfg.DocumentHandler.Reset)
		})

		r.Post("/chat", cfg.ChatHandler.Ask)
	})

	return r
}
