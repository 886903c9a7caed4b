package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// SetupRoutes configures all API routes.
func SetupRoutes(h *Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", h.GetDashboard)

		r.Route("/watcher", func(r chi.Router) {
			r.Get("/status", h.GetWatcherStatus)
			r.Post("/trigger", h.TriggerWatcher)
		})

		r.Route("/shops", func(r chi.Router) {
			r.Get("/", h.ListShops)
			r.Get("/export", h.ExportShops)
			r.Post("/upload", h.UploadShops)
			r.Get("/upload/{uploadId}/progress", h.GetUploadProgress)
			r.Get("/{domain}", h.GetShop)
		})
	})

	return r
}
