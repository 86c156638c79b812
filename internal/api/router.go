// Package api wires HTTP routes to the dashboard handlers.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/ndewijer/finance-dashboard/internal/api/handlers"
	custommiddleware "github.com/ndewijer/finance-dashboard/internal/api/middleware"
	"github.com/ndewijer/finance-dashboard/internal/config"
	"github.com/ndewijer/finance-dashboard/internal/service"
)

// Services groups the services the router exposes.
type Services struct {
	Dashboard *service.DashboardService
	Settings  *service.SettingsService
	System    *service.SystemService
}

// NewRouter creates and configures the HTTP router
func NewRouter(svc Services, cfg *config.Config, timezone *time.Location, logger logrus.FieldLogger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	dashboardHandler := handlers.NewDashboardHandler(svc.Dashboard, timezone, logger)
	r.Get("/", dashboardHandler.Page)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(svc.System)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/", dashboardHandler.Dashboard)
			r.Get("/positions.csv", dashboardHandler.PositionsCSV)
		})

		r.Route("/settings", func(r chi.Router) {
			settingsHandler := handlers.NewSettingsHandler(svc.Settings)
			r.Get("/", settingsHandler.Settings)
			r.With(custommiddleware.RequireJSON).Put("/", settingsHandler.UpdateSettings)
		})
	})

	return r
}
