// Package api provides the HTTP API for windlens.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/windlens/windlens/internal/api/handler"
	"github.com/windlens/windlens/internal/api/middleware"
	"github.com/windlens/windlens/internal/field"
	"github.com/windlens/windlens/internal/geocode"
	"github.com/windlens/windlens/internal/history"
	"github.com/windlens/windlens/internal/reconcile"
	"github.com/windlens/windlens/internal/safety"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version     string
	BuildTime   string
	Logger      zerolog.Logger
	ServiceName string
	Metrics     *middleware.Metrics

	Snapshots    *reconcile.Service
	Interpolator *field.Interpolator
	Classifier   *safety.Classifier
	Thresholds   safety.Thresholds
	Geocoder     geocode.Provider
	History      history.Repository

	// DB gates readiness; nil when running without persistence.
	DB handler.Pinger

	// Providers feed circuit state into the status endpoint.
	Providers []handler.ProviderProbe

	// OpsSigningKey protects the detailed status endpoint. Empty disables it.
	OpsSigningKey string
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "windlens-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	windHandler := handler.NewWindHandler(handler.WindHandlerConfig{
		Snapshots:    cfg.Snapshots,
		Interpolator: cfg.Interpolator,
		Classifier:   cfg.Classifier,
		Thresholds:   cfg.Thresholds,
		Logger:       cfg.Logger,
	})
	flowHandler := handler.NewFlowHandler(cfg.Snapshots, cfg.Interpolator, cfg.Logger)
	geocodeHandler := handler.NewGeocodeHandler(cfg.Geocoder, cfg.Logger)
	historyHandler := handler.NewHistoryHandler(cfg.History, cfg.Logger)
	opsHandler := handler.NewOpsHandler(handler.OpsHandlerConfig{
		Version:   cfg.Version,
		BuildTime: cfg.BuildTime,
		Snapshots: cfg.Snapshots,
		DB:        cfg.DB,
		Providers: cfg.Providers,
	})

	opsAuth := middleware.OpsAuth(cfg.OpsSigningKey)

	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public; status requires an operator token)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			r.With(opsAuth).Get("/status", opsHandler.SystemStatus)
		})

		// Snapshot reads - standard rate limiting
		r.Route("/wind", func(r chi.Router) {
			r.With(standardRateLimit).Get("/vector", windHandler.Vector)
			r.With(standardRateLimit).Get("/series", windHandler.Series)
			r.With(standardRateLimit).Get("/safety", windHandler.Safety)
			// Refresh triggers upstream fetches - strict rate limiting
			r.With(expensiveRateLimit).Post("/refresh", windHandler.Refresh)
		})

		// Simulation - expensive compute, strict rate limiting
		r.With(expensiveRateLimit).Post("/flow/simulate", flowHandler.Simulate)

		// Geocoding proxies an upstream provider - strict rate limiting
		r.With(expensiveRateLimit).Get("/geocode", geocodeHandler.Lookup)

		// Cycle history - standard rate limiting
		r.Route("/history", func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/cycles", historyHandler.ListCycles)
			r.Get("/cycles/{cycleId}", historyHandler.GetCycle)
		})
	})

	return r
}
