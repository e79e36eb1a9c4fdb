package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mchgrants/internal/config"
	"mchgrants/internal/middleware"
	"mchgrants/internal/services"
)

// NewRouter assembles the report server: the middleware chain, the report
// routes, liveness, and Prometheus metrics.
func NewRouter(cfg *config.Config, logger *slog.Logger, report *services.Report, service *services.ReportService) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Metrics)
	if cfg.Server.RateLimit.Enabled {
		r.Use(middleware.RateLimit(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst))
	}

	reportHandler := NewReportHandler(report, service, logger)
	reportHandler.RegisterRoutes(r)

	healthHandler := NewHealthHandler(report.RunID)
	r.Get("/healthz", healthHandler.Healthz)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
