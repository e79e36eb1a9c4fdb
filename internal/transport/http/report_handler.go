package http

import (
	stderrors "errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"mchgrants/internal/dataprocessing"
	apierrors "mchgrants/internal/errors"
	"mchgrants/internal/services"
)

// OutlierDetector computes funding outlier flags over a report snapshot.
type OutlierDetector interface {
	FundingOutliers(report *services.Report, method dataprocessing.OutlierMethod, threshold float64) ([]services.StateOutlier, error)
}

// ReportHandler serves a pipeline run's outputs.
type ReportHandler struct {
	report   *services.Report
	detector OutlierDetector
	logger   *slog.Logger
}

// NewReportHandler creates a report handler over a run snapshot.
func NewReportHandler(report *services.Report, detector OutlierDetector, logger *slog.Logger) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportHandler{report: report, detector: detector, logger: logger}
}

// RegisterRoutes registers the report routes.
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/summaries", h.GetSummaries)
		r.Get("/merged", h.GetMerged)
		r.Get("/quality", h.GetQuality)
		r.Get("/outliers", h.GetOutliers)
	})
}

// GetSummaries returns the state funding summaries, ordered by descending
// total funding.
func (h *ReportHandler) GetSummaries(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"run_id":    h.report.RunID,
		"summaries": h.report.Summaries,
	})
}

// GetMerged returns the merged funding/health table.
func (h *ReportHandler) GetMerged(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"run_id":         h.report.RunID,
		"health_columns": h.report.HealthColumns,
		"merged":         h.report.Merged,
	})
}

// GetQuality returns the data-quality report for the run's input snapshot.
func (h *ReportHandler) GetQuality(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"run_id":  h.report.RunID,
		"quality": h.report.Quality,
	})
}

// GetOutliers flags states with anomalous funding totals. Query parameters:
// method (iqr or zscore) and threshold (positive float).
func (h *ReportHandler) GetOutliers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	method := dataprocessing.OutlierMethod(r.URL.Query().Get("method"))
	if method == "" {
		method = dataprocessing.MethodIQR
	}

	threshold := dataprocessing.DefaultIQRThreshold
	if raw := r.URL.Query().Get("threshold"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed <= 0 {
			render.Render(w, r, apierrors.NewWithDetails(
				http.StatusBadRequest,
				"INVALID_PARAMETER",
				"threshold must be a positive number",
				raw,
			))
			return
		}
		threshold = parsed
	}

	outliers, err := h.detector.FundingOutliers(h.report, method, threshold)
	if err != nil {
		var appErr *apierrors.AppError
		if stderrors.As(err, &appErr) {
			if apierrors.IsInvalidMethod(err) {
				h.logger.WarnContext(ctx, "invalid outlier method requested",
					slog.String("method", string(method)))
			}
			render.Render(w, r, apierrors.FromAppError(appErr))
			return
		}

		h.logger.ErrorContext(ctx, "outlier detection failed",
			slog.String("error", err.Error()))
		render.Render(w, r, apierrors.ErrInternalServer)
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"run_id":    h.report.RunID,
		"method":    method,
		"threshold": threshold,
		"outliers":  outliers,
	})
}
