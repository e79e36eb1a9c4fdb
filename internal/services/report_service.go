// Package services orchestrates the grant pipeline: loading inputs, row-level
// cleaning, quality validation, state aggregation, and the health-data merge.
package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"mchgrants/internal/config"
	"mchgrants/internal/dataprocessing"
	"mchgrants/internal/errors"
	"mchgrants/internal/health"
)

// Report is the output of one pipeline run: the cleaned records, their
// quality report, the state summaries, and the merged funding/health table.
type Report struct {
	RunID         string                         `json:"run_id"`
	GeneratedAt   time.Time                      `json:"generated_at"`
	Records       []dataprocessing.GrantRecord   `json:"-"`
	Quality       dataprocessing.QualityReport   `json:"quality"`
	Summaries     []dataprocessing.StateSummary  `json:"summaries"`
	Merged        []dataprocessing.MergedRecord  `json:"merged"`
	HealthColumns []string                       `json:"health_columns"`
}

// StateOutlier is one state's funding total with its outlier flag.
type StateOutlier struct {
	State        string  `json:"state"`
	TotalFunding float64 `json:"total_funding"`
	Outlier      bool    `json:"outlier"`
}

// ReportService runs the pipeline over the configured inputs.
type ReportService struct {
	cfg    *config.Config
	logger *slog.Logger
}

// NewReportService creates a report service.
func NewReportService(cfg *config.Config, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{cfg: cfg, logger: logger}
}

// Run executes one full pipeline pass. The grant and health inputs are
// independent, so they load concurrently; everything after that is a chain of
// pure transformations over the loaded snapshots.
func (s *ReportService) Run(ctx context.Context) (*Report, error) {
	runID := uuid.New().String()
	logger := s.logger.With(slog.String("run_id", runID))

	logger.InfoContext(ctx, "starting pipeline run",
		slog.String("grants_file", s.cfg.GetGrantsPath()))

	var (
		records     []dataprocessing.GrantRecord
		healthTable *dataprocessing.HealthTable
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.loadGrants()
		return err
	})
	g.Go(func() error {
		var err error
		healthTable, err = s.loadHealth(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	quality := dataprocessing.ValidateQuality(records)
	logger.InfoContext(ctx, "validated grant data",
		slog.Int("rows", quality.RowCount),
		slog.Int("duplicate_rows", quality.DuplicateRows))

	summaries := dataprocessing.AggregateByState(records)
	logger.InfoContext(ctx, "aggregated funding by state",
		slog.Int("states", len(summaries)))

	merged, err := dataprocessing.MergeHealthData(ctx, logger, summaries, healthTable, s.cfg.Pipeline.IndicatorColumn)
	if err != nil {
		return nil, err
	}

	return &Report{
		RunID:         runID,
		GeneratedAt:   time.Now().UTC(),
		Records:       records,
		Quality:       quality,
		Summaries:     summaries,
		Merged:        merged,
		HealthColumns: healthTable.Columns,
	}, nil
}

// FundingOutliers applies the outlier detector to the total-funding column of
// a run's state summaries. An unrecognized method surfaces as an
// InvalidMethod error the caller can match.
func (s *ReportService) FundingOutliers(report *Report, method dataprocessing.OutlierMethod, threshold float64) ([]StateOutlier, error) {
	totals := make([]float64, len(report.Summaries))
	for i, summary := range report.Summaries {
		totals[i] = summary.TotalFunding
	}

	flags, err := dataprocessing.DetectValueOutliers(totals, method, threshold)
	if err != nil {
		return nil, err
	}

	outliers := make([]StateOutlier, len(report.Summaries))
	for i, summary := range report.Summaries {
		outliers[i] = StateOutlier{
			State:        summary.State,
			TotalFunding: summary.TotalFunding,
			Outlier:      flags[i],
		}
	}
	return outliers, nil
}

func (s *ReportService) loadGrants() ([]dataprocessing.GrantRecord, error) {
	path := s.cfg.GetGrantsPath()
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return dataprocessing.ParseGrantsWorkbook(s.logger, path)
	}
	return dataprocessing.ParseGrantsCSV(path)
}

// loadHealth reads the configured health table, falling back to the
// simulated provider when no file is configured.
func (s *ReportService) loadHealth(ctx context.Context) (*dataprocessing.HealthTable, error) {
	if path := s.cfg.GetHealthPath(); path != "" {
		table, err := dataprocessing.ParseHealthCSV(path)
		if err != nil {
			return nil, err
		}
		if len(table.Columns) == 0 {
			return nil, errors.NewParsingError("health table has no indicator columns", nil)
		}
		return table, nil
	}

	provider := health.NewProvider(s.logger, s.cfg.Pipeline.Seed)
	table, err := provider.StateMetrics(ctx, s.cfg.Pipeline.HealthYear, nil)
	if err != nil {
		return nil, err
	}
	provider.EnrichDemographics(ctx, table)
	return table, nil
}
