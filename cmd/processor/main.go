// Command processor runs the grant pipeline once and writes the report files:
// the cleaned record table, state summaries, the merged funding/health table,
// the plain-text quality report, and the full JSON report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"mchgrants/internal/config"
	"mchgrants/internal/dataprocessing"
	"mchgrants/internal/exporter"
	"mchgrants/internal/infrastructure"
	"mchgrants/internal/services"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "processor: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		grantsPath = flag.String("grants", "", "grants input file (csv or xlsx), overrides config")
		healthPath = flag.String("health", "", "health indicators csv, overrides config (empty uses simulated data)")
		outDir     = flag.String("out", "", "reports output directory, overrides config")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *grantsPath != "" {
		cfg.Paths.GrantsFile = *grantsPath
	}
	if *healthPath != "" {
		cfg.Paths.HealthFile = *healthPath
	}
	if *outDir != "" {
		cfg.Paths.ReportsDir = *outDir
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cfg.EnsureReportsDir(); err != nil {
		return fmt.Errorf("create reports directory: %w", err)
	}

	service := services.NewReportService(cfg, logger)
	report, err := service.Run(ctx)
	if err != nil {
		return fmt.Errorf("pipeline run: %w", err)
	}

	if err := writeOutputs(cfg, logger, service, report); err != nil {
		return err
	}

	logger.InfoContext(ctx, "pipeline run complete",
		slog.String("run_id", report.RunID),
		slog.Int("records", len(report.Records)),
		slog.Int("states", len(report.Summaries)))
	return nil
}

func writeOutputs(cfg *config.Config, logger *slog.Logger, service *services.ReportService, report *services.Report) error {
	writer := exporter.NewCSVWriter(logger)

	if err := writer.WriteGrantRecords(cfg.GetReportPath("grant_records.csv"), report.Records); err != nil {
		return fmt.Errorf("write grant records: %w", err)
	}
	if err := writer.WriteStateSummaries(cfg.GetReportPath("state_summaries.csv"), report.Summaries); err != nil {
		return fmt.Errorf("write state summaries: %w", err)
	}
	if err := writer.WriteMergedRecords(cfg.GetReportPath("merged_funding_health.csv"), report.Merged, report.HealthColumns); err != nil {
		return fmt.Errorf("write merged records: %w", err)
	}
	if err := exporter.WriteQualityReport(cfg.GetReportPath("quality_report.txt"), report.Quality); err != nil {
		return fmt.Errorf("write quality report: %w", err)
	}

	method := dataprocessing.OutlierMethod(cfg.Pipeline.OutlierMethod)
	outliers, err := service.FundingOutliers(report, method, cfg.Pipeline.OutlierThreshold)
	if err != nil {
		return fmt.Errorf("detect funding outliers: %w", err)
	}

	payload := struct {
		*services.Report
		Outliers []services.StateOutlier `json:"outliers"`
	}{Report: report, Outliers: outliers}

	if err := exporter.WriteJSON(cfg.GetReportPath("report.json"), "pipeline-report", payload); err != nil {
		return fmt.Errorf("write JSON report: %w", err)
	}
	return nil
}
