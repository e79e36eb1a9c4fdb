package dataprocessing

import (
	"context"
	"log/slog"

	"mchgrants/internal/errors"
)

// MergeHealthData left-joins funding summaries with a health-metrics table on
// the geography code. Every left row appears exactly once; rows without a
// match carry a nil Health pointer. Join key equality is exact string match,
// cleaning is the caller's responsibility upstream.
//
// The indicator column is used purely as the null-match detector: left rows
// whose merged indicator value is absent are counted and reported through the
// logger. If the right table schema lacks that column the merge fails with a
// SchemaMismatch error before any join work happens.
func MergeHealthData(ctx context.Context, logger *slog.Logger, left []StateSummary, right *HealthTable, indicator string) ([]MergedRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if right == nil || !right.HasColumn(indicator) {
		return nil, errors.NewSchemaMismatchError(indicator)
	}

	// First occurrence wins on duplicate keys so the left-row count is
	// preserved exactly.
	byState := make(map[string]*HealthMetricsRecord, len(right.Records))
	for i := range right.Records {
		rec := &right.Records[i]
		if _, ok := byState[rec.State]; !ok {
			byState[rec.State] = rec
		}
	}

	merged := make([]MergedRecord, 0, len(left))
	unmatched := 0
	for _, summary := range left {
		row := MergedRecord{StateSummary: summary}
		if health, ok := byState[summary.State]; ok {
			row.Health = health
		}
		if row.Health == nil {
			unmatched++
		} else if _, ok := row.Health.Metric(indicator); !ok {
			unmatched++
		}
		merged = append(merged, row)
	}

	logger.InfoContext(ctx, "merged funding and health data",
		slog.Int("rows", len(merged)),
		slog.Int("health_columns", len(right.Columns)))

	if unmatched > 0 {
		logger.WarnContext(ctx, "records without health data",
			slog.Int("count", unmatched),
			slog.String("indicator", indicator))
	}

	return merged, nil
}
