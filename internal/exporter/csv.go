package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"mchgrants/internal/dataprocessing"
	"mchgrants/internal/errors"
)

// CSVWriter writes pipeline tables to CSV files with a UTF-8 BOM so Excel
// opens them correctly.
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a CSV writer.
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteStateSummaries writes one row per geography in the summaries' order.
func (w *CSVWriter) WriteStateSummaries(path string, summaries []dataprocessing.StateSummary) error {
	header := []string{"state", "total_funding", "avg_grant_size", "num_grants"}
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.State,
			fmt.Sprintf("%.2f", s.TotalFunding),
			s.AvgGrantSize.String(),
			strconv.Itoa(s.NumGrants),
		})
	}
	return w.write(path, header, rows)
}

// WriteMergedRecords writes the merged funding/health table. Health columns
// follow the summary columns in the right table's schema order; unmatched
// rows leave every health cell empty.
func (w *CSVWriter) WriteMergedRecords(path string, merged []dataprocessing.MergedRecord, healthColumns []string) error {
	header := append([]string{"state", "total_funding", "avg_grant_size", "num_grants"}, healthColumns...)
	rows := make([][]string, 0, len(merged))
	for _, m := range merged {
		row := []string{
			m.State,
			fmt.Sprintf("%.2f", m.TotalFunding),
			m.AvgGrantSize.String(),
			strconv.Itoa(m.NumGrants),
		}
		for _, column := range healthColumns {
			cell := ""
			if m.Health != nil {
				if v, ok := m.Health.Metric(column); ok {
					cell = strconv.FormatFloat(v, 'f', -1, 64)
				}
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	return w.write(path, header, rows)
}

// WriteGrantRecords writes the cleaned record-level table.
func (w *CSVWriter) WriteGrantRecords(path string, records []dataprocessing.GrantRecord) error {
	header := []string{"grant_number", "state", "program_name", "category", "awardee_amount"}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.GrantID,
			r.State,
			r.ProgramName,
			string(r.Category),
			r.Amount.String(),
		})
	}
	return w.write(path, header, rows)
}

func (w *CSVWriter) write(path string, header []string, rows [][]string) error {
	w.logger.Info("writing CSV file",
		slog.String("path", path),
		slog.Int("rows", len(rows)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create output directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create CSV file", err)
	}
	defer file.Close()

	// UTF-8 BOM for Excel compatibility.
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return errors.NewStorageError("failed to write BOM", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return errors.NewStorageError("failed to write CSV header", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return errors.NewStorageError("failed to write CSV row", err)
		}
	}

	writer.Flush()
	return writer.Error()
}
