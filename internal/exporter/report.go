package exporter

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"mchgrants/internal/dataprocessing"
	"mchgrants/internal/errors"
)

// WriteQualityReport renders a quality report as plain text.
func WriteQualityReport(path string, report dataprocessing.QualityReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create output directory", err)
	}
	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create quality report file", err)
	}
	defer file.Close()

	RenderQualityReport(file, report)
	return nil
}

// RenderQualityReport writes the human-readable report. Only columns with at
// least one missing value appear in the missing-values section; the amount
// section appears only when at least one award amount parsed.
func RenderQualityReport(w io.Writer, report dataprocessing.QualityReport) {
	rule := strings.Repeat("=", 50)

	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "DATA QUALITY REPORT")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "\nTotal records: %d\n", report.RowCount)
	fmt.Fprintf(w, "Total columns: %d\n", report.ColumnCount)

	fmt.Fprintln(w, "\n--- Missing Values ---")
	if len(report.Missing) == 0 {
		fmt.Fprintln(w, "none")
	}
	for _, m := range report.Missing {
		fmt.Fprintf(w, "%-20s %6d  %6.2f%%\n", m.Column, m.Count, m.Percent)
	}

	fmt.Fprintln(w, "\n--- Duplicates ---")
	fmt.Fprintf(w, "Duplicate rows: %d\n", report.DuplicateRows)

	if report.Amount != nil {
		fmt.Fprintln(w, "\n--- Grant Amounts ---")
		fmt.Fprintf(w, "Min: $%.2f\n", report.Amount.Min)
		fmt.Fprintf(w, "Max: $%.2f\n", report.Amount.Max)
		fmt.Fprintf(w, "Mean: $%.2f\n", report.Amount.Mean)
		fmt.Fprintf(w, "Median: $%.2f\n", report.Amount.Median)
	}

	fmt.Fprintf(w, "\n%s\n", rule)
}

// WriteJSON writes a payload as an indented JSON document with a metadata
// envelope, the shape the rendering frontend consumes.
func WriteJSON(path, format string, payload interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.NewStorageError("failed to create output directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.NewStorageError("failed to create JSON file", err)
	}
	defer file.Close()

	envelope := map[string]interface{}{
		"data":         payload,
		"format":       format,
		"generated_at": time.Now().UTC().Format(time.RFC3339),
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(envelope); err != nil {
		return errors.NewStorageError("failed to encode JSON output", err)
	}

	slog.Info("wrote JSON report", slog.String("path", path), slog.String("format", format))
	return nil
}
