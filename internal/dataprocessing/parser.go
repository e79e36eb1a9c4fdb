package dataprocessing

import (
	"bufio"
	"encoding/csv"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"mchgrants/internal/errors"
)

// ParseGrantsCSV loads a grant export and applies row-level cleaning
// (currency normalization and program categorization). The file may carry a
// UTF-8 BOM and padded header names; both are tolerated. Rows whose grant
// identifier and state are both empty are skipped.
func ParseGrantsCSV(path string) ([]GrantRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open grant data file", err)
	}
	defer file.Close()

	reader := csv.NewReader(stripBOM(file))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewParsingError("failed to read grant CSV", err)
	}
	if len(rows) == 0 {
		return nil, errors.NewParsingError("grant data file is empty", nil)
	}

	columns, err := mapGrantColumns(rows[0])
	if err != nil {
		return nil, err
	}

	return buildGrantRecords(rows[1:], columns), nil
}

// ParseGrantsWorkbook loads grant data from an Excel workbook. The header row
// is located dynamically within the sheet, matching exports that carry title
// rows above the data.
func ParseGrantsWorkbook(logger *slog.Logger, path string) ([]GrantRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open grant workbook", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.NewParsingError("grant workbook has no sheets", nil)
	}

	for _, sheet := range sheets {
		rows, rowErr := f.GetRows(sheet)
		if rowErr != nil {
			continue
		}
		for i, row := range rows {
			columns, mapErr := mapGrantColumns(row)
			if mapErr != nil {
				continue
			}
			logger.Debug("found grant header row",
				slog.String("sheet", sheet),
				slog.Int("row", i))
			return buildGrantRecords(rows[i+1:], columns), nil
		}
	}

	return nil, errors.NewParsingError("could not find grant header row in workbook", nil)
}

// grantColumnIndexes maps the required grant columns to their positions.
type grantColumnIndexes struct {
	grantID int
	state   int
	program int
	amount  int
}

// mapGrantColumns resolves header positions, tolerating naming variations
// across export vintages. Grant identifier and state are required; program
// name and amount columns are optional (their values degrade to missing).
func mapGrantColumns(header []string) (grantColumnIndexes, error) {
	columns := grantColumnIndexes{grantID: -1, state: -1, program: -1, amount: -1}

	for i, name := range header {
		switch normalized := strings.ToLower(strings.TrimSpace(name)); {
		case normalized == "grant number" || normalized == "grant id" || normalized == "grant_id":
			columns.grantID = i
		case normalized == "state" || normalized == "geography" || normalized == "state code":
			columns.state = i
		case strings.Contains(normalized, "program"):
			columns.program = i
		case strings.Contains(normalized, "amount"):
			columns.amount = i
		}
	}

	if columns.grantID < 0 || columns.state < 0 {
		return columns, errors.NewParsingError("grant data is missing required columns (grant number, state)", nil)
	}
	return columns, nil
}

func buildGrantRecords(rows [][]string, columns grantColumnIndexes) []GrantRecord {
	cell := func(row []string, idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	records := make([]GrantRecord, 0, len(rows))
	for _, row := range rows {
		grantID := cell(row, columns.grantID)
		state := cell(row, columns.state)
		if grantID == "" && state == "" {
			continue
		}
		records = append(records, NewGrantRecord(
			grantID,
			state,
			cell(row, columns.program),
			cell(row, columns.amount),
		))
	}
	return records
}

// ParseHealthCSV loads an external health-metrics table. The first header
// must name the state column; "state_fips" and "year" are recognized as
// identifying metadata, and every remaining column is treated as a numeric
// indicator. Unparseable indicator cells degrade to missing for that row.
func ParseHealthCSV(path string) (*HealthTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError("failed to open health data file", err)
	}
	defer file.Close()

	reader := csv.NewReader(stripBOM(file))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewParsingError("failed to read health CSV", err)
	}
	if len(rows) < 1 {
		return nil, errors.NewParsingError("health data file is empty", nil)
	}

	header := rows[0]
	stateIdx, fipsIdx, yearIdx := -1, -1, -1
	metricIdx := map[string]int{}
	var columns []string

	for i, name := range header {
		switch normalized := strings.ToLower(strings.TrimSpace(name)); normalized {
		case "state":
			stateIdx = i
		case "state_fips", "fips":
			fipsIdx = i
		case "year":
			yearIdx = i
		case "":
		default:
			metricIdx[normalized] = i
			columns = append(columns, normalized)
		}
	}
	if stateIdx < 0 {
		return nil, errors.NewParsingError("health data is missing the state column", nil)
	}

	table := &HealthTable{Columns: columns}
	for _, row := range rows[1:] {
		if stateIdx >= len(row) {
			continue
		}
		state := strings.TrimSpace(row[stateIdx])
		if state == "" {
			continue
		}

		rec := HealthMetricsRecord{
			State:   state,
			Metrics: make(map[string]float64, len(columns)),
		}
		if fipsIdx >= 0 && fipsIdx < len(row) {
			rec.FIPS, _ = strconv.Atoi(strings.TrimSpace(row[fipsIdx]))
		}
		if yearIdx >= 0 && yearIdx < len(row) {
			rec.Year, _ = strconv.Atoi(strings.TrimSpace(row[yearIdx]))
		}
		for column, idx := range metricIdx {
			if idx >= len(row) {
				continue
			}
			if v, parseErr := strconv.ParseFloat(strings.TrimSpace(row[idx]), 64); parseErr == nil {
				rec.Metrics[column] = v
			}
		}
		table.Records = append(table.Records, rec)
	}

	return table, nil
}

// stripBOM removes a leading UTF-8 byte order mark, present in some
// government CSV exports.
func stripBOM(r io.Reader) io.Reader {
	buffered := bufio.NewReader(r)
	if lead, err := buffered.Peek(3); err == nil && lead[0] == 0xEF && lead[1] == 0xBB && lead[2] == 0xBF {
		buffered.Discard(3)
	}
	return buffered
}
