package dataprocessing

import (
	"fmt"
	"sort"
)

// Column names of the grant dataset as reported by the Quality Validator.
const (
	ColumnGrantID     = "grant_number"
	ColumnState       = "state"
	ColumnProgramName = "program_name"
	ColumnAmount      = "awardee_amount"
)

// grantColumns is the fixed column order of a GrantRecord snapshot.
var grantColumns = []string{ColumnGrantID, ColumnState, ColumnProgramName, ColumnAmount}

// ColumnMissing reports missing values for a single column.
type ColumnMissing struct {
	Column  string  `json:"column"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// AmountStats summarizes the award amount column over non-missing values.
type AmountStats struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
}

// QualityReport is the structured output of ValidateQuality. Missing lists
// only columns with at least one missing value, ordered by descending count;
// Amount is nil when no award amount in the snapshot parsed.
type QualityReport struct {
	RowCount      int             `json:"row_count"`
	ColumnCount   int             `json:"column_count"`
	Missing       []ColumnMissing `json:"missing,omitempty"`
	DuplicateRows int             `json:"duplicate_rows"`
	Amount        *AmountStats    `json:"amount_stats,omitempty"`
}

// ValidateQuality computes missingness, duplication, and value-range
// statistics over a snapshot of cleaned records. It does not mutate the
// input and has no effect beyond producing the report; rendering the report
// for a human is the exporter's concern.
func ValidateQuality(records []GrantRecord) QualityReport {
	report := QualityReport{
		RowCount:    len(records),
		ColumnCount: len(grantColumns),
	}

	missing := map[string]int{}
	seen := map[string]int{}
	amounts := make([]float64, 0, len(records))

	for _, rec := range records {
		if rec.GrantID == "" {
			missing[ColumnGrantID]++
		}
		if rec.State == "" {
			missing[ColumnState]++
		}
		if rec.ProgramName == "" {
			missing[ColumnProgramName]++
		}
		if !rec.Amount.Valid {
			missing[ColumnAmount]++
		} else {
			amounts = append(amounts, rec.Amount.Value)
		}

		// Full-row identity: two missing amounts compare equal, matching the
		// per-column missing semantics above.
		key := fmt.Sprintf("%s\x1f%s\x1f%s\x1f%v\x1f%v",
			rec.GrantID, rec.State, rec.ProgramName, rec.Amount.Valid, rec.Amount.Value)
		seen[key]++
	}

	for _, count := range seen {
		if count > 1 {
			report.DuplicateRows += count - 1
		}
	}

	for _, column := range grantColumns {
		count := missing[column]
		if count == 0 {
			continue
		}
		report.Missing = append(report.Missing, ColumnMissing{
			Column:  column,
			Count:   count,
			Percent: round2(100 * float64(count) / float64(len(records))),
		})
	}
	sort.SliceStable(report.Missing, func(i, j int) bool {
		return report.Missing[i].Count > report.Missing[j].Count
	})

	if len(amounts) > 0 {
		sorted := make([]float64, len(amounts))
		copy(sorted, amounts)
		sort.Float64s(sorted)
		report.Amount = &AmountStats{
			Min:    sorted[0],
			Max:    sorted[len(sorted)-1],
			Mean:   mean(amounts),
			Median: median(amounts),
		}
	}

	return report
}
