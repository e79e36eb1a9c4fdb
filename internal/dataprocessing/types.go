package dataprocessing

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Amount is a nullable monetary value. The distinction between zero and
// missing survives arithmetic: a failed currency parse produces a missing
// Amount, and aggregate statistics skip missing entries instead of treating
// them as zero.
type Amount struct {
	Value float64
	Valid bool
}

// NewAmount returns a valid Amount holding v.
func NewAmount(v float64) Amount {
	return Amount{Value: v, Valid: true}
}

// MissingAmount returns the missing marker.
func MissingAmount() Amount {
	return Amount{}
}

var jsonNull = []byte("null")

// MarshalJSON encodes a missing Amount as null so that downstream consumers
// cannot mistake it for zero.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return jsonNull, nil
	}
	return json.Marshal(a.Value)
}

// UnmarshalJSON accepts either a number or null.
func (a *Amount) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*a = Amount{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*a = NewAmount(v)
	return nil
}

// String renders the amount for CSV/text output; missing renders empty.
func (a Amount) String() string {
	if !a.Valid {
		return ""
	}
	return fmt.Sprintf("%.2f", a.Value)
}

// CategoryLabel is the closed-set classification assigned to a program name.
type CategoryLabel string

const (
	CategoryMentalHealth CategoryLabel = "Mental Health"
	CategoryMaternal     CategoryLabel = "Maternal Health"
	CategoryHomeVisiting CategoryLabel = "Home Visiting"
	CategorySpecialNeeds CategoryLabel = "Special Healthcare Needs"
	CategoryTraining     CategoryLabel = "Training & Education"
	CategoryEmergency    CategoryLabel = "Emergency Services"
	CategoryScreening    CategoryLabel = "Screening Programs"
	CategoryOther        CategoryLabel = "Other"
	CategoryUnknown      CategoryLabel = "Unknown"
)

// GrantRecord is one funding award after row-level cleaning. ProgramName is
// free text; the empty string means the name was not reported. Amount is the
// normalized award value, missing when the raw string did not parse.
type GrantRecord struct {
	GrantID     string        `json:"grant_id"`
	State       string        `json:"state"`
	ProgramName string        `json:"program_name,omitempty"`
	Amount      Amount        `json:"award_amount"`
	Category    CategoryLabel `json:"category"`
}

// NewGrantRecord builds a cleaned record from raw field values, applying
// currency normalization and program categorization.
func NewGrantRecord(grantID, state, programName, rawAmount string) GrantRecord {
	return GrantRecord{
		GrantID:     grantID,
		State:       state,
		ProgramName: programName,
		Amount:      NormalizeCurrency(rawAmount),
		Category:    Categorize(programName),
	}
}

// StateSummary is one row per geography produced by AggregateByState.
// NumGrants counts source records, missing amounts included; TotalFunding and
// AvgGrantSize are computed over the non-missing amounts only, so AvgGrantSize
// is itself missing when no amount for the state parsed.
type StateSummary struct {
	State        string  `json:"state"`
	TotalFunding float64 `json:"total_funding"`
	AvgGrantSize Amount  `json:"avg_grant_size"`
	NumGrants    int     `json:"num_grants"`
}

// HealthMetricsRecord is one row of external health-outcome data, keyed by
// the same geography code convention as StateSummary. Indicator values live
// in Metrics keyed by column name; an absent key means the value is missing
// for that state.
type HealthMetricsRecord struct {
	State   string             `json:"state"`
	FIPS    int                `json:"state_fips,omitempty"`
	Year    int                `json:"year,omitempty"`
	Metrics map[string]float64 `json:"metrics"`
}

// Metric returns the named indicator value and whether it is present.
func (r *HealthMetricsRecord) Metric(column string) (float64, bool) {
	v, ok := r.Metrics[column]
	return v, ok
}

// HealthTable is a health-metrics table together with its indicator schema.
// Columns preserves the source column order for stable flat-file output.
type HealthTable struct {
	Columns []string              `json:"columns"`
	Records []HealthMetricsRecord `json:"records"`
}

// HasColumn reports whether the table schema contains the named indicator.
func (t *HealthTable) HasColumn(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// MergedRecord is one row of the left join of funding summaries with health
// metrics. Health is nil when the state had no match in the health table, in
// which case every health column is missing.
type MergedRecord struct {
	StateSummary
	Health *HealthMetricsRecord `json:"health"`
}
