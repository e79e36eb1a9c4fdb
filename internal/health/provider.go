// Package health supplies state-level health-outcome tables to the pipeline.
// In production these come from public APIs; the Provider here generates
// deterministic simulated data following the real distributions, so runs are
// reproducible and tests need no network.
package health

import (
	"context"
	"log/slog"
	"math"
	"math/rand"
	"sort"

	"mchgrants/internal/dataprocessing"
)

// Indicator columns produced by StateMetrics.
const (
	ColumnInfantMortality   = "infant_mortality_rate"
	ColumnPrenatalCare      = "prenatal_care_pct"
	ColumnLowBirthweight    = "low_birthweight_pct"
	ColumnPretermBirth      = "preterm_birth_pct"
	ColumnMaternalMortality = "maternal_mortality_rate"
)

// Demographic columns added by EnrichDemographics.
const (
	ColumnMedianIncome  = "median_household_income"
	ColumnPovertyRate   = "poverty_rate"
	ColumnUninsuredRate = "uninsured_rate"
	ColumnUrbanPct      = "urban_pct"
)

// stateFIPS maps two-letter state codes to FIPS codes.
var stateFIPS = map[string]int{
	"AL": 1, "AK": 2, "AZ": 4, "AR": 5, "CA": 6, "CO": 8, "CT": 9,
	"DE": 10, "FL": 12, "GA": 13, "HI": 15, "ID": 16, "IL": 17,
	"IN": 18, "IA": 19, "KS": 20, "KY": 21, "LA": 22, "ME": 23,
	"MD": 24, "MA": 25, "MI": 26, "MN": 27, "MS": 28, "MO": 29,
	"MT": 30, "NE": 31, "NV": 32, "NH": 33, "NJ": 34, "NM": 35,
	"NY": 36, "NC": 37, "ND": 38, "OH": 39, "OK": 40, "OR": 41,
	"PA": 42, "RI": 44, "SC": 45, "SD": 46, "TN": 47, "TX": 48,
	"UT": 49, "VT": 50, "VA": 51, "WA": 53, "WV": 54, "WI": 55, "WY": 56,
}

// Provider generates simulated health-outcome data. The same seed always
// produces the same table.
type Provider struct {
	logger *slog.Logger
	seed   int64
}

// NewProvider creates a provider with the given seed.
func NewProvider(logger *slog.Logger, seed int64) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{logger: logger, seed: seed}
}

// StateMetrics returns maternal and infant health metrics for the requested
// states (all states when the filter is empty), one record per state.
func (p *Provider) StateMetrics(ctx context.Context, year int, states []string) (*dataprocessing.HealthTable, error) {
	p.logger.InfoContext(ctx, "generating health outcome data",
		slog.Int("year", year),
		slog.Int("state_filter", len(states)))

	wanted := map[string]bool{}
	for _, s := range states {
		wanted[s] = true
	}

	// Map iteration order is random; sort the codes so the generated values
	// are stable for a given seed.
	codes := make([]string, 0, len(stateFIPS))
	for code := range stateFIPS {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	rng := rand.New(rand.NewSource(p.seed))
	table := &dataprocessing.HealthTable{
		Columns: []string{
			ColumnInfantMortality,
			ColumnPrenatalCare,
			ColumnLowBirthweight,
			ColumnPretermBirth,
			ColumnMaternalMortality,
		},
	}

	for _, code := range codes {
		rec := dataprocessing.HealthMetricsRecord{
			State: code,
			FIPS:  stateFIPS[code],
			Year:  year,
			Metrics: map[string]float64{
				ColumnInfantMortality:   roundTo(uniform(rng, 4.5, 9.0), 2),   // per 1,000 live births
				ColumnPrenatalCare:      roundTo(uniform(rng, 70, 85), 1),     // % first-trimester care
				ColumnLowBirthweight:    roundTo(uniform(rng, 7, 11), 1),      // % babies < 2500g
				ColumnPretermBirth:      roundTo(uniform(rng, 8, 13), 1),      // % births < 37 weeks
				ColumnMaternalMortality: roundTo(uniform(rng, 15, 30), 1),     // per 100,000 live births
			},
		}
		if len(wanted) > 0 && !wanted[code] {
			continue
		}
		table.Records = append(table.Records, rec)
	}

	p.logger.InfoContext(ctx, "retrieved health data",
		slog.Int("states", len(table.Records)))

	return table, nil
}

// EnrichDemographics adds census-style demographic columns to an existing
// table, in place.
func (p *Provider) EnrichDemographics(ctx context.Context, table *dataprocessing.HealthTable) {
	p.logger.InfoContext(ctx, "adding demographic variables",
		slog.Int("states", len(table.Records)))

	rng := rand.New(rand.NewSource(p.seed))
	for i := range table.Records {
		metrics := table.Records[i].Metrics
		metrics[ColumnMedianIncome] = roundTo(uniform(rng, 45000, 85000), 0)
		metrics[ColumnPovertyRate] = roundTo(uniform(rng, 8, 22), 1)
		metrics[ColumnUninsuredRate] = roundTo(uniform(rng, 4, 18), 1)
		metrics[ColumnUrbanPct] = roundTo(uniform(rng, 45, 95), 1)
	}

	table.Columns = append(table.Columns,
		ColumnMedianIncome, ColumnPovertyRate, ColumnUninsuredRate, ColumnUrbanPct)
}

func uniform(rng *rand.Rand, low, high float64) float64 {
	return low + rng.Float64()*(high-low)
}

func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(v*factor) / factor
}
