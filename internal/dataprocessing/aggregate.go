package dataprocessing

import "sort"

// AggregateByState produces one StateSummary per distinct geography present
// in the input. TotalFunding sums the non-missing amounts (zero when none
// parsed), AvgGrantSize is the mean over non-missing amounts (missing when
// none parsed), and NumGrants counts records regardless of amount validity.
// Output is ordered by descending total funding, ties broken by geography
// code ascending, so repeated runs over the same snapshot are identical.
func AggregateByState(records []GrantRecord) []StateSummary {
	type accumulator struct {
		total      float64
		validCount int
		count      int
	}

	byState := make(map[string]*accumulator)
	for _, rec := range records {
		acc, ok := byState[rec.State]
		if !ok {
			acc = &accumulator{}
			byState[rec.State] = acc
		}
		acc.count++
		if rec.Amount.Valid {
			acc.total += rec.Amount.Value
			acc.validCount++
		}
	}

	summaries := make([]StateSummary, 0, len(byState))
	for state, acc := range byState {
		summary := StateSummary{
			State:        state,
			TotalFunding: acc.total,
			NumGrants:    acc.count,
		}
		if acc.validCount > 0 {
			summary.AvgGrantSize = NewAmount(acc.total / float64(acc.validCount))
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].TotalFunding != summaries[j].TotalFunding {
			return summaries[i].TotalFunding > summaries[j].TotalFunding
		}
		return summaries[i].State < summaries[j].State
	})

	return summaries
}
