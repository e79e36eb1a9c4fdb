package dataprocessing

import (
	"math"
	"strconv"
	"strings"
)

// NormalizeCurrency converts a free-form award amount string like
// "$1,234,567" into an Amount. Missing or unparseable input yields a missing
// Amount; this function never fails. Award amounts are non-negative by
// contract, so negative and non-finite parses also degrade to missing.
func NormalizeCurrency(raw string) Amount {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return MissingAmount()
	}

	// Strip the currency symbol and grouping separators, then re-trim since
	// "$ 500" leaves a leading space behind. Interior spaces are not
	// grouping separators and fail the parse.
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return MissingAmount()
	}

	return NewAmount(value)
}
