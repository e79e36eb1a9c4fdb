package dataprocessing

import (
	"sort"

	"mchgrants/internal/errors"
)

// OutlierMethod selects the outlier detection algorithm.
type OutlierMethod string

const (
	// MethodIQR flags values outside [Q1 - t*IQR, Q3 + t*IQR].
	MethodIQR OutlierMethod = "iqr"
	// MethodZScore flags values whose absolute deviation from the mean,
	// divided by the population standard deviation, exceeds the threshold.
	MethodZScore OutlierMethod = "zscore"
)

// DefaultIQRThreshold is the conventional IQR multiplier.
const DefaultIQRThreshold = 1.5

// DetectOutliers returns one flag per input element. Missing values are
// excluded from the quartile/mean/stddev computation and are never flagged
// themselves. Any method other than "iqr" or "zscore" fails with an
// InvalidMethod error.
func DetectOutliers(amounts []Amount, method OutlierMethod, threshold float64) ([]bool, error) {
	switch method {
	case MethodIQR, MethodZScore:
	default:
		return nil, errors.NewInvalidMethodError(string(method))
	}

	flags := make([]bool, len(amounts))
	values, indices := validValues(amounts)
	if len(values) == 0 {
		return flags, nil
	}

	switch method {
	case MethodIQR:
		sorted := make([]float64, len(values))
		copy(sorted, values)
		sort.Float64s(sorted)

		q1 := quantile(sorted, 0.25)
		q3 := quantile(sorted, 0.75)
		iqr := q3 - q1
		lower := q1 - threshold*iqr
		upper := q3 + threshold*iqr

		for i, v := range values {
			if v < lower || v > upper {
				flags[indices[i]] = true
			}
		}

	case MethodZScore:
		m := mean(values)
		sd := stdDev(values, m)
		if sd == 0 {
			// No dispersion, nothing can be extreme.
			return flags, nil
		}
		for i, v := range values {
			if abs(v-m)/sd > threshold {
				flags[indices[i]] = true
			}
		}
	}

	return flags, nil
}

// DetectValueOutliers is a convenience wrapper over a plain numeric sequence
// with no missing entries.
func DetectValueOutliers(values []float64, method OutlierMethod, threshold float64) ([]bool, error) {
	amounts := make([]Amount, len(values))
	for i, v := range values {
		amounts[i] = NewAmount(v)
	}
	return DetectOutliers(amounts, method, threshold)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
