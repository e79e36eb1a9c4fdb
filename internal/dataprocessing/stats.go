package dataprocessing

import (
	"math"
	"sort"
)

// validValues extracts the non-missing values and their original indices.
func validValues(amounts []Amount) ([]float64, []int) {
	values := make([]float64, 0, len(amounts))
	indices := make([]int, 0, len(amounts))
	for i, a := range amounts {
		if a.Valid {
			values = append(values, a.Value)
			indices = append(indices, i)
		}
	}
	return values, indices
}

// quantile returns the value at the given fraction of a sorted slice using
// linear interpolation between the two nearest ranks.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[n-1]
	}

	pos := q * float64(n-1)
	lower := int(math.Floor(pos))
	upper := int(math.Ceil(pos))
	if lower == upper {
		return sorted[lower]
	}

	weight := pos - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev returns the population standard deviation.
func stdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sumSquares float64
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(values)))
}

func median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := n / 2
	if n%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// round2 rounds to two decimal places, used for reported percentages.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
