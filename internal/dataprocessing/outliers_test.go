package dataprocessing

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mchgrants/internal/errors"
)

func amounts(values ...float64) []Amount {
	out := make([]Amount, len(values))
	for i, v := range values {
		out[i] = NewAmount(v)
	}
	return out
}

func TestDetectOutliers_IQR(t *testing.T) {
	tests := []struct {
		name      string
		amounts   []Amount
		threshold float64
		want      []bool
	}{
		{
			name:      "single extreme value flagged",
			amounts:   amounts(1, 2, 3, 4, 100),
			threshold: DefaultIQRThreshold,
			want:      []bool{false, false, false, false, true},
		},
		{
			name:      "uniform values produce no flags",
			amounts:   amounts(5, 5, 5, 5),
			threshold: DefaultIQRThreshold,
			want:      []bool{false, false, false, false},
		},
		{
			name:      "tight threshold flags both tails",
			amounts:   amounts(1, 10, 10, 10, 10, 10, 19),
			threshold: 0.1,
			want:      []bool{true, false, false, false, false, false, true},
		},
		{
			name:      "empty input",
			amounts:   nil,
			threshold: DefaultIQRThreshold,
			want:      []bool{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectOutliers(tt.amounts, MethodIQR, tt.threshold)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectOutliers_ZScore(t *testing.T) {
	tests := []struct {
		name      string
		amounts   []Amount
		threshold float64
		want      []bool
	}{
		{
			// mean 3, population stddev 4: only 11 has |z| > 1.5
			name:      "single extreme value flagged",
			amounts:   amounts(1, 1, 1, 1, 11),
			threshold: 1.5,
			want:      []bool{false, false, false, false, true},
		},
		{
			name:      "zero dispersion means no outliers",
			amounts:   amounts(7, 7, 7, 7),
			threshold: 0.5,
			want:      []bool{false, false, false, false},
		},
		{
			name:      "threshold is strict: equal z is not flagged",
			amounts:   amounts(1, 1, 1, 1, 11),
			threshold: 2,
			want:      []bool{false, false, false, false, false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectOutliers(tt.amounts, MethodZScore, tt.threshold)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectOutliers_MissingNeverFlagged(t *testing.T) {
	input := []Amount{
		MissingAmount(),
		NewAmount(1),
		NewAmount(2),
		NewAmount(3),
		NewAmount(4),
		NewAmount(100),
		MissingAmount(),
	}

	for _, method := range []OutlierMethod{MethodIQR, MethodZScore} {
		t.Run(string(method), func(t *testing.T) {
			flags, err := DetectOutliers(input, method, DefaultIQRThreshold)
			require.NoError(t, err)
			require.Len(t, flags, len(input))

			assert.False(t, flags[0])
			assert.False(t, flags[6])
			assert.True(t, flags[5])
		})
	}
}

func TestDetectOutliers_MethodsAgreeOnNormalData(t *testing.T) {
	// On normally distributed values the 1.5*IQR fences sit near 2.70
	// standard deviations from the mean, so both methods flag the same
	// indices. Tail draws are rejected so no bulk value sits on either fence.
	rng := rand.New(rand.NewSource(42))
	input := make([]Amount, 0, 502)
	for len(input) < 500 {
		v := rng.NormFloat64()
		if math.Abs(v) > 2.2 {
			continue
		}
		input = append(input, NewAmount(100+10*v))
	}
	input = append(input, NewAmount(200), NewAmount(5))

	iqrFlags, err := DetectOutliers(input, MethodIQR, DefaultIQRThreshold)
	require.NoError(t, err)
	zFlags, err := DetectOutliers(input, MethodZScore, 2.70)
	require.NoError(t, err)

	assert.Equal(t, iqrFlags, zFlags)

	// Exactly the two injected extremes are flagged.
	for i, flagged := range iqrFlags {
		assert.Equal(t, i >= 500, flagged, "index %d", i)
	}
}

func TestDetectOutliers_AllMissing(t *testing.T) {
	input := []Amount{MissingAmount(), MissingAmount()}

	flags, err := DetectOutliers(input, MethodIQR, DefaultIQRThreshold)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false}, flags)
}

func TestDetectOutliers_InvalidMethod(t *testing.T) {
	tests := []struct {
		name   string
		method OutlierMethod
	}{
		{name: "empty method", method: ""},
		{name: "unknown method", method: "mad"},
		{name: "wrong case", method: "IQR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags, err := DetectOutliers(amounts(1, 2, 3), tt.method, DefaultIQRThreshold)

			require.Error(t, err)
			assert.Nil(t, flags)
			assert.True(t, errors.IsInvalidMethod(err))
		})
	}
}

func TestDetectValueOutliers(t *testing.T) {
	flags, err := DetectValueOutliers([]float64{10, 11, 12, 13, 500}, MethodIQR, DefaultIQRThreshold)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, false, false, true}, flags)

	_, err = DetectValueOutliers([]float64{1, 2}, "median", 1)
	assert.True(t, errors.IsInvalidMethod(err))
}
