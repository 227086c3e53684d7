package calculator

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Mean returns the arithmetic mean, 0 for an empty series.
func Mean(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	return stat.Mean(series, nil)
}

// SampleStdDev returns the Bessel-corrected standard deviation.
// Series shorter than 2 have no observable variability and yield 0.
func SampleStdDev(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}
	return stat.StdDev(series, nil)
}

// PearsonCorrelation returns the correlation coefficient of x and y.
// A degenerate input (zero variance) yields 0 so that matrices stay well formed.
func PearsonCorrelation(x, y []float64) (float64, error) {
	if len(x) == 0 || len(y) == 0 {
		return 0, errors.New("correlation requires non-empty series")
	}
	if len(x) != len(y) {
		return 0, errors.New("correlation requires equal-length series")
	}
	// stat.Correlation is NaN for a single point or a constant series
	if vx, vy := stat.Variance(x, nil), stat.Variance(y, nil); !(vx > 0) || !(vy > 0) {
		return 0, nil
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) {
		return 0, nil
	}
	// rounding can push |r| marginally past 1
	return math.Max(-1, math.Min(1, r)), nil
}

// Percentile returns the p-th percentile (p in [0,100]) using linear
// interpolation between the ascending order statistics. p outside the range
// is clamped; an empty series yields 0.
func Percentile(series []float64, p float64) float64 {
	n := len(series)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, series)
	sort.Float64s(sorted)

	p = math.Max(0, math.Min(100, p))
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Scan folds step over xs starting from init and returns every intermediate
// accumulator, one per element of xs. Neither xs nor init is modified.
func Scan[T, A any](xs []T, init A, step func(acc A, x T) A) []A {
	out := make([]A, len(xs))
	acc := init
	for i, x := range xs {
		acc = step(acc, x)
		out[i] = acc
	}
	return out
}
