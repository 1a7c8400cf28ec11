package compute

import (
	"math"
	"sort"
)

// Percentile computes the p-th percentile (0..100) of samples using linear
// interpolation between order statistics (the R-7 method). An empty sample
// set yields 0.
func Percentile(samples []float64, p float64) float64 {
	n := len(samples)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, samples)
	sort.Float64s(sorted)

	idx := (p / 100) * float64(n-1)
	lo := int(math.Floor(idx))
	if lo < 0 {
		lo = 0
	}
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := idx - float64(lo)
	if frac == 0 {
		return sorted[lo]
	}
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}
