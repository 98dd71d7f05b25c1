package calculator

import (
	"math"
	"sort"
)

// Aggregate reduces the listing prices observed for one query to a
// representative price (median) and a dispersion (sample standard deviation).
// An empty input yields (0, 0), the sentinel for "no data for this query".
func Aggregate(observations []int) (float64, float64) {
	if len(observations) == 0 {
		return 0, 0
	}

	sorted := make([]float64, len(observations))
	for i, o := range observations {
		sorted[i] = float64(o)
	}
	sort.Float64s(sorted)

	return median(sorted), sampleStdDev(sorted)
}

// median expects sorted input
func median(sorted []float64) float64 {
	n := len(sorted)
	mid := n / 2
	if n%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func sampleStdDev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(n)

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / float64(n-1))
}
