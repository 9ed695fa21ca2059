package volume

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Histogram counts values into bins equal-width bins spanning [lo, hi].
// Values outside the range are clamped into the edge bins and NaN is dropped.
func Histogram(data []float64, bins int, lo, hi float64) []float64 {
	if bins < 1 {
		bins = 1
	}
	counts := make([]float64, bins)
	vals := make([]float64, 0, len(data))
	for _, x := range data {
		if math.IsNaN(x) {
			continue
		}
		vals = append(vals, math.Min(math.Max(x, lo), hi))
	}
	if len(vals) == 0 {
		return counts
	}
	if !(hi > lo) || bins == 1 {
		counts[0] = float64(len(vals))
		return counts
	}
	sort.Float64s(vals)
	dividers := floats.Span(make([]float64, bins+1), lo, hi)
	// the last divider is exclusive in stat.Histogram
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	return stat.Histogram(counts, dividers, vals, nil)
}

// Mean returns the mean of the plane, ignoring NaN.
func (p *Plane) Mean() float64 {
	vals := nonNaN(p.Data)
	if len(vals) == 0 {
		return 0
	}
	return stat.Mean(vals, nil)
}
