package stats

import (
	"math"
	"sort"
)

// Median returns the median of the defined, non-NaN values in the
// input, or nil when nothing valid remains after filtering. The median
// is used instead of the mean throughout the comp pipeline so a single
// wildly overpriced or stale listing cannot dominate the signal.
func Median(values []*float64) *float64 {
	vals := make([]float64, 0, len(values))
	for _, v := range values {
		if v == nil || math.IsNaN(*v) {
			continue
		}
		vals = append(vals, *v)
	}
	if len(vals) == 0 {
		return nil
	}

	sort.Float64s(vals)
	mid := len(vals) / 2
	var m float64
	if len(vals)%2 == 1 {
		m = vals[mid]
	} else {
		m = (vals[mid-1] + vals[mid]) / 2
	}
	return &m
}

// MedianInts is Median over optional integer inputs (comp DOM values).
func MedianInts(values []*int) *float64 {
	vals := make([]*float64, 0, len(values))
	for _, v := range values {
		if v == nil {
			vals = append(vals, nil)
			continue
		}
		f := float64(*v)
		vals = append(vals, &f)
	}
	return Median(vals)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}
