// Package price holds daily price records and the pure transforms built on
// them: resampling, moving averages, oscillators and calendar date series.
//
// Every transform returns a new Series and leaves its input untouched.
// Parameters outside a transform's valid range produce an empty Series
// rather than an error.
package price

import (
	"math"
	"sort"
)

// Price is one bar. Ordering and equality are defined by Date alone.
type Price struct {
	Date   string
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Series is ordered by Date, oldest first. Dates need not be unique.
type Series []Price

// point returns an indicator value dated like the bar it belongs to.
func point(date string, v float64) Price {
	return Price{Date: date, High: v, Low: v, Close: v}
}

func (s Series) Len() int           { return len(s) }
func (s Series) Less(i, j int) bool { return s[i].Date < s[j].Date }
func (s Series) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }

// Sorted returns a copy of s in date order, keeping the order of equal dates.
func Sorted(s Series) Series {
	out := make(Series, len(s))
	copy(out, s)
	sort.Stable(out)
	return out
}

// Find returns the index of the first bar dated date, or -1. s must be sorted.
func Find(s Series, date string) int {
	i := sort.Search(len(s), func(i int) bool { return s[i].Date >= date })
	if i < len(s) && s[i].Date == date {
		return i
	}
	return -1
}

// Closes extracts the close of every bar.
func Closes(s Series) []float64 {
	closes := make([]float64, len(s))
	for i, p := range s {
		closes[i] = p.Close
	}
	return closes
}

// Last returns the final bar of s.
func Last(s Series) (Price, bool) {
	if len(s) == 0 {
		return Price{}, false
	}
	return s[len(s)-1], true
}

// HighLow scans the trailing n bars (all bars when n <= 0 or n > len) and
// returns the highest high and lowest low.
func HighLow(s Series, n int) (high, low float64, ok bool) {
	if len(s) == 0 {
		return 0, 0, false
	}
	start := len(s) - n
	if n <= 0 || start < 0 {
		start = 0
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, p := range s[start:] {
		high = math.Max(high, p.High)
		low = math.Min(low, p.Low)
	}
	return high, low, true
}

// Position returns where v sits within [low, high], clamped to 0..1.
// A flat range yields 0.5.
func Position(v, high, low float64) float64 {
	if high <= low {
		return 0.5
	}
	pos := (v - low) / (high - low)
	return math.Min(1, math.Max(0, pos))
}
