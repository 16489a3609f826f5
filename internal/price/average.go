package price

// MaxAverageWindow is the largest window MovingAverage accepts.
const MaxAverageWindow = 500

// MovingAverage is the simple moving average of closes over n bars, using a
// rolling sum. Requires 1 < n <= MaxAverageWindow and n < len(s).
func MovingAverage(s Series, n int) Series {
	if n <= 1 || n > MaxAverageWindow || n >= len(s) {
		return Series{}
	}
	out := make(Series, 0, len(s)-n+1)
	sum := 0.0
	for i, p := range s {
		sum += p.Close
		if i >= n {
			sum -= s[i-n].Close
		}
		if i >= n-1 {
			out = append(out, point(p.Date, sum/float64(n)))
		}
	}
	return out
}

// ExponentialMovingAverage seeds with the simple average of the first n
// closes, then applies multiplier 2/(n+1). Requires 1 < n < len(s).
func ExponentialMovingAverage(s Series, n int) Series {
	if n <= 1 || n >= len(s) {
		return Series{}
	}
	out := make(Series, 0, len(s)-n+1)
	mult := 2.0 / float64(n+1)
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += s[i].Close
	}
	prev := sum / float64(n)
	out = append(out, point(s[n-1].Date, prev))
	for i := n; i < len(s); i++ {
		prev = (s[i].Close-prev)*mult + prev
		out = append(out, point(s[i].Date, prev))
	}
	return out
}
