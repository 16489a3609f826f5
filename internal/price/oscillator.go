package price

import "math"

// StochasticsEpsilon is the smallest high-low range Stochastics divides by.
const StochasticsEpsilon = 0.000001

// wilder applies avg = (avg*(n-1) + x) / n.
func wilder(avg, x float64, n int) float64 {
	return (avg*float64(n-1) + x) / float64(n)
}

func rsiValue(gain, loss float64) float64 {
	if loss == 0 {
		return 100
	}
	return 100 - 100/(1+gain/loss)
}

// RSI is the Wilder relative strength index. The first value sits at bar n,
// seeded from the average gain and loss of the first n close-to-close
// changes. Requires 1 < n < len(s).
func RSI(s Series, n int) Series {
	if n <= 1 || n >= len(s) {
		return Series{}
	}
	out := make(Series, 0, len(s)-n)
	var gain, loss float64
	for i := 1; i <= n; i++ {
		change := s[i].Close - s[i-1].Close
		if change > 0 {
			gain += change
		} else {
			loss -= change
		}
	}
	gain /= float64(n)
	loss /= float64(n)
	out = append(out, point(s[n].Date, rsiValue(gain, loss)))

	for i := n + 1; i < len(s); i++ {
		change := s[i].Close - s[i-1].Close
		g, l := 0.0, 0.0
		if change > 0 {
			g = change
		} else {
			l = -change
		}
		gain = wilder(gain, g, n)
		loss = wilder(loss, l, n)
		out = append(out, point(s[i].Date, rsiValue(gain, loss)))
	}
	return out
}

func trueRange(p Price, prevClose float64) float64 {
	return math.Max(p.High-p.Low, math.Max(math.Abs(p.High-prevClose), math.Abs(p.Low-prevClose)))
}

// ATR is the Wilder average true range. The first bar has no previous
// close, so its true range is High-Low. The first value sits at bar n-1,
// seeded from the mean of the first n true ranges. Requires n > 1 and
// len(s) > n.
func ATR(s Series, n int) Series {
	if n <= 1 || len(s) <= n {
		return Series{}
	}
	out := make(Series, 0, len(s)-n+1)
	atr := s[0].High - s[0].Low
	for i := 1; i < n; i++ {
		atr += trueRange(s[i], s[i-1].Close)
	}
	atr /= float64(n)
	out = append(out, point(s[n-1].Date, atr))

	for i := n; i < len(s); i++ {
		atr = wilder(atr, trueRange(s[i], s[i-1].Close), n)
		out = append(out, point(s[i].Date, atr))
	}
	return out
}

// StdDev is the population standard deviation of closes over each trailing
// window of n bars, recomputed per window. Requires 2 < n <= len(s).
func StdDev(s Series, n int) Series {
	if n <= 2 || n > len(s) {
		return Series{}
	}
	out := make(Series, 0, len(s)-n+1)
	for i := n - 1; i < len(s); i++ {
		window := s[i-n+1 : i+1]
		mean := 0.0
		for _, p := range window {
			mean += p.Close
		}
		mean /= float64(n)
		sq := 0.0
		for _, p := range window {
			d := p.Close - mean
			sq += d * d
		}
		out = append(out, point(s[i].Date, math.Sqrt(sq/float64(n))))
	}
	return out
}

// Stochastics is the %K line over n bars. Windows whose high-low range is
// below StochasticsEpsilon produce no point. Requires 1 < n <= len(s).
func Stochastics(s Series, n int) Series {
	if n <= 1 || n > len(s) {
		return Series{}
	}
	out := make(Series, 0, len(s)-n+1)
	for i := n - 1; i < len(s); i++ {
		high, low, _ := HighLow(s[i-n+1:i+1], 0)
		rng := high - low
		if rng < StochasticsEpsilon {
			continue
		}
		out = append(out, point(s[i].Date, 100*(s[i].Close-low)/rng))
	}
	return out
}

// Momentum is close[i] - close[i-(n-1)]. Requires 1 < n <= len(s).
func Momentum(s Series, n int) Series {
	if n <= 1 || n > len(s) {
		return Series{}
	}
	out := make(Series, 0, len(s)-n+1)
	for i := n - 1; i < len(s); i++ {
		out = append(out, point(s[i].Date, s[i].Close-s[i-n+1].Close))
	}
	return out
}
