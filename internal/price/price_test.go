package price

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-6

// daily builds consecutive calendar days from 20200101 with the given closes.
func daily(closes ...float64) Series {
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	s := make(Series, len(closes))
	for i, c := range closes {
		s[i] = Price{Date: FormatDate(start.AddDate(0, 0, i)), High: c, Low: c, Close: c, Volume: 1}
	}
	return s
}

func values(s Series) []float64 { return Closes(s) }

func dates(s Series) []string {
	out := make([]string, len(s))
	for i, p := range s {
		out[i] = p.Date
	}
	return out
}

func TestMovingAverage_Boundary(t *testing.T) {
	s := daily(1, 2, 3, 4)
	ma := MovingAverage(s, 3)

	require.Len(t, ma, 2)
	assert.InDelta(t, 2.0, ma[0].Close, tolerance)
	assert.InDelta(t, 3.0, ma[1].Close, tolerance)
	assert.Equal(t, []string{s[2].Date, s[3].Date}, dates(ma))
	assert.Equal(t, ma[0].Close, ma[0].High)
	assert.Equal(t, ma[0].Close, ma[0].Low)
}

func TestMovingAverage_RollingMatchesDirect(t *testing.T) {
	s := daily(5, 3, 8, 1, 9, 2, 7, 4, 6, 10, 0.5)
	ma := MovingAverage(s, 4)
	require.Len(t, ma, len(s)-3)
	for i, p := range ma {
		sum := 0.0
		for _, b := range s[i : i+4] {
			sum += b.Close
		}
		assert.InDelta(t, sum/4, p.Close, tolerance, "point %d", i)
	}
}

func TestInvalidWindowsReturnEmpty(t *testing.T) {
	long := daily(make([]float64, 600)...)
	s := daily(1, 2, 3, 4, 5)

	tests := []struct {
		name string
		got  Series
	}{
		{"ma zero", MovingAverage(s, 0)},
		{"ma one", MovingAverage(s, 1)},
		{"ma too large", MovingAverage(long, 501)},
		{"ma equal to length", MovingAverage(s, len(s))},
		{"ema one", ExponentialMovingAverage(s, 1)},
		{"ema equal to length", ExponentialMovingAverage(s, len(s))},
		{"rsi over length", RSI(s, len(s)+1)},
		{"rsi at length", RSI(s, len(s))},
		{"rsi one", RSI(s, 1)},
		{"atr at length", ATR(s, len(s))},
		{"atr one", ATR(s, 1)},
		{"stddev two", StdDev(s, 2)},
		{"stddev over length", StdDev(s, len(s)+1)},
		{"stochastics over length", Stochastics(s, len(s)+1)},
		{"momentum one", Momentum(s, 1)},
		{"momentum over length", Momentum(s, len(s)+1)},
		{"empty input", MovingAverage(nil, 3)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotNil(t, tt.got)
			assert.Empty(t, tt.got)
		})
	}

	assert.Len(t, MovingAverage(long, 500), 101)
}

func TestTransformsDoNotMutateInput(t *testing.T) {
	s := daily(3, 1, 4, 1, 5, 9, 2, 6)
	before := append(Series(nil), s...)

	MovingAverage(s, 3)
	ExponentialMovingAverage(s, 3)
	RSI(s, 3)
	ATR(s, 3)
	StdDev(s, 3)
	Stochastics(s, 3)
	Momentum(s, 3)
	DayToWeek(s, time.Friday)
	DayToMonth(s)

	assert.Equal(t, before, s)
}

func TestExponentialMovingAverage(t *testing.T) {
	s := daily(1, 2, 3, 4, 5)
	ema := ExponentialMovingAverage(s, 2)
	assert.Equal(t, []string{s[1].Date, s[2].Date, s[3].Date, s[4].Date}, dates(ema))
	assert.InDeltaSlice(t, []float64{1.5, 2.5, 3.5, 4.5}, values(ema), tolerance)
}

func TestRSI_SeedThenSmooth(t *testing.T) {
	s := daily(10, 11, 10, 11, 10)
	rsi := RSI(s, 2)

	assert.Equal(t, []string{s[2].Date, s[3].Date, s[4].Date}, dates(rsi))
	assert.InDeltaSlice(t, []float64{50, 75, 37.5}, values(rsi), tolerance)
}

func TestRSI_WilderRecurrence(t *testing.T) {
	s := daily(44.34, 44.09, 44.15, 43.61, 44.33, 44.83, 45.10, 45.42, 45.84, 46.08, 45.89, 46.03, 45.61, 46.28, 46.28, 46.00, 46.03, 46.41, 46.22, 45.64)
	n := 14
	rsi := RSI(s, n)
	require.Len(t, rsi, len(s)-n)
	assert.Equal(t, s[n].Date, rsi[0].Date)

	var gain, loss float64
	for i := 1; i <= n; i++ {
		if d := s[i].Close - s[i-1].Close; d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	gain /= float64(n)
	loss /= float64(n)
	assert.InDelta(t, 100-100/(1+gain/loss), rsi[0].Close, tolerance)

	for i := n + 1; i < len(s); i++ {
		d := s[i].Close - s[i-1].Close
		gain = (gain*float64(n-1) + max(d, 0)) / float64(n)
		loss = (loss*float64(n-1) + max(-d, 0)) / float64(n)
		assert.InDelta(t, 100-100/(1+gain/loss), rsi[i-n].Close, tolerance, "bar %d", i)
	}
}

func TestRSI_NoLosses(t *testing.T) {
	for _, p := range RSI(daily(1, 2, 3, 4, 5, 6), 3) {
		assert.Equal(t, 100.0, p.Close)
	}
}

func TestATR(t *testing.T) {
	s := Series{
		{Date: "20200101", High: 10, Low: 8, Close: 9},
		{Date: "20200102", High: 11, Low: 9, Close: 10},
		{Date: "20200103", High: 13, Low: 10, Close: 12},
		{Date: "20200106", High: 12, Low: 11, Close: 11},
	}
	atr := ATR(s, 2)
	// Seed: (2 + 2) / 2 at the second bar, then (2*1 + 3) / 2 and (2.5*1 + 1) / 2.
	assert.Equal(t, []string{"20200102", "20200103", "20200106"}, dates(atr))
	assert.InDeltaSlice(t, []float64{2, 2.5, 1.75}, values(atr), tolerance)

	assert.Empty(t, ATR(s[:2], 2))
}

func TestATR_GapUsesPreviousClose(t *testing.T) {
	s := Series{
		{Date: "20200101", High: 10, Low: 9, Close: 9},
		{Date: "20200102", High: 15, Low: 14, Close: 15},
		{Date: "20200103", High: 16, Low: 15, Close: 15},
	}
	atr := ATR(s, 2)
	require.Len(t, atr, 2)
	// True ranges: 1 (first bar, high-low), max(1, 6, 5) = 6, max(1, 1, 0) = 1.
	assert.InDelta(t, 3.5, atr[0].Close, tolerance)
	assert.InDelta(t, 2.25, atr[1].Close, tolerance)
}

// Nineteen weekday bars from 20001023 to 20001117 (20001114 missing).
var atrAutumn2000 = Series{
	{Date: "20001023", High: 1402.1, Low: 1398.9, Close: 1400.5},
	{Date: "20001024", High: 1402.05, Low: 1397.95, Close: 1400.0},
	{Date: "20001025", High: 1402.25, Low: 1398.75, Close: 1400.5},
	{Date: "20001026", High: 1402.95, Low: 1399.05, Close: 1401.0},
	{Date: "20001027", High: 1401.9, Low: 1399.1, Close: 1400.5},
	{Date: "20001030", High: 1403.2, Low: 1398.8, Close: 1401.0},
	{Date: "20001031", High: 1402.35, Low: 1398.65, Close: 1400.5},
	{Date: "20001101", High: 1401.65, Low: 1398.35, Close: 1400.0},
	{Date: "20001102", High: 1402.5, Low: 1398.5, Close: 1400.5},
	{Date: "20001103", High: 1402.8, Low: 1399.2, Close: 1401.0},
	{Date: "20001106", High: 1403.05, Low: 1399.95, Close: 1401.5},
	{Date: "20001107", High: 1403.1, Low: 1398.9, Close: 1401.0},
	{Date: "20001108", High: 1403.4, Low: 1399.6, Close: 1401.5},
	{Date: "20001109", High: 1402.8522, Low: 1399.1478, Close: 1401.0},
	{Date: "20001110", High: 1403.2, Low: 1399.8, Close: 1401.5},
	{Date: "20001113", High: 1403.3, Low: 1398.7, Close: 1401.0},
	{Date: "20001115", High: 1403.0, Low: 1400.0, Close: 1401.5},
	{Date: "20001116", High: 1403.95, Low: 1400.05, Close: 1402.0},
	{Date: "20001117", High: 1403.65, Low: 1399.35, Close: 1401.5},
}

func TestATR_Autumn2000(t *testing.T) {
	tests := []struct {
		date string
		want float64
	}{
		{"20001109", 3.6646},
		{"20001110", 3.6457},
		{"20001113", 3.713864},
		{"20001115", 3.662874},
		{"20001116", 3.679812},
		{"20001117", 3.724111},
	}

	require.Len(t, atrAutumn2000, 19)
	atr := ATR(atrAutumn2000, 14)
	require.Len(t, atr, len(tests))
	for i, tt := range tests {
		assert.Equal(t, tt.date, atr[i].Date)
		assert.InDelta(t, tt.want, atr[i].Close, 0.001, tt.date)
	}

	// Each value after the seed follows the Wilder recurrence.
	for i := 1; i < len(atr); i++ {
		bar := Find(atrAutumn2000, atr[i].Date)
		require.GreaterOrEqual(t, bar, 1)
		tr := trueRange(atrAutumn2000[bar], atrAutumn2000[bar-1].Close)
		assert.InDelta(t, (atr[i-1].Close*13+tr)/14, atr[i].Close, tolerance)
	}
}

func TestStdDev(t *testing.T) {
	s := daily(2, 4, 4, 4, 5, 5, 7, 9)
	sd := StdDev(s, len(s))
	require.Len(t, sd, 1)
	assert.InDelta(t, 2.0, sd[0].Close, tolerance)
	assert.Equal(t, s[len(s)-1].Date, sd[0].Date)

	sd = StdDev(daily(1, 1, 1, 4), 3)
	assert.InDeltaSlice(t, []float64{0, 1.4142135}, values(sd), tolerance)
}

func TestStochastics(t *testing.T) {
	s := Series{
		{Date: "20200101", High: 10, Low: 5, Close: 7},
		{Date: "20200102", High: 12, Low: 6, Close: 12},
		{Date: "20200103", High: 11, Low: 7, Close: 8},
	}
	k := Stochastics(s, 3)
	require.Len(t, k, 1)
	assert.InDelta(t, 300.0/7.0, k[0].Close, tolerance)

	k = Stochastics(s, 2)
	assert.Equal(t, []string{"20200102", "20200103"}, dates(k))
	assert.InDeltaSlice(t, []float64{100, 100.0 / 3.0}, values(k), tolerance)

	assert.Empty(t, Stochastics(daily(5, 5, 5, 5), 2), "flat windows produce no points")
}

func TestMomentum(t *testing.T) {
	s := daily(1, 2, 4, 7)
	m := Momentum(s, 3)
	assert.Equal(t, []string{s[2].Date, s[3].Date}, dates(m))
	assert.InDeltaSlice(t, []float64{3, 5}, values(m), tolerance)
}

func TestHighLowAndPosition(t *testing.T) {
	s := Series{
		{Date: "1", High: 5, Low: 1},
		{Date: "2", High: 9, Low: 3},
		{Date: "3", High: 7, Low: 4},
	}
	h, l, ok := HighLow(s, 2)
	require.True(t, ok)
	assert.Equal(t, 9.0, h)
	assert.Equal(t, 3.0, l)

	h, l, _ = HighLow(s, 0)
	assert.Equal(t, 9.0, h)
	assert.Equal(t, 1.0, l)

	_, _, ok = HighLow(nil, 3)
	assert.False(t, ok)

	assert.Equal(t, 0.5, Position(5, 5, 5))
	assert.Equal(t, 1.0, Position(12, 10, 0))
	assert.InDelta(t, 0.25, Position(2.5, 10, 0), tolerance)
}

func TestFindAndSorted(t *testing.T) {
	s := Sorted(Series{{Date: "20200103"}, {Date: "20200101"}, {Date: "20200102"}})
	assert.Equal(t, []string{"20200101", "20200102", "20200103"}, dates(s))
	assert.Equal(t, 1, Find(s, "20200102"))
	assert.Equal(t, -1, Find(s, "20200104"))
	assert.Equal(t, -1, Find(nil, "20200101"))

	last, ok := Last(s)
	assert.True(t, ok)
	assert.Equal(t, "20200103", last.Date)
}

func TestParseDate(t *testing.T) {
	d, ok := ParseDate("20120229")
	require.True(t, ok)
	assert.Equal(t, time.Wednesday, d.Weekday())

	dt, ok := ParseDate("20120229 235959")
	require.True(t, ok)
	assert.Equal(t, "20120229 235959", FormatDateTime(dt))

	iso, ok := ParseDate("2012-02-29")
	require.True(t, ok)
	assert.Equal(t, "20120229", FormatDate(iso))

	_, ok = ParseDate("20121340")
	assert.False(t, ok)
}

func TestCanonicalDate(t *testing.T) {
	for in, want := range map[string]string{
		"20120229":            "20120229",
		" 2012-02-29 ":        "20120229",
		"20120229 000000":     "20120229 000000",
		"20120229 235959":     "20120229 235959",
		"2012-02-29 23:59:59": "20120229 235959",
	} {
		got, ok := CanonicalDate(in)
		if assert.True(t, ok, in) {
			assert.Equal(t, want, got, in)
		}
	}

	_, ok := CanonicalDate("feb 29")
	assert.False(t, ok)
}
