package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketLens/internal/model"
	"MarketLens/internal/price"
	"MarketLens/internal/styler"
)

func sampleSnapshot() *model.Snapshot {
	return &model.Snapshot{
		RunID:     "run-1",
		Symbol:    "SPX500",
		Source:    "mock",
		AsOf:      "20240315",
		Bars:      1200,
		Close:     4900,
		Volume:    1500000,
		SMA:       5000,
		EMA:       4950.5,
		RSI:       75,
		WeeklyRSI: 61,
		ATR:       42.25,
		RangeHigh: 5000,
		RangeLow:  4000,
		Position:  0.9,
		Windows:   model.DefaultWindows(),
	}
}

func TestFormatSnapshot(t *testing.T) {
	out := FormatSnapshot(sampleSnapshot())

	assert.True(t, strings.HasPrefix(out, "MarketLens | SPX500 | 20240315\n"))
	assert.Contains(t, out, "source mock, 1,200 bars, run run-1")
	assert.Contains(t, out, "close:      4,900  volume 1,500,000")
	assert.Contains(t, out, "sma(200):    5,000 (-2.0%)")
	assert.Contains(t, out, "ema(20):    4,950.5")
	assert.Contains(t, out, "atr(14):    42.25")
	assert.Contains(t, out, "range(252):  4,000 - 5,000, position 90%")
	assert.Contains(t, out, "WARN close below sma(200)")
	assert.Contains(t, out, "WARN rsi overbought (daily 75, weekly 61)")
	assert.NotContains(t, out, "NOTE")
}

func TestNotes(t *testing.T) {
	tests := []struct {
		name string
		edit func(s *model.Snapshot)
		want []string
	}{
		{
			name: "quiet",
			edit: func(s *model.Snapshot) { s.Close, s.RSI, s.WeeklyRSI = 5100, 55, 50 },
			want: nil,
		},
		{
			name: "oversold",
			edit: func(s *model.Snapshot) { s.Close, s.RSI, s.WeeklyRSI = 5100, 25, 40 },
			want: []string{"NOTE rsi oversold (daily 25)"},
		},
		{
			name: "near high",
			edit: func(s *model.Snapshot) { s.Close, s.RSI, s.WeeklyRSI, s.Position = 5100, 55, 50, 0.97 },
			want: []string{"NOTE near 252-bar high"},
		},
		{
			name: "no sma yet",
			edit: func(s *model.Snapshot) { s.SMA, s.RSI, s.WeeklyRSI = 0, 55, 50 },
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := sampleSnapshot()
			tt.edit(s)
			assert.Equal(t, tt.want, Notes(s))
		})
	}
}

func TestFormatSeries(t *testing.T) {
	ma := price.MovingAverage(price.Series{
		{Date: "20240101", High: 1, Low: 1, Close: 1},
		{Date: "20240102", High: 3, Low: 3, Close: 3},
		{Date: "20240103", High: 5, Low: 5, Close: 5},
	}, 2)
	assert.Equal(t, "ma (2)\n"+
		"20240102                     2\n"+
		"20240103                     4\n", FormatSeries("ma", ma))

	bars := FormatSeries("weekly", price.Series{{Date: "20240105", High: 1200.5, Low: 1100, Close: 1150.25, Volume: 12345}})
	lines := strings.Split(strings.TrimSuffix(bars, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "weekly (1)", lines[0])
	assert.Equal(t, []string{"date", "high", "low", "close", "volume"}, strings.Fields(lines[1]))
	assert.Equal(t, []string{"20240105", "1,200.5", "1,100", "1,150.25", "12,345"}, strings.Fields(lines[2]))
}

func TestFormatDates(t *testing.T) {
	assert.Equal(t, "20240101\n20240102\n", FormatDates(price.Series{{Date: "20240101"}, {Date: "20240102"}}))
	assert.Empty(t, FormatDates(nil))
}

func TestDefaultRulesColorReport(t *testing.T) {
	s, err := styler.New(DefaultRules, nil)
	require.NoError(t, err)
	require.Len(t, s.Rules, 5)

	text := "MarketLens | X\nsma(200): 5\nWARN close below sma(200)"
	buf := s.Style(text)
	require.Len(t, buf, len(text))

	at := func(sub string) styler.Tag {
		i := strings.Index(text, sub)
		require.GreaterOrEqual(t, i, 0, sub)
		return styler.Tag(buf[i])
	}
	assert.Equal(t, styler.MakeTag(styler.Cyan, styler.Bold), at("MarketLens"))
	assert.Equal(t, styler.Gray, at("(200)"))
	assert.Equal(t, styler.Yellow, at("5\n"))
	assert.Equal(t, styler.MakeTag(styler.Red, styler.Bold), at("WARN"))
	assert.Equal(t, styler.Default, at("close"))
}
