// Package report formats snapshots and price series as plain text. The text
// is colored separately by running it through a styler with DefaultRules.
package report

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"MarketLens/internal/model"
	"MarketLens/internal/price"
)

// DefaultRules colors report text: numbers, window sizes in parentheses,
// the WARN/NOTE markers and the title.
const DefaultRules = `
num:     {color: YELLOW}
range:   {word1: "(", word2: ")", inclusive: true, color: GRAY}
string:  {word1: "WARN", color: BOLD_RED}
string2: {word1: "NOTE", color: BOLD_GREEN}
string3: {word1: "MarketLens", color: BOLD_CYAN, count: 1}
`

const (
	overbought = 70.0
	oversold   = 30.0
)

func num(v float64) string { return humanize.CommafWithDigits(v, 2) }

func pct(v, base float64) float64 {
	if base == 0 {
		return 0
	}
	return (v - base) / base * 100
}

// FormatSnapshot renders one snapshot as a multi-line report.
func FormatSnapshot(s *model.Snapshot) string {
	var b strings.Builder
	w := s.Windows

	b.WriteString(fmt.Sprintf("MarketLens | %s | %s\n", s.Symbol, s.AsOf))
	b.WriteString(fmt.Sprintf("source %s, %s bars", s.Source, humanize.Comma(int64(s.Bars))))
	if s.RunID != "" {
		b.WriteString(fmt.Sprintf(", run %s", s.RunID))
	}
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("close:      %s  volume %s\n", num(s.Close), humanize.Comma(int64(s.Volume))))
	b.WriteString(fmt.Sprintf("sma(%d):    %s (%+.1f%%)\n", w.SMA, num(s.SMA), pct(s.Close, s.SMA)))
	b.WriteString(fmt.Sprintf("ema(%d):    %s\n", w.EMA, num(s.EMA)))
	b.WriteString(fmt.Sprintf("rsi(%d):    %s  weekly %s\n", w.RSI, num(s.RSI), num(s.WeeklyRSI)))
	b.WriteString(fmt.Sprintf("atr(%d):    %s\n", w.ATR, num(s.ATR)))
	b.WriteString(fmt.Sprintf("stddev(%d): %s\n", w.StdDev, num(s.StdDev)))
	b.WriteString(fmt.Sprintf("%%k(%d):     %s\n", w.Stochastics, num(s.StochK)))
	b.WriteString(fmt.Sprintf("mom(%d):    %s\n", w.Momentum, num(s.Momentum)))
	b.WriteString(fmt.Sprintf("range(%d):  %s - %s, position %.0f%%\n",
		w.RangeBars, num(s.RangeLow), num(s.RangeHigh), s.Position*100))

	if notes := Notes(s); len(notes) > 0 {
		b.WriteString("\n")
		for _, n := range notes {
			b.WriteString(n)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Notes lists the warnings worth flagging for s, most important first.
func Notes(s *model.Snapshot) []string {
	var notes []string
	if s.SMA > 0 && s.Close < s.SMA {
		notes = append(notes, fmt.Sprintf("WARN close below sma(%d)", s.Windows.SMA))
	}
	switch {
	case s.RSI >= overbought || s.WeeklyRSI >= overbought:
		notes = append(notes, fmt.Sprintf("WARN rsi overbought (daily %.0f, weekly %.0f)", s.RSI, s.WeeklyRSI))
	case s.RSI > 0 && s.RSI <= oversold:
		notes = append(notes, fmt.Sprintf("NOTE rsi oversold (daily %.0f)", s.RSI))
	}
	if s.RangeHigh > s.RangeLow && s.Position >= 0.95 {
		notes = append(notes, fmt.Sprintf("NOTE near %d-bar high", s.Windows.RangeBars))
	}
	return notes
}

// FormatSeries renders a series as a table. Series whose bars all have
// High == Low == Close (indicator output) print a single value column.
func FormatSeries(name string, s price.Series) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s (%d)\n", name, len(s)))

	if singleValued(s) {
		for _, p := range s {
			b.WriteString(fmt.Sprintf("%-15s %14s\n", p.Date, num(p.Close)))
		}
		return b.String()
	}

	b.WriteString(fmt.Sprintf("%-15s %14s %14s %14s %16s\n", "date", "high", "low", "close", "volume"))
	for _, p := range s {
		b.WriteString(fmt.Sprintf("%-15s %14s %14s %14s %16s\n",
			p.Date, num(p.High), num(p.Low), num(p.Close), humanize.Comma(int64(p.Volume))))
	}
	return b.String()
}

// FormatDates renders one date per line.
func FormatDates(s price.Series) string {
	var b strings.Builder
	for _, p := range s {
		b.WriteString(p.Date)
		b.WriteString("\n")
	}
	return b.String()
}

func singleValued(s price.Series) bool {
	for _, p := range s {
		if p.High != p.Close || p.Low != p.Close || p.Volume != 0 {
			return false
		}
	}
	return true
}
