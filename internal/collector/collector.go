package collector

import (
	"fmt"
	"time"

	"MarketLens/internal/logger"
	"MarketLens/internal/model"
	"MarketLens/internal/price"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price     float64
	DailyData price.Series
	End       time.Time
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDaily(_ string, days int) (price.Series, error) {
	if m.DailyData != nil {
		return trim(m.DailyData, days), nil
	}
	end := m.End
	if end.IsZero() {
		end = time.Now().UTC()
	}
	return generateMockBars(m.Price, days, end), nil
}

// generateMockBars produces count weekday bars ending at end, drifting
// gently upwards around basePrice.
func generateMockBars(basePrice float64, count int, end time.Time) price.Series {
	dates := make([]time.Time, 0, count)
	for t := end; len(dates) < count; t = t.AddDate(0, 0, -1) {
		if wd := t.Weekday(); wd != time.Saturday && wd != time.Sunday {
			dates = append(dates, t)
		}
	}
	bars := make(price.Series, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		if i%3 == 1 {
			p *= 0.998
		}
		bars[i] = price.Price{
			Date:   price.FormatDate(dates[count-1-i]),
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1000000,
		}
	}
	return bars
}

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher Fetcher
	Symbol  string
	Windows model.Windows
	Logger  *logger.Logger
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbol string, windows model.Windows, log *logger.Logger) *Collector {
	return &Collector{Fetcher: fetcher, Symbol: symbol, Windows: windows, Logger: log}
}

// Collect fetches daily bars and computes a Snapshot from them. Indicators
// that cannot be computed from the available history fall back to the last
// close (or 50 for the oscillators) and are logged.
func (c *Collector) Collect() (*model.Snapshot, price.Series, error) {
	bars, err := c.Fetcher.FetchDaily(c.Symbol, c.Windows.History)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	last, ok := price.Last(bars)
	if !ok {
		return nil, nil, fmt.Errorf("fetch daily bars: no bars for %s", c.Symbol)
	}

	w := c.Windows
	snap := &model.Snapshot{
		Symbol:      c.Symbol,
		Source:      c.Fetcher.Name(),
		AsOf:        last.Date,
		Bars:        len(bars),
		Close:       last.Close,
		Volume:      last.Volume,
		Windows:     w,
		CollectedAt: time.Now(),
	}

	snap.SMA = c.lastOr(bars, "sma", price.MovingAverage(bars, w.SMA), last.Close)
	snap.EMA = c.lastOr(bars, "ema", price.ExponentialMovingAverage(bars, w.EMA), last.Close)
	snap.RSI = c.lastOr(bars, "rsi", price.RSI(bars, w.RSI), 50)
	snap.WeeklyRSI = c.lastOr(bars, "weekly_rsi", price.RSI(price.DayToWeek(bars, w.WeekAnchor), w.RSI), 50)
	snap.ATR = c.lastOr(bars, "atr", price.ATR(bars, w.ATR), 0)
	snap.StdDev = c.lastOr(bars, "stddev", price.StdDev(bars, w.StdDev), 0)
	snap.StochK = c.lastOr(bars, "stochastics", price.Stochastics(bars, w.Stochastics), 50)
	snap.Momentum = c.lastOr(bars, "momentum", price.Momentum(bars, w.Momentum), 0)

	high, low, _ := price.HighLow(bars, w.RangeBars)
	snap.RangeHigh, snap.RangeLow = high, low
	snap.Position = price.Position(last.Close, high, low)

	return snap, bars, nil
}

func (c *Collector) lastOr(bars price.Series, name string, s price.Series, fallback float64) float64 {
	if p, ok := price.Last(s); ok {
		return p.Close
	}
	c.Logger.WithFields(map[string]any{
		"indicator": name,
		"bars":      len(bars),
		"fallback":  fallback,
	}).Warn("not enough history for indicator")
	return fallback
}
