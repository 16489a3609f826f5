package model

import "time"

// Snapshot is the latest indicator reading for one symbol.
type Snapshot struct {
	RunID       string
	Symbol      string
	Source      string
	AsOf        string // canonical date of the newest bar
	Bars        int
	Close       float64
	Volume      float64
	SMA         float64
	EMA         float64
	RSI         float64
	WeeklyRSI   float64
	ATR         float64
	StdDev      float64
	StochK      float64
	Momentum    float64
	RangeHigh   float64
	RangeLow    float64
	Position    float64 // 0.0 ~ 1.0 within [RangeLow, RangeHigh]
	Windows     Windows
	CollectedAt time.Time
}

// Windows holds the lookback of every indicator in a Snapshot.
type Windows struct {
	History     int
	SMA         int
	EMA         int
	RSI         int
	ATR         int
	StdDev      int
	Stochastics int
	Momentum    int
	RangeBars   int
	WeekAnchor  time.Weekday
}

// DefaultWindows mirrors the usual daily-chart settings.
func DefaultWindows() Windows {
	return Windows{
		History:     300,
		SMA:         200,
		EMA:         20,
		RSI:         14,
		ATR:         14,
		StdDev:      20,
		Stochastics: 14,
		Momentum:    10,
		RangeBars:   252,
		WeekAnchor:  time.Friday,
	}
}
