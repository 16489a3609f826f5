package recorder

import (
	"MarketLens/internal/model"
	"MarketLens/internal/price"
)

// Recorder persists collected bars and snapshots for later analysis.
type Recorder interface {
	RecordSnapshot(snap *model.Snapshot) error
	RecordBars(symbol string, bars price.Series) error
	Close() error
}
