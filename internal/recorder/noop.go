package recorder

import (
	"MarketLens/internal/model"
	"MarketLens/internal/price"
)

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSnapshot(_ *model.Snapshot) error    { return nil }
func (n *NoopRecorder) RecordBars(_ string, _ price.Series) error { return nil }
func (n *NoopRecorder) Close() error                              { return nil }
