package scheduler

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketLens/internal/collector"
	"MarketLens/internal/model"
	"MarketLens/internal/price"
	"MarketLens/internal/report"
	"MarketLens/internal/styler"
)

type memRecorder struct {
	bars      map[string]price.Series
	snapshots []*model.Snapshot
	err       error
}

func (m *memRecorder) RecordBars(symbol string, bars price.Series) error {
	if m.err != nil {
		return m.err
	}
	if m.bars == nil {
		m.bars = map[string]price.Series{}
	}
	m.bars[symbol] = bars
	return nil
}

func (m *memRecorder) RecordSnapshot(s *model.Snapshot) error {
	if m.err != nil {
		return m.err
	}
	m.snapshots = append(m.snapshots, s)
	return nil
}

func (m *memRecorder) Close() error { return nil }

func newTestCollector() *collector.Collector {
	fetcher := &collector.MockFetcher{Price: 5000, End: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)}
	return collector.NewCollector(fetcher, "SPX500", model.DefaultWindows(), nil)
}

func TestRunNow(t *testing.T) {
	rec := &memRecorder{}
	var out bytes.Buffer
	s := NewScheduler(newTestCollector(), rec, nil, nil, &out, nil)

	snap, err := s.RunNow()
	require.NoError(t, err)

	_, err = uuid.Parse(snap.RunID)
	assert.NoError(t, err)
	require.Len(t, rec.snapshots, 1)
	assert.Same(t, snap, rec.snapshots[0])
	assert.Len(t, rec.bars["SPX500"], 300)
	assert.Equal(t, report.FormatSnapshot(snap), out.String())
}

func TestRunNow_RecorderErrorStillReports(t *testing.T) {
	var out bytes.Buffer
	s := NewScheduler(newTestCollector(), &memRecorder{err: errors.New("disk full")}, nil, nil, &out, nil)

	_, err := s.RunNow()
	require.NoError(t, err)
	assert.Contains(t, out.String(), "MarketLens | SPX500 | 20240315")
}

func TestRunNow_CollectError(t *testing.T) {
	col := collector.NewCollector(&collector.MockFetcher{DailyData: price.Series{}}, "X", model.DefaultWindows(), nil)
	var out bytes.Buffer
	s := NewScheduler(col, nil, nil, nil, &out, nil)

	_, err := s.RunNow()
	assert.Error(t, err)
	assert.Empty(t, out.String())
}

func TestRunNow_StyledWithoutThemeIsPlain(t *testing.T) {
	st, err := styler.New(report.DefaultRules, nil)
	require.NoError(t, err)
	var out bytes.Buffer
	s := NewScheduler(newTestCollector(), nil, st, nil, &out, nil)

	snap, err := s.RunNow()
	require.NoError(t, err)
	assert.Equal(t, report.FormatSnapshot(snap), out.String())
}

func TestRegisterAll(t *testing.T) {
	s := NewScheduler(newTestCollector(), nil, nil, nil, nil, nil)
	require.NoError(t, s.RegisterAll("0 0 22 * * 1-5"))
	assert.Len(t, s.Cron.Entries(), 1)

	assert.Error(t, s.RegisterAll("not a cron"))

	s.Start()
	s.Stop()
}
