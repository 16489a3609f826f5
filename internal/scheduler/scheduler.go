package scheduler

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"MarketLens/internal/collector"
	"MarketLens/internal/logger"
	"MarketLens/internal/model"
	"MarketLens/internal/recorder"
	"MarketLens/internal/render"
	"MarketLens/internal/report"
	"MarketLens/internal/styler"
)

// Scheduler runs the refresh task on a cron schedule: collect bars, compute
// indicators, record both and print a colored report to Out.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Recorder  recorder.Recorder
	Styler    *styler.Styler
	Theme     *render.Theme
	Out       io.Writer
	Logger    *logger.Logger

	mu sync.Mutex
}

// NewScheduler creates a new Scheduler. styler and theme may be nil, in
// which case reports are written uncolored.
func NewScheduler(col *collector.Collector, rec recorder.Recorder, st *styler.Styler, th *render.Theme, out io.Writer, log *logger.Logger) *Scheduler {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	if out == nil {
		out = io.Discard
	}
	return &Scheduler{
		Cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.SkipIfStillRunning(cronLogger{log})),
		),
		Collector: col,
		Recorder:  rec,
		Styler:    st,
		Theme:     th,
		Out:       out,
		Logger:    log,
	}
}

// RegisterAll registers the refresh task.
func (s *Scheduler) RegisterAll(refreshCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Logger.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Logger.Info("scheduler stopped")
}

// RunNow executes the refresh task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() (*model.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	runID := uuid.NewString()
	log := s.Logger.WithFields(map[string]any{"run_id": runID, "symbol": s.Collector.Symbol})
	log.Info("running refresh")

	snap, bars, err := s.Collector.Collect()
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}
	snap.RunID = runID

	// Recording failures are logged; the report still goes out.
	if err := s.Recorder.RecordBars(snap.Symbol, bars); err != nil {
		log.Error(err, "record bars")
	}
	if err := s.Recorder.RecordSnapshot(snap); err != nil {
		log.Error(err, "record snapshot")
	}

	if _, err := io.WriteString(s.Out, s.colorize(report.FormatSnapshot(snap))); err != nil {
		log.Error(err, "write report")
	}
	return snap, nil
}

func (s *Scheduler) refreshTask() {
	if _, err := s.RunNow(); err != nil {
		s.Logger.Error(err, "refresh failed")
	}
}

func (s *Scheduler) colorize(text string) string {
	if s.Styler == nil || s.Theme == nil {
		return text
	}
	return s.Theme.Render(text, s.Styler.Style(text))
}

// cronLogger adapts the logger to cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.log.WithFields(fields(keysAndValues)).Debug("cron: " + msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.log.WithFields(fields(keysAndValues)).Error(err, "cron: "+msg)
}

func fields(kv []interface{}) map[string]any {
	out := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return out
}
