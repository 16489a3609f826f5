package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"MarketLens/internal/collector"
	"MarketLens/internal/config"
	"MarketLens/internal/logger"
	"MarketLens/internal/recorder"
	"MarketLens/internal/render"
	"MarketLens/internal/report"
	"MarketLens/internal/scheduler"
	"MarketLens/internal/styler"
)

type runOptions struct {
	once bool
	noDB bool
	last bool
}

func newRunCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Refresh indicators on the configured schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDaemon(cmd, rootFlags, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.once, "once", false, "Run a single refresh and exit")
	cmd.Flags().BoolVar(&opts.noDB, "no-db", false, "Do not record bars or snapshots")
	cmd.Flags().BoolVar(&opts.last, "last", false, "Print the last recorded snapshot without fetching")
	cmd.MarkFlagsMutuallyExclusive("last", "once")
	cmd.MarkFlagsMutuallyExclusive("last", "no-db")

	return cmd
}

func runDaemon(cmd *cobra.Command, rootFlags *rootFlags, opts *runOptions) error {
	cfg, log, err := loadConfig(cmd, rootFlags)
	if err != nil {
		return err
	}

	if opts.last {
		return printLastSnapshot(cmd, cfg, rootFlags, log)
	}

	fetcher := newFetcher(cfg)
	log.WithFields(map[string]any{"source": fetcher.Name(), "symbol": cfg.DataSource.Symbol}).Info("MarketLens starting")
	col := collector.NewCollector(fetcher, cfg.DataSource.Symbol, cfg.Windows(), log)

	rec := openRecorder(cfg, opts.noDB, log)
	defer rec.Close()

	st, theme, err := reportStyle(cmd, cfg, rootFlags, log)
	if err != nil {
		return err
	}

	sched := scheduler.NewScheduler(col, rec, st, theme, cmd.OutOrStdout(), log)
	if opts.once {
		_, err := sched.RunNow()
		return err
	}

	if err := sched.RegisterAll(cfg.Schedule.RefreshCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if cfg.Schedule.RunOnStart {
		log.Info("run_on_start enabled, refreshing now")
		go func() {
			if _, err := sched.RunNow(); err != nil {
				log.Error(err, "initial refresh failed")
			}
		}()
	}

	log.Info("MarketLens is running. Press Ctrl+C to stop.")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutdown signal received, stopping...")
	return nil
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	switch cfg.DataSource.Provider {
	case "vstrader":
		return collector.NewVsTraderFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case "csv":
		return collector.NewCSVFetcher(cfg.DataSource.CSVPath)
	case "mock":
		return &collector.MockFetcher{Price: cfg.DataSource.MockPrice}
	default:
		return collector.NewYahooFetcher(cfg.Proxy)
	}
}

// openRecorder falls back to the noop recorder when SQLite cannot be opened.
func openRecorder(cfg *config.Config, disabled bool, log *logger.Logger) recorder.Recorder {
	if disabled || cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Database.SQLitePath), 0o755); err != nil {
		log.Error(err, "create database directory, using noop recorder")
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
	if err != nil {
		log.Error(err, "init sqlite recorder failed, using noop recorder")
		return recorder.NewNoopRecorder()
	}
	return sr
}

// reportStyle builds the styler and theme used to color reports.
func reportStyle(cmd *cobra.Command, cfg *config.Config, rootFlags *rootFlags, log *logger.Logger) (*styler.Styler, *render.Theme, error) {
	rules, err := cfg.StyleRules()
	if err != nil {
		return nil, nil, err
	}
	if rules == "" {
		rules = report.DefaultRules
	}
	st, _ := styler.New(rules, log)
	theme, err := newTheme(cmd.OutOrStdout(), rootFlags.color)
	if err != nil {
		return nil, nil, err
	}
	return st, theme, nil
}

// printLastSnapshot reports the newest recorded snapshot for the configured
// symbol. Window sizes are not stored, so the configured ones are shown.
func printLastSnapshot(cmd *cobra.Command, cfg *config.Config, rootFlags *rootFlags, log *logger.Logger) error {
	rec, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log)
	if err != nil {
		return err
	}
	defer rec.Close()

	snap, err := rec.LatestSnapshot(cfg.DataSource.Symbol)
	if err != nil {
		return err
	}
	if snap == nil {
		return fmt.Errorf("no snapshot recorded for %s in %s", cfg.DataSource.Symbol, cfg.Database.SQLitePath)
	}
	snap.Windows = cfg.Windows()

	st, theme, err := reportStyle(cmd, cfg, rootFlags, log)
	if err != nil {
		return err
	}
	text := report.FormatSnapshot(snap)
	_, err = io.WriteString(cmd.OutOrStdout(), theme.Render(text, st.Style(text)))
	return err
}
