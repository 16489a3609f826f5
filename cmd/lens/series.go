package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"MarketLens/internal/collector"
	"MarketLens/internal/config"
	"MarketLens/internal/model"
	"MarketLens/internal/price"
	"MarketLens/internal/recorder"
	"MarketLens/internal/report"
)

type transform struct {
	window func(w model.Windows) int
	apply  func(s price.Series, n int, anchor time.Weekday) price.Series
}

var transforms = map[string]transform{
	"ma": {
		window: func(w model.Windows) int { return w.SMA },
		apply:  func(s price.Series, n int, _ time.Weekday) price.Series { return price.MovingAverage(s, n) },
	},
	"ema": {
		window: func(w model.Windows) int { return w.EMA },
		apply:  func(s price.Series, n int, _ time.Weekday) price.Series { return price.ExponentialMovingAverage(s, n) },
	},
	"rsi": {
		window: func(w model.Windows) int { return w.RSI },
		apply:  func(s price.Series, n int, _ time.Weekday) price.Series { return price.RSI(s, n) },
	},
	"atr": {
		window: func(w model.Windows) int { return w.ATR },
		apply:  func(s price.Series, n int, _ time.Weekday) price.Series { return price.ATR(s, n) },
	},
	"stddev": {
		window: func(w model.Windows) int { return w.StdDev },
		apply:  func(s price.Series, n int, _ time.Weekday) price.Series { return price.StdDev(s, n) },
	},
	"stoch": {
		window: func(w model.Windows) int { return w.Stochastics },
		apply:  func(s price.Series, n int, _ time.Weekday) price.Series { return price.Stochastics(s, n) },
	},
	"momentum": {
		window: func(w model.Windows) int { return w.Momentum },
		apply:  func(s price.Series, n int, _ time.Weekday) price.Series { return price.Momentum(s, n) },
	},
	"week": {
		apply: func(s price.Series, _ int, anchor time.Weekday) price.Series { return price.DayToWeek(s, anchor) },
	},
	"month": {
		apply: func(s price.Series, _ int, _ time.Weekday) price.Series { return price.DayToMonth(s) },
	},
}

func transformNames() []string {
	names := make([]string, 0, len(transforms))
	for name := range transforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type seriesOptions struct {
	csv    string
	db     string
	symbol string
	window int
	anchor string
}

func newSeriesCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &seriesOptions{}

	cmd := &cobra.Command{
		Use:   "series <transform>",
		Short: "Compute a price transform over stored or CSV bars",
		Long:  "Compute a price transform and print the resulting series.\nTransforms: " + strings.Join(transformNames(), ", "),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeries(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.csv, "csv", "", "Read bars from a CSV file (date,high,low,close[,volume])")
	cmd.Flags().StringVar(&opts.db, "db", "", "Read bars from a MarketLens SQLite database")
	cmd.Flags().StringVar(&opts.symbol, "symbol", "SPX500", "Symbol to load from --db")
	cmd.Flags().IntVarP(&opts.window, "window", "n", 0, "Window size (default: the indicator's usual setting)")
	cmd.Flags().StringVar(&opts.anchor, "anchor", "friday", "Week anchor day for the week transform")

	return cmd
}

func runSeries(cmd *cobra.Command, opts *seriesOptions, name string) error {
	t, ok := transforms[strings.ToLower(name)]
	if !ok {
		return fmt.Errorf("unknown transform %q: want one of %s", name, strings.Join(transformNames(), ", "))
	}
	anchor, ok := config.ParseWeekday(opts.anchor)
	if !ok {
		return fmt.Errorf("invalid --anchor %q", opts.anchor)
	}

	bars, err := loadBars(opts)
	if err != nil {
		return err
	}

	n := opts.window
	if n == 0 && t.window != nil {
		n = t.window(model.DefaultWindows())
	}
	out := t.apply(bars, n, anchor)
	if len(out) == 0 {
		return fmt.Errorf("%s: no output for %d bars with window %d", name, len(bars), n)
	}

	_, err = io.WriteString(cmd.OutOrStdout(), report.FormatSeries(strings.ToLower(name), out))
	return err
}

func loadBars(opts *seriesOptions) (price.Series, error) {
	switch {
	case opts.csv != "" && opts.db != "":
		return nil, fmt.Errorf("--csv and --db are mutually exclusive")
	case opts.csv != "":
		return collector.NewCSVFetcher(opts.csv).FetchDaily("", 0)
	case opts.db != "":
		rec, err := recorder.NewSQLiteRecorder(opts.db, nil)
		if err != nil {
			return nil, err
		}
		defer rec.Close()
		return rec.LoadBars(opts.symbol, "")
	default:
		return nil, fmt.Errorf("one of --csv or --db is required")
	}
}
