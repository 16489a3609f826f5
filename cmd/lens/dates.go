package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"MarketLens/internal/price"
	"MarketLens/internal/report"
)

type datesOptions struct {
	cadence string
	block   string
}

func newDatesCmd() *cobra.Command {
	opts := &datesOptions{}

	cmd := &cobra.Command{
		Use:   "dates <start> <stop>",
		Short: "List dates between start and stop at a fixed cadence",
		Long: "List dates between start and stop (inclusive) at a fixed cadence.\n" +
			"Cadences: day, weekday, friday, sunday, month, hour, min, sec.\n" +
			"Dates present in the --block CSV file are left out.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDates(cmd, opts, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&opts.cadence, "range", "weekday", "Cadence of the generated dates")
	cmd.Flags().StringVar(&opts.block, "block", "", "File of dates to exclude, one per line (first CSV column)")

	return cmd
}

func runDates(cmd *cobra.Command, opts *datesOptions, start, stop string) error {
	r, ok := price.ParseRange(opts.cadence)
	if !ok {
		return fmt.Errorf("unknown --range %q", opts.cadence)
	}

	var block price.Series
	if opts.block != "" {
		var err error
		if block, err = readBlockDates(opts.block); err != nil {
			return err
		}
	}

	if _, ok := price.ParseDate(start); !ok {
		return fmt.Errorf("invalid start date %q", start)
	}
	if _, ok := price.ParseDate(stop); !ok {
		return fmt.Errorf("invalid stop date %q", stop)
	}

	_, err := io.WriteString(cmd.OutOrStdout(), report.FormatDates(price.DateSerie(start, stop, r, block)))
	return err
}

// readBlockDates reads one date per line; anything after a comma is ignored
// so a bars CSV works too. Blank lines, comments and a header are skipped.
func readBlockDates(path string) (price.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read block dates: %w", err)
	}
	defer f.Close()

	var block price.Series
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		field, _, _ := strings.Cut(strings.TrimSpace(sc.Text()), ",")
		if field == "" || strings.HasPrefix(field, "#") {
			continue
		}
		if date, ok := price.CanonicalDate(field); ok {
			block = append(block, price.Price{Date: date})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read block dates: %w", err)
	}
	return price.Sorted(block), nil
}
