package collector

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"MarketLens/internal/price"
)

// CSVFetcher reads bars from a local file with columns
// date,high,low,close[,volume]. A header row is skipped.
type CSVFetcher struct {
	Path string
}

func NewCSVFetcher(path string) *CSVFetcher { return &CSVFetcher{Path: path} }

func (f *CSVFetcher) Name() string { return "csv" }

// FetchDaily ignores symbol; the file holds a single series.
func (f *CSVFetcher) FetchDaily(_ string, days int) (price.Series, error) {
	file, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	bars, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	return trim(bars, days), nil
}

// ReadCSV parses date,high,low,close[,volume] rows into a sorted Series.
func ReadCSV(r io.Reader) (price.Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var bars price.Series
	for row := 1; ; row++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		if len(rec) < 4 {
			return nil, fmt.Errorf("row %d: want at least 4 columns, got %d", row, len(rec))
		}
		date, ok := price.CanonicalDate(rec[0])
		if !ok {
			if row == 1 {
				continue // header
			}
			return nil, fmt.Errorf("row %d: bad date %q", row, rec[0])
		}

		var vals [4]float64
		for i := 1; i < len(rec) && i <= 4; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(rec[i]), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", row, i+1, err)
			}
			vals[i-1] = v
		}
		bars = append(bars, price.Price{Date: date, High: vals[0], Low: vals[1], Close: vals[2], Volume: vals[3]})
	}
	return price.Sorted(bars), nil
}
