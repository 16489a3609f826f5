package collector

import (
	"fmt"
	"net/http"
	"net/url"

	"MarketLens/internal/price"
)

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

// yahooTickers maps local symbol names to Yahoo tickers.
var yahooTickers = map[string]string{
	"SPX500": "^GSPC",
	"SPX":    "^GSPC",
	"SP500":  "^GSPC",
	"NDX":    "^NDX",
	"DJI":    "^DJI",
}

// chartRanges picks the smallest chart range holding a number of daily bars.
var chartRanges = []struct {
	bars int
	name string
}{
	{20, "1mo"},
	{60, "3mo"},
	{120, "6mo"},
	{250, "1y"},
	{500, "2y"},
	{1250, "5y"},
}

// YahooFetcher reads daily bars from the Yahoo Finance chart API.
type YahooFetcher struct {
	Client  *http.Client
	BaseURL string
}

func NewYahooFetcher(proxyURL string) *YahooFetcher {
	return &YahooFetcher{Client: newHTTPClient(proxyURL), BaseURL: yahooChartURL}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []chartQuote `json:"quote"`
	} `json:"indicators"`
}

// chartQuote columns hold null for sessions without trades.
type chartQuote struct {
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*float64 `json:"volume"`
}

func column(values []*float64, i int) float64 {
	if i < len(values) && values[i] != nil {
		return *values[i]
	}
	return 0
}

func (r chartResult) bars() price.Series {
	if len(r.Indicators.Quote) == 0 {
		return nil
	}
	q := r.Indicators.Quote[0]
	bars := make(price.Series, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(q.Close) || q.Close[i] == nil {
			continue
		}
		bars = append(bars, price.Price{
			Date:   barDate(ts),
			High:   column(q.High, i),
			Low:    column(q.Low, i),
			Close:  *q.Close[i],
			Volume: column(q.Volume, i),
		})
	}
	return price.Sorted(bars)
}

// FetchDaily requests the smallest chart range covering days bars.
func (f *YahooFetcher) FetchDaily(symbol string, days int) (price.Series, error) {
	ticker := symbol
	if mapped, ok := yahooTickers[symbol]; ok {
		ticker = mapped
	}
	rng := "max"
	for _, r := range chartRanges {
		if days <= r.bars {
			rng = r.name
			break
		}
	}

	q := url.Values{"interval": {"1d"}, "range": {rng}}
	endpoint := f.BaseURL + url.PathEscape(ticker) + "?" + q.Encode()
	header := http.Header{"User-Agent": {"Mozilla/5.0"}}

	var chart chartResponse
	if err := getJSON(f.Client, endpoint, header, &chart); err != nil {
		return nil, fmt.Errorf("yahoo %s: %w", ticker, err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo %s: %s", ticker, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, fmt.Errorf("yahoo %s: no data returned", ticker)
	}
	bars := chart.Chart.Result[0].bars()
	if len(bars) == 0 {
		return nil, fmt.Errorf("yahoo %s: no bars returned", ticker)
	}
	return trim(bars, days), nil
}
