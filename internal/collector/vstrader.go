package collector

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"MarketLens/internal/price"
)

// VsTraderFetcher reads daily bars from a vstrader REST endpoint.
type VsTraderFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewVsTraderFetcher(baseURL, apiKey, proxyURL string) *VsTraderFetcher {
	return &VsTraderFetcher{BaseURL: baseURL, APIKey: apiKey, Client: newHTTPClient(proxyURL)}
}

func (f *VsTraderFetcher) Name() string { return "vstrader" }

type vsBar struct {
	Timestamp int64   `json:"timestamp"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
}

func (f *VsTraderFetcher) FetchDaily(symbol string, days int) (price.Series, error) {
	q := url.Values{"symbol": {symbol}, "limit": {strconv.Itoa(days)}}
	endpoint := f.BaseURL + "/api/v1/bars/daily?" + q.Encode()
	header := http.Header{}
	if f.APIKey != "" {
		header.Set("Authorization", "Bearer "+f.APIKey)
	}

	var raw []vsBar
	if err := getJSON(f.Client, endpoint, header, &raw); err != nil {
		return nil, fmt.Errorf("vstrader %s: %w", symbol, err)
	}
	bars := make(price.Series, len(raw))
	for i, b := range raw {
		bars[i] = price.Price{Date: barDate(b.Timestamp), High: b.High, Low: b.Low, Close: b.Close, Volume: b.Volume}
	}
	return trim(price.Sorted(bars), days), nil
}
