package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"MarketLens/internal/price"
)

// Fetcher defines the interface for fetching daily bars.
type Fetcher interface {
	// FetchDaily returns up to days daily bars, oldest first.
	FetchDaily(symbol string, days int) (price.Series, error)
	Name() string
}

// trim keeps the newest n bars.
func trim(s price.Series, n int) price.Series {
	if n > 0 && len(s) > n {
		return s[len(s)-n:]
	}
	return s
}

// newHTTPClient returns a client routed through proxyURL when it parses.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}

// getJSON sends a GET to endpoint and decodes a 200 response into v. Other
// statuses return an error carrying the start of the body.
func getJSON(client *http.Client, endpoint string, header http.Header, v any) error {
	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}

// barDate formats a unix timestamp as a canonical UTC date.
func barDate(ts int64) string {
	return price.FormatDate(time.Unix(ts, 0).UTC())
}
