package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"

	"RiskLab/internal/model"
)

// RESTFetcher implements Fetcher against a generic bars REST API that
// returns a JSON array of {date|timestamp, open, high, low, close, volume}.
type RESTFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTFetcher creates a new fetcher with optional proxy support.
func NewRESTFetcher(baseURL, apiKey, proxyURL string) *RESTFetcher {
	return &RESTFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *RESTFetcher) Name() string { return "rest" }

func (f *RESTFetcher) FetchDailyHistory(ctx context.Context, symbol string, period Period) ([]model.PricePoint, error) {
	endpoint := fmt.Sprintf("%s/api/v1/bars?symbol=%s&interval=%s&range=%s",
		f.BaseURL, url.QueryEscape(symbol), Interval, period)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch bars: status %d, body: %s", resp.StatusCode, string(body))
	}
	return parseBarsGJSON(body, symbol)
}

func parseBarsGJSON(body []byte, symbol string) ([]model.PricePoint, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("decode bars for %s: invalid json", symbol)
	}
	bars := gjson.ParseBytes(body)
	if data := bars.Get("data"); data.IsArray() {
		bars = data
	}
	if !bars.IsArray() {
		return nil, fmt.Errorf("decode bars for %s: expected an array", symbol)
	}

	var points []model.PricePoint
	var parseErr error
	bars.ForEach(func(_, v gjson.Result) bool {
		var d model.Date
		if s := v.Get("date"); s.Exists() {
			d, parseErr = model.ParseDate(s.String())
			if parseErr != nil {
				return false
			}
		} else if ts := v.Get("timestamp"); ts.Exists() {
			d = model.DateOf(time.Unix(ts.Int(), 0).UTC())
		} else {
			parseErr = fmt.Errorf("bar without date or timestamp: %s", v.Raw)
			return false
		}
		c := v.Get("close").Float()
		if c <= 0 {
			return true
		}
		points = append(points, model.PricePoint{
			Date:   d,
			Open:   v.Get("open").Float(),
			High:   v.Get("high").Float(),
			Low:    v.Get("low").Float(),
			Close:  c,
			Volume: v.Get("volume").Int(),
		})
		return true
	})
	if parseErr != nil {
		return nil, fmt.Errorf("decode bars for %s: %w", symbol, parseErr)
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("api: no bars for %s", symbol)
	}
	return sortAndDedupe(points), nil
}
