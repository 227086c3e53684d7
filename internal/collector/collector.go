package collector

import (
	"context"
	"fmt"
	"log"
	"sync"

	"RiskLab/internal/model"
)

const defaultConcurrency = 4

// Collector fetches raw histories for a set of tickers.
type Collector struct {
	Fetcher     Fetcher
	Concurrency int
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, concurrency int) *Collector {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Collector{Fetcher: fetcher, Concurrency: concurrency}
}

// CollectHistories fetches enough daily history for lookback observations of
// every symbol, concurrently. It is all-or-nothing: if any symbol fails the
// result is a *model.FetchError naming every failing symbol.
func (c *Collector) CollectHistories(ctx context.Context, symbols []string, lookback int) (map[string][]model.PricePoint, error) {
	tickers := make([]string, 0, len(symbols))
	seen := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		t := model.NormalizeTicker(s)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tickers = append(tickers, t)
	}
	if len(tickers) == 0 {
		return nil, &model.ValidationError{Field: "tickers", Msg: "no ticker symbols to fetch"}
	}

	period := PeriodForLookback(lookback)
	log.Printf("[INFO] fetching %d tickers from %s (range=%s interval=%s)", len(tickers), c.Fetcher.Name(), period, Interval)

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		out      = make(map[string][]model.PricePoint, len(tickers))
		failures = make(map[string]error)
		sem      = make(chan struct{}, c.concurrency())
	)
	for _, t := range tickers {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				mu.Lock()
				failures[ticker] = ctx.Err()
				mu.Unlock()
				return
			}
			points, err := c.Fetcher.FetchDailyHistory(ctx, ticker, period)
			if err == nil && len(points) == 0 {
				err = fmt.Errorf("no data returned")
			}
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Printf("[ERROR] fetch %s: %v", ticker, err)
				failures[ticker] = err
				return
			}
			out[ticker] = sortAndDedupe(append([]model.PricePoint(nil), points...))
		}(t)
	}
	wg.Wait()

	if len(failures) > 0 {
		return nil, &model.FetchError{Failures: failures}
	}
	return out, nil
}

func (c *Collector) concurrency() int {
	if c.Concurrency <= 0 {
		return defaultConcurrency
	}
	return c.Concurrency
}
