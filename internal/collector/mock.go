package collector

import (
	"context"
	"hash/fnv"
	"math/rand"
	"time"

	"RiskLab/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
// Symbols without a fixed history get a deterministic synthetic random walk.
type MockFetcher struct {
	Histories map[string][]model.PricePoint
	Errors    map[string]error
	End       model.Date // last synthetic bar; today when zero
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyHistory(ctx context.Context, symbol string, period Period) ([]model.PricePoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := m.Errors[symbol]; ok {
		return nil, err
	}
	if h, ok := m.Histories[symbol]; ok {
		return h, nil
	}
	end := m.End
	if end.IsZero() {
		end = model.DateOf(time.Now())
	}
	return generateMockBars(symbol, end, barsFor(period)), nil
}

func barsFor(period Period) int {
	for _, c := range periodCatalog {
		if c.period == period {
			return c.bars + c.bars/20
		}
	}
	return 5000
}

// generateMockBars produces count weekday bars ending on or before end.
func generateMockBars(symbol string, end model.Date, count int) []model.PricePoint {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	dates := make([]model.Date, 0, count)
	for d := end; len(dates) < count; d = d.AddDays(-1) {
		if wd := d.Time().Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		dates = append(dates, d)
	}

	bars := make([]model.PricePoint, count)
	p := 50 + rng.Float64()*150
	for i := range bars {
		p *= 1 + rng.NormFloat64()*0.015
		bars[i] = model.PricePoint{
			Date:   dates[count-1-i],
			Open:   p * 0.999,
			High:   p * 1.005,
			Low:    p * 0.995,
			Close:  p,
			Volume: 1_000_000 + rng.Int63n(500_000),
		}
	}
	return bars
}
