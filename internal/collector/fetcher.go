package collector

import (
	"context"

	"RiskLab/internal/model"
)

// Interval is the bar interval used for every calculation.
const Interval = "1d"

// Period is a historical range token understood by market-data providers.
type Period string

const (
	Period1Mo Period = "1mo"
	Period3Mo Period = "3mo"
	Period6Mo Period = "6mo"
	Period1Y  Period = "1y"
	Period2Y  Period = "2y"
	Period5Y  Period = "5y"
	Period10Y Period = "10y"
	PeriodMax Period = "max"
)

// periodCatalog lists periods with the number of daily bars they can be
// relied on to contain, smallest first.
var periodCatalog = []struct {
	period Period
	bars   int
}{
	{Period1Mo, 20},
	{Period3Mo, 60},
	{Period6Mo, 120},
	{Period1Y, 250},
	{Period2Y, 500},
	{Period5Y, 1250},
	{Period10Y, 2500},
}

// PeriodForLookback returns the smallest period holding at least days daily bars.
func PeriodForLookback(days int) Period {
	for _, c := range periodCatalog {
		if days <= c.bars {
			return c.period
		}
	}
	return PeriodMax
}

// Fetcher defines the interface for fetching daily price histories.
// Implementations return bars sorted by date.
type Fetcher interface {
	FetchDailyHistory(ctx context.Context, symbol string, period Period) ([]model.PricePoint, error)
	Name() string
}
