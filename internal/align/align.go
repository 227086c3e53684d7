// Package align reconciles per-ticker daily histories onto one calendar.
package align

import (
	"log"
	"sort"

	"RiskLab/internal/model"
)

// Align builds an AlignedSet from raw, possibly ragged, per-ticker histories.
//
// Every date observed by any ticker becomes a row of the common calendar.
// A ticker missing a row after its first observation is forward-filled from
// its last real bar with Volume 0. Rows before a ticker's first observation
// are never fabricated: the whole set is trimmed to start at the latest
// first-observation date across tickers. Tickers with an empty history are
// ignored. Tickers are returned in sorted order.
func Align(raw map[string][]model.PricePoint) (*model.AlignedSet, error) {
	observed := make(map[string]map[model.Date]model.PricePoint, len(raw))
	calendar := make(map[model.Date]struct{})
	for symbol, points := range raw {
		ticker := model.NormalizeTicker(symbol)
		if ticker == "" {
			return nil, &model.ValidationError{Field: "ticker", Msg: "empty ticker symbol"}
		}
		if _, dup := observed[ticker]; dup {
			return nil, &model.ValidationError{Field: "ticker", Msg: "duplicate ticker " + ticker}
		}
		byDate := make(map[model.Date]model.PricePoint, len(points))
		for _, p := range points {
			byDate[p.Date] = p
			calendar[p.Date] = struct{}{}
		}
		observed[ticker] = byDate
	}

	dates := make([]model.Date, 0, len(calendar))
	for d := range calendar {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	tickers := make([]string, 0, len(observed))
	for ticker, byDate := range observed {
		if len(byDate) == 0 {
			log.Printf("[WARN] align: %s has no observations, ignored", ticker)
			continue
		}
		tickers = append(tickers, ticker)
	}
	if len(tickers) == 0 {
		return nil, &model.InsufficientDataError{Found: 0, Required: 2}
	}
	sort.Strings(tickers)

	filled := make(map[string][]model.PricePoint, len(tickers))
	var commonStart model.Date
	for _, ticker := range tickers {
		series := forwardFill(dates, observed[ticker])
		filled[ticker] = series
		if first := series[0].Date; first.After(commonStart) {
			commonStart = first
		}
	}

	set := &model.AlignedSet{Tickers: tickers, Series: make(map[string][]model.PricePoint, len(tickers))}
	for _, ticker := range tickers {
		series := filled[ticker]
		start := sort.Search(len(series), func(i int) bool { return !series[i].Date.Before(commonStart) })
		set.Series[ticker] = series[start:]
	}
	if n := set.Len(); n < 2 {
		return nil, &model.InsufficientDataError{Found: n, Required: 2}
	}
	return set, nil
}

// forwardFill walks the calendar once, emitting real bars where present and
// copies of the last real bar (volume zeroed) afterwards. Dates before the
// first real bar are skipped.
func forwardFill(calendar []model.Date, byDate map[model.Date]model.PricePoint) []model.PricePoint {
	out := make([]model.PricePoint, 0, len(calendar))
	var last model.PricePoint
	seen := false
	for _, d := range calendar {
		if p, ok := byDate[d]; ok {
			last, seen = p, true
			out = append(out, p)
			continue
		}
		if !seen {
			continue
		}
		fill := last
		fill.Date = d
		fill.Volume = 0
		out = append(out, fill)
	}
	return out
}
