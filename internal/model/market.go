package model

import "strings"

// PricePoint is a single daily bar.
type PricePoint struct {
	Date   Date    `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume int64   `json:"volume"`
}

// AlignedSet holds per-ticker price series that share one calendar: every
// series has the same length and the same date at each index. Forward-filled
// points carry Volume == 0.
type AlignedSet struct {
	Tickers []string                `json:"tickers"`
	Series  map[string][]PricePoint `json:"series"`
}

// Len returns the common series length, 0 for an empty set.
func (s *AlignedSet) Len() int {
	if s == nil || len(s.Tickers) == 0 {
		return 0
	}
	return len(s.Series[s.Tickers[0]])
}

// Dates returns the shared calendar of the set.
func (s *AlignedSet) Dates() []Date {
	if s.Len() == 0 {
		return nil
	}
	series := s.Series[s.Tickers[0]]
	dates := make([]Date, len(series))
	for i, p := range series {
		dates[i] = p.Date
	}
	return dates
}

// Closes extracts the closing prices of one series.
func Closes(points []PricePoint) []float64 {
	closes := make([]float64, len(points))
	for i, p := range points {
		closes[i] = p.Close
	}
	return closes
}

// NormalizeTicker trims and upper-cases a ticker symbol.
func NormalizeTicker(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
