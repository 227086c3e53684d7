// Package risk computes historical-simulation Value-at-Risk and Expected
// Shortfall for a weighted portfolio.
package risk

import (
	"fmt"
	"math"
	"sort"

	"RiskLab/internal/calculator"
	"RiskLab/internal/model"
)

// WeightTolerance is the allowed deviation of the weight sum from 1.
const WeightTolerance = 0.01

// SupportedConfidence lists the accepted confidence levels, in percent.
var SupportedConfidence = []int{95, 99}

// Params describe one VaR / ES calculation.
type Params struct {
	Weights        map[string]float64
	PortfolioValue float64
	Lookback       int // price observations to use
	Horizon        int // days
	Confidence     int // percent
}

// Validate checks the parameters without touching any data.
func (p Params) Validate() error {
	if len(p.Weights) == 0 {
		return &model.ValidationError{Field: "weights", Msg: "at least one weighted ticker is required"}
	}
	sum := 0.0
	seen := make(map[string]bool, len(p.Weights))
	for ticker, w := range p.Weights {
		norm := model.NormalizeTicker(ticker)
		if norm == "" {
			return &model.ValidationError{Field: "weights", Msg: "empty ticker symbol"}
		}
		if seen[norm] {
			return &model.ValidationError{Field: "weights", Msg: "duplicate ticker " + norm}
		}
		seen[norm] = true
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return &model.ValidationError{Field: "weights", Msg: fmt.Sprintf("weight for %s is not a finite number", ticker)}
		}
		sum += w
	}
	if math.Abs(sum-1) > WeightTolerance {
		return &model.ValidationError{Field: "weights", Msg: fmt.Sprintf("weights sum to %.4f, must sum to 1 (±%.2f)", sum, WeightTolerance)}
	}
	if !(p.PortfolioValue > 0) {
		return &model.ValidationError{Field: "portfolio value", Msg: fmt.Sprintf("must be positive, got %v", p.PortfolioValue)}
	}
	if p.Lookback <= 1 {
		return &model.ValidationError{Field: "lookback", Msg: fmt.Sprintf("must be greater than 1, got %d", p.Lookback)}
	}
	if p.Horizon <= 0 {
		return &model.ValidationError{Field: "horizon", Msg: fmt.Sprintf("must be a positive number of days, got %d", p.Horizon)}
	}
	if !supported(p.Confidence) {
		return &model.ValidationError{Field: "confidence", Msg: fmt.Sprintf("must be one of %v, got %d", SupportedConfidence, p.Confidence)}
	}
	return nil
}

func supported(confidence int) bool {
	for _, c := range SupportedConfidence {
		if c == confidence {
			return true
		}
	}
	return false
}

// Compute runs the historical simulation over the most recent Lookback
// observations of every weighted ticker in set.
func Compute(set *model.AlignedSet, p Params) (*model.RiskResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	returns := make(map[string][]float64, len(p.Weights))
	weights := make(map[string]float64, len(p.Weights))
	for symbol, w := range p.Weights {
		ticker := model.NormalizeTicker(symbol)
		var series []model.PricePoint
		if set != nil {
			series = set.Series[ticker]
		}
		if len(series) < p.Lookback {
			return nil, &model.InsufficientDataError{Ticker: ticker, Found: len(series), Required: p.Lookback}
		}
		closes := model.Closes(series[len(series)-p.Lookback:])
		returns[ticker] = calculator.Returns(closes, calculator.SimpleReturn)
		weights[ticker] = w
	}

	portfolio, err := PortfolioReturns(returns, weights)
	if err != nil {
		return nil, err
	}
	dailyVaR, dailyES := HistoricalVaR(portfolio, p.Confidence)

	scale := math.Sqrt(float64(p.Horizon))
	res := &model.RiskResult{
		VaRPct:         dailyVaR * scale,
		ESPct:          dailyES * scale,
		Confidence:     p.Confidence,
		Horizon:        p.Horizon,
		PortfolioValue: p.PortfolioValue,
		Observations:   len(portfolio),
	}
	res.VaRUSD = res.VaRPct * p.PortfolioValue
	res.ESUSD = res.ESPct * p.PortfolioValue
	return res, nil
}

// PortfolioReturns returns, for each index, the weighted sum of the
// per-ticker returns at that index. Every weighted ticker needs a return
// series and all series must have the same length.
func PortfolioReturns(returns map[string][]float64, weights map[string]float64) ([]float64, error) {
	tickers := make([]string, 0, len(weights))
	for t := range weights {
		tickers = append(tickers, t)
	}
	// fixed summation order keeps results reproducible
	sort.Strings(tickers)

	n := -1
	for _, t := range tickers {
		r, ok := returns[t]
		if !ok {
			return nil, &model.InsufficientDataError{Ticker: t, Found: 0, Required: 2}
		}
		if n >= 0 && len(r) != n {
			return nil, fmt.Errorf("return series for %s has %d points, expected %d", t, len(r), n)
		}
		n = len(r)
	}
	if n < 0 {
		return nil, &model.ValidationError{Field: "weights", Msg: "no weighted tickers"}
	}

	out := make([]float64, n)
	for _, t := range tickers {
		w := weights[t]
		for i, r := range returns[t] {
			out[i] += w * r
		}
	}
	return out, nil
}

// HistoricalVaR returns the one-period VaR and Expected Shortfall of returns
// at the given confidence (percent), both as positive loss fractions. VaR is
// the negated return at index floor((1-c)*n) of the ascending order; ES is
// the negated mean of the returns strictly below that index, or VaR when
// that tail is empty.
func HistoricalVaR(returns []float64, confidence int) (varPct, esPct float64) {
	n := len(returns)
	if n == 0 {
		return 0, 0
	}
	sorted := make([]float64, n)
	copy(sorted, returns)
	sort.Float64s(sorted)

	alpha := 1 - float64(confidence)/100
	idx := int(math.Floor(alpha * float64(n)))
	idx = max(0, min(idx, n-1))

	varPct = -sorted[idx]
	if idx == 0 {
		return varPct, varPct
	}
	return varPct, -calculator.Mean(sorted[:idx])
}
