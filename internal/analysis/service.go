// Package analysis runs calculation requests end to end: validate, fetch,
// align, compute, record.
package analysis

import (
	"context"
	"fmt"
	"log"

	"RiskLab/internal/align"
	"RiskLab/internal/collector"
	"RiskLab/internal/model"
	"RiskLab/internal/recorder"
	"RiskLab/internal/risk"
	"RiskLab/internal/volatility"
)

// RiskRequest asks for portfolio VaR / ES. Weights[i] belongs to Tickers[i].
type RiskRequest struct {
	Tickers        []string
	Weights        []float64
	PortfolioValue float64
	Lookback       int
	Horizon        int
	Confidence     int
}

// VolatilityRequest asks for the volatility lab. Tickers[0] is the primary ticker.
type VolatilityRequest struct {
	Tickers  []string
	Lookback int
	Window   int
	Model    volatility.Model
}

// AlignRequest asks for the aligned price history of a set of tickers.
type AlignRequest struct {
	Tickers  []string
	Lookback int
}

// Service wires the collector, the engines and the recorder.
type Service struct {
	Collector  *collector.Collector
	Volatility *volatility.Engine
	Recorder   recorder.Recorder
}

// NewService creates a Service. A nil recorder disables history.
func NewService(col *collector.Collector, vol *volatility.Engine, rec recorder.Recorder) *Service {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Service{Collector: col, Volatility: vol, Recorder: rec}
}

// CalculateRisk validates the request, fetches and aligns every ticker, and
// returns the historical-simulation VaR / ES.
func (s *Service) CalculateRisk(ctx context.Context, req RiskRequest) (*model.RiskResult, error) {
	params, tickers, err := req.params()
	if err != nil {
		return nil, err
	}

	raw, err := s.Collector.CollectHistories(ctx, tickers, req.Lookback)
	if err != nil {
		return nil, err
	}
	set, err := align.Align(raw)
	if err != nil {
		return nil, fmt.Errorf("align: %w", err)
	}
	res, err := risk.Compute(set, params)
	if err != nil {
		return nil, err
	}

	if err := s.Recorder.RecordRisk(&recorder.RiskRun{
		Tickers: tickers, Weights: req.Weights, Lookback: req.Lookback, Result: res,
	}); err != nil {
		log.Printf("[ERROR] record risk run: %v", err)
	}
	return res, nil
}

func (req RiskRequest) params() (risk.Params, []string, error) {
	if len(req.Tickers) != len(req.Weights) {
		return risk.Params{}, nil, &model.ValidationError{
			Field: "weights",
			Msg:   fmt.Sprintf("%d tickers but %d weights", len(req.Tickers), len(req.Weights)),
		}
	}
	tickers := make([]string, len(req.Tickers))
	weights := make(map[string]float64, len(req.Tickers))
	for i, t := range req.Tickers {
		ticker := model.NormalizeTicker(t)
		if ticker == "" {
			return risk.Params{}, nil, &model.ValidationError{Field: "tickers", Msg: "empty ticker symbol"}
		}
		if _, dup := weights[ticker]; dup {
			return risk.Params{}, nil, &model.ValidationError{Field: "tickers", Msg: "duplicate ticker " + ticker}
		}
		tickers[i] = ticker
		weights[ticker] = req.Weights[i]
	}
	p := risk.Params{
		Weights:        weights,
		PortfolioValue: req.PortfolioValue,
		Lookback:       req.Lookback,
		Horizon:        req.Horizon,
		Confidence:     req.Confidence,
	}
	if err := p.Validate(); err != nil {
		return risk.Params{}, nil, err
	}
	return p, tickers, nil
}

// CalculateVolatility validates the request, fetches every ticker, drops
// histories too short for the lookback, aligns the rest and runs the
// volatility engine. It fails only when no ticker has enough history.
func (s *Service) CalculateVolatility(ctx context.Context, req VolatilityRequest) (*model.VolatilityResult, error) {
	params := volatility.Params{Tickers: req.Tickers, Lookback: req.Lookback, Window: req.Window, Model: req.Model}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	raw, err := s.Collector.CollectHistories(ctx, req.Tickers, req.Lookback)
	if err != nil {
		return nil, err
	}
	var dropped []string
	best := 0
	for _, t := range req.Tickers {
		ticker := model.NormalizeTicker(t)
		best = max(best, len(raw[ticker]))
		if len(raw[ticker]) < req.Lookback {
			log.Printf("[WARN] volatility: %s has %d bars, need %d, dropped before alignment", ticker, len(raw[ticker]), req.Lookback)
			delete(raw, ticker)
			dropped = append(dropped, ticker)
		}
	}
	if len(raw) == 0 {
		return nil, &model.InsufficientDataError{Found: best, Required: req.Lookback}
	}

	set, err := align.Align(raw)
	if err != nil {
		return nil, fmt.Errorf("align: %w", err)
	}
	res, err := s.Volatility.Compute(set, params)
	if err != nil {
		return nil, err
	}
	// tickers dropped before alignment come first
	res.Dropped = mergeDropped(dropped, res.Dropped)

	if err := s.Recorder.RecordVolatility(&recorder.VolatilityRun{
		Tickers: req.Tickers, Lookback: req.Lookback, Window: req.Window, Result: res,
	}); err != nil {
		log.Printf("[ERROR] record volatility run: %v", err)
	}
	return res, nil
}

func mergeDropped(first, second []string) []string {
	seen := make(map[string]bool, len(first))
	out := append([]string(nil), first...)
	for _, t := range first {
		seen[t] = true
	}
	for _, t := range second {
		if !seen[t] {
			out = append(out, t)
			seen[t] = true
		}
	}
	return out
}

// AlignedHistory fetches and aligns tickers and returns the trailing Lookback
// rows of the aligned set (all rows when the set is shorter).
func (s *Service) AlignedHistory(ctx context.Context, req AlignRequest) (*model.AlignedSet, error) {
	if len(req.Tickers) == 0 {
		return nil, &model.ValidationError{Field: "tickers", Msg: "at least one ticker is required"}
	}
	if req.Lookback < 2 {
		return nil, &model.ValidationError{Field: "lookback", Msg: fmt.Sprintf("must be at least 2, got %d", req.Lookback)}
	}
	raw, err := s.Collector.CollectHistories(ctx, req.Tickers, req.Lookback)
	if err != nil {
		return nil, err
	}
	set, err := align.Align(raw)
	if err != nil {
		return nil, fmt.Errorf("align: %w", err)
	}
	if n := set.Len(); n > req.Lookback {
		for t, series := range set.Series {
			set.Series[t] = series[n-req.Lookback:]
		}
	}
	return set, nil
}
