// Package volatility computes realized and EWMA volatility series, a short-term
// correlation matrix, and a volatility regime for a primary ticker.
package volatility

import (
	"fmt"
	"log"
	"math"

	"RiskLab/internal/calculator"
	"RiskLab/internal/model"
)

// Model selects the volatility estimator.
type Model string

const (
	Realized Model = "realized"
	EWMA     Model = "ewma"
)

// ParseModel maps a user-supplied name to a Model.
func ParseModel(s string) (Model, error) {
	switch Model(s) {
	case Realized, EWMA:
		return Model(s), nil
	case "garch", "garch-lite":
		return EWMA, nil
	}
	return "", &model.ValidationError{Field: "model", Msg: fmt.Sprintf("unknown volatility model %q (want realized or ewma)", s)}
}

// Options are the estimator constants.
type Options struct {
	Lambda            float64 // EWMA decay
	AnnualizationDays float64
	RegimeLowPct      float64 // below this percentile: Low
	RegimeHighPct     float64 // above this percentile: High
}

// DefaultOptions returns the RiskMetrics-style defaults.
func DefaultOptions() Options {
	return Options{Lambda: 0.94, AnnualizationDays: 252, RegimeLowPct: 25, RegimeHighPct: 75}
}

// Validate checks that the options describe a usable estimator.
func (o Options) Validate() error {
	if o.Lambda <= 0 || o.Lambda >= 1 {
		return fmt.Errorf("ewma lambda must be in (0,1), got %v", o.Lambda)
	}
	if o.AnnualizationDays <= 0 {
		return fmt.Errorf("annualization days must be positive, got %v", o.AnnualizationDays)
	}
	if o.RegimeLowPct < 0 || o.RegimeHighPct > 100 || o.RegimeLowPct >= o.RegimeHighPct {
		return fmt.Errorf("regime percentiles must satisfy 0 <= low < high <= 100, got %v/%v", o.RegimeLowPct, o.RegimeHighPct)
	}
	return nil
}

// Params describe one volatility calculation. The first ticker is the primary
// ticker for regime classification.
type Params struct {
	Tickers  []string
	Lookback int // price observations to use
	Window   int // rolling / seed window in returns
	Model    Model
}

// Validate checks the parameters without touching any data.
func (p Params) Validate() error {
	if len(p.Tickers) == 0 {
		return &model.ValidationError{Field: "tickers", Msg: "at least one ticker is required"}
	}
	seen := make(map[string]bool, len(p.Tickers))
	for _, t := range p.Tickers {
		ticker := model.NormalizeTicker(t)
		if ticker == "" {
			return &model.ValidationError{Field: "tickers", Msg: "empty ticker symbol"}
		}
		if seen[ticker] {
			return &model.ValidationError{Field: "tickers", Msg: "duplicate ticker " + ticker}
		}
		seen[ticker] = true
	}
	if p.Window < 2 {
		return &model.ValidationError{Field: "window", Msg: fmt.Sprintf("must be at least 2, got %d", p.Window)}
	}
	// lookback prices give lookback-1 returns and lookback-1-window points
	if p.Lookback < p.Window+2 {
		return &model.ValidationError{Field: "lookback", Msg: fmt.Sprintf("must be at least window+2 (%d), got %d", p.Window+2, p.Lookback)}
	}
	if p.Model != Realized && p.Model != EWMA {
		return &model.ValidationError{Field: "model", Msg: fmt.Sprintf("unknown volatility model %q", p.Model)}
	}
	return nil
}

// Engine computes volatility results with fixed estimator options.
type Engine struct {
	opts Options
}

// NewEngine creates an Engine.
func NewEngine(opts Options) *Engine {
	return &Engine{opts: opts}
}

type assetReturns struct {
	ticker  string
	dates   []model.Date // price dates, len(returns)+1
	returns []float64
}

// Compute runs the selected model for every ticker that has at least
// Lookback observations in set. Tickers with less history are dropped and
// listed in the result; if none remain the call fails.
func (e *Engine) Compute(set *model.AlignedSet, p Params) (*model.VolatilityResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	var assets []assetReturns
	var dropped []string
	best := 0
	for _, symbol := range p.Tickers {
		ticker := model.NormalizeTicker(symbol)
		var series []model.PricePoint
		if set != nil {
			series = set.Series[ticker]
		}
		best = max(best, len(series))
		if len(series) < p.Lookback {
			log.Printf("[WARN] volatility: dropping %s, %d observations, need %d", ticker, len(series), p.Lookback)
			dropped = append(dropped, ticker)
			continue
		}
		window := series[len(series)-p.Lookback:]
		dates := make([]model.Date, len(window))
		for i, pt := range window {
			dates[i] = pt.Date
		}
		assets = append(assets, assetReturns{
			ticker:  ticker,
			dates:   dates,
			returns: calculator.Returns(model.Closes(window), calculator.LogReturn),
		})
	}
	if len(assets) == 0 {
		return nil, &model.InsufficientDataError{Found: best, Required: p.Lookback}
	}

	res := &model.VolatilityResult{
		Model:        string(p.Model),
		Volatilities: make(map[string][]model.VolPoint, len(assets)),
		Primary:      assets[0].ticker,
		Dropped:      dropped,
	}
	for _, a := range assets {
		if p.Model == EWMA {
			res.Volatilities[a.ticker] = e.ewma(a, p.Window)
		} else {
			res.Volatilities[a.ticker] = e.realized(a, p.Window)
		}
	}

	if len(assets) >= 2 {
		corr, err := correlationMatrix(assets, p.Window)
		if err != nil {
			return nil, fmt.Errorf("correlation matrix: %w", err)
		}
		res.Correlation = corr
	}

	res.Regimes = e.classify(res.Volatilities[res.Primary])
	return res, nil
}

// realized: point i is the sample stddev of returns[i-w, i), annualized.
func (e *Engine) realized(a assetReturns, w int) []model.VolPoint {
	scale := math.Sqrt(e.opts.AnnualizationDays)
	out := make([]model.VolPoint, 0, len(a.returns)-w)
	for i := w; i < len(a.returns); i++ {
		out = append(out, model.VolPoint{
			Date:       a.dates[i],
			Volatility: calculator.SampleStdDev(a.returns[i-w:i]) * scale,
		})
	}
	return out
}

// ewma seeds the variance from the first w returns, then applies
// v_i = lambda*v_{i-1} + (1-lambda)*r_{i-1}^2 for i = w .. len(returns)-1.
func (e *Engine) ewma(a assetReturns, w int) []model.VolPoint {
	sd := calculator.SampleStdDev(a.returns[:w])
	lambda := e.opts.Lambda
	variances := calculator.Scan(a.returns[w-1:len(a.returns)-1], sd*sd, func(v, r float64) float64 {
		return lambda*v + (1-lambda)*r*r
	})
	out := make([]model.VolPoint, len(variances))
	for k, v := range variances {
		out[k] = model.VolPoint{Date: a.dates[w+k], Volatility: math.Sqrt(v * e.opts.AnnualizationDays)}
	}
	return out
}

// correlationMatrix correlates each pair over their most recent w returns.
func correlationMatrix(assets []assetReturns, w int) (map[string]map[string]float64, error) {
	recent := make([][]float64, len(assets))
	matrix := make(map[string]map[string]float64, len(assets))
	for i, a := range assets {
		recent[i] = a.returns[len(a.returns)-w:]
		matrix[a.ticker] = make(map[string]float64, len(assets))
		matrix[a.ticker][a.ticker] = 1
	}
	for i := 0; i < len(assets); i++ {
		for j := i + 1; j < len(assets); j++ {
			r, err := calculator.PearsonCorrelation(recent[i], recent[j])
			if err != nil {
				return nil, fmt.Errorf("%s/%s: %w", assets[i].ticker, assets[j].ticker, err)
			}
			matrix[assets[i].ticker][assets[j].ticker] = r
			matrix[assets[j].ticker][assets[i].ticker] = r
		}
	}
	return matrix, nil
}

// classify labels each point against the percentiles of the whole series.
func (e *Engine) classify(vols []model.VolPoint) []model.RegimePoint {
	values := make([]float64, len(vols))
	for i, v := range vols {
		values[i] = v.Volatility
	}
	low := calculator.Percentile(values, e.opts.RegimeLowPct)
	high := calculator.Percentile(values, e.opts.RegimeHighPct)

	out := make([]model.RegimePoint, len(vols))
	for i, v := range vols {
		regime := model.RegimeNormal
		switch {
		case v.Volatility > high:
			regime = model.RegimeHigh
		case v.Volatility < low:
			regime = model.RegimeLow
		}
		out[i] = model.RegimePoint{Date: v.Date, Regime: regime}
	}
	return out
}
