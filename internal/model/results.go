package model

// RiskResult is the output of a historical-simulation VaR / ES calculation.
// Percent figures are fractions of portfolio value; positive means loss.
type RiskResult struct {
	VaRPct         float64 `json:"var_pct"`
	ESPct          float64 `json:"es_pct"`
	VaRUSD         float64 `json:"var_usd"`
	ESUSD          float64 `json:"es_usd"`
	Confidence     int     `json:"confidence"`
	Horizon        int     `json:"horizon"`
	PortfolioValue float64 `json:"portfolio_value"`
	Observations   int     `json:"observations"` // portfolio return scenarios used
}

// Regime is a coarse volatility classification.
type Regime string

const (
	RegimeHigh   Regime = "High"
	RegimeNormal Regime = "Normal"
	RegimeLow    Regime = "Low"
)

// VolPoint is one annualized volatility observation.
type VolPoint struct {
	Date       Date    `json:"date"`
	Volatility float64 `json:"volatility"`
}

// RegimePoint is the regime of the primary ticker on one date.
type RegimePoint struct {
	Date   Date   `json:"date"`
	Regime Regime `json:"regime"`
}

// VolatilityResult is the output of the volatility lab.
type VolatilityResult struct {
	Model        string                        `json:"model"`
	Volatilities map[string][]VolPoint         `json:"volatilities"`
	Correlation  map[string]map[string]float64 `json:"correlation_matrix,omitempty"`
	Primary      string                        `json:"primary"`
	Regimes      []RegimePoint                 `json:"regimes"`
	Dropped      []string                      `json:"dropped,omitempty"` // tickers without enough history
}
