package recorder

import (
	"time"

	"RiskLab/internal/model"
)

// RiskRun is one completed VaR / ES calculation.
type RiskRun struct {
	Tickers  []string
	Weights  []float64
	Lookback int
	Result   *model.RiskResult
}

// VolatilityRun is one completed volatility-lab calculation.
type VolatilityRun struct {
	Tickers  []string
	Lookback int
	Window   int
	Result   *model.VolatilityResult
}

// RiskRunRecord is a stored risk run as read back from history.
type RiskRunRecord struct {
	ID         int64
	RecordedAt time.Time
	Tickers    string
	Weights    string
	Lookback   int
	Horizon    int
	Confidence int
	Value      float64
	VaRPct     float64
	ESPct      float64
	VaRUSD     float64
	ESUSD      float64
}

// Recorder persists calculation history.
type Recorder interface {
	RecordRisk(run *RiskRun) error
	RecordVolatility(run *VolatilityRun) error
	RecentRiskRuns(limit int) ([]RiskRunRecord, error)
	Close() error
}
