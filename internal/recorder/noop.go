package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRisk(_ *RiskRun) error                   { return nil }
func (n *NoopRecorder) RecordVolatility(_ *VolatilityRun) error       { return nil }
func (n *NoopRecorder) RecentRiskRuns(_ int) ([]RiskRunRecord, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                  { return nil }
