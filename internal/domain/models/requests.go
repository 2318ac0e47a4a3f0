package models

// AuditRequest is the input of POST /api/v1/audit and the CLI audit command.
type AuditRequest struct {
	Symbol         string  `json:"symbol" default:"BTC/USDT" validate:"required"`
	Timeframe      string  `json:"timeframe" default:"4h" validate:"oneof=1h 4h 1d"`
	StrategyType   string  `json:"strategy_type" default:"TREND_FOLLOWING" validate:"required,max=64"`
	AccountBalance float64 `json:"account_balance" default:"10000" validate:"gt=0"`
	RiskPercentage float64 `json:"risk_percentage" default:"0.01" validate:"gt=0"`
}

// StreamRequest is the first frame a client sends on the audit stream.
type StreamRequest struct {
	AuditRequest
	IntervalSeconds int `json:"interval_seconds" default:"60" validate:"gte=5,lte=3600"`
}
