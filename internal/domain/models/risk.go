package models

const (
	// MaxRiskPct is the hard per-trade risk ceiling.
	MaxRiskPct = 0.02
	// StopATRMultiple converts ATR(14) into the 1R stop width.
	StopATRMultiple = 1.5
	// FlashCrashMultiple is the ATR / mean-ATR ratio above which a flash crash is flagged.
	FlashCrashMultiple = 5.0

	StopFormula       = "1.5 * ATR(14)"
	DistanceNote      = "Distances are volatility-based, not predictive targets."
	RiskCapMessage    = "Risk capped at 2% max per system rules."
	FlashCrashMessage = "Extreme Volatility Detected. Standard risk metrics may fail."
)

type RiskParameters struct {
	AccountBalance     float64 `json:"account_balance"`
	RiskPercentageUsed float64 `json:"risk_percentage_used"`
	RiskAmountUSD      float64 `json:"risk_amount_usd"`
}

type StopLossGuardrails struct {
	ATRValue     float64 `json:"atr_value"`
	MinStopWidth float64 `json:"min_stop_width_price"`
	Formula      string  `json:"formula"`
}

type PositionSizing struct {
	RecommendedUnits float64 `json:"recommended_units"`
	NotionalValue    float64 `json:"notional_value"`
}

// VolatilityDistances are undirected magnitudes, never price targets.
type VolatilityDistances struct {
	Distance1R float64 `json:"1R_distance"`
	Distance2R float64 `json:"2R_distance"`
	Distance3R float64 `json:"3R_distance"`
	Note       string  `json:"note"`
}

type RiskWarnings struct {
	RiskCapActive      bool `json:"risk_cap_active"`
	FlashCrashDetected bool `json:"flash_crash_detected"`
	// Message is null when no warning fires.
	Message *string `json:"message"`
}

// RiskAssessment is the risk engine output. RiskPercentageUsed never exceeds MaxRiskPct.
type RiskAssessment struct {
	RiskParameters      RiskParameters      `json:"risk_parameters"`
	StopLossGuardrails  StopLossGuardrails  `json:"stop_loss_guardrails"`
	PositionSizing      PositionSizing      `json:"position_sizing"`
	VolatilityDistances VolatilityDistances `json:"volatility_distances"`
	Warnings            RiskWarnings        `json:"warnings"`
}
