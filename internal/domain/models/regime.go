package models

type VolatilityState string

const (
	Squeeze   VolatilityState = "SQUEEZE"
	Normal    VolatilityState = "NORMAL"
	Expansion VolatilityState = "EXPANSION"
)

type TrendState string

const (
	BullTrend TrendState = "BULL_TREND"
	BearTrend TrendState = "BEAR_TREND"
	Range     TrendState = "RANGE"
	Neutral   TrendState = "NEUTRAL"
)

// SuggestedStrategy is the classifier's recommended approach for the regime.
type SuggestedStrategy string

const (
	BreakoutSetup  SuggestedStrategy = "BREAKOUT_SETUP"
	TrendFollowing SuggestedStrategy = "TREND_FOLLOWING"
	MeanReversion  SuggestedStrategy = "MEAN_REVERSION"
	Wait           SuggestedStrategy = "WAIT"
)

// RegimeState is the joint trend/volatility classification of the latest candle.
type RegimeState struct {
	VolatilityState   VolatilityState   `json:"volatility_state"`
	TrendState        TrendState        `json:"trend_state"`
	SuggestedStrategy SuggestedStrategy `json:"suggested_strategy"`
}

// IsTrending reports whether the trend state is directional.
func (r RegimeState) IsTrending() bool {
	return r.TrendState == BullTrend || r.TrendState == BearTrend
}
