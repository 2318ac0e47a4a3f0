package analytics

import "RegimeAudit/internal/domain/models"

// Classification thresholds. All comparisons are strict.
const (
	SqueezePercentile   = 0.20
	ExpansionPercentile = 0.80
	TrendingADX         = 25.0
	RangingADX          = 20.0
)

// RegimeClassifier maps a metric snapshot onto a regime. It is total: every
// finite snapshot yields exactly one state per dimension.
type RegimeClassifier struct{}

func NewRegimeClassifier() *RegimeClassifier { return &RegimeClassifier{} }

func (c *RegimeClassifier) Classify(m models.MetricSnapshot) models.RegimeState {
	vol := volatilityState(m.BBWPercentile)
	trend := trendState(m.ADX, m.EMADelta)
	return models.RegimeState{
		VolatilityState:   vol,
		TrendState:        trend,
		SuggestedStrategy: suggest(vol, trend),
	}
}

func volatilityState(pct float64) models.VolatilityState {
	switch {
	case pct < SqueezePercentile:
		return models.Squeeze
	case pct > ExpansionPercentile:
		return models.Expansion
	default:
		return models.Normal
	}
}

func trendState(adx, emaDelta float64) models.TrendState {
	switch {
	case adx > TrendingADX && emaDelta > 0:
		return models.BullTrend
	case adx > TrendingADX && emaDelta < 0:
		return models.BearTrend
	case adx < RangingADX:
		return models.Range
	default:
		return models.Neutral
	}
}

func suggest(vol models.VolatilityState, trend models.TrendState) models.SuggestedStrategy {
	trending := trend == models.BullTrend || trend == models.BearTrend
	switch {
	case vol == models.Squeeze:
		return models.BreakoutSetup
	case trending:
		return models.TrendFollowing
	case trend == models.Range && vol == models.Normal:
		return models.MeanReversion
	default:
		return models.Wait
	}
}
