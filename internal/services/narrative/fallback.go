package narrative

import (
	"fmt"
	"strconv"

	"RegimeAudit/internal/domain/models"
)

// Fallback builds the deterministic narrative from already computed fields.
// It never fails.
func Fallback(in models.NarrativeInput) models.Narrative {
	return models.Narrative{
		MarketContext: fmt.Sprintf("Market is currently in %s with %s volatility.",
			in.Regime.TrendState, in.Regime.VolatilityState),
		AlignmentVerdict: fmt.Sprintf("Strategy alignment is %s. Check specific rule failures in the dashboard.",
			in.Alignment.AlignmentScore),
		RiskNote: fmt.Sprintf("Volatility requires a minimum stop width of %s to avoid noise.",
			number(in.Risk.StopLossGuardrails.MinStopWidth)),
	}
}

func number(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
