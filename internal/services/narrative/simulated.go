package narrative

import (
	"context"
	"fmt"

	"RegimeAudit/internal/domain/models"
	domsvc "RegimeAudit/internal/domain/service"
)

// SimulatedExplainer produces a fixed-phrasing narrative in process. It is the
// generator used when no remote model is configured.
type SimulatedExplainer struct{}

func NewSimulatedExplainer() *SimulatedExplainer { return &SimulatedExplainer{} }

func (s *SimulatedExplainer) Generate(ctx context.Context, in models.NarrativeInput) models.NarrativeResult {
	if err := ctx.Err(); err != nil {
		return models.NarrativeDegraded(err.Error())
	}
	n := models.Narrative{
		MarketContext: fmt.Sprintf("The asset currently exhibits a %s structure with volatility measures within standard bounds.",
			in.Regime.TrendState),
		AlignmentVerdict: fmt.Sprintf("Strategy alignment is rated %s due to the confluence of price action and trend definitions.",
			in.Alignment.AlignmentScore),
		RiskNote: fmt.Sprintf("Current ATR values suggest a defensive stop width of %s is necessary to account for market noise.",
			number(in.Risk.StopLossGuardrails.MinStopWidth)),
	}
	return models.NarrativeOK(n, models.NarrativeSourceSimulated)
}

var _ domsvc.NarrativeGenerator = (*SimulatedExplainer)(nil)
