package analytics

import (
	"fmt"

	"RegimeAudit/internal/domain/models"
)

// RiskEngine derives volatility-adjusted sizing and guardrails.
type RiskEngine struct{}

func NewRiskEngine() *RiskEngine { return &RiskEngine{} }

// Assess sizes a position from the current ATR. The requested risk is clamped
// to MaxRiskPct, never rejected for being too large; a zero stop width yields zero units. Values keep full
// precision, rounding happens when the report is built.
func (e *RiskEngine) Assess(price, atr, atrMean50, balance, riskPct float64) (models.RiskAssessment, error) {
	if balance < 0 {
		return models.RiskAssessment{}, fmt.Errorf("%w: account balance %.2f is negative", models.ErrInvalidRiskInput, balance)
	}
	if atr < 0 {
		return models.RiskAssessment{}, fmt.Errorf("%w: atr %.6f is negative", models.ErrInvalidRiskInput, atr)
	}
	if riskPct < 0 {
		return models.RiskAssessment{}, fmt.Errorf("%w: risk percentage %.4f is negative", models.ErrInvalidRiskInput, riskPct)
	}

	used := riskPct
	capped := false
	if riskPct > models.MaxRiskPct {
		used = models.MaxRiskPct
		capped = true
	}

	amount := balance * used
	stop := models.StopATRMultiple * atr
	units := 0.0
	if stop > 0 {
		units = amount / stop
	}

	flash := atrMean50 > 0 && atr > models.FlashCrashMultiple*atrMean50

	warnings := models.RiskWarnings{RiskCapActive: capped, FlashCrashDetected: flash}
	switch {
	case flash:
		warnings.Message = warningText(models.FlashCrashMessage)
	case capped:
		warnings.Message = warningText(models.RiskCapMessage)
	}

	return models.RiskAssessment{
		RiskParameters: models.RiskParameters{
			AccountBalance:     balance,
			RiskPercentageUsed: used,
			RiskAmountUSD:      amount,
		},
		StopLossGuardrails: models.StopLossGuardrails{
			ATRValue:     atr,
			MinStopWidth: stop,
			Formula:      models.StopFormula,
		},
		PositionSizing: models.PositionSizing{
			RecommendedUnits: units,
			NotionalValue:    units * price,
		},
		VolatilityDistances: models.VolatilityDistances{
			Distance1R: stop,
			Distance2R: 2 * stop,
			Distance3R: 3 * stop,
			Note:       models.DistanceNote,
		},
		Warnings: warnings,
	}, nil
}

func warningText(s string) *string { return &s }
