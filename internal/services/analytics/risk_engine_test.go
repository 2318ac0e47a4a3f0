package analytics

import (
	"encoding/json"
	"testing"

	"RegimeAudit/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssessBasicSizing(t *testing.T) {
	r, err := NewRiskEngine().Assess(50000, 1000, 900, 10000, 0.01)
	require.NoError(t, err)

	assert.Equal(t, 0.01, r.RiskParameters.RiskPercentageUsed)
	assert.InDelta(t, 100, r.RiskParameters.RiskAmountUSD, 1e-9)
	assert.InDelta(t, 1500, r.StopLossGuardrails.MinStopWidth, 1e-9)
	assert.InDelta(t, 100.0/1500, r.PositionSizing.RecommendedUnits, 1e-12)
	assert.InDelta(t, 50000*100.0/1500, r.PositionSizing.NotionalValue, 1e-9)
	assert.InDelta(t, 3000, r.VolatilityDistances.Distance2R, 1e-9)
	assert.InDelta(t, 4500, r.VolatilityDistances.Distance3R, 1e-9)
	assert.False(t, r.Warnings.RiskCapActive)
	assert.False(t, r.Warnings.FlashCrashDetected)
	assert.Nil(t, r.Warnings.Message)
}

func TestAssessCapsRisk(t *testing.T) {
	for _, pct := range []float64{0.021, 0.05, 0.5, 1, 1.5, 5} {
		r, err := NewRiskEngine().Assess(100, 2, 2, 10000, pct)
		require.NoError(t, err)
		assert.Equal(t, models.MaxRiskPct, r.RiskParameters.RiskPercentageUsed)
		assert.True(t, r.Warnings.RiskCapActive)
		require.NotNil(t, r.Warnings.Message)
		assert.Equal(t, models.RiskCapMessage, *r.Warnings.Message)
	}

	r, err := NewRiskEngine().Assess(100, 2, 2, 10000, 0.02)
	require.NoError(t, err)
	assert.False(t, r.Warnings.RiskCapActive)
}

func TestAssessZeroStopWidth(t *testing.T) {
	r, err := NewRiskEngine().Assess(100, 0, 0, 10000, 0.01)
	require.NoError(t, err)
	assert.Zero(t, r.PositionSizing.RecommendedUnits)
	assert.Zero(t, r.PositionSizing.NotionalValue)
	assert.False(t, r.Warnings.FlashCrashDetected)
}

func TestAssessFlashCrashOverridesCapMessage(t *testing.T) {
	r, err := NewRiskEngine().Assess(100, 6, 1, 10000, 0.05)
	require.NoError(t, err)
	assert.True(t, r.Warnings.FlashCrashDetected)
	assert.True(t, r.Warnings.RiskCapActive)
	require.NotNil(t, r.Warnings.Message)
	assert.Equal(t, models.FlashCrashMessage, *r.Warnings.Message)

	r, err = NewRiskEngine().Assess(100, 5, 1, 10000, 0.01)
	require.NoError(t, err)
	assert.False(t, r.Warnings.FlashCrashDetected)
}

func TestAssessRejectsNegativeInput(t *testing.T) {
	_, err := NewRiskEngine().Assess(100, 1, 1, -1, 0.01)
	assert.ErrorIs(t, err, models.ErrInvalidRiskInput)

	_, err = NewRiskEngine().Assess(100, -1, 1, 1000, 0.01)
	assert.ErrorIs(t, err, models.ErrInvalidRiskInput)

	_, err = NewRiskEngine().Assess(100, 1, 1, 1000, -0.01)
	assert.ErrorIs(t, err, models.ErrInvalidRiskInput)
}

func TestWarningMessageSerializesAsNull(t *testing.T) {
	r, err := NewRiskEngine().Assess(100, 1, 1, 10000, 0.01)
	require.NoError(t, err)
	b, err := json.Marshal(r.Warnings)
	require.NoError(t, err)
	assert.JSONEq(t, `{"risk_cap_active":false,"flash_crash_detected":false,"message":null}`, string(b))
}
