package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"RegimeAudit/internal/domain/models"
	domrepo "RegimeAudit/internal/domain/repository"
	"RegimeAudit/internal/services/analytics"
	"RegimeAudit/internal/services/indicators"
	"RegimeAudit/internal/services/narrative"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func flat(n int) []models.Candle {
	out := make([]models.Candle, n)
	for i := range out {
		out[i] = models.Candle{Timestamp: t0.Add(time.Duration(i) * 4 * time.Hour), Open: 100, High: 100, Low: 100, Close: 100, Volume: 1000}
	}
	return out
}

func uptrend(n int) []models.Candle {
	out := make([]models.Candle, n)
	for i := range out {
		c := 100 + 2*float64(i)
		out[i] = models.Candle{Timestamp: t0.Add(time.Duration(i) * 4 * time.Hour), Open: c - 1, High: c + 1, Low: c - 2, Close: c, Volume: 1000}
	}
	return out
}

type narratorFunc func(ctx context.Context, in models.NarrativeInput) models.NarrativeResult

func (f narratorFunc) Generate(ctx context.Context, in models.NarrativeInput) models.NarrativeResult {
	return f(ctx, in)
}

func newOrchestrator(n narratorFunc, timeout time.Duration) *Orchestrator {
	return NewOrchestrator(
		analytics.NewNormalizer(indicators.NewTalibCalculator()),
		analytics.NewRegimeClassifier(),
		analytics.NewAlignmentScorer(),
		analytics.NewRiskEngine(),
		n,
		timeout,
		nil,
	)
}

func params(c []models.Candle, strategy string) RunParams {
	return RunParams{Candles: c, StrategyType: strategy, Asset: "BTC/USDT", AccountBalance: 10000, RiskPercentage: 0.01}
}

func simulated() narratorFunc { return narrative.NewSimulatedExplainer().Generate }

func TestRunFlatMinimumSeries(t *testing.T) {
	res, err := newOrchestrator(simulated(), time.Second).Run(context.Background(), params(flat(14), "TREND_FOLLOWING"))
	require.NoError(t, err)

	r := res.Report
	assert.Equal(t, models.Range, r.Details.Regime.TrendState)
	assert.Zero(t, r.Details.Risk.PositionSizing.RecommendedUnits)
	assert.Zero(t, r.Details.Risk.StopLossGuardrails.MinStopWidth)
	assert.Equal(t, models.ScoreLow, r.Details.Alignment.AlignmentScore)
	assert.Equal(t, models.ColorRed, r.UIComponents.TrafficLight.Color)
	assert.Equal(t, "LOW Alignment", r.UIComponents.TrafficLight.Label)
	assert.True(t, res.Degraded.Any())
}

func TestRunRejectsShortSeries(t *testing.T) {
	_, err := newOrchestrator(simulated(), time.Second).Run(context.Background(), params(flat(10), "TREND_FOLLOWING"))
	assert.ErrorIs(t, err, models.ErrInsufficientData)
}

func TestRunReportShape(t *testing.T) {
	candles := uptrend(300)
	res, err := newOrchestrator(simulated(), time.Second).Run(context.Background(), params(candles, "TREND_FOLLOWING"))
	require.NoError(t, err)

	r := res.Report
	last := candles[len(candles)-1].Timestamp
	assert.Equal(t, "audit_"+itoa(last.Unix()), r.ReportID)
	assert.Equal(t, last.Format(time.RFC3339), r.Timestamp)
	assert.Equal(t, models.ReportStatusComplete, r.Status)
	assert.Equal(t, "Market Context", r.UIComponents.RegimeCard.Title)
	assert.Equal(t, "Safety Guardrails", r.UIComponents.RiskCard.Title)
	assert.Contains(t, r.UIComponents.RiskCard.Metric1, "Stop Width: $")
	assert.Equal(t, models.BullTrend, r.Details.Regime.TrendState)
	assert.Equal(t, models.NarrativeSourceSimulated, r.Details.NarrativeSource)
	assert.Equal(t, r.UIComponents.RegimeCard.Subtext, res.Narrative.Narrative.MarketContext)
	assert.NotNil(t, r.UIComponents.AIAnalysis.Blockers)

	raw, err := json.Marshal(r)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "Degraded")
	assert.Contains(t, string(raw), `"1R_distance"`)
}

func TestRunNarrativeFailureFallsBack(t *testing.T) {
	tests := []struct {
		name    string
		n       narratorFunc
		timeout time.Duration
		reason  string
	}{
		{"degraded", func(context.Context, models.NarrativeInput) models.NarrativeResult {
			return models.NarrativeDegraded("malformed")
		}, time.Second, "malformed"},
		{"incomplete", func(context.Context, models.NarrativeInput) models.NarrativeResult {
			return models.NarrativeOK(models.Narrative{MarketContext: "x"}, models.NarrativeSourceLLM)
		}, time.Second, "narrative missing required fields"},
		{"timeout", func(ctx context.Context, _ models.NarrativeInput) models.NarrativeResult {
			<-ctx.Done()
			time.Sleep(10 * time.Millisecond)
			return models.NarrativeDegraded("late")
		}, 20 * time.Millisecond, "timeout"},
		{"panic", func(context.Context, models.NarrativeInput) models.NarrativeResult {
			panic("boom")
		}, time.Second, "panic: boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := newOrchestrator(tt.n, tt.timeout).Run(context.Background(), params(uptrend(250), "BREAKOUT"))
			require.NoError(t, err)

			assert.True(t, res.Narrative.Degraded)
			assert.Equal(t, tt.reason, res.Narrative.Reason)
			assert.Equal(t, models.NarrativeSourceFallback, res.Report.Details.NarrativeSource)
			assert.True(t, res.Narrative.Narrative.Complete())
			assert.NotEmpty(t, res.Report.UIComponents.AIAnalysis.Text)
			assert.Equal(t, "BREAKOUT", res.Report.Details.Strategy)
			assert.NotEmpty(t, res.Report.Details.Regime.TrendState)
		})
	}
}

func TestRunIsIdempotent(t *testing.T) {
	fail := narratorFunc(func(context.Context, models.NarrativeInput) models.NarrativeResult {
		return models.NarrativeDegraded("down")
	})
	o := newOrchestrator(fail, time.Second)
	candles := uptrend(260)

	a, err := o.Run(context.Background(), params(candles, "MEAN_REVERSION"))
	require.NoError(t, err)
	b, err := o.Run(context.Background(), params(candles, "MEAN_REVERSION"))
	require.NoError(t, err)

	ja, _ := json.Marshal(a.Report)
	jb, _ := json.Marshal(b.Report)
	assert.JSONEq(t, string(ja), string(jb))
}

func TestRunCapsRisk(t *testing.T) {
	p := params(uptrend(250), "TREND_FOLLOWING")
	p.RiskPercentage = 0.1
	res, err := newOrchestrator(simulated(), time.Second).Run(context.Background(), p)
	require.NoError(t, err)

	w := res.Report.Details.Risk
	assert.Equal(t, models.MaxRiskPct, w.RiskParameters.RiskPercentageUsed)
	assert.True(t, w.Warnings.RiskCapActive)
	assert.Equal(t, 200.0, w.RiskParameters.RiskAmountUSD)
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "insufficient_data", ErrorKind(models.ErrInsufficientData))
	assert.Equal(t, "data_integrity", ErrorKind(models.ErrDataIntegrity))
	assert.Equal(t, "invalid_request", ErrorKind(models.ErrInvalidRequest))
	assert.Equal(t, "internal", ErrorKind(assert.AnError))
}

var _ domrepo.CandleSource = (*fakeSource)(nil)
