package narrative

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"RegimeAudit/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleInput() models.NarrativeInput {
	return models.NarrativeInput{
		Asset:        "BTC/USDT",
		StrategyName: "TREND_FOLLOWING",
		Regime:       models.RegimeState{TrendState: models.BullTrend, VolatilityState: models.Normal, SuggestedStrategy: models.TrendFollowing},
		Alignment: models.AlignmentResult{
			AlignmentScore: models.ScoreHigh,
			ConfluenceChecks: []models.ConfluenceCheck{
				{Rule: "Trend Exists", Status: models.CheckPass, Detail: "Market is in BULL_TREND"},
			},
			Blockers: []string{},
		},
		Metrics: models.MetricSnapshot{Close: 50000, ADX: 31.5, EMADelta: 0.04, ATR: 1000, BBWPercentile: 0.5},
		Risk: models.RiskAssessment{
			StopLossGuardrails: models.StopLossGuardrails{MinStopWidth: 1500},
			PositionSizing:     models.PositionSizing{RecommendedUnits: 0.0667},
		},
	}
}

func chatServer(t *testing.T, content string, delay time.Duration) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, chatCompletionsPath, r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Zero(t, req.Temperature)
		assert.Equal(t, stopWords, req.Stop)
		require.Len(t, req.Messages, 2)
		assert.Contains(t, req.Messages[1].Content, "Momentum Bias: Price > EMA")

		if delay > 0 {
			time.Sleep(delay)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": content}}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLLMExplainerSuccess(t *testing.T) {
	content := `{"market_context":"Trend is established.","alignment_verdict":"All rules pass.","risk_note":"Stop width is 1500."}`
	srv := chatServer(t, content, 0)
	e := NewLLMExplainer(LLMConfig{BaseURL: srv.URL, APIKey: "key", Model: "m", Timeout: time.Second}, nil)

	res := e.Generate(context.Background(), sampleInput())
	require.False(t, res.Degraded, res.Reason)
	assert.Equal(t, models.NarrativeSourceLLM, res.Source)
	assert.Equal(t, "All rules pass.", res.Narrative.AlignmentVerdict)
}

func TestLLMExplainerDegradedOutputs(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed", `not json`},
		{"missing field", `{"market_context":"a","alignment_verdict":"b"}`},
		{"directional", `{"market_context":"a","alignment_verdict":"Consider a long entry.","risk_note":"c"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := chatServer(t, tt.content, 0)
			e := NewLLMExplainer(LLMConfig{BaseURL: srv.URL, APIKey: "key", Timeout: time.Second}, nil)

			res := e.Generate(context.Background(), sampleInput())
			assert.True(t, res.Degraded)
			assert.NotEmpty(t, res.Reason)
		})
	}
}

func TestLLMExplainerTimeout(t *testing.T) {
	srv := chatServer(t, `{}`, 200*time.Millisecond)
	e := NewLLMExplainer(LLMConfig{BaseURL: srv.URL, APIKey: "key", Timeout: time.Second}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	res := e.Generate(ctx, sampleInput())
	assert.True(t, res.Degraded)
	assert.Equal(t, "timeout", res.Reason)
}

func TestParseNarrativeStripsFences(t *testing.T) {
	n, err := parseNarrative("```json\n{\"market_context\":\"a\",\"alignment_verdict\":\"b\",\"risk_note\":\"c\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "c", n.RiskNote)
}

func TestFallbackIsDeterministic(t *testing.T) {
	in := sampleInput()
	a, b := Fallback(in), Fallback(in)
	assert.Equal(t, a, b)
	assert.True(t, a.Complete())
	assert.Equal(t, "Market is currently in BULL_TREND with NORMAL volatility.", a.MarketContext)
	assert.Equal(t, "Strategy alignment is HIGH. Check specific rule failures in the dashboard.", a.AlignmentVerdict)
	assert.Equal(t, "Volatility requires a minimum stop width of 1500 to avoid noise.", a.RiskNote)
}

func TestSimulatedExplainer(t *testing.T) {
	res := NewSimulatedExplainer().Generate(context.Background(), sampleInput())
	require.False(t, res.Degraded)
	assert.Equal(t, models.NarrativeSourceSimulated, res.Source)
	assert.Contains(t, res.Narrative.MarketContext, "BULL_TREND")
	assert.True(t, res.Narrative.Complete())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.True(t, NewSimulatedExplainer().Generate(ctx, sampleInput()).Degraded)
}
