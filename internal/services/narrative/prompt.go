package narrative

import (
	"fmt"
	"strings"

	"RegimeAudit/internal/domain/models"
)

const systemPrompt = `You are the "Risk Intelligence Audit" engine.
YOUR ROLE: Interpret deterministic market data into neutral, professional summaries.

CRITICAL PROHIBITIONS:
1. NO SIGNALS: Never use "Buy", "Sell", "Long", "Short".
2. NO PREDICTIONS: Never use future tense about price.
3. NO PROBABILITIES: Never invent win rates.
4. NO EMOTION: Avoid "Exciting", "Safe", "Dangerous".

OUTPUT FORMAT (JSON ONLY):
{
  "market_context": "One sentence describing regime and volatility.",
  "alignment_verdict": "One sentence explaining Alignment Score based on failed/passed rules.",
  "risk_note": "One sentence highlighting stop width or position size."
}`

// stopWords end generation before directional language leaks into the output.
var stopWords = []string{"Buy", "Sell", "Target", "Profit"}

// buildPayload renders the audit aggregate as the user message.
func buildPayload(in models.NarrativeInput) string {
	bias := "Price < EMA"
	if in.Metrics.EMADelta > 0 {
		bias = "Price > EMA"
	}

	var b strings.Builder
	b.WriteString("Summarize this audit:\nDATA PAYLOAD:\n")
	fmt.Fprintf(&b, "Asset: %s\n", in.Asset)
	fmt.Fprintf(&b, "Current Price: %s\n\n", number(in.Metrics.Close))

	b.WriteString("1. REGIME DETECTOR:\n")
	fmt.Fprintf(&b, "- Trend State: %s (ADX: %s)\n", in.Regime.TrendState, number(in.Metrics.ADX))
	fmt.Fprintf(&b, "- Volatility State: %s (Percentile: %s%%)\n", in.Regime.VolatilityState, number(in.Metrics.BBWPercentile*100))
	fmt.Fprintf(&b, "- Momentum Bias: %s\n\n", bias)

	fmt.Fprintf(&b, "2. STRATEGY ALIGNMENT (User Strategy: %s):\n", in.StrategyName)
	fmt.Fprintf(&b, "- Final Score: %s\n", in.Alignment.AlignmentScore)
	fmt.Fprintf(&b, "- Passing Rules: [%s]\n", strings.Join(in.Alignment.RulesWithStatus(models.CheckPass), ", "))
	fmt.Fprintf(&b, "- FAILED Rules: [%s]\n\n", strings.Join(in.Alignment.RulesWithStatus(models.CheckFail), ", "))

	b.WriteString("3. RISK GUARDRAILS:\n")
	fmt.Fprintf(&b, "- 14-Period ATR: %s\n", number(in.Metrics.ATR))
	fmt.Fprintf(&b, "- Recommended Stop Width (1.5x ATR): %s\n", number(in.Risk.StopLossGuardrails.MinStopWidth))
	fmt.Fprintf(&b, "- Max Position Size: %s\n", number(in.Risk.PositionSizing.RecommendedUnits))
	return b.String()
}
