package models

// Narrative is the three-sentence plain-language summary of an audit.
type Narrative struct {
	MarketContext    string `json:"market_context"`
	AlignmentVerdict string `json:"alignment_verdict"`
	RiskNote         string `json:"risk_note"`
}

// Complete reports whether all three text fields are present.
func (n Narrative) Complete() bool {
	return n.MarketContext != "" && n.AlignmentVerdict != "" && n.RiskNote != ""
}

const (
	NarrativeSourceLLM       = "llm"
	NarrativeSourceSimulated = "simulated"
	NarrativeSourceFallback  = "fallback"
)

// NarrativeResult carries either a usable narrative or a degraded marker.
// A degraded result means the caller must substitute the deterministic fallback.
type NarrativeResult struct {
	Narrative Narrative
	Source    string
	Degraded  bool
	Reason    string
}

// NarrativeOK wraps a collaborator narrative.
func NarrativeOK(n Narrative, source string) NarrativeResult {
	return NarrativeResult{Narrative: n, Source: source}
}

// NarrativeDegraded marks the narrative step as unavailable for the given reason.
func NarrativeDegraded(reason string) NarrativeResult {
	return NarrativeResult{Degraded: true, Reason: reason}
}

// NarrativeInput is the read-only aggregate handed to the narrative collaborator.
type NarrativeInput struct {
	Asset        string
	StrategyName string
	Regime       RegimeState
	Alignment    AlignmentResult
	Metrics      MetricSnapshot
	Risk         RiskAssessment
}
