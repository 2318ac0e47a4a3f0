package models

// StrategyType is the user-chosen trading approach being audited.
type StrategyType string

const (
	StrategyTrendFollowing StrategyType = "TREND_FOLLOWING"
	StrategyBreakout       StrategyType = "BREAKOUT"
	StrategyMeanReversion  StrategyType = "MEAN_REVERSION"
)

type AlignmentScore string

const (
	ScoreLow    AlignmentScore = "LOW"
	ScoreMedium AlignmentScore = "MEDIUM"
	ScoreHigh   AlignmentScore = "HIGH"
)

type CheckStatus string

const (
	CheckPass    CheckStatus = "PASS"
	CheckFail    CheckStatus = "FAIL"
	CheckNeutral CheckStatus = "NEUTRAL"
)

// ConfluenceCheck is one named rule evaluation.
type ConfluenceCheck struct {
	Rule   string      `json:"rule"`
	Status CheckStatus `json:"status"`
	Detail string      `json:"detail"`
}

// AlignmentResult is the verdict on how well a strategy fits the regime.
// A non-empty Blockers list never coexists with ScoreHigh.
type AlignmentResult struct {
	AlignmentScore   AlignmentScore    `json:"alignment_score"`
	ConfluenceChecks []ConfluenceCheck `json:"confluence_checks"`
	Blockers         []string          `json:"blockers"`
}

// RulesWithStatus returns the names of checks that ended with status s, in order.
func (a AlignmentResult) RulesWithStatus(s CheckStatus) []string {
	out := make([]string, 0, len(a.ConfluenceChecks))
	for _, c := range a.ConfluenceChecks {
		if c.Status == s {
			out = append(out, c.Rule)
		}
	}
	return out
}
