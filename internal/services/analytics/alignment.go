package analytics

import (
	"fmt"

	"RegimeAudit/internal/domain/models"
)

// Rule names recorded in confluence checks.
const (
	RuleTrendExists         = "Trend Exists"
	RuleVolatilityExpansion = "Volatility Expansion"
	RuleVolatilitySqueeze   = "Volatility Squeeze"
	RuleMarketRanging       = "Market Ranging"
)

// AlignmentScorer checks a strategy's rule table against the current regime.
type AlignmentScorer struct{}

func NewAlignmentScorer() *AlignmentScorer { return &AlignmentScorer{} }

// Evaluate runs the rule table for the strategy. Unknown strategies record no
// checks and keep the MEDIUM default; the promotion to HIGH only applies once
// at least one check ran and nothing blocked.
func (s *AlignmentScorer) Evaluate(strategy models.StrategyType, regime models.RegimeState) models.AlignmentResult {
	res := &alignment{
		score:    models.ScoreMedium,
		checks:   []models.ConfluenceCheck{},
		blockers: []string{},
	}

	switch strategy {
	case models.StrategyTrendFollowing:
		if regime.IsTrending() {
			res.check(RuleTrendExists, models.CheckPass, fmt.Sprintf("Market is in %s", regime.TrendState))
		} else {
			res.block(RuleTrendExists, "No clear trend", fmt.Sprintf("Market is %s (Needs Trend)", regime.TrendState))
		}
		if regime.VolatilityState == models.Squeeze {
			res.block(RuleVolatilityExpansion, "In Squeeze", "Volatility is Squeezed (Wait for expansion)")
		} else {
			res.check(RuleVolatilityExpansion, models.CheckPass, "Volatility Active")
		}

	case models.StrategyBreakout:
		switch regime.VolatilityState {
		case models.Squeeze:
			res.score = models.ScoreHigh
			res.check(RuleVolatilitySqueeze, models.CheckPass, "Market is Squeezed")
		case models.Expansion:
			res.block(RuleVolatilitySqueeze, "Already Expanded", "Volatility already Expanded (Missed the move)")
		default:
			res.score = models.ScoreMedium
			res.check(RuleVolatilitySqueeze, models.CheckNeutral, "Normal Volatility")
		}

	case models.StrategyMeanReversion:
		if regime.TrendState == models.Range {
			res.score = models.ScoreHigh
			res.check(RuleMarketRanging, models.CheckPass, "Market is Ranging")
		} else {
			res.block(RuleMarketRanging, "Trending", fmt.Sprintf("Market is %s (Needs Range)", regime.TrendState))
		}
	}

	if len(res.checks) > 0 && len(res.blockers) == 0 && res.score != models.ScoreHigh {
		res.score = models.ScoreHigh
	}

	return models.AlignmentResult{
		AlignmentScore:   res.score,
		ConfluenceChecks: res.checks,
		Blockers:         res.blockers,
	}
}

type alignment struct {
	score    models.AlignmentScore
	checks   []models.ConfluenceCheck
	blockers []string
}

func (a *alignment) check(rule string, status models.CheckStatus, detail string) {
	a.checks = append(a.checks, models.ConfluenceCheck{Rule: rule, Status: status, Detail: detail})
}

// block records a failing rule; any blocker pins the score to LOW.
func (a *alignment) block(rule, detail, blocker string) {
	a.score = models.ScoreLow
	a.check(rule, models.CheckFail, detail)
	a.blockers = append(a.blockers, blocker)
}
