package analytics

import (
	"testing"

	"RegimeAudit/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	allTrends = []models.TrendState{models.BullTrend, models.BearTrend, models.Range, models.Neutral}
	allVols   = []models.VolatilityState{models.Squeeze, models.Normal, models.Expansion}
)

func TestEvaluateBreakoutSqueeze(t *testing.T) {
	res := NewAlignmentScorer().Evaluate(models.StrategyBreakout, models.RegimeState{
		VolatilityState: models.Squeeze, TrendState: models.Range,
	})
	assert.Equal(t, models.ScoreHigh, res.AlignmentScore)
	assert.Empty(t, res.Blockers)
	assert.NotNil(t, res.Blockers)
	require.Len(t, res.ConfluenceChecks, 1)
	assert.Equal(t, models.CheckPass, res.ConfluenceChecks[0].Status)
}

func TestEvaluateBreakoutExpansion(t *testing.T) {
	res := NewAlignmentScorer().Evaluate(models.StrategyBreakout, models.RegimeState{
		VolatilityState: models.Expansion, TrendState: models.BullTrend,
	})
	assert.Equal(t, models.ScoreLow, res.AlignmentScore)
	assert.Equal(t, []string{"Volatility already Expanded (Missed the move)"}, res.Blockers)
}

func TestEvaluateMeanReversionInTrend(t *testing.T) {
	res := NewAlignmentScorer().Evaluate(models.StrategyMeanReversion, models.RegimeState{
		VolatilityState: models.Normal, TrendState: models.BullTrend,
	})
	assert.Equal(t, models.ScoreLow, res.AlignmentScore)
	require.Len(t, res.Blockers, 1)
	assert.Contains(t, res.Blockers[0], "BULL_TREND")
	assert.Contains(t, res.Blockers[0], "Needs Range")
}

func TestEvaluateTrendFollowingRecordsBothRules(t *testing.T) {
	res := NewAlignmentScorer().Evaluate(models.StrategyTrendFollowing, models.RegimeState{
		VolatilityState: models.Squeeze, TrendState: models.Range,
	})
	assert.Equal(t, models.ScoreLow, res.AlignmentScore)
	require.Len(t, res.ConfluenceChecks, 2)
	assert.Equal(t, RuleTrendExists, res.ConfluenceChecks[0].Rule)
	assert.Equal(t, RuleVolatilityExpansion, res.ConfluenceChecks[1].Rule)
	assert.Len(t, res.Blockers, 2)

	res = NewAlignmentScorer().Evaluate(models.StrategyTrendFollowing, models.RegimeState{
		VolatilityState: models.Normal, TrendState: models.BearTrend,
	})
	assert.Equal(t, models.ScoreHigh, res.AlignmentScore)
	assert.Equal(t, []string{RuleTrendExists, RuleVolatilityExpansion}, res.RulesWithStatus(models.CheckPass))
}

func TestEvaluateUnknownStrategyStaysMedium(t *testing.T) {
	res := NewAlignmentScorer().Evaluate("SCALPING", models.RegimeState{
		VolatilityState: models.Normal, TrendState: models.BullTrend,
	})
	assert.Equal(t, models.ScoreMedium, res.AlignmentScore)
	assert.Empty(t, res.ConfluenceChecks)
	assert.Empty(t, res.Blockers)
}

func TestEvaluateFailNeverHigh(t *testing.T) {
	s := NewAlignmentScorer()
	strategies := []models.StrategyType{models.StrategyTrendFollowing, models.StrategyBreakout, models.StrategyMeanReversion, "OTHER"}
	for _, st := range strategies {
		for _, tr := range allTrends {
			for _, v := range allVols {
				res := s.Evaluate(st, models.RegimeState{TrendState: tr, VolatilityState: v})
				if len(res.RulesWithStatus(models.CheckFail)) > 0 || len(res.Blockers) > 0 {
					assert.NotEqual(t, models.ScoreHigh, res.AlignmentScore, "%s %s %s", st, tr, v)
				}
			}
		}
	}
}
