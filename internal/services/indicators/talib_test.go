package indicators

import (
	"math"
	"testing"
	"time"

	"RegimeAudit/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func series(n int, fn func(i int) float64) []models.Candle {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, n)
	for i := range out {
		c := fn(i)
		out[i] = models.Candle{
			Timestamp: base.Add(time.Duration(i) * 4 * time.Hour),
			Open:      c,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    1000,
		}
	}
	return out
}

func TestComputeShortSeriesIsUndefined(t *testing.T) {
	s := NewTalibCalculator().Compute(series(14, func(int) float64 { return 100 }))

	require.Len(t, s.ADX, 14)
	require.Len(t, s.EMA200, 14)
	assert.Equal(t, 14, s.Warmup.ADX)
	assert.Equal(t, 14, s.Warmup.EMA200)
	assert.Equal(t, 14, s.Warmup.ATR)
	assert.Equal(t, 14, s.Warmup.RSI)
	assert.Equal(t, 14, s.Warmup.BB)
	assert.Equal(t, 14, s.Warmup.VolumeSMA)
	for _, v := range s.EMA200 {
		assert.Zero(t, v)
	}
}

func TestComputeLongSeriesWarmups(t *testing.T) {
	s := NewTalibCalculator().Compute(series(250, func(i int) float64 { return 100 + float64(i%7) }))

	assert.Equal(t, 2*TrendPeriod-1, s.Warmup.ADX)
	assert.Equal(t, EMAPeriod-1, s.Warmup.EMA200)
	assert.Equal(t, ATRPeriod, s.Warmup.ATR)
	assert.Equal(t, BandPeriod-1, s.Warmup.BB)
	assert.Equal(t, RSIPeriod, s.Warmup.RSI)
	assert.Equal(t, VolumePeriod-1, s.Warmup.VolumeSMA)

	last := len(s.EMA200) - 1
	assert.Greater(t, s.EMA200[last], 0.0)
	assert.Greater(t, s.ATR[last], 0.0)
	assert.InDelta(t, 1000, s.VolumeSMA[last], 1e-9)
	assert.Greater(t, s.BBUpper[last], s.BBMiddle[last])
	assert.Less(t, s.BBLower[last], s.BBMiddle[last])
}

func TestSanitizeReplacesNonFinite(t *testing.T) {
	out := sanitize([]float64{1, math.NaN(), math.Inf(1)}, 4)
	assert.Equal(t, []float64{1, 0, 0, 0}, out)
}
