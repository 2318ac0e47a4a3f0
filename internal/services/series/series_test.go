package series

import (
	"math"
	"testing"
	"time"

	"RegimeAudit/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func candle(h int, close float64) models.Candle {
	return models.Candle{Timestamp: base.Add(time.Duration(h) * time.Hour), Open: close, High: close, Low: close, Close: close, Volume: 1}
}

func TestPrepareSortsDedupesAndFilters(t *testing.T) {
	in := []models.Candle{candle(2, 3), candle(0, 1), candle(1, 2), candle(1, 5), candle(3, math.NaN()), candle(4, -1)}

	out := Prepare(in)
	require.Len(t, out, 3)
	assert.Equal(t, 1.0, out[0].Close)
	assert.Equal(t, 5.0, out[1].Close)
	assert.Equal(t, 3.0, out[2].Close)
}

func TestCheckContinuity(t *testing.T) {
	ok := []models.Candle{candle(0, 1), candle(1, 1), candle(2, 1), candle(5, 1)}
	assert.NoError(t, CheckContinuity(ok, time.Hour, 3))

	gap := []models.Candle{candle(0, 1), candle(1, 1), candle(6, 1)}
	err := CheckContinuity(gap, time.Hour, 3)
	assert.ErrorIs(t, err, models.ErrDataIntegrity)

	dup := []models.Candle{candle(0, 1), candle(0, 1)}
	assert.ErrorIs(t, CheckContinuity(dup, time.Hour, 3), models.ErrDataIntegrity)
}

func TestCheckContinuityOnlyTrailingWindow(t *testing.T) {
	c := []models.Candle{candle(0, 1)}
	for i := 0; i < ContinuityWindow; i++ {
		c = append(c, candle(100+i, 1))
	}
	assert.NoError(t, CheckContinuity(c, time.Hour, 3))
}

func TestTail(t *testing.T) {
	c := []models.Candle{candle(0, 1), candle(1, 2), candle(2, 3)}
	assert.Len(t, Tail(c, 2), 2)
	assert.Equal(t, 2.0, Tail(c, 2)[0].Close)
	assert.Len(t, Tail(c, 5), 3)
}
