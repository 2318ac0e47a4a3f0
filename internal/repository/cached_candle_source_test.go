package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RegimeAudit/internal/domain/models"
	domrepo "RegimeAudit/internal/domain/repository"
	"RegimeAudit/pkg/cache"
)

type countingSource struct {
	calls   int
	candles []models.Candle
	err     error
}

func (s *countingSource) GetCandles(context.Context, string, domrepo.Timeframe, int) ([]models.Candle, error) {
	s.calls++
	return s.candles, s.err
}

func TestCachedCandleSourceReadsThrough(t *testing.T) {
	mc := cache.NewMemoryCache(cache.MemoryConfig{})
	defer mc.Close()
	src := &countingSource{candles: []models.Candle{{Timestamp: base, Open: 1, High: 1, Low: 1, Close: 1, Volume: 1}}}
	cs := NewCachedCandleSource(src, mc, time.Minute, nil)

	first, err := cs.GetCandles(context.Background(), "BTCUSDT", domrepo.TF4h, 300)
	require.NoError(t, err)
	second, err := cs.GetCandles(context.Background(), "BTCUSDT", domrepo.TF4h, 300)
	require.NoError(t, err)

	assert.Equal(t, 1, src.calls)
	require.Len(t, second, 1)
	assert.True(t, first[0].Timestamp.Equal(second[0].Timestamp))

	_, err = cs.GetCandles(context.Background(), "ETHUSDT", domrepo.TF4h, 300)
	require.NoError(t, err)
	assert.Equal(t, 2, src.calls)
}

func TestCachedCandleSourceDoesNotCacheErrors(t *testing.T) {
	mc := cache.NewMemoryCache(cache.MemoryConfig{})
	defer mc.Close()
	src := &countingSource{err: errors.New("upstream down")}
	cs := NewCachedCandleSource(src, mc, time.Minute, nil)

	for i := 0; i < 2; i++ {
		_, err := cs.GetCandles(context.Background(), "BTCUSDT", domrepo.TF1h, 10)
		assert.Error(t, err)
	}
	assert.Equal(t, 2, src.calls)
}

func TestCachedCandleSourceDisabledWithoutTTL(t *testing.T) {
	src := &countingSource{candles: []models.Candle{{Timestamp: base}}}
	cs := NewCachedCandleSource(src, cache.NewMemoryCache(cache.MemoryConfig{}), 0, nil)
	for i := 0; i < 2; i++ {
		_, err := cs.GetCandles(context.Background(), "BTCUSDT", domrepo.TF1h, 10)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, src.calls)
}
