package repository

import (
	"context"
	"errors"
	"time"

	"RegimeAudit/internal/domain/models"
	domrepo "RegimeAudit/internal/domain/repository"
	"RegimeAudit/pkg/cache"
	applogger "RegimeAudit/pkg/logger"
)

// CachedCandleSource is a read-through cache in front of another CandleSource.
type CachedCandleSource struct {
	next  domrepo.CandleSource
	cache cache.Service
	ttl   time.Duration
	l     *applogger.Logger
}

func NewCachedCandleSource(next domrepo.CandleSource, c cache.Service, ttl time.Duration, l *applogger.Logger) *CachedCandleSource {
	if l == nil {
		l = applogger.Nop()
	}
	return &CachedCandleSource{next: next, cache: c, ttl: ttl, l: l}
}

func (s *CachedCandleSource) GetCandles(ctx context.Context, symbol string, tf domrepo.Timeframe, limit int) ([]models.Candle, error) {
	if s.cache == nil || s.ttl <= 0 {
		return s.next.GetCandles(ctx, symbol, tf, limit)
	}

	key := cache.GenerateKeyWithParams("candles", symbol, string(tf), limit)
	var cached []models.Candle
	err := s.cache.Get(ctx, key, &cached)
	switch {
	case err == nil && len(cached) > 0:
		return cached, nil
	case err != nil && !errors.Is(err, cache.ErrCacheMiss):
		s.l.Warn("candle cache read failed", applogger.String("key", key), applogger.Error(err))
	}

	candles, err := s.next.GetCandles(ctx, symbol, tf, limit)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, candles, s.ttl); err != nil {
		s.l.Warn("candle cache write failed", applogger.String("key", key), applogger.Error(err))
	}
	return candles, nil
}

var _ domrepo.CandleSource = (*CachedCandleSource)(nil)
