package repository

import (
	"context"

	"RegimeAudit/internal/domain/models"
)

// CandleSource supplies validated OHLCV series in ascending time order.
type CandleSource interface {
	GetCandles(ctx context.Context, symbol string, tf Timeframe, limit int) ([]models.Candle, error)
}

type Metrics interface {
	RecordAudit(strategy, score string)
	RecordNarrativeFallback(reason string)
	RecordFlashCrash(symbol string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
