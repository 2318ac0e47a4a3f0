package service

import (
	"context"

	"RegimeAudit/internal/domain/models"
)

// IndicatorCalculator computes the raw indicator columns for a candle series.
type IndicatorCalculator interface {
	Compute(candles []models.Candle) models.IndicatorSeries
}

// NarrativeGenerator turns the structured audit aggregate into plain language.
// Failures are reported through a degraded result, never an error.
type NarrativeGenerator interface {
	Generate(ctx context.Context, in models.NarrativeInput) models.NarrativeResult
}
