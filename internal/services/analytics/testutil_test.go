package analytics

import (
	"time"

	"RegimeAudit/internal/domain/models"
)

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func flatCandles(n int, price, volume float64) []models.Candle {
	out := make([]models.Candle, n)
	for i := range out {
		out[i] = models.Candle{
			Timestamp: testStart.Add(time.Duration(i) * 4 * time.Hour),
			Open:      price, High: price, Low: price, Close: price,
			Volume: volume,
		}
	}
	return out
}

// trendingCandles rises by step per candle with a fixed intrabar range.
func trendingCandles(n int, start, step float64) []models.Candle {
	out := make([]models.Candle, n)
	for i := range out {
		c := start + step*float64(i)
		out[i] = models.Candle{
			Timestamp: testStart.Add(time.Duration(i) * 4 * time.Hour),
			Open:      c - step/2,
			High:      c + 1,
			Low:       c - step/2 - 1,
			Close:     c,
			Volume:    1000 + float64(i%5),
		}
	}
	return out
}

type stubCalculator struct {
	series models.IndicatorSeries
}

func (s stubCalculator) Compute([]models.Candle) models.IndicatorSeries { return s.series }

func constColumn(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
