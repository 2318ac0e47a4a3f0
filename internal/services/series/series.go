package series

import (
	"fmt"
	"math"
	"sort"
	"time"

	"RegimeAudit/internal/domain/models"
)

// ContinuityWindow is how many trailing candles are checked for gaps.
const ContinuityWindow = models.ReliableDepth

// Prepare orders candles by time, keeps the last record for a repeated
// timestamp and drops rows with non-finite or non-positive prices.
func Prepare(candles []models.Candle) []models.Candle {
	out := make([]models.Candle, 0, len(candles))
	for _, c := range candles {
		if !validPrice(c.Open) || !validPrice(c.High) || !validPrice(c.Low) || !validPrice(c.Close) {
			continue
		}
		if math.IsNaN(c.Volume) || math.IsInf(c.Volume, 0) || c.Volume < 0 {
			continue
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })

	deduped := out[:0]
	for i, c := range out {
		if i+1 < len(out) && out[i+1].Timestamp.Equal(c.Timestamp) {
			continue
		}
		deduped = append(deduped, c)
	}
	return deduped
}

// CheckContinuity rejects a series whose trailing window has a step larger
// than tolerance times the candle interval.
func CheckContinuity(candles []models.Candle, interval time.Duration, tolerance float64) error {
	if interval <= 0 || tolerance <= 0 || len(candles) < 2 {
		return nil
	}
	start := len(candles) - ContinuityWindow
	if start < 0 {
		start = 0
	}
	limit := time.Duration(tolerance * float64(interval))
	for i := start + 1; i < len(candles); i++ {
		step := candles[i].Timestamp.Sub(candles[i-1].Timestamp)
		if step <= 0 {
			return fmt.Errorf("%w: timestamps not increasing at %s", models.ErrDataIntegrity,
				candles[i].Timestamp.UTC().Format(time.RFC3339))
		}
		if step > limit {
			return fmt.Errorf("%w: gap of %s before %s exceeds %s", models.ErrDataIntegrity,
				step, candles[i].Timestamp.UTC().Format(time.RFC3339), limit)
		}
	}
	return nil
}

// Tail returns at most the n newest candles.
func Tail(candles []models.Candle, n int) []models.Candle {
	if n <= 0 || len(candles) <= n {
		return candles
	}
	return candles[len(candles)-n:]
}

func validPrice(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
