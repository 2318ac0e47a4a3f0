package indicators

import (
	"math"

	"RegimeAudit/internal/domain/models"
	domsvc "RegimeAudit/internal/domain/service"

	"github.com/markcheno/go-talib"
)

// Indicator windows.
const (
	TrendPeriod    = 14
	EMAPeriod      = 200
	ATRPeriod      = 14
	BandPeriod     = 20
	BandDeviations = 2.0
	RSIPeriod      = 14
	VolumePeriod   = 20
)

// TalibCalculator computes indicator columns with go-talib.
type TalibCalculator struct{}

func NewTalibCalculator() *TalibCalculator { return &TalibCalculator{} }

// Compute returns same-length columns for the candles. talib indexes past the
// end of short inputs, so each column is only computed when the series is
// longer than that indicator's lookback; otherwise it is reported undefined.
func (c *TalibCalculator) Compute(candles []models.Candle) models.IndicatorSeries {
	n := len(candles)
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	vols := make([]float64, n)
	for i, cd := range candles {
		highs[i] = cd.High
		lows[i] = cd.Low
		closes[i] = cd.Close
		vols[i] = cd.Volume
	}

	var s models.IndicatorSeries
	s.ADX, s.Warmup.ADX = guarded(n, 2*TrendPeriod-1, func() []float64 {
		return talib.Adx(highs, lows, closes, TrendPeriod)
	})
	s.EMA200, s.Warmup.EMA200 = guarded(n, EMAPeriod-1, func() []float64 {
		return talib.Ema(closes, EMAPeriod)
	})
	s.ATR, s.Warmup.ATR = guarded(n, ATRPeriod, func() []float64 {
		return talib.Atr(highs, lows, closes, ATRPeriod)
	})
	s.RSI, s.Warmup.RSI = guarded(n, RSIPeriod, func() []float64 {
		return talib.Rsi(closes, RSIPeriod)
	})
	s.VolumeSMA, s.Warmup.VolumeSMA = guarded(n, VolumePeriod-1, func() []float64 {
		return talib.Sma(vols, VolumePeriod)
	})

	if n > BandPeriod-1 {
		upper, middle, lower := talib.BBands(closes, BandPeriod, BandDeviations, BandDeviations, talib.SMA)
		s.BBUpper = sanitize(upper, n)
		s.BBMiddle = sanitize(middle, n)
		s.BBLower = sanitize(lower, n)
		s.Warmup.BB = BandPeriod - 1
	} else {
		s.BBUpper = make([]float64, n)
		s.BBMiddle = make([]float64, n)
		s.BBLower = make([]float64, n)
		s.Warmup.BB = n
	}
	return s
}

func guarded(n, lookback int, fn func() []float64) ([]float64, int) {
	if n <= lookback {
		return make([]float64, n), n
	}
	return sanitize(fn(), n), lookback
}

// sanitize pins the column to length n and replaces non-finite values with zero.
func sanitize(xs []float64, n int) []float64 {
	out := make([]float64, n)
	for i := 0; i < n && i < len(xs); i++ {
		v := xs[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		out[i] = v
	}
	return out
}

var _ domsvc.IndicatorCalculator = (*TalibCalculator)(nil)
