package analytics

import (
	"fmt"

	"RegimeAudit/internal/domain/models"
	domsvc "RegimeAudit/internal/domain/service"
)

// PercentileWindow is the trailing band-width history used for the volatility percentile.
const PercentileWindow = 50

// Degradation field and reason names.
const (
	FieldADX           = "adx"
	FieldEMADelta      = "ema_delta"
	FieldATR           = "atr"
	FieldBBWPct        = "bbw_pct"
	FieldBBWPercentile = "bbw_percentile"
	FieldRSI           = "rsi"
	FieldVolumeDelta   = "volume_delta"

	ReasonShallowHistory = "history_below_200"
	ReasonCloseBaseline  = "ema200_close_baseline"
	ReasonZeroVolume     = "zero_volume"
)

// Normalizer turns candles into a zero-filled metric table.
type Normalizer struct {
	calc domsvc.IndicatorCalculator
}

func NewNormalizer(calc domsvc.IndicatorCalculator) *Normalizer {
	return &Normalizer{calc: calc}
}

// Normalize computes the metric table and its latest snapshot. Every value is
// finite; fields that were zero-filled on the latest row are listed in the
// table's Degraded marker.
func (n *Normalizer) Normalize(candles []models.Candle) (*models.MetricTable, models.MetricSnapshot, error) {
	if len(candles) < models.MinCandles {
		return nil, models.MetricSnapshot{}, fmt.Errorf("%w: need at least %d candles, got %d",
			models.ErrInsufficientData, models.MinCandles, len(candles))
	}

	size := len(candles)
	s := n.calc.Compute(candles)
	w := s.Warmup

	closeBaseline := w.EMA200 >= size

	widths := make([]float64, size)
	widthOK := make([]bool, size)
	for i := w.BB; i < size; i++ {
		if s.BBMiddle[i] == 0 {
			continue
		}
		widths[i] = finite((s.BBUpper[i] - s.BBLower[i]) / s.BBMiddle[i])
		widthOK[i] = true
	}

	rows := make([]models.MetricSnapshot, size)
	for i, c := range candles {
		r := models.MetricSnapshot{Timestamp: c.Timestamp, Close: c.Close}
		if i >= w.ADX {
			r.ADX = finite(s.ADX[i])
		}
		switch {
		case closeBaseline:
			// baseline equals close, so the deviation is exactly zero
		case i >= w.EMA200 && s.EMA200[i] != 0:
			r.EMADelta = finite((c.Close - s.EMA200[i]) / s.EMA200[i])
		}
		if i >= w.ATR {
			r.ATR = finite(s.ATR[i])
		}
		r.BBWPct = widths[i]
		r.BBWPercentile, _ = percentileAt(widths, widthOK, i)
		if i >= w.RSI {
			r.RSI = finite(s.RSI[i])
		}
		if i >= w.VolumeSMA && s.VolumeSMA[i] > 0 {
			r.VolumeDelta = finite(c.Volume / s.VolumeSMA[i])
		}
		rows[i] = r
	}

	table := &models.MetricTable{Rows: rows, Degraded: degradation(candles, s, widths, widthOK, closeBaseline)}
	return table, table.Latest(), nil
}

// percentileAt ranks widths[i] within its trailing window using average ranks
// for ties. The window must be fully defined, otherwise the result is undefined.
func percentileAt(widths []float64, ok []bool, i int) (float64, bool) {
	start := i - PercentileWindow + 1
	if start < 0 {
		return 0, false
	}
	for j := start; j <= i; j++ {
		if !ok[j] {
			return 0, false
		}
	}
	cur := widths[i]
	less, equal := 0, 0
	for _, v := range widths[start : i+1] {
		switch {
		case v < cur:
			less++
		case v == cur:
			equal++
		}
	}
	return (float64(less) + float64(equal+1)/2) / PercentileWindow, true
}

func degradation(candles []models.Candle, s models.IndicatorSeries, widths []float64, widthOK []bool, closeBaseline bool) models.Degradation {
	last := len(candles) - 1
	w := s.Warmup
	var d models.Degradation

	if last < w.ADX {
		d.Fields = append(d.Fields, FieldADX)
	}
	if last < w.EMA200 {
		d.Fields = append(d.Fields, FieldEMADelta)
	}
	if last < w.ATR {
		d.Fields = append(d.Fields, FieldATR)
	}
	if !widthOK[last] {
		d.Fields = append(d.Fields, FieldBBWPct)
	}
	if _, ok := percentileAt(widths, widthOK, last); !ok {
		d.Fields = append(d.Fields, FieldBBWPercentile)
	}
	if last < w.RSI {
		d.Fields = append(d.Fields, FieldRSI)
	}
	if last < w.VolumeSMA || s.VolumeSMA[last] <= 0 {
		d.Fields = append(d.Fields, FieldVolumeDelta)
	}

	if len(candles) < models.ReliableDepth {
		d.Reasons = append(d.Reasons, ReasonShallowHistory)
	}
	if closeBaseline {
		d.Reasons = append(d.Reasons, ReasonCloseBaseline)
	}
	if candles[last].Volume == 0 {
		d.Reasons = append(d.Reasons, ReasonZeroVolume)
	}
	return d
}
