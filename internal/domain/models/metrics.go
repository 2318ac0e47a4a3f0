package models

import "time"

// MetricSnapshot holds the derived metrics of a single candle.
// Every field is finite; warm-up gaps are zero-filled.
type MetricSnapshot struct {
	Timestamp     time.Time `json:"timestamp"`
	Close         float64   `json:"close"`
	ADX           float64   `json:"adx"`
	EMADelta      float64   `json:"ema_delta"`
	ATR           float64   `json:"atr"`
	BBWPct        float64   `json:"bbw_pct"`
	BBWPercentile float64   `json:"bbw_percentile"`
	RSI           float64   `json:"rsi"`
	VolumeDelta   float64   `json:"volume_delta"`
}

// MetricTable is the per-candle metric series produced by the normalizer.
type MetricTable struct {
	Rows []MetricSnapshot
	// Degraded is internal debugging state and is never serialized into reports.
	Degraded Degradation `json:"-"`
}

// Latest returns the final row of the table.
func (t *MetricTable) Latest() MetricSnapshot {
	if t == nil || len(t.Rows) == 0 {
		return MetricSnapshot{}
	}
	return t.Rows[len(t.Rows)-1]
}

// ATRSeries returns the zero-filled ATR column.
func (t *MetricTable) ATRSeries() []float64 {
	out := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		out[i] = r.ATR
	}
	return out
}

// Degradation records which latest-snapshot fields were zero-filled because of
// window warm-up, so a zero can be told apart from a genuine zero reading.
type Degradation struct {
	Fields  []string
	Reasons []string
}

// Any reports whether the latest snapshot carries warm-up substitutions.
func (d Degradation) Any() bool { return len(d.Fields) > 0 || len(d.Reasons) > 0 }

// Has reports whether the given field was zero-filled.
func (d Degradation) Has(field string) bool {
	for _, f := range d.Fields {
		if f == field {
			return true
		}
	}
	return false
}
