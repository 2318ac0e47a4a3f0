package models

// IndicatorSeries is the fixed result of the indicator-math collaborator.
// Every column has the same length as the input candles. Entries before the
// column's warm-up index are undefined and hold zero.
type IndicatorSeries struct {
	ADX       []float64
	EMA200    []float64
	ATR       []float64
	BBUpper   []float64
	BBMiddle  []float64
	BBLower   []float64
	RSI       []float64
	VolumeSMA []float64

	// Warmup holds, per column, the index of the first defined value.
	// A value >= len(column) means the column is entirely undefined.
	Warmup IndicatorWarmup
}

type IndicatorWarmup struct {
	ADX       int
	EMA200    int
	ATR       int
	BB        int
	RSI       int
	VolumeSMA int
}
