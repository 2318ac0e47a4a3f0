package models

import "time"

// Candle represents one OHLCV bar. Series are ordered by strictly increasing Timestamp.
type Candle struct {
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// MinCandles is the hard floor below which no audit can run.
const MinCandles = 14

// ReliableDepth is the depth at which the EMA(200) trend baseline is fully warmed up.
const ReliableDepth = 200
