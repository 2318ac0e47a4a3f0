package models

import "errors"

var (
	// ErrInsufficientData means fewer than MinCandles candles were supplied.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrDataIntegrity means the upstream series has gaps or anomalies.
	ErrDataIntegrity = errors.New("insufficient market data integrity")
	// ErrNarrativeUnavailable is recovered locally by the fallback template.
	ErrNarrativeUnavailable = errors.New("narrative unavailable")
	// ErrInvalidRiskInput is returned for negative balance, ATR or risk percentage.
	ErrInvalidRiskInput = errors.New("invalid risk input")
	// ErrInvalidRequest means the request itself is malformed, e.g. an empty
	// symbol or an unknown timeframe.
	ErrInvalidRequest = errors.New("invalid audit request")
	// ErrSymbolNotSupported means the market-data source cannot map the asset.
	ErrSymbolNotSupported = errors.New("symbol not supported")
)
