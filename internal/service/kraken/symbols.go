package kraken

import (
	"fmt"
	"strings"

	"RegimeAudit/internal/domain/models"
)

var krakenBase = map[string]string{
	"BTC": "XBT",
	"ETH": "ETH",
	"SOL": "SOL",
	"XRP": "XRP",
	"ADA": "ADA",
	"LTC": "LTC",
	"DOT": "DOT",
}

// Stablecoin quotes are priced against the fiat book.
var krakenQuote = map[string]string{
	"USDT": "USD",
	"USDC": "USD",
	"USD":  "USD",
	"EUR":  "EUR",
}

// PairFor maps a "BASE/QUOTE" symbol onto a Kraken pair, e.g. BTC/USDT -> XBTUSD.
func PairFor(symbol string) (string, error) {
	parts := strings.Split(strings.ToUpper(strings.TrimSpace(symbol)), "/")
	if len(parts) != 2 {
		return "", fmt.Errorf("%w: %q", models.ErrSymbolNotSupported, symbol)
	}
	base, ok := krakenBase[parts[0]]
	if !ok {
		return "", fmt.Errorf("%w: %q", models.ErrSymbolNotSupported, symbol)
	}
	quote, ok := krakenQuote[parts[1]]
	if !ok {
		return "", fmt.Errorf("%w: %q", models.ErrSymbolNotSupported, symbol)
	}
	return base + quote, nil
}
