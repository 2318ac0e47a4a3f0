package kraken

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"RegimeAudit/internal/domain/models"
	drepo "RegimeAudit/internal/domain/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ohlcBody(start int64, step int64, n int, skipAt int) string {
	rows := make([]string, 0, n)
	ts := start
	for i := 0; i < n; i++ {
		if i == skipAt {
			ts += 10 * step
		}
		p := 100 + i
		rows = append(rows, fmt.Sprintf(`[%d,"%d.0","%d.5","%d.5","%d.0","%d.0","12.5",10]`, ts, p, p, p-1, p, p))
		ts += step
	}
	return fmt.Sprintf(`{"error":[],"result":{"XXBTZUSD":[%s],"last":%d}}`, strings.Join(rows, ","), ts)
}

func server(t *testing.T, body string) (*httptest.Server, *[]string) {
	t.Helper()
	var queries []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, ohlcPath, r.URL.Path)
		queries = append(queries, r.URL.RawQuery)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &queries
}

func TestGetCandles(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	srv, queries := server(t, ohlcBody(start, 4*3600, 320, -1))
	c := New(Config{BaseURL: srv.URL, RatePerSec: 100, GapTolerance: 3}, nil)

	candles, err := c.GetCandles(context.Background(), "BTC/USDT", drepo.TF4h, 300)
	require.NoError(t, err)
	require.Len(t, candles, 300)
	assert.Contains(t, (*queries)[0], "pair=XBTUSD")
	assert.Contains(t, (*queries)[0], "interval=240")

	last := candles[len(candles)-1]
	assert.Equal(t, 419.0, last.Close)
	assert.Equal(t, 12.5, last.Volume)
	assert.True(t, candles[0].Timestamp.Before(last.Timestamp))
}

func TestGetCandlesRejectsGap(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	srv, _ := server(t, ohlcBody(start, 3600, 100, 50))
	c := New(Config{BaseURL: srv.URL, RatePerSec: 100, GapTolerance: 3}, nil)

	_, err := c.GetCandles(context.Background(), "ETH/USDT", drepo.TF1h, 300)
	assert.ErrorIs(t, err, models.ErrDataIntegrity)
}

func TestGetCandlesUpstreamError(t *testing.T) {
	srv, _ := server(t, `{"error":["EQuery:Unknown asset pair"]}`)
	c := New(Config{BaseURL: srv.URL, RatePerSec: 100}, nil)

	_, err := c.GetCandles(context.Background(), "BTC/USDT", drepo.TF1d, 300)
	assert.ErrorIs(t, err, models.ErrSymbolNotSupported)
}

func TestPairFor(t *testing.T) {
	tests := []struct {
		in, want string
		ok       bool
	}{
		{"BTC/USDT", "XBTUSD", true},
		{"eth/usdt", "ETHUSD", true},
		{"BTC/USD", "XBTUSD", true},
		{"BTCUSDT", "", false},
		{"FOO/USDT", "", false},
		{"BTC/JPY", "", false},
	}
	for _, tt := range tests {
		got, err := PairFor(tt.in)
		if tt.ok {
			require.NoError(t, err, tt.in)
			assert.Equal(t, tt.want, got)
		} else {
			assert.ErrorIs(t, err, models.ErrSymbolNotSupported, tt.in)
		}
	}
}
