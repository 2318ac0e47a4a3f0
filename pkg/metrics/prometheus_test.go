package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.RecordAudit("BREAKOUT", "HIGH")
	r.RecordAudit("BREAKOUT", "HIGH")
	r.RecordNarrativeFallback("timeout")
	r.RecordFlashCrash("BTC/USDT")
	r.RecordError("insufficient_data")
	r.RecordLastPrice("BTC/USDT", 42000.5)
	r.RecordLatency("audit", 0.12)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.audits.WithLabelValues("BREAKOUT", "HIGH")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.fallbacks.WithLabelValues("timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.flashCrash.WithLabelValues("BTC/USDT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("insufficient_data")))
	assert.Equal(t, 42000.5, testutil.ToFloat64(r.lastPrice.WithLabelValues("BTC/USDT")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.latency))
}
