package kraken

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"RegimeAudit/internal/domain/models"
	drepo "RegimeAudit/internal/domain/repository"
	"RegimeAudit/internal/service/ratelimit"
	"RegimeAudit/internal/services/series"
	"RegimeAudit/pkg/breaker"
	xhttp "RegimeAudit/pkg/http"
	"RegimeAudit/pkg/logger"
)

const ohlcPath = "/0/public/OHLC"

type Config struct {
	BaseURL      string
	Timeout      time.Duration
	RatePerSec   float64
	GapTolerance float64
}

// Client is a CandleSource backed by the Kraken public REST API.
type Client struct {
	baseURL      string
	http         *xhttp.Client
	limiter      *ratelimit.Limiter
	breaker      *breaker.Breaker
	gapTolerance float64
	log          *logger.Logger
}

func New(cfg Config, log *logger.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RatePerSec <= 0 {
		cfg.RatePerSec = 1
	}
	if log == nil {
		log = logger.Nop()
	}
	bc := breaker.DefaultConfig("kraken-ohlc")
	bc.OnStateChange = func(name, from, to string) {
		log.Warn("circuit breaker state change", logger.String("breaker", name), logger.String("from", from), logger.String("to", to))
	}
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		http:         xhttp.NewClient(xhttp.WithTimeout(cfg.Timeout)),
		limiter:      ratelimit.New(cfg.RatePerSec, 1),
		breaker:      breaker.New(bc),
		gapTolerance: cfg.GapTolerance,
		log:          log,
	}
}

type ohlcResponse struct {
	Error  []string                   `json:"error"`
	Result map[string]json.RawMessage `json:"result"`
}

// GetCandles returns up to limit of the newest candles in ascending order.
func (c *Client) GetCandles(ctx context.Context, symbol string, tf drepo.Timeframe, limit int) ([]models.Candle, error) {
	pair, err := PairFor(symbol)
	if err != nil {
		return nil, err
	}
	if !drepo.IsValidTimeframe(tf) {
		return nil, fmt.Errorf("unsupported timeframe %q", tf)
	}

	if err := c.limiter.Wait(ctx, "ohlc"); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var body []byte
	err = c.breaker.Do(func() error {
		return c.http.SendAndParse(ctx, &xhttp.RequestOptions{
			Method: xhttp.MethodGet,
			URL:    c.baseURL + ohlcPath,
			QueryParams: map[string][]string{
				"pair":     {pair},
				"interval": {strconv.Itoa(tf.Minutes())},
			},
		}, &body)
	})
	if err != nil {
		return nil, fmt.Errorf("kraken ohlc %s: %w", pair, err)
	}

	candles, err := parseOHLC(body)
	if err != nil {
		return nil, fmt.Errorf("kraken ohlc %s: %w", pair, err)
	}

	candles = series.Tail(series.Prepare(candles), limit)
	if err := series.CheckContinuity(candles, tf.Duration(), c.gapTolerance); err != nil {
		return nil, err
	}

	c.log.Debug("kraken candles fetched",
		logger.String("symbol", symbol),
		logger.String("pair", pair),
		logger.String("timeframe", string(tf)),
		logger.Int("count", len(candles)),
	)
	return candles, nil
}

func parseOHLC(body []byte) ([]models.Candle, error) {
	var resp ohlcResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if len(resp.Error) > 0 {
		msg := strings.Join(resp.Error, "; ")
		if strings.Contains(msg, "Unknown asset pair") {
			return nil, fmt.Errorf("%w: %s", models.ErrSymbolNotSupported, msg)
		}
		return nil, errors.New(msg)
	}

	for key, raw := range resp.Result {
		if key == "last" {
			continue
		}
		var rows [][]interface{}
		if err := json.Unmarshal(raw, &rows); err != nil {
			return nil, fmt.Errorf("decode rows: %w", err)
		}
		out := make([]models.Candle, 0, len(rows))
		for i, row := range rows {
			c, err := parseRow(row)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			out = append(out, c)
		}
		return out, nil
	}
	return nil, errors.New("no ohlc data in response")
}

// parseRow reads [time, open, high, low, close, vwap, volume, count].
func parseRow(row []interface{}) (models.Candle, error) {
	if len(row) < 7 {
		return models.Candle{}, fmt.Errorf("expected 8 fields, got %d", len(row))
	}
	vals := make([]float64, 7)
	for i := 0; i < 7; i++ {
		v, err := toFloat(row[i])
		if err != nil {
			return models.Candle{}, fmt.Errorf("field %d: %w", i, err)
		}
		vals[i] = v
	}
	return models.Candle{
		Timestamp: time.Unix(int64(vals[0]), 0).UTC(),
		Open:      vals[1],
		High:      vals[2],
		Low:       vals[3],
		Close:     vals[4],
		Volume:    vals[6],
	}, nil
}

func toFloat(v interface{}) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case string:
		return strconv.ParseFloat(x, 64)
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

var _ drepo.CandleSource = (*Client)(nil)
