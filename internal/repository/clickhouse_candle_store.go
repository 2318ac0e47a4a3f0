package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"RegimeAudit/internal/domain/models"
	domrepo "RegimeAudit/internal/domain/repository"
	"RegimeAudit/internal/services/series"
	applogger "RegimeAudit/pkg/logger"
)

// CHCandleStore is a CandleSource backed by a ClickHouse candle table.
type CHCandleStore struct {
	db           *sql.DB
	table        string
	gapTolerance float64
	l            *applogger.Logger
}

func NewCHCandleStore(db *sql.DB, table string, gapTolerance float64) *CHCandleStore {
	if table == "" {
		table = "candles"
	}
	return &CHCandleStore{db: db, table: table, gapTolerance: gapTolerance, l: applogger.Nop()}
}

// SetLogger injects a structured logger.
func (s *CHCandleStore) SetLogger(l *applogger.Logger) {
	if l != nil {
		s.l = l
	}
}

// Schema returns the idempotent DDL for the candle table.
func (s *CHCandleStore) Schema() []string {
	return []string{fmt.Sprintf(`
        CREATE TABLE IF NOT EXISTS %s (
            ts        DateTime('UTC'),
            symbol    LowCardinality(String),
            timeframe LowCardinality(String),
            open      Float64,
            high      Float64,
            low       Float64,
            close     Float64,
            volume    Float64
        ) ENGINE = ReplacingMergeTree
        ORDER BY (symbol, timeframe, ts)`, s.table)}
}

// GetCandles returns the newest limit candles in ascending order.
func (s *CHCandleStore) GetCandles(ctx context.Context, symbol string, tf domrepo.Timeframe, limit int) ([]models.Candle, error) {
	start := time.Now()
	const qtpl = `
        SELECT ts, open, high, low, close, volume
        FROM %s FINAL
        WHERE symbol = ? AND timeframe = ?
        ORDER BY ts DESC
        LIMIT ?
    `
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(qtpl, s.table), symbol, string(tf), limit)
	if err != nil {
		s.l.Error("clickhouse get_candles query error",
			applogger.String("table", s.table),
			applogger.String("symbol", symbol),
			applogger.String("tf", string(tf)),
			applogger.Error(err),
		)
		return nil, fmt.Errorf("get candles: %w", err)
	}
	defer rows.Close()

	out := make([]models.Candle, 0, limit)
	for rows.Next() {
		var c models.Candle
		if err := rows.Scan(&c.Timestamp, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, fmt.Errorf("scan candle: %w", err)
		}
		c.Timestamp = c.Timestamp.UTC()
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	out = series.Prepare(out)
	if err := series.CheckContinuity(out, tf.Duration(), s.gapTolerance); err != nil {
		return nil, err
	}

	s.l.Debug("clickhouse get_candles ok",
		applogger.String("table", s.table),
		applogger.String("symbol", symbol),
		applogger.String("tf", string(tf)),
		applogger.Int("rows", len(out)),
		applogger.Duration("duration_ms", time.Since(start)),
	)
	return out, nil
}

// StoreCandles inserts candles in multi-row batches. Re-inserting a
// timestamp replaces the row on merge.
func (s *CHCandleStore) StoreCandles(ctx context.Context, symbol string, tf domrepo.Timeframe, candles []models.Candle) error {
	const chunkSize = 2000
	for start := 0; start < len(candles); start += chunkSize {
		end := start + chunkSize
		if end > len(candles) {
			end = len(candles)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*8)
		for _, c := range candles[start:end] {
			values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?)")
			args = append(args, c.Timestamp.UTC(), symbol, string(tf), c.Open, c.High, c.Low, c.Close, c.Volume)
		}
		q := fmt.Sprintf("INSERT INTO %s (ts, symbol, timeframe, open, high, low, close, volume) VALUES %s",
			s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("insert candles: %w", err)
		}
	}
	return nil
}

var _ domrepo.CandleSource = (*CHCandleStore)(nil)
