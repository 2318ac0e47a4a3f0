package main

import (
	"context"
	"fmt"
	"time"

	"RegimeAudit/internal/di"
	domrepo "RegimeAudit/internal/domain/repository"
	internalrepo "RegimeAudit/internal/repository"
	applogger "RegimeAudit/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	backfillSymbols   []string
	backfillTimeframe string
	backfillLimit     int
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Copy recent Kraken candles into the ClickHouse candle table",
	Long: `backfill fetches the newest candles for each symbol from Kraken and stores
them in ClickHouse so the service can run with market_data.source=clickhouse.
Re-running is safe: rows with the same timestamp replace each other.`,
	RunE: runBackfill,
}

func init() {
	f := backfillCmd.Flags()
	f.StringSliceVar(&backfillSymbols, "symbols", []string{"BTC/USDT", "ETH/USDT"}, "asset pairs to copy")
	f.StringVar(&backfillTimeframe, "timeframe", "4h", "candle timeframe: 1h, 4h or 1d")
	f.IntVar(&backfillLimit, "limit", 720, "newest candles per symbol")
}

func runBackfill(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	tf := domrepo.Timeframe(backfillTimeframe)
	if !domrepo.IsValidTimeframe(tf) {
		return fmt.Errorf("unsupported timeframe %q", backfillTimeframe)
	}

	l, err := di.ProvideLogger(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	ch, err := di.NewClickHouseClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer ch.Close()

	store := internalrepo.NewCHCandleStore(ch.DB(), cfg.ClickHouse.Table, cfg.MarketData.GapTolerance)
	store.SetLogger(l)
	src := di.ProvideKrakenClient(cfg, l)

	for _, symbol := range backfillSymbols {
		candles, err := src.GetCandles(ctx, symbol, tf, backfillLimit)
		if err != nil {
			return fmt.Errorf("fetch %s: %w", symbol, err)
		}
		if err := store.StoreCandles(ctx, symbol, tf, candles); err != nil {
			return fmt.Errorf("store %s: %w", symbol, err)
		}
		l.Info("backfilled candles",
			applogger.String("symbol", symbol),
			applogger.String("timeframe", string(tf)),
			applogger.Int("rows", len(candles)),
		)
	}
	return nil
}
