package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"RegimeAudit/internal/di"
	"RegimeAudit/internal/domain/models"
	xhttp "RegimeAudit/pkg/http"

	"github.com/spf13/cobra"
)

var (
	auditReq     models.AuditRequest
	auditTimeout time.Duration
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Run one audit and print the report as JSON",
	Example: `  regime-audit audit --symbol ETH/USDT --strategy BREAKOUT
  regime-audit audit --timeframe 1d --balance 25000 --risk 0.02`,
	RunE: runAudit,
}

func init() {
	f := auditCmd.Flags()
	f.StringVar(&auditReq.Symbol, "symbol", "", "asset pair, default BTC/USDT")
	f.StringVar(&auditReq.Timeframe, "timeframe", "", "candle timeframe: 1h, 4h or 1d, default 4h")
	f.StringVar(&auditReq.StrategyType, "strategy", "", "TREND_FOLLOWING, MEAN_REVERSION or BREAKOUT")
	f.Float64Var(&auditReq.AccountBalance, "balance", 0, "account balance in quote currency, default 10000")
	f.Float64Var(&auditReq.RiskPercentage, "risk", 0, "risk per trade as a fraction, default 0.01 and capped at 0.02")
	f.DurationVar(&auditTimeout, "timeout", 30*time.Second, "overall timeout")
}

func runAudit(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// stdout carries the report
	if cfg.Log.Output == "stdout" {
		cfg.Log.Output = "stderr"
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), auditTimeout)
	defer cancel()

	req := auditReq
	if verrs := xhttp.ValidateStruct(ctx, &req); len(verrs) > 0 {
		for _, v := range verrs {
			fmt.Fprintf(os.Stderr, "invalid %s: %s\n", v.Field, v.Message)
		}
		return fmt.Errorf("invalid audit request")
	}

	uc, cleanup, err := di.InitializeAuditUseCase(cfg)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}
	defer cleanup()

	report, err := uc.Audit(ctx, req)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
