package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"RegimeAudit/internal/domain/models"
	domrepo "RegimeAudit/internal/domain/repository"
	"RegimeAudit/internal/services/analytics"
	"RegimeAudit/pkg/logger"
)

// AuditUseCase fetches market data and runs the audit pipeline for one request.
type AuditUseCase struct {
	source  domrepo.CandleSource
	orch    *Orchestrator
	metrics domrepo.Metrics
	log     *logger.Logger
	limit   int
}

func NewAuditUseCase(source domrepo.CandleSource, orch *Orchestrator, metrics domrepo.Metrics, log *logger.Logger, limit int) *AuditUseCase {
	if limit < models.MinCandles {
		limit = 300
	}
	if log == nil {
		log = logger.Nop()
	}
	return &AuditUseCase{source: source, orch: orch, metrics: metrics, log: log, limit: limit}
}

// Audit runs a full audit. Returned errors wrap the domain sentinels so the
// transport layer can map them.
func (uc *AuditUseCase) Audit(ctx context.Context, req models.AuditRequest) (*models.AuditReport, error) {
	start := time.Now()
	defer func() { uc.observe("audit", time.Since(start)) }()

	if req.Symbol == "" {
		return nil, fmt.Errorf("%w: symbol required", models.ErrInvalidRequest)
	}
	tf := domrepo.Timeframe(req.Timeframe)
	if !domrepo.IsValidTimeframe(tf) {
		return nil, fmt.Errorf("%w: unsupported timeframe %q", models.ErrInvalidRequest, req.Timeframe)
	}

	candles, err := uc.source.GetCandles(ctx, req.Symbol, tf, uc.limit)
	if err != nil {
		uc.fail(err, req)
		return nil, fmt.Errorf("get candles: %w", err)
	}

	return uc.Run(ctx, req, candles)
}

// Run audits an already fetched series.
func (uc *AuditUseCase) Run(ctx context.Context, req models.AuditRequest, candles []models.Candle) (*models.AuditReport, error) {
	res, err := uc.orch.Run(ctx, RunParams{
		Candles:        candles,
		StrategyType:   req.StrategyType,
		Asset:          req.Symbol,
		AccountBalance: req.AccountBalance,
		RiskPercentage: req.RiskPercentage,
	})
	if err != nil {
		uc.fail(err, req)
		return nil, err
	}

	report := res.Report
	if res.Degraded.Any() {
		fields := []logger.Field{
			logger.String("symbol", req.Symbol),
			logger.Int("candles", len(candles)),
			logger.Strings("fields", res.Degraded.Fields),
			logger.Strings("reasons", res.Degraded.Reasons),
		}
		for _, r := range res.Degraded.Reasons {
			if r == analytics.ReasonZeroVolume {
				uc.log.Warn("latest candle has zero volume", fields...)
			}
		}
		uc.log.Debug("metrics computed with warm-up substitutions", fields...)
	}

	if uc.metrics != nil {
		uc.metrics.RecordAudit(req.StrategyType, string(report.Details.Alignment.AlignmentScore))
		uc.metrics.RecordLastPrice(req.Symbol, report.Details.Metrics.Close)
		if report.Details.Risk.Warnings.FlashCrashDetected {
			uc.metrics.RecordFlashCrash(req.Symbol)
		}
		if res.Narrative.Degraded {
			uc.metrics.RecordNarrativeFallback(res.Narrative.Reason)
		}
	}

	uc.log.Info("audit complete",
		logger.String("report_id", report.ReportID),
		logger.String("symbol", req.Symbol),
		logger.String("strategy", req.StrategyType),
		logger.String("score", string(report.Details.Alignment.AlignmentScore)),
		logger.String("narrative", res.Narrative.Source),
	)
	return report, nil
}

func (uc *AuditUseCase) fail(err error, req models.AuditRequest) {
	kind := ErrorKind(err)
	if uc.metrics != nil {
		uc.metrics.RecordError(kind)
	}
	uc.log.Error("audit failed",
		logger.String("symbol", req.Symbol),
		logger.String("timeframe", req.Timeframe),
		logger.String("kind", kind),
		logger.Error(err),
	)
}

func (uc *AuditUseCase) observe(op string, d time.Duration) {
	if uc.metrics != nil {
		uc.metrics.RecordLatency(op, d.Seconds())
	}
}

// ErrorKind classifies an audit error for metrics and transport mapping.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, models.ErrInsufficientData):
		return "insufficient_data"
	case errors.Is(err, models.ErrDataIntegrity):
		return "data_integrity"
	case errors.Is(err, models.ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, models.ErrSymbolNotSupported):
		return "symbol_not_supported"
	case errors.Is(err, models.ErrInvalidRiskInput):
		return "invalid_risk_input"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "internal"
	}
}
