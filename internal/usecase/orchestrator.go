package usecase

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"RegimeAudit/internal/domain/models"
	domsvc "RegimeAudit/internal/domain/service"
	"RegimeAudit/internal/services/analytics"
	"RegimeAudit/internal/services/narrative"
	"RegimeAudit/pkg/logger"
	"RegimeAudit/pkg/util"
)

// ATRMeanWindow is the trailing window of the flash-crash baseline.
const ATRMeanWindow = 50

// Orchestrator runs the audit pipeline over an accepted candle series and
// assembles the report. It holds no per-request state.
type Orchestrator struct {
	normalizer       *analytics.Normalizer
	classifier       *analytics.RegimeClassifier
	scorer           *analytics.AlignmentScorer
	risk             *analytics.RiskEngine
	narrator         domsvc.NarrativeGenerator
	narrativeTimeout time.Duration
	log              *logger.Logger
}

func NewOrchestrator(
	normalizer *analytics.Normalizer,
	classifier *analytics.RegimeClassifier,
	scorer *analytics.AlignmentScorer,
	risk *analytics.RiskEngine,
	narrator domsvc.NarrativeGenerator,
	narrativeTimeout time.Duration,
	log *logger.Logger,
) *Orchestrator {
	if narrativeTimeout <= 0 {
		narrativeTimeout = 5 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Orchestrator{
		normalizer:       normalizer,
		classifier:       classifier,
		scorer:           scorer,
		risk:             risk,
		narrator:         narrator,
		narrativeTimeout: narrativeTimeout,
		log:              log,
	}
}

type RunParams struct {
	Candles        []models.Candle
	StrategyType   string
	Asset          string
	AccountBalance float64
	RiskPercentage float64
}

// RunResult is the report plus the internal state callers log and meter.
type RunResult struct {
	Report    *models.AuditReport
	Degraded  models.Degradation
	Narrative models.NarrativeResult
}

func (o *Orchestrator) Run(ctx context.Context, p RunParams) (*RunResult, error) {
	table, latest, err := o.normalizer.Normalize(p.Candles)
	if err != nil {
		return nil, err
	}

	regime := o.classifier.Classify(latest)

	atrMean, ok := analytics.TrailingMean(table.ATRSeries(), ATRMeanWindow)
	if !ok {
		atrMean = latest.ATR
	}

	var (
		wg        sync.WaitGroup
		alignment models.AlignmentResult
		risk      models.RiskAssessment
		riskErr   error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		alignment = o.scorer.Evaluate(models.StrategyType(p.StrategyType), regime)
	}()
	go func() {
		defer wg.Done()
		risk, riskErr = o.risk.Assess(latest.Close, latest.ATR, atrMean, p.AccountBalance, p.RiskPercentage)
	}()
	wg.Wait()
	if riskErr != nil {
		return nil, riskErr
	}

	metrics := roundSnapshot(latest)
	risk = roundRisk(risk)

	in := models.NarrativeInput{
		Asset:        p.Asset,
		StrategyName: p.StrategyType,
		Regime:       regime,
		Alignment:    alignment,
		Metrics:      metrics,
		Risk:         risk,
	}
	nres := o.narrate(ctx, in)
	if nres.Degraded {
		o.log.Warn("narrative fallback used",
			logger.String("asset", p.Asset),
			logger.String("reason", nres.Reason),
			logger.Error(fmt.Errorf("%w: %s", models.ErrNarrativeUnavailable, nres.Reason)),
		)
		reason := nres.Reason
		nres = models.NarrativeOK(narrative.Fallback(in), models.NarrativeSourceFallback)
		nres.Degraded, nres.Reason = true, reason
	}

	return &RunResult{
		Report:    buildReport(p, latest.Timestamp, regime, alignment, metrics, risk, nres),
		Degraded:  table.Degraded,
		Narrative: nres,
	}, nil
}

// narrate bounds the collaborator call. A timeout, cancellation, panic or
// incomplete output all come back as a degraded result.
func (o *Orchestrator) narrate(ctx context.Context, in models.NarrativeInput) models.NarrativeResult {
	if o.narrator == nil {
		return models.NarrativeDegraded("no narrative generator")
	}
	ctx, cancel := context.WithTimeout(ctx, o.narrativeTimeout)
	defer cancel()

	done := make(chan models.NarrativeResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- models.NarrativeDegraded(fmt.Sprintf("panic: %v", r))
			}
		}()
		done <- o.narrator.Generate(ctx, in)
	}()

	select {
	case res := <-done:
		if !res.Degraded && !res.Narrative.Complete() {
			return models.NarrativeDegraded("narrative missing required fields")
		}
		return res
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return models.NarrativeDegraded("timeout")
		}
		return models.NarrativeDegraded(ctx.Err().Error())
	}
}

func buildReport(
	p RunParams,
	at time.Time,
	regime models.RegimeState,
	alignment models.AlignmentResult,
	metrics models.MetricSnapshot,
	risk models.RiskAssessment,
	nres models.NarrativeResult,
) *models.AuditReport {
	n := nres.Narrative
	return &models.AuditReport{
		ReportID:  fmt.Sprintf("audit_%d", at.Unix()),
		Timestamp: at.UTC().Format(time.RFC3339),
		Asset:     p.Asset,
		Status:    models.ReportStatusComplete,
		UIComponents: models.UIComponents{
			TrafficLight: models.TrafficLight{
				Color: models.TrafficLightColor(alignment.AlignmentScore),
				Label: fmt.Sprintf("%s Alignment", alignment.AlignmentScore),
			},
			RegimeCard: models.RegimeCard{
				Title:   "Market Context",
				Value:   fmt.Sprintf("%s / %s", regime.TrendState, regime.VolatilityState),
				Subtext: n.MarketContext,
			},
			RiskCard: models.RiskCard{
				Title:   "Safety Guardrails",
				Metric1: "Stop Width: $" + number(risk.StopLossGuardrails.MinStopWidth),
				Metric2: fmt.Sprintf("Max Size: %s Units", number(risk.PositionSizing.RecommendedUnits)),
			},
			AIAnalysis: models.AIAnalysis{
				Text:     n.AlignmentVerdict + " " + n.RiskNote,
				Blockers: alignment.Blockers,
			},
		},
		Details: models.AuditDetails{
			Strategy:        p.StrategyType,
			Regime:          regime,
			Alignment:       alignment,
			Metrics:         metrics,
			Risk:            risk,
			NarrativeSource: nres.Source,
		},
	}
}

func roundSnapshot(m models.MetricSnapshot) models.MetricSnapshot {
	m.ADX = util.Round(m.ADX, 2)
	m.EMADelta = util.Round(m.EMADelta, 4)
	m.ATR = util.Round(m.ATR, 4)
	m.BBWPct = util.Round(m.BBWPct, 4)
	m.BBWPercentile = util.Round(m.BBWPercentile, 2)
	m.RSI = util.Round(m.RSI, 2)
	m.VolumeDelta = util.Round(m.VolumeDelta, 2)
	return m
}

func roundRisk(r models.RiskAssessment) models.RiskAssessment {
	r.RiskParameters.RiskAmountUSD = util.Round(r.RiskParameters.RiskAmountUSD, 2)
	r.StopLossGuardrails.ATRValue = util.Round(r.StopLossGuardrails.ATRValue, 4)
	r.StopLossGuardrails.MinStopWidth = util.Round(r.StopLossGuardrails.MinStopWidth, 4)
	r.PositionSizing.RecommendedUnits = util.Round(r.PositionSizing.RecommendedUnits, 4)
	r.PositionSizing.NotionalValue = util.Round(r.PositionSizing.NotionalValue, 2)
	r.VolatilityDistances.Distance1R = util.Round(r.VolatilityDistances.Distance1R, 4)
	r.VolatilityDistances.Distance2R = util.Round(r.VolatilityDistances.Distance2R, 4)
	r.VolatilityDistances.Distance3R = util.Round(r.VolatilityDistances.Distance3R, 4)
	return r
}

func number(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
