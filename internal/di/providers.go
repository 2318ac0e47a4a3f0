package di

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"RegimeAudit/internal/domain/repository"
	domsvc "RegimeAudit/internal/domain/service"
	"RegimeAudit/internal/handler/api"
	internalrepo "RegimeAudit/internal/repository"
	"RegimeAudit/internal/service/kraken"
	"RegimeAudit/internal/service/ratelimit"
	"RegimeAudit/internal/services/analytics"
	"RegimeAudit/internal/services/indicators"
	"RegimeAudit/internal/services/narrative"
	"RegimeAudit/internal/usecase"
	"RegimeAudit/pkg/cache"
	pkgch "RegimeAudit/pkg/clickhouse"
	"RegimeAudit/pkg/config"
	xhttp "RegimeAudit/pkg/http"
	pkgkafka "RegimeAudit/pkg/kafka"
	applogger "RegimeAudit/pkg/logger"
	"RegimeAudit/pkg/metrics"
	"RegimeAudit/pkg/server"
)

const serviceName = "regime-audit"

// ProvideLogger builds the process logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("service", serviceName), applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics registers the audit collectors on the default registry.
func ProvideMetrics() repository.Metrics {
	return metrics.New(nil)
}

// ProvideKafkaProducer returns nil when Kafka is disabled.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, func(), error) {
	if !cfg.Kafka.Enabled {
		return nil, func() {}, nil
	}
	producer, err := pkgkafka.NewProducer(pkgkafka.WriterConfig{
		Brokers:           cfg.Kafka.Brokers,
		RequiredAcks:      cfg.Kafka.RequiredAcks,
		Compression:       cfg.Kafka.Compression,
		MaxAttempts:       cfg.Kafka.Producer.MaxAttempts,
		Linger:            cfg.Kafka.Producer.Linger,
		BatchSize:         cfg.Kafka.Producer.BatchSize,
		BatchBytes:        int64(cfg.Kafka.Producer.BatchBytes),
		WriteTimeout:      cfg.Kafka.Producer.WriteTimeout,
		ReadTimeout:       cfg.Kafka.Producer.ReadTimeout,
		Async:             cfg.Kafka.Producer.Async,
		KeyedPartitioning: true,
	}, prometheus.DefaultRegisterer)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, func() { _ = producer.Close() }, nil
}

// LogShipping marks that error-log aggregation has been attached to the logger.
type LogShipping struct{ Enabled bool }

// ProvideLogShipping attaches a LogCollector publishing to Kafka. The cleanup
// flushes the collector before the producer is closed.
func ProvideLogShipping(l *applogger.Logger, producer *pkgkafka.Producer, cfg *config.Config) (LogShipping, func()) {
	if producer == nil {
		return LogShipping{}, func() {}
	}
	l.AddCollector(&applogger.CollectionConfig{
		TimeInterval:   cfg.Kafka.FlushInterval,
		CountThreshold: cfg.Kafka.CountThreshold,
		Topic:          cfg.Kafka.LogsTopic,
		Publisher:      internalrepo.NewKafkaLogPublisher(producer, serviceName),
	})
	return LogShipping{Enabled: true}, l.RemoveCollector
}

// ProvideClickHouseClient connects only when ClickHouse is the market-data
// source, and ensures the candle table exists.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, func(), error) {
	if cfg.MarketData.Source != "clickhouse" {
		return nil, func() {}, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	client, err := NewClickHouseClient(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// NewClickHouseClient opens ClickHouse from config and creates the candle table.
func NewClickHouseClient(ctx context.Context, cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(ctx,
		pkgch.WithAddr(cfg.ClickHouse.Host, cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	store := internalrepo.NewCHCandleStore(client.DB(), cfg.ClickHouse.Table, cfg.MarketData.GapTolerance)
	if err := client.InitSchema(ctx, store.Schema()); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideCache returns an in-process cache, layered over Redis when enabled.
func ProvideCache(cfg *config.Config) (cache.Service, func(), error) {
	if !cfg.Redis.Enabled {
		mc := cache.NewMemoryCache(cache.MemoryConfig{MaxEntries: 512})
		return mc, func() { _ = mc.Close() }, nil
	}
	rc, err := cache.NewRedisCache(cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("redis cache: %w", err)
	}
	lc := cache.NewLayeredCache(rc, 512)
	return lc, func() { _ = lc.Close() }, nil
}

// ProvideKrakenClient builds the public REST client.
func ProvideKrakenClient(cfg *config.Config, l *applogger.Logger) *kraken.Client {
	return kraken.New(kraken.Config{
		BaseURL:      cfg.MarketData.BaseURL,
		Timeout:      cfg.MarketData.Timeout,
		RatePerSec:   cfg.MarketData.RatePerSec,
		GapTolerance: cfg.MarketData.GapTolerance,
	}, l.With(applogger.String("component", "kraken")))
}

// ProvideCandleSource selects Kraken or ClickHouse and wraps it in the read-through cache.
func ProvideCandleSource(cfg *config.Config, l *applogger.Logger, ch *pkgch.Client, c cache.Service) repository.CandleSource {
	var src repository.CandleSource
	if cfg.MarketData.Source == "clickhouse" && ch != nil {
		store := internalrepo.NewCHCandleStore(ch.DB(), cfg.ClickHouse.Table, cfg.MarketData.GapTolerance)
		store.SetLogger(l.With(applogger.String("component", "clickhouse")))
		src = store
	} else {
		src = ProvideKrakenClient(cfg, l)
	}
	return internalrepo.NewCachedCandleSource(src, c, cfg.MarketData.CacheTTL, l)
}

// ProvideNarrator picks the LLM explainer when configured, else the simulated one.
func ProvideNarrator(cfg *config.Config, l *applogger.Logger) domsvc.NarrativeGenerator {
	if cfg.Narrative.Provider == "openai" {
		return narrative.NewLLMExplainer(narrative.LLMConfig{
			BaseURL:   cfg.Narrative.BaseURL,
			APIKey:    cfg.Narrative.APIKey,
			Model:     cfg.Narrative.Model,
			Timeout:   cfg.Narrative.Timeout,
			MaxTokens: cfg.Narrative.MaxTokens,
		}, l.With(applogger.String("component", "narrative")))
	}
	return narrative.NewSimulatedExplainer()
}

// ProvideOrchestrator assembles the stateless pipeline stages.
func ProvideOrchestrator(cfg *config.Config, narrator domsvc.NarrativeGenerator, l *applogger.Logger) *usecase.Orchestrator {
	return usecase.NewOrchestrator(
		analytics.NewNormalizer(indicators.NewTalibCalculator()),
		analytics.NewRegimeClassifier(),
		analytics.NewAlignmentScorer(),
		analytics.NewRiskEngine(),
		narrator,
		cfg.Narrative.Timeout,
		l,
	)
}

func ProvideAuditUseCase(
	src repository.CandleSource,
	orch *usecase.Orchestrator,
	m repository.Metrics,
	l *applogger.Logger,
	cfg *config.Config,
) *usecase.AuditUseCase {
	return usecase.NewAuditUseCase(src, orch, m, l, cfg.MarketData.Limit)
}

func ProvideAuditHandler(l *applogger.Logger, uc *usecase.AuditUseCase) *api.AuditEchoHandler {
	return api.NewAuditEchoHandler(l, uc)
}

// ProvideHTTPServer builds the echo server with per-IP rate limiting.
func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, h *api.AuditEchoHandler) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
	}
	if cfg.Server.RatePerSec > 0 {
		opts = append(opts, xhttp.WithRateLimiter(ratelimit.New(cfg.Server.RatePerSec, cfg.Server.RateBurst)))
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, xhttp.WithMetrics(cfg.Metrics.Path, nil, nil))
	}
	return xhttp.NewServer(h, l, opts...)
}

func ProvideApp(l *applogger.Logger, srv *xhttp.Server, shipping LogShipping) *server.App {
	return server.New(l, srv, shipping.Enabled)
}
