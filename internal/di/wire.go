//go:build wireinject
// +build wireinject

package di

import (
	"RegimeAudit/internal/usecase"
	"RegimeAudit/pkg/config"
	"RegimeAudit/pkg/server"

	"github.com/google/wire"
)

var infraSet = wire.NewSet(
	ProvideLogger,
	ProvideMetrics,
	ProvideKafkaProducer,
	ProvideLogShipping,
	ProvideClickHouseClient,
	ProvideCache,
)

var auditSet = wire.NewSet(
	ProvideCandleSource,
	ProvideNarrator,
	ProvideOrchestrator,
	ProvideAuditUseCase,
)

// InitializeApp wires the HTTP service.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		infraSet,
		auditSet,
		ProvideAuditHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return nil, nil, nil
}

// InitializeAuditUseCase wires the pipeline without the HTTP layer, for the CLI.
func InitializeAuditUseCase(cfg *config.Config) (*usecase.AuditUseCase, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,
		ProvideClickHouseClient,
		ProvideCache,
		auditSet,
	)
	return nil, nil, nil
}
