package api

import (
	"context"
	"errors"
	"net/http"

	"RegimeAudit/internal/domain/models"
	xhttp "RegimeAudit/pkg/http"
	xlogger "RegimeAudit/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Auditor runs one audit for a validated request.
type Auditor interface {
	Audit(ctx context.Context, req models.AuditRequest) (*models.AuditReport, error)
}

// AuditEchoHandler serves the audit endpoints.
type AuditEchoHandler struct {
	logger  *xlogger.Logger
	auditor Auditor
	stream  streamConfig
}

func NewAuditEchoHandler(logger *xlogger.Logger, auditor Auditor) *AuditEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &AuditEchoHandler{logger: logger, auditor: auditor, stream: defaultStreamConfig()}
}

func (h *AuditEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)
	g := e.Group("/api/v1")
	g.POST("/audit", h.Audit)
	g.GET("/audit/stream", h.Stream)
}

// Health is a liveness probe.
func (h *AuditEchoHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// Audit handles POST /api/v1/audit.
func (h *AuditEchoHandler) Audit(c echo.Context) error {
	req := &models.AuditRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	report, err := h.auditor.Audit(c.Request().Context(), *req)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}
	return xhttp.SuccessResponse(c, report)
}

// toAppError maps domain failures to transport errors. Anything unexpected
// becomes a uniform 503 so internals never reach the client.
func toAppError(err error) *xhttp.AppError {
	switch {
	case errors.Is(err, models.ErrInsufficientData):
		return xhttp.UnprocessableError("ERR_INSUFFICIENT_DATA", "not enough candles to run an audit").WithError(err)
	case errors.Is(err, models.ErrDataIntegrity):
		return xhttp.UnprocessableError("ERR_DATA_INTEGRITY", "insufficient market data integrity").WithError(err)
	case errors.Is(err, models.ErrInvalidRequest):
		return xhttp.BadRequestError("request", "symbol and timeframe must be supported values").WithError(err)
	case errors.Is(err, models.ErrSymbolNotSupported):
		return xhttp.BadRequestError("symbol", "symbol is not supported by the market data source").WithError(err)
	case errors.Is(err, models.ErrInvalidRiskInput):
		return xhttp.BadRequestError("account_balance", "account balance, risk percentage and volatility must be non-negative").WithError(err)
	default:
		return xhttp.ServiceUnavailableError().WithError(err)
	}
}
