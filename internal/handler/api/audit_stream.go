package api

import (
	"context"
	"net/http"
	"time"

	"RegimeAudit/internal/domain/models"
	xhttp "RegimeAudit/pkg/http"
	"RegimeAudit/pkg/http/middleware"
	xlogger "RegimeAudit/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

type streamConfig struct {
	handshakeTimeout time.Duration
	writeTimeout     time.Duration
	minInterval      time.Duration
}

func defaultStreamConfig() streamConfig {
	return streamConfig{
		handshakeTimeout: 30 * time.Second,
		writeTimeout:     5 * time.Second,
		minInterval:      5 * time.Second,
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

// StreamFrame is one server message on the audit stream.
type StreamFrame struct {
	Type   string              `json:"type"` // report or error
	Report *models.AuditReport `json:"report,omitempty"`
	Errors interface{}         `json:"errors,omitempty"`
}

// Stream handles GET /api/v1/audit/stream. The client sends one
// StreamRequest; a report is pushed immediately and then every
// interval_seconds until the client goes away.
func (h *AuditEchoHandler) Stream(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return nil
	}
	defer conn.Close()

	log := h.logger.With(xlogger.String("request_id", middleware.GetRequestID(c)))

	req := &models.StreamRequest{}
	_ = conn.SetReadDeadline(time.Now().Add(h.stream.handshakeTimeout))
	if err := conn.ReadJSON(req); err != nil {
		h.writeFrame(conn, StreamFrame{Type: "error", Errors: []xhttp.ValidationError{{Code: "ERR_MALFORMED", Message: "expected a JSON audit request"}}})
		return nil
	}
	if verrs := xhttp.ValidateStruct(c.Request().Context(), req); len(verrs) > 0 {
		h.writeFrame(conn, StreamFrame{Type: "error", Errors: verrs})
		return nil
	}
	_ = conn.SetReadDeadline(time.Time{})

	interval := time.Duration(req.IntervalSeconds) * time.Second
	if interval < h.stream.minInterval {
		interval = h.stream.minInterval
	}

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()
	go func() {
		// Drain client frames so close and ping control messages are processed.
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	log.Info("audit stream opened",
		xlogger.String("symbol", req.Symbol),
		xlogger.String("strategy", req.StrategyType),
		xlogger.Duration("interval", interval),
	)
	defer log.Info("audit stream closed", xlogger.String("symbol", req.Symbol))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		frame := StreamFrame{Type: "report"}
		report, err := h.auditor.Audit(ctx, req.AuditRequest)
		switch {
		case ctx.Err() != nil:
			return nil
		case err != nil:
			frame = StreamFrame{Type: "error", Errors: []*xhttp.AppError{toAppError(err)}}
		default:
			frame.Report = report
		}
		if !h.writeFrame(conn, frame) {
			return nil
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (h *AuditEchoHandler) writeFrame(conn *websocket.Conn, f StreamFrame) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(h.stream.writeTimeout))
	if err := conn.WriteJSON(f); err != nil {
		if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			h.logger.Debug("audit stream write failed", xlogger.Error(err))
		}
		return false
	}
	return true
}
