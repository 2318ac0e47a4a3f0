package server

import (
	"context"
	"fmt"
	"time"

	xhttp "RegimeAudit/pkg/http"
	applogger "RegimeAudit/pkg/logger"
)

// App owns the HTTP server lifecycle. Infrastructure is closed by the
// cleanup returned from the DI injector.
type App struct {
	l          *applogger.Logger
	httpServer *xhttp.Server
	shipping   bool
}

func New(l *applogger.Logger, srv *xhttp.Server, logShipping bool) *App {
	return &App{l: l, httpServer: srv, shipping: logShipping}
}

// Run starts the server and blocks until ctx is cancelled, then shuts down
// within the configured grace period.
func (a *App) Run(ctx context.Context) error {
	if err := a.httpServer.Start(); err != nil {
		return fmt.Errorf("http server start: %w", err)
	}
	a.l.Info("regime audit service started", applogger.Bool("log_shipping", a.shipping))

	<-ctx.Done()
	a.l.Info("shutdown signal received")

	grace := a.httpServer.ShutdownTimeout()
	if grace <= 0 {
		grace = 10 * time.Second
	}
	sctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := a.httpServer.Stop(sctx); err != nil {
		a.l.Error("http shutdown error", applogger.Error(err))
		return err
	}
	a.l.Info("shutdown complete")
	return nil
}
