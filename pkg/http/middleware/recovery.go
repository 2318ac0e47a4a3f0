package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	applogger "RegimeAudit/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Recover turns a handler panic into a 503 without leaking the panic value.
func Recover(l *applogger.Logger) echo.MiddlewareFunc {
	if l == nil {
		l = applogger.Nop()
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}
				l.Error("panic recovered",
					applogger.String("request_id", GetRequestID(c)),
					applogger.String("route", routeOf(c)),
					applogger.String("panic", fmt.Sprint(r)),
					applogger.String("stack", string(debug.Stack())),
				)
				err = c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
					"status":  http.StatusServiceUnavailable,
					"message": "service unavailable",
				})
			}()
			return next(c)
		}
	}
}
