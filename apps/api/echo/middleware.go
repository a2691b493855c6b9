package echoapi

import (
	"net"
	"net/http"

	"github.com/labstack/echo/v4"
)

var errHttpForbidden = echo.NewHTTPError(http.StatusForbidden, "permission denied")

// loopbackOnlyMiddleware rejects requests that do not come from this machine.
func loopbackOnlyMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			host, _, err := net.SplitHostPort(ctx.Request().RemoteAddr)
			if err != nil {
				host = ctx.Request().RemoteAddr
			}
			if ip := net.ParseIP(host); ip != nil && ip.IsLoopback() {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
