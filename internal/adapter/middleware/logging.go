package middleware

import (
	"log/slog"

	"studentloan-backend/pkg/logging"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// RequestContext copies the echo request id into the request context so
// every log line of the request carries it. Runs after echo's RequestID.
func RequestContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Response().Header().Get(echo.HeaderXRequestID)
			if rid != "" {
				req := c.Request()
				c.SetRequest(req.WithContext(logging.WithRequestID(req.Context(), rid)))
			}
			return next(c)
		}
	}
}

// RequestLogger writes one slog line per request.
func RequestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			ctx := c.Request().Context()
			switch {
			case v.Error != nil:
				logging.CtxError(ctx, "request", v.Error, attrs...)
			case v.Status >= 500:
				logging.CtxWarn(ctx, "request", attrs...)
			default:
				logging.CtxInfo(ctx, "request", attrs...)
			}
			return nil
		},
	})
}
