package http

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"studentloan-backend/pkg/logging"

	"github.com/labstack/echo/v4"
)

// Pinger checks one backing service.
type Pinger func(ctx context.Context) error

type Handler struct {
	checks map[string]Pinger
}

func NewHandler(checks map[string]Pinger) *Handler { return &Handler{checks: checks} }

const healthTimeout = 2 * time.Second

// Health reports "ok", or "degraded" with 503 when any dependency check fails.
func (h *Handler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for n := range h.checks {
		names = append(names, n)
	}
	sort.Strings(names)

	code, status := http.StatusOK, "ok"
	deps := make(map[string]string, len(names))
	for _, n := range names {
		if err := h.checks[n](ctx); err != nil {
			logging.CtxWarn(ctx, "health check failed", slog.String("dependency", n), slog.Any("error", err))
			deps[n] = "down"
			code, status = http.StatusServiceUnavailable, "degraded"
			continue
		}
		deps[n] = "up"
	}

	body := map[string]any{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339Nano),
	}
	if len(deps) > 0 {
		body["dependencies"] = deps
	}
	return c.JSON(code, body)
}
