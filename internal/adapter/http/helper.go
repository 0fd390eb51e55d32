package http

import (
	"net/http"
	"strconv"
	"strings"

	"studentloan-backend/internal/adapter/middleware"

	"github.com/labstack/echo/v4"
)

// failure is the body of every non-2xx response.
type failure struct {
	Success     bool         `json:"success"`
	Message     string       `json:"message"`
	Error       string       `json:"error,omitempty"`
	Stage       string       `json:"stage,omitempty"`
	Compensated *bool        `json:"compensated,omitempty"`
	CompError   string       `json:"compensation_error,omitempty"`
	Details     []FieldError `json:"details,omitempty"`
}

func fail(c echo.Context, code int, msg string, err error) error {
	f := failure{Message: msg}
	if err != nil {
		f.Error = err.Error()
	}
	return c.JSON(code, f)
}

func invalid(c echo.Context, code int, err error) error {
	return c.JSON(code, failure{Message: "validation failed", Details: ToFieldErrors(err)})
}

// bindValid binds and validates req, writing the 400/422 response itself.
// ok is false when a response was written.
func bindValid(c echo.Context, req any, invalidCode int) (ok bool, err error) {
	if err := c.Bind(req); err != nil {
		return false, fail(c, http.StatusBadRequest, "invalid body", nil)
	}
	if err := c.Validate(req); err != nil {
		return false, invalid(c, invalidCode, err)
	}
	return true, nil
}

func parseID(raw string) (uint64, bool) {
	n, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	return n, err == nil && n > 0
}

// authorize writes 403 unless the caller may act for ownerID.
func authorize(c echo.Context, ownerID uint64) (bool, error) {
	ident, ok := middleware.IdentityFrom(c)
	if !ok {
		return false, fail(c, http.StatusUnauthorized, "missing bearer token", nil)
	}
	if !ident.CanActFor(ownerID) {
		return false, fail(c, http.StatusForbidden, "not allowed to act for this user", nil)
	}
	return true, nil
}
