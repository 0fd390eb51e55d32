package middleware

import (
	"errors"
	"net/http"
	"strings"

	"studentloan-backend/internal/auth"

	"github.com/labstack/echo/v4"
)

const identityKey = "identity"

// Identity is the authenticated caller, taken from the bearer token.
type Identity struct {
	UserID uint64
	Email  string
	Status string
}

const statusAdmin = "ADMIN"

func (i Identity) IsAdmin() bool { return i.Status == statusAdmin }

// CanActFor reports whether the caller may act on ownerID's resources.
func (i Identity) CanActFor(ownerID uint64) bool { return i.IsAdmin() || i.UserID == ownerID }

type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

func unauthorized(c echo.Context, err error) error {
	return c.JSON(http.StatusUnauthorized, map[string]any{"success": false, "message": err.Error()})
}

// RequireAuth validates "Authorization: Bearer <token>" and stores the
// caller's Identity on the echo context.
func RequireAuth(v TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			h := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			if h == "" {
				return unauthorized(c, auth.ErrMissingToken)
			}
			scheme, tok, ok := strings.Cut(h, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tok) == "" {
				return unauthorized(c, auth.ErrInvalidToken)
			}

			claims, err := v.Validate(strings.TrimSpace(tok))
			if err != nil {
				if errors.Is(err, auth.ErrMissingToken) {
					return unauthorized(c, auth.ErrMissingToken)
				}
				return unauthorized(c, auth.ErrInvalidToken)
			}
			c.Set(identityKey, Identity{UserID: claims.UserID, Email: claims.Email, Status: claims.Status})
			return next(c)
		}
	}
}

func IdentityFrom(c echo.Context) (Identity, bool) {
	id, ok := c.Get(identityKey).(Identity)
	return id, ok
}

// RequireAdmin must run after RequireAuth.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return unauthorized(c, auth.ErrMissingToken)
			}
			if !id.IsAdmin() {
				return c.JSON(http.StatusForbidden, map[string]any{"success": false, "message": "admin only"})
			}
			return next(c)
		}
	}
}
