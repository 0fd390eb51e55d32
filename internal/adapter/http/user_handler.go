package http

import (
	"errors"
	"net/http"

	"studentloan-backend/internal/adapter/middleware"
	"studentloan-backend/internal/auth"
	domain "studentloan-backend/internal/domain/user"
	ucUser "studentloan-backend/internal/usecase/user"

	"github.com/labstack/echo/v4"
)

type UserHandler struct{ uc *ucUser.Usecase }

func NewUserHandler(uc *ucUser.Usecase) *UserHandler { return &UserHandler{uc: uc} }

type loginReq struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// userView is the public shape of a user in auth responses.
type userView struct {
	ID       uint64 `json:"id"`
	FullName string `json:"fullname"`
	Email    string `json:"email"`
	Status   string `json:"status"`
}

func viewOf(u *domain.User) userView {
	return userView{ID: u.ID, FullName: u.FullName, Email: u.Email, Status: string(u.Status)}
}

func (h *UserHandler) Login(c echo.Context) error {
	var req loginReq
	if ok, err := bindValid(c, &req, http.StatusBadRequest); !ok {
		return err
	}

	res, err := h.uc.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return fail(c, http.StatusBadRequest, "incorrect email or password", nil)
		}
		return fail(c, http.StatusInternalServerError, "server error", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "login success",
		"token":   res.Token,
		"user":    viewOf(res.User),
	})
}

type registerReq struct {
	FullName string `json:"fullname"`
	Email    string `json:"email"    validate:"required,email"`
	NoTelp   string `json:"noTelp"`
	Password string `json:"password" validate:"required,min=8"`
	Status   string `json:"status"   validate:"omitempty,oneof=STUDENT ADMIN"`
}

// Register creates an account on behalf of a signed-in caller. Only admins
// may create admins.
func (h *UserHandler) Register(c echo.Context) error {
	var req registerReq
	if ok, err := bindValid(c, &req, http.StatusUnprocessableEntity); !ok {
		return err
	}
	if domain.Status(req.Status) == domain.StatusAdmin {
		if ident, _ := middleware.IdentityFrom(c); !ident.IsAdmin() {
			return fail(c, http.StatusForbidden, "only admins may register admins", nil)
		}
	}

	res, err := h.uc.Register(c.Request().Context(), ucUser.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.NoTelp,
		Password: req.Password,
		Status:   domain.Status(req.Status),
	})
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrEmailExists), errors.Is(err, ucUser.ErrInvalidInput):
		return fail(c, http.StatusBadRequest, err.Error(), nil)
	default:
		return fail(c, http.StatusInternalServerError, "server error", err)
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"success": true,
		"message": "register success",
		"token":   res.Token,
		"user":    viewOf(res.User),
	})
}

func (h *UserHandler) Get(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return fail(c, http.StatusBadRequest, "user not found", nil)
	}
	if ok, err := authorize(c, id); !ok {
		return err
	}

	u, err := h.uc.Get(c.Request().Context(), id)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, http.StatusBadRequest, "user not found", nil)
	default:
		return fail(c, http.StatusInternalServerError, "server error", err)
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "user": u})
}
