package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	domain "studentloan-backend/internal/domain/application"
	ucApp "studentloan-backend/internal/usecase/application"

	"github.com/labstack/echo/v4"
)

type ApplicationHandler struct{ uc *ucApp.Usecase }

func NewApplicationHandler(uc *ucApp.Usecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

type createApplicationReq struct {
	ID          uint64  `json:"id"          validate:"required"`
	TotalLoan   float64 `json:"totalLoan"`
	GracePeriod int     `json:"gracePeriod"`
	Tenor       int     `json:"tenor"`
	Purpose     string  `json:"purpose"`
	Description string  `json:"description"`
	SPP         float64 `json:"spp"`
	Tools       float64 `json:"tools"`
	House       float64 `json:"house"`
	Other       float64 `json:"other"`
	Margin      float64 `json:"margin"`
	Installment float64 `json:"installment"`
}

func (r createApplicationReq) input() ucApp.CreateInput {
	return ucApp.CreateInput{
		Purpose:     r.Purpose,
		Description: r.Description,
		Tenor:       r.Tenor,
		Margin:      r.Margin,
		Installment: r.Installment,
		TotalLoan:   r.TotalLoan,
		GracePeriod: r.GracePeriod,
		SPPCost:     r.SPP,
		Maintenance: domain.Maintenance{House: r.House, Tools: r.Tools, Other: r.Other},
	}
}

func (h *ApplicationHandler) Create(c echo.Context) error {
	var req createApplicationReq
	if ok, err := bindValid(c, &req, http.StatusUnprocessableEntity); !ok {
		return err
	}
	if ok, err := authorize(c, req.ID); !ok {
		return err
	}

	res, err := h.uc.Create(c.Request().Context(), req.ID, req.input())
	if err != nil {
		return createFailure(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"success":     true,
		"message":     "loan application submitted successfully",
		"application": res.Application,
		"detail":      res.Detail,
	})
}

// createFailure maps a failed create to its status code: a failed first
// write is the caller's 400, anything after it is ours.
func createFailure(c echo.Context, err error) error {
	if errors.Is(err, domain.ErrValidation) {
		return fail(c, http.StatusUnprocessableEntity, "validation failed", err)
	}
	var werr *domain.Error
	if !errors.As(err, &werr) {
		return fail(c, http.StatusInternalServerError, "server error", err)
	}

	f := failure{Stage: string(werr.Stage), Error: werr.Cause.Error()}
	code := http.StatusInternalServerError
	switch werr.Stage {
	case domain.StageHistoryInsert:
		code = http.StatusBadRequest
		f.Message = "loan application failed at step 1 (history)"
	case domain.StageHistoryIDMissing:
		f.Message = "history inserted but no id returned"
	case domain.StageDetailInsert:
		compensated := werr.Compensated
		f.Compensated = &compensated
		f.Message = "loan application failed at step 2 (detail), rolled back"
		if !compensated {
			f.Message = "loan application failed at step 2 (detail), rollback failed"
			if werr.CompensationErr != nil {
				f.CompError = werr.CompensationErr.Error()
			}
		}
	default:
		f.Message = "loan application failed"
	}
	return c.JSON(code, f)
}

func (h *ApplicationHandler) List(c echo.Context) error {
	ownerID, ok := parseID(c.QueryParam("id"))
	if !ok {
		return fail(c, http.StatusBadRequest, "user id is required", nil)
	}
	if ok, err := authorize(c, ownerID); !ok {
		return err
	}

	data, err := h.uc.List(c.Request().Context(), ownerID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "failed to fetch loan applications", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "loan applications fetched successfully",
		"total":   len(data),
		"data":    data,
	})
}

type updateStatusReq struct {
	ID      uint64 `json:"id"      validate:"required"`
	Status  string `json:"status"  validate:"required,loanstatus"`
	Started string `json:"started" validate:"omitempty,dateish"`
	Due     string `json:"due"     validate:"omitempty,dateish"`
}

func optionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := parseDate(s)
	if err != nil {
		return nil
	}
	return &t
}

func (h *ApplicationHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusReq
	if ok, err := bindValid(c, &req, http.StatusUnprocessableEntity); !ok {
		return err
	}

	app, err := h.uc.UpdateStatus(c.Request().Context(), ucApp.UpdateStatusInput{
		ID:        req.ID,
		Status:    domain.Status(req.Status),
		StartedAt: optionalDate(req.Started),
		DueAt:     optionalDate(req.Due),
	})
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrValidation):
		return fail(c, http.StatusUnprocessableEntity, "validation failed", err)
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, http.StatusNotFound, "loan application not found", nil)
	case errors.Is(err, domain.ErrInvalidTransition):
		return fail(c, http.StatusConflict, "invalid status transition", err)
	default:
		return fail(c, http.StatusInternalServerError, "update failed", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":     true,
		"message":     "loan application updated successfully",
		"application": app,
	})
}

// SweepOrphans retries the deletes of applications whose compensation failed.
// Admin only.
func (h *ApplicationHandler) SweepOrphans(c echo.Context) error {
	limit := 0
	if raw := c.QueryParam("max"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return fail(c, http.StatusBadRequest, "max must be a positive integer", nil)
		}
		limit = n
	}

	res, err := h.uc.SweepOrphans(c.Request().Context(), limit)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "orphan sweep failed", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"message": "orphan sweep finished",
		"deleted": res.Deleted,
		"missing": res.Missing,
		"failed":  res.Failed,
	})
}
