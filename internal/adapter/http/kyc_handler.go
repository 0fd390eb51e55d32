package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	domain "studentloan-backend/internal/domain/user"
	"studentloan-backend/internal/usecase/kyc"

	"github.com/labstack/echo/v4"
)

// maxDocumentBytes caps a single uploaded PDF.
const maxDocumentBytes = 10 << 20

type KYCHandler struct{ uc *kyc.Usecase }

func NewKYCHandler(uc *kyc.Usecase) *KYCHandler { return &KYCHandler{uc: uc} }

func readFormFile(c echo.Context, field string) ([]byte, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, err
	}
	if fh.Size > maxDocumentBytes {
		return nil, fmt.Errorf("%s is larger than %d bytes", field, maxDocumentBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(io.LimitReader(f, maxDocumentBytes))
}

// Submit takes a multipart form with the student metadata and the
// "ktm" and "studentActiveInfo" PDFs.
func (h *KYCHandler) Submit(c echo.Context) error {
	userID, ok := parseID(c.FormValue("id"))
	if !ok {
		return fail(c, http.StatusBadRequest, "user id (id) is required", nil)
	}
	if ok, err := authorize(c, userID); !ok {
		return err
	}

	files := make(map[kyc.Kind][]byte, len(kyc.RequiredKinds))
	for _, k := range kyc.RequiredKinds {
		data, err := readFormFile(c, string(k))
		if err != nil || len(data) == 0 {
			return fail(c, http.StatusBadRequest, kyc.ErrMissingDocument.Error(), err)
		}
		files[k] = data
	}

	doc, err := h.uc.Submit(c.Request().Context(), userID, kyc.SubmitInput{
		FullName:         c.FormValue("fullname"),
		NIM:              c.FormValue("nim"),
		University:       c.FormValue("university"),
		Faculty:          c.FormValue("faculty"),
		Major:            c.FormValue("major"),
		Semester:         c.FormValue("semester"),
		ExpectedGraduate: c.FormValue("expectedGraduate"),
		Files:            files,
	})
	switch {
	case err == nil:
	case errors.Is(err, kyc.ErrMissingDocument), errors.Is(err, kyc.ErrInvalidInput):
		return fail(c, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, domain.ErrNotFound):
		return fail(c, http.StatusBadRequest, "user not found", nil)
	default:
		return fail(c, http.StatusInternalServerError, "upload failed", err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"success":  true,
		"message":  "kyc uploaded successfully",
		"document": doc,
	})
}
