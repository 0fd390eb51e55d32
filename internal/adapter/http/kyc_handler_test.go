package http

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	stdhttp "net/http"
	"sort"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "studentloan-backend/internal/domain/user"
)

// kycForm builds a multipart body; files maps field name to content.
func kycForm(t *testing.T, userID uint64, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"fullname":         "Siti Rahma",
		"nim":              "1301190001",
		"university":       "Telkom University",
		"faculty":          "Informatics",
		"major":            "Computer Science",
		"semester":         "5",
		"expectedGraduate": "2027",
	}
	if userID != 0 {
		fields["id"] = strconv.FormatUint(userID, 10)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for name, content := range files {
		fw, err := w.CreateFormFile(name, name+".pdf")
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func bothFiles() map[string]string {
	return map[string]string{"ktm": "%PDF-ktm", "studentActiveInfo": "%PDF-active"}
}

func (f *fixture) postKYC(t *testing.T, userID uint64, files map[string]string, token string) (int, map[string]any) {
	t.Helper()
	body, ct := kycForm(t, userID, files)
	rec := f.do(t, stdhttp.MethodPost, "/users/add-kyc-student", body, token, map[string]string{echo.HeaderContentType: ct})
	return rec.Code, decode(t, rec)
}

func TestSubmitKYC_Success(t *testing.T) {
	f := newFixture(t, nil)
	f.users.GetByIDFn = func(_ context.Context, id uint64) (*domain.User, error) { return &domain.User{ID: id}, nil }
	uploads := map[string]string{}
	f.blobs.PutFn = func(_ context.Context, object, contentType string, data []byte) (string, error) {
		assert.Equal(t, "application/pdf", contentType)
		uploads[object] = string(data)
		return "https://storage.googleapis.com/docs/" + object, nil
	}
	var stored *domain.Document
	f.users.UpdateDocumentFn = func(_ context.Context, id uint64, doc *domain.Document) error {
		assert.Equal(t, studentID, id)
		stored = doc
		return nil
	}

	code, m := f.postKYC(t, studentID, bothFiles(), f.student(t))
	require.Equal(t, stdhttp.StatusOK, code, m)
	assert.Equal(t, true, m["success"])

	objects := make([]string, 0, len(uploads))
	for k := range uploads {
		objects = append(objects, k)
	}
	sort.Strings(objects)
	assert.Equal(t, []string{"kyc/5/ktm.pdf", "kyc/5/studentActiveInfo.pdf"}, objects)
	assert.Equal(t, "%PDF-ktm", uploads["kyc/5/ktm.pdf"])

	require.NotNil(t, stored)
	assert.Equal(t, "1301190001", stored.NIM)
	assert.Equal(t, "2027", stored.ExpectedGraduate)
	assert.Equal(t, "https://storage.googleapis.com/docs/kyc/5/studentActiveInfo.pdf", stored.StudentActiveInfoURL)
}

func TestSubmitKYC_Errors(t *testing.T) {
	f := newFixture(t, nil)
	f.users.GetByIDFn = func(_ context.Context, id uint64) (*domain.User, error) {
		if id == 404 {
			return nil, domain.ErrNotFound
		}
		return &domain.User{ID: id}, nil
	}

	code, _ := f.postKYC(t, 0, bothFiles(), f.student(t))
	assert.Equal(t, stdhttp.StatusBadRequest, code, "missing id")

	code, _ = f.postKYC(t, studentID, map[string]string{"ktm": "%PDF"}, f.student(t))
	assert.Equal(t, stdhttp.StatusBadRequest, code, "missing studentActiveInfo")

	code, _ = f.postKYC(t, studentID, map[string]string{"ktm": "%PDF", "studentActiveInfo": ""}, f.student(t))
	assert.Equal(t, stdhttp.StatusBadRequest, code, "empty file")

	code, _ = f.postKYC(t, 6, bothFiles(), f.student(t))
	assert.Equal(t, stdhttp.StatusForbidden, code, "other user")

	code, _ = f.postKYC(t, 404, bothFiles(), f.admin(t))
	assert.Equal(t, stdhttp.StatusBadRequest, code, "unknown user")

	f.blobs.PutFn = func(context.Context, string, string, []byte) (string, error) { return "", errors.New("bucket gone") }
	code, m := f.postKYC(t, studentID, bothFiles(), f.student(t))
	assert.Equal(t, stdhttp.StatusInternalServerError, code)
	assert.Equal(t, "upload failed", m["message"])
	assert.Contains(t, m["error"], "bucket gone")
}
