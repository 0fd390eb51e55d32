package kyc

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "studentloan-backend/internal/domain/user"
	"studentloan-backend/internal/testutil/blobmock"
	"studentloan-backend/internal/testutil/usermock"
)

func files() map[Kind][]byte {
	return map[Kind][]byte{
		KindKTM:               []byte("%PDF-ktm"),
		KindStudentActiveInfo: []byte("%PDF-sai"),
	}
}

func existingUser() *usermock.Repo {
	return &usermock.Repo{
		GetByIDFn: func(_ context.Context, id uint64) (*domain.User, error) {
			return &domain.User{ID: id}, nil
		},
	}
}

func TestObjectName(t *testing.T) {
	if got := ObjectName(12, KindStudentActiveInfo); got != "kyc/12/studentActiveInfo.pdf" {
		t.Fatalf("ObjectName = %q", got)
	}
}

func TestStoreDocument(t *testing.T) {
	var gotObject, gotType string
	blobs := &blobmock.Store{PutFn: func(_ context.Context, object, ct string, _ []byte) (string, error) {
		gotObject, gotType = object, ct
		return "https://storage.googleapis.com/b/" + object, nil
	}}
	uc := NewUsecase(&usermock.Repo{}, blobs)

	url, err := uc.StoreDocument(context.Background(), 3, KindKTM, []byte("pdf"))
	if err != nil {
		t.Fatalf("StoreDocument: %v", err)
	}
	if gotObject != "kyc/3/ktm.pdf" || gotType != "application/pdf" {
		t.Fatalf("object=%q type=%q", gotObject, gotType)
	}
	if url != "https://storage.googleapis.com/b/kyc/3/ktm.pdf" {
		t.Fatalf("url = %q", url)
	}

	if _, err := uc.StoreDocument(context.Background(), 3, "passport", []byte("pdf")); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("want ErrUnknownKind, got %v", err)
	}
	if _, err := uc.StoreDocument(context.Background(), 0, KindKTM, []byte("pdf")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}

func TestSubmit_Success(t *testing.T) {
	var saved *domain.Document
	users := existingUser()
	users.UpdateDocumentFn = func(_ context.Context, id uint64, doc *domain.Document) error {
		if id != 5 {
			t.Fatalf("id = %d", id)
		}
		saved = doc
		return nil
	}
	uc := NewUsecase(users, &blobmock.Store{})
	fixed := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return fixed }

	doc, err := uc.Submit(context.Background(), 5, SubmitInput{
		FullName: "Siti", NIM: "1301", University: "Telkom", Files: files(),
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if saved != doc {
		t.Fatal("returned document differs from stored one")
	}
	if doc.KTMURL != "mem://kyc/5/ktm.pdf" || doc.StudentActiveInfoURL != "mem://kyc/5/studentActiveInfo.pdf" {
		t.Fatalf("urls: %+v", doc)
	}
	if doc.NIM != "1301" || !doc.UpdatedAt.Equal(fixed) {
		t.Fatalf("metadata: %+v", doc)
	}
}

func TestSubmit_Errors(t *testing.T) {
	uploadErr := errors.New("bucket unavailable")

	tests := []struct {
		name    string
		userID  uint64
		files   map[Kind][]byte
		users   *usermock.Repo
		blobs   *blobmock.Store
		wantErr error
	}{
		{"missing id", 0, files(), existingUser(), &blobmock.Store{}, ErrInvalidInput},
		{"missing file", 5, map[Kind][]byte{KindKTM: []byte("x")}, existingUser(), &blobmock.Store{}, ErrMissingDocument},
		{"unknown user", 5, files(), &usermock.Repo{}, &blobmock.Store{}, domain.ErrNotFound},
		{
			"upload fails", 5, files(), existingUser(),
			&blobmock.Store{PutFn: func(context.Context, string, string, []byte) (string, error) { return "", uploadErr }},
			ErrUpload,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.users.UpdateDocumentFn = func(context.Context, uint64, *domain.Document) error {
				t.Fatal("document must not be stored on failure")
				return nil
			}
			_, err := NewUsecase(tt.users, tt.blobs).Submit(context.Background(), tt.userID, SubmitInput{Files: tt.files})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
		})
	}
}
