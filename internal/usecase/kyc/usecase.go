package kyc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domain "studentloan-backend/internal/domain/user"
	"studentloan-backend/pkg/logging"
)

// Kind names one of the required KYC documents.
type Kind string

const (
	KindKTM               Kind = "ktm"
	KindStudentActiveInfo Kind = "studentActiveInfo"
)

// RequiredKinds lists the documents a submission must carry, in upload order.
var RequiredKinds = []Kind{KindKTM, KindStudentActiveInfo}

func (k Kind) Valid() bool { return k == KindKTM || k == KindStudentActiveInfo }

const pdfContentType = "application/pdf"

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnknownKind     = errors.New("unknown document kind")
	ErrMissingDocument = errors.New("both ktm and studentActiveInfo PDF are required")
	ErrUpload          = errors.New("document upload failed")
)

// BlobStore persists a document and returns its public URL.
type BlobStore interface {
	Put(ctx context.Context, object, contentType string, data []byte) (string, error)
}

type SubmitInput struct {
	FullName         string
	NIM              string
	University       string
	Faculty          string
	Major            string
	Semester         string
	ExpectedGraduate string
	Files            map[Kind][]byte
}

type Usecase struct {
	users domain.Repository
	blobs BlobStore
	now   func() time.Time
}

func NewUsecase(users domain.Repository, blobs BlobStore) *Usecase {
	return &Usecase{users: users, blobs: blobs, now: time.Now}
}

func ObjectName(userID uint64, kind Kind) string {
	return fmt.Sprintf("kyc/%d/%s.pdf", userID, kind)
}

// StoreDocument uploads one PDF, overwriting any earlier upload of the same kind.
func (u *Usecase) StoreDocument(ctx context.Context, userID uint64, kind Kind, data []byte) (string, error) {
	if userID == 0 {
		return "", fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if !kind.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s is empty", ErrMissingDocument, kind)
	}
	url, err := u.blobs.Put(ctx, ObjectName(userID, kind), pdfContentType, data)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", ErrUpload, kind, err)
	}
	return url, nil
}

// Submit uploads both documents and then stores the KYC bundle on the user.
func (u *Usecase) Submit(ctx context.Context, userID uint64, in SubmitInput) (*domain.Document, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	for _, k := range RequiredKinds {
		if len(in.Files[k]) == 0 {
			return nil, ErrMissingDocument
		}
	}
	if _, err := u.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	urls := make(map[Kind]string, len(RequiredKinds))
	for _, k := range RequiredKinds {
		url, err := u.StoreDocument(ctx, userID, k, in.Files[k])
		if err != nil {
			logging.CtxError(ctx, "kyc upload failed", err, slog.Uint64("user_id", userID), slog.String("kind", string(k)))
			return nil, err
		}
		urls[k] = url
	}

	doc := &domain.Document{
		FullName:             in.FullName,
		NIM:                  in.NIM,
		University:           in.University,
		Faculty:              in.Faculty,
		Major:                in.Major,
		Semester:             in.Semester,
		ExpectedGraduate:     in.ExpectedGraduate,
		KTMURL:               urls[KindKTM],
		StudentActiveInfoURL: urls[KindStudentActiveInfo],
		UpdatedAt:            u.now().UTC(),
	}
	if err := u.users.UpdateDocument(ctx, userID, doc); err != nil {
		return nil, err
	}
	logging.CtxInfo(ctx, "kyc submitted", slog.Uint64("user_id", userID))
	return doc, nil
}
