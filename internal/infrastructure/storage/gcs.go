package storage

import (
	"context"
	"fmt"
	"log/slog"

	"studentloan-backend/pkg/logging"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const publicHost = "https://storage.googleapis.com"

// GCSStore writes objects to one bucket and hands out their public URLs.
type GCSStore struct {
	Client     *gcs.Client
	BucketName string
}

func NewGCSStore(ctx context.Context, bucketName string, opts ...option.ClientOption) (*GCSStore, error) {
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GCSStore{Client: client, BucketName: bucketName}, nil
}

// Put uploads data under object, replacing any previous version.
func (s *GCSStore) Put(ctx context.Context, object, contentType string, data []byte) (string, error) {
	w := s.Client.Bucket(s.BucketName).Object(object).NewWriter(ctx)
	w.ContentType = contentType
	// single request upload; KYC files are small
	w.ChunkSize = 0

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		logging.CtxError(ctx, "gcs: write failed", err, slog.String("object", object))
		return "", fmt.Errorf("gcs write %s: %w", object, err)
	}
	if err := w.Close(); err != nil {
		logging.CtxError(ctx, "gcs: upload failed", err, slog.String("object", object))
		return "", fmt.Errorf("gcs upload %s: %w", object, err)
	}
	logging.CtxInfo(ctx, "gcs: uploaded", slog.String("object", object), slog.Int("bytes", len(data)))
	return s.PublicURL(object), nil
}

func (s *GCSStore) PublicURL(object string) string {
	return fmt.Sprintf("%s/%s/%s", publicHost, s.BucketName, object)
}

func (s *GCSStore) Close(ctx context.Context) {
	if s.Client == nil {
		return
	}
	if err := s.Client.Close(); err != nil {
		logging.CtxError(ctx, "gcs: close failed", err)
	}
}
