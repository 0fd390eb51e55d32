package blobmock

import "context"

// Store is a function-backed mock of a blob store. With no PutFn it
// succeeds and returns "mem://<object>".
type Store struct {
	PutFn func(ctx context.Context, object, contentType string, data []byte) (string, error)
}

func (m *Store) Put(ctx context.Context, object, contentType string, data []byte) (string, error) {
	if m.PutFn != nil {
		return m.PutFn(ctx, object, contentType, data)
	}
	return "mem://" + object, nil
}
