package datastore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no record matches the given id or query.
var ErrNotFound = errors.New("record not found")

// Filter is an equality condition on one column.
type Filter struct {
	Column string
	Value  any
}

// Query describes a filtered read. Preload names relations to load with the
// records (joined read); OrderBy is passed to the store as-is.
type Query struct {
	Where   []Filter
	Preload []string
	OrderBy string
	Limit   int
}

// Gateway is the typed record contract over the persistent store.
type Gateway[T any] interface {
	Insert(ctx context.Context, rec *T) error
	Get(ctx context.Context, id uint64) (*T, error)
	// GetForUpdate locks the row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id uint64) (*T, error)
	Find(ctx context.Context, q Query) ([]T, error)
	// Update writes only the given columns. It does not report missing rows;
	// lock the row first when that matters.
	Update(ctx context.Context, id uint64, fields map[string]any) error
	// Delete removes the record permanently, ErrNotFound if nothing matched.
	Delete(ctx context.Context, id uint64) error
}
