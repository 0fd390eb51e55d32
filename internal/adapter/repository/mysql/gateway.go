package mysql

import (
	"context"
	"errors"

	"studentloan-backend/internal/domain/datastore"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Gateway is the gorm implementation of datastore.Gateway.
type Gateway[T any] struct{ db *gorm.DB }

var _ datastore.Gateway[struct{}] = (*Gateway[struct{}])(nil)

func NewGateway[T any](db *gorm.DB) *Gateway[T] { return &Gateway[T]{db: db} }

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return datastore.ErrNotFound
	}
	return err
}

func (g *Gateway[T]) Insert(ctx context.Context, rec *T) error {
	return g.db.WithContext(ctx).Create(rec).Error
}

func (g *Gateway[T]) Get(ctx context.Context, id uint64) (*T, error) {
	var out T
	if err := g.db.WithContext(ctx).Where("id = ?", id).First(&out).Error; err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

func (g *Gateway[T]) GetForUpdate(ctx context.Context, id uint64) (*T, error) {
	var out T
	err := g.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

func (g *Gateway[T]) Find(ctx context.Context, q datastore.Query) ([]T, error) {
	tx := g.db.WithContext(ctx)
	for _, f := range q.Where {
		tx = tx.Where(clause.Eq{Column: clause.Column{Name: f.Column}, Value: f.Value})
	}
	for _, rel := range q.Preload {
		tx = tx.Preload(rel)
	}
	if q.OrderBy != "" {
		tx = tx.Order(q.OrderBy)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	out := make([]T, 0)
	if err := tx.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (g *Gateway[T]) Update(ctx context.Context, id uint64, fields map[string]any) error {
	return g.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(fields).Error
}

func (g *Gateway[T]) Delete(ctx context.Context, id uint64) error {
	res := g.db.WithContext(ctx).Unscoped().Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return datastore.ErrNotFound
	}
	return nil
}
