package mysql

import (
	"context"
	"errors"
	"time"

	"studentloan-backend/internal/domain/datastore"
	userDomain "studentloan-backend/internal/domain/user"

	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
	g  *Gateway[userDomain.User]
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db, g: NewGateway[userDomain.User](db)}
}

func userErr(err error) error {
	switch {
	case errors.Is(err, datastore.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return userDomain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return userDomain.ErrEmailExists
	}
	return err
}

func (r *UserRepository) Create(ctx context.Context, u *userDomain.User) error {
	return userErr(r.g.Insert(ctx, u))
}

func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*userDomain.User, error) {
	u, err := r.g.Get(ctx, id)
	return u, userErr(err)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	var out userDomain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&out).Error; err != nil {
		return nil, userErr(err)
	}
	return &out, nil
}

// UpdateDocument replaces the KYC bundle; only the document column and
// updated_at are written.
func (r *UserRepository) UpdateDocument(ctx context.Context, id uint64, doc *userDomain.Document) error {
	res := r.db.WithContext(ctx).
		Model(&userDomain.User{ID: id}).
		Select("document", "updated_at").
		Updates(&userDomain.User{Document: doc, UpdatedAt: time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return userDomain.ErrNotFound
	}
	return nil
}
