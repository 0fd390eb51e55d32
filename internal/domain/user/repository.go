package user

import "context"

type Repository interface {
	// Create fails with ErrEmailExists on a duplicate email.
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uint64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdateDocument(ctx context.Context, id uint64, doc *Document) error
}
