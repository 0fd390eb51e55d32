package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"studentloan-backend/internal/auth"
	domain "studentloan-backend/internal/domain/user"
	"studentloan-backend/internal/domain/uow"
	"studentloan-backend/pkg/logging"
)

var ErrInvalidInput = errors.New("invalid input")

// TokenIssuer signs session tokens for an identity.
type TokenIssuer interface {
	Generate(userID uint64, email, status string) (string, error)
}

type Usecase struct {
	users  domain.Repository
	uow    uow.UnitOfWork
	tokens TokenIssuer
}

func NewUsecase(users domain.Repository, tx uow.UnitOfWork, tokens TokenIssuer) *Usecase {
	return &Usecase{users: users, uow: tx, tokens: tokens}
}

func normalizeEmail(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// Authenticate checks the password and returns a fresh token. Unknown email
// and wrong password both yield auth.ErrInvalidCredentials.
func (u *Usecase) Authenticate(ctx context.Context, email, password string) (*AuthResult, error) {
	usr, err := u.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, auth.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := auth.ComparePassword(usr.PasswordHash, password); err != nil {
		logging.CtxInfo(ctx, "login rejected", slog.Uint64("user_id", usr.ID))
		return nil, err
	}

	tok, err := u.IssueToken(usr)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: tok, User: usr}, nil
}

func (u *Usecase) IssueToken(usr *domain.User) (string, error) {
	return u.tokens.Generate(usr.ID, usr.Email, string(usr.Status))
}

func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrInvalidInput)
	}
	status := in.Status
	if status == "" {
		status = domain.StatusStudent
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, in.Status)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	usr := &domain.User{
		Email:        email,
		FullName:     strings.TrimSpace(in.FullName),
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hash,
		Status:       status,
	}

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		_, err := r.Users.GetByEmail(ctx, email)
		switch {
		case err == nil:
			return domain.ErrEmailExists
		case !errors.Is(err, domain.ErrNotFound):
			return err
		}
		return r.Users.Create(ctx, usr)
	})
	if err != nil {
		return nil, err
	}

	tok, err := u.IssueToken(usr)
	if err != nil {
		return nil, err
	}
	logging.CtxInfo(ctx, "user registered", slog.Uint64("user_id", usr.ID), slog.String("status", string(usr.Status)))
	return &AuthResult{Token: tok, User: usr}, nil
}

func (u *Usecase) Get(ctx context.Context, id uint64) (*domain.User, error) {
	if id == 0 {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	return u.users.GetByID(ctx, id)
}
