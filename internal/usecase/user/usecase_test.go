package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"studentloan-backend/internal/auth"
	domain "studentloan-backend/internal/domain/user"
	"studentloan-backend/internal/domain/uow"
	"studentloan-backend/internal/testutil/usermock"
	"studentloan-backend/internal/testutil/uowmock"
)

func newUsecase(users *usermock.Repo) (*Usecase, *auth.JWTManager) {
	jwt := auth.NewJWTManager("test-secret", time.Hour)
	return NewUsecase(users, uowmock.Passthrough(uow.Repos{Users: users}), jwt), jwt
}

func TestAuthenticate(t *testing.T) {
	hash, err := auth.HashPassword("correct-horse")
	if err != nil {
		t.Fatal(err)
	}
	stored := &domain.User{ID: 9, Email: "siti@example.com", PasswordHash: hash, Status: domain.StatusStudent}
	users := &usermock.Repo{
		GetByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			if email == stored.Email {
				return stored, nil
			}
			return nil, domain.ErrNotFound
		},
	}
	uc, jwt := newUsecase(users)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"ok", "siti@example.com", "correct-horse", nil},
		{"email is normalized", "  SITI@example.com ", "correct-horse", nil},
		{"wrong password", "siti@example.com", "nope", auth.ErrInvalidCredentials},
		{"unknown email", "who@example.com", "correct-horse", auth.ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := uc.Authenticate(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("want %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			claims, err := jwt.Validate(res.Token)
			if err != nil {
				t.Fatalf("token invalid: %v", err)
			}
			if claims.UserID != 9 || claims.Status != "STUDENT" || res.User != stored {
				t.Fatalf("unexpected result: %+v %+v", claims, res.User)
			}
		})
	}
}

func TestAuthenticate_StoreError(t *testing.T) {
	boom := errors.New("db down")
	uc, _ := newUsecase(&usermock.Repo{
		GetByEmailFn: func(context.Context, string) (*domain.User, error) { return nil, boom },
	})
	if _, err := uc.Authenticate(context.Background(), "a@b.c", "x"); !errors.Is(err, boom) {
		t.Fatalf("want store error, got %v", err)
	}
}

func TestRegister_DefaultsToStudent(t *testing.T) {
	var created *domain.User
	users := &usermock.Repo{
		CreateFn: func(_ context.Context, u *domain.User) error {
			u.ID = 21
			created = u
			return nil
		},
	}
	uc, jwt := newUsecase(users)

	res, err := uc.Register(context.Background(), RegisterInput{
		FullName: "Budi", Email: "Budi@Example.com", Phone: "0812", Password: "s3cret-pass",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if created == nil || created.Status != domain.StatusStudent || created.Email != "budi@example.com" {
		t.Fatalf("unexpected user: %+v", created)
	}
	if created.PasswordHash == "s3cret-pass" || auth.ComparePassword(created.PasswordHash, "s3cret-pass") != nil {
		t.Fatal("password not hashed")
	}
	claims, err := jwt.Validate(res.Token)
	if err != nil || claims.UserID != 21 {
		t.Fatalf("token: %+v %v", claims, err)
	}
}

func TestRegister_Errors(t *testing.T) {
	tests := []struct {
		name    string
		in      RegisterInput
		users   *usermock.Repo
		wantErr error
	}{
		{
			name: "duplicate email",
			in:   RegisterInput{Email: "a@b.c", Password: "p"},
			users: &usermock.Repo{
				GetByEmailFn: func(context.Context, string) (*domain.User, error) { return &domain.User{ID: 1}, nil },
				CreateFn: func(context.Context, *domain.User) error {
					panic("Create must not be called")
				},
			},
			wantErr: domain.ErrEmailExists,
		},
		{
			name:    "bad status",
			in:      RegisterInput{Email: "a@b.c", Password: "p", Status: "ROOT"},
			users:   &usermock.Repo{},
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing password",
			in:      RegisterInput{Email: "a@b.c"},
			users:   &usermock.Repo{},
			wantErr: ErrInvalidInput,
		},
		{
			name: "unique index race",
			in:   RegisterInput{Email: "a@b.c", Password: "p"},
			users: &usermock.Repo{
				CreateFn: func(context.Context, *domain.User) error { return domain.ErrEmailExists },
			},
			wantErr: domain.ErrEmailExists,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _ := newUsecase(tt.users)
			if _, err := uc.Register(context.Background(), tt.in); !errors.Is(err, tt.wantErr) {
				t.Fatalf("want %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestGet(t *testing.T) {
	uc, _ := newUsecase(&usermock.Repo{
		GetByIDFn: func(_ context.Context, id uint64) (*domain.User, error) {
			return &domain.User{ID: id}, nil
		},
	})
	u, err := uc.Get(context.Background(), 4)
	if err != nil || u.ID != 4 {
		t.Fatalf("Get: %+v %v", u, err)
	}
	if _, err := uc.Get(context.Background(), 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
}
