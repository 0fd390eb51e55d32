package uowmock

import (
	"context"
	"errors"
	"testing"

	"studentloan-backend/internal/domain/application"
	"studentloan-backend/internal/domain/uow"
	"studentloan-backend/internal/testutil/applicationmock"
	"studentloan-backend/internal/testutil/usermock"
)

func TestUoW_WithinTx_Happy(t *testing.T) {
	ctx := context.Background()

	apps := &applicationmock.HistoryRepo{}
	users := &usermock.Repo{}
	repos := uow.Repos{Applications: apps, Users: users}

	innerCalled := false
	m := &UoW{
		WithinTxFn: func(gotCtx context.Context, fn func(r uow.Repos) error) error {
			if gotCtx != ctx {
				t.Fatalf("WithinTx: ctx mismatch")
			}
			return fn(repos)
		},
	}

	err := m.WithinTx(ctx, func(r uow.Repos) error {
		innerCalled = true
		if r.Applications != apps || r.Users != users {
			t.Fatalf("WithinTx: repos not forwarded correctly")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithinTx: unexpected err: %v", err)
	}
	if !innerCalled {
		t.Fatalf("WithinTx: inner fn not called")
	}
}

func TestUoW_Default_Unimplemented(t *testing.T) {
	ctx := context.Background()
	m := &UoW{}
	if err := m.WithinTx(ctx, func(uow.Repos) error { return nil }); !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinTx default: want errUnimplemented, got %v", err)
	}
	err := m.WithinApplicationTx(ctx, 1, func(uow.Repos, *application.LoanApplication) error { return nil })
	if !errors.Is(err, errUnimplemented) {
		t.Fatalf("WithinApplicationTx default: want errUnimplemented, got %v", err)
	}
}

func TestUoW_WithinApplicationTx_PropagatesError(t *testing.T) {
	sentinel := errors.New("stop")
	m := New().WithWithinApplicationTx(func(context.Context, uint64, func(uow.Repos, *application.LoanApplication) error) error {
		return sentinel
	})
	err := m.WithinApplicationTx(context.Background(), 7, func(uow.Repos, *application.LoanApplication) error { return nil })
	if !errors.Is(err, sentinel) {
		t.Fatalf("want %v, got %v", sentinel, err)
	}
}

func TestPassthrough_LocksThenCalls(t *testing.T) {
	ctx := context.Background()
	locked := &application.LoanApplication{ID: 7, Status: application.StatusPending}
	apps := &applicationmock.HistoryRepo{
		GetByIDForUpdateFn: func(_ context.Context, id uint64) (*application.LoanApplication, error) {
			if id != 7 {
				t.Fatalf("locked id = %d", id)
			}
			return locked, nil
		},
	}
	m := Passthrough(uow.Repos{Applications: apps})

	var got *application.LoanApplication
	err := m.WithinApplicationTx(ctx, 7, func(r uow.Repos, a *application.LoanApplication) error {
		got = a
		return nil
	})
	if err != nil || got != locked {
		t.Fatalf("Passthrough: got %v, err %v", got, err)
	}

	// missing row: callback is not run
	apps.GetByIDForUpdateFn = nil
	err = m.WithinApplicationTx(ctx, 8, func(uow.Repos, *application.LoanApplication) error {
		t.Fatal("callback must not run")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want default lock error, got %v", err)
	}
}

func TestUoW_FluentSetters_And_Reset(t *testing.T) {
	m := New()
	if m.WithinTxFn != nil || m.WithinApplicationTxFn != nil {
		t.Fatalf("New should start with nil funcs")
	}

	m.WithWithinTx(func(context.Context, func(uow.Repos) error) error { return nil }).
		WithWithinApplicationTx(func(context.Context, uint64, func(uow.Repos, *application.LoanApplication) error) error { return nil })

	if m.WithinTxFn == nil || m.WithinApplicationTxFn == nil {
		t.Fatalf("fluent setters didn't assign funcs")
	}

	m.Reset()
	if m.WithinTxFn != nil || m.WithinApplicationTxFn != nil {
		t.Fatalf("Reset should clear function fields")
	}
}
