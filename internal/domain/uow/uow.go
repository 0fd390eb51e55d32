package uow

import (
	"context"

	"studentloan-backend/internal/domain/application"
	"studentloan-backend/internal/domain/user"
)

// Repos are bound to the transaction of the surrounding unit of work.
type Repos struct {
	Applications application.HistoryRepository
	Details      application.DetailRepository
	Users        user.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the application row first, then pass it in
	WithinApplicationTx(ctx context.Context, applicationID uint64, fn func(r Repos, a *application.LoanApplication) error) error
}
