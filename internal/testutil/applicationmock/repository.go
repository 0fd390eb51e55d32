package applicationmock

import (
	"context"

	domain "studentloan-backend/internal/domain/application"
)

var (
	_ domain.HistoryRepository = (*HistoryRepo)(nil)
	_ domain.DetailRepository  = (*DetailRepo)(nil)
	_ domain.OrphanLedger      = (*OrphanLedger)(nil)
)

// HistoryRepo is a function-backed mock that satisfies domain.HistoryRepository.
// Writes default to success, reads to context.Canceled.
type HistoryRepo struct {
	CreateFn                func(ctx context.Context, a *domain.LoanApplication) error
	GetByIDFn               func(ctx context.Context, id uint64) (*domain.LoanApplication, error)
	GetByIDForUpdateFn      func(ctx context.Context, id uint64) (*domain.LoanApplication, error)
	ApplyStatusFn           func(ctx context.Context, id uint64, p domain.StatusPatch) error
	DeleteFn                func(ctx context.Context, id uint64) error
	ListWithDetailsByUserFn func(ctx context.Context, userID uint64) ([]domain.LoanApplication, error)
}

func (m *HistoryRepo) Create(ctx context.Context, a *domain.LoanApplication) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *HistoryRepo) GetByID(ctx context.Context, id uint64) (*domain.LoanApplication, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *HistoryRepo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.LoanApplication, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, context.Canceled
}

func (m *HistoryRepo) ApplyStatus(ctx context.Context, id uint64, p domain.StatusPatch) error {
	if m.ApplyStatusFn != nil {
		return m.ApplyStatusFn(ctx, id, p)
	}
	return nil
}

func (m *HistoryRepo) Delete(ctx context.Context, id uint64) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}
	return nil
}

func (m *HistoryRepo) ListWithDetailsByUser(ctx context.Context, userID uint64) ([]domain.LoanApplication, error) {
	if m.ListWithDetailsByUserFn != nil {
		return m.ListWithDetailsByUserFn(ctx, userID)
	}
	return nil, context.Canceled
}

type DetailRepo struct {
	CreateFn func(ctx context.Context, d *domain.LoanDetail) error
}

func (m *DetailRepo) Create(ctx context.Context, d *domain.LoanDetail) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, d)
	}
	return nil
}

type OrphanLedger struct {
	RecordFn func(ctx context.Context, applicationID uint64) error
	DrainFn  func(ctx context.Context, max int) ([]uint64, error)
}

func (m *OrphanLedger) Record(ctx context.Context, applicationID uint64) error {
	if m.RecordFn != nil {
		return m.RecordFn(ctx, applicationID)
	}
	return nil
}

func (m *OrphanLedger) Drain(ctx context.Context, max int) ([]uint64, error) {
	if m.DrainFn != nil {
		return m.DrainFn(ctx, max)
	}
	return []uint64{}, nil
}
