package application

import "context"

type HistoryRepository interface {
	Create(ctx context.Context, a *LoanApplication) error
	GetByID(ctx context.Context, id uint64) (*LoanApplication, error)
	GetByIDForUpdate(ctx context.Context, id uint64) (*LoanApplication, error)
	// ApplyStatus writes only the fields present in the patch.
	ApplyStatus(ctx context.Context, id uint64, p StatusPatch) error
	// Delete is a hard delete; used to compensate a failed create.
	Delete(ctx context.Context, id uint64) error
	// ListWithDetailsByUser returns the user's applications with Detail
	// preloaded, in insertion order.
	ListWithDetailsByUser(ctx context.Context, userID uint64) ([]LoanApplication, error)
}

type DetailRepository interface {
	Create(ctx context.Context, d *LoanDetail) error
}

// OrphanLedger remembers application ids whose compensating delete failed.
type OrphanLedger interface {
	Record(ctx context.Context, applicationID uint64) error
	Drain(ctx context.Context, max int) ([]uint64, error)
}
