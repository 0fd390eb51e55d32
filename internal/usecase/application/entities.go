package application

import (
	"time"

	domain "studentloan-backend/internal/domain/application"
)

// CreateInput holds the loan terms. Numbers are stored as given.
type CreateInput struct {
	Purpose     string
	Description string
	Tenor       int
	Margin      float64
	Installment float64
	TotalLoan   float64
	GracePeriod int
	SPPCost     float64
	Maintenance domain.Maintenance
}

type CreateResult struct {
	Application *domain.LoanApplication `json:"application"`
	Detail      *domain.LoanDetail      `json:"detail"`
}

type UpdateStatusInput struct {
	ID        uint64
	Status    domain.Status
	StartedAt *time.Time
	DueAt     *time.Time
}

type ApplicationWithDetail struct {
	Application domain.LoanApplication `json:"application"`
	Detail      domain.LoanDetail      `json:"detail"`
}

// SweepResult reports one pass over the orphan ledger.
type SweepResult struct {
	Deleted []uint64 `json:"deleted"`
	Missing []uint64 `json:"missing"`
	Failed  []uint64 `json:"failed"`
}
