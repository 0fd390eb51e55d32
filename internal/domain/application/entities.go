package application

import (
	"time"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusActive   Status = "ACTIVE"
	StatusClosed   Status = "CLOSED"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusActive, StatusClosed:
		return true
	}
	return false
}

var transitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected},
	StatusApproved: {StatusActive},
	StatusActive:   {StatusClosed},
}

// CanTransition reports whether from -> to is allowed. Re-applying the
// current status is always allowed.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// LoanApplication is the "history" record of one loan request.
type LoanApplication struct {
	ID          uint64      `gorm:"primaryKey;column:id" json:"id"`
	UserID      uint64      `gorm:"column:user_id;not null;index:idx_loan_applications_user" json:"user_id"`
	Purpose     string      `gorm:"column:purpose;size:255" json:"purpose"`
	Description string      `gorm:"column:description;type:text" json:"description"`
	Tenor       int         `gorm:"column:tenor" json:"tenor"`
	Margin      float64     `gorm:"column:margin;type:decimal(10,4)" json:"margin"`
	Installment float64     `gorm:"column:installment;type:decimal(18,2)" json:"installment"`
	TotalLoan   float64     `gorm:"column:total_loan;type:decimal(18,2)" json:"total_loan"`
	GracePeriod int         `gorm:"column:grace_period" json:"grace_period"`
	Status      Status      `gorm:"column:status;size:16;not null;default:PENDING" json:"status"`
	StartedAt   *time.Time  `gorm:"column:started_at" json:"started_at,omitempty"`
	DueAt       *time.Time  `gorm:"column:due_at" json:"due_at,omitempty"`
	CreatedAt   time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	Detail      *LoanDetail `gorm:"foreignKey:LoanApplicationID;constraint:OnDelete:CASCADE" json:"-"`
}

func (LoanApplication) TableName() string { return "loan_applications" }

// Maintenance is the per-category breakdown of monthly living costs.
type Maintenance struct {
	House float64 `json:"house"`
	Tools float64 `json:"tools"`
	Other float64 `json:"other"`
}

// LoanDetail is the financial breakdown of exactly one LoanApplication.
type LoanDetail struct {
	ID                uint64      `gorm:"primaryKey;column:id" json:"id"`
	LoanApplicationID uint64      `gorm:"column:loan_application_id;not null;uniqueIndex:ux_loan_details_application" json:"loan_application_id"`
	SPPCost           float64     `gorm:"column:spp_cost;type:decimal(18,2)" json:"spp_cost"`
	Maintenance       Maintenance `gorm:"column:maintenance_details;type:text;serializer:json" json:"maintenance_details"`
	CreatedAt         time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (LoanDetail) TableName() string { return "loan_details" }

// StatusPatch carries the fields of a status update. Nil dates are left
// untouched.
type StatusPatch struct {
	Status    Status
	StartedAt *time.Time
	DueAt     *time.Time
}

// Fields returns the column map for the update, dates only when present.
func (p StatusPatch) Fields() map[string]any {
	f := map[string]any{"status": p.Status}
	if p.StartedAt != nil {
		f["started_at"] = p.StartedAt.UTC()
	}
	if p.DueAt != nil {
		f["due_at"] = p.DueAt.UTC()
	}
	return f
}

// Apply mirrors Fields onto an in-memory record.
func (p StatusPatch) Apply(a *LoanApplication) {
	a.Status = p.Status
	if p.StartedAt != nil {
		t := p.StartedAt.UTC()
		a.StartedAt = &t
	}
	if p.DueAt != nil {
		t := p.DueAt.UTC()
		a.DueAt = &t
	}
}
