package application

import (
	"errors"
	"fmt"
)

var (
	ErrValidation            = errors.New("validation failed")
	ErrNotFound              = errors.New("loan application not found")
	ErrInvalidTransition     = errors.New("invalid status transition")
	ErrStore                 = errors.New("store error")
	ErrInternalInconsistency = errors.New("history inserted but no id returned")
)

// Stage tags the step of the create workflow that failed.
type Stage string

const (
	StageHistoryInsert      Stage = "HISTORY_INSERT"
	StageDetailInsert       Stage = "DETAIL_INSERT"
	StageCompensationDelete Stage = "COMPENSATION_DELETE"
	StageHistoryIDMissing   Stage = "HISTORY_ID_MISSING"
)

// Error is the failure of a create workflow. Compensated is only meaningful
// for StageDetailInsert: false means the history record may still exist.
type Error struct {
	Stage           Stage
	Cause           error
	Compensated     bool
	CompensationErr error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Stage, e.Cause)
	if e.Stage == StageDetailInsert {
		msg += fmt.Sprintf(" (compensated=%t)", e.Compensated)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Is makes every stage error except a missing id match ErrStore.
func (e *Error) Is(target error) bool {
	return target == ErrStore && e.Stage != StageHistoryIDMissing
}
