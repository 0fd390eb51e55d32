package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domain "studentloan-backend/internal/domain/application"
	"studentloan-backend/internal/domain/datastore"
	"studentloan-backend/internal/domain/uow"
	"studentloan-backend/pkg/logging"
	"studentloan-backend/pkg/saga"
)

const (
	defaultCompensationTimeout = 10 * time.Second
	defaultSweepBatch          = 100
	createSagaName             = "create_loan_application"
)

type Usecase struct {
	histories domain.HistoryRepository
	details   domain.DetailRepository
	uow       uow.UnitOfWork
	orphans   domain.OrphanLedger

	enforceTransitions  bool
	compensationTimeout time.Duration
}

type Option func(*Usecase)

func WithOrphanLedger(l domain.OrphanLedger) Option {
	return func(u *Usecase) { u.orphans = l }
}

// WithTransitionPolicy turns on the status transition check in UpdateStatus.
func WithTransitionPolicy(enforce bool) Option {
	return func(u *Usecase) { u.enforceTransitions = enforce }
}

func WithCompensationTimeout(d time.Duration) Option {
	return func(u *Usecase) {
		if d > 0 {
			u.compensationTimeout = d
		}
	}
}

func NewUsecase(histories domain.HistoryRepository, details domain.DetailRepository, tx uow.UnitOfWork, opts ...Option) *Usecase {
	u := &Usecase{
		histories:           histories,
		details:             details,
		uow:                 tx,
		compensationTimeout: defaultCompensationTimeout,
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

// Create writes the application and then its detail. When the detail insert
// fails the application is deleted again before Create returns.
func (u *Usecase) Create(ctx context.Context, ownerID uint64, in CreateInput) (*CreateResult, error) {
	if ownerID == 0 {
		return nil, fmt.Errorf("%w: owner id is required", domain.ErrValidation)
	}

	app := &domain.LoanApplication{
		UserID:      ownerID,
		Purpose:     in.Purpose,
		Description: in.Description,
		Tenor:       in.Tenor,
		Margin:      in.Margin,
		Installment: in.Installment,
		TotalLoan:   in.TotalLoan,
		GracePeriod: in.GracePeriod,
		Status:      domain.StatusPending,
	}
	var detail *domain.LoanDetail

	s := saga.New(createSagaName, saga.WithCompensationTimeout(u.compensationTimeout)).
		AddStep(saga.Step{
			Name: string(domain.StageHistoryInsert),
			Action: func(ctx context.Context) error {
				if err := u.histories.Create(ctx, app); err != nil {
					return err
				}
				if app.ID == 0 {
					return domain.ErrInternalInconsistency
				}
				return nil
			},
			Compensate: func(ctx context.Context) error {
				err := u.histories.Delete(ctx, app.ID)
				if errors.Is(err, datastore.ErrNotFound) {
					return nil
				}
				return err
			},
		}).
		AddStep(saga.Step{
			Name: string(domain.StageDetailInsert),
			Action: func(ctx context.Context) error {
				d := &domain.LoanDetail{
					LoanApplicationID: app.ID,
					SPPCost:           in.SPPCost,
					Maintenance:       in.Maintenance,
				}
				if err := u.details.Create(ctx, d); err != nil {
					return err
				}
				detail = d
				return nil
			},
		})

	if err := s.Run(ctx); err != nil {
		return nil, u.createError(ctx, app.ID, err)
	}

	logging.CtxInfo(ctx, "loan application created",
		slog.Uint64("application_id", app.ID), slog.Uint64("owner_id", ownerID))
	return &CreateResult{Application: app, Detail: detail}, nil
}

func (u *Usecase) createError(ctx context.Context, applicationID uint64, err error) error {
	var serr *saga.Error
	if !errors.As(err, &serr) {
		return &domain.Error{Stage: domain.StageHistoryInsert, Cause: err}
	}

	out := &domain.Error{Stage: domain.Stage(serr.Step), Cause: serr.Err}
	switch {
	case out.Stage == domain.StageHistoryInsert && errors.Is(serr.Err, domain.ErrInternalInconsistency):
		out.Stage = domain.StageHistoryIDMissing
	case out.Stage == domain.StageDetailInsert:
		out.Compensated = serr.Compensated()
		if !out.Compensated {
			out.CompensationErr = &domain.Error{Stage: domain.StageCompensationDelete, Cause: serr.CompensationErr()}
			u.recordOrphan(ctx, applicationID, out.CompensationErr)
		}
	}

	logging.CtxError(ctx, "loan application create failed", out.Cause,
		slog.String("stage", string(out.Stage)),
		slog.Uint64("application_id", applicationID),
		slog.Bool("compensated", out.Compensated))
	return out
}

func (u *Usecase) recordOrphan(ctx context.Context, applicationID uint64, cause error) {
	logging.CtxError(ctx, "orphaned loan application", cause, slog.Uint64("application_id", applicationID))
	if u.orphans == nil {
		return
	}
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.compensationTimeout)
	defer cancel()
	if err := u.orphans.Record(rctx, applicationID); err != nil {
		logging.CtxError(ctx, "orphan ledger record failed", err, slog.Uint64("application_id", applicationID))
	}
}

// UpdateStatus locks the application and writes the status plus whichever
// dates were given.
func (u *Usecase) UpdateStatus(ctx context.Context, in UpdateStatusInput) (*domain.LoanApplication, error) {
	if in.ID == 0 {
		return nil, fmt.Errorf("%w: application id is required", domain.ErrValidation)
	}
	if !in.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrValidation, in.Status)
	}

	var out *domain.LoanApplication
	err := u.uow.WithinApplicationTx(ctx, in.ID, func(r uow.Repos, a *domain.LoanApplication) error {
		if u.enforceTransitions && !domain.CanTransition(a.Status, in.Status) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, a.Status, in.Status)
		}
		patch := domain.StatusPatch{Status: in.Status, StartedAt: in.StartedAt, DueAt: in.DueAt}
		if err := r.Applications.ApplyStatus(ctx, a.ID, patch); err != nil {
			return fmt.Errorf("%w: %w", domain.ErrStore, err)
		}
		patch.Apply(a)
		out = a
		return nil
	})

	switch {
	case err == nil:
		logging.CtxInfo(ctx, "loan application status updated",
			slog.Uint64("application_id", in.ID), slog.String("status", string(in.Status)))
		return out, nil
	case errors.Is(err, datastore.ErrNotFound):
		return nil, domain.ErrNotFound
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrStore):
		return nil, err
	default:
		return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}
}

// List returns the owner's applications in insertion order. Applications
// without a detail are left out.
func (u *Usecase) List(ctx context.Context, ownerID uint64) ([]ApplicationWithDetail, error) {
	if ownerID == 0 {
		return nil, fmt.Errorf("%w: owner id is required", domain.ErrValidation)
	}
	apps, err := u.histories.ListWithDetailsByUser(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStore, err)
	}

	out := make([]ApplicationWithDetail, 0, len(apps))
	for _, a := range apps {
		if a.Detail == nil {
			logging.CtxWarn(ctx, "loan application without detail skipped", slog.Uint64("application_id", a.ID))
			continue
		}
		d := *a.Detail
		a.Detail = nil
		out = append(out, ApplicationWithDetail{Application: a, Detail: d})
	}
	return out, nil
}

// SweepOrphans retries the delete of up to max recorded orphans. Ids that
// still fail go back into the ledger.
func (u *Usecase) SweepOrphans(ctx context.Context, max int) (*SweepResult, error) {
	res := &SweepResult{Deleted: []uint64{}, Missing: []uint64{}, Failed: []uint64{}}
	if u.orphans == nil {
		return res, nil
	}
	if max <= 0 {
		max = defaultSweepBatch
	}

	ids, drainErr := u.orphans.Drain(ctx, max)
	if drainErr != nil && len(ids) == 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrStore, drainErr)
	}

	for _, id := range ids {
		err := u.histories.Delete(ctx, id)
		switch {
		case err == nil:
			res.Deleted = append(res.Deleted, id)
		case errors.Is(err, datastore.ErrNotFound):
			res.Missing = append(res.Missing, id)
		default:
			logging.CtxError(ctx, "orphan delete failed", err, slog.Uint64("application_id", id))
			res.Failed = append(res.Failed, id)
			if rerr := u.orphans.Record(context.WithoutCancel(ctx), id); rerr != nil {
				logging.CtxError(ctx, "orphan ledger record failed", rerr, slog.Uint64("application_id", id))
			}
		}
	}

	logging.CtxInfo(ctx, "orphan sweep done",
		slog.Int("deleted", len(res.Deleted)), slog.Int("missing", len(res.Missing)), slog.Int("failed", len(res.Failed)))
	if drainErr != nil {
		return res, fmt.Errorf("%w: %w", domain.ErrStore, drainErr)
	}
	return res, nil
}
