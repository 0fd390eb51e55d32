// Package saga runs an ordered list of steps, each with an optional
// compensation. When step k fails, the compensations of steps 1..k-1 run in
// reverse order before Run returns. Compensation failures are logged and
// reported but never replace the error of the failing step.
package saga

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"studentloan-backend/pkg/logging"
)

const defaultCompensationTimeout = 10 * time.Second

// Step is one forward action and the action that undoes it.
type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// CompensationResult records the outcome of one compensation.
type CompensationResult struct {
	Step string
	Err  error
}

// Error is returned by Run when a step fails.
type Error struct {
	Step          string
	Index         int
	Err           error
	Compensations []CompensationResult
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "saga step %q failed: %v", e.Step, e.Err)
	if cerr := e.CompensationErr(); cerr != nil {
		fmt.Fprintf(&b, " (compensation failed: %v)", cerr)
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Compensated reports whether every compensation that ran succeeded.
func (e *Error) Compensated() bool { return e.CompensationErr() == nil }

// CompensationErr joins the errors of failed compensations, or nil.
func (e *Error) CompensationErr() error {
	var errs []error
	for _, c := range e.Compensations {
		if c.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", c.Step, c.Err))
		}
	}
	return errors.Join(errs...)
}

type Option func(*Saga)

// WithCompensationTimeout bounds each compensation call.
func WithCompensationTimeout(d time.Duration) Option {
	return func(s *Saga) {
		if d > 0 {
			s.compensationTimeout = d
		}
	}
}

// Saga is not safe for concurrent use; build one per request.
type Saga struct {
	name                string
	steps               []Step
	compensationTimeout time.Duration
}

func New(name string, opts ...Option) *Saga {
	s := &Saga{name: name, compensationTimeout: defaultCompensationTimeout}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Saga) AddStep(step Step) *Saga {
	s.steps = append(s.steps, step)
	return s
}

// Run executes the steps in order. A cancelled ctx counts as a failure of the
// step about to run; compensations still execute on a context detached from
// the cancellation.
func (s *Saga) Run(ctx context.Context) error {
	for i, step := range s.steps {
		err := ctx.Err()
		if err == nil {
			err = step.Action(ctx)
		}
		if err == nil {
			logging.CtxDebug(ctx, "saga step done",
				slog.String("saga", s.name), slog.String("step", step.Name))
			continue
		}

		logging.CtxWarn(ctx, "saga step failed",
			slog.String("saga", s.name), slog.String("step", step.Name), slog.Any("error", err))
		return &Error{
			Step:          step.Name,
			Index:         i,
			Err:           err,
			Compensations: s.compensate(ctx, i),
		}
	}
	return nil
}

func (s *Saga) compensate(ctx context.Context, failed int) []CompensationResult {
	var out []CompensationResult
	base := context.WithoutCancel(ctx)
	for j := failed - 1; j >= 0; j-- {
		step := s.steps[j]
		if step.Compensate == nil {
			continue
		}
		cctx, cancel := context.WithTimeout(base, s.compensationTimeout)
		err := step.Compensate(cctx)
		cancel()

		if err != nil {
			logging.CtxError(ctx, "saga compensation failed", err,
				slog.String("saga", s.name), slog.String("step", step.Name))
		} else {
			logging.CtxInfo(ctx, "saga compensation done",
				slog.String("saga", s.name), slog.String("step", step.Name))
		}
		out = append(out, CompensationResult{Step: step.Name, Err: err})
	}
	return out
}
