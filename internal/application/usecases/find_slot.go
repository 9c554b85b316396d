package usecases

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/example/slotfinder/internal/domain/appointment"
	"github.com/example/slotfinder/internal/infrastructure/config"
	"github.com/example/slotfinder/internal/internaltypes"
)

type Outcome string

const (
	OutcomeSkipped   Outcome = "skipped"
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeNotFound  Outcome = "not_found"
	OutcomeFailed    Outcome = "failed"
)

type Result struct {
	RunID    string
	Outcome  Outcome
	Attempts int
	Queries  int
	Err      error
}

// Reporter receives plain progress events. Implementations must not block.
type Reporter interface {
	Planned(p Plan)
	AttemptStarted(attempt, max int)
	Finished(r Result)
}

// Reporters fans events out to several reporters.
type Reporters []Reporter

func (rs Reporters) Planned(p Plan) {
	for _, r := range rs {
		r.Planned(p)
	}
}

func (rs Reporters) AttemptStarted(attempt, max int) {
	for _, r := range rs {
		r.AttemptStarted(attempt, max)
	}
}

func (rs Reporters) Finished(res Result) {
	for _, r := range rs {
		r.Finished(res)
	}
}

// FindSlot runs one search: gate, plan, authenticate, then poll every target
// once per attempt until a booking succeeds or the attempts run out.
type FindSlot struct {
	Config   config.Config
	Gate     appointment.Gate
	Auth     appointment.Authenticator
	Slots    appointment.SlotQuerier
	Reporter Reporter
	Logger   *log.Logger

	// Now and Sleep default to the wall clock.
	Now   func() time.Time
	Sleep func(ctx context.Context, d time.Duration) error
	// NewRunID defaults to a random UUID.
	NewRunID func() string
}

func (u FindSlot) Execute(ctx context.Context) (res Result, err error) {
	if u.Auth == nil || u.Slots == nil {
		return Result{}, fmt.Errorf("finder: authenticator and slot querier are required")
	}
	logger := u.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	rep := u.Reporter
	if rep == nil {
		rep = Reporters(nil)
	}

	run := appointment.NewRunState(u.runID())
	res.RunID = run.ID
	defer func() {
		if err != nil {
			res.Outcome = OutcomeFailed
			res.Err = err
		}
		rep.Finished(res)
	}()

	if u.Gate != nil && !u.Gate.ShouldRun(ctx) {
		logger.Printf("finder: run %s not allowed by version gate", run.ID)
		res.Outcome = OutcomeSkipped
		return res, nil
	}

	plan, err := BuildPlan(u.Config, u.now())
	if err != nil {
		return res, err
	}
	rep.Planned(plan)
	logger.Printf("finder: run %s date=%s targets=%d delay=%s max_attempts=%d",
		run.ID, plan.Criteria.Date, len(plan.Targets), plan.Delay, plan.MaxAttempts)

	sess, err := u.Auth.Authenticate(ctx, plan.Auth.PhoneNumber, plan.Auth.SubjectIDs)
	if err != nil {
		if errors.Is(err, internaltypes.ErrAuthentication) {
			return res, err
		}
		return res, fmt.Errorf("%w: %w", internaltypes.ErrAuthentication, err)
	}

	q := appointment.Query{Session: sess, Criteria: plan.Criteria, SubjectIDs: plan.Auth.SubjectIDs}
	for attempt := 1; attempt <= plan.MaxAttempts; attempt++ {
		if run.Succeeded() {
			break
		}
		run.SetAttempt(attempt)
		res.Attempts = attempt
		rep.AttemptStarted(attempt, plan.MaxAttempts)

		n, err := u.pass(ctx, run, plan.Targets, q)
		res.Queries += n
		if err != nil {
			return res, err
		}
		if run.Succeeded() || attempt == plan.MaxAttempts {
			break
		}
		if err := u.sleep(ctx, plan.Delay); err != nil {
			return res, err
		}
	}

	if run.Succeeded() {
		logger.Printf("finder: run %s booked on attempt %d", run.ID, res.Attempts)
		res.Outcome = OutcomeSucceeded
	} else {
		logger.Printf("finder: run %s found nothing after %d attempts", run.ID, res.Attempts)
		res.Outcome = OutcomeNotFound
	}
	return res, nil
}

// pass queries each target in order and stops as soon as the run succeeds.
// It returns the number of queries issued.
func (u FindSlot) pass(ctx context.Context, run *appointment.RunState, targets []appointment.SearchTarget, q appointment.Query) (int, error) {
	n := 0
	for _, t := range targets {
		var err error
		switch t.Mode {
		case appointment.ModeRegionCode:
			err = u.Slots.QueryByRegionCode(ctx, run, t.Value, q)
		case appointment.ModeDistrict:
			err = u.Slots.QueryByDistrict(ctx, run, t.Value, q)
		default:
			err = fmt.Errorf("unknown search mode %q", t.Mode)
		}
		n++
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return n, ctxErr
			}
			if errors.Is(err, internaltypes.ErrProviderQuery) {
				return n, fmt.Errorf("%s: %w", t, err)
			}
			return n, fmt.Errorf("%w: %s: %w", internaltypes.ErrProviderQuery, t, err)
		}
		if run.Succeeded() {
			return n, nil
		}
	}
	return n, nil
}

func (u FindSlot) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now()
}

func (u FindSlot) sleep(ctx context.Context, d time.Duration) error {
	if u.Sleep != nil {
		return u.Sleep(ctx, d)
	}
	return SleepContext(ctx, d)
}

func (u FindSlot) runID() string {
	if u.NewRunID != nil {
		return u.NewRunID()
	}
	return uuid.NewString()
}

// SleepContext waits for d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
