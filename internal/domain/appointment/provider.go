package appointment

//go:generate mockgen -source=provider.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"sync/atomic"
	"time"
)

// Session is an authenticated context reused for every query of a run.
type Session struct {
	Token     string
	Phone     string
	ExpiresAt time.Time
}

func (s Session) Valid(now time.Time) bool {
	return s.Token != "" && now.Before(s.ExpiresAt)
}

// Query carries everything a single slot lookup needs besides the target.
type Query struct {
	Session  Session
	Criteria SearchCriteria
	// SubjectIDs are the beneficiaries to book for; a slot must fit all of them.
	SubjectIDs []string
}

// RunState is the per-run stop signal. The querier marks it the moment a
// booking completes; the orchestrator reads it after every query.
type RunState struct {
	ID        string
	attempt   atomic.Int64
	succeeded atomic.Bool
}

func NewRunState(id string) *RunState { return &RunState{ID: id} }

func (r *RunState) MarkSucceeded()   { r.succeeded.Store(true) }
func (r *RunState) Succeeded() bool  { return r.succeeded.Load() }
func (r *RunState) Attempt() int     { return int(r.attempt.Load()) }
func (r *RunState) SetAttempt(n int) { r.attempt.Store(int64(n)) }

// Gate is the one-time pre-flight check. false means exit cleanly.
type Gate interface {
	ShouldRun(ctx context.Context) bool
}

// Authenticator establishes a session, possibly prompting for a one-time code.
type Authenticator interface {
	Authenticate(ctx context.Context, phone string, subjectIDs []string) (Session, error)
}

// SlotQuerier looks up slots for one target and books the first match.
// It returns nil on no-match and an error only for unrecoverable failures.
type SlotQuerier interface {
	QueryByRegionCode(ctx context.Context, run *RunState, code string, q Query) error
	QueryByDistrict(ctx context.Context, run *RunState, district string, q Query) error
}
