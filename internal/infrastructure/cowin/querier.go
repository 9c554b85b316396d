package cowin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/example/slotfinder/internal/domain/appointment"
	"github.com/example/slotfinder/internal/internaltypes"
)

// Candidate is a bookable session at a centre.
type Candidate struct {
	Center  Center
	Session Session
}

// Candidates keeps the sessions that match the criteria and can seat every
// subject, in response order.
func Candidates(centers []Center, c appointment.SearchCriteria, seats int) []Candidate {
	var out []Candidate
	for _, center := range centers {
		if !c.AllowsFacility(center.Name) {
			continue
		}
		for _, s := range center.Sessions {
			if c.ResourceType != "" && !strings.EqualFold(strings.TrimSpace(s.Vaccine), c.ResourceType) {
				continue
			}
			if c.MinAge > 0 && s.MinAgeLimit != c.MinAge {
				continue
			}
			if s.Capacity(c.Dose) < seats || len(s.Slots) == 0 {
				continue
			}
			out = append(out, Candidate{Center: center, Session: s})
		}
	}
	return out
}

// Querier implements appointment.SlotQuerier against the CoWIN API.
type Querier struct {
	Client *Client
	Logger *log.Logger
}

func (q *Querier) QueryByRegionCode(ctx context.Context, run *appointment.RunState, code string, query appointment.Query) error {
	centers, err := q.Client.CalendarByPin(ctx, query.Session.Token, code, query.Criteria.Date)
	return q.handle(ctx, run, "region code "+code, centers, err, query)
}

func (q *Querier) QueryByDistrict(ctx context.Context, run *appointment.RunState, district string, query appointment.Query) error {
	id, err := q.Client.ResolveDistrict(ctx, district)
	if err != nil {
		return q.fail("district "+district, err)
	}
	centers, err := q.Client.CalendarByDistrict(ctx, query.Session.Token, id, query.Criteria.Date)
	return q.handle(ctx, run, "district "+district, centers, err, query)
}

func (q *Querier) handle(ctx context.Context, run *appointment.RunState, target string, centers []Center, err error, query appointment.Query) error {
	logger := q.logger()
	if err != nil {
		return q.fail(target, err)
	}
	candidates := Candidates(centers, query.Criteria, len(query.SubjectIDs))
	logger.Printf("cowin: %s: %d centres, %d candidate sessions", target, len(centers), len(candidates))

	for _, cand := range candidates {
		req := ScheduleRequest{
			CenterID:      cand.Center.ID,
			SessionID:     cand.Session.ID,
			Beneficiaries: query.SubjectIDs,
			Slot:          cand.Session.Slots[0],
			Dose:          query.Criteria.Dose,
		}
		confirmation, err := q.Client.Schedule(ctx, query.Session.Token, req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, internaltypes.ErrUnauthorized) {
				return q.fail(target, err)
			}
			// slot taken, capacity gone, or a transient failure: try the next one
			logger.Printf("cowin: book %s on %s at %q failed: %v", cand.Session.ID, cand.Session.Date, cand.Center.Name, err)
			continue
		}
		logger.Printf("cowin: booked %q on %s slot %s, confirmation %s",
			cand.Center.Name, cand.Session.Date, req.Slot, confirmation)
		run.MarkSucceeded()
		return nil
	}
	return nil
}

// fail absorbs transient errors as a no-match and escalates the rest.
func (q *Querier) fail(target string, err error) error {
	if errors.Is(err, ErrTransient) {
		q.logger().Printf("cowin: %s: giving up this attempt: %v", target, err)
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %s: %w", internaltypes.ErrProviderQuery, target, err)
}

func (q *Querier) logger() *log.Logger {
	if q.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return q.Logger
}
