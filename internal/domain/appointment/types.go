package appointment

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is dd-mm-yyyy, the only date format the provider accepts.
const DateLayout = "02-01-2006"

// Date is a calendar day with no time-of-day component.
type Date struct{ t time.Time }

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a dd-mm-yyyy string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("want dd-mm-yyyy: %w", err)
	}
	return Date{t: t}, nil
}

// Tomorrow returns the day after now in now's location.
func Tomorrow(now time.Time) Date {
	y, m, d := now.AddDate(0, 0, 1).Date()
	return NewDate(y, m, d)
}

func (d Date) String() string { return d.t.Format(DateLayout) }
func (d Date) IsZero() bool   { return d.t.IsZero() }
func (d Date) Time() time.Time { return d.t }

// Mode is the search strategy a target belongs to.
type Mode string

const (
	ModeRegionCode Mode = "region_code"
	ModeDistrict   Mode = "district"
)

// SearchTarget is a single region code or district queried once per attempt.
type SearchTarget struct {
	Mode  Mode
	Value string
}

func (t SearchTarget) String() string { return fmt.Sprintf("%s=%s", t.Mode, t.Value) }

// SearchCriteria is built once at startup and never mutated afterwards.
type SearchCriteria struct {
	ByRegionCode bool
	RegionCodes  []string
	ByDistrict   bool
	Districts    []string

	// Facilities holds lower-cased, trimmed centre names in configured order.
	// Empty means any centre.
	Facilities []string

	Date         Date
	ResourceType string
	Dose         int
	MinAge       int
}

// Targets enumerates the enabled targets. Region codes always come first so
// that region-code search takes precedence within an attempt.
func (c SearchCriteria) Targets() []SearchTarget {
	var out []SearchTarget
	if c.ByRegionCode {
		for _, code := range c.RegionCodes {
			out = append(out, SearchTarget{Mode: ModeRegionCode, Value: code})
		}
	}
	if c.ByDistrict {
		for _, d := range c.Districts {
			out = append(out, SearchTarget{Mode: ModeDistrict, Value: d})
		}
	}
	return out
}

// AllowsFacility reports whether a centre name passes the facility filter.
func (c SearchCriteria) AllowsFacility(name string) bool {
	if len(c.Facilities) == 0 {
		return true
	}
	n := NormalizeFacility(name)
	for _, f := range c.Facilities {
		if f == n {
			return true
		}
	}
	return false
}

// NormalizeFacility lower-cases and trims a centre name.
func NormalizeFacility(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// AuthCriteria identifies the account and the people to book for.
type AuthCriteria struct {
	PhoneNumber string
	SubjectIDs  []string
}

// ThrottlePolicy is the raw pacing configuration.
type ThrottlePolicy struct {
	Enabled            bool
	FixedDelayMs       int
	ThresholdPerWindow int
	WindowMinutes      int
}
