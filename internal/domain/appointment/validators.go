package appointment

import (
	"regexp"
	"strings"
)

var (
	regionCodeRe = regexp.MustCompile(`^[0-9]{6}$`)
	districtRe   = regexp.MustCompile(`^\p{L}[\p{L} .,'()&-]*$`)
	phoneRe      = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	subjectIDRe  = regexp.MustCompile(`^[0-9]{14}$`)
)

// ValidRegionCode accepts exactly six ASCII digits.
func ValidRegionCode(s string) bool { return regionCodeRe.MatchString(s) }

// ValidDistrict is a syntactic check only; the provider resolves the name.
func ValidDistrict(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && districtRe.MatchString(s)
}

// ValidPhoneNumber accepts a ten digit mobile number starting with 6-9.
func ValidPhoneNumber(s string) bool { return phoneRe.MatchString(s) }

// ValidSubjectID accepts a fourteen digit beneficiary reference id.
func ValidSubjectID(s string) bool { return subjectIDRe.MatchString(s) }

// TargetSearch is one search mode as configured: whether it is on and the
// values it would search.
type TargetSearch struct {
	Enabled bool
	Targets []string
}

// Valid holds when the mode is off, or on with a non-empty list of values
// that all satisfy item.
func (s TargetSearch) Valid(item func(string) bool) bool {
	if !s.Enabled {
		return true
	}
	if len(s.Targets) == 0 {
		return false
	}
	return len(InvalidValues(s.Targets, item)) == 0
}

func ValidRegionSearch(s TargetSearch) bool   { return s.Valid(ValidRegionCode) }
func ValidDistrictSearch(s TargetSearch) bool { return s.Valid(ValidDistrict) }

// InvalidValues returns every value rejected by valid, in input order.
func InvalidValues(values []string, valid func(string) bool) []string {
	var bad []string
	for _, v := range values {
		if !valid(v) {
			bad = append(bad, v)
		}
	}
	return bad
}
