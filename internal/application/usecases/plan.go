package usecases

import (
	"strings"
	"time"

	"github.com/example/slotfinder/internal/domain/appointment"
	"github.com/example/slotfinder/internal/infrastructure/config"
	"github.com/example/slotfinder/internal/internaltypes"
)

// Plan is the validated, immutable input of one run.
type Plan struct {
	Criteria    appointment.SearchCriteria
	Auth        appointment.AuthCriteria
	Targets     []appointment.SearchTarget
	Delay       time.Duration
	MaxAttempts int
}

// BuildPlan turns configuration into a run plan. It performs no I/O and fails
// on the first stage that is invalid: search criteria, then auth criteria.
func BuildPlan(cfg config.Config, now time.Time) (Plan, error) {
	criteria, err := BuildSearchCriteria(cfg.Search, now)
	if err != nil {
		return Plan{}, err
	}
	if err := ValidateSearchCriteria(criteria); err != nil {
		return Plan{}, err
	}
	auth, err := BuildAuthCriteria(cfg.Auth)
	if err != nil {
		return Plan{}, err
	}
	targets := criteria.Targets()
	policy := appointment.ThrottlePolicy{
		Enabled:            cfg.Throttle.Enabled,
		FixedDelayMs:       cfg.Throttle.FixedDelayMs,
		ThresholdPerWindow: cfg.Throttle.ThresholdPerWindow,
		WindowMinutes:      cfg.Throttle.WindowMinutes,
	}
	return Plan{
		Criteria:    criteria,
		Auth:        auth,
		Targets:     targets,
		Delay:       appointment.ComputeDelay(policy, len(targets)),
		MaxAttempts: cfg.Run.MaxAttempts,
	}, nil
}

// BuildSearchCriteria normalizes raw search settings. The date defaults to
// the day after now.
func BuildSearchCriteria(s config.Search, now time.Time) (appointment.SearchCriteria, error) {
	c := appointment.SearchCriteria{
		ByRegionCode: s.ByRegionCode,
		RegionCodes:  trimAll(s.RegionCodes),
		ByDistrict:   s.ByDistrict,
		Districts:    trimAll(s.Districts),
		ResourceType: strings.TrimSpace(s.ResourceType),
		Dose:         s.Dose,
		MinAge:       s.MinAge,
	}
	if s.FilterFacilities {
		var blank []string
		for _, name := range s.FacilityNames {
			n := appointment.NormalizeFacility(name)
			if n == "" {
				blank = append(blank, name)
				continue
			}
			c.Facilities = append(c.Facilities, n)
		}
		if len(blank) > 0 {
			return c, internaltypes.NewFieldError(internaltypes.ErrInvalidSearchCriteria,
				"search.facility_names", "facility names must not be blank", blank...)
		}
		if len(c.Facilities) == 0 {
			return c, internaltypes.NewFieldError(internaltypes.ErrInvalidSearchCriteria,
				"search.facility_names", "filter_facilities is true but no facility names are configured")
		}
	}
	if strings.TrimSpace(s.Date) == "" {
		c.Date = appointment.Tomorrow(now)
	} else {
		d, err := appointment.ParseDate(s.Date)
		if err != nil {
			return c, internaltypes.NewFieldError(internaltypes.ErrInvalidSearchCriteria,
				"search.date", err.Error(), s.Date)
		}
		c.Date = d
	}
	return c, nil
}

// ValidateSearchCriteria reports the first invalid search mode, naming every
// offending value in it.
func ValidateSearchCriteria(c appointment.SearchCriteria) error {
	region := appointment.TargetSearch{Enabled: c.ByRegionCode, Targets: c.RegionCodes}
	if !appointment.ValidRegionSearch(region) {
		return searchModeError("search.region_codes", "by_region_code", "6 digit region codes", region, appointment.ValidRegionCode)
	}
	district := appointment.TargetSearch{Enabled: c.ByDistrict, Targets: c.Districts}
	if !appointment.ValidDistrictSearch(district) {
		return searchModeError("search.districts", "by_district", "district names made of letters, spaces and punctuation", district, appointment.ValidDistrict)
	}
	if len(c.Targets()) == 0 {
		return internaltypes.NewFieldError(internaltypes.ErrInvalidSearchCriteria,
			"search", "enable by_region_code or by_district and configure at least one target")
	}
	return nil
}

func searchModeError(field, flag, want string, s appointment.TargetSearch, valid func(string) bool) error {
	if len(s.Targets) == 0 {
		return internaltypes.NewFieldError(internaltypes.ErrInvalidSearchCriteria, field,
			flag+" is true but no values are configured")
	}
	bad := appointment.InvalidValues(s.Targets, valid)
	return internaltypes.NewFieldError(internaltypes.ErrInvalidSearchCriteria, field, "want "+want, bad...)
}

// BuildAuthCriteria validates the phone number and every subject id,
// reporting all invalid ids at once.
func BuildAuthCriteria(a config.Auth) (appointment.AuthCriteria, error) {
	auth := appointment.AuthCriteria{
		PhoneNumber: strings.TrimSpace(a.PhoneNumber),
		SubjectIDs:  trimAll(a.SubjectIDs),
	}
	if !appointment.ValidPhoneNumber(auth.PhoneNumber) {
		return auth, internaltypes.NewFieldError(internaltypes.ErrInvalidAuthCriteria,
			"auth.phone_number", "want a 10 digit mobile number starting with 6-9", auth.PhoneNumber)
	}
	if len(auth.SubjectIDs) == 0 {
		return auth, internaltypes.NewFieldError(internaltypes.ErrInvalidAuthCriteria,
			"auth.subject_ids", "at least one subject id is required")
	}
	if bad := appointment.InvalidValues(auth.SubjectIDs, appointment.ValidSubjectID); len(bad) > 0 {
		return auth, internaltypes.NewFieldError(internaltypes.ErrInvalidAuthCriteria,
			"auth.subject_ids", "want 14 digit beneficiary reference ids", bad...)
	}
	return auth, nil
}

func trimAll(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.TrimSpace(s)
	}
	return out
}
