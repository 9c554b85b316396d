package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/example/slotfinder/internal/internaltypes"
)

const (
	DefaultPath        = "slotfinder.yaml"
	DefaultBaseURL     = "https://cdn-api.co-vin.in/api"
	DefaultUA          = "Mozilla/5.0 (X11; Linux x86_64) slotfinder/1.0"
	DefaultManifestURL = "https://raw.githubusercontent.com/example/slotfinder/main/release.json"
)

type Config struct {
	Search       Search       `yaml:"search"`
	Auth         Auth         `yaml:"auth"`
	Throttle     Throttle     `yaml:"throttle"`
	Run          Run          `yaml:"run"`
	API          API          `yaml:"api"`
	VersionCheck VersionCheck `yaml:"version_check"`
	Session      Session      `yaml:"session"`
	Metrics      Metrics      `yaml:"metrics"`
}

// Search holds raw criteria. Domain validation happens when the run builds
// its search plan, not here.
type Search struct {
	ByRegionCode     bool     `yaml:"by_region_code"`
	RegionCodes      []string `yaml:"region_codes"`
	ByDistrict       bool     `yaml:"by_district"`
	Districts        []string `yaml:"districts"`
	FilterFacilities bool     `yaml:"filter_facilities"`
	FacilityNames    []string `yaml:"facility_names"`
	Date             string   `yaml:"date"`
	ResourceType     string   `yaml:"resource_type"`
	Dose             int      `yaml:"dose"`
	MinAge           int      `yaml:"min_age"`
}

type Auth struct {
	PhoneNumber string   `yaml:"phone_number"`
	SubjectIDs  []string `yaml:"subject_ids"`
}

type Throttle struct {
	Enabled            bool `yaml:"enabled"`
	FixedDelayMs       int  `yaml:"fixed_delay_ms"`
	ThresholdPerWindow int  `yaml:"threshold_per_window"`
	WindowMinutes      int  `yaml:"window_minutes"`
}

type Run struct {
	MaxAttempts int `yaml:"max_attempts"`
}

type API struct {
	BaseURL        string        `yaml:"base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	Retries        int           `yaml:"retries"`
	UserAgent      string        `yaml:"user_agent"`
	OTPSecret      string        `yaml:"otp_secret"`
}

type VersionCheck struct {
	Enabled     bool   `yaml:"enabled"`
	ManifestURL string `yaml:"manifest_url"`
}

type Session struct {
	CachePath string `yaml:"cache_path"`
	Secret    string `yaml:"secret"`
}

type Metrics struct {
	Addr string `yaml:"addr"`
}

// Default returns the values used for keys the file leaves out.
func Default() Config {
	return Config{
		Search: Search{ByRegionCode: true, Dose: 1},
		Throttle: Throttle{
			Enabled:            true,
			FixedDelayMs:       5000,
			ThresholdPerWindow: 100,
			WindowMinutes:      5,
		},
		Run: Run{MaxAttempts: 1000},
		API: API{
			BaseURL:        DefaultBaseURL,
			RequestTimeout: 10 * time.Second,
			Retries:        2,
			UserAgent:      DefaultUA,
		},
		VersionCheck: VersionCheck{Enabled: true, ManifestURL: DefaultManifestURL},
	}
}

// Load reads the YAML file at path, applies environment overrides and checks
// the structural rules. Every failure wraps internaltypes.ErrConfigurationFormat.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: read %s: %v", internaltypes.ErrConfigurationFormat, path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a single strict YAML document on top of Default, then applies
// environment overrides and validates.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %v", internaltypes.ErrConfigurationFormat, err)
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err == nil {
			return Config{}, fmt.Errorf("%w: multiple YAML documents are not supported", internaltypes.ErrConfigurationFormat)
		}
		return Config{}, fmt.Errorf("%w: %v", internaltypes.ErrConfigurationFormat, err)
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// PathFromEnv returns SLOTFINDER_CONFIG or the default file name.
func PathFromEnv() string {
	return envDefault("SLOTFINDER_CONFIG", DefaultPath)
}

func (c *Config) applyEnv() {
	c.Auth.PhoneNumber = envDefault("SLOTFINDER_PHONE", c.Auth.PhoneNumber)
	c.Session.Secret = envDefault("SLOTFINDER_SESSION_SECRET", c.Session.Secret)
	c.API.OTPSecret = envDefault("COWIN_OTP_SECRET", c.API.OTPSecret)
	c.Metrics.Addr = envDefault("SLOTFINDER_METRICS_ADDR", c.Metrics.Addr)
}

// Validate checks structure only: values the run cannot even be planned with.
func (c Config) Validate() error {
	var problems []string
	if c.Run.MaxAttempts < 1 {
		problems = append(problems, "run.max_attempts must be >= 1")
	}
	if c.Throttle.FixedDelayMs < 0 {
		problems = append(problems, "throttle.fixed_delay_ms must be >= 0")
	}
	if c.Throttle.Enabled {
		if c.Throttle.ThresholdPerWindow < 1 {
			problems = append(problems, "throttle.threshold_per_window must be >= 1 when throttling is enabled")
		}
		if c.Throttle.WindowMinutes < 1 {
			problems = append(problems, "throttle.window_minutes must be >= 1 when throttling is enabled")
		}
	}
	if c.Search.Dose != 1 && c.Search.Dose != 2 {
		problems = append(problems, "search.dose must be 1 or 2")
	}
	if c.Search.MinAge < 0 {
		problems = append(problems, "search.min_age must be >= 0")
	}
	if strings.TrimSpace(c.API.BaseURL) == "" {
		problems = append(problems, "api.base_url is required")
	}
	if c.API.RequestTimeout <= 0 {
		problems = append(problems, "api.request_timeout must be > 0")
	}
	if c.API.Retries < 0 {
		problems = append(problems, "api.retries must be >= 0")
	}
	if c.Session.CachePath != "" && len(c.Session.Secret) < 16 {
		problems = append(problems, "session.secret must be at least 16 characters when session.cache_path is set")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", internaltypes.ErrConfigurationFormat, strings.Join(problems, "; "))
	}
	return nil
}

func envDefault(k, d string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	return v
}
