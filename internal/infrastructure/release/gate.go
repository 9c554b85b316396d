package release

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/mod/semver"
)

// Manifest is the published release document.
type Manifest struct {
	Latest  string `json:"latest"`
	Minimum string `json:"minimum"`
	Message string `json:"message"`
}

// Gate implements appointment.Gate. Builds older than Manifest.Minimum may not
// run; anything it cannot decide on is allowed.
type Gate struct {
	Enabled     bool
	ManifestURL string
	Current     string
	HTTPClient  *http.Client
	Logger      *log.Logger
	// Notice receives operator-facing messages (upgrade hints, end of life).
	Notice func(msg string)
}

func (g *Gate) ShouldRun(ctx context.Context) bool {
	logger := g.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if !g.Enabled || g.ManifestURL == "" {
		return true
	}
	current := canonical(g.Current)
	if current == "" {
		logger.Printf("gate: build %q is not a release, skipping version check", g.Current)
		return true
	}

	m, err := g.fetch(ctx)
	if err != nil {
		logger.Printf("gate: version check failed, continuing: %v", err)
		return true
	}

	if floor := canonical(m.Minimum); floor != "" && semver.Compare(current, floor) < 0 {
		g.notify(fmt.Sprintf("version %s is no longer supported (minimum %s). %s", g.Current, m.Minimum, m.Message))
		return false
	}
	if latest := canonical(m.Latest); latest != "" && semver.Compare(current, latest) < 0 {
		g.notify(fmt.Sprintf("version %s is available (running %s). %s", m.Latest, g.Current, m.Message))
	}
	return true
}

func (g *Gate) fetch(ctx context.Context) (Manifest, error) {
	hc := g.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 5 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.ManifestURL, nil)
	if err != nil {
		return Manifest{}, err
	}
	req.Header.Set("accept", "application/json")
	res, err := hc.Do(req)
	if err != nil {
		return Manifest{}, err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return Manifest{}, fmt.Errorf("manifest: http %d", res.StatusCode)
	}
	var m Manifest
	if err := json.NewDecoder(io.LimitReader(res.Body, 1<<16)).Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("manifest: %w", err)
	}
	return m, nil
}

func (g *Gate) notify(msg string) {
	msg = strings.TrimSpace(msg)
	if g.Notice != nil {
		g.Notice(msg)
		return
	}
	if g.Logger != nil {
		g.Logger.Printf("gate: %s", msg)
	}
}

// canonical returns v as a "v"-prefixed semver, or "" if it is not one.
func canonical(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return ""
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.Canonical(v)
}
