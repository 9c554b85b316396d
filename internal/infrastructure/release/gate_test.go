package release

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func manifestServer(t *testing.T, body string, status int) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestGate(t *testing.T) {
	const manifest = `{"latest":"1.4.0","minimum":"1.2.0","message":"see release notes"}`

	tests := []struct {
		name    string
		current string
		body    string
		status  int
		enabled bool
		want    bool
		notices int
	}{
		{name: "up to date", current: "1.4.0", body: manifest, status: 200, enabled: true, want: true},
		{name: "newer than latest", current: "v1.5.0", body: manifest, status: 200, enabled: true, want: true},
		{name: "upgrade available", current: "1.3.2", body: manifest, status: 200, enabled: true, want: true, notices: 1},
		{name: "below minimum", current: "1.1.9", body: manifest, status: 200, enabled: true, want: false, notices: 1},
		{name: "dev build", current: "dev", body: manifest, status: 200, enabled: true, want: true},
		{name: "disabled", current: "1.0.0", body: manifest, status: 200, enabled: false, want: true},
		{name: "server error", current: "1.0.0", body: "", status: 500, enabled: true, want: true},
		{name: "bad manifest", current: "1.0.0", body: "not json", status: 200, enabled: true, want: true},
		{name: "empty manifest", current: "1.0.0", body: "{}", status: 200, enabled: true, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var notices []string
			g := &Gate{
				Enabled:     tt.enabled,
				ManifestURL: manifestServer(t, tt.body, tt.status),
				Current:     tt.current,
				Notice:      func(msg string) { notices = append(notices, msg) },
			}
			assert.Equal(t, tt.want, g.ShouldRun(context.Background()))
			assert.Len(t, notices, tt.notices)
		})
	}
}

func TestGateUnreachable(t *testing.T) {
	g := &Gate{Enabled: true, ManifestURL: "http://127.0.0.1:1/release.json", Current: "1.0.0"}
	assert.True(t, g.ShouldRun(context.Background()))
}

func TestCanonical(t *testing.T) {
	assert.Equal(t, "v1.2.0", canonical("1.2"))
	assert.Equal(t, "v1.2.3", canonical(" v1.2.3 "))
	assert.Equal(t, "", canonical("dev"))
	assert.Equal(t, "", canonical(""))
}
