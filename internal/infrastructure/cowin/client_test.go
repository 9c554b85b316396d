package cowin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/slotfinder/internal/domain/appointment"
	"github.com/example/slotfinder/internal/internaltypes"
)

func newTestClient(t *testing.T, h http.Handler, opts Options) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts.BaseURL = srv.URL
	if opts.Backoff == 0 {
		opts.Backoff = time.Millisecond
	}
	return New(opts)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClientRetriesTransientStatus(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"states": []State{{ID: 1, Name: "Delhi"}}})
	})
	c := newTestClient(t, h, Options{Retries: 2})

	states, err := c.States(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []State{{ID: 1, Name: "Delhi"}}, states)
	assert.EqualValues(t, 3, calls.Load())
}

func TestClientGivesUpAfterRetries(t *testing.T) {
	var calls atomic.Int32
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	})
	c := newTestClient(t, h, Options{Retries: 1})

	_, err := c.States(context.Background())
	require.ErrorIs(t, err, ErrTransient)
	assert.EqualValues(t, 2, calls.Load())
}

func TestClientStatusErrors(t *testing.T) {
	t.Run("unauthorized", func(t *testing.T) {
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		_, err := newTestClient(t, h, Options{}).States(context.Background())
		assert.ErrorIs(t, err, internaltypes.ErrUnauthorized)
	})

	t.Run("bad request carries api code", func(t *testing.T) {
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"errorCode": "APPOIN0040", "error": "slot full"})
		})
		_, err := newTestClient(t, h, Options{}).States(context.Background())
		var se *StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusBadRequest, se.Code)
		assert.Equal(t, "APPOIN0040", se.APICode)
		assert.Equal(t, "slot full", se.Message)
	})

	t.Run("malformed body", func(t *testing.T) {
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>maintenance</html>"))
		})
		_, err := newTestClient(t, h, Options{}).States(context.Background())
		assert.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("empty body", func(t *testing.T) {
		h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		_, err := newTestClient(t, h, Options{}).States(context.Background())
		assert.ErrorIs(t, err, ErrMalformed)
	})
}

func TestClientSendsHeaders(t *testing.T) {
	var got http.Header
	var gotQuery string
	var gotPath string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		gotQuery = r.URL.RawQuery
		gotPath = r.URL.Path
		writeJSON(w, http.StatusOK, calendarResponse{})
	})
	c := newTestClient(t, h, Options{UserAgent: "test-agent"})

	_, err := c.CalendarByPin(context.Background(), "tok", "110001", appointment.NewDate(2021, time.June, 5))
	require.NoError(t, err)
	assert.Equal(t, "/v2/appointment/sessions/calendarByPin", gotPath)
	assert.Equal(t, "date=05-06-2021&pincode=110001", gotQuery)
	assert.Equal(t, "Bearer tok", got.Get("Authorization"))
	assert.Equal(t, "test-agent", got.Get("User-Agent"))
}

func TestCalendarWithoutTokenUsesPublicEndpoint(t *testing.T) {
	var gotPath string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		assert.Empty(t, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, calendarResponse{})
	})
	c := newTestClient(t, h, Options{})

	_, err := c.CalendarByDistrict(context.Background(), "", 294, appointment.NewDate(2021, time.June, 5))
	require.NoError(t, err)
	assert.Equal(t, "/v2/appointment/sessions/public/calendarByDistrict", gotPath)
}

func TestResolveDistrict(t *testing.T) {
	var stateCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/admin/location/states", func(w http.ResponseWriter, r *http.Request) {
		stateCalls.Add(1)
		writeJSON(w, http.StatusOK, map[string]any{"states": []State{{ID: 9, Name: "Delhi"}, {ID: 16, Name: "Karnataka"}}})
	})
	mux.HandleFunc("/v2/admin/location/districts/9", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"districts": []District{{ID: 141, Name: "Central Delhi"}}})
	})
	mux.HandleFunc("/v2/admin/location/districts/16", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"districts": []District{{ID: 294, Name: "BBMP"}}})
	})
	c := newTestClient(t, mux, Options{})
	ctx := context.Background()

	id, err := c.ResolveDistrict(ctx, "  central   DELHI ")
	require.NoError(t, err)
	assert.Equal(t, 141, id)

	id, err = c.ResolveDistrict(ctx, "bbmp")
	require.NoError(t, err)
	assert.Equal(t, 294, id)

	_, err = c.ResolveDistrict(ctx, "Atlantis")
	assert.ErrorIs(t, err, internaltypes.ErrNotFound)

	assert.EqualValues(t, 1, stateCalls.Load(), "index is built once")
}

func TestPing(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"states": []State{}})
	})
	c := newTestClient(t, h, Options{})
	assert.Equal(t, "cowin", c.Name())
	assert.NoError(t, c.Ping(context.Background()))
}
