package sessioncache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/example/slotfinder/internal/domain/appointment"
	"github.com/example/slotfinder/internal/domain/appointment/mocks"
)

const testSecret = "0123456789abcdef0123"

func newStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "cache", "session"), testSecret)
	require.NoError(t, err)
	return s
}

func TestStoreRoundTrip(t *testing.T) {
	s := newStore(t)
	now := time.Now()
	sess := appointment.Session{Token: "bearer-token-value", Phone: "9876543210", ExpiresAt: now.Add(10 * time.Minute).Truncate(time.Second)}

	require.NoError(t, s.Save(sess))
	raw, err := os.ReadFile(s.path)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "bearer-token-value")
	assert.NotContains(t, string(raw), "9876543210")

	info, err := os.Stat(s.path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := s.Load("9876543210")
	require.NoError(t, err)
	assert.Equal(t, sess.Token, got.Token)
	assert.True(t, sess.ExpiresAt.Equal(got.ExpiresAt))
}

func TestStoreMisses(t *testing.T) {
	s := newStore(t)
	_, err := s.Load("9876543210")
	assert.ErrorIs(t, err, ErrMiss, "no file")

	require.NoError(t, s.Save(appointment.Session{Token: "tok", Phone: "9876543210", ExpiresAt: time.Now().Add(time.Minute)}))
	_, err = s.Load("9123456789")
	assert.ErrorIs(t, err, ErrMiss, "other phone")

	s.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = s.Load("9876543210")
	assert.ErrorIs(t, err, ErrMiss, "expired")

	require.NoError(t, s.Clear())
	require.NoError(t, s.Clear())
	_, err = s.Load("9876543210")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestStoreRejectsForeignSecret(t *testing.T) {
	s := newStore(t)
	require.NoError(t, s.Save(appointment.Session{Token: "tok", Phone: "9876543210", ExpiresAt: time.Now().Add(time.Minute)}))

	other, err := New(s.path, strings.Repeat("x", 20))
	require.NoError(t, err)
	_, err = other.Load("9876543210")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}

func TestNewRejectsShortSecret(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "s"), "short")
	assert.Error(t, err)
}

func TestAuthenticatorUsesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockAuthenticator(ctrl)
	store := newStore(t)
	a := &Authenticator{Next: next, Store: store}
	ctx := context.Background()
	fresh := appointment.Session{Token: "tok", Phone: "9876543210", ExpiresAt: time.Now().Add(10 * time.Minute)}

	next.EXPECT().Authenticate(ctx, "9876543210", []string{"12345678901234"}).Return(fresh, nil).Times(1)

	got, err := a.Authenticate(ctx, "9876543210", []string{"12345678901234"})
	require.NoError(t, err)
	assert.Equal(t, "tok", got.Token)

	got, err = a.Authenticate(ctx, "9876543210", []string{"12345678901234"})
	require.NoError(t, err)
	assert.Equal(t, "tok", got.Token)
}

func TestAuthenticatorIgnoresBrokenCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockAuthenticator(ctrl)
	store := newStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.path), 0o700))
	require.NoError(t, os.WriteFile(store.path, []byte("garbage"), 0o600))
	a := &Authenticator{Next: next, Store: store}
	fresh := appointment.Session{Token: "new", Phone: "9876543210", ExpiresAt: time.Now().Add(10 * time.Minute)}

	next.EXPECT().Authenticate(gomock.Any(), "9876543210", gomock.Nil()).Return(fresh, nil)

	got, err := a.Authenticate(context.Background(), "9876543210", nil)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Token)

	cached, err := store.Load("9876543210")
	require.NoError(t, err)
	assert.Equal(t, "new", cached.Token)
}

func TestAuthenticatorPropagatesFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	next := mocks.NewMockAuthenticator(ctrl)
	boom := errors.New("boom")
	next.EXPECT().Authenticate(gomock.Any(), gomock.Any(), gomock.Any()).Return(appointment.Session{}, boom)

	_, err := (&Authenticator{Next: next}).Authenticate(context.Background(), "9876543210", nil)
	assert.ErrorIs(t, err, boom)
}
