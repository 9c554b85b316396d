package sessioncache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/example/slotfinder/internal/domain/appointment"
	"github.com/example/slotfinder/internal/infrastructure/crypto"
)

const (
	sealName = "slotfinder_session"
	// maxAge matches the provider's token lifetime.
	maxAge = 15 * time.Minute
)

// ErrMiss means there is no usable cached session for the phone number.
var ErrMiss = errors.New("sessioncache: miss")

// Store keeps one sealed session on disk. The file content is a securecookie
// value: HMAC-signed and AES-encrypted, so the token never sits in plain text.
type Store struct {
	path string
	sc   *securecookie.SecureCookie
	now  func() time.Time
}

func New(path, secret string) (*Store, error) {
	keys, err := crypto.DeriveCookieKeys(secret)
	if err != nil {
		return nil, fmt.Errorf("sessioncache: %w", err)
	}
	sc := securecookie.New(keys.Hash, keys.Block)
	sc.SetSerializer(securecookie.JSONEncoder{})
	sc.MaxAge(int(maxAge / time.Second))
	return &Store{path: path, sc: sc, now: time.Now}, nil
}

type sealed struct {
	Token     string `json:"t"`
	Phone     string `json:"p"`
	ExpiresAt int64  `json:"e"`
}

// Load returns the cached session for phone, or ErrMiss when there is none,
// it belongs to another number, or it has expired.
func (s *Store) Load(phone string) (appointment.Session, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return appointment.Session{}, ErrMiss
	}
	if err != nil {
		return appointment.Session{}, err
	}
	var v sealed
	if err := s.sc.Decode(sealName, strings.TrimSpace(string(raw)), &v); err != nil {
		return appointment.Session{}, fmt.Errorf("sessioncache: decode: %w", err)
	}
	sess := appointment.Session{Token: v.Token, Phone: v.Phone, ExpiresAt: time.Unix(v.ExpiresAt, 0)}
	if sess.Phone != phone || !sess.Valid(s.now()) {
		return appointment.Session{}, ErrMiss
	}
	return sess, nil
}

// Save seals sess and writes it with owner-only permissions.
func (s *Store) Save(sess appointment.Session) error {
	encoded, err := s.sc.Encode(sealName, sealed{Token: sess.Token, Phone: sess.Phone, ExpiresAt: sess.ExpiresAt.Unix()})
	if err != nil {
		return fmt.Errorf("sessioncache: encode: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return err
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(encoded), 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

// Clear removes the cached session, if any.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Authenticator reuses a cached session before falling back to Next. Cache
// failures are logged and otherwise ignored.
type Authenticator struct {
	Next   appointment.Authenticator
	Store  *Store
	Logger *log.Logger
}

func (a *Authenticator) Authenticate(ctx context.Context, phone string, subjectIDs []string) (appointment.Session, error) {
	logger := a.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if a.Store != nil {
		sess, err := a.Store.Load(phone)
		switch {
		case err == nil:
			logger.Printf("session: reusing cached token, valid until %s", sess.ExpiresAt.Format(time.Kitchen))
			return sess, nil
		case !errors.Is(err, ErrMiss):
			logger.Printf("session: ignoring cache: %v", err)
		}
	}

	sess, err := a.Next.Authenticate(ctx, phone, subjectIDs)
	if err != nil {
		return appointment.Session{}, err
	}
	if a.Store != nil {
		if err := a.Store.Save(sess); err != nil {
			logger.Printf("session: could not cache token: %v", err)
		}
	}
	return sess, nil
}
