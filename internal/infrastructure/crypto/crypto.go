package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// CookieKeys is a securecookie hash key (HMAC-SHA256) and block key (AES-256).
type CookieKeys struct {
	Hash  []byte
	Block []byte
}

// DeriveCookieKeys expands one operator secret into independent hash and
// block keys, so only a single value has to be configured.
func DeriveCookieKeys(secret string) (CookieKeys, error) {
	if len(secret) < 16 {
		return CookieKeys{}, fmt.Errorf("secret too short (%d bytes, want >= 16)", len(secret))
	}
	r := hkdf.New(sha256.New, []byte(secret), []byte("slotfinder/session"), []byte("securecookie v1"))
	keys := CookieKeys{Hash: make([]byte, 32), Block: make([]byte, 32)}
	if _, err := io.ReadFull(r, keys.Hash); err != nil {
		return CookieKeys{}, err
	}
	if _, err := io.ReadFull(r, keys.Block); err != nil {
		return CookieKeys{}, err
	}
	return keys, nil
}

// HashOTP is the hex sha256 digest the provider expects instead of the
// plain one-time code.
func HashOTP(otp string) string {
	sum := sha256.Sum256([]byte(otp))
	return hex.EncodeToString(sum[:])
}

// NewSecret returns n random bytes, base64 encoded.
func NewSecret(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
