package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveCookieKeys(t *testing.T) {
	a, err := DeriveCookieKeys("correct horse battery staple")
	require.NoError(t, err)
	b, err := DeriveCookieKeys("correct horse battery staple")
	require.NoError(t, err)
	c, err := DeriveCookieKeys("another sufficiently long secret")
	require.NoError(t, err)

	assert.Len(t, a.Hash, 32)
	assert.Len(t, a.Block, 32)
	assert.Equal(t, a, b, "derivation is deterministic")
	assert.NotEqual(t, a.Hash, a.Block)
	assert.NotEqual(t, a.Hash, c.Hash)

	_, err = DeriveCookieKeys("short")
	assert.Error(t, err)
}

func TestHashOTP(t *testing.T) {
	assert.Equal(t, "8d969eef6ecad3c29a3a629280e686cf0c3f5d5a86aff3ca12020c923adc6c92", HashOTP("123456"))
}

func TestNewSecret(t *testing.T) {
	s, err := NewSecret(32)
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(s)
	require.NoError(t, err)
	assert.Len(t, raw, 32)

	other, err := NewSecret(32)
	require.NoError(t, err)
	assert.NotEqual(t, s, other)
}
