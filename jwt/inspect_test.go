package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("server-only-secret"))
	require.NoError(t, err)
	return tok
}

func TestInspectReadsClaimsWithoutKey(t *testing.T) {
	exp := time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC)
	tok := signed(t, jwt.MapClaims{
		"sub":   "42",
		"iss":   "backend",
		"iat":   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).Unix(),
		"exp":   exp.Unix(),
		"email": "ana@example.com",
	})

	c, err := Inspect(tok)
	require.NoError(t, err)
	assert.Equal(t, "42", c.Subject)
	assert.Equal(t, "backend", c.Issuer)
	assert.True(t, c.ExpiresAt.Equal(exp))
	assert.Equal(t, "ana@example.com", c.Extra["email"])
	assert.False(t, c.Expired(exp.Add(-time.Second)))
	assert.True(t, c.Expired(exp))

	s, ok := ExpirationString(tok)
	require.True(t, ok)
	assert.Equal(t, "2099-01-01T00:00:00Z", s)
}

func TestInspectOpaqueToken(t *testing.T) {
	for _, tok := range []string{"", "opaque-token-123", "a.b", "a.b.c", "!!.??.**"} {
		_, err := Inspect(tok)
		assert.ErrorIs(t, err, ErrNotJWT, tok)
	}
	_, ok := ExpirationString("opaque")
	assert.False(t, ok)
}

func TestInspectWithoutExpiry(t *testing.T) {
	c, err := Inspect(signed(t, jwt.MapClaims{"sub": "1"}))
	require.NoError(t, err)
	assert.False(t, c.HasExpiry())
	assert.False(t, c.Expired(time.Now()))

	_, ok := ExpirationString(signed(t, jwt.MapClaims{"sub": "1"}))
	assert.False(t, ok)
}
