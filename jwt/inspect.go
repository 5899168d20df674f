package jwt

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotJWT is returned when a token is not a decodable JWT. Opaque tokens are
// valid session tokens; they simply carry no readable claims.
var ErrNotJWT = errors.New("token is not a jwt")

// Claims holds the registered claims the client cares about.
type Claims struct {
	Subject   string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Extra     map[string]any
}

// HasExpiry reports whether the token carried an exp claim.
func (c Claims) HasExpiry() bool {
	return !c.ExpiresAt.IsZero()
}

// Expired reports whether the token is past its exp claim at now. Tokens
// without exp never expire client-side.
func (c Claims) Expired(now time.Time) bool {
	return c.HasExpiry() && !now.Before(c.ExpiresAt)
}

var parser = jwt.NewParser()

// Inspect decodes token without verifying its signature.
func Inspect(token string) (Claims, error) {
	token = strings.TrimSpace(token)
	if strings.Count(token, ".") != 2 {
		return Claims{}, ErrNotJWT
	}

	mc := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, mc); err != nil {
		return Claims{}, ErrNotJWT
	}

	var out Claims
	if sub, err := mc.GetSubject(); err == nil {
		out.Subject = sub
	}
	if iss, err := mc.GetIssuer(); err == nil {
		out.Issuer = iss
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		out.IssuedAt = iat.Time
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}

	out.Extra = make(map[string]any, len(mc))
	for k, v := range mc {
		switch k {
		case "sub", "iss", "iat", "exp":
			continue
		}
		out.Extra[k] = v
	}
	return out, nil
}

// ExpirationString returns the token's exp claim formatted as RFC 3339 in UTC.
func ExpirationString(token string) (string, bool) {
	c, err := Inspect(token)
	if err != nil || !c.HasExpiry() {
		return "", false
	}
	return c.ExpiresAt.UTC().Format(time.RFC3339), true
}
