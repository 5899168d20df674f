package api

import (
	"errors"
	"net/url"
	"strings"
)

// Endpoint names one of the six backend operations.
type Endpoint string

const (
	// EndpointRegister creates an account pending email verification.
	EndpointRegister Endpoint = "register"
	// EndpointLogin exchanges credentials for a session token.
	EndpointLogin Endpoint = "login"
	// EndpointVerifyEmail confirms a registration with the emailed code.
	EndpointVerifyEmail Endpoint = "verify-email"
	// EndpointForgotPassword asks the backend to email a reset link.
	EndpointForgotPassword Endpoint = "forgot-password"
	// EndpointResetPassword sets a new password using a reset token.
	EndpointResetPassword Endpoint = "reset-password"
	// EndpointResendVerification emails a fresh verification code.
	EndpointResendVerification Endpoint = "resend-verification"
)

// ErrInvalidBaseURL is returned by NewEndpoints for relative or unparsable bases.
var ErrInvalidBaseURL = errors.New("invalid api base url")

// Paths maps every endpoint to its path below the base URL.
var Paths = map[Endpoint]string{
	EndpointRegister:           "/auth/register.php",
	EndpointLogin:              "/auth/login.php",
	EndpointVerifyEmail:        "/auth/verify-email.php",
	EndpointForgotPassword:     "/auth/forgot-password.php",
	EndpointResetPassword:      "/auth/reset-password.php",
	EndpointResendVerification: "/auth/resend-verification.php",
}

// AllEndpoints lists the endpoints in a stable order.
var AllEndpoints = []Endpoint{
	EndpointRegister,
	EndpointLogin,
	EndpointVerifyEmail,
	EndpointForgotPassword,
	EndpointResetPassword,
	EndpointResendVerification,
}

// Endpoints is the fixed table of absolute endpoint URLs derived from a base.
type Endpoints struct {
	base string
	urls map[Endpoint]string
}

// NewEndpoints derives the endpoint table from baseURL. A trailing slash on the
// base is ignored so "http://host/api/" and "http://host/api" are equivalent.
func NewEndpoints(baseURL string) (Endpoints, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return Endpoints{}, ErrInvalidBaseURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Endpoints{}, ErrInvalidBaseURL
	}

	urls := make(map[Endpoint]string, len(Paths))
	for ep, path := range Paths {
		urls[ep] = base + path
	}
	return Endpoints{base: base, urls: urls}, nil
}

// Base returns the normalized base URL.
func (e Endpoints) Base() string {
	return e.base
}

// URL returns the absolute URL for ep, or "" when ep is unknown.
func (e Endpoints) URL(ep Endpoint) string {
	return e.urls[ep]
}

// Lookup resolves an absolute URL back to its endpoint name.
func (e Endpoints) Lookup(rawURL string) (Endpoint, bool) {
	for ep, u := range e.urls {
		if u == rawURL {
			return ep, true
		}
	}
	return "", false
}
