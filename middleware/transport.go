package middleware

import "net/http"

// Middleware decorates a transport.
type Middleware func(http.RoundTripper) http.RoundTripper

// RoundTripperFunc adapts a function to http.RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

// Chain wraps base with mws. The first middleware sees the request first.
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			base = mws[i](base)
		}
	}
	return base
}

// NewHTTPClient returns a client whose transport is base wrapped by mws. The
// client has no timeout; calls end with the caller's context.
func NewHTTPClient(base http.RoundTripper, mws ...Middleware) *http.Client {
	return &http.Client{Transport: Chain(base, mws...)}
}

// withHeader returns a copy of r carrying key: value. The original request is
// never modified.
func withHeader(r *http.Request, key, value string) *http.Request {
	out := r.Clone(r.Context())
	out.Header.Set(key, value)
	return out
}
