package middleware

import (
	"net/http"

	goAuthFlow "github.com/MrEthical07/goAuthFlow"
	"github.com/google/uuid"
)

// HeaderRequestID carries the correlation id of a backend call.
const HeaderRequestID = "X-Request-ID"

// RequestID sets X-Request-ID on every call that lacks it. The id attached
// with goAuthFlow.WithRequestID is preferred, so audit events and backend logs
// share it; otherwise a fresh uuid is used.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if r.Header.Get(HeaderRequestID) != "" {
				return next.RoundTrip(r)
			}
			id := goAuthFlow.RequestIDFromContext(r.Context())
			if id == "" {
				id = uuid.NewString()
			}
			return next.RoundTrip(withHeader(r, HeaderRequestID, id))
		})
	}
}
