package middleware

import (
	"net/http"

	"github.com/MrEthical07/goAuthFlow/session"
)

// Bearer attaches "Authorization: Bearer <token>" from the persisted session.
// Calls made while logged out, or that already carry an Authorization header,
// pass through unchanged. A store failure is not a call failure: the request
// is sent without the header.
func Bearer(store session.Store) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			if store == nil || r.Header.Get("Authorization") != "" {
				return next.RoundTrip(r)
			}
			sess, err := session.Load(r.Context(), store)
			if err != nil {
				return next.RoundTrip(r)
			}
			return next.RoundTrip(withHeader(r, "Authorization", "Bearer "+sess.Token))
		})
	}
}
