package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Logging logs each round trip: method, path, status, elapsed time and the
// request id when one was set. Transport errors are logged at warn level.
func Logging(logger zerolog.Logger) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(r)
			elapsed := time.Since(start)

			ev := logger.Debug()
			if err != nil {
				ev = logger.Warn().Err(err)
			}
			ev = ev.Str("op", "http.RoundTrip").
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Dur("elapsed", elapsed)
			if id := r.Header.Get(HeaderRequestID); id != "" {
				ev = ev.Str("request_id", id)
			}
			if resp != nil {
				ev = ev.Int("status", resp.StatusCode)
			}
			ev.Msg("backend round trip")

			return resp, err
		})
	}
}
