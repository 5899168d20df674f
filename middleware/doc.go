// Package middleware provides http.RoundTripper decorators for the API
// client's transport.
//
// # Decorators
//
//   - [RequestID] sends X-Request-ID, taken from the submit context or a new uuid.
//   - [Logging] writes one zerolog line per backend call.
//   - [Bearer] attaches the persisted session token as an Authorization header.
//
// Compose them with [Chain] or [NewHTTPClient] and hand the result to
// goAuthFlow.Builder.WithHTTPClient.
//
// # What this package must NOT do
//
//   - Retry, time out or otherwise alter the outcome of a call.
//   - Read or rewrite request and response bodies.
package middleware
