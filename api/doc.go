// Package api is the single chokepoint for every backend call made by the auth
// screens.
//
// A [Client] builds URLs from one configurable base (see [NewEndpoints]), sends
// JSON POST requests and returns the backend's uniform [Response] shape.
//
// # Failure contract
//
// [Client.Request] never returns an error. Transport, encoding and decoding
// failures collapse into a synthesized response whose Message is
// [ConnectionErrorMessage]. Callers only ever see semantic failures
// (Success == false). The distinction between failure kinds is still kept in
// [Result.Kind] for logging and metrics through [Client.Do] and [Observer].
//
// # What this package must NOT do
//
//   - Retry, time out on its own, or cancel requests beyond the caller's context.
//   - Persist tokens or any response data.
//   - Import goAuthFlow or the session package.
package api
