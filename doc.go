// Package goAuthFlow provides the client side of a PHP-style authentication
// backend: register, login, verify email, forgot password and reset password
// screens expressed as headless controllers.
//
// An [Engine] is built once through [Builder] and owns the shared API client,
// the session store, metrics and audit dispatch. Each screen is mounted from
// the engine ([Engine.Register], [Engine.Login], ...) and exposes a [State]
// snapshot for any front-end to render. Screens are safe to drive from
// multiple goroutines; at most one submit per screen is in flight.
//
// # Architecture boundaries
//
// goAuthFlow is the public surface. It exposes [Engine], [Builder], [Config],
// the screen controllers and value types. Validation and orchestration live in
// internal/flows, timers in internal/schedule, audit buffering in
// internal/audit.
//
// # What this package must NOT do
//
//   - Retry a backend call or add a timeout beyond the caller's context.
//   - Issue a backend call when local validation fails.
//   - Render anything; presentation belongs to the host.
//   - Import any sub-package that re-imports goAuthFlow (no import cycles).
package goAuthFlow
