// Package flows contains the stateless orchestration behind every auth screen.
//
// Each flow function (RunRegister, RunLogin, RunVerifyEmail, etc.) accepts
// the submitted form and a typed dependency struct, validates the form,
// issues exactly one backend call and persists what the screen needs. Screen
// state (busy flag, navigation, timers) is owned by the root package.
//
// # Architecture boundaries
//
// Flow functions coordinate the API client, the session store, metrics and
// audit hooks. They do NOT own any of these resources; ownership stays with
// the Engine and its controllers.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import goAuthFlow (to avoid import cycles).
//   - Call the backend when local validation fails.
//   - Retry a backend call.
package flows
