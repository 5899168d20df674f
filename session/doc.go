// Package session provides the explicit key-value store that holds the client's
// authentication state between screens and across restarts.
//
// # Keys
//
// Four keys are used: [KeyAuthToken], [KeyUserData], [KeyTokenExpiration] and
// [KeyPendingVerificationEmail]. Each key is read and written atomically by the
// backend; no cross-key transaction is offered or needed because only one
// screen is active at a time.
//
// # Backends
//
//   - [MemoryStore] for tests and single-process front-ends.
//   - [FileStore] for CLIs that need the session to survive restarts.
//   - [RedisStore] for shared or remote front-ends, with a key prefix.
//
// # What this package must NOT do
//
//   - Import goAuthFlow or the api package (no upward imports).
//   - Store credentials; only the token, profile, expiration and pending email.
//   - Merge login data: [SaveLogin] always overwrites all three login keys.
package session
