// Package mockapi is an in-memory stand-in for the PHP auth backend. It
// serves the six /auth/*.php endpoints with the same request and response
// shapes, so tests, examples and the CLI's mock-server command can run the
// flows end to end without a real server.
//
// Accounts live in memory. Passwords are hashed with argon2id, login tokens
// are HS256 JWTs, and verification codes and reset tokens are exposed through
// [Server.PendingCode] and [Server.ResetToken] in place of email delivery.
//
// # What this package must NOT do
//
//   - Be used as a production backend.
//   - Import the goAuthFlow root package. The client must stay testable
//     against it.
package mockapi
