// Package jwt reads the claims of session tokens on the client side.
//
// The client holds no signing keys, so tokens are decoded without signature
// verification. The result is informational only (expiry display, deriving a
// missing expiration); authorization decisions stay with the backend.
package jwt
