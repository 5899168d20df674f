package session

import (
	"context"
	"errors"
)

const (
	// KeyAuthToken holds the opaque session token returned by login.
	KeyAuthToken = "authToken"
	// KeyUserData holds the JSON-serialized user profile returned by login.
	KeyUserData = "userData"
	// KeyTokenExpiration holds the token expiration as returned by the backend.
	KeyTokenExpiration = "tokenExpiration"
	// KeyPendingVerificationEmail holds the email awaiting verification.
	KeyPendingVerificationEmail = "pendingVerificationEmail"
)

// Keys lists every key this package writes.
var Keys = []string{
	KeyAuthToken,
	KeyUserData,
	KeyTokenExpiration,
	KeyPendingVerificationEmail,
}

// ErrStoreUnavailable is returned when a backend cannot be reached.
var ErrStoreUnavailable = errors.New("session store unavailable")

// ErrStoreCorrupt is returned when persisted state cannot be decoded.
var ErrStoreCorrupt = errors.New("session store corrupt")

// Store is a string key-value store. Implementations must be safe for
// concurrent use and atomic per key.
type Store interface {
	// Get returns the value of key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)
	// Set writes value under key, replacing any previous value.
	Set(ctx context.Context, key, value string) error
	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
