package session

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNoSession is returned by Load when no token is stored.
var ErrNoSession = errors.New("no active session")

// Session is the login state persisted after a successful login.
type Session struct {
	Token      string
	User       json.RawMessage
	Expiration string
}

// MultiSetter is implemented by backends that can write several keys in one
// operation. SaveLogin uses it when available.
type MultiSetter interface {
	SetMany(ctx context.Context, values map[string]string) error
}

// SaveLogin overwrites the three login keys with sess. An empty expiration
// removes any previously stored one so values from an older login never mix
// with the new one.
func SaveLogin(ctx context.Context, store Store, sess Session) error {
	user := string(sess.User)
	if user == "" {
		user = "null"
	}
	values := map[string]string{
		KeyAuthToken: sess.Token,
		KeyUserData:  user,
	}
	if sess.Expiration != "" {
		values[KeyTokenExpiration] = sess.Expiration
	}

	if ms, ok := store.(MultiSetter); ok {
		if err := ms.SetMany(ctx, values); err != nil {
			return err
		}
	} else {
		for _, k := range []string{KeyAuthToken, KeyUserData, KeyTokenExpiration} {
			v, ok := values[k]
			if !ok {
				continue
			}
			if err := store.Set(ctx, k, v); err != nil {
				return err
			}
		}
	}

	if sess.Expiration == "" {
		return store.Delete(ctx, KeyTokenExpiration)
	}
	return nil
}

// Load reads the persisted login state.
func Load(ctx context.Context, store Store) (Session, error) {
	token, ok, err := store.Get(ctx, KeyAuthToken)
	if err != nil {
		return Session{}, err
	}
	if !ok || token == "" {
		return Session{}, ErrNoSession
	}

	sess := Session{Token: token}
	if user, ok, err := store.Get(ctx, KeyUserData); err != nil {
		return Session{}, err
	} else if ok {
		sess.User = json.RawMessage(user)
	}
	if exp, ok, err := store.Get(ctx, KeyTokenExpiration); err != nil {
		return Session{}, err
	} else if ok {
		sess.Expiration = exp
	}
	return sess, nil
}

// Clear removes the login keys. The pending verification email is kept.
func Clear(ctx context.Context, store Store) error {
	return store.Delete(ctx, KeyAuthToken, KeyUserData, KeyTokenExpiration)
}

// SetPendingEmail remembers the email awaiting verification.
func SetPendingEmail(ctx context.Context, store Store, email string) error {
	return store.Set(ctx, KeyPendingVerificationEmail, email)
}

// PendingEmail returns the email awaiting verification, or "" when none.
func PendingEmail(ctx context.Context, store Store) (string, error) {
	v, _, err := store.Get(ctx, KeyPendingVerificationEmail)
	return v, err
}

// ClearPendingEmail forgets the email awaiting verification.
func ClearPendingEmail(ctx context.Context, store Store) error {
	return store.Delete(ctx, KeyPendingVerificationEmail)
}
