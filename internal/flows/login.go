package flows

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/MrEthical07/goAuthFlow/api"
	"github.com/MrEthical07/goAuthFlow/session"
	"github.com/samber/oops"
)

// LoginDeps captures login flow dependencies.
type LoginDeps struct {
	Login     func(context.Context, api.LoginRequest) api.Result
	SaveLogin func(context.Context, session.Session) error
	// ExpirationFromToken derives an expiration when the backend sends none.
	// Optional.
	ExpirationFromToken func(string) (string, bool)

	Fallback string
	Event    string
	Metrics  OutcomeMetrics
	Errors   FormErrors
	Hooks
}

// RunLogin validates the credentials, logs in and overwrites the persisted
// session with the returned token, user and expiration.
func RunLogin(ctx context.Context, form LoginForm, deps LoginDeps) (session.Session, error) {
	normalizeHooks(&deps.Hooks)
	if deps.Login == nil || deps.SaveLogin == nil {
		return session.Session{}, deps.Errors.EngineNotReady
	}

	if reason, err := checkForm(form, loginChecks, deps.Errors); err != nil {
		return session.Session{}, deps.invalid(ctx, deps.Event, deps.Metrics, form.Email, reason, err)
	}

	res, err := invoke(ctx, func(ctx context.Context) api.Result {
		return deps.Login(ctx, api.LoginRequest{
			Email:    form.Email,
			Password: form.Password,
			Remember: form.Remember,
		})
	}, deps.Errors.Connection)
	if err != nil {
		return session.Session{}, deps.settle(ctx, deps.Event, deps.Metrics, form.Email, err, nil)
	}
	if rej := rejection(res, deps.Fallback, deps.Errors.Connection); rej != nil {
		return session.Session{}, deps.settle(ctx, deps.Event, deps.Metrics, form.Email, rej, nil)
	}

	sess, err := sessionFromLogin(res.Response, deps.ExpirationFromToken)
	if err != nil {
		return session.Session{}, deps.settle(ctx, deps.Event, deps.Metrics, form.Email,
			oops.Code(CodeLoginData).With("event", deps.Event).Wrap(errors.Join(deps.Errors.Connection, err)), nil)
	}

	if err := deps.SaveLogin(ctx, sess); err != nil {
		return session.Session{}, deps.settle(ctx, deps.Event, deps.Metrics, form.Email, persistFailure(deps.Event, deps.Errors.Persist, err), nil)
	}

	_ = deps.settle(ctx, deps.Event, deps.Metrics, form.Email, nil, func() map[string]string {
		return map[string]string{"remember": strconv.FormatBool(form.Remember)}
	})
	return sess, nil
}

var errMissingToken = errors.New("login data has no token")

func sessionFromLogin(resp api.Response, expirationFromToken func(string) (string, bool)) (session.Session, error) {
	var data api.LoginData
	if err := resp.DecodeData(&data); err != nil {
		return session.Session{}, err
	}
	if data.Token == "" {
		return session.Session{}, errMissingToken
	}

	sess := session.Session{Token: data.Token, Expiration: data.Expiration}
	if len(data.User) > 0 {
		var compact bytes.Buffer
		if err := json.Compact(&compact, data.User); err != nil {
			return session.Session{}, err
		}
		sess.User = json.RawMessage(compact.Bytes())
	}
	if sess.Expiration == "" && expirationFromToken != nil {
		if exp, ok := expirationFromToken(data.Token); ok {
			sess.Expiration = exp
		}
	}
	return sess, nil
}
