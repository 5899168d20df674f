package flows

import (
	"context"

	"github.com/MrEthical07/goAuthFlow/api"
)

// ForgotPasswordDeps captures forgot-password flow dependencies.
type ForgotPasswordDeps struct {
	ForgotPassword func(context.Context, string) api.Result

	Fallback string
	Event    string
	Metrics  OutcomeMetrics
	Errors   FormErrors
	Hooks
}

// RunForgotPassword requests a recovery email. It returns the backend message.
func RunForgotPassword(ctx context.Context, form EmailForm, deps ForgotPasswordDeps) (string, error) {
	normalizeHooks(&deps.Hooks)
	if deps.ForgotPassword == nil {
		return "", deps.Errors.EngineNotReady
	}

	if reason, err := checkForm(form, emailChecks, deps.Errors); err != nil {
		return "", deps.invalid(ctx, deps.Event, deps.Metrics, form.Email, reason, err)
	}

	res, err := invoke(ctx, func(ctx context.Context) api.Result {
		return deps.ForgotPassword(ctx, form.Email)
	}, deps.Errors.Connection)
	if err != nil {
		return "", deps.settle(ctx, deps.Event, deps.Metrics, form.Email, err, nil)
	}
	if rej := rejection(res, deps.Fallback, deps.Errors.Connection); rej != nil {
		return "", deps.settle(ctx, deps.Event, deps.Metrics, form.Email, rej, nil)
	}

	_ = deps.settle(ctx, deps.Event, deps.Metrics, form.Email, nil, nil)
	return res.Response.Message, nil
}

// ResetPasswordDeps captures reset-password flow dependencies.
type ResetPasswordDeps struct {
	ResetPassword func(context.Context, api.ResetPasswordRequest) api.Result

	Fallback string
	Event    string
	Metrics  OutcomeMetrics
	Errors   FormErrors
	Hooks
}

// RunResetPassword checks the token and the new password pair, then sets the
// new password. It returns the backend message.
func RunResetPassword(ctx context.Context, form ResetPasswordForm, deps ResetPasswordDeps) (string, error) {
	normalizeHooks(&deps.Hooks)
	if deps.ResetPassword == nil {
		return "", deps.Errors.EngineNotReady
	}

	if reason, err := checkForm(form, resetChecks, deps.Errors); err != nil {
		return "", deps.invalid(ctx, deps.Event, deps.Metrics, "", reason, err)
	}

	res, err := invoke(ctx, func(ctx context.Context) api.Result {
		return deps.ResetPassword(ctx, api.ResetPasswordRequest{Token: form.Token, Password: form.Password})
	}, deps.Errors.Connection)
	if err != nil {
		return "", deps.settle(ctx, deps.Event, deps.Metrics, "", err, nil)
	}
	if rej := rejection(res, deps.Fallback, deps.Errors.Connection); rej != nil {
		return "", deps.settle(ctx, deps.Event, deps.Metrics, "", rej, nil)
	}

	_ = deps.settle(ctx, deps.Event, deps.Metrics, "", nil, nil)
	return res.Response.Message, nil
}
