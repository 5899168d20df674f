package flows

import (
	"context"

	"github.com/MrEthical07/goAuthFlow/api"
)

// VerifyEmailDeps captures verify-email flow dependencies.
type VerifyEmailDeps struct {
	VerifyEmail       func(context.Context, api.VerifyEmailRequest) api.Result
	ClearPendingEmail func(context.Context) error

	Fallback string
	Event    string
	Metrics  OutcomeMetrics
	Errors   FormErrors
	Hooks
}

// RunVerifyEmail submits the six-digit code and forgets the pending email on
// success. It returns the backend message.
func RunVerifyEmail(ctx context.Context, form VerifyEmailForm, deps VerifyEmailDeps) (string, error) {
	normalizeHooks(&deps.Hooks)
	if deps.VerifyEmail == nil || deps.ClearPendingEmail == nil {
		return "", deps.Errors.EngineNotReady
	}

	if reason, err := checkForm(form, verifyChecks, deps.Errors); err != nil {
		return "", deps.invalid(ctx, deps.Event, deps.Metrics, form.Email, reason, err)
	}

	res, err := invoke(ctx, func(ctx context.Context) api.Result {
		return deps.VerifyEmail(ctx, api.VerifyEmailRequest{Email: form.Email, Code: form.Code})
	}, deps.Errors.Connection)
	if err != nil {
		return "", deps.settle(ctx, deps.Event, deps.Metrics, form.Email, err, nil)
	}
	if rej := rejection(res, deps.Fallback, deps.Errors.Connection); rej != nil {
		return "", deps.settle(ctx, deps.Event, deps.Metrics, form.Email, rej, nil)
	}

	if err := deps.ClearPendingEmail(ctx); err != nil {
		return "", deps.settle(ctx, deps.Event, deps.Metrics, form.Email, persistFailure(deps.Event, deps.Errors.Persist, err), nil)
	}

	_ = deps.settle(ctx, deps.Event, deps.Metrics, form.Email, nil, nil)
	return res.Response.Message, nil
}

// ResendDeps captures resend-verification flow dependencies.
type ResendDeps struct {
	ResendVerification func(context.Context, string) api.Result

	// Fallback is used when a rejection carries no message; SuccessFallback
	// when a success does.
	Fallback        string
	SuccessFallback string
	Event           string
	Metrics         OutcomeMetrics
	Errors          FormErrors
	Hooks
}

// RunResendVerification asks the backend to send a new code. It returns the
// notice to show on success.
func RunResendVerification(ctx context.Context, email string, deps ResendDeps) (string, error) {
	normalizeHooks(&deps.Hooks)
	if deps.ResendVerification == nil {
		return "", deps.Errors.EngineNotReady
	}

	if reason, err := checkForm(EmailForm{Email: email}, emailChecks, deps.Errors); err != nil {
		return "", deps.invalid(ctx, deps.Event, deps.Metrics, email, reason, err)
	}

	res, err := invoke(ctx, func(ctx context.Context) api.Result {
		return deps.ResendVerification(ctx, email)
	}, deps.Errors.Connection)
	if err != nil {
		return "", deps.settle(ctx, deps.Event, deps.Metrics, email, err, nil)
	}
	if rej := rejection(res, deps.Fallback, deps.Errors.Connection); rej != nil {
		return "", deps.settle(ctx, deps.Event, deps.Metrics, email, rej, nil)
	}

	_ = deps.settle(ctx, deps.Event, deps.Metrics, email, nil, nil)
	return res.Response.MessageOr(deps.SuccessFallback), nil
}
