package flows

import (
	"context"

	"github.com/MrEthical07/goAuthFlow/api"
)

// RegisterDeps captures register flow dependencies.
type RegisterDeps struct {
	Register        func(context.Context, api.RegisterRequest) api.Result
	SetPendingEmail func(context.Context, string) error

	Fallback string
	Event    string
	Metrics  OutcomeMetrics
	Errors   FormErrors
	Hooks
}

// RegisterResult is what the verify screen needs after a registration.
type RegisterResult struct {
	Email   string
	Message string
}

// RunRegister validates the form, registers the account and remembers the
// email awaiting verification.
func RunRegister(ctx context.Context, form RegisterForm, deps RegisterDeps) (RegisterResult, error) {
	normalizeHooks(&deps.Hooks)
	if deps.Register == nil || deps.SetPendingEmail == nil {
		return RegisterResult{}, deps.Errors.EngineNotReady
	}

	if reason, err := checkForm(form, registerChecks, deps.Errors); err != nil {
		return RegisterResult{}, deps.invalid(ctx, deps.Event, deps.Metrics, form.Email, reason, err)
	}

	res, err := invoke(ctx, func(ctx context.Context) api.Result {
		return deps.Register(ctx, api.RegisterRequest{
			FullName: form.FullName,
			Email:    form.Email,
			Phone:    form.Phone,
			Password: form.Password,
		})
	}, deps.Errors.Connection)
	if err != nil {
		return RegisterResult{}, deps.settle(ctx, deps.Event, deps.Metrics, form.Email, err, nil)
	}
	if rej := rejection(res, deps.Fallback, deps.Errors.Connection); rej != nil {
		return RegisterResult{}, deps.settle(ctx, deps.Event, deps.Metrics, form.Email, rej, nil)
	}

	if err := deps.SetPendingEmail(ctx, form.Email); err != nil {
		return RegisterResult{}, deps.settle(ctx, deps.Event, deps.Metrics, form.Email, persistFailure(deps.Event, deps.Errors.Persist, err), nil)
	}

	_ = deps.settle(ctx, deps.Event, deps.Metrics, form.Email, nil, nil)
	return RegisterResult{Email: form.Email, Message: res.Response.Message}, nil
}
