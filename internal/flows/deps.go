package flows

import (
	"context"

	"github.com/rs/zerolog"
)

// Deps groups flow dependency sets. The root engine builds this once and
// delegates controller submits to the matching flow.
type Deps struct {
	Register       RegisterDeps
	Login          LoginDeps
	VerifyEmail    VerifyEmailDeps
	Resend         ResendDeps
	ForgotPassword ForgotPasswordDeps
	ResetPassword  ResetPasswordDeps
	Logout         LogoutDeps
}

// FormErrors carries the root sentinel errors returned by flows.
type FormErrors struct {
	EngineNotReady   error
	FieldRequired    error
	EmailInvalid     error
	TermsNotAccepted error
	PasswordTooShort error
	PhoneInvalid     error
	PasswordMismatch error
	CodeIncomplete   error
	TokenMissing     error
	Connection       error
	Persist          error
}

// OutcomeMetrics maps each way a submit can end to a metric id.
type OutcomeMetrics struct {
	Success  int
	Rejected int
	Invalid  int
	Failed   int
}

// Hooks are the observability side effects shared by every flow.
type Hooks struct {
	MetricInc func(int)
	EmitAudit func(ctx context.Context, event string, success bool, email string, err error, metadata func() map[string]string)
	Logger    zerolog.Logger
}

func normalizeHooks(h *Hooks) {
	if h.MetricInc == nil {
		h.MetricInc = func(int) {}
	}
	if h.EmitAudit == nil {
		h.EmitAudit = func(context.Context, string, bool, string, error, func() map[string]string) {}
	}
}
