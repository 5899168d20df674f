package flows

import (
	"context"

	"github.com/MrEthical07/goAuthFlow/session"
)

// Service is the centralized flow runner built once by the root engine.
type Service struct {
	deps Deps
}

// New returns a flow service with immutable dependency wiring.
func New(deps Deps) Service {
	return Service{deps: deps}
}

// Initialized reports whether the service has been wired with flow deps.
func (s Service) Initialized() bool {
	return s.deps.Login.Login != nil
}

func (s Service) Register(ctx context.Context, form RegisterForm) (RegisterResult, error) {
	return RunRegister(ctx, form, s.deps.Register)
}

func (s Service) Login(ctx context.Context, form LoginForm) (session.Session, error) {
	return RunLogin(ctx, form, s.deps.Login)
}

func (s Service) VerifyEmail(ctx context.Context, form VerifyEmailForm) (string, error) {
	return RunVerifyEmail(ctx, form, s.deps.VerifyEmail)
}

func (s Service) ResendVerification(ctx context.Context, email string) (string, error) {
	return RunResendVerification(ctx, email, s.deps.Resend)
}

func (s Service) ForgotPassword(ctx context.Context, form EmailForm) (string, error) {
	return RunForgotPassword(ctx, form, s.deps.ForgotPassword)
}

func (s Service) ResetPassword(ctx context.Context, form ResetPasswordForm) (string, error) {
	return RunResetPassword(ctx, form, s.deps.ResetPassword)
}

func (s Service) Logout(ctx context.Context) error {
	return RunLogout(ctx, s.deps.Logout)
}
