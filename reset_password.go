package goAuthFlow

import (
	"context"
	"net/url"

	"github.com/MrEthical07/goAuthFlow/internal/flows"
)

// ResetPasswordController drives the reset password screen.
type ResetPasswordController struct {
	controller

	token string
}

// ResetPassword mounts the reset screen. The token is read once from the
// "token" query parameter; without it the screen starts in the error state
// with the submit control disabled.
func (e *Engine) ResetPassword(query url.Values) *ResetPasswordController {
	c := &ResetPasswordController{token: query.Get("token")}
	c.final = true
	if c.token == "" {
		c.state.Status = StatusError
		c.state.Error = ErrTokenMissing.Error()
	}
	c.init(e, ScreenResetPassword, func() bool { return c.token != "" })
	return c
}

// Submit sets the new password. On success the host is sent to login with a
// confirmation after the configured delay, and later submits return
// ErrCompleted.
func (c *ResetPasswordController) Submit(ctx context.Context, password, confirm string) error {
	var message string
	err := c.submit(ctx, func(ctx context.Context) error {
		var err error
		message, err = c.engine.flows.ResetPassword(ctx, flows.ResetPasswordForm{
			Token:    c.token,
			Password: password,
			Confirm:  confirm,
		})
		return err
	}, func(s *State) {
		s.Message = ConfirmPasswordReset
		if message != "" {
			s.Message = message
		}
	})
	if err != nil {
		return err
	}

	c.navigateAfter(c.engine.config.Flow.ResetRedirectDelay, Navigation{
		To:    ScreenLogin,
		State: NavigationState{Message: ConfirmPasswordReset},
	})
	return nil
}
