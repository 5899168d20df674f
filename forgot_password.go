package goAuthFlow

import (
	"context"

	"github.com/MrEthical07/goAuthFlow/internal/flows"
)

// ForgotPasswordController drives the forgot password screen.
type ForgotPasswordController struct {
	controller
}

// ForgotPassword mounts the forgot password screen.
func (e *Engine) ForgotPassword() *ForgotPasswordController {
	c := &ForgotPasswordController{}
	c.init(e, ScreenForgotPassword, nil)
	return c
}

// Submit requests a recovery email. On success the screen switches to its
// confirmation state showing the submitted email.
func (c *ForgotPasswordController) Submit(ctx context.Context, email string) error {
	var message string
	return c.submit(ctx, func(ctx context.Context) error {
		var err error
		message, err = c.engine.flows.ForgotPassword(ctx, flows.EmailForm{Email: email})
		return err
	}, func(s *State) {
		s.Email = email
		s.Message = message
	})
}

// Resend returns from the confirmation to the input form, clearing the
// previous success and error. The email stays filled in.
func (c *ForgotPasswordController) Resend() {
	c.update(func(s *State) {
		if s.Submitting {
			return
		}
		s.Status = StatusIdle
		s.Error = ""
		s.Message = ""
	})
}
