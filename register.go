package goAuthFlow

import (
	"context"

	"github.com/MrEthical07/goAuthFlow/internal/flows"
)

// RegisterForm is the data entered on the register screen.
type RegisterForm = flows.RegisterForm

// RegisterController drives the register screen.
type RegisterController struct {
	controller
}

// Register mounts the register screen.
func (e *Engine) Register() *RegisterController {
	c := &RegisterController{}
	c.init(e, ScreenRegister, nil)
	return c
}

// Submit validates form and registers the account. On success the email is
// remembered as pending verification and the host is sent to the verify
// screen with the email and the backend message.
func (c *RegisterController) Submit(ctx context.Context, form RegisterForm) error {
	var res flows.RegisterResult
	err := c.submit(ctx, func(ctx context.Context) error {
		var err error
		res, err = c.engine.flows.Register(ctx, form)
		return err
	}, func(s *State) {
		s.Email = res.Email
		s.Message = res.Message
	})
	if err != nil {
		return err
	}

	c.navigate(Navigation{
		To:    ScreenVerifyEmail,
		State: NavigationState{Email: res.Email, Message: res.Message},
	})
	return nil
}
