package goAuthFlow

import (
	"context"

	"github.com/MrEthical07/goAuthFlow/internal/flows"
)

// LoginForm is the data entered on the login screen.
type LoginForm = flows.LoginForm

// LoginController drives the login screen.
type LoginController struct {
	controller
}

// Login mounts the login screen. A message handed over by the previous
// screen (for example a verification confirmation) is shown until the first
// submit fails or succeeds.
func (e *Engine) Login(from NavigationState) *LoginController {
	c := &LoginController{}
	c.state.Message = from.Message
	c.state.Email = from.Email
	c.init(e, ScreenLogin, nil)
	return c
}

// Submit logs in. On success the token, user and expiration overwrite the
// persisted session and the host is sent home.
func (c *LoginController) Submit(ctx context.Context, form LoginForm) error {
	err := c.submit(ctx, func(ctx context.Context) error {
		_, err := c.engine.flows.Login(ctx, form)
		return err
	}, func(s *State) {
		s.Email = form.Email
		s.Message = ""
	})
	if err != nil {
		return err
	}

	c.navigate(Navigation{To: ScreenHome})
	return nil
}
