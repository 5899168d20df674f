package goAuthFlow

import (
	"context"

	"github.com/MrEthical07/goAuthFlow/internal/flows"
	"github.com/MrEthical07/goAuthFlow/session"
)

// VerifyEmailController drives the verify email screen: the six code cells,
// the submit and the resend action.
type VerifyEmailController struct {
	controller

	code      CodeInput
	resending bool
}

// VerifyEmail mounts the verify screen. The email comes from the navigation
// state, falling back to the persisted pending-verification email so the
// screen survives a restart between registering and verifying.
func (e *Engine) VerifyEmail(ctx context.Context, from NavigationState) *VerifyEmailController {
	c := &VerifyEmailController{}
	c.final = true
	c.state.Email = from.Email
	c.state.Message = from.Message
	if c.state.Email == "" && e.store != nil {
		if pending, err := session.PendingEmail(ctx, e.store); err == nil {
			c.state.Email = pending
		} else {
			e.logger.Warn().Err(err).Msg("pending verification email unavailable")
		}
	}
	c.init(e, ScreenVerifyEmail, c.code.Complete)
	return c
}

// SetDigit types value into cell i. See CodeInput.Set.
func (c *VerifyEmailController) SetDigit(i int, value string) bool {
	return c.withCode(func(ci *CodeInput) bool { return ci.Set(i, value) })
}

// Backspace handles the delete key on cell i.
func (c *VerifyEmailController) Backspace(i int) {
	c.withCode(func(ci *CodeInput) bool { ci.Backspace(i); return true })
}

// Paste distributes pasted digits over the cells. See CodeInput.Paste.
func (c *VerifyEmailController) Paste(text string) bool {
	return c.withCode(func(ci *CodeInput) bool { return ci.Paste(text) })
}

// Cells returns the current cell values.
func (c *VerifyEmailController) Cells() [CodeLength]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.code.Cells()
}

// Focus returns the focused cell.
func (c *VerifyEmailController) Focus() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.code.Focus()
}

func (c *VerifyEmailController) withCode(fn func(*CodeInput) bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy || c.closed || c.done {
		return false
	}
	ok := fn(&c.code)
	c.refreshLocked()
	return ok
}

// Submit sends the six digits. On success the pending email is forgotten and
// the host is sent to login with a confirmation after the configured delay.
// The screen then accepts no further submits.
func (c *VerifyEmailController) Submit(ctx context.Context) error {
	c.mu.Lock()
	form := flows.VerifyEmailForm{Code: c.code.Code(), Email: c.state.Email}
	c.mu.Unlock()

	var message string
	err := c.submit(ctx, func(ctx context.Context) error {
		var err error
		message, err = c.engine.flows.VerifyEmail(ctx, form)
		return err
	}, func(s *State) {
		s.Message = ConfirmEmailVerified
		if message != "" {
			s.Message = message
		}
	})
	if err != nil {
		return err
	}

	c.navigateAfter(c.engine.config.Flow.VerifyRedirectDelay, Navigation{
		To:    ScreenLogin,
		State: NavigationState{Email: form.Email, Message: ConfirmEmailVerified},
	})
	return nil
}

// ResendCode asks for a new code. The outcome is reported in State.Notice,
// never in State.Error, and does not depend on the submit busy flag.
func (c *VerifyEmailController) ResendCode(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return "", ErrClosed
	}
	if c.resending {
		c.mu.Unlock()
		c.engine.metricInc(MetricSubmitBusy)
		return "", ErrBusy
	}
	if !c.engine.flows.Initialized() {
		c.mu.Unlock()
		return "", ErrEngineNotReady
	}
	c.resending = true
	c.state.Notice = ""
	email := c.state.Email
	c.mu.Unlock()

	var notice string
	var err error
	defer func() {
		c.mu.Lock()
		c.resending = false
		c.state.Notice = notice
		c.mu.Unlock()
	}()

	notice, err = c.engine.flows.ResendVerification(submitContext(ctx, c.screen), email)
	if err != nil {
		notice = DisplayMessage(err)
	}
	return notice, err
}
