package flows

import (
	"context"
	"errors"
	"fmt"

	"github.com/MrEthical07/goAuthFlow/api"
	"github.com/samber/oops"
)

// Error codes attached to unexpected flow failures.
const (
	CodeCallPanic = "FLOW_CALL_PANIC"
	CodePersist   = "SESSION_PERSIST"
	CodeLoginData = "LOGIN_DATA"
)

// RejectedError is a backend answer with success false. Message is the
// backend's text, or the screen fallback when it sent none.
type RejectedError struct {
	Message string
	// Kind tells a real backend rejection (api.KindNone) from a synthesized
	// connection failure.
	Kind api.Kind
	// Err is set for connection failures and matches the connection error
	// under errors.Is.
	Err error
}

func (e *RejectedError) Error() string {
	return e.Message
}

func (e *RejectedError) Unwrap() error {
	return e.Err
}

// invoke runs one backend call. A panic anywhere in the call path becomes
// connErr so the caller still settles the submit.
func invoke(ctx context.Context, fn func(context.Context) api.Result, connErr error) (res api.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = oops.Code(CodeCallPanic).With("panic", fmt.Sprint(r)).Wrap(connErr)
		}
	}()
	return fn(ctx), nil
}

// rejection returns nil when the backend reported success.
func rejection(res api.Result, fallback string, connErr error) *RejectedError {
	if res.Response.Success {
		return nil
	}
	rej := &RejectedError{Message: res.Response.MessageOr(fallback), Kind: res.Kind}
	if res.Kind != api.KindNone {
		rej.Err = errors.Join(connErr, res.Err)
	}
	return rej
}

func persistFailure(event string, persistErr, err error) error {
	return oops.Code(CodePersist).With("event", event).Wrap(fmt.Errorf("%w: %w", persistErr, err))
}

// settle records the end of a submit in metrics, audit and logs and returns
// err unchanged.
func (h Hooks) settle(ctx context.Context, event string, m OutcomeMetrics, email string, err error, metadata func() map[string]string) error {
	if err == nil {
		h.MetricInc(m.Success)
		h.EmitAudit(ctx, event, true, email, nil, metadata)
		h.Logger.Debug().Str("event", event).Msg("submit succeeded")
		return nil
	}

	var rej *RejectedError
	if errors.As(err, &rej) {
		if rej.Kind == api.KindNone {
			h.MetricInc(m.Rejected)
		} else {
			h.MetricInc(m.Failed)
		}
		h.EmitAudit(ctx, event, false, email, err, func() map[string]string {
			md := map[string]string{"kind": rej.Kind.String()}
			if metadata != nil {
				for k, v := range metadata() {
					md[k] = v
				}
			}
			return md
		})
		h.Logger.Info().Str("event", event).Str("kind", rej.Kind.String()).Str("message", rej.Message).Msg("submit rejected")
		return err
	}

	h.MetricInc(m.Failed)
	h.EmitAudit(ctx, event, false, email, err, metadata)
	ev := h.Logger.Error().Str("event", event)
	if oopsErr, ok := oops.AsOops(err); ok {
		ev = ev.Str("code", fmt.Sprint(oopsErr.Code()))
	}
	ev.Err(err).Msg("submit failed")
	return err
}

// invalid records a local validation failure. No backend call was made.
func (h Hooks) invalid(ctx context.Context, event string, m OutcomeMetrics, email, reason string, err error) error {
	h.MetricInc(m.Invalid)
	h.EmitAudit(ctx, event, false, email, err, func() map[string]string {
		return map[string]string{"reason": reason}
	})
	h.Logger.Debug().Str("event", event).Str("reason", reason).Msg("submit blocked by validation")
	return err
}
